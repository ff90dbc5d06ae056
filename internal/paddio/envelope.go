package paddio

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/paddio-admin/internal/config"
)

const (
	envelopeArray = "array"
	envelopeData  = "data"
)

var emptyArray = json.RawMessage("[]")

// Unwrap extracts the record array from a list response. The resource's
// declared envelope is tried first; if the body does not have that shape the
// known shapes are probed in order: bare array, "data", the named key and the
// fallback key. An unrecognized body yields an empty array and ok=false.
func Unwrap(name string, body []byte, res config.Resource) (items json.RawMessage, ok bool) {
	body = bytes.TrimSpace(body)
	if arr, found := pick(body, res.Envelope); found {
		return arr, true
	}

	candidates := []string{envelopeArray, envelopeData}
	if res.Envelope != envelopeArray && res.Envelope != envelopeData && res.Envelope != "" {
		candidates = append(candidates, res.Envelope)
	}
	if res.Fallback != "" {
		candidates = append(candidates, res.Fallback)
	}
	for _, shape := range candidates {
		if shape == res.Envelope {
			continue
		}
		if arr, found := pick(body, shape); found {
			log.Warn("Response shape differs from the declared envelope", "resource", name, "declared", res.Envelope, "actual", shape)
			return arr, true
		}
	}

	log.Warn("Unrecognized list response, treating as empty", "resource", name, "declared", res.Envelope, "bytes", len(body))
	return emptyArray, false
}

func pick(body []byte, shape string) (json.RawMessage, bool) {
	if shape == "" {
		return nil, false
	}
	if shape == envelopeArray {
		if isArray(body) {
			return json.RawMessage(body), true
		}
		return nil, false
	}
	if len(body) == 0 || body[0] != '{' {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, false
	}
	raw, found := obj[shape]
	if !found {
		return nil, false
	}
	raw = bytes.TrimSpace(raw)
	if !isArray(raw) {
		return nil, false
	}
	return raw, true
}

func isArray(raw []byte) bool {
	return len(raw) > 0 && raw[0] == '['
}

// Collection fetches a resource and decodes it into []T. A body that is not a
// valid array of T is logged and treated as empty; transport and HTTP errors
// are returned.
func Collection[T any](ctx context.Context, api API, resource string) ([]T, error) {
	raw, err := api.FetchCollection(ctx, resource)
	if err != nil {
		return nil, err
	}
	return decodeItems[T](resource, raw), nil
}

func decodeItems[T any](resource string, raw json.RawMessage) []T {
	items := []T{}
	if len(raw) == 0 {
		return items
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Warn("Failed to decode list items, treating as empty", "resource", resource, "error", err)
		return []T{}
	}
	return items
}
