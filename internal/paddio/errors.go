package paddio

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// FallbackMessage is shown when the API gives no usable error detail.
const FallbackMessage = "Error al procesar la solicitud"

// ErrUnauthorized matches any APIError carrying HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx response from the Paddio API.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("paddio api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("paddio api: status %d: %s", e.StatusCode, e.Detail)
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// UserMessage returns the text to show the user for err: the server's detail
// when there is one, otherwise the generic fallback.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return FallbackMessage
}

// parseDetail extracts the error detail from a response body. The API answers
// with {"detail": "..."}, {"detail": [{"msg": "..."}]} or {"message": "..."}.
func parseDetail(body []byte) string {
	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if len(payload.Detail) > 0 {
		var text string
		if err := json.Unmarshal(payload.Detail, &text); err == nil {
			return text
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(payload.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, item := range items {
				if item.Msg != "" {
					msgs = append(msgs, item.Msg)
				}
			}
			return strings.Join(msgs, "; ")
		}
	}
	return payload.Message
}
