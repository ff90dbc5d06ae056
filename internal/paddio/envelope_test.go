package paddio

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mauv0809/paddio-admin/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnwrap(t *testing.T) {
	admins := config.Resource{Envelope: "admins", Fallback: "super_admins"}
	data := config.Resource{Envelope: "data"}
	array := config.Resource{Envelope: "array"}

	tests := []struct {
		name   string
		res    config.Resource
		body   string
		want   string
		wantOK bool
	}{
		{"declared named key", admins, `{"admins":[{"id":1}]}`, `[{"id":1}]`, true},
		{"fallback key", admins, `{"super_admins":[{"id":2}]}`, `[{"id":2}]`, true},
		{"bare array for keyed resource", admins, `[{"id":3}]`, `[{"id":3}]`, true},
		{"declared data", data, `{"data":[],"total":0}`, `[]`, true},
		{"data for array resource", array, `{"data":[{"id":4}]}`, `[{"id":4}]`, true},
		{"key is not an array", data, `{"data":{"id":1}}`, `[]`, false},
		{"unknown object", array, `{"items":[{"id":1}]}`, `[]`, false},
		{"scalar", array, `42`, `[]`, false},
		{"empty body", array, ``, `[]`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, ok := Unwrap("test", []byte(tt.body), tt.res)
			assert.Equal(t, tt.wantOK, ok)
			assert.JSONEq(t, tt.want, string(items))
		})
	}
}

func TestCollection_DecodeFailureIsEmpty(t *testing.T) {
	mock := NewMockClient()
	mock.FetchCollectionFunc = func(resource string) (json.RawMessage, error) {
		return json.RawMessage(`[{"id":"not-a-number"}]`), nil
	}

	clubs, err := Collection[Club](context.Background(), mock, "clubs")

	require.NoError(t, err)
	assert.NotNil(t, clubs)
	assert.Empty(t, clubs)
	assert.Equal(t, []string{"clubs"}, mock.FetchCollectionCalls)
}

func TestCollection_MockWithCollection(t *testing.T) {
	mock := NewMockClient().WithCollection("clubs", []Club{{ID: 1, Name: "Norte"}})

	clubs, err := Collection[Club](context.Background(), mock, "clubs")
	require.NoError(t, err)
	require.Len(t, clubs, 1)
	assert.Equal(t, "Norte", clubs[0].Name)

	users, err := Collection[User](context.Background(), mock, "users")
	require.NoError(t, err)
	assert.Empty(t, users)
}
