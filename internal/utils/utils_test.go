package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  int64
		expectErr bool
	}{
		{name: "Valid number", input: "123", expected: 123},
		{name: "Padded", input: " 7 ", expected: 7},
		{name: "Zero", input: "0", expectErr: true},
		{name: "Negative number", input: "-1", expectErr: true},
		{name: "Non-numeric string", input: "abc", expectErr: true},
		{name: "Empty string", input: "", expectErr: true},
		{name: "Overflow", input: "99999999999999999999", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseID(tt.input)
			if tt.expectErr {
				assert.ErrorIs(t, err, ErrInvalidID)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestPtrHelpers(t *testing.T) {
	ptr := StrPtr("test string")
	require.NotNil(t, ptr)
	assert.Equal(t, "test string", *ptr)

	assert.Equal(t, "", PtrString(nil))
	assert.Equal(t, "x", PtrString(StrPtr("x")))

	assert.Nil(t, TrimPtr(nil))
	assert.Equal(t, "a b", *TrimPtr(StrPtr("  a b ")))
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusCreated, map[string]any{"success": true, "orderId": 5})

	resp := w.Result()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(5), body["orderId"])
}

func TestWriteJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSONError(w, "error message", http.StatusBadRequest)

	resp := w.Result()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "error message", body["error"])
	assert.Equal(t, false, body["success"])
	_, hasReason := body["reason"]
	assert.False(t, hasReason)
}

func TestWriteRejection(t *testing.T) {
	w := httptest.NewRecorder()
	WriteRejection(w, "Order items required", "no_items", http.StatusBadRequest)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "no_items", body.Reason)
	assert.False(t, body.Success)
}
