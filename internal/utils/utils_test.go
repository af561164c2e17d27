package utils

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserContext(t *testing.T) {
	ctx := SetUserContext(context.Background(), 42, "farmer@example.com", RoleFarmer)

	t.Run("GetUserID", func(t *testing.T) {
		id, ok := GetUserIDFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, uint(42), id)
	})

	t.Run("GetUserID missing", func(t *testing.T) {
		_, ok := GetUserIDFromContext(context.Background())
		assert.False(t, ok)
	})

	t.Run("GetEmail", func(t *testing.T) {
		assert.Equal(t, "farmer@example.com", GetUserEmailFromContext(ctx))
	})

	t.Run("GetRole", func(t *testing.T) {
		assert.Equal(t, RoleFarmer, GetUserRoleFromContext(ctx))
		assert.Equal(t, "", GetUserRoleFromContext(context.Background()))
	})
}

func TestToUint(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		n, err := ToUint("123")
		assert.NoError(t, err)
		assert.Equal(t, uint(123), n)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := ToUint("abc")
		assert.Error(t, err)
	})

	t.Run("Negative", func(t *testing.T) {
		_, err := ToUint("-1")
		assert.Error(t, err)
	})
}

func TestWriteJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSONError(w, "order not found", 404)

	assert.Equal(t, 404, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "order not found", body["error"])
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, 200, map[string]int{"count": 3})

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), `"count":3`)
}

func TestGeneratePayoutReference(t *testing.T) {
	t.Run("Format", func(t *testing.T) {
		ref := GeneratePayoutReference()
		// Expected format: PYT-YYYYMMDD-HHMMSS-mmm-RRRR

		assert.True(t, strings.HasPrefix(ref, "PYT-"), "Should start with PYT-")

		parts := strings.Split(ref, "-")
		if assert.Len(t, parts, 5, "Should have 5 parts separated by hyphens") {
			assert.Equal(t, "PYT", parts[0])
			assert.Len(t, parts[1], 8, "Date part YYYYMMDD should be 8 chars")
			assert.Len(t, parts[2], 6, "Time part HHMMSS should be 6 chars")
			assert.Len(t, parts[3], 3, "Milliseconds part should be 3 chars")
			assert.Len(t, parts[4], 4, "Random part should be 4 chars")
		}
	})

	t.Run("Uniqueness", func(t *testing.T) {
		assert.NotEqual(t, GeneratePayoutReference(), GeneratePayoutReference())
	})
}
