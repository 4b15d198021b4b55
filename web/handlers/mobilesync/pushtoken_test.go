package mobilesync

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"fieldsync.com/fieldsync/core/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const expoToken = "ExponentPushToken[AbC123_-xYz]"

func TestPushTokenPutUpsertsByToken(t *testing.T) {
	db := newTestDB(t)
	h := pushTokenHandler{noBatch{"expopushtokens"}}

	first := h.Put(context.Background(), db, json.RawMessage(
		`{"token":"`+expoToken+`","userId":"u1","platform":"ios"}`))
	require.True(t, first.Success, first.Message)

	// Same token again re-registers instead of duplicating.
	second := h.Put(context.Background(), db, json.RawMessage(
		`{"token":"`+expoToken+`","userId":"u2","platform":"android"}`))
	require.True(t, second.Success, second.Message)

	var rows []models.ExpoPushToken
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "u2", strVal(rows[0].UserID))
	assert.Equal(t, "android", strVal(rows[0].Platform))
}

func TestPushTokenPutValidation(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing token", `{"userId":"u1"}`},
		{"malformed token", `{"token":"not-a-push-token"}`},
		{"missing brackets", `{"token":"ExponentPushTokenAbC123"}`},
		{"unknown platform", `{"token":"` + expoToken + `","platform":"web"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			h := pushTokenHandler{noBatch{"expopushtokens"}}

			res := h.Put(context.Background(), db, json.RawMessage(tt.data))
			assert.Equal(t, http.StatusBadRequest, res.Status)
			assert.Equal(t, ErrValidation, res.Error)
		})
	}
}

func TestPushTokenLegacySpelling(t *testing.T) {
	db := newTestDB(t)
	h := pushTokenHandler{noBatch{"expopushtokens"}}

	res := h.Put(context.Background(), db, json.RawMessage(`{"token":"ExpoPushToken[abc]"}`))
	assert.True(t, res.Success, res.Message)
}

func TestPushTokenDeleteByTokenValue(t *testing.T) {
	db := newTestDB(t)
	h := pushTokenHandler{noBatch{"expopushtokens"}}

	require.NoError(t, db.Create(&models.ExpoPushToken{Token: expoToken}).Error)

	res := h.Delete(context.Background(), db, expoToken)
	require.True(t, res.Success)

	res = h.Delete(context.Background(), db, expoToken)
	assert.Equal(t, http.StatusNotFound, res.Status)
}
