package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (http.Handler, *[]tgbotapi.Update) {
	t.Helper()
	var seen []tgbotapi.Update
	router := NewRouter("secret_path_12345", "123456", func(ctx context.Context, update tgbotapi.Update) {
		seen = append(seen, update)
	}, false)
	return router, &seen
}

func TestWebhookPath(t *testing.T) {
	assert.Equal(t, "/secret_path_12345/123456", WebhookPath("secret_path_12345", "123456"))
}

func TestWebhookAcceptsUpdate(t *testing.T) {
	router, seen := newTestRouter(t)

	body := `{"update_id": 42, "message": {"message_id": 1, "text": "hi", "chat": {"id": 7}, "from": {"id": 7}}}`
	req := httptest.NewRequest(http.MethodPost, "/secret_path_12345/123456", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, *seen, 1)
	assert.Equal(t, 42, (*seen)[0].UpdateID)
	assert.Equal(t, "hi", (*seen)[0].Message.Text)
}

func TestWebhookRejectsWrongContentType(t *testing.T) {
	router, seen := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/secret_path_12345/123456", strings.NewReader(`{"update_id": 1}`))
	req.Header.Set("Content-Type", "text/plain")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, *seen)
}

func TestWebhookSwallowsMalformedBody(t *testing.T) {
	router, seen := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/secret_path_12345/123456", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Telegram retries on non-2xx; a bad payload is acknowledged and dropped.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, *seen)
}

func TestWebhookUnknownPath(t *testing.T) {
	router, seen := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/wrong_secret/123456", strings.NewReader(`{"update_id": 1}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, *seen)
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
