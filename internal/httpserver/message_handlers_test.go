package httpserver

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helplink/internal/domain"
	"helplink/internal/service"
)

type stubStorage struct{}

func (stubStorage) Upload(ctx context.Context, r io.Reader, folder, filename, contentType string) (string, error) {
	return folder + "/object", nil
}

func (stubStorage) Delete(ctx context.Context, path string) error { return nil }

func (stubStorage) ResolveURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	return "https://files.example.com/" + path, nil
}

func newSendMessageRequest(body io.Reader, contentType string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/chats/1/messages", body)
	req.Header.Set("Content-Type", contentType)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("chatID", "1")
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = WithUser(ctx, &domain.User{ID: 1})
	return req.WithContext(ctx)
}

func TestSendMessageRequiresAttachment(t *testing.T) {
	// Validation fails before the service is touched.
	handler := handleSendMessage(service.NewChatService(nil, nil, nil, nil), stubStorage{}, 1<<20)

	t.Run("MultipartPhotoWithoutFiles", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("message_type", "photo"))
		require.NoError(t, mw.WriteField("content", "caption"))
		require.NoError(t, mw.Close())

		rec := httptest.NewRecorder()
		handler(rec, newSendMessageRequest(&buf, mw.FormDataContentType()))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("JSONVideoWithoutFiles", func(t *testing.T) {
		body := strings.NewReader(`{"content":"look","message_type":"video"}`)

		rec := httptest.NewRecorder()
		handler(rec, newSendMessageRequest(body, "application/json"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
