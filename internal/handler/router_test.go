package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esvchat/bible-chat/backend/internal/middleware"
	"github.com/esvchat/bible-chat/backend/internal/model/chat"
	"github.com/esvchat/bible-chat/backend/internal/model/persona"
	chatservice "github.com/esvchat/bible-chat/backend/internal/service/chat"
	"github.com/esvchat/bible-chat/backend/internal/service/session"
)

type echoRemote struct {
	historyLens []int
}

func (e *echoRemote) Generate(_ context.Context, history []chat.Turn, message string) (string, error) {
	e.historyLens = append(e.historyLens, len(history))
	return "echo: " + message, nil
}

func newTestRouter(t *testing.T) (http.Handler, *echoRemote) {
	t.Helper()
	sessions, err := middleware.NewSessionManager(middleware.SessionOptions{CookieName: "sid", Secret: "s", TTL: time.Hour})
	require.NoError(t, err)
	remote := &echoRemote{}
	svc := chatservice.NewService(remote, session.NewMemoryStore(time.Hour), persona.ESV())
	return NewRouter(svc, sessions), remote
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"status":"ok"}`, resp.Body.String())
	assert.Empty(t, resp.Result().Cookies())
}

func TestSessionsAreIsolatedByCookie(t *testing.T) {
	router, remote := newTestRouter(t)

	post := func(cookie *http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/ask", bytes.NewReader([]byte(`{"message":"hi"}`)))
		if cookie != nil {
			req.AddCookie(cookie)
		}
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		return resp
	}

	first := post(nil)
	require.Equal(t, http.StatusOK, first.Code)
	cookieA := first.Result().Cookies()[0]

	post(cookieA)
	second := post(nil)
	require.Equal(t, http.StatusOK, second.Code)

	assert.Equal(t, []int{2, 4, 2}, remote.historyLens)
}
