package telegram_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"foodrelay/internal/adapters/out/telegram"
	"foodrelay/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMessenger(t *testing.T, handler http.HandlerFunc) *telegram.Messenger {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	m, err := telegram.NewMessenger(telegram.Config{
		APIURL:  server.URL + "/",
		Token:   "123:secret",
		Timeout: time.Second,
	}, nil)
	require.NoError(t, err)
	return m
}

func TestMessenger_Send(t *testing.T) {
	t.Run("should post markdown message to sendMessage", func(t *testing.T) {
		var (
			path    string
			payload map[string]any
		)
		m := newMessenger(t, func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			_, _ = io.WriteString(w, `{"ok":true,"result":{}}`)
		})

		err := m.Send(context.Background(), -100123, "**hello**")

		require.NoError(t, err)
		assert.Equal(t, "/bot123:secret/sendMessage", path)
		assert.InDelta(t, -100123, payload["chat_id"], 0)
		assert.Equal(t, "**hello**", payload["text"])
		assert.Equal(t, "Markdown", payload["parse_mode"])
	})

	t.Run("should fail when api answers not ok", func(t *testing.T) {
		m := newMessenger(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"ok":false,"description":"Bad Request: chat not found"}`)
		})

		err := m.Send(context.Background(), 1, "hi")

		var apiErr *telegram.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		assert.Contains(t, apiErr.Description, "chat not found")
	})

	t.Run("should fail on ok false with status 200", func(t *testing.T) {
		m := newMessenger(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `{"ok":false,"description":"flood"}`)
		})

		assert.Error(t, m.Send(context.Background(), 1, "hi"))
	})

	t.Run("should fail on non json error body", func(t *testing.T) {
		m := newMessenger(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		var apiErr *telegram.APIError
		require.ErrorAs(t, m.Send(context.Background(), 1, "hi"), &apiErr)
		assert.Equal(t, "Bad Gateway", apiErr.Description)
	})

	t.Run("should not leak token on transport error", func(t *testing.T) {
		m, err := telegram.NewMessenger(telegram.Config{APIURL: "http://127.0.0.1:1", Token: "123:secret"}, nil)
		require.NoError(t, err)

		err = m.Send(context.Background(), 1, "hi")

		require.Error(t, err)
		assert.NotContains(t, err.Error(), "secret")
	})
}

func TestNewMessenger_RequiresToken(t *testing.T) {
	_, err := telegram.NewMessenger(telegram.Config{}, nil)

	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestMessenger_Send_TimesOutWithInjectedClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(server.Close)

	m, err := telegram.NewMessenger(telegram.Config{
		APIURL:  server.URL,
		Token:   "123:secret",
		Timeout: 100 * time.Millisecond,
	}, &http.Client{})
	require.NoError(t, err)

	start := time.Now()
	err = m.Send(context.Background(), -100555, "hello")

	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.NotContains(t, err.Error(), "secret")
}
