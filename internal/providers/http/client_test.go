package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("creates client with default config", func(t *testing.T) {
		client := NewClient(DefaultClientConfig())

		assert.NotNil(t, client)
		assert.Equal(t, 30*time.Second, client.GetTimeout())
		assert.Equal(t, 0, client.GetMaxRetries())
	})

	t.Run("creates client with custom config", func(t *testing.T) {
		client := NewClient(ClientConfig{
			Timeout:    10 * time.Second,
			MaxRetries: 2,
			UserAgent:  "test-agent/1.0",
		})

		assert.Equal(t, 10*time.Second, client.GetTimeout())
		assert.Equal(t, 2, client.GetMaxRetries())
	})

	t.Run("clamps negative retries", func(t *testing.T) {
		client := NewClient(ClientConfig{MaxRetries: -4})
		assert.Equal(t, 0, client.GetMaxRetries())
	})
}

func TestClient_Get(t *testing.T) {
	t.Run("sends user agent", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "GET", r.Method)
			assert.Equal(t, "test-agent/1.0", r.Header.Get("User-Agent"))
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := NewClient(ClientConfig{UserAgent: "test-agent/1.0"})
		resp, err := client.Get(context.Background(), server.URL, nil)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode())
	})

	t.Run("non-2xx is a StatusError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("not found"))
		}))
		defer server.Close()

		client := NewClient(DefaultClientConfig())
		_, err := client.Get(context.Background(), server.URL, nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
		assert.True(t, IsStatus(err, http.StatusNotFound))
	})

	t.Run("single failure is not retried by default", func(t *testing.T) {
		attempts := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewClient(DefaultClientConfig())
		_, err := client.Get(context.Background(), server.URL, nil)

		require.Error(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("retries server errors when configured", func(t *testing.T) {
		attempts := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			if attempts < 3 {
				w.WriteHeader(http.StatusInternalServerError)
			} else {
				w.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		client := NewClient(ClientConfig{Timeout: 10 * time.Second, MaxRetries: 3})
		resp, err := client.Get(context.Background(), server.URL, nil)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode())
		assert.Equal(t, 3, attempts)
	})

	t.Run("handles context cancellation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := NewClient(DefaultClientConfig())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.Get(ctx, server.URL, nil)
		require.Error(t, err)
	})
}

func TestClient_GetJSON(t *testing.T) {
	t.Run("decodes body and encodes params", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/search", r.URL.Path)
			assert.Equal(t, "frieren", r.URL.Query().Get("q"))
			assert.Equal(t, "2", r.URL.Query().Get("page"))
			_, _ = w.Write([]byte(`{"status": "success"}`))
		}))
		defer server.Close()

		client := NewClient(DefaultClientConfig())
		var out struct {
			Status string `json:"status"`
		}
		err := client.GetJSON(context.Background(), server.URL+"/", "/search", map[string]string{"q": "frieren", "page": "2"}, &out)

		require.NoError(t, err)
		assert.Equal(t, "success", out.Status)
	})

	t.Run("reports malformed JSON", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		}))
		defer server.Close()

		client := NewClient(DefaultClientConfig())
		var out map[string]any
		err := client.GetJSON(context.Background(), server.URL, "/home", nil, &out)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse response")
	})
}

func TestBuildURL(t *testing.T) {
	u, err := BuildURL("https://example.com/anime/kura/", "/search/one%20piece", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/anime/kura/search/one%20piece", u)

	_, err = BuildURL("://bad", "/x", nil)
	assert.Error(t, err)
}
