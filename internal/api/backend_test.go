package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"ow2stats/internal/config"
	"ow2stats/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackendClient(t *testing.T, url string) *BackendClient {
	t.Helper()
	cfg := config.Default()
	cfg.BackendURL = url
	c, err := NewBackendClient(cfg, zerolog.Nop())
	require.NoError(t, err)
	return c
}

func sampleRecords() []domain.HeroStatsUpload {
	return []domain.HeroStatsUpload{
		{HeroID: "genji", PickRate: 12.5, WinRate: 48.2, Region: "americas", Platform: "pc", Gamemode: "quick play", Map: "all", Tier: "all"},
		{HeroID: "ana", PickRate: 20, WinRate: 51, Region: "americas", Platform: "pc", Gamemode: "quick play", Map: "all", Tier: "all"},
	}
}

func TestNewBackendClient(t *testing.T) {
	cfg := config.Default()
	cfg.BackendURL = ""
	_, err := NewBackendClient(cfg, zerolog.Nop())
	assert.ErrorIs(t, err, config.ErrMissingBackendURL)

	cfg.BackendURL = "http://backend.test:3000/"
	c, err := NewBackendClient(cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "http://backend.test:3000/api/v1/heroes/batch", c.BatchURL())
}

func TestUploadBatch(t *testing.T) {
	t.Run("posts one json array", func(t *testing.T) {
		var calls atomic.Int32
		var got []map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/v1/heroes/batch", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			body, _ := io.ReadAll(r.Body)
			assert.NoError(t, json.Unmarshal(body, &got))
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		c := newTestBackendClient(t, srv.URL)
		require.NoError(t, c.upload(context.Background(), sampleRecords()))

		assert.Equal(t, int32(1), calls.Load())
		require.Len(t, got, 2)
		assert.Equal(t, "genji", got[0]["hero_id"])
		assert.Equal(t, 12.5, got[0]["pick_rate"])
		assert.Equal(t, "", got[0]["map_type"])
		assert.Equal(t, "quick play", got[0]["gamemode"])
	})

	t.Run("empty batch makes no request", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
		}))
		defer srv.Close()

		c := newTestBackendClient(t, srv.URL)
		c.UploadBatch(context.Background(), nil)
		c.UploadBatch(context.Background(), []domain.HeroStatsUpload{})

		assert.Equal(t, int32(0), calls.Load())
	})

	t.Run("rejected batch is swallowed", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer srv.Close()

		c := newTestBackendClient(t, srv.URL)
		assert.ErrorIs(t, c.upload(context.Background(), sampleRecords()), ErrTransport)

		assert.NotPanics(t, func() {
			c.UploadBatch(context.Background(), sampleRecords())
		})
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("post does not follow redirects", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.Redirect(w, r, "/elsewhere", http.StatusTemporaryRedirect)
		}))
		defer srv.Close()

		c := newTestBackendClient(t, srv.URL)
		assert.ErrorIs(t, c.upload(context.Background(), sampleRecords()), ErrTransport)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("unreachable backend is swallowed", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c := newTestBackendClient(t, url)
		assert.ErrorIs(t, c.upload(context.Background(), sampleRecords()), ErrTransport)
		c.UploadBatch(context.Background(), sampleRecords())
	})
}
