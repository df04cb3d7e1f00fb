package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"ow2stats/internal/config"
	"ow2stats/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStatsClient(baseURL string) *StatsClient {
	cfg := config.Default()
	cfg.BaseURL = baseURL
	cfg.Timeout = 2
	return NewStatsClient(cfg)
}

func TestRankedFlag(t *testing.T) {
	assert.Equal(t, "1", RankedFlag("Competitive"))
	assert.Equal(t, "1", RankedFlag("competitive"))
	assert.Equal(t, "1", RankedFlag("COMPETITIVE"))
	assert.Equal(t, "0", RankedFlag("Quick Play"))
	assert.Equal(t, "0", RankedFlag("Arcade"))
	assert.Equal(t, "0", RankedFlag(""))
}

func TestBuildURL(t *testing.T) {
	c := newTestStatsClient("https://example.test/rates/data/")

	t.Run("quick play all maps", func(t *testing.T) {
		got := c.BuildURL(domain.Configuration{Platform: "PC", Region: "Americas", Gamemode: "Quick Play", Map: "All", Tier: "All"})
		assert.Equal(t, "https://example.test/rates/data/?input=PC&map=all-maps&region=Americas&role=all&rq=0&tier=All", got)
	})

	t.Run("competitive named map", func(t *testing.T) {
		got := c.BuildURL(domain.Configuration{Platform: "Console", Region: "Europe", Gamemode: "Competitive", Map: "Lijiang Tower", Tier: "Gold"})
		assert.Equal(t, "https://example.test/rates/data/?input=Console&map=lijiang-tower&region=Europe&role=all&rq=1&tier=Gold", got)
	})
}

func TestGetRates(t *testing.T) {
	conf := domain.Configuration{Platform: "PC", Region: "Americas", Gamemode: "Quick Play", Map: "All", Tier: "All"}

	t.Run("valid envelope", func(t *testing.T) {
		var gotQuery string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"selected":{"input":"PC"},"extrema":{},"rates":[{"id":"genji","cells":{"pickrate":12.5,"winrate":48.2},"hero":{"name":"Genji","role":"damage"}}]}`))
		}))
		defer srv.Close()

		env, err := newTestStatsClient(srv.URL).GetRates(context.Background(), conf)
		require.NoError(t, err)
		require.Len(t, env.Rates, 1)
		assert.Equal(t, "input=PC&map=all-maps&region=Americas&role=all&rq=0&tier=All", gotQuery)

		rate, err := DecodeHeroRate(env.Rates[0])
		require.NoError(t, err)
		assert.Equal(t, "genji", rate.ID)
		assert.Equal(t, 12.5, rate.Cells.PickRate)
		assert.Equal(t, 48.2, rate.Cells.WinRate)
		assert.Equal(t, "damage", rate.Hero.Role)
	})

	t.Run("non-2xx is a transport error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := newTestStatsClient(srv.URL).GetRates(context.Background(), conf)
		assert.ErrorIs(t, err, ErrTransport)
	})

	t.Run("connection refused is a transport error", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := newTestStatsClient(url).GetRates(context.Background(), conf)
		assert.ErrorIs(t, err, ErrTransport)
	})

	t.Run("missing selected is malformed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"rates":[]}`))
		}))
		defer srv.Close()

		_, err := newTestStatsClient(srv.URL).GetRates(context.Background(), conf)
		assert.ErrorIs(t, err, ErrMalformedResponse)
		assert.False(t, errors.Is(err, ErrTransport))
	})

	t.Run("invalid json is malformed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>not json</html>`))
		}))
		defer srv.Close()

		_, err := newTestStatsClient(srv.URL).GetRates(context.Background(), conf)
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("redirect is followed", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/old/rates/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/rates/data/?"+r.URL.RawQuery, http.StatusFound)
		})
		var gotQuery string
		mux.HandleFunc("/rates/data/", func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery
			w.Write([]byte(`{"selected":{},"rates":[{"id":"ana","cells":{"pickrate":1,"winrate":2}}]}`))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		env, err := newTestStatsClient(srv.URL+"/old/rates/").GetRates(context.Background(), conf)
		require.NoError(t, err)
		assert.Len(t, env.Rates, 1)
		assert.Equal(t, "input=PC&map=all-maps&region=Americas&role=all&rq=0&tier=All", gotQuery)
	})

	t.Run("redirect loop is a transport error", func(t *testing.T) {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			http.Redirect(w, r, r.URL.Path, http.StatusMovedPermanently)
		}))
		defer srv.Close()

		_, err := newTestStatsClient(srv.URL+"/loop").GetRates(context.Background(), conf)
		assert.ErrorIs(t, err, ErrTransport)
		assert.EqualValues(t, maxRedirects+1, hits.Load())
	})

	t.Run("slow server is a transport error", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		cfg := config.Default()
		cfg.BaseURL = srv.URL
		cfg.Timeout = 1

		start := time.Now()
		_, err := NewStatsClient(cfg).GetRates(context.Background(), conf)
		assert.ErrorIs(t, err, ErrTransport)
		assert.Less(t, time.Since(start), 5*time.Second)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newTestStatsClient("http://127.0.0.1:1").GetRates(ctx, conf)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDecodeHeroRate(t *testing.T) {
	_, err := DecodeHeroRate([]byte(`{"cells":{"pickrate":1,"winrate":2}}`))
	assert.ErrorIs(t, err, ErrRowConstruction)

	_, err = DecodeHeroRate([]byte(`{"id":"ana","hero":{"name":"Ana"}}`))
	assert.ErrorIs(t, err, ErrRowConstruction)

	_, err = DecodeHeroRate([]byte(`{"id":"ana","cells":{"pickrate":"high","winrate":2}}`))
	assert.ErrorIs(t, err, ErrRowConstruction)

	rate, err := DecodeHeroRate([]byte(`{"id":"ana","cells":{"pickrate":7,"winrate":51.5}}`))
	require.NoError(t, err)
	assert.Equal(t, 51.5, rate.Cells.WinRate)
}
