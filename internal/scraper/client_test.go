package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestClient_Fetch(t *testing.T) {
	// The live page is Windows-1254; serve the same encoding here.
	body, err := charmap.Windows1254.NewEncoder().String("Cozum Niteligi: İlksel")
	require.NoError(t, err)

	var gotUserAgent atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent.Store(r.Header.Get("User-Agent"))
		w.Write([]byte(body))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithUserAgent("quake-data-test"))

	text, err := c.Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Cozum Niteligi: İlksel", text)
	assert.Equal(t, "quake-data-test", gotUserAgent.Load())
}

func TestClient_Fetch_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithRetries(3, time.Millisecond))

	text, err := c.Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_Fetch_ExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithRetries(2, time.Millisecond))

	_, err := c.Fetch(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_Fetch_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(srv.URL, WithRetries(3, time.Hour))

	_, err := c.Fetch(ctx)

	require.Error(t, err)
}
