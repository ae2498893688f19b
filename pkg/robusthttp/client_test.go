package robusthttp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api.json":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"version":"1.0.0","modules":[]}`))
		case "/big":
			w.Write(make([]byte, 2048))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewClient(WithMaxRetries(0))

	body, ctype, err := Fetch(ctx, client, srv.URL+"/api.json", 0)
	require.NoError(t, err)
	assert.Equal("application/json", ctype)
	assert.Contains(string(body), `"version":"1.0.0"`)

	_, _, err = Fetch(ctx, client, srv.URL+"/missing", 0)
	assert.Error(err)

	_, _, err = Fetch(ctx, client, srv.URL+"/big", 1024)
	assert.ErrorIs(err, ErrTooLarge)
}

func TestRetries(t *testing.T) {
	assert := assert.New(t)

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client := NewClient(
		WithMaxRetries(3),
		WithRetryWait(time.Millisecond, 5*time.Millisecond),
		WithTimeout(5*time.Second),
	)
	body, _, err := Fetch(context.Background(), client, srv.URL, 0)
	require.NoError(t, err)
	assert.Equal("ok", string(body))
	assert.Equal(int32(3), hits.Load())
}

func TestNoRetryOnTooManyRequests(t *testing.T) {
	assert := assert.New(t)

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(WithMaxRetries(3), WithRetryWait(time.Millisecond, time.Millisecond))
	_, _, err := Fetch(context.Background(), client, srv.URL, 0)
	assert.Error(err)
	assert.Equal(int32(1), hits.Load())
}
