package ratelimiter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ant0ine/go-json-rest/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		rps       uint
		burst     uint
		wantBurst int
	}{
		{name: "explicit burst", rps: 100, burst: 150, wantBurst: 150},
		{name: "default burst", rps: 10, burst: 0, wantBurst: 20},
		{name: "unlimited", rps: 0, burst: 0, wantBurst: unlimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := New(tt.rps, tt.burst)
			require.NotNil(t, limiter)
			assert.Equal(t, tt.wantBurst, limiter.limiter.Burst())
		})
	}
}

func TestAllow(t *testing.T) {
	limiter := New(10, 10)

	for i := 0; i < 10; i++ {
		require.True(t, limiter.Allow(), "request %d is within burst", i)
	}
	assert.False(t, limiter.Allow(), "bucket should be empty")
}

func TestMiddleware(t *testing.T) {
	api := rest.NewApi()
	api.Use(&Middleware{Limiter: New(1, 1)})
	router, err := rest.MakeRouter(
		rest.Get("/ping", func(w rest.ResponseWriter, r *rest.Request) {
			_ = w.WriteJson(map[string]string{"pong": "ok"})
		}),
	)
	require.NoError(t, err)
	api.SetApp(router)

	server := httptest.NewServer(api.MakeHandler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/ping")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(server.URL + "/ping")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))
}

func TestMiddlewareNilLimiter(t *testing.T) {
	m := &Middleware{}
	called := false
	h := m.MiddlewareFunc(func(w rest.ResponseWriter, r *rest.Request) { called = true })

	h(nil, nil)
	assert.True(t, called)
}
