package httpx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/idtoolkit/pkg/httpx"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func serve(h http.Handler, target, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIPKeyExtractor(t *testing.T) {
	t.Parallel()

	t.Run("extracts from RemoteAddr", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		require.Equal(t, "192.168.1.1", httpx.IPKeyExtractor(req))
	})

	t.Run("prefers X-Forwarded-For", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Forwarded-For", "203.0.113.1, 192.168.1.1")
		require.Equal(t, "203.0.113.1", httpx.IPKeyExtractor(req))
	})

	t.Run("uses X-Real-IP if X-Forwarded-For absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Real-IP", "203.0.113.2")
		require.Equal(t, "203.0.113.2", httpx.IPKeyExtractor(req))
	})
}

func TestCompositeKeyExtractor(t *testing.T) {
	t.Parallel()

	extract := httpx.CompositeKeyExtractor(":", httpx.IPKeyExtractor, httpx.QueryParamKeyExtractor("key"))

	req := httptest.NewRequest(http.MethodGet, "/?key=abc", nil)
	req.RemoteAddr = "10.0.0.1:1"
	require.Equal(t, "10.0.0.1:abc", extract(req))

	// Missing parts are skipped
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1"
	require.Equal(t, "10.0.0.1", extract(req))
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("blocks requests over limit", func(t *testing.T) {
		h := httpx.RateLimitByIP(httpx.RateLimitConfig{RequestsPerWindow: 3, Window: time.Minute, Burst: 3})(okHandler)

		for i := range 3 {
			require.Equal(t, http.StatusOK, serve(h, "/", "192.168.1.1:12345").Code, "request %d", i+1)
		}

		rec := serve(h, "/", "192.168.1.1:12345")
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.NotEmpty(t, rec.Header().Get("Retry-After"))
		require.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
		require.Equal(t, "1m0s", rec.Header().Get("X-RateLimit-Window"))

		var body httpx.ErrorEnvelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, http.StatusTooManyRequests, body.Error.Code)
		require.Equal(t, "TOO_MANY_ATTEMPTS_TRY_LATER", body.Error.Message)
	})

	t.Run("different keys are tracked separately", func(t *testing.T) {
		h := httpx.RateLimitByIPAndKey(httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1})(okHandler)

		require.Equal(t, http.StatusOK, serve(h, "/?key=a", "10.0.0.1:1").Code)
		require.Equal(t, http.StatusTooManyRequests, serve(h, "/?key=a", "10.0.0.1:1").Code)
		require.Equal(t, http.StatusOK, serve(h, "/?key=b", "10.0.0.1:1").Code)
		require.Equal(t, http.StatusOK, serve(h, "/?key=a", "10.0.0.2:1").Code)
	})

	t.Run("allows request when key extractor returns empty", func(t *testing.T) {
		empty := func(*http.Request) string { return "" }
		h := httpx.RateLimitMiddleware(httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}, empty)(okHandler)

		for range 3 {
			require.Equal(t, http.StatusOK, serve(h, "/", "10.0.0.1:1").Code)
		}
	})
}

func TestRateLimitProfiles(t *testing.T) {
	t.Parallel()

	require.Less(t, httpx.StrictLimit.RequestsPerWindow, httpx.ModerateLimit.RequestsPerWindow)
	require.Less(t, httpx.ModerateLimit.RequestsPerWindow, httpx.LenientLimit.RequestsPerWindow)
	require.Less(t, httpx.LenientLimit.RequestsPerWindow, httpx.PublicLimit.RequestsPerWindow)
}

func TestParseRateLimitFromEnv(t *testing.T) {
	defaults := httpx.RateLimitConfig{RequestsPerWindow: 10, Window: time.Minute, Burst: 10}

	t.Run("no env vars uses defaults", func(t *testing.T) {
		require.Equal(t, defaults, httpx.ParseRateLimitFromEnv("UNSET", defaults))
	})

	t.Run("overrides all fields", func(t *testing.T) {
		t.Setenv("RATELIMIT_TEST_REQUESTS", "50")
		t.Setenv("RATELIMIT_TEST_WINDOW_SEC", "30")
		t.Setenv("RATELIMIT_TEST_BURST", "5")

		got := httpx.ParseRateLimitFromEnv("TEST", defaults)
		require.Equal(t, httpx.RateLimitConfig{RequestsPerWindow: 50, Window: 30 * time.Second, Burst: 5}, got)
	})

	t.Run("ignores invalid values", func(t *testing.T) {
		t.Setenv("RATELIMIT_BAD_REQUESTS", "lots")
		t.Setenv("RATELIMIT_BAD_BURST", "-1")

		require.Equal(t, defaults, httpx.ParseRateLimitFromEnv("BAD", defaults))
	})
}

func BenchmarkRateLimitMiddleware(b *testing.B) {
	h := httpx.RateLimitByIP(httpx.RateLimitConfig{RequestsPerWindow: 1000000, Window: time.Minute, Burst: 1000})(okHandler)

	for b.Loop() {
		serve(h, "/", "192.168.1.1:12345")
	}
}
