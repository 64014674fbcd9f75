package slogx_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/idtoolkit/pkg/slogx"
)

func TestHTTPMiddleware(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slogx.New(slogx.Config{Service: "test", Level: "debug", Format: "json", Output: &buf})

	var seen string
	h := slogx.HTTPMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = slogx.RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("keeps incoming id", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/livez", nil)
		req.Header.Set(slogx.RequestIDHeader, "abc")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, "abc", seen)
		require.Equal(t, "abc", rec.Header().Get(slogx.RequestIDHeader))

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		require.Equal(t, "http_request", entry["msg"])
		require.Equal(t, "abc", entry["req_id"])
		require.InDelta(t, http.StatusTeapot, entry["status"], 0)
	})

	t.Run("generates an id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))

		require.NotEmpty(t, seen)
		require.Equal(t, seen, rec.Header().Get(slogx.RequestIDHeader))
	})
}

func TestRoundTripperPropagatesRequestID(t *testing.T) {
	t.Parallel()

	var got string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(slogx.RequestIDHeader)
	}))
	t.Cleanup(upstream.Close)

	client := &http.Client{Transport: slogx.NewRoundTripper(nil, slogx.Discard())}

	h := slogx.HTTPMiddleware(slogx.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, upstream.URL, nil)
		require.NoError(t, err)
		resp, err := client.Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(slogx.RequestIDHeader, "inbound-1")
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.Equal(t, "inbound-1", got)

	require.Empty(t, slogx.RequestID(t.Context()))
}
