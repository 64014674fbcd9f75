package slogx

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/idtoolkit/pkg/idx"
)

// RequestIDHeader carries the request id between client and emulator.
const RequestIDHeader = "X-Request-ID"

type requestScope struct {
	logger *slog.Logger
	reqID  string
}

type scopeKey struct{}

// FromContext returns the request logger installed by HTTPMiddleware, or
// slog.Default outside a request.
func FromContext(ctx context.Context) *slog.Logger {
	if s, ok := ctx.Value(scopeKey{}).(requestScope); ok {
		return s.logger
	}
	return slog.Default()
}

// RequestID returns the id of the request being served, if any.
func RequestID(ctx context.Context) string {
	s, _ := ctx.Value(scopeKey{}).(requestScope)
	return s.reqID
}

// HTTPMiddleware logs requests and attaches a contextual logger into request context.
func HTTPMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			reqID := r.Header.Get(RequestIDHeader)
			if reqID == "" {
				reqID = idx.New().String()
			}
			rw.Header().Set(RequestIDHeader, reqID)

			logger := base.With(
				"req_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
			)
			r = r.WithContext(context.WithValue(r.Context(), scopeKey{}, requestScope{logger: logger, reqID: reqID}))

			next.ServeHTTP(rw, r)

			level := slog.LevelInfo
			if rw.status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.Log(r.Context(), level, "http_request",
				"status", rw.status,
				"duration_ms", time.Since(start).Milliseconds(),
				"user_agent", r.UserAgent(),
			)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter

	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// RoundTripper logs outgoing requests. The request id header is set on
// every request so client and emulator logs can be correlated. Calls made
// while serving a request reuse that request's id.
type RoundTripper struct {
	Base   http.RoundTripper
	Logger *slog.Logger
}

// NewRoundTripper wraps base, or http.DefaultTransport when nil.
func NewRoundTripper(base http.RoundTripper, logger *slog.Logger) *RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &RoundTripper{Base: base, Logger: logger}
}

func (t *RoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	reqID := r.Header.Get(RequestIDHeader)
	if reqID == "" {
		if reqID = RequestID(r.Context()); reqID == "" {
			reqID = idx.New().String()
		}
		r = r.Clone(r.Context())
		r.Header.Set(RequestIDHeader, reqID)
	}

	start := time.Now()
	resp, err := t.Base.RoundTrip(r)

	// Query strings carry the API key, log the path only
	attrs := []any{
		"req_id", reqID,
		"method", r.Method,
		"host", r.URL.Host,
		"path", r.URL.Path,
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if err != nil {
		t.Logger.DebugContext(r.Context(), "http_roundtrip_failed", append(attrs, "err", err)...)
		return nil, err
	}
	t.Logger.DebugContext(r.Context(), "http_roundtrip", append(attrs, "status", resp.StatusCode)...)
	return resp, nil
}
