package httpx

import (
	"net/http"
	"slices"
	"strings"

	"github.com/aussiebroadwan/idtoolkit/pkg/slogx"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares so the first one listed runs outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for _, mw := range slices.Backward(mws) {
		h = mw(h)
	}
	return h
}

// APIKeyParam is the query parameter carrying the project API key.
const APIKeyParam = "key"

// RequireAPIKey rejects requests whose "key" query parameter is missing or
// not in allowed. An empty allowed list accepts any non-empty key, which is
// how the emulator behaves by default.
func RequireAPIKey(allowed ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := strings.TrimSpace(r.URL.Query().Get(APIKeyParam))
			if key == "" || (len(allowed) > 0 && !slices.Contains(allowed, key)) {
				slogx.FromContext(r.Context()).Warn("rejected request with invalid api key")
				WriteError(w, http.StatusBadRequest, "INVALID_API_KEY", "API key not valid. Please pass a valid API key.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
