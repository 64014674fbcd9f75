package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aussiebroadwan/idtoolkit/internal/emulator/service"
	"github.com/aussiebroadwan/idtoolkit/internal/emulator/store"
	"github.com/aussiebroadwan/idtoolkit/pkg/httpx"
	"github.com/aussiebroadwan/idtoolkit/pkg/jwtx"
	"github.com/aussiebroadwan/idtoolkit/pkg/slogx"

	_ "github.com/aussiebroadwan/idtoolkit/api/emulator" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

const (
	identityPrefix    = "/identitytoolkit.googleapis.com/v1"
	secureTokenPrefix = "/securetoken.googleapis.com/v1"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store
	gatherer     prometheus.Gatherer

	// APIKeys restricts the accepted "key" parameter. Empty accepts any key.
	APIKeys []string

	AccountService *service.AccountService
	TokenService   *service.TokenService
	OobService     *service.OobService
}

func NewRouter(
	keys *jwtx.KeySet,
	buildVersion string,
	st store.Store,
	gatherer prometheus.Gatherer,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		gatherer:     gatherer,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccounts()
	r.registerOobCodes()
	r.registerSecureToken()
	r.registerEmulator()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Identity Toolkit Emulator API
//	@version		0.1.0
//	@description	Local stand-in for the Identity Toolkit and Secure Token REST APIs.
//	@description
//	@description	ID tokens are signed with EdDSA keys generated at startup and published on the JWKS endpoint.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/idtoolkit
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:9099
//	@BasePath		/
//
//	@schemes		http
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// keyed guards a backend endpoint with the API key check and an IP rate limit.
func (r *Router) keyed(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.RateLimitByIP(limit),
		httpx.RequireAPIKey(r.APIKeys...),
	)
}

func (r *Router) registerAccounts() {
	h := &AccountsHandler{AccountService: r.AccountService, OobService: r.OobService}

	// Credential checks get the strict limit
	r.Mux.Handle("POST "+identityPrefix+"/accounts:signInWithPassword", r.keyed(h.HandleSignInWithPassword, httpx.StrictLimit))

	r.Mux.Handle("POST "+identityPrefix+"/accounts:signUp", r.keyed(h.HandleSignUp, httpx.ModerateLimit))
	r.Mux.Handle("POST "+identityPrefix+"/accounts:signInWithIdp", r.keyed(h.HandleSignInWithIdp, httpx.ModerateLimit))
	r.Mux.Handle("POST "+identityPrefix+"/accounts:signInWithCustomToken", r.keyed(h.HandleSignInWithCustomToken, httpx.ModerateLimit))
	r.Mux.Handle("POST "+identityPrefix+"/accounts:update", r.keyed(h.HandleUpdate, httpx.ModerateLimit))
	r.Mux.Handle("POST "+identityPrefix+"/accounts:delete", r.keyed(h.HandleDelete, httpx.ModerateLimit))

	r.Mux.Handle("POST "+identityPrefix+"/accounts:lookup", r.keyed(h.HandleLookup, httpx.LenientLimit))
	r.Mux.Handle("POST "+identityPrefix+"/accounts:createAuthUri", r.keyed(h.HandleCreateAuthURI, httpx.LenientLimit))
}

func (r *Router) registerOobCodes() {
	h := &OobHandler{OobService: r.OobService}

	r.Mux.Handle("POST "+identityPrefix+"/accounts:sendOobCode", r.keyed(h.HandleSendOobCode, httpx.StrictLimit))
	r.Mux.Handle("POST "+identityPrefix+"/accounts:resetPassword", r.keyed(h.HandleResetPassword, httpx.StrictLimit))
}

func (r *Router) registerSecureToken() {
	h := &TokenHandler{TokenService: r.TokenService}
	r.Mux.Handle("POST "+secureTokenPrefix+"/token", r.keyed(h.ServeHTTP, httpx.LenientLimit))
}

func (r *Router) registerEmulator() {
	h := &EmulatorHandler{AccountService: r.AccountService, OobService: r.OobService, Keys: r.TokenService.KeyManager}

	// Test helpers, no API key
	r.Mux.Handle("GET /emulator/v1/oobCodes",
		httpx.Chain(http.HandlerFunc(h.HandleListOobCodes),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("DELETE /emulator/v1/accounts",
		httpx.Chain(http.HandlerFunc(h.HandleWipe),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /emulator/v1/signingKeys:rotate",
		httpx.Chain(http.HandlerFunc(h.HandleRotateKeys),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	h := &SystemHandler{Keys: r.keys, Store: r.store, Version: r.buildVersion, StartTime: r.startTime}

	r.Mux.Handle("GET /livez", httpx.Chain(http.HandlerFunc(h.HandleLivez), httpx.RateLimitByIP(httpx.LenientLimit)))
	r.Mux.Handle("GET /readyz", httpx.Chain(http.HandlerFunc(h.HandleReadyz), httpx.RateLimitByIP(httpx.LenientLimit)))
	r.Mux.Handle("GET /.well-known/jwks.json", httpx.Chain(http.HandlerFunc(h.HandleJWKS), httpx.RateLimitByIP(httpx.PublicLimit)))

	if r.gatherer != nil {
		r.Mux.Handle("GET /metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{}))
	}
}
