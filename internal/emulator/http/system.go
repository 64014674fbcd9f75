package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/idtoolkit/internal/emulator/store"
	"github.com/aussiebroadwan/idtoolkit/pkg/httpx"
	"github.com/aussiebroadwan/idtoolkit/pkg/jwtx"
)

// SystemHandler serves the probes and the public signing keys.
type SystemHandler struct {
	Keys      *jwtx.KeySet
	Store     store.Store
	Version   string
	StartTime time.Time
}

func (h *SystemHandler) health(status string, checks *HealthChecks) HealthResponse {
	return HealthResponse{
		Status:  status,
		Uptime:  time.Since(h.StartTime).Round(time.Second).String(),
		Version: h.Version,
		Checks:  checks,
	}
}

// HandleLivez godoc
//
//	@Summary		Health Check Endpoint
//	@Description	Liveness probe. Answers 200 for as long as the process serves HTTP.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Router			/livez [get].
func (h *SystemHandler) HandleLivez(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.health("ok", nil))
}

// HandleReadyz godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe. Degraded when the database is unreachable or no signing key is published.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Failure		503	{object}	HealthResponse
//	@Router			/readyz [get].
func (h *SystemHandler) HandleReadyz(w http.ResponseWriter, r *http.Request) {
	checks := &HealthChecks{Database: "ok", Signer: "ok"}
	ready := true

	if err := h.Store.Ping(r.Context()); err != nil {
		checks.Database = "error: " + err.Error()
		ready = false
	}
	if !h.Keys.IsReady() {
		checks.Signer = "error: no keys loaded"
		ready = false
	}

	if !ready {
		httpx.WriteJSON(w, http.StatusServiceUnavailable, h.health("degraded", checks))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.health("ok", checks))
}

// HandleJWKS godoc
//
//	@Summary		Get JWKS
//	@Description	Public keys for verifying emulator ID tokens. Keys live as long as the process.
//	@Tags			well-known
//	@Produce		json
//	@Success		200	{object}	jwtx.JWKS
//	@Router			/.well-known/jwks.json [get].
func (h *SystemHandler) HandleJWKS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=300")
	httpx.WriteJSON(w, http.StatusOK, h.Keys.PublicJWKS())
}
