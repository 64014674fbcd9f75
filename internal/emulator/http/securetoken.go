package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/idtoolkit/internal/emulator/service"
	"github.com/aussiebroadwan/idtoolkit/pkg/httpx"
)

const grantTypeRefreshToken = "refresh_token"

// TokenHandler serves POST /securetoken.googleapis.com/v1/token.
// Accepts a form body like production, and JSON for convenience.
type TokenHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		Refresh an ID token
//	@Description	Exchanges a refresh token for a new token pair. Refresh tokens rotate, the presented one is revoked.
//	@Tags			Secure Token
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			key				query		string	true	"API key"
//	@Param			grant_type		formData	string	true	"Grant type"	Enums(refresh_token)
//	@Param			refresh_token	formData	string	true	"Refresh token"
//	@Success		200				{object}	SecureTokenResponse
//	@Failure		400				{object}	identity.ErrorResponse	"INVALID_REFRESH_TOKEN, TOKEN_EXPIRED, USER_DISABLED, ..."
//	@Header			200				{string}	Cache-Control	"no-store"
//	@Router			/securetoken.googleapis.com/v1/token [post].
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req SecureTokenRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			writeDecodeError(w, err)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, codeInvalidArgument, "Invalid form body.")
			return
		}
		req.GrantType = r.PostForm.Get("grant_type")
		req.RefreshToken = r.PostForm.Get("refresh_token")
	}

	if req.GrantType != grantTypeRefreshToken {
		writeServiceError(w, r, service.ErrInvalidGrantType)
		return
	}

	pair, err := h.TokenService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, SecureTokenResponse{
		IDToken:      pair.IDToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int64(pair.ExpiresIn.Seconds()),
		TokenType:    "Bearer",
		UserID:       pair.LocalID,
		ProjectID:    h.TokenService.ProjectID,
	})
}
