package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/idtoolkit/internal/emulator/domain"
	"github.com/aussiebroadwan/idtoolkit/internal/emulator/service"
	"github.com/aussiebroadwan/idtoolkit/pkg/httpx"
	"github.com/aussiebroadwan/idtoolkit/pkg/identity"
)

// OobHandler serves accounts:sendOobCode and accounts:resetPassword.
type OobHandler struct {
	OobService *service.OobService
}

// HandleSendOobCode godoc
//
//	@Summary		Send a verification or password reset email
//	@Description	No email leaves the emulator; list issued codes with GET /emulator/v1/oobCodes.
//	@Tags			OOB Codes
//	@Accept			json
//	@Produce		json
//	@Param			key					query		string					true	"API key"
//	@Param			X-Firebase-Locale	header		string					false	"Email language"
//	@Param			body				body		identity.OobCodeRequest	true	"VERIFY_EMAIL needs idToken, PASSWORD_RESET needs email"
//	@Success		200					{object}	SendOobCodeResponse
//	@Failure		400					{object}	identity.ErrorResponse	"EMAIL_NOT_FOUND, INVALID_ID_TOKEN, ..."
//	@Router			/identitytoolkit.googleapis.com/v1/accounts:sendOobCode [post].
func (h *OobHandler) HandleSendOobCode(w http.ResponseWriter, r *http.Request) {
	var req identity.OobCodeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	code, err := h.OobService.SendOobCode(r.Context(), service.OobRequest{
		RequestType: domain.OobRequestType(req.RequestType),
		IDToken:     req.IDToken,
		Email:       req.Email,
		Locale:      strings.TrimSpace(r.Header.Get(identity.LocaleHeader)),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, SendOobCodeResponse{Email: code.Email})
}

// HandleResetPassword godoc
//
//	@Summary		Validate or apply a password reset code
//	@Description	Without newPassword the code is only validated and stays usable.
//	@Tags			OOB Codes
//	@Accept			json
//	@Produce		json
//	@Param			key		query		string							true	"API key"
//	@Param			body	body		identity.ResetPasswordRequest	true	"Code and optional new password"
//	@Success		200		{object}	identity.ResetPasswordResponse
//	@Failure		400		{object}	identity.ErrorResponse	"INVALID_OOB_CODE, WEAK_PASSWORD"
//	@Router			/identitytoolkit.googleapis.com/v1/accounts:resetPassword [post].
func (h *OobHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req identity.ResetPasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	code, err := h.OobService.ResetPassword(r.Context(), req.OobCode, req.NewPassword)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, identity.ResetPasswordResponse{
		Email:       code.Email,
		RequestType: identity.OobRequestType(code.RequestType),
	})
}
