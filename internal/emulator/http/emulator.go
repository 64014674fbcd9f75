package http

import (
	"net/http"
	"net/url"

	"github.com/aussiebroadwan/idtoolkit/internal/emulator/domain"
	"github.com/aussiebroadwan/idtoolkit/internal/emulator/service"
	"github.com/aussiebroadwan/idtoolkit/pkg/httpx"
	"github.com/aussiebroadwan/idtoolkit/pkg/jwtx"
)

// EmulatorHandler serves the test-only /emulator/v1 endpoints.
type EmulatorHandler struct {
	AccountService *service.AccountService
	OobService     *service.OobService
	Keys           *jwtx.KeyManager
}

// HandleListOobCodes godoc
//
//	@Summary		List issued OOB codes
//	@Description	Returns every unexpired code the emulator would have emailed, oldest first.
//	@Tags			Emulator
//	@Produce		json
//	@Success		200	{object}	OobCodesResponse
//	@Router			/emulator/v1/oobCodes [get].
func (h *EmulatorHandler) HandleListOobCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := h.OobService.ListOobCodes(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := OobCodesResponse{OobCodes: make([]OobCodeListing, 0, len(codes))}
	for _, c := range codes {
		resp.OobCodes = append(resp.OobCodes, OobCodeListing{
			Email:       c.Email,
			RequestType: c.RequestType,
			OobCode:     c.Code,
			OobLink:     oobLink(r, c),
			Locale:      c.Locale,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleWipe godoc
//
//	@Summary		Delete every account
//	@Description	Also removes refresh tokens, provider links and OOB codes.
//	@Tags			Emulator
//	@Produce		json
//	@Success		200	{object}	EmptyResponse
//	@Router			/emulator/v1/accounts [delete].
func (h *EmulatorHandler) HandleWipe(w http.ResponseWriter, r *http.Request) {
	if err := h.AccountService.Wipe(r.Context()); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, EmptyResponse{})
}

// HandleRotateKeys godoc
//
//	@Summary		Rotate the ID token signing key
//	@Description	New tokens are signed with a fresh key. Earlier keys stay published so existing tokens still verify.
//	@Tags			Emulator
//	@Produce		json
//	@Success		200	{object}	RotateKeysResponse
//	@Router			/emulator/v1/signingKeys:rotate [post].
func (h *EmulatorHandler) HandleRotateKeys(w http.ResponseWriter, r *http.Request) {
	kid, err := h.Keys.Rotate()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, RotateKeysResponse{KID: kid})
}

// oobLink builds the action link the email would have carried.
func oobLink(r *http.Request, c domain.OobCode) string {
	mode := "verifyEmail"
	if c.RequestType == domain.OobPasswordReset {
		mode = "resetPassword"
	}

	q := url.Values{"mode": {mode}, "oobCode": {c.Code}}
	if c.Locale != "" {
		q.Set("lang", c.Locale)
	}
	u := url.URL{Scheme: "http", Host: r.Host, Path: "/emulator/action", RawQuery: q.Encode()}
	return u.String()
}
