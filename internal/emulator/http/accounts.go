package http

import (
	"net/http"

	"github.com/aussiebroadwan/idtoolkit/internal/emulator/service"
	"github.com/aussiebroadwan/idtoolkit/pkg/httpx"
	"github.com/aussiebroadwan/idtoolkit/pkg/identity"
)

// AccountsHandler serves the accounts:* endpoints.
type AccountsHandler struct {
	AccountService *service.AccountService
	OobService     *service.OobService
}

// HandleSignUp godoc
//
//	@Summary		Create an account
//	@Description	Creates an email/password account, or an anonymous account when both are empty.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			key		query		string					true	"API key"
//	@Param			body	body		identity.SignUpRequest	true	"Sign-up request"
//	@Success		200		{object}	identity.TokenResponse
//	@Failure		400		{object}	identity.ErrorResponse	"EMAIL_EXISTS, WEAK_PASSWORD, OPERATION_NOT_ALLOWED, ..."
//	@Router			/identitytoolkit.googleapis.com/v1/accounts:signUp [post].
func (h *AccountsHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var req identity.SignUpRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	res, err := h.AccountService.SignUp(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tokenResponse(res.Account, res.Tokens))
}

// HandleSignInWithPassword godoc
//
//	@Summary		Sign in with email and password
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			key		query		string							true	"API key"
//	@Param			body	body		identity.PasswordSignInRequest	true	"Credentials"
//	@Success		200		{object}	identity.TokenResponse
//	@Failure		400		{object}	identity.ErrorResponse	"EMAIL_NOT_FOUND, INVALID_PASSWORD, USER_DISABLED, ..."
//	@Router			/identitytoolkit.googleapis.com/v1/accounts:signInWithPassword [post].
func (h *AccountsHandler) HandleSignInWithPassword(w http.ResponseWriter, r *http.Request) {
	var req identity.PasswordSignInRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	res, err := h.AccountService.SignInWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	resp := tokenResponse(res.Account, res.Tokens)
	resp.Registered = true
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleSignInWithIdp godoc
//
//	@Summary		Sign in with, or link, an identity provider credential
//	@Description	postBody is form encoded: providerId plus id_token or access_token. The emulator does not contact the provider.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			key		query		string						true	"API key"
//	@Param			body	body		identity.IdpSignInRequest	true	"IdP credential"
//	@Success		200		{object}	identity.TokenResponse
//	@Failure		400		{object}	identity.ErrorResponse	"INVALID_IDP_RESPONSE, FEDERATED_USER_ID_ALREADY_LINKED, ..."
//	@Router			/identitytoolkit.googleapis.com/v1/accounts:signInWithIdp [post].
func (h *AccountsHandler) HandleSignInWithIdp(w http.ResponseWriter, r *http.Request) {
	var req identity.IdpSignInRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	res, err := h.AccountService.SignInWithIdp(r.Context(), service.IdpRequest{
		PostBody:   req.PostBody,
		RequestURI: req.RequestURI,
		IDToken:    req.IDToken,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	resp := tokenResponse(res.Account, res.Tokens)
	resp.ProviderID = res.ProviderID
	resp.FederatedID = res.FederatedID
	resp.IsNewUser = res.IsNewUser
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleSignInWithCustomToken godoc
//
//	@Summary		Exchange a custom token
//	@Description	The response carries no localId, clients read it from the ID token.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			key		query		string								true	"API key"
//	@Param			body	body		identity.CustomTokenSignInRequest	true	"Custom token"
//	@Success		200		{object}	identity.TokenResponse
//	@Failure		400		{object}	identity.ErrorResponse	"INVALID_CUSTOM_TOKEN"
//	@Router			/identitytoolkit.googleapis.com/v1/accounts:signInWithCustomToken [post].
func (h *AccountsHandler) HandleSignInWithCustomToken(w http.ResponseWriter, r *http.Request) {
	var req identity.CustomTokenSignInRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	res, err := h.AccountService.SignInWithCustomToken(r.Context(), req.Token)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, identity.TokenResponse{
		IDToken:      res.Tokens.IDToken,
		RefreshToken: res.Tokens.RefreshToken,
		ExpiresIn:    int64(res.Tokens.ExpiresIn.Seconds()),
		IsNewUser:    res.IsNewUser,
	})
}

// HandleUpdate godoc
//
//	@Summary		Update an account
//	@Description	Changes email, password or profile, unlinks providers, or confirms an email verification code.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			key		query		string			true	"API key"
//	@Param			body	body		UpdateRequest	true	"Changes"
//	@Success		200		{object}	identity.UpdateAccountResponse
//	@Failure		400		{object}	identity.ErrorResponse	"INVALID_ID_TOKEN, EMAIL_EXISTS, WEAK_PASSWORD, NO_SUCH_PROVIDER, ..."
//	@Router			/identitytoolkit.googleapis.com/v1/accounts:update [post].
func (h *AccountsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	if req.OobCode != "" && req.IDToken == "" {
		a, err := h.OobService.ConfirmEmail(r.Context(), req.OobCode)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, identity.UpdateAccountResponse{
			LocalID:       a.LocalID,
			Email:         a.Email,
			EmailVerified: a.EmailVerified,
			DisplayName:   a.DisplayName,
			PhotoURL:      a.PhotoURL,
		})
		return
	}

	res, err := h.AccountService.Update(r.Context(), service.UpdateParams{
		IDToken:           req.IDToken,
		Email:             req.Email,
		Password:          req.Password,
		DisplayName:       req.DisplayName,
		PhotoURL:          req.PhotoURL,
		DeleteAttribute:   req.DeleteAttribute,
		DeleteProvider:    req.DeleteProvider,
		ReturnSecureToken: req.ReturnSecureToken,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	a := res.Account
	resp := identity.UpdateAccountResponse{
		LocalID:          a.LocalID,
		Email:            a.Email,
		EmailVerified:    a.EmailVerified,
		DisplayName:      a.DisplayName,
		PhotoURL:         a.PhotoURL,
		ProviderUserInfo: providerUserInfo(a, res.Links),
	}
	if res.Tokens != nil {
		resp.IDToken = res.Tokens.IDToken
		resp.RefreshToken = res.Tokens.RefreshToken
		resp.ExpiresIn = int64(res.Tokens.ExpiresIn.Seconds())
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleDelete godoc
//
//	@Summary	Delete an account
//	@Tags		Accounts
//	@Accept		json
//	@Produce	json
//	@Param		key		query		string			true	"API key"
//	@Param		body	body		IDTokenRequest	true	"Account to delete"
//	@Success	200		{object}	EmptyResponse
//	@Failure	400		{object}	identity.ErrorResponse	"INVALID_ID_TOKEN, USER_NOT_FOUND"
//	@Router		/identitytoolkit.googleapis.com/v1/accounts:delete [post].
func (h *AccountsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	var req IDTokenRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	if err := h.AccountService.Delete(r.Context(), req.IDToken); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, EmptyResponse{})
}

// HandleLookup godoc
//
//	@Summary	Look up the account behind an ID token
//	@Tags		Accounts
//	@Accept		json
//	@Produce	json
//	@Param		key		query		string			true	"API key"
//	@Param		body	body		IDTokenRequest	true	"Account to look up"
//	@Success	200		{object}	LookupResponse
//	@Failure	400		{object}	identity.ErrorResponse	"INVALID_ID_TOKEN, USER_NOT_FOUND"
//	@Router		/identitytoolkit.googleapis.com/v1/accounts:lookup [post].
func (h *AccountsHandler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	var req IDTokenRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	res, err := h.AccountService.Lookup(r.Context(), req.IDToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, LookupResponse{
		Users: []identity.AccountInfo{accountInfo(res.Account, res.Links)},
	})
}

// HandleCreateAuthURI godoc
//
//	@Summary	List the providers registered for an email
//	@Tags		Accounts
//	@Accept		json
//	@Produce	json
//	@Param		key		query		string					true	"API key"
//	@Param		body	body		CreateAuthURIRequest	true	"Email to look up"
//	@Success	200		{object}	identity.ProvidersResponse
//	@Failure	400		{object}	identity.ErrorResponse	"MISSING_IDENTIFIER, INVALID_IDENTIFIER"
//	@Router		/identitytoolkit.googleapis.com/v1/accounts:createAuthUri [post].
func (h *AccountsHandler) HandleCreateAuthURI(w http.ResponseWriter, r *http.Request) {
	var req CreateAuthURIRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	info, err := h.AccountService.CreateAuthURI(r.Context(), req.Identifier)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, identity.ProvidersResponse{
		Registered:    info.Registered,
		AllProviders:  info.Providers,
		SigninMethods: info.Providers,
	})
}
