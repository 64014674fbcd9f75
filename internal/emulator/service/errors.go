package service

import "errors"

// Service errors. Each message is the backend error code the HTTP layer
// puts on the wire, so handlers can forward err.Error() unchanged.
var (
	ErrEmailExists           = errors.New("EMAIL_EXISTS")
	ErrEmailNotFound         = errors.New("EMAIL_NOT_FOUND")
	ErrInvalidPassword       = errors.New("INVALID_PASSWORD")
	ErrWeakPassword          = errors.New("WEAK_PASSWORD")
	ErrInvalidEmail          = errors.New("INVALID_EMAIL")
	ErrMissingEmail          = errors.New("MISSING_EMAIL")
	ErrMissingPassword       = errors.New("MISSING_PASSWORD")
	ErrOperationNotAllowed   = errors.New("OPERATION_NOT_ALLOWED")
	ErrPasswordLoginDisabled = errors.New("PASSWORD_LOGIN_DISABLED")
	ErrUserDisabled          = errors.New("USER_DISABLED")
	ErrUserNotFound          = errors.New("USER_NOT_FOUND")

	ErrInvalidIDToken      = errors.New("INVALID_ID_TOKEN")
	ErrTokenExpired        = errors.New("TOKEN_EXPIRED")
	ErrInvalidRefreshToken = errors.New("INVALID_REFRESH_TOKEN")
	ErrMissingRefreshToken = errors.New("MISSING_REFRESH_TOKEN")
	ErrInvalidGrantType    = errors.New("INVALID_GRANT_TYPE")

	ErrInvalidIdpResponse    = errors.New("INVALID_IDP_RESPONSE")
	ErrMissingRequestURI     = errors.New("MISSING_REQUEST_URI")
	ErrFederatedIDLinked     = errors.New("FEDERATED_USER_ID_ALREADY_LINKED")
	ErrProviderAlreadyLinked = errors.New("PROVIDER_ALREADY_LINKED")
	ErrInvalidCustomToken    = errors.New("INVALID_CUSTOM_TOKEN")
	ErrNoSuchProvider        = errors.New("NO_SUCH_PROVIDER")
	ErrMissingIdentifier     = errors.New("MISSING_IDENTIFIER")
	ErrInvalidIdentifier     = errors.New("INVALID_IDENTIFIER")
	ErrMissingRequestType    = errors.New("MISSING_REQ_TYPE")
	ErrUnsupportedOobRequest = errors.New("UNSUPPORTED_OOB_REQUEST_TYPE")
	ErrMissingOobCode        = errors.New("MISSING_OOB_CODE")
	ErrInvalidOobCode        = errors.New("INVALID_OOB_CODE")
)

// BackendErrors lists every error the HTTP layer reports as a client error.
// Anything else is an internal failure.
var BackendErrors = []error{
	ErrEmailExists, ErrEmailNotFound, ErrInvalidPassword, ErrWeakPassword,
	ErrInvalidEmail, ErrMissingEmail, ErrMissingPassword, ErrOperationNotAllowed,
	ErrPasswordLoginDisabled, ErrUserDisabled, ErrUserNotFound,
	ErrInvalidIDToken, ErrTokenExpired, ErrInvalidRefreshToken, ErrMissingRefreshToken,
	ErrInvalidGrantType, ErrInvalidIdpResponse, ErrMissingRequestURI, ErrFederatedIDLinked,
	ErrProviderAlreadyLinked, ErrInvalidCustomToken,
	ErrNoSuchProvider, ErrMissingIdentifier, ErrInvalidIdentifier, ErrMissingRequestType,
	ErrUnsupportedOobRequest, ErrMissingOobCode, ErrInvalidOobCode,
}
