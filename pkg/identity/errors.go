package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ============================================================================
// Error Kinds
// ============================================================================

// Kind classifies an AuthError independently of the backend message that
// produced it.
type Kind int

const (
	KindUnknownBackendError Kind = iota
	KindInvalidCredentials
	KindAccountExists
	KindProviderAlreadyLinked
	KindOperationDisabled
	KindTokenExpiredOrInvalid
	KindNetworkFailure
)

func (k Kind) String() string {
	switch k {
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindAccountExists:
		return "account_exists"
	case KindProviderAlreadyLinked:
		return "provider_already_linked"
	case KindOperationDisabled:
		return "operation_disabled"
	case KindTokenExpiredOrInvalid:
		return "token_expired_or_invalid"
	case KindNetworkFailure:
		return "network_failure"
	default:
		return "unknown_backend_error"
	}
}

// Backend error messages recognised by the transport.
const (
	CodeEmailExists                  = "EMAIL_EXISTS"
	CodeEmailNotFound                = "EMAIL_NOT_FOUND"
	CodeInvalidPassword              = "INVALID_PASSWORD"
	CodeInvalidLoginCredentials      = "INVALID_LOGIN_CREDENTIALS"
	CodeInvalidEmail                 = "INVALID_EMAIL"
	CodeMissingPassword              = "MISSING_PASSWORD"
	CodeWeakPassword                 = "WEAK_PASSWORD"
	CodeUserDisabled                 = "USER_DISABLED"
	CodeInvalidIdpResponse           = "INVALID_IDP_RESPONSE"
	CodeInvalidCustomToken           = "INVALID_CUSTOM_TOKEN"
	CodeCredentialMismatch           = "CREDENTIAL_MISMATCH"
	CodeInvalidOobCode               = "INVALID_OOB_CODE"
	CodeExpiredOobCode               = "EXPIRED_OOB_CODE"
	CodeFederatedUserAlreadyLinked   = "FEDERATED_USER_ID_ALREADY_LINKED"
	CodeProviderAlreadyLinked        = "PROVIDER_ALREADY_LINKED"
	CodeOperationNotAllowed          = "OPERATION_NOT_ALLOWED"
	CodePasswordLoginDisabled        = "PASSWORD_LOGIN_DISABLED"
	CodeAdminOnlyOperation           = "ADMIN_ONLY_OPERATION"
	CodeTokenExpired                 = "TOKEN_EXPIRED"
	CodeInvalidIDToken               = "INVALID_ID_TOKEN"
	CodeInvalidRefreshToken          = "INVALID_REFRESH_TOKEN"
	CodeMissingRefreshToken          = "MISSING_REFRESH_TOKEN"
	CodeCredentialTooOldLoginAgain   = "CREDENTIAL_TOO_OLD_LOGIN_AGAIN"
	CodeUserNotFound                 = "USER_NOT_FOUND"
	CodeTooManyAttemptsTryLater      = "TOO_MANY_ATTEMPTS_TRY_LATER"
	CodeInvalidGrantType             = "INVALID_GRANT_TYPE"
	CodeMissingIdentifier            = "MISSING_IDENTIFIER"
	CodeMissingContinueURI           = "MISSING_CONTINUE_URI"
	CodeInvalidContinueURI           = "INVALID_CONTINUE_URI"
	CodeMissingOobCode               = "MISSING_OOB_CODE"
	CodeMissingRequestType           = "MISSING_REQ_TYPE"
	CodeInvalidAPIKey                = "INVALID_API_KEY"
	CodeMissingLocalID               = "MISSING_LOCAL_ID"
	CodeInternalError                = "INTERNAL_ERROR"
	CodeInvalidProviderID            = "INVALID_PROVIDER_ID"
	CodeMissingRequestURI            = "MISSING_REQUEST_URI"
	CodeUnsupportedOobRequestType    = "UNSUPPORTED_OOB_REQUEST_TYPE"
	CodeRateLimitExceeded            = "RATE_LIMIT_EXCEEDED"
	CodeEmailChangeNeedsVerification = "EMAIL_CHANGE_NEEDS_VERIFICATION"
)

var kindByCode = map[string]Kind{
	CodeEmailNotFound:           KindInvalidCredentials,
	CodeInvalidPassword:         KindInvalidCredentials,
	CodeInvalidLoginCredentials: KindInvalidCredentials,
	CodeInvalidEmail:            KindInvalidCredentials,
	CodeMissingPassword:         KindInvalidCredentials,
	CodeWeakPassword:            KindInvalidCredentials,
	CodeUserDisabled:            KindInvalidCredentials,
	CodeInvalidIdpResponse:      KindInvalidCredentials,
	CodeInvalidCustomToken:      KindInvalidCredentials,
	CodeCredentialMismatch:      KindInvalidCredentials,
	CodeInvalidOobCode:          KindInvalidCredentials,
	CodeExpiredOobCode:          KindInvalidCredentials,

	CodeEmailExists: KindAccountExists,

	CodeFederatedUserAlreadyLinked: KindProviderAlreadyLinked,
	CodeProviderAlreadyLinked:      KindProviderAlreadyLinked,

	CodeOperationNotAllowed:   KindOperationDisabled,
	CodePasswordLoginDisabled: KindOperationDisabled,
	CodeAdminOnlyOperation:    KindOperationDisabled,

	CodeTokenExpired:               KindTokenExpiredOrInvalid,
	CodeInvalidIDToken:             KindTokenExpiredOrInvalid,
	CodeInvalidRefreshToken:        KindTokenExpiredOrInvalid,
	CodeMissingRefreshToken:        KindTokenExpiredOrInvalid,
	CodeCredentialTooOldLoginAgain: KindTokenExpiredOrInvalid,
	CodeUserNotFound:               KindTokenExpiredOrInvalid,
}

// KindForCode maps a backend error message to its Kind. The " : detail"
// suffix is ignored.
func KindForCode(code string) Kind {
	code, _, _ = strings.Cut(code, " ")
	if k, ok := kindByCode[code]; ok {
		return k
	}
	return KindUnknownBackendError
}

// ============================================================================
// AuthError
// ============================================================================

// AuthError is the single error type returned by the transport for backend
// rejections and network failures.
type AuthError struct {
	// Kind is the taxonomy bucket, use errors.Is against the Err* sentinels
	Kind Kind

	// Code is the backend error message code (e.g. "EMAIL_EXISTS")
	Code string

	// Message is the human readable detail after the code, if any
	Message string

	// StatusCode is the HTTP status, zero for network failures
	StatusCode int

	// Err is the underlying cause for network failures
	Err error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("identity: %s: %s", e.Code, e.Message)
	case e.Code != "":
		return "identity: " + e.Code
	case e.Err != nil:
		return fmt.Sprintf("identity: %s: %v", e.Kind, e.Err)
	default:
		return "identity: " + e.Kind.String()
	}
}

// Unwrap returns the underlying cause.
func (e *AuthError) Unwrap() error { return e.Err }

// Is reports whether target is an AuthError sentinel of the same Kind.
// Only sentinels (no Code) match by kind, so two concrete errors are not
// considered equal just because they share a bucket.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	if !ok {
		return false
	}
	return t.Code == "" && t.Err == nil && t.Kind == e.Kind
}

// ============================================================================
// Predefined Errors
// ============================================================================

var (
	// ErrInvalidCredentials covers wrong passwords, unknown emails, bad
	// custom tokens, IdP responses and OOB codes.
	ErrInvalidCredentials = &AuthError{Kind: KindInvalidCredentials}

	// ErrAccountExists is returned when the email already belongs to an account.
	ErrAccountExists = &AuthError{Kind: KindAccountExists}

	// ErrProviderAlreadyLinked is returned when a sign-in method is linked to
	// a different account.
	ErrProviderAlreadyLinked = &AuthError{Kind: KindProviderAlreadyLinked}

	// ErrOperationDisabled is returned when the sign-in method is disabled
	// for the project.
	ErrOperationDisabled = &AuthError{Kind: KindOperationDisabled}

	// ErrTokenExpiredOrInvalid is returned when the ID or refresh token was
	// rejected. The caller has to sign in again.
	ErrTokenExpiredOrInvalid = &AuthError{Kind: KindTokenExpiredOrInvalid}

	// ErrNetworkFailure wraps transport-level failures (DNS, TLS, timeouts).
	ErrNetworkFailure = &AuthError{Kind: KindNetworkFailure}

	// ErrUnknownBackendError covers everything the taxonomy does not name.
	ErrUnknownBackendError = &AuthError{Kind: KindUnknownBackendError}
)

// ErrSessionClosed is returned by Session operations after Close or Delete.
var ErrSessionClosed = errors.New("identity: session closed")

// ErrInvalidTokenLifetime stops the refresh scheduler when a refresh returns
// a token that is already expired on receipt.
var ErrInvalidTokenLifetime = errors.New("identity: refreshed token has no lifetime")

// KindOf returns the Kind of err, or KindUnknownBackendError if err is not
// an AuthError.
func KindOf(err error) Kind {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Kind
	}
	return KindUnknownBackendError
}

// ============================================================================
// Error Parsing Helpers
// ============================================================================

// newNetworkError wraps a failure that happened before a response arrived.
func newNetworkError(err error) *AuthError {
	return &AuthError{Kind: KindNetworkFailure, Err: err}
}

// parseErrorResponse turns a non-2xx backend response into an AuthError.
// Returns nil if the response indicates success.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		code, detail, _ := strings.Cut(errResp.Error.Message, " : ")
		code = strings.TrimSpace(code)
		return &AuthError{
			Kind:       KindForCode(code),
			Code:       code,
			Message:    strings.TrimSpace(detail),
			StatusCode: resp.StatusCode,
		}
	}

	// Fallback: create generic error from status code
	return &AuthError{
		Kind:       KindUnknownBackendError,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		StatusCode: resp.StatusCode,
	}
}
