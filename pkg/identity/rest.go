package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/idtoolkit/pkg/slogx"
)

// Production endpoints of the Identity Toolkit and Secure Token APIs.
const (
	DefaultIdentityURL    = "https://identitytoolkit.googleapis.com/v1"
	DefaultSecureTokenURL = "https://securetoken.googleapis.com/v1"
)

// LocaleHeader selects the language of transactional emails.
const LocaleHeader = "X-Firebase-Locale"

// defaultContinueURI is sent to createAuthUri when the caller has none.
// The backend requires the field but provider discovery ignores it.
const defaultContinueURI = "http://localhost"

// RESTTransport implements Transport over the Identity Toolkit REST API.
type RESTTransport struct {
	APIKey         string
	IdentityURL    string
	SecureTokenURL string
	HTTPClient     *http.Client
}

// NewRESTTransport creates a transport for the production endpoints.
func NewRESTTransport(apiKey string) *RESTTransport {
	return &RESTTransport{
		APIKey:         apiKey,
		IdentityURL:    DefaultIdentityURL,
		SecureTokenURL: DefaultSecureTokenURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// UseEmulator points the transport at an emulator listening on host
// (e.g. "localhost:9099"). The emulator serves both APIs under one origin.
func (t *RESTTransport) UseEmulator(host string) {
	host = strings.TrimSuffix(strings.TrimPrefix(host, "http://"), "/")
	t.IdentityURL = "http://" + host + "/identitytoolkit.googleapis.com/v1"
	t.SecureTokenURL = "http://" + host + "/securetoken.googleapis.com/v1"
}

// WithLogger logs every backend round trip at debug level.
func (t *RESTTransport) WithLogger(logger *slog.Logger) *RESTTransport {
	client := *t.httpClient()
	client.Transport = slogx.NewRoundTripper(client.Transport, logger)
	t.HTTPClient = &client
	return t
}

func (t *RESTTransport) httpClient() *http.Client {
	if t.HTTPClient == nil {
		return http.DefaultClient
	}
	return t.HTTPClient
}

// ============================================================================
// Sign-up and Sign-in
// ============================================================================

func (t *RESTTransport) SignUp(ctx context.Context, req SignUpRequest) (*TokenResponse, error) {
	var resp TokenResponse
	if err := t.post(ctx, "signUp", req, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (t *RESTTransport) SignInWithPassword(ctx context.Context, req PasswordSignInRequest) (*TokenResponse, error) {
	var resp TokenResponse
	if err := t.post(ctx, "signInWithPassword", req, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (t *RESTTransport) SignInWithIdp(ctx context.Context, req IdpSignInRequest) (*TokenResponse, error) {
	var resp TokenResponse
	if err := t.post(ctx, "signInWithIdp", req, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (t *RESTTransport) SignInWithCustomToken(ctx context.Context, req CustomTokenSignInRequest) (*TokenResponse, error) {
	var resp TokenResponse
	if err := t.post(ctx, "signInWithCustomToken", req, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RefreshToken calls the secure token endpoint, which takes a form body
// and answers in snake_case.
func (t *RESTTransport) RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}

	resp, err := t.do(ctx, t.secureTokenURL(), strings.NewReader(form.Encode()), map[string]string{
		"Content-Type": "application/x-www-form-urlencoded",
	})
	if err != nil {
		return nil, err
	}

	var raw secureTokenResponse
	if err := decodeJSON(resp, &raw); err != nil {
		return nil, err
	}
	return &TokenResponse{
		IDToken:      raw.IDToken,
		RefreshToken: raw.RefreshToken,
		ExpiresIn:    raw.ExpiresIn,
		LocalID:      raw.UserID,
	}, nil
}

// ============================================================================
// Out-of-band Codes and Provider Discovery
// ============================================================================

func (t *RESTTransport) SendOobCode(ctx context.Context, req OobCodeRequest) error {
	var headers map[string]string
	if req.Locale != "" {
		headers = map[string]string{LocaleHeader: req.Locale}
	}
	var resp oobCodeResponse
	return t.post(ctx, "sendOobCode", req, headers, &resp)
}

func (t *RESTTransport) ResetPassword(ctx context.Context, req ResetPasswordRequest) (*ResetPasswordResponse, error) {
	var resp ResetPasswordResponse
	if err := t.post(ctx, "resetPassword", req, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (t *RESTTransport) FetchProviders(ctx context.Context, identifier, continueURI string) (*ProvidersResponse, error) {
	if continueURI == "" {
		continueURI = defaultContinueURI
	}
	var resp ProvidersResponse
	if err := t.post(ctx, "createAuthUri", createAuthURIRequest{Identifier: identifier, ContinueURI: continueURI}, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ============================================================================
// Account Management
// ============================================================================

func (t *RESTTransport) UpdateAccount(ctx context.Context, req UpdateAccountRequest) (*UpdateAccountResponse, error) {
	var resp UpdateAccountResponse
	if err := t.post(ctx, "update", req, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (t *RESTTransport) DeleteAccount(ctx context.Context, idToken string) error {
	return t.post(ctx, "delete", idTokenRequest{IDToken: idToken}, nil, nil)
}

func (t *RESTTransport) LookupAccount(ctx context.Context, idToken string) (*AccountInfo, error) {
	var resp lookupResponse
	if err := t.post(ctx, "lookup", idTokenRequest{IDToken: idToken}, nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Users) == 0 {
		return nil, &AuthError{Kind: KindTokenExpiredOrInvalid, Code: CodeUserNotFound, StatusCode: http.StatusBadRequest}
	}
	return &resp.Users[0], nil
}

// ============================================================================
// HTTP Helpers
// ============================================================================

func (t *RESTTransport) accountsURL(method string) string {
	return t.IdentityURL + "/accounts:" + method + "?key=" + url.QueryEscape(t.APIKey)
}

func (t *RESTTransport) secureTokenURL() string {
	return t.SecureTokenURL + "/token?key=" + url.QueryEscape(t.APIKey)
}

// post sends body as JSON to accounts:<method> and decodes the response
// into target, which may be nil.
func (t *RESTTransport) post(ctx context.Context, method string, body any, headers map[string]string, target any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("identity: encode %s request: %w", method, err)
	}

	h := map[string]string{"Content-Type": "application/json"}
	for k, v := range headers {
		h[k] = v
	}

	resp, err := t.do(ctx, t.accountsURL(method), bytes.NewReader(payload), h)
	if err != nil {
		return err
	}
	return decodeJSON(resp, target)
}

// do performs a POST. Failures before a response arrives become
// KindNetworkFailure errors wrapping the cause, including context
// cancellation.
func (t *RESTTransport) do(ctx context.Context, endpoint string, body io.Reader, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("identity: create request: %w", err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := t.httpClient().Do(req)
	if err != nil {
		return nil, newNetworkError(err)
	}
	return resp, nil
}

// decodeJSON reads the whole body, maps non-2xx responses to *AuthError
// and decodes successful ones into target.
func decodeJSON(resp *http.Response, target any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return newNetworkError(fmt.Errorf("read response body: %w", err))
	}

	if err := parseErrorResponse(resp, body); err != nil {
		return err
	}
	if target == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return &AuthError{
			Kind:       KindUnknownBackendError,
			Message:    "malformed response",
			StatusCode: resp.StatusCode,
			Err:        err,
		}
	}
	return nil
}
