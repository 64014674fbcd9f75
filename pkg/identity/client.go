package identity

import (
	"context"
	"log/slog"
	"slices"
	"time"
)

// ProviderEmail is reported by FetchProviders for accounts that can sign in
// with email and password.
const ProviderEmail = "email"

// passwordProvider is the backend's provider id for email/password accounts.
const passwordProvider = "password"

// Client is the entry point for unauthenticated operations. Sign-up and
// sign-in methods return a Session that owns the resulting tokens.
type Client struct {
	Transport Transport

	// Logger receives SDK log lines. Default: slog.Default()
	Logger *slog.Logger

	// Metrics is optional; nil records nothing
	Metrics *Metrics

	// RefreshMargin is how long before expiry session tokens are refreshed.
	// It is capped at half the token lifetime. Default: DefaultRefreshMargin
	RefreshMargin time.Duration

	// Locale is the default for sessions that do not set their own
	Locale string
}

// NewClient creates a client for the production REST API.
func NewClient(apiKey string) *Client {
	return NewClientWithTransport(NewRESTTransport(apiKey))
}

// NewClientWithTransport creates a client over any Transport.
func NewClientWithTransport(t Transport) *Client {
	return &Client{
		Transport:     t,
		Logger:        slog.Default(),
		RefreshMargin: DefaultRefreshMargin,
	}
}

func (c *Client) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

func (c *Client) refreshMargin() time.Duration {
	if c.RefreshMargin <= 0 {
		return DefaultRefreshMargin
	}
	return c.RefreshMargin
}

// ============================================================================
// Provider Discovery
// ============================================================================

// FetchProviders lists the sign-in methods registered for email. "email"
// comes first when the account has a password, followed by the backend's
// federated provider ids in backend order. Unknown emails yield an empty
// list.
func (c *Client) FetchProviders(ctx context.Context, email, continueURI string) ([]string, error) {
	resp, err := c.Transport.FetchProviders(ctx, email, continueURI)
	c.Metrics.recordOperation("fetch_providers", err)
	if err != nil {
		return nil, err
	}

	providers := []string{}
	if !resp.Registered {
		return providers, nil
	}

	hasPassword := slices.Contains(resp.AllProviders, passwordProvider)
	if len(resp.SigninMethods) > 0 {
		hasPassword = slices.Contains(resp.SigninMethods, passwordProvider)
	}
	if hasPassword {
		providers = append(providers, ProviderEmail)
	}
	for _, p := range resp.AllProviders {
		if p != passwordProvider {
			providers = append(providers, p)
		}
	}
	return providers, nil
}

// ============================================================================
// Sign-up and Sign-in
// ============================================================================

// SignUpOptions configure SignUpWithPassword.
type SignUpOptions struct {
	SessionOptions

	// AutoVerify sends a confirmation email after the account is created
	AutoVerify bool
}

// Verification reports the confirmation email dispatched by sign-up.
type Verification struct {
	Requested bool

	// Err is the dispatch failure, if any. It never fails the sign-up.
	Err error
}

// SignUpResult is returned by SignUpWithPassword.
type SignUpResult struct {
	Session      *Session
	Verification Verification
}

// SignUpAnonymous creates an anonymous account.
func (c *Client) SignUpAnonymous(ctx context.Context, opts SessionOptions) (*Session, error) {
	tok, err := c.Transport.SignUp(ctx, NewAnonymousSignUp())
	c.Metrics.recordOperation("sign_up_anonymous", err)
	if err != nil {
		return nil, err
	}
	return newSession(c, tok, opts), nil
}

// SignUpWithPassword creates an email/password account. With AutoVerify the
// confirmation email is sent before returning; a failure to send it is
// reported in the result, not as an error.
func (c *Client) SignUpWithPassword(ctx context.Context, email, password string, opts SignUpOptions) (*SignUpResult, error) {
	tok, err := c.Transport.SignUp(ctx, NewPasswordSignUp(email, password))
	c.Metrics.recordOperation("sign_up_password", err)
	if err != nil {
		return nil, err
	}

	result := &SignUpResult{Session: newSession(c, tok, opts.SessionOptions, passwordProvider)}
	if !opts.AutoVerify {
		return result, nil
	}

	result.Verification.Requested = true
	if err := result.Session.RequestEmailConfirmation(ctx, ""); err != nil {
		result.Session.logger.Warn("failed to send confirmation email", "err", err)
		result.Verification.Err = err
	}
	return result, nil
}

// SignInWithPassword signs in with email and password.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string, opts SessionOptions) (*Session, error) {
	tok, err := c.Transport.SignInWithPassword(ctx, NewPasswordSignIn(email, password))
	c.Metrics.recordOperation("sign_in_password", err)
	if err != nil {
		return nil, err
	}
	return newSession(c, tok, opts, passwordProvider), nil
}

// SignInWithIdp signs in with an identity provider credential. postBody and
// requestURI are passed through unchanged; see IdpPostBody.
func (c *Client) SignInWithIdp(ctx context.Context, postBody, requestURI string, opts SessionOptions) (*Session, error) {
	tok, err := c.Transport.SignInWithIdp(ctx, NewIdpSignIn(postBody, requestURI))
	c.Metrics.recordOperation("sign_in_idp", err)
	if err != nil {
		return nil, err
	}
	return newSession(c, tok, opts), nil
}

// SignInWithCustomToken signs in with a token minted by a trusted server.
func (c *Client) SignInWithCustomToken(ctx context.Context, token string, opts SessionOptions) (*Session, error) {
	tok, err := c.Transport.SignInWithCustomToken(ctx, NewCustomTokenSignIn(token))
	c.Metrics.recordOperation("sign_in_custom_token", err)
	if err != nil {
		return nil, err
	}
	return newSession(c, tok, opts), nil
}

// RestoreSession rebuilds a session from a refresh token saved by an earlier
// one (see Session.RefreshToken).
func (c *Client) RestoreSession(ctx context.Context, refreshToken string, opts SessionOptions) (*Session, error) {
	tok, err := c.Transport.RefreshToken(ctx, refreshToken)
	c.Metrics.recordOperation("restore_session", err)
	if err != nil {
		return nil, err
	}
	return newSession(c, tok, opts), nil
}

// ============================================================================
// Password Reset
// ============================================================================

// RequestPasswordReset emails a password reset code. An empty locale falls
// back to Client.Locale.
func (c *Client) RequestPasswordReset(ctx context.Context, email, locale string) error {
	if locale == "" {
		locale = c.Locale
	}
	err := c.Transport.SendOobCode(ctx, NewPasswordResetRequest(email, locale))
	c.Metrics.recordOperation("send_password_reset", err)
	return err
}

// ValidatePasswordReset checks a reset code without consuming it and
// returns the account email.
func (c *Client) ValidatePasswordReset(ctx context.Context, oobCode string) (string, error) {
	resp, err := c.Transport.ResetPassword(ctx, ResetPasswordRequest{OobCode: oobCode})
	c.Metrics.recordOperation("validate_password_reset", err)
	if err != nil {
		return "", err
	}
	return resp.Email, nil
}

// ResetPassword consumes a reset code and sets a new password.
func (c *Client) ResetPassword(ctx context.Context, oobCode, newPassword string) error {
	_, err := c.Transport.ResetPassword(ctx, ResetPasswordRequest{OobCode: oobCode, NewPassword: newPassword})
	c.Metrics.recordOperation("reset_password", err)
	return err
}
