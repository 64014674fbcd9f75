package identity

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/aussiebroadwan/idtoolkit/pkg/idx"
	"github.com/aussiebroadwan/idtoolkit/pkg/jwtx"
)

// SessionOptions configure a Session at sign-in time.
type SessionOptions struct {
	// AutoRefresh starts a background scheduler that refreshes the ID token
	// shortly before it expires
	AutoRefresh bool

	// Locale is used for transactional emails when an operation is not
	// given one explicitly. Defaults to Client.Locale.
	Locale string

	// OnRefreshError is called once, from the scheduler goroutine, when an
	// autonomous refresh fails. The scheduler does not retry.
	OnRefreshError func(error)
}

// Profile is the account state last reported by the backend.
type Profile struct {
	Email         string
	EmailVerified bool
	DisplayName   string
	PhotoURL      string

	// Providers lists the linked provider ids ("password", "google.com")
	Providers []string
}

// ProfileUpdate changes display attributes. Empty strings leave a field
// unchanged; the Delete flags clear it.
type ProfileUpdate struct {
	DisplayName       string
	PhotoURL          string
	DeleteDisplayName bool
	DeletePhotoURL    bool
}

// credentials is the token pair plus the times needed to schedule refreshes.
type credentials struct {
	idToken      string
	refreshToken string
	localID      string
	issuedAt     time.Time
	expiresAt    time.Time
}

// credentialsFrom builds credentials from a token response received at now.
// Responses without a localId (custom token sign-in, some refreshes) take it
// from the ID token claims, then from fallback.
func credentialsFrom(tok *TokenResponse, now time.Time, fallback string) credentials {
	localID := tok.LocalID
	if localID == "" {
		if claims, err := jwtx.ParseUnverified(tok.IDToken); err == nil {
			localID = claims.LocalID()
		}
	}
	if localID == "" {
		localID = fallback
	}

	return credentials{
		idToken:      tok.IDToken,
		refreshToken: tok.RefreshToken,
		localID:      localID,
		issuedAt:     now,
		expiresAt:    now.Add(time.Duration(tok.ExpiresIn) * time.Second),
	}
}

// refreshAt is when the ID token should be replaced. The lead is the
// configured margin, capped at half the token lifetime so short-lived
// tokens are not refreshed immediately after issue.
func (c credentials) refreshAt(margin time.Duration) time.Time {
	lead := margin
	if half := c.expiresAt.Sub(c.issuedAt) / 2; lead > half {
		lead = half
	}
	return c.expiresAt.Add(-lead)
}

// Session represents an authenticated user. It owns the token pair and
// serialises refreshes so concurrent callers share one backend call.
//
// A Session is safe for concurrent use. Call Close when done with it,
// otherwise an AutoRefresh scheduler keeps running.
type Session struct {
	client *Client
	id     idx.ID
	logger *slog.Logger

	mu      sync.RWMutex
	creds   credentials
	profile Profile
	locale  string
	closed  bool

	flight    singleflight.Group
	refresher *refresher
	closeOnce sync.Once
}

// newSession is the only constructor. It never fails. providers seeds the
// profile with sign-in methods known from the call that created it.
func newSession(c *Client, tok *TokenResponse, opts SessionOptions, providers ...string) *Session {
	locale := opts.Locale
	if locale == "" {
		locale = c.Locale
	}

	s := &Session{
		client: c,
		id:     idx.New(),
		creds:  credentialsFrom(tok, time.Now(), ""),
		locale: locale,
	}
	s.logger = c.logger().With("session_id", s.id.String())
	s.profile = Profile{
		Email:       tok.Email,
		DisplayName: tok.DisplayName,
		Providers:   addProvider(slices.Clone(providers), tok.ProviderID),
	}

	c.Metrics.sessionOpened()
	s.logger.Debug("session created",
		"local_id", s.creds.localID,
		"expires_at", s.creds.expiresAt,
		"auto_refresh", opts.AutoRefresh,
	)

	if opts.AutoRefresh {
		s.refresher = newRefresher(s, opts.OnRefreshError)
		s.refresher.start()
	}
	return s
}

// ============================================================================
// Accessors
// ============================================================================

// ID returns the session's log correlation id.
func (s *Session) ID() string { return s.id.String() }

// IDToken returns the current ID token. It may be expired; use Token to
// get one that is refreshed when needed.
func (s *Session) IDToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.idToken
}

// RefreshToken returns the current refresh token, e.g. to persist it for
// Client.RestoreSession.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.refreshToken
}

// LocalID returns the backend account id.
func (s *Session) LocalID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.localID
}

// ExpiresAt returns when the current ID token expires.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.expiresAt
}

// Profile returns a copy of the last known account profile.
func (s *Session) Profile() Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := s.profile
	p.Providers = slices.Clone(p.Providers)
	return p
}

// Locale returns the session's default locale.
func (s *Session) Locale() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locale
}

// SetLocale changes the session's default locale.
func (s *Session) SetLocale(locale string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locale = locale
}

// Claims decodes the current ID token without verifying it.
func (s *Session) Claims() (*jwtx.Claims, error) {
	return jwtx.ParseUnverified(s.IDToken())
}

// Closed reports whether Close or Delete has been called.
func (s *Session) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// snapshot returns the credentials for one request, or ErrSessionClosed.
func (s *Session) snapshot() (credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return credentials{}, ErrSessionClosed
	}
	return s.creds, nil
}

// ============================================================================
// Refresh
// ============================================================================

// Refresh exchanges the refresh token for a new token pair. Concurrent
// calls, including the scheduler's, share one backend request. ctx bounds
// how long the caller waits; the request itself runs to completion so the
// other waiters still get its result.
func (s *Session) Refresh(ctx context.Context) error {
	return s.refresh(ctx, TriggerManual)
}

func (s *Session) refresh(ctx context.Context, trigger string) error {
	if s.Closed() {
		return ErrSessionClosed
	}

	select {
	case res := <-s.refreshChan(context.WithoutCancel(ctx), trigger):
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// refreshChan joins the in-flight refresh or starts one.
func (s *Session) refreshChan(ctx context.Context, trigger string) <-chan singleflight.Result {
	return s.flight.DoChan("refresh", func() (any, error) {
		return nil, s.doRefresh(ctx, trigger)
	})
}

// doRefresh runs exactly once per coalesced refresh, so applying the result
// and re-arming the scheduler happen once as well.
func (s *Session) doRefresh(ctx context.Context, trigger string) error {
	c, err := s.snapshot()
	if err != nil {
		return err
	}

	start := time.Now()
	tok, err := s.client.Transport.RefreshToken(ctx, c.refreshToken)
	s.client.Metrics.recordRefresh(trigger, time.Since(start), err)
	if err != nil {
		s.logger.Warn("token refresh failed", "trigger", trigger, "err", err)
		return err
	}

	next := credentialsFrom(tok, time.Now(), c.localID)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.logger.Debug("discarding refresh result for closed session", "trigger", trigger)
		return ErrSessionClosed
	}
	s.creds = next
	s.mu.Unlock()

	s.logger.Debug("token refreshed", "trigger", trigger, "expires_at", next.expiresAt)
	s.rearm()
	return nil
}

// Token returns an ID token that is not within the refresh lead of its
// expiry, refreshing first when needed.
func (s *Session) Token(ctx context.Context) (string, error) {
	c, err := s.freshCredentials(ctx)
	if err != nil {
		return "", err
	}
	return c.idToken, nil
}

// freshCredentials returns one consistent credential snapshot, refreshing
// first when the current one is inside the refresh margin.
func (s *Session) freshCredentials(ctx context.Context) (credentials, error) {
	c, err := s.snapshot()
	if err != nil {
		return credentials{}, err
	}
	if time.Now().Before(c.refreshAt(s.client.refreshMargin())) {
		return c, nil
	}

	if err := s.refresh(ctx, TriggerOnDemand); err != nil {
		return credentials{}, err
	}
	return s.snapshot()
}

// nextRefreshIn is how long the scheduler should sleep.
func (s *Session) nextRefreshIn() time.Duration {
	s.mu.RLock()
	c := s.creds
	s.mu.RUnlock()
	return time.Until(c.refreshAt(s.client.refreshMargin()))
}

// lifetime is the validity window of the current ID token as issued.
func (s *Session) lifetime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.expiresAt.Sub(s.creds.issuedAt)
}

// rearm tells the scheduler the expiry changed.
func (s *Session) rearm() {
	if s.refresher != nil {
		s.refresher.reset()
	}
}

// RefreshState reports the scheduler state. Sessions without AutoRefresh
// are always RefreshIdle until closed.
func (s *Session) RefreshState() RefreshState {
	if s.refresher == nil {
		if s.Closed() {
			return RefreshClosed
		}
		return RefreshIdle
	}
	return s.refresher.State()
}

// RefreshDone is closed when the scheduler stops, either after a failed
// refresh or on Close. It is nil for sessions without AutoRefresh.
func (s *Session) RefreshDone() <-chan struct{} {
	if s.refresher == nil {
		return nil
	}
	return s.refresher.done
}

// RefreshErr returns the error that stopped the scheduler, or nil.
func (s *Session) RefreshErr() error {
	if s.refresher == nil {
		return nil
	}
	return s.refresher.Err()
}

// ============================================================================
// Account Mutations
// ============================================================================

// LinkEmail attaches an email/password credential to the account, typically
// to upgrade an anonymous session. The backend issues new tokens.
func (s *Session) LinkEmail(ctx context.Context, email, password string) error {
	c, err := s.snapshot()
	if err != nil {
		return err
	}

	resp, err := s.client.Transport.UpdateAccount(ctx, NewEmailLink(c.idToken, email, password))
	s.client.Metrics.recordOperation("link_email", err)
	if err != nil {
		return err
	}
	s.applyUpdate(resp)
	return nil
}

// LinkIdp attaches an identity provider credential to the account. postBody
// and requestURI are passed through unchanged; see IdpPostBody.
func (s *Session) LinkIdp(ctx context.Context, postBody, requestURI string) error {
	c, err := s.snapshot()
	if err != nil {
		return err
	}

	tok, err := s.client.Transport.SignInWithIdp(ctx, NewIdpLink(c.idToken, postBody, requestURI))
	s.client.Metrics.recordOperation("link_idp", err)
	if err != nil {
		return err
	}

	next := credentialsFrom(tok, time.Now(), c.localID)
	s.mu.Lock()
	if !s.closed {
		s.creds = next
		s.profile.Providers = addProvider(s.profile.Providers, tok.ProviderID)
		if s.profile.Email == "" {
			s.profile.Email = tok.Email
		}
	}
	s.mu.Unlock()

	s.rearm()
	return nil
}

// Unlink removes providers from the account.
func (s *Session) Unlink(ctx context.Context, providerIDs ...string) error {
	return s.update(ctx, "unlink", func(idToken string) UpdateAccountRequest {
		return NewUnlink(idToken, providerIDs...)
	})
}

// UpdateProfile changes the display name and photo URL.
func (s *Session) UpdateProfile(ctx context.Context, u ProfileUpdate) error {
	return s.update(ctx, "update_profile", func(idToken string) UpdateAccountRequest {
		req := UpdateAccountRequest{IDToken: idToken, DisplayName: u.DisplayName, PhotoURL: u.PhotoURL}
		if u.DeleteDisplayName {
			req.DisplayName = ""
			req.DeleteAttribute = append(req.DeleteAttribute, AttributeDisplayName)
		}
		if u.DeletePhotoURL {
			req.PhotoURL = ""
			req.DeleteAttribute = append(req.DeleteAttribute, AttributePhotoURL)
		}
		return req
	})
}

// ChangeEmail changes the account email. The backend issues new tokens.
func (s *Session) ChangeEmail(ctx context.Context, email string) error {
	return s.update(ctx, "change_email", func(idToken string) UpdateAccountRequest {
		return UpdateAccountRequest{IDToken: idToken, Email: email, ReturnSecureToken: true}
	})
}

// ChangePassword changes the account password. The backend issues new
// tokens and revokes the old refresh token.
func (s *Session) ChangePassword(ctx context.Context, password string) error {
	return s.update(ctx, "change_password", func(idToken string) UpdateAccountRequest {
		return UpdateAccountRequest{IDToken: idToken, Password: password, ReturnSecureToken: true}
	})
}

func (s *Session) update(ctx context.Context, op string, build func(idToken string) UpdateAccountRequest) error {
	c, err := s.snapshot()
	if err != nil {
		return err
	}

	resp, err := s.client.Transport.UpdateAccount(ctx, build(c.idToken))
	s.client.Metrics.recordOperation(op, err)
	if err != nil {
		return err
	}
	s.applyUpdate(resp)
	return nil
}

// applyUpdate replaces the profile and, when present, the tokens. A session
// closed while the request was in flight keeps its final state.
func (s *Session) applyUpdate(resp *UpdateAccountResponse) {
	tok, hasTokens := resp.tokens()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if hasTokens {
		s.creds = credentialsFrom(tok, time.Now(), s.creds.localID)
	}
	s.profile = Profile{
		Email:         resp.Email,
		EmailVerified: resp.EmailVerified,
		DisplayName:   resp.DisplayName,
		PhotoURL:      resp.PhotoURL,
		Providers:     providerIDs(resp.ProviderUserInfo),
	}
	s.mu.Unlock()

	if hasTokens {
		s.rearm()
	}
}

// Reload fetches the account and replaces the profile.
func (s *Session) Reload(ctx context.Context) error {
	c, err := s.snapshot()
	if err != nil {
		return err
	}

	info, err := s.client.Transport.LookupAccount(ctx, c.idToken)
	s.client.Metrics.recordOperation("lookup", err)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.profile = Profile{
		Email:         info.Email,
		EmailVerified: info.EmailVerified,
		DisplayName:   info.DisplayName,
		PhotoURL:      info.PhotoURL,
		Providers:     providerIDs(info.ProviderUserInfo),
	}
	return nil
}

// RequestEmailConfirmation sends a verification email. locale overrides the
// session locale; with neither set the backend default is used.
func (s *Session) RequestEmailConfirmation(ctx context.Context, locale string) error {
	c, err := s.snapshot()
	if err != nil {
		return err
	}
	if locale == "" {
		locale = s.Locale()
	}

	err = s.client.Transport.SendOobCode(ctx, NewVerifyEmailRequest(c.idToken, locale))
	s.client.Metrics.recordOperation("send_verify_email", err)
	return err
}

// Delete deletes the account. On success the session is closed.
func (s *Session) Delete(ctx context.Context) error {
	c, err := s.snapshot()
	if err != nil {
		return err
	}

	err = s.client.Transport.DeleteAccount(ctx, c.idToken)
	s.client.Metrics.recordOperation("delete", err)
	if err != nil {
		return err
	}

	s.logger.Info("account deleted", "local_id", c.localID)
	s.Close()
	return nil
}

// Close stops the refresh scheduler and makes every later operation fail
// with ErrSessionClosed. It does not wait for in-flight requests and is
// safe to call more than once, from any goroutine, including
// OnRefreshError.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		if s.refresher != nil {
			s.refresher.stop()
		}
		s.client.Metrics.sessionClosed()
		s.logger.Debug("session closed")
	})
}

// addProvider appends id unless it is empty or already listed.
func addProvider(ids []string, id string) []string {
	if id == "" || slices.Contains(ids, id) {
		return ids
	}
	return append(ids, id)
}

func providerIDs(infos []ProviderUserInfo) []string {
	if len(infos) == 0 {
		return nil
	}
	ids := make([]string, 0, len(infos))
	for _, p := range infos {
		ids = append(ids, p.ProviderID)
	}
	return ids
}
