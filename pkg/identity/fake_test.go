package identity

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/idtoolkit/pkg/jwtx"
	"github.com/aussiebroadwan/idtoolkit/pkg/slogx"
)

// fakeTransport is an in-memory Transport. Every token it issues is a
// well-formed unsigned-looking JWT carrying user_id, so tests can check the
// session never holds a corrupted token. Hooks override individual calls.
type fakeTransport struct {
	mu        sync.Mutex
	serial    int
	calls     map[string]int
	oob       []OobCodeRequest
	updates   []UpdateAccountRequest
	expiresIn int64
	localID   string

	onRefresh   func(ctx context.Context, refreshToken string) (*TokenResponse, error)
	onSignUp    func(req SignUpRequest) (*TokenResponse, error)
	onSendOob   func(req OobCodeRequest) error
	onUpdate    func(req UpdateAccountRequest) (*UpdateAccountResponse, error)
	onIdp       func(req IdpSignInRequest) (*TokenResponse, error)
	onReset     func(req ResetPasswordRequest) (*ResetPasswordResponse, error)
	providers   *ProvidersResponse
	lookup      *AccountInfo
	deleteError error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		calls:     make(map[string]int),
		expiresIn: 3600,
		localID:   "uid-1",
	}
}

func (f *fakeTransport) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
}

func (f *fakeTransport) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// issue mints a fresh token pair.
func (f *fakeTransport) issue() *TokenResponse {
	f.mu.Lock()
	f.serial++
	n := f.serial
	ttl := f.expiresIn
	uid := f.localID
	f.mu.Unlock()

	return &TokenResponse{
		IDToken:      testIDToken(uid, n),
		RefreshToken: fmt.Sprintf("refresh-%d", n),
		ExpiresIn:    ttl,
		LocalID:      uid,
	}
}

func (f *fakeTransport) SignUp(_ context.Context, req SignUpRequest) (*TokenResponse, error) {
	f.record("signUp")
	if f.onSignUp != nil {
		return f.onSignUp(req)
	}
	tok := f.issue()
	tok.Email = req.Email
	return tok, nil
}

func (f *fakeTransport) SignInWithPassword(_ context.Context, req PasswordSignInRequest) (*TokenResponse, error) {
	f.record("signInWithPassword")
	tok := f.issue()
	tok.Email = req.Email
	tok.Registered = true
	return tok, nil
}

func (f *fakeTransport) SignInWithIdp(_ context.Context, req IdpSignInRequest) (*TokenResponse, error) {
	f.record("signInWithIdp")
	if f.onIdp != nil {
		return f.onIdp(req)
	}
	tok := f.issue()
	tok.ProviderID = "google.com"
	return tok, nil
}

func (f *fakeTransport) SignInWithCustomToken(_ context.Context, _ CustomTokenSignInRequest) (*TokenResponse, error) {
	f.record("signInWithCustomToken")
	tok := f.issue()
	tok.LocalID = ""
	return tok, nil
}

func (f *fakeTransport) RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	f.record("refresh")
	if f.onRefresh != nil {
		return f.onRefresh(ctx, refreshToken)
	}
	return f.issue(), nil
}

func (f *fakeTransport) SendOobCode(_ context.Context, req OobCodeRequest) error {
	f.record("sendOobCode")
	f.mu.Lock()
	f.oob = append(f.oob, req)
	f.mu.Unlock()
	if f.onSendOob != nil {
		return f.onSendOob(req)
	}
	return nil
}

func (f *fakeTransport) ResetPassword(_ context.Context, req ResetPasswordRequest) (*ResetPasswordResponse, error) {
	f.record("resetPassword")
	if f.onReset != nil {
		return f.onReset(req)
	}
	return &ResetPasswordResponse{Email: "ada@example.com", RequestType: OobPasswordReset}, nil
}

func (f *fakeTransport) FetchProviders(_ context.Context, _, _ string) (*ProvidersResponse, error) {
	f.record("createAuthUri")
	if f.providers == nil {
		return &ProvidersResponse{}, nil
	}
	return f.providers, nil
}

func (f *fakeTransport) UpdateAccount(_ context.Context, req UpdateAccountRequest) (*UpdateAccountResponse, error) {
	f.record("update")
	f.mu.Lock()
	f.updates = append(f.updates, req)
	f.mu.Unlock()
	if f.onUpdate != nil {
		return f.onUpdate(req)
	}

	resp := &UpdateAccountResponse{
		LocalID:     f.localID,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
	}
	if req.ReturnSecureToken {
		tok := f.issue()
		resp.IDToken, resp.RefreshToken, resp.ExpiresIn = tok.IDToken, tok.RefreshToken, tok.ExpiresIn
	}
	return resp, nil
}

func (f *fakeTransport) DeleteAccount(_ context.Context, _ string) error {
	f.record("delete")
	return f.deleteError
}

func (f *fakeTransport) LookupAccount(_ context.Context, _ string) (*AccountInfo, error) {
	f.record("lookup")
	if f.lookup == nil {
		return &AccountInfo{LocalID: f.localID}, nil
	}
	return f.lookup, nil
}

func (f *fakeTransport) OobRequests() []OobCodeRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]OobCodeRequest(nil), f.oob...)
}

// testIDToken builds an HS256 token with the claims sessions read. The
// signature is never checked client side.
func testIDToken(uid string, n int) string {
	claims := jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: uid,
			ID:      fmt.Sprintf("jti-%d", n),
		},
		UserID: uid,
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test"))
	if err != nil {
		panic(err)
	}
	return tok
}

func newTestClient(t *testing.T, ft *fakeTransport) *Client {
	t.Helper()
	c := NewClientWithTransport(ft)
	c.Logger = slogx.Discard()
	return c
}

// newTestSession signs in anonymously and closes the session at cleanup.
func newTestSession(t *testing.T, c *Client, opts SessionOptions) *Session {
	t.Helper()
	s, err := c.SignUpAnonymous(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

// requireWellFormed fails unless token decodes as a JWT for uid.
func requireWellFormed(t *testing.T, token, uid string) {
	t.Helper()
	claims, err := jwtx.ParseUnverified(token)
	require.NoError(t, err)
	require.Equal(t, uid, claims.LocalID())
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 5*time.Second, 5*time.Millisecond)
}
