package identity_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/idtoolkit/pkg/identity"
	"github.com/aussiebroadwan/idtoolkit/pkg/jwtx"
)

// TestAccountLifecycle walks one account from sign-up to deletion.
func TestAccountLifecycle(t *testing.T) {
	baseURL := setupEmulator(t, relaxedLimits)
	c := newClient(baseURL)
	ctx := context.Background()

	res, err := c.SignUpWithPassword(ctx, "ada@example.com", password, identity.SignUpOptions{AutoVerify: true})
	require.NoError(t, err)
	s := res.Session
	defer s.Close()
	require.NoError(t, res.Verification.Err)

	claims, err := s.Claims()
	require.NoError(t, err)
	require.Equal(t, jwtx.IssuerFor(projectID), claims.Issuer)

	codes := listOobCodes(t, baseURL)
	require.Len(t, codes, 1)
	require.Equal(t, "VERIFY_EMAIL", codes[0].RequestType)
	confirmEmail(t, baseURL, codes[0].OobCode)

	require.NoError(t, s.Reload(ctx))
	require.True(t, s.Profile().EmailVerified)

	providers, err := c.FetchProviders(ctx, "ada@example.com", "")
	require.NoError(t, err)
	require.Equal(t, []string{identity.ProviderEmail}, providers)

	before := s.RefreshToken()
	require.NoError(t, s.Refresh(ctx))
	require.NotEqual(t, before, s.RefreshToken())

	require.NoError(t, s.Delete(ctx))
	_, err = c.SignInWithPassword(ctx, "ada@example.com", password, identity.SessionOptions{})
	require.ErrorIs(t, err, identity.ErrInvalidCredentials)
}

// TestPasswordResetFlow resets a password through the listed OOB code.
func TestPasswordResetFlow(t *testing.T) {
	baseURL := setupEmulator(t, relaxedLimits)
	c := newClient(baseURL)
	ctx := context.Background()

	res, err := c.SignUpWithPassword(ctx, "grace@example.com", password, identity.SignUpOptions{})
	require.NoError(t, err)
	res.Session.Close()

	require.NoError(t, c.RequestPasswordReset(ctx, "grace@example.com", "fr"))
	codes := listOobCodes(t, baseURL)
	require.Len(t, codes, 1)
	require.Equal(t, "PASSWORD_RESET", codes[0].RequestType)
	require.Equal(t, "fr", codes[0].Locale)

	email, err := c.ValidatePasswordReset(ctx, codes[0].OobCode)
	require.NoError(t, err)
	require.Equal(t, "grace@example.com", email)
	require.NoError(t, c.ResetPassword(ctx, codes[0].OobCode, "brand-new-secret"))

	s, err := c.SignInWithPassword(ctx, "grace@example.com", "brand-new-secret", identity.SessionOptions{})
	require.NoError(t, err)
	s.Close()
}

// TestAnonymousUpgradeAndCustomToken covers account linking and custom
// token sign-in.
func TestAnonymousUpgradeAndCustomToken(t *testing.T) {
	baseURL := setupEmulator(t, relaxedLimits)
	c := newClient(baseURL)
	ctx := context.Background()

	s, err := c.SignUpAnonymous(ctx, identity.SessionOptions{})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.LinkEmail(ctx, "linus@example.com", password))
	require.NoError(t, s.LinkIdp(ctx, identity.IdpPostBody("github.com", "", "gh-linus"), "http://localhost"))
	require.Equal(t, []string{"password", "github.com"}, s.Profile().Providers)

	token, err := jwtx.SignCustomToken([]byte("e2e-custom-secret"), "backend@example.com", "server-uid", time.Minute, time.Now())
	require.NoError(t, err)
	custom, err := c.SignInWithCustomToken(ctx, token, identity.SessionOptions{})
	require.NoError(t, err)
	defer custom.Close()
	require.Equal(t, "server-uid", custom.LocalID())
}

// TestAPIKeyEnforced verifies configured API keys are checked.
func TestAPIKeyEnforced(t *testing.T) {
	baseURL := setupEmulator(t, relaxedLimits)

	tr := identity.NewRESTTransport("wrong-key")
	tr.UseEmulator(baseURL)
	c := identity.NewClientWithTransport(tr)

	_, err := c.SignUpAnonymous(context.Background(), identity.SessionOptions{})
	var authErr *identity.AuthError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, "INVALID_API_KEY", authErr.Code)
}

// confirmEmail redeems a VERIFY_EMAIL code the way the action page would.
func confirmEmail(t *testing.T, baseURL, code string) {
	t.Helper()

	body, err := json.Marshal(map[string]string{"oobCode": code})
	require.NoError(t, err)

	resp, err := http.Post(baseURL+"/identitytoolkit.googleapis.com/v1/accounts:update?key="+apiKey,
		"application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
