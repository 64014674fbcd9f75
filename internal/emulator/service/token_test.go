package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/idtoolkit/pkg/jwtx"
)

func TestRefreshRotatesTokens(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)
	res := env.signUp(t, "ada@example.com")

	pair, err := env.tokens.Refresh(ctx, res.Tokens.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, res.Account.LocalID, pair.LocalID)
	require.NotEqual(t, res.Tokens.RefreshToken, pair.RefreshToken)

	// The sign-in provider survives rotation
	require.Equal(t, jwtx.ProviderPassword, env.claims(t, pair.IDToken).Provider.SignInProvider)

	_, err = env.tokens.Refresh(ctx, res.Tokens.RefreshToken)
	require.ErrorIs(t, err, ErrTokenExpired)

	next, err := env.tokens.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	require.Equal(t, 3.0, testutil.ToFloat64(env.tokens.Metrics.TokensIssued.WithLabelValues(jwtx.ProviderPassword)))
}

func TestRefreshErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.tokens.Refresh(ctx, "")
	require.ErrorIs(t, err, ErrMissingRefreshToken)

	_, err = env.tokens.Refresh(ctx, "never-issued")
	require.ErrorIs(t, err, ErrInvalidRefreshToken)

	t.Run("expired", func(t *testing.T) {
		short := *env.tokens
		short.RefreshTTL = -time.Second
		svc := *env.accounts
		svc.Tokens = &short

		res, err := svc.SignUp(ctx, "ada@example.com", testPassword, "")
		require.NoError(t, err)
		_, err = env.tokens.Refresh(ctx, res.Tokens.RefreshToken)
		require.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("disabled account", func(t *testing.T) {
		res := env.signUp(t, "grace@example.com")
		a := res.Account
		a.Disabled = true
		require.NoError(t, env.store.Accounts().UpdateAccount(ctx, a))

		_, err := env.tokens.Refresh(ctx, res.Tokens.RefreshToken)
		require.ErrorIs(t, err, ErrUserDisabled)
	})
}

func TestVerifyIDToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)
	res := env.signUp(t, "ada@example.com")

	a, claims, err := env.tokens.VerifyIDToken(ctx, res.Tokens.IDToken)
	require.NoError(t, err)
	require.Equal(t, res.Account.LocalID, a.LocalID)
	require.Equal(t, jwtx.IssuerFor(testProjectID), claims.Issuer)

	t.Run("empty and garbage", func(t *testing.T) {
		_, _, err := env.tokens.VerifyIDToken(ctx, "")
		require.ErrorIs(t, err, ErrInvalidIDToken)
		_, _, err = env.tokens.VerifyIDToken(ctx, "a.b.c")
		require.ErrorIs(t, err, ErrInvalidIDToken)
	})

	t.Run("expired", func(t *testing.T) {
		short := *env.tokens
		short.IDTokenTTL = -time.Second
		pair, err := short.Issue(ctx, env.store, res.Account, jwtx.ProviderPassword)
		require.NoError(t, err)

		_, _, err = env.tokens.VerifyIDToken(ctx, pair.IDToken)
		require.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("issued by another emulator", func(t *testing.T) {
		other := newTestEnv(t)
		foreign := other.signUp(t, "ada@example.com")
		_, _, err := env.tokens.VerifyIDToken(ctx, foreign.Tokens.IDToken)
		require.ErrorIs(t, err, ErrInvalidIDToken)
	})

	t.Run("issued before valid since", func(t *testing.T) {
		b := env.signUp(t, "grace@example.com")
		acct := b.Account
		acct.ValidSince = time.Now().Add(time.Minute)
		require.NoError(t, env.store.Accounts().UpdateAccount(ctx, acct))

		_, _, err := env.tokens.VerifyIDToken(ctx, b.Tokens.IDToken)
		require.ErrorIs(t, err, ErrTokenExpired)
	})
}

func TestNilMetrics(t *testing.T) {
	t.Parallel()

	var m *Metrics
	require.NotPanics(t, func() {
		m.tokenIssued(jwtx.ProviderPassword)
		m.oobCodeSent("VERIFY_EMAIL")
	})
}
