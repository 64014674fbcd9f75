package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/idtoolkit/internal/emulator/domain"
	"github.com/aussiebroadwan/idtoolkit/pkg/jwtx"
)

func TestSignUp(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	t.Run("password", func(t *testing.T) {
		res, err := env.accounts.SignUp(ctx, " ada@example.com ", testPassword, "Ada")
		require.NoError(t, err)
		require.True(t, res.IsNewUser)
		require.Equal(t, "ada@example.com", res.Account.Email)
		require.NotEmpty(t, res.Tokens.RefreshToken)
		require.Equal(t, time.Hour, res.Tokens.ExpiresIn)

		c := env.claims(t, res.Tokens.IDToken)
		require.Equal(t, res.Account.LocalID, c.LocalID())
		require.Equal(t, jwtx.ProviderPassword, c.Provider.SignInProvider)
		require.Equal(t, []string{"ada@example.com"}, c.Provider.Identities["email"])
		require.Equal(t, "Ada", c.Name)
	})

	t.Run("email taken regardless of case", func(t *testing.T) {
		_, err := env.accounts.SignUp(ctx, "ADA@example.com", testPassword, "")
		require.ErrorIs(t, err, ErrEmailExists)
	})

	t.Run("anonymous", func(t *testing.T) {
		res, err := env.accounts.SignUp(ctx, "", "", "")
		require.NoError(t, err)
		require.Empty(t, res.Account.Email)
		require.Equal(t, jwtx.ProviderAnonymous, env.claims(t, res.Tokens.IDToken).Provider.SignInProvider)
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			email, password string
			want            error
		}{
			{"grace@example.com", "12345", ErrWeakPassword},
			{"not-an-email", testPassword, ErrInvalidEmail},
			{"Grace <grace@example.com>", testPassword, ErrInvalidEmail},
			{"", testPassword, ErrMissingEmail},
			{"grace@example.com", "", ErrMissingPassword},
		}
		for _, tt := range tests {
			_, err := env.accounts.SignUp(ctx, tt.email, tt.password, "")
			require.ErrorIs(t, err, tt.want, "%q/%q", tt.email, tt.password)
		}
	})
}

func TestSignUpDisabledMethods(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)
	env.accounts.DisableAnonymous = true
	env.accounts.DisablePassword = true

	_, err := env.accounts.SignUp(ctx, "", "", "")
	require.ErrorIs(t, err, ErrOperationNotAllowed)

	_, err = env.accounts.SignUp(ctx, "ada@example.com", testPassword, "")
	require.ErrorIs(t, err, ErrOperationNotAllowed)

	_, err = env.accounts.SignInWithPassword(ctx, "ada@example.com", testPassword)
	require.ErrorIs(t, err, ErrPasswordLoginDisabled)
}

func TestSignInWithPassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)
	created := env.signUp(t, "ada@example.com")

	t.Run("success", func(t *testing.T) {
		res, err := env.accounts.SignInWithPassword(ctx, "Ada@Example.com", testPassword)
		require.NoError(t, err)
		require.False(t, res.IsNewUser)
		require.Equal(t, created.Account.LocalID, res.Account.LocalID)
		require.NotEqual(t, created.Tokens.RefreshToken, res.Tokens.RefreshToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.accounts.SignInWithPassword(ctx, "ada@example.com", "wrong-password")
		require.ErrorIs(t, err, ErrInvalidPassword)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := env.accounts.SignInWithPassword(ctx, "nobody@example.com", testPassword)
		require.ErrorIs(t, err, ErrEmailNotFound)
	})

	t.Run("disabled account", func(t *testing.T) {
		b := env.signUp(t, "grace@example.com").Account
		b.Disabled = true
		require.NoError(t, env.store.Accounts().UpdateAccount(ctx, b))

		_, err := env.accounts.SignInWithPassword(ctx, "grace@example.com", testPassword)
		require.ErrorIs(t, err, ErrUserDisabled)
	})
}

func TestSignInWithIdp(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	body := idpPostBody(t, "google.com", "g-123", "ada@gmail.com", "Ada")

	first, err := env.accounts.SignInWithIdp(ctx, IdpRequest{PostBody: body, RequestURI: "http://localhost"})
	require.NoError(t, err)
	require.True(t, first.IsNewUser)
	require.Equal(t, "google.com", first.ProviderID)
	require.Equal(t, "g-123", first.FederatedID)
	require.Equal(t, "ada@gmail.com", first.Account.Email)
	require.True(t, first.Account.EmailVerified)
	require.Equal(t, "Ada", first.Account.DisplayName)

	c := env.claims(t, first.Tokens.IDToken)
	require.Equal(t, "google.com", c.Provider.SignInProvider)
	require.Equal(t, []string{"g-123"}, c.Provider.Identities["google.com"])

	t.Run("returning user", func(t *testing.T) {
		again, err := env.accounts.SignInWithIdp(ctx, IdpRequest{PostBody: body, RequestURI: "http://localhost"})
		require.NoError(t, err)
		require.False(t, again.IsNewUser)
		require.Equal(t, first.Account.LocalID, again.Account.LocalID)
	})

	t.Run("access token credential", func(t *testing.T) {
		res, err := env.accounts.SignInWithIdp(ctx, IdpRequest{
			PostBody:   "providerId=github.com&access_token=gh-token",
			RequestURI: "http://localhost",
		})
		require.NoError(t, err)
		require.Equal(t, "gh-token", res.FederatedID)
		require.Empty(t, res.Account.Email)
	})

	t.Run("email owned by another account", func(t *testing.T) {
		env.signUp(t, "grace@example.com")
		_, err := env.accounts.SignInWithIdp(ctx, IdpRequest{
			PostBody:   idpPostBody(t, "google.com", "g-grace", "grace@example.com", ""),
			RequestURI: "http://localhost",
		})
		require.ErrorIs(t, err, ErrEmailExists)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		for _, body := range []string{
			"",
			"providerId=google.com",
			"providerId=password&access_token=x",
			"access_token=x",
			"providerId=google.com&id_token=not-a-jwt",
		} {
			_, err := env.accounts.SignInWithIdp(ctx, IdpRequest{PostBody: body, RequestURI: "http://localhost"})
			require.ErrorIs(t, err, ErrInvalidIdpResponse, body)
		}

		_, err := env.accounts.SignInWithIdp(ctx, IdpRequest{PostBody: body})
		require.ErrorIs(t, err, ErrMissingRequestURI)
	})
}

func TestLinkIdp(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	anon, err := env.accounts.SignUp(ctx, "", "", "")
	require.NoError(t, err)

	linked, err := env.accounts.SignInWithIdp(ctx, IdpRequest{
		PostBody:   idpPostBody(t, "google.com", "g-1", "ada@gmail.com", "Ada"),
		RequestURI: "http://localhost",
		IDToken:    anon.Tokens.IDToken,
	})
	require.NoError(t, err)
	require.False(t, linked.IsNewUser)
	require.Equal(t, anon.Account.LocalID, linked.Account.LocalID)
	require.Equal(t, "ada@gmail.com", linked.Account.Email)

	lookup, err := env.accounts.Lookup(ctx, linked.Tokens.IDToken)
	require.NoError(t, err)
	require.Len(t, lookup.Links, 1)
	require.Equal(t, "Ada", lookup.Account.DisplayName)

	t.Run("second identity of the same provider", func(t *testing.T) {
		_, err := env.accounts.SignInWithIdp(ctx, IdpRequest{
			PostBody:   idpPostBody(t, "google.com", "g-2", "", ""),
			RequestURI: "http://localhost",
			IDToken:    linked.Tokens.IDToken,
		})
		require.ErrorIs(t, err, ErrProviderAlreadyLinked)
	})

	t.Run("identity linked elsewhere", func(t *testing.T) {
		other := env.signUp(t, "grace@example.com")
		_, err := env.accounts.SignInWithIdp(ctx, IdpRequest{
			PostBody:   idpPostBody(t, "google.com", "g-1", "", ""),
			RequestURI: "http://localhost",
			IDToken:    other.Tokens.IDToken,
		})
		require.ErrorIs(t, err, ErrFederatedIDLinked)
	})

	t.Run("relinking the same identity", func(t *testing.T) {
		_, err := env.accounts.SignInWithIdp(ctx, IdpRequest{
			PostBody:   idpPostBody(t, "google.com", "g-1", "", ""),
			RequestURI: "http://localhost",
			IDToken:    linked.Tokens.IDToken,
		})
		require.NoError(t, err)
	})
}

func TestSignInWithCustomToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	token, err := jwtx.SignCustomToken(testCustomSecret, "server@example.com", "uid-42", time.Minute, time.Now())
	require.NoError(t, err)

	first, err := env.accounts.SignInWithCustomToken(ctx, token)
	require.NoError(t, err)
	require.True(t, first.IsNewUser)
	require.Equal(t, "uid-42", first.Account.LocalID)
	require.Equal(t, jwtx.ProviderCustom, env.claims(t, first.Tokens.IDToken).Provider.SignInProvider)

	again, err := env.accounts.SignInWithCustomToken(ctx, token)
	require.NoError(t, err)
	require.False(t, again.IsNewUser)

	t.Run("wrong secret", func(t *testing.T) {
		forged, err := jwtx.SignCustomToken([]byte("other"), "server@example.com", "uid-42", time.Minute, time.Now())
		require.NoError(t, err)
		_, err = env.accounts.SignInWithCustomToken(ctx, forged)
		require.ErrorIs(t, err, ErrInvalidCustomToken)
	})

	t.Run("expired", func(t *testing.T) {
		stale, err := jwtx.SignCustomToken(testCustomSecret, "server@example.com", "uid-42", time.Minute, time.Now().Add(-time.Hour))
		require.NoError(t, err)
		_, err = env.accounts.SignInWithCustomToken(ctx, stale)
		require.ErrorIs(t, err, ErrInvalidCustomToken)
	})

	t.Run("disabled without secret", func(t *testing.T) {
		svc := *env.accounts
		svc.CustomTokenSecret = nil
		_, err := svc.SignInWithCustomToken(ctx, token)
		require.ErrorIs(t, err, ErrOperationNotAllowed)
	})
}

func TestUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("profile", func(t *testing.T) {
		env := newTestEnv(t)
		res := env.signUp(t, "ada@example.com")

		updated, err := env.accounts.Update(ctx, UpdateParams{
			IDToken:     res.Tokens.IDToken,
			DisplayName: "Ada",
			PhotoURL:    "https://example.com/ada.png",
		})
		require.NoError(t, err)
		require.Nil(t, updated.Tokens)
		require.Equal(t, "Ada", updated.Account.DisplayName)

		updated, err = env.accounts.Update(ctx, UpdateParams{
			IDToken:         res.Tokens.IDToken,
			DeleteAttribute: []string{AttributePhotoURL},
		})
		require.NoError(t, err)
		require.Equal(t, "Ada", updated.Account.DisplayName)
		require.Empty(t, updated.Account.PhotoURL)
	})

	t.Run("email change resets verification", func(t *testing.T) {
		env := newTestEnv(t)
		res := env.signUp(t, "ada@example.com")
		a := res.Account
		a.EmailVerified = true
		require.NoError(t, env.store.Accounts().UpdateAccount(ctx, a))

		updated, err := env.accounts.Update(ctx, UpdateParams{IDToken: res.Tokens.IDToken, Email: "ada@new.example.com", ReturnSecureToken: true})
		require.NoError(t, err)
		require.False(t, updated.Account.EmailVerified)
		require.Equal(t, "ada@new.example.com", env.claims(t, updated.Tokens.IDToken).Email)

		env.signUp(t, "grace@example.com")
		_, err = env.accounts.Update(ctx, UpdateParams{IDToken: updated.Tokens.IDToken, Email: "grace@example.com"})
		require.ErrorIs(t, err, ErrEmailExists)
	})

	t.Run("password change revokes refresh tokens", func(t *testing.T) {
		env := newTestEnv(t)
		res := env.signUp(t, "ada@example.com")

		updated, err := env.accounts.Update(ctx, UpdateParams{IDToken: res.Tokens.IDToken, Password: "new-secret", ReturnSecureToken: true})
		require.NoError(t, err)
		require.NotNil(t, updated.Tokens)

		_, err = env.tokens.Refresh(ctx, res.Tokens.RefreshToken)
		require.ErrorIs(t, err, ErrTokenExpired)
		_, err = env.tokens.Refresh(ctx, updated.Tokens.RefreshToken)
		require.NoError(t, err)

		_, err = env.accounts.SignInWithPassword(ctx, "ada@example.com", "new-secret")
		require.NoError(t, err)

		_, err = env.accounts.Update(ctx, UpdateParams{IDToken: updated.Tokens.IDToken, Password: "123"})
		require.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("anonymous upgrade", func(t *testing.T) {
		env := newTestEnv(t)
		anon, err := env.accounts.SignUp(ctx, "", "", "")
		require.NoError(t, err)

		updated, err := env.accounts.Update(ctx, UpdateParams{
			IDToken:           anon.Tokens.IDToken,
			Email:             "ada@example.com",
			Password:          testPassword,
			ReturnSecureToken: true,
		})
		require.NoError(t, err)
		require.Equal(t, anon.Account.LocalID, updated.Account.LocalID)
		require.Equal(t, jwtx.ProviderPassword, env.claims(t, updated.Tokens.IDToken).Provider.SignInProvider)

		info, err := env.accounts.CreateAuthURI(ctx, "ada@example.com")
		require.NoError(t, err)
		require.Equal(t, []string{domain.ProviderPassword}, info.Providers)
	})

	t.Run("unlink providers", func(t *testing.T) {
		env := newTestEnv(t)
		res := env.signUp(t, "ada@example.com")
		_, err := env.accounts.SignInWithIdp(ctx, IdpRequest{
			PostBody:   idpPostBody(t, "google.com", "g-1", "", ""),
			RequestURI: "http://localhost",
			IDToken:    res.Tokens.IDToken,
		})
		require.NoError(t, err)

		updated, err := env.accounts.Update(ctx, UpdateParams{IDToken: res.Tokens.IDToken, DeleteProvider: []string{"google.com"}})
		require.NoError(t, err)
		require.Empty(t, updated.Links)

		_, err = env.accounts.Update(ctx, UpdateParams{IDToken: res.Tokens.IDToken, DeleteProvider: []string{"github.com"}})
		require.ErrorIs(t, err, ErrNoSuchProvider)

		updated, err = env.accounts.Update(ctx, UpdateParams{IDToken: res.Tokens.IDToken, DeleteProvider: []string{domain.ProviderPassword}})
		require.NoError(t, err)
		require.Empty(t, updated.Account.PasswordHash)

		_, err = env.accounts.SignInWithPassword(ctx, "ada@example.com", testPassword)
		require.ErrorIs(t, err, ErrInvalidPassword)
	})

	t.Run("invalid token", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.accounts.Update(ctx, UpdateParams{IDToken: "garbage"})
		require.ErrorIs(t, err, ErrInvalidIDToken)
	})
}

func TestLookupAndDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)
	res := env.signUp(t, "ada@example.com")

	got, err := env.accounts.Lookup(ctx, res.Tokens.IDToken)
	require.NoError(t, err)
	require.Equal(t, res.Account.LocalID, got.Account.LocalID)
	require.Empty(t, got.Links)

	require.NoError(t, env.accounts.Delete(ctx, res.Tokens.IDToken))

	_, err = env.accounts.Lookup(ctx, res.Tokens.IDToken)
	require.ErrorIs(t, err, ErrUserNotFound)
	require.ErrorIs(t, env.accounts.Delete(ctx, res.Tokens.IDToken), ErrUserNotFound)

	_, err = env.tokens.Refresh(ctx, res.Tokens.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestCreateAuthURI(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	res := env.signUp(t, "ada@example.com")
	for _, body := range []string{
		idpPostBody(t, "google.com", "g-1", "", ""),
		idpPostBody(t, "github.com", "gh-1", "", ""),
	} {
		_, err := env.accounts.SignInWithIdp(ctx, IdpRequest{PostBody: body, RequestURI: "http://localhost", IDToken: res.Tokens.IDToken})
		require.NoError(t, err)
	}

	info, err := env.accounts.CreateAuthURI(ctx, "ADA@example.com")
	require.NoError(t, err)
	require.True(t, info.Registered)
	require.Equal(t, []string{"password", "google.com", "github.com"}, info.Providers)

	info, err = env.accounts.CreateAuthURI(ctx, "nobody@example.com")
	require.NoError(t, err)
	require.False(t, info.Registered)
	require.Empty(t, info.Providers)

	_, err = env.accounts.CreateAuthURI(ctx, " ")
	require.ErrorIs(t, err, ErrMissingIdentifier)
	_, err = env.accounts.CreateAuthURI(ctx, "not-an-email")
	require.ErrorIs(t, err, ErrInvalidIdentifier)
}

func TestWipe(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	env.signUp(t, "ada@example.com")
	env.signUp(t, "grace@example.com")
	require.NoError(t, env.accounts.Wipe(ctx))

	_, err := env.accounts.SignInWithPassword(ctx, "ada@example.com", testPassword)
	require.ErrorIs(t, err, ErrEmailNotFound)
	env.signUp(t, "ada@example.com")
}
