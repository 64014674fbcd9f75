package identity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindForCode(t *testing.T) {
	t.Parallel()

	tests := map[string]Kind{
		"EMAIL_EXISTS":                                        KindAccountExists,
		"INVALID_PASSWORD":                                    KindInvalidCredentials,
		"INVALID_LOGIN_CREDENTIALS":                           KindInvalidCredentials,
		"WEAK_PASSWORD : Password should be at least 6 chars": KindInvalidCredentials,
		"CREDENTIAL_TOO_OLD_LOGIN_AGAIN":                      KindTokenExpiredOrInvalid,
		"INVALID_REFRESH_TOKEN":                               KindTokenExpiredOrInvalid,
		"PROVIDER_ALREADY_LINKED":                             KindProviderAlreadyLinked,
		"ADMIN_ONLY_OPERATION":                                KindOperationDisabled,
		"SOMETHING_NEW":                                       KindUnknownBackendError,
		"":                                                    KindUnknownBackendError,
	}

	for code, want := range tests {
		require.Equal(t, want, KindForCode(code), code)
	}
}

func TestAuthErrorIs(t *testing.T) {
	t.Parallel()

	err := &AuthError{Kind: KindAccountExists, Code: CodeEmailExists, StatusCode: 400}
	wrapped := fmt.Errorf("sign up: %w", err)

	require.ErrorIs(t, wrapped, ErrAccountExists)
	require.NotErrorIs(t, wrapped, ErrInvalidCredentials)
	require.NotErrorIs(t, wrapped, &AuthError{Kind: KindAccountExists, Code: CodeEmailExists})
	require.Equal(t, KindAccountExists, KindOf(wrapped))
	require.Equal(t, KindUnknownBackendError, KindOf(errors.New("plain")))
	require.NotErrorIs(t, ErrSessionClosed, ErrUnknownBackendError)
}

func TestAuthErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  *AuthError
		want string
	}{
		{&AuthError{Kind: KindInvalidCredentials, Code: CodeWeakPassword, Message: "too short"}, "identity: WEAK_PASSWORD: too short"},
		{&AuthError{Kind: KindAccountExists, Code: CodeEmailExists}, "identity: EMAIL_EXISTS"},
		{&AuthError{Kind: KindNetworkFailure, Err: errors.New("dial tcp: refused")}, "identity: network_failure: dial tcp: refused"},
		{ErrOperationDisabled, "identity: operation_disabled"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, tt.err.Error())
	}
}
