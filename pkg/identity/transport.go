package identity

import "context"

// Transport performs one backend call per method. Implementations return
// *AuthError for every failure so callers can classify it with errors.Is.
//
// RESTTransport talks to the Identity Toolkit REST API (or the emulator);
// tests substitute an in-memory fake.
type Transport interface {
	SignUp(ctx context.Context, req SignUpRequest) (*TokenResponse, error)
	SignInWithPassword(ctx context.Context, req PasswordSignInRequest) (*TokenResponse, error)
	SignInWithIdp(ctx context.Context, req IdpSignInRequest) (*TokenResponse, error)
	SignInWithCustomToken(ctx context.Context, req CustomTokenSignInRequest) (*TokenResponse, error)

	// RefreshToken exchanges a refresh token for a new token pair
	RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error)

	SendOobCode(ctx context.Context, req OobCodeRequest) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) (*ResetPasswordResponse, error)
	FetchProviders(ctx context.Context, identifier, continueURI string) (*ProvidersResponse, error)

	UpdateAccount(ctx context.Context, req UpdateAccountRequest) (*UpdateAccountResponse, error)
	DeleteAccount(ctx context.Context, idToken string) error
	LookupAccount(ctx context.Context, idToken string) (*AccountInfo, error)
}
