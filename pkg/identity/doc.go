/*
Package identity is a client for Identity Toolkit compatible authentication
backends. It creates accounts, signs users in and manages the resulting
tokens for the lifetime of the application.

# Client vs Session

The package is organized around two main types:

  - Client: Unauthenticated operations (sign-up, sign-in, provider discovery,
    password reset) that create Sessions
  - Session: One signed-in account. Owns the ID and refresh tokens and
    performs account operations with them

Create a Client with a project API key:

	client := identity.NewClient(apiKey)

	// Point at a local emulator instead of production
	client.Transport.(*identity.RESTTransport).UseEmulator("localhost:9099")

	// Which sign-in methods does this email have?
	providers, err := client.FetchProviders(ctx, "ada@example.com", "")

	// Sign in
	session, err := client.SignInWithPassword(ctx, "ada@example.com", password, identity.SessionOptions{
		AutoRefresh: true,
	})
	defer session.Close()

# Token Refresh

ID tokens are short-lived. A Session can keep its token fresh in three ways:

  - Refresh: explicit refresh, coalesced with any refresh already in flight
  - Token: returns the current ID token, refreshing first when it is within
    Client.RefreshMargin of expiry
  - AutoRefresh: a background scheduler refreshes shortly before expiry

The scheduler does not retry. When a scheduled refresh fails (typically
because the refresh token was revoked) it calls SessionOptions.OnRefreshError,
records the error in RefreshErr and closes RefreshDone:

	select {
	case <-session.RefreshDone():
		if errors.Is(session.RefreshErr(), identity.ErrTokenExpiredOrInvalid) {
			// sign in again
		}
	case <-ctx.Done():
	}

Sessions also implement oauth2.TokenSource through TokenSource, so an
http.Client from HTTPClient sends the ID token as a bearer token.

# Error Handling

Backend failures are returned as *AuthError. Compare against the predefined
sentinels with errors.Is, which match by Kind:

	_, err := client.SignUpWithPassword(ctx, email, password, identity.SignUpOptions{})
	switch {
	case errors.Is(err, identity.ErrAccountExists):
		// offer sign-in instead
	case errors.Is(err, identity.ErrNetworkFailure):
		// try again later
	}

Operations on a session after Close or Delete return ErrSessionClosed
without contacting the backend.

# Thread Safety

Clients and Sessions are safe for concurrent use. Concurrent refreshes of one
Session share a single backend call.
*/
package identity
