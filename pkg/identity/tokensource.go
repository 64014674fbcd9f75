package identity

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
)

// TokenSource adapts the session to oauth2.TokenSource so it can drive an
// oauth2.Transport. Tokens are bearer ID tokens, refreshed through Token.
func (s *Session) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &sessionTokenSource{ctx: ctx, session: s}
}

// HTTPClient returns an http.Client that sends the session's ID token as a
// bearer token on every request.
func (s *Session) HTTPClient(ctx context.Context) *http.Client {
	return oauth2.NewClient(ctx, s.TokenSource(ctx))
}

type sessionTokenSource struct {
	ctx     context.Context
	session *Session
}

func (ts *sessionTokenSource) Token() (*oauth2.Token, error) {
	c, err := ts.session.freshCredentials(ts.ctx)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{
		AccessToken: c.idToken,
		TokenType:   "Bearer",
		Expiry:      c.expiresAt,
	}, nil
}
