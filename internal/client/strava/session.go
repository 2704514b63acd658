package strava

//go:generate $MOCKGEN -source=session.go -destination=mocks/session_mock.go

import (
	"context"
	"fmt"
	"sync"

	"github.com/oshokin/strava-auth/internal/logger"
)

// TokenSource holds the current token and can replace it with a refreshed one.
type TokenSource interface {
	// Token returns the current token.
	Token() Token
	// Refresh obtains a new token with the stored refresh token and makes it current.
	Refresh(ctx context.Context) (Token, error)
}

// Session is an authenticated Strava session. It is safe for concurrent use.
type Session struct {
	// requester is the refresh interceptor wrapping the base requester.
	requester Requester
	// exchanger refreshes tokens through the base requester.
	exchanger *TokenExchanger
	// user holds the credentials used for every refresh.
	user User

	mu    sync.RWMutex
	token Token
}

// Install creates a session around base with the refresh interceptor in place.
// base should share its cookies with the requester used for the handshake.
func Install(base Requester, siteURL string, user User, token Token) *Session {
	session := &Session{
		exchanger: NewTokenExchanger(base, siteURL),
		user:      user,
		token:     token,
	}

	session.requester = NewRefreshInterceptor(base, session)

	return session
}

// Do sends a request through the refresh interceptor.
// The caller attaches the access token, for example with WithAccessToken.
func (s *Session) Do(ctx context.Context, method, rawURL string, opts *RequestOptions) (*Response, error) {
	return s.requester.Do(ctx, method, rawURL, opts)
}

// Token returns the current token.
func (s *Session) Token() Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// User returns the credentials of the session.
func (s *Session) User() User {
	return s.user
}

// Refresh exchanges the stored refresh token for a new token and makes it current.
// On failure the current token is kept.
func (s *Session) Refresh(ctx context.Context) (Token, error) {
	current := s.Token()

	token, err := s.exchanger.Exchange(ctx, RefreshTokenForm(s.user, current.RefreshToken), current.RefreshToken)
	if err != nil {
		return Token{}, fmt.Errorf("failed to refresh token: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	logger.Infof(ctx, "Access token refreshed, valid until %s", token.ExpiresAt.Format("2006-01-02 15:04:05"))

	return token, nil
}
