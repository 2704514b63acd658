package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/strava-auth/internal/client/strava"
	"github.com/oshokin/strava-auth/internal/logger"
)

var (
	// ErrCSRFTokenNotFound is returned when a page has no anti-forgery token.
	ErrCSRFTokenNotFound = errors.New("csrf token not found")

	// ErrLoginRejected is returned when Strava sends the user back to the login page.
	ErrLoginRejected = errors.New("login rejected, check email and password")

	// ErrAuthorizationCodeNotFound is returned when the consent redirect carries no authorization code.
	ErrAuthorizationCodeNotFound = errors.New("authorization code not found in consent redirect")
)

// Service authorizes applications on Strava.
type Service interface {
	// Authenticate performs the full consent flow for user and returns an authenticated session.
	Authenticate(ctx context.Context, user strava.User, callbackURL, scope string) (*strava.Session, error)
}

// ServiceImpl drives the consent flow through a cookie-keeping requester.
type ServiceImpl struct {
	// requester sends every request of the flow and must keep cookies between them.
	requester strava.Requester
	// siteURL is the Strava site root without a trailing slash.
	siteURL string
}

// NewService creates a new authentication service.
func NewService(requester strava.Requester, siteURL string) *ServiceImpl {
	return &ServiceImpl{
		requester: requester,
		siteURL:   siteURL,
	}
}

// Authenticate performs the full consent flow for user and returns an authenticated session.
// The steps run strictly in order, and the first failure aborts the flow.
func (s *ServiceImpl) Authenticate(
	ctx context.Context,
	user strava.User,
	callbackURL string,
	scope string,
) (*strava.Session, error) {
	ctx = logger.WithKV(ctx, "client_id", user.ClientID)

	logger.Infof(ctx, "Authorizing application with scope '%s'", scope)

	authorization, err := s.openAuthorizationPage(ctx, user, callbackURL, scope)
	if err != nil {
		return nil, fmt.Errorf("authorize step failed: %w", err)
	}

	consentPage, err := s.login(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("login step failed: %w", err)
	}

	code, err := s.acceptApplication(ctx, authorization, consentPage, scope)
	if err != nil {
		return nil, fmt.Errorf("consent step failed: %w", err)
	}

	logger.Debug(ctx, "Exchanging authorization code for a token")

	exchanger := strava.NewTokenExchanger(s.requester, s.siteURL)

	token, err := exchanger.Exchange(ctx, strava.AuthorizationCodeForm(user, code), "")
	if err != nil {
		return nil, fmt.Errorf("token step failed: %w", err)
	}

	logger.Info(ctx, "Application authorized")

	return strava.Install(s.requester, s.siteURL, user, token), nil
}

// checkStatus returns an error for client and server error statuses.
func checkStatus(response *strava.Response, page string) error {
	if response.StatusCode >= 400 { //nolint:mnd // Start of the 4xx range.
		return fmt.Errorf("%w: %d on %s page", strava.ErrUnexpectedHTTPStatus, response.StatusCode, page)
	}

	return nil
}
