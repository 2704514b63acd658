package auth

import (
	"context"
	"net/http"
	"net/url"

	"github.com/oshokin/strava-auth/internal/client/strava"
	"github.com/oshokin/strava-auth/internal/logger"
)

const (
	// refererHeader is the HTTP header name for Referer.
	refererHeader = "Referer"
	// authenticityTokenField is the form field carrying the anti-forgery token.
	authenticityTokenField = "authenticity_token"
	// utf8Field is the form field Rails uses to force UTF-8 decoding.
	utf8Field = "utf8"
	// utf8Check is the value of utf8Field.
	utf8Check = "✓"
	// emailField is the login form field for the email.
	emailField = "email"
	// passwordField is the login form field for the password.
	passwordField = "password" //nolint:gosec // Form field name, not a credential.
)

// login signs the user in and returns the page Strava shows after a successful login.
func (s *ServiceImpl) login(ctx context.Context, user strava.User) (*strava.Response, error) {
	loginURL := s.siteURL + strava.LoginPath

	logger.Debugf(ctx, "Opening login page %s", loginURL)

	loginPage, err := s.requester.Do(ctx, http.MethodGet, loginURL, nil)
	if err != nil {
		return nil, err
	}

	if err = checkStatus(loginPage, "login"); err != nil {
		return nil, err
	}

	csrfToken, err := extractCSRFToken(loginPage.Body, "login")
	if err != nil {
		return nil, err
	}

	logger.Debug(ctx, "Submitting login form")

	response, err := s.requester.Do(ctx, http.MethodPost, s.siteURL+strava.SessionPath, &strava.RequestOptions{
		Form: url.Values{
			authenticityTokenField: {csrfToken},
			emailField:             {user.Email},
			passwordField:          {user.Password},
			utf8Field:              {utf8Check},
		},
		Header: http.Header{refererHeader: {loginURL}},
	})
	if err != nil {
		return nil, err
	}

	if err = checkStatus(response, "session"); err != nil {
		return nil, err
	}

	if response.URL != nil && response.URL.Path == strava.LoginPath {
		return nil, ErrLoginRejected
	}

	return response, nil
}
