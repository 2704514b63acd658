package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/oshokin/strava-auth/internal/client/strava"
	"github.com/oshokin/strava-auth/internal/logger"
	"github.com/oshokin/strava-auth/internal/utils"
)

const (
	// scopeEnabled is the consent form value of a granted scope.
	scopeEnabled = "on"
	// locationHeader is the HTTP header name for Location.
	locationHeader = "Location"
	// codeParam is the callback query parameter carrying the authorization code.
	codeParam = "code"
	// errorParam is the callback query parameter carrying a denial reason.
	errorParam = "error"
)

// consentForm builds the consent form granting every scope in the comma-separated list.
func consentForm(csrfToken, scope string) url.Values {
	form := url.Values{authenticityTokenField: {csrfToken}}

	for _, item := range utils.SplitCommaSeparated(scope) {
		form.Set(item, scopeEnabled)
	}

	return form
}

// acceptApplication submits the consent form and returns the authorization code from the redirect.
func (s *ServiceImpl) acceptApplication(
	ctx context.Context,
	authz *authorization,
	consentPage *strava.Response,
	scope string,
) (string, error) {
	csrfToken, err := extractCSRFToken(consentPage.Body, "consent")
	if err != nil {
		return "", err
	}

	acceptURL, err := url.Parse(s.siteURL + strava.AcceptApplicationPath)
	if err != nil {
		return "", fmt.Errorf("failed to build consent URL: %w", err)
	}

	acceptURL.RawQuery = authz.params.Encode()

	logger.Debug(ctx, "Submitting consent form")

	response, err := s.requester.Do(ctx, http.MethodPost, acceptURL.String(), &strava.RequestOptions{
		Form:             consentForm(csrfToken, scope),
		Header:           http.Header{refererHeader: {authz.pageURL}},
		DisableRedirects: true,
	})
	if err != nil {
		return "", err
	}

	if err = checkStatus(response, "consent"); err != nil {
		return "", err
	}

	return authorizationCode(response.Header.Get(locationHeader))
}

// authorizationCode extracts the code from the callback URL Strava redirects to.
func authorizationCode(location string) (string, error) {
	if location == "" {
		return "", fmt.Errorf("%w: no redirect", ErrAuthorizationCodeNotFound)
	}

	callback, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuthorizationCodeNotFound, err)
	}

	query := callback.Query()

	if reason := query.Get(errorParam); reason != "" {
		return "", fmt.Errorf("%w: %s", ErrAuthorizationCodeNotFound, reason)
	}

	code := query.Get(codeParam)
	if code == "" {
		return "", ErrAuthorizationCodeNotFound
	}

	return code, nil
}
