package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"

	"github.com/oshokin/strava-auth/internal/client/strava"
	"github.com/oshokin/strava-auth/internal/logger"
)

const (
	// approvalPromptParam controls whether Strava shows the consent page to an already authorized user.
	approvalPromptParam = "approval_prompt"
	// approvalPromptAuto shows the consent page only when it is needed.
	approvalPromptAuto = "auto"
	// scopeParam is the query parameter listing the requested scopes.
	scopeParam = "scope"
	// stateParam is the OAuth state parameter, not used by this flow.
	stateParam = "state"
)

// authorization is the outcome of the authorization step.
type authorization struct {
	// params are the query parameters of the authorization request.
	params url.Values
	// pageURL is the URL the authorization request ended on.
	pageURL string
}

// authorizeURL builds the authorization URL for user.
func (s *ServiceImpl) authorizeURL(user strava.User, callbackURL, scope string) (*url.URL, error) {
	oauthConfig := &oauth2.Config{
		ClientID:    user.ClientID,
		RedirectURL: callbackURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:  s.siteURL + strava.AuthorizePath,
			TokenURL: s.siteURL + strava.TokenPath,
		},
	}

	authURL, err := url.Parse(oauthConfig.AuthCodeURL("",
		oauth2.SetAuthURLParam(approvalPromptParam, approvalPromptAuto),
		oauth2.SetAuthURLParam(scopeParam, scope),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to build authorization URL: %w", err)
	}

	query := authURL.Query()
	query.Del(stateParam)
	authURL.RawQuery = query.Encode()

	return authURL, nil
}

// openAuthorizationPage opens the authorization page, so that Strava remembers where to return after login.
func (s *ServiceImpl) openAuthorizationPage(
	ctx context.Context,
	user strava.User,
	callbackURL string,
	scope string,
) (*authorization, error) {
	authURL, err := s.authorizeURL(user, callbackURL, scope)
	if err != nil {
		return nil, err
	}

	logger.Debugf(ctx, "Opening authorization page %s", authURL.Redacted())

	response, err := s.requester.Do(ctx, http.MethodGet, authURL.String(), nil)
	if err != nil {
		return nil, err
	}

	if err = checkStatus(response, "authorization"); err != nil {
		return nil, err
	}

	pageURL := authURL.String()
	if response.URL != nil {
		pageURL = response.URL.String()
	}

	return &authorization{
		params:  authURL.Query(),
		pageURL: pageURL,
	}, nil
}
