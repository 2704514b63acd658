package strava

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/oshokin/strava-auth/internal/logger"
)

// TokenExchanger retrieves tokens from the token endpoint.
type TokenExchanger struct {
	// requester sends the token requests.
	requester Requester
	// tokenURL is the absolute URL of the token endpoint.
	tokenURL string
	// now returns the current time.
	now func() time.Time
}

// NewTokenExchanger creates a TokenExchanger for the site at siteURL.
func NewTokenExchanger(requester Requester, siteURL string) *TokenExchanger {
	return &TokenExchanger{
		requester: requester,
		tokenURL:  siteURL + TokenPath,
		now:       time.Now,
	}
}

// AuthorizationCodeForm builds the form exchanging an authorization code for a token.
func AuthorizationCodeForm(user User, code string) url.Values {
	return url.Values{
		paramCode:         {code},
		paramClientID:     {user.ClientID},
		paramClientSecret: {user.ClientSecret},
		paramGrantType:    {GrantTypeAuthorizationCode},
	}
}

// RefreshTokenForm builds the form exchanging a refresh token for a new token.
func RefreshTokenForm(user User, refreshToken string) url.Values {
	return url.Values{
		paramRefreshToken: {refreshToken},
		paramClientID:     {user.ClientID},
		paramClientSecret: {user.ClientSecret},
		paramGrantType:    {GrantTypeRefreshToken},
	}
}

// Exchange posts the grant form to the token endpoint and builds a Token from the answer.
// A response without refresh_token keeps fallbackRefreshToken when it is not empty.
// Any other absent field results in an *IncompleteTokenError.
func (e *TokenExchanger) Exchange(ctx context.Context, form url.Values, fallbackRefreshToken string) (Token, error) {
	logger.Debugf(ctx, "Requesting token with grant type '%s'", form.Get(paramGrantType))

	response, err := e.requester.Do(ctx, http.MethodPost, e.tokenURL, &RequestOptions{Form: form})
	if err != nil {
		return Token{}, err
	}

	if !response.IsSuccess() {
		return Token{}, fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	var payload tokenResponse
	if err = response.DecodeJSON(&payload); err != nil {
		return Token{}, fmt.Errorf("%w: %w", ErrInvalidTokenResponse, err)
	}

	if isEmpty(payload.RefreshToken) && fallbackRefreshToken != "" {
		logger.Debug(ctx, "Token response has no refresh token, keeping the previous one")

		payload.RefreshToken = &fallbackRefreshToken
	}

	return e.buildToken(&payload)
}

func (e *TokenExchanger) buildToken(payload *tokenResponse) (Token, error) {
	var missing []string

	if isEmpty(payload.AccessToken) {
		missing = append(missing, "access_token")
	}

	if isEmpty(payload.TokenType) {
		missing = append(missing, "token_type")
	}

	if payload.ExpiresAt == nil {
		missing = append(missing, "expires_at")
	}

	if payload.ExpiresIn == nil {
		missing = append(missing, "expires_in")
	}

	if isEmpty(payload.RefreshToken) {
		missing = append(missing, "refresh_token")
	}

	if len(missing) > 0 {
		return Token{}, &IncompleteTokenError{MissingFields: missing}
	}

	return Token{
		AccessToken:  *payload.AccessToken,
		TokenType:    *payload.TokenType,
		ExpiresAt:    time.Unix(*payload.ExpiresAt, 0),
		ExpiresIn:    time.Duration(*payload.ExpiresIn) * time.Second,
		RefreshToken: *payload.RefreshToken,
	}, nil
}

func isEmpty(value *string) bool {
	return value == nil || *value == ""
}
