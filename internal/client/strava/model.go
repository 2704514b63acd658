package strava

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
)

// User holds the application and account credentials. It is never modified after creation.
type User struct {
	// ClientID is the identifier of the registered API application.
	ClientID string
	// ClientSecret is the secret of the registered API application.
	ClientSecret string
	// Email is the account email.
	Email string
	// Password is the account password.
	Password string
}

// Token is an OAuth token issued by Strava. A refresh produces a new Token.
type Token struct {
	// AccessToken is the bearer token sent with API requests.
	AccessToken string
	// TokenType is the token type, usually "Bearer".
	TokenType string
	// ExpiresAt is the moment the access token expires.
	ExpiresAt time.Time
	// ExpiresIn is the lifetime of the access token at the moment it was issued.
	ExpiresIn time.Duration
	// RefreshToken is used to obtain a new access token.
	RefreshToken string
}

// Expired reports whether the access token is expired at the given moment.
func (t Token) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// OAuth2 converts the token for use with golang.org/x/oauth2 based clients.
func (t Token) OAuth2() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
		Expiry:       t.ExpiresAt,
		ExpiresIn:    int64(t.ExpiresIn / time.Second),
	}
}

// tokenResponse is the body of a token endpoint response.
// Pointers distinguish absent fields from zero values.
type tokenResponse struct {
	AccessToken  *string `json:"access_token"`
	TokenType    *string `json:"token_type"`
	ExpiresAt    *int64  `json:"expires_at"`
	ExpiresIn    *int64  `json:"expires_in"`
	RefreshToken *string `json:"refresh_token"`
}

// RequestOptions describes the optional parts of a request.
type RequestOptions struct {
	// Query is merged into the URL query; its keys replace existing ones.
	Query url.Values
	// Form is sent as an application/x-www-form-urlencoded body.
	Form url.Values
	// Header holds extra request headers.
	Header http.Header
	// DisableRedirects returns redirect responses instead of following them.
	DisableRedirects bool
}

// Clone returns a deep copy of the options. A nil receiver yields empty options.
func (o *RequestOptions) Clone() *RequestOptions {
	if o == nil {
		return &RequestOptions{}
	}

	return &RequestOptions{
		Query:            cloneValues(o.Query),
		Form:             cloneValues(o.Form),
		Header:           o.Header.Clone(),
		DisableRedirects: o.DisableRedirects,
	}
}

// WithAccessToken returns a copy of opts carrying the token as the access_token query parameter.
func WithAccessToken(opts *RequestOptions, token Token) *RequestOptions {
	result := opts.Clone()
	if result.Query == nil {
		result.Query = make(url.Values)
	}

	result.Query.Set(paramAccessToken, token.AccessToken)

	return result
}

func cloneValues(values url.Values) url.Values {
	if values == nil {
		return nil
	}

	result := make(url.Values, len(values))
	for key, items := range values {
		result[key] = append([]string(nil), items...)
	}

	return result
}

// Response is a fully read HTTP response.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Header holds the response headers.
	Header http.Header
	// Body is the complete response body.
	Body []byte
	// URL is the final URL after redirects.
	URL *url.URL
}

// IsSuccess reports whether the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r != nil && r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// IsInvalidToken reports whether the response is Strava's "invalid access token" error.
// Only a 401 whose JSON body equals that exact payload matches; other 401 bodies do not.
func (r *Response) IsInvalidToken() bool {
	if r == nil || r.StatusCode != http.StatusUnauthorized {
		return false
	}

	return isInvalidTokenPayload(r.Body)
}

// DecodeJSON unmarshals the body into v.
func (r *Response) DecodeJSON(v any) error {
	return json.Unmarshal(r.Body, v)
}
