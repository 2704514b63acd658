package strava

import (
	"context"
	"sync"

	"github.com/oshokin/strava-auth/internal/logger"
)

// RefreshInterceptor is a Requester that refreshes an expired access token and retries once.
type RefreshInterceptor struct {
	// next performs the actual requests.
	next Requester
	// tokens provides and refreshes the token.
	tokens TokenSource
	// refreshMu serializes refreshes, so concurrent callers hitting the same
	// expired token trigger a single refresh.
	refreshMu sync.Mutex
}

// NewRefreshInterceptor wraps next with transparent token refresh.
func NewRefreshInterceptor(next Requester, tokens TokenSource) *RefreshInterceptor {
	return &RefreshInterceptor{
		next:   next,
		tokens: tokens,
	}
}

// Do delegates the request. If Strava rejects the access token, the token is refreshed
// and the request is sent once more with the new token in the access_token query parameter.
// The response of the last attempt is returned, even if it is still a 401.
func (i *RefreshInterceptor) Do(ctx context.Context, method, rawURL string, opts *RequestOptions) (*Response, error) {
	used := i.tokens.Token().AccessToken
	if sent := sentAccessToken(opts); sent != "" {
		used = sent
	}

	response, err := i.next.Do(ctx, method, rawURL, opts)
	if err != nil {
		return nil, err
	}

	if !response.IsInvalidToken() {
		return response, nil
	}

	logger.Info(ctx, "Access token was rejected, refreshing it")

	token, err := i.refresh(ctx, used)
	if err != nil {
		return nil, err
	}

	return i.next.Do(ctx, method, rawURL, WithAccessToken(opts, token))
}

// refresh returns a token replacing the rejected access token used,
// refreshing only if no other caller already did.
func (i *RefreshInterceptor) refresh(ctx context.Context, used string) (Token, error) {
	i.refreshMu.Lock()
	defer i.refreshMu.Unlock()

	if current := i.tokens.Token(); current.AccessToken != used {
		logger.Debug(ctx, "Token was already refreshed by a concurrent request")

		return current, nil
	}

	return i.tokens.Refresh(ctx)
}

// sentAccessToken returns the access token the request carries, if any.
// It may be older than the current token when another caller refreshed in between.
func sentAccessToken(opts *RequestOptions) string {
	if opts == nil {
		return ""
	}

	return opts.Query.Get(paramAccessToken)
}
