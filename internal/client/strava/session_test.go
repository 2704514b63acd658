package strava_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/strava-auth/internal/client/strava"
)

// fakeAPI emulates the Strava API and token endpoint for session tests.
type fakeAPI struct {
	t *testing.T

	user strava.User

	mu           sync.Mutex
	validToken   string
	refreshToken string
	omitRefresh  bool
	failRefresh  bool

	refreshes atomic.Int32
	// rejected, when set, is called for every request carrying a rejected token.
	rejected func()
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case strava.TokenPath:
		f.serveToken(w, r)
	case "/api/v3/athlete":
		f.mu.Lock()
		valid := r.URL.Query().Get("access_token") == f.validToken
		f.mu.Unlock()

		if !valid {
			if f.rejected != nil {
				f.rejected()
			}

			w.WriteHeader(http.StatusUnauthorized)
			_, _ = fmt.Fprint(w, invalidTokenJSON)

			return
		}

		_, _ = fmt.Fprint(w, `{"id":1,"firstname":"Jane"}`)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeAPI) serveToken(w http.ResponseWriter, r *http.Request) {
	if !assert.NoError(f.t, r.ParseForm()) {
		return
	}

	assert.Equal(f.t, "refresh_token", r.PostForm.Get("grant_type"))
	assert.Equal(f.t, f.user.ClientID, r.PostForm.Get("client_id"))
	assert.Equal(f.t, f.user.ClientSecret, r.PostForm.Get("client_secret"))

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failRefresh {
		w.WriteHeader(http.StatusBadRequest)

		return
	}

	assert.Equal(f.t, f.refreshToken, r.PostForm.Get("refresh_token"))

	count := f.refreshes.Add(1)
	f.validToken = fmt.Sprintf("access-%d", count)

	refreshField := ""
	if !f.omitRefresh {
		f.refreshToken = fmt.Sprintf("refresh-%d", count)
		refreshField = fmt.Sprintf(`,"refresh_token":%q`, f.refreshToken)
	}

	_, _ = fmt.Fprintf(w, `{"token_type":"Bearer","access_token":%q,"expires_at":%d,"expires_in":21600%s}`,
		f.validToken, time.Now().Add(6*time.Hour).Unix(), refreshField)
}

func newTestSession(t *testing.T, api *fakeAPI) (*strava.Session, string) {
	t.Helper()

	api.t = t
	api.user = strava.User{ClientID: "12345", ClientSecret: "secret", Email: "jane@example.com", Password: "pw"}
	api.refreshToken = "refresh-0"

	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	siteURL, err := url.Parse(server.URL)
	require.NoError(t, err)

	httpClient, err := strava.NewHTTPClient(strava.HTTPClientOptions{SiteURL: siteURL})
	require.NoError(t, err)

	session := strava.Install(strava.NewHTTPRequester(httpClient), server.URL, api.user, strava.Token{
		AccessToken:  "expired",
		TokenType:    "Bearer",
		ExpiresAt:    time.Now().Add(-time.Hour),
		ExpiresIn:    6 * time.Hour,
		RefreshToken: "refresh-0",
	})

	return session, server.URL + "/api/v3/athlete"
}

func getAthlete(t *testing.T, session *strava.Session, athleteURL string) *strava.Response {
	t.Helper()

	response, err := session.Do(context.Background(), http.MethodGet, athleteURL,
		strava.WithAccessToken(nil, session.Token()))
	require.NoError(t, err)

	return response
}

// TestSession_RefreshesExpiredToken tests a transparent refresh through the session.
func TestSession_RefreshesExpiredToken(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	session, athleteURL := newTestSession(t, api)

	response := getAthlete(t, session, athleteURL)

	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.JSONEq(t, `{"id":1,"firstname":"Jane"}`, string(response.Body))
	assert.Equal(t, int32(1), api.refreshes.Load())
	assert.Equal(t, "access-1", session.Token().AccessToken)
	assert.Equal(t, "refresh-1", session.Token().RefreshToken)

	response = getAthlete(t, session, athleteURL)
	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, int32(1), api.refreshes.Load())
}

// TestSession_RepeatedRefreshKeepsUser tests that the credentials survive many refresh cycles.
func TestSession_RepeatedRefreshKeepsUser(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	session, _ := newTestSession(t, api)
	user := session.User()

	for i := 1; i <= 5; i++ {
		token, err := session.Refresh(context.Background())
		require.NoError(t, err)

		assert.Equal(t, fmt.Sprintf("access-%d", i), token.AccessToken)
		assert.Equal(t, token, session.Token())
		assert.Equal(t, user, session.User())
	}

	assert.Equal(t, int32(5), api.refreshes.Load())
}

// TestSession_RefreshKeepsMissingRefreshToken tests that an omitted refresh token keeps the previous one.
func TestSession_RefreshKeepsMissingRefreshToken(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{omitRefresh: true}
	session, _ := newTestSession(t, api)

	token, err := session.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "access-1", token.AccessToken)
	assert.Equal(t, "refresh-0", token.RefreshToken)
}

// TestSession_RefreshFailure tests that a failed refresh keeps the current token.
func TestSession_RefreshFailure(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{failRefresh: true}
	session, athleteURL := newTestSession(t, api)
	before := session.Token()

	_, err := session.Refresh(context.Background())
	require.ErrorIs(t, err, strava.ErrUnexpectedHTTPStatus)
	assert.Equal(t, before, session.Token())

	response, err := session.Do(context.Background(), http.MethodGet, athleteURL,
		strava.WithAccessToken(nil, session.Token()))
	require.ErrorIs(t, err, strava.ErrUnexpectedHTTPStatus)
	assert.Nil(t, response)
}

// TestSession_ConcurrentRequestsRefreshOnce tests that simultaneous rejections share one refresh.
func TestSession_ConcurrentRequestsRefreshOnce(t *testing.T) {
	t.Parallel()

	const workers = 8

	var arrived sync.WaitGroup

	arrived.Add(workers)

	api := &fakeAPI{}
	api.rejected = func() {
		// Hold every rejection until all workers sent the expired token.
		arrived.Done()
		arrived.Wait()
	}

	session, athleteURL := newTestSession(t, api)

	var done sync.WaitGroup

	statuses := make([]int, workers)

	for i := range workers {
		done.Add(1)

		go func() {
			defer done.Done()

			response, err := session.Do(context.Background(), http.MethodGet, athleteURL,
				strava.WithAccessToken(nil, session.Token()))
			if assert.NoError(t, err) {
				statuses[i] = response.StatusCode
			}
		}()
	}

	done.Wait()

	for _, status := range statuses {
		assert.Equal(t, http.StatusOK, status)
	}

	assert.Equal(t, int32(1), api.refreshes.Load())
}

// TestSession_StaleCallerReusesRefreshedToken tests a caller that attached the expired token
// before another caller refreshed it. Its rejection must reuse the refreshed token.
func TestSession_StaleCallerReusesRefreshedToken(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	session, athleteURL := newTestSession(t, api)

	// The second caller prepares its request while the expired token is still current.
	staleOpts := strava.WithAccessToken(nil, session.Token())

	response := getAthlete(t, session, athleteURL)
	require.Equal(t, http.StatusOK, response.StatusCode)
	require.Equal(t, int32(1), api.refreshes.Load())

	response, err := session.Do(context.Background(), http.MethodGet, athleteURL, staleOpts)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, int32(1), api.refreshes.Load())
	assert.Equal(t, "access-1", session.Token().AccessToken)
	assert.Equal(t, "expired", staleOpts.Query.Get("access_token"))
}
