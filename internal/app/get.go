package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/oshokin/strava-auth/internal/client/strava"
	"github.com/oshokin/strava-auth/internal/config"
	"github.com/oshokin/strava-auth/internal/logger"
)

// apiPrefix is the path prefix of the Strava REST API.
const apiPrefix = "/api/v3"

var (
	// ErrRequestFailed is returned when the API answers with an error status.
	ErrRequestFailed = errors.New("API request failed")
	// ErrInvalidAPIPath is returned when the API path is empty or points to another host.
	ErrInvalidAPIPath = errors.New("invalid API path")
)

// ExecuteGetCommand executes the get command.
// It sends an authenticated GET request through a self-refreshing session and
// writes the response body to out. A refreshed token is saved to the configuration file.
func ExecuteGetCommand(ctx context.Context, cfg *config.Config, apiPath string, out io.Writer) {
	if err := get(ctx, cfg, apiPath, out); err != nil {
		logger.Fatalf(ctx, "Request failed: %v", err)
	}
}

func get(ctx context.Context, cfg *config.Config, apiPath string, out io.Writer) error {
	session, err := restoreSession(cfg)
	if err != nil {
		return err
	}

	requestURL, err := apiURL(cfg.ParsedSiteURL, apiPath)
	if err != nil {
		return err
	}

	initial := session.Token()

	response, err := session.Do(ctx, http.MethodGet, requestURL, strava.WithAccessToken(nil, initial))
	if err != nil {
		return err
	}

	if current := session.Token(); current.AccessToken != initial.AccessToken {
		if err = storeToken(ctx, cfg, current); err != nil {
			return err
		}
	}

	if _, err = out.Write(response.Body); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}

	if !response.IsSuccess() {
		return fmt.Errorf("%w: status %d", ErrRequestFailed, response.StatusCode)
	}

	return nil
}

// apiURL resolves apiPath against the API root of siteURL.
// Paths already starting with the API prefix are used as they are.
func apiURL(siteURL *url.URL, apiPath string) (string, error) {
	reference, err := url.Parse(strings.TrimSpace(apiPath))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidAPIPath, err)
	}

	if reference.Scheme != "" || reference.Host != "" || reference.Path == "" {
		return "", fmt.Errorf("%w: '%s'", ErrInvalidAPIPath, apiPath)
	}

	if !strings.HasPrefix(reference.Path, "/") {
		reference.Path = "/" + reference.Path
	}

	if !strings.HasPrefix(reference.Path, apiPrefix+"/") {
		reference.Path = apiPrefix + reference.Path
	}

	return siteURL.ResolveReference(reference).String(), nil
}
