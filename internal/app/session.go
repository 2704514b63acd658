package app

import (
	"context"
	"fmt"
	"time"

	"github.com/oshokin/strava-auth/internal/client/strava"
	"github.com/oshokin/strava-auth/internal/config"
	"github.com/oshokin/strava-auth/internal/logger"
)

// newRequester creates a cookie-keeping requester for the configured site.
func newRequester(cfg *config.Config) (*strava.HTTPRequester, error) {
	httpClient, err := strava.NewHTTPClient(strava.HTTPClientOptions{
		SiteURL:      cfg.ParsedSiteURL,
		Timeout:      cfg.ParsedRequestTimeout,
		MaxLogLength: cfg.ParsedMaxLogLength,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return strava.NewHTTPRequester(httpClient), nil
}

func userFromConfig(cfg *config.Config) strava.User {
	return strava.User{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Email:        cfg.Email,
		Password:     cfg.Password,
	}
}

// tokenFromConfig rebuilds the stored token. The remaining lifetime stands in for expires_in.
func tokenFromConfig(cfg *config.Config, now time.Time) strava.Token {
	expiresAt := time.Unix(cfg.ExpiresAt, 0)

	return strava.Token{
		AccessToken:  cfg.AccessToken,
		TokenType:    cfg.TokenType,
		ExpiresAt:    expiresAt,
		ExpiresIn:    max(expiresAt.Sub(now), 0),
		RefreshToken: cfg.RefreshToken,
	}
}

// restoreSession builds a session from the token stored in the configuration.
func restoreSession(cfg *config.Config) (*strava.Session, error) {
	if err := config.ValidateStoredToken(cfg); err != nil {
		return nil, err
	}

	requester, err := newRequester(cfg)
	if err != nil {
		return nil, err
	}

	return strava.Install(requester, cfg.ParsedSiteURL.String(), userFromConfig(cfg), tokenFromConfig(cfg, time.Now())), nil
}

// storeToken copies token into the configuration and saves it.
func storeToken(ctx context.Context, cfg *config.Config, token strava.Token) error {
	cfg.AccessToken = token.AccessToken
	cfg.RefreshToken = token.RefreshToken
	cfg.TokenType = token.TokenType
	cfg.ExpiresAt = token.ExpiresAt.Unix()

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	logger.Debug(ctx, "Token saved to configuration file")

	return nil
}
