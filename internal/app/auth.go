package app

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/oshokin/strava-auth/internal/client/strava"
	"github.com/oshokin/strava-auth/internal/config"
	"github.com/oshokin/strava-auth/internal/logger"
	"github.com/oshokin/strava-auth/internal/service/auth"
)

// ExecuteAuthLoginCommand executes the auth login command.
// It logs in with the configured credentials, grants the configured scopes to the
// application and saves the obtained token to the configuration file.
func ExecuteAuthLoginCommand(ctx context.Context, cfg *config.Config) {
	token, err := login(ctx, cfg)
	if err != nil {
		logger.Fatalf(ctx, "Authentication failed: %v", err)

		return
	}

	logger.Info(ctx, "Authentication complete! The token was saved to the configuration file.")
	printToken(ctx, token)
	logger.Info(ctx, "")
	logger.Info(ctx, "Try requesting your profile:")
	logger.Info(ctx, "strava-auth get /athlete")
}

// ExecuteAuthRefreshCommand executes the auth refresh command.
// It exchanges the stored refresh token for a new token and saves it.
func ExecuteAuthRefreshCommand(ctx context.Context, cfg *config.Config) {
	token, err := refresh(ctx, cfg)
	if err != nil {
		logger.Fatalf(ctx, "Token refresh failed: %v", err)

		return
	}

	printToken(ctx, token)
}

// ExecuteAuthStatusCommand executes the auth status command.
// It prints the type and expiry of the stored token.
func ExecuteAuthStatusCommand(ctx context.Context, cfg *config.Config) {
	if err := config.ValidateStoredToken(cfg); err != nil {
		logger.Fatalf(ctx, "Invalid configuration: %v", err)

		return
	}

	printToken(ctx, tokenFromConfig(cfg, time.Now()))
}

func login(ctx context.Context, cfg *config.Config) (strava.Token, error) {
	if err := config.ValidateLoginSettings(cfg); err != nil {
		return strava.Token{}, err
	}

	requester, err := newRequester(cfg)
	if err != nil {
		return strava.Token{}, err
	}

	authService := auth.NewService(requester, cfg.ParsedSiteURL.String())

	session, err := authService.Authenticate(ctx, userFromConfig(cfg), cfg.CallbackURL, cfg.Scope)
	if err != nil {
		return strava.Token{}, err
	}

	token := session.Token()
	if err = storeToken(ctx, cfg, token); err != nil {
		return strava.Token{}, err
	}

	return token, nil
}

func refresh(ctx context.Context, cfg *config.Config) (strava.Token, error) {
	session, err := restoreSession(cfg)
	if err != nil {
		return strava.Token{}, err
	}

	token, err := session.Refresh(ctx)
	if err != nil {
		return strava.Token{}, err
	}

	if err = storeToken(ctx, cfg, token); err != nil {
		return strava.Token{}, err
	}

	return token, nil
}

func printToken(ctx context.Context, token strava.Token) {
	now := time.Now()

	logger.Infof(ctx, "Token type: %s", token.TokenType)

	if token.Expired(now) {
		logger.Infof(ctx, "Access token expired %s, it will be refreshed on the next request",
			humanize.Time(token.ExpiresAt))

		return
	}

	logger.Infof(ctx, "Access token expires %s (%s)",
		humanize.Time(token.ExpiresAt), token.ExpiresAt.Format(time.RFC1123))
}
