package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/strava-auth/internal/app"
)

var (
	//nolint:gochecknoglobals // Cobra command requires a global definition.
	authCmd = &cobra.Command{
		Use:   "auth",
		Short: "Authentication management commands",
		Long: `Manage the Strava token of the configured application.

Use 'auth login' to authorize the application and save the token,
'auth refresh' to renew the saved token and 'auth status' to inspect it.`,
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	authLoginCmd = &cobra.Command{
		Use:   "login",
		Short: "Authorize the application and save the token",
		Long: `Authorizes the configured application on behalf of the configured user.

The login process:
1. Opens the authorization page of the application
2. Logs in with the configured email and password
3. Grants every scope from the 'scope' setting
4. Exchanges the authorization code for a token

The token is saved to the configuration file. You can then call the API:
strava-auth get /athlete`,
		Args:             cobra.NoArgs,
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, _ []string) {
			app.ExecuteAuthLoginCommand(cmd.Context(), appConfig)
		},
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	authRefreshCmd = &cobra.Command{
		Use:              "refresh",
		Short:            "Exchange the saved refresh token for a new token",
		Args:             cobra.NoArgs,
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, _ []string) {
			app.ExecuteAuthRefreshCommand(cmd.Context(), appConfig)
		},
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	authStatusCmd = &cobra.Command{
		Use:              "status",
		Short:            "Show the type and expiry of the saved token",
		Args:             cobra.NoArgs,
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, _ []string) {
			app.ExecuteAuthStatusCommand(cmd.Context(), appConfig)
		},
	}
)

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	authLoginCmd.Flags().StringP(
		"scope",
		"s",
		"",
		"comma-separated scopes to grant, for example: read,activity:read_all.")

	authCmd.AddCommand(authLoginCmd, authRefreshCmd, authStatusCmd)

	rootCmd.AddCommand(authCmd)
}
