package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/oshokin/strava-auth/internal/app"
)

//nolint:gochecknoglobals // Cobra command requires a global definition.
var getCmd = &cobra.Command{
	Use:   "get {api path}",
	Short: "Send an authenticated GET request to the Strava API",
	Long: `Sends a GET request to the Strava API and prints the response body.

The path is relative to /api/v3, for example:
strava-auth get /athlete
strava-auth get "/athlete/activities?per_page=5"

An expired access token is refreshed once and the request is retried.
The refreshed token is saved to the configuration file.`,
	Args:             cobra.ExactArgs(1),
	PersistentPreRun: initConfig,
	Run: func(cmd *cobra.Command, args []string) {
		app.ExecuteGetCommand(cmd.Context(), appConfig, args[0], os.Stdout)
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	rootCmd.AddCommand(getCmd)
}
