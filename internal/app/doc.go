// Package app implements the commands of the CLI.
// It builds the Strava requester and session from the configuration, runs the
// authorization flow or API requests, and writes refreshed tokens back to the
// configuration file.
package app
