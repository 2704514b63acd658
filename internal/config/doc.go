// Package config loads, validates and persists the application settings:
// Strava application credentials, account credentials, HTTP and logging knobs,
// and the OAuth token obtained by the last successful login or refresh.
package config
