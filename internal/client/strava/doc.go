// Package strava provides the authenticated HTTP session for Strava.
//
// A Session bundles the application and account credentials, the current OAuth
// token and a Requester. Requests made through the session pass a refresh
// interceptor: when Strava answers with its "invalid access token" error, the
// token is refreshed with the stored refresh token and the request is retried
// exactly once with the new token.
package strava
