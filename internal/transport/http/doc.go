// Package http provides http.RoundTripper decorators used by the Strava session:
// default header injection and debug logging of request/response dumps with
// credentials and tokens redacted.
package http
