package http

import "time"

const (
	// DefaultTimeout is the default timeout duration for HTTP requests.
	DefaultTimeout = 60 * time.Second

	// DefaultUserAgent is the default User-Agent string used for HTTP requests.
	// The login pages are served to browsers only, so it mimics a common desktop browser.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36" //nolint: lll

	// redactedValue replaces secrets in logged dumps.
	redactedValue = "[REDACTED]"

	// hostHeader is the HTTP header name for Host.
	hostHeader = "Host"
)
