package http

import (
	"errors"
	"net/http"
	"net/http/httputil"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/oshokin/strava-auth/internal/config"
	"github.com/oshokin/strava-auth/internal/logger"
	"github.com/oshokin/strava-auth/internal/utils"
)

// LogTransport is a custom http.RoundTripper that logs HTTP requests and responses.
// It wraps another http.RoundTripper and logs debug information for each request/response cycle.
// Passwords, client secrets, authorization codes and tokens are redacted from the dumps.
type LogTransport struct {
	// next is the underlying HTTP round tripper.
	next http.RoundTripper
	// maxLogLength is the maximum length of logged request/response data.
	maxLogLength uint64
}

// Static error definitions for better error handling.
var (
	// ErrNilRequest indicates that the HTTP request is nil.
	ErrNilRequest = errors.New("request is nil")
)

var (
	// formSecretPattern matches secrets in query strings and form bodies.
	//nolint:gochecknoglobals,lll // This is an immutable, pre-compiled regex pattern and used as a constant.
	formSecretPattern = regexp.MustCompile(`((?:^|[?&\s])(?:password|client_secret|code|access_token|refresh_token|authenticity_token)=)[^&\s]*`)

	// jsonSecretPattern matches token values in JSON bodies.
	//nolint:gochecknoglobals // This is an immutable, pre-compiled regex pattern and used as a constant.
	jsonSecretPattern = regexp.MustCompile(`("(?:access_token|refresh_token|password|client_secret)"\s*:\s*")[^"]*(")`)

	// metaSecretPattern matches the anti-forgery token embedded in HTML pages.
	//nolint:gochecknoglobals // This is an immutable, pre-compiled regex pattern and used as a constant.
	metaSecretPattern = regexp.MustCompile(`(name="csrf-token"\s+content=")[^"]*(")`)
)

// NewLogTransport creates and returns a new instance of LogTransport.
// If maxLogLength is 0, it defaults to config.DefaultMaxLogLength.
func NewLogTransport(next http.RoundTripper, maxLogLength uint64) http.RoundTripper {
	if maxLogLength == 0 {
		maxLogLength = config.DefaultMaxLogLength
	}

	return &LogTransport{
		next:         next,
		maxLogLength: maxLogLength,
	}
}

// RoundTrip executes a single HTTP transaction and logs the request and response.
// It implements the http.RoundTripper interface.
func (t *LogTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	// Skip logging if the logger is not at debug level.
	if !logger.IsDebugLevel() {
		return t.next.RoundTrip(req)
	}

	ctx := logger.WithKV(req.Context(), "exchange_id", uuid.NewString())

	requestDump := t.dumpRequest(req)

	// Record the start time to measure the duration of the request.
	startTime := time.Now()

	// Forward the request to the underlying RoundTripper.
	resp, err := t.next.RoundTrip(req)

	// Calculate the duration of the request.
	duration := time.Since(startTime)

	if err != nil {
		logger.Debugf(ctx, "Request failed: %s %s | Error: %v", req.Method, req.URL.Path, err)

		return nil, err
	}

	responseDump := t.dumpResponse(resp)

	logger.Debugf(ctx, "%s %s [%d] %s\nRequest: %s\nResponse: %s",
		req.Method, req.URL.Path, resp.StatusCode, duration, requestDump, responseDump)

	return resp, nil
}

func (t *LogTransport) dumpRequest(req *http.Request) string {
	// DumpRequestOut restores the consumed body, so the request can still be sent.
	dump, err := httputil.DumpRequestOut(req, true)
	if err != nil {
		return err.Error()
	}

	return t.truncate(redact(dump))
}

func (t *LogTransport) dumpResponse(resp *http.Response) string {
	// Check the Content-Type header to determine if the response body should be dumped.
	contentType := resp.Header.Get("Content-Type")

	dump, err := httputil.DumpResponse(resp, utils.IsTextContentType(contentType))
	if err != nil {
		return err.Error()
	}

	return t.truncate(redact(dump))
}

func (t *LogTransport) truncate(data []byte) string {
	if uint64(len(data)) > t.maxLogLength {
		return string(data[:t.maxLogLength]) + "... [truncated]"
	}

	return string(data)
}

// redact hides credentials and tokens in a request or response dump.
func redact(dump []byte) []byte {
	dump = formSecretPattern.ReplaceAll(dump, []byte("${1}"+redactedValue))
	dump = jsonSecretPattern.ReplaceAll(dump, []byte("${1}"+redactedValue+"${2}"))

	return metaSecretPattern.ReplaceAll(dump, []byte("${1}"+redactedValue+"${2}"))
}
