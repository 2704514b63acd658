package strava

//go:generate $MOCKGEN -source=requester.go -destination=mocks/requester_mock.go

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	http_transport "github.com/oshokin/strava-auth/internal/transport/http"
	"github.com/oshokin/strava-auth/internal/utils"
)

// Requester performs a single HTTP request and returns the fully read response.
type Requester interface {
	// Do sends a request with the given method to rawURL.
	Do(ctx context.Context, method, rawURL string, opts *RequestOptions) (*Response, error)
}

// HTTPRequester implements Requester on top of an http.Client.
// Cookies set by any response are sent with every later request through the client's jar.
type HTTPRequester struct {
	// httpClient is the HTTP client for making requests.
	httpClient *http.Client
}

// HTTPClientOptions configures NewHTTPClient.
type HTTPClientOptions struct {
	// SiteURL is the base URL of the site; its host becomes the default Host header.
	SiteURL *url.URL
	// Timeout limits a single request, including redirects.
	Timeout time.Duration
	// MaxLogLength limits logged request/response dumps.
	MaxLogLength uint64
	// Transport is the underlying round tripper; http.DefaultTransport when nil.
	Transport http.RoundTripper
}

// ErrNilSiteURL indicates that HTTPClientOptions.SiteURL was not set.
var ErrNilSiteURL = errors.New("site URL is nil")

// NewHTTPClient creates the HTTP client shared by the handshake and the session.
// It keeps cookies, injects the default headers and logs traffic at debug level.
func NewHTTPClient(opts HTTPClientOptions) (*http.Client, error) {
	if opts.SiteURL == nil {
		return nil, ErrNilSiteURL
	}

	// Create a cookie jar to manage cookies for the HTTP client.
	cookies, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = http_transport.DefaultTimeout
	}

	return &http.Client{
		Transport: http_transport.NewHeaderInjector(
			http_transport.NewLogTransport(transport, opts.MaxLogLength),
			utils.NewStaticHeaderProvider(DefaultHeaders(opts.SiteURL))),
		Jar:     cookies,
		Timeout: timeout,
	}, nil
}

// DefaultHeaders returns the headers sent with every request to the site.
func DefaultHeaders(siteURL *url.URL) http.Header {
	headers := make(http.Header)
	headers.Set(doNotTrackHeader, "1")
	headers.Set(userAgentHeader, http_transport.DefaultUserAgent)

	if siteURL != nil {
		headers.Set(hostHeader, siteURL.Host)
	}

	return headers
}

// NewHTTPRequester creates a Requester backed by httpClient.
func NewHTTPRequester(httpClient *http.Client) *HTTPRequester {
	return &HTTPRequester{httpClient: httpClient}
}

// Do sends the request and reads the whole response body.
// Transport failures are returned as errors; any HTTP status is a valid response.
func (r *HTTPRequester) Do(ctx context.Context, method, rawURL string, opts *RequestOptions) (*Response, error) {
	if opts == nil {
		opts = &RequestOptions{}
	}

	request, err := newRequest(ctx, method, rawURL, opts)
	if err != nil {
		return nil, err
	}

	client := r.httpClient
	if opts.DisableRedirects {
		noRedirectClient := *r.httpClient
		noRedirectClient.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}

		client = &noRedirectClient
	}

	response, err := client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, request.URL.Path, err)
	}

	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response of %s %s: %w", method, request.URL.Path, err)
	}

	return &Response{
		StatusCode: response.StatusCode,
		Header:     response.Header,
		Body:       body,
		URL:        response.Request.URL,
	}, nil
}

func newRequest(ctx context.Context, method, rawURL string, opts *RequestOptions) (*http.Request, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid request URL: %w", err)
	}

	if len(opts.Query) > 0 {
		query := target.Query()
		for key, values := range opts.Query {
			query[key] = append([]string(nil), values...)
		}

		target.RawQuery = query.Encode()
	}

	var body io.Reader = http.NoBody
	if opts.Form != nil {
		body = strings.NewReader(opts.Form.Encode())
	}

	request, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, err
	}

	if opts.Form != nil {
		request.Header.Set(contentTypeHeader, formContentType)
	}

	for name, values := range opts.Header {
		for _, value := range values {
			request.Header.Add(name, value)
		}
	}

	return request, nil
}
