package http

import (
	"net/http"

	"github.com/oshokin/strava-auth/internal/utils"
)

// HeaderInjector is a custom http.RoundTripper that adds default headers to outgoing requests.
// Headers already present on the request are left untouched, except Host, which is always
// set to the provided value.
type HeaderInjector struct {
	// next is the underlying HTTP round tripper.
	next http.RoundTripper
	// headerProvider provides the default headers to inject.
	headerProvider utils.HeaderProvider
}

// NewHeaderInjector creates and returns a new instance of HeaderInjector.
func NewHeaderInjector(next http.RoundTripper, headerProvider utils.HeaderProvider) http.RoundTripper {
	return &HeaderInjector{
		next:           next,
		headerProvider: headerProvider,
	}
}

// RoundTrip executes a single HTTP transaction after filling in the missing default headers.
// The caller's request is never modified; a clone is sent when headers must be added.
func (t *HeaderInjector) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	var cloned *http.Request

	for name, values := range t.headerProvider.GetHeaders() {
		if len(values) == 0 {
			continue
		}

		// net/http takes the Host header from Request.Host, never from the header map,
		// and NewRequest always fills Request.Host from the URL. The provided host wins.
		if http.CanonicalHeaderKey(name) == hostHeader {
			if req.Host != values[0] {
				if cloned == nil {
					cloned = req.Clone(req.Context())
				}

				cloned.Host = values[0]
			}

			continue
		}

		if req.Header.Get(name) != "" {
			continue
		}

		if cloned == nil {
			cloned = req.Clone(req.Context())
		}

		cloned.Header[http.CanonicalHeaderKey(name)] = append([]string(nil), values...)
	}

	if cloned != nil {
		req = cloned
	}

	return t.next.RoundTrip(req)
}
