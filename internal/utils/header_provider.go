package utils

//go:generate $MOCKGEN -source=header_provider.go -destination=mocks/header_provider_mock.go

import "net/http"

// HeaderProvider supplies the default headers every outgoing request should carry.
type HeaderProvider interface {
	// GetHeaders returns the default headers. Callers may modify the returned value.
	GetHeaders() http.Header
}

// StaticHeaderProvider returns the same set of headers for every request.
type StaticHeaderProvider struct {
	// headers is the immutable set of default headers.
	headers http.Header
}

// NewStaticHeaderProvider creates a provider serving a private copy of headers.
func NewStaticHeaderProvider(headers http.Header) HeaderProvider {
	return &StaticHeaderProvider{headers: headers.Clone()}
}

// GetHeaders returns a copy of the default headers.
func (p *StaticHeaderProvider) GetHeaders() http.Header {
	if p.headers == nil {
		return make(http.Header)
	}

	return p.headers.Clone()
}
