package utils

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNewStaticHeaderProvider tests the NewStaticHeaderProvider function.
func TestNewStaticHeaderProvider(t *testing.T) {
	t.Parallel()

	provider := NewStaticHeaderProvider(http.Header{"Dnt": []string{"1"}})

	assert.NotNil(t, provider)
	assert.Implements(t, (*HeaderProvider)(nil), provider)
	assert.Equal(t, "1", provider.GetHeaders().Get("DNT"))
}

// TestStaticHeaderProvider_GetHeadersReturnsCopy tests that callers cannot alter the provider state.
func TestStaticHeaderProvider_GetHeadersReturnsCopy(t *testing.T) {
	t.Parallel()

	source := http.Header{}
	source.Set("DNT", "1")

	provider := NewStaticHeaderProvider(source)

	// Changing the source after construction must not leak into the provider.
	source.Set("DNT", "0")

	headers := provider.GetHeaders()
	headers.Set("DNT", "changed")
	headers.Set("X-Extra", "value")

	fresh := provider.GetHeaders()
	assert.Equal(t, "1", fresh.Get("DNT"))
	assert.Empty(t, fresh.Get("X-Extra"))
}

// TestStaticHeaderProvider_NilHeaders tests that a nil header set produces an empty, usable map.
func TestStaticHeaderProvider_NilHeaders(t *testing.T) {
	t.Parallel()

	provider := NewStaticHeaderProvider(nil)

	headers := provider.GetHeaders()
	assert.NotNil(t, headers)
	assert.Empty(t, headers)

	headers.Set("User-Agent", "test")
}
