package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestShort tests that Short returns the bare version number.
func TestShort(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Version, Short())
	assert.NotContains(t, Short(), "commit")
}

// TestFull tests the layout printed by 'strava-auth --version'.
func TestFull(t *testing.T) {
	t.Parallel()

	result := Full()

	assert.True(t, strings.HasPrefix(result, "version: "+Version+", "), result)
	assert.Contains(t, result, "commit: "+Commit)
	assert.True(t, strings.HasSuffix(result, "built at: "+BuildTime), result)
	assert.Equal(t, 2, strings.Count(result, ", "))
}

// TestDefaults tests the values used when the binary is built without -ldflags.
func TestDefaults(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "none", Commit)
	assert.Equal(t, "unknown", BuildTime)

	parts := strings.Split(Version, ".")
	assert.Len(t, parts, 3, "version must be MAJOR.MINOR.PATCH")

	for _, part := range parts {
		assert.NotEmpty(t, part)
		assert.Equal(t, -1, strings.IndexFunc(part, func(r rune) bool { return r < '0' || r > '9' }), part)
	}
}
