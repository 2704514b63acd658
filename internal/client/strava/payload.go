package strava

import (
	"encoding/json"

	"github.com/google/go-cmp/cmp"
)

// invalidTokenBody is the exact error payload Strava returns with 401 for an expired or revoked access token.
const invalidTokenBody = `{
	"message": "Authorization Error",
	"errors": [{"resource": "Athlete", "field": "access_token", "code": "invalid"}]
}`

// invalidTokenPayload is invalidTokenBody decoded into generic JSON values.
//
//nolint:gochecknoglobals // Decoded once from a constant and never modified.
var invalidTokenPayload = mustDecodeJSON(invalidTokenBody)

// isInvalidTokenPayload reports whether body is structurally equal to the invalid token payload.
// Key order and whitespace do not matter, extra or missing keys do.
func isInvalidTokenPayload(body []byte) bool {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return false
	}

	return cmp.Equal(invalidTokenPayload, payload)
}

func mustDecodeJSON(text string) any {
	var value any
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		panic(err)
	}

	return value
}
