package utils

import (
	"mime"
	"regexp"
	"strings"
)

var (
	// textContentTypePatterns is a slice of regular expressions that match content types
	// considered to be text-based. This includes "text/*", "application/json",
	// "application/x-www-form-urlencoded" and "application/samlmetadata+xml".
	//nolint:gochecknoglobals // These are immutable, pre-compiled regex patterns and used as constants.
	textContentTypePatterns = []*regexp.Regexp{
		regexp.MustCompile("^text/.+"),
		regexp.MustCompile("^application/json$"),
		regexp.MustCompile("^application/x-www-form-urlencoded$"),
		regexp.MustCompile(`^application/samlmetadata\+xml`),
	}
)

// IsTextContentType reports whether the content type describes a human-readable body
// encoded in UTF-8 (or plain ASCII).
func IsTextContentType(contentType string) bool {
	parsedType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	for _, pattern := range textContentTypePatterns {
		if !pattern.MatchString(parsedType) {
			continue
		}

		charset := strings.ToLower(params["charset"])

		return charset == "" || charset == "utf-8" || charset == "us-ascii"
	}

	return false
}

// SplitCommaSeparated splits a comma-separated list, trimming spaces and dropping empty items.
// The order of the items is preserved, duplicates are removed.
func SplitCommaSeparated(list string) []string {
	var (
		parts  = strings.Split(list, ",")
		result = make([]string, 0, len(parts))
		seen   = make(map[string]struct{}, len(parts))
	)

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if _, ok := seen[part]; ok {
			continue
		}

		seen[part] = struct{}{}
		result = append(result, part)
	}

	return result
}
