package auth

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// csrfTokenSelector matches the meta tag holding the anti-forgery token.
const csrfTokenSelector = `meta[name="csrf-token"]`

// ParseError is returned when an expected element is missing from a page.
type ParseError struct {
	// Page names the page that was parsed.
	Page string
	// Element is the selector that matched nothing.
	Element string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: no %s on %s page", ErrCSRFTokenNotFound, e.Element, e.Page)
}

// Unwrap returns ErrCSRFTokenNotFound.
func (e *ParseError) Unwrap() error {
	return ErrCSRFTokenNotFound
}

// extractCSRFToken reads the content of the csrf-token meta tag from an HTML page.
func extractCSRFToken(body []byte, page string) (string, error) {
	document, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse %s page: %w", page, err)
	}

	token, ok := document.Find(csrfTokenSelector).First().Attr("content")
	if !ok || strings.TrimSpace(token) == "" {
		return "", &ParseError{Page: page, Element: csrfTokenSelector}
	}

	return token, nil
}
