// Package utils provides small helpers shared across the application:
// content type checks for log dumps, list parsing and User-Agent providers.
package utils
