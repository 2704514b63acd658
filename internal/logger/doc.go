// Package logger provides structured logging on top of the Zap logging library.
// It keeps a process-wide sugared logger with an atomic level that can be changed
// after the configuration is loaded, and lets callers carry a derived logger
// (with extra key-value pairs) through a context.Context.
package logger
