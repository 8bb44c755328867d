package lotto

import "log"

// DefaultLogger implements Logger using the standard log package
type DefaultLogger struct{}

// Info logs an info message
func (l *DefaultLogger) Info(msg string, args ...any) {
	log.Printf("[INFO] "+msg, args...)
}

// Error logs an error message
func (l *DefaultLogger) Error(msg string, args ...any) {
	log.Printf("[ERROR] "+msg, args...)
}

// Debug logs a debug message
func (l *DefaultLogger) Debug(msg string, args ...any) {
	log.Printf("[DEBUG] "+msg, args...)
}

// SilentLogger implements Logger but does not output anything.
// Useful for tests and for callers that want the core to stay quiet.
type SilentLogger struct{}

// NewSilentLogger creates a new silent logger instance
func NewSilentLogger() *SilentLogger {
	return &SilentLogger{}
}

// Info does nothing
func (l *SilentLogger) Info(msg string, args ...any) {}

// Error does nothing
func (l *SilentLogger) Error(msg string, args ...any) {}

// Debug does nothing
func (l *SilentLogger) Debug(msg string, args ...any) {}
