// Package util provides small shared helpers for subst packages.
package util

// MaxLogValueSize is the default cap on template and value text quoted
// in log entries (1KB).
const MaxLogValueSize = 1024

// Truncate caps s at maxSize bytes, appending "...(truncated)" when cut.
// If maxSize <= 0, MaxLogValueSize applies.
func Truncate(s string, maxSize int) string {
	if maxSize <= 0 {
		maxSize = MaxLogValueSize
	}
	if len(s) > maxSize {
		return s[:maxSize] + "...(truncated)"
	}
	return s
}
