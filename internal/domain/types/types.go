// Package types contains common types used across the application
package types

// ValidationResult is the outcome of checking one identifier.
// Reason is a short label (length, prefix, digits, checksum) and is empty
// when the identifier is valid.
type ValidationResult struct {
	NRIC   string `json:"nric"`
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}
