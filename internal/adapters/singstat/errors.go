package singstat

import "errors"

// Sentinel kinds for statistics fetch errors.
var (
	ErrUnexpectedStatus  = errors.New("unexpected response status")
	ErrMalformedResponse = errors.New("malformed statistics response")
	ErrYearNotFound      = errors.New("year not found in statistics table")
)
