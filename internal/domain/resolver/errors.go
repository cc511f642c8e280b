package resolver

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for resolution. These allow errors.Is from callers.
var (
	ErrMalformedInput   = errors.New("malformed input")
	ErrInvalidBirthDate = fmt.Errorf("%w: birth date must be DDMMYYYY", ErrMalformedInput)
	ErrStatistics       = errors.New("birth statistics unavailable")
	ErrNoCandidate      = errors.New("no checksum-valid candidate")
)
