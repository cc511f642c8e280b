package nric

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for identifier checks. These allow errors.Is from callers.
var (
	ErrMalformedInput = errors.New("malformed identifier")

	ErrLength   = fmt.Errorf("%w: must be %d characters", ErrMalformedInput, Length)
	ErrPrefix   = fmt.Errorf("%w: prefix must be one of S, T, F, G", ErrMalformedInput)
	ErrDigits   = fmt.Errorf("%w: body must be %d decimal digits", ErrMalformedInput, bodyLength)
	ErrChecksum = errors.New("checksum letter mismatch")
)
