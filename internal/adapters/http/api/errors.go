package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrEmptyBatch    = errors.New("nrics must contain at least one identifier")
	ErrBatchTooLarge = errors.New("too many identifiers in batch")
)
