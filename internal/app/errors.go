package service

import "errors"

// Sentinel kinds for service-level request errors.
var (
	ErrEmptyBatch    = errors.New("batch must contain at least one identifier")
	ErrBatchTooLarge = errors.New("batch exceeds the configured maximum")
)
