package model

import "errors"

// Domain error taxonomy. Callers branch with errors.Is; handlers map these to
// HTTP status codes.
var (
	ErrNotFound              = errors.New("record not found")
	ErrValidation            = errors.New("validation failed")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrEnrichmentUnavailable = errors.New("enrichment unavailable")
)
