package experiment

import "errors"

var (
	// ErrTrafficSum rejects an enabled configuration whose variant traffic
	// percentages do not sum to 100 within tolerance.
	ErrTrafficSum = errors.New("variant traffic percentages must sum to 100")

	// ErrNoActiveExperiment means the page has no enabled experiment to
	// declare a winner for.
	ErrNoActiveExperiment = errors.New("no active experiment")

	// ErrVariantNotFound means the given variant id matches no configured
	// variant.
	ErrVariantNotFound = errors.New("variant not found")
)
