package tally

import "errors"

var (
	// ErrUnknownAlternative is returned by Cast for a ballot naming an unregistered alternative.
	ErrUnknownAlternative = errors.New("alternative not registered")

	// ErrEmptyGraph is returned when a strategy is requested without any alternatives.
	ErrEmptyGraph = errors.New("duel graph has no alternatives")

	// ErrNoStrategy is returned when the optimal strategy cannot be solved for.
	ErrNoStrategy = errors.New("no optimal strategy")
)
