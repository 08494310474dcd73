package election

import "errors"

var (
	// ErrProtocolSyntax is returned for wire text that does not follow the ballot grammar.
	ErrProtocolSyntax = errors.New("malformed ballot")

	// ErrUnknownAlternative is returned when a ballot names a choice the election does not have.
	ErrUnknownAlternative = errors.New("unknown alternative")

	// ErrInvalidRank is returned when a rank's low bound is above its high bound.
	ErrInvalidRank = errors.New("invalid rank")

	// ErrInvalidDefinition is returned when an election file cannot be used.
	ErrInvalidDefinition = errors.New("invalid election definition")
)
