package election

import (
	"fmt"
	"math"
	"strings"
)

// Rank is the range of positions a voter gives one choice. Lower is better.
// Low == High is a single position, anything wider is a tie across the range.
type Rank struct {
	Low  uint64
	High uint64
}

func NewRank(low, high uint64) (Rank, error) {
	if low > high {
		return Rank{}, fmt.Errorf("%w: low %d is above high %d", ErrInvalidRank, low, high)
	}

	return Rank{Low: low, High: high}, nil
}

func (r Rank) String() string {
	if r.Low == r.High {
		return fmt.Sprintf("%d", r.Low)
	}

	return fmt.Sprintf("%d-%d", r.Low, r.High)
}

// ParseRank reads the operator notation used by the voting client: "N" for a
// single position or "L-H" for a range.
func ParseRank(text string) (Rank, error) {
	text = strings.TrimSpace(text)

	lowText, highText, ranged := strings.Cut(text, "-")
	if !ranged {
		highText = lowText
	}

	low, err := parseUint(lowText)
	if err != nil {
		return Rank{}, err
	}

	high, err := parseUint(highText)
	if err != nil {
		return Rank{}, err
	}

	return NewRank(low, high)
}

func parseUint(text string) (uint64, error) {
	if text == "" {
		return 0, fmt.Errorf("%w: missing number", ErrProtocolSyntax)
	}

	var n uint64
	for _, c := range text {
		d, ok := digit(c)
		if !ok {
			return 0, fmt.Errorf("%w: %q is not a digit", ErrProtocolSyntax, c)
		}

		if n, ok = accumulate(n, d); !ok {
			return 0, fmt.Errorf("%w: %s overflows", ErrProtocolSyntax, text)
		}
	}

	return n, nil
}

func digit(c rune) (uint64, bool) {
	if c < '0' || c > '9' {
		return 0, false
	}

	return uint64(c - '0'), true
}

// accumulate returns n*10+d, or false when that does not fit in a uint64.
func accumulate(n, d uint64) (uint64, bool) {
	if n > (math.MaxUint64-d)/10 {
		return 0, false
	}

	return n*10 + d, true
}
