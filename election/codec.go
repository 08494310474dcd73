package election

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	// MaxPacketSize bounds every message of the vote protocol, in bytes.
	MaxPacketSize = 2048

	// Voted is sent instead of the definition to a peer that already voted.
	Voted = "VOTED"
)

type parseState int

const (
	stateBegin parseState = iota
	stateOpenEntry
	stateName
	stateLow
	stateHigh
	stateCloseEntry
	stateDone
)

func (s parseState) String() string {
	switch s {
	case stateBegin:
		return "begin"
	case stateOpenEntry:
		return "open entry"
	case stateName:
		return "name"
	case stateLow:
		return "low"
	case stateHigh:
		return "high"
	case stateCloseEntry:
		return "close entry"
	default:
		return "done"
	}
}

// Parse reads a ballot of at most MaxPacketSize bytes in wire format.
// Every name must be in known.
func Parse(text string, known map[string]struct{}) (Ballot, error) {
	return ParseLimit(text, known, MaxPacketSize)
}

// ParseLimit is Parse with a caller-chosen size limit.
//
// The grammar is "[" [entry {"," entry}] "]" with entry = "(" name "," low "," high ")".
// Whitespace is ignored anywhere. Either the whole ballot is returned or an
// error matching ErrProtocolSyntax, ErrUnknownAlternative or ErrInvalidRank.
func ParseLimit(text string, known map[string]struct{}, limit int) (Ballot, error) {
	if len(text) > limit {
		return nil, fmt.Errorf("%w: %d bytes exceeds the %d byte limit", ErrProtocolSyntax, len(text), limit)
	}

	var (
		ballot     = Ballot{}
		state      = stateBegin
		afterComma bool
		name       strings.Builder
		low, high  uint64
		digits     int
	)

	unexpected := func(pos int, c rune) error {
		return fmt.Errorf("%w: unexpected %q at byte %d in %s", ErrProtocolSyntax, c, pos, state)
	}

	for pos, c := range text {
		if unicode.IsSpace(c) {
			continue
		}

		switch state {
		case stateBegin:
			if c != '[' {
				return nil, unexpected(pos, c)
			}
			state = stateOpenEntry

		case stateOpenEntry:
			switch {
			case c == '(':
				name.Reset()
				state = stateName
			case c == ']' && !afterComma:
				state = stateDone
			default:
				return nil, unexpected(pos, c)
			}

		case stateName:
			switch {
			case c == ',':
				n := name.String()
				if n == "" {
					return nil, fmt.Errorf("%w: empty name at byte %d", ErrProtocolSyntax, pos)
				}
				if _, ok := known[n]; !ok {
					return nil, fmt.Errorf("%w: %s", ErrUnknownAlternative, n)
				}
				if _, dup := ballot[n]; dup {
					return nil, fmt.Errorf("%w: %s ranked twice", ErrProtocolSyntax, n)
				}
				low, digits = 0, 0
				state = stateLow
			case unicode.IsLetter(c) || unicode.IsDigit(c):
				name.WriteRune(c)
			default:
				return nil, unexpected(pos, c)
			}

		case stateLow:
			if c == ',' {
				if digits == 0 {
					return nil, unexpected(pos, c)
				}
				high, digits = 0, 0
				state = stateHigh
				break
			}

			d, ok := digit(c)
			if !ok {
				return nil, unexpected(pos, c)
			}
			if low, ok = accumulate(low, d); !ok {
				return nil, fmt.Errorf("%w: low rank overflows at byte %d", ErrProtocolSyntax, pos)
			}
			digits++

		case stateHigh:
			if c == ')' {
				if digits == 0 {
					return nil, unexpected(pos, c)
				}
				if err := ballot.Insert(name.String(), low, high); err != nil {
					return nil, err
				}
				state = stateCloseEntry
				break
			}

			d, ok := digit(c)
			if !ok {
				return nil, unexpected(pos, c)
			}
			if high, ok = accumulate(high, d); !ok {
				return nil, fmt.Errorf("%w: high rank overflows at byte %d", ErrProtocolSyntax, pos)
			}
			digits++

		case stateCloseEntry:
			switch c {
			case ']':
				state = stateDone
			case ',':
				afterComma = true
				state = stateOpenEntry
			default:
				return nil, unexpected(pos, c)
			}

		case stateDone:
			return nil, fmt.Errorf("%w: trailing %q at byte %d", ErrProtocolSyntax, c, pos)
		}
	}

	if state != stateDone {
		return nil, fmt.Errorf("%w: ballot ends in %s", ErrProtocolSyntax, state)
	}

	return ballot, nil
}
