package election

import (
	"fmt"
	"sort"
	"strings"
)

// Ballot maps choice names to the rank a voter gave them. Unranked choices are absent.
type Ballot map[string]Rank

// Insert ranks name, replacing any previous rank for it.
func (b Ballot) Insert(name string, low, high uint64) error {
	r, err := NewRank(low, high)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	b[name] = r

	return nil
}

// Names returns the ranked choice names in sorted order.
func (b Ballot) Names() []string {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Serialize renders the ballot in wire format, e.g. "[(A, 1, 1), (B, 2, 3)]".
// Entries are sorted by name.
func Serialize(b Ballot) string {
	var sb strings.Builder

	sb.WriteByte('[')
	for i, name := range b.Names() {
		if i > 0 {
			sb.WriteString(", ")
		}

		r := b[name]
		fmt.Fprintf(&sb, "(%s, %d, %d)", name, r.Low, r.High)
	}
	sb.WriteByte(']')

	return sb.String()
}
