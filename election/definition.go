package election

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// Choice is one alternative voters can rank. Name is its key everywhere.
type Choice struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (c Choice) String() string {
	return fmt.Sprintf("%s: %s", c.Name, c.Description)
}

// Definition is what a server hosts and what every client is shown.
type Definition struct {
	Title        string   `json:"title"`
	Question     string   `json:"question"`
	Alternatives []Choice `json:"alternatives"`
}

func (d Definition) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "\t%s\n%s\n", d.Title, d.Question)
	for _, c := range d.Alternatives {
		fmt.Fprintf(&sb, "\t%s\n", c)
	}

	return sb.String()
}

// Names is the set of alternative names, as Parse expects it.
func (d Definition) Names() map[string]struct{} {
	names := make(map[string]struct{}, len(d.Alternatives))
	for _, c := range d.Alternatives {
		names[c.Name] = struct{}{}
	}

	return names
}

// Validate checks that there is at least one alternative and that every name
// is unique and something the ballot grammar can carry.
func (d Definition) Validate() error {
	if len(d.Alternatives) == 0 {
		return fmt.Errorf("%w: no alternatives", ErrInvalidDefinition)
	}

	seen := make(map[string]struct{}, len(d.Alternatives))
	for i, c := range d.Alternatives {
		if c.Name == "" {
			return fmt.Errorf("%w: alternative %d has no name", ErrInvalidDefinition, i)
		}

		for _, r := range c.Name {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				return fmt.Errorf("%w: name %q must be letters and digits only", ErrInvalidDefinition, c.Name)
			}
		}

		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidDefinition, c.Name)
		}
		seen[c.Name] = struct{}{}
	}

	return nil
}

// LoadDefinition reads an election file. It returns the definition and the
// squeezed JSON that is sent to clients verbatim.
func LoadDefinition(r io.Reader) (Definition, []byte, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Definition{}, nil, fmt.Errorf("read election: %w", err)
	}

	payload := []byte(Squeeze(string(raw)))
	if len(payload) > MaxPacketSize {
		return Definition{}, nil, fmt.Errorf("%w: %d bytes does not fit in a %d byte packet", ErrInvalidDefinition, len(payload), MaxPacketSize)
	}

	d, err := DecodeDefinition(payload)
	if err != nil {
		return Definition{}, nil, err
	}

	return d, payload, nil
}

// DecodeDefinition parses and validates a definition payload.
func DecodeDefinition(payload []byte) (Definition, error) {
	d := Definition{}
	if err := json.Unmarshal(payload, &d); err != nil {
		return Definition{}, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}

	if err := d.Validate(); err != nil {
		return Definition{}, err
	}

	return d, nil
}
