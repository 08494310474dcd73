package client

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/krantius/condorcet-tcp/election"
)

// ErrAborted is returned by Fill when input ends before every alternative is ranked.
var ErrAborted = errors.New("ballot aborted")

// Wizard asks the voter for a rank per alternative, one line each.
type Wizard struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewWizard(in io.Reader, out io.Writer) *Wizard {
	return &Wizard{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// Fill builds a ballot for def. A rank is "N" or "L-H"; "U" or an empty line
// leaves the alternative unranked. Bad input is reported and asked again.
func (w *Wizard) Fill(def election.Definition) (election.Ballot, error) {
	fmt.Fprintln(w.out, def)

	ballot := election.Ballot{}
	for _, c := range def.Alternatives {
		r, ranked, err := w.ask(c)
		if err != nil {
			return nil, err
		}
		if !ranked {
			continue
		}

		if err := ballot.Insert(c.Name, r.Low, r.High); err != nil {
			return nil, err
		}
	}

	return ballot, nil
}

func (w *Wizard) ask(c election.Choice) (election.Rank, bool, error) {
	for {
		fmt.Fprintf(w.out, "%s %s %s ", color.GreenString("?"), c, color.HiBlackString("(rank, L-H or U for unranked)"))

		if !w.in.Scan() {
			if err := w.in.Err(); err != nil {
				return election.Rank{}, false, err
			}
			return election.Rank{}, false, ErrAborted
		}

		line := strings.TrimSpace(w.in.Text())
		if line == "" || strings.EqualFold(line, "U") {
			return election.Rank{}, false, nil
		}

		r, err := election.ParseRank(line)
		if err != nil {
			fmt.Fprintf(w.out, "%s %v\n", color.RedString("error:"), err)
			continue
		}

		return r, true, nil
	}
}

// Summary lists every alternative with the rank b gives it.
func Summary(def election.Definition, b election.Ballot) string {
	var sb strings.Builder
	for _, c := range def.Alternatives {
		rank := "UNRANKED"
		if r, ok := b[c.Name]; ok {
			rank = r.String()
		}
		fmt.Fprintf(&sb, "%s, %s: %s\n", c.Name, rank, c.Description)
	}

	return sb.String()
}
