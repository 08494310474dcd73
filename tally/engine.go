// Package tally aggregates ranked ballots into pairwise duels and derives
// Condorcet results and the optimal randomized strategy from them.
package tally

import (
	"fmt"
	"strings"

	"github.com/krantius/condorcet-tcp/election"
)

// Engine accumulates ballots. It is not safe for concurrent use.
type Engine struct {
	names   []string
	index   map[string]int
	wins    [][]uint64 // wins[i][j]: ballots preferring names[i] to names[j]
	ballots int
}

func New() *Engine {
	return &Engine{
		index: make(map[string]int),
	}
}

// AddAlternative registers name. Registering twice is a no-op.
func (e *Engine) AddAlternative(name string) {
	if _, ok := e.index[name]; ok {
		return
	}

	e.index[name] = len(e.names)
	e.names = append(e.names, name)

	for i := range e.wins {
		e.wins[i] = append(e.wins[i], 0)
	}
	e.wins = append(e.wins, make([]uint64, len(e.names)))
}

func (e *Engine) Alternatives() []string {
	return append([]string(nil), e.names...)
}

// Cast records a ballot. Nothing is recorded if it names an unknown alternative.
func (e *Engine) Cast(b election.Ballot) error {
	for name := range b {
		if _, ok := e.index[name]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownAlternative, name)
		}
	}

	for i, x := range e.names {
		for j, y := range e.names {
			if i != j && prefers(b, x, y) {
				e.wins[i][j]++
			}
		}
	}

	e.ballots++

	return nil
}

// prefers reports whether b ranks x strictly ahead of y. A ranked alternative
// is ahead of an unranked one; overlapping ranges are a tie.
func prefers(b election.Ballot, x, y string) bool {
	rx, ok := b[x]
	if !ok {
		return false
	}

	ry, ok := b[y]
	if !ok {
		return true
	}

	return rx.High < ry.Low
}

func (e *Engine) Ballots() int {
	return e.ballots
}

// Status summarizes the ballot count and every pairwise duel.
func (e *Engine) Status() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%d ballot(s) cast\n", e.ballots)
	for _, d := range e.duels() {
		fmt.Fprintf(&sb, "\t%s vs %s: %d-%d\n", d.A, d.B, d.AOverB, d.BOverA)
	}

	return sb.String()
}

// Duel is the head-to-head count for one pair of alternatives.
type Duel struct {
	A      string `json:"a"`
	B      string `json:"b"`
	AOverB uint64 `json:"a_over_b"`
	BOverA uint64 `json:"b_over_a"`
}

func (e *Engine) duels() []Duel {
	duels := []Duel{}
	for i := range e.names {
		for j := i + 1; j < len(e.names); j++ {
			duels = append(duels, Duel{
				A:      e.names[i],
				B:      e.names[j],
				AOverB: e.wins[i][j],
				BOverA: e.wins[j][i],
			})
		}
	}

	return duels
}

// DuelGraph snapshots the current counts. The graph does not change when
// more ballots are cast afterwards.
func (e *Engine) DuelGraph() *Graph {
	g := &Graph{
		names: e.Alternatives(),
		edges: make([][]bool, len(e.names)),
	}

	for i := range e.names {
		g.edges[i] = make([]bool, len(e.names))
		for j := range e.names {
			g.edges[i][j] = e.wins[i][j] > e.wins[j][i]
		}
	}

	return g
}

// Results is an operator-facing snapshot of the election.
type Results struct {
	Ballots       int                `json:"ballots"`
	Duels         []Duel             `json:"duels"`
	Winner        string             `json:"winner,omitempty"`
	Loser         string             `json:"loser,omitempty"`
	Probabilities map[string]float64 `json:"strategy,omitempty"`
	StrategyError string             `json:"strategy_error,omitempty"`

	// Strategy is nil when StrategyError is set.
	Strategy *Strategy `json:"-"`
}

// Results derives everything an operator wants to see. A strategy that cannot
// be computed is reported in StrategyError rather than failing the call.
func (e *Engine) Results() Results {
	g := e.DuelGraph()

	r := Results{
		Ballots: e.ballots,
		Duels:   e.duels(),
	}

	if w, ok := g.Source(); ok {
		r.Winner = w
	}
	if l, ok := g.Sink(); ok {
		r.Loser = l
	}

	s, err := g.OptimalStrategy()
	if err != nil {
		r.StrategyError = err.Error()
		return r
	}

	r.Strategy = s
	r.Probabilities = s.Probabilities()

	return r
}
