package tally

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const simplexTolerance = 1e-10

// Graph is the majority duel graph: an edge x -> y means more ballots
// prefer x to y than the reverse.
type Graph struct {
	names []string
	edges [][]bool
}

func (g *Graph) Names() []string {
	return append([]string(nil), g.names...)
}

// Beats reports whether the edge x -> y exists.
func (g *Graph) Beats(x, y string) bool {
	i, j := g.find(x), g.find(y)
	if i < 0 || j < 0 {
		return false
	}

	return g.edges[i][j]
}

func (g *Graph) find(name string) int {
	for i, n := range g.names {
		if n == name {
			return i
		}
	}

	return -1
}

// Source returns the Condorcet winner, the alternative beating every other one.
func (g *Graph) Source() (string, bool) {
	for i, name := range g.names {
		if g.dominates(i, func(a, b int) bool { return g.edges[a][b] }) {
			return name, true
		}
	}

	return "", false
}

// Sink returns the Condorcet loser, the alternative beaten by every other one.
func (g *Graph) Sink() (string, bool) {
	for i, name := range g.names {
		if g.dominates(i, func(a, b int) bool { return g.edges[b][a] }) {
			return name, true
		}
	}

	return "", false
}

func (g *Graph) dominates(i int, edge func(a, b int) bool) bool {
	for j := range g.names {
		if j != i && !edge(i, j) {
			return false
		}
	}

	return true
}

// payoff is the zero-sum game value of playing i against j.
func (g *Graph) payoff(i, j int) float64 {
	switch {
	case g.edges[i][j]:
		return 1
	case g.edges[j][i]:
		return -1
	default:
		return 0
	}
}

// OptimalStrategy returns a lottery over the alternatives that no single
// alternative beats in expectation (the maximal lottery of the duel game).
//
// A Condorcet winner yields the pure strategy on it. Otherwise the symmetric
// game is shifted to positive payoffs and the column player's linear program
//
//	maximize sum(y)  subject to  (M + 2) y <= 1, y >= 0
//
// is solved; y / sum(y) is optimal for both players.
func (g *Graph) OptimalStrategy() (*Strategy, error) {
	n := len(g.names)
	if n == 0 {
		return nil, ErrEmptyGraph
	}

	if w, ok := g.Source(); ok {
		probs := make([]float64, n)
		probs[g.find(w)] = 1

		return newStrategy(g.names, probs)
	}

	const shift = 2

	a := mat.NewDense(n, 2*n, nil)
	c := make([]float64, 2*n)
	b := make([]float64, n)
	basis := make([]int, n)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a.Set(i, j, g.payoff(i, j)+shift)
		}
		a.Set(i, n+i, 1)

		b[i] = 1
		c[i] = -1
		basis[i] = n + i
	}

	_, x, err := lp.Simplex(c, a, b, simplexTolerance, basis)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoStrategy, err)
	}

	return newStrategy(g.names, x[:n])
}
