package tally

import (
	"math/rand"
	"testing"

	"github.com/krantius/condorcet-tcp/election"
	"github.com/stretchr/testify/require"
)

func TestNewStrategy(t *testing.T) {
	cases := []struct {
		name    string
		weights []float64
		want    map[string]float64
		err     error
	}{
		{name: "normalized", weights: []float64{1, 3}, want: map[string]float64{"A": 0.25, "B": 0.75}},
		{name: "noise clamped", weights: []float64{-1e-12, 2}, want: map[string]float64{"A": 0, "B": 1}},
		{name: "all zero", weights: []float64{0, 0}, err: ErrNoStrategy},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := newStrategy([]string{"A", "B"}, tc.weights)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, s.Probabilities())
		})
	}
}

func TestPlayFollowsProbabilities(t *testing.T) {
	s, err := newStrategy([]string{"A", "B", "C"}, []float64{0.2, 0, 0.8})
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	counts := map[string]int{}
	for i := 0; i < 10000; i++ {
		counts[s.Play(rng)]++
	}

	require.Zero(t, counts["B"])
	require.InDelta(t, 0.2, float64(counts["A"])/10000, 0.03)
	require.InDelta(t, 0.8, float64(counts["C"])/10000, 0.03)
}

func TestStrategyString(t *testing.T) {
	s, err := newStrategy([]string{"A", "B", "C"}, []float64{1, 0, 3})
	require.NoError(t, err)
	require.Equal(t, "C: 0.750, A: 0.250", s.String())
}

func TestGraphBeats(t *testing.T) {
	e := newEngine("A", "B", "C")
	castAll(t, e,
		map[string]election.Rank{"A": {Low: 1, High: 1}, "B": {Low: 2, High: 2}},
	)

	g := e.DuelGraph()
	require.Equal(t, []string{"A", "B", "C"}, g.Names())
	require.True(t, g.Beats("A", "B"))
	require.True(t, g.Beats("B", "C"))
	require.False(t, g.Beats("B", "A"))
	require.False(t, g.Beats("A", "Z"))

	w, ok := g.Source()
	require.True(t, ok)
	require.Equal(t, "A", w)

	l, ok := g.Sink()
	require.True(t, ok)
	require.Equal(t, "C", l)
}
