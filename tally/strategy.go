package tally

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// Strategy is a probability distribution over alternatives.
type Strategy struct {
	names []string
	probs []float64
}

// newStrategy normalizes weights into probabilities. Negative rounding noise
// from the solver is clamped to zero.
func newStrategy(names []string, weights []float64) (*Strategy, error) {
	probs := make([]float64, len(weights))

	var total float64
	for i, w := range weights {
		if w > 0 {
			probs[i] = w
			total += w
		}
	}

	if total <= 0 {
		return nil, fmt.Errorf("%w: solver returned an empty lottery", ErrNoStrategy)
	}

	for i := range probs {
		probs[i] /= total
	}

	return &Strategy{
		names: append([]string(nil), names...),
		probs: probs,
	}, nil
}

func (s *Strategy) Probabilities() map[string]float64 {
	m := make(map[string]float64, len(s.names))
	for i, name := range s.names {
		m[name] = s.probs[i]
	}

	return m
}

// Play draws one alternative according to the strategy.
func (s *Strategy) Play(rng *rand.Rand) string {
	x := rng.Float64()

	last := ""
	for i, p := range s.probs {
		if p == 0 {
			continue
		}

		last = s.names[i]
		if x -= p; x < 0 {
			return last
		}
	}

	return last
}

func (s *Strategy) String() string {
	idx := make([]int, len(s.names))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return s.probs[idx[a]] > s.probs[idx[b]] })

	parts := make([]string, 0, len(idx))
	for _, i := range idx {
		if s.probs[i] > 0 {
			parts = append(parts, fmt.Sprintf("%s: %.3f", s.names[i], s.probs[i]))
		}
	}

	return strings.Join(parts, ", ")
}
