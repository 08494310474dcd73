package election

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRank(t *testing.T) {
	r, err := NewRank(2, 2)
	require.NoError(t, err)
	require.Equal(t, Rank{Low: 2, High: 2}, r)

	_, err = NewRank(3, 1)
	require.ErrorIs(t, err, ErrInvalidRank)
}

func TestParseRank(t *testing.T) {
	cases := []struct {
		text     string
		expected Rank
		err      error
	}{
		{text: "1", expected: Rank{1, 1}},
		{text: " 4 ", expected: Rank{4, 4}},
		{text: "2-5", expected: Rank{2, 5}},
		{text: "3-3", expected: Rank{3, 3}},
		{text: "5-2", err: ErrInvalidRank},
		{text: "", err: ErrProtocolSyntax},
		{text: "-", err: ErrProtocolSyntax},
		{text: "1-", err: ErrProtocolSyntax},
		{text: "1-2-3", err: ErrProtocolSyntax},
		{text: "x", err: ErrProtocolSyntax},
	}

	for _, c := range cases {
		t.Run(c.text, func(t *testing.T) {
			r, err := ParseRank(c.text)
			if c.err != nil {
				require.ErrorIs(t, err, c.err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, c.expected, r)
		})
	}
}

func TestRankString(t *testing.T) {
	require.Equal(t, "3", Rank{3, 3}.String())
	require.Equal(t, "1-4", Rank{1, 4}.String())
}
