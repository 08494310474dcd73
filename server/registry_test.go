package server

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	cases := []struct {
		name   string
		insert []string
		want   []string
	}{
		{name: "empty", want: []string{}},
		{name: "sorted", insert: []string{"10.0.0.2", "10.0.0.1"}, want: []string{"10.0.0.1", "10.0.0.2"}},
		{name: "repeat is one peer", insert: []string{"10.0.0.1", "10.0.0.1"}, want: []string{"10.0.0.1"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRegistry()
			for _, p := range tc.insert {
				r.insert(p)
				require.True(t, r.has(p))
			}

			require.False(t, r.has("192.168.0.1"))
			require.Equal(t, len(tc.want), r.len())
			require.Equal(t, tc.want, r.list())
		})
	}
}
