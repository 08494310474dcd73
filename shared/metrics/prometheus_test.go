package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusCounts(t *testing.T) {
	reg := prometheus.NewRegistry()

	p, err := NewPrometheus(reg, "test")
	require.NoError(t, err)

	p.ConnectionAccepted()
	p.ConnectionAccepted()
	p.BallotAccepted()
	p.BallotRejected(ReasonVoted)
	p.BallotRejected(ReasonVoted)
	p.BallotRejected(ReasonSyntax)
	p.SetPeers(3)
	p.JobQueued()
	p.JobCompleted()

	require.Equal(t, 2.0, testutil.ToFloat64(p.connections))
	require.Equal(t, 1.0, testutil.ToFloat64(p.accepted))
	require.Equal(t, 2.0, testutil.ToFloat64(p.rejected.WithLabelValues(ReasonVoted)))
	require.Equal(t, 1.0, testutil.ToFloat64(p.rejected.WithLabelValues(ReasonSyntax)))
	require.Equal(t, 3.0, testutil.ToFloat64(p.peers))
	require.Equal(t, 1.0, testutil.ToFloat64(p.jobs.WithLabelValues("completed")))
}

func TestPrometheusDoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()

	_, err := NewPrometheus(reg, "test")
	require.NoError(t, err)

	_, err = NewPrometheus(reg, "test")
	require.Error(t, err)
}
