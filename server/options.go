package server

import (
	"net"

	"github.com/krantius/condorcet-tcp/shared/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

type Option func(*Server)

func WithMetrics(m metrics.Collector) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithGatherer sets what /metrics exposes.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithIdentity replaces how a connection is mapped to a voter. The default
// is RemoteIP.
func WithIdentity(fn func(net.Addr) string) Option {
	return func(s *Server) {
		s.identity = fn
	}
}

// RemoteIP identifies a voter by the IP address of the connection, without port.
func RemoteIP(addr net.Addr) string {
	if tcp, ok := addr.(*net.TCPAddr); ok {
		return tcp.IP.String()
	}

	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}

	return host
}
