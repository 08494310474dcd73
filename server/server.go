// Package server hosts one election over TCP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/krantius/condorcet-tcp/election"
	"github.com/krantius/condorcet-tcp/pool"
	"github.com/krantius/condorcet-tcp/shared/logging"
	"github.com/krantius/condorcet-tcp/shared/metrics"
	"github.com/krantius/condorcet-tcp/tally"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ErrStartup wraps failures that prevent the server from accepting votes.
	ErrStartup = errors.New("startup failed")

	// ErrTransport wraps read and write failures on a voter connection.
	ErrTransport = errors.New("transport failure")

	// ErrAlreadyVoted is the outcome for a peer that was sent the Voted sentinel.
	ErrAlreadyVoted = errors.New("peer already voted")
)

const statusShutdownTimeout = 5 * time.Second

// Tally is the election engine ballots are recorded into. The server
// serializes every call.
type Tally interface {
	AddAlternative(name string)
	Cast(b election.Ballot) error
	Status() string
	Results() tally.Results
}

// Config controls the listener, the worker pool and per-connection limits.
// Zero values are replaced by defaults. MaxPacketSize bounds a ballot; the
// definition payload always fits election.MaxPacketSize.
type Config struct {
	Address       string
	StatusAddress string
	Workers       int
	QueueSize     int
	MaxPacketSize int
	PollInterval  time.Duration
	BallotTimeout time.Duration
}

func (c *Config) applyDefaults() {
	if c.Address == "" {
		c.Address = "0.0.0.0:7878"
	}
	if c.Workers == 0 {
		c.Workers = 4
	}
	if c.QueueSize == 0 {
		c.QueueSize = 64
	}
	if c.MaxPacketSize == 0 {
		c.MaxPacketSize = election.MaxPacketSize
	}
	if c.PollInterval == 0 {
		c.PollInterval = time.Second
	}
	if c.BallotTimeout == 0 {
		c.BallotTimeout = 2 * time.Minute
	}
}

type deadlineListener interface {
	net.Listener
	SetDeadline(t time.Time) error
}

// Server is one election run: the registry of peers that voted, the tally,
// the worker pool handling connections and the dispatcher feeding it.
type Server struct {
	cfg     Config
	def     election.Definition
	payload []byte
	known   map[string]struct{}

	// mu guards peers and tally together so that admission is atomic per peer.
	mu    sync.Mutex
	peers *registry
	tally Tally

	listener deadlineListener
	pool     *pool.Pool
	status   *http.Server
	stopped  atomic.Bool
	drained  chan struct{}

	identity func(net.Addr) string
	metrics  metrics.Collector
	gatherer prometheus.Gatherer
}

// New prepares a server for def. payload is what clients receive as the
// definition; every alternative is registered with t.
func New(def election.Definition, payload []byte, t Tally, cfg Config, opts ...Option) (*Server, error) {
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStartup, err)
	}

	cfg.applyDefaults()

	s := &Server{
		cfg:      cfg,
		def:      def,
		payload:  payload,
		known:    def.Names(),
		peers:    newRegistry(),
		tally:    t,
		drained:  make(chan struct{}),
		identity: RemoteIP,
		metrics:  metrics.NewNop(),
		gatherer: prometheus.DefaultGatherer,
	}

	for _, opt := range opts {
		opt(s)
	}

	for _, c := range def.Alternatives {
		s.tally.AddAlternative(c.Name)
	}

	return s, nil
}

// Listen binds the vote listener and, when configured, the status API, then
// starts the worker pool.
func (s *Server) Listen() error {
	l, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("%w: listen on %s: %w", ErrStartup, s.cfg.Address, err)
	}

	dl, ok := l.(deadlineListener)
	if !ok {
		l.Close()
		return fmt.Errorf("%w: listener %T cannot poll", ErrStartup, l)
	}

	p, err := pool.New(s.cfg.Workers, s.cfg.QueueSize, pool.WithMetrics(s.metrics))
	if err != nil {
		l.Close()
		return fmt.Errorf("%w: %w", ErrStartup, err)
	}

	if s.cfg.StatusAddress != "" {
		sl, err := net.Listen("tcp", s.cfg.StatusAddress)
		if err != nil {
			l.Close()
			p.Shutdown()
			return fmt.Errorf("%w: status listen on %s: %w", ErrStartup, s.cfg.StatusAddress, err)
		}

		s.status = &http.Server{Handler: s.router(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := s.status.Serve(sl); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Errorf("Status API stopped: %v", err)
			}
		}()

		logging.Infof("Status API on http://%s/api/status", sl.Addr())
	}

	s.listener = dl
	s.pool = p

	logging.Infof("Opening TCP listener on %s with %d workers", l.Addr(), p.Size())

	return nil
}

// Addr is the bound vote address, nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}

	return s.listener.Addr()
}

// Serve runs the dispatcher until Stop is observed. It then closes the
// listener, drains the pool and closes Drained before returning.
func (s *Server) Serve() error {
	if s.listener == nil {
		return fmt.Errorf("%w: Serve called before Listen", ErrStartup)
	}

	defer s.shutdown()

	for !s.stopped.Load() {
		if err := s.listener.SetDeadline(time.Now().Add(s.cfg.PollInterval)); err != nil {
			return fmt.Errorf("set accept deadline: %w", err)
		}

		conn, err := s.listener.Accept()
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}

			logging.Errorf("Failed to accept connection: %v", err)
			time.Sleep(s.cfg.PollInterval)
			continue
		}

		if s.stopped.Load() {
			conn.Close()
			break
		}

		s.dispatch(conn)
	}

	return nil
}

func (s *Server) dispatch(conn net.Conn) {
	s.metrics.ConnectionAccepted()

	err := s.pool.Submit(pool.JobFunc(func() {
		s.handle(conn)
	}))
	if err != nil {
		logging.Errorf("Dropping connection from %s: %v", conn.RemoteAddr(), err)
		conn.Close()
	}
}

func (s *Server) shutdown() {
	logging.Info("Closing TCP listener")
	s.listener.Close()

	s.pool.Shutdown()

	if s.status != nil {
		ctx, cancel := context.WithTimeout(context.Background(), statusShutdownTimeout)
		defer cancel()

		if err := s.status.Shutdown(ctx); err != nil {
			logging.Warningf("Status API shutdown: %v", err)
		}
	}

	close(s.drained)
}

// Stop asks the dispatcher to stop accepting connections. Connections already
// handed to the pool still finish. Wait on Drained for that.
func (s *Server) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		logging.Info("Stop requested")
	}
}

// Drained is closed once Serve has stopped and every admitted connection
// has been handled.
func (s *Server) Drained() <-chan struct{} {
	return s.drained
}

// Definition is the election being hosted.
func (s *Server) Definition() election.Definition {
	return s.def
}

func (s *Server) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tally.Status()
}

// Peers lists the identities that voted, sorted.
func (s *Server) Peers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.peers.list()
}

func (s *Server) Results() tally.Results {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tally.Results()
}
