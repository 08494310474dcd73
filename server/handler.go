package server

import (
	"errors"
	"fmt"
	"net"

	"github.com/google/uuid"
	"github.com/krantius/condorcet-tcp/election"
	"github.com/krantius/condorcet-tcp/shared/logging"
	"github.com/krantius/condorcet-tcp/shared/metrics"
)

// handle runs one vote attempt. Whatever happens, only this connection is affected.
func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	peer := s.identity(conn.RemoteAddr())
	log := logging.WithFields(logging.Fields{
		"peer":    peer,
		"session": uuid.NewString(),
	})

	status, err := s.vote(conn, peer)
	switch {
	case errors.Is(err, ErrAlreadyVoted):
		log.Info("Connection rejected, already voted")
		s.metrics.BallotRejected(metrics.ReasonVoted)
	case err != nil:
		log.Warnf("Vote aborted: %v", err)
		s.metrics.BallotRejected(reason(err))
	default:
		log.Infof("Ballot accepted\n%s", status)
		s.metrics.BallotAccepted()
	}
}

// vote admits peer at most once. The membership check before the exchange
// only saves a round trip; the check repeated under the same lock as the cast
// is what makes admission atomic, so two connections from one peer racing on
// different workers record a single ballot.
func (s *Server) vote(conn net.Conn, peer string) (string, error) {
	s.mu.Lock()
	voted := s.peers.has(peer)
	s.mu.Unlock()

	if voted {
		return "", s.reject(conn)
	}

	if err := writeAll(conn, s.payload, s.cfg.BallotTimeout); err != nil {
		return "", fmt.Errorf("%w: send definition: %w", ErrTransport, err)
	}

	text, err := readBallot(conn, s.cfg.MaxPacketSize, s.cfg.BallotTimeout)
	if err != nil {
		return "", err
	}

	ballot, err := election.ParseLimit(text, s.known, s.cfg.MaxPacketSize)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	if s.peers.has(peer) {
		s.mu.Unlock()
		logging.Warningf("Double vote detected for %s", peer)
		return "", s.reject(conn)
	}

	if err := s.tally.Cast(ballot); err != nil {
		s.mu.Unlock()
		return "", err
	}

	s.peers.insert(peer)
	count := s.peers.len()
	status := s.tally.Status()
	s.mu.Unlock()

	s.metrics.SetPeers(count)

	return status, nil
}

func (s *Server) reject(conn net.Conn) error {
	if err := writeAll(conn, []byte(election.Voted), s.cfg.BallotTimeout); err != nil {
		return fmt.Errorf("%w: send %s: %w", ErrTransport, election.Voted, err)
	}

	return ErrAlreadyVoted
}

func reason(err error) string {
	switch {
	case errors.Is(err, election.ErrUnknownAlternative):
		return metrics.ReasonUnknown
	case errors.Is(err, election.ErrInvalidRank):
		return metrics.ReasonRank
	case errors.Is(err, election.ErrProtocolSyntax):
		return metrics.ReasonSyntax
	default:
		return metrics.ReasonTransport
	}
}
