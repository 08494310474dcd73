// Package metrics records what the election host is doing.
package metrics

// Rejection reasons passed to Collector.BallotRejected.
const (
	ReasonVoted     = "voted"
	ReasonSyntax    = "syntax"
	ReasonUnknown   = "unknown_alternative"
	ReasonRank      = "invalid_rank"
	ReasonTransport = "transport"
)

// Collector receives counters from the pool and the server.
type Collector interface {
	ConnectionAccepted()
	BallotAccepted()
	BallotRejected(reason string)
	SetPeers(count int)

	JobQueued()
	JobCompleted()
	JobPanicked()
}

// Nop discards everything.
type Nop struct{}

var _ Collector = Nop{}

func NewNop() Nop {
	return Nop{}
}

func (Nop) ConnectionAccepted()   {}
func (Nop) BallotAccepted()       {}
func (Nop) BallotRejected(string) {}
func (Nop) SetPeers(int)          {}
func (Nop) JobQueued()            {}
func (Nop) JobCompleted()         {}
func (Nop) JobPanicked()          {}
