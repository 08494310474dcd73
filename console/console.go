// Package console is the operator's side of a running election.
package console

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/krantius/condorcet-tcp/election"
	"github.com/krantius/condorcet-tcp/shared/logging"
	"github.com/krantius/condorcet-tcp/tally"
)

// Controller is what the console drives. *server.Server satisfies it.
type Controller interface {
	Definition() election.Definition
	Status() string
	Peers() []string
	Results() tally.Results
	Stop()
	Drained() <-chan struct{}
}

const menu = `Commands:
  s, status  show ballots cast and current results
  p, peers   list peers that voted
  c, close   stop accepting votes and print final results
`

type Console struct {
	in   *bufio.Scanner
	out  io.Writer
	ctrl Controller
	rng  *rand.Rand

	mu       sync.Mutex
	shutdown sync.Once
	done     chan struct{}
}

func New(in io.Reader, out io.Writer, ctrl Controller, rng *rand.Rand) *Console {
	return &Console{
		in:   bufio.NewScanner(in),
		out:  out,
		ctrl: ctrl,
		rng:  rng,
		done: make(chan struct{}),
	}
}

// Run reads commands until close is entered or input ends, then shuts down.
func (c *Console) Run() error {
	c.print(menu)

	for c.in.Scan() {
		switch strings.ToLower(strings.TrimSpace(c.in.Text())) {
		case "":
		case "s", "status":
			c.print(c.status())
		case "p", "peers":
			c.print(c.peers())
		case "c", "close":
			c.Shutdown()
			return nil
		default:
			c.print(menu)
		}
	}

	c.Shutdown()

	return c.in.Err()
}

// Shutdown stops the server, waits for in-flight connections and prints the
// final results. Concurrent callers block until the first one is done.
func (c *Console) Shutdown() {
	c.shutdown.Do(func() {
		logging.Info("Closing election")
		c.ctrl.Stop()
		<-c.ctrl.Drained()

		r := c.ctrl.Results()

		var sb strings.Builder
		fmt.Fprintf(&sb, "%s\n", color.New(color.Bold).Sprintf("Final results: %s", c.ctrl.Definition().Title))
		sb.WriteString(summary(r))
		if r.Strategy != nil {
			fmt.Fprintf(&sb, "Random draw: %s\n", color.GreenString(r.Strategy.Play(c.rng)))
		}
		c.print(sb.String())

		close(c.done)
	})
}

// Done is closed once Shutdown has printed the final results.
func (c *Console) Done() <-chan struct{} {
	return c.done
}

func (c *Console) status() string {
	return c.ctrl.Status() + summary(c.ctrl.Results())
}

func (c *Console) peers() string {
	peers := c.ctrl.Peers()
	if len(peers) == 0 {
		return "No peers yet\n"
	}

	return fmt.Sprintf("%d peer(s):\n\t%s\n", len(peers), strings.Join(peers, "\n\t"))
}

func (c *Console) print(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	io.WriteString(c.out, s)
}

func summary(r tally.Results) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Condorcet winner: %s\n", orNone(r.Winner))
	fmt.Fprintf(&sb, "Condorcet loser: %s\n", orNone(r.Loser))

	if r.StrategyError != "" {
		fmt.Fprintf(&sb, "Optimal strategy: %s\n", color.RedString(r.StrategyError))
		return sb.String()
	}

	names := make([]string, 0, len(r.Probabilities))
	for name := range r.Probabilities {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		pi, pj := r.Probabilities[names[i]], r.Probabilities[names[j]]
		if pi != pj {
			return pi > pj
		}
		return names[i] < names[j]
	})

	sb.WriteString("Optimal strategy:\n")
	for _, name := range names {
		fmt.Fprintf(&sb, "\t%s: %.4f\n", name, r.Probabilities[name])
	}

	return sb.String()
}

func orNone(name string) string {
	if name == "" {
		return color.YellowString("none")
	}

	return color.CyanString(name)
}
