package main

import (
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/krantius/condorcet-tcp/client"
	"github.com/krantius/condorcet-tcp/console"
	"github.com/krantius/condorcet-tcp/election"
	"github.com/krantius/condorcet-tcp/server"
	"github.com/krantius/condorcet-tcp/shared/logging"
	"github.com/krantius/condorcet-tcp/shared/metrics"
	"github.com/krantius/condorcet-tcp/tally"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const usage = `Carries out randomized Condorcet elections over TCP

Usage:
  condorcet-tcp server [-port 7878] [-workers 4] [-status addr] [-config file] [election.json]
  condorcet-tcp client <host:port>
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "server":
		err = runServer(os.Args[2:])
	case "client":
		err = runClient(os.Args[2:])
	default:
		fmt.Fprintln(os.Stderr, "error: Invalid subcommand")
		os.Exit(1)
	}

	if err != nil {
		logging.Fatalf("%v", err)
	}
}

func runServer(args []string) error {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML config file")
	port := fs.Int("port", 7878, "port to host the election on")
	workers := fs.Int("workers", 4, "connections handled at once")
	status := fs.String("status", "", "address of the HTTP status API, disabled when empty")
	fs.Parse(args)

	cfg := DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = LoadConfig(*configPath); err != nil {
			return err
		}
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = *port
		case "workers":
			cfg.Workers = *workers
		case "status":
			cfg.StatusAddress = *status
		}
	})
	if fs.NArg() > 0 {
		cfg.Election = fs.Arg(0)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		return err
	}

	def, payload, err := LoadElection(cfg.Election)
	if err != nil {
		return err
	}
	fmt.Println(def)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m, err := metrics.NewPrometheus(reg, "")
	if err != nil {
		return err
	}

	srv, err := server.New(def, payload, tally.New(), cfg.Server(),
		server.WithMetrics(m),
		server.WithGatherer(reg),
	)
	if err != nil {
		return err
	}

	if err := srv.Listen(); err != nil {
		return err
	}

	go func() {
		if err := srv.Serve(); err != nil {
			logging.Errorf("Dispatcher stopped: %v", err)
		}
	}()

	con := console.New(os.Stdin, os.Stdout, srv, rand.New(rand.NewSource(time.Now().UnixNano())))
	go func() {
		if err := con.Run(); err != nil {
			logging.Errorf("Console: %v", err)
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		logging.Infof("Received %s", sig)
		con.Shutdown()
	case <-con.Done():
	}

	return nil
}

func runClient(args []string) error {
	fs := flag.NewFlagSet("client", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() != 1 {
		return errors.New("client needs the server address, e.g. 127.0.0.1:7878")
	}

	c, err := client.Dial(fs.Arg(0))
	if err != nil {
		return err
	}
	defer c.Close()

	def, err := c.FetchDefinition()
	if errors.Is(err, client.ErrAlreadyVoted) {
		fmt.Println("Already voted.")
		return nil
	}
	if err != nil {
		return err
	}

	ballot, err := client.NewWizard(os.Stdin, os.Stdout).Fill(def)
	if err != nil {
		return err
	}

	fmt.Print(client.Summary(def, ballot))
	fmt.Println(election.Serialize(ballot))

	if err := c.Send(ballot); err != nil {
		if errors.Is(err, client.ErrAlreadyVoted) {
			fmt.Println("Already voted.")
			return nil
		}
		return err
	}

	fmt.Println(color.GreenString("Ballot sent."))

	return nil
}
