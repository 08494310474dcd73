package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/krantius/condorcet-tcp/election"
	"github.com/krantius/condorcet-tcp/server"
	"gopkg.in/yaml.v3"
)

var errInvalidConfig = errors.New("invalid config")

// Config is the server side configuration. Values come from defaults, then an
// optional YAML file, then the environment, then flags.
type Config struct {
	Port          int           `yaml:"port"`
	Workers       int           `yaml:"workers"`
	QueueSize     int           `yaml:"queue_size"`
	MaxPacketSize int           `yaml:"max_packet_size"`
	PollInterval  time.Duration `yaml:"poll_interval"`
	BallotTimeout time.Duration `yaml:"ballot_timeout"`
	StatusAddress string        `yaml:"status_address"`
	LogLevel      string        `yaml:"log_level"`
	Election      string        `yaml:"election"`
}

func DefaultConfig() Config {
	return Config{
		Port:          7878,
		Workers:       4,
		QueueSize:     64,
		MaxPacketSize: election.MaxPacketSize,
		PollInterval:  time.Second,
		BallotTimeout: 2 * time.Minute,
		LogLevel:      "info",
		Election:      "election.json",
	}
}

// LoadConfig overlays the YAML file at path on the defaults. Unknown keys are
// rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %w", errInvalidConfig, path, err)
	}

	return cfg, nil
}

// ApplyEnv reads ELECTION_PORT, ELECTION_WORKERS, ELECTION_STATUS_ADDR and LOG_LEVEL.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("ELECTION_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: ELECTION_PORT: %w", errInvalidConfig, err)
		}
		c.Port = port
	}

	if v := getenv("ELECTION_WORKERS"); v != "" {
		workers, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: ELECTION_WORKERS: %w", errInvalidConfig, err)
		}
		c.Workers = workers
	}

	if v := getenv("ELECTION_STATUS_ADDR"); v != "" {
		c.StatusAddress = v
	}

	if v := getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	return nil
}

func (c Config) Validate() error {
	switch {
	case c.Port < 0 || c.Port > 65535:
		return fmt.Errorf("%w: port %d out of range", errInvalidConfig, c.Port)
	case c.Workers < 1:
		return fmt.Errorf("%w: need at least one worker, got %d", errInvalidConfig, c.Workers)
	case c.QueueSize < 0:
		return fmt.Errorf("%w: negative queue size", errInvalidConfig)
	case c.MaxPacketSize < 1:
		return fmt.Errorf("%w: max packet size must be positive", errInvalidConfig)
	case c.PollInterval <= 0:
		return fmt.Errorf("%w: poll interval must be positive", errInvalidConfig)
	case c.BallotTimeout <= 0:
		return fmt.Errorf("%w: ballot timeout must be positive", errInvalidConfig)
	case c.Election == "":
		return fmt.Errorf("%w: no election file", errInvalidConfig)
	}

	return nil
}

func (c Config) Server() server.Config {
	return server.Config{
		Address:       fmt.Sprintf("0.0.0.0:%d", c.Port),
		StatusAddress: c.StatusAddress,
		Workers:       c.Workers,
		QueueSize:     c.QueueSize,
		MaxPacketSize: c.MaxPacketSize,
		PollInterval:  c.PollInterval,
		BallotTimeout: c.BallotTimeout,
	}
}

// LoadElection reads the election file and returns it with the squeezed
// payload sent to clients.
func LoadElection(path string) (election.Definition, []byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return election.Definition{}, nil, fmt.Errorf("open election: %w", err)
	}
	defer f.Close()

	return election.LoadDefinition(f)
}
