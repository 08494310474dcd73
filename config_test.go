package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "server.yaml", `
port: 9000
workers: 8
poll_interval: 250ms
ballot_timeout: 30s
status_address: 127.0.0.1:9100
election: lunch.json
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	want := DefaultConfig()
	want.Port = 9000
	want.Workers = 8
	want.PollInterval = 250 * time.Millisecond
	want.BallotTimeout = 30 * time.Second
	want.StatusAddress = "127.0.0.1:9100"
	want.Election = "lunch.json"
	require.Equal(t, want, cfg)
}

func TestLoadConfigErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{name: "unknown key", content: "prot: 9000\n"},
		{name: "bad duration", content: "poll_interval: soon\n"},
		{name: "bad type", content: "workers: many\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, "server.yaml", tc.content))
			require.ErrorIs(t, err, errInvalidConfig)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"ELECTION_PORT":        "7000",
		"ELECTION_WORKERS":     "2",
		"ELECTION_STATUS_ADDR": ":9090",
		"LOG_LEVEL":            "debug",
	}

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))
	require.Equal(t, 7000, cfg.Port)
	require.Equal(t, 2, cfg.Workers)
	require.Equal(t, ":9090", cfg.StatusAddress)
	require.Equal(t, "debug", cfg.LogLevel)

	env["ELECTION_WORKERS"] = "two"
	require.ErrorIs(t, cfg.ApplyEnv(func(k string) string { return env[k] }), errInvalidConfig)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{name: "defaults", modify: func(*Config) {}, ok: true},
		{name: "zero workers", modify: func(c *Config) { c.Workers = 0 }},
		{name: "zero packet size", modify: func(c *Config) { c.MaxPacketSize = 0 }},
		{name: "port out of range", modify: func(c *Config) { c.Port = 70000 }},
		{name: "no poll interval", modify: func(c *Config) { c.PollInterval = 0 }},
		{name: "no election", modify: func(c *Config) { c.Election = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(&cfg)

			err := cfg.Validate()
			if tc.ok {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, errInvalidConfig)
		})
	}
}

func TestServerConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Port = 9999

	sc := cfg.Server()
	require.Equal(t, "0.0.0.0:9999", sc.Address)
	require.Equal(t, cfg.Workers, sc.Workers)
	require.Equal(t, cfg.BallotTimeout, sc.BallotTimeout)
}

func TestLoadElection(t *testing.T) {
	path := writeFile(t, "election.json", `{
    "title": "Lunch",
    "question": "Where?",
    "alternatives": [
        {"name": "Pizza", "description": "Slices"},
        {"name": "Sushi", "description": "Rolls"}
    ]
}`)

	def, payload, err := LoadElection(path)
	require.NoError(t, err)
	require.Equal(t, "Lunch", def.Title)
	require.Len(t, def.Alternatives, 2)
	require.NotContains(t, string(payload), "\n")

	_, _, err = LoadElection(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
