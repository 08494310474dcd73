// Package client casts one ballot into a remote election.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/krantius/condorcet-tcp/election"
)

// ErrAlreadyVoted is returned when the server answers with the Voted sentinel.
var ErrAlreadyVoted = errors.New("already voted")

const defaultTimeout = 30 * time.Second

type Client struct {
	conn    net.Conn
	timeout time.Duration
	limit   int
}

type Option func(*Client)

// WithTimeout bounds the dial and every exchange with the server.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithMaxPacketSize sets how much of a server message is read.
func WithMaxPacketSize(n int) Option {
	return func(c *Client) {
		c.limit = n
	}
}

func Dial(address string, opts ...Option) (*Client, error) {
	c := &Client{
		timeout: defaultTimeout,
		limit:   election.MaxPacketSize,
	}
	for _, opt := range opts {
		opt(c)
	}

	conn, err := net.DialTimeout("tcp", address, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", address, err)
	}
	c.conn = conn

	return c, nil
}

// FetchDefinition reads what the server sends first. It stops at a complete
// JSON document, the Voted sentinel, EOF or the packet limit.
func (c *Client) FetchDefinition() (election.Definition, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return election.Definition{}, err
	}

	buf := make([]byte, c.limit)
	read := 0
	for read < len(buf) {
		n, err := c.conn.Read(buf[read:])
		read += n

		if json.Valid(buf[:read]) {
			break
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return election.Definition{}, fmt.Errorf("read definition: %w", err)
		}
	}

	data := bytes.TrimSpace(buf[:read])
	if string(data) == election.Voted {
		return election.Definition{}, ErrAlreadyVoted
	}

	return election.DecodeDefinition(data)
}

// Send writes b in wire format and waits for the server to hang up.
func (c *Client) Send(b election.Ballot) error {
	return c.SendText(election.Serialize(b))
}

// SendText writes a raw ballot, closes the write side and reads the reply.
// An empty reply means the server took the ballot.
func (c *Client) SendText(text string) error {
	if err := c.conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return err
	}

	data := []byte(text)
	for written := 0; written < len(data); {
		n, err := c.conn.Write(data[written:])
		if err != nil {
			return fmt.Errorf("send ballot: %w", err)
		}
		written += n
	}

	if cw, ok := c.conn.(interface{ CloseWrite() error }); ok {
		if err := cw.CloseWrite(); err != nil {
			return fmt.Errorf("close write: %w", err)
		}
	}

	reply, err := io.ReadAll(io.LimitReader(c.conn, int64(c.limit)))
	if err != nil {
		return fmt.Errorf("read reply: %w", err)
	}

	if string(bytes.TrimSpace(reply)) == election.Voted {
		return ErrAlreadyVoted
	}

	return nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}
