// Package test provides scripted transport implementations for tests:
// a conn that replays canned bytes and records writes, a dialer that
// hands those conns out, and a map-backed resolver.
package test

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"restfetch/transport"

	"github.com/pkg/errors"
)

// Conn replays a canned peer response and records everything written
// to it. Reads return [io.EOF] once the script is exhausted, which
// models the peer closing the connection.
type Conn struct {
	mu sync.Mutex

	script  *bytes.Reader
	written bytes.Buffer

	readErr  error // returned once the script is exhausted
	writeErr error

	readDeadline  time.Time
	writeDeadline time.Time

	closed bool
}

var _ transport.Conn = (*Conn)(nil)

func NewConn(script []byte) *Conn {
	return &Conn{script: bytes.NewReader(script)}
}

// FailReadsWith makes reads fail with err after the script runs out,
// instead of reporting EOF.
func (c *Conn) FailReadsWith(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readErr = err
}

// FailWritesWith makes every write fail with err.
func (c *Conn) FailWritesWith(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeErr = err
}

func (c *Conn) Read(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, transport.ErrConnClosed
	}

	n, err := c.script.Read(p)
	if err == io.EOF && c.readErr != nil {
		return n, c.readErr
	}
	return n, err
}

func (c *Conn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, transport.ErrConnClosed
	}
	if c.writeErr != nil {
		return 0, c.writeErr
	}

	return c.written.Write(p)
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	return nil
}

func (c *Conn) SetReadDeadline(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.readDeadline = t
	return nil
}

func (c *Conn) SetWriteDeadline(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.writeDeadline = t
	return nil
}

// Written returns a copy of the bytes written so far.
func (c *Conn) Written() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	return bytes.Clone(c.written.Bytes())
}

func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closed
}

func (c *Conn) ReadDeadline() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.readDeadline
}

func (c *Conn) WriteDeadline() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.writeDeadline
}

// Dialer hands out stubbed conns per address.
type Dialer struct {
	mu    sync.Mutex
	conns map[string]*Conn
	err   error
}

var _ transport.Dialer = (*Dialer)(nil)

func NewDialer() *Dialer {
	return &Dialer{conns: make(map[string]*Conn)}
}

// Stub registers conn to be returned for addr.
func (d *Dialer) Stub(addr string, conn *Conn) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.conns[addr] = conn
}

// FailWith makes every dial fail with err.
func (d *Dialer) FailWith(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.err = err
}

func (d *Dialer) Dial(ctx context.Context, addr string) (transport.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.err != nil {
		return nil, d.err
	}

	conn, ok := d.conns[addr]
	if !ok {
		return nil, errors.Errorf("no conn stubbed for %s", addr)
	}
	return conn, nil
}
