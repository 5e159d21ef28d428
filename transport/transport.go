// Package transport declares the capabilities the fetch engine consumes
// at its boundary: a stream connection, a dialer, and a name resolver.
// Implementations live in subpackages; the engine calls these, it does
// not implement them.
package transport

import (
	"context"
	"errors"
	"time"
)

var ErrConnClosed = errors.New("connection is closed")

// Conn is a full-duplex byte stream to a single peer.
type Conn interface {
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
	Close() error

	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
}

// Dialer opens a connection to addr ("host:port").
type Dialer interface {
	Dial(ctx context.Context, addr string) (Conn, error)
}

// Resolver maps a host name to one or more network addresses.
type Resolver interface {
	LookupHost(ctx context.Context, host string) (addrs []string, err error)
}
