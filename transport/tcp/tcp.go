// Package tcp realizes the transport capabilities over the operating
// system's TCP stack and resolver.
package tcp

import (
	"context"
	"net"

	"restfetch/transport"

	"github.com/pkg/errors"
)

// Dialer dials plaintext TCP connections. A [net.Conn] already
// satisfies [transport.Conn].
type Dialer struct {
	d net.Dialer
}

var _ transport.Dialer = (*Dialer)(nil)

func NewDialer() *Dialer { return &Dialer{} }

func (d *Dialer) Dial(ctx context.Context, addr string) (transport.Conn, error) {
	conn, err := d.d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "dialing %s", addr)
	}
	return conn, nil
}

// Resolver resolves host names through the system resolver.
type Resolver struct {
	r *net.Resolver
}

var _ transport.Resolver = (*Resolver)(nil)

func NewResolver() *Resolver { return &Resolver{r: net.DefaultResolver} }

func (r *Resolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	addrs, err := r.r.LookupHost(ctx, host)
	if err != nil {
		return nil, errors.Wrapf(err, "lookup for host(%s) failed", host)
	}
	return addrs, nil
}
