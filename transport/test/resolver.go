package test

import (
	"context"
	"maps"

	"restfetch/transport"

	"github.com/pkg/errors"
)

var ErrHostNotFound = errors.New("host not found")

// Resolver resolves hosts from a fixed map.
type Resolver struct {
	set map[string][]string
}

var _ transport.Resolver = (*Resolver)(nil)

func NewResolver(set map[string][]string) *Resolver {
	if set == nil {
		set = make(map[string][]string)
	}
	return &Resolver{set: maps.Clone(set)}
}

func (r *Resolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	addrs, ok := r.set[host]
	if !ok {
		return nil, ErrHostNotFound
	}
	return addrs, nil
}

func (r *Resolver) Set(host string, addrs []string) {
	if len(addrs) == 0 {
		return
	}
	r.set[host] = addrs
}

func (r *Resolver) Del(host string) { delete(r.set, host) }
