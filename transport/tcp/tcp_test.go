package tcp

import (
	"context"
	"io"
	"net"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDialerRoundtrip(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()

		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		_, _ = io.Copy(conn, conn)
	}()

	dialer := NewDialer()
	conn, err := dialer.Dial(context.Background(), ln.Addr().String())
	require.NoError(t, err)

	_, err = conn.Write([]byte("ping"))
	require.NoError(t, err)

	buf := make([]byte, 4)
	_, err = io.ReadFull(conn, buf)
	require.NoError(t, err)
	assert.Equal(t, "ping", string(buf))

	require.NoError(t, conn.Close())
	wg.Wait()
}

func TestDialerFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	dialer := NewDialer()
	_, err = dialer.Dial(context.Background(), addr)
	assert.Error(t, err)
}

func TestResolverLoopback(t *testing.T) {
	resolver := NewResolver()

	addrs, err := resolver.LookupHost(context.Background(), "localhost")
	require.NoError(t, err)
	assert.NotEmpty(t, addrs)
}
