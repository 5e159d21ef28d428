package test

import (
	"context"
	"io"
	"testing"
	"time"

	"restfetch/transport"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnScriptAndRecording(t *testing.T) {
	conn := NewConn([]byte("pong"))

	n, err := conn.Write([]byte("ping"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte("ping"), conn.Written())

	b, err := io.ReadAll(conn)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(b))

	// An exhausted script reads like a closed peer.
	_, err = conn.Read(make([]byte, 1))
	assert.ErrorIs(t, err, io.EOF)
}

func TestConnInjectedFailures(t *testing.T) {
	conn := NewConn([]byte("hi"))
	conn.FailReadsWith(errors.New("reset"))
	conn.FailWritesWith(errors.New("pipe"))

	b, err := io.ReadAll(conn)
	assert.Equal(t, "hi", string(b))
	assert.ErrorContains(t, err, "reset")

	_, err = conn.Write([]byte("x"))
	assert.ErrorContains(t, err, "pipe")
}

func TestConnClose(t *testing.T) {
	conn := NewConn(nil)
	require.NoError(t, conn.Close())
	assert.True(t, conn.Closed())

	_, err := conn.Read(make([]byte, 1))
	assert.ErrorIs(t, err, transport.ErrConnClosed)

	_, err = conn.Write([]byte("x"))
	assert.ErrorIs(t, err, transport.ErrConnClosed)
}

func TestConnDeadlinesRecorded(t *testing.T) {
	conn := NewConn(nil)
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, conn.SetReadDeadline(at))
	require.NoError(t, conn.SetWriteDeadline(at.Add(time.Second)))

	assert.Equal(t, at, conn.ReadDeadline())
	assert.Equal(t, at.Add(time.Second), conn.WriteDeadline())
}

func TestDialer(t *testing.T) {
	dialer := NewDialer()
	conn := NewConn(nil)
	dialer.Stub("127.0.0.1:80", conn)

	got, err := dialer.Dial(context.Background(), "127.0.0.1:80")
	require.NoError(t, err)
	assert.Same(t, conn, got)

	_, err = dialer.Dial(context.Background(), "127.0.0.1:81")
	assert.Error(t, err)

	dialer.FailWith(errors.New("refused"))
	_, err = dialer.Dial(context.Background(), "127.0.0.1:80")
	assert.ErrorContains(t, err, "refused")
}

func TestResolver(t *testing.T) {
	resolver := NewResolver(map[string][]string{
		"example.com": {"192.0.2.1", "192.0.2.2"},
	})

	addrs, err := resolver.LookupHost(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"192.0.2.1", "192.0.2.2"}, addrs)

	_, err = resolver.LookupHost(context.Background(), "unknown.test")
	assert.ErrorIs(t, err, ErrHostNotFound)

	resolver.Set("unknown.test", []string{"192.0.2.3"})
	addrs, err = resolver.LookupHost(context.Background(), "unknown.test")
	require.NoError(t, err)
	assert.Equal(t, []string{"192.0.2.3"}, addrs)

	resolver.Del("example.com")
	_, err = resolver.LookupHost(context.Background(), "example.com")
	assert.ErrorIs(t, err, ErrHostNotFound)
}
