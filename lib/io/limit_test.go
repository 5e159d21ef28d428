package iolib

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitReader(t *testing.T) {
	r := LimitReader(strings.NewReader("hello world"), 5)

	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))

	// Exhausted reader keeps reporting EOF.
	n, err := r.Read(make([]byte, 1))
	assert.Zero(t, n)
	assert.ErrorIs(t, err, io.EOF)
}

func TestLimitReaderShortSource(t *testing.T) {
	r := LimitReader(strings.NewReader("hi"), 5)

	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hi", string(b))
}
