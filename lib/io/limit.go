// Package iolib supplements [io] where its readers take int limits but
// the callers here count in uint, as response body framing does.
package iolib

import "io"

// LimitReader returns a reader that stops with [io.EOF] after n bytes,
// so a declared Content-Length bounds the read exactly.
func LimitReader(r io.Reader, n uint) io.Reader { return &LimitedReader{r, n} }

// LimitedReader is [io.LimitedReader] with a uint budget.
type LimitedReader struct {
	R io.Reader // underlying reader
	N uint      // bytes remaining
}

func (l *LimitedReader) Read(p []byte) (n int, err error) {
	if l.N == 0 {
		return 0, io.EOF
	}
	if uint(len(p)) > l.N {
		p = p[:l.N]
	}
	n, err = l.R.Read(p)
	l.N -= uint(n)
	return
}
