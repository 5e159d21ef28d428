package http

import (
	"bytes"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// [Major, Minor]
type Version [2]uint

var Version11 = Version{1, 1}

// ParseVersion parses http version text(e.g. "HTTP/1.1") into [Version].
func ParseVersion(b []byte) (Version, error) {
	prefix := []byte("HTTP/")
	if !bytes.HasPrefix(b, prefix) {
		return Version{}, errors.Errorf("http version prefix not found: %s", b)
	}

	// Get major and minor version.
	first, second, found := bytes.Cut(b[len(prefix):], []byte{'.'})
	if !found {
		return Version{}, errors.Errorf("dot seperator not found on version: %s", b)
	}

	major, err1 := strconv.ParseUint(string(first), 10, 64)
	minor, err2 := strconv.ParseUint(string(second), 10, 64)
	if err1 != nil || err2 != nil {
		return Version{}, errors.Errorf("http version is not convertable to int: %s", b)
	}

	return Version{uint(major), uint(minor)}, nil
}

func (ver Version) Text() []byte {
	buf := bytes.NewBuffer(nil)
	buf.Write([]byte("HTTP/"))
	buf.Write([]byte(strconv.FormatUint(uint64(ver[0]), 10)))
	buf.Write([]byte{'.'})
	buf.Write([]byte(strconv.FormatUint(uint64(ver[1]), 10)))
	return buf.Bytes()
}

func (ver Version) String() string { return string(ver.Text()) }

// Method is a request method. It is a closed set so that an invalid
// verb is caught at construction, not on the wire.
type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodPatch   Method = "PATCH"
	MethodOptions Method = "OPTIONS"
	MethodHead    Method = "HEAD"
)

// ParseMethod converts s into a [Method].
func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case MethodGet, MethodPost, MethodPut, MethodDelete,
		MethodPatch, MethodOptions, MethodHead:
		return m, nil
	}
	return "", errors.Errorf("unknown method: %q", s)
}

func (m Method) String() string { return string(m) }

// Request is a single HTTP request message.
type Request struct {
	Method  Method
	Target  string
	Version Version

	Headers Headers

	Body io.Reader
}

// Response is a single HTTP response message. Body is positioned right
// after the header block; framing it is the caller's concern.
type Response struct {
	Version      Version
	StatusCode   uint
	ReasonPhrase string

	Headers Headers

	Body io.Reader
}
