package http

import (
	"bufio"
	"bytes"
	"io"
	"strconv"

	bytesutil "restfetch/lib/bytes"
	"restfetch/util/rule"

	"github.com/pkg/errors"
)

type DecodeOptions struct {
	// AllowSoleLF specifies whether a single LF character should be
	// recognized as a valid line terminator.
	//
	// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-2.2-3
	AllowSoleLF bool

	// MaxFieldLineLength sets the limit of field line length on headers.
	MaxFieldLineLength uint

	// MaxStatusLineLength sets the limit of status line length.
	MaxStatusLineLength uint
}

var DefaultDecodeOptions = DecodeOptions{
	AllowSoleLF:         false,
	MaxFieldLineLength:  0,
	MaxStatusLineLength: 0,
}

var (
	errLineTooLong       = errors.New("line length exceeds limit")
	ErrMissingCRBeforeLF = errors.New("missing CR before LF")

	ErrFieldLineTooLong   = errors.New("field line length exceeds limit")
	ErrMalformedFieldLine = errors.New("field line is malformed")

	ErrStatusLineTooLong   = errors.New("status line length exceeds limit")
	ErrMalformedStatusLine = errors.New("status line is malformed")
)

// ResponseDecoder reads a status line and header block off the wire.
// The body is left on the underlying reader untouched.
type ResponseDecoder struct {
	br   *bufio.Reader
	opts DecodeOptions
}

func NewResponseDecoder(r io.Reader, opts DecodeOptions) *ResponseDecoder {
	return &ResponseDecoder{br: bufio.NewReader(r), opts: opts}
}

// r MUST be a non-nil pointer
func (rd *ResponseDecoder) Decode(r *Response) error {
	if err := rd.decodeStatusLine(r); err != nil {
		return errors.Wrap(err, "parsing status line")
	}

	if err := rd.decodeHeaders(&r.Headers); err != nil {
		return errors.Wrap(err, "parsing headers")
	}

	r.Body = rd.br

	return nil
}

func (rd *ResponseDecoder) decodeStatusLine(r *Response) error {
	var line []byte
	for {
		b, err := rd.readLine(rd.opts.MaxStatusLineLength)
		if err != nil {
			if errors.Is(err, errLineTooLong) {
				return ErrStatusLineTooLong
			}
			return errors.Wrap(err, "reading line")
		}

		// An empty line can be received before message.
		// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-2.2-6
		if len(b) > 0 {
			line = b
			break
		}
	}

	ver, code, reason, err := parseStatusLine(line)
	if err != nil {
		return errors.Wrap(ErrMalformedStatusLine, err.Error())
	}

	r.Version = ver
	r.StatusCode = code
	r.ReasonPhrase = reason

	return nil
}

func parseStatusLine(line []byte) (ver Version, code uint, reason string, err error) {
	parts := bytes.SplitN(line, []byte{rule.SP}, 3)
	if len(parts) < 2 {
		return Version{}, 0, "", errors.New("status line is malformed")
	}

	ver, err = ParseVersion(parts[0])
	if err != nil {
		return Version{}, 0, "", errors.Wrap(err, "parsing version")
	}

	statusCodeStr := string(parts[1])
	statusCode, err := strconv.ParseUint(statusCodeStr, 10, 64)
	if err != nil || len(statusCodeStr) != 3 {
		return Version{}, 0, "", errors.Errorf("status code is malformed: %q", statusCodeStr)
	}

	// reason-phrase is optional.
	if len(parts) == 3 {
		reason = string(parts[2])
	}

	return ver, uint(statusCode), reason, nil
}

func (rd *ResponseDecoder) decodeHeaders(headers *Headers) error {
	fields := make([]Field, 0)
	for {
		fieldLine, err := rd.readLine(rd.opts.MaxFieldLineLength)
		if err != nil {
			if errors.Is(err, errLineTooLong) {
				return ErrFieldLineTooLong
			}
			return errors.Wrap(err, "reading line")
		}

		if len(fieldLine) == 0 {
			// An empty line. This means that there are no more headers.
			break
		}

		field, err := ParseField(fieldLine)
		if err != nil {
			return errors.Wrap(ErrMalformedFieldLine, err.Error())
		}

		fields = append(fields, field)
	}

	*headers = HeadersFrom(fields)

	return nil
}

func (rd *ResponseDecoder) readLine(limit uint) ([]byte, error) {
	b, err := bytesutil.ReadUntil(rd.br, []byte{rule.LF})
	if err != nil {
		return nil, err
	}

	if limit > 0 && uint(len(b)) > limit {
		return nil, errLineTooLong
	}

	b = b[:len(b)-1] // Remove LF.

	if !rd.opts.AllowSoleLF {
		if len(b) == 0 || b[len(b)-1] != rule.CR {
			return nil, ErrMissingCRBeforeLF
		}
		b = b[:len(b)-1] // Remove CR.
	}

	return b, nil
}
