package http

import (
	"bufio"
	"bytes"
	"io"

	"restfetch/util/rule"

	"github.com/pkg/errors"
)

type EncodeOptions struct {
	// UseSoleLF specifies whether a single LF character should be used
	// as a line terminator.
	//
	// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-2.2-3
	UseSoleLF bool
}

var DefaultEncodeOptions = EncodeOptions{
	UseSoleLF: false,
}

// RequestEncoder serializes a request onto the wire: request line,
// header fields in insertion order, an empty line, then the body.
type RequestEncoder struct {
	bw   *bufio.Writer
	opts EncodeOptions
}

func NewRequestEncoder(w io.Writer, opts EncodeOptions) *RequestEncoder {
	return &RequestEncoder{bw: bufio.NewWriter(w), opts: opts}
}

func (re *RequestEncoder) Encode(request Request) error {
	if err := re.encodeRequestLine(request); err != nil {
		return errors.Wrap(err, "encoding request line")
	}

	if err := re.encodeHeaders(request.Headers); err != nil {
		return errors.Wrap(err, "encoding headers")
	}

	if request.Body != nil {
		if _, err := re.bw.ReadFrom(request.Body); err != nil {
			return errors.Wrap(err, "writing request body")
		}
	}

	if err := re.bw.Flush(); err != nil {
		return errors.Wrap(err, "flushing request")
	}

	return nil
}

func (re *RequestEncoder) encodeRequestLine(request Request) error {
	buf := bytes.NewBuffer(nil)

	buf.WriteString(string(request.Method))
	buf.WriteByte(rule.SP)
	buf.WriteString(request.Target)
	buf.WriteByte(rule.SP)
	buf.Write(request.Version.Text())

	if err := re.writeLine(buf.Bytes()); err != nil {
		return errors.Wrap(err, "writing line")
	}

	return nil
}

func (re *RequestEncoder) encodeHeaders(headers Headers) error {
	for _, field := range headers.Fields() {
		if err := re.writeLine(field.Text()); err != nil {
			return errors.Wrap(err, "writing field")
		}
	}

	// Write an empty line as all the headers are written.
	if err := re.writeLine(nil); err != nil {
		return errors.Wrap(err, "writing line terminator")
	}

	return nil
}

func (re *RequestEncoder) writeLine(line []byte) error {
	if _, err := re.bw.Write(line); err != nil {
		return errors.Wrap(err, "writing line")
	}

	term := rule.CRLF
	if re.opts.UseSoleLF {
		term = term[1:]
	}

	if _, err := re.bw.Write(term); err != nil {
		return errors.Wrap(err, "writing line terminator")
	}

	return nil
}
