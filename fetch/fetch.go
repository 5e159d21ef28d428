package fetch

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"restfetch/http"
	"restfetch/http/status"
	iolib "restfetch/lib/io"
	"restfetch/transport"
	"restfetch/transport/tcp"
	"restfetch/uri"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

// Response is the outcome of a successful fetch. It is built exactly
// once and never mutated afterwards.
type Response struct {
	StatusCode   uint
	ReasonPhrase string

	Headers http.Headers

	Body []byte
}

// Fetcher performs synchronous exchanges through pluggable transport
// capabilities. The zero set of schemes means plaintext "http" only;
// wiring a TLS-capable dialer is the caller's way of adding "https".
type Fetcher struct {
	resolver transport.Resolver
	dialer   transport.Dialer

	schemes []string

	logger *slog.Logger
	clock  clock.Clock
}

func New(
	resolver transport.Resolver,
	dialer transport.Dialer,
	logger *slog.Logger,
	clk clock.Clock,
	schemes ...string,
) *Fetcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if clk == nil {
		clk = clock.New()
	}
	if len(schemes) == 0 {
		schemes = []string{"http"}
	}

	return &Fetcher{
		resolver: resolver,
		dialer:   dialer,
		schemes:  schemes,
		logger:   logger,
		clock:    clk,
	}
}

// Default returns a fetcher over the OS resolver and TCP stack.
func Default() *Fetcher {
	return New(tcp.NewResolver(), tcp.NewDialer(), nil, nil)
}

var std = Default()

// Fetch resolves rawURL and performs a GET with default options.
func Fetch(ctx context.Context, rawURL string) (*Response, error) {
	return FetchURL(ctx, rawURL, DefaultOptions())
}

// FetchURL resolves rawURL and performs the exchange described by opts.
func FetchURL(ctx context.Context, rawURL string, opts Options) (*Response, error) {
	u, err := uri.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(err, "parsing url")
	}
	return std.Fetch(ctx, u, opts)
}

// Fetch performs one request-response exchange against u. It returns
// either a fully populated [Response] or one of the package's error
// classes, never both and never a panic.
func (f *Fetcher) Fetch(ctx context.Context, u uri.URI, opts Options) (res *Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, errors.Wrapf(ErrInternal, "panic: %v", r)
			return
		}
		if err != nil && !classified(err) {
			res, err = nil, errors.Wrap(ErrInternal, err.Error())
		}
	}()

	opts = opts.withDefaults()

	if s := opts.Signal; s != nil && s.Aborted() {
		if reason := s.Reason(); reason != "" {
			return nil, errors.Wrap(ErrAborted, reason)
		}
		return nil, ErrAborted
	}

	if !f.allows(u.Scheme) {
		return nil, errors.Wrapf(ErrUnsupportedScheme, "%q", u.Scheme)
	}

	var deadline time.Time
	if opts.Timeout > 0 {
		deadline = f.clock.Now().Add(opts.Timeout)

		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, deadline)
		defer cancel()
	}

	addrs, err := f.resolve(ctx, u.Host)
	if err != nil {
		return nil, errors.Wrap(ErrResolutionFailed, err.Error())
	}

	conn, err := f.connect(ctx, addrs, u.Port)
	if err != nil {
		return nil, errors.Wrap(ErrConnectFailed, err.Error())
	}
	// The connection is released on every exit path.
	defer func() { _ = conn.Close() }()

	if !deadline.IsZero() {
		_ = conn.SetWriteDeadline(deadline)
		_ = conn.SetReadDeadline(deadline)
	}

	if err := f.send(conn, u, opts); err != nil {
		return nil, errors.Wrap(ErrWriteFailed, err.Error())
	}

	var wire http.Response
	decoder := http.NewResponseDecoder(conn, http.DefaultDecodeOptions)
	if err := decoder.Decode(&wire); err != nil {
		if !malformedWire(err) {
			// A transport failure while reading, not a protocol
			// violation. The deferred guard classifies it.
			return nil, err
		}
		return nil, errors.Wrap(ErrInvalidResponse, err.Error())
	}

	if coding, ok := wire.Headers.Get("Transfer-Encoding"); ok {
		return nil, errors.Wrapf(ErrUnsupportedEncoding, "%q", coding)
	}

	body, err := readBody(&wire)
	if err != nil {
		return nil, err
	}

	reason := wire.ReasonPhrase
	if reason == "" {
		if s, ok := status.FromCode(wire.StatusCode); ok {
			reason = s.ReasonPhrase
		}
	}

	f.logger.Debug("fetch complete",
		"host", u.Host, "status", wire.StatusCode, "body_len", len(body))

	return &Response{
		StatusCode:   wire.StatusCode,
		ReasonPhrase: reason,
		Headers:      wire.Headers,
		Body:         body,
	}, nil
}

// malformedWire reports whether err describes a protocol violation in
// the peer's bytes rather than a transport failure while reading them.
// A truncated message counts as malformed.
func malformedWire(err error) bool {
	wireErrs := []error{
		http.ErrMalformedStatusLine,
		http.ErrMalformedFieldLine,
		http.ErrMissingCRBeforeLF,
		http.ErrStatusLineTooLong,
		http.ErrFieldLineTooLong,
		io.ErrUnexpectedEOF,
	}
	for _, class := range wireErrs {
		if errors.Is(err, class) {
			return true
		}
	}
	return false
}

func (f *Fetcher) allows(scheme string) bool {
	for _, s := range f.schemes {
		if s == scheme {
			return true
		}
	}
	return false
}

func (f *Fetcher) resolve(ctx context.Context, host string) ([]string, error) {
	if host == "" {
		return nil, errors.New("host is empty")
	}

	if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
		// IP literal. No lookup needed.
		return []string{host[1 : len(host)-1]}, nil
	}

	addrs, err := f.resolver.LookupHost(ctx, host)
	if err != nil {
		return nil, err
	}
	if len(addrs) == 0 {
		return nil, errors.Errorf("no addresses for host(%s)", host)
	}

	return addrs, nil
}

// connect tries each resolved address in order and keeps the first
// connection that succeeds.
func (f *Fetcher) connect(ctx context.Context, addrs []string, port uint16) (transport.Conn, error) {
	var lastErr error
	for _, addr := range addrs {
		conn, err := f.dialer.Dial(ctx, joinHostPort(addr, port))
		if err == nil {
			return conn, nil
		}
		lastErr = err
	}

	return nil, lastErr
}

func (f *Fetcher) send(conn transport.Conn, u uri.URI, opts Options) error {
	request := http.Request{
		Method:  opts.Method,
		Target:  u.RequestTarget(),
		Version: http.Version11,
	}

	// Host comes first, then the connection policy, then the caller's
	// fields in their insertion order.
	headers := http.NewHeaders()
	headers.Add("Host", u.HostPort())
	headers.Add("Connection", "close")
	for _, field := range opts.Headers.Fields() {
		if strings.EqualFold(field.Name, "Host") || strings.EqualFold(field.Name, "Connection") {
			continue
		}
		headers.Add(field.Name, field.Value)
	}

	if len(opts.Body) > 0 {
		if _, ok := headers.Get("Content-Length"); !ok {
			headers.Set("Content-Length", strconv.Itoa(len(opts.Body)))
		}
		request.Body = bytes.NewReader(opts.Body)
	}

	request.Headers = headers

	encoder := http.NewRequestEncoder(conn, http.DefaultEncodeOptions)
	return encoder.Encode(request)
}

// readBody applies the framing policy: an all-digit Content-Length is
// read exactly; otherwise the peer closing the connection delimits the
// body and EOF is the normal terminator.
func readBody(wire *http.Response) ([]byte, error) {
	if v, ok := wire.Headers.Get("Content-Length"); ok {
		// Bounded to the platform's uint so the limit reader never
		// truncates the declared length.
		if length, err := strconv.ParseUint(v, 10, strconv.IntSize); err == nil {
			body, err := io.ReadAll(iolib.LimitReader(wire.Body, uint(length)))
			if err != nil {
				return nil, err
			}
			if uint64(len(body)) < length {
				return nil, errors.Wrapf(ErrInvalidResponse,
					"body has %d bytes, Content-Length declared %d", len(body), length)
			}
			return body, nil
		}
		// A non-numeric Content-Length falls back to close-delimited
		// reading instead of being rejected.
	}

	body, err := io.ReadAll(wire.Body)
	if err != nil {
		return nil, err
	}
	return body, nil
}

func joinHostPort(host string, port uint16) string {
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	return host + ":" + strconv.FormatUint(uint64(port), 10)
}
