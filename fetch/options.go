package fetch

import (
	"sync"
	"time"

	"restfetch/http"
)

const DefaultUserAgent = "restfetch/1.0"

// DefaultTimeout bounds the whole exchange unless overridden.
const DefaultTimeout = 3000 * time.Millisecond

// Options carries the per-request knobs of a fetch.
type Options struct {
	Method  http.Method
	Headers http.Headers

	Body []byte

	// Timeout bounds resolution, connect and the full read of the
	// response. Zero disables the deadline.
	Timeout time.Duration

	// Signal is only consulted at call entry. Mid-flight cancellation
	// would need an asynchronous engine, which this one is not.
	Signal *AbortSignal
}

func DefaultOptions() Options {
	headers := http.NewHeaders()
	headers.Set("User-Agent", DefaultUserAgent)

	return Options{
		Method:  http.MethodGet,
		Headers: headers,
		Timeout: DefaultTimeout,
	}
}

func (o Options) withDefaults() Options {
	if o.Method == "" {
		o.Method = http.MethodGet
	}

	// Clone so the caller's Options stay untouched.
	o.Headers = http.HeadersFrom(o.Headers.Fields())
	if _, ok := o.Headers.Get("User-Agent"); !ok {
		o.Headers.Set("User-Agent", DefaultUserAgent)
	}

	return o
}

// AbortSignal is a caller-owned flag asking a fetch not to start.
type AbortSignal struct {
	mu      sync.Mutex
	aborted bool
	reason  string
}

func (s *AbortSignal) Abort(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.aborted = true
	s.reason = reason
}

func (s *AbortSignal) Aborted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.aborted
}

func (s *AbortSignal) Reason() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.reason
}
