package fetch

import (
	"testing"
	"time"

	"restfetch/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.Equal(t, http.MethodGet, opts.Method)
	assert.Equal(t, 3*time.Second, opts.Timeout)

	ua, ok := opts.Headers.Get("User-Agent")
	require.True(t, ok)
	assert.Equal(t, DefaultUserAgent, ua)
}

func TestOptionsWithDefaults(t *testing.T) {
	t.Run("fills the zero value", func(t *testing.T) {
		opts := Options{}.withDefaults()

		assert.Equal(t, http.MethodGet, opts.Method)

		ua, ok := opts.Headers.Get("User-Agent")
		require.True(t, ok)
		assert.Equal(t, DefaultUserAgent, ua)

		// A zero timeout means no deadline, not the default one.
		assert.Zero(t, opts.Timeout)
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		headers := http.NewHeaders()
		headers.Set("User-Agent", "custom/2.0")

		opts := Options{Method: http.MethodPut, Headers: headers}.withDefaults()

		assert.Equal(t, http.MethodPut, opts.Method)

		ua, _ := opts.Headers.Get("User-Agent")
		assert.Equal(t, "custom/2.0", ua)
	})

	t.Run("does not mutate the caller's headers", func(t *testing.T) {
		headers := http.NewHeaders()
		headers.Set("Accept", "text/html")

		opts := Options{Headers: headers}
		withUA := opts.withDefaults()

		_, ok := withUA.Headers.Get("User-Agent")
		assert.True(t, ok)

		_, ok = headers.Get("User-Agent")
		assert.False(t, ok)
	})
}

func TestAbortSignal(t *testing.T) {
	var signal AbortSignal

	assert.False(t, signal.Aborted())
	assert.Empty(t, signal.Reason())

	signal.Abort("cancelled")

	assert.True(t, signal.Aborted())
	assert.Equal(t, "cancelled", signal.Reason())
}
