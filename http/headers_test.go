package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseField(t *testing.T) {
	testcases := []struct {
		desc     string
		input    string
		expected Field
		wantErr  bool
	}{
		{
			desc:     "simple",
			input:    "Content-Length: 5",
			expected: Field{Name: "Content-Length", Value: "5"},
		},
		{
			desc:     "value whitespace trimmed",
			input:    "Server: \t nginx \t",
			expected: Field{Name: "Server", Value: "nginx"},
		},
		{
			desc:     "empty value",
			input:    "X-Empty:",
			expected: Field{Name: "X-Empty", Value: ""},
		},
		{
			desc:    "no colon",
			input:   "NoColonHere",
			wantErr: true,
		},
		{
			desc:    "whitespace before colon",
			input:   "Server : nginx",
			wantErr: true,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			field, err := ParseField([]byte(tc.input))
			if tc.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, field)
		})
	}
}

func TestHeadersOrderPreserved(t *testing.T) {
	h := NewHeaders()
	h.Add("b-second", "2")
	h.Add("A-First", "1")
	h.Add("c-third", "3")

	fields := h.Fields()
	require.Len(t, fields, 3)
	assert.Equal(t, "B-Second", fields[0].Name)
	assert.Equal(t, "A-First", fields[1].Name)
	assert.Equal(t, "C-Third", fields[2].Name)
}

func TestHeadersCaseInsensitiveLookup(t *testing.T) {
	h := NewHeaders()
	h.Set("Content-Type", "text/plain")

	for _, key := range []string{"content-type", "CONTENT-TYPE", "Content-type"} {
		v, ok := h.Get(key)
		require.True(t, ok, key)
		assert.Equal(t, "text/plain", v)
	}

	_, ok := h.Get("Content-Length")
	assert.False(t, ok)
}

func TestHeadersSetReplacesDuplicates(t *testing.T) {
	h := NewHeaders()
	h.Add("X-Tag", "one")
	h.Add("Other", "x")
	h.Add("x-tag", "two")

	h.Set("X-Tag", "three")

	assert.Equal(t, []string{"three"}, h.Values("x-tag"))
	assert.Equal(t, 2, h.Len())

	// The replacement keeps the first occurrence's position.
	assert.Equal(t, "X-Tag", h.Fields()[0].Name)
}

func TestHeadersValuesAndDel(t *testing.T) {
	h := NewHeaders()
	h.Add("Accept", "text/html")
	h.Add("accept", "application/json")

	assert.Equal(t, []string{"text/html", "application/json"}, h.Values("ACCEPT"))

	h.Del("Accept")
	assert.Zero(t, h.Len())
	assert.Empty(t, h.Values("Accept"))
}

func TestHeadersHasToken(t *testing.T) {
	h := NewHeaders()
	h.Set("Transfer-Encoding", "gzip, Chunked")

	assert.True(t, h.HasToken("Transfer-Encoding", "chunked"))
	assert.True(t, h.HasToken("Transfer-Encoding", "gzip"))
	assert.False(t, h.HasToken("Transfer-Encoding", "br"))
	assert.False(t, h.HasToken("Content-Encoding", "gzip"))
}
