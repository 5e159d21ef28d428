package http

import (
	"bytes"
	"strings"

	"restfetch/util/rule"

	"github.com/pkg/errors"
)

// Field is one header line, "Name: Value".
type Field struct{ Name, Value string }

// ParseField parses a raw field line. Lines without a colon are
// rejected rather than tolerated.
func ParseField(fieldLine []byte) (Field, error) {
	name, value, found := bytes.Cut(fieldLine, []byte{':'})
	if !found {
		return Field{}, errors.Errorf("colon seperator not found on header: %q", string(fieldLine))
	}

	// No whitespace is allowed between field name and colon.
	// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-5.1-2
	for _, c := range rule.OWS {
		if bytes.HasSuffix(name, []byte{c}) {
			return Field{}, errors.New("field name has trailing whitespace")
		}
	}

	// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-5.1-3
	value = bytes.Trim(value, string(rule.OWS))

	return Field{Name: string(name), Value: string(value)}, nil
}

func (f Field) Text() []byte {
	buf := bytes.NewBuffer(nil)
	buf.WriteString(f.Name)
	buf.WriteString(": ")
	buf.WriteString(f.Value)
	return buf.Bytes()
}

// Headers is an ordered collection of header fields. Insertion order is
// preserved; name lookup is case-insensitive through canonical
// field-name folding.
type Headers struct{ fields []Field }

func NewHeaders() Headers { return Headers{} }

// HeadersFrom clones fields into a [Headers], keeping their order.
func HeadersFrom(fields []Field) Headers {
	clone := make([]Field, len(fields))
	copy(clone, fields)
	return Headers{fields: clone}
}

func (h *Headers) Len() int { return len(h.fields) }

// Fields returns all fields in insertion order.
func (h *Headers) Fields() []Field {
	clone := make([]Field, len(h.fields))
	copy(clone, h.fields)
	return clone
}

// Get returns the first value recorded under key.
// For list-based fields, use [Headers.Values].
func (h *Headers) Get(key string) (value string, ok bool) {
	key = canonical(key)
	for _, f := range h.fields {
		if canonical(f.Name) == key {
			return f.Value, true
		}
	}
	return "", false
}

// Values returns every value recorded under key, in insertion order.
func (h *Headers) Values(key string) (values []string) {
	key = canonical(key)
	for _, f := range h.fields {
		if canonical(f.Name) == key {
			values = append(values, f.Value)
		}
	}
	return values
}

// Set overwrites the first field under key and drops any duplicates.
// Absent keys are appended.
func (h *Headers) Set(key, value string) {
	key = canonical(key)

	kept := h.fields[:0]
	replaced := false
	for _, f := range h.fields {
		if canonical(f.Name) != key {
			kept = append(kept, f)
			continue
		}
		if !replaced {
			kept = append(kept, Field{Name: key, Value: value})
			replaced = true
		}
	}
	h.fields = kept

	if !replaced {
		h.fields = append(h.fields, Field{Name: key, Value: value})
	}
}

// Add appends a field under key, keeping existing ones.
func (h *Headers) Add(key, value string) {
	h.fields = append(h.fields, Field{Name: canonical(key), Value: value})
}

func (h *Headers) Del(key string) {
	key = canonical(key)

	kept := h.fields[:0]
	for _, f := range h.fields {
		if canonical(f.Name) != key {
			kept = append(kept, f)
		}
	}
	h.fields = kept
}

// HasToken reports whether any value under key contains token as one of
// its comma-separated members.
func (h *Headers) HasToken(key, token string) bool {
	for _, v := range h.Values(key) {
		for _, part := range strings.Split(v, ",") {
			if strings.EqualFold(strings.TrimFunc(part, isOWS), token) {
				return true
			}
		}
	}
	return false
}

func isOWS(r rune) bool { return r == rune(rule.SP) || r == rune(rule.HTAB) }

func canonical(s string) string {
	if rule.IsValidToken(s) {
		s = toCanonicalFieldName(s)
	}
	return s
}

// This only works for valid token.
func toCanonicalFieldName(s string) string {
	const capitalDiff = 'a' - 'A'
	b := []byte(s)
	upper := true
	for i, c := range b {
		if upper && 'a' <= c && c <= 'z' {
			c -= capitalDiff
		} else if !upper && 'A' <= c && c <= 'Z' {
			c += capitalDiff
		}
		b[i] = c
		upper = c == '-'
	}
	return string(b)
}
