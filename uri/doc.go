// Package uri implements parsing of URI references following the
// grammar of RFC 3986.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc3986
package uri
