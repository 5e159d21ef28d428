// Package http implements the HTTP/1.1 message syntax: versions,
// header fields, and the encoding/decoding of messages on the wire.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9112
package http
