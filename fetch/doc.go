// Package fetch performs a single blocking HTTP/1.1 request-response
// exchange over a transport connection: resolve, connect, send, read
// status line, headers and body, then close.
//
// Every call owns exactly one connection for its whole duration and
// releases it on every exit path. Calls share no state, so concurrent
// use from multiple goroutines needs no synchronization.
package fetch
