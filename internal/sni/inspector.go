// Package sni implements the ClientHello Inspector (spec.md §4.B):
// bounded, non-consuming inspection of an accepted socket to extract
// the TLS SNI without disturbing the bytes for a later raw-TCP forward.
package sni

import (
	"bytes"
	"net"
)

// PeekWindow is the maximum number of bytes peeked from a connection
// before giving up on finding a ClientHello (spec.md §4.B step 1).
const PeekWindow = 10240

// Outcome classifies the result of Inspect.
type Outcome int

const (
	// Matched means a host_name SNI value was extracted; Inspect returns
	// it as its second result.
	Matched Outcome = iota
	// NoSNI means the ClientHello parsed but carried no usable SNI
	// host_name extension; the indicated name is the empty string.
	NoSNI
	// Refuse means the connection should be silently terminated: EOF,
	// plaintext HTTP, an incomplete or malformed TLS record.
	Refuse
)

// Inspect peeks up to PeekWindow bytes from conn and classifies them
// per spec.md §4.B. It never consumes bytes from conn: on Matched or
// NoSNI, conn is returned to the caller exactly as accepted, ready for
// handoff to the Matcher Table and Dispatcher.
func Inspect(conn net.Conn) (Outcome, string) {
	buf := make([]byte, PeekWindow)
	n, err := peek(conn, buf)
	if err != nil || n == 0 {
		// EOF or peek failure: terminate silently (spec.md §4.B step 2).
		return Refuse, ""
	}
	window := buf[:n]

	if bytes.Contains(window, []byte("HTTP")) {
		// Plaintext HTTP: the proxy does not serve cleartext (step 3).
		return Refuse, ""
	}

	hello, incomplete, perr := parseClientHello(window)
	if incomplete {
		// Current policy: give up once. Re-peeking with a bounded
		// backoff is a known TODO (spec.md §4.B step 4, §9 Ambiguity).
		return Refuse, ""
	}
	if perr != nil || hello == nil {
		return Refuse, ""
	}

	if hello.ServerName == "" {
		return NoSNI, ""
	}
	return Matched, hello.ServerName
}
