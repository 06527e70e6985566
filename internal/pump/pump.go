// Package pump implements the bidirectional byte copy engine (spec.md
// §4.E): two independent directions, each shutting down only its own
// write side when its read side hits EOF, so neither direction is
// coupled to the other's progress.
package pump

import (
	"errors"
	"io"
	"net"
)

// halfCloser is implemented by every connection type the dispatcher
// hands to Copy: *net.TCPConn, *tls.Conn, and test doubles. CloseWrite
// shuts down only the write half, leaving reads (and the other
// direction's goroutine) unaffected — the half-close discipline spec.md
// §9 calls load-bearing.
type halfCloser interface {
	CloseWrite() error
}

// Copy copies a<->b concurrently until both directions have completed,
// per spec.md §4.E. Each direction, on seeing EOF from its reader,
// shuts down the write side of the opposite stream and swallows any
// error doing so (the peer may already be gone). The returned error is
// the first unhandled I/O error from either direction, with
// io.ErrUnexpectedEOF normalized away since it is a routine TLS/TCP
// teardown signal, not a failure (spec.md §7).
func Copy(a, b net.Conn) error {
	errs := make(chan error, 2)

	go func() { errs <- copyHalf(b, a) }()
	go func() { errs <- copyHalf(a, b) }()

	var first error
	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil && first == nil {
			first = err
		}
	}
	return first
}

// copyHalf copies src->dst until src is exhausted, then half-closes
// dst's write side so its peer observes orderly FIN rather than having
// to wait for an idle timeout.
func copyHalf(dst, src net.Conn) error {
	_, err := io.Copy(dst, src)

	if hc, ok := dst.(halfCloser); ok {
		_ = hc.CloseWrite() // benign: peer may already be gone
	}

	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return nil
	}
	return err
}
