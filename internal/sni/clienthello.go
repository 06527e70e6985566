package sni

import (
	"crypto/tls"
	"errors"
	"io"
	"net"
	"time"
)

// errHelloParsed is a sentinel GetConfigForClient returns once it has
// captured the ClientHelloInfo, aborting the handshake immediately
// afterwards without ever touching the network for a response — only
// the peeked bytes were read.
var errHelloParsed = errors.New("sni: clienthello captured")

// parseClientHello runs a TLS server-side acceptor over peeked, a
// byte slice containing (a prefix of) the wire bytes a client sent,
// and returns the ClientHelloInfo the stdlib TLS stack parsed out of
// it. This is the "TLS library's server-side acceptor primitive" spec.md
// §4.B calls for: crypto/tls itself, via the standard
// GetConfigForClient hook, which fires after the ClientHello record is
// fully parsed but before any bytes are written back.
//
// Three outcomes, matching spec.md §4.B exactly:
//   - incomplete: Handshake returned an EOF-class error before the hook
//     ever ran (the peeked window doesn't contain a full ClientHello yet).
//   - malformed: Handshake returned a non-EOF error before the hook ran
//     (the bytes aren't a valid TLS ClientHello at all).
//   - parsed: the hook ran; we return its ClientHelloInfo regardless of
//     the error Handshake went on to produce afterward.
func parseClientHello(peeked []byte) (hello *tls.ClientHelloInfo, incomplete bool, err error) {
	conn := &helloOnlyConn{r: peeked}
	srv := tls.Server(conn, &tls.Config{
		GetConfigForClient: func(chi *tls.ClientHelloInfo) (*tls.Config, error) {
			captured := *chi
			hello = &captured
			return nil, errHelloParsed
		},
	})

	hsErr := srv.Handshake()
	if hello != nil {
		return hello, false, nil
	}
	if errors.Is(hsErr, io.EOF) || errors.Is(hsErr, io.ErrUnexpectedEOF) {
		return nil, true, hsErr
	}
	return nil, false, hsErr
}

// helloOnlyConn is a net.Conn that serves Read calls from a fixed byte
// slice and refuses every Write, so tls.Server can be driven over a
// peeked buffer without ever touching the real socket. It implements
// net.Conn only to the degree crypto/tls's handshake path requires.
type helloOnlyConn struct {
	r []byte
}

func (c *helloOnlyConn) Read(b []byte) (int, error) {
	if len(c.r) == 0 {
		return 0, io.EOF
	}
	n := copy(b, c.r)
	c.r = c.r[n:]
	return n, nil
}

func (c *helloOnlyConn) Write(b []byte) (int, error) {
	return 0, errHelloParsed
}

func (c *helloOnlyConn) Close() error                       { return nil }
func (c *helloOnlyConn) LocalAddr() net.Addr                { return fakeAddr{} }
func (c *helloOnlyConn) RemoteAddr() net.Addr                { return fakeAddr{} }
func (c *helloOnlyConn) SetDeadline(t time.Time) error       { return nil }
func (c *helloOnlyConn) SetReadDeadline(t time.Time) error   { return nil }
func (c *helloOnlyConn) SetWriteDeadline(t time.Time) error  { return nil }

type fakeAddr struct{}

func (fakeAddr) Network() string { return "sni-peek" }
func (fakeAddr) String() string  { return "sni-peek" }
