// Package identity builds and owns the set of named TLS server
// configurations (Acceptors) the proxy terminates TLS with.
//
// The precedence rules and PEM-literal-vs-file handling follow the
// teacher's certificates package (github.com/nabbar/golib/certificates,
// certificates/certs/config.go's ConfigPair.Cert), adapted down to
// exactly the surface spec.md §4.A calls for: no cipher-suite or curve
// selection knobs, since the spec leaves those to the TLS stack's
// defaults.
package identity

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
)

// Acceptor is an opaque handle around a fully built server TLS
// configuration. It is shared by reference across every rule that
// references it and lives for the process lifetime.
type Acceptor struct {
	cfg *tls.Config
}

// Handshake performs the server-side TLS handshake over conn using this
// identity and returns the resulting TLS stream on success.
func (a *Acceptor) Handshake(conn net.Conn) (*tls.Conn, error) {
	tc := tls.Server(conn, a.cfg)
	if err := tc.Handshake(); err != nil {
		return nil, fmt.Errorf("tls handshake: %w", err)
	}
	return tc, nil
}

// Config exposes the underlying *tls.Config for callers (e.g. tests)
// that need to dial against it directly; it must not be mutated.
func (a *Acceptor) Config() *tls.Config {
	return a.cfg
}

// Store is the read-only, built-once mapping from TLS identity name to
// Acceptor. It is shared across all connection tasks without locking,
// per spec.md §5 ("Matcher Table and Identity Store are built once and
// then read-only").
type Store struct {
	acceptors map[string]*Acceptor
}

// Get looks up a named identity. The matcher compiler is responsible for
// rejecting rules that reference a name Get would return false for
// (spec.md §3 invariant 3); by the time the dispatcher runs, Get always
// succeeds for a compiled dispatcher's identity reference.
func (s *Store) Get(name string) (*Acceptor, bool) {
	a, ok := s.acceptors[name]
	return a, ok
}

// newCertPool builds an x509.CertPool holding every certificate in certs.
func newCertPool(certs []*x509.Certificate) *x509.CertPool {
	pool := x509.NewCertPool()
	for _, c := range certs {
		pool.AddCert(c)
	}
	return pool
}
