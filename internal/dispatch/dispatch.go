// Package dispatch implements the dispatcher state machine (spec.md
// §4.D): the compiled action a matched rule hands a connection to. Each
// variant is a closed tagged union member — an interface with an
// unexported marker method plus one concrete struct per kind, switched
// on via type assertion, not subclassing (spec.md §9).
package dispatch

import (
	"math/rand"
	"net"

	"github.com/thecubic/lurkr/internal/identity"
	"github.com/thecubic/lurkr/internal/logging"
)

// Dispatcher is a compiled action associated with a rule (spec.md
// glossary). Dispatch consumes conn: by the time it returns, conn has
// been closed or handed off to a pump and will be closed when that
// pump completes.
type Dispatcher interface {
	Dispatch(conn net.Conn, log logging.Logger)
	dispatcher()
}

// TCPForward proxies the raw client bytes directly to one of
// Downstreams, chosen uniformly at random per connection. It never
// touches the Identity Store (spec.md §3 invariant 4).
type TCPForward struct {
	Downstreams []string
}

// TLSTerminateForward terminates TLS using Acceptor, then proxies the
// resulting plaintext to one of Downstreams.
type TLSTerminateForward struct {
	Downstreams []string
	Acceptor    *identity.Acceptor
}

// HTTPSStatic terminates TLS using Acceptor and answers every request
// with StatusCode and (optionally empty) Body.
type HTTPSStatic struct {
	StatusCode int
	Body       []byte
	Acceptor   *identity.Acceptor
}

// TLSAlert writes a single TLS alert record and closes.
type TLSAlert struct {
	Level       AlertLevel
	Description AlertDescription
}

func (*TCPForward) dispatcher()           {}
func (*TLSTerminateForward) dispatcher()  {}
func (*HTTPSStatic) dispatcher()          {}
func (*TLSAlert) dispatcher()             {}

// chooseDownstream picks one address uniformly at random from a
// non-empty list (spec.md §4.D "Choice of downstream").
func chooseDownstream(downstreams []string) string {
	return downstreams[rand.Intn(len(downstreams))]
}
