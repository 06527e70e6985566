package frontdoor

import (
	"net"

	"github.com/google/uuid"

	"github.com/thecubic/lurkr/internal/logging"
	"github.com/thecubic/lurkr/internal/matcher"
	"github.com/thecubic/lurkr/internal/sni"
)

// handleConnection is the Connection Handler (spec.md §4.G): it glues
// the ClientHello Inspector, the Matcher Table, and a Dispatcher
// together for one accepted socket. The phases run strictly
// sequentially for this connection (spec.md §5); across connections
// there is no ordering guarantee, and none is needed since dispatchers
// share no per-connection state.
func handleConnection(conn net.Conn, table *matcher.Table, log *logging.Sink) {
	id := uuid.New().String()
	clog := log.WithFields(logging.Fields{
		"conn":   id,
		"remote": conn.RemoteAddr().String(),
	})

	outcome, indicated := sni.Inspect(conn)
	switch outcome {
	case sni.Refuse:
		clog.Debug("refusing connection: no usable TLS ClientHello")
		_ = conn.Close()
		return
	case sni.NoSNI:
		clog.Debug("no SNI indicated")
	case sni.Matched:
		clog.Debugf("indicated SNI: %s", indicated)
	}

	d := table.Lookup(indicated)
	if d == nil {
		// Unreachable: Compile always appends a trailing Universal
		// rule, so Lookup is total. Close defensively rather than leak
		// the socket if that invariant is ever violated.
		clog.Warn("no dispatcher matched (unreachable): closing")
		_ = conn.Close()
		return
	}

	d.Dispatch(conn, clog)
}
