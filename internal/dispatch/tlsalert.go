package dispatch

import (
	"net"

	"github.com/thecubic/lurkr/internal/logging"
)

// halfCloser lets Dispatch issue a write-side shutdown (FIN) after the
// alert record instead of a hard close (RST), per spec.md §4.D / §7:
// "the client sees a TLS fatal alert ... then FIN — not a RST".
type halfCloser interface {
	CloseWrite() error
}

// Dispatch writes the alert's wire encoding to conn, then shuts down
// the write side so the peer observes an orderly close. No response is
// expected or read back.
func (d *TLSAlert) Dispatch(conn net.Conn, log logging.Logger) {
	defer conn.Close()

	if _, err := conn.Write(encodeAlert(d.Level, d.Description)); err != nil {
		log.Debugf("tls-alert: write failed: %v", err)
		return
	}

	if hc, ok := conn.(halfCloser); ok {
		_ = hc.CloseWrite()
	}
}
