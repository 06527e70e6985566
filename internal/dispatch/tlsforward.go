package dispatch

import (
	"net"

	"github.com/thecubic/lurkr/internal/logging"
	"github.com/thecubic/lurkr/internal/pump"
)

// Dispatch performs a server-side TLS handshake against conn, then
// dials a randomly chosen downstream and pumps the decrypted bytes in
// both directions. A handshake failure terminates the connection
// without ever dialing out (spec.md §4.D).
func (d *TLSTerminateForward) Dispatch(conn net.Conn, log logging.Logger) {
	tlsConn, err := d.Acceptor.Handshake(conn)
	if err != nil {
		log.Debugf("tls-terminate-forward: handshake failed: %v", err)
		_ = conn.Close()
		return
	}
	defer tlsConn.Close()

	addr := chooseDownstream(d.Downstreams)
	log.Debugf("tls-terminate-forward: dialing downstream %s", addr)

	downstream, err := net.Dial("tcp", addr)
	if err != nil {
		log.Debugf("tls-terminate-forward: dial %s failed: %v", addr, err)
		return
	}
	defer downstream.Close()

	if err := pump.Copy(tlsConn, downstream); err != nil {
		log.Debugf("tls-terminate-forward: copy to %s ended with error: %v", addr, err)
	}
}
