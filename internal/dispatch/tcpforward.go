package dispatch

import (
	"net"

	"github.com/thecubic/lurkr/internal/logging"
	"github.com/thecubic/lurkr/internal/pump"
)

// Dispatch dials a randomly chosen downstream and pumps bytes in both
// directions. Connect failures close the client socket; mid-copy
// UnexpectedEOF-class errors are swallowed (spec.md §4.D).
func (d *TCPForward) Dispatch(conn net.Conn, log logging.Logger) {
	addr := chooseDownstream(d.Downstreams)
	log.Debugf("tcp-forward: dialing downstream %s", addr)

	downstream, err := net.Dial("tcp", addr)
	if err != nil {
		log.Debugf("tcp-forward: dial %s failed: %v", addr, err)
		_ = conn.Close()
		return
	}
	defer downstream.Close()
	defer conn.Close()

	if err := pump.Copy(conn, downstream); err != nil {
		log.Debugf("tcp-forward: copy to %s ended with error: %v", addr, err)
	}
}
