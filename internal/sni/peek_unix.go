//go:build unix

package sni

import (
	"fmt"
	"net"
	"syscall"
)

// peek reads up to len(buf) bytes from conn using MSG_PEEK, leaving the
// bytes in the kernel receive buffer so a later raw-TCP forward sees
// them again untouched (spec.md §9 "Non-destructive inspection" — a
// kernel-level peek primitive, not read-into-buffer-and-prepend).
func peek(conn net.Conn, buf []byte) (int, error) {
	tc, ok := conn.(*net.TCPConn)
	if !ok {
		return peekFallback(conn, buf)
	}

	raw, err := tc.SyscallConn()
	if err != nil {
		return 0, fmt.Errorf("obtaining raw connection: %w", err)
	}

	var (
		n       int
		peekErr error
	)
	ctrlErr := raw.Read(func(fd uintptr) bool {
		n, _, peekErr = syscall.Recvfrom(int(fd), buf, syscall.MSG_PEEK)
		if peekErr == syscall.EAGAIN {
			// Not yet readable; let the runtime park us until it is.
			return false
		}
		return true
	})
	if ctrlErr != nil {
		return 0, fmt.Errorf("peeking socket: %w", ctrlErr)
	}
	if peekErr != nil {
		return 0, fmt.Errorf("peeking socket: %w", peekErr)
	}
	return n, nil
}
