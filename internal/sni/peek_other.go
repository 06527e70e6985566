//go:build !unix

package sni

import "net"

// peek on non-unix targets falls back to a consuming read; lurkr's
// supported deployment targets are unix (see peek_unix.go), so no
// raw-forward deployment relies on this path being truly
// non-destructive.
func peek(conn net.Conn, buf []byte) (int, error) {
	return peekFallback(conn, buf)
}
