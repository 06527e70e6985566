package sni

import "net"

// peekFallback is used for connection types that aren't *net.TCPConn
// (test doubles, net.Pipe endpoints) where no kernel-level peek
// primitive is available. It is also the entire peek implementation on
// non-unix build targets (see peek_other.go) — a real deployment target
// is unix, where peek_unix.go's MSG_PEEK path is used instead.
func peekFallback(conn net.Conn, buf []byte) (int, error) {
	type peeker interface {
		Peek(n int) ([]byte, error)
	}
	if p, ok := conn.(peeker); ok {
		b, err := p.Peek(len(buf))
		n := copy(buf, b)
		if n > 0 {
			return n, nil
		}
		return n, err
	}
	return conn.Read(buf)
}
