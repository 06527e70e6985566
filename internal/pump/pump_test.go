package pump

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// tcpPair returns two *net.TCPConn connected to each other over the
// loopback interface, so both sides satisfy halfCloser.
func tcpPair(t *testing.T) (net.Conn, net.Conn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	serverCh := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		require.NoError(t, err)
		serverCh <- c
	}()

	client, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)

	server := <-serverCh
	return client, server
}

func TestCopy_ProxiesBothDirections(t *testing.T) {
	clientA, serverA := tcpPair(t)
	defer clientA.Close()
	defer serverA.Close()
	clientB, serverB := tcpPair(t)
	defer clientB.Close()
	defer serverB.Close()

	done := make(chan error, 1)
	go func() { done <- Copy(serverA, serverB) }()

	clientA.Write([]byte("to-b"))
	buf := make([]byte, 4)
	clientB.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, err := io.ReadFull(clientB, buf)
	require.NoError(t, err)
	require.Equal(t, "to-b", string(buf))

	clientB.Write([]byte("to-a"))
	clientA.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, err = io.ReadFull(clientA, buf)
	require.NoError(t, err)
	require.Equal(t, "to-a", string(buf))

	clientA.Close()
	clientB.Close()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Copy did not return after both clients closed")
	}
}

func TestCopy_HalfCloseIsIndependentPerDirection(t *testing.T) {
	clientA, serverA := tcpPair(t)
	defer clientA.Close()
	defer serverA.Close()
	clientB, serverB := tcpPair(t)
	defer clientB.Close()
	defer serverB.Close()

	go Copy(serverA, serverB)

	// Closing only the write side of clientA's read source (clientA
	// itself, via CloseWrite) should propagate as EOF to clientB's read
	// without breaking clientB -> clientA traffic.
	clientA.(*net.TCPConn).CloseWrite()

	clientB.SetReadDeadline(time.Now().Add(2 * time.Second))
	r := make([]byte, 1)
	_, err := clientB.Read(r)
	require.ErrorIs(t, err, io.EOF)

	clientB.Write([]byte("x"))
	clientA.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 1)
	_, err = io.ReadFull(clientA, buf)
	require.NoError(t, err)
	require.Equal(t, "x", string(buf))
}
