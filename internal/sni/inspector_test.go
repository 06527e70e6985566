package sni

import (
	"crypto/tls"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func acceptOne(t *testing.T, ln net.Listener) <-chan net.Conn {
	t.Helper()
	ch := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			ch <- c
		}
	}()
	return ch
}

func TestInspect_MatchedSNI(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	serverSide := acceptOne(t, ln)

	go func() {
		raw, err := net.Dial("tcp", ln.Addr().String())
		if err != nil {
			return
		}
		defer raw.Close()
		// The handshake will never complete (nothing answers the
		// ClientHello), but the record itself reaches the listener
		// before this blocks waiting for a response.
		client := tls.Client(raw, &tls.Config{
			ServerName:         "front.example.com",
			InsecureSkipVerify: true,
		})
		_ = client.Handshake()
	}()

	conn := <-serverSide
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	outcome, indicated := Inspect(conn)
	require.Equal(t, Matched, outcome)
	require.Equal(t, "front.example.com", indicated)
}

func TestInspect_PlaintextHTTPIsRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	serverSide := acceptOne(t, ln)

	go func() {
		raw, err := net.Dial("tcp", ln.Addr().String())
		if err != nil {
			return
		}
		defer raw.Close()
		raw.Write([]byte("GET / HTTP/1.1\r\nHost: example.com\r\n\r\n"))
		time.Sleep(200 * time.Millisecond)
	}()

	conn := <-serverSide
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	outcome, indicated := Inspect(conn)
	require.Equal(t, Refuse, outcome)
	require.Empty(t, indicated)
}

func TestInspect_ImmediateCloseIsRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	serverSide := acceptOne(t, ln)

	go func() {
		raw, err := net.Dial("tcp", ln.Addr().String())
		if err != nil {
			return
		}
		raw.Close()
	}()

	conn := <-serverSide
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	outcome, indicated := Inspect(conn)
	require.Equal(t, Refuse, outcome)
	require.Empty(t, indicated)
}

func TestInspect_DoesNotConsumeBytes(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	serverSide := acceptOne(t, ln)

	go func() {
		raw, err := net.Dial("tcp", ln.Addr().String())
		if err != nil {
			return
		}
		defer raw.Close()
		client := tls.Client(raw, &tls.Config{
			ServerName:         "again.example.com",
			InsecureSkipVerify: true,
		})
		_ = client.Handshake()
	}()

	conn := <-serverSide
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	outcome1, name1 := Inspect(conn)
	require.Equal(t, Matched, outcome1)

	// Peeking is non-destructive: a second Inspect over the same conn
	// sees the identical bytes and reaches the identical verdict.
	outcome2, name2 := Inspect(conn)
	require.Equal(t, outcome1, outcome2)
	require.Equal(t, name1, name2)
}
