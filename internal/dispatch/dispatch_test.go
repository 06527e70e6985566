package dispatch

import (
	"bufio"
	"io"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func testLogger() logrusLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrusLogger{l}
}

// logrusLogger adapts *logrus.Logger to the logging.Logger interface
// without importing the logging package, keeping this test file focused
// on dispatch behavior.
type logrusLogger struct{ l *logrus.Logger }

func (l logrusLogger) Debug(args ...interface{})                { l.l.Debug(args...) }
func (l logrusLogger) Debugf(f string, args ...interface{})     { l.l.Debugf(f, args...) }
func (l logrusLogger) Info(args ...interface{})                 { l.l.Info(args...) }
func (l logrusLogger) Infof(f string, args ...interface{})      { l.l.Infof(f, args...) }
func (l logrusLogger) Warn(args ...interface{})                 { l.l.Warn(args...) }
func (l logrusLogger) Warnf(f string, args ...interface{})      { l.l.Warnf(f, args...) }
func (l logrusLogger) Error(args ...interface{})                { l.l.Error(args...) }
func (l logrusLogger) Errorf(f string, args ...interface{})     { l.l.Errorf(f, args...) }

func listenTCP(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	return ln
}

func TestTLSAlert_Dispatch_WritesWireBytesAndClosesWrite(t *testing.T) {
	ln := listenTCP(t)
	defer ln.Close()

	serverSide := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		require.NoError(t, err)
		serverSide <- c
	}()

	client, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer client.Close()

	conn := <-serverSide

	d := &TLSAlert{Level: AlertLevelFatal, Description: AlertUnrecognizedName}
	d.Dispatch(conn, testLogger())

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 7)
	_, err = io.ReadFull(client, buf)
	require.NoError(t, err)
	require.Equal(t, []byte{21, 3, 3, 0x00, 0x02, 2, 112}, buf)

	// After the record, the server half-closed its write side: the
	// client should observe EOF rather than block.
	r := bufio.NewReader(client)
	_, err = r.ReadByte()
	require.ErrorIs(t, err, io.EOF)
}

func TestTCPForward_Dispatch_ProxiesBytesToDownstream(t *testing.T) {
	downstreamLn := listenTCP(t)
	defer downstreamLn.Close()

	echoDone := make(chan struct{})
	go func() {
		defer close(echoDone)
		c, err := downstreamLn.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		io.Copy(c, c)
	}()

	frontLn := listenTCP(t)
	defer frontLn.Close()

	serverSide := make(chan net.Conn, 1)
	go func() {
		c, err := frontLn.Accept()
		require.NoError(t, err)
		serverSide <- c
	}()

	client, err := net.Dial("tcp", frontLn.Addr().String())
	require.NoError(t, err)
	defer client.Close()

	conn := <-serverSide

	d := &TCPForward{Downstreams: []string{downstreamLn.Addr().String()}}
	go d.Dispatch(conn, testLogger())

	_, err = client.Write([]byte("hello"))
	require.NoError(t, err)

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 5)
	_, err = io.ReadFull(client, buf)
	require.NoError(t, err)
	require.Equal(t, "hello", string(buf))
}
