package frontdoor

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/thecubic/lurkr/internal/config"
	"github.com/thecubic/lurkr/internal/dispatch"
	"github.com/thecubic/lurkr/internal/identity"
	"github.com/thecubic/lurkr/internal/logging"
	"github.com/thecubic/lurkr/internal/matcher"
)

// captureClientHello drives a real tls.Client handshake over an
// in-memory pipe far enough to emit its ClientHello record, captures
// those wire bytes, and abandons the handshake. The caller can then
// replay the bytes onto a real socket without a second goroutine ever
// contending for that socket's read side.
func captureClientHello(t *testing.T, serverName string) []byte {
	t.Helper()
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go func() {
		c := tls.Client(client, &tls.Config{ServerName: serverName, InsecureSkipVerify: true})
		_ = c.Handshake()
	}()

	buf := make([]byte, sniPeekWindowForTest)
	n, err := server.Read(buf)
	require.NoError(t, err)
	return buf[:n]
}

// sniPeekWindowForTest mirrors internal/sni.PeekWindow without importing
// that package just for a constant.
const sniPeekWindowForTest = 10240

// TestServer_TCPForwardEndToEnd exercises an exact-match SNI rule
// forwarding raw bytes to a downstream echo server: a client's
// ClientHello carrying the matched SNI is forwarded byte-for-byte to
// the downstream, which echoes it straight back.
func TestServer_TCPForwardEndToEnd(t *testing.T) {
	hello := captureClientHello(t, "forward.example.com")

	downstreamLn, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer downstreamLn.Close()
	go func() {
		c, err := downstreamLn.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		io.Copy(c, c)
	}()

	store, err := identity.NewStore(nil)
	require.NoError(t, err)

	table, err := matcher.Compile([]config.NamedRuleSpec{
		{Name: "forward", RuleSpec: config.RuleSpec{
			Exact:       "forward.example.com",
			Downstreams: []string{downstreamLn.Addr().String()},
		}},
	}, store)
	require.NoError(t, err)

	log := logging.New(io.Discard, logging.Info)
	srv, err := New("127.0.0.1:0", table, log)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan error, 1)
	go func() { runDone <- srv.Run(ctx) }()
	defer func() {
		cancel()
		<-runDone
	}()

	raw, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	defer raw.Close()

	_, err = raw.Write(hello)
	require.NoError(t, err)

	raw.SetReadDeadline(time.Now().Add(2 * time.Second))
	echoed := make([]byte, len(hello))
	_, err = io.ReadFull(raw, echoed)
	require.NoError(t, err)
	require.Equal(t, hello, echoed)
}

func TestServer_UniversalDefaultEmitsTLSAlert(t *testing.T) {
	store, err := identity.NewStore(nil)
	require.NoError(t, err)

	table, err := matcher.Compile(nil, store)
	require.NoError(t, err)

	rules := table.Rules()
	require.Len(t, rules, 1)
	require.IsType(t, &dispatch.TLSAlert{}, rules[0].Dispatcher)

	log := logging.New(io.Discard, logging.Info)
	srv, err := New("127.0.0.1:0", table, log)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan error, 1)
	go func() { runDone <- srv.Run(ctx) }()
	defer func() {
		cancel()
		<-runDone
	}()

	hello := captureClientHello(t, "unmatched.example.com")

	raw, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	defer raw.Close()

	_, err = raw.Write(hello)
	require.NoError(t, err)

	raw.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 7)
	_, err = io.ReadFull(raw, buf)
	require.NoError(t, err)
	require.Equal(t, byte(21), buf[0], "expected a TLS alert record")
}
