package dispatch

import (
	"bufio"
	"bytes"
	"io"
	"net"
	"net/http"

	"github.com/thecubic/lurkr/internal/logging"
)

// Dispatch performs a server-side TLS handshake, reads a single
// HTTP/1.1 request off the resulting plaintext stream, and answers it
// with the configured status code and body regardless of method or
// path (spec.md §4.D). Transport errors after the response is flushed
// are routine (peer reset, cancelled write) and are logged at debug,
// not surfaced.
func (d *HTTPSStatic) Dispatch(conn net.Conn, log logging.Logger) {
	tlsConn, err := d.Acceptor.Handshake(conn)
	if err != nil {
		log.Debugf("https-static: handshake failed: %v", err)
		_ = conn.Close()
		return
	}
	defer tlsConn.Close()

	br := bufio.NewReader(tlsConn)
	req, err := http.ReadRequest(br)
	if err != nil && err != io.EOF {
		log.Debugf("https-static: reading request failed: %v", err)
		return
	}
	if req != nil {
		_ = req.Body.Close()
	}

	resp := &http.Response{
		StatusCode: d.StatusCode,
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     make(http.Header),
	}
	if len(d.Body) > 0 {
		resp.Body = io.NopCloser(bytes.NewReader(d.Body))
		resp.ContentLength = int64(len(d.Body))
	} else {
		resp.ContentLength = 0
	}

	if err := resp.Write(tlsConn); err != nil {
		log.Debugf("https-static: writing response failed: %v", err)
	}
}
