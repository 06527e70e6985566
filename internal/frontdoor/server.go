// Package frontdoor implements the Acceptor Loop and Connection Handler
// (spec.md §4.F, §4.G): bind, accept, spawn a handler per connection,
// and drain cleanly on shutdown.
package frontdoor

import (
	"context"
	"fmt"
	"net"

	"golang.org/x/sync/errgroup"

	"github.com/thecubic/lurkr/internal/logging"
	"github.com/thecubic/lurkr/internal/matcher"
)

// Server owns the listening socket and the shared, read-only Matcher
// Table every connection task consults.
type Server struct {
	ln    net.Listener
	table *matcher.Table
	log   *logging.Sink
}

// New binds addr (host:port) and returns a Server ready to Run. Bind
// failure is startup-fatal per spec.md §7.
func New(addr string, table *matcher.Table, log *logging.Sink) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("binding %s: %w", addr, err)
	}
	return &Server{ln: ln, table: table, log: log}, nil
}

// Addr returns the bound address, useful in tests that bind to ":0".
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Run accepts connections until ctx is cancelled, spawning one task per
// connection via an errgroup so a panic inside any single task is
// captured and re-raised after every in-flight task has drained
// (spec.md §4.F, §5). Run does not force-close live connections on
// shutdown: it stops accepting and waits for the last one to finish on
// its own.
func (s *Server) Run(ctx context.Context) error {
	var g errgroup.Group

	go func() {
		<-ctx.Done()
		s.log.Info("shutdown signal received: closing listener")
		_ = s.ln.Close()
	}()

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				// Expected: Close() above unblocked Accept. Stop
				// accepting and drain every in-flight task before
				// returning (spec.md §4.F) without force-closing them.
				return g.Wait()
			default:
			}
			if ne, ok := err.(net.Error); ok && ne.Temporary() { //nolint:staticcheck
				s.log.Warnf("transient accept error: %v", err)
				continue
			}
			s.log.Errorf("accept error: %v", err)
			return g.Wait()
		}

		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("connection task panicked: %v", r)
				}
			}()
			handleConnection(conn, s.table, s.log)
			return nil
		})
	}
}
