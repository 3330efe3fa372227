// Package server runs the client-facing listener: it accepts connections,
// serves the policy-file preamble, and hands everything else off to a new
// relay.
package server

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/relaywire/realmproxy/internal/directory"
	"github.com/relaywire/realmproxy/internal/logging"
	"github.com/relaywire/realmproxy/internal/mappings"
	"github.com/relaywire/realmproxy/internal/metrics"
	"github.com/relaywire/realmproxy/internal/pipe"
	"github.com/relaywire/realmproxy/internal/plugin"
	"github.com/relaywire/realmproxy/internal/policy"
	"github.com/relaywire/realmproxy/internal/transport"
)

// ErrContext wraps a failure to shut down within the caller's deadline.
var ErrContext = fmt.Errorf("server: context")

// Server owns the client-facing listener and the set of relays it spawns.
type Server struct {
	mu            sync.RWMutex
	addr          string
	mappings      *mappings.Mappings
	directory     *directory.Directory
	defaultServer string
	factories     []plugin.Factory
	logger        *slog.Logger
	listener      *transport.Listener

	registry *pipe.Registry

	readyCh   chan struct{}
	readyOnce sync.Once

	totalAccepted atomic.Uint64
	totalPolicy   atomic.Uint64
	totalFailed   atomic.Uint64
}

// Option configures a Server at construction time.
type Option func(*Server)

// WithListenAddr sets the client-facing bind address (default ":0").
func WithListenAddr(addr string) Option { return func(s *Server) { s.addr = addr } }

// WithMappings sets the shared cipher key and ID table.
func WithMappings(m *mappings.Mappings) Option { return func(s *Server) { s.mappings = m } }

// WithDirectory sets the server-name resolver.
func WithDirectory(d *directory.Directory) Option { return func(s *Server) { s.directory = d } }

// WithDefaultServer sets which directory entry new relays dial.
func WithDefaultServer(name string) Option { return func(s *Server) { s.defaultServer = name } }

// WithPlugins registers plugin factories run for every relay.
func WithPlugins(factories ...plugin.Factory) Option {
	return func(s *Server) { s.factories = factories }
}

// WithLogger overrides the server's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New builds a Server; Serve must be called to start accepting connections.
func New(opts ...Option) *Server {
	s := &Server{
		addr:     ":0",
		logger:   logging.L(),
		registry: pipe.NewRegistry(),
		readyCh:  make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Addr returns the listener's bound address, valid once Ready is closed.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// Ready is closed once the listener is bound and accepting.
func (s *Server) Ready() <-chan struct{} { return s.readyCh }

// ActiveRelays returns the number of relays currently in progress.
func (s *Server) ActiveRelays() int { return s.registry.Count() }

// Serve binds the listener and accepts connections until ctx is cancelled
// or a fatal accept error occurs.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := transport.Listen(s.Addr())
	if err != nil {
		metrics.IncError(metrics.ErrTransport)
		return err
	}
	s.mu.Lock()
	s.addr = ln.Addr().String()
	s.listener = ln
	s.mu.Unlock()
	s.readyOnce.Do(func() { close(s.readyCh) })
	s.logger.Info("tcp_listen", "addr", s.Addr())

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			metrics.IncError(metrics.ErrTransport)
			return fmt.Errorf("transport: accept: %w", err)
		}
		s.totalAccepted.Add(1)
		go s.handleConn(ctx, conn)
	}
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	connLogger := s.logger.With("remote", conn.RemoteAddr().String())

	reader := bufio.NewReader(conn)
	matched, err := policy.Detect(reader, conn)
	if err != nil {
		connLogger.Warn("policy_preamble_failed", "error", err)
		metrics.IncError(metrics.ErrHandshake)
		_ = conn.Close()
		return
	}
	if matched {
		s.totalPolicy.Add(1)
		metrics.IncPolicyRequest()
		connLogger.Info("policy_request_served")
		_ = conn.Close()
		return
	}

	clientCodec, err := transport.WrapClient(s.mappings)
	if err != nil {
		connLogger.Error("cipher_init_failed", "error", err)
		_ = conn.Close()
		return
	}

	id := s.registry.NextID()
	relay := pipe.NewRelay(id, s.mappings, s.directory, s.defaultServer, s.factories)
	s.registry.Add(relay)
	defer s.registry.Remove(relay)
	metrics.IncAccepted()

	relayLogger := logging.ForRelay(id, conn.RemoteAddr().String())
	if err := relay.Run(ctx, conn, reader, clientCodec); err != nil {
		s.totalFailed.Add(1)
		metrics.IncFailed()
		metrics.IncError(mapErrToMetric(err))
		relayLogger.Warn("relay_ended", "error", err)
		return
	}
	relayLogger.Info("relay_ended")
}

// Shutdown closes the listener and waits for every in-flight relay to drain,
// or until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	ln := s.listener
	s.listener = nil
	s.mu.Unlock()
	if ln != nil {
		_ = ln.Close()
	}

	done := make(chan struct{})
	go func() {
		for s.registry.Count() > 0 {
			time.Sleep(10 * time.Millisecond)
		}
		close(done)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrContext, ctx.Err())
	case <-done:
		s.logger.Info("shutdown_summary",
			"accepted", s.totalAccepted.Load(),
			"policy_requests", s.totalPolicy.Load(),
			"failed", s.totalFailed.Load(),
		)
		return nil
	}
}
