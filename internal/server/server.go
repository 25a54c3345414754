// Package server implements the receiving half: an acceptor that spawns one
// receiver session per connection and persists each incoming file under a
// destination directory.
package server

import (
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"dev.c0redev.filedrop/internal/store"
	"dev.c0redev.filedrop/internal/transport"
)

// StatusFunc receives human-readable server events; nil discards them.
type StatusFunc func(msg string)

// acceptPoll bounds each accept wait so the loop can check the running flag.
const acceptPoll = 500 * time.Millisecond

// Config for a Server.
type Config struct {
	Network string      // "tcp" (default) or "quic"
	Addr    string      // host:port to bind
	Dir     string      // destination directory, created if missing
	TLS     *tls.Config // quic only; nil = ephemeral self-signed
	Status  StatusFunc
	History *store.DB // optional transfer history
}

// Server accepts connections and runs one receiver session per connection.
// Sessions are spawned untracked and unbounded; Stop ends the accept loop
// only and leaves in-flight transfers to finish or fail on their own.
type Server struct {
	cfg Config

	mu      sync.Mutex
	running bool
	ln      transport.Listener
	done    chan struct{}
}

func New(cfg Config) *Server {
	return &Server{cfg: cfg}
}

func (s *Server) report(format string, args ...any) {
	if s.cfg.Status != nil {
		s.cfg.Status(fmt.Sprintf(format, args...))
	}
}

// Start creates the destination directory, binds the listener and launches
// the accept loop.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("server already running")
	}
	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", s.cfg.Dir, err)
	}
	network := s.cfg.Network
	if network == "" {
		network = "tcp"
	}
	ln, err := transport.Listen(network, s.cfg.Addr, s.cfg.TLS)
	if err != nil {
		return fmt.Errorf("listen %s %s: %w", network, s.cfg.Addr, err)
	}
	s.ln = ln
	s.running = true
	s.done = make(chan struct{})
	go s.acceptLoop(ln, s.done)
	s.report("listening on %s", ln.Addr())
	return nil
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

func (s *Server) alive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Server) acceptLoop(ln transport.Listener, done chan struct{}) {
	defer close(done)
	defer ln.Close()
	for s.alive() {
		conn, err := ln.Accept(acceptPoll)
		if err != nil {
			if transport.IsTimeout(err) {
				continue
			}
			if s.alive() {
				s.report("accept: %v", err)
			}
			return
		}
		sess := &session{
			id:     uuid.NewString(),
			conn:   conn,
			dir:    s.cfg.Dir,
			status: s.cfg.Status,
			db:     s.cfg.History,
		}
		go sess.run()
	}
}

// Stop clears the running flag and waits for the accept loop to observe it,
// which happens within one poll interval. In-flight sessions are not drained.
func (s *Server) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	done := s.done
	s.mu.Unlock()
	<-done
	s.report("server stopped")
}
