package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/bft-labs/padship/internal/domain"
	"github.com/bft-labs/padship/internal/frame"
	"github.com/bft-labs/padship/internal/ports"
	"github.com/bft-labs/padship/pkg/relay"
)

// ServerConfig configures a Server.
type ServerConfig struct {
	// Addr is the listen address, host:port.
	Addr string
	// QueueCapacity bounds the relay between producer and socket.
	QueueCapacity int
}

// Producer fills the relay for one connected session. It is called once,
// after the peer has connected, and should return when ctx is done or when
// Push fails. Returning ends the session once queued events are written.
type Producer func(ctx context.Context, out ports.Pusher) error

// Server accepts a single peer and writes the producer's events to it.
type Server struct {
	cfg     ServerConfig
	logger  ports.Logger
	metrics ports.Metrics
	session *Session

	mu sync.Mutex
	ln net.Listener
}

// NewServer creates a server. observer may be nil.
func NewServer(cfg ServerConfig, logger ports.Logger, metrics ports.Metrics, observer Observer) *Server {
	return &Server{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		session: newSession(RoleServer, logger, observer),
	}
}

// Session returns the server session.
func (s *Server) Session() *Session { return s.session }

// Listen binds the configured address. A bind failure is a startup error.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		s.session.end("listen failed")
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}

	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	s.logger.Info("listening", ports.String("addr", ln.Addr().String()))
	return s.session.transition(SessionListening, "", "listening")
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Run accepts the first peer, starts produce and streams frames until the
// peer or the producer goes away. The session always ends in Ended.
// Run returns ctx.Err() if ctx was cancelled and nil when the session ended
// on its own.
func (s *Server) Run(ctx context.Context, produce Producer) error {
	if s.Addr() == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()

	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	conn, err := ln.Accept()
	stop()
	_ = ln.Close()

	if err != nil {
		if ctx.Err() != nil {
			s.session.end("cancelled")
			return ctx.Err()
		}
		s.session.end("accept failed")
		return fmt.Errorf("accept: %w", err)
	}

	peer := conn.RemoteAddr().String()
	tune(conn, s.logger)
	s.metrics.SessionStarted()
	s.logger.Info("client connected", ports.String("peer", peer))
	if err := s.session.transition(SessionConnected, peer, "accepted"); err != nil {
		_ = conn.Close()
		return err
	}

	reason := s.stream(ctx, conn, produce)

	s.logger.Info("client disconnected", ports.String("peer", peer), ports.String("reason", reason))
	s.session.end(reason)
	return ctx.Err()
}

// stream runs the producer and the write loop for one connection and
// returns why it stopped.
func (s *Server) stream(ctx context.Context, conn net.Conn, produce Producer) string {
	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	stop := context.AfterFunc(sessionCtx, func() { _ = conn.Close() })
	defer stop()
	defer conn.Close()

	q := relay.New[domain.Event](s.cfg.QueueCapacity)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer q.CloseProducer()
		if err := produce(sessionCtx, q); err != nil && !errors.Is(err, relay.ErrPeerGone) && sessionCtx.Err() == nil {
			s.logger.Warn("producer stopped", ports.Err(err))
		}
	}()
	defer func() {
		q.CloseConsumer()
		cancel()
		wg.Wait()
	}()

	for {
		ev, err := q.Pop(sessionCtx)
		if err != nil {
			switch {
			case errors.Is(err, relay.ErrPeerGone):
				return "producer finished"
			case ctx.Err() != nil:
				return "cancelled"
			default:
				return err.Error()
			}
		}

		if err := frame.WriteFrame(conn, frame.Encode(ev)); err != nil {
			if ctx.Err() != nil {
				return "cancelled"
			}
			s.logger.Warn("write failed", ports.Err(err))
			return "write failed"
		}
		s.metrics.FrameSent(ev.Kind)
		s.metrics.QueueDepth(q.Len())
	}
}
