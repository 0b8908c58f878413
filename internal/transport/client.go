package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/bft-labs/padship/internal/frame"
	"github.com/bft-labs/padship/internal/ports"
	"github.com/bft-labs/padship/pkg/relay"
)

// DefaultDialTimeout bounds a single connection attempt.
const DefaultDialTimeout = 5 * time.Second

// ClientConfig configures a Client.
type ClientConfig struct {
	// Addr is the server address, host:port.
	Addr string
	// DialTimeout bounds a single connection attempt.
	DialTimeout time.Duration
}

// Client connects to a server and pushes decoded events to the local
// consumer, reconnecting forever.
type Client struct {
	cfg     ClientConfig
	logger  ports.Logger
	metrics ports.Metrics
	waiter  ports.Waiter
	session *Session
}

// NewClient creates a client. waiter provides the delay between attempts;
// observer may be nil.
func NewClient(cfg ClientConfig, logger ports.Logger, metrics ports.Metrics, waiter ports.Waiter, observer Observer) *Client {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = DefaultDialTimeout
	}
	return &Client{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		waiter:  waiter,
		session: newSession(RoleClient, logger, observer),
	}
}

// Session returns the client session.
func (c *Client) Session() *Session { return c.session }

// Run connects and reads until ctx is done, returning ctx.Err(), or until out
// reports relay.ErrPeerGone, returning nil. Transport failures never end
// Run; they lead to a reconnect after the waiter's delay.
func (c *Client) Run(ctx context.Context, out ports.Pusher) error {
	for {
		if err := c.session.transition(SessionConnecting, "", "dialing"); err != nil {
			return err
		}

		conn, err := c.connect(ctx)
		if err != nil {
			c.session.end("cancelled")
			return err
		}

		c.waiter.Reset()
		peer := conn.RemoteAddr().String()
		tune(conn, c.logger)
		c.metrics.SessionStarted()
		c.logger.Info("connected", ports.String("peer", peer))
		if err := c.session.transition(SessionConnected, peer, "connected"); err != nil {
			_ = conn.Close()
			return err
		}

		err = c.read(ctx, conn, out)
		_ = conn.Close()

		switch {
		case ctx.Err() != nil:
			c.session.end("cancelled")
			return ctx.Err()
		case errors.Is(err, relay.ErrPeerGone):
			c.logger.Info("consumer gone, closing connection")
			c.session.end("consumer gone")
			return nil
		}

		c.logger.Warn("disconnected", ports.String("peer", peer), ports.Err(err))
		if err := c.session.transition(SessionDisconnected, "", err.Error()); err != nil {
			return err
		}
		if err := c.waiter.Wait(ctx); err != nil {
			c.session.end("cancelled")
			return err
		}
	}
}

// connect dials until it succeeds or ctx is done.
func (c *Client) connect(ctx context.Context) (net.Conn, error) {
	for {
		dialCtx, cancel := context.WithTimeout(ctx, c.cfg.DialTimeout)
		var d net.Dialer
		conn, err := d.DialContext(dialCtx, "tcp", c.cfg.Addr)
		cancel()
		if err == nil {
			return conn, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		c.metrics.ConnectFailed()
		c.logger.Warn("connect failed, retrying",
			ports.String("addr", c.cfg.Addr),
			ports.Err(err),
		)
		if err := c.waiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
}

// read decodes frames until the connection fails or out refuses an event.
// Frames with an unknown tag are counted and skipped.
func (c *Client) read(ctx context.Context, conn net.Conn, out ports.Pusher) error {
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	var f frame.Frame
	for {
		if err := frame.ReadFrame(conn, &f); err != nil {
			return fmt.Errorf("read: %w", err)
		}

		ev, err := frame.Decode(f)
		if err != nil {
			var ute *frame.UnknownTagError
			if errors.As(err, &ute) {
				c.metrics.FrameRejected(ute.Tag)
			}
			c.logger.Warn("invalid frame", ports.Err(err))
			continue
		}

		c.metrics.FrameReceived(ev.Kind)
		if err := out.Push(ctx, ev); err != nil {
			return err
		}
	}
}
