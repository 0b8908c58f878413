package transport

import (
	"net"

	"github.com/bft-labs/padship/internal/ports"
)

// DefaultPort is the TCP port used when an address names only a host.
const DefaultPort = "7777"

// WithDefaultPort appends DefaultPort to addr when it has no port.
func WithDefaultPort(addr string) string {
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr
	}
	return net.JoinHostPort(addr, DefaultPort)
}

// tune disables Nagle and, where the platform supports it, delayed ACKs.
// Failures only cost latency, so they are logged and ignored.
func tune(conn net.Conn, logger ports.Logger) {
	tcp, ok := conn.(*net.TCPConn)
	if !ok {
		return
	}
	if err := tcp.SetNoDelay(true); err != nil {
		logger.Warn("set no-delay failed", ports.Err(err))
	}
	if err := setQuickAck(tcp); err != nil {
		logger.Debug("set quick-ack failed", ports.Err(err))
	}
}
