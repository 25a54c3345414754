// Package transport provides the byte-stream dial/listen pair the sender and
// acceptor run over: plain TCP, or one QUIC stream per connection.
package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"os"
	"time"
)

// Listener accepts stream connections with a bounded wait, so an accept loop
// can poll a liveness flag between attempts.
type Listener interface {
	Accept(timeout time.Duration) (net.Conn, error)
	Close() error
	Addr() net.Addr
}

// Dial connects to addr over network ("tcp" or "quic"). tlsConfig is used by
// quic only; nil means the default insecure client config.
func Dial(ctx context.Context, network, addr string, tlsConfig *tls.Config) (net.Conn, error) {
	switch network {
	case "tcp":
		var d net.Dialer
		return d.DialContext(ctx, "tcp", addr)
	case "quic":
		return DialStream(ctx, addr, tlsConfig)
	default:
		return nil, fmt.Errorf("unknown network %q", network)
	}
}

// Listen binds addr on network ("tcp" or "quic"). For quic a nil tlsConfig
// gets an ephemeral self-signed certificate.
func Listen(network, addr string, tlsConfig *tls.Config) (Listener, error) {
	switch network {
	case "tcp":
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return nil, err
		}
		return &tcpListener{ln.(*net.TCPListener)}, nil
	case "quic":
		return listenQUIC(addr, tlsConfig)
	default:
		return nil, fmt.Errorf("unknown network %q", network)
	}
}

type tcpListener struct {
	*net.TCPListener
}

func (l *tcpListener) Accept(timeout time.Duration) (net.Conn, error) {
	if err := l.SetDeadline(time.Now().Add(timeout)); err != nil {
		return nil, err
	}
	return l.TCPListener.Accept()
}

// IsTimeout reports whether err is a bounded-accept expiry rather than a
// real failure.
func IsTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
