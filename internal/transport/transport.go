// Package transport owns the TCP plumbing: accepting client connections,
// dialing server connections, disabling Nagle on both, and pairing each
// connection's end with the correctly-orientated cipher stream pair.
package transport

import (
	"context"
	"fmt"
	"net"

	"github.com/relaywire/realmproxy/internal/frame"
	"github.com/relaywire/realmproxy/internal/mappings"
)

// ErrListen wraps a failure to bind the client-facing listener.
var ErrListen = fmt.Errorf("transport: listen")

// ErrDial wraps a failure to connect to a backend server.
var ErrDial = fmt.Errorf("transport: dial")

// ConfigureStream disables Nagle's algorithm on conn if it is a TCP
// connection, so small game packets are not delayed waiting to coalesce.
func ConfigureStream(conn net.Conn) error {
	tcp, ok := conn.(*net.TCPConn)
	if !ok {
		return nil
	}
	if err := tcp.SetNoDelay(true); err != nil {
		return fmt.Errorf("transport: set nodelay: %w", err)
	}
	return nil
}

// WrapClient builds the frame codec for an accepted (client-facing)
// connection, configured as the client-side end of a cipher pair.
func WrapClient(m *mappings.Mappings) (*frame.Codec, error) {
	pair, err := m.ClientCiphers()
	if err != nil {
		return nil, err
	}
	return frame.New(pair), nil
}

// WrapServer builds the frame codec for a dialed (backend-facing)
// connection, configured as the server-side end of a cipher pair.
func WrapServer(m *mappings.Mappings) (*frame.Codec, error) {
	pair, err := m.ServerCiphers()
	if err != nil {
		return nil, err
	}
	return frame.New(pair), nil
}

// Listener wraps net.Listener, configuring every accepted connection's
// stream options before returning it.
type Listener struct {
	ln net.Listener
}

// Listen binds addr for the client-facing side of the proxy.
func Listen(addr string) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrListen, err)
	}
	return &Listener{ln: ln}, nil
}

// Accept waits for and configures the next incoming connection.
func (l *Listener) Accept() (net.Conn, error) {
	conn, err := l.ln.Accept()
	if err != nil {
		return nil, err
	}
	if err := ConfigureStream(conn); err != nil {
		return conn, err
	}
	return conn, nil
}

// Addr returns the listener's bound address.
func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

// Close stops accepting new connections.
func (l *Listener) Close() error { return l.ln.Close() }

// Dial connects to a backend server and builds its server-facing codec.
func Dial(ctx context.Context, addr string, m *mappings.Mappings) (net.Conn, *frame.Codec, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrDial, addr, err)
	}
	if err := ConfigureStream(conn); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("%w: %v", ErrDial, err)
	}
	codec, err := WrapServer(m)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return conn, codec, nil
}
