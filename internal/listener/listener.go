// Package listener owns the passive socket and hands out accepted
// connections one at a time.
package listener

import (
	"fmt"
	"net"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/net/netutil"

	"simple_server/internal/shared/types"
)

// Listener wraps a bound, listening socket. At most one Connection it
// returned may be open at a time; Accept blocks until the previous one is closed.
type Listener struct {
	ln   net.Listener
	info *types.ListenerInfo

	accepted atomic.Uint64
	read     atomic.Uint64
	written  atomic.Uint64
}

// Start binds bindAddress:port and listens with the given backlog.
// Port 0 picks a free port.
func Start(bindAddress string, port, backlog int) (*Listener, error) {
	ln, err := listen(bindAddress, port, backlog)
	if err != nil {
		return nil, fmt.Errorf("listener failed on %s:%d: %w", bindAddress, port, err)
	}
	return New(ln), nil
}

// New wraps an already listening socket.
func New(ln net.Listener) *Listener {
	l := &Listener{ln: netutil.LimitListener(ln, 1)}
	if tcpAddr, ok := ln.Addr().(*net.TCPAddr); ok {
		l.info = &types.ListenerInfo{Address: tcpAddr.IP.String(), Port: tcpAddr.Port}
	} else {
		l.info = &types.ListenerInfo{Address: ln.Addr().String()}
	}
	return l
}

// Accept 阻塞直到有客户端连接。错误原样返回，
// errors.Is(err, net.ErrClosed) 表示监听器已关闭，其余错误都是暂时性的。
func (l *Listener) Accept() (*Connection, error) {
	conn, err := l.ln.Accept()
	if err != nil {
		return nil, err
	}
	l.accepted.Add(1)
	return newConnection(conn, uuid.NewString(), &l.read, &l.written), nil
}

func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

func (l *Listener) Info() *types.ListenerInfo {
	return l.info
}

func (l *Listener) Close() error {
	return l.ln.Close()
}

// Stats returns a snapshot of the traffic counters.
func (l *Listener) Stats() types.TrafficStats {
	return types.TrafficStats{
		Accepted: l.accepted.Load(),
		Uplink:   l.written.Load(),
		Downlink: l.read.Load(),
	}
}
