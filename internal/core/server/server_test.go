package server

import (
	"errors"
	"io"
	"net"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simple_server/internal/listener"
	"simple_server/internal/shared"
	"simple_server/internal/shared/config"
	"simple_server/internal/shared/logger"
	"simple_server/internal/shared/state"
)

const wire = "HTTP/1.1 200 OK\r\n" +
	"Content-Type: text/html\r\n" +
	"Content-Length: 22\r\n" +
	"Connection: close\r\n" +
	"\r\n" +
	"<h1>Hello, World!</h1>"

const getRequest = "GET / HTTP/1.1\r\nHost: x\r\n\r\n"

// flakyListener fails the first Accept call, then behaves normally.
type flakyListener struct {
	net.Listener
	failed atomic.Bool
}

func (l *flakyListener) Accept() (net.Conn, error) {
	if l.failed.CompareAndSwap(false, true) {
		return nil, errors.New("accept: interrupted system call")
	}
	return l.Listener.Accept()
}

func newTestServer(t *testing.T) (*Server, *shared.ThreadSafeBuffer) {
	t.Helper()
	cfg := config.Default()
	cfg.BindAddress = "127.0.0.1"
	cfg.Port = 0

	logs := shared.NewThreadSafeBuffer()
	s := New(cfg)
	s.log = logger.New(logs, zerolog.DebugLevel)
	return s, logs
}

func serve(t *testing.T, s *Server) string {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- s.Serve() }()
	t.Cleanup(func() {
		s.Close()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("Serve did not return after Close")
		}
	})
	return s.Addr().String()
}

func startServer(t *testing.T) (string, *Server, *shared.ThreadSafeBuffer) {
	t.Helper()
	s, logs := newTestServer(t)
	require.NoError(t, s.Start())
	return serve(t, s), s, logs
}

func roundTrip(t *testing.T, addr, request string) string {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))

	if request != "" {
		_, err = io.WriteString(conn, request)
		require.NoError(t, err)
	}
	// 半关闭写端，使服务端的读取在零字节时也能返回
	require.NoError(t, conn.(*net.TCPConn).CloseWrite())

	got, err := io.ReadAll(conn)
	require.NoError(t, err)
	return string(got)
}

func TestServe_GetRequest(t *testing.T) {
	addr, _, _ := startServer(t)
	assert.Equal(t, wire, roundTrip(t, addr, getRequest))
}

func TestServe_EmptyRequest(t *testing.T) {
	addr, _, _ := startServer(t)
	assert.Equal(t, wire, roundTrip(t, addr, ""))
}

func TestServe_BackToBack(t *testing.T) {
	addr, s, _ := startServer(t)

	assert.Equal(t, wire, roundTrip(t, addr, getRequest))
	assert.Equal(t, wire, roundTrip(t, addr, "POST /anything HTTP/1.0\r\n\r\nbody"))

	stats := s.Stats()
	assert.Equal(t, uint64(2), stats.Accepted)
	assert.Equal(t, uint64(2*len(wire)), stats.Uplink)
}

func TestServe_Sequential(t *testing.T) {
	addr, _, _ := startServer(t)

	first, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer first.Close()
	second, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer second.Close()

	_, err = io.WriteString(second, getRequest)
	require.NoError(t, err)

	// first 尚未发送任何数据，服务端阻塞在它的读取上
	require.NoError(t, second.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	buf := make([]byte, 1)
	_, err = second.Read(buf)
	var netErr net.Error
	require.True(t, errors.As(err, &netErr), "expected timeout, got %v", err)
	assert.True(t, netErr.Timeout())

	_, err = io.WriteString(first, getRequest)
	require.NoError(t, err)
	require.NoError(t, first.SetReadDeadline(time.Now().Add(5*time.Second)))
	got, err := io.ReadAll(first)
	require.NoError(t, err)
	assert.Equal(t, wire, string(got))

	require.NoError(t, second.SetReadDeadline(time.Now().Add(5*time.Second)))
	got, err = io.ReadAll(second)
	require.NoError(t, err)
	assert.Equal(t, wire, string(got))
}

func TestServe_ClosesConnection(t *testing.T) {
	addr, _, _ := startServer(t)

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	_, err = io.WriteString(conn, getRequest)
	require.NoError(t, err)

	got := make([]byte, len(wire))
	_, err = io.ReadFull(conn, got)
	require.NoError(t, err)
	assert.Equal(t, wire, string(got))

	// nothing after the body, then EOF well before the deadline
	n, err := conn.Read(make([]byte, 1))
	assert.Zero(t, n)
	assert.ErrorIs(t, err, io.EOF)
}

func TestServe_SurvivesAcceptError(t *testing.T) {
	s, logs := newTestServer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s.attach(listener.New(&flakyListener{Listener: ln}))
	addr := serve(t, s)

	assert.Equal(t, wire, roundTrip(t, addr, getRequest))
	assert.Equal(t, wire, roundTrip(t, addr, getRequest))
	assert.Contains(t, logs.String(), "accept failed")
	assert.Contains(t, logs.String(), "interrupted system call")
	assert.Equal(t, state.Serving, s.State())
}

func TestStart_LogsListeningLine(t *testing.T) {
	_, s, logs := startServer(t)

	port := s.Addr().(*net.TCPAddr).Port
	assert.Contains(t, logs.String(), "server listening on port "+strconv.Itoa(port))
	assert.Equal(t, state.Serving, s.State())
}

func TestStart_FailsOnBusyPort(t *testing.T) {
	_, running, _ := startServer(t)

	s, _ := newTestServer(t)
	s.cfg.Port = running.Addr().(*net.TCPAddr).Port
	err := s.Start()
	assert.Error(t, err)
	assert.Equal(t, state.Initializing, s.State())
}

func TestServe_BeforeStart(t *testing.T) {
	s, _ := newTestServer(t)
	assert.Error(t, s.Serve())
	assert.Nil(t, s.Addr())
}

func TestClose_StopsServe(t *testing.T) {
	s, _ := newTestServer(t)
	require.NoError(t, s.Start())

	done := make(chan error, 1)
	go func() { done <- s.Serve() }()

	require.NoError(t, s.Close())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return")
	}
	assert.Equal(t, state.Stopped, s.State())
}
