package server

import (
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/rs/zerolog"

	"simple_server/internal/listener"
	"simple_server/internal/responder"
	"simple_server/internal/shared/logger"
	"simple_server/internal/shared/state"
	"simple_server/internal/shared/types"
)

// Server 串行地接受连接：当前连接被处理并关闭之前，不会接受下一个连接。
type Server struct {
	cfg       *types.Config
	log       zerolog.Logger
	listener  *listener.Listener
	responder *responder.Responder
	state     state.Manager
	closeOnce sync.Once
}

func New(cfg *types.Config) *Server {
	return &Server{
		cfg:       cfg,
		log:       logger.WithComponent("server"),
		responder: responder.New(cfg.ServerConf),
	}
}

// Start 负责监听端口并准备服务，但不阻塞。
func (s *Server) Start() error {
	l, err := listener.Start(s.cfg.BindAddress, s.cfg.Port, s.cfg.Backlog)
	if err != nil {
		return fmt.Errorf("server failed to start: %w", err)
	}
	s.attach(l)
	return nil
}

func (s *Server) attach(l *listener.Listener) {
	s.listener = l
	s.log.Info().Msgf("server listening on port %d", l.Info().Port)
	s.state.Set(state.Serving)
}

// Serve runs the accept loop until the listener is closed. It must be
// called after Start.
func (s *Server) Serve() error {
	if s.listener == nil {
		return errors.New("Serve called before Start")
	}
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				s.log.Debug().Msg("listener is closing")
				return nil
			}
			s.log.Warn().Err(err).Msg("accept failed")
			continue
		}
		s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn *listener.Connection) {
	defer conn.Close()

	l := s.log.With().Str("trace_id", conn.ID).Logger()
	res := s.responder.Handle(conn)
	if err := res.Err(); err != nil {
		l.Debug().Err(err).Str("client_ip", conn.RemoteAddr().String()).Msg("connection handled with errors")
		return
	}
	l.Debug().
		Str("client_ip", conn.RemoteAddr().String()).
		Int("read", res.ReadBytes).
		Int("written", res.WrittenBytes).
		Msg("connection served")
}

func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) State() state.State {
	return s.state.Get()
}

func (s *Server) Stats() types.TrafficStats {
	if s.listener == nil {
		return types.TrafficStats{}
	}
	return s.listener.Stats()
}

// Close releases the listening socket, which makes Serve return.
func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.listener != nil {
			err = s.listener.Close()
		}
		s.state.Set(state.Stopped)
	})
	return err
}
