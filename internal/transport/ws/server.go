package ws

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"smartface-server-go/internal/app/services"
	"smartface-server-go/internal/platform/config"
	"smartface-server-go/internal/platform/logging"
)

const defaultCloseTimeout = 5 * time.Second

// Server exposes the voice pipeline over a websocket endpoint.
type Server struct {
	cfg      config.ServerConfig
	pipeline *services.Pipeline
	hub      *Hub
	logger   *logging.Logger

	upgrader *websocket.Upgrader
	httpSrv  *http.Server
}

// NewServer builds the websocket transport server.
func NewServer(cfg config.ServerConfig, pipeline *services.Pipeline, logger *logging.Logger) *Server {
	return &Server{
		cfg:      cfg,
		pipeline: pipeline,
		hub:      NewHub(),
		logger:   logger,
		upgrader: &websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Start boots the HTTP server and listens for websocket upgrades. It blocks
// until the listener fails or ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s.httpSrv != nil {
		return nil
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.Handle)

	addr := fmt.Sprintf("%s:%d", s.cfg.IP, s.cfg.Port)
	s.httpSrv = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	if ctx != nil {
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeoutCause(context.Background(), defaultCloseTimeout, context.Cause(ctx))
			defer cancel()
			_ = s.httpSrv.Shutdown(shutdownCtx)
		}()
	}

	s.logger.InfoTag("WebSocket", "listening on ws://%s/", addr)

	err := s.httpSrv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully stops the websocket server and active sessions.
func (s *Server) Stop() error {
	if s.httpSrv == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeoutCause(context.Background(), defaultCloseTimeout, ErrSessionShutdown)
	defer cancel()

	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil && err != http.ErrServerClosed {
		return err
	}

	s.hub.CloseAll(ErrSessionShutdown)
	s.httpSrv = nil
	return nil
}

// Count exposes the number of active sessions.
func (s *Server) Count() int {
	return s.hub.Count()
}

// Handle upgrades the HTTP connection and launches a new voice session.
func (s *Server) Handle(w http.ResponseWriter, req *http.Request) {
	socket, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		s.logger.ErrorTag("WebSocket", "upgrade failed: %v", err)
		return
	}

	// The request context dies when Handle returns, so the session gets its
	// own lifetime tied to the hub.
	session := NewSession(context.Background(), s.pipeline, NewConnection(req.RemoteAddr, socket), s.logger)
	s.hub.Register(session)
	s.logger.InfoTag("WebSocket", "session %s connected from %s", session.ID(), req.RemoteAddr)

	go session.Run(func(runErr error) {
		s.hub.Unregister(session.ID())
		if runErr != nil {
			s.logger.WarnTag("WebSocket", "session %s ended with error: %v", session.ID(), runErr)
			return
		}
		s.logger.InfoTag("WebSocket", "session %s closed", session.ID())
	})
}
