package ws

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"smartface-server-go/internal/app/services"
	"smartface-server-go/internal/domain/audio"
	"smartface-server-go/internal/platform/logging"
)

const frameBuffer = 128

// controlMessage is the JSON envelope clients send on the text channel.
// Binary messages carry raw little-endian 16-bit PCM frames instead.
type controlMessage struct {
	Type string `json:"type"` // text | end
	Text string `json:"text,omitempty"`
}

// Session drives one voice conversation over a websocket connection. Binary
// frames from the client feed the endpoint detector; each completed turn is
// sent back as a JSON message followed by the synthesized reply audio.
type Session struct {
	id       string
	pipeline *services.Pipeline
	conn     *Connection
	source   *audio.StreamSource
	logger   *logging.Logger

	ctx    context.Context
	cancel context.CancelCauseFunc
}

// NewSession constructs a managed websocket session.
func NewSession(parent context.Context, pipeline *services.Pipeline, conn *Connection, logger *logging.Logger) *Session {
	sessionCtx, cancel := context.WithCancelCause(parent)
	return &Session{
		id:       pipeline.NewSessionID(),
		pipeline: pipeline,
		conn:     conn,
		source:   audio.NewStreamSource(frameBuffer),
		logger:   logger,
		ctx:      sessionCtx,
		cancel:   cancel,
	}
}

// ID exposes the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Run executes the session until the conversation ends or the client
// disconnects, then invokes onDone.
func (s *Session) Run(onDone func(error)) {
	var runErr error
	defer func() {
		s.Close(runErr)
		if onDone != nil {
			onDone(runErr)
		}
	}()

	go s.readLoop()
	runErr = s.pipeline.Run(s.ctx, s.id, s.source, s.emit)
}

// readLoop forwards client messages into the audio source until the
// connection drops or the client signals the end of the stream.
func (s *Session) readLoop() {
	for {
		messageType, payload, err := s.conn.Read()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) || s.conn.IsClosed() {
				s.source.CloseSend()
			} else {
				s.source.Fail(fmt.Errorf("websocket read: %w", err))
			}
			return
		}

		switch messageType {
		case websocket.BinaryMessage:
			if !s.source.Push(payload) {
				s.logger.WarnTag("WebSocket", "session %s dropped an audio frame", s.id)
			}
		case websocket.TextMessage:
			s.handleControl(payload)
		}
	}
}

func (s *Session) handleControl(payload []byte) {
	var ctrl controlMessage
	if err := sonic.Unmarshal(payload, &ctrl); err != nil {
		s.logger.WarnTag("WebSocket", "session %s bad control message: %v", s.id, err)
		return
	}

	switch ctrl.Type {
	case "text":
		// Typed input shares the session but bypasses audio capture.
		turn, err := s.pipeline.ProcessText(s.ctx, s.id, ctrl.Text)
		if err != nil {
			s.logger.ErrorTag("WebSocket", "session %s text turn failed: %v", s.id, err)
			return
		}
		if err := s.emit(turn); err != nil {
			s.logger.WarnTag("WebSocket", "session %s emit failed: %v", s.id, err)
			return
		}
		if turn.Done {
			s.source.CloseSend()
		}
	case "end":
		s.source.CloseSend()
	default:
		s.logger.WarnTag("WebSocket", "session %s unknown control type %q", s.id, ctrl.Type)
	}
}

// emit sends the turn result and, when synthesis is configured, the reply
// audio as a binary MP3 message.
func (s *Session) emit(turn services.Turn) error {
	data, err := sonic.Marshal(turn)
	if err != nil {
		return fmt.Errorf("marshal turn: %w", err)
	}
	if err := s.conn.WriteText(data); err != nil {
		return err
	}

	if turn.Response == "" {
		return nil
	}
	speech, err := s.pipeline.Synthesize(s.ctx, turn.Response)
	if err != nil {
		s.logger.WarnTag("WebSocket", "session %s synthesis failed: %v", s.id, err)
		return nil
	}
	if len(speech) == 0 {
		return nil
	}
	return s.conn.WriteBinary(speech)
}

// Close terminates the session and the underlying connection.
func (s *Session) Close(reason error) {
	if reason == nil {
		reason = ErrSessionShutdown
	}
	s.cancel(reason)
	s.source.CloseSend()
	if err := s.conn.Close(); err != nil {
		s.logger.WarnTag("WebSocket", "session %s connection close failed: %v", s.id, err)
	}
}
