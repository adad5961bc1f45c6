package server

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/vango-dev/loginform/pkg/protocol"
)

// Start performs the initial render handshake and runs the session until
// the connection drops. The session is closed when Start returns.
func (s *Session) Start() {
	if s.conn == nil {
		s.logger.Error("start without connection")
		s.Close()
		return
	}

	// The page was rendered by a different instance; resend so hydration
	// IDs on the client match this session.
	s.sendRender(0)

	go s.EventLoop()
	go s.WriteLoop()
	s.ReadLoop()
}

// ReadLoop reads frames from the connection until it fails or the client
// closes the session.
func (s *Session) ReadLoop() {
	defer s.Close()

	s.conn.SetReadLimit(s.config.MaxMessageSize)
	s.extendReadDeadline()

	for {
		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read error", "error", err)
			}
			return
		}
		s.extendReadDeadline()
		s.touch()

		if msgType != websocket.BinaryMessage {
			s.sendError(protocol.NewError(protocol.ErrInvalidFrame, "binary frames only"))
			continue
		}

		frame, err := protocol.DecodeFrame(data)
		if err != nil {
			s.logger.Warn("invalid frame", "error", err)
			s.sendError(protocol.NewError(protocol.ErrInvalidFrame, err.Error()))
			continue
		}

		switch frame.Type {
		case protocol.FrameEvent:
			s.handleEventFrame(frame.Payload)
		case protocol.FrameControl:
			if s.handleControlFrame(frame.Payload) {
				return
			}
		default:
			s.logger.Warn("unexpected frame type", "type", frame.Type.String())
			s.sendError(protocol.NewError(protocol.ErrInvalidFrame, "unexpected frame type"))
		}
	}
}

func (s *Session) extendReadDeadline() {
	if s.config.ReadTimeout > 0 {
		_ = s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	}
}

func (s *Session) handleEventFrame(payload []byte) {
	pe, err := protocol.DecodeEvent(payload)
	if err != nil {
		s.logger.Warn("invalid event", "error", err)
		s.sendError(protocol.NewError(protocol.ErrInvalidEvent, err.Error()))
		return
	}

	err = s.QueueEvent(&Event{
		Seq:   pe.Seq,
		Type:  pe.Type,
		HID:   pe.HID,
		Value: pe.Value,
	})
	if err == ErrEventQueueFull {
		s.sendError(protocol.NewError(protocol.ErrRateLimited, "too many events"))
	}
}

// handleControlFrame answers pings and reports whether the client asked
// to close the session.
func (s *Session) handleControlFrame(payload []byte) bool {
	ctrl, err := protocol.DecodeControl(payload)
	if err != nil {
		s.sendError(protocol.NewError(protocol.ErrInvalidFrame, err.Error()))
		return false
	}

	switch ctrl.Type {
	case protocol.ControlPing:
		_ = s.sendControl(protocol.NewPong(ctrl.Timestamp))
	case protocol.ControlPong:
		// Read deadline already extended.
	case protocol.ControlClose:
		s.logger.Debug("client closed session", "reason", ctrl.Reason.String())
		return true
	}
	return false
}

// WriteLoop sends heartbeat pings until the session closes.
func (s *Session) WriteLoop() {
	interval := s.config.HeartbeatInterval
	if interval <= 0 {
		<-s.done
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			ts := uint64(time.Now().UnixMilli())
			if err := s.sendControl(protocol.NewPing(ts)); err != nil {
				s.logger.Debug("heartbeat failed", "error", err)
				s.Close()
				return
			}
		}
	}
}

// sendRender sends the current HTML to the client.
func (s *Session) sendRender(seq uint64) {
	if s.conn == nil || s.closed.Load() {
		return
	}
	html := s.HTML()
	payload := protocol.EncodeRender(&protocol.Render{Seq: seq, HTML: html})
	if err := s.sendFrame(protocol.FrameRender, payload); err != nil {
		s.logger.Warn("send render failed", "error", err)
		return
	}
	s.observer.RenderSent(len(html))
}

func (s *Session) sendControl(c *protocol.Control) error {
	return s.sendFrame(protocol.FrameControl, protocol.EncodeControl(c))
}

// sendError reports a protocol error to the client. Sessions without a
// connection drop it; the error has been logged already.
func (s *Session) sendError(em *protocol.ErrorMessage) {
	if s.conn == nil {
		return
	}
	if err := s.sendFrame(protocol.FrameError, protocol.EncodeErrorMessage(em)); err != nil {
		s.logger.Debug("send error frame failed", "error", err)
	}
}

func (s *Session) sendFrame(ft protocol.FrameType, payload []byte) error {
	if s.conn == nil {
		return ErrNoConnection
	}
	frame := protocol.NewFrame(ft, payload)

	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	if s.config.WriteTimeout > 0 {
		_ = s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	}
	if err := s.conn.WriteMessage(websocket.BinaryMessage, frame.Encode()); err != nil {
		return &SessionError{SessionID: s.ID, Op: "write " + ft.String(), Err: err}
	}
	return nil
}
