package server

import (
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/vdiff/pkg/dom"
	"github.com/vango-dev/vdiff/pkg/protocol"
	"github.com/vango-dev/vdiff/pkg/store"
	"github.com/vango-dev/vdiff/pkg/vdom"
)

// SessionHeader carries the session ID in the websocket upgrade response.
const SessionHeader = "X-Vdiff-Session"

// Session is one websocket client. Every text message is an HTML document;
// the session diffs it against the previous one and replies with a
// FramePatches frame. A binary FrameTree frame replaces the baseline
// without producing patches.
type Session struct {
	ID string

	conn    *websocket.Conn
	server  *Server
	logger  *slog.Logger
	history *PatchHistory

	ctx    context.Context
	cancel context.CancelFunc

	// prev is only touched by the read loop.
	prev *vdom.VNode
	seq  atomic.Uint64

	writeMu sync.Mutex
	closed  atomic.Bool
	done    chan struct{}
}

// HandleWebSocket upgrades the request and runs the session until the
// client disconnects or the server shuts down.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	header := http.Header{}
	header.Set(SessionHeader, id)

	conn, err := s.upgrader.Upgrade(w, r, header)
	if err != nil {
		// The upgrader has already replied with an HTTP error.
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	sess := newSession(id, conn, s)
	s.addSession(sess)
	defer s.removeSession(sess)

	sess.logger.Info("session started", "remote", r.RemoteAddr)
	sess.ReadLoop()
	sess.logger.Info("session ended", "seq", sess.Seq())
}

func newSession(id string, conn *websocket.Conn, s *Server) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		ID:      id,
		conn:    conn,
		server:  s,
		logger:  s.logger.With("session", id),
		history: NewPatchHistory(s.config.MaxPatchHistory),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
}

// Seq returns the sequence number of the last frame sent.
func (s *Session) Seq() uint64 {
	return s.seq.Load()
}

// History returns the recent frames of the session.
func (s *Session) History() *PatchHistory {
	return s.history
}

// Done is closed when the session closes.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// ReadLoop reads messages until the connection fails or the session is
// closed.
func (s *Session) ReadLoop() {
	defer s.Close()

	s.conn.SetReadLimit(s.server.config.MaxMessageBytes)
	for {
		s.conn.SetReadDeadline(time.Now().Add(s.server.config.ReadTimeout))

		mt, msg, err := s.conn.ReadMessage()
		if err != nil {
			switch {
			case s.closed.Load():
			case stderrors.Is(err, websocket.ErrReadLimit):
				s.logger.Warn("message too large", "limit", s.server.config.MaxMessageBytes)
			case websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure):
				s.logger.Error("read error", "error", err)
			}
			return
		}

		switch mt {
		case websocket.TextMessage:
			if err := s.handleDocument(msg); err != nil {
				s.logger.Error("write failed", "error", err)
				return
			}
		case websocket.BinaryMessage:
			if err := s.handleFrame(msg); err != nil {
				s.logger.Error("write failed", "error", err)
				return
			}
		}
	}
}

// handleDocument diffs a new document against the previous one and sends
// the patches. Only write errors are returned.
func (s *Session) handleDocument(msg []byte) error {
	next, err := dom.Parse(bytes.NewReader(msg))
	if err != nil {
		return s.sendError(protocol.NewError(protocol.ErrInvalidDocument, err.Error()))
	}

	patches := s.server.differ.Diff(s.ctx, s.prev, next)
	s.prev = next

	seq := s.seq.Add(1)
	frame := protocol.NewPatchesFrame(&protocol.PatchesFrame{Seq: seq, Patches: patches}).Encode()
	// Recorded before sending so a client can fetch any frame it has seen.
	s.history.Add(seq, frame)
	s.archive(seq, frame)

	if err := s.write(protocol.FramePatches, frame); err != nil {
		return NewSessionError(s.ID, "send patches", err)
	}
	s.logger.Debug("patches sent", "seq", seq, "patches", len(patches), "bytes", len(frame))
	return nil
}

// handleFrame accepts a FrameTree that replaces the baseline.
func (s *Session) handleFrame(msg []byte) error {
	frame, err := protocol.DecodeFrame(msg)
	if err != nil {
		return s.sendError(protocol.NewError(protocol.ErrInvalidFrame, err.Error()))
	}
	if frame.Type != protocol.FrameTree {
		return s.sendError(protocol.NewError(protocol.ErrInvalidFrame,
			"unexpected "+frame.Type.String()+" frame"))
	}
	tf, err := protocol.DecodeTree(frame.Payload)
	if err != nil {
		return s.sendError(protocol.NewError(protocol.ErrInvalidFrame, err.Error()))
	}
	s.prev = tf.Root
	s.logger.Debug("baseline replaced", "nodes", vdom.Count(tf.Root))
	return nil
}

func (s *Session) archive(seq uint64, frame []byte) {
	st := s.server.store
	if st == nil {
		return
	}
	if err := st.Put(s.ctx, store.Key(s.ID, seq), frame); err != nil {
		s.server.metrics.archiveErrors.Inc()
		s.logger.Warn("archive failed", "seq", seq, "error", err)
	}
}

func (s *Session) sendError(em *protocol.ErrorMessage) error {
	s.logger.Warn("client error", "code", em.Code.String(), "error", em.Message)
	return s.write(protocol.FrameError, protocol.NewErrorFrame(em).Encode())
}

func (s *Session) write(ft protocol.FrameType, data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.closed.Load() {
		return ErrSessionClosed
	}
	s.conn.SetWriteDeadline(time.Now().Add(s.server.config.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		return err
	}
	s.server.metrics.framesSent.WithLabelValues(ft.String()).Inc()
	s.server.metrics.frameBytes.Add(float64(len(data)))
	return nil
}

// Close sends a close message and closes the connection. It is safe to call
// more than once.
func (s *Session) Close() {
	if s.closed.Swap(true) {
		return
	}
	s.cancel()

	s.writeMu.Lock()
	deadline := time.Now().Add(time.Second)
	s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	s.conn.Close()
	s.writeMu.Unlock()

	close(s.done)
}
