package server

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/vango-dev/loginform/pkg/protocol"
	"github.com/vango-dev/loginform/pkg/render"
	"github.com/vango-dev/loginform/pkg/vango"
	"github.com/vango-dev/loginform/pkg/vdom"
)

// Session owns one mounted root component and the WebSocket connection
// that drives it.
//
// All component state is touched on the session loop only: client events
// and functions passed to Dispatch share one FIFO task queue, and every
// task is followed by a full re-render.
type Session struct {
	// Identity
	ID        string
	CreatedAt time.Time

	lastActive atomic.Int64 // Unix nanoseconds

	// Connection
	conn   *websocket.Conn
	sendMu sync.Mutex

	// Component
	root     vdom.Component
	renderer *render.Renderer
	hidGen   *vdom.HIDGenerator
	handlers map[string]Handler // session loop only
	mounted  bool

	// Latest render, read by Tree and HTML from any goroutine
	treeMu sync.RWMutex
	tree   *vdom.VNode
	html   string

	// Loop
	tasks     chan task
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	closed    atomic.Bool
	closeOnce sync.Once

	// Stats
	eventCount  atomic.Uint64
	renderCount atomic.Uint64

	config   *SessionConfig
	logger   *slog.Logger
	observer Observer
}

// task is one unit of work on the session loop. Exactly one of event
// and fn is set, except for sync markers which carry only done.
type task struct {
	event *Event
	fn    func()
	done  chan struct{}
}

// NewSession creates a session for root. conn may be nil, in which case
// renders are kept in memory only; component tests and server-side page
// rendering use such sessions. config and logger default when nil.
func NewSession(root vdom.Component, conn *websocket.Conn, config *SessionConfig, logger *slog.Logger) *Session {
	if config == nil {
		config = DefaultSessionConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	queue := config.MaxEventQueue
	if queue <= 0 {
		queue = DefaultSessionConfig().MaxEventQueue
	}

	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())
	now := time.Now()

	s := &Session{
		ID:        id,
		CreatedAt: now,
		conn:      conn,
		root:      root,
		renderer:  render.NewRenderer(render.RendererConfig{}),
		hidGen:    vdom.NewHIDGenerator(),
		handlers:  make(map[string]Handler),
		tasks:     make(chan task, queue),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
		config:    config,
		logger:    logger.With("component", "session", "session_id", id),
		observer:  nopObserver{},
	}
	s.lastActive.Store(now.UnixNano())
	return s
}

// SetObserver installs an observer. Must be called before Mount.
func (s *Session) SetObserver(o Observer) {
	if o == nil {
		o = nopObserver{}
	}
	s.observer = o
}

// Mount mounts the root component and performs the first render.
// It must be called once, before the session loop starts.
func (s *Session) Mount() error {
	if s.root == nil {
		return ErrNoRootComponent
	}
	if s.closed.Load() {
		return ErrSessionClosed
	}
	if m, ok := s.root.(vango.Mounter); ok {
		m.Mount(s)
	}
	s.mounted = true
	s.observer.SessionOpened()
	return s.render()
}

// Dispatch queues fn to run on the session loop, followed by a re-render.
// It implements vango.Ctx. Functions dispatched after Close are discarded.
// Dispatch blocks while the queue is full, so it must not be called from
// the session loop itself.
func (s *Session) Dispatch(fn func()) {
	if fn == nil {
		return
	}
	if s.closed.Load() {
		s.logger.Debug("dispatch discarded: session closed")
		return
	}
	select {
	case s.tasks <- task{fn: fn}:
	case <-s.done:
		s.logger.Debug("dispatch discarded: session closed")
	}
}

// StdContext returns the component lifetime context. It implements
// vango.Ctx and is cancelled by Close.
func (s *Session) StdContext() context.Context {
	return s.ctx
}

// QueueEvent queues a client event. It never blocks.
func (s *Session) QueueEvent(event *Event) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	if event.Session == nil {
		event.Session = s
	}
	if event.Time.IsZero() {
		event.Time = time.Now()
	}
	select {
	case s.tasks <- task{event: event}:
		return nil
	default:
		s.logger.Warn("event queue full, dropping event",
			"hid", event.HID,
			"event", event.TypeString())
		return ErrEventQueueFull
	}
}

// Sync waits until every task queued before the call has been processed
// and its render published.
func (s *Session) Sync(ctx context.Context) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	done := make(chan struct{})
	select {
	case s.tasks <- task{done: done}:
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// EventLoop processes tasks until the session is closed.
func (s *Session) EventLoop() {
	for {
		select {
		case <-s.done:
			return
		case t := <-s.tasks:
			s.runTask(t)
		}
	}
}

func (s *Session) runTask(t task) {
	if t.done != nil {
		close(t.done)
		return
	}

	var seq uint64
	switch {
	case t.event != nil:
		seq = t.event.Seq
		s.handleEvent(t.event)
	case t.fn != nil:
		s.executeDispatch(t.fn)
	}

	before := s.HTML()
	if err := s.render(); err != nil {
		s.logger.Error("render failed", "error", err)
		s.sendError(protocol.NewError(protocol.ErrServerError, "render failed"))
		return
	}
	// Every event is answered so the client can settle its sequence number;
	// dispatched work only re-sends when the output changed.
	if t.event != nil || s.HTML() != before {
		s.sendRender(seq)
	}
}

// handleEvent looks up and runs the handler bound to the event target.
func (s *Session) handleEvent(event *Event) {
	s.eventCount.Add(1)
	s.touch()

	key := handlerKey(event.HID, event.Type)
	handler, ok := s.handlers[key]
	if !ok {
		s.logger.Warn("handler not found", "hid", event.HID, "event", event.TypeString())
		s.sendError(protocol.NewError(protocol.ErrHandlerNotFound, key))
		s.observer.EventHandled(event.TypeString(), 0, ErrHandlerNotFound)
		return
	}

	start := time.Now()
	err := s.safeExecute(event.HID, event.TypeString(), func() { handler(event) })
	s.observer.EventHandled(event.TypeString(), time.Since(start), err)
}

func (s *Session) executeDispatch(fn func()) {
	if err := s.safeExecute("", "dispatch", fn); err != nil {
		s.observer.EventHandled("dispatch", 0, err)
	}
}

// safeExecute runs fn and converts a panic into a HandlerError.
func (s *Session) safeExecute(hid, eventType string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			herr := &HandlerError{
				SessionID: s.ID,
				HID:       hid,
				EventType: eventType,
				Panic:     r,
				Stack:     debug.Stack(),
			}
			s.logger.Error("handler panic",
				"hid", hid,
				"event", eventType,
				"panic", r,
				"stack", string(herr.Stack))
			s.sendError(protocol.NewError(protocol.ErrHandlerPanic, "handler panic"))
			err = herr
		}
	}()
	fn()
	return nil
}

// render re-renders the root, reassigns hydration IDs in document order
// and rebuilds the handler table.
func (s *Session) render() error {
	tree := vdom.Expand(s.root.Render())
	s.hidGen.Reset()
	vdom.AssignHIDs(tree, s.hidGen)

	handlers := make(map[string]Handler)
	s.collectHandlers(tree, handlers)

	html, err := s.renderer.RenderToString(tree)
	if err != nil {
		return err
	}

	s.handlers = handlers
	s.treeMu.Lock()
	s.tree = tree
	s.html = html
	s.treeMu.Unlock()
	s.renderCount.Add(1)
	return nil
}

func (s *Session) collectHandlers(node *vdom.VNode, handlers map[string]Handler) {
	vdom.Walk(node, func(n, _ *vdom.VNode) bool {
		if n.Kind != vdom.KindElement || n.HID == "" {
			return true
		}
		for key, value := range n.Props {
			if !vdom.IsEventKey(key) {
				continue
			}
			et, err := protocol.ParseEventType(key[2:])
			if err != nil {
				s.logger.Debug("unsupported event", "event", key, "tag", n.Tag)
				continue
			}
			h := wrapHandler(value)
			if h == nil {
				s.logger.Warn("unsupported handler signature", "event", key, "tag", n.Tag)
				continue
			}
			handlers[handlerKey(n.HID, et)] = h
		}
		return true
	})
}

// Tree returns the most recently rendered tree. The tree must not be
// modified.
func (s *Session) Tree() *vdom.VNode {
	s.treeMu.RLock()
	defer s.treeMu.RUnlock()
	return s.tree
}

// HTML returns the most recently rendered HTML.
func (s *Session) HTML() string {
	s.treeMu.RLock()
	defer s.treeMu.RUnlock()
	return s.html
}

// LastActive returns the time of the last client message.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

func (s *Session) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

// IsClosed reports whether the session has been closed.
func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// Done returns a channel closed when the session closes.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Close closes the session normally.
func (s *Session) Close() {
	s.CloseWithReason(protocol.CloseNormal, "")
}

// CloseWithReason cancels the component context, unmounts the root and
// closes the connection after telling the client why.
func (s *Session) CloseWithReason(reason protocol.CloseReason, message string) {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.cancel()
		close(s.done)

		if s.mounted {
			if u, ok := s.root.(vango.Unmounter); ok {
				u.Unmount()
			}
			s.observer.SessionClosed(time.Since(s.CreatedAt))
		}

		if s.conn != nil {
			_ = s.sendControl(protocol.NewClose(reason, message))
			s.sendMu.Lock()
			deadline := time.Now().Add(time.Second)
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason.String()),
				deadline)
			s.sendMu.Unlock()
			_ = s.conn.Close()
		}

		s.logger.Info("session closed",
			"reason", reason.String(),
			"events", s.eventCount.Load(),
			"renders", s.renderCount.Load(),
			"duration", time.Since(s.CreatedAt))
	})
}

// Stats returns session statistics.
func (s *Session) Stats() SessionStats {
	return SessionStats{
		ID:         s.ID,
		CreatedAt:  s.CreatedAt,
		LastActive: s.LastActive(),
		EventCount: s.eventCount.Load(),
		Renders:    s.renderCount.Load(),
	}
}

// SessionStats contains session statistics.
type SessionStats struct {
	ID         string
	CreatedAt  time.Time
	LastActive time.Time
	EventCount uint64
	Renders    uint64
}
