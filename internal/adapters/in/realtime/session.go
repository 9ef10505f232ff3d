package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/auth"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
	sendBufferSize = 64
)

// Session is one client connection. Outgoing frames are queued and written by
// a single goroutine; a client that cannot keep up is disconnected.
type Session struct {
	id       string
	identity *auth.Identity
	remoteIP string

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once

	mu         sync.Mutex
	onClose    []func()
	driverID   *kernel.UUID
	deliveries map[kernel.UUID]struct{}
}

// NewSession creates a session. A nil identity is a guest.
func NewSession(identity *auth.Identity, remoteIP string) *Session {
	return &Session{
		id:         uuid.NewString(),
		identity:   identity,
		remoteIP:   remoteIP,
		send:       make(chan []byte, sendBufferSize),
		done:       make(chan struct{}),
		deliveries: make(map[kernel.UUID]struct{}),
	}
}

func (s *Session) ID() string { return s.id }

// Identity returns the authenticated identity, or false for a guest.
func (s *Session) Identity() (auth.Identity, bool) {
	if s.identity == nil {
		return auth.Identity{}, false
	}
	return *s.identity, true
}

func (s *Session) IsGuest() bool { return s.identity == nil }

// Outbox yields encoded frames waiting to be written.
func (s *Session) Outbox() <-chan []byte { return s.send }

// Done is closed once the session is closed.
func (s *Session) Done() <-chan struct{} { return s.done }

// DriverID is the driver this session joined as, if any.
func (s *Session) DriverID() *kernel.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.driverID
}

func (s *Session) setDriverID(id kernel.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.driverID = &id
}

// Deliveries lists the orders this driver session broadcasts its position into.
func (s *Session) Deliveries() []kernel.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]kernel.UUID, 0, len(s.deliveries))
	for id := range s.deliveries {
		ids = append(ids, id)
	}
	return ids
}

func (s *Session) hasDelivery(orderID kernel.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.deliveries[orderID]
	return ok
}

func (s *Session) addDelivery(orderID kernel.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deliveries[orderID] = struct{}{}
}

func (s *Session) dropDelivery(orderID kernel.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.deliveries, orderID)
}

// IsClosed reports whether Close has been called.
func (s *Session) IsClosed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// OnClose registers fn to run when the session closes.
func (s *Session) OnClose(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClose = append(s.onClose, fn)
}

// Close ends the session and runs the cleanup hooks exactly once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)

		s.mu.Lock()
		hooks := s.onClose
		s.onClose = nil
		s.mu.Unlock()

		for i := len(hooks) - 1; i >= 0; i-- {
			hooks[i]()
		}
	})
}

// Send queues frame. It never blocks; a full queue closes the session.
func (s *Session) Send(frame Outbound) error {
	payload, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	s.enqueue(payload)
	return nil
}

func (s *Session) enqueue(payload []byte) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.send <- payload:
	default:
		go s.Close()
	}
}

// Serve pumps conn until either side goes away. dispatch is called for every
// inbound message on the reading goroutine.
func (s *Session) Serve(ctx context.Context, conn *websocket.Conn, dispatch func(ctx context.Context, raw []byte)) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.writePump(conn)
	s.readPump(ctx, conn, dispatch)
}

func (s *Session) readPump(ctx context.Context, conn *websocket.Conn, dispatch func(ctx context.Context, raw []byte)) {
	defer s.Close()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		dispatch(ctx, raw)
	}
}

func (s *Session) writePump(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case payload := <-s.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				s.Close()
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.Close()
				return
			}
		case <-s.done:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
