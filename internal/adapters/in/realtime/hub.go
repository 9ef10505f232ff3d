package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

// Backplane carries room publishes between gateway nodes. Run delivers every
// publish, including the node's own, until ctx ends.
type Backplane interface {
	Publish(ctx context.Context, room string, payload []byte) error
	Run(ctx context.Context, deliver func(room string, payload []byte)) error
}

// envelope is what travels over the backplane.
type envelope struct {
	Except string          `json:"except,omitempty"`
	Frame  json.RawMessage `json:"frame"`
}

// Hub tracks which local sessions are in which room and fans frames out to
// them. Without a backplane, publishes stay in process.
type Hub struct {
	mu       sync.RWMutex
	rooms    map[string]map[*Session]struct{}
	sessions map[*Session]map[string]struct{}

	backplane Backplane
	logger    *slog.Logger
}

func NewHub(backplane Backplane, logger *slog.Logger) *Hub {
	return &Hub{
		rooms:     make(map[string]map[*Session]struct{}),
		sessions:  make(map[*Session]map[string]struct{}),
		backplane: backplane,
		logger:    logger.With("component", "realtime_hub"),
	}
}

// Run consumes the backplane until ctx ends. Without a backplane it just waits.
func (h *Hub) Run(ctx context.Context) error {
	if h.backplane == nil {
		<-ctx.Done()
		return nil
	}
	return h.backplane.Run(ctx, h.deliverEnvelope)
}

// Join adds s to room. A closed session is refused, so nothing can rejoin
// after its cleanup ran.
func (h *Hub) Join(s *Session, room string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if s.IsClosed() {
		return false
	}

	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Session]struct{})
		h.rooms[room] = members
	}
	members[s] = struct{}{}

	joined, ok := h.sessions[s]
	if !ok {
		joined = make(map[string]struct{})
		h.sessions[s] = joined
	}
	joined[room] = struct{}{}
	return true
}

func (h *Hub) Leave(s *Session, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leave(s, room)
}

// LeaveAll removes s from every room it joined.
func (h *Hub) LeaveAll(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room := range h.sessions[s] {
		h.leave(s, room)
	}
	delete(h.sessions, s)
}

func (h *Hub) leave(s *Session, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, s)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	if joined, ok := h.sessions[s]; ok {
		delete(joined, room)
	}
}

func (h *Hub) IsMember(s *Session, room string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.rooms[room][s]
	return ok
}

// Members counts the local sessions in room.
func (h *Hub) Members(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// sessionsIn snapshots the local members of room.
func (h *Hub) sessionsIn(room string) []*Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	sessions := make([]*Session, 0, len(h.rooms[room]))
	for s := range h.rooms[room] {
		sessions = append(sessions, s)
	}
	return sessions
}

// Publish sends event to everyone in room. Failures are logged, never returned.
func (h *Hub) Publish(ctx context.Context, room, event string, data any) {
	h.publish(ctx, room, nil, event, data)
}

// PublishExcept is Publish skipping the sender.
func (h *Hub) PublishExcept(ctx context.Context, room string, sender *Session, event string, data any) {
	h.publish(ctx, room, sender, event, data)
}

func (h *Hub) publish(ctx context.Context, room string, except *Session, event string, data any) {
	frame, err := json.Marshal(Outbound{Event: event, Room: room, Data: data})
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to encode frame", "room", room, "event", event, "error", err)
		return
	}

	env := envelope{Frame: frame}
	if except != nil {
		env.Except = except.ID()
	}

	if h.backplane == nil {
		h.deliver(room, env)
		return
	}

	payload, err := json.Marshal(env)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to encode envelope", "room", room, "event", event, "error", err)
		return
	}
	if err = h.backplane.Publish(ctx, room, payload); err != nil {
		h.logger.WarnContext(ctx, "Backplane publish failed", "room", room, "event", event, "error", err)
	}
}

func (h *Hub) deliverEnvelope(room string, payload []byte) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		h.logger.Warn("Dropping malformed backplane message", "room", room, "error", err)
		return
	}
	h.deliver(room, env)
}

func (h *Hub) deliver(room string, env envelope) {
	h.mu.RLock()
	targets := make([]*Session, 0, len(h.rooms[room]))
	for s := range h.rooms[room] {
		if s.ID() != env.Except {
			targets = append(targets, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range targets {
		s.enqueue(env.Frame)
	}
}
