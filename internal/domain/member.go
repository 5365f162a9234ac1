package domain

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const memberEventBuffer = 16

// Member is a live connection inside a room. Role is a free-form label
// supplied by the client; the server stores it but never interprets it.
type Member struct {
	ID       string
	Role     string
	JoinedAt time.Time
	Mutex    sync.RWMutex
	Socket   *websocket.Conn
	Events   chan SignalMessage

	closed bool
}

func NewMember() *Member {
	return &Member{
		ID:       uuid.New().String(),
		JoinedAt: time.Now().UTC(),
		Events:   make(chan SignalMessage, memberEventBuffer),
	}
}

// EnqueueEvent hands an event to the member's writer without blocking.
// A member that cannot keep up loses events rather than stalling the
// room; events after CloseEvents are discarded.
func (m *Member) EnqueueEvent(event SignalMessage) {
	m.Mutex.RLock()
	defer m.Mutex.RUnlock()
	if m.closed {
		return
	}
	select {
	case m.Events <- event:
	default:
	}
}

// CloseEvents stops the member's event stream. Safe to call more than
// once.
func (m *Member) CloseEvents() {
	m.Mutex.Lock()
	defer m.Mutex.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	close(m.Events)
}
