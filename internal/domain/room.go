package domain

import (
	"sync"
	"time"
)

// Room is a named, password-gated group of connections negotiating
// peer-to-peer sessions. The secret is fixed by whichever connection
// creates the room and never changes for the room's lifetime.
type Room struct {
	Mutex     sync.RWMutex
	Name      string
	Secret    string
	Members   map[string]*Member
	CreatedAt time.Time
}

// NewRoom constructs an empty room keyed by the client-chosen name.
func NewRoom(name string, secret string) *Room {
	return &Room{
		Name:      name,
		Secret:    secret,
		Members:   make(map[string]*Member),
		CreatedAt: time.Now().UTC(),
	}
}
