package registry

import (
	"errors"
	"sync"

	"github.com/immxrtalbeast/roomcast/internal/domain"
)

var ErrWrongSecret = errors.New("wrong password")

// Registry is the authoritative in-memory table of rooms. Structural
// mutations serialize under mu; each room's member set is additionally
// guarded by the room's own mutex.
//
// Rooms are never deleted. A room that drains to zero members keeps its
// secret for the rest of the process lifetime; known limitation.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*domain.Room
}

func New() *Registry {
	return &Registry{rooms: make(map[string]*domain.Room)}
}

// CreateOrGet returns the room under name, creating it with secret when
// absent. The bool reports whether this call created the room. Existing
// rooms come back unmodified; this is not an authorization check.
func (r *Registry) CreateOrGet(name string, secret string) (*domain.Room, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if room, ok := r.rooms[name]; ok {
		return room, false
	}
	room := domain.NewRoom(name, secret)
	r.rooms[name] = room
	return room, true
}

// Authenticate reports whether the room exists and secret matches its
// stored secret exactly.
func (r *Registry) Authenticate(name string, secret string) bool {
	r.mu.RLock()
	room, ok := r.rooms[name]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	return room.Secret == secret
}

// CreateOrAuthenticate is the atomic join transaction: an unknown room
// is created with the caller's secret, an existing room admits the
// caller only on an exact match. Two racing first joins cannot both win
// creation; the loser is checked against the winner's secret.
func (r *Registry) CreateOrAuthenticate(name string, secret string) (*domain.Room, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[name]
	if !ok {
		room = domain.NewRoom(name, secret)
		r.rooms[name] = room
		return room, true, nil
	}
	if room.Secret != secret {
		return nil, false, ErrWrongSecret
	}
	return room, false, nil
}

// AddMember puts the member into the room's member set. Re-adding the
// same connection replaces the previous entry.
func (r *Registry) AddMember(name string, member *domain.Member) {
	room := r.get(name)
	if room == nil || member == nil {
		return
	}
	room.Mutex.Lock()
	room.Members[member.ID] = member
	room.Mutex.Unlock()
}

// RemoveMember drops the connection from the room if present. No error
// when absent, and the room survives even when it becomes empty.
func (r *Registry) RemoveMember(name string, connID string) {
	room := r.get(name)
	if room == nil {
		return
	}
	room.Mutex.Lock()
	delete(room.Members, connID)
	room.Mutex.Unlock()
}

// MembersExcept returns every member of the room but the given
// connection. Relay fan-out uses it so a sender never receives its own
// negotiation messages.
func (r *Registry) MembersExcept(name string, connID string) []*domain.Member {
	room := r.get(name)
	if room == nil {
		return nil
	}

	room.Mutex.RLock()
	defer room.Mutex.RUnlock()

	members := make([]*domain.Member, 0, len(room.Members))
	for id, member := range room.Members {
		if id == connID {
			continue
		}
		members = append(members, member)
	}
	return members
}

// AllMembers returns the room's full member set.
func (r *Registry) AllMembers(name string) []*domain.Member {
	room := r.get(name)
	if room == nil {
		return nil
	}

	room.Mutex.RLock()
	defer room.Mutex.RUnlock()

	members := make([]*domain.Member, 0, len(room.Members))
	for _, member := range room.Members {
		members = append(members, member)
	}
	return members
}

func (r *Registry) get(name string) *domain.Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rooms[name]
}
