package service

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/immxrtalbeast/roomcast/internal/domain"
	"github.com/immxrtalbeast/roomcast/internal/registry"
	"github.com/immxrtalbeast/roomcast/lib/logger/sl"
)

var (
	ErrInvalidRequest = errors.New("room & password required")
	ErrWrongPassword  = registry.ErrWrongSecret
)

// RoomService binds live connections to rooms and fans signaling
// messages out to the right peer set. It owns the session table, the
// registry owns room membership.
type RoomService struct {
	registry *registry.Registry
	log      *slog.Logger

	mu       sync.RWMutex
	sessions map[string]string // connection id -> room name
}

func NewRoomService(reg *registry.Registry, log *slog.Logger) *RoomService {
	if log == nil {
		log = slog.Default()
	}
	return &RoomService{
		registry: reg,
		log:      log,
		sessions: make(map[string]string),
	}
}

// Join authenticates the member against the room, creating the room on
// first use. A member already bound elsewhere is moved: the previous
// membership is removed so a connection never sits in two rooms.
func (s *RoomService) Join(member *domain.Member, roomName, secret, role string) error {
	const op = "service.room.join"
	log := s.log.With(
		slog.String("op", op),
		slog.String("room", roomName),
		slog.String("conn_id", member.ID),
	)

	if roomName == "" || secret == "" {
		return ErrInvalidRequest
	}

	_, created, err := s.registry.CreateOrAuthenticate(roomName, secret)
	if err != nil {
		log.Info("join rejected", sl.Err(err))
		return err
	}
	if created {
		log.Info("room created")
	}

	s.mu.Lock()
	prev, rebound := s.sessions[member.ID]
	s.sessions[member.ID] = roomName
	s.mu.Unlock()

	if rebound && prev != roomName {
		s.registry.RemoveMember(prev, member.ID)
	}

	member.Role = role
	s.registry.AddMember(roomName, member)

	s.fanOut(s.registry.MembersExcept(roomName, member.ID), domain.SignalMessage{
		Type:    domain.MsgPeerJoined,
		Room:    roomName,
		From:    member.ID,
		Payload: marshalRaw(map[string]string{"id": member.ID, "role": role}),
	})

	log.Info("member joined", slog.String("role", role))
	return nil
}

// Relay forwards an opaque negotiation payload to everyone else in the
// sender's room. Senders without a binding are dropped silently: to the
// caller that looks the same as a room with no peers yet.
func (s *RoomService) Relay(member *domain.Member, msgType string, payload json.RawMessage) {
	roomName, bound := s.binding(member.ID)
	if !bound {
		s.log.Debug("dropping relay from unbound connection",
			slog.String("conn_id", member.ID),
			slog.String("type", msgType),
		)
		return
	}

	s.fanOut(s.registry.MembersExcept(roomName, member.ID), domain.SignalMessage{
		Type:    msgType,
		Room:    roomName,
		From:    member.ID,
		Payload: payload,
	})
}

// Disconnect clears the member's binding and membership and stops its
// event stream. Calling it for an already-gone connection is a no-op.
func (s *RoomService) Disconnect(member *domain.Member) {
	s.mu.Lock()
	roomName, bound := s.sessions[member.ID]
	delete(s.sessions, member.ID)
	s.mu.Unlock()

	member.CloseEvents()
	if !bound {
		return
	}

	s.registry.RemoveMember(roomName, member.ID)

	s.fanOut(s.registry.AllMembers(roomName), domain.SignalMessage{
		Type:    domain.MsgPeerLeft,
		Room:    roomName,
		From:    member.ID,
		Payload: marshalRaw(map[string]string{"id": member.ID}),
	})

	s.log.Info("member disconnected",
		slog.String("room", roomName),
		slog.String("conn_id", member.ID),
	)
}

// NotifyFileAvailable broadcasts a new-file event to every connection
// currently in the room. Zero connected members means nothing to do;
// the event is not queued or retried.
func (s *RoomService) NotifyFileAvailable(roomName, filename string) {
	members := s.registry.AllMembers(roomName)
	if len(members) == 0 {
		return
	}

	s.fanOut(members, domain.SignalMessage{
		Type:    domain.MsgNewFile,
		Room:    roomName,
		Payload: marshalRaw(map[string]string{"filename": filename}),
	})

	s.log.Info("new file announced",
		slog.String("room", roomName),
		slog.String("filename", filename),
		slog.Int("receivers", len(members)),
	)
}

// Authenticate exposes the registry secret check for the upload path.
func (s *RoomService) Authenticate(roomName, secret string) bool {
	return s.registry.Authenticate(roomName, secret)
}

func (s *RoomService) binding(connID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	roomName, ok := s.sessions[connID]
	return roomName, ok
}

func (s *RoomService) fanOut(members []*domain.Member, msg domain.SignalMessage) {
	for _, member := range members {
		member.EnqueueEvent(msg)
	}
}

func marshalRaw(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}
