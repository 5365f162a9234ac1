package service

import (
	"context"
	"encoding/json"
	"io"

	"github.com/immxrtalbeast/roomcast/internal/domain"
)

type RoomInteractor interface {
	Join(member *domain.Member, roomName, secret, role string) error
	Relay(member *domain.Member, msgType string, payload json.RawMessage)
	Disconnect(member *domain.Member)
	NotifyFileAvailable(roomName, filename string)
	Authenticate(roomName, secret string) bool
}

type UploadInteractor interface {
	Save(ctx context.Context, roomName, secret, originalName string, src io.Reader) (*domain.Recording, error)
	List(ctx context.Context, roomName string) ([]*domain.Recording, error)
	Resolve(name string) (string, error)
}
