package repository

import (
	"context"

	"github.com/immxrtalbeast/roomcast/internal/domain"
)

type RecordingRepository interface {
	Create(ctx context.Context, rec *domain.Recording) error
	GetByStoredName(ctx context.Context, storedName string) (*domain.Recording, error)
	ListByRoom(ctx context.Context, room string) ([]*domain.Recording, error)
}
