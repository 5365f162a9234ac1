package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/immxrtalbeast/roomcast/internal/domain"
)

var (
	ErrRecordingNotFound = errors.New("recording not found")
	ErrRecordingExists   = errors.New("recording with stored name already exists")
)

type InMemoryRecordingRepository struct {
	mu         sync.RWMutex
	recordings map[string]*domain.Recording
}

func NewInMemoryRecordingRepository() *InMemoryRecordingRepository {
	return &InMemoryRecordingRepository{
		recordings: make(map[string]*domain.Recording),
	}
}

func (r *InMemoryRecordingRepository) Create(ctx context.Context, rec *domain.Recording) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.recordings[rec.StoredName]; ok {
		return ErrRecordingExists
	}

	r.recordings[rec.StoredName] = rec
	return nil
}

func (r *InMemoryRecordingRepository) GetByStoredName(ctx context.Context, storedName string) (*domain.Recording, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.recordings[storedName]
	if !ok {
		return nil, ErrRecordingNotFound
	}

	return rec, nil
}

func (r *InMemoryRecordingRepository) ListByRoom(ctx context.Context, room string) ([]*domain.Recording, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Recording, 0, len(r.recordings))
	for _, rec := range r.recordings {
		if rec.Room != room {
			continue
		}
		result = append(result, rec)
	}
	return result, nil
}
