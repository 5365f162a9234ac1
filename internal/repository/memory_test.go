package repository

import (
	"context"
	"testing"

	"github.com/immxrtalbeast/roomcast/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRecordingRepository(t *testing.T) {
	repo := NewInMemoryRecordingRepository()
	ctx := context.Background()

	rec := domain.NewRecording("r1", "r1_1_f.mp4", "f.mp4", 10)
	require.NoError(t, repo.Create(ctx, rec))

	err := repo.Create(ctx, domain.NewRecording("r1", "r1_1_f.mp4", "f.mp4", 10))
	assert.ErrorIs(t, err, ErrRecordingExists)

	got, err := repo.GetByStoredName(ctx, "r1_1_f.mp4")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)

	_, err = repo.GetByStoredName(ctx, "missing")
	assert.ErrorIs(t, err, ErrRecordingNotFound)

	require.NoError(t, repo.Create(ctx, domain.NewRecording("r2", "r2_1_g.mp4", "g.mp4", 5)))

	recs, err := repo.ListByRoom(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "r1_1_f.mp4", recs[0].StoredName)

	recs, err = repo.ListByRoom(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestInMemoryRecordingRepositoryCanceledContext(t *testing.T) {
	repo := NewInMemoryRecordingRepository()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, repo.Create(ctx, domain.NewRecording("r1", "n", "n", 1)))
	_, err := repo.ListByRoom(ctx, "r1")
	assert.Error(t, err)
}
