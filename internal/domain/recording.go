package domain

import (
	"time"

	"github.com/google/uuid"
)

// Recording is an uploaded video file tied to a room. StoredName is the
// on-disk name, {room}_{unix_ms}_{original}, so room listings reduce to
// a prefix match and sorting it puts newer uploads first.
type Recording struct {
	ID           uuid.UUID
	Room         string
	StoredName   string
	OriginalName string
	Size         int64
	UploadedAt   time.Time
}

func NewRecording(room, storedName, originalName string, size int64) *Recording {
	return &Recording{
		ID:           uuid.New(),
		Room:         room,
		StoredName:   storedName,
		OriginalName: originalName,
		Size:         size,
		UploadedAt:   time.Now().UTC(),
	}
}
