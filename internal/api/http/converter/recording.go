package converter

import (
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/roomcast/internal/domain"
)

type RecordingResponse struct {
	ID           uuid.UUID `json:"id"`
	Room         string    `json:"room"`
	FileName     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

func RecordingToApi(rec *domain.Recording) *RecordingResponse {
	return &RecordingResponse{
		ID:           rec.ID,
		Room:         rec.Room,
		FileName:     rec.StoredName,
		OriginalName: rec.OriginalName,
		Size:         rec.Size,
		UploadedAt:   rec.UploadedAt,
	}
}

func RecordingsToApi(recs []*domain.Recording) []*RecordingResponse {
	result := make([]*RecordingResponse, 0, len(recs))
	for _, rec := range recs {
		result = append(result, RecordingToApi(rec))
	}
	return result
}
