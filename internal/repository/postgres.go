package repository

import (
	"context"
	"errors"

	"github.com/immxrtalbeast/roomcast/internal/domain"
	"github.com/immxrtalbeast/roomcast/internal/repository/model"
	"gorm.io/gorm"
)

type PostgresRecordingRepository struct {
	db *gorm.DB
}

func NewPostgresRecordingRepository(db *gorm.DB) *PostgresRecordingRepository {
	return &PostgresRecordingRepository{db: db}
}

func (r *PostgresRecordingRepository) Create(ctx context.Context, rec *domain.Recording) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec == nil {
		return errors.New("recording is nil")
	}

	recModel := toModelRecording(rec)

	if err := r.db.WithContext(ctx).Create(recModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrRecordingExists
		}
		return err
	}
	return nil
}

func (r *PostgresRecordingRepository) GetByStoredName(ctx context.Context, storedName string) (*domain.Recording, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rec model.Recording
	err := r.db.WithContext(ctx).First(&rec, "stored_name = ?", storedName).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordingNotFound
		}
		return nil, err
	}

	return toDomainRecording(&rec), nil
}

func (r *PostgresRecordingRepository) ListByRoom(ctx context.Context, room string) ([]*domain.Recording, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var recs []model.Recording
	err := r.db.WithContext(ctx).
		Where("room = ?", room).
		Order("stored_name DESC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}

	result := make([]*domain.Recording, 0, len(recs))
	for i := range recs {
		result = append(result, toDomainRecording(&recs[i]))
	}
	return result, nil
}

func toModelRecording(rec *domain.Recording) *model.Recording {
	return &model.Recording{
		ID:           rec.ID,
		Room:         rec.Room,
		StoredName:   rec.StoredName,
		OriginalName: rec.OriginalName,
		Size:         rec.Size,
		UploadedAt:   rec.UploadedAt,
	}
}

func toDomainRecording(rec *model.Recording) *domain.Recording {
	return &domain.Recording{
		ID:           rec.ID,
		Room:         rec.Room,
		StoredName:   rec.StoredName,
		OriginalName: rec.OriginalName,
		Size:         rec.Size,
		UploadedAt:   rec.UploadedAt,
	}
}
