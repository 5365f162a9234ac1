package model

import (
	"time"

	"github.com/google/uuid"
)

type Recording struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Room         string    `gorm:"size:255;index;not null"`
	StoredName   string    `gorm:"size:512;uniqueIndex;not null"`
	OriginalName string    `gorm:"size:512;not null"`
	Size         int64     `gorm:"not null"`
	UploadedAt   time.Time `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
