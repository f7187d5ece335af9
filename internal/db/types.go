package db

import (
	"time"

	"github.com/google/uuid"
)

// UserRecord is a user row including credential fields. Never serialized to
// API responses directly; handlers convert to types.User.
type UserRecord struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BriefRecord is a brief row. Outline holds the raw JSONB payload; callers
// unmarshal into types.Outline.
type BriefRecord struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	Language  string
	Status    string
	Outline   []byte
	Article   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
