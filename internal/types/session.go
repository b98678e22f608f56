package types

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionStatusGenerating SessionStatus = "generating"
	SessionStatusReady      SessionStatus = "ready"
	SessionStatusFailed     SessionStatus = "failed"
	SessionStatusPlayed     SessionStatus = "played"
	SessionStatusArchived   SessionStatus = "archived"
)

// Session is the root aggregate for one generated meditation. It is created
// in "generating" and moved to exactly one terminal state by the orchestrator.
type Session struct {
	ID              uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID          uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	User            *User         `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Title           string        `gorm:"column:title" json:"title,omitempty"`
	Status          SessionStatus `gorm:"column:status;not null;default:'generating';index" json:"status"`
	DurationSeconds int           `gorm:"column:duration_seconds" json:"duration_seconds,omitempty"`
	AudioURL        string        `gorm:"column:audio_url" json:"audio_url,omitempty"`
	CreatedAt       time.Time     `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"not null;default:now()" json:"updated_at"`
}

func (Session) TableName() string { return "sessions" }
