package types

import (
	"time"

	"github.com/google/uuid"
)

type SessionFeedback struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index" json:"session_id"`
	Session   *Session  `gorm:"constraint:OnDelete:CASCADE;foreignKey:SessionID;references:ID" json:"session,omitempty"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Rating    int       `gorm:"column:rating;not null" json:"rating"`
	Helpful   *bool     `gorm:"column:helpful" json:"helpful,omitempty"`
	TooLong   *bool     `gorm:"column:too_long" json:"too_long,omitempty"`
	TooShort  *bool     `gorm:"column:too_short" json:"too_short,omitempty"`
	Notes     string    `gorm:"column:notes;type:text" json:"notes,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (SessionFeedback) TableName() string { return "session_feedback" }
