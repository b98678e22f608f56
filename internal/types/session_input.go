package types

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SessionInput is the one-to-one intake record for a session, written once
// by the orchestrator before any model call. On a safety alert the
// parsed_themes document is amended with the alert marker and resources.
type SessionInput struct {
	ID           uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SessionID    uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex" json:"session_id"`
	Session      *Session         `gorm:"constraint:OnDelete:CASCADE;foreignKey:SessionID;references:ID" json:"session,omitempty"`
	RawText      string           `gorm:"column:raw_text;type:text;not null" json:"raw_text"`
	ParsedThemes datatypes.JSON   `gorm:"type:jsonb;column:parsed_themes" json:"parsed_themes,omitempty"`
	MoodScore    int              `gorm:"column:mood_score" json:"mood_score,omitempty"`
	Intensity    SessionIntensity `gorm:"column:intensity" json:"intensity,omitempty"`
}

func (SessionInput) TableName() string { return "session_inputs" }

// ParsedThemesDoc is the shape stored in SessionInput.ParsedThemes.
type ParsedThemesDoc struct {
	Themes      []string         `json:"themes"`
	Sound       string           `json:"sound"`
	SafetyAlert bool             `json:"safety_alert,omitempty"`
	Resources   []CrisisResource `json:"resources,omitempty"`
}
