package types

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SessionScript is written once per session, only after the generated script
// passed validation. PromptVersion pins the template the script was built
// from so a session stays reproducible after template edits.
type SessionScript struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SessionID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"session_id"`
	Session       *Session       `gorm:"constraint:OnDelete:CASCADE;foreignKey:SessionID;references:ID" json:"session,omitempty"`
	FullScript    string         `gorm:"column:full_script;type:text;not null" json:"full_script"`
	Phases        datatypes.JSON `gorm:"type:jsonb;column:phases;not null" json:"phases"`
	PromptVersion int            `gorm:"column:prompt_version;not null" json:"prompt_version"`
	ModelUsed     string         `gorm:"column:model_used;not null" json:"model_used"`
	TokenCount    int            `gorm:"column:token_count;not null" json:"token_count"`
}

func (SessionScript) TableName() string { return "session_scripts" }
