package types

import (
	"time"

	"github.com/google/uuid"
)

// PromptTemplate drives script generation. At most one row should be active
// at a time; generated scripts pin the version they were built from and a
// referenced template is treated as immutable.
type PromptTemplate struct {
	ID                uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Version           int       `gorm:"column:version;not null" json:"version"`
	Name              string    `gorm:"column:name;not null" json:"name"`
	SystemPrompt      string    `gorm:"column:system_prompt;type:text;not null" json:"system_prompt"`
	StructureTemplate string    `gorm:"column:structure_template;type:text;not null" json:"structure_template"`
	SafetyRails       string    `gorm:"column:safety_rails;type:text;not null" json:"safety_rails"`
	Active            bool      `gorm:"column:active;not null;default:false;index" json:"active"`
	CreatedAt         time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (PromptTemplate) TableName() string { return "prompt_templates" }
