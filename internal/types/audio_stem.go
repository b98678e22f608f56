package types

import (
	"github.com/google/uuid"
)

type AudioCategory string

const (
	AudioCategoryFrequency AudioCategory = "frequency"
	AudioCategoryNature    AudioCategory = "nature"
	AudioCategoryAmbient   AudioCategory = "ambient"
)

// AudioStem is a pre-recorded background track mixed under narration.
// StorageKey is the object-storage key of the mp3.
type AudioStem struct {
	ID              uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name            string        `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Category        AudioCategory `gorm:"column:category;not null" json:"category"`
	FrequencyHz     int           `gorm:"column:frequency_hz" json:"frequency_hz,omitempty"`
	DurationSeconds int           `gorm:"column:duration_seconds;not null" json:"duration_seconds"`
	StorageKey      string        `gorm:"column:storage_key;not null" json:"storage_key"`
}

func (AudioStem) TableName() string { return "audio_stems" }
