package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AnalyticsEvent struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     *uuid.UUID     `gorm:"type:uuid;index" json:"user_id,omitempty"`
	EventType  string         `gorm:"column:event_type;not null;index" json:"event_type"`
	Properties datatypes.JSON `gorm:"type:jsonb;column:properties" json:"properties,omitempty"`
	Timestamp  time.Time      `gorm:"column:timestamp;not null;default:now();index" json:"timestamp"`
}

func (AnalyticsEvent) TableName() string { return "analytics_events" }
