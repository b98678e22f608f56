package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/serenity-app/serenity-backend/internal/logger"
	"github.com/serenity-app/serenity-backend/internal/repos"
	"github.com/serenity-app/serenity-backend/internal/types"
)

// AnalyticsService records product events. Writes are best-effort: a failed
// insert is logged and never surfaces to the request path.
type AnalyticsService interface {
	Track(ctx context.Context, userID *uuid.UUID, eventType string, properties map[string]any)
}

type analyticsService struct {
	log       *logger.Logger
	eventRepo repos.AnalyticsEventRepo
}

func NewAnalyticsService(baseLog *logger.Logger, eventRepo repos.AnalyticsEventRepo) AnalyticsService {
	return &analyticsService{
		log:       baseLog.With("service", "AnalyticsService"),
		eventRepo: eventRepo,
	}
}

func (s *analyticsService) Track(ctx context.Context, userID *uuid.UUID, eventType string, properties map[string]any) {
	event := &types.AnalyticsEvent{
		ID:        uuid.New(),
		UserID:    userID,
		EventType: eventType,
		Timestamp: time.Now(),
	}
	if len(properties) > 0 {
		if b, err := json.Marshal(properties); err == nil {
			event.Properties = datatypes.JSON(b)
		}
	}
	if _, err := s.eventRepo.Create(ctx, nil, []*types.AnalyticsEvent{event}); err != nil {
		s.log.Warn("Failed to record analytics event", "event_type", eventType, "error", err)
	}
}
