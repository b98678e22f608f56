package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/serenity-app/serenity-backend/internal/logger"
	"github.com/serenity-app/serenity-backend/internal/types"
)

type AnalyticsEventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, events []*types.AnalyticsEvent) ([]*types.AnalyticsEvent, error)
}

type analyticsEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAnalyticsEventRepo(db *gorm.DB, baseLog *logger.Logger) AnalyticsEventRepo {
	return &analyticsEventRepo{db: db, log: baseLog.With("repo", "AnalyticsEventRepo")}
}

func (r *analyticsEventRepo) Create(ctx context.Context, tx *gorm.DB, events []*types.AnalyticsEvent) ([]*types.AnalyticsEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(events) == 0 {
		return []*types.AnalyticsEvent{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
