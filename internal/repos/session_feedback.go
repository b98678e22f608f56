package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/serenity-app/serenity-backend/internal/logger"
	"github.com/serenity-app/serenity-backend/internal/types"
)

type SessionFeedbackRepo interface {
	Create(ctx context.Context, tx *gorm.DB, feedback []*types.SessionFeedback) ([]*types.SessionFeedback, error)
}

type sessionFeedbackRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionFeedbackRepo(db *gorm.DB, baseLog *logger.Logger) SessionFeedbackRepo {
	return &sessionFeedbackRepo{db: db, log: baseLog.With("repo", "SessionFeedbackRepo")}
}

func (r *sessionFeedbackRepo) Create(ctx context.Context, tx *gorm.DB, feedback []*types.SessionFeedback) ([]*types.SessionFeedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(feedback) == 0 {
		return []*types.SessionFeedback{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&feedback).Error; err != nil {
		return nil, err
	}
	return feedback, nil
}
