package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/serenity-app/serenity-backend/internal/logger"
	"github.com/serenity-app/serenity-backend/internal/types"
)

type SessionInputRepo interface {
	Create(ctx context.Context, tx *gorm.DB, inputs []*types.SessionInput) ([]*types.SessionInput, error)
	GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (*types.SessionInput, error)
	UpdateFieldsBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, updates map[string]interface{}) error
}

type sessionInputRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionInputRepo(db *gorm.DB, baseLog *logger.Logger) SessionInputRepo {
	return &sessionInputRepo{db: db, log: baseLog.With("repo", "SessionInputRepo")}
}

func (r *sessionInputRepo) Create(ctx context.Context, tx *gorm.DB, inputs []*types.SessionInput) ([]*types.SessionInput, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(inputs) == 0 {
		return []*types.SessionInput{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&inputs).Error; err != nil {
		return nil, err
	}
	return inputs, nil
}

func (r *sessionInputRepo) GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (*types.SessionInput, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var input types.SessionInput
	err := transaction.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Limit(1).
		Find(&input).Error
	if err != nil {
		return nil, err
	}
	if input.ID == uuid.Nil {
		return nil, nil
	}
	return &input, nil
}

func (r *sessionInputRepo) UpdateFieldsBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.SessionInput{}).
		Where("session_id = ?", sessionID).
		Updates(updates).Error
}
