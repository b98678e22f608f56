package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/serenity-app/serenity-backend/internal/logger"
	"github.com/serenity-app/serenity-backend/internal/types"
)

type SessionScriptRepo interface {
	Create(ctx context.Context, tx *gorm.DB, scripts []*types.SessionScript) ([]*types.SessionScript, error)
	GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (*types.SessionScript, error)
}

type sessionScriptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionScriptRepo(db *gorm.DB, baseLog *logger.Logger) SessionScriptRepo {
	return &sessionScriptRepo{db: db, log: baseLog.With("repo", "SessionScriptRepo")}
}

func (r *sessionScriptRepo) Create(ctx context.Context, tx *gorm.DB, scripts []*types.SessionScript) ([]*types.SessionScript, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(scripts) == 0 {
		return []*types.SessionScript{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&scripts).Error; err != nil {
		return nil, err
	}
	return scripts, nil
}

func (r *sessionScriptRepo) GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (*types.SessionScript, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var script types.SessionScript
	err := transaction.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Limit(1).
		Find(&script).Error
	if err != nil {
		return nil, err
	}
	if script.ID == uuid.Nil {
		return nil, nil
	}
	return &script, nil
}
