package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/serenity-app/serenity-backend/internal/logger"
	"github.com/serenity-app/serenity-backend/internal/types"
)

type PromptTemplateRepo interface {
	Create(ctx context.Context, tx *gorm.DB, templates []*types.PromptTemplate) ([]*types.PromptTemplate, error)
	GetActive(ctx context.Context, tx *gorm.DB) (*types.PromptTemplate, error)
}

type promptTemplateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPromptTemplateRepo(db *gorm.DB, baseLog *logger.Logger) PromptTemplateRepo {
	return &promptTemplateRepo{db: db, log: baseLog.With("repo", "PromptTemplateRepo")}
}

func (r *promptTemplateRepo) Create(ctx context.Context, tx *gorm.DB, templates []*types.PromptTemplate) ([]*types.PromptTemplate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(templates) == 0 {
		return []*types.PromptTemplate{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *promptTemplateRepo) GetActive(ctx context.Context, tx *gorm.DB) (*types.PromptTemplate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var template types.PromptTemplate
	err := transaction.WithContext(ctx).
		Where("active = ?", true).
		Order("version DESC").
		Limit(1).
		Find(&template).Error
	if err != nil {
		return nil, err
	}
	if template.ID == uuid.Nil {
		return nil, nil
	}
	return &template, nil
}
