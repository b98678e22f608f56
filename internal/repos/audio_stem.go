package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/serenity-app/serenity-backend/internal/logger"
	"github.com/serenity-app/serenity-backend/internal/types"
)

type AudioStemRepo interface {
	Create(ctx context.Context, tx *gorm.DB, stems []*types.AudioStem) ([]*types.AudioStem, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.AudioStem, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.AudioStem, error)
}

type audioStemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAudioStemRepo(db *gorm.DB, baseLog *logger.Logger) AudioStemRepo {
	return &audioStemRepo{db: db, log: baseLog.With("repo", "AudioStemRepo")}
}

func (r *audioStemRepo) Create(ctx context.Context, tx *gorm.DB, stems []*types.AudioStem) ([]*types.AudioStem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(stems) == 0 {
		return []*types.AudioStem{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&stems).Error; err != nil {
		return nil, err
	}
	return stems, nil
}

func (r *audioStemRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.AudioStem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var stem types.AudioStem
	err := transaction.WithContext(ctx).
		Where("name = ?", name).
		Limit(1).
		Find(&stem).Error
	if err != nil {
		return nil, err
	}
	if stem.ID == uuid.Nil {
		return nil, nil
	}
	return &stem, nil
}

func (r *audioStemRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.AudioStem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.AudioStem
	if err := transaction.WithContext(ctx).
		Order("name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
