package services

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/serenity-app/serenity-backend/internal/logger"
	"github.com/serenity-app/serenity-backend/internal/types"
)

type fakeTemplateRepo struct {
	active *types.PromptTemplate
	err    error
}

func (f *fakeTemplateRepo) Create(ctx context.Context, tx *gorm.DB, templates []*types.PromptTemplate) ([]*types.PromptTemplate, error) {
	return templates, nil
}

func (f *fakeTemplateRepo) GetActive(ctx context.Context, tx *gorm.DB) (*types.PromptTemplate, error) {
	return f.active, f.err
}

func TestTemplateActive_UsesSeededRow(t *testing.T) {
	seeded := &types.PromptTemplate{Version: 3, Name: "v3-test", SystemPrompt: "x", StructureTemplate: "y", SafetyRails: "z", Active: true}
	svc := NewPromptTemplateService(logger.NewNop(), &fakeTemplateRepo{active: seeded})

	got, err := svc.Active(context.Background())
	if err != nil {
		t.Fatalf("Active failed: %v", err)
	}
	if got.Version != 3 {
		t.Fatalf("expected seeded template, got version %d", got.Version)
	}
}

func TestTemplateActive_FallsBackWhenNoneActive(t *testing.T) {
	svc := NewPromptTemplateService(logger.NewNop(), &fakeTemplateRepo{})

	got, err := svc.Active(context.Background())
	if err != nil {
		t.Fatalf("Active failed: %v", err)
	}
	if got.Version != FallbackTemplate.Version || got.Name != FallbackTemplate.Name {
		t.Fatalf("expected fallback template, got %+v", got)
	}
}
