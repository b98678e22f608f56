package services

import (
	"context"

	"github.com/serenity-app/serenity-backend/internal/logger"
	"github.com/serenity-app/serenity-backend/internal/repos"
	"github.com/serenity-app/serenity-backend/internal/types"
)

// FallbackTemplate is the compiled-in template used when no row is marked
// active. Version 0 distinguishes scripts generated off the fallback from
// scripts pinned to a seeded template version.
var FallbackTemplate = types.PromptTemplate{
	Version: 0,
	Name:    "fallback-therapeutic",
	SystemPrompt: "You are a calm, experienced meditation guide. Never diagnose. Never prescribe. " +
		"Always validate emotions. Use second person (you/your). Pace: 1 sentence per 5 seconds of audio.",
	StructureTemplate: "Phase 1 - Grounding (2 min): breathing exercise. Phase 2 - Acknowledgment (3 min): validate specific problems. " +
		"Phase 3 - Reframe (5 min): guided visualization. Phase 4 - Integration (3 min): affirmations. " +
		"Phase 5 - Return (2 min): gradual awareness restoration.",
	SafetyRails: "NEVER suggest stopping medication. NEVER claim to cure conditions. " +
		"If user mentions self-harm, output SAFETY_FLAG token and redirect to resources. Always include grounding techniques.",
	Active: true,
}

type PromptTemplateService interface {
	Active(ctx context.Context) (*types.PromptTemplate, error)
}

type promptTemplateService struct {
	log          *logger.Logger
	templateRepo repos.PromptTemplateRepo
}

func NewPromptTemplateService(baseLog *logger.Logger, templateRepo repos.PromptTemplateRepo) PromptTemplateService {
	return &promptTemplateService{
		log:          baseLog.With("service", "PromptTemplateService"),
		templateRepo: templateRepo,
	}
}

// Active returns the flagged template row, falling back to the compiled-in
// default when none is marked active. Lookup errors are real errors; only
// absence falls through.
func (s *promptTemplateService) Active(ctx context.Context) (*types.PromptTemplate, error) {
	template, err := s.templateRepo.GetActive(ctx, nil)
	if err != nil {
		return nil, err
	}
	if template == nil {
		s.log.Warn("No active prompt template, using compiled-in fallback", "fallback_version", FallbackTemplate.Version)
		fallback := FallbackTemplate
		return &fallback, nil
	}
	return template, nil
}
