package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/serenity-app/serenity-backend/internal/db"
	"github.com/serenity-app/serenity-backend/internal/logger"
	"github.com/serenity-app/serenity-backend/internal/repos"
	"github.com/serenity-app/serenity-backend/internal/types"
)

// Seeds the baseline prompt template and background audio stems. Safe to run
// once against an empty database; reruns will fail on the unique stem names.
func main() {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	templateRepo := repos.NewPromptTemplateRepo(thePG, log)
	stemRepo := repos.NewAudioStemRepo(thePG, log)

	ctx := context.Background()

	template := &types.PromptTemplate{
		ID:      uuid.New(),
		Version: 1,
		Name:    "v1-therapeutic-calm",
		SystemPrompt: "You are a calm, experienced meditation guide. Never diagnose. Never prescribe. " +
			"Always validate emotions. Use second person (you/your). Pace: 1 sentence per 5 seconds of audio.",
		StructureTemplate: "Phase 1 - Grounding (2 min): breathing exercise. Phase 2 - Acknowledgment (3 min): validate specific problems. " +
			"Phase 3 - Reframe (5 min): guided visualization. Phase 4 - Integration (3 min): affirmations. " +
			"Phase 5 - Return (2 min): gradual awareness restoration.",
		SafetyRails: "NEVER suggest stopping medication. NEVER claim to cure conditions. " +
			"If user mentions self-harm, output SAFETY_FLAG token and redirect to resources. Always include grounding techniques.",
		Active: true,
	}
	if _, err := templateRepo.Create(ctx, nil, []*types.PromptTemplate{template}); err != nil {
		log.Fatal("Failed to seed prompt template", "error", err)
	}

	stems := []*types.AudioStem{
		{ID: uuid.New(), Name: "528hz", Category: types.AudioCategoryFrequency, FrequencyHz: 528, DurationSeconds: 900, StorageKey: "stems/528hz.mp3"},
		{ID: uuid.New(), Name: "432hz", Category: types.AudioCategoryFrequency, FrequencyHz: 432, DurationSeconds: 900, StorageKey: "stems/432hz.mp3"},
		{ID: uuid.New(), Name: "rain", Category: types.AudioCategoryNature, DurationSeconds: 900, StorageKey: "stems/rain.mp3"},
		{ID: uuid.New(), Name: "ocean", Category: types.AudioCategoryNature, DurationSeconds: 900, StorageKey: "stems/ocean.mp3"},
		{ID: uuid.New(), Name: "forest", Category: types.AudioCategoryNature, DurationSeconds: 900, StorageKey: "stems/forest.mp3"},
	}
	if _, err := stemRepo.Create(ctx, nil, stems); err != nil {
		log.Fatal("Failed to seed audio stems", "error", err)
	}

	log.Info("Seed data inserted", "stems", len(stems), "template_version", template.Version)
}
