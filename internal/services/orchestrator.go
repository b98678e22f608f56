package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/serenity-app/serenity-backend/internal/logger"
	pkgerrors "github.com/serenity-app/serenity-backend/internal/pkg/errors"
	"github.com/serenity-app/serenity-backend/internal/repos"
	"github.com/serenity-app/serenity-backend/internal/types"
)

const (
	generatingTitle  = "Generating your session"
	crisisTitle      = "Crisis support resources"
	genericFailTitle = "Session generation failed"
	defaultStemName  = "528hz"
)

// GenerationParams is the input of one orchestrator run. Exactly one run is
// dispatched per session, at creation time.
type GenerationParams struct {
	SessionID       uuid.UUID
	UserID          uuid.UUID
	RawText         string
	DurationMinutes int
	SoundPreference string
}

// GenerationOrchestrator drives a session from "generating" to a terminal
// state: intake, safety screen, script generation, validation, best-effort
// audio, final status write.
type GenerationOrchestrator interface {
	Run(ctx context.Context, params GenerationParams) error
}

type generationOrchestrator struct {
	log *logger.Logger

	sessionRepo repos.SessionRepo
	inputRepo   repos.SessionInputRepo
	scriptRepo  repos.SessionScriptRepo
	stemRepo    repos.AudioStemRepo

	safety    SafetyScreener
	templates PromptTemplateService
	generator ScriptGenerator
	modelUsed string

	// audio is nil when speech synthesis or storage is unconfigured; the
	// session then succeeds text-only.
	audio    AudioPipeline
	ttsModel string
}

func NewGenerationOrchestrator(
	baseLog *logger.Logger,
	sessionRepo repos.SessionRepo,
	inputRepo repos.SessionInputRepo,
	scriptRepo repos.SessionScriptRepo,
	stemRepo repos.AudioStemRepo,
	safety SafetyScreener,
	templates PromptTemplateService,
	generator ScriptGenerator,
	modelUsed string,
	audio AudioPipeline,
	ttsModel string,
) GenerationOrchestrator {
	return &generationOrchestrator{
		log:         baseLog.With("service", "GenerationOrchestrator"),
		sessionRepo: sessionRepo,
		inputRepo:   inputRepo,
		scriptRepo:  scriptRepo,
		stemRepo:    stemRepo,
		safety:      safety,
		templates:   templates,
		generator:   generator,
		modelUsed:   modelUsed,
		audio:       audio,
		ttsModel:    ttsModel,
	}
}

// Run executes the generation state machine for one session. Safety alerts
// and validation failures are policy rejections, not errors: the session is
// transitioned to "failed" and Run returns nil. Any error escaping the
// earlier stages marks the session "failed" and is returned to the caller
// for logging. The audio stage alone is soft-fail.
func (o *generationOrchestrator) Run(ctx context.Context, params GenerationParams) error {
	log := o.log.With("session_id", params.SessionID)

	if err := o.run(ctx, log, params); err != nil {
		if _, terr := o.sessionRepo.TransitionStatus(ctx, nil, params.SessionID, types.SessionStatusGenerating, map[string]interface{}{
			"status": types.SessionStatusFailed,
			"title":  genericFailTitle,
		}); terr != nil {
			log.Error("Failed to mark session failed", "error", terr)
		}
		return err
	}
	return nil
}

func (o *generationOrchestrator) run(ctx context.Context, log *logger.Logger, params GenerationParams) error {
	sound := params.SoundPreference
	if sound == "" {
		sound = defaultStemName
	}

	// 1. Intake. Always persisted, regardless of downstream outcome.
	brief := ProcessIntake(params.RawText, params.DurationMinutes)
	input := &types.SessionInput{
		ID:        uuid.New(),
		SessionID: params.SessionID,
		RawText:   brief.RawText,
		ParsedThemes: mustJSON(types.ParsedThemesDoc{
			Themes: brief.Themes,
			Sound:  sound,
		}),
		MoodScore: brief.MoodScore,
		Intensity: brief.Intensity,
	}
	if _, err := o.inputRepo.Create(ctx, nil, []*types.SessionInput{input}); err != nil {
		return fmt.Errorf("persist session input: %w", err)
	}

	// 2. Safety screen. An alert short-circuits generation entirely.
	safety := o.safety.Screen(ctx, params.RawText)
	if safety.Status == types.SafetyStatusAlert {
		log.Warn("Safety alert on session input", "themes", brief.Themes)
		if err := o.inputRepo.UpdateFieldsBySessionID(ctx, nil, params.SessionID, map[string]interface{}{
			"parsed_themes": mustJSON(types.ParsedThemesDoc{
				Themes:      brief.Themes,
				Sound:       sound,
				SafetyAlert: true,
				Resources:   safety.Resources,
			}),
		}); err != nil {
			return fmt.Errorf("mark safety alert on input: %w", err)
		}
		return o.transitionTerminal(ctx, log, params.SessionID, map[string]interface{}{
			"status":           types.SessionStatusFailed,
			"title":            crisisTitle,
			"duration_seconds": params.DurationMinutes * 60,
		})
	}

	// 3. Resolve the active template (or compiled-in fallback).
	template, err := o.templates.Active(ctx)
	if err != nil {
		return fmt.Errorf("resolve prompt template: %w", err)
	}

	// 4. Script generation. Exhausted retries are fatal to the run.
	script, err := o.generator.Generate(ctx, brief, template, "")
	if err != nil {
		return err
	}

	// 5. Validation failure is terminal but not an error. Rule details are
	// logged and deliberately not persisted or exposed to the caller.
	validation := ValidateScript(*script, params.DurationMinutes)
	if !validation.Valid {
		log.Warn("Generated script failed validation", "errors", validation.Errors)
		return o.transitionTerminal(ctx, log, params.SessionID, map[string]interface{}{
			"status":           types.SessionStatusFailed,
			"title":            genericFailTitle,
			"duration_seconds": params.DurationMinutes * 60,
		})
	}

	// 6. Persist the script, pinned to the template version it came from.
	fullScript := NarrationText(script)
	record := &types.SessionScript{
		ID:            uuid.New(),
		SessionID:     params.SessionID,
		FullScript:    fullScript,
		Phases:        mustJSON(script.Phases),
		PromptVersion: template.Version,
		ModelUsed:     o.modelUsed,
		TokenCount:    len(strings.Fields(fullScript)),
	}
	if _, err := o.scriptRepo.Create(ctx, nil, []*types.SessionScript{record}); err != nil {
		return fmt.Errorf("persist session script: %w", err)
	}

	// 7. Audio is the one soft-fail stage: any error degrades to text-only.
	audioURL := ""
	if o.audio != nil {
		url, audioErr := o.attemptAudio(ctx, params, script, sound)
		if audioErr != nil {
			log.Warn("Audio generation failed, continuing text-only", "error", audioErr)
		} else {
			audioURL = url
		}
	}

	// 8. Ready. Duration comes from the script's own estimate, not the
	// originally requested duration.
	return o.transitionTerminal(ctx, log, params.SessionID, map[string]interface{}{
		"status":           types.SessionStatusReady,
		"title":            script.Title,
		"duration_seconds": int(math.Round(script.DurationEstimate * 60)),
		"audio_url":        audioURL,
	})
}

func (o *generationOrchestrator) attemptAudio(ctx context.Context, params GenerationParams, script *types.MeditationScript, sound string) (string, error) {
	stem, err := o.stemRepo.GetByName(ctx, nil, sound)
	if err != nil {
		return "", fmt.Errorf("look up stem %q: %w", sound, err)
	}
	if stem == nil {
		return "", fmt.Errorf("no stem named %q", sound)
	}
	return o.audio.Generate(ctx, AudioParams{
		Script:                script,
		TTSModel:              o.ttsModel,
		BackgroundStemKey:     stem.StorageKey,
		TargetDurationSeconds: params.DurationMinutes * 60,
		SessionID:             params.SessionID.String(),
	})
}

// transitionTerminal writes a terminal status with the duplicate-run guard:
// only the run that still sees "generating" wins.
func (o *generationOrchestrator) transitionTerminal(ctx context.Context, log *logger.Logger, sessionID uuid.UUID, updates map[string]interface{}) error {
	applied, err := o.sessionRepo.TransitionStatus(ctx, nil, sessionID, types.SessionStatusGenerating, updates)
	if err != nil {
		return fmt.Errorf("transition session: %w", err)
	}
	if !applied {
		log.Warn("Session already left generating state, terminal write skipped")
		return fmt.Errorf("session %s: %w", sessionID, pkgerrors.ErrConflict)
	}
	return nil
}

func mustJSON(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte(`{}`))
	}
	return datatypes.JSON(b)
}
