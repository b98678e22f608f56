package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/serenity-app/serenity-backend/internal/logger"
	"github.com/serenity-app/serenity-backend/internal/types"
)

const (
	scriptMaxTokens   = 8000
	scriptTemperature = 0.7
	scriptMaxAttempts = 3
	scriptBackoffBase = 500 * time.Millisecond
)

type ScriptGenerator interface {
	Generate(ctx context.Context, brief types.SessionBrief, template *types.PromptTemplate, userHistory string) (*types.MeditationScript, error)
}

type scriptGenerator struct {
	log *logger.Logger
	ai  AIClient
}

func NewScriptGenerator(baseLog *logger.Logger, ai AIClient) ScriptGenerator {
	return &scriptGenerator{
		log: baseLog.With("service", "ScriptGenerator"),
		ai:  ai,
	}
}

func buildScriptPrompt(template *types.PromptTemplate, brief types.SessionBrief, userHistory string) string {
	contextLines := []string{
		fmt.Sprintf("User is dealing with: %s.", strings.Join(brief.Themes, ", ")),
		fmt.Sprintf("User input: %s.", brief.RawText),
		fmt.Sprintf("Intensity: %s.", brief.Intensity),
		fmt.Sprintf("Duration target: %d minutes.", brief.DurationMinutes),
	}
	if userHistory != "" {
		contextLines = append(contextLines, fmt.Sprintf("Session history: %s.", userHistory))
	}

	sections := []string{
		template.SystemPrompt,
		"\n---\n",
		"User Context:",
		strings.Join(contextLines, "\n"),
		"\n---\n",
		"Script Structure:",
		template.StructureTemplate,
		"\n---\n",
		"Safety Rails:",
		template.SafetyRails,
		"\n---\n",
		"Output Format:",
		"Respond in JSON: { title, duration_estimate, phases: [{ name, duration_seconds, script_text, pacing_note }], tags, mood_target }",
	}
	return strings.Join(sections, "\n")
}

var (
	jsonFenceRe    = regexp.MustCompile("(?is)```json(.*?)```")
	genericFenceRe = regexp.MustCompile("(?s)```(.*?)```")
)

// extractJSON pulls the JSON document out of a model reply that may wrap it
// in prose or a code fence.
func extractJSON(text string) string {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{") {
		return trimmed
	}

	if m := jsonFenceRe.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := genericFenceRe.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start != -1 && end != -1 && end > start {
		return trimmed[start : end+1]
	}

	return trimmed
}

// Generate builds the templated prompt and calls the model, retrying
// transport and parse failures up to 3 attempts with exponential backoff.
// Exhaustion surfaces the last error; the orchestrator treats that as fatal.
func (g *scriptGenerator) Generate(ctx context.Context, brief types.SessionBrief, template *types.PromptTemplate, userHistory string) (*types.MeditationScript, error) {
	prompt := buildScriptPrompt(template, brief, userHistory)

	var lastErr error
	for attempt := 1; attempt <= scriptMaxAttempts; attempt++ {
		content, err := g.ai.Complete(ctx, prompt, AIOptions{
			MaxTokens:   scriptMaxTokens,
			Temperature: scriptTemperature,
		})
		if err == nil {
			var script types.MeditationScript
			if parseErr := json.Unmarshal([]byte(extractJSON(content)), &script); parseErr == nil {
				return &script, nil
			} else {
				err = fmt.Errorf("parse script JSON: %w", parseErr)
			}
		}

		lastErr = err
		g.log.Warn("Script generation attempt failed", "attempt", attempt, "error", err)

		if attempt < scriptMaxAttempts {
			backoff := scriptBackoffBase * (1 << (attempt - 1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return nil, fmt.Errorf("generate script after %d attempts: %w", scriptMaxAttempts, lastErr)
}
