package services

import (
	"context"
	"strings"

	"github.com/serenity-app/serenity-backend/internal/logger"
	"github.com/serenity-app/serenity-backend/internal/types"
)

var crisisKeywords = []string{
	"suicide",
	"self-harm",
	"kill myself",
	"end it all",
	"i want to die",
	"hurt myself",
}

var ambiguousKeywords = []string{"hopeless", "worthless", "no way out", "give up"}

var crisisResources = []types.CrisisResource{
	{
		Title: "988 Suicide & Crisis Lifeline",
		Phone: "988",
		URL:   "https://988lifeline.org",
	},
	{
		Title: "Crisis Text Line",
		Text:  "Text HOME to 741741",
	},
}

const crisisMessage = "It sounds like you might be in crisis. Please reach out for immediate help."

type SafetyScreener interface {
	Screen(ctx context.Context, input string) types.SafetyScreenResult
}

type safetyScreener struct {
	log *logger.Logger
	ai  AIClient
}

// NewSafetyScreener builds the two-tier crisis screen. Unambiguous crisis
// phrases alert without a model call; ambiguous phrases escalate to the
// classifier. A classifier that errors or answers anything but UNSAFE yields
// "ok": when the model is unavailable we prefer missing an ambiguous case
// over blocking every user who writes "give up".
func NewSafetyScreener(baseLog *logger.Logger, ai AIClient) SafetyScreener {
	return &safetyScreener{
		log: baseLog.With("service", "SafetyScreener"),
		ai:  ai,
	}
}

func crisisAlert() types.SafetyScreenResult {
	return types.SafetyScreenResult{
		Status:    types.SafetyStatusAlert,
		Message:   crisisMessage,
		Resources: crisisResources,
	}
}

func (s *safetyScreener) Screen(ctx context.Context, input string) types.SafetyScreenResult {
	lower := strings.ToLower(input)

	if containsAny(lower, crisisKeywords) {
		return crisisAlert()
	}

	if containsAny(lower, ambiguousKeywords) {
		classification := s.classify(ctx, input)
		if classification == "unsafe" {
			return crisisAlert()
		}
	}

	return types.SafetyScreenResult{Status: types.SafetyStatusOK}
}

// classify returns "safe", "unsafe", or "unknown".
func (s *safetyScreener) classify(ctx context.Context, input string) string {
	if s.ai == nil {
		return "unknown"
	}

	prompt := "Classify if the following user input indicates imminent self-harm or suicidal intent. Reply only with SAFE or UNSAFE.\n\nInput: " + input

	reply, err := s.ai.Classify(ctx, prompt)
	if err != nil {
		s.log.Warn("Safety classifier unavailable, defaulting to ok", "error", err)
		return "unknown"
	}

	lower := strings.ToLower(reply)
	if strings.Contains(lower, "unsafe") {
		return "unsafe"
	}
	if strings.Contains(lower, "safe") {
		return "safe"
	}
	return "unknown"
}
