package services

import (
	"strings"

	"github.com/serenity-app/serenity-backend/internal/types"
)

var themeKeywords = map[string][]string{
	"anxiety":      {"anxious", "anxiety", "panic", "nervous", "worried", "worry"},
	"sleep":        {"sleep", "insomnia", "tired", "restless", "nightmare"},
	"work":         {"work", "job", "career", "deadline", "burnout", "boss"},
	"relationship": {"relationship", "partner", "breakup", "divorce", "love", "lonely"},
	"grief":        {"grief", "loss", "mourning", "passed away"},
	"focus":        {"focus", "concentrate", "distracted", "adhd"},
	"self_esteem":  {"self-esteem", "confidence", "insecure", "self worth"},
	"health":       {"health", "illness", "pain", "chronic", "body"},
}

// themeOrder keeps the theme list deterministic across runs; map iteration
// order would reshuffle it.
var themeOrder = []string{"anxiety", "sleep", "work", "relationship", "grief", "focus", "self_esteem", "health"}

var intensitySignals = map[types.SessionIntensity][]string{
	types.IntensityHigh:   {"panic", "overwhelmed", "can't cope", "hopeless", "desperate", "terrified"},
	types.IntensityMedium: {"stressed", "worried", "anxious", "tense", "restless"},
	types.IntensityLow:    {"uneasy", "mild", "a bit", "somewhat"},
}

func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func scoreIntensity(lower string) types.SessionIntensity {
	if containsAny(lower, intensitySignals[types.IntensityHigh]) {
		return types.IntensityHigh
	}
	if containsAny(lower, intensitySignals[types.IntensityMedium]) {
		return types.IntensityMedium
	}
	return types.IntensityLow
}

func estimateMoodScore(intensity types.SessionIntensity) int {
	switch intensity {
	case types.IntensityHigh:
		return 8
	case types.IntensityMedium:
		return 5
	default:
		return 3
	}
}

// ProcessIntake classifies raw user text into a SessionBrief. Pure function,
// no I/O, never fails.
func ProcessIntake(rawText string, durationMinutes int) types.SessionBrief {
	lower := strings.ToLower(rawText)

	var themes []string
	for _, theme := range themeOrder {
		if containsAny(lower, themeKeywords[theme]) {
			themes = append(themes, theme)
		}
	}
	if len(themes) == 0 {
		themes = []string{"general stress"}
	}

	intensity := scoreIntensity(lower)

	return types.SessionBrief{
		RawText:         rawText,
		Themes:          themes,
		MoodScore:       estimateMoodScore(intensity),
		Intensity:       intensity,
		DurationMinutes: durationMinutes,
	}
}
