package services

import (
	"fmt"
	"strings"

	"github.com/serenity-app/serenity-backend/internal/types"
)

// requiredPhaseTokens are matched as case-insensitive substrings of phase
// names, so "Grounding" and "ground yourself" both satisfy "ground".
var requiredPhaseTokens = []string{"ground", "acknowledg", "reframe", "integrat", "return"}

var prohibitedPhrases = []string{
	"diagnose",
	"prescribe",
	"medication",
	"cure",
	"treatment plan",
}

type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ValidateScript checks a generated script against the structural, pacing and
// safety rules. All violated rules are collected, not short-circuited.
func ValidateScript(script types.MeditationScript, durationMinutes int) ValidationResult {
	var errs []string

	phaseNames := make([]string, 0, len(script.Phases))
	for _, phase := range script.Phases {
		phaseNames = append(phaseNames, strings.ToLower(phase.Name))
	}

	for _, token := range requiredPhaseTokens {
		found := false
		for _, name := range phaseNames {
			if strings.Contains(name, token) {
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, fmt.Sprintf("Missing phase: %s", token))
		}
	}

	texts := make([]string, 0, len(script.Phases))
	for _, phase := range script.Phases {
		texts = append(texts, phase.ScriptText)
	}
	fullText := strings.Join(texts, " ")
	wordCount := len(strings.Fields(fullText))

	// Pacing bound: roughly 120-300 words per minute, with an 800-word floor.
	minWords := durationMinutes * 120
	if minWords < 800 {
		minWords = 800
	}
	maxWords := durationMinutes * 300

	if wordCount < minWords || wordCount > maxWords {
		errs = append(errs, fmt.Sprintf("Word count out of bounds: %d (expected %d-%d)", wordCount, minWords, maxWords))
	}

	lowerText := strings.ToLower(fullText)
	for _, phrase := range prohibitedPhrases {
		if strings.Contains(lowerText, phrase) {
			errs = append(errs, fmt.Sprintf("Prohibited phrase detected: %s", phrase))
		}
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
