package services

import (
	"strings"
	"testing"

	"github.com/serenity-app/serenity-backend/internal/types"
)

func scriptWithWords(totalWords int) types.MeditationScript {
	phaseNames := []string{"Grounding", "Acknowledgment", "Reframe", "Integration", "Return"}
	perPhase := totalWords / len(phaseNames)
	remainder := totalWords - perPhase*len(phaseNames)

	phases := make([]types.MeditationPhase, 0, len(phaseNames))
	for i, name := range phaseNames {
		n := perPhase
		if i == 0 {
			n += remainder
		}
		phases = append(phases, types.MeditationPhase{
			Name:            name,
			DurationSeconds: 180,
			ScriptText:      strings.TrimSpace(strings.Repeat("breathe ", n)),
		})
	}
	return types.MeditationScript{Title: "Evening Calm", DurationEstimate: 15, Phases: phases}
}

func TestValidateScript_WellFormedPasses(t *testing.T) {
	result := ValidateScript(scriptWithWords(15*200), 15)
	if !result.Valid {
		t.Fatalf("expected valid, got errors: %v", result.Errors)
	}
}

func TestValidateScript_MissingPhase(t *testing.T) {
	script := scriptWithWords(15 * 200)
	script.Phases = append(script.Phases[:2], script.Phases[3:]...)

	result := ValidateScript(script, 15)
	if result.Valid {
		t.Fatalf("expected invalid")
	}
	found := false
	for _, e := range result.Errors {
		if strings.Contains(e, "reframe") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected missing reframe phase error, got %v", result.Errors)
	}
}

func TestValidateScript_ProhibitedPhrase(t *testing.T) {
	script := scriptWithWords(15 * 200)
	script.Phases[1].ScriptText += " your medication will help"

	result := ValidateScript(script, 15)
	if result.Valid {
		t.Fatalf("expected invalid")
	}
	found := false
	for _, e := range result.Errors {
		if strings.Contains(e, "medication") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected prohibited phrase error, got %v", result.Errors)
	}
}

func TestValidateScript_WordBounds(t *testing.T) {
	// 15 minutes: floor is 1800 (15*120 > 800), ceiling is 4500.
	cases := []struct {
		words int
		valid bool
	}{
		{1800, true},
		{4500, true},
		{1799, false},
		{4501, false},
	}
	for _, tc := range cases {
		result := ValidateScript(scriptWithWords(tc.words), 15)
		if result.Valid != tc.valid {
			t.Fatalf("words=%d: expected valid=%v, got errors %v", tc.words, tc.valid, result.Errors)
		}
	}
}

func TestValidateScript_ShortSessionFloorIs800(t *testing.T) {
	// 5 minutes: 5*120=600 is below the 800 floor.
	if result := ValidateScript(scriptWithWords(799), 5); result.Valid {
		t.Fatalf("expected 799 words to fail the 800-word floor")
	}
	if result := ValidateScript(scriptWithWords(900), 5); !result.Valid {
		t.Fatalf("expected 900 words to pass, got %v", result.Errors)
	}
}
