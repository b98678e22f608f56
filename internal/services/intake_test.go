package services

import (
	"testing"

	"github.com/serenity-app/serenity-backend/internal/types"
)

func TestProcessIntake_HighIntensity(t *testing.T) {
	brief := ProcessIntake("I feel total panic every morning", 15)
	if brief.Intensity != types.IntensityHigh {
		t.Fatalf("expected high intensity, got %s", brief.Intensity)
	}
	if brief.MoodScore != 8 {
		t.Fatalf("expected mood score 8, got %d", brief.MoodScore)
	}
}

func TestProcessIntake_NoKeywordsDefaultsGeneralStress(t *testing.T) {
	brief := ProcessIntake("just breathing for a while", 10)
	if len(brief.Themes) != 1 || brief.Themes[0] != "general stress" {
		t.Fatalf("expected [general stress], got %v", brief.Themes)
	}
	if brief.Intensity != types.IntensityLow {
		t.Fatalf("expected low intensity, got %s", brief.Intensity)
	}
	if brief.MoodScore != 3 {
		t.Fatalf("expected mood score 3, got %d", brief.MoodScore)
	}
}

func TestProcessIntake_ThemesAndIntensityFromText(t *testing.T) {
	brief := ProcessIntake("I can't stop panicking about my job deadline", 20)

	hasAnxiety, hasWork := false, false
	for _, theme := range brief.Themes {
		switch theme {
		case "anxiety":
			hasAnxiety = true
		case "work":
			hasWork = true
		}
	}
	if !hasAnxiety || !hasWork {
		t.Fatalf("expected anxiety and work themes, got %v", brief.Themes)
	}
	if brief.Intensity != types.IntensityHigh {
		t.Fatalf("expected high intensity, got %s", brief.Intensity)
	}
	if brief.DurationMinutes != 20 {
		t.Fatalf("expected duration 20, got %d", brief.DurationMinutes)
	}
}

func TestProcessIntake_ThemeOrderIsDeterministic(t *testing.T) {
	text := "my health and my sleep and my anxiety are all bad"
	first := ProcessIntake(text, 15)
	for i := 0; i < 10; i++ {
		again := ProcessIntake(text, 15)
		if len(again.Themes) != len(first.Themes) {
			t.Fatalf("theme count changed between runs: %v vs %v", first.Themes, again.Themes)
		}
		for j := range first.Themes {
			if again.Themes[j] != first.Themes[j] {
				t.Fatalf("theme order changed between runs: %v vs %v", first.Themes, again.Themes)
			}
		}
	}
	if first.Themes[0] != "anxiety" || first.Themes[1] != "sleep" || first.Themes[2] != "health" {
		t.Fatalf("unexpected theme order: %v", first.Themes)
	}
}
