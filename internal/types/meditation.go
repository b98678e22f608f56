package types

type SessionIntensity string

const (
	IntensityLow    SessionIntensity = "low"
	IntensityMedium SessionIntensity = "medium"
	IntensityHigh   SessionIntensity = "high"
)

// SessionBrief is the intake result for one generation run. It is embedded
// into the session_inputs row rather than persisted on its own.
type SessionBrief struct {
	RawText         string           `json:"raw_text"`
	Themes          []string         `json:"themes"`
	MoodScore       int              `json:"mood_score"`
	Intensity       SessionIntensity `json:"intensity"`
	DurationMinutes int              `json:"duration_minutes"`
}

// MeditationScript is the parsed model output. Not mutated after validation.
type MeditationScript struct {
	Title            string            `json:"title"`
	DurationEstimate float64           `json:"duration_estimate"`
	Phases           []MeditationPhase `json:"phases"`
	Tags             []string          `json:"tags"`
	MoodTarget       string            `json:"mood_target"`
}

type MeditationPhase struct {
	Name            string `json:"name"`
	DurationSeconds int    `json:"duration_seconds"`
	ScriptText      string `json:"script_text"`
	PacingNote      string `json:"pacing_note,omitempty"`
}

type SafetyStatus string

const (
	SafetyStatusOK    SafetyStatus = "ok"
	SafetyStatusAlert SafetyStatus = "alert"
)

type CrisisResource struct {
	Title string `json:"title"`
	Phone string `json:"phone,omitempty"`
	Text  string `json:"text,omitempty"`
	URL   string `json:"url,omitempty"`
}

type SafetyScreenResult struct {
	Status    SafetyStatus     `json:"status"`
	Message   string           `json:"message,omitempty"`
	Resources []CrisisResource `json:"resources,omitempty"`
}
