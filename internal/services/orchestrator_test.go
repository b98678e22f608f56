package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/serenity-app/serenity-backend/internal/logger"
	pkgerrors "github.com/serenity-app/serenity-backend/internal/pkg/errors"
	"github.com/serenity-app/serenity-backend/internal/types"
)

type fakeSessionRepo struct {
	status       types.SessionStatus
	transitions  []map[string]interface{}
	recentCount  int64
	fieldUpdates map[string]interface{}
}

func (f *fakeSessionRepo) Create(ctx context.Context, tx *gorm.DB, sessions []*types.Session) ([]*types.Session, error) {
	return sessions, nil
}

func (f *fakeSessionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Session, error) {
	return nil, nil
}

func (f *fakeSessionRepo) GetByIDForUser(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (*types.Session, error) {
	return nil, nil
}

func (f *fakeSessionRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int) ([]*types.Session, error) {
	return nil, nil
}

func (f *fakeSessionRepo) CountForUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) (int64, error) {
	return f.recentCount, nil
}

func (f *fakeSessionRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	f.fieldUpdates = updates
	return nil
}

func (f *fakeSessionRepo) TransitionStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, from types.SessionStatus, updates map[string]interface{}) (bool, error) {
	if f.status != from {
		return false, nil
	}
	f.status = updates["status"].(types.SessionStatus)
	f.transitions = append(f.transitions, updates)
	return true, nil
}

type fakeInputRepo struct {
	created *types.SessionInput
	updates map[string]interface{}
}

func (f *fakeInputRepo) Create(ctx context.Context, tx *gorm.DB, inputs []*types.SessionInput) ([]*types.SessionInput, error) {
	f.created = inputs[0]
	return inputs, nil
}

func (f *fakeInputRepo) GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (*types.SessionInput, error) {
	return f.created, nil
}

func (f *fakeInputRepo) UpdateFieldsBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, updates map[string]interface{}) error {
	f.updates = updates
	return nil
}

type fakeScriptRepo struct {
	created *types.SessionScript
}

func (f *fakeScriptRepo) Create(ctx context.Context, tx *gorm.DB, scripts []*types.SessionScript) ([]*types.SessionScript, error) {
	f.created = scripts[0]
	return scripts, nil
}

func (f *fakeScriptRepo) GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (*types.SessionScript, error) {
	return f.created, nil
}

type fakeStemRepo struct {
	stem *types.AudioStem
}

func (f *fakeStemRepo) Create(ctx context.Context, tx *gorm.DB, stems []*types.AudioStem) ([]*types.AudioStem, error) {
	return stems, nil
}

func (f *fakeStemRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.AudioStem, error) {
	return f.stem, nil
}

func (f *fakeStemRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.AudioStem, error) {
	return nil, nil
}

type fakeScreener struct {
	result types.SafetyScreenResult
}

func (f *fakeScreener) Screen(ctx context.Context, input string) types.SafetyScreenResult {
	return f.result
}

type fakeTemplates struct{}

func (fakeTemplates) Active(ctx context.Context) (*types.PromptTemplate, error) {
	tpl := FallbackTemplate
	tpl.Version = 1
	return &tpl, nil
}

type fakeGenerator struct {
	script *types.MeditationScript
	err    error
	calls  int
}

func (f *fakeGenerator) Generate(ctx context.Context, brief types.SessionBrief, template *types.PromptTemplate, userHistory string) (*types.MeditationScript, error) {
	f.calls++
	return f.script, f.err
}

type fakeAudio struct {
	url   string
	err   error
	calls int
}

func (f *fakeAudio) Generate(ctx context.Context, params AudioParams) (string, error) {
	f.calls++
	return f.url, f.err
}

type orchestratorFixture struct {
	sessions *fakeSessionRepo
	inputs   *fakeInputRepo
	scripts  *fakeScriptRepo
	stems    *fakeStemRepo
	screener *fakeScreener
	gen      *fakeGenerator
	audio    *fakeAudio
	orch     GenerationOrchestrator
	params   GenerationParams
}

func newOrchestratorFixture(t *testing.T) *orchestratorFixture {
	t.Helper()
	fx := &orchestratorFixture{
		sessions: &fakeSessionRepo{status: types.SessionStatusGenerating},
		inputs:   &fakeInputRepo{},
		scripts:  &fakeScriptRepo{},
		stems:    &fakeStemRepo{stem: &types.AudioStem{Name: "528hz", StorageKey: "stems/528hz.mp3"}},
		screener: &fakeScreener{result: types.SafetyScreenResult{Status: types.SafetyStatusOK}},
		gen:      &fakeGenerator{},
		audio:    &fakeAudio{url: "sessions/abc.mp3"},
	}
	script := scriptWithWords(15 * 200)
	fx.gen.script = &script
	fx.orch = NewGenerationOrchestrator(
		logger.NewNop(),
		fx.sessions,
		fx.inputs,
		fx.scripts,
		fx.stems,
		fx.screener,
		fakeTemplates{},
		fx.gen,
		"test-model",
		fx.audio,
		"aura-asteria-en",
	)
	fx.params = GenerationParams{
		SessionID:       uuid.New(),
		UserID:          uuid.New(),
		RawText:         "stressed about work deadlines",
		DurationMinutes: 15,
	}
	return fx
}

func (fx *orchestratorFixture) lastTransition(t *testing.T) map[string]interface{} {
	t.Helper()
	if len(fx.sessions.transitions) == 0 {
		t.Fatalf("expected a status transition")
	}
	return fx.sessions.transitions[len(fx.sessions.transitions)-1]
}

func TestOrchestratorRun_HappyPath(t *testing.T) {
	fx := newOrchestratorFixture(t)

	if err := fx.orch.Run(context.Background(), fx.params); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if fx.sessions.status != types.SessionStatusReady {
		t.Fatalf("expected ready, got %s", fx.sessions.status)
	}

	updates := fx.lastTransition(t)
	if updates["title"] != "Evening Calm" {
		t.Fatalf("expected script title, got %v", updates["title"])
	}
	if updates["audio_url"] != "sessions/abc.mp3" {
		t.Fatalf("expected audio url, got %v", updates["audio_url"])
	}
	if updates["duration_seconds"] != 15*60 {
		t.Fatalf("expected duration from script estimate, got %v", updates["duration_seconds"])
	}

	if fx.inputs.created == nil {
		t.Fatalf("expected session input persisted")
	}
	if fx.scripts.created == nil {
		t.Fatalf("expected session script persisted")
	}
	if fx.scripts.created.PromptVersion != 1 {
		t.Fatalf("expected script pinned to template version 1, got %d", fx.scripts.created.PromptVersion)
	}
	if fx.scripts.created.ModelUsed != "test-model" {
		t.Fatalf("expected model recorded, got %q", fx.scripts.created.ModelUsed)
	}
	if fx.scripts.created.TokenCount == 0 {
		t.Fatalf("expected non-zero token count")
	}
}

func TestOrchestratorRun_SafetyAlertShortCircuits(t *testing.T) {
	fx := newOrchestratorFixture(t)
	fx.screener.result = crisisAlert()

	if err := fx.orch.Run(context.Background(), fx.params); err != nil {
		t.Fatalf("safety alert must not be an error: %v", err)
	}
	if fx.sessions.status != types.SessionStatusFailed {
		t.Fatalf("expected failed, got %s", fx.sessions.status)
	}
	if fx.gen.calls != 0 {
		t.Fatalf("generator must not run after a safety alert")
	}
	if fx.lastTransition(t)["title"] != "Crisis support resources" {
		t.Fatalf("expected crisis title, got %v", fx.lastTransition(t)["title"])
	}

	var doc types.ParsedThemesDoc
	raw, ok := fx.inputs.updates["parsed_themes"]
	if !ok {
		t.Fatalf("expected parsed_themes update on alert")
	}
	if err := json.Unmarshal(raw.(datatypes.JSON), &doc); err != nil {
		t.Fatalf("parsed_themes not json: %v", err)
	}
	if !doc.SafetyAlert || len(doc.Resources) == 0 {
		t.Fatalf("expected safety alert marker and resources, got %+v", doc)
	}
}

func TestOrchestratorRun_ValidationFailureMarksFailed(t *testing.T) {
	fx := newOrchestratorFixture(t)
	short := scriptWithWords(100)
	fx.gen.script = &short

	if err := fx.orch.Run(context.Background(), fx.params); err != nil {
		t.Fatalf("validation failure must not be an error: %v", err)
	}
	if fx.sessions.status != types.SessionStatusFailed {
		t.Fatalf("expected failed, got %s", fx.sessions.status)
	}
	if fx.scripts.created != nil {
		t.Fatalf("invalid script must not be persisted")
	}
	if fx.lastTransition(t)["title"] != "Session generation failed" {
		t.Fatalf("expected generic failure title, got %v", fx.lastTransition(t)["title"])
	}
}

func TestOrchestratorRun_GeneratorErrorIsFatal(t *testing.T) {
	fx := newOrchestratorFixture(t)
	fx.gen.script = nil
	fx.gen.err = errors.New("model unavailable")

	err := fx.orch.Run(context.Background(), fx.params)
	if err == nil {
		t.Fatalf("expected error from generator failure")
	}
	if fx.sessions.status != types.SessionStatusFailed {
		t.Fatalf("expected failed, got %s", fx.sessions.status)
	}
}

func TestOrchestratorRun_AudioFailureDegradesToTextOnly(t *testing.T) {
	fx := newOrchestratorFixture(t)
	fx.audio.err = errors.New("synthesis failed")
	fx.audio.url = ""

	if err := fx.orch.Run(context.Background(), fx.params); err != nil {
		t.Fatalf("audio failure must not fail the run: %v", err)
	}
	if fx.sessions.status != types.SessionStatusReady {
		t.Fatalf("expected ready, got %s", fx.sessions.status)
	}
	if fx.lastTransition(t)["audio_url"] != "" {
		t.Fatalf("expected empty audio url, got %v", fx.lastTransition(t)["audio_url"])
	}
}

func TestOrchestratorRun_MissingStemSkipsAudio(t *testing.T) {
	fx := newOrchestratorFixture(t)
	fx.stems.stem = nil

	if err := fx.orch.Run(context.Background(), fx.params); err != nil {
		t.Fatalf("missing stem must not fail the run: %v", err)
	}
	if fx.audio.calls != 0 {
		t.Fatalf("audio pipeline must not run without a stem")
	}
	if fx.sessions.status != types.SessionStatusReady {
		t.Fatalf("expected ready, got %s", fx.sessions.status)
	}
}

func TestOrchestratorRun_LostTransitionIsConflict(t *testing.T) {
	fx := newOrchestratorFixture(t)
	fx.sessions.status = types.SessionStatusFailed

	err := fx.orch.Run(context.Background(), fx.params)
	if !errors.Is(err, pkgerrors.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}
