package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/serenity-app/serenity-backend/internal/jobs"
	"github.com/serenity-app/serenity-backend/internal/logger"
	pkgerrors "github.com/serenity-app/serenity-backend/internal/pkg/errors"
	"github.com/serenity-app/serenity-backend/internal/repos"
	"github.com/serenity-app/serenity-backend/internal/types"
)

const (
	maxInputChars      = 2000
	minDurationMinutes = 10
	maxDurationMinutes = 30
	defaultDuration    = 15

	freeTierWeeklyLimit = 2

	defaultListLimit = 20
	maxListLimit     = 50

	streamURLTTL = time.Hour
)

// CreateSessionInput carries the client payload for session creation.
type CreateSessionInput struct {
	RawText         string `json:"raw_text"`
	DurationMinutes int    `json:"duration_minutes"`
	SoundPreference string `json:"sound_preference"`
}

// SessionDetail bundles a session with its input and script for the detail
// endpoint. Input and Script are nil until the corresponding stage has run.
type SessionDetail struct {
	Session *types.Session       `json:"session"`
	Input   *types.SessionInput  `json:"input,omitempty"`
	Script  *types.SessionScript `json:"script,omitempty"`
}

type SessionService interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateSessionInput) (*types.Session, error)
	Get(ctx context.Context, userID, sessionID uuid.UUID) (*SessionDetail, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*types.Session, error)
	StreamURL(ctx context.Context, userID, sessionID uuid.UUID) (string, error)
	Feedback(ctx context.Context, userID, sessionID uuid.UUID, fb *types.SessionFeedback) error
}

type sessionService struct {
	log          *logger.Logger
	sessionRepo  repos.SessionRepo
	inputRepo    repos.SessionInputRepo
	scriptRepo   repos.SessionScriptRepo
	feedbackRepo repos.SessionFeedbackRepo
	userRepo     repos.UserRepo
	bucket       BucketService
	orchestrator GenerationOrchestrator
	runner       *jobs.Runner
}

func NewSessionService(
	baseLog *logger.Logger,
	sessionRepo repos.SessionRepo,
	inputRepo repos.SessionInputRepo,
	scriptRepo repos.SessionScriptRepo,
	feedbackRepo repos.SessionFeedbackRepo,
	userRepo repos.UserRepo,
	bucket BucketService,
	orchestrator GenerationOrchestrator,
	runner *jobs.Runner,
) SessionService {
	return &sessionService{
		log:          baseLog.With("service", "SessionService"),
		sessionRepo:  sessionRepo,
		inputRepo:    inputRepo,
		scriptRepo:   scriptRepo,
		feedbackRepo: feedbackRepo,
		userRepo:     userRepo,
		bucket:       bucket,
		orchestrator: orchestrator,
		runner:       runner,
	}
}

// SanitizeInputText trims, strips control characters, and caps the raw text.
// Newlines and tabs survive so the model sees the user's formatting.
func SanitizeInputText(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}
	out := strings.TrimSpace(b.String())
	if len(out) > maxInputChars {
		// Cap counts characters, not bytes; a byte slice could split a
		// multi-byte rune and postgres rejects invalid UTF-8 text.
		runes := []rune(out)
		if len(runes) > maxInputChars {
			out = string(runes[:maxInputChars])
		}
	}
	return out
}

// ClampDuration normalizes the requested minutes into the supported range.
// Zero means the client did not choose and gets the default.
func ClampDuration(minutes int) int {
	if minutes == 0 {
		return defaultDuration
	}
	if minutes < minDurationMinutes {
		return minDurationMinutes
	}
	if minutes > maxDurationMinutes {
		return maxDurationMinutes
	}
	return minutes
}

func (s *sessionService) Create(ctx context.Context, userID uuid.UUID, input CreateSessionInput) (*types.Session, error) {
	rawText := SanitizeInputText(input.RawText)
	if rawText == "" {
		return nil, fmt.Errorf("raw_text is required: %w", pkgerrors.ErrInvalidArgument)
	}
	minutes := ClampDuration(input.DurationMinutes)

	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user %s: %w", userID, pkgerrors.ErrNotFound)
	}
	if users[0].SubscriptionTier == types.TierFree {
		weekAgo := time.Now().AddDate(0, 0, -7)
		count, err := s.sessionRepo.CountForUserSince(ctx, nil, userID, weekAgo)
		if err != nil {
			return nil, fmt.Errorf("count recent sessions: %w", err)
		}
		if count >= freeTierWeeklyLimit {
			return nil, fmt.Errorf("free tier allows %d sessions per week: %w", freeTierWeeklyLimit, pkgerrors.ErrQuotaExceeded)
		}
	}

	session := &types.Session{
		ID:              uuid.New(),
		UserID:          userID,
		Title:           generatingTitle,
		Status:          types.SessionStatusGenerating,
		DurationSeconds: minutes * 60,
	}
	if _, err := s.sessionRepo.Create(ctx, nil, []*types.Session{session}); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	params := GenerationParams{
		SessionID:       session.ID,
		UserID:          userID,
		RawText:         rawText,
		DurationMinutes: minutes,
		SoundPreference: input.SoundPreference,
	}
	dispatched := s.runner.Dispatch("session_generation", func(jobCtx context.Context) error {
		return s.orchestrator.Run(jobCtx, params)
	})
	if !dispatched {
		// Runner is draining; do not leave the session stuck in generating.
		s.log.Error("Generation dispatch rejected", "session_id", session.ID)
		if uerr := s.sessionRepo.UpdateFields(ctx, nil, session.ID, map[string]interface{}{
			"status": types.SessionStatusFailed,
			"title":  genericFailTitle,
		}); uerr != nil {
			s.log.Error("Failed to mark undispatched session failed", "session_id", session.ID, "error", uerr)
		}
		return nil, fmt.Errorf("session generation is unavailable")
	}

	return session, nil
}

func (s *sessionService) Get(ctx context.Context, userID, sessionID uuid.UUID) (*SessionDetail, error) {
	session, err := s.sessionRepo.GetByIDForUser(ctx, nil, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, pkgerrors.ErrNotFound)
	}
	detail := &SessionDetail{Session: session}
	if detail.Input, err = s.inputRepo.GetBySessionID(ctx, nil, sessionID); err != nil {
		return nil, err
	}
	if detail.Script, err = s.scriptRepo.GetBySessionID(ctx, nil, sessionID); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *sessionService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*types.Session, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.sessionRepo.ListByUser(ctx, nil, userID, limit, offset)
}

// StreamURL resolves a playable URL for the session's audio. Absolute URLs
// pass through untouched; storage keys are signed for one hour.
func (s *sessionService) StreamURL(ctx context.Context, userID, sessionID uuid.UUID) (string, error) {
	session, err := s.sessionRepo.GetByIDForUser(ctx, nil, sessionID, userID)
	if err != nil {
		return "", err
	}
	if session == nil {
		return "", fmt.Errorf("session %s: %w", sessionID, pkgerrors.ErrNotFound)
	}
	if session.AudioURL == "" {
		return "", fmt.Errorf("session %s has no audio: %w", sessionID, pkgerrors.ErrNotFound)
	}
	if strings.HasPrefix(session.AudioURL, "http://") || strings.HasPrefix(session.AudioURL, "https://") {
		return session.AudioURL, nil
	}
	if s.bucket == nil {
		return "", fmt.Errorf("audio storage unconfigured: %w", pkgerrors.ErrNotFound)
	}
	return s.bucket.SignedURL(session.AudioURL, streamURLTTL)
}

func (s *sessionService) Feedback(ctx context.Context, userID, sessionID uuid.UUID, fb *types.SessionFeedback) error {
	if fb.Rating < 1 || fb.Rating > 5 {
		return fmt.Errorf("rating must be 1-5: %w", pkgerrors.ErrInvalidArgument)
	}
	session, err := s.sessionRepo.GetByIDForUser(ctx, nil, sessionID, userID)
	if err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("session %s: %w", sessionID, pkgerrors.ErrNotFound)
	}
	fb.ID = uuid.New()
	fb.SessionID = sessionID
	fb.UserID = userID
	_, err = s.feedbackRepo.Create(ctx, nil, []*types.SessionFeedback{fb})
	return err
}
