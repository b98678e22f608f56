package services

import (
	"context"
	"errors"
	"testing"

	"github.com/serenity-app/serenity-backend/internal/logger"
	"github.com/serenity-app/serenity-backend/internal/types"
)

type fakeAIClient struct {
	completeReplies []string
	completeErr     error
	classifyReply   string
	classifyErr     error
	completeCalls   int
	classifyCalls   int
}

func (f *fakeAIClient) Complete(ctx context.Context, prompt string, opts AIOptions) (string, error) {
	f.completeCalls++
	if f.completeErr != nil {
		return "", f.completeErr
	}
	if len(f.completeReplies) == 0 {
		return "", errors.New("no reply configured")
	}
	reply := f.completeReplies[0]
	if len(f.completeReplies) > 1 {
		f.completeReplies = f.completeReplies[1:]
	}
	return reply, nil
}

func (f *fakeAIClient) Classify(ctx context.Context, prompt string) (string, error) {
	f.classifyCalls++
	return f.classifyReply, f.classifyErr
}

func (f *fakeAIClient) Model() string { return "fake-model" }

func TestScreen_CrisisKeywordAlertsWithoutClassifier(t *testing.T) {
	ai := &fakeAIClient{}
	s := NewSafetyScreener(logger.NewNop(), ai)

	result := s.Screen(context.Background(), "sometimes I think about suicide")
	if result.Status != types.SafetyStatusAlert {
		t.Fatalf("expected alert, got %s", result.Status)
	}
	if len(result.Resources) == 0 {
		t.Fatalf("expected crisis resources on alert")
	}
	if ai.classifyCalls != 0 {
		t.Fatalf("classifier should not be consulted for explicit crisis phrases")
	}
}

func TestScreen_NoKeywordsIsOK(t *testing.T) {
	ai := &fakeAIClient{}
	s := NewSafetyScreener(logger.NewNop(), ai)

	result := s.Screen(context.Background(), "I am stressed about my exam")
	if result.Status != types.SafetyStatusOK {
		t.Fatalf("expected ok, got %s", result.Status)
	}
	if ai.classifyCalls != 0 {
		t.Fatalf("classifier should not run without ambiguous keywords")
	}
}

func TestScreen_AmbiguousEscalatesToClassifier(t *testing.T) {
	ai := &fakeAIClient{classifyReply: "UNSAFE"}
	s := NewSafetyScreener(logger.NewNop(), ai)

	result := s.Screen(context.Background(), "everything feels hopeless lately")
	if ai.classifyCalls != 1 {
		t.Fatalf("expected one classifier call, got %d", ai.classifyCalls)
	}
	if result.Status != types.SafetyStatusAlert {
		t.Fatalf("expected alert from unsafe classification, got %s", result.Status)
	}
}

func TestScreen_AmbiguousSafeClassificationIsOK(t *testing.T) {
	ai := &fakeAIClient{classifyReply: "SAFE"}
	s := NewSafetyScreener(logger.NewNop(), ai)

	result := s.Screen(context.Background(), "I refuse to give up on this project")
	if result.Status != types.SafetyStatusOK {
		t.Fatalf("expected ok, got %s", result.Status)
	}
}

func TestScreen_ClassifierErrorDefaultsToOK(t *testing.T) {
	ai := &fakeAIClient{classifyErr: errors.New("model down")}
	s := NewSafetyScreener(logger.NewNop(), ai)

	result := s.Screen(context.Background(), "everything feels hopeless lately")
	if result.Status != types.SafetyStatusOK {
		t.Fatalf("classifier failure must not block the user, got %s", result.Status)
	}
}
