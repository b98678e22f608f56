package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/serenity-app/serenity-backend/internal/logger"
	"github.com/serenity-app/serenity-backend/internal/utils"
)

// SpeechSynthesizer produces narrated audio from script text.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, model string) ([]byte, error)
	DefaultModel() string
}

type deepgramSynthesizer struct {
	log        *logger.Logger
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
}

// NewDeepgramSynthesizer builds the Deepgram Speak client. Returns nil (no
// error) when DEEPGRAM_API_KEY is absent; the orchestrator treats a nil
// synthesizer as "audio not configured" and produces text-only sessions.
func NewDeepgramSynthesizer(log *logger.Logger) SpeechSynthesizer {
	apiKey := utils.GetEnv("DEEPGRAM_API_KEY", "", log)
	if apiKey == "" {
		return nil
	}
	return &deepgramSynthesizer{
		log: log.With("service", "DeepgramSynthesizer"),
		httpClient: &http.Client{
			Timeout: time.Duration(utils.GetEnvAsInt("DEEPGRAM_TIMEOUT_SECONDS", 120, log)) * time.Second,
		},
		apiKey:  apiKey,
		baseURL: utils.GetEnv("DEEPGRAM_BASE_URL", "https://api.deepgram.com", log),
		model:   utils.GetEnv("DEEPGRAM_MODEL", "aura-asteria-en", log),
	}
}

func (s *deepgramSynthesizer) DefaultModel() string { return s.model }

func (s *deepgramSynthesizer) speakURL(model string) string {
	params := url.Values{}
	params.Set("model", model)
	params.Set("encoding", "mp3")
	params.Set("container", "mp3")
	return s.baseURL + "/v1/speak?" + params.Encode()
}

func (s *deepgramSynthesizer) Synthesize(ctx context.Context, text, model string) ([]byte, error) {
	if model == "" {
		model = s.model
	}

	body, err := json.Marshal(struct {
		Text string `json:"text"`
	}{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal speak request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.speakURL(model), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create speak request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("deepgram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("deepgram status %d: %s", resp.StatusCode, errBody)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read deepgram audio: %w", err)
	}
	return audio, nil
}
