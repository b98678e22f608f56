package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/serenity-app/serenity-backend/internal/logger"
	"github.com/serenity-app/serenity-backend/internal/types"
)

// AudioPipeline turns a validated script into an uploaded, mixed mp3 and
// returns its URL. The whole pipeline is best-effort from the orchestrator's
// point of view; failures here never fail the session.
type AudioPipeline interface {
	Generate(ctx context.Context, params AudioParams) (string, error)
}

type AudioParams struct {
	Script                *types.MeditationScript
	TTSModel              string
	BackgroundStemKey     string
	TargetDurationSeconds int
	SessionID             string
}

type audioPipeline struct {
	log    *logger.Logger
	speech SpeechSynthesizer
	bucket BucketService
	mixer  AudioMixer
}

func NewAudioPipeline(baseLog *logger.Logger, speech SpeechSynthesizer, bucket BucketService, mixer AudioMixer) AudioPipeline {
	return &audioPipeline{
		log:    baseLog.With("service", "AudioPipeline"),
		speech: speech,
		bucket: bucket,
		mixer:  mixer,
	}
}

// NarrationText joins the phase texts with blank lines, which the TTS
// provider renders as natural pauses between phases.
func NarrationText(script *types.MeditationScript) string {
	texts := make([]string, 0, len(script.Phases))
	for _, phase := range script.Phases {
		texts = append(texts, phase.ScriptText)
	}
	return strings.Join(texts, "\n\n")
}

func (p *audioPipeline) Generate(ctx context.Context, params AudioParams) (string, error) {
	text := NarrationText(params.Script)

	// Voice synthesis and the stem download have no data dependency.
	var voice, background []byte
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		voice, err = p.speech.Synthesize(gctx, text, params.TTSModel)
		if err != nil {
			return fmt.Errorf("synthesize narration: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		background, err = p.bucket.Download(gctx, params.BackgroundStemKey)
		if err != nil {
			return fmt.Errorf("download stem %q: %w", params.BackgroundStemKey, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	mixed, err := p.mixer.Mix(ctx, voice, background, params.TargetDurationSeconds)
	if err != nil {
		return "", fmt.Errorf("mix audio: %w", err)
	}

	key := fmt.Sprintf("sessions/%s.mp3", params.SessionID)
	url, err := p.bucket.Upload(ctx, key, mixed, "audio/mpeg")
	if err != nil {
		return "", fmt.Errorf("upload mixed audio: %w", err)
	}
	return url, nil
}
