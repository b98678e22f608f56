package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/serenity-app/serenity-backend/internal/logger"
	"github.com/serenity-app/serenity-backend/internal/utils"
)

// AudioMixer mixes a narration track over a looped background stem. ffmpeg
// is treated as a black box driven by a fixed filter graph.
type AudioMixer interface {
	Mix(ctx context.Context, voice, background []byte, targetDurationSeconds int) ([]byte, error)
}

type ffmpegMixer struct {
	log        *logger.Logger
	ffmpegPath string
	workRoot   string
	timeout    time.Duration
}

func NewFFmpegMixer(log *logger.Logger) AudioMixer {
	return &ffmpegMixer{
		log:        log.With("service", "FFmpegMixer"),
		ffmpegPath: utils.GetEnv("FFMPEG_PATH", "ffmpeg", log),
		workRoot:   filepath.Join(os.TempDir(), "serenity-audio"),
		timeout:    10 * time.Minute,
	}
}

// buildMixFilter is the declarative mix graph: background attenuated to
// 0.125 (~ -18dB), mixed with "shortest stream wins", 5s fade in, 5s fade
// out ending exactly at the target duration, then loudness-normalized to
// -16 LUFS integrated / -1.5 dBTP / 11 LU range.
func buildMixFilter(targetDurationSeconds int) string {
	fadeOutStart := targetDurationSeconds - 5
	if fadeOutStart < 0 {
		fadeOutStart = 0
	}
	return fmt.Sprintf(
		"[1:a]volume=0.125[bg];[0:a][bg]amix=inputs=2:duration=shortest,afade=t=in:st=0:d=5,afade=t=out:st=%d:d=5,loudnorm=I=-16:TP=-1.5:LRA=11[mix]",
		fadeOutStart,
	)
}

func (m *ffmpegMixer) writeTempFile(prefix string, data []byte) (string, func(), error) {
	if err := os.MkdirAll(m.workRoot, 0o755); err != nil {
		return "", func() {}, fmt.Errorf("mkdir workRoot: %w", err)
	}
	path := filepath.Join(m.workRoot, fmt.Sprintf("%s-%s.mp3", prefix, uuid.NewString()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", func() {}, fmt.Errorf("write temp file: %w", err)
	}
	return path, func() { _ = os.Remove(path) }, nil
}

// Mix loops the background under the voice track and renders a single mp3.
// Every temp file is removed on all exit paths.
func (m *ffmpegMixer) Mix(ctx context.Context, voice, background []byte, targetDurationSeconds int) ([]byte, error) {
	if _, err := exec.LookPath(m.ffmpegPath); err != nil {
		return nil, fmt.Errorf("missing required binary %q in PATH: %w", m.ffmpegPath, err)
	}

	voicePath, cleanVoice, err := m.writeTempFile("voice", voice)
	if err != nil {
		return nil, err
	}
	defer cleanVoice()

	backgroundPath, cleanBackground, err := m.writeTempFile("background", background)
	if err != nil {
		return nil, err
	}
	defer cleanBackground()

	outputPath := filepath.Join(m.workRoot, fmt.Sprintf("mix-%s.mp3", uuid.NewString()))
	defer func() { _ = os.Remove(outputPath) }()

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	args := []string{
		"-hide_banner", "-nostdin", "-y",
		"-i", voicePath,
		"-stream_loop", "-1",
		"-i", backgroundPath,
		"-filter_complex", buildMixFilter(targetDurationSeconds),
		"-map", "[mix]",
		"-t", strconv.Itoa(targetDurationSeconds),
		"-c:a", "libmp3lame",
		"-b:a", "128k",
		outputPath,
	}

	cmd := exec.CommandContext(ctx, m.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg mix: %w: %s", err, truncateString(stderr.String(), 512))
	}

	out, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, fmt.Errorf("read mix output: %w", err)
	}
	return out, nil
}

func truncateString(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
