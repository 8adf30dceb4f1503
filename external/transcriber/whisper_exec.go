package transcriber

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/meetscribe/meetscribe/internal/faults"
	"github.com/meetscribe/meetscribe/internal/transcriber"
	"github.com/meetscribe/meetscribe/pkg/executor"
)

// ffmpeg decodes the staged container into PCM for whisper.cpp; its
// absence is fatal for the whole invocation, not retried.
const requiredDecoder = "ffmpeg"

type WhisperConfig struct {
	BinaryPath string
	ModelPath  string
	Language   string
}

// WhisperTranscriber runs a local whisper.cpp binary against a staged
// audio file and returns its text output.
type WhisperTranscriber struct {
	cfg  WhisperConfig
	exec executor.Executor
}

func NewWhisperTranscriber(cfg WhisperConfig, exec executor.Executor) transcriber.Transcriber {
	return &WhisperTranscriber{cfg: cfg, exec: exec}
}

func (t *WhisperTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if _, err := t.exec.LookPath(requiredDecoder); err != nil {
		return "", faults.New(faults.CodeEnvironment, requiredDecoder+" not found on PATH", err)
	}

	outputPrefix := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))
	args := []string{
		"-m", t.cfg.ModelPath,
		"-f", audioPath,
		"-otxt",
		"-l", t.cfg.Language,
		"-ml", "0",
		"-mc", "0",
		"--output-file", outputPrefix,
	}
	slog.Debug("invoking whisper", "binary", t.cfg.BinaryPath, "audio", audioPath)
	if _, err := t.exec.Execute(ctx, t.cfg.BinaryPath, args...); err != nil {
		return "", faults.New(faults.CodeTranscription, "whisper transcription failed", err)
	}

	txtPath := outputPrefix + ".txt"
	defer func() {
		if err := os.Remove(txtPath); err != nil {
			slog.Warn("failed to remove whisper output file", "path", txtPath, "error", err)
		}
	}()
	out, err := os.ReadFile(txtPath)
	if err != nil {
		return "", faults.New(faults.CodeTranscription, "read whisper output", err)
	}
	return string(out), nil
}
