package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/meetscribe/meetscribe/internal/summarizer"
	"github.com/meetscribe/meetscribe/internal/transcriber"
)

// TooShortSentinel is the summary used when the staged audio is below
// the minimum size and treated as silence or garbage.
const TooShortSentinel = "Audio too short to process"

const defaultMinAudioBytes = 500

// Result is the outcome of processing one audio unit. A sentinel summary
// with an empty transcript is a successful outcome, not an error.
type Result struct {
	Transcript string
	Summary    string
}

// Pipeline composes staging, transcription, and summarization into one
// "process audio" operation. The staged resource is released on every
// path.
type Pipeline struct {
	stager        *Stager
	transcriber   transcriber.Transcriber
	summarizer    summarizer.Summarizer
	minAudioBytes int64
}

func New(stager *Stager, stt transcriber.Transcriber, sum summarizer.Summarizer, minAudioBytes int64) *Pipeline {
	if minAudioBytes <= 0 {
		minAudioBytes = defaultMinAudioBytes
	}
	return &Pipeline{
		stager:        stager,
		transcriber:   stt,
		summarizer:    sum,
		minAudioBytes: minAudioBytes,
	}
}

func (p *Pipeline) Process(ctx context.Context, audio []byte, formatHint string) (Result, error) {
	staged, err := p.stager.Stage(audio, formatHint)
	if err != nil {
		return Result{}, err
	}
	defer staged.Release()

	if staged.Size < p.minAudioBytes {
		slog.Debug("staged audio below minimum size, skipping transcription", "size", staged.Size, "min", p.minAudioBytes)
		return Result{Transcript: "", Summary: TooShortSentinel}, nil
	}

	transcript, err := p.transcriber.Transcribe(ctx, staged.Path)
	if err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(transcript) == "" {
		return Result{Transcript: transcript, Summary: summarizer.NoSpeechSentinel}, nil
	}

	summary, err := p.summarizer.Summarize(ctx, transcript)
	if err != nil {
		return Result{}, err
	}
	return Result{Transcript: transcript, Summary: summary}, nil
}
