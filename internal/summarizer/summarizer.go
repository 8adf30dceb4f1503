package summarizer

import (
	"context"
	"strings"
	"sync"

	"github.com/meetscribe/meetscribe/internal/faults"
)

// NoSpeechSentinel is the fixed summary used when a transcript contains
// no speech. It signals a valid empty result, not an error.
const NoSpeechSentinel = "No speech detected in this audio segment."

const (
	defaultMaxChunkChars = 3000
	defaultConcurrency   = 4
)

// ChunkModel is the external text-summarization capability, invoked once
// per transcript chunk.
type ChunkModel interface {
	SummarizeChunk(ctx context.Context, chunk string) (string, error)
}

// Summarizer produces one bounded-length summary for a whole transcript.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}

type chunkSummarizer struct {
	model        ChunkModel
	maxChunkSize int
	concurrency  int
}

func New(model ChunkModel, maxChunkSize, concurrency int) Summarizer {
	if maxChunkSize <= 0 {
		maxChunkSize = defaultMaxChunkChars
	}
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &chunkSummarizer{
		model:        model,
		maxChunkSize: maxChunkSize,
		concurrency:  concurrency,
	}
}

// Summarize chunks the transcript on sentence boundaries, summarizes each
// chunk, and joins the results in input order. Whitespace-only transcripts
// short-circuit to the no-speech sentinel without any capability call.
// On any chunk failure the whole attempt fails; partial summaries are
// discarded.
func (s *chunkSummarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return NoSpeechSentinel, nil
	}

	chunks := SplitChunks(transcript, s.maxChunkSize)
	results := make([]string, len(chunks))
	errs := make([]error, len(chunks))

	sem := newSemaphore(s.concurrency)
	var wg sync.WaitGroup
	for i, chunk := range chunks {
		wg.Add(1)
		go func(i int, chunk string) {
			defer wg.Done()
			if err := sem.acquire(ctx); err != nil {
				errs[i] = err
				return
			}
			defer sem.release()
			out, err := s.model.SummarizeChunk(ctx, chunk)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = out
		}(i, chunk)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return "", faults.New(faults.CodeSummarization, "chunk summarization failed", err)
		}
	}
	return strings.Join(results, " "), nil
}
