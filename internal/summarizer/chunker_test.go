package summarizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitChunks_ShortTextSingleChunk(t *testing.T) {
	chunks := SplitChunks("Hello world. This is a meeting.", 3000)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Hello world. This is a meeting.", chunks[0])
}

func TestSplitChunks_RespectsBudget(t *testing.T) {
	var sb strings.Builder
	for range 40 {
		sb.WriteString("This sentence has a fixed modest length for the test. ")
	}
	text := strings.TrimSpace(sb.String())

	budget := 200
	chunks := SplitChunks(text, budget)
	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.Less(t, len(chunk), budget)
	}
}

func TestSplitChunks_ReconstructsInput(t *testing.T) {
	text := "First point of the meeting. Second point follows. Third point closes it out"
	chunks := SplitChunks(text, 40)

	joined := strings.Join(chunks, " ")
	normalize := func(s string) []string {
		return strings.FieldsFunc(s, func(r rune) bool { return r == '.' || r == ' ' })
	}
	assert.Equal(t, normalize(text), normalize(joined))
}

func TestSplitChunks_OversizedSentenceEmittedWhole(t *testing.T) {
	long := strings.Repeat("x", 500)
	chunks := SplitChunks(long, 100)
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0], long)
}

func TestSplitChunks_EmptyText(t *testing.T) {
	assert.Empty(t, SplitChunks("", 100))
	assert.Empty(t, SplitChunks("   ", 100))
}

func TestSplitChunks_ChunkOrderIsInputOrder(t *testing.T) {
	text := "alpha first sentence here. beta second sentence here. gamma third sentence here. delta fourth sentence here"
	chunks := SplitChunks(text, 30)
	require.GreaterOrEqual(t, len(chunks), 2)
	joined := strings.Join(chunks, " ")
	assert.Less(t, strings.Index(joined, "alpha"), strings.Index(joined, "beta"))
	assert.Less(t, strings.Index(joined, "beta"), strings.Index(joined, "gamma"))
	assert.Less(t, strings.Index(joined, "gamma"), strings.Index(joined, "delta"))
}
