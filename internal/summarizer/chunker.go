package summarizer

import "strings"

const sentenceDelimiter = ". "

// SplitChunks splits text into sentence-aligned chunks whose length stays
// below maxChunkSize. Sentences are greedily accumulated; a single
// sentence at or above the budget is still emitted whole as its own
// chunk, the budget never truncates content.
func SplitChunks(text string, maxChunkSize int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	sentences := strings.Split(text, sentenceDelimiter)
	var chunks []string
	chunk := ""
	for _, sentence := range sentences {
		if len(chunk)+len(sentence) < maxChunkSize {
			chunk += sentence + sentenceDelimiter
			continue
		}
		if trimmed := strings.TrimSpace(chunk); trimmed != "" {
			chunks = append(chunks, trimmed)
		}
		chunk = sentence + sentenceDelimiter
	}
	if trimmed := strings.TrimSpace(chunk); trimmed != "" {
		chunks = append(chunks, trimmed)
	}
	return chunks
}
