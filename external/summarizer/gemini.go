package summarizer

import (
	"context"
	"fmt"

	"github.com/meetscribe/meetscribe/internal/summarizer"
	"google.golang.org/genai"
)

const chunkPrompt = "Summarize this part of the meeting:\n\n%s"

// GeminiModel summarizes one transcript chunk per call through the
// Gemini API.
type GeminiModel struct {
	apiKey string
	model  string
}

func NewGeminiModel(apiKey, model string) summarizer.ChunkModel {
	return &GeminiModel{apiKey: apiKey, model: model}
}

func (g *GeminiModel) SummarizeChunk(ctx context.Context, chunk string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create gemini client: %w", err)
	}

	result, err := client.Models.GenerateContent(ctx, g.model, genai.Text(fmt.Sprintf(chunkPrompt, chunk)), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from gemini")
	}

	var text string
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("empty response from gemini")
	}
	return text, nil
}
