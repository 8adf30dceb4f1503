package summarizer

import (
	"github.com/meetscribe/meetscribe/internal/config"
	"github.com/meetscribe/meetscribe/internal/summarizer"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (summarizer.Summarizer, error) {
		c := do.MustInvoke[*config.Config](i)
		model := NewGeminiModel(c.GeminiAPIKey, c.GeminiModel)
		return summarizer.New(model, c.MaxChunkChars, c.SummaryConcurrency), nil
	})
}
