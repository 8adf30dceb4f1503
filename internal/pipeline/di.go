package pipeline

import (
	"github.com/meetscribe/meetscribe/internal/config"
	"github.com/meetscribe/meetscribe/internal/summarizer"
	"github.com/meetscribe/meetscribe/internal/transcriber"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Pipeline, error) {
		cfg := do.MustInvoke[*config.Config](i)
		stt := do.MustInvoke[transcriber.Transcriber](i)
		sum := do.MustInvoke[summarizer.Summarizer](i)
		return New(NewStager(cfg.AudioTempDir), stt, sum, cfg.MinAudioBytes), nil
	})
}
