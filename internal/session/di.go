package session

import (
	"github.com/meetscribe/meetscribe/internal/config"
	"github.com/meetscribe/meetscribe/internal/pipeline"
	"github.com/meetscribe/meetscribe/internal/repository"
	"github.com/meetscribe/meetscribe/internal/webhook"
	"github.com/samber/do/v2"
)

// ControllerFactory builds one Controller per client connection. The
// controllers themselves are never shared.
type ControllerFactory func() *Controller

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (ControllerFactory, error) {
		cfg := do.MustInvoke[*config.Config](i)
		p := do.MustInvoke[*pipeline.Pipeline](i)
		repo := do.MustInvoke[repository.Repository](i)
		wh := do.MustInvoke[webhook.Sender](i)
		return func() *Controller {
			return NewController(p, repo, wh, cfg.MinTranscriptChars)
		}, nil
	})
}
