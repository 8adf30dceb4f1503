package transcriber

import (
	"fmt"

	"github.com/meetscribe/meetscribe/internal/config"
	"github.com/meetscribe/meetscribe/internal/transcriber"
	"github.com/meetscribe/meetscribe/pkg/executor"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (transcriber.Transcriber, error) {
		c := do.MustInvoke[*config.Config](i)
		switch c.SttBackend {
		case config.SttBackendWhisper:
			return NewWhisperTranscriber(WhisperConfig{
				BinaryPath: c.WhisperBinaryPath,
				ModelPath:  c.WhisperModelPath,
				Language:   c.TranscribeLanguage,
			}, executor.New()), nil
		case config.SttBackendCloudSpeech:
			return NewCloudSpeechTranscriber(CloudSpeechConfig{
				ProjectID:       c.GoogleCloudProjectID,
				CredentialsJSON: c.GoogleCloudCredentialsJSON,
				Language:        c.TranscribeLanguage,
				Location:        c.GoogleCloudSpeechLocation,
				Model:           c.GoogleCloudSpeechModel,
			}), nil
		default:
			return nil, fmt.Errorf("unknown STT backend %q", c.SttBackend)
		}
	})
}
