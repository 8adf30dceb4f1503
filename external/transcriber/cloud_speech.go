package transcriber

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"cloud.google.com/go/auth/credentials"
	speech "cloud.google.com/go/speech/apiv2"
	speechpb "cloud.google.com/go/speech/apiv2/speechpb"
	"github.com/meetscribe/meetscribe/internal/faults"
	"github.com/meetscribe/meetscribe/internal/transcriber"
	"google.golang.org/api/option"
)

const speechAPIEndpointPort = 443

type CloudSpeechConfig struct {
	ProjectID       string
	CredentialsJSON string
	Language        string
	Location        string
	Model           string
}

// CloudSpeechTranscriber recognizes a staged audio file through the
// Google Cloud Speech-to-Text v2 synchronous API. Decoding is delegated
// to the service, so no local codec dependency is required.
type CloudSpeechTranscriber struct {
	projectID       string
	credentialsJSON string
	language        string
	location        string
	model           string
}

func NewCloudSpeechTranscriber(cfg CloudSpeechConfig) transcriber.Transcriber {
	return &CloudSpeechTranscriber{
		projectID:       cfg.ProjectID,
		credentialsJSON: cfg.CredentialsJSON,
		language:        cfg.Language,
		location:        strings.TrimSpace(cfg.Location),
		model:           strings.TrimSpace(cfg.Model),
	}
}

func (t *CloudSpeechTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return "", faults.New(faults.CodeTranscription, "read staged audio", err)
	}

	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		CredentialsJSON: []byte(t.credentialsJSON),
		Scopes:          []string{"https://www.googleapis.com/auth/cloud-platform"},
	})
	if err != nil {
		return "", faults.New(faults.CodeEnvironment, "detect google cloud credentials", err)
	}

	opts := []option.ClientOption{
		option.WithAuthCredentials(creds),
	}
	if t.location != "global" {
		opts = append(opts, option.WithEndpoint(fmt.Sprintf("%s-speech.googleapis.com:%d", t.location, speechAPIEndpointPort)))
	}

	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return "", faults.New(faults.CodeTranscription, "create speech client", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			slog.Warn("failed to close speech client", "error", err)
		}
	}()

	recognizer := fmt.Sprintf("projects/%s/locations/%s/recognizers/_", t.projectID, t.location)
	resp, err := client.Recognize(ctx, &speechpb.RecognizeRequest{
		Recognizer: recognizer,
		Config: &speechpb.RecognitionConfig{
			Model:         t.model,
			LanguageCodes: []string{t.language},
			DecodingConfig: &speechpb.RecognitionConfig_AutoDecodingConfig{
				AutoDecodingConfig: &speechpb.AutoDetectDecodingConfig{},
			},
		},
		AudioSource: &speechpb.RecognizeRequest_Content{Content: audio},
	})
	if err != nil {
		return "", faults.New(faults.CodeTranscription, "cloud speech recognize failed", err)
	}

	var sb strings.Builder
	for _, result := range resp.GetResults() {
		if len(result.GetAlternatives()) == 0 {
			continue
		}
		sb.WriteString(result.GetAlternatives()[0].GetTranscript())
	}
	return sb.String(), nil
}
