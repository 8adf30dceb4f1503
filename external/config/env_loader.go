package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/meetscribe/meetscribe/internal/config"
)

type envConfig struct {
	Env                        string `env:"ENV" envDefault:"production"`
	HTTPAddr                   string `env:"HTTP_ADDR" envDefault:":8080"`
	DatabaseURL                string `env:"DATABASE_URL,required"`
	SttBackend                 string `env:"STT_BACKEND" envDefault:"whisper"`
	WhisperBinaryPath          string `env:"WHISPER_BINARY_PATH"`
	WhisperModelPath           string `env:"WHISPER_MODEL_PATH"`
	TranscribeLanguage         string `env:"TRANSCRIBE_LANGUAGE" envDefault:"en"`
	GoogleCloudProjectID       string `env:"GOOGLE_CLOUD_PROJECT_ID"`
	GoogleCloudCredentialsJSON string `env:"GOOGLE_CLOUD_CREDENTIALS_JSON"`
	GoogleCloudSpeechLocation  string `env:"GOOGLE_CLOUD_SPEECH_LOCATION" envDefault:"global"`
	GoogleCloudSpeechModel     string `env:"GOOGLE_CLOUD_SPEECH_MODEL" envDefault:"chirp_3"`
	GeminiAPIKey               string `env:"GEMINI_API_KEY,required"`
	GeminiModel                string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	MaxChunkChars              int    `env:"MAX_CHUNK_CHARS" envDefault:"3000"`
	SummaryConcurrency         int    `env:"SUMMARY_CONCURRENCY" envDefault:"4"`
	MinAudioBytes              int64  `env:"MIN_AUDIO_BYTES" envDefault:"500"`
	MinTranscriptChars         int    `env:"MIN_TRANSCRIPT_CHARS" envDefault:"10"`
	AudioTempDir               string `env:"AUDIO_TEMP_DIR"`
	MeetingWebhookURL          string `env:"MEETING_WEBHOOK_URL"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                        raw.Env,
		HTTPAddr:                   raw.HTTPAddr,
		DatabaseURL:                raw.DatabaseURL,
		SttBackend:                 raw.SttBackend,
		WhisperBinaryPath:          raw.WhisperBinaryPath,
		WhisperModelPath:           raw.WhisperModelPath,
		TranscribeLanguage:         raw.TranscribeLanguage,
		GoogleCloudProjectID:       raw.GoogleCloudProjectID,
		GoogleCloudCredentialsJSON: raw.GoogleCloudCredentialsJSON,
		GoogleCloudSpeechLocation:  raw.GoogleCloudSpeechLocation,
		GoogleCloudSpeechModel:     raw.GoogleCloudSpeechModel,
		GeminiAPIKey:               raw.GeminiAPIKey,
		GeminiModel:                raw.GeminiModel,
		MaxChunkChars:              raw.MaxChunkChars,
		SummaryConcurrency:         raw.SummaryConcurrency,
		MinAudioBytes:              raw.MinAudioBytes,
		MinTranscriptChars:         raw.MinTranscriptChars,
		AudioTempDir:               raw.AudioTempDir,
		MeetingWebhookURL:          raw.MeetingWebhookURL,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
