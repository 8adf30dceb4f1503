package config

import "fmt"

const (
	SttBackendWhisper     = "whisper"
	SttBackendCloudSpeech = "cloud_speech"
)

type Config struct {
	Env                        string
	HTTPAddr                   string
	DatabaseURL                string
	SttBackend                 string
	WhisperBinaryPath          string
	WhisperModelPath           string
	TranscribeLanguage         string
	GoogleCloudProjectID       string
	GoogleCloudCredentialsJSON string
	GoogleCloudSpeechLocation  string
	GoogleCloudSpeechModel     string
	GeminiAPIKey               string
	GeminiModel                string
	MaxChunkChars              int
	SummaryConcurrency         int
	MinAudioBytes              int64
	MinTranscriptChars         int
	AudioTempDir               string
	MeetingWebhookURL          string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	switch c.SttBackend {
	case SttBackendWhisper:
		if c.WhisperBinaryPath == "" {
			return fmt.Errorf("WHISPER_BINARY_PATH is required when STT_BACKEND=%s", SttBackendWhisper)
		}
		if c.WhisperModelPath == "" {
			return fmt.Errorf("WHISPER_MODEL_PATH is required when STT_BACKEND=%s", SttBackendWhisper)
		}
	case SttBackendCloudSpeech:
		if c.GoogleCloudProjectID == "" {
			return fmt.Errorf("GOOGLE_CLOUD_PROJECT_ID is required when STT_BACKEND=%s", SttBackendCloudSpeech)
		}
		if c.GoogleCloudCredentialsJSON == "" {
			return fmt.Errorf("GOOGLE_CLOUD_CREDENTIALS_JSON is required when STT_BACKEND=%s", SttBackendCloudSpeech)
		}
	default:
		return fmt.Errorf("STT_BACKEND must be %q or %q, got %q", SttBackendWhisper, SttBackendCloudSpeech, c.SttBackend)
	}
	if c.MaxChunkChars <= 0 {
		return fmt.Errorf("MAX_CHUNK_CHARS must be positive, got %d", c.MaxChunkChars)
	}
	if c.SummaryConcurrency <= 0 {
		return fmt.Errorf("SUMMARY_CONCURRENCY must be positive, got %d", c.SummaryConcurrency)
	}
	if c.MinAudioBytes < 0 {
		return fmt.Errorf("MIN_AUDIO_BYTES must not be negative, got %d", c.MinAudioBytes)
	}
	if c.MinTranscriptChars <= 0 {
		return fmt.Errorf("MIN_TRANSCRIPT_CHARS must be positive, got %d", c.MinTranscriptChars)
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "HTTP_ADDR", value: c.HTTPAddr},
		{name: "DATABASE_URL", value: c.DatabaseURL},
		{name: "GEMINI_API_KEY", value: c.GeminiAPIKey},
		{name: "GEMINI_MODEL", value: c.GeminiModel},
		{name: "STT_BACKEND", value: c.SttBackend},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
