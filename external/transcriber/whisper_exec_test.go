package transcriber

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/meetscribe/meetscribe/internal/faults"
)

type mockExecutor struct {
	lookPathErr error
	executeErr  error
	onExecute   func(name string, args []string)
	lastName    string
	lastArgs    []string
}

func (m *mockExecutor) Execute(_ context.Context, name string, args ...string) (string, error) {
	m.lastName = name
	m.lastArgs = args
	if m.onExecute != nil {
		m.onExecute(name, args)
	}
	return "", m.executeErr
}

func (m *mockExecutor) LookPath(name string) (string, error) {
	if m.lookPathErr != nil {
		return "", m.lookPathErr
	}
	return "/usr/bin/" + name, nil
}

func testWhisperConfig() WhisperConfig {
	return WhisperConfig{
		BinaryPath: "/usr/local/bin/whisper-cli",
		ModelPath:  "/opt/models/ggml-base.bin",
		Language:   "en",
	}
}

func stageAudioFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meetscribe-test.webm")
	if err := os.WriteFile(path, []byte("fake audio"), 0o600); err != nil {
		t.Fatalf("write audio file: %v", err)
	}
	return path
}

func TestTranscribe_MissingDecoderIsEnvironmentFault(t *testing.T) {
	exec := &mockExecutor{lookPathErr: errors.New("executable file not found in $PATH")}
	tr := NewWhisperTranscriber(testWhisperConfig(), exec)

	_, err := tr.Transcribe(context.Background(), stageAudioFile(t))
	if !faults.Is(err, faults.CodeEnvironment) {
		t.Fatalf("expected environment fault, got %v", err)
	}
	if exec.lastName != "" {
		t.Fatal("whisper must not be invoked without the decoder")
	}
}

func TestTranscribe_ReadsWhisperOutputVerbatim(t *testing.T) {
	audioPath := stageAudioFile(t)
	txtPath := strings.TrimSuffix(audioPath, ".webm") + ".txt"
	exec := &mockExecutor{
		onExecute: func(_ string, _ []string) {
			if err := os.WriteFile(txtPath, []byte(" hello there friends\n"), 0o600); err != nil {
				t.Errorf("write whisper output: %v", err)
			}
		},
	}
	tr := NewWhisperTranscriber(testWhisperConfig(), exec)

	out, err := tr.Transcribe(context.Background(), audioPath)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out != " hello there friends\n" {
		t.Fatalf("output was not returned verbatim: %q", out)
	}
	if exec.lastName != "/usr/local/bin/whisper-cli" {
		t.Fatalf("unexpected binary %q", exec.lastName)
	}
	joined := strings.Join(exec.lastArgs, " ")
	for _, want := range []string{
		"-m /opt/models/ggml-base.bin",
		"-f " + audioPath,
		"-otxt",
		"-l en",
		"--output-file " + strings.TrimSuffix(audioPath, ".webm"),
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("args missing %q: %v", want, exec.lastArgs)
		}
	}
	if _, err := os.Stat(txtPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("whisper output file was not cleaned up")
	}
}

func TestTranscribe_ExecFailureIsTranscriptionFault(t *testing.T) {
	exec := &mockExecutor{executeErr: errors.New("exit status 1: failed to load model")}
	tr := NewWhisperTranscriber(testWhisperConfig(), exec)

	_, err := tr.Transcribe(context.Background(), stageAudioFile(t))
	if !faults.Is(err, faults.CodeTranscription) {
		t.Fatalf("expected transcription fault, got %v", err)
	}
}

func TestTranscribe_MissingOutputFileIsTranscriptionFault(t *testing.T) {
	tr := NewWhisperTranscriber(testWhisperConfig(), &mockExecutor{})

	_, err := tr.Transcribe(context.Background(), stageAudioFile(t))
	if !faults.Is(err, faults.CodeTranscription) {
		t.Fatalf("expected transcription fault, got %v", err)
	}
}
