package pipeline

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/meetscribe/meetscribe/internal/faults"
)

// StagedAudio is a scoped temporary file holding one unit of raw audio.
// Release must be called on every exit path of the consumer.
type StagedAudio struct {
	Path string
	Size int64
}

// Release deletes the staged file. It is safe to call more than once.
func (a *StagedAudio) Release() {
	if a == nil || a.Path == "" {
		return
	}
	if err := os.Remove(a.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to remove staged audio file", "path", a.Path, "error", err)
	}
}

// Stager writes raw audio bytes to scoped temporary files. The file
// extension is chosen from the caller's format hint so downstream
// decoders can identify the container.
type Stager struct {
	tempDir string
}

// NewStager creates a Stager writing into tempDir, or the system
// temporary directory when tempDir is empty.
func NewStager(tempDir string) *Stager {
	return &Stager{tempDir: tempDir}
}

func (s *Stager) Stage(audio []byte, formatHint string) (*StagedAudio, error) {
	if len(audio) == 0 {
		return nil, faults.New(faults.CodeStaging, "empty audio payload", nil)
	}
	f, err := os.CreateTemp(s.tempDir, "meetscribe-*"+extensionForHint(formatHint))
	if err != nil {
		return nil, faults.New(faults.CodeStaging, "create staged audio file", err)
	}
	if _, err := f.Write(audio); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, faults.New(faults.CodeStaging, "write staged audio file", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return nil, faults.New(faults.CodeStaging, "close staged audio file", err)
	}
	return &StagedAudio{Path: f.Name(), Size: int64(len(audio))}, nil
}

// extensionForHint maps known substrings of the declared format to a file
// extension. Unknown hints default to webm, matching what browser
// recorders most commonly send.
func extensionForHint(hint string) string {
	lower := strings.ToLower(hint)
	switch {
	case strings.Contains(lower, "webm"):
		return ".webm"
	case strings.Contains(lower, "wav"):
		return ".wav"
	case strings.Contains(lower, "mp4"):
		return ".mp4"
	case strings.Contains(lower, "m4a"):
		return ".m4a"
	default:
		return ".webm"
	}
}
