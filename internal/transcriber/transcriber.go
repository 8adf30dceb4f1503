package transcriber

import "context"

// Transcriber converts a staged audio file into text. Implementations
// return the backend's text output verbatim, without post-processing.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}
