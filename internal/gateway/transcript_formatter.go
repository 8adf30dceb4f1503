package gateway

import (
	"fmt"
	"strings"

	"github.com/meetscribe/meetscribe/internal/repository"
)

const downloadTimeLayout = "2006-01-02 15:04:05"

// buildTranscriptDocument renders a meeting record as the plain-text
// attachment served by the download endpoint.
func buildTranscriptDocument(m *repository.Meeting) []byte {
	lines := []string{
		"Meeting Transcript",
		fmt.Sprintf("Filename: %s", m.Filename),
		fmt.Sprintf("Date: %s", m.Timestamp.UTC().Format(downloadTimeLayout)),
		"",
		"SUMMARY:",
		m.Summary,
		"",
		"TRANSCRIPT:",
		m.Transcript,
		"",
	}
	return []byte(strings.Join(lines, "\n"))
}
