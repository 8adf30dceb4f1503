package webhook

import "context"

type MeetingSavedPayload struct {
	MeetingID       string `json:"meeting_id"`
	Filename        string `json:"filename"`
	MeetingType     string `json:"meeting_type"`
	Timestamp       string `json:"timestamp"`
	TranscriptChars int    `json:"transcript_chars"`
	SummaryChars    int    `json:"summary_chars"`
}

// Sender notifies an external endpoint that a meeting record was saved.
type Sender interface {
	SendMeetingSaved(ctx context.Context, payload MeetingSavedPayload) error
}
