package gateway

// Wire messages of the live websocket endpoint. Incoming types mirror
// the events a recording client emits; outgoing types report per-chunk
// results and save/update status.

const (
	messageTypeAudioChunk    = "audio_chunk"
	messageTypeSaveMeeting   = "save_meeting"
	messageTypeUpdateMeeting = "update_meeting"

	messageTypeTranscript   = "transcript"
	messageTypeSaveStatus   = "save_status"
	messageTypeUpdateStatus = "update_status"
)

type clientMessage struct {
	Type        string  `json:"type"`
	Audio       string  `json:"audio,omitempty"`
	Format      string  `json:"format,omitempty"`
	MeetingType string  `json:"meeting_type,omitempty"`
	Filename    string  `json:"filename,omitempty"`
	Transcript  *string `json:"transcript,omitempty"`
	Summary     *string `json:"summary,omitempty"`
}

type transcriptMessage struct {
	Type       string `json:"type"`
	Transcript string `json:"transcript"`
	Notes      string `json:"notes"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}

type saveStatusMessage struct {
	Type      string `json:"type"`
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	MeetingID string `json:"meeting_id,omitempty"`
	Filename  string `json:"filename,omitempty"`
	Error     string `json:"error,omitempty"`
}

type updateStatusMessage struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
