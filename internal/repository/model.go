package repository

import "time"

type MeetingType string

const (
	MeetingTypeUpload   MeetingType = "upload"
	MeetingTypeLive     MeetingType = "live"
	MeetingTypeRecorded MeetingType = "recorded"
)

// Meeting is the persisted unit produced by the capture-to-summary
// pipeline. Filename is the human-readable lookup key used by callers;
// ID is the collision-resistant storage key.
type Meeting struct {
	ID          string
	Filename    string
	Transcript  string
	Summary     string
	MeetingType MeetingType
	Timestamp   time.Time
	UpdatedAt   *time.Time
}
