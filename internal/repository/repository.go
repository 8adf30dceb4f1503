package repository

import (
	"context"
	"time"
)

type InsertMeetingInput struct {
	Filename    string
	Transcript  string
	Summary     string
	MeetingType MeetingType
	Timestamp   time.Time
}

type UpdateMeetingInput struct {
	Filename   string
	Transcript string
	Summary    string
	UpdatedAt  time.Time
}

// Repository is the durable store of meeting records. Lookups by
// filename return (nil, nil) when no record matches. UpdateMeeting
// never inserts; it reports whether a record matched.
type Repository interface {
	InsertMeeting(ctx context.Context, input InsertMeetingInput) (string, error)
	GetMeetingByFilename(ctx context.Context, filename string) (*Meeting, error)
	GetLatestMeeting(ctx context.Context) (*Meeting, error)
	UpdateMeetingByFilename(ctx context.Context, input UpdateMeetingInput) (bool, error)
	ListMeetings(ctx context.Context) ([]Meeting, error)
}
