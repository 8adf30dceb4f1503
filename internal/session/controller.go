package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/meetscribe/meetscribe/internal/faults"
	"github.com/meetscribe/meetscribe/internal/pipeline"
	"github.com/meetscribe/meetscribe/internal/repository"
	"github.com/meetscribe/meetscribe/internal/webhook"
)

type State string

const (
	StateEmpty        State = "empty"
	StateAccumulating State = "accumulating"
	StateSaved        State = "saved"
	StateDiscarded    State = "discarded"
)

const (
	liveFilenamePrefix     = "Live_Meeting_"
	recordedFilenamePrefix = "Recorded_Meeting_"
	filenameTimeLayout     = "20060102_150405"

	defaultMinTranscriptChars = 10
)

// Processor runs the capture-to-summary pipeline for one audio chunk.
type Processor interface {
	Process(ctx context.Context, audio []byte, formatHint string) (pipeline.Result, error)
}

// Controller is the state machine of one live meeting session. It is
// exclusively owned by a single client connection: successive chunk
// results accumulate in memory until the session is saved or discarded.
type Controller struct {
	processor          Processor
	repo               repository.Repository
	webhook            webhook.Sender
	minTranscriptChars int
	now                func() time.Time

	mu         sync.Mutex
	state      State
	transcript string
	notes      string
	filename   string
}

func NewController(p Processor, repo repository.Repository, wh webhook.Sender, minTranscriptChars int) *Controller {
	if minTranscriptChars <= 0 {
		minTranscriptChars = defaultMinTranscriptChars
	}
	return &Controller{
		processor:          p,
		repo:               repo,
		webhook:            wh,
		minTranscriptChars: minTranscriptChars,
		now:                time.Now,
		state:              StateEmpty,
	}
}

type SaveResult struct {
	Filename  string
	MeetingID string
}

// Accumulate processes one streamed audio chunk and appends its
// transcript and notes to the session buffers. On pipeline failure the
// chunk's contribution is dropped and the session state is unchanged.
func (c *Controller) Accumulate(ctx context.Context, audio []byte, formatHint string) (pipeline.Result, error) {
	c.mu.Lock()
	if c.state == StateSaved || c.state == StateDiscarded {
		state := c.state
		c.mu.Unlock()
		return pipeline.Result{}, faults.New(faults.CodeValidation, "session is "+string(state)+", cannot accept more audio", nil)
	}
	c.mu.Unlock()

	result, err := c.processor.Process(ctx, audio, formatHint)
	if err != nil {
		slog.Warn("audio chunk processing failed, dropping contribution", "error", err)
		return pipeline.Result{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.transcript = appendText(c.transcript, result.Transcript)
	c.notes = appendText(c.notes, result.Summary)
	if c.state == StateEmpty {
		c.state = StateAccumulating
	}
	slog.Debug("audio chunk accumulated", "transcript_chars", len(c.transcript), "notes_chars", len(c.notes))
	return result, nil
}

// Save persists the accumulated session as a new meeting record. The
// generated filename combines the session-type prefix with a
// second-precision timestamp; the returned meeting ID is the storage key.
func (c *Controller) Save(ctx context.Context, meetingType repository.MeetingType) (SaveResult, error) {
	c.mu.Lock()
	if c.state == StateSaved {
		c.mu.Unlock()
		return SaveResult{}, faults.New(faults.CodeValidation, "session already saved", nil)
	}
	if c.state == StateDiscarded {
		c.mu.Unlock()
		return SaveResult{}, faults.New(faults.CodeValidation, "session already discarded", nil)
	}
	transcript := c.transcript
	notes := c.notes
	c.mu.Unlock()

	if transcript == "" && notes == "" {
		return SaveResult{}, faults.New(faults.CodeValidation, "no transcript or notes to save", nil)
	}
	if transcript != "" && len(strings.TrimSpace(transcript)) < c.minTranscriptChars {
		return SaveResult{}, faults.New(faults.CodeValidation, "no meaningful speech detected", nil)
	}

	timestamp := c.now().UTC()
	filename := GenerateFilename(meetingType, timestamp)
	id, err := c.repo.InsertMeeting(ctx, repository.InsertMeetingInput{
		Filename:    filename,
		Transcript:  transcript,
		Summary:     notes,
		MeetingType: meetingType,
		Timestamp:   timestamp,
	})
	if err != nil {
		return SaveResult{}, faults.New(faults.CodeStorage, "insert meeting record", err)
	}

	c.mu.Lock()
	c.state = StateSaved
	c.filename = filename
	c.mu.Unlock()
	slog.Info("live session saved", "meeting_id", id, "filename", filename, "meeting_type", meetingType)

	go c.notifySaved(id, filename, meetingType, timestamp, len(transcript), len(notes))

	return SaveResult{Filename: filename, MeetingID: id}, nil
}

// Update amends an already-saved meeting record by filename. Both
// transcript and summary must be present; empty strings are allowed.
// The operation is idempotent and leaves the session state unchanged.
func (c *Controller) Update(ctx context.Context, filename string, transcript, summary *string) error {
	if strings.TrimSpace(filename) == "" {
		return faults.New(faults.CodeValidation, "filename is required", nil)
	}
	if transcript == nil || summary == nil {
		return faults.New(faults.CodeValidation, "transcript and summary are required", nil)
	}
	matched, err := c.repo.UpdateMeetingByFilename(ctx, repository.UpdateMeetingInput{
		Filename:   filename,
		Transcript: *transcript,
		Summary:    *summary,
		UpdatedAt:  c.now().UTC(),
	})
	if err != nil {
		return faults.New(faults.CodeStorage, "update meeting record", err)
	}
	if !matched {
		return faults.New(faults.CodeNotFound, "meeting not found", nil)
	}
	return nil
}

// Discard marks the session terminal without persisting anything. Called
// when the owning connection closes before a save.
func (c *Controller) Discard() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateSaved {
		return
	}
	c.state = StateDiscarded
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SavedFilename returns the filename generated by Save, or an empty
// string before a successful save.
func (c *Controller) SavedFilename() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filename
}

func (c *Controller) notifySaved(id, filename string, meetingType repository.MeetingType, timestamp time.Time, transcriptChars, notesChars int) {
	if c.webhook == nil {
		return
	}
	err := c.webhook.SendMeetingSaved(context.Background(), webhook.MeetingSavedPayload{
		MeetingID:       id,
		Filename:        filename,
		MeetingType:     string(meetingType),
		Timestamp:       timestamp.Format(time.RFC3339),
		TranscriptChars: transcriptChars,
		SummaryChars:    notesChars,
	})
	if err != nil {
		slog.Error("failed to send meeting saved webhook", "error", err, "meeting_id", id)
	}
}

// GenerateFilename combines the session-type prefix with a
// second-precision timestamp. The result is the human-readable record
// name; uniqueness under concurrency is carried by the record ID.
func GenerateFilename(meetingType repository.MeetingType, at time.Time) string {
	prefix := recordedFilenamePrefix
	if meetingType == repository.MeetingTypeLive {
		prefix = liveFilenamePrefix
	}
	return prefix + at.UTC().Format(filenameTimeLayout)
}

func appendText(buf, part string) string {
	if part == "" {
		return buf
	}
	if buf == "" {
		return part
	}
	return buf + " " + part
}
