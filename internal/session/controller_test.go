package session

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/meetscribe/meetscribe/internal/faults"
	"github.com/meetscribe/meetscribe/internal/pipeline"
	"github.com/meetscribe/meetscribe/internal/repository"
	"github.com/meetscribe/meetscribe/internal/webhook"
)

type mockProcessor struct {
	results []pipeline.Result
	err     error
	calls   int
}

func (m *mockProcessor) Process(_ context.Context, _ []byte, _ string) (pipeline.Result, error) {
	defer func() { m.calls++ }()
	if m.err != nil {
		return pipeline.Result{}, m.err
	}
	if m.calls < len(m.results) {
		return m.results[m.calls], nil
	}
	return pipeline.Result{}, nil
}

type memoryRepository struct {
	mu       sync.Mutex
	meetings []repository.Meeting
	insertErr error
}

func (r *memoryRepository) InsertMeeting(_ context.Context, input repository.InsertMeetingInput) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return "", r.insertErr
	}
	id := uuid.NewString()
	r.meetings = append(r.meetings, repository.Meeting{
		ID:          id,
		Filename:    input.Filename,
		Transcript:  input.Transcript,
		Summary:     input.Summary,
		MeetingType: input.MeetingType,
		Timestamp:   input.Timestamp,
	})
	return id, nil
}

func (r *memoryRepository) GetMeetingByFilename(_ context.Context, filename string) (*repository.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.meetings) - 1; i >= 0; i-- {
		if r.meetings[i].Filename == filename {
			m := r.meetings[i]
			return &m, nil
		}
	}
	return nil, nil
}

func (r *memoryRepository) GetLatestMeeting(_ context.Context) (*repository.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.meetings) == 0 {
		return nil, nil
	}
	m := r.meetings[len(r.meetings)-1]
	return &m, nil
}

func (r *memoryRepository) UpdateMeetingByFilename(_ context.Context, input repository.UpdateMeetingInput) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.meetings {
		if r.meetings[i].Filename == input.Filename {
			r.meetings[i].Transcript = input.Transcript
			r.meetings[i].Summary = input.Summary
			at := input.UpdatedAt
			r.meetings[i].UpdatedAt = &at
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepository) ListMeetings(_ context.Context) ([]repository.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]repository.Meeting, len(r.meetings))
	copy(out, r.meetings)
	return out, nil
}

type recordingWebhook struct {
	mu       sync.Mutex
	payloads []webhook.MeetingSavedPayload
	done     chan struct{}
}

func newRecordingWebhook() *recordingWebhook {
	return &recordingWebhook{done: make(chan struct{}, 1)}
}

func (w *recordingWebhook) SendMeetingSaved(_ context.Context, payload webhook.MeetingSavedPayload) error {
	w.mu.Lock()
	w.payloads = append(w.payloads, payload)
	w.mu.Unlock()
	w.done <- struct{}{}
	return nil
}

func TestAccumulate_TransitionsEmptyToAccumulating(t *testing.T) {
	proc := &mockProcessor{results: []pipeline.Result{{Transcript: "hello there friends", Summary: "Greeting."}}}
	c := NewController(proc, &memoryRepository{}, nil, 0)

	if c.State() != StateEmpty {
		t.Fatalf("expected empty state, got %s", c.State())
	}
	result, err := c.Accumulate(context.Background(), []byte("audio"), "audio/webm")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Transcript != "hello there friends" {
		t.Fatalf("unexpected transcript %q", result.Transcript)
	}
	if c.State() != StateAccumulating {
		t.Fatalf("expected accumulating state, got %s", c.State())
	}
}

func TestAccumulate_PipelineFailureLeavesStateUnchanged(t *testing.T) {
	proc := &mockProcessor{err: faults.New(faults.CodeTranscription, "decode failed", nil)}
	c := NewController(proc, &memoryRepository{}, nil, 0)

	_, err := c.Accumulate(context.Background(), []byte("audio"), "audio/webm")
	if !faults.Is(err, faults.CodeTranscription) {
		t.Fatalf("expected transcription fault, got %v", err)
	}
	if c.State() != StateEmpty {
		t.Fatalf("expected state unchanged, got %s", c.State())
	}
}

func TestAccumulate_RejectedAfterSaveAndDiscard(t *testing.T) {
	proc := &mockProcessor{results: []pipeline.Result{{Transcript: "hello there friends", Summary: "Greeting."}}}
	c := NewController(proc, &memoryRepository{}, nil, 0)
	if _, err := c.Accumulate(context.Background(), []byte("audio"), "audio/webm"); err != nil {
		t.Fatalf("accumulate: %v", err)
	}
	if _, err := c.Save(context.Background(), repository.MeetingTypeLive); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := c.Accumulate(context.Background(), []byte("audio"), "audio/webm"); !faults.Is(err, faults.CodeValidation) {
		t.Fatalf("expected validation fault after save, got %v", err)
	}

	discarded := NewController(&mockProcessor{}, &memoryRepository{}, nil, 0)
	discarded.Discard()
	if _, err := discarded.Accumulate(context.Background(), []byte("audio"), "audio/webm"); !faults.Is(err, faults.CodeValidation) {
		t.Fatalf("expected validation fault after discard, got %v", err)
	}
}

func TestSave_EmptySessionIsRejected(t *testing.T) {
	c := NewController(&mockProcessor{}, &memoryRepository{}, nil, 0)
	_, err := c.Save(context.Background(), repository.MeetingTypeLive)
	if !faults.Is(err, faults.CodeValidation) {
		t.Fatalf("expected validation fault, got %v", err)
	}
	if c.State() != StateEmpty {
		t.Fatalf("expected state unchanged, got %s", c.State())
	}
}

func TestSave_ShortTranscriptIsRejected(t *testing.T) {
	proc := &mockProcessor{results: []pipeline.Result{{Transcript: "uh", Summary: "Noise."}}}
	c := NewController(proc, &memoryRepository{}, nil, 10)
	if _, err := c.Accumulate(context.Background(), []byte("audio"), "audio/webm"); err != nil {
		t.Fatalf("accumulate: %v", err)
	}
	_, err := c.Save(context.Background(), repository.MeetingTypeLive)
	if !faults.Is(err, faults.CodeValidation) {
		t.Fatalf("expected validation fault, got %v", err)
	}
}

func TestSave_NotesOnlySessionIsSaveable(t *testing.T) {
	proc := &mockProcessor{results: []pipeline.Result{{Transcript: "", Summary: "Audio too short to process"}}}
	repo := &memoryRepository{}
	c := NewController(proc, repo, nil, 10)
	if _, err := c.Accumulate(context.Background(), []byte("audio"), "audio/webm"); err != nil {
		t.Fatalf("accumulate: %v", err)
	}
	saved, err := c.Save(context.Background(), repository.MeetingTypeLive)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.Filename == "" || saved.MeetingID == "" {
		t.Fatalf("incomplete save result: %+v", saved)
	}
}

func TestSave_PersistsAccumulatedSession(t *testing.T) {
	proc := &mockProcessor{results: []pipeline.Result{
		{Transcript: "hello there friends", Summary: "Greeting."},
		{Transcript: "let us begin", Summary: "Kickoff."},
	}}
	repo := &memoryRepository{}
	wh := newRecordingWebhook()
	c := NewController(proc, repo, wh, 10)

	for i := 0; i < 2; i++ {
		if _, err := c.Accumulate(context.Background(), []byte("audio"), "audio/webm"); err != nil {
			t.Fatalf("accumulate %d: %v", i, err)
		}
	}
	saved, err := c.Save(context.Background(), repository.MeetingTypeLive)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !regexp.MustCompile(`^Live_Meeting_\d{8}_\d{6}$`).MatchString(saved.Filename) {
		t.Fatalf("unexpected filename %q", saved.Filename)
	}
	if c.State() != StateSaved {
		t.Fatalf("expected saved state, got %s", c.State())
	}
	if c.SavedFilename() != saved.Filename {
		t.Fatalf("SavedFilename %q does not match save result %q", c.SavedFilename(), saved.Filename)
	}

	meeting, err := repo.GetMeetingByFilename(context.Background(), saved.Filename)
	if err != nil {
		t.Fatalf("get meeting: %v", err)
	}
	if meeting == nil {
		t.Fatal("saved meeting not found in repository")
	}
	if meeting.Transcript != "hello there friends let us begin" {
		t.Fatalf("unexpected transcript %q", meeting.Transcript)
	}
	if meeting.Summary != "Greeting. Kickoff." {
		t.Fatalf("unexpected summary %q", meeting.Summary)
	}
	if meeting.MeetingType != repository.MeetingTypeLive {
		t.Fatalf("unexpected meeting type %q", meeting.MeetingType)
	}

	select {
	case <-wh.done:
	case <-time.After(time.Second):
		t.Fatal("webhook was not notified")
	}
	wh.mu.Lock()
	defer wh.mu.Unlock()
	if len(wh.payloads) != 1 || wh.payloads[0].Filename != saved.Filename {
		t.Fatalf("unexpected webhook payloads: %+v", wh.payloads)
	}
}

func TestSave_DoubleSaveIsRejected(t *testing.T) {
	proc := &mockProcessor{results: []pipeline.Result{{Transcript: "hello there friends", Summary: "Greeting."}}}
	repo := &memoryRepository{}
	c := NewController(proc, repo, nil, 10)
	if _, err := c.Accumulate(context.Background(), []byte("audio"), "audio/webm"); err != nil {
		t.Fatalf("accumulate: %v", err)
	}
	if _, err := c.Save(context.Background(), repository.MeetingTypeLive); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if _, err := c.Save(context.Background(), repository.MeetingTypeLive); !faults.Is(err, faults.CodeValidation) {
		t.Fatalf("expected validation fault on double save, got %v", err)
	}
	meetings, _ := repo.ListMeetings(context.Background())
	if len(meetings) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(meetings))
	}
}

func TestSave_RepositoryFailureKeepsSessionAccumulating(t *testing.T) {
	proc := &mockProcessor{results: []pipeline.Result{{Transcript: "hello there friends", Summary: "Greeting."}}}
	repo := &memoryRepository{insertErr: errors.New("connection reset")}
	c := NewController(proc, repo, nil, 10)
	if _, err := c.Accumulate(context.Background(), []byte("audio"), "audio/webm"); err != nil {
		t.Fatalf("accumulate: %v", err)
	}
	_, err := c.Save(context.Background(), repository.MeetingTypeLive)
	if !faults.Is(err, faults.CodeStorage) {
		t.Fatalf("expected storage fault, got %v", err)
	}
	if c.State() != StateAccumulating {
		t.Fatalf("expected session still accumulating, got %s", c.State())
	}
}

func TestUpdate_RequiresBothFields(t *testing.T) {
	c := NewController(&mockProcessor{}, &memoryRepository{}, nil, 0)
	transcript := "updated"
	if err := c.Update(context.Background(), "Live_Meeting_20250101_120000", &transcript, nil); !faults.Is(err, faults.CodeValidation) {
		t.Fatalf("expected validation fault for missing summary, got %v", err)
	}
	if err := c.Update(context.Background(), "  ", &transcript, &transcript); !faults.Is(err, faults.CodeValidation) {
		t.Fatalf("expected validation fault for blank filename, got %v", err)
	}
}

func TestUpdate_UnknownFilenameIsNotFound(t *testing.T) {
	c := NewController(&mockProcessor{}, &memoryRepository{}, nil, 0)
	empty := ""
	err := c.Update(context.Background(), "Live_Meeting_19990101_000000", &empty, &empty)
	if !faults.Is(err, faults.CodeNotFound) {
		t.Fatalf("expected not-found fault, got %v", err)
	}
}

func TestUpdate_AmendsSavedMeeting(t *testing.T) {
	proc := &mockProcessor{results: []pipeline.Result{{Transcript: "hello there friends", Summary: "Greeting."}}}
	repo := &memoryRepository{}
	c := NewController(proc, repo, nil, 10)
	if _, err := c.Accumulate(context.Background(), []byte("audio"), "audio/webm"); err != nil {
		t.Fatalf("accumulate: %v", err)
	}
	saved, err := c.Save(context.Background(), repository.MeetingTypeLive)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	transcript := "hello there friends, corrected"
	summary := ""
	if err := c.Update(context.Background(), saved.Filename, &transcript, &summary); err != nil {
		t.Fatalf("update: %v", err)
	}
	meeting, err := repo.GetMeetingByFilename(context.Background(), saved.Filename)
	if err != nil || meeting == nil {
		t.Fatalf("get meeting: %v, %v", meeting, err)
	}
	if meeting.Transcript != transcript || meeting.Summary != "" {
		t.Fatalf("record not amended: %+v", meeting)
	}
	if meeting.UpdatedAt == nil {
		t.Fatal("expected updated_at to be set")
	}
	if c.State() != StateSaved {
		t.Fatalf("expected session state unchanged, got %s", c.State())
	}
}

func TestGenerateFilename(t *testing.T) {
	at := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	if got := GenerateFilename(repository.MeetingTypeLive, at); got != "Live_Meeting_20250314_092653" {
		t.Fatalf("unexpected live filename %q", got)
	}
	if got := GenerateFilename(repository.MeetingTypeRecorded, at); got != "Recorded_Meeting_20250314_092653" {
		t.Fatalf("unexpected recorded filename %q", got)
	}
}

func TestDiscard_AfterSaveIsIgnored(t *testing.T) {
	proc := &mockProcessor{results: []pipeline.Result{{Transcript: "hello there friends", Summary: "Greeting."}}}
	c := NewController(proc, &memoryRepository{}, nil, 10)
	if _, err := c.Accumulate(context.Background(), []byte("audio"), "audio/webm"); err != nil {
		t.Fatalf("accumulate: %v", err)
	}
	if _, err := c.Save(context.Background(), repository.MeetingTypeLive); err != nil {
		t.Fatalf("save: %v", err)
	}
	c.Discard()
	if c.State() != StateSaved {
		t.Fatalf("expected saved state to stick, got %s", c.State())
	}
}
