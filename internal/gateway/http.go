package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/meetscribe/meetscribe/internal/faults"
	"github.com/meetscribe/meetscribe/internal/repository"
	"github.com/meetscribe/meetscribe/internal/session"
	"github.com/meetscribe/meetscribe/internal/webhook"
)

const maxUploadBytes = 16 << 20

var allowedUploadExtensions = map[string]struct{}{
	".mp3":  {},
	".wav":  {},
	".webm": {},
	".mp4":  {},
	".m4a":  {},
}

// Gateway exposes the capture-to-summary core over HTTP and websocket.
type Gateway struct {
	processor     session.Processor
	repo          repository.Repository
	webhook       webhook.Sender
	newController session.ControllerFactory
	now           func() time.Time
}

func New(p session.Processor, repo repository.Repository, wh webhook.Sender, factory session.ControllerFactory) *Gateway {
	return &Gateway{
		processor:     p,
		repo:          repo,
		webhook:       wh,
		newController: factory,
		now:           time.Now,
	}
}

func (g *Gateway) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload", g.handleUpload)
	mux.HandleFunc("GET /meetings", g.handleListMeetings)
	mux.HandleFunc("POST /meetings", g.handleSaveRecorded)
	mux.HandleFunc("GET /meetings/{filename}", g.handleGetMeeting)
	mux.HandleFunc("PUT /meetings/{filename}", g.handleUpdateMeeting)
	mux.HandleFunc("GET /meetings/{filename}/download", g.handleDownload)
	mux.HandleFunc("GET /live", g.handleLive)
	return mux
}

type meetingJSON struct {
	ID          string     `json:"id"`
	Filename    string     `json:"filename"`
	Transcript  string     `json:"transcript"`
	Summary     string     `json:"summary"`
	MeetingType string     `json:"meeting_type"`
	Timestamp   time.Time  `json:"timestamp"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func toMeetingJSON(m repository.Meeting) meetingJSON {
	return meetingJSON{
		ID:          m.ID,
		Filename:    m.Filename,
		Transcript:  m.Transcript,
		Summary:     m.Summary,
		MeetingType: string(m.MeetingType),
		Timestamp:   m.Timestamp,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (g *Gateway) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "no file part")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	filename := filepath.Base(header.Filename)
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedUploadExtensions[ext]; !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid file type")
		return
	}

	audio, err := io.ReadAll(file)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	result, err := g.processor.Process(r.Context(), audio, ext)
	if err != nil {
		writeFaultError(w, err)
		return
	}

	timestamp := g.now().UTC()
	id, err := g.repo.InsertMeeting(r.Context(), repository.InsertMeetingInput{
		Filename:    filename,
		Transcript:  result.Transcript,
		Summary:     result.Summary,
		MeetingType: repository.MeetingTypeUpload,
		Timestamp:   timestamp,
	})
	if err != nil {
		slog.Error("failed to insert uploaded meeting", "error", err, "filename", filename)
		writeJSONError(w, http.StatusInternalServerError, "failed to save meeting")
		return
	}
	slog.Info("uploaded meeting processed", "meeting_id", id, "filename", filename)
	g.sendWebhook(id, filename, repository.MeetingTypeUpload, timestamp, result.Transcript, result.Summary)

	writeJSON(w, http.StatusOK, map[string]string{
		"transcript": result.Transcript,
		"summary":    result.Summary,
		"filename":   filename,
		"meeting_id": id,
	})
}

func (g *Gateway) handleListMeetings(w http.ResponseWriter, r *http.Request) {
	meetings, err := g.repo.ListMeetings(r.Context())
	if err != nil {
		slog.Error("failed to list meetings", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to list meetings")
		return
	}
	out := make([]meetingJSON, 0, len(meetings))
	for _, m := range meetings {
		out = append(out, toMeetingJSON(m))
	}
	writeJSON(w, http.StatusOK, map[string][]meetingJSON{"meetings": out})
}

type saveRecordedRequest struct {
	Transcript  string `json:"transcript"`
	Summary     string `json:"summary"`
	MeetingType string `json:"meeting_type"`
}

func (g *Gateway) handleSaveRecorded(w http.ResponseWriter, r *http.Request) {
	var req saveRecordedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid or missing JSON")
		return
	}
	if req.Transcript == "" || req.Summary == "" {
		writeJSONError(w, http.StatusBadRequest, "transcript and summary are required")
		return
	}
	meetingType := repository.MeetingType(req.MeetingType)
	if meetingType == "" {
		meetingType = repository.MeetingTypeRecorded
	}
	if meetingType != repository.MeetingTypeRecorded && meetingType != repository.MeetingTypeLive {
		writeJSONError(w, http.StatusBadRequest, "invalid meeting type")
		return
	}

	timestamp := g.now().UTC()
	filename := session.GenerateFilename(meetingType, timestamp)
	id, err := g.repo.InsertMeeting(r.Context(), repository.InsertMeetingInput{
		Filename:    filename,
		Transcript:  req.Transcript,
		Summary:     req.Summary,
		MeetingType: meetingType,
		Timestamp:   timestamp,
	})
	if err != nil {
		slog.Error("failed to save recorded meeting", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to save meeting")
		return
	}
	slog.Info("recorded meeting saved", "meeting_id", id, "filename", filename)
	g.sendWebhook(id, filename, meetingType, timestamp, req.Transcript, req.Summary)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message":    "Meeting saved successfully!",
		"meeting_id": id,
		"filename":   filename,
	})
}

func (g *Gateway) handleGetMeeting(w http.ResponseWriter, r *http.Request) {
	meeting, err := g.repo.GetMeetingByFilename(r.Context(), r.PathValue("filename"))
	if err != nil {
		slog.Error("failed to get meeting", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to get meeting")
		return
	}
	if meeting == nil {
		writeJSONError(w, http.StatusNotFound, "meeting not found")
		return
	}
	writeJSON(w, http.StatusOK, toMeetingJSON(*meeting))
}

type updateMeetingRequest struct {
	Transcript *string `json:"transcript"`
	Summary    *string `json:"summary"`
}

func (g *Gateway) handleUpdateMeeting(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")
	var req updateMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid or missing JSON")
		return
	}
	if req.Transcript == nil || req.Summary == nil {
		writeJSONError(w, http.StatusBadRequest, "summary and transcript are required")
		return
	}

	matched, err := g.repo.UpdateMeetingByFilename(r.Context(), repository.UpdateMeetingInput{
		Filename:   filename,
		Transcript: *req.Transcript,
		Summary:    *req.Summary,
		UpdatedAt:  g.now().UTC(),
	})
	if err != nil {
		slog.Error("failed to update meeting", "error", err, "filename", filename)
		writeJSONError(w, http.StatusInternalServerError, "failed to update meeting")
		return
	}
	if !matched {
		writeJSONError(w, http.StatusNotFound, "meeting not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  "Meeting updated successfully",
		"filename": filename,
	})
}

func (g *Gateway) handleDownload(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")
	meeting, err := g.repo.GetMeetingByFilename(r.Context(), filename)
	if err != nil {
		slog.Error("failed to get meeting for download", "error", err, "filename", filename)
		writeJSONError(w, http.StatusInternalServerError, "failed to get meeting")
		return
	}
	if meeting == nil {
		writeJSONError(w, http.StatusNotFound, "meeting not found")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+"_transcript.txt"))
	_, _ = w.Write(buildTranscriptDocument(meeting))
}

func (g *Gateway) sendWebhook(id, filename string, meetingType repository.MeetingType, timestamp time.Time, transcript, summary string) {
	if g.webhook == nil {
		return
	}
	payload := webhook.MeetingSavedPayload{
		MeetingID:       id,
		Filename:        filename,
		MeetingType:     string(meetingType),
		Timestamp:       timestamp.Format(time.RFC3339),
		TranscriptChars: len(transcript),
		SummaryChars:    len(summary),
	}
	go func() {
		if err := g.webhook.SendMeetingSaved(context.Background(), payload); err != nil {
			slog.Error("failed to send meeting saved webhook", "error", err, "meeting_id", id)
		}
	}()
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeFaultError(w http.ResponseWriter, err error) {
	switch faults.CodeOf(err) {
	case faults.CodeValidation, faults.CodeStaging:
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case faults.CodeNotFound:
		writeJSONError(w, http.StatusNotFound, err.Error())
	case faults.CodeEnvironment, faults.CodeTranscription, faults.CodeSummarization:
		writeJSONError(w, http.StatusBadGateway, err.Error())
	default:
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}
