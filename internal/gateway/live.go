package gateway

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/meetscribe/meetscribe/internal/pipeline"
	"github.com/meetscribe/meetscribe/internal/repository"
	"github.com/meetscribe/meetscribe/internal/session"
)

// liveController is the slice of session.Controller the live endpoint
// drives; narrowed to an interface so handler tests can fake it.
type liveController interface {
	Accumulate(ctx context.Context, audio []byte, formatHint string) (pipeline.Result, error)
	Save(ctx context.Context, meetingType repository.MeetingType) (session.SaveResult, error)
	Update(ctx context.Context, filename string, transcript, summary *string) error
	Discard()
	State() session.State
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1 << 16,
	WriteBufferSize: 1 << 16,
}

// handleLive upgrades the connection and binds it to a fresh session
// controller. The controller is exclusively owned by this connection and
// discarded when it closes without a save.
func (g *Gateway) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	controller := g.newController()
	defer controller.Discard()
	slog.Info("live session connected", "remote", conn.RemoteAddr().String())

	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("live session read failed", "error", err)
			}
			slog.Info("live session disconnected", "state", controller.State())
			return
		}

		switch msg.Type {
		case messageTypeAudioChunk:
			g.handleAudioChunk(r, conn, controller, msg)
		case messageTypeSaveMeeting:
			g.handleSaveLive(r, conn, controller, msg)
		case messageTypeUpdateMeeting:
			g.handleUpdateLive(r, conn, controller, msg)
		default:
			slog.Warn("unknown live message type", "type", msg.Type)
		}
	}
}

func (g *Gateway) handleAudioChunk(r *http.Request, conn *websocket.Conn, controller liveController, msg clientMessage) {
	audio, err := base64.StdEncoding.DecodeString(msg.Audio)
	if err != nil {
		writeWS(conn, transcriptMessage{Type: messageTypeTranscript, Success: false, Error: "invalid base64 audio"})
		return
	}
	result, err := controller.Accumulate(r.Context(), audio, msg.Format)
	if err != nil {
		writeWS(conn, transcriptMessage{Type: messageTypeTranscript, Success: false, Error: err.Error()})
		return
	}
	writeWS(conn, transcriptMessage{
		Type:       messageTypeTranscript,
		Transcript: result.Transcript,
		Notes:      result.Summary,
		Success:    true,
	})
}

func (g *Gateway) handleSaveLive(r *http.Request, conn *websocket.Conn, controller liveController, msg clientMessage) {
	meetingType := repository.MeetingType(msg.MeetingType)
	if meetingType == "" {
		meetingType = repository.MeetingTypeLive
	}
	if meetingType != repository.MeetingTypeLive && meetingType != repository.MeetingTypeRecorded {
		writeWS(conn, saveStatusMessage{Type: messageTypeSaveStatus, Success: false, Error: "invalid meeting type"})
		return
	}
	result, err := controller.Save(r.Context(), meetingType)
	if err != nil {
		writeWS(conn, saveStatusMessage{Type: messageTypeSaveStatus, Success: false, Error: err.Error()})
		return
	}
	writeWS(conn, saveStatusMessage{
		Type:      messageTypeSaveStatus,
		Success:   true,
		Message:   "Live meeting saved successfully!",
		MeetingID: result.MeetingID,
		Filename:  result.Filename,
	})
}

func (g *Gateway) handleUpdateLive(r *http.Request, conn *websocket.Conn, controller liveController, msg clientMessage) {
	if err := controller.Update(r.Context(), msg.Filename, msg.Transcript, msg.Summary); err != nil {
		writeWS(conn, updateStatusMessage{Type: messageTypeUpdateStatus, Success: false, Error: err.Error()})
		return
	}
	writeWS(conn, updateStatusMessage{
		Type:    messageTypeUpdateStatus,
		Success: true,
		Message: "Meeting updated successfully",
	})
}

func writeWS(conn *websocket.Conn, msg any) {
	if err := conn.WriteJSON(msg); err != nil {
		slog.Warn("failed to write websocket message", "error", err)
	}
}
