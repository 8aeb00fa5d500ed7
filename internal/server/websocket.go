package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"nhooyr.io/websocket"

	"kniffel/internal/kniffel"
	"kniffel/internal/session"
)

// WSMessage is the JSON envelope for WebSocket messages.
type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type joinPayload struct {
	ParticipantID string `json:"participantId"`
	Name          string `json:"name"`
}

type rollPayload struct {
	Kept [5]bool `json:"kept"`
}

type scorePayload struct {
	Category   string `json:"category"`
	BlockIndex int    `json:"blockIndex"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleWebSocket attaches one participant connection to a session: the
// first message must be a join, after which the connection receives every
// session event and may issue commands. Command rejections go back to the
// issuing connection only, never broadcast.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.manager.Get(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // allow any origin for game clients
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket accept")
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx := r.Context()

	// First message must be a join
	_, data, err := conn.Read(ctx)
	if err != nil {
		return
	}
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil || msg.Type != "join" {
		sendWSError(ctx, conn, "bad_join", "first message must be a join")
		return
	}
	var join joinPayload
	if err := json.Unmarshal(msg.Payload, &join); err != nil || join.ParticipantID == "" {
		sendWSError(ctx, conn, "bad_join", "invalid join payload")
		return
	}

	participantID := join.ParticipantID

	// Seat the participant unless this is a reconnect; a rejoin of a
	// running session just resubscribes and gets a fresh snapshot.
	if err := sess.Join(participantID, join.Name); err != nil &&
		err != session.ErrAlreadyJoined && err != session.ErrNotWaiting {
		writeWSError(ctx, conn, err)
		return
	}

	subID := participantID + ":" + uuid.NewString()
	events := sess.Subscribe(subID)
	defer sess.Unsubscribe(subID)

	// Writer: pump session events to the socket.
	writeCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		for ev := range events {
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if err := conn.Write(writeCtx, websocket.MessageText, data); err != nil {
				return
			}
		}
	}()

	// Reader: handle commands until the connection drops.
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			break
		}
		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			sendWSError(ctx, conn, "bad_message", "invalid message")
			continue
		}
		s.handleCommand(ctx, conn, sess, participantID, msg)
	}

	s.log.Debug().Str("session_id", sess.ID()).Str("participant_id", participantID).Msg("websocket disconnected")
}

func (s *Server) handleCommand(ctx context.Context, conn *websocket.Conn, sess *session.Session, participantID string, msg WSMessage) {
	switch msg.Type {
	case "start":
		if err := sess.Start(participantID); err != nil {
			writeWSError(ctx, conn, err)
		}

	case "roll":
		var rp rollPayload
		if err := json.Unmarshal(msg.Payload, &rp); err != nil {
			sendWSError(ctx, conn, "bad_payload", "invalid roll payload")
			return
		}
		if _, err := sess.Roll(participantID, rp.Kept); err != nil {
			writeWSError(ctx, conn, err)
		}

	case "score":
		var sp scorePayload
		if err := json.Unmarshal(msg.Payload, &sp); err != nil {
			sendWSError(ctx, conn, "bad_payload", "invalid score payload")
			return
		}
		cat, err := kniffel.ParseCategory(sp.Category)
		if err != nil {
			sendWSError(ctx, conn, "bad_category", err.Error())
			return
		}
		if _, _, err := sess.SubmitScore(participantID, cat, sp.BlockIndex); err != nil {
			writeWSError(ctx, conn, err)
		}

	case "leave":
		if err := sess.Leave(participantID); err != nil {
			writeWSError(ctx, conn, err)
		}

	default:
		sendWSError(ctx, conn, "unknown_type", "unknown message type: "+msg.Type)
	}
}

func writeWSError(ctx context.Context, conn *websocket.Conn, err error) {
	if serr, ok := err.(*session.Error); ok {
		sendWSError(ctx, conn, serr.Code, serr.Error())
		return
	}
	sendWSError(ctx, conn, "internal", err.Error())
}

func sendWSError(ctx context.Context, conn *websocket.Conn, code, message string) {
	p, _ := json.Marshal(errorPayload{Code: code, Message: message})
	msg, _ := json.Marshal(WSMessage{Type: "error", Payload: p})
	conn.Write(ctx, websocket.MessageText, msg)
}
