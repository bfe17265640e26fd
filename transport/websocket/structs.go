package websocket

import (
	"encoding/json"

	"github.com/bitgrid/tictactoe-backend/internal/entity"
	"github.com/bitgrid/tictactoe-backend/internal/game"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type RequestPayload struct {
	Player    *entity.Player `json:"player,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
	Square    string         `json:"square,omitempty"`
}

type ResponsePayload struct {
	Player  *entity.Player   `json:"player,omitempty"`
	Session *SessionResponse `json:"session,omitempty"`
	Error   string           `json:"error,omitempty"`
}

type SessionResponse struct {
	ID      string           `json:"id"`
	Board   string           `json:"board"`
	Turn    string           `json:"turn,omitempty"`
	Status  string           `json:"status"`
	Winner  string           `json:"winner,omitempty"`
	Line    string           `json:"line,omitempty"`
	Players []*entity.Player `json:"players,omitempty"`
}

func newSessionResponse(session *entity.Session) *SessionResponse {
	response := &SessionResponse{
		ID:      session.ID,
		Turn:    session.Turn,
		Status:  session.Status,
		Winner:  session.Winner,
		Line:    session.Line,
		Players: session.Players,
	}

	if board, err := game.RestoreBoard(session.XBoard, session.OBoard); err == nil {
		response.Board = board.String()
	}

	return response
}
