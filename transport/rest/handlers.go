package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bitgrid/tictactoe-backend/internal/apperror"
	"github.com/bitgrid/tictactoe-backend/internal/entity"
	"github.com/bitgrid/tictactoe-backend/internal/game"
	"github.com/bitgrid/tictactoe-backend/internal/repository"
)

type playerRequest struct {
	PlayerID string `json:"player_id"`
}

type moveRequest struct {
	PlayerID string `json:"player_id"`
	Square   string `json:"square"`
}

type sessionResponse struct {
	ID      string           `json:"id"`
	Board   string           `json:"board"`
	Turn    string           `json:"turn,omitempty"`
	Status  string           `json:"status"`
	Winner  string           `json:"winner,omitempty"`
	Line    string           `json:"line,omitempty"`
	Players []*entity.Player `json:"players,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func newSessionResponse(session *entity.Session) sessionResponse {
	response := sessionResponse{
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

func (that *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *Server) handleConnectPlayer(w http.ResponseWriter, r *http.Request) {
	var request playerRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	player, err := that.games.GetOrCreatePlayer(r.Context(), request.PlayerID)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, player)
}

func (that *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var request playerRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	session, err := that.games.GetOrCreateSession(r.Context(), request.PlayerID)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, newSessionResponse(session))
}

func (that *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	session, err := that.games.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, newSessionResponse(session))
}

func (that *Server) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	var request playerRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	session, err := that.games.ConnectToSession(r.Context(), chi.URLParam(r, "id"), request.PlayerID)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, newSessionResponse(session))
}

func (that *Server) handleMakeMove(w http.ResponseWriter, r *http.Request) {
	var request moveRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	// the move must be rejected before it reaches the player's real
	// session: a turn POSTed to the wrong game's URL must not be applied
	session, err := that.games.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	if !session.HasPlayer(request.PlayerID) {
		that.writeJSON(w, http.StatusConflict, errorResponse{Error: "player is not in this game"})
		return
	}

	session, err = that.games.MakeTurn(r.Context(), request.PlayerID, request.Square)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, newSessionResponse(session))
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}

// writeError - maps domain failures onto HTTP statuses.
func (that *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, repository.ErrSessionNotFound),
		errors.Is(err, repository.ErrPlayerNotFound),
		errors.Is(err, apperror.ErrNoActiveSession):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrSquareOccupied),
		errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrSessionFinished),
		errors.Is(err, apperror.ErrSessionNotStarted),
		errors.Is(err, apperror.ErrSessionFull):
		status = http.StatusConflict
	case errors.Is(err, game.ErrUnknownSquare):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		that.logger.Error("internal error", "error", err)
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}
