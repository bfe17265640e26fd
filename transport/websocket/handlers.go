package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bitgrid/tictactoe-backend/internal/apperror"
	"github.com/bitgrid/tictactoe-backend/internal/game"
	"github.com/bitgrid/tictactoe-backend/internal/repository"
)

var errMissingPlayer = errors.New("payload is missing the player")

// isRecoverable reports whether the failure should be sent to the client
// instead of dropping the connection.
func isRecoverable(err error) bool {
	return errors.Is(err, game.ErrSquareOccupied) ||
		errors.Is(err, game.ErrUnknownSquare) ||
		errors.Is(err, apperror.ErrNotYourTurn) ||
		errors.Is(err, apperror.ErrSessionFinished) ||
		errors.Is(err, apperror.ErrSessionNotStarted) ||
		errors.Is(err, apperror.ErrSessionFull) ||
		errors.Is(err, apperror.ErrNoActiveSession) ||
		errors.Is(err, repository.ErrSessionNotFound) ||
		errors.Is(err, repository.ErrPlayerNotFound)
}

func decodePayload(message *Message) (*RequestPayload, error) {
	var payload RequestPayload
	if len(message.Payload) > 0 {
		if err := json.Unmarshal(message.Payload, &payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	return &payload, nil
}

func (that *Server) handleConnect(ctx context.Context, message *Message) (*ResponsePayload, error) {
	payload, err := decodePayload(message)
	if err != nil {
		return nil, err
	}

	var playerID string
	if payload.Player != nil {
		playerID = payload.Player.ID
	}

	player, err := that.games.GetOrCreatePlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create player: %w", err)
	}

	if player.ID == playerID {
		that.logger.Info("Player connected", "playerID", player.ID)
	} else {
		that.logger.Info("Registered new player", "playerID", player.ID)
	}

	return &ResponsePayload{Player: player}, nil
}

func (that *Server) handleNewGame(ctx context.Context, message *Message) (*ResponsePayload, error) {
	payload, err := decodePayload(message)
	if err != nil {
		return nil, err
	}

	if payload.Player == nil {
		return nil, errMissingPlayer
	}

	session, err := that.games.GetOrCreateSession(ctx, payload.Player.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create session: %w", err)
	}

	that.logger.Info("Session ready", "sessionID", session.ID, "playerID", payload.Player.ID)

	return &ResponsePayload{
		Player:  payload.Player,
		Session: newSessionResponse(session),
	}, nil
}

func (that *Server) handleJoinGame(ctx context.Context, message *Message) (*ResponsePayload, error) {
	payload, err := decodePayload(message)
	if err != nil {
		return nil, err
	}

	if payload.Player == nil {
		return nil, errMissingPlayer
	}

	session, err := that.games.ConnectToSession(ctx, payload.SessionID, payload.Player.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session: %w", err)
	}

	that.logger.Info("Player joined session", "sessionID", session.ID, "playerID", payload.Player.ID)

	return &ResponsePayload{
		Player:  payload.Player,
		Session: newSessionResponse(session),
	}, nil
}

func (that *Server) handleTurn(ctx context.Context, message *Message) (*ResponsePayload, error) {
	payload, err := decodePayload(message)
	if err != nil {
		return nil, err
	}

	if payload.Player == nil {
		return nil, errMissingPlayer
	}

	session, err := that.games.MakeTurn(ctx, payload.Player.ID, payload.Square)
	if err != nil {
		return nil, fmt.Errorf("failed to make turn: %w", err)
	}

	return &ResponsePayload{
		Player:  payload.Player,
		Session: newSessionResponse(session),
	}, nil
}

func (that *Server) handleState(ctx context.Context, message *Message) (*ResponsePayload, error) {
	payload, err := decodePayload(message)
	if err != nil {
		return nil, err
	}

	if payload.Player == nil {
		return nil, errMissingPlayer
	}

	session, err := that.games.CurrentSession(ctx, payload.Player.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get current session: %w", err)
	}

	return &ResponsePayload{
		Player:  payload.Player,
		Session: newSessionResponse(session),
	}, nil
}
