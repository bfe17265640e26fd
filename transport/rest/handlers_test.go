package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitgrid/tictactoe-backend/internal/entity"
	"github.com/bitgrid/tictactoe-backend/internal/game"
	"github.com/bitgrid/tictactoe-backend/internal/repository"
)

type stubManager struct {
	getOrCreatePlayer  func(ctx context.Context, id string) (*entity.Player, error)
	getOrCreateSession func(ctx context.Context, playerID string) (*entity.Session, error)
	connectToSession   func(ctx context.Context, sessionID, playerID string) (*entity.Session, error)
	makeTurn           func(ctx context.Context, playerID, square string) (*entity.Session, error)
	getSession         func(ctx context.Context, sessionID string) (*entity.Session, error)
}

func (that *stubManager) GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error) {
	return that.getOrCreatePlayer(ctx, id)
}

func (that *stubManager) GetOrCreateSession(ctx context.Context, playerID string) (*entity.Session, error) {
	return that.getOrCreateSession(ctx, playerID)
}

func (that *stubManager) ConnectToSession(ctx context.Context, sessionID, playerID string) (*entity.Session, error) {
	return that.connectToSession(ctx, sessionID, playerID)
}

func (that *stubManager) MakeTurn(ctx context.Context, playerID, square string) (*entity.Session, error) {
	return that.makeTurn(ctx, playerID, square)
}

func (that *stubManager) GetSession(ctx context.Context, sessionID string) (*entity.Session, error) {
	return that.getSession(ctx, sessionID)
}

func newTestServer(games gameManager) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(logger, games).routes()
}

func TestServer_Ping(t *testing.T) {
	// When: GET /ping
	handler := newTestServer(&stubManager{})
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ping", nil))

	// Then: pong
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "pong", recorder.Body.String())
}

func TestServer_CreateGame(t *testing.T) {
	// Given: a manager that returns a waiting session with one move pre-set
	session := entity.NewSession("game-1")
	session.Status = entity.StatusOngoing
	require.NoError(t, session.MakeTurn(entity.PlayerX, "B2"))

	handler := newTestServer(&stubManager{
		getOrCreateSession: func(_ context.Context, playerID string) (*entity.Session, error) {
			require.Equal(t, "player-1", playerID)
			return session, nil
		},
	})

	// When: POST /games
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/games", strings.NewReader(`{"player_id":"player-1"}`))
	handler.ServeHTTP(recorder, request)

	// Then: the session renders with its board
	require.Equal(t, http.StatusOK, recorder.Code)

	var response sessionResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "game-1", response.ID)
	assert.Equal(t, entity.PlayerO, response.Turn)
	assert.Equal(t, "| | | |\n| |X| |\n| | | |\n", response.Board)
}

func TestServer_MakeMove(t *testing.T) {
	// sessionWith returns an ongoing session holding the given players.
	sessionWith := func(id string, playerIDs ...string) *entity.Session {
		session := entity.NewSession(id)
		session.Status = entity.StatusOngoing
		for _, playerID := range playerIDs {
			session.Players = append(session.Players, &entity.Player{ID: playerID})
		}
		return session
	}

	t.Run("Applies a move for a member of the game", func(t *testing.T) {
		// Given: player-1 is part of game-1
		session := sessionWith("game-1", "player-1", "player-2")

		handler := newTestServer(&stubManager{
			getSession: func(_ context.Context, sessionID string) (*entity.Session, error) {
				require.Equal(t, "game-1", sessionID)
				return session, nil
			},
			makeTurn: func(_ context.Context, playerID, square string) (*entity.Session, error) {
				require.NoError(t, session.MakeTurn(entity.PlayerX, square))
				return session, nil
			},
		})

		// When: POST /games/game-1/moves
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodPost, "/games/game-1/moves", strings.NewReader(`{"player_id":"player-1","square":"B2"}`))
		handler.ServeHTTP(recorder, request)

		// Then: the move is applied and rendered
		require.Equal(t, http.StatusOK, recorder.Code)

		var response sessionResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, "| | | |\n| |X| |\n| | | |\n", response.Board)
	})

	t.Run("Occupied square maps to conflict", func(t *testing.T) {
		// Given: a manager whose turn fails with the engine error
		handler := newTestServer(&stubManager{
			getSession: func(context.Context, string) (*entity.Session, error) {
				return sessionWith("game-1", "player-1"), nil
			},
			makeTurn: func(context.Context, string, string) (*entity.Session, error) {
				return nil, &game.OccupiedError{Square: game.B2}
			},
		})

		// When: POST /games/game-1/moves
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodPost, "/games/game-1/moves", strings.NewReader(`{"player_id":"player-1","square":"B2"}`))
		handler.ServeHTTP(recorder, request)

		// Then: 409 with the offending square in the message
		require.Equal(t, http.StatusConflict, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "B2")
	})

	t.Run("Unknown square maps to bad request", func(t *testing.T) {
		handler := newTestServer(&stubManager{
			getSession: func(context.Context, string) (*entity.Session, error) {
				return sessionWith("game-1", "player-1"), nil
			},
			makeTurn: func(_ context.Context, _, square string) (*entity.Session, error) {
				_, err := game.ParseSquare(square)
				return nil, err
			},
		})

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodPost, "/games/game-1/moves", strings.NewReader(`{"player_id":"player-1","square":"D4"}`))
		handler.ServeHTTP(recorder, request)

		require.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("Move in a foreign game is rejected before it is applied", func(t *testing.T) {
		// Given: game-1 belongs to two other players while player-1 has an
		// ongoing game of their own
		turnApplied := false

		handler := newTestServer(&stubManager{
			getSession: func(context.Context, string) (*entity.Session, error) {
				return sessionWith("game-1", "player-2", "player-3"), nil
			},
			makeTurn: func(context.Context, string, string) (*entity.Session, error) {
				turnApplied = true
				return sessionWith("other-game", "player-1"), nil
			},
		})

		// When: player-1 POSTs a move to game-1's URL
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodPost, "/games/game-1/moves", strings.NewReader(`{"player_id":"player-1","square":"B2"}`))
		handler.ServeHTTP(recorder, request)

		// Then: 409, and the turn never reached the player's real session
		require.Equal(t, http.StatusConflict, recorder.Code)
		assert.False(t, turnApplied)
	})

	t.Run("Missing game maps to not found", func(t *testing.T) {
		handler := newTestServer(&stubManager{
			getSession: func(context.Context, string) (*entity.Session, error) {
				return nil, repository.ErrSessionNotFound
			},
		})

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodPost, "/games/missing/moves", strings.NewReader(`{"player_id":"player-1","square":"B2"}`))
		handler.ServeHTTP(recorder, request)

		require.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestServer_GetGame(t *testing.T) {
	// Given: a manager without the requested session
	handler := newTestServer(&stubManager{
		getSession: func(context.Context, string) (*entity.Session, error) {
			return nil, repository.ErrSessionNotFound
		},
	})

	// When: GET /games/missing
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/games/missing", nil))

	// Then: 404
	require.Equal(t, http.StatusNotFound, recorder.Code)
}
