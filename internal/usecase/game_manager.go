package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bitgrid/tictactoe-backend/internal/apperror"
	"github.com/bitgrid/tictactoe-backend/internal/entity"
)

const sessionPlayers = 2

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

// GameManager runs the session lifecycle: players get a session, a second
// player joins, turns go through entity.Session into the rules engine, and a
// finished session is deleted so its players can start over.
type GameManager struct {
	logger      *slog.Logger
	playerRepo  playerRepo
	sessionRepo sessionRepo
}

func NewGameManager(logger *slog.Logger, playerRepo playerRepo, sessionRepo sessionRepo) *GameManager {
	return &GameManager{
		logger: logger,

		playerRepo:  playerRepo,
		sessionRepo: sessionRepo,
	}
}

// GetOrCreateSession returns the player's current session, creating a fresh
// waiting one (the player takes X) when they have none.
func (that *GameManager) GetOrCreateSession(ctx context.Context, playerID string) (*entity.Session, error) {
	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed get player by id: %w", err)
	}

	if player.SessionID == "" {
		session, err := that.createSession(ctx, player)
		if err != nil {
			return nil, fmt.Errorf("failed create session: %w", err)
		}

		return session, nil
	}

	session, err := that.getSessionByID(ctx, player.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed get session: %w", err)
	}

	return session, nil
}

// ConnectToSession joins the player into an existing session as O and starts
// the game.
func (that *GameManager) ConnectToSession(ctx context.Context, sessionID, playerID string) (*entity.Session, error) {
	existingSession, err := that.getSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed get session by id: %w", err)
	}

	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed get player by id: %w", err)
	}

	if player.SessionID == existingSession.ID {
		return existingSession, nil
	}

	if len(existingSession.Players) == sessionPlayers {
		return nil, fmt.Errorf("%w: session id %s", apperror.ErrSessionFull, sessionID)
	}

	player.SessionID = existingSession.ID
	player.Mark = entity.PlayerO
	if err = that.updatePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("failed update player by id: %w", err)
	}

	existingSession.Status = entity.StatusOngoing
	existingSession.Players = append(existingSession.Players, player)
	if err = that.updateSession(ctx, existingSession); err != nil {
		return nil, fmt.Errorf("failed update session by id: %w", err)
	}

	return existingSession, nil
}

// MakeTurn plays one move for the player. A turn that finishes the session
// deletes it and frees both players; the returned session still carries the
// final position, winner and line.
func (that *GameManager) MakeTurn(ctx context.Context, playerID, square string) (*entity.Session, error) {
	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed get player by id: %w", err)
	}

	if player.SessionID == "" {
		return nil, apperror.ErrNoActiveSession
	}

	session, err := that.getSessionByID(ctx, player.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed get session by id: %w", err)
	}

	if err = session.MakeTurn(player.Mark, square); err != nil {
		return nil, fmt.Errorf("failed make turn: %w", err)
	}

	if session.IsFinished() {
		that.deleteSession(ctx, session)

		return session, nil
	}

	if err = that.updateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed update session: %w", err)
	}

	return session, nil
}

// CurrentSession returns the session the player is in.
func (that *GameManager) CurrentSession(ctx context.Context, playerID string) (*entity.Session, error) {
	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed get player by id: %w", err)
	}

	if player.SessionID == "" {
		return nil, apperror.ErrNoActiveSession
	}

	session, err := that.getSessionByID(ctx, player.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed get session: %w", err)
	}

	return session, nil
}

// GetSession returns a session by its own ID.
func (that *GameManager) GetSession(ctx context.Context, sessionID string) (*entity.Session, error) {
	return that.getSessionByID(ctx, sessionID)
}

func (that *GameManager) GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error) {
	if id == "" {
		player, err := that.createPlayer(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create new player: %w", err)
		}

		return player, nil
	}

	player, err := that.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	return player, nil
}

func (that *GameManager) createSession(ctx context.Context, player *entity.Player) (*entity.Session, error) {
	sessionID := uuid.NewString()
	player.SessionID = sessionID
	player.Mark = entity.PlayerX

	if err := that.updatePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("failed update player: %w", err)
	}

	newSession := entity.NewSession(sessionID)
	newSession.Players = []*entity.Player{
		player,
	}

	if err := that.sessionRepo.CreateOrUpdate(ctx, newSession); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return newSession, nil
}

func (that *GameManager) getSessionByID(ctx context.Context, id string) (*entity.Session, error) {
	existingSession, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return existingSession, nil
}

func (that *GameManager) updateSession(ctx context.Context, session *entity.Session) error {
	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	return nil
}

func (that *GameManager) deleteSession(ctx context.Context, session *entity.Session) {
	log := that.logger.With("method", "deleteSession")

	if err := that.sessionRepo.DeleteByID(ctx, session.ID); err != nil {
		log.Error("failed to delete session", "error", err)
	}

	for _, player := range session.Players {
		player.Mark = ""
		player.SessionID = ""

		if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
			log.Error("failed to update player", "error", err)
		}
	}

	log.Info("session deleted", "sessionID", session.ID)
}

func (that *GameManager) createPlayer(ctx context.Context) (*entity.Player, error) {
	player := &entity.Player{
		ID: uuid.NewString(),
	}

	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	return player, nil
}

func (that *GameManager) getPlayerByID(ctx context.Context, id string) (*entity.Player, error) {
	player, err := that.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return player, nil
}

func (that *GameManager) updatePlayer(ctx context.Context, player *entity.Player) error {
	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}

	return nil
}
