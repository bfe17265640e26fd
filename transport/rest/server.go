package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bitgrid/tictactoe-backend/internal/entity"
)

type gameManager interface {
	GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error)
	GetOrCreateSession(ctx context.Context, playerID string) (*entity.Session, error)
	ConnectToSession(ctx context.Context, sessionID, playerID string) (*entity.Session, error)
	MakeTurn(ctx context.Context, playerID, square string) (*entity.Session, error)
	GetSession(ctx context.Context, sessionID string) (*entity.Session, error)
}

type Server struct {
	logger *slog.Logger
	games  gameManager
}

func New(logger *slog.Logger, games gameManager) *Server {
	return &Server{
		logger: logger.With("component", "rest"),
		games:  games,
	}
}

func (that *Server) routes() http.Handler {
	router := chi.NewRouter()

	router.Get("/ping", that.handlePing)
	router.Post("/players", that.handleConnectPlayer)
	router.Post("/games", that.handleCreateGame)
	router.Get("/games/{id}", that.handleGetGame)
	router.Post("/games/{id}/join", that.handleJoinGame)
	router.Post("/games/{id}/moves", that.handleMakeMove)

	return router
}

// Start - starts the HTTP server and shuts it down when the context ends.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
