package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	gorilla "github.com/gorilla/websocket"

	"github.com/bitgrid/tictactoe-backend/internal/entity"
)

type gameManager interface {
	GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error)
	GetOrCreateSession(ctx context.Context, playerID string) (*entity.Session, error)
	ConnectToSession(ctx context.Context, sessionID, playerID string) (*entity.Session, error)
	MakeTurn(ctx context.Context, playerID, square string) (*entity.Session, error)
	CurrentSession(ctx context.Context, playerID string) (*entity.Session, error)
}

type handlerFunc func(ctx context.Context, message *Message) (*ResponsePayload, error)

type Server struct {
	logger   *slog.Logger
	games    gameManager
	upgrader gorilla.Upgrader
	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, games gameManager) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		games:  games,
		upgrader: gorilla.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		handlers: make(map[string]handlerFunc),
	}

	server.handlers["connect"] = server.handleConnect
	server.handlers["game:new"] = server.handleNewGame
	server.handlers["game:join"] = server.handleJoinGame
	server.handlers["game:turn"] = server.handleTurn
	server.handlers["game:state"] = server.handleState

	return server
}

// Start - starts the WebSocket server and closes it when the context ends.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveConnection(ctx, w, r)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		if err := srv.Close(); err != nil {
			that.logger.Error("failed to close server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveConnection - upgrades the connection and processes messages until the
// client goes away.
func (that *Server) serveConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveConnection")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	log.Info("WebSocket connection established", "remote", conn.RemoteAddr())

	for {
		var message Message
		if err = conn.ReadJSON(&message); err != nil {
			if gorilla.IsUnexpectedCloseError(err, gorilla.CloseNormalClosure, gorilla.CloseGoingAway) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		response, err := that.dispatch(ctx, &message)
		if err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
			return
		}

		if err = that.sendMessage(conn, message.Action, response); err != nil {
			log.Error("failed to send response", "error", err)
			return
		}
	}
}

// dispatch - runs the handler for the message action. Recoverable game
// failures come back as an error payload so the client can retry; anything
// else is returned as an error and drops the connection.
func (that *Server) dispatch(ctx context.Context, message *Message) (*ResponsePayload, error) {
	handler, ok := that.handlers[message.Action]
	if !ok {
		return &ResponsePayload{Error: fmt.Sprintf("unknown action: %q", message.Action)}, nil
	}

	response, err := handler(ctx, message)
	if err != nil {
		if isRecoverable(err) {
			return &ResponsePayload{Error: err.Error()}, nil
		}
		return nil, err
	}

	return response, nil
}

func (that *Server) sendMessage(conn *gorilla.Conn, action string, payload *ResponsePayload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	response := Message{
		Action:  action,
		Payload: payloadJSON,
	}

	if err = conn.WriteJSON(response); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
