package apperror

import "errors"

var (
	ErrSessionFinished   = errors.New("session is already finished")
	ErrSessionNotStarted = errors.New("session is not started")
	ErrSessionFull       = errors.New("session already has two players")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrNoActiveSession   = errors.New("no active session")
)
