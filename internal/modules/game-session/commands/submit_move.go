package commands

import (
	"context"
	"fmt"

	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/core"
	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/game-session/domain"
	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/game-session/events"
	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/game-session/store"

	"go.uber.org/zap"
)

// SubmitMoveCommand plays a move in the caller's active session.
// Coordinates outside the board are rejected as an invalid move.
type SubmitMoveCommand struct {
	Player domain.PrincipalID `json:"-"`
	X      int                `json:"x"`
	Y      int                `json:"y"`
}

func (c SubmitMoveCommand) Validate() error {
	if c.Player == "" {
		return fmt.Errorf("invalid Player - '%s'", c.Player)
	}

	return nil
}

type MoveOutcome struct {
	SessionID domain.SessionID `json:"sessionId"`
	Status    string           `json:"status"`
	Winner    string           `json:"winner"`
	Board     [][]domain.Role  `json:"board"`
}

type SubmitMoveCommandHandler struct {
	store     store.Store
	publisher events.Publisher
}

func NewSubmitMoveCommandHandler(s store.Store, publisher events.Publisher) *SubmitMoveCommandHandler {
	return &SubmitMoveCommandHandler{store: s, publisher: publisher}
}

func (h *SubmitMoveCommandHandler) Handle(
	ctx context.Context,
	request SubmitMoveCommand,
) (MoveOutcome, error) {
	var (
		id      domain.SessionID
		session domain.GameSession
	)

	err := h.store.Update(ctx, func(ctx context.Context, kv store.KV) error {
		tables := store.NewTables(kv)

		var (
			found bool
			err   error
		)

		id, found, err = tables.ActiveSession(ctx, request.Player)
		if err != nil {
			return err
		}
		if !found {
			return domain.NoActiveSessionError{Principal: request.Player}
		}

		current, found, err := tables.Session(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return domain.SessionNotFoundError{SessionID: id}
		}

		next, err := current.Play(id, request.Player, request.X, request.Y)
		if err != nil {
			return err
		}

		if err := tables.PutSession(ctx, id, next); err != nil {
			return err
		}

		session = next
		return nil
	})
	if err != nil {
		return MoveOutcome{}, domain.ToCommandError(err)
	}

	status, winner := session.Outcome()

	logger := core.Logger(ctx).With(zap.Stringer("session_id", id))
	if session.GameOver {
		logger.Info("game over", zap.String("winner", winner))
	} else {
		logger.Debug("move applied", zap.Int("x", request.X), zap.Int("y", request.Y))
	}

	h.publisher.Publish(events.NewSessionUpdate(id, session))

	return MoveOutcome{
		SessionID: id,
		Status:    status,
		Winner:    winner,
		Board:     session.Board.Rows(),
	}, nil
}
