package queries

import (
	"context"
	"fmt"

	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/game-session/domain"
	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/game-session/store"
)

type GameStatusQuery struct {
	SessionID domain.SessionID
}

func (q GameStatusQuery) Validate() error {
	if q.SessionID.IsZero() {
		return fmt.Errorf("invalid SessionID - '%s'", q.SessionID)
	}

	return nil
}

type GameStatusResponse struct {
	SessionID domain.SessionID `json:"sessionId"`
	Status    string           `json:"status"`
	Winner    string           `json:"winner"`
}

type GameStatusQueryHandler struct {
	store store.Store
}

func NewGameStatusQueryHandler(s store.Store) *GameStatusQueryHandler {
	return &GameStatusQueryHandler{store: s}
}

// Handle reports Pending for an invite nobody accepted yet.
func (h *GameStatusQueryHandler) Handle(
	ctx context.Context,
	request GameStatusQuery,
) (GameStatusResponse, error) {
	response := GameStatusResponse{SessionID: request.SessionID}

	err := h.store.View(ctx, func(ctx context.Context, kv store.KV) error {
		tables := store.NewTables(kv)

		session, found, err := tables.Session(ctx, request.SessionID)
		if err != nil {
			return err
		}
		if found {
			response.Status, response.Winner = session.Status()
			return nil
		}

		_, found, err = tables.Invite(ctx, request.SessionID)
		if err != nil {
			return err
		}
		if !found {
			return domain.SessionNotFoundError{SessionID: request.SessionID}
		}

		response.Status, response.Winner = domain.StatusPending, domain.WinnerNone
		return nil
	})
	if err != nil {
		return GameStatusResponse{}, domain.ToCommandError(err)
	}

	return response, nil
}
