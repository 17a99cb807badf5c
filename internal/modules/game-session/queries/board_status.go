package queries

import (
	"context"
	"fmt"

	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/game-session/domain"
	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/game-session/store"
)

type BoardStatusQuery struct {
	SessionID domain.SessionID
}

func (q BoardStatusQuery) Validate() error {
	if q.SessionID.IsZero() {
		return fmt.Errorf("invalid SessionID - '%s'", q.SessionID)
	}

	return nil
}

// BoardStatusResponse lists the board row by row, x first.
type BoardStatusResponse struct {
	Board [][]domain.Role `json:"board"`
}

type BoardStatusQueryHandler struct {
	store store.Store
}

func NewBoardStatusQueryHandler(s store.Store) *BoardStatusQueryHandler {
	return &BoardStatusQueryHandler{store: s}
}

func (h *BoardStatusQueryHandler) Handle(
	ctx context.Context,
	request BoardStatusQuery,
) (BoardStatusResponse, error) {
	var response BoardStatusResponse

	err := h.store.View(ctx, func(ctx context.Context, kv store.KV) error {
		tables := store.NewTables(kv)

		session, found, err := tables.Session(ctx, request.SessionID)
		if err != nil {
			return err
		}
		if found {
			response.Board = session.Board.Rows()
			return nil
		}

		// A pending invite has no board yet.
		_, found, err = tables.Invite(ctx, request.SessionID)
		if err != nil {
			return err
		}
		if found {
			return domain.InviteNotAcceptedError{SessionID: request.SessionID}
		}

		return domain.SessionNotFoundError{SessionID: request.SessionID}
	})
	if err != nil {
		return BoardStatusResponse{}, domain.ToCommandError(err)
	}

	return response, nil
}
