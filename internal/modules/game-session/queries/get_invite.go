package queries

import (
	"context"
	"fmt"

	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/game-session/domain"
	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/game-session/store"
)

type GetInviteQuery struct {
	SessionID domain.SessionID
}

func (q GetInviteQuery) Validate() error {
	if q.SessionID.IsZero() {
		return fmt.Errorf("invalid SessionID - '%s'", q.SessionID)
	}

	return nil
}

type GetInviteQueryHandler struct {
	store store.Store
}

func NewGetInviteQueryHandler(s store.Store) *GetInviteQueryHandler {
	return &GetInviteQueryHandler{store: s}
}

func (h *GetInviteQueryHandler) Handle(
	ctx context.Context,
	request GetInviteQuery,
) (domain.GameInvite, error) {
	var invite domain.GameInvite

	err := h.store.View(ctx, func(ctx context.Context, kv store.KV) error {
		var (
			found bool
			err   error
		)

		invite, found, err = store.NewTables(kv).Invite(ctx, request.SessionID)
		if err != nil {
			return err
		}
		if !found {
			return domain.InviteNotFoundError{SessionID: request.SessionID}
		}

		return nil
	})
	if err != nil {
		return domain.GameInvite{}, domain.ToCommandError(err)
	}

	return invite, nil
}
