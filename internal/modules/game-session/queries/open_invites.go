package queries

import (
	"context"

	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/game-session/domain"
	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/game-session/store"
)

type OpenInvitesQuery struct{}

type OpenInvitesQueryHandler struct {
	store store.Store
}

func NewOpenInvitesQueryHandler(s store.Store) *OpenInvitesQueryHandler {
	return &OpenInvitesQueryHandler{store: s}
}

func (h *OpenInvitesQueryHandler) Handle(
	ctx context.Context,
	_ OpenInvitesQuery,
) (domain.OpenInvites, error) {
	var open domain.OpenInvites

	err := h.store.View(ctx, func(ctx context.Context, kv store.KV) error {
		var err error
		open, err = store.NewTables(kv).OpenInvites(ctx)
		return err
	})

	return open, err
}
