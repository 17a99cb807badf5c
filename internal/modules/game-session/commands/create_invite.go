package commands

import (
	"context"
	"fmt"

	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/core"
	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/game-session/domain"
	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/game-session/store"

	"go.uber.org/zap"
)

type CreateInviteCommand struct {
	Inviter domain.PrincipalID `json:"-"`
	Name    string             `json:"name"`
}

func (c CreateInviteCommand) Validate() error {
	if c.Inviter == "" {
		return fmt.Errorf("invalid Inviter - '%s'", c.Inviter)
	}

	return domain.ValidateName(c.Name)
}

type CreateInviteResponse struct {
	SessionID domain.SessionID `json:"sessionId"`
}

type CreateInviteCommandHandler struct {
	store store.Store
}

func NewCreateInviteCommandHandler(s store.Store) *CreateInviteCommandHandler {
	return &CreateInviteCommandHandler{store: s}
}

func (h *CreateInviteCommandHandler) Handle(
	ctx context.Context,
	request CreateInviteCommand,
) (CreateInviteResponse, error) {
	if err := domain.ValidateName(request.Name); err != nil {
		return CreateInviteResponse{}, domain.ToCommandError(err)
	}

	var id domain.SessionID
	err := h.store.Update(ctx, func(ctx context.Context, kv store.KV) error {
		tables := store.NewTables(kv)

		var err error
		if id, err = tables.NextSessionID(ctx); err != nil {
			return err
		}

		if err := tables.PutInvite(ctx, id, domain.NewInvite(request.Inviter, request.Name)); err != nil {
			return err
		}

		open, err := tables.OpenInvites(ctx)
		if err != nil {
			return err
		}

		open.Add(id)
		if err := tables.PutOpenInvites(ctx, open); err != nil {
			return err
		}

		return tables.SetActiveSession(ctx, request.Inviter, id)
	})
	if err != nil {
		return CreateInviteResponse{}, err
	}

	core.Logger(ctx).Info("invite created", zap.Stringer("session_id", id))

	return CreateInviteResponse{SessionID: id}, nil
}
