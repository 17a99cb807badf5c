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

type AcceptInviteCommand struct {
	Accepter  domain.PrincipalID `json:"-"`
	SessionID domain.SessionID   `json:"-"`
	Name      string             `json:"name"`
}

func (c AcceptInviteCommand) Validate() error {
	if c.Accepter == "" {
		return fmt.Errorf("invalid Accepter - '%s'", c.Accepter)
	}

	return domain.ValidateName(c.Name)
}

type AcceptInviteCommandHandler struct {
	store     store.Store
	publisher events.Publisher
}

func NewAcceptInviteCommandHandler(s store.Store, publisher events.Publisher) *AcceptInviteCommandHandler {
	return &AcceptInviteCommandHandler{store: s, publisher: publisher}
}

// Handle records the accepter, assigns roles and starts the session.
// The invite stays stored as the record of who plays which role.
func (h *AcceptInviteCommandHandler) Handle(
	ctx context.Context,
	request AcceptInviteCommand,
) (domain.GameSession, error) {
	var session domain.GameSession

	err := h.store.Update(ctx, func(ctx context.Context, kv store.KV) error {
		tables := store.NewTables(kv)

		invite, found, err := tables.Invite(ctx, request.SessionID)
		if err != nil {
			return err
		}
		if !found {
			if err := domain.ValidateName(request.Name); err != nil {
				return err
			}
			return domain.InviteNotFoundError{SessionID: request.SessionID}
		}

		accepted, created, err := invite.Accept(request.SessionID, request.Accepter, request.Name)
		if err != nil {
			return err
		}

		if err := tables.PutInvite(ctx, request.SessionID, accepted); err != nil {
			return err
		}

		if err := tables.PutSession(ctx, request.SessionID, created); err != nil {
			return err
		}

		open, err := tables.OpenInvites(ctx)
		if err != nil {
			return err
		}

		open.Remove(request.SessionID)
		if err := tables.PutOpenInvites(ctx, open); err != nil {
			return err
		}

		if err := tables.SetActiveSession(ctx, request.Accepter, request.SessionID); err != nil {
			return err
		}

		session = created
		return nil
	})
	if err != nil {
		return domain.GameSession{}, domain.ToCommandError(err)
	}

	core.Logger(ctx).Info(
		"invite accepted",
		zap.Stringer("session_id", request.SessionID),
		zap.String("first_mover", string(session.CurrentTurn.Principal)),
	)

	h.publisher.Publish(events.NewSessionUpdate(request.SessionID, session))

	return session, nil
}
