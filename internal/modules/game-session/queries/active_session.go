package queries

import (
	"context"
	"fmt"

	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/game-session/domain"
	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/game-session/store"
)

// ActiveSessionQuery resolves the session a principal created, accepted or
// is playing most recently. The session may be pending, in progress or over.
type ActiveSessionQuery struct {
	Principal domain.PrincipalID
}

func (q ActiveSessionQuery) Validate() error {
	if q.Principal == "" {
		return fmt.Errorf("invalid Principal - '%s'", q.Principal)
	}

	return nil
}

type ActiveSessionResponse struct {
	SessionID domain.SessionID `json:"sessionId"`
}

type ActiveSessionQueryHandler struct {
	store store.Store
}

func NewActiveSessionQueryHandler(s store.Store) *ActiveSessionQueryHandler {
	return &ActiveSessionQueryHandler{store: s}
}

func (h *ActiveSessionQueryHandler) Handle(
	ctx context.Context,
	request ActiveSessionQuery,
) (ActiveSessionResponse, error) {
	var response ActiveSessionResponse

	err := h.store.View(ctx, func(ctx context.Context, kv store.KV) error {
		id, found, err := store.NewTables(kv).ActiveSession(ctx, request.Principal)
		if err != nil {
			return err
		}
		if !found {
			return domain.NoActiveSessionError{Principal: request.Principal}
		}

		response.SessionID = id
		return nil
	})
	if err != nil {
		return ActiveSessionResponse{}, domain.ToCommandError(err)
	}

	return response, nil
}
