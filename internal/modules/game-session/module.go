package gamesession

import (
	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/game-session/commands"
	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/game-session/domain"
	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/game-session/events"
	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/game-session/queries"
	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/game-session/store"

	"github.com/go-chi/chi"
)

// RegisterHandlers registers every game-session command and query with the
// process wide mediator. Registering a second time fails.
func RegisterHandlers(s store.Store, publisher events.Publisher) error {
	// commands

	err := mediator.RegisterRequestHandler[commands.CreateInviteCommand, commands.CreateInviteResponse](
		commands.NewCreateInviteCommandHandler(s),
	)
	if err != nil {
		return err
	}

	err = mediator.RegisterRequestHandler[commands.AcceptInviteCommand, domain.GameSession](
		commands.NewAcceptInviteCommandHandler(s, publisher),
	)
	if err != nil {
		return err
	}

	err = mediator.RegisterRequestHandler[commands.SubmitMoveCommand, commands.MoveOutcome](
		commands.NewSubmitMoveCommandHandler(s, publisher),
	)
	if err != nil {
		return err
	}

	// queries

	err = mediator.RegisterRequestHandler[queries.GameStatusQuery, queries.GameStatusResponse](
		queries.NewGameStatusQueryHandler(s),
	)
	if err != nil {
		return err
	}

	err = mediator.RegisterRequestHandler[queries.BoardStatusQuery, queries.BoardStatusResponse](
		queries.NewBoardStatusQueryHandler(s),
	)
	if err != nil {
		return err
	}

	err = mediator.RegisterRequestHandler[queries.OpenInvitesQuery, domain.OpenInvites](
		queries.NewOpenInvitesQueryHandler(s),
	)
	if err != nil {
		return err
	}

	err = mediator.RegisterRequestHandler[queries.GetInviteQuery, domain.GameInvite](
		queries.NewGetInviteQueryHandler(s),
	)
	if err != nil {
		return err
	}

	return mediator.RegisterRequestHandler[queries.ActiveSessionQuery, queries.ActiveSessionResponse](
		queries.NewActiveSessionQueryHandler(s),
	)
}

// RegisterRoutes mounts the game-session endpoints on r. Callers are
// expected to have authenticated the principal already.
func RegisterRoutes(r chi.Router, h *GameSessionHTTPHandler) {
	r.Get("/game-invites", h.HandleGetOpenInvites)
	r.Post("/game-invites", h.HandleCreateInvite)
	r.Get("/game-invites/{id}", h.HandleGetInvite)
	r.Put("/game-invites/{id}/actions/accept", h.HandleAcceptInvite)

	r.Post("/game-sessions/actions/move", h.HandleSubmitMove)
	r.Get("/game-sessions/{id}/status", h.HandleGetGameStatus)
	r.Get("/game-sessions/{id}/board", h.HandleGetBoardStatus)
	r.Get("/game-sessions/{id}/events", h.HandleSessionEvents)

	r.Get("/players/me/session", h.HandleGetActiveSession)
}
