package gamesession

import (
	"fmt"
	"net/http"
	"path"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/core"
	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/game-session/commands"
	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/game-session/domain"
	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/game-session/events"
	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/game-session/queries"

	"github.com/go-chi/chi"
	"go.uber.org/zap"
)

type GameSessionHTTPHandler struct {
	hub *events.Hub
}

func NewGameSessionHTTPHandler(hub *events.Hub) *GameSessionHTTPHandler {
	return &GameSessionHTTPHandler{hub: hub}
}

func (h *GameSessionHTTPHandler) HandleCreateInvite(w http.ResponseWriter, r *http.Request) {
	command, err := core.RequestBody[commands.CreateInviteCommand](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	command.Inviter = principal(r)

	response, err := mediator.Send[commands.CreateInviteCommand, commands.CreateInviteResponse](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	location := path.Join("/game-invites", response.SessionID.String())
	core.WriteCreated(w, r, location, response)
}

func (h *GameSessionHTTPHandler) HandleAcceptInvite(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	command, err := core.RequestBody[commands.AcceptInviteCommand](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	command.SessionID = id
	command.Accepter = principal(r) // you accept someone else's invite as the calling principal

	session, err := mediator.Send[commands.AcceptInviteCommand, domain.GameSession](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, session)
}

func (h *GameSessionHTTPHandler) HandleSubmitMove(w http.ResponseWriter, r *http.Request) {
	command, err := core.RequestBody[commands.SubmitMoveCommand](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	command.Player = principal(r)

	outcome, err := mediator.Send[commands.SubmitMoveCommand, commands.MoveOutcome](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, outcome)
}

func (h *GameSessionHTTPHandler) HandleGetGameStatus(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	response, err := mediator.Send[queries.GameStatusQuery, queries.GameStatusResponse](
		r.Context(),
		queries.GameStatusQuery{SessionID: id},
	)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

func (h *GameSessionHTTPHandler) HandleGetBoardStatus(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	response, err := mediator.Send[queries.BoardStatusQuery, queries.BoardStatusResponse](
		r.Context(),
		queries.BoardStatusQuery{SessionID: id},
	)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

func (h *GameSessionHTTPHandler) HandleGetOpenInvites(w http.ResponseWriter, r *http.Request) {
	response, err := mediator.Send[queries.OpenInvitesQuery, domain.OpenInvites](
		r.Context(),
		queries.OpenInvitesQuery{},
	)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

func (h *GameSessionHTTPHandler) HandleGetInvite(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	response, err := mediator.Send[queries.GetInviteQuery, domain.GameInvite](
		r.Context(),
		queries.GetInviteQuery{SessionID: id},
	)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

func (h *GameSessionHTTPHandler) HandleGetActiveSession(w http.ResponseWriter, r *http.Request) {
	response, err := mediator.Send[queries.ActiveSessionQuery, queries.ActiveSessionResponse](
		r.Context(),
		queries.ActiveSessionQuery{Principal: principal(r)},
	)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

// HandleSessionEvents streams the session over a websocket, starting with
// its current state. The subscription is taken before the snapshot so no
// update in between is lost.
func (h *GameSessionHTTPHandler) HandleSessionEvents(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	updates, unsubscribe := h.hub.Subscribe(id)
	defer unsubscribe()

	initial, err := h.snapshot(r, id)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	if err := events.Serve(w, r, initial, updates); err != nil {
		core.Logger(r.Context()).Warn(
			"session event stream ended",
			zap.Stringer("session_id", id),
			zap.Error(err),
		)
	}
}

func (h *GameSessionHTTPHandler) snapshot(r *http.Request, id domain.SessionID) (events.SessionUpdate, error) {
	status, err := mediator.Send[queries.GameStatusQuery, queries.GameStatusResponse](
		r.Context(),
		queries.GameStatusQuery{SessionID: id},
	)
	if err != nil {
		return events.SessionUpdate{}, err
	}

	update := events.SessionUpdate{
		SessionID: id,
		Status:    status.Status,
		Winner:    status.Winner,
		Board:     domain.Board{}.Rows(),
	}

	if status.Status == domain.StatusPending {
		return update, nil
	}

	board, err := mediator.Send[queries.BoardStatusQuery, queries.BoardStatusResponse](
		r.Context(),
		queries.BoardStatusQuery{SessionID: id},
	)
	if err != nil {
		return events.SessionUpdate{}, err
	}

	update.Board = board.Board
	return update, nil
}

func principal(r *http.Request) domain.PrincipalID {
	return domain.PrincipalID(core.Principal(r.Context()))
}

func sessionIDParam(r *http.Request) (domain.SessionID, error) {
	id, err := domain.ParseSessionID(chi.URLParam(r, "id"))
	if err != nil {
		return domain.SessionID{}, fmt.Errorf("invalid path param 'id': %w", err)
	}
	return id, nil
}
