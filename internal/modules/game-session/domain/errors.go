package domain

import (
	"errors"
	"fmt"

	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/core"
)

type NameTooShortError struct {
	Length int `json:"length"`
	Min    int `json:"min"`
}

func (e NameTooShortError) Error() string {
	return fmt.Sprintf("name too short (length %d, min %d)", e.Length, e.Min)
}

type NameTooLongError struct {
	Length int `json:"length"`
	Max    int `json:"max"`
}

func (e NameTooLongError) Error() string {
	return fmt.Sprintf("name too long (length %d, max %d)", e.Length, e.Max)
}

type InvalidCharacterError struct {
	Char rune `json:"char"`
}

func (e InvalidCharacterError) Error() string {
	return fmt.Sprintf("invalid character %q", e.Char)
}

type SelfPlayForbiddenError struct {
	SessionID SessionID `json:"sessionId"`
}

func (e SelfPlayForbiddenError) Error() string {
	return fmt.Sprintf("session %s: cannot accept your own invite", e.SessionID)
}

type InviteNotFoundError struct {
	SessionID SessionID `json:"sessionId"`
}

func (e InviteNotFoundError) Error() string {
	return fmt.Sprintf("invite %s not found", e.SessionID)
}

type InviteAlreadyAcceptedError struct {
	SessionID SessionID `json:"sessionId"`
}

func (e InviteAlreadyAcceptedError) Error() string {
	return fmt.Sprintf("invite %s was already accepted", e.SessionID)
}

type NoActiveSessionError struct {
	Principal PrincipalID `json:"principal"`
}

func (e NoActiveSessionError) Error() string {
	return fmt.Sprintf("no active session for '%s'", e.Principal)
}

type SessionNotFoundError struct {
	SessionID SessionID `json:"sessionId"`
}

func (e SessionNotFoundError) Error() string {
	return fmt.Sprintf("session %s not found", e.SessionID)
}

type NotYourTurnError struct {
	SessionID SessionID `json:"sessionId"`
}

func (e NotYourTurnError) Error() string {
	return fmt.Sprintf("session %s: not your turn", e.SessionID)
}

type InviteNotAcceptedError struct {
	SessionID SessionID `json:"sessionId"`
}

func (e InviteNotAcceptedError) Error() string {
	return fmt.Sprintf("session %s: invite not accepted yet", e.SessionID)
}

type InvalidMoveError struct {
	SessionID SessionID `json:"sessionId"`
	X         int       `json:"x"`
	Y         int       `json:"y"`
}

func (e InvalidMoveError) Error() string {
	return fmt.Sprintf("session %s: invalid move (%d, %d)", e.SessionID, e.X, e.Y)
}

type GameOverError struct {
	SessionID SessionID `json:"sessionId"`
	Status    string    `json:"status"`
	Winner    string    `json:"winner"`
}

func (e GameOverError) Error() string {
	return fmt.Sprintf("session %s: %s, winner: %s", e.SessionID, e.Status, e.Winner)
}

// ToCommandError maps the rejections above to the status codes they are
// reported with. Anything else is returned unchanged.
func ToCommandError(err error) error {
	var (
		nameTooShort     NameTooShortError
		nameTooLong      NameTooLongError
		invalidCharacter InvalidCharacterError
		selfPlay         SelfPlayForbiddenError
		inviteNotFound   InviteNotFoundError
		alreadyAccepted  InviteAlreadyAcceptedError
		noActiveSession  NoActiveSessionError
		sessionNotFound  SessionNotFoundError
		notYourTurn      NotYourTurnError
		notAccepted      InviteNotAcceptedError
		invalidMove      InvalidMoveError
		gameOver         GameOverError
		commandErr       core.CommandError
	)

	switch {
	case err == nil:
		return nil
	case errors.As(err, &commandErr):
		return err
	case errors.As(err, &nameTooShort),
		errors.As(err, &nameTooLong),
		errors.As(err, &invalidCharacter):
		return core.BadRequest(err)
	case errors.As(err, &inviteNotFound),
		errors.As(err, &noActiveSession),
		errors.As(err, &sessionNotFound):
		return core.NotFound(err)
	case errors.As(err, &selfPlay),
		errors.As(err, &alreadyAccepted),
		errors.As(err, &notYourTurn),
		errors.As(err, &notAccepted),
		errors.As(err, &invalidMove),
		errors.As(err, &gameOver):
		return core.Conflict(err)
	default:
		return err
	}
}
