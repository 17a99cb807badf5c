package domain

import (
	"encoding/json"
	"fmt"
	"sort"
)

// PrincipalID is the opaque, already authenticated identity of a caller.
type PrincipalID string

// Role is the mark a player puts on the board. The zero value is NoRole,
// used both for unassigned players and for empty cells.
type Role uint8

const (
	NoRole Role = iota
	First
	Second
)

func (r Role) String() string {
	switch r {
	case First:
		return "X"
	case Second:
		return "O"
	default:
		return ""
	}
}

func (r Role) Assigned() bool {
	return r == First || r == Second
}

func (r Role) Opponent() Role {
	switch r {
	case First:
		return Second
	case Second:
		return First
	default:
		return NoRole
	}
}

func (r Role) MarshalJSON() ([]byte, error) {
	if !r.Assigned() {
		return []byte("null"), nil
	}
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = NoRole
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	switch s {
	case "X":
		*r = First
	case "O":
		*r = Second
	case "":
		*r = NoRole
	default:
		return fmt.Errorf("unknown role '%s'", s)
	}
	return nil
}

type PlayerDetails struct {
	Principal PrincipalID `json:"principal"`
	Name      string      `json:"name"`
	Role      Role        `json:"role"`
}

// GameInvite is kept after acceptance as the record of who plays which role.
type GameInvite struct {
	Inviter  PlayerDetails  `json:"inviter"`
	Accepter *PlayerDetails `json:"accepter"`
	Accepted bool           `json:"accepted"`
}

func NewInvite(inviter PrincipalID, name string) GameInvite {
	return GameInvite{
		Inviter: PlayerDetails{
			Principal: inviter,
			Name:      name,
		},
	}
}

// PlayerWithRole returns whichever of the two players holds role r.
func (i GameInvite) PlayerWithRole(r Role) (PlayerDetails, bool) {
	if !r.Assigned() {
		return PlayerDetails{}, false
	}
	if i.Inviter.Role == r {
		return i.Inviter, true
	}
	if i.Accepter != nil && i.Accepter.Role == r {
		return *i.Accepter, true
	}
	return PlayerDetails{}, false
}

// Accept records the accepter, assigns roles and builds the initial session.
// The receiver is not modified.
func (i GameInvite) Accept(id SessionID, accepter PrincipalID, name string) (GameInvite, GameSession, error) {
	if err := ValidateName(name); err != nil {
		return i, GameSession{}, err
	}

	if accepter == i.Inviter.Principal {
		return i, GameSession{}, SelfPlayForbiddenError{SessionID: id}
	}

	if i.Accepted {
		return i, GameSession{}, InviteAlreadyAcceptedError{SessionID: id}
	}

	first, inviterRole, accepterRole := AssignRoles(i.Inviter.Principal, accepter)

	accepted := i
	accepted.Inviter.Role = inviterRole
	accepted.Accepter = &PlayerDetails{
		Principal: accepter,
		Name:      name,
		Role:      accepterRole,
	}
	accepted.Accepted = true

	firstMover := accepted.Inviter
	if first == accepter {
		firstMover = *accepted.Accepter
	}

	return accepted, NewSession(accepted, firstMover), nil
}

type GameSession struct {
	Board       Board          `json:"board"`
	CurrentTurn PlayerDetails  `json:"currentTurn"`
	Players     GameInvite     `json:"players"`
	Winner      *PlayerDetails `json:"winner"`
	GameOver    bool           `json:"gameOver"`
}

func NewSession(players GameInvite, firstMover PlayerDetails) GameSession {
	return GameSession{
		CurrentTurn: firstMover,
		Players:     players,
	}
}

const (
	StatusPending    = "Pending"
	StatusPlaying    = "Playing"
	StatusGameOver   = "GameOver"
	WinnerNone       = "None"
	WinnerDraw       = "Draw"
	outcomeGameOver  = "Game Over"
	outcomeNoneDraw  = "None, Draw"
	outcomeInProcess = "Game in progress"
)

// Status reports the query-facing status and winner description.
func (s GameSession) Status() (status string, winner string) {
	if !s.GameOver {
		return StatusPlaying, WinnerNone
	}
	if s.Winner == nil {
		return StatusGameOver, WinnerDraw
	}
	return StatusGameOver, s.Winner.Name
}

// Outcome describes the session the way a finishing move reports it.
func (s GameSession) Outcome() (status string, winner string) {
	if !s.GameOver {
		return outcomeInProcess, WinnerNone
	}
	if s.Winner == nil {
		return outcomeGameOver, outcomeNoneDraw
	}
	return outcomeGameOver, s.Winner.Name
}

// Play validates and applies one move by caller. On any rejection the
// returned error is non-nil and the receiver is returned untouched.
func (s GameSession) Play(id SessionID, caller PrincipalID, x, y int) (GameSession, error) {
	if s.GameOver {
		status, winner := s.Outcome()
		return s, GameOverError{SessionID: id, Status: status, Winner: winner}
	}

	if caller != s.CurrentTurn.Principal {
		return s, NotYourTurnError{SessionID: id}
	}

	if !s.Players.Accepted {
		return s, InviteNotAcceptedError{SessionID: id}
	}

	if !s.Board.IsValidMove(x, y) {
		return s, InvalidMoveError{SessionID: id, X: x, Y: y}
	}

	next := s
	next.Board.Apply(x, y, s.CurrentTurn.Role)
	next.CurrentTurn = NextTurn(s.CurrentTurn, s.Players)

	switch outcome := Evaluate(next.Board, next.Players); outcome.Kind {
	case OutcomeWon:
		winner := *outcome.Winner
		next.Winner = &winner
		next.GameOver = true
	case OutcomeDraw:
		next.GameOver = true
	}

	return next, nil
}

// OpenInvites is the ascending list of ids whose invite is still waiting.
type OpenInvites struct {
	Invites []SessionID `json:"invites"`
}

func (o *OpenInvites) Add(id SessionID) {
	n := len(o.Invites)
	if n == 0 || o.Invites[n-1].Less(id) {
		o.Invites = append(o.Invites, id)
		return
	}

	idx := sort.Search(n, func(i int) bool { return !o.Invites[i].Less(id) })
	if idx < n && o.Invites[idx] == id {
		return
	}
	o.Invites = append(o.Invites, SessionID{})
	copy(o.Invites[idx+1:], o.Invites[idx:])
	o.Invites[idx] = id
}

// Remove drops id while keeping the order of the remaining ids.
func (o *OpenInvites) Remove(id SessionID) bool {
	idx := sort.Search(len(o.Invites), func(i int) bool { return !o.Invites[i].Less(id) })
	if idx >= len(o.Invites) || o.Invites[idx] != id {
		return false
	}
	o.Invites = append(o.Invites[:idx], o.Invites[idx+1:]...)
	return true
}

func (o OpenInvites) Contains(id SessionID) bool {
	idx := sort.Search(len(o.Invites), func(i int) bool { return !o.Invites[i].Less(id) })
	return idx < len(o.Invites) && o.Invites[idx] == id
}
