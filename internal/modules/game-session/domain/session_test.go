package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type move struct{ x, y int }

// acceptedSession returns a fresh session and the principals playing X and O.
func acceptedSession(t *testing.T) (GameSession, PrincipalID, PrincipalID) {
	t.Helper()

	invite := NewInvite("alice", "Alice")
	_, session, err := invite.Accept(NewSessionID(1), "bob", "Bobby")
	require.NoError(t, err)

	x := session.CurrentTurn.Principal
	o := PrincipalID("alice")
	if x == "alice" {
		o = "bob"
	}
	return session, x, o
}

func play(t *testing.T, s GameSession, x, o PrincipalID, moves []move) GameSession {
	t.Helper()

	for i, m := range moves {
		caller := x
		if i%2 == 1 {
			caller = o
		}

		var err error
		s, err = s.Play(NewSessionID(1), caller, m.x, m.y)
		require.NoError(t, err)
	}
	return s
}

func Test_Accept_Assigns_Roles_And_First_Turn(t *testing.T) {
	// Arrange
	invite := NewInvite("alice", "Alice")

	// Act
	accepted, session, err := invite.Accept(NewSessionID(7), "bob", "Bobby")

	// Assert
	require.NoError(t, err)
	require.True(t, accepted.Accepted)
	require.NotNil(t, accepted.Accepter)
	require.Equal(t, PrincipalID("bob"), accepted.Accepter.Principal)
	require.NotEqual(t, accepted.Inviter.Role, accepted.Accepter.Role)

	require.Equal(t, First, session.CurrentTurn.Role)
	first, _, _ := AssignRoles("alice", "bob")
	require.Equal(t, first, session.CurrentTurn.Principal)
	require.Equal(t, Board{}, session.Board)
	require.False(t, session.GameOver)

	require.False(t, invite.Accepted)
	require.Nil(t, invite.Accepter)
}

func Test_Accept_Own_Invite_Is_Forbidden(t *testing.T) {
	// Arrange
	invite := NewInvite("alice", "Alice")

	// Act
	_, _, err := invite.Accept(NewSessionID(3), "alice", "Alice again")

	// Assert
	var selfPlay SelfPlayForbiddenError
	require.True(t, errors.As(err, &selfPlay))
	require.Equal(t, NewSessionID(3), selfPlay.SessionID)
}

func Test_Accept_Own_Invite_With_Invalid_Name_Reports_Name_First(t *testing.T) {
	// Arrange
	invite := NewInvite("alice", "Alice")

	// Act
	_, _, err := invite.Accept(NewSessionID(3), "alice", "A")

	// Assert
	require.ErrorAs(t, err, &NameTooShortError{})
}

func Test_Accept_Twice_Is_Rejected(t *testing.T) {
	// Arrange
	invite := NewInvite("alice", "Alice")
	accepted, _, err := invite.Accept(NewSessionID(4), "bob", "Bobby")
	require.NoError(t, err)

	// Act
	_, _, err = accepted.Accept(NewSessionID(4), "carol", "Carol")

	// Assert
	require.ErrorAs(t, err, &InviteAlreadyAcceptedError{})
}

func Test_Play_Row_Win(t *testing.T) {
	// Arrange
	session, x, o := acceptedSession(t)

	// Act
	session = play(t, session, x, o, []move{{0, 0}, {1, 2}, {0, 1}, {1, 0}, {0, 2}})

	// Assert
	require.Equal(t, [GridSize]Role{First, First, First}, session.Board[0])
	require.True(t, session.GameOver)
	require.NotNil(t, session.Winner)
	require.Equal(t, x, session.Winner.Principal)

	status, winner := session.Status()
	require.Equal(t, StatusGameOver, status)
	require.Equal(t, session.Winner.Name, winner)
}

func Test_Play_Draw(t *testing.T) {
	// Arrange
	session, x, o := acceptedSession(t)

	// Act
	session = play(t, session, x, o, []move{
		{2, 2}, {1, 2}, {0, 1}, {2, 0}, {0, 2}, {2, 1}, {1, 0}, {0, 0}, {1, 1},
	})

	// Assert
	require.True(t, session.Board.IsFull())
	require.True(t, session.GameOver)
	require.Nil(t, session.Winner)

	status, winner := session.Status()
	require.Equal(t, StatusGameOver, status)
	require.Equal(t, WinnerDraw, winner)

	outcomeStatus, outcomeWinner := session.Outcome()
	require.Equal(t, "Game Over", outcomeStatus)
	require.Equal(t, "None, Draw", outcomeWinner)
}

func Test_Play_After_Game_Over_Is_Rejected_Without_Change(t *testing.T) {
	// Arrange
	session, x, o := acceptedSession(t)
	session = play(t, session, x, o, []move{{0, 0}, {1, 2}, {0, 1}, {1, 0}, {0, 2}})

	// Act
	next, err := session.Play(NewSessionID(1), o, 2, 2)

	// Assert
	var over GameOverError
	require.True(t, errors.As(err, &over))
	require.Equal(t, session.Winner.Name, over.Winner)
	require.Equal(t, session.Board, next.Board)
	require.Equal(t, NoRole, next.Board[2][2])
}

func Test_Play_Same_Player_Twice_Is_Not_Their_Turn(t *testing.T) {
	// Arrange
	session, x, _ := acceptedSession(t)
	session, err := session.Play(NewSessionID(1), x, 0, 0)
	require.NoError(t, err)

	// Act
	next, err := session.Play(NewSessionID(1), x, 1, 1)

	// Assert
	require.ErrorAs(t, err, &NotYourTurnError{})
	require.Equal(t, session, next)
}

func Test_Play_Invalid_Move_Keeps_Turn(t *testing.T) {
	// Arrange
	session, x, o := acceptedSession(t)
	session, err := session.Play(NewSessionID(1), x, 0, 0)
	require.NoError(t, err)

	cases := []move{{0, 0}, {3, 0}, {0, 3}, {-1, 1}}
	for _, m := range cases {
		// Act
		next, err := session.Play(NewSessionID(1), o, m.x, m.y)

		// Assert
		var invalid InvalidMoveError
		require.True(t, errors.As(err, &invalid))
		require.Equal(t, m.x, invalid.X)
		require.Equal(t, m.y, invalid.Y)
		require.Equal(t, o, next.CurrentTurn.Principal)
		require.Equal(t, session.Board, next.Board)
	}
}

func Test_Play_Does_Not_Touch_Receiver(t *testing.T) {
	// Arrange
	session, x, _ := acceptedSession(t)

	// Act
	next, err := session.Play(NewSessionID(1), x, 1, 1)

	// Assert
	require.NoError(t, err)
	require.Equal(t, NoRole, session.Board[1][1])
	require.Equal(t, First, next.Board[1][1])
	require.Equal(t, x, session.CurrentTurn.Principal)
}

func Test_Session_Survives_JSON_Round_Trip(t *testing.T) {
	// Arrange
	session, x, o := acceptedSession(t)
	session = play(t, session, x, o, []move{{0, 0}, {1, 1}})

	// Act
	payload, err := json.Marshal(session)
	require.NoError(t, err)

	var decoded GameSession
	require.NoError(t, json.Unmarshal(payload, &decoded))

	// Assert
	require.Equal(t, session, decoded)
}

func Test_OpenInvites_Keeps_Order_On_Remove(t *testing.T) {
	// Arrange
	var open OpenInvites
	for _, id := range sessionIDs(1, 2, 3, 5, 8) {
		open.Add(id)
	}

	// Act
	removed := open.Remove(NewSessionID(3))
	missing := open.Remove(NewSessionID(4))

	// Assert
	require.True(t, removed)
	require.False(t, missing)
	require.Equal(t, sessionIDs(1, 2, 5, 8), open.Invites)
	require.True(t, open.Contains(NewSessionID(5)))
	require.False(t, open.Contains(NewSessionID(3)))
}

func Test_OpenInvites_Add_Out_Of_Order_Stays_Sorted(t *testing.T) {
	var open OpenInvites
	for _, id := range sessionIDs(4, 1, 3, 3) {
		open.Add(id)
	}

	require.Equal(t, sessionIDs(1, 3, 4), open.Invites)
}

func sessionIDs(ns ...uint64) []SessionID {
	ids := make([]SessionID, 0, len(ns))
	for _, n := range ns {
		ids = append(ids, NewSessionID(n))
	}
	return ids
}
