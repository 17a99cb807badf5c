package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func boardFrom(rows [GridSize]string) Board {
	var b Board
	for x, row := range rows {
		for y, c := range row {
			switch c {
			case 'X':
				b[x][y] = First
			case 'O':
				b[x][y] = Second
			}
		}
	}
	return b
}

func Test_Board_IsValidMove(t *testing.T) {
	b := boardFrom([GridSize]string{"X..", "...", "..O"})

	cases := []struct {
		name string
		x, y int
		want bool
	}{
		{name: "empty cell", x: 1, y: 1, want: true},
		{name: "occupied by first", x: 0, y: 0, want: false},
		{name: "occupied by second", x: 2, y: 2, want: false},
		{name: "x out of range", x: 3, y: 0, want: false},
		{name: "y out of range", x: 0, y: 3, want: false},
		{name: "negative", x: -1, y: 0, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, b.IsValidMove(tc.x, tc.y))
		})
	}
}

func Test_Board_Apply_Panics_On_Occupied_Cell(t *testing.T) {
	b := boardFrom([GridSize]string{"X..", "...", "..."})

	require.Panics(t, func() { b.Apply(0, 0, Second) })
}

func Test_Board_Winner_Finds_Every_Line(t *testing.T) {
	cases := []struct {
		name  string
		board [GridSize]string
		want  Role
	}{
		{name: "row 0", board: [GridSize]string{"XXX", "OO.", "..."}, want: First},
		{name: "row 1", board: [GridSize]string{"X.X", "OOO", "X.."}, want: Second},
		{name: "row 2", board: [GridSize]string{"OO.", "...", "XXX"}, want: First},
		{name: "column 0", board: [GridSize]string{"OX.", "OX.", "O.X"}, want: Second},
		{name: "column 1", board: [GridSize]string{"OX.", ".XO", ".X."}, want: First},
		{name: "column 2", board: [GridSize]string{"X.O", "X.O", "..O"}, want: Second},
		{name: "diagonal", board: [GridSize]string{"XO.", "OX.", "..X"}, want: First},
		{name: "anti-diagonal", board: [GridSize]string{"XXO", "XO.", "O.."}, want: Second},
		{name: "none", board: [GridSize]string{"XO.", "...", "..."}, want: NoRole},
		{name: "empty", board: [GridSize]string{"...", "...", "..."}, want: NoRole},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, boardFrom(tc.board).Winner())
		})
	}
}

func Test_Board_IsFull(t *testing.T) {
	require.False(t, boardFrom([GridSize]string{"XOX", "OXO", "OX."}).IsFull())
	require.True(t, boardFrom([GridSize]string{"XOX", "OXO", "OXO"}).IsFull())
}

func Test_Evaluate_Maps_Winning_Role_To_Player(t *testing.T) {
	// Arrange
	invite := GameInvite{
		Inviter:  PlayerDetails{Principal: "alice", Name: "Alice", Role: Second},
		Accepter: &PlayerDetails{Principal: "bob", Name: "Bobby", Role: First},
		Accepted: true,
	}

	cases := []struct {
		name       string
		board      [GridSize]string
		wantKind   OutcomeKind
		wantWinner string
	}{
		{name: "first wins", board: [GridSize]string{"XXX", "OO.", "..."}, wantKind: OutcomeWon, wantWinner: "Bobby"},
		{name: "second wins", board: [GridSize]string{"XX.", "OOO", "X.."}, wantKind: OutcomeWon, wantWinner: "Alice"},
		{name: "draw", board: [GridSize]string{"OXX", "XXO", "OOX"}, wantKind: OutcomeDraw},
		{name: "playing", board: [GridSize]string{"X..", ".O.", "..."}, wantKind: OutcomePlaying},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			outcome := Evaluate(boardFrom(tc.board), invite)

			// Assert
			require.Equal(t, tc.wantKind, outcome.Kind)
			if tc.wantWinner == "" {
				require.Nil(t, outcome.Winner)
				return
			}
			require.NotNil(t, outcome.Winner)
			require.Equal(t, tc.wantWinner, outcome.Winner.Name)
		})
	}
}

func Test_NextTurn_Alternates_By_Role(t *testing.T) {
	// Arrange
	invite := GameInvite{
		Inviter:  PlayerDetails{Principal: "alice", Name: "Alice", Role: First},
		Accepter: &PlayerDetails{Principal: "bob", Name: "Bobby", Role: Second},
		Accepted: true,
	}

	// Act
	afterAlice := NextTurn(PlayerDetails{Role: First}, invite)
	afterBob := NextTurn(afterAlice, invite)

	// Assert
	require.Equal(t, PrincipalID("bob"), afterAlice.Principal)
	require.Equal(t, PrincipalID("alice"), afterBob.Principal)
}
