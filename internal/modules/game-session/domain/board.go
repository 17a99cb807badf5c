package domain

import "fmt"

const GridSize = 3

// Board is indexed board[x][y], row-major. NoRole marks an empty cell.
type Board [GridSize][GridSize]Role

type cell struct{ x, y int }

// winningLines lists every three-in-a-row: rows, then columns, then diagonals.
var winningLines = [8][GridSize]cell{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// IsValidMove reports whether (x, y) is on the board and still empty.
// Out of range coordinates are simply invalid.
func (b Board) IsValidMove(x, y int) bool {
	if x < 0 || x >= GridSize || y < 0 || y >= GridSize {
		return false
	}
	return b[x][y] == NoRole
}

// Apply marks (x, y) with r. Callers must check IsValidMove first.
func (b *Board) Apply(x, y int, r Role) {
	if !b.IsValidMove(x, y) {
		panic(fmt.Sprintf("apply on invalid cell (%d, %d)", x, y))
	}
	b[x][y] = r
}

// Winner returns the role holding a complete line, or NoRole.
func (b Board) Winner() Role {
	for _, r := range [...]Role{First, Second} {
		for _, line := range winningLines {
			if b.owns(r, line) {
				return r
			}
		}
	}
	return NoRole
}

func (b Board) owns(r Role, line [GridSize]cell) bool {
	for _, c := range line {
		if b[c.x][c.y] != r {
			return false
		}
	}
	return true
}

func (b Board) IsFull() bool {
	for _, row := range b {
		for _, c := range row {
			if c == NoRole {
				return false
			}
		}
	}
	return true
}

// Rows returns the board as nested slices for the query surface.
func (b Board) Rows() [][]Role {
	rows := make([][]Role, GridSize)
	for x := range b {
		rows[x] = append([]Role(nil), b[x][:]...)
	}
	return rows
}

// NextTurn alternates between the two players of invite. Players are
// compared by role so either copy of the current player works.
func NextTurn(current PlayerDetails, invite GameInvite) PlayerDetails {
	if current.Role == invite.Inviter.Role && invite.Accepter != nil {
		return *invite.Accepter
	}
	return invite.Inviter
}

type OutcomeKind uint8

const (
	OutcomePlaying OutcomeKind = iota
	OutcomeDraw
	OutcomeWon
)

type GameOutcome struct {
	Kind   OutcomeKind
	Winner *PlayerDetails
}

func Evaluate(b Board, invite GameInvite) GameOutcome {
	if r := b.Winner(); r.Assigned() {
		if p, ok := invite.PlayerWithRole(r); ok {
			return GameOutcome{Kind: OutcomeWon, Winner: &p}
		}
	}

	if b.IsFull() {
		return GameOutcome{Kind: OutcomeDraw}
	}

	return GameOutcome{Kind: OutcomePlaying}
}
