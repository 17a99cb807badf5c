package domain

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

const sessionIDBits = 128

var ErrSessionIDsExhausted = errors.New("session id counter exhausted")

// SessionID identifies an invite and, once accepted, the session created from it.
// Ids come from a single 128-bit counter starting at 1 and are never reused.
// The zero value is not a valid id.
type SessionID struct {
	n uint256.Int
}

func NewSessionID(n uint64) SessionID {
	var id SessionID
	id.n.SetUint64(n)
	return id
}

func ParseSessionID(s string) (SessionID, error) {
	var id SessionID
	if err := id.n.SetFromDecimal(s); err != nil {
		return SessionID{}, fmt.Errorf("invalid session id '%s': %w", s, err)
	}

	if id.n.BitLen() > sessionIDBits {
		return SessionID{}, fmt.Errorf("invalid session id '%s': wider than %d bits", s, sessionIDBits)
	}

	return id, nil
}

func (id SessionID) IsZero() bool {
	return id.n.IsZero()
}

// Next returns the id after id. It fails instead of wrapping once the
// 128-bit space is used up.
func (id SessionID) Next() (SessionID, error) {
	var next SessionID
	next.n.AddUint64(&id.n, 1)

	if next.n.BitLen() > sessionIDBits {
		return SessionID{}, ErrSessionIDsExhausted
	}

	return next, nil
}

func (id SessionID) Cmp(other SessionID) int {
	return id.n.Cmp(&other.n)
}

func (id SessionID) Less(other SessionID) bool {
	return id.n.Lt(&other.n)
}

func (id SessionID) String() string {
	return id.n.Dec()
}

// MarshalJSON writes the id as a bare JSON number so clients see the same
// shape for small and large ids.
func (id SessionID) MarshalJSON() ([]byte, error) {
	return []byte(id.n.Dec()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (id *SessionID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var n uint256.Int
	if err := n.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid session id %s: %w", data, err)
	}

	if n.BitLen() > sessionIDBits {
		return fmt.Errorf("invalid session id %s: wider than %d bits", data, sessionIDBits)
	}

	id.n = n
	return nil
}
