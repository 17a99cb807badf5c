package store

import (
	"context"
	"encoding/json"

	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/game-session/domain"

	"github.com/pkg/errors"
)

var ErrReadOnly = errors.New("write attempted in a read-only view")

// KV is the byte level view of the store available inside a transaction.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Store runs functions against a consistent view of the data.
// Update is atomic: either every Put made by fn is committed or none is.
type Store interface {
	Update(ctx context.Context, fn func(context.Context, KV) error) error
	View(ctx context.Context, fn func(context.Context, KV) error) error
	Close() error
}

const (
	counterKey     = "counter"
	openInvitesKey = "open_invites"
)

func inviteKey(id domain.SessionID) string {
	return "invite/" + id.String()
}

func sessionKey(id domain.SessionID) string {
	return "session/" + id.String()
}

func activeKey(principal domain.PrincipalID) string {
	return "active/" + string(principal)
}

// Tables gives typed access to the records kept in a KV.
type Tables struct {
	kv KV
}

func NewTables(kv KV) Tables {
	return Tables{kv: kv}
}

func get[T any](ctx context.Context, kv KV, key string) (T, bool, error) {
	var value T

	raw, found, err := kv.Get(ctx, key)
	if err != nil {
		return value, false, errors.Wrapf(err, "failed to read '%s'", key)
	}

	if !found {
		return value, false, nil
	}

	if err := json.Unmarshal(raw, &value); err != nil {
		return value, false, errors.Wrapf(err, "failed to decode '%s'", key)
	}

	return value, true, nil
}

func put[T any](ctx context.Context, kv KV, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "failed to encode '%s'", key)
	}

	if err := kv.Put(ctx, key, raw); err != nil {
		return errors.Wrapf(err, "failed to write '%s'", key)
	}

	return nil
}

// NextSessionID allocates the next id. The first id handed out is 1.
func (t Tables) NextSessionID(ctx context.Context) (domain.SessionID, error) {
	current, _, err := get[domain.SessionID](ctx, t.kv, counterKey)
	if err != nil {
		return domain.SessionID{}, err
	}

	next, err := current.Next()
	if err != nil {
		return domain.SessionID{}, err
	}

	if err := put(ctx, t.kv, counterKey, next); err != nil {
		return domain.SessionID{}, err
	}

	return next, nil
}

func (t Tables) Invite(ctx context.Context, id domain.SessionID) (domain.GameInvite, bool, error) {
	return get[domain.GameInvite](ctx, t.kv, inviteKey(id))
}

func (t Tables) PutInvite(ctx context.Context, id domain.SessionID, invite domain.GameInvite) error {
	return put(ctx, t.kv, inviteKey(id), invite)
}

func (t Tables) Session(ctx context.Context, id domain.SessionID) (domain.GameSession, bool, error) {
	return get[domain.GameSession](ctx, t.kv, sessionKey(id))
}

func (t Tables) PutSession(ctx context.Context, id domain.SessionID, session domain.GameSession) error {
	return put(ctx, t.kv, sessionKey(id), session)
}

func (t Tables) ActiveSession(ctx context.Context, principal domain.PrincipalID) (domain.SessionID, bool, error) {
	return get[domain.SessionID](ctx, t.kv, activeKey(principal))
}

func (t Tables) SetActiveSession(ctx context.Context, principal domain.PrincipalID, id domain.SessionID) error {
	return put(ctx, t.kv, activeKey(principal), id)
}

func (t Tables) OpenInvites(ctx context.Context) (domain.OpenInvites, error) {
	open, _, err := get[domain.OpenInvites](ctx, t.kv, openInvitesKey)
	if open.Invites == nil {
		open.Invites = []domain.SessionID{}
	}
	return open, err
}

func (t Tables) PutOpenInvites(ctx context.Context, open domain.OpenInvites) error {
	return put(ctx, t.kv, openInvitesKey, open)
}

type readOnlyKV struct {
	KV
}

func (readOnlyKV) Put(context.Context, string, []byte) error {
	return ErrReadOnly
}
