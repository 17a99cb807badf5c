package store

import (
	"context"
	"database/sql"

	"github.com/eskrenkovic/tql"
	"github.com/pkg/errors"
)

// sqlKV reads and writes the kv_store table. tql renders the named
// parameters in the syntax of the active driver, so both SQL stores share it.
type sqlKV struct {
	tx *sql.Tx
	// lockRows makes Get take a row lock. Only Postgres supports it.
	lockRows bool
}

func (kv sqlKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	q := `
		SELECT value
		FROM kv_store
		WHERE key = :key`
	if kv.lockRows {
		q += `
		FOR UPDATE`
	}
	q += ";"

	value, err := tql.QueryFirst[string](ctx, kv.tx, q, map[string]any{"key": key})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return []byte(value), true, nil
}

func (kv sqlKV) Put(ctx context.Context, key string, value []byte) error {
	const stmt = `
		INSERT INTO kv_store (key, value)
		VALUES (:key, :value)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value;`

	_, err := tql.Exec(ctx, kv.tx, stmt, map[string]any{"key": key, "value": string(value)})
	return err
}
