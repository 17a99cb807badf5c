package store

import (
	"context"
	"database/sql"
	"os"

	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/core"
	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/game-session/store/migrations"

	"github.com/eskrenkovic/migrate-go"
	"github.com/eskrenkovic/tql"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const (
	postgresDriver       = "postgres"
	serializationFailure = "40001"
	maxUpdateAttempts    = 5
)

var _ Store = (*PostgresStore)(nil)

type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects to databaseURL and applies the embedded migrations.
// tql keeps its parameter syntax process wide, so a process should not mix
// a PostgresStore with an SQLiteStore.
func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	if err := tql.SetActiveDriver(postgresDriver); err != nil {
		return nil, err
	}

	db, err := sql.Open(postgresDriver, databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres db")
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping postgres db")
	}

	if err := runPostgresMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "run migrations")
	}

	return &PostgresStore{db: db}, nil
}

// runPostgresMigrations hands the embedded scripts to migrate.Run, which
// only reads migrations from a directory.
func runPostgresMigrations(ctx context.Context, db *sql.DB) error {
	dir, err := os.MkdirTemp("", "tictactoe-migrations-")
	if err != nil {
		return errors.Wrap(err, "create migrations dir")
	}
	defer func() {
		_ = os.RemoveAll(dir)
	}()

	if err := os.CopyFS(dir, migrations.Postgres()); err != nil {
		return errors.Wrap(err, "copy migrations")
	}

	return migrate.Run(ctx, db, dir)
}

// Update runs fn in a serializable transaction, locking every row it reads.
// Transactions aborted by a serialization failure are retried.
func (s *PostgresStore) Update(ctx context.Context, fn func(context.Context, KV) error) error {
	var err error
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err = core.Tx(
			ctx,
			s.db,
			func(ctx context.Context, tx *sql.Tx) error {
				return fn(ctx, sqlKV{tx: tx, lockRows: true})
			},
			core.WithIsolationLevel(sql.LevelSerializable),
		)

		var pqErr *pq.Error
		if !errors.As(err, &pqErr) || pqErr.Code != serializationFailure {
			return err
		}
	}

	return errors.Wrap(err, "transaction kept failing to serialize")
}

func (s *PostgresStore) View(ctx context.Context, fn func(context.Context, KV) error) error {
	return core.Tx(
		ctx,
		s.db,
		func(ctx context.Context, tx *sql.Tx) error {
			return fn(ctx, readOnlyKV{sqlKV{tx: tx}})
		},
		core.WithIsolationLevel(sql.LevelRepeatableRead),
		core.ReadOnly(),
	)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
