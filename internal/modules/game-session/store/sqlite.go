package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/core"
	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/game-session/store/migrations"
	sqlmigration "github.com/eskrenkovic/tictactoe-sessions/internal/sql-migrations"

	"github.com/eskrenkovic/tql"
	"github.com/pkg/errors"
)

const (
	sqliteWriterParams = "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_txlock=immediate"
	sqliteReaderParams = "?_pragma=busy_timeout(5000)&_pragma=query_only(1)"
	sqliteReaders      = 4
)

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore writes through a single connection whose transactions take the
// write lock up front. Views run on separate deferred connections, which in
// WAL mode read the last committed state without waiting for a writer.
type SQLiteStore struct {
	writer *sql.DB
	reader *sql.DB
}

// OpenSQLite opens the database file at path and applies the embedded migrations.
// tql keeps its parameter syntax process wide, so a process should not mix
// an SQLiteStore with a PostgresStore.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	path = filepath.Clean(path)

	if err := tql.SetActiveDriver(core.SQLiteDriver); err != nil {
		return nil, err
	}

	writer, err := openSQLiteDB(ctx, path+sqliteWriterParams, 1)
	if err != nil {
		return nil, err
	}

	if err := sqlmigration.Run(ctx, writer, migrations.SQLite()); err != nil {
		_ = writer.Close()
		return nil, errors.Wrap(err, "run migrations")
	}

	reader, err := openSQLiteDB(ctx, path+sqliteReaderParams, sqliteReaders)
	if err != nil {
		_ = writer.Close()
		return nil, err
	}

	return &SQLiteStore{writer: writer, reader: reader}, nil
}

func openSQLiteDB(ctx context.Context, dsn string, maxConns int) (*sql.DB, error) {
	db, err := sql.Open(core.SQLiteDriver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite db")
	}
	db.SetMaxOpenConns(maxConns)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping sqlite db")
	}

	return db, nil
}

func (s *SQLiteStore) Update(ctx context.Context, fn func(context.Context, KV) error) error {
	return core.Tx(ctx, s.writer, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, sqlKV{tx: tx})
	})
}

func (s *SQLiteStore) View(ctx context.Context, fn func(context.Context, KV) error) error {
	return core.Tx(ctx, s.reader, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, readOnlyKV{sqlKV{tx: tx}})
	})
}

func (s *SQLiteStore) Close() error {
	readerErr := s.reader.Close()
	if err := s.writer.Close(); err != nil {
		return err
	}
	return readerErr
}
