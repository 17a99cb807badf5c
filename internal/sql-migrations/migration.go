package sqlmigration

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/eskrenkovic/tql"
	"github.com/pkg/errors"
)

type Migration struct {
	ID         int    `db:"id"`
	Version    int    `db:"version"`
	Name       string `db:"name"`
	UpScript   string
	DownScript string
}

const createMigrationsTable = `
	CREATE TABLE IF NOT EXISTS schema_migration (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		version INTEGER NOT NULL
	);`

// Load reads migrations from the root of fsys.
// File names follow the convention: <version>.<name>.up.sql and <version>.<name>.down.sql.
// Every version needs both scripts.
func Load(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, errors.Wrap(err, "failed to read migrations")
	}

	migrations := make(map[int]Migration)

	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".sql" {
			continue
		}

		parts := strings.Split(entry.Name(), ".")
		if len(parts) != 4 {
			continue
		}

		version, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid migration version in %s: %w", entry.Name(), err)
		}

		content, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", entry.Name())
		}

		m := migrations[version]
		m.Version = version
		m.Name = parts[1]

		switch scriptType := parts[2]; scriptType {
		case "up":
			m.UpScript = string(content)
		case "down":
			m.DownScript = string(content)
		default:
			return nil, fmt.Errorf("unrecognized script type: %s", scriptType)
		}

		migrations[version] = m
	}

	result := make([]Migration, 0, len(migrations))
	for _, m := range migrations {
		if m.UpScript == "" {
			return nil, fmt.Errorf("failed to find 'up' script for %s", m.Name)
		}
		if m.DownScript == "" {
			return nil, fmt.Errorf("failed to find 'down' script for %s", m.Name)
		}
		result = append(result, m)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Version < result[j].Version
	})

	return result, nil
}

// Run applies every migration in fsys newer than the last one recorded in
// schema_migration of an SQLite database. If one fails, the migrations
// applied by this run are reverted with their down scripts.
// Scripts are executed as they are, without parameter translation.
func Run(ctx context.Context, db *sql.DB, fsys fs.FS) error {
	migrations, err := Load(fsys)
	if err != nil {
		return err
	}

	if len(migrations) == 0 {
		return nil
	}

	if _, err := db.ExecContext(ctx, createMigrationsTable); err != nil {
		return errors.Wrap(err, "failed to create schema_migration")
	}

	const q = `
		SELECT id, version, name
		FROM schema_migration
		ORDER BY version DESC;`
	applied, err := tql.Query[Migration](ctx, db, q)
	if err != nil {
		return err
	}

	lastApplied := 0
	if len(applied) > 0 {
		lastApplied = applied[0].Version
	}

	var newlyApplied []Migration
	for _, migration := range migrations {
		if migration.Version <= lastApplied {
			continue
		}

		if err := apply(ctx, db, migration); err != nil {
			if revertErr := revert(ctx, db, newlyApplied); revertErr != nil {
				return fmt.Errorf("%s: %w", revertErr.Error(), err)
			}
			return err
		}

		newlyApplied = append(newlyApplied, migration)
	}

	return nil
}

func apply(ctx context.Context, db *sql.DB, migration Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, migration.UpScript); err != nil {
		return rollback(tx, errors.Wrapf(err, "migration %d.%s failed", migration.Version, migration.Name))
	}

	const stmt = `
		INSERT INTO schema_migration (version, name)
		VALUES (:version, :name);`
	params := map[string]any{"version": migration.Version, "name": migration.Name}
	if _, err := tql.Exec(ctx, tx, stmt, params); err != nil {
		return rollback(tx, err)
	}

	return tx.Commit()
}

func revert(ctx context.Context, db *sql.DB, applied []Migration) error {
	for i := len(applied) - 1; i >= 0; i-- {
		migration := applied[i]

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, migration.DownScript); err != nil {
			return rollback(tx, err)
		}

		const stmt = "DELETE FROM schema_migration WHERE version = :version;"
		if _, err := tql.Exec(ctx, tx, stmt, map[string]any{"version": migration.Version}); err != nil {
			return rollback(tx, err)
		}

		if err := tx.Commit(); err != nil {
			return err
		}
	}

	return nil
}

func rollback(tx *sql.Tx, err error) error {
	if rollbackErr := tx.Rollback(); rollbackErr != nil {
		return fmt.Errorf("failed to roll back transaction: %s: %w", rollbackErr.Error(), err)
	}
	return err
}
