package core

import (
	"database/sql"

	"modernc.org/sqlite"
)

// SQLiteDriver is the name the sqlite driver is registered under for tql.
// tql picks its parameter syntax by driver name and knows sqlite only as
// "sqlite3", while modernc.org/sqlite registers itself as "sqlite".
const SQLiteDriver = "sqlite3"

func init() {
	sql.Register(SQLiteDriver, &sqlite.Driver{})
}
