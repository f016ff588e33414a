package crud

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync/atomic"

	"modernc.org/sqlite"
)

/*
Implementation of `Conn` over `database/sql`, usable with any registered
driver. Mostly used with the pure-Go SQLite driver; see `OpenSqlite`.
*/
type SqlConn struct {
	db     *sql.DB
	closed atomic.Bool
}

var _ = Conn((*SqlConn)(nil))

// Wraps an already-open database handle. Closing the result closes the handle.
func NewSqlConn(db *sql.DB) *SqlConn { return &SqlConn{db: db} }

/*
Opens a SQLite database using the pure-Go driver "modernc.org/sqlite" and
verifies it with a ping. The DSN is passed to the driver verbatim, for example:

	"file:crud.db"
	":memory:"

In-memory databases exist per connection, so this limits the pool to a single
connection, which makes every statement see the same database. Failures are
reported as `ErrConnection`.
*/
func OpenSqlite(ctx context.Context, dsn string) (*SqlConn, error) {
	const while = `opening sqlite database`
	if trimSpace(dsn) == `` {
		return nil, errConnection(while, errors.New(`DSN must not be empty`))
	}

	db, err := sql.Open(`sqlite`, dsn)
	if err != nil {
		return nil, errConnection(while, err)
	}
	if isSqliteMemory(dsn) {
		db.SetMaxOpenConns(1)
	}

	err = db.PingContext(ctx)
	if err != nil {
		_ = db.Close()
		return nil, errConnection(while, err)
	}
	return NewSqlConn(db), nil
}

func isSqliteMemory(dsn string) bool {
	return strings.Contains(dsn, `:memory:`) || strings.Contains(dsn, `mode=memory`)
}

// Implement `Conn`. Returns the row count reported by the driver.
func (self *SqlConn) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	const while = `executing statement`
	if self.closed.Load() {
		return 0, errConnection(while, errClosed)
	}

	res, err := self.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, classifySqlErr(while, err)
	}

	count, err := res.RowsAffected()
	if err != nil {
		return 0, classifySqlErr(while, err)
	}
	return count, nil
}

/*
Implement `Conn`. Values are whatever the driver produces for `any`
destinations. Byte slices are copied by `database/sql`, so rows remain valid
after the call.
*/
func (self *SqlConn) Query(ctx context.Context, query string, args ...any) ([][]any, error) {
	const while = `executing query`
	if self.closed.Load() {
		return nil, errConnection(while, errClosed)
	}

	rows, err := self.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classifySqlErr(while, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, classifySqlErr(while, err)
	}

	var out [][]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for ind := range vals {
			ptrs[ind] = &vals[ind]
		}

		err = rows.Scan(ptrs...)
		if err != nil {
			return nil, classifySqlErr(while, err)
		}
		out = append(out, vals)
	}

	err = rows.Err()
	if err != nil {
		return nil, classifySqlErr(while, err)
	}
	return out, nil
}

// Implement `Conn`. Closing an already-closed connection is a nop.
func (self *SqlConn) Close(context.Context) error {
	if self.closed.Swap(true) {
		return nil
	}
	return classifyErr(`closing connection`, self.db.Close(), true)
}

/*
Errors reported by the SQLite engine are driver errors. Generic `database/sql`
connection failures are connection errors. Anything else is treated as a driver
error.
*/
func classifySqlErr(while string, err error) error {
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return errDriver(while, err)
	}
	return classifyErr(while, err, false)
}
