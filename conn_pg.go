package crud

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

/*
Minimal subset of methods used from `*pgx.Conn`. Allows injecting a test double
for hermetic tests of the adapter.
*/
type pgConnLike interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close(ctx context.Context) error
	IsClosed() bool
}

var _ = pgConnLike((*pgx.Conn)(nil))

/*
Postgres implementation of `Conn`, wrapping a single `*pgx.Conn`. Like the
underlying connection, this is not safe for concurrent use.
*/
type PgConn struct{ conn pgConnLike }

var _ = Conn((*PgConn)(nil))

/*
Connects to Postgres using the provided config. The host, port, database name,
user, and password are passed to the driver verbatim. Failures are reported as
`ErrConnection`. Callers are responsible for closing the connection.
*/
func Connect(ctx context.Context, conf Config) (*PgConn, error) {
	return ConnectDSN(ctx, conf.DSN())
}

// Like `Connect`, but takes a DSN or URL in any format supported by pgx.
func ConnectDSN(ctx context.Context, dsn string) (*PgConn, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, errConnection(`connecting to postgres`, err)
	}
	return &PgConn{conn: conn}, nil
}

// Implement `Conn`. Returns the row count reported by the command tag.
func (self *PgConn) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	const while = `executing statement`
	if self.conn.IsClosed() {
		return 0, errConnection(while, errClosed)
	}

	tag, err := self.conn.Exec(ctx, sql, args...)
	if err != nil {
		return 0, self.classify(while, err)
	}
	return tag.RowsAffected(), nil
}

// Implement `Conn`. Values are decoded by pgx into their default Go types.
func (self *PgConn) Query(ctx context.Context, sql string, args ...any) ([][]any, error) {
	const while = `executing query`
	if self.conn.IsClosed() {
		return nil, errConnection(while, errClosed)
	}

	rows, err := self.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, self.classify(while, err)
	}
	defer rows.Close()

	var out [][]any
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, self.classify(while, err)
		}
		out = append(out, vals)
	}

	err = rows.Err()
	if err != nil {
		return nil, self.classify(while, err)
	}
	return out, nil
}

// Implement `Conn`.
func (self *PgConn) Close(ctx context.Context) error {
	return classifyErr(`closing connection`, self.conn.Close(ctx), true)
}

/*
Engine errors, reported as `*pgconn.PgError`, are driver errors. Failures to
connect, and anything that leaves the connection closed, are connection errors.
*/
func (self *PgConn) classify(while string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return errDriver(while, err)
	}

	var connErr *pgconn.ConnectError
	isConn := errors.As(err, &connErr) || self.conn.IsClosed()
	return classifyErr(while, err, isConn)
}
