package crud

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
)

/*
Minimal database client used by `Crud`. Implemented by `PgConn` for Postgres
and `SqlConn` for any `database/sql` driver, such as SQLite.

Implementations must return errors of type `Err` with the code
`ErrCodeDriver` for failures reported by the database engine, such as
constraint violations and syntax errors, and `ErrCodeConnection` for failures
to reach the database, including use of a closed connection. The original
error is kept as the cause.

Implementations don't retry and don't add timeouts; use the context for that.
*/
type Conn interface {
	// Executes a statement, returning the amount of affected rows.
	Exec(ctx context.Context, text string, args ...any) (int64, error)

	// Executes a query, returning all rows. Each row contains the values of
	// the output columns in their declared order.
	Query(ctx context.Context, text string, args ...any) ([][]any, error)

	Close(ctx context.Context) error
}

var errClosed = errors.New(`connection is closed`)

func errDriver(while string, cause error) Err {
	return ErrDriver.while(while).because(cause)
}

func errConnection(while string, cause error) Err {
	return ErrConnection.while(while).because(cause)
}

// Classifies generic `database/sql` failures. Used by every implementation.
func isConnectionErr(err error) bool {
	return errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn)
}

// Errors of this package are passed through unchanged.
func classifyErr(while string, err error, isConn bool) error {
	if err == nil {
		return nil
	}
	if errors.As(err, new(Err)) {
		return err
	}
	if isConn || isConnectionErr(err) {
		return errConnection(while, err)
	}
	return errDriver(while, err)
}
