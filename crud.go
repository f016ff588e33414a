package crud

import (
	"context"
	"log"
)

/*
Entry point for building and executing statements. Must be constructed
explicitly with a connection; there's no global instance. Every method renders
one statement and issues exactly one round trip. Rendering failures are
returned before any SQL reaches the connection.

	conn, err := crud.OpenSqlite(ctx, `:memory:`)
	...
	db := crud.Crud{Conn: conn}

	err = db.CreateTable(ctx, crud.CreateTable{
		Name: `people`,
		Cols: `id integer, name text NOT NULL`,
		PrimaryKey: `id`,
	})

When `Logger` is set, the text of every statement is logged before execution.
Thread safety is that of the underlying connection.
*/
type Crud struct {
	Conn   Conn
	Logger *log.Logger
}

// Shortcut for `Crud{Conn: conn}`.
func New(conn Conn) Crud { return Crud{Conn: conn} }

// Creates a table. See `CreateTable`.
func (self Crud) CreateTable(ctx context.Context, stmt CreateTable) error {
	_, err := self.Exec(ctx, stmt)
	return err
}

// Creates an index. See `CreateIndex`.
func (self Crud) CreateIndex(ctx context.Context, stmt CreateIndex) error {
	_, err := self.Exec(ctx, stmt)
	return err
}

// Inserts a row from positional columns and values, returning the amount of
// inserted rows. See `Insert`.
func (self Crud) Insert(ctx context.Context, stmt Insert) (int64, error) {
	return self.Exec(ctx, stmt)
}

// Inserts a row from a mapping of columns to values, returning the amount of
// inserted rows. See `InsertData`.
func (self Crud) InsertData(ctx context.Context, stmt InsertData) (int64, error) {
	return self.Exec(ctx, stmt)
}

// Returns the selected rows. See `Select`.
func (self Crud) Select(ctx context.Context, stmt Select) ([][]any, error) {
	return self.Query(ctx, stmt)
}

// Updates rows from positional columns and values, returning the amount of
// updated rows. See `Update`.
func (self Crud) Update(ctx context.Context, stmt Update) (int64, error) {
	return self.Exec(ctx, stmt)
}

// Updates rows from a mapping of columns to values, returning the amount of
// updated rows. See `UpdateData`.
func (self Crud) UpdateData(ctx context.Context, stmt UpdateData) (int64, error) {
	return self.Exec(ctx, stmt)
}

// Deletes rows, returning the amount of deleted rows. See `Delete`.
func (self Crud) Delete(ctx context.Context, stmt Delete) (int64, error) {
	return self.Exec(ctx, stmt)
}

// Drops the table if it exists.
func (self Crud) DropTable(ctx context.Context, name string) error {
	_, err := self.Exec(ctx, DropTable{name})
	return err
}

/*
Renders and executes an arbitrary statement, returning the amount of affected
rows. Use `Crud.Query` for statements that return rows, such as those with a
RETURNING clause.
*/
func (self Crud) Exec(ctx context.Context, stmt Expr) (int64, error) {
	text, args, err := self.render(stmt)
	if err != nil {
		return 0, err
	}
	return self.Conn.Exec(ctx, text, args...)
}

// Renders and executes an arbitrary statement, returning all rows.
func (self Crud) Query(ctx context.Context, stmt Expr) ([][]any, error) {
	text, args, err := self.render(stmt)
	if err != nil {
		return nil, err
	}
	return self.Conn.Query(ctx, text, args...)
}

// Closes the underlying connection.
func (self Crud) Close(ctx context.Context) error {
	if isNil(self.Conn) {
		return nil
	}
	return self.Conn.Close(ctx)
}

func (self Crud) render(stmt Expr) (string, []any, error) {
	if stmt == nil {
		return ``, nil, errf(ErrCodeInternal, `rendering statement`, `missing statement`)
	}

	text, args, err := Render(stmt)
	if err != nil {
		return ``, nil, err
	}

	if isNil(self.Conn) {
		return ``, nil, errConnection(`executing statement`, errClosed)
	}

	if self.Logger != nil {
		if len(args) > 0 {
			self.Logger.Printf(`%v %v`, text, args)
		} else {
			self.Logger.Print(text)
		}
	}
	return text, args, nil
}
