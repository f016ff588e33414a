// Command crud builds SQL statements from flexible specs and runs them against
// Postgres or SQLite. With --dry-run, it only prints the statements.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/mitranim/crud"
)

// Globals holds connection and output flags shared by every command.
type Globals struct {
	Driver   string `enum:"postgres,sqlite" default:"postgres" env:"DB_DRIVER" help:"Database driver: postgres or sqlite"`
	DSN      string `name:"dsn" env:"DB_DSN" help:"Data source name; required for sqlite, overrides the discrete parameters for postgres"`
	Host     string `env:"DB_HOST" help:"Postgres host"`
	Port     int    `env:"DB_PORT" help:"Postgres port"`
	DB       string `name:"db" env:"DB_NAME" help:"Postgres database name"`
	User     string `env:"DB_USER" help:"Postgres user"`
	Password string `env:"DB_PASSWORD" help:"Postgres password"`
	SSLMode  string `name:"sslmode" env:"DB_SSLMODE" help:"Postgres SSL mode"`
	DryRun   bool   `name:"dry-run" help:"Print the SQL without connecting"`
	Verbose  bool   `short:"v" help:"Log every statement before running it"`
}

// CLI defines the command-line interface for crud.
type CLI struct {
	Globals

	CreateTable CreateTableCmd `cmd:"" help:"Create a table"`
	CreateIndex CreateIndexCmd `cmd:"" help:"Create an index"`
	Insert      InsertCmd      `cmd:"" help:"Insert a row"`
	Select      SelectCmd      `cmd:"" help:"Select rows, printed tab-separated"`
	Update      UpdateCmd      `cmd:"" help:"Update rows; a condition is required"`
	Delete      DeleteCmd      `cmd:"" help:"Delete rows; a condition is required"`
	DropTable   DropTableCmd   `cmd:"" help:"Drop a table if it exists"`
}

// App is bound to every command's Run method.
type App struct {
	*Globals
	Out io.Writer
	Log *log.Logger
}

// CreateTableCmd creates a table.
type CreateTableCmd struct {
	Name        string `arg:"" help:"Table name"`
	Cols        string `required:"" help:"Column definitions, such as \"id serial, name text NOT NULL\""`
	Unique      string `help:"Columns of a composite UNIQUE constraint"`
	PrimaryKey  string `name:"primary-key" help:"Primary key columns"`
	IfNotExists bool   `name:"if-not-exists" help:"Don't fail if the table exists"`
}

func (c *CreateTableCmd) Run(app *App) error {
	return app.exec(crud.CreateTable{
		Name:        c.Name,
		Cols:        c.Cols,
		Unique:      c.Unique,
		PrimaryKey:  c.PrimaryKey,
		IfNotExists: c.IfNotExists,
	})
}

// CreateIndexCmd creates an index.
type CreateIndexCmd struct {
	Table       string `arg:"" help:"Table name"`
	Name        string `required:"" help:"Index name"`
	Cols        string `required:"" help:"Index columns, such as \"name ASC, family DESC NULLS LAST\""`
	Unique      bool   `help:"Create a unique index"`
	IfNotExists bool   `name:"if-not-exists" help:"Don't fail if the index exists"`
}

func (c *CreateIndexCmd) Run(app *App) error {
	return app.exec(crud.CreateIndex{
		Table:       c.Table,
		Name:        c.Name,
		Cols:        c.Cols,
		Unique:      c.Unique,
		IfNotExists: c.IfNotExists,
	})
}

// InsertCmd inserts a row, either from --cols and --vals or from --data.
type InsertCmd struct {
	Table      string `arg:"" help:"Table name"`
	Cols       string `help:"Column names, such as \"name, age\""`
	Vals       string `help:"SQL values, such as \"'john', 43\""`
	Data       string `help:"Columns with values, such as \"name 'john', age 43\"; replaces --cols and --vals"`
	OnConflict string `name:"on-conflict" help:"ON CONFLICT clause, such as \"DO NOTHING\""`
	Returning  string `help:"Expressions to return"`
}

func (c *InsertCmd) Run(app *App) error {
	if c.Data != "" {
		return app.exec(crud.InsertData{
			Table:      c.Table,
			Data:       c.Data,
			OnConflict: c.OnConflict,
			Returning:  c.Returning,
		})
	}
	return app.exec(crud.Insert{
		Table:      c.Table,
		Cols:       c.Cols,
		Vals:       c.Vals,
		OnConflict: c.OnConflict,
		Returning:  c.Returning,
	})
}

// SelectCmd selects rows.
type SelectCmd struct {
	Table   string   `arg:"" help:"Table name"`
	Cols    string   `default:"*" help:"Columns to select"`
	Where   []string `sep:"none" help:"Condition; repeat to combine with AND"`
	OrderBy string   `name:"order-by" help:"Ordering expressions"`
	Limit   int      `help:"Maximum amount of rows"`
	Offset  int      `help:"Amount of rows to skip"`
}

func (c *SelectCmd) Run(app *App) error {
	return app.exec(crud.Select{
		Table:   c.Table,
		Cols:    c.Cols,
		Where:   c.Where,
		OrderBy: c.OrderBy,
		Limit:   c.Limit,
		Offset:  c.Offset,
	})
}

// UpdateCmd updates rows, either from --cols and --vals or from --data.
type UpdateCmd struct {
	Table     string   `arg:"" help:"Table name"`
	Cols      string   `help:"Column names"`
	Vals      string   `help:"SQL values"`
	Data      string   `help:"Columns with values; replaces --cols and --vals"`
	Where     []string `sep:"none" help:"Condition; repeat to combine with AND"`
	Returning string   `help:"Expressions to return"`
}

func (c *UpdateCmd) Run(app *App) error {
	if c.Data != "" {
		return app.exec(crud.UpdateData{
			Table:     c.Table,
			Data:      c.Data,
			Where:     c.Where,
			Returning: c.Returning,
		})
	}
	return app.exec(crud.Update{
		Table:     c.Table,
		Cols:      c.Cols,
		Vals:      c.Vals,
		Where:     c.Where,
		Returning: c.Returning,
	})
}

// DeleteCmd deletes rows.
type DeleteCmd struct {
	Table     string   `arg:"" help:"Table name"`
	Where     []string `sep:"none" help:"Condition; repeat to combine with AND"`
	Returning string   `help:"Expressions to return"`
}

func (c *DeleteCmd) Run(app *App) error {
	return app.exec(crud.Delete{
		Table:     c.Table,
		Where:     c.Where,
		Returning: c.Returning,
	})
}

// DropTableCmd drops a table.
type DropTableCmd struct {
	Name string `arg:"" help:"Table name"`
}

func (c *DropTableCmd) Run(app *App) error {
	return app.exec(crud.DropTable{Name: c.Name})
}

// exec renders the statement, then prints it in dry-run mode, or runs it and
// prints the outcome. Statements that produce rows are printed tab-separated.
func (app *App) exec(stmt crud.Expr) error {
	text, args, err := crud.Render(stmt)
	if err != nil {
		return err
	}

	if app.DryRun {
		fmt.Fprintln(app.Out, text)
		if len(args) > 0 {
			fmt.Fprintln(app.Out, args...)
		}
		return nil
	}

	ctx := context.Background()
	conn, err := app.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	db := crud.Crud{Conn: conn, Logger: app.Log}

	if returnsRows(stmt) {
		rows, err := db.Query(ctx, stmt)
		if err != nil {
			return err
		}
		printRows(app.Out, rows)
		return nil
	}

	count, err := db.Exec(ctx, stmt)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "%d row(s) affected\n", count)
	return nil
}

func (app *App) connect(ctx context.Context) (crud.Conn, error) {
	if app.Driver == "sqlite" {
		return crud.OpenSqlite(ctx, app.DSN)
	}
	if app.DSN != "" {
		return crud.ConnectDSN(ctx, app.DSN)
	}
	return crud.Connect(ctx, crud.Config{
		Host:     app.Host,
		Port:     app.Port,
		DBName:   app.DB,
		User:     app.User,
		Password: app.Password,
		SSLMode:  app.SSLMode,
	})
}

func returnsRows(stmt crud.Expr) bool {
	switch stmt := stmt.(type) {
	case crud.Select:
		return true
	case crud.Insert:
		return hasReturning(stmt.Returning)
	case crud.InsertData:
		return hasReturning(stmt.Returning)
	case crud.Update:
		return hasReturning(stmt.Returning)
	case crud.UpdateData:
		return hasReturning(stmt.Returning)
	case crud.Delete:
		return hasReturning(stmt.Returning)
	default:
		return false
	}
}

func hasReturning(val any) bool {
	text, _ := val.(string)
	return strings.TrimSpace(text) != ""
}

func printRows(out io.Writer, rows [][]any) {
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, val := range row {
			cells[i] = formatValue(val)
		}
		fmt.Fprintln(out, strings.Join(cells, "\t"))
	}
}

func formatValue(val any) string {
	switch val := val.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}

func newApp(globals *Globals, out io.Writer) *App {
	app := &App{Globals: globals, Out: out}
	if globals.Verbose {
		app.Log = log.New(os.Stderr, "crud: ", 0)
	}
	return app
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("crud"),
		kong.Description("Flexible SQL statement builder and executor"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(newApp(&cli.Globals, os.Stdout))
	ctx.FatalIfErrorf(err)
}
