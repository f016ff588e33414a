package crud

import (
	"context"
	"errors"
	"fmt"
	r "reflect"
	"runtime"
	"strings"
	"testing"
)

type list = []any

type Person struct {
	Id     int64  `db:"-"`
	Name   string `db:"name"`
	Family string `db:"family"`
	Age    int    `db:"age"`
}

// nolint:govet
type Embed struct {
	Id        string `db:"embed_id"`
	Name      string `db:"embed_name"`
	private   string `db:"embed_private"`
	Untagged0 string ``
	Untagged1 string `db:"-"`
}

type Outer struct {
	Embed
	Id   string `db:"outer_id"`
	Name string `db:"outer_name"`
}

var testOuter = Outer{
	Id:   `outer id`,
	Name: `outer name`,
	Embed: Embed{
		Id:        `embed id`,
		Name:      `embed name`,
		private:   `private`,
		Untagged0: `untagged 0`,
		Untagged1: `untagged 1`,
	},
}

// Short for "reified": rendered text with args.
type R struct {
	Text string
	Args list
}

func rei(text string, args ...any) R { return R{text, args} }

func render(t testing.TB, val Expr) R {
	t.Helper()
	text, args, err := Render(val)
	if err != nil {
		t.Fatalf(`unexpected rendering error: %+v`, err)
	}
	return R{text, args}
}

func testStmt(t testing.TB, exp R, val Expr) {
	t.Helper()
	eq(t, exp, render(t, val))
}

func testStmtErr(t testing.TB, exp error, val Expr) {
	t.Helper()
	text, args, err := Render(val)
	errIs(t, exp, err)
	eq(t, ``, text)
	eq(t, list(nil), args)
}

func eq(t testing.TB, exp, act any) {
	t.Helper()
	if !r.DeepEqual(exp, act) {
		t.Fatalf(`
expected (detailed):
	%#[1]v
actual (detailed):
	%#[2]v
expected (simple):
	%[1]v
actual (simple):
	%[2]v
`, exp, act)
	}
}

func notEq(t testing.TB, exp, act any) {
	t.Helper()
	if r.DeepEqual(exp, act) {
		t.Fatalf(`
unexpected equality (detailed):
	%#[1]v
unexpected equality (simple):
	%[1]v
`, exp, act)
	}
}

func errIs(t testing.TB, exp, act error) {
	t.Helper()
	if !errors.Is(act, exp) {
		t.Fatalf(`
expected error matching:
	%v
actual error:
	%v
`, exp, act)
	}
}

func noErr(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf(`unexpected error: %+v`, err)
	}
}

func panics(t testing.TB, msg string, fun func()) {
	t.Helper()
	val := catchAny(fun)

	if val == nil {
		t.Fatalf(`expected %v to panic, found no panic`, funcName(fun))
	}

	str := fmt.Sprint(val)
	if !strings.Contains(str, msg) {
		t.Fatalf(
			`expected %v to panic with a message containing %q, found %q`,
			funcName(fun), msg, str,
		)
	}
}

func funcName(val any) string {
	return runtime.FuncForPC(r.ValueOf(val).Pointer()).Name()
}

func catchAny(fun func()) (val any) {
	defer recAny(&val)
	fun()
	return
}

func recAny(ptr *any) { *ptr = recover() }

func normalized(t testing.TB, src any, mode Mode) []Pair {
	t.Helper()
	out, err := Normalize(src, mode)
	noErr(t, err)
	return out
}

func testSqlite(t testing.TB) Crud {
	t.Helper()
	ctx := context.Background()

	conn, err := OpenSqlite(ctx, `:memory:`)
	noErr(t, err)
	t.Cleanup(func() { _ = conn.Close(ctx) })

	return Crud{Conn: conn}
}

type execCall struct {
	Text string
	Args list
}

// Records every call. Used to verify which statements reach the connection.
type recConn struct {
	Execs   []execCall
	Queries []execCall
	Rows    [][]any
	Count   int64
	Err     error
	Closed  bool
}

func (self *recConn) Exec(_ context.Context, text string, args ...any) (int64, error) {
	self.Execs = append(self.Execs, execCall{text, args})
	return self.Count, self.Err
}

func (self *recConn) Query(_ context.Context, text string, args ...any) ([][]any, error) {
	self.Queries = append(self.Queries, execCall{text, args})
	return self.Rows, self.Err
}

func (self *recConn) Close(context.Context) error {
	self.Closed = true
	return nil
}
