package crud

import (
	r "reflect"
	"strings"
)

/*
Represents a CREATE TABLE statement:

	CreateTable{
		Name:       `people`,
		Cols:       `id serial, name text NOT NULL, family text NOT NULL`,
		Unique:     []string{`name`, `family`},
		PrimaryKey: `id`,
	}
	// CREATE TABLE people (id serial, name text NOT NULL, family text NOT NULL, UNIQUE(name, family), PRIMARY KEY(id))

`Cols` is a column spec of any shape accepted by `Normalize`, where every
column must have a descriptor. `Unique` and `PrimaryKey` are optional lists of
column names; multiple unique keys form one composite UNIQUE constraint.
*/
type CreateTable struct {
	Name        string
	Cols        any
	Unique      any
	PrimaryKey  any
	IfNotExists bool
}

// Implement the `Expr` interface, making this a sub-expression.
func (self CreateTable) AppendExpr(text []byte, args []any) ([]byte, []any) {
	const while = `rendering CREATE TABLE`
	name := reqName(self.Name, `table`, while)
	cols := normalize(self.Cols, ModeDesc)
	unique := normalizeRawOpt(self.Unique)
	primary := normalizeRawOpt(self.PrimaryKey)

	bui := Bui{text, args}
	bui.Str(`CREATE TABLE`)
	if self.IfNotExists {
		bui.Str(`IF NOT EXISTS`)
	}
	bui.Str(name)
	bui.Str(`(`)

	for ind, col := range cols {
		if ind > 0 {
			bui.Raw(`, `)
		}
		bui.Raw(col.String())
	}

	if len(unique) > 0 {
		bui.Raw(`, UNIQUE(`)
		bui.Comma(unique)
		bui.Raw(`)`)
	}

	if len(primary) > 0 {
		bui.Raw(`, PRIMARY KEY(`)
		bui.Comma(primary)
		bui.Raw(`)`)
	}

	bui.Raw(`)`)
	return bui.Get()
}

/*
Represents a CREATE INDEX statement:

	CreateIndex{
		Table:  `people`,
		Name:   `name_family_index`,
		Cols:   []string{`name asc`, `family desc nulls last`},
		Unique: true,
	}
	// CREATE UNIQUE INDEX name_family_index ON people (name ASC, family DESC NULLS LAST)

`Cols` is a column spec of any shape accepted by `Normalize`, where the
descriptor is optional. Each descriptor may contain a direction and a nulls
ordering; see `ParseOrdering`. Anything else is rejected with
`ErrMalformedEntry`.
*/
type CreateIndex struct {
	Table       string
	Name        string
	Cols        any
	Unique      bool
	IfNotExists bool
}

// Implement the `Expr` interface, making this a sub-expression.
func (self CreateIndex) AppendExpr(text []byte, args []any) ([]byte, []any) {
	const while = `rendering CREATE INDEX`
	table := reqName(self.Table, `table`, while)
	name := reqName(self.Name, `index`, while)
	pairs := normalize(self.Cols, ModeOpt)

	bui := Bui{text, args}
	bui.Str(`CREATE`)
	if self.Unique {
		bui.Str(`UNIQUE`)
	}
	bui.Str(`INDEX`)
	if self.IfNotExists {
		bui.Str(`IF NOT EXISTS`)
	}
	bui.Str(name)
	bui.Str(`ON`)
	bui.Str(table)
	bui.Str(`(`)

	for ind, pair := range pairs {
		if ind > 0 {
			bui.Raw(`, `)
		}
		bui.Text = pairIndexCol(pair).Append(bui.Text)
	}

	bui.Raw(`)`)
	return bui.Get()
}

/*
Represents a positional INSERT statement:

	Insert{
		Table:      `people`,
		Cols:       `name, family, age`,
		Vals:       `'john', 'doe', 43`,
		OnConflict: `DO NOTHING`,
	}
	// INSERT INTO people (name, family, age) VALUES ('john', 'doe', 43) ON CONFLICT DO NOTHING

`Cols` and `Vals` are lists of any shape accepted by `Normalize`, used
verbatim. Values are raw SQL: the caller is responsible for quoting. Their
counts must match, otherwise this fails with `ErrColumnValueCountMismatch`.
A struct is accepted for `Cols` but not for `Vals`; use `InsertData` to insert
struct values. `OnConflict` is optional; a leading "ON CONFLICT" is tolerated. `Returning` is
an optional list of output expressions.
*/
type Insert struct {
	Table      string
	Cols       any
	Vals       any
	OnConflict string
	Returning  any
}

// Implement the `Expr` interface, making this a sub-expression.
func (self Insert) AppendExpr(text []byte, args []any) ([]byte, []any) {
	const while = `rendering INSERT`
	table := reqName(self.Table, `table`, while)
	cols := normalizeRaw(self.Cols)
	vals := normalizeVals(self.Vals, while)
	if len(cols) != len(vals) {
		panic(errCountMismatch(while, len(cols), len(vals)))
	}

	bui := Bui{text, args}
	appendInsert(&bui, table, cols, vals, self.OnConflict, self.Returning)
	return bui.Get()
}

/*
Represents a mapping-based INSERT statement. Columns and values are derived
from one spec, where every descriptor is a raw SQL value:

	InsertData{Table: `people`, Data: DictOf(`name`, `'john'`, `age`, `43`)}
	// INSERT INTO people (name, age) VALUES ('john', 43)

Using a struct as `Data` encodes field values via `Literal`, which takes care
of quoting:

	InsertData{Table: `people`, Data: Person{Name: `john`, Age: 43}}
	// INSERT INTO people (name, age) VALUES ('john', 43)
*/
type InsertData struct {
	Table      string
	Data       any
	OnConflict string
	Returning  any
}

// Implement the `Expr` interface, making this a sub-expression.
func (self InsertData) AppendExpr(text []byte, args []any) ([]byte, []any) {
	const while = `rendering INSERT`
	table := reqName(self.Table, `table`, while)
	cols, vals := splitPairs(normalize(self.Data, ModeDesc))

	bui := Bui{text, args}
	appendInsert(&bui, table, cols, vals, self.OnConflict, self.Returning)
	return bui.Get()
}

func appendInsert(bui *Bui, table string, cols, vals []string, onConflict string, returning any) {
	bui.Str(`INSERT INTO`)
	bui.Str(table)
	bui.Parens(cols)
	bui.Str(`VALUES`)
	bui.Parens(vals)

	clause := trimOnConflict(onConflict)
	if clause != `` {
		bui.Str(`ON CONFLICT`)
		bui.Str(clause)
	}

	appendReturning(bui, returning)
}

/*
Represents a SELECT statement:

	Select{
		Table:   `people`,
		Cols:    `name, family`,
		Where:   `name = 'john'`,
		OrderBy: `name`,
		Limit:   1,
	}
	// SELECT name, family FROM people WHERE name = 'john' ORDER BY name LIMIT 1

Empty `Cols` selects `*`. `Where` is an optional condition; see `Cond` for the
accepted shapes. `OrderBy` is an optional list of raw ordering expressions.
Non-positive `Limit` and `Offset` are omitted.
*/
type Select struct {
	Table   string
	Cols    any
	Where   any
	OrderBy any
	Limit   int
	Offset  int
}

// Implement the `Expr` interface, making this a sub-expression.
func (self Select) AppendExpr(text []byte, args []any) ([]byte, []any) {
	const while = `rendering SELECT`
	table := reqName(self.Table, `table`, while)
	cols := normalizeRawOpt(self.Cols)
	order := normalizeRawOpt(self.OrderBy)

	bui := Bui{text, args}
	bui.Str(`SELECT`)
	if len(cols) == 0 {
		bui.Str(`*`)
	} else {
		bui.Space()
		bui.Comma(cols)
	}
	bui.Str(`FROM`)
	bui.Str(table)

	appendWhere(&bui, self.Where, false, while)

	if len(order) > 0 {
		bui.Str(`ORDER BY`)
		bui.Space()
		bui.Comma(order)
	}

	if self.Limit > 0 {
		bui.Str(`LIMIT`)
		bui.Int(self.Limit)
	}

	if self.Offset > 0 {
		bui.Str(`OFFSET`)
		bui.Int(self.Offset)
	}

	return bui.Get()
}

/*
Represents a positional UPDATE statement:

	Update{
		Table: `people`,
		Cols:  []string{`family`, `age`},
		Vals:  []string{`'nice'`, `100`},
		Where: `name = 'john'`,
	}
	// UPDATE people SET family = 'nice', age = 100 WHERE name = 'john'

The condition is required: an empty condition fails with `ErrMissingCondition`
and no statement is rendered. To target every row, use an explicit condition
such as "true". Mismatched column and value counts fail with
`ErrColumnValueCountMismatch`.
*/
type Update struct {
	Table     string
	Cols      any
	Vals      any
	Where     any
	Returning any
}

// Implement the `Expr` interface, making this a sub-expression.
func (self Update) AppendExpr(text []byte, args []any) ([]byte, []any) {
	const while = `rendering UPDATE`
	table := reqName(self.Table, `table`, while)
	cols := normalizeRaw(self.Cols)
	vals := normalizeVals(self.Vals, while)
	if len(cols) != len(vals) {
		panic(errCountMismatch(while, len(cols), len(vals)))
	}

	bui := Bui{text, args}
	appendUpdate(&bui, table, cols, vals, self.Where, self.Returning, while)
	return bui.Get()
}

/*
Represents a mapping-based UPDATE statement. Assignments are derived from one
spec, where every descriptor is a raw SQL value. Like `InsertData`, a struct
spec encodes field values via `Literal`. The condition is required, like in
`Update`.
*/
type UpdateData struct {
	Table     string
	Data      any
	Where     any
	Returning any
}

// Implement the `Expr` interface, making this a sub-expression.
func (self UpdateData) AppendExpr(text []byte, args []any) ([]byte, []any) {
	const while = `rendering UPDATE`
	table := reqName(self.Table, `table`, while)
	cols, vals := splitPairs(normalize(self.Data, ModeDesc))

	bui := Bui{text, args}
	appendUpdate(&bui, table, cols, vals, self.Where, self.Returning, while)
	return bui.Get()
}

func appendUpdate(bui *Bui, table string, cols, vals []string, where, returning any, while string) {
	// Validated first, making sure no statement is rendered without it.
	exprs := condExprs(nil, where)
	if len(exprs) == 0 {
		panic(errMissingCondition(while))
	}

	bui.Str(`UPDATE`)
	bui.Str(table)
	bui.Str(`SET`)
	bui.Space()

	for ind, col := range cols {
		if ind > 0 {
			bui.Raw(`, `)
		}
		bui.Raw(col)
		bui.Raw(` = `)
		bui.Raw(vals[ind])
	}

	appendWhere(bui, exprs, true, while)
	appendReturning(bui, returning)
}

/*
Represents a DELETE statement:

	Delete{Table: `people`, Where: []string{`name = 'john'`, `age = 50`}}
	// DELETE FROM people WHERE (name = 'john') AND (age = 50)

The condition is required, like in `Update`.
*/
type Delete struct {
	Table     string
	Where     any
	Returning any
}

// Implement the `Expr` interface, making this a sub-expression.
func (self Delete) AppendExpr(text []byte, args []any) ([]byte, []any) {
	const while = `rendering DELETE`
	table := reqName(self.Table, `table`, while)
	exprs := condExprs(nil, self.Where)
	if len(exprs) == 0 {
		panic(errMissingCondition(while))
	}

	bui := Bui{text, args}
	bui.Str(`DELETE FROM`)
	bui.Str(table)
	appendWhere(&bui, exprs, true, while)
	appendReturning(&bui, self.Returning)
	return bui.Get()
}

/*
Represents a DROP TABLE statement. Always uses IF EXISTS, which makes dropping
a missing table a nop:

	DropTable{`people`}
	// DROP TABLE IF EXISTS people
*/
type DropTable struct {
	Name string
}

// Implement the `Expr` interface, making this a sub-expression.
func (self DropTable) AppendExpr(text []byte, args []any) ([]byte, []any) {
	name := reqName(self.Name, `table`, `rendering DROP TABLE`)

	bui := Bui{text, args}
	bui.Str(`DROP TABLE IF EXISTS`)
	bui.Str(name)
	return bui.Get()
}

func appendReturning(bui *Bui, src any) {
	cols := normalizeRawOpt(src)
	if len(cols) > 0 {
		bui.Str(`RETURNING`)
		bui.Space()
		bui.Comma(cols)
	}
}

func reqName(src, what, while string) string {
	src = trimSpace(src)
	if src == `` {
		panic(errMalformed(while, `missing %v name`, what))
	}
	return src
}

// Like `normalizeRaw`, but nil or a spec without entries produces nil rather
// than `ErrEmptySpec`.
func normalizeRawOpt(src any) []string {
	if isNil(src) {
		return nil
	}
	pairs := toSpec(src).appendPairs(nil, ModeRaw)
	if len(pairs) == 0 {
		return nil
	}
	out := make([]string, len(pairs))
	for ind, pair := range pairs {
		out[ind] = pair.String()
	}
	return out
}

/*
Positional values are raw SQL. A struct spec in raw mode yields column names,
which would silently render `SET name = name`, so it's rejected here. Structs
go through `InsertData` and `UpdateData`.
*/
func normalizeVals(src any, while string) []string {
	_, ok := src.(Fields)
	if ok || isStructType(r.TypeOf(src)) {
		panic(errf(ErrCodeInvalidSpecKind, while, `unsupported value list of type %T; use InsertData or UpdateData for struct values`, src))
	}
	return normalizeRaw(src)
}

func splitPairs(pairs []Pair) (names, descs []string) {
	names = make([]string, len(pairs))
	descs = make([]string, len(pairs))
	for ind, pair := range pairs {
		names[ind] = pair.Name
		descs[ind] = pair.Desc
	}
	return
}

func trimOnConflict(src string) string {
	src = trimSpace(src)
	const prefix = `on conflict`
	if len(src) >= len(prefix) && strings.EqualFold(src[:len(prefix)], prefix) {
		rest := src[len(prefix):]
		if rest == `` || isWhitespace(rest[0]) {
			return trimSpace(rest)
		}
	}
	return src
}
