package crud

import "testing"

const testColsStr = `id serial, name text NOT NULL, family text NOT NULL, age integer NOT NULL`

func TestCreateTable(t *testing.T) {
	testStmt(
		t,
		rei(`CREATE TABLE people (id serial, name text NOT NULL, family text NOT NULL, age integer NOT NULL)`),
		CreateTable{Name: `people`, Cols: testColsStr},
	)

	testStmt(
		t,
		rei(`CREATE TABLE IF NOT EXISTS people (id serial, name text NOT NULL, family text NOT NULL, age integer NOT NULL, UNIQUE(name, family), PRIMARY KEY(id))`),
		CreateTable{
			Name:        `people`,
			Cols:        testColsStr,
			Unique:      []string{`name`, `family`},
			PrimaryKey:  `id`,
			IfNotExists: true,
		},
	)

	t.Run(`every_shape_renders_identically`, func(t *testing.T) {
		exp := rei(`CREATE TABLE people (id serial, name text NOT NULL, family text NOT NULL, age integer NOT NULL)`)

		test := func(cols any) {
			t.Helper()
			testStmt(t, exp, CreateTable{Name: `people`, Cols: cols})
		}

		test(testColsStr)
		test([]string{`id serial`, `name text NOT NULL`, `family text NOT NULL`, `age integer NOT NULL`})
		test([][2]string{{`id`, `serial`}, {`name`, `text NOT NULL`}, {`family`, `text NOT NULL`}, {`age`, `integer NOT NULL`}})
		test([]map[string]string{{`id`: `serial`}, {`name`: `text NOT NULL`}, {`family`: `text NOT NULL`}, {`age`: `integer NOT NULL`}})
		test(DictOf(`id`, `serial`, `name`, `text NOT NULL`, `family`, `text NOT NULL`, `age`, `integer NOT NULL`))
	})

	t.Run(`invalid`, func(t *testing.T) {
		testStmtErr(t, ErrMalformedEntry, CreateTable{Cols: testColsStr})
		testStmtErr(t, ErrMalformedEntry, CreateTable{Name: `people`, Cols: `id serial, name`})
		testStmtErr(t, ErrEmptySpec, CreateTable{Name: `people`, Cols: ``})
		testStmtErr(t, ErrInvalidSpecKind, CreateTable{Name: `people`})
		testStmtErr(t, ErrInvalidSpecKind, CreateTable{Name: `people`, Cols: testColsStr, Unique: 10})
	})
}

func TestCreateIndex(t *testing.T) {
	testStmt(
		t,
		rei(`CREATE INDEX name_index ON people (name)`),
		CreateIndex{Table: `people`, Name: `name_index`, Cols: `name`},
	)

	testStmt(
		t,
		rei(`CREATE UNIQUE INDEX IF NOT EXISTS name_family_index ON people (name ASC NULLS FIRST, family DESC NULLS LAST)`),
		CreateIndex{
			Table:       `people`,
			Name:        `name_family_index`,
			Cols:        [][2]string{{`name`, `asc nulls first`}, {`family`, `DESC NULLS LAST`}},
			Unique:      true,
			IfNotExists: true,
		},
	)

	testStmt(
		t,
		rei(`CREATE INDEX age_index ON people (age DESC, name)`),
		CreateIndex{Table: `people`, Name: `age_index`, Cols: `age desc, name`},
	)

	t.Run(`invalid`, func(t *testing.T) {
		testStmtErr(t, ErrMalformedEntry, CreateIndex{Name: `name_index`, Cols: `name`})
		testStmtErr(t, ErrMalformedEntry, CreateIndex{Table: `people`, Cols: `name`})
		testStmtErr(t, ErrMalformedEntry, CreateIndex{Table: `people`, Name: `name_index`, Cols: `name sideways`})
		testStmtErr(t, ErrMalformedEntry, CreateIndex{Table: `people`, Name: `name_index`, Cols: `name asc; drop table people`})
		testStmtErr(t, ErrEmptySpec, CreateIndex{Table: `people`, Name: `name_index`, Cols: []string{}})
	})
}

func TestInsert(t *testing.T) {
	testStmt(
		t,
		rei(`INSERT INTO people (name, family, age) VALUES ('john', 'doe', 43)`),
		Insert{Table: `people`, Cols: `name, family, age`, Vals: `'john', 'doe', 43`},
	)

	testStmt(
		t,
		rei(`INSERT INTO people (name, family, age) VALUES ('john', 'doe, jr', 43)`),
		Insert{
			Table: `people`,
			Cols:  []string{`name`, `family`, `age`},
			Vals:  []string{`'john'`, `'doe, jr'`, `43`},
		},
	)

	t.Run(`on_conflict`, func(t *testing.T) {
		exp := rei(`INSERT INTO people (name) VALUES ('john') ON CONFLICT DO NOTHING`)

		test := func(src string) {
			t.Helper()
			testStmt(t, exp, Insert{Table: `people`, Cols: `name`, Vals: `'john'`, OnConflict: src})
		}

		test(`DO NOTHING`)
		test(`do nothing`)
		test(`on conflict do nothing`)
		test(`  ON CONFLICT   DO NOTHING  `)

		testStmt(
			t,
			rei(`INSERT INTO people (name) VALUES ('john') ON CONFLICT (name) DO UPDATE SET age = 10`),
			Insert{Table: `people`, Cols: `name`, Vals: `'john'`, OnConflict: `(name) DO UPDATE SET age = 10`},
		)
	})

	t.Run(`returning`, func(t *testing.T) {
		testStmt(
			t,
			rei(`INSERT INTO people (name) VALUES ('john') RETURNING id, name`),
			Insert{Table: `people`, Cols: `name`, Vals: `'john'`, Returning: `id, name`},
		)
	})

	t.Run(`invalid`, func(t *testing.T) {
		testStmtErr(t, ErrColumnValueCountMismatch, Insert{Table: `people`, Cols: `name, family`, Vals: `'john'`})
		testStmtErr(t, ErrMalformedEntry, Insert{Cols: `name`, Vals: `'john'`})
		testStmtErr(t, ErrEmptySpec, Insert{Table: `people`, Cols: ``, Vals: ``})
		testStmtErr(t, ErrInvalidSpecKind, Insert{Table: `people`})
		testStmtErr(t, ErrInvalidSpecKind, Insert{Table: `people`, Cols: Person{}, Vals: Person{Name: `john`}})
		testStmtErr(t, ErrInvalidSpecKind, Insert{Table: `people`, Cols: `name, family, age`, Vals: Fields{&Person{}}})
	})
}

func TestInsertData(t *testing.T) {
	testStmt(
		t,
		rei(`INSERT INTO people (name, family, age) VALUES ('john', 'doe', 43)`),
		InsertData{Table: `people`, Data: Person{Id: 10, Name: `john`, Family: `doe`, Age: 43}},
	)

	testStmt(
		t,
		rei(`INSERT INTO people (name, age) VALUES ('john', 43) ON CONFLICT DO NOTHING RETURNING id`),
		InsertData{
			Table:      `people`,
			Data:       DictOf(`name`, `'john'`, `age`, `43`),
			OnConflict: `do nothing`,
			Returning:  `id`,
		},
	)

	testStmt(
		t,
		rei(`INSERT INTO people (name, created_at) VALUES ('john', now())`),
		InsertData{Table: `people`, Data: []map[string]string{{`name`: `'john'`}, {`created_at`: `now()`}}},
	)

	testStmt(
		t,
		rei(`INSERT INTO people ("first name", "last name") VALUES ('john', 'doe')`),
		InsertData{Table: `people`, Data: `"first name" 'john', "last name" 'doe'`},
	)

	t.Run(`invalid`, func(t *testing.T) {
		testStmtErr(t, ErrMalformedEntry, InsertData{Table: `people`, Data: `name`})
		testStmtErr(t, ErrInvalidSpecKind, InsertData{Table: `people`, Data: map[string]string{`name`: `'john'`}})
		testStmtErr(t, ErrEmptySpec, InsertData{Table: `people`, Data: Dict{}})
	})
}

func TestSelect(t *testing.T) {
	testStmt(t, rei(`SELECT * FROM people`), Select{Table: `people`})
	testStmt(t, rei(`SELECT * FROM people`), Select{Table: `people`, Cols: ``, Where: ` `})
	testStmt(t, rei(`SELECT * FROM people`), Select{Table: `people`, Limit: -1, Offset: 0})

	testStmt(
		t,
		rei(`SELECT name, family FROM people WHERE name = 'john' ORDER BY name, age DESC LIMIT 10 OFFSET 20`),
		Select{
			Table:   `people`,
			Cols:    `name, family`,
			Where:   `name = 'john'`,
			OrderBy: `name, age DESC`,
			Limit:   10,
			Offset:  20,
		},
	)

	t.Run(`multiple_conditions`, func(t *testing.T) {
		testStmt(
			t,
			rei(`SELECT * FROM people WHERE (name = 'john') AND (age = 50)`),
			Select{Table: `people`, Where: []string{`name = 'john'`, ``, `age = 50`}},
		)
	})

	t.Run(`condition_with_commas_is_not_split`, func(t *testing.T) {
		testStmt(
			t,
			rei(`SELECT * FROM people WHERE age IN (10, 20)`),
			Select{Table: `people`, Where: `age IN (10, 20)`},
		)
	})

	t.Run(`parametrized`, func(t *testing.T) {
		testStmt(
			t,
			rei(`SELECT * FROM people WHERE (age > $1) AND (family = $2)`, 30, `doe`),
			Select{Table: `people`, Where: Conds{
				{`age > $1`, list{30}},
				{`family = $1`, list{`doe`}},
			}},
		)

		testStmt(
			t,
			rei(`SELECT * FROM people WHERE (name = 'john') AND (age BETWEEN $1 AND $1 + 10)`, 30),
			Select{Table: `people`, Where: list{
				`name = 'john'`,
				NamedCond{`age BETWEEN :min AND :min + 10`, Args{`min`: 30}},
			}},
		)
	})

	t.Run(`invalid`, func(t *testing.T) {
		testStmtErr(t, ErrMalformedEntry, Select{})
		testStmtErr(t, ErrInvalidSpecKind, Select{Table: `people`, Where: 10})
		testStmtErr(t, ErrMalformedEntry, Select{Table: `people`, Where: Cond{`age > $1`, nil}})
	})
}

func TestUpdate(t *testing.T) {
	testStmt(
		t,
		rei(`UPDATE people SET family = 'nice', age = 100 WHERE name = 'john'`),
		Update{
			Table: `people`,
			Cols:  []string{`family`, `age`},
			Vals:  []string{`'nice'`, `100`},
			Where: `name = 'john'`,
		},
	)

	testStmt(
		t,
		rei(`UPDATE people SET age = 100 WHERE name = $1 RETURNING id`, `john`),
		Update{
			Table:     `people`,
			Cols:      `age`,
			Vals:      `100`,
			Where:     list{Cond{`name = $1`, list{`john`}}},
			Returning: `id`,
		},
	)

	t.Run(`invalid`, func(t *testing.T) {
		testStmtErr(t, ErrMissingCondition, Update{Table: `people`, Cols: `age`, Vals: `100`})
		testStmtErr(t, ErrMissingCondition, Update{Table: `people`, Cols: `age`, Vals: `100`, Where: `  `})
		testStmtErr(t, ErrMissingCondition, Update{Table: `people`, Cols: `age`, Vals: `100`, Where: []string{``, ` `}})
		testStmtErr(t, ErrColumnValueCountMismatch, Update{Table: `people`, Cols: `age, family`, Vals: `100`, Where: `true`})
		testStmtErr(t, ErrMalformedEntry, Update{Cols: `age`, Vals: `100`, Where: `true`})
		testStmtErr(t, ErrInvalidSpecKind, Update{Table: `people`, Cols: Person{}, Vals: Person{Name: `john`}, Where: `true`})
	})
}

func TestUpdateData(t *testing.T) {
	testStmt(
		t,
		rei(`UPDATE people SET family = 'nice', age = 100 WHERE name = 'john'`),
		UpdateData{
			Table: `people`,
			Data:  [][2]string{{`family`, `'nice'`}, {`age`, `100`}},
			Where: `name = 'john'`,
		},
	)

	testStmt(
		t,
		rei(`UPDATE people SET name = 'john', family = 'o''neil', age = 43 WHERE id = $1`, 10),
		UpdateData{
			Table: `people`,
			Data:  &Person{Id: 10, Name: `john`, Family: `o'neil`, Age: 43},
			Where: Cond{`id = $1`, list{10}},
		},
	)

	t.Run(`invalid`, func(t *testing.T) {
		testStmtErr(t, ErrMissingCondition, UpdateData{Table: `people`, Data: DictOf(`age`, `100`)})
		testStmtErr(t, ErrEmptySpec, UpdateData{Table: `people`, Data: ``, Where: `true`})
	})
}

func TestDelete(t *testing.T) {
	testStmt(
		t,
		rei(`DELETE FROM people WHERE name = 'john'`),
		Delete{Table: `people`, Where: `name = 'john'`},
	)

	testStmt(
		t,
		rei(`DELETE FROM people WHERE (name = 'john') AND (age = 50)`),
		Delete{Table: `people`, Where: []string{`name = 'john'`, `age = 50`}},
	)

	testStmt(
		t,
		rei(`DELETE FROM people WHERE true RETURNING id`),
		Delete{Table: `people`, Where: `true`, Returning: `id`},
	)

	t.Run(`invalid`, func(t *testing.T) {
		testStmtErr(t, ErrMissingCondition, Delete{Table: `people`})
		testStmtErr(t, ErrMissingCondition, Delete{Table: `people`, Where: Conds{}})
		testStmtErr(t, ErrMissingCondition, Delete{Table: `people`, Where: Cond{}})
		testStmtErr(t, ErrMalformedEntry, Delete{Where: `true`})
	})
}

func TestDropTable(t *testing.T) {
	testStmt(t, rei(`DROP TABLE IF EXISTS people`), DropTable{`people`})
	testStmt(t, rei(`DROP TABLE IF EXISTS people`), DropTable{` people `})
	testStmtErr(t, ErrMalformedEntry, DropTable{})
}

func Test_trimOnConflict(t *testing.T) {
	eq(t, ``, trimOnConflict(``))
	eq(t, ``, trimOnConflict(`on conflict`))
	eq(t, `DO NOTHING`, trimOnConflict(`DO NOTHING`))
	eq(t, `do nothing`, trimOnConflict(`On Conflict do nothing`))
	eq(t, `on conflicted`, trimOnConflict(`on conflicted`))
}
