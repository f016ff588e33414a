package crud

import (
	r "reflect"

	"github.com/mitranim/refut"
)

/*
Struct-backed spec. Wraps a struct or struct pointer whose fields carry `db`
tags. Field order is declaration order, including fields of embedded structs.
Fields without a `db` tag, or tagged `db:"-"`, are skipped.

In `ModeRaw`, produces only column names, which makes it usable as a column
list for `Select` and `Insert`. In `ModeDesc` and `ModeOpt`, the descriptor of
each column is the field value encoded via `Literal`, which makes it usable as
the data of `InsertData` and `UpdateData`:

	type Person struct {
		Name   string `db:"name"`
		Family string `db:"family"`
		Age    int    `db:"age"`
	}

	InsertData{Table: `people`, Data: Fields{Person{`john`, `doe`, 43}}}
	// INSERT INTO people (name, family, age) VALUES ('john', 'doe', 43)

A nil struct pointer has no entries.
*/
type Fields [1]any

func (self Fields) appendPairs(buf []Pair, mode Mode) []Pair {
	src := self[0]
	if !isStructType(r.TypeOf(src)) {
		panic(errInvalidSpecKind(`normalizing struct spec`, src))
	}

	rval := r.ValueOf(src)
	if refut.IsRvalNil(rval) {
		return buf
	}
	for rval.Kind() == r.Pointer {
		rval = rval.Elem()
		if refut.IsRvalNil(rval) {
			return buf
		}
	}

	err := refut.TraverseStructRval(rval, func(rval r.Value, sfield r.StructField, _ []int) error {
		name := sfieldColumnName(sfield)
		if name == `` {
			return nil
		}

		if mode == ModeRaw {
			buf = appendPair(buf, mode, name, ``)
			return nil
		}

		lit, err := Literal(rval.Interface())
		if err != nil {
			return err
		}
		buf = appendPair(buf, mode, name, lit)
		return nil
	})
	try(err)
	return buf
}

func sfieldColumnName(sfield r.StructField) string {
	if !sfield.IsExported() {
		return ``
	}
	return refut.TagIdent(sfield.Tag.Get(`db`))
}
