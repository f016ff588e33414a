package crud

import (
	"fmt"

	"github.com/mitranim/sqlp"
)

/*
Interface that allows compatibility between different query variants. Subquery
insertion, supported by `Query.Append` and `Query.AppendNamed`, detects
instances of this interface rather than the concrete type `Query`. `Query`,
`Cond`, and `NamedCond` implement it.
*/
type IQuery interface{ QueryAppend(*Query) }

/*
Tool for composing parametrized SQL fragments. Contains both text and
arguments. Automatically renumerates ordinal placeholders when appending code,
making it easy to avoid mis-numbering. Used internally for conditions, which
are the only part of a statement that may carry bound parameters.

Always uses Postgres-style ordinal parameters of the form `$N`.
*/
type Query struct {
	Text []byte
	Args []any
}

// Implement `fmt.Stringer`.
func (self Query) String() string {
	return bytesToMutableString(self.Text)
}

// Implement `IQuery`, allowing a query to be used as an argument of another.
func (self Query) QueryAppend(out *Query) {
	out.Append(bytesToMutableString(self.Text), self.Args...)
}

// Implement the `Expr` interface, making this a sub-expression.
func (self Query) AppendExpr(text []byte, args []any) ([]byte, []any) {
	out := Query{text, args}
	self.QueryAppend(&out)
	return out.Text, out.Args
}

/*
Appends code and arguments. Renumerates ordinal parameters, offsetting them by
the previous argument count. The count in the code always starts from `$1`.

Composable: automatically interpolates any instances of `IQuery` found in the
arguments, combining the arguments and renumerating the parameters as
appropriate.

For example, this:

	var query Query
	query.Append(`one = $1`, 10)
	query.Append(`and two = $1`, 20) // Note the $1.

Is equivalent to this:

	text := `one = $1 and two = $2`
	args := []any{10, 20}

Panics with `ErrMalformedEntry` when: the code is malformed; the code has named
parameters; a parameter doesn't have a corresponding argument; an argument
doesn't have a corresponding parameter.
*/
func (self *Query) Append(src string, args ...any) {
	defer recForeign(`appending to query`)

	ords := make([]sqlp.NodeOrdinalParam, len(args))
	for ind, arg := range args {
		if _, ok := arg.(IQuery); !ok {
			self.Args = append(self.Args, arg)
			ords[ind] = sqlp.NodeOrdinalParam(len(self.Args))
		}
	}

	used := make([]bool, len(args))
	self.Text = maybeAppendSpace(self.Text)
	tokenizer := sqlp.Tokenizer{Source: src}

	for {
		node := tokenizer.Next()
		if node == nil {
			break
		}

		switch node := node.(type) {
		case sqlp.NodeOrdinalParam:
			ind := node.Index()
			if ind < 0 || ind >= len(args) {
				panic(errMalformed(`appending to query`, `ordinal parameter %v exceeds argument count %v`, node, len(args)))
			}

			used[ind] = true
			sub, ok := args[ind].(IQuery)
			if ok {
				sub.QueryAppend(self)
			} else {
				ords[ind].Append(&self.Text)
			}

		case sqlp.NodeNamedParam:
			panic(errMalformed(`appending to query`, `expected only ordinal params, got named param %q`, string(node)))

		default:
			node.Append(&self.Text)
		}
	}

	for ind, ok := range used {
		if !ok {
			panic(errMalformed(`appending to query`, `unused argument %#v at index %v`, args[ind], ind))
		}
	}
}

/*
Appends code and named arguments. The code must have named parameters in the
form ":identifier". The keys in the arguments map must have the form
"identifier", without a leading ":". Internally, converts named parameters to
ordinal parameters of the form `$N`. A parameter used several times refers to
the same argument.

For example, this:

	var query Query
	query.AppendNamed(`age > :min and age < :min + 10`, map[string]any{"min": 30})

Is equivalent to this:

	text := `age > $1 and age < $1 + 10`
	args := []any{30}

Panics with `ErrMalformedEntry` when: the code is malformed; the code has
ordinal parameters; a parameter doesn't have a corresponding argument; an
argument doesn't have a corresponding parameter.
*/
func (self *Query) AppendNamed(src string, args map[string]any) {
	defer recForeign(`appending to query`)

	namedToOrd := make(map[sqlp.NodeNamedParam]sqlp.NodeOrdinalParam, len(args))
	self.Text = maybeAppendSpace(self.Text)
	tokenizer := sqlp.Tokenizer{Source: src}

	for {
		node := tokenizer.Next()
		if node == nil {
			break
		}

		switch node := node.(type) {
		case sqlp.NodeOrdinalParam:
			panic(errMalformed(`appending to query`, `expected only named params, got ordinal param %v`, node))

		case sqlp.NodeNamedParam:
			arg, found := args[string(node)]
			if !found {
				panic(errMalformed(`appending to query`, `missing named argument %q`, string(node)))
			}

			sub, ok := arg.(IQuery)
			if ok {
				// Value doesn't matter. This allows detection of unused arguments.
				namedToOrd[node] = 0
				sub.QueryAppend(self)
				continue
			}

			ord, ok := namedToOrd[node]
			if !ok {
				self.Args = append(self.Args, arg)
				ord = sqlp.NodeOrdinalParam(len(self.Args))
				namedToOrd[node] = ord
			}
			ord.Append(&self.Text)

		default:
			node.Append(&self.Text)
		}
	}

	for key := range args {
		if _, ok := namedToOrd[sqlp.NodeNamedParam(key)]; !ok {
			panic(errMalformed(`appending to query`, `unused named argument %q`, key))
		}
	}
}

// Appends the other query to this one, combining the arguments and
// renumerating the ordinal parameters as appropriate. Nil is a nop.
func (self *Query) AppendQuery(query IQuery) {
	if query != nil {
		query.QueryAppend(self)
	}
}

// Implement `fmt.GoStringer` for debug purposes.
func (self Query) GoString() string {
	return fmt.Sprintf(`crud.Query{Text: %q, Args: %#v}`, self.Text, self.Args)
}
