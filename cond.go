package crud

/*
Parametrized condition. The text may contain Postgres-style ordinal parameters
such as "$1", which refer to the arguments, always starting from "$1". When
conditions are combined, parameters are renumerated and the arguments are
returned as statement arguments, to be bound by the driver:

	Select{Table: `people`, Where: Conds{
		{`age > $1`, []any{30}},
		{`family = $1`, []any{`doe`}},
	}}
	// SELECT * FROM people WHERE (age > $1) AND (family = $2)

Arguments may include other `IQuery` instances, which are interpolated.
*/
type Cond struct {
	Text string
	Args []any
}

// Implement `IQuery`.
func (self Cond) QueryAppend(out *Query) {
	out.Append(self.Text, self.Args...)
}

// Implement the `Expr` interface, making this a sub-expression.
func (self Cond) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return appendQueryExpr(text, args, self)
}

func (self Cond) isEmpty() bool {
	return trimSpace(self.Text) == `` && len(self.Args) == 0
}

/*
Like `Cond`, but with named parameters of the form ":identifier". See
`Query.AppendNamed`.
*/
type NamedCond struct {
	Text string
	Args map[string]any
}

// Implement `IQuery`.
func (self NamedCond) QueryAppend(out *Query) {
	out.AppendNamed(self.Text, self.Args)
}

// Implement the `Expr` interface, making this a sub-expression.
func (self NamedCond) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return appendQueryExpr(text, args, self)
}

func (self NamedCond) isEmpty() bool {
	return trimSpace(self.Text) == `` && len(self.Args) == 0
}

// Sequence of parametrized conditions, conjoined with AND.
type Conds []Cond

func appendQueryExpr(text []byte, args []any, src IQuery) ([]byte, []any) {
	out := Query{text, args}
	src.QueryAppend(&out)
	return out.Text, out.Args
}

/*
Converts a condition spec into a sequence of predicates, to be conjoined with
AND. Accepts:

	nil
	string, Str           -> one verbatim predicate
	[]string, Strs        -> one verbatim predicate per element
	Cond, NamedCond       -> one parametrized predicate
	[]Cond, Conds         -> one parametrized predicate per element
	Expr                  -> one arbitrary predicate
	[]Expr, []any         -> any mix of the above

Blank strings and empty conditions are skipped. Unlike column specs, string
conditions are never split on commas.
*/
func condExprs(buf []Expr, src any) []Expr {
	switch src := src.(type) {
	case nil:
		return buf

	case string:
		return appendCondStr(buf, src)

	case Str:
		return appendCondStr(buf, string(src))

	case Raw:
		return appendCondStr(buf, string(src))

	case []string:
		for _, val := range src {
			buf = appendCondStr(buf, val)
		}
		return buf

	case Strs:
		return condExprs(buf, []string(src))

	case Cond:
		if src.isEmpty() {
			return buf
		}
		return append(buf, src)

	case NamedCond:
		if src.isEmpty() {
			return buf
		}
		return append(buf, src)

	case []Cond:
		for _, val := range src {
			buf = condExprs(buf, val)
		}
		return buf

	case Conds:
		return condExprs(buf, []Cond(src))

	case Expr:
		if isNil(src) {
			return buf
		}
		return append(buf, src)

	case []Expr:
		for _, val := range src {
			buf = condExprs(buf, val)
		}
		return buf

	case []any:
		for _, val := range src {
			buf = condExprs(buf, val)
		}
		return buf

	default:
		panic(errf(ErrCodeInvalidSpecKind, `normalizing condition`, `unsupported condition of type %T; expected a string, a sequence of strings, a Cond, or a sequence of Cond`, src))
	}
}

func appendCondStr(buf []Expr, src string) []Expr {
	src = trimSpace(src)
	if src == `` {
		return buf
	}
	return append(buf, Raw(src))
}

/*
Appends a WHERE clause. A single predicate is appended as-is. Multiple
predicates are parenthesized and conjoined with AND. When there are no
predicates, appends nothing, unless the condition is required, in which case
this panics with `ErrMissingCondition`.
*/
func appendWhere(bui *Bui, src any, required bool, while string) {
	exprs := condExprs(nil, src)

	if len(exprs) == 0 {
		if required {
			panic(errMissingCondition(while))
		}
		return
	}

	bui.Str(`WHERE`)

	if len(exprs) == 1 {
		bui.Expr(exprs[0])
		return
	}

	for ind, expr := range exprs {
		if ind > 0 {
			bui.Str(`AND`)
		}
		bui.Str(`(`)
		bui.Expr(expr)
		bui.Raw(`)`)
	}
}
