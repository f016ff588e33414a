package crud

/*
Short for "expression". Defines an arbitrary SQL expression. The method appends
arbitrary SQL text. In both the input and output, the arguments must correspond
to the parameters in the SQL text. This package always generates
Postgres-style ordinal parameters such as "$1", renumerating them as necessary.

This method is allowed to panic with `Err`. Use `Render` or `(*Bui).CatchExprs`
to catch expression-encoding panics and convert them to errors.

Every statement type in this package implements `Expr`.
*/
type Expr interface {
	AppendExpr([]byte, []any) ([]byte, []any)
}

/*
Encodes the provided expressions and returns the resulting text and args.
Panics on invalid input. Provided mostly for examples; actual code should use
`Render`, which returns errors instead.
*/
func Reify(vals ...Expr) (string, []any) {
	var bui Bui
	bui.Exprs(vals...)
	return bui.Reify()
}

/*
Encodes the provided statement, returning the SQL text and the args for any
bound parameters. Any input validation failure is returned as an error of type
`Err`; in that case the text is empty and no statement should be issued.
*/
func Render(val Expr) (text string, args []any, err error) {
	bui := MakeBui(128, 0)
	err = bui.CatchExprs(val)
	if err != nil {
		return ``, nil, err
	}
	text, args = bui.Reify()
	if len(args) == 0 {
		args = nil
	}
	return
}
