package crud

import "strconv"

/*
Prealloc tool. Makes a `Bui` with the specified capacity of the text and args
buffers.
*/
func MakeBui(textCap, argsCap int) Bui {
	return Bui{
		make([]byte, 0, textCap),
		make([]any, 0, argsCap),
	}
}

/*
Short for "builder". Tiny shortcut for building SQL statements. Used internally
by every statement type in this package. Careful use of `Bui` incurs very little
overhead compared to writing the corresponding code inline.
*/
type Bui struct {
	Text []byte
	Args []any
}

// Returns text and args as-is. Useful shortcut for passing them to
// `AppendExpr`.
func (self Bui) Get() ([]byte, []any) {
	return self.Text, self.Args
}

/*
Replaces text and args with the inputs. The following idiom is equivalent to
`bui.Expr` but avoids an interface-induced allocation:

	bui.Set(SomeExpr{}.AppendExpr(bui.Get()))
*/
func (self *Bui) Set(text []byte, args []any) {
	self.Text = text
	self.Args = args
}

// Shortcut for `self.String(), self.Args`. Go database drivers tend to require
// `string, []any` as inputs for queries and statements.
func (self Bui) Reify() (string, []any) {
	return self.String(), self.Args
}

// Returns inner text as a string, performing a free cast.
func (self Bui) String() string {
	return bytesToMutableString(self.Text)
}

// Adds a space if the preceding text doesn't already end with a terminator.
func (self *Bui) Space() {
	self.Text = maybeAppendSpace(self.Text)
}

// Appends the provided string, delimiting it from the previous text with a
// space if necessary.
func (self *Bui) Str(val string) {
	self.Text = appendMaybeSpaced(self.Text, val)
}

// Appends the provided string exactly as-is, without any delimiting.
func (self *Bui) Raw(val string) {
	self.Text = append(self.Text, val...)
}

// Appends a decimal integer, delimited from the preceding text by a space.
func (self *Bui) Int(val int) {
	self.Space()
	self.Text = strconv.AppendInt(self.Text, int64(val), 10)
}

/*
Appends a comma-separated list wrapped in parens, such as `(one, two)`. The
opening paren is delimited from the preceding text by a space.
*/
func (self *Bui) Parens(vals []string) {
	self.Space()
	self.Raw(`(`)
	self.Comma(vals)
	self.Raw(`)`)
}

// Appends a comma-separated list without any wrapping.
func (self *Bui) Comma(vals []string) {
	for ind, val := range vals {
		if ind > 0 {
			self.Raw(`, `)
		}
		self.Raw(val)
	}
}

/*
Appends an expression, delimited from the preceding text by a space, if
necessary. Nil input is a nop: nothing will be appended.
*/
func (self *Bui) Expr(val Expr) {
	if val != nil {
		self.Space()
		self.Set(val.AppendExpr(self.Get()))
	}
}

// Appends each expr by calling `(*Bui).Expr`. They will be space-separated as
// necessary.
func (self *Bui) Exprs(vals ...Expr) {
	for _, val := range vals {
		self.Expr(val)
	}
}

// Same as `(*Bui).Exprs` but catches panics. Since statement encoding in this
// package uses panics, this should be used for final reification.
func (self *Bui) CatchExprs(vals ...Expr) (err error) {
	defer rec(&err)
	self.Exprs(vals...)
	return
}
