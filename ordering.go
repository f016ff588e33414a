package crud

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	DirNone Dir = 0
	DirAsc  Dir = 1
	DirDesc Dir = 2
)

// Short for "direction". Enum for ordering direction: none, "ASC", "DESC".
type Dir byte

// Appends the keyword, delimited by a space. Nop for `DirNone`.
func (self Dir) Append(text []byte) []byte {
	if self == DirNone {
		return text
	}
	return appendMaybeSpaced(text, self.String())
}

// Implement `fmt.Stringer`. Returns the SQL keyword in upper case.
func (self Dir) String() string {
	switch self {
	default:
		return ``
	case DirAsc:
		return `ASC`
	case DirDesc:
		return `DESC`
	}
}

// Parses from a string, which must be empty, "asc" or "desc", in any case.
func (self *Dir) Parse(src string) error {
	switch strings.ToLower(src) {
	case ``:
		*self = DirNone
		return nil
	case `asc`:
		*self = DirAsc
		return nil
	case `desc`:
		*self = DirDesc
		return nil
	default:
		return errMalformed(`parsing order direction`, `unrecognized direction %q`, src)
	}
}

// Implement `encoding.TextMarshaler`.
func (self Dir) MarshalText() ([]byte, error) {
	return []byte(self.String()), nil
}

// Implement `encoding.TextUnmarshaler`.
func (self *Dir) UnmarshalText(src []byte) error {
	return self.Parse(string(src))
}

// Implement `fmt.GoStringer` for debug purposes. Returns valid Go code
// representing this value.
func (self Dir) GoString() string {
	switch self {
	default:
		return `crud.DirNone`
	case DirAsc:
		return `crud.DirAsc`
	case DirDesc:
		return `crud.DirDesc`
	}
}

const (
	NullsNone  Nulls = 0
	NullsFirst Nulls = 1
	NullsLast  Nulls = 2
)

// Enum for nulls handling in ordering: none, "NULLS FIRST", "NULLS LAST".
type Nulls byte

// Appends the keywords, delimited by a space. Nop for `NullsNone`.
func (self Nulls) Append(text []byte) []byte {
	if self == NullsNone {
		return text
	}
	return appendMaybeSpaced(text, self.String())
}

// Implement `fmt.Stringer`. Returns the SQL keywords in upper case.
func (self Nulls) String() string {
	switch self {
	case NullsFirst:
		return `NULLS FIRST`
	case NullsLast:
		return `NULLS LAST`
	default:
		return ``
	}
}

// Parses from a string, which must be empty, "first" or "last", in any case.
func (self *Nulls) Parse(src string) error {
	switch strings.ToLower(src) {
	case ``:
		*self = NullsNone
		return nil
	case `first`:
		*self = NullsFirst
		return nil
	case `last`:
		*self = NullsLast
		return nil
	default:
		return errMalformed(`parsing nulls ordering`, `unrecognized nulls ordering %q`, src)
	}
}

// Implement `fmt.GoStringer` for debug purposes. Returns valid Go code
// representing this value.
func (self Nulls) GoString() string {
	switch self {
	case NullsFirst:
		return `crud.NullsFirst`
	case NullsLast:
		return `crud.NullsLast`
	default:
		return `crud.NullsNone`
	}
}

var ordDescReg = regexp.MustCompile(`(?i)^\s*(?:(asc|desc)\b)?\s*(?:nulls\s+(first|last))?\s*$`)

/*
Parses an index column descriptor, which may be empty, or contain a direction,
a nulls ordering, or both, in this order and in any case:

	``
	`asc`
	`DESC NULLS LAST`
	`nulls first`

Anything else is rejected with `ErrMalformedEntry`.
*/
func ParseOrdering(src string) (dir Dir, nulls Nulls, err error) {
	match := ordDescReg.FindStringSubmatch(src)
	if match == nil {
		err = errMalformed(`parsing index column descriptor`, `expected an optional direction (ASC or DESC) followed by an optional nulls ordering (NULLS FIRST or NULLS LAST), got %q`, src)
		return
	}

	err = dir.Parse(match[1])
	if err != nil {
		return
	}
	err = nulls.Parse(match[2])
	return
}

/*
Structured representation of one column of an index, such as
"name ASC NULLS FIRST". Descriptors are validated and their keywords are
rendered in upper case.
*/
type IndexCol struct {
	Name  string
	Dir   Dir
	Nulls Nulls
}

// Implement the `Expr` interface, making this a sub-expression.
func (self IndexCol) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return self.Append(text), args
}

// Appends the column name and its modifiers, if any.
func (self IndexCol) Append(text []byte) []byte {
	text = appendMaybeSpaced(text, self.Name)
	text = self.Dir.Append(text)
	text = self.Nulls.Append(text)
	return text
}

// Implement `fmt.Stringer`.
func (self IndexCol) String() string { return string(self.Append(nil)) }

// Implement `fmt.GoStringer` for debug purposes.
func (self IndexCol) GoString() string {
	return fmt.Sprintf(`crud.IndexCol{%q, %#v, %#v}`, self.Name, self.Dir, self.Nulls)
}

func pairIndexCol(pair Pair) IndexCol {
	dir, nulls, err := ParseOrdering(pair.Desc)
	if err != nil {
		panic(errMalformed(`building index column`, `invalid descriptor for column %q: %w`, pair.Name, err))
	}
	return IndexCol{pair.Name, dir, nulls}
}
