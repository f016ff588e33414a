package crud

import (
	"database/sql/driver"
	"encoding"
	"math"
	r "reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitranim/refut"
)

/*
Verbatim SQL fragment. When used as a struct field value or passed to
`Literal`, it's inserted into the statement as-is, without quoting. Useful for
expressions such as `now()` or `DEFAULT`.
*/
type Raw string

// Implement the `Expr` interface, making this a sub-expression.
func (self Raw) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return appendMaybeSpaced(text, string(self)), args
}

/*
Returns the value as a single-quoted SQL string literal, doubling any embedded
single quotes:

	Quote(`john`)  // 'john'
	Quote(`o'neil`) // 'o''neil'
*/
func Quote(val string) string {
	return string(appendQuoted(nil, val))
}

func appendQuoted(buf []byte, val string) []byte {
	buf = append(buf, quoteSingle)
	for {
		ind := strings.IndexByte(val, quoteSingle)
		if ind < 0 {
			break
		}
		buf = append(buf, val[:ind+1]...)
		buf = append(buf, quoteSingle)
		val = val[ind+1:]
	}
	buf = append(buf, val...)
	buf = append(buf, quoteSingle)
	return buf
}

/*
Encodes an arbitrary Go value as a SQL literal suitable for direct inclusion into
statement text. Used for converting struct field values into the descriptors of
mapping-based inserts and updates. Supports ONLY the following, in this order of
priority; other types produce `ErrMalformedEntry`:

	* Nil and nil pointers: NULL.
	* `Raw`: as-is.
	* `driver.Valuer`: the encoded value.
	* `time.Time`: quoted RFC3339 with nanoseconds.
	* `encoding.TextMarshaler`: quoted text.
	* Strings: quoted.
	* Booleans: TRUE or FALSE.
	* Integers and finite floats: decimal, without exponent.
*/
func Literal(src any) (string, error) {
	buf, err := AppendLiteral(nil, src)
	return string(buf), err
}

// Appender version of `Literal`.
func AppendLiteral(buf []byte, src any) (_ []byte, err error) {
	defer rec(&err)
	return appendLiteral(buf, src), nil
}

func appendLiteral(buf []byte, src any) []byte {
	if refut.IsNil(src) {
		return append(buf, `NULL`...)
	}

	switch src := src.(type) {
	case Raw:
		return append(buf, src...)

	case driver.Valuer:
		val, err := src.Value()
		if err != nil {
			panic(ErrMalformedEntry.while(`encoding literal`).because(err))
		}
		return appendLiteral(buf, val)

	case time.Time:
		return appendQuoted(buf, src.Format(time.RFC3339Nano))

	case encoding.TextMarshaler:
		chunk, err := src.MarshalText()
		if err != nil {
			panic(ErrMalformedEntry.while(`encoding literal`).because(err))
		}
		return appendQuoted(buf, bytesToMutableString(chunk))
	}

	val := r.ValueOf(src)
	if val.Kind() == r.Pointer {
		return appendLiteral(buf, val.Elem().Interface())
	}

	switch val.Kind() {
	case r.String:
		return appendQuoted(buf, val.String())

	case r.Bool:
		if val.Bool() {
			return append(buf, `TRUE`...)
		}
		return append(buf, `FALSE`...)

	case r.Int8, r.Int16, r.Int32, r.Int64, r.Int:
		return strconv.AppendInt(buf, val.Int(), 10)

	case r.Uint8, r.Uint16, r.Uint32, r.Uint64, r.Uint:
		return strconv.AppendUint(buf, val.Uint(), 10)

	case r.Float32, r.Float64:
		num := val.Float()
		if math.IsNaN(num) || math.IsInf(num, 0) {
			panic(errMalformed(`encoding literal`, `unsupported non-finite float %v`, num))
		}
		return strconv.AppendFloat(buf, num, 'f', -1, val.Type().Bits())

	default:
		panic(errMalformed(`encoding literal`, `unsupported literal of type %T`, src))
	}
}
