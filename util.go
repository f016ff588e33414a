package crud

import (
	"database/sql"
	"errors"
	r "reflect"
	"strings"
	"time"
	"unsafe"
)

const (
	commaDelim         = ','
	parenOpen          = '('
	parenClose         = ')'
	commentLinePrefix  = `--`
	commentBlockPrefix = `/*`
	commentBlockSuffix = `*/`
	quoteSingle        = '\''
	quoteDouble        = '"'
	quoteGrave         = '`'
)

var (
	typeTime        = r.TypeOf((*time.Time)(nil)).Elem()
	sqlScannerRtype = r.TypeOf((*sql.Scanner)(nil)).Elem()

	charsetSpace      = new(charset).addStr(" \t\v")
	charsetNewline    = new(charset).addStr("\r\n")
	charsetWhitespace = new(charset).addSet(charsetSpace).addSet(charsetNewline)
	charsetDelimStart = new(charset).addSet(charsetWhitespace).addStr(`([{.`)
	charsetDelimEnd   = new(charset).addSet(charsetWhitespace).addStr(`,}])`)
)

type charset [256]bool

func (self *charset) has(val byte) bool { return self[val] }

func (self *charset) addStr(vals string) *charset {
	for _, val := range vals {
		self[val] = true
	}
	return self
}

func (self *charset) addSet(vals *charset) *charset {
	for ind, val := range vals {
		if val {
			self[ind] = true
		}
	}
	return self
}

/*
Allocation-free conversion. Reinterprets a byte slice as a string. Borrowed from
the standard library. Reasonably safe. Should not be used when the underlying
byte array is volatile.
*/
func bytesToMutableString(bytes []byte) string {
	return *(*string)(unsafe.Pointer(&bytes))
}

func maybeAppendSpace(val []byte) []byte {
	if hasDelimSuffix(bytesToMutableString(val)) {
		return val
	}
	return append(val, ` `...)
}

func appendMaybeSpaced(text []byte, suffix string) []byte {
	if !hasDelimSuffix(bytesToMutableString(text)) && !hasDelimPrefix(suffix) {
		text = append(text, ` `...)
	}
	text = append(text, suffix...)
	return text
}

func hasDelimPrefix(text string) bool {
	return len(text) == 0 || charsetDelimEnd.has(text[0])
}

func hasDelimSuffix(text string) bool {
	return len(text) == 0 || charsetDelimStart.has(text[len(text)-1])
}

func isWhitespace(char byte) bool { return charsetWhitespace.has(char) }

func trimSpace(val string) string {
	return strings.TrimFunc(val, func(char rune) bool {
		return char < 256 && isWhitespace(byte(char))
	})
}

/*
Splits off the leading name. The name ends at the first whitespace or comment
outside of quotes, so `"first name" text` yields `"first name"`. The rest is
trimmed.
*/
func cutToken(val string) (head, tail string) {
	val = trimSpace(val)
	tokenizer := Tokenizer{Source: val}
	var ind int

	for {
		tok := tokenizer.Next()
		if tok.IsInvalid() {
			return val, ``
		}
		switch tok.Type {
		case TokenTypeWhitespace, TokenTypeCommentLine, TokenTypeCommentBlock:
			return val[:ind], trimSpace(val[ind:])
		}
		ind += len(tok.Text)
	}
}

func isScannableRtype(typ r.Type) bool {
	typ = typeDeref(typ)
	return typ != nil && (typ == typeTime || r.PointerTo(typ).Implements(sqlScannerRtype))
}

func typeDeref(typ r.Type) r.Type {
	for typ != nil && typ.Kind() == r.Pointer {
		typ = typ.Elem()
	}
	return typ
}

func isNil(val any) bool {
	if val == nil {
		return true
	}
	rval := r.ValueOf(val)
	switch rval.Kind() {
	case r.Chan, r.Func, r.Interface, r.Map, r.Pointer, r.Slice:
		return rval.IsNil()
	default:
		return false
	}
}

func try(err error) {
	if err != nil {
		panic(err)
	}
}

// Must be deferred.
func rec(ptr *error) {
	val := recover()
	if val == nil {
		return
	}

	err, _ := val.(error)
	if err != nil {
		*ptr = err
		return
	}

	panic(val)
}

/*
Must be deferred. Re-panics errors not produced by this package, such as parse
errors of the SQL tokenizer, as `ErrMalformedEntry`.
*/
func recForeign(while string) {
	val := recover()
	if val == nil {
		return
	}

	err, _ := val.(error)
	if err != nil && !errors.As(err, new(Err)) {
		panic(ErrMalformedEntry.while(while).because(err))
	}
	panic(val)
}
