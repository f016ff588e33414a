package crud

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

/*
Partial SQL tokenizer used internally to split delimited string specs such as
"id serial, price numeric(10, 2)" into their top-level segments.

Goals:

	* Correctly recognize whitespace, comments, quoted strings and identifiers,
	  commas, and parens, so that commas inside quotes or parens never split a
	  segment.

	* Decently fast and allocation-free tokenization.

Non-goals:

	* Full SQL parser.

Notable limitations:

	* No special support for dollar-quoted strings.
*/
type Tokenizer struct {
	Source string
	cursor int
	next   Token
}

/*
Returns the next token if possible. When the tokenizer reaches the end, this
returns an empty `Token{}`. Call `Token.IsInvalid` to detect the end. Panics
with `ErrMalformedEntry` on unterminated quotes or block comments.
*/
func (self *Tokenizer) Next() Token {
	next := self.next
	if !next.IsInvalid() {
		self.next = Token{}
		return next
	}

	start := self.cursor

	for self.more() {
		mid := self.cursor
		if self.maybeWhitespace(); self.cursor > mid {
			return self.choose(start, mid, TokenTypeWhitespace)
		}
		if self.maybeQuotedSingle(); self.cursor > mid {
			return self.choose(start, mid, TokenTypeQuotedSingle)
		}
		if self.maybeQuotedDouble(); self.cursor > mid {
			return self.choose(start, mid, TokenTypeQuotedDouble)
		}
		if self.maybeQuotedGrave(); self.cursor > mid {
			return self.choose(start, mid, TokenTypeQuotedGrave)
		}
		if self.maybeCommentLine(); self.cursor > mid {
			return self.choose(start, mid, TokenTypeCommentLine)
		}
		if self.maybeCommentBlock(); self.cursor > mid {
			return self.choose(start, mid, TokenTypeCommentBlock)
		}
		if self.maybeByte(commaDelim); self.cursor > mid {
			return self.choose(start, mid, TokenTypeComma)
		}
		if self.maybeByte(parenOpen); self.cursor > mid {
			return self.choose(start, mid, TokenTypeParenOpen)
		}
		if self.maybeByte(parenClose); self.cursor > mid {
			return self.choose(start, mid, TokenTypeParenClose)
		}
		self.skipChar()
	}

	if self.cursor > start {
		return Token{self.from(start), TokenTypeText}
	}
	return Token{}
}

func (self *Tokenizer) choose(start, mid int, typ TokenType) Token {
	tok := Token{self.from(mid), typ}
	if mid > start {
		self.next = tok
		return Token{self.Source[start:mid], TokenTypeText}
	}
	return tok
}

func (self *Tokenizer) maybeWhitespace() {
	for self.more() && charsetWhitespace.has(self.headByte()) {
		self.skipBytes(1)
	}
}

func (self *Tokenizer) maybeQuotedSingle() {
	self.maybeStringBetweenBytes(quoteSingle, quoteSingle)
}

func (self *Tokenizer) maybeQuotedDouble() {
	self.maybeStringBetweenBytes(quoteDouble, quoteDouble)
}

func (self *Tokenizer) maybeQuotedGrave() {
	self.maybeStringBetweenBytes(quoteGrave, quoteGrave)
}

func (self *Tokenizer) maybeCommentLine() {
	if !self.skippedString(commentLinePrefix) {
		return
	}
	for self.more() && !charsetNewline.has(self.headByte()) {
		self.skipChar()
	}
}

func (self *Tokenizer) maybeCommentBlock() {
	self.maybeStringBetween(commentBlockPrefix, commentBlockSuffix)
}

func (self *Tokenizer) maybeByte(val byte) {
	_ = self.skippedByte(val)
}

func (self *Tokenizer) skipChar() {
	_, size := utf8.DecodeRuneInString(self.rest())
	self.skipBytes(size)
}

func (self *Tokenizer) maybeStringBetween(prefix, suffix string) {
	if !self.skippedString(prefix) {
		return
	}

	for self.more() {
		if self.skippedString(suffix) {
			return
		}
		self.skipChar()
	}

	panic(ErrMalformedEntry.while(`tokenizing SQL`).because(
		fmt.Errorf(`expected closing %q, got unexpected %w`, suffix, io.EOF),
	))
}

/*
SQL escapes a quote inside a quoted string by doubling it, for example
'it''s'. This is handled naturally: the first quote closes the string and the
second one opens another, and the tokenizer never splits on either.
*/
func (self *Tokenizer) maybeStringBetweenBytes(prefix, suffix byte) {
	if !self.skippedByte(prefix) {
		return
	}

	for self.more() {
		if self.skippedByte(suffix) {
			return
		}
		self.skipChar()
	}

	panic(ErrMalformedEntry.while(`tokenizing SQL`).because(
		fmt.Errorf(`expected closing %q, got unexpected %w`, rune(suffix), io.EOF),
	))
}

func (self *Tokenizer) skipBytes(val int) {
	self.cursor += val
}

func (self *Tokenizer) more() bool {
	return self.cursor < len(self.Source)
}

func (self *Tokenizer) rest() string {
	return self.Source[self.cursor:]
}

func (self *Tokenizer) from(start int) string {
	return self.Source[start:self.cursor]
}

func (self *Tokenizer) headByte() byte {
	return self.Source[self.cursor]
}

func (self *Tokenizer) skippedByte(val byte) bool {
	if self.more() && self.headByte() == val {
		self.skipBytes(1)
		return true
	}
	return false
}

func (self *Tokenizer) skippedString(val string) bool {
	if strings.HasPrefix(self.rest(), val) {
		self.skipBytes(len(val))
		return true
	}
	return false
}

const (
	TokenTypeInvalid TokenType = iota
	TokenTypeText
	TokenTypeWhitespace
	TokenTypeQuotedSingle
	TokenTypeQuotedDouble
	TokenTypeQuotedGrave
	TokenTypeCommentLine
	TokenTypeCommentBlock
	TokenTypeComma
	TokenTypeParenOpen
	TokenTypeParenClose
)

// Part of `Token`.
type TokenType byte

// Represents an arbitrary chunk of SQL text parsed by `Tokenizer`.
type Token struct {
	Text string
	Type TokenType
}

/*
True if the token's type is `TokenTypeInvalid`. This is used to detect end of
iteration when calling `(*Tokenizer).Next`.
*/
func (self Token) IsInvalid() bool {
	return self.Type == TokenTypeInvalid
}

// Implement `fmt.Stringer` for debug purposes.
func (self Token) String() string { return self.Text }

/*
Splits the source on top-level commas: commas inside quotes, comments, or
parens don't count. Comments are dropped. Segments are trimmed but otherwise
verbatim. Empty segments are preserved as empty strings, allowing the caller
to reject them. Panics with `ErrMalformedEntry` on unbalanced parens.
*/
func splitTopLevel(src string) []string {
	var out []string
	var buf strings.Builder
	var depth int
	tokenizer := Tokenizer{Source: src}

	for {
		tok := tokenizer.Next()
		if tok.IsInvalid() {
			break
		}

		switch tok.Type {
		case TokenTypeCommentLine, TokenTypeCommentBlock:
			buf.WriteByte(' ')
			continue

		case TokenTypeParenOpen:
			depth++

		case TokenTypeParenClose:
			depth--
			if depth < 0 {
				panic(errMalformed(`splitting string spec`, `unbalanced %q in %q`, parenClose, src))
			}

		case TokenTypeComma:
			if depth == 0 {
				out = append(out, trimSpace(buf.String()))
				buf.Reset()
				continue
			}
		}

		buf.WriteString(tok.Text)
	}

	if depth != 0 {
		panic(errMalformed(`splitting string spec`, `unbalanced %q in %q`, parenOpen, src))
	}

	out = append(out, trimSpace(buf.String()))
	return out
}
