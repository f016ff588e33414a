package crud

import (
	"errors"
	"fmt"
)

/*
Error codes. You probably shouldn't use this directly; instead, use the `Err`
variables with `errors.Is`.
*/
type ErrCode string

const (
	ErrCodeUnknown                  ErrCode = ""
	ErrCodeInvalidSpecKind          ErrCode = "InvalidSpecKind"
	ErrCodeMalformedEntry           ErrCode = "MalformedEntry"
	ErrCodeEmptySpec                ErrCode = "EmptySpec"
	ErrCodeColumnValueCountMismatch ErrCode = "ColumnValueCountMismatch"
	ErrCodeMissingCondition         ErrCode = "MissingCondition"
	ErrCodeDriver                   ErrCode = "DriverError"
	ErrCodeConnection               ErrCode = "ConnectionError"
	ErrCodeInternal                 ErrCode = "Internal"
)

/*
Use blank error variables to detect error types:

	if errors.Is(err, crud.ErrMissingCondition) {
		// Handle specific error.
	}

Note that errors returned by this package can't be compared via `==` because
they may include additional details about the circumstances. When compared by
`errors.Is`, they compare `.Cause` and fall back on `.Code`.

Normalization errors (everything except `ErrDriver` and `ErrConnection`) are
always returned before any SQL reaches the database.
*/
var (
	ErrInvalidSpecKind          = Err{Code: ErrCodeInvalidSpecKind, Cause: errors.New(`invalid spec kind`)}
	ErrMalformedEntry           = Err{Code: ErrCodeMalformedEntry, Cause: errors.New(`malformed entry`)}
	ErrEmptySpec                = Err{Code: ErrCodeEmptySpec, Cause: errors.New(`empty spec`)}
	ErrColumnValueCountMismatch = Err{Code: ErrCodeColumnValueCountMismatch, Cause: errors.New(`column and value counts differ`)}
	ErrMissingCondition         = Err{Code: ErrCodeMissingCondition, Cause: errors.New(`missing condition`)}
	ErrDriver                   = Err{Code: ErrCodeDriver, Cause: errors.New(`driver error`)}
	ErrConnection               = Err{Code: ErrCodeConnection, Cause: errors.New(`connection error`)}
	ErrInternal                 = Err{Code: ErrCodeInternal, Cause: errors.New(`internal error`)}
)

// Type of errors returned by this package.
type Err struct {
	Code  ErrCode
	While string
	Cause error
}

// Implement `error`.
func (self Err) Error() string {
	if self == (Err{}) {
		return ``
	}
	msg := `[crud]`
	if self.Code != ErrCodeUnknown {
		msg += fmt.Sprintf(` %s`, self.Code)
	} else {
		msg += ` error`
	}
	if self.While != `` {
		msg += fmt.Sprintf(` while %v`, self.While)
	}
	if self.Cause != nil {
		msg += `: ` + self.Cause.Error()
	}
	return msg
}

// Implement a hidden interface in "errors".
func (self Err) Is(other error) bool {
	if self.Cause != nil && errors.Is(self.Cause, other) {
		return true
	}
	err, ok := other.(Err)
	return ok && err.Code != ErrCodeUnknown && err.Code == self.Code
}

// Implement a hidden interface in "errors".
func (self Err) Unwrap() error {
	return self.Cause
}

func (self Err) while(while string) Err {
	self.While = while
	return self
}

func (self Err) because(cause error) Err {
	self.Cause = cause
	return self
}

func errf(code ErrCode, while string, pattern string, args ...any) Err {
	return Err{Code: code, While: while, Cause: fmt.Errorf(pattern, args...)}
}

func errInvalidSpecKind(while string, val any) Err {
	return errf(ErrCodeInvalidSpecKind, while, `unsupported spec of type %T; expected a string, a sequence of strings, a sequence of pairs, a sequence of single-entry mappings, a Dict, or a struct`, val)
}

func errMalformed(while string, pattern string, args ...any) Err {
	return errf(ErrCodeMalformedEntry, while, pattern, args...)
}

func errEmpty(while string) Err {
	return errf(ErrCodeEmptySpec, while, `expected at least one entry`)
}

func errCountMismatch(while string, cols, vals int) Err {
	return errf(ErrCodeColumnValueCountMismatch, while, `got %d columns and %d values`, cols, vals)
}

func errMissingCondition(while string) Err {
	return errf(ErrCodeMissingCondition, while, `refusing to run without a condition; use a condition such as "true" to target every row`)
}
