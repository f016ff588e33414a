package crud

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"math"
	"testing"
	"time"
)

type FailingValuer struct{}

func (FailingValuer) Value() (driver.Value, error) { return nil, errors.New(`valuer failure`) }

type Level byte

func (self Level) MarshalText() ([]byte, error) {
	return []byte([]string{`low`, `high`}[self]), nil
}

func TestQuote(t *testing.T) {
	eq(t, `''`, Quote(``))
	eq(t, `'john'`, Quote(`john`))
	eq(t, `'o''neil'`, Quote(`o'neil`))
	eq(t, `''''''`, Quote(`''`))
	eq(t, `'one, two'`, Quote(`one, two`))
}

func TestLiteral(t *testing.T) {
	test := func(exp string, src any) {
		t.Helper()
		out, err := Literal(src)
		noErr(t, err)
		eq(t, exp, out)
	}

	test(`NULL`, nil)
	test(`NULL`, (*string)(nil))
	test(`NULL`, sql.NullString{})
	test(`'val'`, sql.NullString{String: `val`, Valid: true})
	test(`10`, sql.NullInt64{Int64: 10, Valid: true})

	test(`now()`, Raw(`now()`))

	test(`'john'`, `john`)
	test(`'o''neil'`, `o'neil`)
	str := `pointed`
	test(`'pointed'`, &str)

	test(`TRUE`, true)
	test(`FALSE`, false)

	test(`0`, 0)
	test(`-12`, int8(-12))
	test(`43`, int64(43))
	test(`43`, uint16(43))
	test(`1.5`, 1.5)
	test(`0.000001`, 0.000001)
	test(`100000000000000000000`, 1e20)
	test(`0.1`, float32(0.1))
	test(`-2.75`, float32(-2.75))

	test(`'2024-01-02T03:04:05.000000006Z'`, time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC))
	test(`'high'`, Level(1))

	t.Run(`unsupported`, func(t *testing.T) {
		test := func(src any) {
			t.Helper()
			out, err := Literal(src)
			errIs(t, ErrMalformedEntry, err)
			eq(t, ``, out)
		}

		test([]byte(`bytes`))
		test([]string{`one`})
		test(struct{}{})
		test(math.NaN())
		test(math.Inf(1))
		test(FailingValuer{})
	})
}
