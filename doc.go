/*
Flexible SQL statement builder and executor. Accepts column, value, and
condition specs in several shapes, normalizes them into one canonical ordered
form, renders CREATE TABLE, CREATE INDEX, INSERT, SELECT, UPDATE, DELETE, and
DROP TABLE, and executes the result against Postgres or SQLite.

Key Features

• Every spec shape describing the same columns produces the same SQL: a
delimited string, a sequence of segments, a sequence of pairs, a sequence of
single-entry mappings, an ordered `Dict`, or a struct with `db` tags. See
`Normalize`.

• Delimited strings are split only on top-level commas, so "numeric(10, 2)" and
quoted commas stay intact.

• Column order is always the order of the input. Plain Go maps are rejected
because they have no order.

• UPDATE and DELETE refuse to render without a condition.

• Parametrized conditions use ordinal parameters such as $1, automatically
renumerated when combined. Arguments are returned alongside the text.

• Every failure is an `Err` with a code, matched via `errors.Is`. Validation
failures are always detected before any SQL reaches the database.

Trust

String fragments, such as column descriptors, values, and conditions, are raw
SQL inserted verbatim. The caller is responsible for quoting them. For safe
handling of untrusted values, use struct specs, which encode field values via
`Literal`, or `Cond` arguments, which are bound by the driver.

Examples

See `Crud`, `CreateTable`, `Insert`, `Select`, and `Normalize` for examples.
*/
package crud
