package crud

import (
	"fmt"
	r "reflect"
	"strings"
)

/*
Decides how string segments of a spec decompose into a `Pair`. Non-string
shapes such as `Pairs` or `Dict` already carry a name and a descriptor; the mode
only decides whether the descriptor is required.
*/
type Mode byte

const (
	/**
	The entire segment is the name, used verbatim. Used for column lists, value
	lists, conditions, and other already-formatted SQL fragments.
	*/
	ModeRaw Mode = iota

	/**
	The first whitespace-delimited token is the name, the remainder is the
	descriptor, which must be non-empty. Used for table columns and for
	mapping-based inserts and updates.
	*/
	ModeDesc

	// Like `ModeDesc`, but the descriptor may be empty. Used for index columns.
	ModeOpt
)

// Implement `fmt.Stringer` for debug purposes.
func (self Mode) String() string {
	switch self {
	case ModeDesc:
		return `desc`
	case ModeOpt:
		return `opt`
	default:
		return `raw`
	}
}

/*
Canonical form of every spec. A named column with an associated descriptor: a
type and constraints for table creation, a direction and nulls ordering for
index creation, or a literal SQL value for inserts and updates.
*/
type Pair struct {
	Name string
	Desc string
}

// Returns the name and descriptor joined by a space. An empty descriptor is
// omitted.
func (self Pair) String() string {
	if self.Desc == `` {
		return self.Name
	}
	return self.Name + ` ` + self.Desc
}

/*
Sealed tagged union of accepted spec shapes: `Str`, `Strs`, `Pairs`, `Entries`,
`Dict`, and `Fields`. Use `Normalize` to convert any of them, or an equivalent
plain Go value, into the canonical `[]Pair`.
*/
type Spec interface {
	appendPairs([]Pair, Mode) []Pair
}

/*
Converts a spec of any accepted shape into the canonical ordered sequence of
pairs. Accepts the `Spec` variants of this package, plus plain Go values that
map onto them:

	string                -> Str
	[]string              -> Strs
	[][2]string           -> Pairs
	[][]string            -> Pairs (every element must have length 2)
	[]map[string]string   -> Entries
	struct or struct ptr  -> Fields

Plain Go maps are rejected with `ErrInvalidSpecKind` because their iteration
order is unspecified; use `Dict` or a struct instead. Entries that can't be
decomposed are rejected with `ErrMalformedEntry`, and specs without any entries
with `ErrEmptySpec`.
*/
func Normalize(src any, mode Mode) (out []Pair, err error) {
	defer rec(&err)
	out = normalize(src, mode)
	return
}

// Panicking version of `Normalize` used internally by statements.
func normalize(src any, mode Mode) []Pair {
	out := toSpec(src).appendPairs(nil, mode)
	if len(out) == 0 {
		panic(errEmpty(`normalizing spec`))
	}
	return out
}

// Like `normalize`, but returns only the joined `Pair.String` of each entry.
func normalizeRaw(src any) []string {
	pairs := normalize(src, ModeRaw)
	out := make([]string, len(pairs))
	for ind, pair := range pairs {
		out[ind] = pair.String()
	}
	return out
}

func toSpec(src any) Spec {
	switch src := src.(type) {
	case Spec:
		if r.ValueOf(src).Kind() == r.Pointer && isNil(src) {
			panic(errInvalidSpecKind(`normalizing spec`, src))
		}
		return src
	case string:
		return Str(src)
	case []string:
		return Strs(src)
	case [][2]string:
		return Pairs(src)
	case [][]string:
		return pairsFromSlices(src)
	case []map[string]string:
		return Entries(src)
	}

	if isStructType(r.TypeOf(src)) {
		return Fields{src}
	}
	panic(errInvalidSpecKind(`normalizing spec`, src))
}

func pairsFromSlices(src [][]string) Pairs {
	out := make(Pairs, 0, len(src))
	for ind, val := range src {
		if len(val) != 2 {
			panic(errMalformed(`normalizing spec`, `expected entry %d to have 2 elements (name and descriptor), got %d: %q`, ind, len(val), val))
		}
		out = append(out, [2]string{val[0], val[1]})
	}
	return out
}

func isStructType(typ r.Type) bool {
	typ = typeDeref(typ)
	return typ != nil && typ.Kind() == r.Struct && !isScannableRtype(typ)
}

/*
Validates a name/descriptor pair and appends it. Used by every variant. Names
and descriptors are trimmed in every mode.
*/
func appendPair(buf []Pair, mode Mode, name, desc string) []Pair {
	name, desc = trimSpace(name), trimSpace(desc)

	if name == `` {
		panic(errMalformed(`normalizing spec`, `entry %d has an empty name`, len(buf)))
	}
	if mode == ModeDesc && desc == `` {
		panic(errMalformed(`normalizing spec`, `entry %q is missing a descriptor`, name))
	}
	return append(buf, Pair{name, desc})
}

// Decomposes one string segment according to the mode.
func appendSegment(buf []Pair, mode Mode, seg string) []Pair {
	seg = trimSpace(seg)
	if seg == `` {
		panic(errMalformed(`normalizing spec`, `entry %d is empty`, len(buf)))
	}
	if mode == ModeRaw {
		return appendPair(buf, mode, seg, ``)
	}
	name, desc := cutToken(seg)
	return appendPair(buf, mode, strings.TrimSuffix(name, `:`), desc)
}

/*
Delimited string such as "id serial, name text NOT NULL". Only top-level commas
split segments: commas inside quotes, parens, or comments are ignored. An empty
or blank string has no entries. Outside of `ModeRaw`, the name may be followed
by a colon: "id: serial" is equivalent to "id serial".
*/
type Str string

func (self Str) appendPairs(buf []Pair, mode Mode) []Pair {
	if trimSpace(string(self)) == `` {
		return buf
	}
	for _, seg := range splitTopLevel(string(self)) {
		buf = appendSegment(buf, mode, seg)
	}
	return buf
}

/*
Ordered sequence of segments such as `[]string{"name ASC", "family DESC"}`.
Each element is one segment and is never split on commas.
*/
type Strs []string

func (self Strs) appendPairs(buf []Pair, mode Mode) []Pair {
	for _, seg := range self {
		buf = appendSegment(buf, mode, seg)
	}
	return buf
}

// Ordered sequence of name/descriptor pairs, taken positionally.
type Pairs [][2]string

func (self Pairs) appendPairs(buf []Pair, mode Mode) []Pair {
	for _, val := range self {
		buf = appendPair(buf, mode, val[0], val[1])
	}
	return buf
}

/*
Ordered sequence of single-entry mappings such as
`[]map[string]string{{"id": "serial"}, {"name": "text"}}`. Because every
mapping has exactly one entry, the outer sequence fully defines the order.
*/
type Entries []map[string]string

func (self Entries) appendPairs(buf []Pair, mode Mode) []Pair {
	for ind, val := range self {
		if len(val) != 1 {
			panic(errMalformed(`normalizing spec`, `expected entry %d to be a mapping with exactly 1 entry, got %d`, ind, len(val)))
		}
		for key, desc := range val {
			buf = appendPair(buf, mode, key, desc)
		}
	}
	return buf
}

/*
Order-preserving mapping of names to descriptors. Iteration order is the order
in which keys were first set; setting an existing key replaces its value in
place. The zero value is ready to use.
*/
type Dict struct {
	keys []string
	vals map[string]string
}

/*
Shortcut for building a `Dict` from alternating keys and values:

	DictOf(`id`, `serial`, `name`, `text NOT NULL`)

Panics if the amount of inputs is odd.
*/
func DictOf(vals ...string) Dict {
	if len(vals)%2 != 0 {
		panic(errMalformed(`building dict`, `expected an even amount of keys and values, got %d`, len(vals)))
	}
	var out Dict
	for ind := 0; ind < len(vals); ind += 2 {
		out.Set(vals[ind], vals[ind+1])
	}
	return out
}

// Sets the value for the key, keeping the key's original position if present.
func (self *Dict) Set(key, val string) *Dict {
	if self.vals == nil {
		self.vals = map[string]string{}
	}
	if _, ok := self.vals[key]; !ok {
		self.keys = append(self.keys, key)
	}
	self.vals[key] = val
	return self
}

// Returns the value for the key, if any.
func (self Dict) Get(key string) (string, bool) {
	val, ok := self.vals[key]
	return val, ok
}

// Amount of entries.
func (self Dict) Len() int { return len(self.keys) }

// Returns a copy of the keys, in order.
func (self Dict) Keys() []string {
	return append([]string(nil), self.keys...)
}

func (self Dict) appendPairs(buf []Pair, mode Mode) []Pair {
	for _, key := range self.keys {
		buf = appendPair(buf, mode, key, self.vals[key])
	}
	return buf
}

// Implement `fmt.Stringer` for debug purposes.
func (self Dict) String() string {
	var buf strings.Builder
	buf.WriteString(`{`)
	for ind, key := range self.keys {
		if ind > 0 {
			buf.WriteString(`, `)
		}
		fmt.Fprintf(&buf, `%q: %q`, key, self.vals[key])
	}
	buf.WriteString(`}`)
	return buf.String()
}
