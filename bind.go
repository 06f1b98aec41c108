package ch

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Arg is a value bound into a SQL query by Bind. Constructors below cover
// every scalar and array shape the binder accepts; callers should not
// implement this interface themselves.
type Arg interface {
	renderSQL(buf *strings.Builder)
}

type intArg struct{ v int64 }

// Int binds a signed integer literal (covers Int8 through Int64).
func Int(v int64) Arg { return intArg{v} }

func (a intArg) renderSQL(buf *strings.Builder) {
	buf.WriteString(strconv.FormatInt(a.v, 10))
}

type uintArg struct{ v uint64 }

// Uint binds an unsigned integer literal (covers UInt8 through UInt64).
func Uint(v uint64) Arg { return uintArg{v} }

func (a uintArg) renderSQL(buf *strings.Builder) {
	buf.WriteString(strconv.FormatUint(a.v, 10))
}

type int128Arg struct{ v *big.Int }

// Int128 binds a signed 128-bit integer literal given as decimal text,
// e.g. Int128("-170141183460469231731687303715884105728").
func Int128(decimal string) (Arg, error) {
	v, ok := new(big.Int).SetString(decimal, 10)
	if !ok {
		return nil, newError(InvalidParams, fmt.Errorf("bind: %q is not a decimal integer", decimal))
	}
	return int128Arg{v}, nil
}

func (a int128Arg) renderSQL(buf *strings.Builder) {
	buf.WriteString(a.v.String())
}

type floatArg struct{ v float64 }

// Float binds a floating point literal (covers Float32 and Float64).
func Float(v float64) Arg { return floatArg{v} }

func (a floatArg) renderSQL(buf *strings.Builder) {
	buf.WriteString(strconv.FormatFloat(a.v, 'g', -1, 64))
}

type boolArg struct{ v bool }

// Bool binds a boolean literal.
func Bool(v bool) Arg { return boolArg{v} }

func (a boolArg) renderSQL(buf *strings.Builder) {
	if a.v {
		buf.WriteString("1")
	} else {
		buf.WriteString("0")
	}
}

type stringArg struct{ v string }

// String binds a quoted, escaped string literal.
func String(v string) Arg { return stringArg{v} }

func (a stringArg) renderSQL(buf *strings.Builder) {
	quoteSQLString(buf, a.v)
}

type bytesArg struct{ v []byte }

// Bytes binds a byte slice the same way String does: ClickHouse strings
// are byte strings, not necessarily UTF-8.
func Bytes(v []byte) Arg { return bytesArg{v} }

func (a bytesArg) renderSQL(buf *strings.Builder) {
	quoteSQLString(buf, string(a.v))
}

type identArg struct{ name string }

// Ident binds a backtick-quoted identifier: a table, column or database
// name that must not be treated as a string literal.
func Ident(name string) Arg { return identArg{name} }

func (a identArg) renderSQL(buf *strings.Builder) {
	buf.WriteByte('`')
	buf.WriteString(strings.ReplaceAll(a.name, "`", "``"))
	buf.WriteByte('`')
}

type arrayArg struct{ elems []Arg }

// Array binds a `[elem, elem, ...]` array literal of any of the scalar
// Args above.
func Array(elems ...Arg) Arg { return arrayArg{elems} }

func (a arrayArg) renderSQL(buf *strings.Builder) {
	buf.WriteByte('[')
	for i, e := range a.elems {
		if i > 0 {
			buf.WriteByte(',')
		}
		e.renderSQL(buf)
	}
	buf.WriteByte(']')
}

func quoteSQLString(buf *strings.Builder, s string) {
	buf.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			buf.WriteString(`\'`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case 0:
			buf.WriteString(`\0`)
		default:
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('\'')
}

// Bind renders query by substituting `?` with args in order and `??` with
// a literal `?`. A `?fields` left in query is rejected with
// InvalidParams: ExpandFields must replace that pseudo-placeholder first,
// since it depends on a column list rather than an Arg value.
func Bind(query string, args ...Arg) (string, error) {
	var buf strings.Builder
	buf.Grow(len(query) + 16*len(args))

	argIdx := 0
	runes := []rune(query)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '?' {
			buf.WriteRune(r)
			continue
		}
		if i+1 < len(runes) && runes[i+1] == '?' {
			buf.WriteByte('?')
			i++
			continue
		}
		if strings.HasPrefix(string(runes[i:]), "?fields") {
			return "", newError(InvalidParams, fmt.Errorf("bind: ?fields must be expanded by ExpandFields before Bind"))
		}
		if argIdx >= len(args) {
			return "", newError(InvalidParams, fmt.Errorf("bind: query references more than %d argument(s)", len(args)))
		}
		args[argIdx].renderSQL(&buf)
		argIdx++
	}

	if argIdx != len(args) {
		return "", newError(InvalidParams, fmt.Errorf("bind: %d argument(s) passed but only %d placeholder(s) in query", len(args), argIdx))
	}
	return buf.String(), nil
}

// ExpandFields replaces the first occurrence of the `?fields` pseudo
// placeholder with a comma-joined, backtick-escaped list of columns. It
// is a no-op if the placeholder is absent.
func ExpandFields(query string, columns []string) string {
	const placeholder = "?fields"
	idx := strings.Index(query, placeholder)
	if idx < 0 {
		return query
	}

	var fields strings.Builder
	for i, c := range columns {
		if i > 0 {
			fields.WriteByte(',')
		}
		Ident(c).renderSQL(&fields)
	}

	return query[:idx] + fields.String() + query[idx+len(placeholder):]
}
