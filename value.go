package main

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Value is anything that may be held on the parameter or string stacks.
//
// The set of value types is closed: Integer, Float, Rational, Complex,
// Vector, Matrix and String, optionally wrapped by Tagged to carry a label
// or unit.
type Value interface {
	TypeName() string
	IsZero() bool
	Equal(other Value) bool
	String() string

	// pushSelf places the value on whichever stack is home to its type.
	pushSelf(in *Interp)
}

type (
	Integer  int64
	Float    float64
	Rational struct{ *big.Rat }
	Complex  complex128
	Vector   []Value
	Matrix   []Vector
	String   string
)

// Tag carries an optional label and unit.
type Tag struct {
	Label string
	Unit  string
}

// Tagged attaches a Tag to some other value; arithmetic sees through it.
type Tagged struct {
	Value
	Tag
}

func (Integer) TypeName() string  { return "integer" }
func (Float) TypeName() string    { return "float" }
func (Rational) TypeName() string { return "rational" }
func (Complex) TypeName() string  { return "complex" }
func (Vector) TypeName() string   { return "vector" }
func (Matrix) TypeName() string   { return "matrix" }
func (String) TypeName() string   { return "string" }

func (v Integer) IsZero() bool  { return v == 0 }
func (v Float) IsZero() bool    { return v == 0 }
func (v Rational) IsZero() bool { return v.Rat == nil || v.Sign() == 0 }
func (v Complex) IsZero() bool  { return v == 0 }
func (v String) IsZero() bool   { return v == "" }

func (v Vector) IsZero() bool {
	for _, x := range v {
		if !x.IsZero() {
			return false
		}
	}
	return true
}

func (v Matrix) IsZero() bool {
	for _, row := range v {
		if !row.IsZero() {
			return false
		}
	}
	return true
}

func (v Integer) pushSelf(in *Interp)  { in.push(v) }
func (v Float) pushSelf(in *Interp)    { in.push(v) }
func (v Rational) pushSelf(in *Interp) { in.push(v) }
func (v Complex) pushSelf(in *Interp)  { in.push(v) }
func (v Vector) pushSelf(in *Interp)   { in.push(v) }
func (v Matrix) pushSelf(in *Interp)   { in.push(v) }
func (v String) pushSelf(in *Interp)   { in.pushString(string(v)) }
func (v Tagged) pushSelf(in *Interp)   { in.push(v) }

func (v Integer) Equal(other Value) bool  { return numEqual(v, other) }
func (v Float) Equal(other Value) bool    { return numEqual(v, other) }
func (v Rational) Equal(other Value) bool { return numEqual(v, other) }
func (v Complex) Equal(other Value) bool  { return numEqual(v, other) }

func (v String) Equal(other Value) bool {
	o, ok := untag(other).(String)
	return ok && o == v
}

func (v Vector) Equal(other Value) bool {
	o, ok := untag(other).(Vector)
	if !ok || len(o) != len(v) {
		return false
	}
	for i := range v {
		if !v[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

func (v Matrix) Equal(other Value) bool {
	o, ok := untag(other).(Matrix)
	if !ok || len(o) != len(v) {
		return false
	}
	for i := range v {
		if !v[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

func (v Tagged) Equal(other Value) bool { return v.Value.Equal(untag(other)) }

func (v Tagged) String() string { return v.format(v.Value.String()) }

func (v Tagged) format(inner string) string {
	var sb strings.Builder
	if v.Label != "" {
		sb.WriteString(v.Label)
		sb.WriteString(": ")
	}
	sb.WriteString(inner)
	if v.Unit != "" {
		sb.WriteString("_")
		sb.WriteString(v.Unit)
	}
	return sb.String()
}

func untag(v Value) Value {
	if t, ok := v.(Tagged); ok {
		return t.Value
	}
	return v
}

func tagOf(v Value) Tag {
	if t, ok := v.(Tagged); ok {
		return t.Tag
	}
	return Tag{}
}

// defaultPrecision is the number of significant digits used to display
// floats outside of an interpreter.
const defaultPrecision = 12

func (v Integer) String() string { return strconv.FormatInt(int64(v), 10) }
func (v Float) String() string   { return formatFloat(float64(v), defaultPrecision) }

func formatFloat(f float64, prec int) string {
	s := strconv.FormatFloat(f, 'g', prec, 64)
	if !strings.ContainsAny(s, ".eIN") {
		s += "."
	}
	return s
}

// formatValue renders v with floats shown to the given precision.
func formatValue(v Value, prec int) string {
	switch x := v.(type) {
	case Float:
		return formatFloat(float64(x), prec)
	case Complex:
		return fmt.Sprintf("(%v, %v)", formatFloat(real(x), prec), formatFloat(imag(x), prec))
	case Vector:
		var sb strings.Builder
		sb.WriteString("[ ")
		for _, e := range x {
			sb.WriteString(formatValue(e, prec))
			sb.WriteByte(' ')
		}
		sb.WriteString("]")
		return sb.String()
	case Matrix:
		var sb strings.Builder
		sb.WriteString("[")
		for _, row := range x {
			sb.WriteString(formatValue(row, prec))
		}
		sb.WriteString("]")
		return sb.String()
	case Tagged:
		return x.format(formatValue(x.Value, prec))
	}
	return v.String()
}

func (in *Interp) format(v Value) string { return formatValue(v, in.precision) }

func (v Rational) String() string {
	if v.Rat == nil {
		return "0::1"
	}
	return v.Num().String() + "::" + v.Denom().String()
}

func (v Complex) String() string { return formatValue(v, defaultPrecision) }
func (v Vector) String() string  { return formatValue(v, defaultPrecision) }
func (v Matrix) String() string  { return formatValue(v, defaultPrecision) }

func (v String) String() string { return strconv.Quote(string(v)) }

// numeric ranks order the scalar types for promotion
const (
	rankNone = iota
	rankInteger
	rankRational
	rankFloat
	rankComplex
)

func rankOf(v Value) int {
	switch untag(v).(type) {
	case Integer:
		return rankInteger
	case Rational:
		return rankRational
	case Float:
		return rankFloat
	case Complex:
		return rankComplex
	default:
		return rankNone
	}
}

func isNumber(v Value) bool { return rankOf(v) != rankNone }

// promote converts a scalar to the given rank; ok is false for
// non-scalars.
func promote(v Value, rank int) (Value, bool) {
	switch x := untag(v).(type) {
	case Integer:
		switch rank {
		case rankInteger:
			return x, true
		case rankRational:
			return Rational{big.NewRat(int64(x), 1)}, true
		case rankFloat:
			return Float(x), true
		case rankComplex:
			return Complex(complex(float64(x), 0)), true
		}
	case Rational:
		f, _ := x.Float64()
		switch rank {
		case rankRational:
			return x, true
		case rankFloat:
			return Float(f), true
		case rankComplex:
			return Complex(complex(f, 0)), true
		}
	case Float:
		switch rank {
		case rankFloat:
			return x, true
		case rankComplex:
			return Complex(complex(float64(x), 0)), true
		}
	case Complex:
		if rank == rankComplex {
			return x, true
		}
	}
	return nil, false
}

func numEqual(a, b Value) bool {
	ra, rb := rankOf(a), rankOf(b)
	if ra == rankNone || rb == rankNone {
		return false
	}
	rank := ra
	if rb > rank {
		rank = rb
	}
	pa, _ := promote(a, rank)
	pb, _ := promote(b, rank)
	switch x := pa.(type) {
	case Integer:
		return x == pb.(Integer)
	case Rational:
		return x.Cmp(pb.(Rational).Rat) == 0
	case Float:
		return x == pb.(Float)
	case Complex:
		return x == pb.(Complex)
	}
	return false
}

// asInt extracts an integral value, accepting integral rationals and floats.
func asInt(v Value) (int64, bool) {
	switch x := untag(v).(type) {
	case Integer:
		return int64(x), true
	case Rational:
		if x.IsInt() && x.Num().IsInt64() {
			return x.Num().Int64(), true
		}
	case Float:
		if f := float64(x); f == math.Trunc(f) && math.Abs(f) < 1<<63 {
			return int64(f), true
		}
	}
	return 0, false
}

// asFlag interprets a value as a boolean flag: any non-zero scalar is true.
func asFlag(v Value) (flag, ok bool) {
	if !isNumber(v) {
		return false, false
	}
	return !v.IsZero(), true
}

func boolValue(b bool) Integer {
	if b {
		return -1
	}
	return 0
}

// normRat demotes integral rationals back to integers.
func normRat(r *big.Rat) Value {
	if r.IsInt() && r.Num().IsInt64() {
		return Integer(r.Num().Int64())
	}
	return Rational{r}
}
