package main

import (
	"math"
	"math/big"
	"math/cmplx"
)

// arith applies one of the four arithmetic operators (+ - * /) to a pair of
// values. A zero Code means success.
func arith(op byte, a, b Value) (Value, Code) {
	tag := tagOf(a)
	if tag == (Tag{}) {
		tag = tagOf(b)
	}
	r, code := arithUntagged(op, untag(a), untag(b))
	if code == 0 && tag != (Tag{}) {
		r = Tagged{r, tag}
	}
	return r, code
}

func arithUntagged(op byte, a, b Value) (Value, Code) {
	switch x := a.(type) {
	case Vector:
		switch y := b.(type) {
		case Vector:
			if op == '*' || op == '/' {
				return nil, XArgTypeMismatch
			}
			return zipVector(op, x, y)
		default:
			if !isNumber(y) || op == '+' || op == '-' {
				return nil, XArgTypeMismatch
			}
			return mapVector(x, func(e Value) (Value, Code) { return arith(op, e, y) })
		}

	case Matrix:
		switch y := b.(type) {
		case Matrix:
			if op == '*' || op == '/' || len(x) != len(y) {
				return nil, XArgTypeMismatch
			}
			out := make(Matrix, len(x))
			for i := range x {
				row, code := zipVector(op, x[i], y[i])
				if code != 0 {
					return nil, code
				}
				out[i] = row.(Vector)
			}
			return out, 0
		default:
			if !isNumber(y) || op == '+' || op == '-' {
				return nil, XArgTypeMismatch
			}
			out := make(Matrix, len(x))
			for i := range x {
				row, code := mapVector(x[i], func(e Value) (Value, Code) { return arith(op, e, y) })
				if code != 0 {
					return nil, code
				}
				out[i] = row.(Vector)
			}
			return out, 0
		}

	case String:
		if y, ok := b.(String); ok && op == '+' {
			return x + y, 0
		}
		return nil, XArgTypeMismatch
	}

	if _, isVec := b.(Vector); isVec && op == '*' && isNumber(a) {
		return arithUntagged(op, b, a)
	}
	if _, isMat := b.(Matrix); isMat && op == '*' && isNumber(a) {
		return arithUntagged(op, b, a)
	}

	ra, rb := rankOf(a), rankOf(b)
	if ra == rankNone || rb == rankNone {
		return nil, XArgTypeMismatch
	}
	rank := ra
	if rb > rank {
		rank = rb
	}
	pa, _ := promote(a, rank)
	pb, _ := promote(b, rank)

	switch x := pa.(type) {
	case Integer:
		y := pb.(Integer)
		switch op {
		case '+':
			return x + y, 0
		case '-':
			return x - y, 0
		case '*':
			return x * y, 0
		case '/':
			if y == 0 {
				return nil, XDivisionByZero
			}
			return x / y, 0
		}

	case Rational:
		y := pb.(Rational)
		r := new(big.Rat)
		switch op {
		case '+':
			r.Add(x.Rat, y.Rat)
		case '-':
			r.Sub(x.Rat, y.Rat)
		case '*':
			r.Mul(x.Rat, y.Rat)
		case '/':
			if y.Sign() == 0 {
				return nil, XDivisionByZero
			}
			r.Quo(x.Rat, y.Rat)
		}
		return normRat(r), 0

	case Float:
		y := pb.(Float)
		switch op {
		case '+':
			return x + y, 0
		case '-':
			return x - y, 0
		case '*':
			return x * y, 0
		case '/':
			if y == 0 {
				return nil, XDivisionByZero
			}
			return x / y, 0
		}

	case Complex:
		y := pb.(Complex)
		switch op {
		case '+':
			return x + y, 0
		case '-':
			return x - y, 0
		case '*':
			return x * y, 0
		case '/':
			if y == 0 {
				return nil, XDivisionByZero
			}
			return x / y, 0
		}
	}
	return nil, XArgTypeMismatch
}

func zipVector(op byte, x, y Vector) (Value, Code) {
	if len(x) != len(y) {
		return nil, XArgTypeMismatch
	}
	out := make(Vector, len(x))
	for i := range x {
		r, code := arith(op, x[i], y[i])
		if code != 0 {
			return nil, code
		}
		out[i] = r
	}
	return out, 0
}

func mapVector(x Vector, fn func(Value) (Value, Code)) (Value, Code) {
	out := make(Vector, len(x))
	for i := range x {
		r, code := fn(x[i])
		if code != 0 {
			return nil, code
		}
		out[i] = r
	}
	return out, 0
}

// compare orders two real scalars, returning -1, 0 or 1.
func compare(a, b Value) (int, Code) {
	ra, rb := rankOf(a), rankOf(b)
	if ra == rankNone || rb == rankNone || ra == rankComplex || rb == rankComplex {
		if sa, ok := untag(a).(String); ok {
			if sb, ok := untag(b).(String); ok {
				switch {
				case sa < sb:
					return -1, 0
				case sa > sb:
					return 1, 0
				}
				return 0, 0
			}
		}
		return 0, XArgTypeMismatch
	}
	rank := ra
	if rb > rank {
		rank = rb
	}
	pa, _ := promote(a, rank)
	pb, _ := promote(b, rank)
	switch x := pa.(type) {
	case Integer:
		y := pb.(Integer)
		switch {
		case x < y:
			return -1, 0
		case x > y:
			return 1, 0
		}
		return 0, 0
	case Rational:
		return x.Cmp(pb.(Rational).Rat), 0
	case Float:
		y := pb.(Float)
		switch {
		case x < y:
			return -1, 0
		case x > y:
			return 1, 0
		}
		return 0, 0
	}
	return 0, XArgTypeMismatch
}

// negate returns -v for any numeric, vector or matrix value.
func negate(v Value) (Value, Code) {
	return arith('*', v, Integer(-1))
}

// absolute returns |v|; complex magnitudes are returned as floats.
func absolute(v Value) (Value, Code) {
	switch x := untag(v).(type) {
	case Integer:
		if x < 0 {
			return -x, 0
		}
		return x, 0
	case Rational:
		return normRat(new(big.Rat).Abs(x.Rat)), 0
	case Float:
		return Float(math.Abs(float64(x))), 0
	case Complex:
		return Float(cmplx.Abs(complex128(x))), 0
	}
	return nil, XArgTypeMismatch
}
