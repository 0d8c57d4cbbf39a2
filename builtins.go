package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jcorbin/rpn/internal/stack"
)

type builtin struct {
	name      string
	params    int
	strings   int
	fn        NativeFunc
	protected bool
	immediate bool
	doc       string
}

// builtins is the native dictionary, defined into the root scope in order.
var builtins []builtin

func init() {
	builtins = []builtin{
		//// Stack Operations
		{name: "dup", params: 1, fn: (*Interp).dup, doc: "a -- a a"},
		{name: "drop", params: 1, fn: (*Interp).drop, doc: "a --"},
		{name: "swap", params: 2, fn: (*Interp).swap, doc: "a b -- b a"},
		{name: "over", params: 2, fn: (*Interp).over, doc: "a b -- a b a"},
		{name: "rot", params: 3, fn: (*Interp).rot, doc: "a b c -- b c a"},
		{name: "-rot", params: 3, fn: (*Interp).unrot, doc: "a b c -- c a b"},
		{name: "nip", params: 2, fn: (*Interp).nip, doc: "a b -- b"},
		{name: "tuck", params: 2, fn: (*Interp).tuck, doc: "a b -- b a b"},
		{name: "pick", params: 1, fn: (*Interp).pick, doc: "xn .. x0 n -- xn .. x0 xn"},
		{name: "roll", params: 1, fn: (*Interp).roll, doc: "xn .. x0 n -- xn-1 .. x0 xn"},
		{name: "depth", fn: (*Interp).depth, doc: "-- n"},
		{name: "clear", fn: (*Interp).clear, doc: "clears the parameter stack"},
		{name: "?dup", params: 1, fn: (*Interp).qdup, doc: "a -- a a, unless a is zero"},
		{name: "2dup", params: 2, fn: (*Interp).dup2, doc: "a b -- a b a b"},
		{name: "2drop", params: 2, fn: (*Interp).drop2, doc: "a b --"},

		//// String Operations
		{name: "sdup", strings: 1, fn: (*Interp).sdup, doc: "duplicates the top string"},
		{name: "sdrop", strings: 1, fn: (*Interp).sdrop, doc: "drops the top string"},
		{name: "sswap", strings: 2, fn: (*Interp).sswap, doc: "swaps the top two strings"},
		{name: "sdepth", fn: (*Interp).sdepth, doc: "-- n, the string stack depth"},
		{name: "type", strings: 1, fn: (*Interp).typeString, doc: "prints the top string"},
		{name: "s+", strings: 2, fn: (*Interp).sconcat, doc: "concatenates the top two strings"},
		{name: "s.", fn: (*Interp).sprint, doc: "prints the string stack"},
		{name: "slen", strings: 1, fn: (*Interp).slen, doc: "-- n, the length of the top string"},

		//// Return Stack Operations
		{name: ">r", params: 1, fn: (*Interp).toR, doc: "moves a value to the return stack"},
		{name: "r>", fn: (*Interp).fromR, doc: "moves a value from the return stack"},
		{name: "r@", fn: (*Interp).copyR, doc: "copies the top of the return stack"},

		//// Arithmetic
		{name: "+", params: 2, fn: arithWord('+'), protected: true, doc: "a b -- a+b"},
		{name: "-", params: 2, fn: arithWord('-'), protected: true, doc: "a b -- a-b"},
		{name: "*", params: 2, fn: arithWord('*'), protected: true, doc: "a b -- a*b"},
		{name: "/", params: 2, fn: arithWord('/'), protected: true, doc: "a b -- a/b, truncating integers"},
		{name: "mod", params: 2, fn: (*Interp).mod, doc: "a b -- remainder of a/b"},
		{name: "negate", params: 1, fn: (*Interp).negate, doc: "a -- -a"},
		{name: "abs", params: 1, fn: (*Interp).abs, doc: "a -- |a|"},
		{name: "min", params: 2, fn: (*Interp).min, doc: "a b -- lesser"},
		{name: "max", params: 2, fn: (*Interp).max, doc: "a b -- greater"},

		//// Comparison and Logic
		{name: "=", params: 2, fn: (*Interp).equal, doc: "a b -- flag"},
		{name: "<>", params: 2, fn: (*Interp).notEqual, doc: "a b -- flag"},
		{name: "<", params: 2, fn: compareWord(func(c int) bool { return c < 0 }), doc: "a b -- flag"},
		{name: ">", params: 2, fn: compareWord(func(c int) bool { return c > 0 }), doc: "a b -- flag"},
		{name: "<=", params: 2, fn: compareWord(func(c int) bool { return c <= 0 }), doc: "a b -- flag"},
		{name: ">=", params: 2, fn: compareWord(func(c int) bool { return c >= 0 }), doc: "a b -- flag"},
		{name: "0=", params: 1, fn: (*Interp).zeroEqual, doc: "a -- flag"},
		{name: "0<", params: 1, fn: (*Interp).zeroLess, doc: "a -- flag"},
		{name: "and", params: 2, fn: bitWord(func(a, b int64) int64 { return a & b }), doc: "a b -- a&b"},
		{name: "or", params: 2, fn: bitWord(func(a, b int64) int64 { return a | b }), doc: "a b -- a|b"},
		{name: "not", params: 1, fn: (*Interp).not, doc: "flag -- !flag"},

		//// Loop Indices
		{name: "i", fn: loopIndexWord(0), protected: true, doc: "-- the innermost loop index"},
		{name: "j", fn: loopIndexWord(1), protected: true, doc: "-- the next outer loop index"},

		//// Output
		{name: ".", params: 1, fn: (*Interp).print, doc: "prints and drops the top value"},
		{name: ".s", fn: (*Interp).printStack, doc: "prints the parameter stack"},
		{name: "cr", fn: (*Interp).cr, doc: "prints a newline"},
		{name: "emit", params: 1, fn: (*Interp).emit, doc: "prints a character code"},
		{name: "space", fn: (*Interp).space, doc: "prints a space"},

		//// Tags
		{name: "label", params: 1, strings: 1, fn: (*Interp).label, doc: "value label -- tagged value"},
		{name: "unit", params: 1, strings: 1, fn: (*Interp).unit, doc: "value unit -- tagged value"},

		//// Reflection
		{name: "words", fn: (*Interp).words, doc: "lists visible words"},
		{name: "dump", fn: (*Interp).dumpWord, doc: "prints the interpreter state"},

		//// Control
		{name: "throw", params: 1, fn: (*Interp).throwWord, protected: true, doc: "code --, raises code unless zero"},
		{name: "abort", fn: (*Interp).abortWord, protected: true, doc: "clears all stacks and returns to the top level"},
		{name: "eval", strings: 1, fn: (*Interp).evalWord, doc: "evaluates the top string"},
		{name: "load", strings: 1, fn: (*Interp).loadWord, doc: "evaluates the named file"},
		{name: "bye", fn: (*Interp).bye, protected: true, doc: "ends the session"},
		{name: "immediate", fn: (*Interp).immediate, doc: "marks the last definition immediate"},
	}
}

func (in *Interp) defineBuiltins() {
	for _, def := range builtins {
		in.root.setWord(&Word{
			Name:       def.name,
			Doc:        def.doc,
			native:     def.fn,
			Protected:  def.protected,
			Immediate:  def.immediate,
			MinParams:  def.params,
			MinStrings: def.strings,
		})
	}
}

//// system variables

const version = "0.1.0"

func (in *Interp) defineSystemVariables() {
	in.root.setVariable(&Variable{
		Name:      "version",
		Doc:       "interpreter version",
		value:     String(version),
		ReadOnly:  true,
		Protected: true,
		NoShadow:  true,
	})

	in.root.setVariable(&Variable{
		Name:      "trace",
		Doc:       "non-zero enables trace logging",
		Protected: true,
		pre:       []PreHook{requireNumber},
		post: []PostHook{func(_ string, _, val Value) {
			if flag, _ := asFlag(val); flag {
				in.logfn = in.traceFn
			} else {
				in.logfn = nil
			}
		}},
	})

	in.root.setVariable(&Variable{
		Name:      "precision",
		Doc:       "significant digits used to print floats, 1 to 17",
		Protected: true,
		NoShadow:  true,
		pre: []PreHook{func(_ string, _, val Value) error {
			n, ok := asInt(val)
			if !ok || n < 1 || n > 17 {
				return fmt.Errorf("must be an integer from 1 to 17, not %v", val)
			}
			return nil
		}},
		post: []PostHook{func(_ string, _, val Value) {
			n, _ := asInt(val)
			in.precision = int(n)
		}},
	})
}

func requireNumber(_ string, _, val Value) error {
	if !isNumber(val) {
		return errors.New("must be a number")
	}
	return nil
}

// syncSystemVariables sets system variables from options applied after
// they were defined.
func (in *Interp) syncSystemVariables() {
	in.root.variable("trace").value = boolValue(in.logfn != nil)
	in.root.variable("precision").value = Integer(in.precision)
}

//// Stack Operations

func (in *Interp) dup()   { in.push(in.top()) }
func (in *Interp) drop()  { in.pop() }
func (in *Interp) swap()  { vs := in.popN(2); in.pushAll(vs[1], vs[0]) }
func (in *Interp) over()  { vs := in.popN(2); in.pushAll(vs[0], vs[1], vs[0]) }
func (in *Interp) rot()   { vs := in.popN(3); in.pushAll(vs[1], vs[2], vs[0]) }
func (in *Interp) unrot() { vs := in.popN(3); in.pushAll(vs[2], vs[0], vs[1]) }
func (in *Interp) nip()   { vs := in.popN(2); in.push(vs[1]) }
func (in *Interp) tuck()  { vs := in.popN(2); in.pushAll(vs[1], vs[0], vs[1]) }
func (in *Interp) dup2()  { vs := in.popN(2); in.pushAll(vs[0], vs[1], vs[0], vs[1]) }
func (in *Interp) depth() { in.push(Integer(in.params.Avail())) }
func (in *Interp) clear() { in.params.Truncate(in.params.Floor()) }

func (in *Interp) drop2() {
	if err := in.params.Drop(2); err != nil {
		in.throw(XStackUnderflow, "%v", err)
	}
}

func (in *Interp) qdup() {
	if v := in.top(); !v.IsZero() {
		in.push(v)
	}
}

// Name    Function
// pick    copies the n-th value below n to the top; 0 pick is dup
func (in *Interp) pick() {
	v := in.pop()
	n, ok := asInt(v)
	if !ok {
		in.mismatch([]Value{v}, "pick expects an integer, got %v", v.TypeName())
	}
	val, err := in.params.Pick(int(n))
	if err != nil {
		in.push(v)
		in.throw(indexCode(err), "%v", err)
	}
	in.push(val)
}

// Name    Function
// roll    moves the n-th value below n to the top; 1 roll is swap
func (in *Interp) roll() {
	v := in.pop()
	n, ok := asInt(v)
	if !ok {
		in.mismatch([]Value{v}, "roll expects an integer, got %v", v.TypeName())
	}
	if err := in.params.Roll(int(n)); err != nil {
		in.push(v)
		in.throw(indexCode(err), "%v", err)
	}
}

func indexCode(err error) Code {
	var bad stack.BadIndex
	if errors.As(err, &bad) {
		return XOutOfRange
	}
	return XStackUnderflow
}

//// String Operations

func (in *Interp) sdup()   { s := in.popString(); in.pushString(s); in.pushString(s) }
func (in *Interp) sdrop()  { in.popString() }
func (in *Interp) sdepth() { in.push(Integer(in.strs.Avail())) }
func (in *Interp) slen()   { s, _ := in.strs.Top(); in.push(Integer(len([]rune(s)))) }

func (in *Interp) sswap() {
	b, a := in.popString(), in.popString()
	in.pushString(b)
	in.pushString(a)
}

func (in *Interp) sconcat() {
	b, a := in.popString(), in.popString()
	in.pushString(a + b)
}

func (in *Interp) typeString() { in.writeString(in.popString()) }

func (in *Interp) sprint() {
	for _, s := range in.strs.Values() {
		in.writeString(String(s).String())
		in.writeRune(' ')
	}
	in.writeRune('\n')
}

//// Return Stack Operations

func (in *Interp) toR() {
	v := in.pop()
	if err := in.rets.Push(v); err != nil {
		in.push(v)
		in.throw(XReturnOverflow, "%v", err)
	}
}

func (in *Interp) fromR() {
	v, err := in.rets.Pop()
	if err != nil {
		in.throw(XReturnUnderflow, "%v", err)
	}
	in.push(v)
}

func (in *Interp) copyR() {
	v, err := in.rets.Top()
	if err != nil {
		in.throw(XReturnUnderflow, "%v", err)
	}
	in.push(v)
}

//// Arithmetic

func arithWord(op byte) NativeFunc {
	return func(in *Interp) {
		vs := in.popN(2)
		r, code := arith(op, vs[0], vs[1])
		in.check(vs, code, "%v %c %v", vs[0], op, vs[1])
		in.push(r)
	}
}

// check restores popped values and raises code, unless it is zero.
func (in *Interp) check(restore []Value, code Code, mess string, args ...interface{}) {
	if code != 0 {
		in.pushAll(restore...)
		in.throw(code, mess, args...)
	}
}

func (in *Interp) mod() {
	vs := in.popN(2)
	a, ok1 := asInt(vs[0])
	b, ok2 := asInt(vs[1])
	if !ok1 || !ok2 {
		in.mismatch(vs, "mod expects integers")
	}
	if b == 0 {
		in.check(vs, XDivisionByZero, "%v mod 0", a)
	}
	in.push(Integer(a % b))
}

func (in *Interp) negate() {
	v := in.pop()
	r, code := negate(v)
	in.check([]Value{v}, code, "negate %v", v.TypeName())
	in.push(r)
}

func (in *Interp) abs() {
	v := in.pop()
	r, code := absolute(v)
	in.check([]Value{v}, code, "abs %v", v.TypeName())
	in.push(r)
}

func (in *Interp) min() { in.choose(func(c int) bool { return c <= 0 }) }
func (in *Interp) max() { in.choose(func(c int) bool { return c >= 0 }) }

func (in *Interp) choose(first func(c int) bool) {
	vs := in.popN(2)
	c, code := compare(vs[0], vs[1])
	in.check(vs, code, "can not order %v and %v", vs[0].TypeName(), vs[1].TypeName())
	if first(c) {
		in.push(vs[0])
	} else {
		in.push(vs[1])
	}
}

//// Comparison and Logic

func (in *Interp) equal()    { vs := in.popN(2); in.push(boolValue(vs[0].Equal(vs[1]))) }
func (in *Interp) notEqual() { vs := in.popN(2); in.push(boolValue(!vs[0].Equal(vs[1]))) }

func compareWord(test func(c int) bool) NativeFunc {
	return func(in *Interp) {
		vs := in.popN(2)
		c, code := compare(vs[0], vs[1])
		in.check(vs, code, "can not order %v and %v", vs[0].TypeName(), vs[1].TypeName())
		in.push(boolValue(test(c)))
	}
}

func (in *Interp) zeroEqual() {
	v := in.pop()
	if !isNumber(v) {
		in.mismatch([]Value{v}, "0= expects a number, got %v", v.TypeName())
	}
	in.push(boolValue(v.IsZero()))
}

func (in *Interp) zeroLess() {
	v := in.pop()
	c, code := compare(v, Integer(0))
	in.check([]Value{v}, code, "0< expects a real number, got %v", v.TypeName())
	in.push(boolValue(c < 0))
}

func bitWord(op func(a, b int64) int64) NativeFunc {
	return func(in *Interp) {
		vs := in.popN(2)
		a, ok1 := asInt(vs[0])
		b, ok2 := asInt(vs[1])
		if !ok1 || !ok2 {
			in.mismatch(vs, "expected integers, got %v and %v", vs[0].TypeName(), vs[1].TypeName())
		}
		in.push(Integer(op(a, b)))
	}
}

func (in *Interp) not() { in.push(boolValue(!in.popFlag())) }

//// Loop Indices

func loopIndexWord(skip int) NativeFunc {
	return func(in *Interp) {
		v, _ := lookupVariable(in.scopeChain(), loopIndex, skip)
		if v == nil || v.value == nil {
			in.throw(XControlMismatch, "loop index used outside of %d enclosing loops", skip+1)
		}
		in.push(v.value)
	}
}

//// Output

func (in *Interp) print() {
	in.writeString(in.format(in.pop()))
	in.writeRune(' ')
}

func (in *Interp) printStack() {
	in.writeString(fmt.Sprintf("<%d> ", in.params.Avail()))
	for _, v := range in.params.Values() {
		in.writeString(in.format(v))
		in.writeRune(' ')
	}
	in.writeRune('\n')
}

func (in *Interp) cr()    { in.writeRune('\n') }
func (in *Interp) space() { in.writeRune(' ') }

func (in *Interp) emit() {
	v := in.pop()
	n, ok := asInt(v)
	if !ok || n < 0 || n > 0x10ffff {
		in.mismatch([]Value{v}, "emit expects a character code, got %v", v)
	}
	in.writeRune(rune(n))
}

//// Tags

func (in *Interp) label() { in.tag(func(tag *Tag, s string) { tag.Label = s }) }
func (in *Interp) unit()  { in.tag(func(tag *Tag, s string) { tag.Unit = s }) }

func (in *Interp) tag(set func(tag *Tag, s string)) {
	s := in.popString()
	v := in.pop()
	tag := tagOf(v)
	set(&tag, s)
	if tag == (Tag{}) {
		in.push(untag(v))
		return
	}
	in.push(Tagged{untag(v), tag})
}

//// Reflection

func (in *Interp) words() {
	seen := make(map[string]bool)
	var lines []string
	in.scopes.Each(func(_ int, sc *Scope) bool {
		names := sc.wordNames()
		sort.Strings(names)
		var visible []string
		for _, name := range names {
			key := foldName(name)
			if w := sc.word(name); !seen[key] && !w.Hidden {
				visible = append(visible, name)
			}
			seen[key] = true
		}
		if len(visible) > 0 {
			lines = append(lines, fmt.Sprintf("%v: %v", sc.Name, strings.Join(visible, " ")))
		}
		return true
	})
	for _, line := range lines {
		in.writeString(line)
		in.writeRune('\n')
	}
}

func (in *Interp) dumpWord() {
	interpDumper{in: in, out: in.out}.dump()
}

//// Control

func (in *Interp) throwWord() {
	v := in.pop()
	n, ok := asInt(v)
	if !ok {
		in.mismatch([]Value{v}, "throw expects an integer code, got %v", v.TypeName())
	}
	switch code := Code(n); {
	case code == 0:
	case code == XAbort, code == XAbortQuote:
		in.signal(code, "")
	case code <= XLeave && code >= XBye:
		in.push(v)
		in.throw(XOutOfRange, "throw code %d is reserved", n)
	default:
		in.throw(code, "")
	}
}

func (in *Interp) abortWord() { in.signal(XAbort, "") }

func (in *Interp) bye() { in.signal(XBye, "") }

func (in *Interp) evalWord() { in.evaluate(in.popString(), nil) }

func (in *Interp) loadWord() {
	name := in.popString()
	text, err := in.readFile(name)
	if err != nil {
		in.pushString(name)
		panic(err)
	}
	in.evaluate(text, nil)
}

func (in *Interp) immediate() {
	if in.last == nil {
		in.throw(XUndefinedWord, "no definition to mark immediate")
	}
	in.last.Immediate = true
}
