package main

import (
	"strings"
	"testing"
)

func TestBuiltins_stack(t *testing.T) {
	pair := withInterpStack(ints(1, 2)...)
	triple := withInterpStack(ints(10, 20, 30)...)

	interpTestCases{
		interpTest("swap").apply(pair, withInterpInput(`swap`), expectInterpStack(ints(2, 1)...)),
		interpTest("over").apply(pair, withInterpInput(`over`), expectInterpStack(ints(1, 2, 1)...)),
		interpTest("nip").apply(pair, withInterpInput(`nip`), expectInterpStack(ints(2)...)),
		interpTest("tuck").apply(pair, withInterpInput(`tuck`), expectInterpStack(ints(2, 1, 2)...)),
		interpTest("2dup").apply(pair, withInterpInput(`2dup`), expectInterpStack(ints(1, 2, 1, 2)...)),
		interpTest("2drop").apply(pair, withInterpInput(`2drop`), expectInterpStack()),
		interpTest("depth").apply(pair, withInterpInput(`depth`), expectInterpStack(ints(1, 2, 2)...)),
		interpTest("clear").apply(pair, withInterpInput(`clear`), expectInterpStack()),

		interpTest("rot").apply(triple, withInterpInput(`rot`), expectInterpStack(ints(20, 30, 10)...)),
		interpTest("-rot").apply(triple, withInterpInput(`-rot`), expectInterpStack(ints(30, 10, 20)...)),
		interpTest("pick").apply(triple, withInterpInput(`2 pick`), expectInterpStack(ints(10, 20, 30, 10)...)),
		interpTest("0 pick").apply(triple, withInterpInput(`0 pick`), expectInterpStack(ints(10, 20, 30, 30)...)),
		interpTest("roll").apply(triple, withInterpInput(`2 roll`), expectInterpStack(ints(20, 30, 10)...)),
		interpTest("1 roll").apply(triple, withInterpInput(`1 roll`), expectInterpStack(ints(10, 30, 20)...)),

		interpTest("pick too deep").apply(triple,
			withInterpInput(`5 pick`),
			expectInterpReports(XStackUnderflow),
			expectInterpStack(ints(10, 20, 30, 5)...)),

		interpTest("roll too deep").apply(triple,
			withInterpInput(`3 roll`),
			expectInterpReports(XStackUnderflow),
			expectInterpStack(ints(10, 20, 30, 3)...)),

		interpTest("negative depths").apply(triple,
			withInterpInput(lines(`-5 roll`, `-1 pick`)),
			expectInterpReports(XOutOfRange, XOutOfRange),
			expectInterpStack(ints(10, 20, 30, -5, -1)...)),

		interpTest("?dup").
			withInput(`0 ?dup 3 ?dup`).
			expectStack(ints(0, 3, 3)...),

		interpTest("underflow").
			withInput(`1 swap`).
			expectReports(XInsufficientParams).
			expectStack(Integer(1)),

		interpTest("overflow").
			withLimits(Limits{Params: 3}).
			withInput(`1 2 3 4`).
			expectReports(XStackOverflow).
			expectStack(ints(1, 2, 3)...),

		interpTest("overflow in dup").
			withLimits(Limits{Params: 2}).
			withStack(ints(7, 8)...).
			withInput(`dup`).
			expectReports(XStackOverflow).
			expectStack(ints(7, 8)...),
	}.run(t)
}

func TestBuiltins_strings(t *testing.T) {
	interpTestCases{
		interpTest("sdup").
			withInput(`"x" sdup sdepth`).
			expectStack(Integer(2)).
			expectStrings("x", "x"),

		interpTest("sdrop").
			withInput(`"x" "y" sdrop`).
			expectStrings("x"),

		interpTest("sswap").
			withInput(`"a" "b" sswap`).
			expectStrings("b", "a"),

		interpTest("s+").
			withInput(`"ab" "cd" s+ type`).
			expectOutput("abcd").
			expectStrings(),

		interpTest("slen").
			withInput(`"snow☃" slen`).
			expectStack(Integer(5)).
			expectStrings("snow☃"),

		interpTest("s.").
			withInput(`"a" "b c" s.`).
			expectOutput("\"a\" \"b c\" \n"),

		interpTest("escapes").
			withInput(`"tab\there\n" type`).
			expectOutput("tab\there\n"),

		interpTest("string underflow").
			withInput(`type`).
			expectReports(XInsufficientParams),

		interpTest("string overflow").
			withLimits(Limits{Params: 10, Strings: 1}).
			withInput(`"a" "b"`).
			expectReports(XStringOverflow).
			expectStrings("a"),
	}.run(t)
}

func TestBuiltins_returns(t *testing.T) {
	interpTestCases{
		interpTest("round trip").
			withInput(`1 >r 2 r@ r> +`).
			expectStack(ints(3)...).
			expectReturns(),

		interpTest("underflow").
			withInput(`r>`).
			expectReports(XReturnUnderflow),

		interpTest("overflow").apply(
			withInterpLimits(Limits{Params: 10, Returns: 1}),
			withInterpInput(`1 >r 2 >r`),
			expectInterpReports(XReturnOverflow),
			expectInterpStack(Integer(2)),
			expectInterpReturns(Integer(1))),
	}.run(t)
}

func TestBuiltins_arithmetic(t *testing.T) {
	interpTestCases{
		interpTest("integers").
			withInput(`7 2 + 7 2 - 7 2 * 7 2 / -7 2 / 7 2 mod`).
			expectStack(ints(9, 5, 14, 3, -3, 1)...),

		interpTest("rationals").
			withInput(`1::2 1::3 + 1::2 1::2 + 2::3 2 *`).
			expectStack(Rational{bigRat(5, 6)}, Integer(1), Rational{bigRat(4, 3)}),

		interpTest("promotion").
			withInput(`1 0.5 + 1::4 0.25 + ( 1 , 1 ) 2 *`).
			expectStack(Float(1.5), Float(0.5), Complex(complex(2, 2))),

		interpTest("vectors").
			withInput(`[ 1 2 ] [ 3 4 ] + [ 1 2 ] 3 * 2 [ 1 2 ] *`).
			expectStack(
				Vector{Integer(4), Integer(6)},
				Vector{Integer(3), Integer(6)},
				Vector{Integer(2), Integer(4)}),

		interpTest("matrices").
			withInput(`[ [ 1 2 ] [ 3 4 ] ] [ [ 1 1 ] [ 1 1 ] ] - [ [ 1 2 ] ] 2 *`).
			expectStack(
				Matrix{{Integer(0), Integer(1)}, {Integer(2), Integer(3)}},
				Matrix{{Integer(2), Integer(4)}}),

		interpTest("vector length mismatch").
			withInput(`[ 1 2 ] [ 1 ] +`).
			expectReports(XArgTypeMismatch).
			expectStack(Vector{Integer(1), Integer(2)}, Vector{Integer(1)}),

		interpTest("division by zero").
			withInput(lines(`1 0 /`, `1.0 0 /`, `7 0 mod`)).
			expectReports(XDivisionByZero, XDivisionByZero, XDivisionByZero).
			expectStack(Integer(1), Integer(0), Float(1), Integer(0), Integer(7), Integer(0)),

		interpTest("negate abs").
			withInput(`5 negate -3 abs ( 3 , 4 ) abs -1::2 abs`).
			expectStack(Integer(-5), Integer(3), Float(5), Rational{bigRat(1, 2)}),

		interpTest("min max").
			withInput(`3 7 min 3 7 max 2.5 2 min`).
			expectStack(Integer(3), Integer(7), Integer(2)),
	}.run(t)
}

func TestBuiltins_logic(t *testing.T) {
	interpTestCases{
		interpTest("comparison").
			withInput(`1 2 < 2 1 < 1 1 <= 2 1 >= 1::2 0.5 = 1 2 <> 3 3 >`).
			expectStack(ints(-1, 0, -1, -1, -1, -1, 0)...),

		interpTest("zero tests").
			withInput(`0 0= 5 0= -2 0< 0.0 0<`).
			expectStack(ints(-1, 0, -1, 0)...),

		interpTest("bitwise").
			withInput(`6 3 and 6 3 or 0 not 7 not`).
			expectStack(ints(2, 7, -1, 0)...),

		interpTest("complex numbers are unordered").
			withInput(`( 1 , 0 ) 1 <`).
			expectReports(XArgTypeMismatch).
			expectStack(Complex(complex(1, 0)), Integer(1)),

		interpTest("vectors compare equal").
			withInput(`[ 1 2 ] [ 1 2 ] = [ 1 2 ] [ 2 1 ] =`).
			expectStack(ints(-1, 0)...),
	}.run(t)
}

func TestBuiltins_output(t *testing.T) {
	interpTestCases{
		interpTest("print").
			withInput(`1 . -2 . 1::3 . 2.5 . 3.0 . ( 1 , 2 ) . [ 1 2 ] . [ [ 1 2 ] [ 3 4 ] ] .`).
			expectOutput("1 -2 1::3 2.5 3. (1., 2.) [ 1 2 ] [[ 1 2 ][ 3 4 ]] ").
			expectStack(),

		interpTest("print stack").
			withInput(`1 2.5 .s`).
			expectOutput("<2> 1 2.5 \n").
			expectStack(Integer(1), Float(2.5)),

		interpTest("emit").
			withInput(`72 emit 105 emit space ascii ☃ emit cr`).
			expectOutput("Hi ☃\n"),

		interpTest("emit range").
			withInput(`-1 emit`).
			expectReports(XArgTypeMismatch).
			expectStack(Integer(-1)),

		interpTest("tags").
			withInput(`5 "m" unit . 5 "len" label "m" unit . 5 "m" unit 2 + . 2.5 "width" label .`).
			expectOutput("5_m len: 5_m 7_m width: 2.5 "),

		interpTest("tags are ignored by comparison").
			withInput(`5 "m" unit 5 = 5 "m" unit 6 <`).
			expectStack(ints(-1, -1)...),

		interpTest("clearing a tag").
			withInput(`5 "m" unit "" unit`).
			expectStack(Integer(5)),

		interpTest("dump").
			withInput(`1 dump`).
			expectFunc(func(t testingT, run *interpRun) {
				out := run.out.String()
				if !strings.HasPrefix(out, "# Interp Dump\n  params: 1\n") {
					t.Errorf("unexpected dump output %q", out)
				}
				if !strings.Contains(out, "# Scope root @0\n") {
					t.Errorf("expected the root scope in dump output %q", out)
				}
			}),
	}.run(t)
}
