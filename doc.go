/* Command rpn: an RPN stack language in the Forth tradition

Programs are sequences of whitespace separated tokens read left to right.
Literals push themselves: numbers onto the parameter stack, strings onto a
separate string stack. Every other token names a word, and evaluating a
word runs it against the stacks:

	2 3 + .          \ prints 5
	"hello" type     \ prints hello

Section 1: Values

Numbers come in a closed set of kinds: Integer, Rational (written 1::3),
Float, Complex (written ( re , im )), Vector (written [ 1 2 3 ]) and Matrix
(written [ [ 1 2 ] [ 3 4 ] ]). Arithmetic promotes along Integer, Rational,
Float, Complex; integer and rational division by zero raise code -10. Any
value may carry a label and a unit tag, attached by the label and unit
words, which arithmetic and comparison ignore.

Section 2: Words and definitions

A colon definition binds a name to a compiled body:

	: double dup + ;
	5 double .       \ prints 10

Definitions may carry a doc string, shown by help, and declare locals
between bars. An in: local is bound from the parameter stack when the word
is called; an out: local is pushed back when it returns; inout: is both:

	: hyp """length of a hypotenuse""" |in:a in:b out:c|
		@a @a * @b @b * + !c ;

Undecorated locals start unset. Word names are resolved when a body is
built, so redefining a word does not change earlier definitions that use
it; variables are resolved by name each time they are read or written.

The words immediate, forget, hide and show operate on the dictionary. Built
in arithmetic, the loop index words and the words that raise signals are
protected: they can be neither forgotten nor hidden.

Section 3: Variables

	variable x       \ declares x, unset
	42 !x @x .       \ stores then fetches, prints 42
	5 !+x            \ storage arithmetic: x = x + 5
	2 @*x            \ recall arithmetic: pushes 2 * x, x is unchanged
	7 constant seven \ declares seven with the value 7, never stored again

Stores run the variable's pre-hooks, which may reject the new value, then
assign, then run its post-hooks. Readonly and constant variables refuse
stores. The root scope holds the system variables version, trace and
precision; version may not be shadowed by any nested declaration.

Section 4: Control flow

Control words build nested bodies while a definition or a top-level line is
read; an unterminated construct reads more lines until it closes.

	flag if ... then
	flag if ... else ... then
	begin ... flag until
	begin ... flag while ... repeat
	begin ... again
	limit initial do ... loop
	limit initial do ... step +loop
	n case 1 of ... endof 2 of ... endof otherwise ... endcase

Inside do loops i and j read the innermost and next loop index. leave exits
the innermost loop, exit returns from the current word, and recurse calls
the word being defined.

Section 5: Errors and signals

Errors carry a negative code from a fixed table (-4 stack underflow, -10
division by zero, -13 undefined word, ...). catch runs a word and pushes 0
when it completes, or the code of any error it raised, after restoring the
stacks to their depth before the call:

	: boom 1 0 / ;
	catch boom .     \ prints -10

throw raises an error with any nonzero code; -1 and -2 act as abort and
abort", and the internal codes -512 to -514 may not be thrown. abort and
abort" clear the stacks and return to the top level without being caught. Errors that reach
the top level are reported and reading continues with the next line.
*/
package main
