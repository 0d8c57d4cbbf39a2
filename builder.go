package main

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jcorbin/rpn/internal/lex"
	"github.com/jcorbin/rpn/internal/runeio"
)

// marker identifies an open construct on the builder's parse stack.
type marker int

const (
	markColon marker = iota + 1
	markIf
	markElse
	markBegin
	markWhile
	markDo
	markCase
	markOf
	markOtherwise
)

var markerNames = [...]string{
	markColon:     ":",
	markIf:        "if",
	markElse:      "else",
	markBegin:     "begin",
	markWhile:     "while",
	markDo:        "do",
	markCase:      "case",
	markOf:        "of",
	markOtherwise: "otherwise",
}

func (m marker) String() string {
	if int(m) < len(markerNames) && markerNames[m] != "" {
		return markerNames[m]
	}
	return fmt.Sprintf("marker(%d)", int(m))
}

type frame struct {
	mark  marker
	pos   lex.Pos
	scope *Scope // template pushed by this construct, if any
	code  []Executable

	name string // definition name
	doc  string

	prior     *Sequence // the if branch under an else, or the condition under a while
	clauses   []caseClause
	otherwise *Sequence
}

// builder assembles executable trees from a token stream. It keeps its own
// scope stack: a copy of the runtime scope chain at its base, with the
// templates of open constructs above it.
type builder struct {
	in     *Interp
	lx     *lex.Lexer
	peeked *lex.Token
	more   func() (string, error)

	scopes []*Scope // innermost last
	base   int
	frames []*frame

	parens   int
	brackets int

	out Executable
}

func newBuilder(in *Interp, text string, more func() (string, error)) *builder {
	b := &builder{
		in:   in,
		lx:   lex.New(text),
		more: more,
	}
	in.scopes.Each(func(_ int, sc *Scope) bool {
		b.scopes = append([]*Scope{sc}, b.scopes...)
		return true
	})
	b.base = len(b.scopes)
	return b
}

// unit builds the next complete top-level construct, returning nil once
// the input is exhausted. After an error, the rest of the input is
// discarded.
func (b *builder) unit() (x Executable, err error) {
	defer func() {
		if e := recover(); e != nil {
			b.reset()
			if berr, ok := e.(*Error); ok {
				err = berr
				return
			}
			panic(e)
		}
	}()

	b.out = nil
	for {
		tok := b.next()
		if tok.Kind == lex.EOF {
			if b.done() {
				return nil, nil
			}
			b.continuation(tok.Pos)
			continue
		}
		b.token(tok)
		if b.out != nil && b.done() {
			return b.out, nil
		}
	}
}

func (b *builder) done() bool {
	return len(b.frames) == 0 && b.parens == 0 && b.brackets == 0
}

func (b *builder) reset() {
	b.lx.Drain()
	b.peeked = nil
	b.frames = nil
	b.scopes = b.scopes[:b.base]
	b.parens, b.brackets = 0, 0
}

func (b *builder) fail(pos lex.Pos, code Code, mess string, args ...interface{}) {
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	err := b.in.errorf(code, "%v: %v", pos, mess)
	b.in.logf("!", "build %v", err)
	panic(err)
}

//// tokens

func (b *builder) next() lex.Token {
	if tok := b.peeked; tok != nil {
		b.peeked = nil
		return *tok
	}
	b.in.poll()
	tok := b.lx.Next()
	b.in.logf("?", "%v", tok)
	return tok
}

func (b *builder) peek() lex.Token {
	if b.peeked == nil {
		tok := b.next()
		b.peeked = &tok
	}
	return *b.peeked
}

// continuation feeds another line of input to complete an open construct.
func (b *builder) continuation(pos lex.Pos) {
	if b.more == nil {
		b.fail(pos, XUnexpectedEOF, "unterminated %v", b.openConstruct())
	}
	line, err := b.more()
	if err != nil {
		b.fail(pos, XUnexpectedEOF, "unterminated %v: %v", b.openConstruct(), err)
	}
	b.lx.Feed(line)
}

func (b *builder) openConstruct() string {
	switch {
	case b.parens > 0:
		return "("
	case b.brackets > 0:
		return "["
	case len(b.frames) > 0:
		return b.top().mark.String()
	}
	return "input"
}

// within returns the next token, reading continuation lines as needed.
func (b *builder) within() lex.Token {
	for {
		tok := b.next()
		if tok.Kind != lex.EOF {
			return tok
		}
		b.continuation(tok.Pos)
	}
}

// operand returns the token following a two token construct like
// "variable x"; running out of input is an error.
func (b *builder) operand(intro lex.Token) lex.Token {
	tok := b.next()
	switch tok.Kind {
	case lex.EOF:
		b.fail(intro.Pos, XUnexpectedEOF, "%v expects a following name", intro.Word)
	case lex.Error:
		b.fail(tok.Pos, XLexical, "%v", tok.Err)
	}
	return tok
}

func (b *builder) name(intro lex.Token) string {
	tok := b.operand(intro)
	if tok.Kind != lex.Ident || tok.Text == "" {
		b.fail(tok.Pos, XZeroLengthName, "%v expects a name, got %v", intro.Word, tok.Kind)
	}
	return tok.Text
}

func (b *builder) token(tok lex.Token) {
	switch tok.Kind {
	case lex.Error:
		b.fail(tok.Pos, XLexical, "%v", tok.Err)

	case lex.Integer, lex.Float, lex.Rational:
		b.emit(literal{numberValue(tok)})

	case lex.String, lex.DocString:
		b.emit(literal{String(tok.Text)})

	case lex.Message:
		b.emit(messageNode{text: tok.Text, abort: tok.Word == "abort"})

	case lex.Fetch:
		b.emit(varFetch{name: tok.Text, mod: tok.Mod})

	case lex.Store:
		b.emit(varStore{name: tok.Text, mod: tok.Mod})

	case lex.LParen:
		b.emit(literal{b.complexLiteral(tok)})

	case lex.LBracket:
		b.emit(literal{b.arrayLiteral(tok)})

	case lex.Pipe:
		b.fail(tok.Pos, XControlMismatch, "locals may only be declared at the start of a definition or block")

	case lex.RParen, lex.RBracket, lex.Comma:
		b.fail(tok.Pos, XControlMismatch, "unexpected %v", tok.Kind)

	case lex.Ident:
		b.ident(tok)

	case lex.Reserved:
		b.reserved(tok)

	default:
		b.fail(tok.Pos, XLexical, "unexpected %v", tok)
	}
}

func (b *builder) emit(x Executable) {
	if len(b.frames) == 0 {
		b.out = x
		return
	}
	f := b.top()
	f.code = append(f.code, x)
}

func numberValue(tok lex.Token) Value {
	switch tok.Kind {
	case lex.Integer:
		return Integer(tok.Int)
	case lex.Float:
		return Float(tok.Float)
	case lex.Rational:
		return normRat(tok.Rat)
	}
	return nil
}

//// literals

// complexLiteral parses "( re , im )".
func (b *builder) complexLiteral(open lex.Token) Value {
	if b.parens > 0 {
		b.fail(open.Pos, XControlMismatch, "parentheses do not nest")
	}
	b.parens++
	defer func() { b.parens-- }()

	part := func() float64 {
		tok := b.within()
		v := numberValue(tok)
		if v == nil {
			b.fail(tok.Pos, XArgTypeMismatch, "complex literal expects a number, got %v", tok.Kind)
		}
		f, _ := promote(v, rankFloat)
		return float64(f.(Float))
	}
	expect := func(kind lex.Kind) {
		if tok := b.within(); tok.Kind != kind {
			b.fail(tok.Pos, XControlMismatch, "complex literal expects %v, got %v", kind, tok.Kind)
		}
	}

	re := part()
	expect(lex.Comma)
	im := part()
	expect(lex.RParen)
	return Complex(complex(re, im))
}

// arrayLiteral parses "[ 1 2 3 ]" vectors and "[ [1 2] [3 4] ]" matrices.
func (b *builder) arrayLiteral(open lex.Token) Value {
	b.brackets++
	defer func() { b.brackets-- }()

	var elems Vector
	rows := 0
	for {
		tok := b.within()
		switch tok.Kind {
		case lex.RBracket:
			if rows == 0 {
				if elems == nil {
					elems = Vector{}
				}
				return elems
			}
			if rows != len(elems) {
				b.fail(tok.Pos, XArgTypeMismatch, "matrix literal may not mix rows and numbers")
			}
			m := make(Matrix, len(elems))
			for i, row := range elems {
				m[i] = row.(Vector)
				if len(m[i]) != len(m[0]) {
					b.fail(tok.Pos, XArgTypeMismatch, "matrix rows must have equal length")
				}
			}
			return m

		case lex.LBracket:
			if b.brackets > 1 {
				b.fail(tok.Pos, XControlMismatch, "brackets nest at most two deep")
			}
			row := b.arrayLiteral(tok)
			vec, ok := row.(Vector)
			if !ok {
				b.fail(tok.Pos, XArgTypeMismatch, "matrix rows must be vectors")
			}
			elems = append(elems, vec)
			rows++

		default:
			v := numberValue(tok)
			if v == nil {
				b.fail(tok.Pos, XArgTypeMismatch, "only numbers may appear within [ ], got %v", tok.Kind)
			}
			elems = append(elems, v)
		}
	}
}

//// names

func (b *builder) chain() scopeChain {
	return func(fn func(*Scope) bool) {
		for i := len(b.scopes) - 1; i >= 0; i-- {
			if !fn(b.scopes[i]) {
				return
			}
		}
	}
}

func (b *builder) scope() *Scope { return b.scopes[len(b.scopes)-1] }

func (b *builder) ident(tok lex.Token) {
	if w, _ := lookupWord(b.chain(), tok.Text, false); w != nil {
		if w.Immediate {
			b.in.logf("#", "immediate %v", w.Name)
			w.invoke(b.in)
			return
		}
		b.emit(w)
		return
	}
	if v, _ := lookupVariable(b.chain(), tok.Text, 0); v != nil {
		b.emit(varFetch{name: v.Name})
		return
	}
	b.fail(tok.Pos, XUndefinedWord, "undefined word %v", tok.Text)
}

func (b *builder) declare(pos lex.Pos, v *Variable) {
	if code, mess := declareVariable(b.chain(), b.scope(), v); code != 0 {
		b.fail(pos, code, "%v", mess)
	}
}

func isReserved(name string) bool { return lex.ReservedWords[strings.ToLower(name)] }

//// constructs

func (b *builder) top() *frame { return b.frames[len(b.frames)-1] }

func (b *builder) open(mark marker, tok lex.Token, sc *Scope) *frame {
	f := &frame{mark: mark, pos: tok.Pos, scope: sc}
	b.frames = append(b.frames, f)
	if sc != nil {
		b.scopes = append(b.scopes, sc)
	}
	return f
}

// expect returns the innermost open construct, which must be one of marks.
func (b *builder) expect(tok lex.Token, marks ...marker) *frame {
	if len(b.frames) > 0 {
		f := b.top()
		for _, mark := range marks {
			if f.mark == mark {
				return f
			}
		}
		b.fail(tok.Pos, XControlMismatch, "%v does not close %v opened at %v", tok.Word, f.mark, f.pos)
	}
	b.fail(tok.Pos, XControlMismatch, "%v without %v", tok.Word, marks[0])
	return nil
}

// close pops the innermost construct, finalizing its code and scope.
func (b *builder) close(f *frame) *Sequence {
	b.frames = b.frames[:len(b.frames)-1]
	seq := &Sequence{scope: f.scope, body: f.code}
	if f.scope != nil {
		b.scopes = b.scopes[:len(b.scopes)-1]
		switch f.mark {
		case markIf, markElse, markOf, markOtherwise:
			if f.scope.empty() {
				seq.scope = nil
			}
		}
	}
	return seq
}

// locals parses an optional "|a b c|" declaration opening a block; in, out
// and inout decorations are only allowed when decorated is set.
func (b *builder) locals(f *frame, decorated bool) {
	if b.peek().Kind != lex.Pipe {
		return
	}
	b.next()
	for {
		tok := b.within()
		if tok.Kind == lex.Pipe {
			return
		}
		if tok.Kind != lex.Ident {
			b.fail(tok.Pos, XZeroLengthName, "local declaration expects a name, got %v", tok.Kind)
		}

		name, isIn, isOut := tok.Text, false, false
		if i := strings.IndexByte(name, ':'); i >= 0 {
			switch strings.ToLower(name[:i]) {
			case "in":
				isIn = true
			case "out":
				isOut = true
			case "inout":
				isIn, isOut = true, true
			default:
				b.fail(tok.Pos, XZeroLengthName, "invalid local decoration %q", name[:i+1])
			}
			if !decorated {
				b.fail(tok.Pos, XControlMismatch, "in and out locals are only allowed on definitions")
			}
			name = name[i+1:]
		}
		if name == "" {
			b.fail(tok.Pos, XZeroLengthName, "empty local name")
		}

		b.declare(tok.Pos, &Variable{Name: name})
		f.scope.all = append(f.scope.all, name)
		if isIn {
			f.scope.ins = append(f.scope.ins, name)
		}
		if isOut {
			f.scope.outs = append(f.scope.outs, name)
		}
	}
}

func (b *builder) reserved(tok lex.Token) {
	switch tok.Word {
	case ":":
		name := b.name(tok)
		f := b.open(markColon, tok, newScope(name))
		f.name = name
		if doc := b.peek(); doc.Kind == lex.DocString {
			b.next()
			f.doc = doc.Text
		}
		b.locals(f, true)

	case ";":
		f := b.expect(tok, markColon)
		b.define(tok, f.name, f.doc, b.close(f))

	case "if":
		b.locals(b.open(markIf, tok, newScope("if")), false)

	case "else":
		branch := b.close(b.expect(tok, markIf))
		f := b.open(markElse, tok, newScope("else"))
		f.prior = branch
		b.locals(f, false)

	case "then":
		f := b.expect(tok, markIf, markElse)
		seq := b.close(f)
		if f.mark == markElse {
			b.emit(ifElse{then: f.prior, els: seq})
		} else {
			b.emit(ifElse{then: seq})
		}

	case "begin":
		b.open(markBegin, tok, nil)

	case "again":
		b.emit(beginAgain{b.close(b.expect(tok, markBegin))})

	case "until":
		b.emit(beginUntil{b.close(b.expect(tok, markBegin))})

	case "while":
		cond := b.close(b.expect(tok, markBegin))
		b.open(markWhile, tok, nil).prior = cond

	case "repeat":
		f := b.expect(tok, markWhile)
		body := b.close(f)
		b.emit(beginWhile{cond: f.prior, body: body})

	case "do":
		sc := newScope("do")
		sc.setVariable(&Variable{Name: loopIndex, ReadOnly: true})
		b.locals(b.open(markDo, tok, sc), false)

	case "loop", "+loop":
		b.emit(doLoop{body: b.close(b.expect(tok, markDo)), plus: tok.Word == "+loop"})

	case "case":
		sc := newScope("case")
		sc.setVariable(&Variable{Name: caseValue, ReadOnly: true})
		b.open(markCase, tok, sc)

	case "of":
		cf := b.expect(tok, markCase)
		test := &Sequence{body: cf.code}
		cf.code = nil
		f := b.open(markOf, tok, newScope("of"))
		f.prior = test
		b.locals(f, false)

	case "endof":
		f := b.expect(tok, markOf)
		body := b.close(f)
		cf := b.top()
		cf.clauses = append(cf.clauses, caseClause{test: f.prior, body: body})

	case "otherwise":
		cf := b.expect(tok, markCase)
		if len(cf.code) > 0 {
			b.fail(tok.Pos, XControlMismatch, "otherwise must follow endof")
		}
		b.locals(b.open(markOtherwise, tok, newScope("otherwise")), false)

	case "endcase":
		f := b.expect(tok, markCase, markOtherwise)
		if f.mark == markOtherwise {
			other := b.close(f)
			f = b.expect(tok, markCase)
			f.otherwise = other
		}
		if len(f.code) > 0 {
			b.fail(tok.Pos, XControlMismatch, "endcase must follow endof")
		}
		seq := b.close(f)
		b.emit(caseNode{scope: seq.scope, clauses: f.clauses, otherwise: f.otherwise})

	case "variable":
		b.declare(tok.Pos, &Variable{Name: b.name(tok)})

	case "constant":
		name := b.name(tok)
		b.declare(tok.Pos, &Variable{Name: name, Constant: true})
		b.emit(constNode{name})

	case "catch":
		name := b.name(tok)
		w, _ := lookupWord(b.chain(), name, false)
		if w == nil {
			b.fail(tok.Pos, XUndefinedWord, "undefined word %v", name)
		}
		b.emit(catchNode{w})

	case "forget", "hide", "show":
		b.emit(dictNode{op: tok.Word, name: b.name(tok)})

	case "undef":
		b.emit(undefNode{b.name(tok)})

	case "help":
		b.emit(helpNode{b.operand(tok).Text})

	case "ascii":
		b.emit(literal{Integer(b.asciiCode(tok))})

	case "recurse":
		b.emit(&recurseNode{})

	case "leave":
		if !b.inLoop() {
			b.fail(tok.Pos, XControlMismatch, "leave outside of a loop")
		}
		b.emit(leaveNode{})

	case "exit":
		b.emit(exitNode{})

	default:
		b.fail(tok.Pos, XControlMismatch, "unexpected %v", tok.Word)
	}
}

// define binds a finished colon body into a new word in the enclosing
// scope, then points its recurse nodes at it.
func (b *builder) define(tok lex.Token, name, doc string, body *Sequence) {
	target := b.scope()
	if old := target.word(name); old != nil && old.Protected {
		b.fail(tok.Pos, XProtected, "%v may not be redefined", old.Name)
	}
	w := &Word{
		Name:      name,
		Doc:       doc,
		body:      body,
		MinParams: len(body.scope.ins),
	}
	target.setWord(w)
	patchRecurse(w)
	b.in.last = w
	b.in.logf("#", "define %v in %v: %v", w.Name, target.Name, body)
}

func (b *builder) inLoop() bool {
	for i := len(b.frames) - 1; i >= 0; i-- {
		switch b.frames[i].mark {
		case markDo, markBegin, markWhile:
			return true
		case markColon:
			return false
		}
	}
	return false
}

func (b *builder) asciiCode(intro lex.Token) rune {
	tok := b.operand(intro)
	if r, ok := runeio.Control(tok.Text); ok {
		return r
	}
	if r, _ := utf8.DecodeRuneInString(tok.Text); tok.Text != "" && r != utf8.RuneError {
		return r
	}
	b.fail(tok.Pos, XZeroLengthName, "ascii expects a character")
	return 0
}
