package main

import (
	"fmt"
	"strings"
)

const (
	loopIndex = "_I"
	caseValue = "caseval"
)

func describe(x Executable) string {
	if s, ok := x.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", x)
}

type literal struct{ val Value }

func (lit literal) exec(in *Interp) { lit.val.pushSelf(in) }
func (lit literal) String() string  { return lit.val.String() }

//// variables

type varFetch struct {
	name string
	mod  byte
}

func (f varFetch) String() string {
	if f.mod != 0 {
		return "@" + string(f.mod) + f.name
	}
	return "@" + f.name
}

func (f varFetch) exec(in *Interp) {
	v := in.mustVariable(f.name)
	if v.value == nil {
		in.throw(XUnsetVariable, "%v has no value", f.name)
	}
	if f.mod == 0 {
		v.value.pushSelf(in)
		return
	}
	a := in.pop()
	done := false
	defer func() {
		if !done {
			in.push(a)
		}
	}()
	r := in.recallArith(f.mod, a, v.value)
	done = true
	in.push(r)
}

type varStore struct {
	name string
	mod  byte
}

func (s varStore) String() string {
	if s.mod != 0 {
		return "!" + string(s.mod) + s.name
	}
	return "!" + s.name
}

func (s varStore) exec(in *Interp) {
	v := in.mustVariable(s.name)
	arg := in.popStorable()
	done := false
	defer func() {
		if !done {
			arg.pushSelf(in)
		}
	}()
	val := arg
	if s.mod != 0 {
		if v.value == nil {
			in.throw(XUnsetVariable, "%v has no value", s.name)
		}
		val = in.recallArith(s.mod, v.value, arg)
	}
	in.store(v, val)
	done = true
}

// popStorable pops a value to be assigned: from the parameter stack, or
// from the string stack when the parameter stack is empty.
func (in *Interp) popStorable() Value {
	if in.params.Avail() == 0 && in.strs.Avail() > 0 {
		return String(in.popString())
	}
	return in.pop()
}

// recallArith combines a and b with the arithmetic word named by op. The
// parameter stack is left as it was found if the word fails.
func (in *Interp) recallArith(op byte, a, b Value) Value {
	w := in.lookupWord(string(op))
	if w == nil {
		in.throw(XUndefinedWord, "no arithmetic word %q", string(op))
	}
	depth := in.params.Len()
	defer func() {
		if e := recover(); e != nil {
			in.params.Truncate(depth)
			panic(e)
		}
	}()
	in.push(a)
	in.push(b)
	w.invoke(in)
	return in.pop()
}

type constNode struct{ name string }

func (c constNode) String() string { return "constant " + c.name }

func (c constNode) exec(in *Interp) {
	v := in.mustVariable(c.name)
	if v.value != nil {
		in.throw(XConstant, "%v is a constant", c.name)
	}
	v.value = in.popStorable()
	in.logf("=", "%v", v)
}

type undefNode struct{ name string }

func (u undefNode) String() string  { return "undef " + u.name }
func (u undefNode) exec(in *Interp) { in.undefine(u.name) }

//// conditionals

type ifElse struct {
	then, els *Sequence
}

func (ie ifElse) children() []*Sequence { return []*Sequence{ie.then, ie.els} }

func (ie ifElse) String() string {
	if ie.els != nil {
		return fmt.Sprintf("if %v else %v then", ie.then, ie.els)
	}
	return fmt.Sprintf("if %v then", ie.then)
}

func (ie ifElse) exec(in *Interp) {
	if in.popFlag() {
		ie.then.run(in)
	} else {
		ie.els.run(in)
	}
}

type caseClause struct {
	test *Sequence // computes the value to match
	body *Sequence
}

type caseNode struct {
	scope     *Scope
	clauses   []caseClause
	otherwise *Sequence
}

func (cn caseNode) children() []*Sequence {
	seqs := make([]*Sequence, 0, 2*len(cn.clauses)+1)
	for _, cl := range cn.clauses {
		seqs = append(seqs, cl.test, cl.body)
	}
	return append(seqs, cn.otherwise)
}

func (cn caseNode) String() string {
	var sb strings.Builder
	sb.WriteString("case")
	for _, cl := range cn.clauses {
		fmt.Fprintf(&sb, " %v of %v endof", cl.test, cl.body)
	}
	if cn.otherwise != nil {
		fmt.Fprintf(&sb, " otherwise %v", cn.otherwise)
	}
	sb.WriteString(" endcase")
	return sb.String()
}

func (cn caseNode) exec(in *Interp) {
	v := in.pop()
	n, ok := asInt(v)
	if !ok {
		in.mismatch([]Value{v}, "case expects an integer, got %v", v.TypeName())
	}

	depth := in.scopes.Len()
	sc := cn.scope.instantiate()
	sc.variable(caseValue).value = Integer(n)
	in.pushScope(sc)
	defer in.unwindScopes(depth)

	for _, cl := range cn.clauses {
		cl.test.run(in)
		tv := in.pop()
		m, ok := asInt(tv)
		if !ok {
			in.mismatch([]Value{tv}, "of expects an integer, got %v", tv.TypeName())
		}
		if m == n {
			cl.body.run(in)
			return
		}
	}
	cn.otherwise.run(in)
}

//// loops

type beginAgain struct{ body *Sequence }

func (ba beginAgain) children() []*Sequence { return []*Sequence{ba.body} }
func (ba beginAgain) String() string        { return fmt.Sprintf("begin %v again", ba.body) }

func (ba beginAgain) exec(in *Interp) {
	catchSignal(XLeave, func() {
		for {
			in.poll()
			ba.body.run(in)
		}
	})
}

type beginUntil struct{ body *Sequence }

func (bu beginUntil) children() []*Sequence { return []*Sequence{bu.body} }
func (bu beginUntil) String() string        { return fmt.Sprintf("begin %v until", bu.body) }

func (bu beginUntil) exec(in *Interp) {
	catchSignal(XLeave, func() {
		for {
			in.poll()
			bu.body.run(in)
			if in.popFlag() {
				return
			}
		}
	})
}

type beginWhile struct{ cond, body *Sequence }

func (bw beginWhile) children() []*Sequence { return []*Sequence{bw.cond, bw.body} }

func (bw beginWhile) String() string {
	return fmt.Sprintf("begin %v while %v repeat", bw.cond, bw.body)
}

func (bw beginWhile) exec(in *Interp) {
	catchSignal(XLeave, func() {
		for {
			in.poll()
			bw.cond.run(in)
			if !in.popFlag() {
				return
			}
			bw.body.run(in)
		}
	})
}

type doLoop struct {
	body *Sequence // its scope declares the loop index
	plus bool
}

func (dl doLoop) children() []*Sequence { return []*Sequence{dl.body} }

func (dl doLoop) String() string {
	if dl.plus {
		return fmt.Sprintf("do %v +loop", dl.body)
	}
	return fmt.Sprintf("do %v loop", dl.body)
}

func (dl doLoop) exec(in *Interp) {
	args := in.popN(2)
	limit, ok1 := asInt(args[0])
	initial, ok2 := asInt(args[1])
	if !ok1 || !ok2 {
		in.mismatch(args, "do expects integer limit and initial values, got %v and %v",
			args[0].TypeName(), args[1].TypeName())
	}
	if limit == initial {
		return
	}

	depth := in.scopes.Len()
	defer in.unwindScopes(depth)

	catchSignal(XLeave, func() {
		for i := initial; ; {
			in.poll()
			sc := dl.body.scope.instantiate()
			sc.variable(loopIndex).value = Integer(i)
			in.pushScope(sc)
			dl.body.execBody(in)
			in.unwindScopes(depth)

			step := int64(1)
			if dl.plus {
				v := in.pop()
				n, ok := asInt(v)
				if !ok {
					in.mismatch([]Value{v}, "+loop expects an integer step, got %v", v.TypeName())
				}
				if n == 0 {
					in.throw(XInvalidNumeric, "+loop step may not be zero")
				}
				step = n
			}

			if crosses(i, step, limit) {
				return
			}
			i += step
		}
	})
}

// crosses reports whether stepping the index i by step reaches limit, or
// passes below it when step is negative. Distances are compared as uint64;
// no int64 sum is formed.
func crosses(i, step, limit int64) bool {
	if step > 0 {
		return i >= limit || uint64(step) >= uint64(limit)-uint64(i)
	}
	return i < limit || uint64(-step) > uint64(i)-uint64(limit)
}

type leaveNode struct{}

func (leaveNode) String() string  { return "leave" }
func (leaveNode) exec(in *Interp) { in.signal(XLeave, "") }

type exitNode struct{}

func (exitNode) String() string  { return "exit" }
func (exitNode) exec(in *Interp) { in.signal(XExit, "") }

//// words

type recurseNode struct{ target *Word }

func (r *recurseNode) String() string { return "recurse" }

func (r *recurseNode) exec(in *Interp) {
	if r.target == nil {
		in.throw(XInvalidRecursion, "recurse outside of a completed definition")
	}
	r.target.invoke(in)
}

type catchNode struct{ word *Word }

func (c catchNode) String() string { return "catch " + c.word.Name }

func (c catchNode) exec(in *Interp) {
	params := in.params.Values()
	strs := in.strs.Values()
	rets := in.rets.Len()
	scopes := in.scopes.Len()
	calls := in.calls.Len()

	code := func() (code Code) {
		defer func() {
			if e := recover(); e != nil {
				err, ok := e.(*Error)
				if !ok {
					panic(e)
				}
				code = err.Code
				in.logf("!", "caught %v", err)
			}
		}()
		c.word.invoke(in)
		return 0
	}()

	if code != 0 {
		in.params.Restore(params)
		in.strs.Restore(strs)
		in.rets.Truncate(rets)
		in.unwindScopes(scopes)
		in.calls.Truncate(calls)
	}
	in.push(Integer(code))
}

type dictNode struct {
	op   string // forget, hide or show
	name string
}

func (d dictNode) String() string { return d.op + " " + d.name }

func (d dictNode) exec(in *Interp) {
	w, owner := lookupWord(in.scopeChain(), d.name, true)
	if w == nil {
		in.throw(XUndefinedWord, "undefined word %v", d.name)
	}
	switch d.op {
	case "forget":
		if w.Protected {
			in.throw(XProtected, "%v may not be forgotten", w.Name)
		}
		owner.removeWord(w.Name)
	case "hide":
		if w.Protected {
			in.throw(XProtected, "%v may not be hidden", w.Name)
		}
		w.Hidden = true
	case "show":
		w.Hidden = false
	}
	in.logf("=", "%v %v", d.op, w.Name)
}

type helpNode struct{ name string }

func (h helpNode) String() string { return "help " + h.name }

func (h helpNode) exec(in *Interp) {
	var kind, doc string
	if w, _ := lookupWord(in.scopeChain(), h.name, true); w != nil {
		kind, doc = "word", w.Doc
	} else if v, _ := lookupVariable(in.scopeChain(), h.name, 0); v != nil {
		kind, doc = "variable", v.Doc
	} else if isReserved(h.name) {
		kind, doc = "reserved word", ""
	} else {
		in.throw(XUndefinedWord, "undefined word %v", h.name)
	}
	if doc == "" {
		doc = "no documentation"
	}
	in.writeString(fmt.Sprintf("%v (%v): %v\n", h.name, kind, doc))
}

type messageNode struct {
	text  string
	abort bool
}

func (m messageNode) String() string {
	if m.abort {
		return fmt.Sprintf("abort\" %v\"", m.text)
	}
	return fmt.Sprintf(".\" %v\"", m.text)
}

func (m messageNode) exec(in *Interp) {
	if !m.abort {
		in.writeString(m.text)
		return
	}
	if in.popFlag() {
		in.signal(XAbortQuote, m.text)
	}
}
