package main

import "strings"

// NativeFunc implements a built-in word.
type NativeFunc func(in *Interp)

// Word binds a name to either a native routine or a compiled Sequence.
type Word struct {
	Name string
	Doc  string

	native NativeFunc
	body   *Sequence

	Protected bool // refuses forget and hide
	Hidden    bool
	Immediate bool // runs while its caller is being built

	MinParams  int
	MinStrings int
}

func (w *Word) String() string {
	if w == nil {
		return "<nil word>"
	}
	return w.Name
}

func (w *Word) exec(in *Interp) { w.invoke(in) }

func (w *Word) invoke(in *Interp) {
	if have := in.params.Avail(); have < w.MinParams {
		in.throw(XInsufficientParams, "%v needs %d parameters, have %d", w.Name, w.MinParams, have)
	}
	if have := in.strs.Avail(); have < w.MinStrings {
		in.throw(XInsufficientParams, "%v needs %d strings, have %d", w.Name, w.MinStrings, have)
	}

	if w.native != nil {
		in.logf("-", "%v", w.Name)
		w.native(in)
		return
	}

	if err := in.calls.Push(w); err != nil {
		in.throw(XCallOverflow, "%v", err)
	}
	defer in.calls.Pop()

	in.logf(">", "%v", w.Name)
	defer in.nest()()

	if catchSignal(XExit, func() { w.body.call(in) }) {
		in.logf("<", "exit %v", w.Name)
	}
}

// Executable is one node of a compiled body.
type Executable interface {
	exec(in *Interp)
}

// Sequence is a compiled body: an optional scope template, instantiated
// afresh each time the body runs, and the nodes to execute within it.
type Sequence struct {
	scope *Scope // nil runs in the caller's scope
	body  []Executable
}

func (seq *Sequence) String() string {
	if seq == nil {
		return ""
	}
	parts := make([]string, 0, len(seq.body))
	for _, x := range seq.body {
		parts = append(parts, describe(x))
	}
	return strings.Join(parts, " ")
}

func (seq *Sequence) execBody(in *Interp) {
	for _, x := range seq.body {
		x.exec(in)
	}
}

// run executes the body within a fresh instance of its scope.
func (seq *Sequence) run(in *Interp) {
	if seq == nil {
		return
	}
	if seq.scope == nil {
		seq.execBody(in)
		return
	}
	depth := in.scopes.Len()
	in.pushScope(seq.scope.instantiate())
	defer in.unwindScopes(depth)
	seq.execBody(in)
}

// call executes the body of a colon word: in locals are popped from the
// parameter stack, and out locals pushed back after the body finishes,
// whether or not it finished normally.
func (seq *Sequence) call(in *Interp) {
	sc := seq.scope.instantiate()

	args := in.popN(len(sc.ins))
	for i, name := range sc.ins {
		sc.variable(name).value = args[i]
	}

	depth := in.scopes.Len()
	in.pushScope(sc)
	defer func() {
		e := recover()
		in.unwindScopes(depth)

		outs := make([]Value, len(sc.outs))
		for i, name := range sc.outs {
			outs[i] = sc.variable(name).value
			if outs[i] != nil {
				continue
			}
			if e == nil || isSignalValue(e, XExit) {
				in.throw(XUnsetVariable, "output %v was never set", name)
			}
			panic(e)
		}
		for i, val := range outs {
			if err := in.params.Push(val); err != nil {
				in.params.Truncate(in.params.Len() - i)
				if e == nil {
					in.throw(XStackOverflow, "%v", err)
				}
				break
			}
		}
		if e != nil {
			panic(e)
		}
	}()

	seq.execBody(in)
}

func isSignalValue(e interface{}, code Code) bool {
	sig, ok := e.(*Signal)
	return ok && sig.Code == code
}

// parent is implemented by nodes that contain sequences.
type parent interface {
	children() []*Sequence
}

// walk visits every node under seq in post-order.
func (seq *Sequence) walk(fn func(Executable)) {
	if seq == nil {
		return
	}
	for _, x := range seq.body {
		if p, ok := x.(parent); ok {
			for _, child := range p.children() {
				child.walk(fn)
			}
		}
		fn(x)
	}
}

// patchRecurse binds every unbound recurse node in w's body to w.
func patchRecurse(w *Word) {
	w.body.walk(func(x Executable) {
		if r, ok := x.(*recurseNode); ok && r.target == nil {
			r.target = w
		}
	})
}
