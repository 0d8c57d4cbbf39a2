package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/jcorbin/rpn/internal/stack"
)

// Interp is an RPN interpreter: a dictionary of words organized in nested
// scopes, and the stacks that words operate on.
type Interp struct {
	Core

	params stack.Stack[Value]  // general values
	strs   stack.Stack[string] // strings
	rets   stack.Stack[Value]  // >r r> r@ scratch
	scopes stack.Stack[*Scope] // runtime scopes, root at the base
	calls  stack.Stack[*Word]  // executing colon words

	root *Scope
	last *Word // most recently defined word

	precision int
	traceFn   func(mess string, args ...interface{})

	ctx     context.Context
	pending int32 // control code raised at the next poll

	// more supplies continuation lines to complete a multi-line construct;
	// nil means none are available.
	more       func() (string, error)
	readLineFn func(continued bool) (string, error)
	reportFn   func(err error)
	openFile   func(name string) (io.ReadCloser, error)
	preload    []string
	exited     bool

	prompt         string
	continuePrompt string
}

// Prompt returns the prompt to show before reading a line of input.
func (in *Interp) Prompt(continued bool) string {
	if continued {
		return in.continuePrompt
	}
	return in.prompt
}

// Limits bounds each of the interpreter's stacks; zero means unbounded.
type Limits struct {
	Params  int `toml:"params" yaml:"params"`
	Strings int `toml:"strings" yaml:"strings"`
	Returns int `toml:"returns" yaml:"returns"`
	Scopes  int `toml:"scopes" yaml:"scopes"`
	Calls   int `toml:"calls" yaml:"calls"`
}

var defaultLimits = Limits{
	Params:  4096,
	Strings: 1024,
	Returns: 1024,
	Scopes:  1024,
	Calls:   1024,
}

func (in *Interp) init() {
	in.params.Name = "parameter"
	in.strs.Name = "string"
	in.rets.Name = "return"
	in.scopes.Name = "scope"
	in.calls.Name = "call"
	in.setLimits(defaultLimits)
	in.precision = 12
	in.ctx = context.Background()

	in.root = newScope("root")
	if err := in.scopes.Push(in.root); err != nil {
		panic(err)
	}
	in.defineBuiltins()
	in.defineSystemVariables()
}

func (in *Interp) setLimits(lim Limits) {
	in.params.Limit = lim.Params
	in.strs.Limit = lim.Strings
	in.rets.Limit = lim.Returns
	in.scopes.Limit = lim.Scopes
	in.calls.Limit = lim.Calls
}

//// parameter stack

func (in *Interp) push(v Value) {
	if err := in.params.Push(v); err != nil {
		in.throw(XStackOverflow, "%v", err)
	}
}

func (in *Interp) pushAll(vs ...Value) {
	for _, v := range vs {
		in.push(v)
	}
}

// need raises a stack underflow unless n values are available.
func (in *Interp) need(n int) {
	if err := in.params.Need(n); err != nil {
		in.throw(XStackUnderflow, "%v", err)
	}
}

func (in *Interp) pop() Value {
	v, err := in.params.Pop()
	if err != nil {
		in.throw(XStackUnderflow, "%v", err)
	}
	return v
}

// popN pops n values, returning them in stack order: the former top is
// last. Nothing is popped unless all n are available.
func (in *Interp) popN(n int) []Value {
	in.need(n)
	vs := make([]Value, n)
	for i := n - 1; i >= 0; i-- {
		vs[i] = in.pop()
	}
	return vs
}

func (in *Interp) top() Value {
	v, err := in.params.Top()
	if err != nil {
		in.throw(XStackUnderflow, "%v", err)
	}
	return v
}

// mismatch restores popped values, then raises an argument type mismatch.
func (in *Interp) mismatch(restore []Value, mess string, args ...interface{}) {
	in.pushAll(restore...)
	in.throw(XArgTypeMismatch, mess, args...)
}

func (in *Interp) popInt() int64 {
	v := in.pop()
	n, ok := asInt(v)
	if !ok {
		in.mismatch([]Value{v}, "expected an integer, got %v", v.TypeName())
	}
	return n
}

func (in *Interp) popFlag() bool {
	v := in.pop()
	flag, ok := asFlag(v)
	if !ok {
		in.mismatch([]Value{v}, "expected a numeric flag, got %v", v.TypeName())
	}
	return flag
}

//// string stack

func (in *Interp) pushString(s string) {
	if err := in.strs.Push(s); err != nil {
		in.throw(XStringOverflow, "%v", err)
	}
}

func (in *Interp) popString() string {
	s, err := in.strs.Pop()
	if err != nil {
		in.throw(XStringUnderflow, "%v", err)
	}
	return s
}

//// scopes

func (in *Interp) scopeChain() scopeChain {
	return func(fn func(*Scope) bool) {
		in.scopes.Each(func(_ int, sc *Scope) bool { return fn(sc) })
	}
}

func (in *Interp) currentScope() *Scope {
	sc, _ := in.scopes.Top()
	return sc
}

func (in *Interp) pushScope(sc *Scope) {
	if err := in.scopes.Push(sc); err != nil {
		in.throw(XScopeOverflow, "%v", err)
	}
	in.logf(">", "scope %v", sc.Name)
}

func (in *Interp) popScope() {
	if in.scopes.Len() <= 1 {
		in.halt(errors.New("attempted to pop the root scope"))
	}
	sc, _ := in.scopes.Pop()
	in.logf("<", "scope %v", sc.Name)
}

// unwindScopes pops scopes until only depth remain; the root is never
// popped.
func (in *Interp) unwindScopes(depth int) {
	if depth < 1 {
		depth = 1
	}
	in.scopes.Truncate(depth)
}

func (in *Interp) lookupWord(name string) *Word {
	w, _ := lookupWord(in.scopeChain(), name, false)
	return w
}

func (in *Interp) mustVariable(name string) *Variable {
	v, _ := lookupVariable(in.scopeChain(), name, 0)
	if v == nil {
		in.throw(XUndefinedVariable, "undefined variable %v", name)
	}
	return v
}

//// variables

// store assigns a variable, honoring its flags and hooks. Pre-hooks may
// reject the assignment; post-hooks run after it. Constants are only ever
// set by constNode, never stored.
func (in *Interp) store(v *Variable, val Value) {
	switch {
	case v.Constant:
		in.throw(XConstant, "%v is a constant", v.Name)
	case v.ReadOnly:
		in.throw(XReadOnly, "%v is read only", v.Name)
	}
	old := v.value
	for _, hook := range v.pre {
		if err := hook(v.Name, old, val); err != nil {
			in.throw(XHookRejected, "%v: %v", v.Name, err)
		}
	}
	v.value = val
	in.logf("=", "%v", v)
	for _, hook := range v.post {
		hook(v.Name, old, val)
	}
}

// undefine removes a variable from the innermost scope that defines it.
func (in *Interp) undefine(name string) {
	v, owner := lookupVariable(in.scopeChain(), name, 0)
	if v == nil {
		in.throw(XUndefinedVariable, "undefined variable %v", name)
	}
	if v.Protected || v.ReadOnly || v.Constant {
		in.throw(XProtected, "%v may not be undefined", name)
	}
	old := v.value
	for _, hook := range v.pre {
		if err := hook(v.Name, old, nil); err != nil {
			in.throw(XHookRejected, "%v: %v", v.Name, err)
		}
	}
	owner.removeVariable(name)
	for _, hook := range v.post {
		hook(v.Name, old, nil)
	}
}

//// interrupts

// Interrupt requests that the running evaluation be interrupted; it is
// safe to call from any goroutine. The interrupt is raised the next time
// the interpreter polls, at a token fetch or loop iteration.
func (in *Interp) Interrupt() {
	atomic.StoreInt32(&in.pending, int32(XUserInterrupt))
}

func (in *Interp) poll() {
	if code := Code(atomic.SwapInt32(&in.pending, 0)); code != 0 {
		in.signal(code, "")
	}
	if err := in.ctx.Err(); err != nil {
		in.signal(XUserInterrupt, fmt.Sprintf("interrupted: %v", err))
	}
}
