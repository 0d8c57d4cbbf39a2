package main

import "fmt"

// Scope is a namespace of words and variables.
//
// Scopes built by the structure builder are templates; each time the code
// that owns a template runs, instantiate creates a fresh runtime copy with
// unset variables.
type Scope struct {
	Name string

	words    map[string]*Word
	vars     map[string]*Variable
	wordList names
	varList  names

	// declared locals, in declaration order
	all  []string
	ins  []string
	outs []string
}

func newScope(name string) *Scope {
	return &Scope{
		Name:  name,
		words: make(map[string]*Word),
		vars:  make(map[string]*Variable),
	}
}

func (sc *Scope) empty() bool { return len(sc.words) == 0 && len(sc.vars) == 0 }

func (sc *Scope) word(name string) *Word { return sc.words[foldName(name)] }

func (sc *Scope) variable(name string) *Variable { return sc.vars[foldName(name)] }

// wordNames returns the names of all words, in definition order.
func (sc *Scope) wordNames() []string { return sc.wordList.list() }

// varNames returns the names of all variables, in definition order.
func (sc *Scope) varNames() []string { return sc.varList.list() }

func (sc *Scope) setWord(w *Word) {
	sc.wordList.add(w.Name)
	sc.words[foldName(w.Name)] = w
}

func (sc *Scope) removeWord(name string) {
	sc.wordList.remove(name)
	delete(sc.words, foldName(name))
}

func (sc *Scope) setVariable(v *Variable) {
	sc.varList.add(v.Name)
	sc.vars[foldName(v.Name)] = v
}

func (sc *Scope) removeVariable(name string) {
	sc.varList.remove(name)
	delete(sc.vars, foldName(name))
}

// instantiate creates a runtime scope from a template: words are shared,
// each variable is fresh and unset.
func (sc *Scope) instantiate() *Scope {
	inst := newScope(sc.Name)
	for _, name := range sc.wordList.order {
		inst.setWord(sc.word(name))
	}
	for _, name := range sc.varList.order {
		inst.setVariable(sc.variable(name).fresh())
	}
	inst.all, inst.ins, inst.outs = sc.all, sc.ins, sc.outs
	return inst
}

// PreHook may reject a variable mutation by returning an error; new is nil
// when the variable is being undefined.
type PreHook func(name string, old, new Value) error

// PostHook observes a completed variable mutation.
type PostHook func(name string, old, new Value)

// Variable is a named, optionally unset, value.
type Variable struct {
	Name string
	Doc  string

	value Value

	Constant  bool
	ReadOnly  bool
	Hidden    bool
	Protected bool
	NoShadow  bool

	pre  []PreHook
	post []PostHook
}

// Value returns the variable's value, or nil if it is unset.
func (v *Variable) Value() Value { return v.value }

func (v *Variable) fresh() *Variable {
	nv := *v
	nv.value = nil
	nv.pre = append([]PreHook(nil), v.pre...)
	nv.post = append([]PostHook(nil), v.post...)
	return &nv
}

func (v *Variable) String() string {
	if v.value == nil {
		return fmt.Sprintf("%v (unset)", v.Name)
	}
	return fmt.Sprintf("%v = %v", v.Name, v.value)
}

// scopeChain iterates scopes from innermost to outermost until fn returns
// false.
type scopeChain func(fn func(*Scope) bool)

// lookupWord finds the innermost visible word with the given name; hidden
// words are only found when withHidden is set.
func lookupWord(chain scopeChain, name string, withHidden bool) (found *Word, owner *Scope) {
	chain(func(sc *Scope) bool {
		if w := sc.word(name); w != nil && (withHidden || !w.Hidden) {
			found, owner = w, sc
			return false
		}
		return true
	})
	return found, owner
}

// lookupVariable finds the skip+1'th innermost visible variable with the
// given name.
func lookupVariable(chain scopeChain, name string, skip int) (found *Variable, owner *Scope) {
	chain(func(sc *Scope) bool {
		if v := sc.variable(name); v != nil && !v.Hidden {
			if skip > 0 {
				skip--
				return true
			}
			found, owner = v, sc
			return false
		}
		return true
	})
	return found, owner
}

// declareVariable adds v to target, which must be the innermost scope of
// chain. Redeclaring within the same scope, or shadowing a visible
// noshadow variable, is refused.
func declareVariable(chain scopeChain, target *Scope, v *Variable) (Code, string) {
	if target.variable(v.Name) != nil {
		return XRedefinition, fmt.Sprintf("variable %v already defined in this scope", v.Name)
	}
	var code Code
	var mess string
	chain(func(sc *Scope) bool {
		if prior := sc.variable(v.Name); prior != nil && prior.NoShadow {
			code = XNoShadow
			mess = fmt.Sprintf("variable %v may not be shadowed", v.Name)
			return false
		}
		return true
	})
	if code == 0 {
		target.setVariable(v)
	}
	return code, mess
}
