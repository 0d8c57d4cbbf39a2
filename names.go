package main

import "strings"

// names records identifiers in definition order; lookups fold case.
type names struct {
	order []string
	index map[string]int
}

func foldName(name string) string { return strings.ToLower(name) }

func (ns *names) has(name string) bool {
	_, defined := ns.index[foldName(name)]
	return defined
}

// add records name, returning false if it was already present.
func (ns *names) add(name string) bool {
	key := foldName(name)
	if _, defined := ns.index[key]; defined {
		return false
	}
	if ns.index == nil {
		ns.index = make(map[string]int)
	}
	ns.index[key] = len(ns.order)
	ns.order = append(ns.order, name)
	return true
}

func (ns *names) remove(name string) {
	key := foldName(name)
	i, defined := ns.index[key]
	if !defined {
		return
	}
	delete(ns.index, key)
	copy(ns.order[i:], ns.order[i+1:])
	ns.order = ns.order[:len(ns.order)-1]
	for j := i; j < len(ns.order); j++ {
		ns.index[foldName(ns.order[j])] = j
	}
}

func (ns names) list() []string {
	return append([]string(nil), ns.order...)
}
