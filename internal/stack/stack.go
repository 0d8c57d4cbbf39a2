package stack

import "fmt"

// Stack is a bounded LIFO sequence of values.
//
// Limit, when non-zero, is the ceiling past which Push fails with an
// Overflow error. The floor is a depth below which nothing may be popped,
// picked or rolled; it starts at zero.
type Stack[T any] struct {
	Name  string
	Limit int

	items []T
	floor int
}

// Overflow indicates a Push beyond the stack's Limit.
type Overflow struct {
	Name  string
	Limit int
}

// Underflow indicates that an operation needed more items than were
// available above the stack's floor.
type Underflow struct {
	Name string
	Need int
	Have int
}

// BadIndex indicates a negative pick or roll depth.
type BadIndex struct {
	Name  string
	Index int
}

func (err BadIndex) Error() string {
	return fmt.Sprintf("%v stack index %v may not be negative", err.Name, err.Index)
}

func (err Overflow) Error() string {
	return fmt.Sprintf("%v stack overflow (limit %v)", err.Name, err.Limit)
}

func (err Underflow) Error() string {
	return fmt.Sprintf("%v stack underflow (need %v, have %v)", err.Name, err.Need, err.Have)
}

// Len returns the total number of items on the stack.
func (s *Stack[T]) Len() int { return len(s.items) }

// Avail returns the number of items above the floor.
func (s *Stack[T]) Avail() int { return len(s.items) - s.floor }

// Floor returns the current underflow floor.
func (s *Stack[T]) Floor() int { return s.floor }

// SetFloor sets the underflow floor, returning the prior one so that
// callers may restore it.
func (s *Stack[T]) SetFloor(floor int) (prior int) {
	prior = s.floor
	if floor < 0 {
		floor = 0
	}
	s.floor = floor
	return prior
}

// Need returns an Underflow error unless at least n items are available.
func (s *Stack[T]) Need(n int) error {
	if have := s.Avail(); have < n {
		return Underflow{s.Name, n, have}
	}
	return nil
}

// Push appends a value, failing if that would exceed Limit.
func (s *Stack[T]) Push(val T) error {
	if s.Limit != 0 && len(s.items) >= s.Limit {
		return Overflow{s.Name, s.Limit}
	}
	s.items = append(s.items, val)
	return nil
}

// Pop removes and returns the top value.
func (s *Stack[T]) Pop() (val T, err error) {
	if err = s.Need(1); err == nil {
		i := len(s.items) - 1
		val = s.items[i]
		var zero T
		s.items[i] = zero
		s.items = s.items[:i]
	}
	return val, err
}

// Top returns the top value without removing it.
func (s *Stack[T]) Top() (val T, err error) {
	return s.Pick(0)
}

// Pick returns the value n places below the top; Pick(0) is the top.
func (s *Stack[T]) Pick(n int) (val T, err error) {
	if n < 0 {
		return val, BadIndex{s.Name, n}
	}
	if err = s.Need(n + 1); err == nil {
		val = s.items[len(s.items)-1-n]
	}
	return val, err
}

// Roll moves the value n places below the top up to the top, shifting the
// values above it down by one.
func (s *Stack[T]) Roll(n int) error {
	if n < 0 {
		return BadIndex{s.Name, n}
	}
	if err := s.Need(n + 1); err != nil {
		return err
	}
	// shifted in place, the stack never holds fewer items mid-roll
	i := len(s.items) - 1 - n
	val := s.items[i]
	copy(s.items[i:], s.items[i+1:])
	s.items[len(s.items)-1] = val
	return nil
}

// Drop removes the top n values.
func (s *Stack[T]) Drop(n int) error {
	if err := s.Need(n); err != nil {
		return err
	}
	s.Truncate(len(s.items) - n)
	return nil
}

// Truncate shrinks the stack to at most depth items, ignoring the floor.
func (s *Stack[T]) Truncate(depth int) {
	if depth < 0 {
		depth = 0
	}
	if depth < len(s.items) {
		var zero T
		for i := depth; i < len(s.items); i++ {
			s.items[i] = zero
		}
		s.items = s.items[:depth]
	}
	if s.floor > len(s.items) {
		s.floor = len(s.items)
	}
}

// Clear removes all values and resets the floor.
func (s *Stack[T]) Clear() {
	s.floor = 0
	s.Truncate(0)
}

// Values returns a copy of the stack contents, bottom first.
func (s *Stack[T]) Values() []T {
	return append([]T(nil), s.items...)
}

// Restore replaces the stack contents with a copy of values, as
// previously returned by Values.
func (s *Stack[T]) Restore(values []T) {
	s.Truncate(0)
	s.items = append(s.items, values...)
}

// Each calls fn for each value, from the top of the stack down, until fn
// returns false.
func (s *Stack[T]) Each(fn func(depth int, val T) bool) {
	for i := len(s.items) - 1; i >= 0; i-- {
		if !fn(len(s.items)-1-i, s.items[i]) {
			return
		}
	}
}
