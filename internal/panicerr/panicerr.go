// Package panicerr runs functions in isolation, turning a panic or a
// runtime.Goexit into an ordinary error return.
package panicerr

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// Error is a recovered panic or goroutine exit.
type Error struct {
	Name   string      // name given to Recover
	Value  interface{} // recovered panic value, nil after a Goexit
	Stack  []byte      // stack at the point of recovery
	Goexit bool
}

func (pe *Error) Error() string { return fmt.Sprint(pe) }

// Format writes a one line description; the %+v verb adds the stack.
func (pe *Error) Format(f fmt.State, c rune) {
	name := pe.Name
	if name == "" {
		name = "function"
	}
	if pe.Goexit {
		fmt.Fprintf(f, "%v called runtime.Goexit", name)
	} else {
		fmt.Fprintf(f, "%v panicked: %v", name, pe.Value)
	}
	if c == 'v' && f.Flag('+') && len(pe.Stack) > 0 {
		fmt.Fprintf(f, "\npanic stack: %s", pe.Stack)
	}
}

// Unwrap returns the panic value when it is itself an error.
func (pe *Error) Unwrap() error {
	err, _ := pe.Value.(error)
	return err
}

// Recover runs f in a new goroutine, returning its error, or an *Error if
// it panics or exits its goroutine.
func Recover(name string, f func() error) error {
	errch := make(chan error, 1)
	go func() {
		defer close(errch)
		returned := false
		defer func() {
			if returned {
				return
			}
			pe := &Error{Name: name, Stack: debug.Stack()}
			if pe.Value = recover(); pe.Value == nil {
				pe.Goexit = true
			}
			errch <- pe
		}()
		err := f()
		returned = true
		errch <- err
	}()
	return <-errch
}

// IsPanic returns true if err wraps a recovered panic.
func IsPanic(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && !pe.Goexit
}

// IsExit returns true if err wraps a recovered goroutine exit.
func IsExit(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Goexit
}

// Stack returns the recorded stack of a recovered panic, if any.
func Stack(err error) string {
	var pe *Error
	if errors.As(err, &pe) {
		return string(pe.Stack)
	}
	return ""
}
