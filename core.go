package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jcorbin/rpn/internal/fileinput"
	"github.com/jcorbin/rpn/internal/flushio"
	"github.com/jcorbin/rpn/internal/runeio"
)

// Core holds the interpreter's line input, printed output and trace log.
type Core struct {
	tracing
	fileinput.Input
	out     flushio.WriteFlusher
	closers []io.Closer
}

// Close flushes printed output, then closes any owned streams, newest
// first. The first error encountered wins.
func (core *Core) Close() (err error) {
	if core.out != nil {
		err = core.out.Flush()
	}
	for i := len(core.closers) - 1; i >= 0; i-- {
		if cerr := core.closers[i].Close(); err == nil {
			err = cerr
		}
	}
	core.closers = nil
	return err
}

// halt abandons the whole Run. Unlike a THROW or signal it passes through
// CATCH and Evaluate, surfacing as Run's return value.
func (core *Core) halt(err error) {
	if core.out != nil {
		quietly(func() {
			if ferr := core.out.Flush(); err == nil {
				err = ferr
			}
		})
	}
	quietly(func() { core.logf("#", "halt: %v", err) })
	panic(haltError{err})
}

// quietly runs f, discarding any panic it raises.
func quietly(f func()) {
	defer func() { recover() }()
	f()
}

func (core *Core) writeString(s string) { core.wrote(runeio.WriteString(core.out, s)) }
func (core *Core) writeRune(r rune)     { core.wrote(runeio.WriteRune(core.out, r)) }

func (core *Core) wrote(_ int, err error) {
	if err != nil {
		core.halt(err)
	}
}

func (core *Core) flush() {
	if err := core.out.Flush(); err != nil {
		core.halt(err)
	}
}

// readLine flushes any pending output, as a prompt may be waiting on it,
// then reads the next queued line; io.EOF once all inputs are spent.
func (core *Core) readLine() (string, error) {
	core.flush()
	return core.Input.ReadLine()
}

// haltError carries the cause of a halt out of Run.
type haltError struct{ error }

func (err haltError) Error() string {
	if err.error == nil {
		return "interpreter halted"
	}
	return fmt.Sprintf("interpreter halted: %v", err.error)
}

func (err haltError) Unwrap() error { return err.error }

// tracing writes the trace log: one line per event, led by a mark naming
// the event kind and indented by colon word nesting.
//
//	>  entering a colon word     <  leaving one by exit
//	-  running a native word     =  variable assignment
//	!  throw or signal           #  evaluation boundary
//	?  token read by the builder
type tracing struct {
	logfn func(mess string, args ...interface{})

	level     int
	markWidth int
}

// nest indents later trace lines by one level until the returned func
// is called.
func (tr *tracing) nest() func() {
	tr.level++
	return func() { tr.level-- }
}

func (tr *tracing) logf(mark, mess string, args ...interface{}) {
	if tr.logfn == nil {
		return
	}
	if n := tr.markWidth - len(mark); n > 0 {
		mark = strings.Repeat(mark[:1], n) + mark
	} else if n < 0 {
		tr.markWidth = len(mark)
	}
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	tr.logfn("%v %v%v", mark, strings.Repeat("  ", tr.level), mess)
}
