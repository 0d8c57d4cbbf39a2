package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/jcorbin/rpn/internal/panicerr"
)

// New creates an interpreter with the built-in dictionary and the root
// system variables defined.
func New(opts ...InterpOption) *Interp {
	var in Interp
	in.init()
	InterpOptions(defaultOptions, InterpOptions(opts...)).apply(&in)
	in.syncSystemVariables()
	return &in
}

// Run reads and evaluates lines until input runs out, the context is done,
// or bye is evaluated. Errors raised by evaluated code are reported and
// reading continues; only internal failures end Run with an error.
func (in *Interp) Run(ctx context.Context) error {
	err := panicerr.Recover("Interp", func() error {
		return in.run(ctx)
	})
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var herr haltError
	if errors.As(err, &herr) {
		err = herr.error
	}
	return err
}

func (in *Interp) run(ctx context.Context) error {
	preload := in.preload
	in.preload = nil
	for _, name := range preload {
		if err := in.Load(ctx, name); isSignal(err, XBye) {
			in.exited = true
			return nil
		} else if err != nil {
			in.report(err)
		}
	}

	read := in.readLineFn
	interactive := read != nil
	if !interactive {
		read = func(bool) (string, error) { return in.readLine() }
	}
	in.more = func() (string, error) { return read(true) }
	defer func() { in.more = nil }()

	for {
		line, err := read(false)
		if err != nil {
			return err
		}
		err = in.Evaluate(ctx, line)
		in.flush()
		switch {
		case err == nil, isSignal(err, XAbort):
		case isSignal(err, XBye):
			in.exited = true
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		case interactive:
			in.report(err)
		default:
			in.report(fmt.Errorf("%v: %w", in.Last, err))
		}
	}
}

// Exited reports whether a prior Run ended by evaluating bye.
func (in *Interp) Exited() bool { return in.exited }

// Evaluate builds and runs the given source text. Errors and aborts that
// reach the top level are returned after the scope and call stacks are
// restored to their depth before the call; aborts additionally clear the
// value stacks.
func (in *Interp) Evaluate(ctx context.Context, text string) (err error) {
	if ctx != nil {
		prior := in.ctx
		in.ctx = ctx
		defer func() { in.ctx = prior }()
	}

	scopes, calls := in.scopes.Len(), in.calls.Len()
	defer func() {
		e := recover()
		if e == nil {
			return
		}
		in.unwindScopes(scopes)
		in.calls.Truncate(calls)
		switch e := e.(type) {
		case *Error:
			err = e
		case *Signal:
			if e.Code == XAbort || e.Code == XAbortQuote {
				in.params.Clear()
				in.strs.Clear()
				in.rets.Clear()
			}
			err = e
		default:
			panic(e)
		}
		in.logf("#", "evaluate: %v", err)
	}()

	in.evaluate(text, in.more)
	return nil
}

// Load evaluates the contents of the named file.
func (in *Interp) Load(ctx context.Context, name string) error {
	text, err := in.readFile(name)
	if err != nil {
		return err
	}
	return in.Evaluate(ctx, text)
}

func (in *Interp) readFile(name string) (string, error) {
	f, err := in.openFile(name)
	if err != nil {
		return "", in.errorf(XNonexistentFile, "%v", err)
	}
	defer f.Close()
	b, err := ioutil.ReadAll(f)
	if err != nil {
		return "", in.errorf(XFileIO, "%v", err)
	}
	return string(b), nil
}

// evaluate builds and runs text one top-level unit at a time; an exit ends
// only the unit that raised it.
func (in *Interp) evaluate(text string, more func() (string, error)) {
	b := newBuilder(in, text, more)
	for {
		x, err := b.unit()
		if err != nil {
			panic(err)
		}
		if x == nil {
			return
		}
		catchSignal(XExit, func() { x.exec(in) })
	}
}

func (in *Interp) report(err error) {
	if in.reportFn != nil {
		in.reportFn(err)
		return
	}
	in.writeString(err.Error())
	in.writeRune('\n')
}

// Interp options.

func WithInput(r io.Reader) InterpOption       { return withInput(r) }
func WithOutput(w io.Writer) InterpOption      { return withOutput(w) }
func WithTee(w io.Writer) InterpOption         { return withTee(w) }
func WithLimits(lim Limits) InterpOption       { return limitsOption(lim) }
func WithPrecision(prec int) InterpOption      { return precisionOption(prec) }
func WithPreload(names ...string) InterpOption { return preloadOption(names) }

func WithPrompt(prompt, continued string) InterpOption { return withPrompt(prompt, continued) }

func WithLogf(logfn func(mess string, args ...interface{})) InterpOption { return withLogfn(logfn) }

// WithLineReader replaces queued input with an interactive line source;
// continued is set when reading more of an unterminated construct.
func WithLineReader(read func(continued bool) (string, error)) InterpOption {
	return lineReaderOption(read)
}

// WithErrorReporter receives errors that reach the top level during Run,
// instead of them being written to the output.
func WithErrorReporter(report func(err error)) InterpOption { return reportOption(report) }

// WithFileOpener replaces os.Open for the load word and preloading.
func WithFileOpener(open func(name string) (io.ReadCloser, error)) InterpOption {
	return withOpener(open)
}
