package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"math/big"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jcorbin/rpn/internal/logio"
)

type interpTestCases []interpTestCase

func (its interpTestCases) run(t *testing.T) {
	{
		var exclusive []interpTestCase
		for _, it := range its {
			if it.exclusive {
				exclusive = append(exclusive, it)
			}
		}
		if len(exclusive) > 0 {
			its = exclusive
		}
	}
	for _, it := range its {
		if !t.Run(it.name, it.run) {
			return
		}
	}
}

func interpTest(name string) (it interpTestCase) {
	it.name = name
	return it
}

type interpTestCase struct {
	name    string
	opts    []interface{}
	files   map[string]string
	expect  []func(t testingT, run *interpRun)
	timeout time.Duration
	wantErr error

	wantReports  []Code
	checkReports bool

	exclusive   bool
	nextInputID int
}

// testingT is the part of *testing.T that expectations use; a first quiet
// run records failures into a testRecorder instead.
type testingT interface {
	assert.TestingT
	Logf(format string, args ...interface{})
	Failed() bool
}

type testRecorder struct{ failed bool }

func (rec *testRecorder) Errorf(string, ...interface{}) { rec.failed = true }
func (rec *testRecorder) Logf(string, ...interface{})   {}
func (rec *testRecorder) Failed() bool                  { return rec.failed }

// interpRun is one interpreter built for a test case, along with what it
// wrote and reported.
type interpRun struct {
	*Interp
	out     strings.Builder
	reports []error
}

func (it interpTestCase) apply(wraps ...func(interpTestCase) interpTestCase) interpTestCase {
	for _, wrap := range wraps {
		it = wrap(it)
	}
	return it
}

func (it interpTestCase) exclusiveTest() interpTestCase {
	it.exclusive = true
	return it
}

func (it interpTestCase) withOptions(opts ...InterpOption) interpTestCase {
	for _, opt := range opts {
		it.opts = append(it.opts, opt)
	}
	return it
}

func (it interpTestCase) withLimits(lim Limits) interpTestCase {
	it.opts = append(it.opts, WithLimits(lim))
	return it
}

func (it interpTestCase) withStack(values ...Value) interpTestCase {
	it.opts = append(it.opts, optFunc(func(in *Interp) {
		for _, v := range values {
			in.params.Push(v)
		}
	}))
	return it
}

func (it interpTestCase) withInput(input string) interpTestCase {
	it.opts = append(it.opts, func(it *interpTestCase, t *testing.T) InterpOption {
		name := t.Name() + "/input"
		if id := it.nextInputID; id > 0 {
			name += "_" + strconv.Itoa(id+1)
		}
		it.nextInputID++
		return WithInput(NamedString(name, input))
	})
	return it
}

func (it interpTestCase) withNamedInput(name string, input string) interpTestCase {
	it.opts = append(it.opts, WithInput(NamedString(name, input)))
	return it
}

func (it interpTestCase) withFile(name string, content string) interpTestCase {
	files := make(map[string]string, len(it.files)+1)
	for k, v := range it.files {
		files[k] = v
	}
	files[name] = content
	it.files = files
	return it
}

func (it interpTestCase) withTimeout(timeout time.Duration) interpTestCase {
	it.timeout = timeout
	return it
}

func (it interpTestCase) expectError(err error) interpTestCase {
	it.wantErr = err
	return it
}

func (it interpTestCase) expectReports(codes ...Code) interpTestCase {
	it.wantReports = append(it.wantReports, codes...)
	it.checkReports = true
	return it
}

func (it interpTestCase) expectStack(values ...Value) interpTestCase {
	it.expect = append(it.expect, func(t testingT, run *interpRun) {
		got := run.params.Values()
		if got == nil {
			got = []Value{}
		}
		if values == nil {
			values = []Value{}
		}
		assert.Equal(t, values, got, "expected parameter stack values")
	})
	return it
}

func (it interpTestCase) expectStrings(values ...string) interpTestCase {
	it.expect = append(it.expect, func(t testingT, run *interpRun) {
		got := run.strs.Values()
		if got == nil {
			got = []string{}
		}
		if values == nil {
			values = []string{}
		}
		assert.Equal(t, values, got, "expected string stack values")
	})
	return it
}

func (it interpTestCase) expectReturns(values ...Value) interpTestCase {
	it.expect = append(it.expect, func(t testingT, run *interpRun) {
		got := run.rets.Values()
		if got == nil {
			got = []Value{}
		}
		if values == nil {
			values = []Value{}
		}
		assert.Equal(t, values, got, "expected return stack values")
	})
	return it
}

func (it interpTestCase) expectOutput(output string) interpTestCase {
	it.expect = append(it.expect, func(t testingT, run *interpRun) {
		assert.Equal(t, output, run.out.String(), "expected output")
	})
	return it
}

func (it interpTestCase) expectVariable(name string, value Value) interpTestCase {
	it.expect = append(it.expect, func(t testingT, run *interpRun) {
		v, _ := lookupVariable(run.scopeChain(), name, 0)
		if assert.NotNil(t, v, "expected variable %v to be defined", name) {
			assert.Equal(t, value, v.value, "expected variable %v value", name)
		}
	})
	return it
}

func (it interpTestCase) expectNoVariable(name string) interpTestCase {
	it.expect = append(it.expect, func(t testingT, run *interpRun) {
		v, _ := lookupVariable(run.scopeChain(), name, 0)
		assert.Nil(t, v, "expected variable %v to be undefined", name)
	})
	return it
}

func (it interpTestCase) expectWord(name string, body string) interpTestCase {
	it.expect = append(it.expect, func(t testingT, run *interpRun) {
		w := run.lookupWord(name)
		if assert.NotNil(t, w, "expected word %v to be defined", name) {
			assert.Equal(t, body, w.String(), "expected word %v body", name)
		}
	})
	return it
}

func (it interpTestCase) expectNoWord(name string) interpTestCase {
	it.expect = append(it.expect, func(t testingT, run *interpRun) {
		assert.Nil(t, run.lookupWord(name), "expected word %v to be undefined", name)
	})
	return it
}

func (it interpTestCase) expectScopeDepth(depth int) interpTestCase {
	it.expect = append(it.expect, func(t testingT, run *interpRun) {
		assert.Equal(t, depth, run.scopes.Len(), "expected scope stack depth")
	})
	return it
}

func (it interpTestCase) expectFunc(expect func(t testingT, run *interpRun)) interpTestCase {
	it.expect = append(it.expect, expect)
	return it
}

func (it interpTestCase) expectDump(dump string) interpTestCase {
	it.expect = append(it.expect, func(t testingT, run *interpRun) {
		var out strings.Builder
		interpDumper{in: run.Interp, out: &out}.dump()
		assert.Equal(t, dump, out.String(), "expected dump")
	})
	return it
}

func (it interpTestCase) run(t *testing.T) {
	defer func(then time.Time) {
		label := "PASS"
		if t.Failed() {
			label = "FAIL"
		}
		t.Logf("%v\t%v\t%v", label, t.Name(), time.Since(then))
	}(time.Now())

	var rec testRecorder
	it.runInterpTest(context.Background(), &rec, it.build(t, nil))
	if rec.failed {
		// run again with tracing, so that the failure comes with a log
		it.runInterpTest(context.Background(), t, it.build(t, t.Logf))
	}
}

func (it interpTestCase) build(t *testing.T, logf func(mess string, args ...interface{})) *interpRun {
	run := &interpRun{}

	opts := []InterpOption{
		WithOutput(&run.out),
		WithErrorReporter(func(err error) { run.reports = append(run.reports, err) }),
		WithFileOpener(func(name string) (io.ReadCloser, error) {
			if content, ok := it.files[name]; ok {
				return ioutil.NopCloser(strings.NewReader(content)), nil
			}
			return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrNotExist}
		}),
	}
	for _, o := range it.opts {
		switch impl := o.(type) {
		case func(it *interpTestCase, t *testing.T) InterpOption:
			opts = append(opts, impl(&it, t))
		case InterpOption:
			opts = append(opts, impl)
		default:
			t.Fatalf("unsupported interpTestCase opt type %T", o)
		}
	}
	if logf != nil {
		opts = append(opts,
			WithLogf(logf),
			WithTee(&logio.Writer{Logf: logf, Prefix: "out: "}))
	}

	run.Interp = New(opts...)
	return run
}

func (it interpTestCase) runInterpTest(ctx context.Context, t testingT, run *interpRun) {
	const defaultTimeout = time.Second
	timeout := it.timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	defer func() {
		if t.Failed() {
			dumpToTest(t, run)
		}
	}()

	err := run.Run(ctx)
	if cerr := run.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("interp close failed: %w", cerr)
	}
	if it.wantErr != nil {
		assert.True(t, errors.Is(err, it.wantErr), "expected error: %v\ngot: %+v", it.wantErr, err)
	} else {
		assert.NoError(t, err, "unexpected interp run error")
	}

	var codes []Code
	for _, err := range run.reports {
		codes = append(codes, errorCode(err))
	}
	if it.checkReports {
		assert.Equal(t, it.wantReports, codes, "expected reported error codes")
	} else {
		assert.Empty(t, run.reports, "unexpected reported errors")
	}

	if !t.Failed() {
		for _, expect := range it.expect {
			expect(t, run)
		}
	}
}

func dumpToTest(t testingT, run *interpRun) {
	lw := logio.Writer{Logf: t.Logf, Prefix: "dump: "}
	defer lw.Close()
	for _, err := range run.reports {
		fmt.Fprintf(&lw, "reported: %v\n", err)
	}
	interpDumper{in: run.Interp, out: &lw, natives: false}.dump()
}

//// utilities

type optFunc func(in *Interp)

func (f optFunc) apply(in *Interp) { f(in) }

// errorCode extracts the control code carried by err, or 0.
func errorCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var sig *Signal
	if errors.As(err, &sig) {
		return sig.Code
	}
	return 0
}

func lines(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}

func bigRat(num, den int64) *big.Rat { return big.NewRat(num, den) }

func ints(ns ...int64) []Value {
	vs := make([]Value, len(ns))
	for i, n := range ns {
		vs[i] = Integer(n)
	}
	return vs
}
