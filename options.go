package main

import (
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/jcorbin/rpn/internal/flushio"
)

// InterpOption customizes an Interp built by New.
type InterpOption interface{ apply(in *Interp) }

// InterpOptions combines options into one, skipping any nil ones.
func InterpOptions(opts ...InterpOption) InterpOption {
	var res options
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil:
		case options:
			res = append(res, impl...)
		default:
			res = append(res, impl)
		}
	}
	return res
}

type options []InterpOption

func (opts options) apply(in *Interp) {
	for _, opt := range opts {
		opt.apply(in)
	}
}

var defaultOptions = InterpOptions(
	withOutput(ioutil.Discard),
	withOpener(func(name string) (io.ReadCloser, error) { return os.Open(name) }),
	withPrompt("> ", "... "),
)

type withLogfn func(mess string, args ...interface{})

func (logfn withLogfn) apply(in *Interp) {
	in.traceFn = logfn
	in.logfn = logfn
}

type inputOption struct{ io.Reader }
type outputOption struct{ io.Writer }
type teeOption struct{ io.Writer }
type limitsOption Limits
type precisionOption int
type lineReaderOption func(continued bool) (string, error)
type reportOption func(err error)
type withOpener func(name string) (io.ReadCloser, error)

type promptOption struct{ prompt, cont string }

func withInput(r io.Reader) inputOption           { return inputOption{r} }
func withOutput(w io.Writer) outputOption         { return outputOption{w} }
func withTee(w io.Writer) teeOption               { return teeOption{w} }
func withPrompt(prompt, cont string) promptOption { return promptOption{prompt, cont} }

func (i inputOption) apply(in *Interp) {
	in.Input.Queue = append(in.Input.Queue, i.Reader)
	if cl, ok := i.Reader.(io.Closer); ok {
		in.closers = append(in.closers, cl)
	}
}

func (o outputOption) apply(in *Interp) {
	if in.out != nil {
		in.out.Flush()
	}
	in.out = flushio.NewWriteFlusher(o.Writer)
}

func (o teeOption) apply(in *Interp) {
	in.out = flushio.WriteFlushers(in.out, flushio.NewWriteFlusher(o.Writer))
}

func (lim limitsOption) apply(in *Interp) { in.setLimits(Limits(lim)) }

func (prec precisionOption) apply(in *Interp) { in.precision = int(prec) }

func (read lineReaderOption) apply(in *Interp) { in.readLineFn = read }

func (report reportOption) apply(in *Interp) { in.reportFn = report }

func (open withOpener) apply(in *Interp) { in.openFile = open }

func (p promptOption) apply(in *Interp) {
	in.prompt = p.prompt
	in.continuePrompt = p.cont
}

type preloadOption []string

func (files preloadOption) apply(in *Interp) {
	in.preload = append(in.preload, files...)
}

type namedReader struct {
	io.Reader
	name string
}

func (nr namedReader) Name() string { return nr.name }

// NamedReader attaches a name to a reader, reported in error locations.
func NamedReader(name string, r io.Reader) io.Reader {
	return namedReader{r, name}
}

// NamedString is a NamedReader over some literal source text.
func NamedString(name, text string) io.Reader {
	return NamedReader(name, strings.NewReader(text))
}
