// Package flushio provides buffered output that is flushed explicitly, at
// line and prompt boundaries.
package flushio

import (
	"bufio"
	"io"
	"io/ioutil"
)

// WriteFlusher is a flush-able io.Writer.
type WriteFlusher interface {
	io.Writer
	Flush() error
}

// NewWriteFlusher wraps w for buffered writing. Writers that already flush,
// ioutil.Discard, and in-memory buffers are used without a bufio layer.
func NewWriteFlusher(w io.Writer) WriteFlusher {
	switch impl := w.(type) {
	case nil:
		return nopFlusher{ioutil.Discard}
	case WriteFlusher:
		return impl
	case interface {
		io.Writer
		Len() int
		Reset()
	}:
		// bytes.Buffer, strings.Builder and the like
		return nopFlusher{w}
	}
	if w == ioutil.Discard {
		return nopFlusher{w}
	}
	return bufio.NewWriter(w)
}

type nopFlusher struct{ io.Writer }

func (nopFlusher) Flush() error { return nil }

// WriteFlushers combines writers into one that writes to and flushes all
// of them in order. Nil writers are skipped, and nested combinations are
// flattened.
func WriteFlushers(wfs ...WriteFlusher) WriteFlusher {
	var all tee
	for _, wf := range wfs {
		switch impl := wf.(type) {
		case nil:
		case tee:
			all = append(all, impl...)
		default:
			all = append(all, impl)
		}
	}
	switch len(all) {
	case 0:
		return nil
	case 1:
		return all[0]
	}
	return all
}

type tee []WriteFlusher

func (t tee) Write(p []byte) (int, error) {
	for _, wf := range t {
		if n, err := wf.Write(p); err != nil {
			return n, err
		} else if n != len(p) {
			return n, io.ErrShortWrite
		}
	}
	return len(p), nil
}

func (t tee) Flush() (err error) {
	for _, wf := range t {
		if ferr := wf.Flush(); err == nil {
			err = ferr
		}
	}
	return err
}
