package flushio_test

import (
	"bytes"
	"errors"
	"io/ioutil"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/rpn/internal/flushio"
)

type countingFlusher struct {
	bytes.Buffer
	flushes int
	err     error
}

func (cf *countingFlusher) Flush() error {
	cf.flushes++
	return cf.err
}

type plainWriter struct{ sb strings.Builder }

func (pw *plainWriter) Write(p []byte) (int, error) { return pw.sb.Write(p) }

func TestNewWriteFlusher(t *testing.T) {
	var sb strings.Builder
	wf := flushio.NewWriteFlusher(&sb)
	_, err := wf.Write([]byte("direct"))
	require.NoError(t, err)
	assert.Equal(t, "direct", sb.String(), "buffers are written through")

	var pw plainWriter
	wf = flushio.NewWriteFlusher(&pw)
	_, err = wf.Write([]byte("held"))
	require.NoError(t, err)
	assert.Equal(t, "", pw.sb.String(), "expected output to be buffered")
	require.NoError(t, wf.Flush())
	assert.Equal(t, "held", pw.sb.String())

	cf := &countingFlusher{}
	assert.Equal(t, flushio.WriteFlusher(cf), flushio.NewWriteFlusher(cf))

	assert.NoError(t, flushio.NewWriteFlusher(ioutil.Discard).Flush())
	assert.NoError(t, flushio.NewWriteFlusher(nil).Flush())
}

func TestWriteFlushers(t *testing.T) {
	assert.Nil(t, flushio.WriteFlushers())
	assert.Nil(t, flushio.WriteFlushers(nil, nil))

	a, b, c := &countingFlusher{}, &countingFlusher{}, &countingFlusher{}
	assert.Equal(t, flushio.WriteFlusher(a), flushio.WriteFlushers(nil, a))

	wf := flushio.WriteFlushers(flushio.WriteFlushers(a, b), c)
	n, err := wf.Write([]byte("hi"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	for _, cf := range []*countingFlusher{a, b, c} {
		assert.Equal(t, "hi", cf.String())
	}

	b.err = errors.New("b failed")
	assert.EqualError(t, wf.Flush(), "b failed")
	for _, cf := range []*countingFlusher{a, b, c} {
		assert.Equal(t, 1, cf.flushes, "every writer is flushed")
	}
}
