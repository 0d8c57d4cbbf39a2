package fileinput_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/rpn/internal/fileinput"
)

type named struct {
	io.Reader
	name string
}

func (nr named) Name() string { return nr.name }

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestInput(t *testing.T) {
	in := fileinput.Input{Queue: []io.Reader{
		named{strings.NewReader("1 2 +\r\n.\n"), "a.rpn"},
		named{strings.NewReader(""), "empty.rpn"},
		named{strings.NewReader("no newline"), "b.rpn"},
	}}

	type line struct {
		text string
		loc  string
	}
	var got []line
	for {
		s, err := in.ReadLine()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, line{s, in.Last.String()})
	}
	assert.Equal(t, []line{
		{"1 2 +", "a.rpn:1"},
		{".", "a.rpn:2"},
		{"no newline", "b.rpn:1"},
	}, got)

	_, err := in.ReadLine()
	assert.Equal(t, io.EOF, err, "stays exhausted")
}

func TestInput_error(t *testing.T) {
	in := fileinput.Input{Queue: []io.Reader{named{brokenReader{}, "bad.rpn"}}}
	_, err := in.ReadLine()
	assert.EqualError(t, err, "bad.rpn:1: disk on fire")
}
