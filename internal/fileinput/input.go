// Package fileinput reads lines from a queue of input streams, tracking
// where each line came from.
package fileinput

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Location names a line within an input stream.
type Location struct {
	Name string
	Line int
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v", loc.Name, loc.Line) }

// Input reads lines from each stream in Queue in turn. Closing streams is
// left to the caller.
type Input struct {
	Queue []io.Reader
	Last  Location // location of the most recently read line

	cur  *bufio.Reader
	name string
	line int
}

// ReadLine returns the next line without its line ending, moving on to the
// next queued stream as each one runs out. A final line need not end in a
// newline. Returns io.EOF once every stream is exhausted.
func (in *Input) ReadLine() (string, error) {
	for {
		if in.cur == nil && !in.next() {
			return "", io.EOF
		}
		s, err := in.cur.ReadString('\n')
		if s != "" {
			in.line++
			in.Last = Location{in.name, in.line}
			s = strings.TrimSuffix(s, "\n")
			return strings.TrimSuffix(s, "\r"), nil
		}
		if err == io.EOF {
			in.cur = nil
			continue
		}
		if err != nil {
			return "", fmt.Errorf("%v: %w", Location{in.name, in.line + 1}, err)
		}
	}
}

func (in *Input) next() bool {
	if len(in.Queue) == 0 {
		return false
	}
	r := in.Queue[0]
	in.Queue = in.Queue[1:]
	in.cur = bufio.NewReader(r)
	in.name = nameOf(r)
	in.line = 0
	return true
}

func nameOf(r io.Reader) string {
	if nom, ok := r.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", r)
}
