// Package logio provides the command's leveled logger, and a Writer that
// turns written lines into calls to a printf-style function.
package logio

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// Logger writes "LEVEL: message" lines to an output stream, remembering
// whether any errors were logged.
type Logger struct {
	mu       sync.Mutex
	out      io.Writer
	buf      bytes.Buffer
	exitCode int
}

// SetOutput sets the stream that lines are written to.
func (log *Logger) SetOutput(out io.Writer) {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.out = out
}

// ExitCode returns a code to pass to os.Exit: 1 after any Errorf, 2 if
// writing a line failed, 0 otherwise.
func (log *Logger) ExitCode() int {
	log.mu.Lock()
	defer log.mu.Unlock()
	return log.exitCode
}

// Leveledf returns a printf-style function that logs at the given level.
func (log *Logger) Leveledf(level string) func(mess string, args ...interface{}) {
	return func(mess string, args ...interface{}) { log.Printf(level, mess, args...) }
}

// ErrorIf logs any non-nil error through Errorf.
func (log *Logger) ErrorIf(err error) {
	if err != nil {
		log.Errorf("%v", err)
	}
}

// Errorf logs at the ERROR level, and causes ExitCode to return non-zero.
func (log *Logger) Errorf(mess string, args ...interface{}) {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.printf("ERROR", mess, args...)
	if log.exitCode == 0 {
		log.exitCode = 1
	}
}

// Printf logs one line at the given level; an empty level omits the prefix.
func (log *Logger) Printf(level, mess string, args ...interface{}) {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.printf(level, mess, args...)
}

func (log *Logger) printf(level, mess string, args ...interface{}) {
	if log.out == nil {
		return
	}
	if level != "" {
		log.buf.WriteString(level)
		log.buf.WriteString(": ")
	}
	if len(args) > 0 {
		fmt.Fprintf(&log.buf, mess, args...)
	} else {
		log.buf.WriteString(mess)
	}
	if b := log.buf.Bytes(); len(b) > 0 && b[len(b)-1] != '\n' {
		log.buf.WriteByte('\n')
	}
	if _, err := log.buf.WriteTo(log.out); err != nil {
		log.buf.Reset()
		log.exitCode = 2
	}
}
