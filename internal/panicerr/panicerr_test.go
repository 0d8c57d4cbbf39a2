package panicerr_test

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jcorbin/rpn/internal/panicerr"
)

func TestRecover(t *testing.T) {
	t.Run("returns", func(t *testing.T) {
		assert.NoError(t, panicerr.Recover("ok", func() error { return nil }))
		err := panicerr.Recover("eof", func() error { return io.EOF })
		assert.Equal(t, io.EOF, err)
		assert.False(t, panicerr.IsPanic(err))
	})

	t.Run("panic value", func(t *testing.T) {
		err := panicerr.Recover("boom", func() error { panic("kaboom") })
		assert.True(t, panicerr.IsPanic(err))
		assert.False(t, panicerr.IsExit(err))
		assert.EqualError(t, err, "boom panicked: kaboom")
		assert.NotEmpty(t, panicerr.Stack(err))
		assert.Contains(t, fmt.Sprintf("%+v", err), "panic stack:")
	})

	t.Run("panic error", func(t *testing.T) {
		err := panicerr.Recover("wrapped", func() error { panic(io.ErrUnexpectedEOF) })
		assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	})

	t.Run("goexit", func(t *testing.T) {
		err := panicerr.Recover("quitter", func() error {
			runtime.Goexit()
			return nil
		})
		assert.True(t, panicerr.IsExit(err))
		assert.False(t, panicerr.IsPanic(err))
		assert.EqualError(t, err, "quitter called runtime.Goexit")
	})

	t.Run("plain error", func(t *testing.T) {
		assert.Empty(t, panicerr.Stack(io.EOF))
	})
}
