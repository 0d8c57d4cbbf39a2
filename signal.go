package main

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a control code: a signed integer that identifies both errors and
// non-local control transfers. Negative codes are reserved for the system;
// codes thrown by user programs are conventionally positive.
type Code int

// Standard codes share their values with ANSI Forth THROW codes.
const (
	XAbort              Code = -1
	XAbortQuote         Code = -2
	XStackOverflow      Code = -3
	XStackUnderflow     Code = -4
	XReturnOverflow     Code = -5
	XReturnUnderflow    Code = -6
	XLoopsTooDeep       Code = -7
	XDivisionByZero     Code = -10
	XOutOfRange         Code = -11
	XArgTypeMismatch    Code = -12
	XUndefinedWord      Code = -13
	XControlMismatch    Code = -22
	XInvalidNumeric     Code = -24
	XUserInterrupt      Code = -28
	XInvalidForget      Code = -15
	XZeroLengthName     Code = -16
	XFileIO             Code = -37
	XNonexistentFile    Code = -38
	XUnexpectedEOF      Code = -39
	XStringOverflow     Code = -256
	XStringUnderflow    Code = -257
	XInsufficientParams Code = -258
	XInvalidRecursion   Code = -259
	XReadOnly           Code = -260
	XConstant           Code = -261
	XNoShadow           Code = -262
	XRedefinition       Code = -263
	XUndefinedVariable  Code = -264
	XUnsetVariable      Code = -265
	XHookRejected       Code = -266
	XProtected          Code = -267
	XLexical            Code = -268
	XScopeOverflow      Code = -269
	XCallOverflow       Code = -270

	XLeave Code = -512
	XExit  Code = -513
	XBye   Code = -514
)

var codeMessages = map[Code]string{
	XAbort:              "aborted",
	XAbortQuote:         "aborted",
	XStackOverflow:      "stack overflow",
	XStackUnderflow:     "stack underflow",
	XReturnOverflow:     "return stack overflow",
	XReturnUnderflow:    "return stack underflow",
	XLoopsTooDeep:       "do-loops nested too deeply",
	XDivisionByZero:     "division by zero",
	XOutOfRange:         "result out of range",
	XArgTypeMismatch:    "argument type mismatch",
	XUndefinedWord:      "undefined word",
	XControlMismatch:    "control structure mismatch",
	XInvalidNumeric:     "invalid numeric argument",
	XUserInterrupt:      "user interrupt",
	XInvalidForget:      "invalid forget",
	XZeroLengthName:     "attempt to use zero-length string as a name",
	XFileIO:             "file I/O exception",
	XNonexistentFile:    "non-existent file",
	XUnexpectedEOF:      "unexpected end of input",
	XStringOverflow:     "string stack overflow",
	XStringUnderflow:    "string stack underflow",
	XInsufficientParams: "insufficient parameters",
	XInvalidRecursion:   "invalid recursion",
	XReadOnly:           "variable is read only",
	XConstant:           "variable is constant",
	XNoShadow:           "variable may not be shadowed",
	XRedefinition:       "name already defined in this scope",
	XUndefinedVariable:  "undefined variable",
	XUnsetVariable:      "variable has no value",
	XHookRejected:       "assignment rejected",
	XProtected:          "protected",
	XLexical:            "unrecognized input",
	XScopeOverflow:      "scope stack overflow",
	XCallOverflow:       "call stack overflow",
	XLeave:              "leave",
	XExit:               "exit",
	XBye:                "bye",
}

func (code Code) String() string {
	if mess, ok := codeMessages[code]; ok {
		return mess
	}
	return fmt.Sprintf("exception %d", int(code))
}

// Error is a computation error: something went wrong while building or
// running code. It is raised by panicking and caught by CATCH or the
// evaluation entry point.
type Error struct {
	Code    Code
	Message string
	Words   []string // colon words active when raised, outermost first
}

func (err *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Error %d: ", int(err.Code))
	if err.Message != "" {
		sb.WriteString(err.Message)
	} else {
		sb.WriteString(err.Code.String())
	}
	if len(err.Words) > 0 {
		sb.WriteString(" (in ")
		sb.WriteString(strings.Join(err.Words, " > "))
		sb.WriteString(")")
	}
	return sb.String()
}

// Is allows matching with errors.Is against a bare Code.
func (err *Error) Is(target error) bool {
	if code, ok := target.(Code); ok {
		return err.Code == code
	}
	return false
}

// Error lets a Code stand in as an error target for errors.Is.
func (code Code) Error() string { return code.String() }

// Signal is a non-local control transfer: LEAVE, EXIT, ABORT, interrupt
// or BYE. Each is intercepted at a fixed boundary rather than by CATCH.
type Signal struct {
	Code    Code
	Message string
}

func (sig *Signal) Error() string {
	if sig.Message != "" {
		return sig.Message
	}
	return sig.Code.String()
}

// Is allows matching with errors.Is against a bare Code.
func (sig *Signal) Is(target error) bool {
	if code, ok := target.(Code); ok {
		return sig.Code == code
	}
	return false
}

// isSignal reports whether err is a control transfer with the given code;
// an Error carrying the same code does not match.
func isSignal(err error, code Code) bool {
	var sig *Signal
	return errors.As(err, &sig) && sig.Code == code
}

// errorf builds an Error, labeled with the active colon word chain.
func (in *Interp) errorf(code Code, mess string, args ...interface{}) *Error {
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	err := &Error{Code: code, Message: mess}
	in.calls.Each(func(_ int, w *Word) bool {
		err.Words = append([]string{w.Name}, err.Words...)
		return true
	})
	return err
}

// throw raises a computation error.
func (in *Interp) throw(code Code, mess string, args ...interface{}) {
	err := in.errorf(code, mess, args...)
	in.logf("!", "throw %v", err)
	panic(err)
}

// signal raises a control transfer.
func (in *Interp) signal(code Code, mess string) {
	in.logf("!", "signal %v %v", int(code), code)
	panic(&Signal{Code: code, Message: mess})
}

// catchSignal runs f, recovering only signals with the given code.
// It returns true if such a signal was caught.
func catchSignal(code Code, f func()) (caught bool) {
	defer func() {
		if e := recover(); e != nil {
			if sig, ok := e.(*Signal); ok && sig.Code == code {
				caught = true
				return
			}
			panic(e)
		}
	}()
	f()
	return false
}
