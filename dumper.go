package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

type fmtBuf interface {
	Len() int
	Write(p []byte) (n int, err error)
	WriteByte(c byte) error
	WriteRune(r rune) (n int, err error)
	WriteString(s string) (n int, err error)
}

// interpDumper writes a human readable description of interpreter state:
// stacks, the scope chain and every non-native definition.
type interpDumper struct {
	in  *Interp
	out io.Writer

	natives bool // include native words
}

func (dump interpDumper) dump() {
	fmt.Fprintf(dump.out, "# Interp Dump\n")
	if w := dump.in.last; w != nil {
		fmt.Fprintf(dump.out, "  last: %v\n", w.Name)
	}
	dump.dumpStacks()
	dump.dumpScopes()
}

func (dump interpDumper) dumpStacks() {
	in := dump.in
	var buf bytes.Buffer

	buf.WriteString("  params:")
	for _, v := range in.params.Values() {
		buf.WriteByte(' ')
		buf.WriteString(in.format(v))
	}
	dump.line(&buf)

	buf.WriteString("  strings:")
	for _, s := range in.strs.Values() {
		buf.WriteByte(' ')
		buf.WriteString(String(s).String())
	}
	dump.line(&buf)

	if in.rets.Len() > 0 {
		buf.WriteString("  returns:")
		for _, v := range in.rets.Values() {
			buf.WriteByte(' ')
			buf.WriteString(in.format(v))
		}
		dump.line(&buf)
	}

	if in.calls.Len() > 0 {
		var names []string
		for _, w := range in.calls.Values() {
			names = append(names, w.Name)
		}
		fmt.Fprintf(&buf, "  calls: %v", strings.Join(names, " > "))
		dump.line(&buf)
	}
}

func (dump interpDumper) dumpScopes() {
	var buf bytes.Buffer
	scopes := dump.in.scopes.Values()
	for i := len(scopes) - 1; i >= 0; i-- {
		sc := scopes[i]
		fmt.Fprintf(dump.out, "# Scope %v @%v\n", sc.Name, i)

		for _, name := range sc.varNames() {
			v := sc.variable(name)
			fmt.Fprintf(&buf, "  variable %v", name)
			if v.value != nil {
				fmt.Fprintf(&buf, " = %v", dump.in.format(v.value))
			}
			dump.formatFlags(&buf, v.Constant, "constant", v.ReadOnly, "readonly",
				v.Hidden, "hidden", v.Protected, "protected", v.NoShadow, "noshadow")
			dump.line(&buf)
		}

		for _, name := range sc.wordNames() {
			w := sc.word(name)
			if w.native != nil && !dump.natives {
				continue
			}
			dump.formatWord(&buf, w)
			dump.line(&buf)
		}
	}
}

func (dump interpDumper) formatWord(buf fmtBuf, w *Word) {
	if w.native != nil {
		fmt.Fprintf(buf, "  native %v", w.Name)
	} else {
		fmt.Fprintf(buf, "  : %v", w.Name)
		if sc := w.body.scope; sc != nil && len(sc.all) > 0 {
			buf.WriteString(" |")
			for _, name := range sc.all {
				buf.WriteByte(' ')
				buf.WriteString(localDecoration(sc, name))
				buf.WriteString(name)
			}
			buf.WriteString(" |")
		}
		if body := w.body.String(); body != "" {
			buf.WriteByte(' ')
			buf.WriteString(body)
		}
		buf.WriteString(" ;")
	}
	dump.formatFlags(buf, w.Immediate, "immediate", w.Hidden, "hidden", w.Protected, "protected")
}

func localDecoration(sc *Scope, name string) string {
	isIn, isOut := contains(sc.ins, name), contains(sc.outs, name)
	switch {
	case isIn && isOut:
		return "inout:"
	case isIn:
		return "in:"
	case isOut:
		return "out:"
	}
	return ""
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// formatFlags writes the names of any set flags, given as (bool, name) pairs.
func (dump interpDumper) formatFlags(buf fmtBuf, pairs ...interface{}) {
	for i := 0; i+1 < len(pairs); i += 2 {
		if set, _ := pairs[i].(bool); set {
			buf.WriteByte(' ')
			buf.WriteString(pairs[i+1].(string))
		}
	}
}

func (dump interpDumper) line(buf *bytes.Buffer) {
	buf.WriteByte('\n')
	buf.WriteTo(dump.out)
}
