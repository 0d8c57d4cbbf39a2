// Package runeio resolves control character mnemonics, and writes output
// with C1 controls in their 7-bit escape form.
package runeio

import "io"

// WriteRune writes r to w: NEL as "\r\n", other C1 controls as ESC
// followed by their 7-bit form, and anything else as UTF-8.
func WriteRune(w io.Writer, r rune) (int, error) {
	switch {
	case r < 0x80:
		if bw, ok := w.(io.ByteWriter); ok {
			return 1, bw.WriteByte(byte(r))
		}
		return w.Write([]byte{byte(r)})
	case r == 0x85:
		return io.WriteString(w, "\r\n")
	case r <= 0x9f:
		return w.Write([]byte{0x1b, byte(r ^ 0xc0)})
	}
	if rw, ok := w.(interface{ WriteRune(rune) (int, error) }); ok {
		return rw.WriteRune(r)
	}
	return io.WriteString(w, string(r))
}

// WriteString writes s with WriteRune semantics, taking a fast path when s
// holds no C1 controls.
func WriteString(w io.Writer, s string) (n int, err error) {
	if !hasC1(s) {
		return io.WriteString(w, s)
	}
	for _, r := range s {
		m, err := WriteRune(w, r)
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func hasC1(s string) bool {
	for _, r := range s {
		if 0x80 <= r && r <= 0x9f {
			return true
		}
	}
	return false
}
