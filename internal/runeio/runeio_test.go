package runeio_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/rpn/internal/runeio"
)

func TestControl(t *testing.T) {
	for _, tc := range []struct {
		text string
		r    rune
		ok   bool
	}{
		{"<ESC>", 0x1b, true},
		{"<esc>", 0x1b, true},
		{"^[", 0x1b, true},
		{"^@", 0x00, true},
		{"^C", 0x03, true},
		{"<SP>", ' ', true},
		{"<DEL>", 0x7f, true},
		{"^?", 0x7f, true},
		{"<CSI>", 0x9b, true},
		{"^[[", 0x9b, true},
		{"<NOPE>", 0, false},
		{"ESC", 0, false},
		{"x", 0, false},
		{"<>", 0, false},
	} {
		r, ok := runeio.Control(tc.text)
		assert.Equal(t, tc.ok, ok, "expected %q to resolve", tc.text)
		assert.Equal(t, tc.r, r, "expected %q rune", tc.text)
	}
}

func TestWriteString(t *testing.T) {
	var sb strings.Builder
	_, err := runeio.WriteString(&sb, "plain ☃")
	require.NoError(t, err)
	assert.Equal(t, "plain ☃", sb.String())

	sb.Reset()
	n, err := runeio.WriteString(&sb, "a\u009bm\u0085")
	require.NoError(t, err)
	assert.Equal(t, "a\x1b[m\r\n", sb.String())
	assert.Equal(t, sb.Len(), n)
}
