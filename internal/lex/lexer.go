package lex

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer produces tokens lazily from text. More text may be fed in after
// EOF has been returned; the lexer then resumes on a new line.
type Lexer struct {
	src  []rune
	i    int
	line int
	col  int
}

// New returns a lexer over the given text.
func New(text string) *Lexer {
	lx := &Lexer{line: 1, col: 1}
	lx.src = []rune(text)
	return lx
}

// Feed appends another line of text to be tokenized.
func (lx *Lexer) Feed(text string) {
	if n := len(lx.src); n > 0 && lx.src[n-1] != '\n' {
		lx.src = append(lx.src, '\n')
	}
	lx.src = append(lx.src, []rune(text)...)
}

// Drain discards all remaining input.
func (lx *Lexer) Drain() {
	for lx.i < len(lx.src) {
		lx.advance()
	}
}

// Pos returns the position of the next unread rune.
func (lx *Lexer) Pos() Pos { return Pos{lx.line, lx.col} }

// All tokenizes the remaining input, up to but excluding EOF.
func (lx *Lexer) All() (toks []Token) {
	for tok := lx.Next(); tok.Kind != EOF; tok = lx.Next() {
		toks = append(toks, tok)
	}
	return toks
}

func (lx *Lexer) peek(off int) rune {
	if i := lx.i + off; i < len(lx.src) {
		return lx.src[i]
	}
	return -1
}

func (lx *Lexer) advance() rune {
	r := lx.src[lx.i]
	lx.i++
	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return r
}

func (lx *Lexer) skipLine() {
	for lx.i < len(lx.src) && lx.src[lx.i] != '\n' {
		lx.advance()
	}
}

func isDelim(r rune) bool {
	switch r {
	case '(', ')', '[', ']', ',', '|':
		return true
	}
	return r < 0 || unicode.IsSpace(r)
}

var (
	errControl      = errors.New("unexpected control character")
	errUnterminated = errors.New("unterminated literal")
	errBadRational  = errors.New("malformed rational")
	errBadRadix     = errors.New("malformed radix integer")
)

// Next returns the next token, or an EOF token once input is exhausted.
// Unrecognized input produces an Error token; lexing continues after it.
func (lx *Lexer) Next() Token {
	for {
		r := lx.peek(0)
		if r < 0 {
			return Token{Kind: EOF, Pos: lx.Pos()}
		}
		if unicode.IsSpace(r) {
			lx.advance()
			continue
		}
		if (r == '\\' || r == '#') && isDelim(lx.peek(1)) {
			lx.skipLine()
			continue
		}
		break
	}

	pos := lx.Pos()
	r := lx.peek(0)

	if unicode.IsControl(r) {
		lx.advance()
		return Token{Kind: Error, Pos: pos, Text: string(r), Err: errControl}
	}

	switch r {
	case '(':
		lx.advance()
		return Token{Kind: LParen, Pos: pos, Text: "("}
	case ')':
		lx.advance()
		return Token{Kind: RParen, Pos: pos, Text: ")"}
	case '[':
		lx.advance()
		return Token{Kind: LBracket, Pos: pos, Text: "["}
	case ']':
		lx.advance()
		return Token{Kind: RBracket, Pos: pos, Text: "]"}
	case ',':
		lx.advance()
		return Token{Kind: Comma, Pos: pos, Text: ","}
	case '|':
		lx.advance()
		return Token{Kind: Pipe, Pos: pos, Text: "|"}
	case '"':
		if lx.peek(1) == '"' && lx.peek(2) == '"' {
			return lx.docString(pos)
		}
		return lx.quoted(pos)
	}

	start := lx.i
	for !isDelim(lx.peek(0)) {
		if unicode.IsControl(lx.peek(0)) {
			break
		}
		lx.advance()
	}
	word := string(lx.src[start:lx.i])
	return lx.classify(pos, word)
}

func (lx *Lexer) classify(pos Pos, word string) Token {
	lower := strings.ToLower(word)

	if lower == `."` || lower == `abort"` {
		return lx.message(pos, strings.TrimSuffix(lower, `"`))
	}

	if ReservedWords[lower] {
		return Token{Kind: Reserved, Pos: pos, Text: word, Word: lower}
	}

	if tok, ok := varRef(pos, word); ok {
		return tok
	}

	if tok, ok := number(pos, word); ok {
		return tok
	}

	return Token{Kind: Ident, Pos: pos, Text: word}
}

func (lx *Lexer) message(pos Pos, intro string) Token {
	if unicode.IsSpace(lx.peek(0)) && lx.peek(0) != '\n' {
		lx.advance()
	}
	var sb strings.Builder
	for {
		r := lx.peek(0)
		if r < 0 || r == '\n' {
			return Token{Kind: Error, Pos: pos, Text: sb.String(), Word: intro, Err: errUnterminated}
		}
		lx.advance()
		if r == '"' {
			return Token{Kind: Message, Pos: pos, Text: sb.String(), Word: intro}
		}
		sb.WriteRune(r)
	}
}

func (lx *Lexer) quoted(pos Pos) Token {
	lx.advance()
	var sb strings.Builder
	for {
		r := lx.peek(0)
		if r < 0 || r == '\n' {
			return Token{Kind: Error, Pos: pos, Text: sb.String(), Err: errUnterminated}
		}
		lx.advance()
		switch r {
		case '"':
			return Token{Kind: String, Pos: pos, Text: sb.String()}
		case '\\':
			switch e := lx.peek(0); e {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '"', '\\':
				sb.WriteRune(e)
			default:
				sb.WriteByte('\\')
				continue
			}
			lx.advance()
		default:
			sb.WriteRune(r)
		}
	}
}

func (lx *Lexer) docString(pos Pos) Token {
	lx.advance()
	lx.advance()
	lx.advance()
	start := lx.i
	for lx.i < len(lx.src) {
		if lx.peek(0) == '"' && lx.peek(1) == '"' && lx.peek(2) == '"' {
			text := string(lx.src[start:lx.i])
			lx.advance()
			lx.advance()
			lx.advance()
			return Token{Kind: DocString, Pos: pos, Text: strings.TrimSpace(text)}
		}
		lx.advance()
	}
	return Token{Kind: Error, Pos: pos, Text: string(lx.src[start:]), Err: errUnterminated}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func varRef(pos Pos, word string) (Token, bool) {
	var kind Kind
	switch {
	case strings.HasPrefix(word, "@"):
		kind = Fetch
	case strings.HasPrefix(word, "!"):
		kind = Store
	default:
		return Token{}, false
	}
	name := word[1:]
	var mod byte
	if len(name) > 0 && strings.IndexByte("+-*/", name[0]) >= 0 {
		mod, name = name[0], name[1:]
	}
	if name == "" {
		return Token{}, false
	}
	if r, _ := utf8.DecodeRuneInString(name); !isIdentStart(r) {
		return Token{}, false
	}
	return Token{Kind: kind, Pos: pos, Text: name, Mod: mod}, true
}

func number(pos Pos, word string) (Token, bool) {
	body := strings.TrimLeft(word, "+-")
	if len(word)-len(body) > 1 || body == "" {
		return Token{}, false
	}

	if c := body[0]; c != '.' && (c < '0' || c > '9') {
		return Token{}, false
	}

	if strings.Contains(word, "::") {
		parts := strings.SplitN(word, "::", 2)
		num, nerr := parseInt(parts[0])
		den, derr := parseInt(parts[1])
		if nerr != nil || derr != nil || den == 0 {
			return Token{Kind: Error, Pos: pos, Text: word, Err: errBadRational}, true
		}
		return Token{Kind: Rational, Pos: pos, Text: word, Rat: big.NewRat(num, den)}, true
	}

	if len(body) > 1 && body[0] == '0' && strings.IndexByte("xXoObB", body[1]) >= 0 {
		n, err := parseInt(word)
		if err != nil {
			return Token{Kind: Error, Pos: pos, Text: word, Err: fmt.Errorf("%w: %v", errBadRadix, err)}, true
		}
		return Token{Kind: Integer, Pos: pos, Text: word, Int: n}, true
	}

	if n, err := strconv.ParseInt(word, 10, 64); err == nil {
		return Token{Kind: Integer, Pos: pos, Text: word, Int: n}, true
	}
	if f, err := strconv.ParseFloat(word, 64); err == nil {
		return Token{Kind: Float, Pos: pos, Text: word, Float: f}, true
	}
	return Token{}, false
}

func parseInt(s string) (int64, error) {
	// not base 0: that would read a plain 010 as octal
	neg := strings.HasPrefix(s, "-")
	body := strings.TrimLeft(s, "+-")
	base := 10
	if len(body) > 1 && body[0] == '0' {
		switch body[1] {
		case 'x', 'X':
			base, body = 16, body[2:]
		case 'o', 'O':
			base, body = 8, body[2:]
		case 'b', 'B':
			base, body = 2, body[2:]
		}
	}
	n, err := strconv.ParseInt(body, base, 64)
	if neg {
		n = -n
	}
	return n, err
}
