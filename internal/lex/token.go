package lex

import (
	"fmt"
	"math/big"
	"strings"
)

// Kind classifies a Token.
type Kind int

// Token kinds.
const (
	EOF Kind = iota
	Error

	Integer
	Float
	Rational
	String
	DocString
	Message

	Ident
	Reserved
	Fetch
	Store

	LParen
	RParen
	LBracket
	RBracket
	Comma
	Pipe
)

var kindNames = [...]string{
	EOF:       "EOF",
	Error:     "error",
	Integer:   "integer",
	Float:     "float",
	Rational:  "rational",
	String:    "string",
	DocString: "docstring",
	Message:   "message",
	Ident:     "identifier",
	Reserved:  "reserved",
	Fetch:     "fetch",
	Store:     "store",
	LParen:    "(",
	RParen:    ")",
	LBracket:  "[",
	RBracket:  "]",
	Comma:     ",",
	Pipe:      "|",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Pos is a 1-based line and column position.
type Pos struct {
	Line int
	Col  int
}

func (pos Pos) String() string { return fmt.Sprintf("%v:%v", pos.Line, pos.Col) }

// Token is one lexical item.
//
// Text holds the raw source text, except for String, DocString and Message
// tokens where it holds the decoded content, and for Fetch and Store where
// it holds the variable name. Word holds the lower cased reserved word or
// message introducer ("." or "abort").
type Token struct {
	Kind Kind
	Pos
	Text string
	Word string
	Mod  byte

	Int   int64
	Float float64
	Rat   *big.Rat
	Err   error
}

func (tok Token) String() string {
	switch tok.Kind {
	case EOF:
		return "EOF"
	case Error:
		return fmt.Sprintf("%v error: %v", tok.Pos, tok.Err)
	case String, DocString, Message:
		return fmt.Sprintf("%v %v %q", tok.Pos, tok.Kind, tok.Text)
	case Fetch, Store:
		var sb strings.Builder
		if tok.Kind == Fetch {
			sb.WriteByte('@')
		} else {
			sb.WriteByte('!')
		}
		if tok.Mod != 0 {
			sb.WriteByte(tok.Mod)
		}
		sb.WriteString(tok.Text)
		return fmt.Sprintf("%v %v", tok.Pos, sb.String())
	default:
		return fmt.Sprintf("%v %v", tok.Pos, tok.Text)
	}
}

// Is returns true if the token is the given reserved word.
func (tok Token) Is(word string) bool {
	return tok.Kind == Reserved && tok.Word == word
}

// ReservedWords lists the words that the structure builder treats
// specially; any other word is an identifier.
var ReservedWords = map[string]bool{
	":": true, ";": true,
	"if": true, "else": true, "then": true,
	"begin": true, "again": true, "until": true, "while": true, "repeat": true,
	"do": true, "loop": true, "+loop": true,
	"case": true, "of": true, "endof": true, "otherwise": true, "endcase": true,
	"variable": true, "constant": true,
	"catch": true, "forget": true, "hide": true, "show": true,
	"undef": true, "help": true,
	"recurse": true, "leave": true, "exit": true, "ascii": true,
}
