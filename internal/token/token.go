// Package token defines the lexical tokens of the IDL grammar.
package token

import "github.com/wugaoyin/idlc/internal/source"

// Kind is the closed set of token kinds the lexer ever produces.
type Kind int

const (
	NotAToken Kind = iota
	Identifier
	NumericLiteral
	StringLiteral
	Comment
	DocComment
	Arrow
	LeftParen
	RightParen
	LeftSquare
	RightSquare
	LeftCurly
	RightCurly
	LeftAngle
	RightAngle
	At
	Dot
	Comma
	Semicolon
	Colon
	Question
	Equal
	Ampersand
	Pipe
	EndOfFile
)

var kindNames = [...]string{
	NotAToken:      "not-a-token",
	Identifier:     "identifier",
	NumericLiteral: "numeric-literal",
	StringLiteral:  "string-literal",
	Comment:        "comment",
	DocComment:     "doc-comment",
	Arrow:          "->",
	LeftParen:      "(",
	RightParen:     ")",
	LeftSquare:     "[",
	RightSquare:    "]",
	LeftCurly:      "{",
	RightCurly:     "}",
	LeftAngle:      "<",
	RightAngle:     ">",
	At:             "@",
	Dot:            ".",
	Comma:          ",",
	Semicolon:      ";",
	Colon:          ":",
	Question:       "?",
	Equal:          "=",
	Ampersand:      "&",
	Pipe:           "|",
	EndOfFile:      "end-of-file",
}

func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) || kindNames[k] == "" {
		return "kind(" + itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// itoa avoids pulling in strconv for the rare case of an out-of-range Kind.
func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Subkind tags identifier tokens that match a reserved word. Non-identifier
// tokens, and identifiers that aren't reserved, carry SubkindNone.
type Subkind int

const (
	SubkindNone Subkind = iota
	SubkindModule
	SubkindConst
	SubkindStruct
	SubkindUnion
	SubkindEnum
	SubkindInterface
	SubkindSwitch
	SubkindCase
	SubkindDefault
	SubkindEventType
	SubkindValue
	SubkindIn
	SubkindOut
	SubkindInOut
	SubkindSequence
	SubkindTrue
	SubkindFalse
	SubkindUnsigned
	SubkindLong
	SubkindShort
	SubkindArray
	SubkindVector
	SubkindString
	SubkindRequest
)

// Keywords maps reserved spellings to their Subkind. Built once, analogous
// to the original lexer's token_subkinds map built from its X-macro table.
var Keywords = map[string]Subkind{
	"module":    SubkindModule,
	"const":     SubkindConst,
	"struct":    SubkindStruct,
	"union":     SubkindUnion,
	"enum":      SubkindEnum,
	"interface": SubkindInterface,
	"switch":    SubkindSwitch,
	"case":      SubkindCase,
	"default":   SubkindDefault,
	"eventtype": SubkindEventType,
	"value":     SubkindValue,
	"in":        SubkindIn,
	"out":       SubkindOut,
	"inout":     SubkindInOut,
	"sequence":  SubkindSequence,
	"true":      SubkindTrue,
	"false":     SubkindFalse,
	"unsigned":  SubkindUnsigned,
	"long":      SubkindLong,
	"short":     SubkindShort,
	"array":     SubkindArray,
	"vector":    SubkindVector,
	"string":    SubkindString,
	"request":   SubkindRequest,
}

// Token is one lexical unit: its own span, plus the span of the gap
// (whitespace and/or comments) immediately preceding it.
type Token struct {
	Kind    Kind
	Subkind Subkind
	Span    source.Span
	Gap     source.Span
}

// Text returns the token's own spelling.
func (t Token) Text() string { return t.Span.Text() }

// Valid reports whether the token carries a real span (false for the zero
// Token, which the parser returns from a failed consume).
func (t Token) Valid() bool { return t.Span.Valid() }

// IsEOF reports whether t is the end-of-file token.
func (t Token) IsEOF() bool { return t.Kind == EndOfFile }
