package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wugaoyin/idlc/internal/source"
	"github.com/wugaoyin/idlc/internal/token"
)

func lexString(t *testing.T, src string) ([]token.Token, []LexError) {
	t.Helper()
	f := source.NewFile("test.idl", []byte(src))
	return LexAll(f)
}

func kinds(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tok.Kind)
	}
	return out
}

func TestLexerPunctuationAndArrow(t *testing.T) {
	tokens, errs := lexString(t, "(){}[]<>@.,;:?=&|->")
	require.Empty(t, errs)
	want := []token.Kind{
		token.LeftParen, token.RightParen, token.LeftCurly, token.RightCurly,
		token.LeftSquare, token.RightSquare, token.LeftAngle, token.RightAngle,
		token.At, token.Dot, token.Comma, token.Semicolon, token.Colon,
		token.Question, token.Equal, token.Ampersand, token.Pipe,
		token.Arrow, token.EndOfFile,
	}
	assert.Equal(t, want, kinds(tokens))
}

func TestLexerIdentifierAndKeyword(t *testing.T) {
	tokens, errs := lexString(t, "module foo_Bar2")
	require.Empty(t, errs)
	require.Len(t, tokens, 3)
	assert.Equal(t, token.Identifier, tokens[0].Kind)
	assert.Equal(t, token.SubkindModule, tokens[0].Subkind)
	assert.Equal(t, "module", tokens[0].Text())
	assert.Equal(t, token.Identifier, tokens[1].Kind)
	assert.Equal(t, token.SubkindNone, tokens[1].Subkind)
	assert.Equal(t, "foo_Bar2", tokens[1].Text())
}

func TestLexerNumericLiteral(t *testing.T) {
	tokens, errs := lexString(t, "7 0x1F -3")
	require.Empty(t, errs)
	require.Len(t, tokens, 4)
	for _, tok := range tokens[:3] {
		assert.Equal(t, token.NumericLiteral, tok.Kind)
	}
	assert.Equal(t, "7", tokens[0].Text())
	assert.Equal(t, "0x1F", tokens[1].Text())
	assert.Equal(t, "-3", tokens[2].Text())
}

func TestLexerStringLiteral(t *testing.T) {
	tokens, errs := lexString(t, `"hello world"`)
	require.Empty(t, errs)
	require.Len(t, tokens, 2)
	assert.Equal(t, token.StringLiteral, tokens[0].Kind)
	assert.Equal(t, `"hello world"`, tokens[0].Text())
}

// TestLexerStringEscapeQuirk pins down the intentional mis-escaping: a
// string containing only a backslash is not terminated by the quote that
// follows it, because the terminator check only inspects the immediately
// preceding byte.
func TestLexerStringEscapeQuirk(t *testing.T) {
	_, errs := lexString(t, `"\"`)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrUnterminatedString, errs[0].Code)
}

func TestLexerComments(t *testing.T) {
	tokens, errs := lexString(t, "// line comment\n/// doc comment\n//// section break\n/* block */ x")
	require.Empty(t, errs)
	kindsGot := kinds(tokens)
	assert.Equal(t, []token.Kind{
		token.Comment, token.DocComment, token.Comment, token.Comment, token.Identifier, token.EndOfFile,
	}, kindsGot)
}

func TestLexerCommentIsGapNotToken(t *testing.T) {
	tokens, errs := lexString(t, "// hi\nx")
	require.Empty(t, errs)
	require.Len(t, tokens, 3)
	idTok := tokens[1]
	assert.Equal(t, token.Identifier, idTok.Kind)
	assert.Equal(t, 0, idTok.Gap.Start)
}

func TestLexerUnexpectedCharRecovers(t *testing.T) {
	tokens, errs := lexString(t, "a # b")
	require.Len(t, errs, 1)
	assert.Equal(t, ErrUnexpectedChar, errs[0].Code)
	assert.Equal(t, []token.Kind{token.Identifier, token.Identifier, token.EndOfFile}, kinds(tokens))
}

func TestLexerUnterminatedBareSlash(t *testing.T) {
	_, errs := lexString(t, "a / b")
	require.Len(t, errs, 1)
	assert.Equal(t, ErrUnexpectedChar, errs[0].Code)
}
