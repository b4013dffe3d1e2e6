package lexer

import (
	"fmt"

	"github.com/wugaoyin/idlc/internal/source"
)

const (
	ErrUnexpectedChar     = "E_LEX_UNEXPECTED_CHAR"
	ErrUnterminatedString = "E_LEX_UNTERMINATED_STRING"
)

// LexError captures a single lexer diagnostic.
type LexError struct {
	Code    string
	Message string
	Span    source.Span
}

func (e LexError) Error() string {
	pos := e.Span.Position()
	return fmt.Sprintf("%s %s:%s %s", e.Code, e.Span.File.Name(), pos, e.Message)
}
