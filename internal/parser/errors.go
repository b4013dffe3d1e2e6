package parser

import (
	"fmt"

	"github.com/wugaoyin/idlc/internal/source"
)

const (
	ErrConsumeNotExpected = "E_PARSE_CONSUME_NOT_EXPECTED"
	ErrInvalidIdentifier  = "E_PARSE_INVALID_IDENTIFIER"
	ErrTypeDeclareCompound = "E_PARSE_TYPE_DECLARE_COMPOUND"
	ErrConstantBody       = "E_PARSE_CONSTANT_BODY"
	ErrSequenceFormat     = "E_PARSE_SEQUENCE_FORMAT"
)

// ParseError captures a single parser diagnostic.
type ParseError struct {
	Code    string
	Message string
	Span    source.Span
}

func (e ParseError) Error() string {
	pos := e.Span.Position()
	return fmt.Sprintf("%s %s:%s %s", e.Code, e.Span.File.Name(), pos, e.Message)
}
