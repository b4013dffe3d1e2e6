// Package parser turns a token stream into the raw ast.File tree. It is a
// hand-written recursive-descent parser with a single token of lookahead:
// peekTok is the next unconsumed token, prevTok is the one most recently
// consumed. Every production captures its own start token (the lookahead on
// entry) and end token (prevTok on exit) to build its NodeSpan — there is no
// scope stack to push and pop, since Go's call stack already nests the
// productions correctly.
//
// Parsing never aborts on error: a production that fails records a
// diagnostic and returns ok=false, and its caller skips one token before
// resuming at the next declaration or member boundary. Errors accumulate in
// Errors; Success reports whether any were recorded.
package parser

import (
	"fmt"
	"strconv"

	"github.com/wugaoyin/idlc/internal/ast"
	"github.com/wugaoyin/idlc/internal/lexer"
	"github.com/wugaoyin/idlc/internal/source"
	"github.com/wugaoyin/idlc/internal/token"
)

// Parser holds lookahead state and the accumulated token stream and errors
// for one file.
type Parser struct {
	lx *lexer.Lexer

	peekTok token.Token
	prevTok token.Token
	tokens  []token.Token

	Errors []ParseError
}

// New returns a Parser primed with the first lookahead token of file.
func New(file *source.File) *Parser {
	p := &Parser{lx: lexer.New(file)}
	p.peekTok = p.next()
	return p
}

// Parse parses file and returns the raw AST together with the lexer's and
// the parser's diagnostics.
func Parse(file *source.File) (*ast.File, []lexer.LexError, []ParseError) {
	p := New(file)
	f := p.parseFile()
	return f, p.lx.Errors, p.Errors
}

// LexErrors returns the diagnostics the underlying lexer recorded.
func (p *Parser) LexErrors() []lexer.LexError { return p.lx.Errors }

// Success reports whether parsing recorded no diagnostics.
func (p *Parser) Success() bool { return len(p.Errors) == 0 }

// next pulls the next grammatically-significant token from the lexer,
// skipping both comment kinds. Comments still land in p.tokens so the full
// token stream (ast.File.Tokens) accounts for every byte of the file; doc
// comments are not attached to declarations by this grammar, so there is no
// reason to surface them to the productions below.
func (p *Parser) next() token.Token {
	for {
		t := p.lx.Lex()
		p.tokens = append(p.tokens, t)
		if t.Kind == token.Comment || t.Kind == token.DocComment {
			continue
		}
		return t
	}
}

func (p *Parser) advance() token.Token {
	t := p.peekTok
	p.prevTok = t
	p.peekTok = p.next()
	return t
}

func (p *Parser) at(kind token.Kind) bool { return p.peekTok.Kind == kind }

func (p *Parser) atIdentifier(sub token.Subkind) bool {
	return p.peekTok.Kind == token.Identifier && p.peekTok.Subkind == sub
}

func (p *Parser) errorf(code string, span source.Span, format string, args ...any) {
	p.Errors = append(p.Errors, ParseError{Code: code, Message: fmt.Sprintf(format, args...), Span: span})
}

// consumeKind advances past peekTok if it has the given kind, else records
// ErrConsumeNotExpected and leaves the lookahead untouched.
func (p *Parser) consumeKind(kind token.Kind) (token.Token, bool) {
	if p.peekTok.Kind != kind {
		p.errorf(ErrConsumeNotExpected, p.peekTok.Span, "expected %s, found %s", kind, p.peekTok.Kind)
		return token.Token{}, false
	}
	return p.advance(), true
}

// consumeIdentifierOfSubkind advances past peekTok if it is a reserved-word
// identifier of the given subkind.
func (p *Parser) consumeIdentifierOfSubkind(sub token.Subkind) (token.Token, bool) {
	if !p.atIdentifier(sub) {
		p.errorf(ErrConsumeNotExpected, p.peekTok.Span, "expected keyword, found %s", p.peekTok.Kind)
		return token.Token{}, false
	}
	return p.advance(), true
}

// recoverSkipToken discards one token so a failed production's caller can
// keep scanning for the next declaration or member boundary instead of
// looping forever on the same bad token.
func (p *Parser) recoverSkipToken() {
	if p.at(token.EndOfFile) {
		return
	}
	p.advance()
}

func span(start, end token.Token) ast.NodeSpan {
	return ast.NodeSpan{StartTok: start, EndTok: end}
}

// parseIdentifier consumes a single identifier token and validates its
// spelling against [A-Za-z]([A-Za-z0-9_]*[A-Za-z0-9])?. Reserved words are
// accepted here too — subkind only matters where the grammar specifically
// requires a keyword.
func (p *Parser) parseIdentifier() (*ast.Identifier, bool) {
	if p.peekTok.Kind != token.Identifier {
		p.errorf(ErrConsumeNotExpected, p.peekTok.Span, "expected identifier, found %s", p.peekTok.Kind)
		return nil, false
	}
	tok := p.advance()
	name := tok.Text()
	if !isValidIdentifier(name) {
		p.errorf(ErrInvalidIdentifier, tok.Span, "invalid identifier %q", name)
		return nil, false
	}
	return &ast.Identifier{NodeSpan: span(tok, tok), Name: name}, true
}

// parseKeywordIdentifier consumes a reserved-word identifier and builds an
// Identifier node from it directly, bypassing the spelling check (reserved
// spellings are valid identifiers by construction).
func (p *Parser) parseKeywordIdentifier(sub token.Subkind) (*ast.Identifier, bool) {
	tok, ok := p.consumeIdentifierOfSubkind(sub)
	if !ok {
		return nil, false
	}
	return &ast.Identifier{NodeSpan: span(tok, tok), Name: tok.Text()}, true
}

func isValidIdentifier(s string) bool {
	if len(s) == 0 || !isAlphaByte(s[0]) {
		return false
	}
	if len(s) == 1 {
		return true
	}
	for i := 1; i < len(s)-1; i++ {
		c := s[i]
		if !(isAlphaByte(c) || isDigitByte(c) || c == '_') {
			return false
		}
	}
	last := s[len(s)-1]
	return isAlphaByte(last) || isDigitByte(last)
}

func isAlphaByte(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isDigitByte(c byte) bool { return c >= '0' && c <= '9' }

// parseModuleNameCompound parses the dotted identifier list following the
// 'module' keyword (already consumed by the caller).
func (p *Parser) parseModuleNameCompound() (*ast.CompoundIdentifier, bool) {
	start := p.peekTok
	id, ok := p.parseIdentifier()
	if !ok {
		return nil, false
	}
	comps := []*ast.Identifier{id}
	for p.at(token.Dot) {
		p.advance()
		next, ok := p.parseIdentifier()
		if !ok {
			return nil, false
		}
		comps = append(comps, next)
	}
	return &ast.CompoundIdentifier{NodeSpan: span(start, p.prevTok), Components: comps}, true
}

func (p *Parser) parseStringLiteral() (ast.Literal, bool) {
	tok, ok := p.consumeKind(token.StringLiteral)
	if !ok {
		return nil, false
	}
	return &ast.StringLiteral{NodeSpan: span(tok, tok), Raw: tok.Text()}, true
}

func (p *Parser) parseNumericLiteral() (ast.Literal, bool) {
	tok, ok := p.consumeKind(token.NumericLiteral)
	if !ok {
		return nil, false
	}
	return &ast.NumericLiteral{NodeSpan: span(tok, tok), Raw: tok.Text()}, true
}

func (p *Parser) parseTrueLiteral() (ast.Literal, bool) {
	tok, ok := p.consumeIdentifierOfSubkind(token.SubkindTrue)
	if !ok {
		return nil, false
	}
	return &ast.TrueLiteral{NodeSpan: span(tok, tok)}, true
}

func (p *Parser) parseFalseLiteral() (ast.Literal, bool) {
	tok, ok := p.consumeIdentifierOfSubkind(token.SubkindFalse)
	if !ok {
		return nil, false
	}
	return &ast.FalseLiteral{NodeSpan: span(tok, tok)}, true
}

// parseLiteral dispatches on the lookahead's shape. A token matching none of
// the four literal forms is ErrConstantBody: the grammar only ever reaches
// here while parsing the right-hand side of a const declaration.
func (p *Parser) parseLiteral() (ast.Literal, bool) {
	switch {
	case p.at(token.StringLiteral):
		return p.parseStringLiteral()
	case p.at(token.NumericLiteral):
		return p.parseNumericLiteral()
	case p.atIdentifier(token.SubkindTrue):
		return p.parseTrueLiteral()
	case p.atIdentifier(token.SubkindFalse):
		return p.parseFalseLiteral()
	default:
		p.errorf(ErrConstantBody, p.peekTok.Span, "expected a literal constant, found %s", p.peekTok.Kind)
		return nil, false
	}
}

func (p *Parser) parseConstant() (ast.Constant, bool) {
	start := p.peekTok
	lit, ok := p.parseLiteral()
	if !ok {
		return nil, false
	}
	return &ast.LiteralConstant{NodeSpan: span(start, p.prevTok), Literal: lit}, true
}

// parseTypeCore parses the single non-sequence type spelling: a compound
// primitive ("unsigned long long", "unsigned short", "long long", ...) or a
// bare identifier naming a user type.
func (p *Parser) parseTypeCore() ([]*ast.Identifier, bool) {
	switch {
	case p.atIdentifier(token.SubkindUnsigned):
		unsigned, ok := p.parseKeywordIdentifier(token.SubkindUnsigned)
		if !ok {
			return nil, false
		}
		comps := []*ast.Identifier{unsigned}
		switch {
		case p.atIdentifier(token.SubkindLong):
			long1, ok := p.parseKeywordIdentifier(token.SubkindLong)
			if !ok {
				return nil, false
			}
			comps = append(comps, long1)
			if p.atIdentifier(token.SubkindLong) {
				long2, ok := p.parseKeywordIdentifier(token.SubkindLong)
				if !ok {
					return nil, false
				}
				comps = append(comps, long2)
			}
		case p.atIdentifier(token.SubkindShort):
			short, ok := p.parseKeywordIdentifier(token.SubkindShort)
			if !ok {
				return nil, false
			}
			comps = append(comps, short)
		default:
			p.errorf(ErrTypeDeclareCompound, p.peekTok.Span, "'unsigned' must be followed by 'long' or 'short'")
			return nil, false
		}
		return comps, true
	case p.atIdentifier(token.SubkindLong):
		long1, ok := p.parseKeywordIdentifier(token.SubkindLong)
		if !ok {
			return nil, false
		}
		comps := []*ast.Identifier{long1}
		if p.atIdentifier(token.SubkindLong) {
			long2, ok := p.parseKeywordIdentifier(token.SubkindLong)
			if !ok {
				return nil, false
			}
			comps = append(comps, long2)
		}
		return comps, true
	default:
		id, ok := p.parseIdentifier()
		if !ok {
			return nil, false
		}
		return []*ast.Identifier{id}, true
	}
}

// parseTypeConstructor parses zero or more "sequence<" prefixes, a single
// TypeCore, and the matching run of closing '>' (each optionally preceded by
// ", N" naming that level's bound). SequenceSizes is built outside-in:
// the first '>' closes the innermost level, so its size is prepended, not
// appended, leaving SequenceSizes[0] as the outermost bound.
func (p *Parser) parseTypeConstructor() (*ast.TypeConstructor, bool) {
	start := p.peekTok
	left := 0
	for p.atIdentifier(token.SubkindSequence) {
		p.advance()
		if _, ok := p.consumeKind(token.LeftAngle); !ok {
			break
		}
		left++
	}

	comps, ok := p.parseTypeCore()
	if !ok {
		return nil, false
	}

	var sizes []int64
	right := 0
	malformed := false
	for right < left && !malformed {
		switch {
		case p.at(token.Comma):
			p.advance()
			size := int64(-1)
			if numTok, ok := p.consumeKind(token.NumericLiteral); ok {
				if n, err := strconv.ParseInt(numTok.Text(), 10, 64); err == nil {
					size = n
				} else {
					p.errorf(ErrSequenceFormat, numTok.Span, "invalid sequence bound %q", numTok.Text())
				}
			}
			if _, ok := p.consumeKind(token.RightAngle); !ok {
				malformed = true
				break
			}
			sizes = append([]int64{size}, sizes...)
			right++
		case p.at(token.RightAngle):
			p.advance()
			sizes = append([]int64{-1}, sizes...)
			right++
		default:
			malformed = true
		}
	}
	if malformed || left != right {
		p.errorf(ErrSequenceFormat, p.peekTok.Span, "sequence<...> has %d opening but %d closing brackets", left, right)
		return nil, false
	}

	return &ast.TypeConstructor{NodeSpan: span(start, p.prevTok), Components: comps, SequenceSizes: sizes}, true
}

func (p *Parser) parseConstDeclaration() (*ast.ConstDeclaration, bool) {
	start := p.peekTok
	if _, ok := p.consumeIdentifierOfSubkind(token.SubkindConst); !ok {
		return nil, false
	}
	typ, ok := p.parseTypeConstructor()
	if !ok {
		return nil, false
	}
	name, ok := p.parseIdentifier()
	if !ok {
		return nil, false
	}
	if _, ok := p.consumeKind(token.Equal); !ok {
		return nil, false
	}
	val, ok := p.parseConstant()
	if !ok {
		return nil, false
	}
	if _, ok := p.consumeKind(token.Semicolon); !ok {
		return nil, false
	}
	return &ast.ConstDeclaration{NodeSpan: span(start, p.prevTok), Type: typ, Name: name, Constant: val}, true
}

func (p *Parser) parseStructMember() (*ast.StructMember, bool) {
	start := p.peekTok
	typ, ok := p.parseTypeConstructor()
	if !ok {
		return nil, false
	}
	name, ok := p.parseIdentifier()
	if !ok {
		return nil, false
	}
	if _, ok := p.consumeKind(token.Semicolon); !ok {
		return nil, false
	}
	return &ast.StructMember{NodeSpan: span(start, p.prevTok), Type: typ, Name: name}, true
}

func (p *Parser) parseStructDeclaration() (*ast.StructDeclaration, bool) {
	start := p.peekTok
	if _, ok := p.consumeIdentifierOfSubkind(token.SubkindStruct); !ok {
		return nil, false
	}
	name, ok := p.parseIdentifier()
	if !ok {
		return nil, false
	}
	if _, ok := p.consumeKind(token.LeftCurly); !ok {
		return nil, false
	}
	var members []*ast.StructMember
	for !p.at(token.RightCurly) && !p.at(token.EndOfFile) {
		m, ok := p.parseStructMember()
		if !ok {
			p.recoverSkipToken()
			continue
		}
		members = append(members, m)
	}
	if _, ok := p.consumeKind(token.RightCurly); !ok {
		return nil, false
	}
	if _, ok := p.consumeKind(token.Semicolon); !ok {
		return nil, false
	}
	return &ast.StructDeclaration{NodeSpan: span(start, p.prevTok), Name: name, Members: members}, true
}

func (p *Parser) parseUnionMember() (*ast.UnionMember, bool) {
	start := p.peekTok
	var caseValue int64
	isDefault := false
	switch {
	case p.atIdentifier(token.SubkindCase):
		p.advance()
		numTok, ok := p.consumeKind(token.NumericLiteral)
		if !ok {
			return nil, false
		}
		n, err := strconv.ParseInt(numTok.Text(), 10, 64)
		if err != nil {
			p.errorf(ErrConsumeNotExpected, numTok.Span, "invalid union case value %q", numTok.Text())
			return nil, false
		}
		caseValue = n
	case p.atIdentifier(token.SubkindDefault):
		p.advance()
		isDefault = true
	default:
		p.errorf(ErrConsumeNotExpected, p.peekTok.Span, "expected 'case' or 'default', found %s", p.peekTok.Kind)
		return nil, false
	}
	if _, ok := p.consumeKind(token.Colon); !ok {
		return nil, false
	}
	typ, ok := p.parseTypeConstructor()
	if !ok {
		return nil, false
	}
	name, ok := p.parseIdentifier()
	if !ok {
		return nil, false
	}
	if _, ok := p.consumeKind(token.Semicolon); !ok {
		return nil, false
	}
	return &ast.UnionMember{NodeSpan: span(start, p.prevTok), Type: typ, Name: name, CaseValue: caseValue, IsDefault: isDefault}, true
}

func (p *Parser) parseUnionDeclaration() (*ast.UnionDeclaration, bool) {
	start := p.peekTok
	if _, ok := p.consumeIdentifierOfSubkind(token.SubkindUnion); !ok {
		return nil, false
	}
	name, ok := p.parseIdentifier()
	if !ok {
		return nil, false
	}
	if _, ok := p.consumeIdentifierOfSubkind(token.SubkindSwitch); !ok {
		return nil, false
	}
	if _, ok := p.consumeKind(token.LeftParen); !ok {
		return nil, false
	}
	selectType, ok := p.parseTypeConstructor()
	if !ok {
		return nil, false
	}
	if _, ok := p.consumeKind(token.RightParen); !ok {
		return nil, false
	}
	if _, ok := p.consumeKind(token.LeftCurly); !ok {
		return nil, false
	}
	var members []*ast.UnionMember
	for !p.at(token.RightCurly) && !p.at(token.EndOfFile) {
		m, ok := p.parseUnionMember()
		if !ok {
			p.recoverSkipToken()
			continue
		}
		members = append(members, m)
	}
	if _, ok := p.consumeKind(token.RightCurly); !ok {
		return nil, false
	}
	if _, ok := p.consumeKind(token.Semicolon); !ok {
		return nil, false
	}
	return &ast.UnionDeclaration{NodeSpan: span(start, p.prevTok), Name: name, SelectType: selectType, Members: members}, true
}

// parseEnumMember parses one "@value(N)? Ident" entry. prevValue is the
// previous member's resolved value (0 before the first member); an implicit
// member is prevValue+1, matching C-style enum numbering.
func (p *Parser) parseEnumMember(prevValue int64) (*ast.EnumMember, int64, bool) {
	start := p.peekTok
	value := prevValue + 1
	if p.at(token.At) {
		p.advance()
		if _, ok := p.consumeIdentifierOfSubkind(token.SubkindValue); !ok {
			return nil, prevValue, false
		}
		if _, ok := p.consumeKind(token.LeftParen); !ok {
			return nil, prevValue, false
		}
		numTok, ok := p.consumeKind(token.NumericLiteral)
		if !ok {
			return nil, prevValue, false
		}
		n, err := strconv.ParseInt(numTok.Text(), 10, 64)
		if err != nil {
			p.errorf(ErrConsumeNotExpected, numTok.Span, "invalid enum value %q", numTok.Text())
			return nil, prevValue, false
		}
		if _, ok := p.consumeKind(token.RightParen); !ok {
			return nil, prevValue, false
		}
		value = n
	}
	name, ok := p.parseIdentifier()
	if !ok {
		return nil, prevValue, false
	}
	return &ast.EnumMember{NodeSpan: span(start, p.prevTok), Name: name, Value: value}, value, true
}

func (p *Parser) parseEnumDeclaration() (*ast.EnumDeclaration, bool) {
	start := p.peekTok
	if _, ok := p.consumeIdentifierOfSubkind(token.SubkindEnum); !ok {
		return nil, false
	}
	name, ok := p.parseIdentifier()
	if !ok {
		return nil, false
	}
	if _, ok := p.consumeKind(token.LeftCurly); !ok {
		return nil, false
	}
	var members []*ast.EnumMember
	value := int64(0)
	for !p.at(token.RightCurly) && !p.at(token.EndOfFile) {
		m, next, ok := p.parseEnumMember(value)
		if !ok {
			p.recoverSkipToken()
			continue
		}
		members = append(members, m)
		value = next
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	if _, ok := p.consumeKind(token.RightCurly); !ok {
		return nil, false
	}
	if _, ok := p.consumeKind(token.Semicolon); !ok {
		return nil, false
	}
	return &ast.EnumDeclaration{NodeSpan: span(start, p.prevTok), Name: name, Members: members}, true
}

func (p *Parser) parseMethodParameter() (*ast.MethodParameter, bool) {
	start := p.peekTok
	direction := ast.ParamIn
	switch {
	case p.atIdentifier(token.SubkindIn):
		p.advance()
		direction = ast.ParamIn
	case p.atIdentifier(token.SubkindOut):
		p.advance()
		direction = ast.ParamOut
	case p.atIdentifier(token.SubkindInOut):
		p.advance()
		direction = ast.ParamInOut
	}
	typ, ok := p.parseTypeConstructor()
	if !ok {
		return nil, false
	}
	name, ok := p.parseIdentifier()
	if !ok {
		return nil, false
	}
	return &ast.MethodParameter{NodeSpan: span(start, p.prevTok), Direction: direction, Type: typ, Name: name}, true
}

func (p *Parser) parseInterfaceMethodParams() ([]*ast.MethodParameter, bool) {
	var params []*ast.MethodParameter
	if p.at(token.RightParen) {
		return params, true
	}
	for {
		param, ok := p.parseMethodParameter()
		if !ok {
			return nil, false
		}
		params = append(params, param)
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	return params, true
}

// parseInterfaceMethod implements the return-and-name peeling algorithm: it
// parses type constructors back to back until it reaches '(', requires at
// least one, and takes the last one as the method's name (so it must reduce
// to a single identifier component); everything before it is a return type.
func (p *Parser) parseInterfaceMethod() (*ast.MethodDeclaration, bool) {
	start := p.peekTok
	var list []*ast.TypeConstructor
	for !p.at(token.LeftParen) && !p.at(token.EndOfFile) {
		tc, ok := p.parseTypeConstructor()
		if !ok {
			return nil, false
		}
		list = append(list, tc)
	}
	if len(list) < 1 {
		p.errorf(ErrConsumeNotExpected, p.peekTok.Span, "method declaration is missing a name")
		return nil, false
	}
	nameType := list[len(list)-1]
	list = list[:len(list)-1]
	if len(nameType.Components) != 1 {
		p.errorf(ErrConsumeNotExpected, nameType.Span(), "method name must be a single identifier")
		return nil, false
	}
	name := nameType.Components[0]

	if _, ok := p.consumeKind(token.LeftParen); !ok {
		return nil, false
	}
	params, ok := p.parseInterfaceMethodParams()
	if !ok {
		return nil, false
	}
	if _, ok := p.consumeKind(token.RightParen); !ok {
		return nil, false
	}
	if _, ok := p.consumeKind(token.Semicolon); !ok {
		return nil, false
	}

	returns := make([]*ast.MethodReturn, 0, len(list))
	for _, tc := range list {
		returns = append(returns, &ast.MethodReturn{NodeSpan: tc.NodeSpan, Type: tc})
	}
	return &ast.MethodDeclaration{NodeSpan: span(start, p.prevTok), Name: name, Returns: returns, Parameters: params}, true
}

func (p *Parser) parseEventMember() (*ast.EventMember, bool) {
	start := p.peekTok
	attr, ok := p.parseIdentifier()
	if !ok {
		return nil, false
	}
	typ, ok := p.parseTypeConstructor()
	if !ok {
		return nil, false
	}
	name, ok := p.parseIdentifier()
	if !ok {
		return nil, false
	}
	if _, ok := p.consumeKind(token.Semicolon); !ok {
		return nil, false
	}
	return &ast.EventMember{NodeSpan: span(start, p.prevTok), Attribute: attr, Type: typ, Name: name}, true
}

func (p *Parser) parseEventDeclaration() (*ast.EventDeclaration, bool) {
	start := p.peekTok
	if _, ok := p.consumeIdentifierOfSubkind(token.SubkindEventType); !ok {
		return nil, false
	}
	name, ok := p.parseIdentifier()
	if !ok {
		return nil, false
	}
	if _, ok := p.consumeKind(token.LeftCurly); !ok {
		return nil, false
	}
	var members []*ast.EventMember
	for !p.at(token.RightCurly) && !p.at(token.EndOfFile) {
		m, ok := p.parseEventMember()
		if !ok {
			p.recoverSkipToken()
			continue
		}
		members = append(members, m)
	}
	if _, ok := p.consumeKind(token.RightCurly); !ok {
		return nil, false
	}
	if _, ok := p.consumeKind(token.Semicolon); !ok {
		return nil, false
	}
	return &ast.EventDeclaration{NodeSpan: span(start, p.prevTok), Name: name, Members: members}, true
}

// parseInterfaceDeclaration parses the body following an already-consumed
// "@attribute" prefix. start is the '@' token, so the resulting span covers
// the attribute too.
func (p *Parser) parseInterfaceDeclaration(attribute *ast.Identifier, start token.Token) (*ast.InterfaceDeclaration, bool) {
	if _, ok := p.consumeIdentifierOfSubkind(token.SubkindInterface); !ok {
		return nil, false
	}
	name, ok := p.parseIdentifier()
	if !ok {
		return nil, false
	}
	if _, ok := p.consumeKind(token.LeftCurly); !ok {
		return nil, false
	}
	var methods []*ast.MethodDeclaration
	var events []*ast.EventDeclaration
	for !p.at(token.RightCurly) && !p.at(token.EndOfFile) {
		if p.atIdentifier(token.SubkindEventType) {
			ev, ok := p.parseEventDeclaration()
			if !ok {
				p.recoverSkipToken()
				continue
			}
			events = append(events, ev)
			continue
		}
		m, ok := p.parseInterfaceMethod()
		if !ok {
			p.recoverSkipToken()
			continue
		}
		methods = append(methods, m)
	}
	if _, ok := p.consumeKind(token.RightCurly); !ok {
		return nil, false
	}
	if _, ok := p.consumeKind(token.Semicolon); !ok {
		return nil, false
	}
	return &ast.InterfaceDeclaration{NodeSpan: span(start, p.prevTok), Name: name, Attribute: attribute, Methods: methods, Events: events}, true
}

// parseFile drives the whole grammar: a module header followed by zero or
// more declarations. An unrecognized token at file scope is recorded
// (ErrConsumeNotExpected) and skipped rather than aborting the whole parse.
func (p *Parser) parseFile() *ast.File {
	start := p.peekTok

	if _, ok := p.consumeIdentifierOfSubkind(token.SubkindModule); !ok {
		p.recoverSkipToken()
	}
	moduleName, _ := p.parseModuleNameCompound()
	if _, ok := p.consumeKind(token.LeftCurly); !ok {
		p.recoverSkipToken()
	}

	file := &ast.File{ModuleName: moduleName}

	for !p.at(token.EndOfFile) {
		switch {
		case p.at(token.RightCurly):
			p.advance()
		case p.at(token.At):
			atTok := p.advance()
			attr, ok := p.parseIdentifier()
			if !ok {
				p.recoverSkipToken()
				continue
			}
			iface, ok := p.parseInterfaceDeclaration(attr, atTok)
			if ok {
				file.Interfaces = append(file.Interfaces, iface)
			} else {
				p.recoverSkipToken()
			}
		case p.atIdentifier(token.SubkindConst):
			d, ok := p.parseConstDeclaration()
			if ok {
				file.Consts = append(file.Consts, d)
			} else {
				p.recoverSkipToken()
			}
		case p.atIdentifier(token.SubkindStruct):
			d, ok := p.parseStructDeclaration()
			if ok {
				file.Structs = append(file.Structs, d)
			} else {
				p.recoverSkipToken()
			}
		case p.atIdentifier(token.SubkindUnion):
			d, ok := p.parseUnionDeclaration()
			if ok {
				file.Unions = append(file.Unions, d)
			} else {
				p.recoverSkipToken()
			}
		case p.atIdentifier(token.SubkindEnum):
			d, ok := p.parseEnumDeclaration()
			if ok {
				file.Enums = append(file.Enums, d)
			} else {
				p.recoverSkipToken()
			}
		default:
			p.errorf(ErrConsumeNotExpected, p.peekTok.Span, "unexpected %s at file scope", p.peekTok.Kind)
			p.recoverSkipToken()
		}
	}

	file.EOF = p.peekTok
	file.Tokens = p.tokens
	file.NodeSpan = span(start, p.peekTok)
	return file
}
