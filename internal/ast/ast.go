// Package ast defines the raw (pre-compile) syntax tree produced by the
// parser: a tagged tree of declarations, members, type constructors, and
// literals. Node identity is expressed with small marker-method interfaces
// and resolved with type switches rather than downcasting, so there are no
// parent back-pointers and no "kind" field to keep in sync by hand.
package ast

import (
	"strconv"
	"strings"

	"github.com/wugaoyin/idlc/internal/source"
	"github.com/wugaoyin/idlc/internal/token"
)

// NodeSpan anchors a node to the first and last token it was built from.
// Embed it in every node type; its Span method satisfies every node
// interface below.
type NodeSpan struct {
	StartTok token.Token
	EndTok   token.Token
}

// Span returns the closed interval [StartTok.start, EndTok.end].
func (n NodeSpan) Span() source.Span {
	if !n.StartTok.Valid() || !n.EndTok.Valid() {
		return source.Span{}
	}
	return source.Span{
		File:  n.StartTok.Span.File,
		Start: n.StartTok.Span.Start,
		End:   n.EndTok.Span.End,
	}
}

// Identifier is a single name component, validated against
// [A-Za-z]([A-Za-z0-9_]*[A-Za-z0-9])? by the parser before construction.
type Identifier struct {
	NodeSpan
	Name string
}

// CompoundIdentifier is a dotted sequence of Identifiers, e.g. a module
// path "a.b.c".
type CompoundIdentifier struct {
	NodeSpan
	Components []*Identifier
}

func (c *CompoundIdentifier) Strings() []string {
	out := make([]string, len(c.Components))
	for i, id := range c.Components {
		out[i] = id.Name
	}
	return out
}

// Literal is implemented by String/Numeric/True/False literal nodes.
type Literal interface {
	literalNode()
	Span() source.Span
}

type StringLiteral struct {
	NodeSpan
	Raw string // includes the surrounding quotes, as lexed
}

// Contents strips the surrounding quotes. It does not interpret escapes —
// the grammar's only escape handling lives in the lexer's (intentionally
// imperfect) terminator check.
func (s *StringLiteral) Contents() string {
	if len(s.Raw) >= 2 {
		return s.Raw[1 : len(s.Raw)-1]
	}
	return s.Raw
}

type NumericLiteral struct {
	NodeSpan
	Raw string
}

// Int64 parses the literal as a signed 64-bit integer.
func (n *NumericLiteral) Int64() (int64, error) {
	return strconv.ParseInt(n.Raw, 10, 64)
}

type TrueLiteral struct{ NodeSpan }
type FalseLiteral struct{ NodeSpan }

func (*StringLiteral) literalNode()  {}
func (*NumericLiteral) literalNode() {}
func (*TrueLiteral) literalNode()    {}
func (*FalseLiteral) literalNode()   {}

// Constant is implemented by LiteralConstant — the only supported constant
// shape, per the core's non-goal of not evaluating constant expressions.
type Constant interface {
	constantNode()
	Span() source.Span
}

type LiteralConstant struct {
	NodeSpan
	Literal Literal
}

func (*LiteralConstant) constantNode() {}

// TypeConstructor is the surface syntax for a type: one or more identifier
// components (to allow multi-word spellings like "unsigned long long"),
// wrapped by zero or more "sequence<...>" layers. SequenceSizes is ordered
// outside-in: SequenceSizes[0] is the outermost sequence's bound, -1 means
// unbounded.
type TypeConstructor struct {
	NodeSpan
	Components    []*Identifier
	SequenceSizes []int64
}

func (t *TypeConstructor) ComponentStrings() []string {
	out := make([]string, len(t.Components))
	for i, id := range t.Components {
		out[i] = id.Name
	}
	return out
}

func (t *TypeConstructor) String() string {
	words := t.ComponentStrings()
	return strings.Join(words, " ")
}

// Declaration is implemented by the five top-level declaration kinds.
// Consumers that need kind-specific fields do an exhaustive type switch
// rather than downcasting.
type Declaration interface {
	declarationNode()
	Span() source.Span
}

type ConstDeclaration struct {
	NodeSpan
	Type     *TypeConstructor
	Name     *Identifier
	Constant Constant
}

type StructMember struct {
	NodeSpan
	Type *TypeConstructor
	Name *Identifier
}

type StructDeclaration struct {
	NodeSpan
	Name    *Identifier
	Members []*StructMember
}

type UnionMember struct {
	NodeSpan
	Type      *TypeConstructor
	Name      *Identifier
	CaseValue int64 // meaningful only when !IsDefault
	IsDefault bool
}

type UnionDeclaration struct {
	NodeSpan
	Name       *Identifier
	SelectType *TypeConstructor
	Members    []*UnionMember
}

type EnumMember struct {
	NodeSpan
	Name  *Identifier
	Value int64
}

type EnumDeclaration struct {
	NodeSpan
	Name    *Identifier
	Members []*EnumMember
}

// ParamDirection tags an interface method parameter's declared direction.
// The bare spelling (no keyword) is ParamIn, matching the grammar's
// optional ('in'|'out'|'inout') prefix.
type ParamDirection int

const (
	ParamIn ParamDirection = iota
	ParamOut
	ParamInOut
)

type MethodParameter struct {
	NodeSpan
	Direction ParamDirection
	Type      *TypeConstructor
	Name      *Identifier
}

type MethodReturn struct {
	NodeSpan
	Type *TypeConstructor
}

type MethodDeclaration struct {
	NodeSpan
	Name       *Identifier
	Returns    []*MethodReturn
	Parameters []*MethodParameter
}

type EventMember struct {
	NodeSpan
	Attribute *Identifier
	Type      *TypeConstructor
	Name      *Identifier
}

type EventDeclaration struct {
	NodeSpan
	Name    *Identifier
	Members []*EventMember
}

type InterfaceDeclaration struct {
	NodeSpan
	Name      *Identifier
	Attribute *Identifier
	Methods   []*MethodDeclaration
	Events    []*EventDeclaration
}

func (*ConstDeclaration) declarationNode()     {}
func (*StructDeclaration) declarationNode()    {}
func (*UnionDeclaration) declarationNode()     {}
func (*EnumDeclaration) declarationNode()      {}
func (*InterfaceDeclaration) declarationNode() {}

// DeclarationName returns a declaration's name identifier via an exhaustive
// type switch — the one place callers need to reach into the variant.
func DeclarationName(d Declaration) *Identifier {
	switch v := d.(type) {
	case *ConstDeclaration:
		return v.Name
	case *StructDeclaration:
		return v.Name
	case *UnionDeclaration:
		return v.Name
	case *EnumDeclaration:
		return v.Name
	case *InterfaceDeclaration:
		return v.Name
	default:
		return nil
	}
}

// DeclarationCategory returns the JSON/diagnostic category name for a
// declaration's kind.
func DeclarationCategory(d Declaration) string {
	switch d.(type) {
	case *ConstDeclaration:
		return "const"
	case *StructDeclaration:
		return "struct"
	case *UnionDeclaration:
		return "union"
	case *EnumDeclaration:
		return "enum"
	case *InterfaceDeclaration:
		return "interface"
	default:
		return "unknown"
	}
}

// File is the root node: the module name, the five declaration lists in
// fixed order, the complete ordered token stream (including comments), and
// the trailing end-of-file token.
type File struct {
	NodeSpan
	ModuleName *CompoundIdentifier
	Consts     []*ConstDeclaration
	Structs    []*StructDeclaration
	Unions     []*UnionDeclaration
	Enums      []*EnumDeclaration
	Interfaces []*InterfaceDeclaration
	Tokens     []token.Token
	EOF        token.Token
}

// Declarations returns every declaration across the five lists, in the
// fixed registration order (const, struct, union, enum, interface) that
// the AST compiler's symbol table depends on.
func (f *File) Declarations() []Declaration {
	out := make([]Declaration, 0, len(f.Consts)+len(f.Structs)+len(f.Unions)+len(f.Enums)+len(f.Interfaces))
	for _, d := range f.Consts {
		out = append(out, d)
	}
	for _, d := range f.Structs {
		out = append(out, d)
	}
	for _, d := range f.Unions {
		out = append(out, d)
	}
	for _, d := range f.Enums {
		out = append(out, d)
	}
	for _, d := range f.Interfaces {
		out = append(out, d)
	}
	return out
}
