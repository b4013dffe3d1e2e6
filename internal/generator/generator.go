// Package generator walks a compiled AST and produces the compiler's one
// artifact: a JSON document describing every declaration in source order
// per category, plus the dependency-respecting declarations_order. It is
// the only consumer of internal/jsonwriter.
package generator

import (
	"fmt"

	"github.com/wugaoyin/idlc/internal/ast"
	"github.com/wugaoyin/idlc/internal/compiler"
	"github.com/wugaoyin/idlc/internal/jsonwriter"
)

const version = "0.0.1"

// Generate produces the artifact's JSON text. The only failure mode is a
// numeric constant that does not parse as a decimal signed 64-bit integer
// (out of range, or a non-decimal spelling such as "0x1F") — the original
// silently widened a 32-bit stoi result instead of reporting this.
func Generate(compiled *compiler.CompiledAST) (string, error) {
	g := &generator{w: jsonwriter.New()}
	if err := g.produce(compiled); err != nil {
		return "", err
	}
	return g.w.String(), nil
}

type generator struct {
	w   *jsonwriter.Writer
	err error
}

func (g *generator) produce(compiled *compiler.CompiledAST) error {
	file := compiled.File
	g.w.BeginObject()

	g.w.Member("version", jsonwriter.KFirst)
	g.w.WriteString(version)

	g.w.Member("module_name", jsonwriter.KSubsequent)
	g.w.WriteStringArray(file.ModuleName.Strings())

	g.w.Member("const_declarations", jsonwriter.KSubsequent)
	g.array(len(file.Consts), func(i int) { g.constDecl(file.Consts[i]) })

	g.w.Member("enum_declarations", jsonwriter.KSubsequent)
	g.array(len(file.Enums), func(i int) { g.enumDecl(file.Enums[i]) })

	g.w.Member("struct_declarations", jsonwriter.KSubsequent)
	g.array(len(file.Structs), func(i int) { g.structDecl(file.Structs[i]) })

	g.w.Member("union_declarations", jsonwriter.KSubsequent)
	g.array(len(file.Unions), func(i int) { g.unionDecl(file.Unions[i]) })

	g.w.Member("interface_declarations", jsonwriter.KSubsequent)
	g.array(len(file.Interfaces), func(i int) { g.interfaceDecl(file.Interfaces[i]) })

	g.w.Member("declarations_order", jsonwriter.KSubsequent)
	g.array(len(compiled.Order), func(i int) { g.declarationOrderEntry(compiled.Order[i]) })

	g.w.EndObject()
	return g.err
}

func (g *generator) fail(err error) {
	if g.err == nil {
		g.err = err
	}
}

// array writes a JSON array of n elements, invoking each with the writer
// already positioned (via ArrayElement) for that index.
func (g *generator) array(n int, each func(i int)) {
	g.w.BeginArray()
	for i := 0; i < n; i++ {
		pos := jsonwriter.KFirst
		if i > 0 {
			pos = jsonwriter.KSubsequent
		}
		g.w.ArrayElement(pos)
		each(i)
	}
	g.w.EndArray()
}

func (g *generator) typeConstructor(t *ast.TypeConstructor) {
	g.w.BeginObject()
	g.typeName(0, t)
	g.w.EndObject()
}

// typeName recurses one level per sequence<...> wrapper, outermost first,
// exactly mirroring SequenceSizes' outside-in ordering. index counts how
// many wrappers have already been peeled.
func (g *generator) typeName(index int, t *ast.TypeConstructor) {
	if index >= len(t.SequenceSizes)-1 {
		g.w.Member("type_name", jsonwriter.KFirst)
		g.w.WriteStringArray(t.ComponentStrings())
		if len(t.SequenceSizes) > 0 {
			g.w.Member("sequence_size", jsonwriter.KSubsequent)
			g.w.WriteInt64(t.SequenceSizes[index])
		}
		return
	}

	g.w.Member("type_name", jsonwriter.KFirst)
	g.w.BeginObject()
	g.typeName(index+1, t)
	g.w.EndObject()
	g.w.Member("sequence_size", jsonwriter.KSubsequent)
	g.w.WriteInt64(t.SequenceSizes[index])
}

func (g *generator) constant(c ast.Constant) {
	lc, ok := c.(*ast.LiteralConstant)
	if !ok {
		g.fail(fmt.Errorf("unsupported constant kind %T", c))
		return
	}
	switch lit := lc.Literal.(type) {
	case *ast.StringLiteral:
		g.w.WriteString(lit.Contents())
	case *ast.NumericLiteral:
		n, err := lit.Int64()
		if err != nil {
			g.fail(fmt.Errorf("constant %q is not a decimal signed 64-bit integer: %w", lit.Raw, err))
			return
		}
		g.w.WriteInt64(n)
	case *ast.TrueLiteral:
		g.w.WriteBool(true)
	case *ast.FalseLiteral:
		g.w.WriteBool(false)
	default:
		g.fail(fmt.Errorf("unsupported literal kind %T", lit))
	}
}

func (g *generator) constDecl(d *ast.ConstDeclaration) {
	g.w.BeginObject()
	g.w.Member("name", jsonwriter.KFirst)
	g.w.WriteString(d.Name.Name)
	g.w.Member("type", jsonwriter.KSubsequent)
	g.typeConstructor(d.Type)
	g.w.Member("value", jsonwriter.KSubsequent)
	g.constant(d.Constant)
	g.w.EndObject()
}

func (g *generator) enumDecl(d *ast.EnumDeclaration) {
	g.w.BeginObject()
	g.w.Member("name", jsonwriter.KFirst)
	g.w.WriteString(d.Name.Name)
	g.w.Member("members", jsonwriter.KSubsequent)
	g.array(len(d.Members), func(i int) { g.enumMember(d.Members[i]) })
	g.w.EndObject()
}

func (g *generator) enumMember(m *ast.EnumMember) {
	g.w.BeginObject()
	g.w.Member("name", jsonwriter.KFirst)
	g.w.WriteString(m.Name.Name)
	g.w.Member("value", jsonwriter.KSubsequent)
	g.w.WriteInt64(m.Value)
	g.w.EndObject()
}

func (g *generator) structDecl(d *ast.StructDeclaration) {
	g.w.BeginObject()
	g.w.Member("name", jsonwriter.KFirst)
	g.w.WriteString(d.Name.Name)
	g.w.Member("members", jsonwriter.KSubsequent)
	g.array(len(d.Members), func(i int) { g.structMember(d.Members[i]) })
	g.w.EndObject()
}

func (g *generator) structMember(m *ast.StructMember) {
	g.w.BeginObject()
	g.w.Member("name", jsonwriter.KFirst)
	g.w.WriteString(m.Name.Name)
	g.w.Member("type", jsonwriter.KSubsequent)
	g.typeConstructor(m.Type)
	g.w.EndObject()
}

func (g *generator) unionDecl(d *ast.UnionDeclaration) {
	g.w.BeginObject()
	g.w.Member("name", jsonwriter.KFirst)
	g.w.WriteString(d.Name.Name)
	g.w.Member("select_type", jsonwriter.KSubsequent)
	g.w.WriteStringArray(d.SelectType.ComponentStrings())
	g.w.Member("members", jsonwriter.KSubsequent)
	g.array(len(d.Members), func(i int) { g.unionMember(d.Members[i]) })
	g.w.EndObject()
}

func (g *generator) unionMember(m *ast.UnionMember) {
	g.w.BeginObject()
	g.w.Member("name", jsonwriter.KFirst)
	g.w.WriteString(m.Name.Name)
	pos := jsonwriter.KSubsequent
	if !m.IsDefault {
		g.w.Member("case_value", pos)
		g.w.WriteInt64(m.CaseValue)
	}
	g.w.Member("type", pos)
	g.typeConstructor(m.Type)
	g.w.EndObject()
}

func (g *generator) interfaceDecl(d *ast.InterfaceDeclaration) {
	g.w.BeginObject()
	g.w.Member("name", jsonwriter.KFirst)
	g.w.WriteString(d.Name.Name)
	g.w.Member("attribute", jsonwriter.KSubsequent)
	g.w.WriteString(d.Attribute.Name)
	g.w.Member("method_list", jsonwriter.KSubsequent)
	g.array(len(d.Methods), func(i int) { g.methodDecl(d.Methods[i]) })
	g.w.Member("event_list", jsonwriter.KSubsequent)
	g.array(len(d.Events), func(i int) { g.eventDecl(d.Events[i]) })
	g.w.EndObject()
}

func (g *generator) methodDecl(m *ast.MethodDeclaration) {
	g.w.BeginObject()
	g.w.Member("method_name", jsonwriter.KFirst)
	g.w.WriteString(m.Name.Name)
	g.w.Member("method_return", jsonwriter.KSubsequent)
	g.array(len(m.Returns), func(i int) { g.methodReturn(m.Returns[i]) })
	g.w.Member("method_parameter", jsonwriter.KSubsequent)
	g.array(len(m.Parameters), func(i int) { g.methodParameter(m.Parameters[i]) })
	g.w.EndObject()
}

func (g *generator) methodReturn(r *ast.MethodReturn) {
	g.w.BeginObject()
	g.w.Member("type", jsonwriter.KFirst)
	g.typeConstructor(r.Type)
	g.w.EndObject()
}

func (g *generator) methodParameter(p *ast.MethodParameter) {
	g.w.BeginObject()
	g.w.Member("name", jsonwriter.KFirst)
	g.w.WriteString(p.Name.Name)
	g.w.Member("type", jsonwriter.KSubsequent)
	g.typeConstructor(p.Type)
	g.w.EndObject()
}

func (g *generator) eventDecl(e *ast.EventDeclaration) {
	g.w.BeginObject()
	g.w.Member("event_name", jsonwriter.KFirst)
	g.w.WriteString(e.Name.Name)
	g.w.Member("members", jsonwriter.KSubsequent)
	g.array(len(e.Members), func(i int) { g.eventMember(e.Members[i]) })
	g.w.EndObject()
}

func (g *generator) eventMember(m *ast.EventMember) {
	g.w.BeginObject()
	g.w.Member("name", jsonwriter.KFirst)
	g.w.WriteString(m.Name.Name)
	g.w.Member("type", jsonwriter.KSubsequent)
	g.typeConstructor(m.Type)
	g.w.Member("attribute", jsonwriter.KSubsequent)
	g.w.WriteString(m.Attribute.Name)
	g.w.EndObject()
}

func (g *generator) declarationOrderEntry(d ast.Declaration) {
	g.w.BeginObject()
	g.w.Member("name", jsonwriter.KFirst)
	g.w.WriteString(ast.DeclarationName(d).Name)
	g.w.Member("category", jsonwriter.KSubsequent)
	g.w.WriteString(ast.DeclarationCategory(d))
	g.w.EndObject()
}
