// Package compiler turns a raw ast.File into a CompiledAST: a symbol table
// over the five declaration kinds plus a dependency-respecting declaration
// order, ready for the JSON generator to walk. It never evaluates constant
// expressions or resolves cross-file references — those are explicit
// non-goals of this front end.
package compiler

import (
	"fmt"
	"sort"

	"github.com/wugaoyin/idlc/internal/ast"
	"github.com/wugaoyin/idlc/internal/diagnostics"
	"github.com/wugaoyin/idlc/internal/source"
)

const (
	ErrDuplicateDeclaration = "E_COMPILE_DUPLICATE_DECLARATION"
	ErrUndefinedReference   = "E_COMPILE_UNDEFINED_REFERENCE"
	ErrDependencyCycle      = "E_COMPILE_DEPENDENCY_CYCLE"
)

// builtinTypes are the type-core spellings that never need a declaration:
// the IDL's primitive vocabulary, "sequence" (the wrapper keyword, in case a
// type constructor ever surfaces it as a bare component), and "void" (used
// as an interface method's return spelling when it has none).
var builtinTypes = map[string]struct{}{
	"boolean": {}, "int8": {}, "uint8": {}, "short": {}, "long": {},
	"unsigned": {}, "float": {}, "double": {}, "string": {},
	"sequence": {}, "void": {},
}

// CompiledAST pairs the original tree with its topologically-sorted
// declaration order.
type CompiledAST struct {
	File  *ast.File
	Order []ast.Declaration
}

// Compile builds the symbol table, checks every type reference, and
// topologically sorts the declarations. It returns diagnostics instead of a
// CompiledAST on any failure — unlike the original, which computed the sort
// unconditionally even when registration or dependency resolution failed.
func Compile(file *ast.File) (*CompiledAST, []diagnostics.Diagnostic) {
	c := &compiler{file: file, declarations: map[string]ast.Declaration{}, sourceIndex: map[ast.Declaration]int{}}
	c.run()
	if len(c.diags) > 0 {
		return nil, diagnostics.SortAndDedupe(c.diags)
	}
	return &CompiledAST{File: file, Order: c.order}, nil
}

type compiler struct {
	file         *ast.File
	declarations map[string]ast.Declaration
	order        []ast.Declaration
	diags        []diagnostics.Diagnostic
	sourceIndex  map[ast.Declaration]int
}

func (c *compiler) run() {
	c.registerAllDeclarations()
	if len(c.diags) > 0 {
		return
	}
	c.topolSortDeclarations()
}

// registerAllDeclarations walks the five declaration lists in fixed order
// (const, struct, union, enum, interface) and builds the name -> decl
// symbol table. A duplicate name is reported at the later declaration, with
// the first one as its related location, and the later one is dropped from
// the table; registration continues rather than aborting.
func (c *compiler) registerAllDeclarations() {
	for i, decl := range c.file.Declarations() {
		c.sourceIndex[decl] = i
		name := ast.DeclarationName(decl)
		if name == nil {
			continue
		}
		if existing, ok := c.declarations[name.Name]; ok {
			c.addRelatedDiag(ErrDuplicateDeclaration,
				fmt.Sprintf("duplicate declaration of %q", name.Name),
				name.Span(), ast.DeclarationName(existing).Span())
			continue
		}
		c.declarations[name.Name] = decl
	}
}

// declDependencies returns the set of declarations decl's type references
// point to, recording an undefined-reference diagnostic for any component
// that is neither a builtin nor a known declaration.
func (c *compiler) declDependencies(decl ast.Declaration) map[ast.Declaration]struct{} {
	edges := map[ast.Declaration]struct{}{}

	resolve := func(id *ast.Identifier) {
		if _, builtin := builtinTypes[id.Name]; builtin {
			return
		}
		dep, known := c.declarations[id.Name]
		if !known {
			c.addDiag(ErrUndefinedReference, fmt.Sprintf("undefined type %q", id.Name), id.Span())
			return
		}
		edges[dep] = struct{}{}
	}

	resolveType := func(t *ast.TypeConstructor) {
		for _, comp := range t.Components {
			resolve(comp)
		}
	}

	switch d := decl.(type) {
	case *ast.ConstDeclaration:
		resolveType(d.Type)
	case *ast.StructDeclaration:
		for _, m := range d.Members {
			resolveType(m.Type)
		}
	case *ast.UnionDeclaration:
		resolveType(d.SelectType)
		for _, m := range d.Members {
			resolveType(m.Type)
		}
	case *ast.InterfaceDeclaration:
		for _, method := range d.Methods {
			for _, ret := range method.Returns {
				resolveType(ret.Type)
			}
			for _, param := range method.Parameters {
				resolveType(param.Type)
			}
		}
		for _, event := range d.Events {
			for _, m := range event.Members {
				resolveType(m.Type)
			}
		}
	case *ast.EnumDeclaration:
		// enum members are bare name/value pairs; nothing to resolve.
	}

	return edges
}

// topolSortDeclarations runs Kahn's algorithm over the dependency graph
// built from declDependencies. The graph is built in name-sorted order (not
// map iteration order), and the initial ready set and each batch freed by a
// processed declaration are ordered by sortDeclsBySourceOrder, so the output
// is stable across runs with the same input.
func (c *compiler) topolSortDeclarations() {
	degrees := map[ast.Declaration]int{}
	inverse := map[ast.Declaration][]ast.Declaration{}

	names := sortedKeys(c.declarations)
	for _, name := range names {
		decl := c.declarations[name]
		deps := c.declDependencies(decl)
		degrees[decl] = len(deps)
		for dep := range deps {
			inverse[dep] = append(inverse[dep], decl)
		}
	}
	if len(c.diags) > 0 {
		return
	}

	var ready []ast.Declaration
	for _, name := range names {
		decl := c.declarations[name]
		if degrees[decl] == 0 {
			ready = append(ready, decl)
		}
	}
	c.sortDeclsBySourceOrder(ready)

	var order []ast.Declaration
	for len(ready) > 0 {
		decl := ready[0]
		ready = ready[1:]
		order = append(order, decl)

		var freed []ast.Declaration
		for _, dependent := range inverse[decl] {
			degrees[dependent]--
			if degrees[dependent] == 0 {
				freed = append(freed, dependent)
			}
		}
		c.sortDeclsBySourceOrder(freed)
		ready = append(ready, freed...)
	}

	if len(order) != len(degrees) {
		c.reportCycle(degrees, order)
		return
	}
	c.order = order
}

// reportCycle names every declaration that never reached in-degree zero —
// the original implementation only logs a generic "there was a cycle"
// message, but the error table calls for identifying the cycle's members.
func (c *compiler) reportCycle(degrees map[ast.Declaration]int, order []ast.Declaration) {
	settled := map[ast.Declaration]struct{}{}
	for _, d := range order {
		settled[d] = struct{}{}
	}
	var stuck []string
	for decl := range degrees {
		if _, ok := settled[decl]; ok {
			continue
		}
		if name := ast.DeclarationName(decl); name != nil {
			stuck = append(stuck, name.Name)
		}
	}
	sort.Strings(stuck)
	for _, name := range stuck {
		decl := c.declarations[name]
		c.addDiag(ErrDependencyCycle,
			fmt.Sprintf("declaration %q participates in a dependency cycle", name),
			ast.DeclarationName(decl).Span())
	}
}

func sortedKeys(m map[string]ast.Declaration) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// sortDeclsBySourceOrder breaks topological-sort ties by each declaration's
// position in the file's fixed category order (const, struct, union, enum,
// interface) and, within a category, its source order — not by name, so
// independent same-category declarations keep the order they were written
// in.
func (c *compiler) sortDeclsBySourceOrder(decls []ast.Declaration) {
	sort.Slice(decls, func(i, j int) bool {
		return c.sourceIndex[decls[i]] < c.sourceIndex[decls[j]]
	})
}

func (c *compiler) addDiag(code, msg string, span source.Span) {
	c.diags = append(c.diags, diagnostics.FromSpan(code, span, "%s", msg))
}

func (c *compiler) addRelatedDiag(code, msg string, span, related source.Span) {
	d := diagnostics.FromSpan(code, span, "%s", msg)
	relatedPos := related.Position()
	d.Related = &diagnostics.Related{
		File:    related.File.Name(),
		Line:    relatedPos.Line,
		Column:  relatedPos.Column,
		Message: "first declaration",
	}
	c.diags = append(c.diags, d)
}
