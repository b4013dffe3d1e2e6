package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wugaoyin/idlc/internal/ast"
	"github.com/wugaoyin/idlc/internal/source"
)

func parseString(t *testing.T, src string) (*ast.File, []ParseError) {
	t.Helper()
	f := source.NewFile("test.idl", []byte(src))
	file, lexErrs, parseErrs := Parse(f)
	require.Empty(t, lexErrs)
	return file, parseErrs
}

func TestParserModuleHeader(t *testing.T) {
	file, errs := parseString(t, "module a.b.c { }")
	require.Empty(t, errs)
	require.NotNil(t, file.ModuleName)
	assert.Equal(t, []string{"a", "b", "c"}, file.ModuleName.Strings())
}

func TestParserConstDeclaration(t *testing.T) {
	file, errs := parseString(t, `module m { const string kName = "hello"; }`)
	require.Empty(t, errs)
	require.Len(t, file.Consts, 1)
	c := file.Consts[0]
	assert.Equal(t, "kName", c.Name.Name)
	assert.Equal(t, []string{"string"}, c.Type.ComponentStrings())
	lit := c.Constant.(*ast.LiteralConstant).Literal.(*ast.StringLiteral)
	assert.Equal(t, "hello", lit.Contents())
}

func TestParserConstNumericAndBool(t *testing.T) {
	file, errs := parseString(t, `module m {
		const long kAnswer = 42;
		const boolean kFlag = true;
	}`)
	require.Empty(t, errs)
	require.Len(t, file.Consts, 2)
	num := file.Consts[0].Constant.(*ast.LiteralConstant).Literal.(*ast.NumericLiteral)
	n, err := num.Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
	_, isTrue := file.Consts[1].Constant.(*ast.LiteralConstant).Literal.(*ast.TrueLiteral)
	assert.True(t, isTrue)
}

func TestParserStructDeclaration(t *testing.T) {
	file, errs := parseString(t, `module m {
		struct Point {
			long x;
			long y;
		};
	}`)
	require.Empty(t, errs)
	require.Len(t, file.Structs, 1)
	s := file.Structs[0]
	assert.Equal(t, "Point", s.Name.Name)
	require.Len(t, s.Members, 2)
	assert.Equal(t, "x", s.Members[0].Name.Name)
	assert.Equal(t, "y", s.Members[1].Name.Name)
}

func TestParserCompoundPrimitiveTypes(t *testing.T) {
	file, errs := parseString(t, `module m {
		struct Numbers {
			unsigned long long a;
			unsigned long b;
			unsigned short c;
			long long d;
			long e;
		};
	}`)
	require.Empty(t, errs)
	require.Len(t, file.Structs, 1)
	members := file.Structs[0].Members
	require.Len(t, members, 5)
	assert.Equal(t, []string{"unsigned", "long", "long"}, members[0].Type.ComponentStrings())
	assert.Equal(t, []string{"unsigned", "long"}, members[1].Type.ComponentStrings())
	assert.Equal(t, []string{"unsigned", "short"}, members[2].Type.ComponentStrings())
	assert.Equal(t, []string{"long", "long"}, members[3].Type.ComponentStrings())
	assert.Equal(t, []string{"long"}, members[4].Type.ComponentStrings())
}

func TestParserSequenceType(t *testing.T) {
	file, errs := parseString(t, `module m {
		struct Blob {
			sequence<uint8,16> fixed;
			sequence<uint8> unbounded;
		};
	}`)
	require.Empty(t, errs)
	members := file.Structs[0].Members
	require.Len(t, members, 2)
	assert.Equal(t, []int64{16}, members[0].Type.SequenceSizes)
	assert.Equal(t, []int64{-1}, members[1].Type.SequenceSizes)
}

func TestParserNestedSequenceTypeOutsideIn(t *testing.T) {
	file, errs := parseString(t, `module m {
		struct Matrix {
			sequence<sequence<uint8,16>,4> rows;
		};
	}`)
	require.Empty(t, errs)
	m := file.Structs[0].Members[0]
	assert.Equal(t, []string{"uint8"}, m.Type.ComponentStrings())
	assert.Equal(t, []int64{4, 16}, m.Type.SequenceSizes)
}

func TestParserUnionDeclaration(t *testing.T) {
	file, errs := parseString(t, `module m {
		union Payload switch (long) {
			case 1: string text;
			default: boolean flag;
		};
	}`)
	require.Empty(t, errs)
	require.Len(t, file.Unions, 1)
	u := file.Unions[0]
	assert.Equal(t, []string{"long"}, u.SelectType.ComponentStrings())
	require.Len(t, u.Members, 2)
	assert.Equal(t, int64(1), u.Members[0].CaseValue)
	assert.False(t, u.Members[0].IsDefault)
	assert.True(t, u.Members[1].IsDefault)
}

func TestParserEnumImplicitNumbering(t *testing.T) {
	file, errs := parseString(t, `module m {
		enum Color {
			Red,
			Green,
			Blue
		};
	}`)
	require.Empty(t, errs)
	require.Len(t, file.Enums, 1)
	members := file.Enums[0].Members
	require.Len(t, members, 3)
	assert.Equal(t, int64(1), members[0].Value)
	assert.Equal(t, int64(2), members[1].Value)
	assert.Equal(t, int64(3), members[2].Value)
}

func TestParserEnumExplicitValueResumesNumbering(t *testing.T) {
	file, errs := parseString(t, `module m {
		enum Color {
			Red,
			@value(10) Green,
			Blue
		};
	}`)
	require.Empty(t, errs)
	members := file.Enums[0].Members
	require.Len(t, members, 3)
	assert.Equal(t, int64(1), members[0].Value)
	assert.Equal(t, int64(10), members[1].Value)
	assert.Equal(t, int64(11), members[2].Value)
}

func TestParserInterfaceMethodVoidReturn(t *testing.T) {
	// The return+name peeling rule has no special knowledge of "void" — it
	// is just another type-constructor spelling that ends up in Returns,
	// exactly like any other return type.
	file, errs := parseString(t, `module m {
		@primary interface Calculator {
			void Add(in long a, in long b, out long sum);
		};
	}`)
	require.Empty(t, errs)
	require.Len(t, file.Interfaces, 1)
	iface := file.Interfaces[0]
	assert.Equal(t, "primary", iface.Attribute.Name)
	require.Len(t, iface.Methods, 1)
	m := iface.Methods[0]
	assert.Equal(t, "Add", m.Name.Name)
	require.Len(t, m.Returns, 1)
	assert.Equal(t, []string{"void"}, m.Returns[0].Type.ComponentStrings())
	require.Len(t, m.Parameters, 3)
	assert.Equal(t, ast.ParamIn, m.Parameters[0].Direction)
	assert.Equal(t, ast.ParamOut, m.Parameters[2].Direction)
}

func TestParserInterfaceMethodNoReturn(t *testing.T) {
	file, errs := parseString(t, `module m {
		@primary interface Calculator {
			Ping();
		};
	}`)
	require.Empty(t, errs)
	m := file.Interfaces[0].Methods[0]
	assert.Equal(t, "Ping", m.Name.Name)
	assert.Empty(t, m.Returns)
	assert.Empty(t, m.Parameters)
}

func TestParserInterfaceMethodWithReturn(t *testing.T) {
	file, errs := parseString(t, `module m {
		@primary interface Calculator {
			long Add(in long a, in long b);
		};
	}`)
	require.Empty(t, errs)
	m := file.Interfaces[0].Methods[0]
	require.Len(t, m.Returns, 1)
	assert.Equal(t, []string{"long"}, m.Returns[0].Type.ComponentStrings())
	require.Len(t, m.Parameters, 2)
}

func TestParserInterfaceEvent(t *testing.T) {
	file, errs := parseString(t, `module m {
		@primary interface Watcher {
			eventtype OnChange {
				source long id;
			};
		};
	}`)
	require.Empty(t, errs)
	iface := file.Interfaces[0]
	require.Len(t, iface.Events, 1)
	ev := iface.Events[0]
	assert.Equal(t, "OnChange", ev.Name.Name)
	require.Len(t, ev.Members, 1)
	assert.Equal(t, "source", ev.Members[0].Attribute.Name)
	assert.Equal(t, "id", ev.Members[0].Name.Name)
}

func TestParserInvalidIdentifierRecorded(t *testing.T) {
	// Trailing underscore fails the identifier grammar even though every
	// byte is individually a valid identifier-body character.
	_, errs := parseString(t, `module m { struct Bad_ { long x; }; }`)
	require.NotEmpty(t, errs)
	assert.Equal(t, ErrInvalidIdentifier, errs[0].Code)
}

func TestParserUnbalancedSequenceRecorded(t *testing.T) {
	_, errs := parseString(t, `module m { struct S { sequence<uint8 x; }; }`)
	require.NotEmpty(t, errs)
	found := false
	for _, e := range errs {
		if e.Code == ErrSequenceFormat {
			found = true
		}
	}
	assert.True(t, found)
}

func TestParserMissingUnsignedSuffixRecorded(t *testing.T) {
	_, errs := parseString(t, `module m { struct S { unsigned x; }; }`)
	require.NotEmpty(t, errs)
	assert.Equal(t, ErrTypeDeclareCompound, errs[0].Code)
}

func TestParserNonLiteralConstantRecorded(t *testing.T) {
	_, errs := parseString(t, `module m { const long x = y; }`)
	require.NotEmpty(t, errs)
	assert.Equal(t, ErrConstantBody, errs[0].Code)
}

func TestParserUnexpectedTokenAtFileScopeRecovers(t *testing.T) {
	file, errs := parseString(t, `module m { ; struct S { long x; }; }`)
	require.NotEmpty(t, errs)
	assert.Equal(t, ErrConsumeNotExpected, errs[0].Code)
	require.Len(t, file.Structs, 1)
}

func TestParserTokensIncludeComments(t *testing.T) {
	file, errs := parseString(t, "module m { // a comment\n const long x = 1; }")
	require.Empty(t, errs)
	require.Len(t, file.Consts, 1)
	assert.NotEmpty(t, file.Tokens)
}
