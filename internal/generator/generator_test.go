package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wugaoyin/idlc/internal/compiler"
	"github.com/wugaoyin/idlc/internal/parser"
	"github.com/wugaoyin/idlc/internal/source"
)

func compileString(t *testing.T, src string) *compiler.CompiledAST {
	t.Helper()
	f := source.NewFile("test.idl", []byte(src))
	file, lexErrs, parseErrs := parser.Parse(f)
	require.Empty(t, lexErrs)
	require.Empty(t, parseErrs)
	compiled, diags := compiler.Compile(file)
	require.Empty(t, diags)
	return compiled
}

func TestGenerateEmptyModule(t *testing.T) {
	compiled := compileString(t, `module foo { }`)
	out, err := Generate(compiled)
	require.NoError(t, err)
	assert.Contains(t, out, `"module_name": ["foo"]`)
	assert.Contains(t, out, `"const_declarations": []`)
	assert.Contains(t, out, `"declarations_order": []`)
	assert.Contains(t, out, `"version": "0.0.1"`)
}

func TestGenerateConstDeclaration(t *testing.T) {
	compiled := compileString(t, `module m { const long X = 7; }`)
	out, err := Generate(compiled)
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "X"`)
	assert.Contains(t, out, `"type_name": ["long"]`)
	assert.Contains(t, out, `"value": 7`)
}

func TestGenerateEnumExplicitValueResume(t *testing.T) {
	compiled := compileString(t, `module m {
		enum E {
			A,
			B,
			@value(10) C,
			D
		};
	}`)
	out, err := Generate(compiled)
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "A"`)
	assert.Contains(t, out, `"value": 1`)
	assert.Contains(t, out, `"value": 10`)
	assert.Contains(t, out, `"value": 11`)
}

func TestGenerateDependencyCycleFreeOrder(t *testing.T) {
	compiled := compileString(t, `module m {
		struct A { B b; };
		struct B { long x; };
	}`)
	out, err := Generate(compiled)
	require.NoError(t, err)
	orderSection := out[indexOf(out, `"declarations_order"`):]
	bIdx := indexOf(orderSection, `"name": "B"`)
	aIdx := indexOf(orderSection, `"name": "A"`)
	require.GreaterOrEqual(t, bIdx, 0)
	assert.Less(t, bIdx, aIdx)
	assert.Contains(t, orderSection, `"category": "struct"`)
}

func TestGenerateNestedSequenceType(t *testing.T) {
	compiled := compileString(t, `module m {
		struct Matrix {
			sequence<sequence<uint8,16>,4> rows;
		};
	}`)
	out, err := Generate(compiled)
	require.NoError(t, err)
	assert.Contains(t, out, `"type_name": ["uint8"]`)
	assert.Contains(t, out, `"sequence_size": 16`)
	assert.Contains(t, out, `"sequence_size": 4`)
}

func TestGenerateUnionDefaultMemberOmitsCaseValue(t *testing.T) {
	compiled := compileString(t, `module m {
		union Payload switch (long) {
			case 1: string text;
			default: boolean flag;
		};
	}`)
	out, err := Generate(compiled)
	require.NoError(t, err)
	assert.Contains(t, out, `"case_value": 1`)
	assert.NotContains(t, out, `"case_value": 0`)
}

func TestGenerateInterfaceMethodAndEvent(t *testing.T) {
	compiled := compileString(t, `module m {
		@primary interface Svc {
			long Foo(in long a, out string b);
			eventtype Ev {
				attribute long v;
			};
		};
	}`)
	out, err := Generate(compiled)
	require.NoError(t, err)
	assert.Contains(t, out, `"method_name": "Foo"`)
	assert.Contains(t, out, `"event_name": "Ev"`)
	assert.Contains(t, out, `"attribute": "attribute"`)
}

func TestGenerateIsDeterministicAcrossRuns(t *testing.T) {
	compiled := compileString(t, `module m {
		struct A { long x; };
		struct B { long y; };
	}`)
	out1, err := Generate(compiled)
	require.NoError(t, err)
	out2, err := Generate(compiled)
	require.NoError(t, err)
	assert.Equal(t, out1, out2)
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
