package hir

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeProgram(t *testing.T) {
	doc := `
symbols:
  - {id: 1, name: f, kind: function, at: "1:5+1"}
  - {id: 2, name: x, kind: parameter, at: "1:7+1"}
  - {id: 3, name: upcase, kind: builtin}
body:
  - def: {symbol: 1, params: [2], body: {ident: {name: x, target: 2}}}
    at: "1:1+12"
  - call: {callee: {ident: {name: f, target: 1}}, args: [{number: 1}]}
  - pipe:
      - {string: abc}
      - call: {callee: {ident: {name: upcase, target: 3}}}
        at: "2:9+8"
`
	prog, err := Decode([]byte(doc))
	require.NoError(t, err)

	expected := NewProgram(
		[]Symbol{
			{ID: 1, Name: "f", Kind: FunctionSymbol, Span: Span{Line: 1, Column: 5, Length: 1}},
			{ID: 2, Name: "x", Kind: ParameterSymbol, Span: Span{Line: 1, Column: 7, Length: 1}},
			{ID: 3, Name: "upcase", Kind: BuiltinSymbol},
		},
		&Def{
			Span:   Span{Line: 1, Column: 1, Length: 12},
			Symbol: 1,
			Params: []SymbolID{2},
			Body:   &Ident{Name: "x", Target: 2},
		},
		&Call{
			Callee: &Ident{Name: "f", Target: 1},
			Args:   []Node{&Literal{Kind: LitNumber, Value: "1"}},
		},
		&Pipe{Stages: []Node{
			&Literal{Kind: LitString, Value: "abc"},
			&Call{Span: Span{Line: 2, Column: 9, Length: 8}, Callee: &Ident{Name: "upcase", Target: 3}},
		}},
	)
	if diff := cmp.Diff(expected, prog); diff != "" {
		t.Errorf("decoded program mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeEveryNodeKind(t *testing.T) {
	doc := `
symbols:
  - {id: 1, name: x, kind: variable}
  - {id: 2, name: y, kind: pattern}
  - {id: 3, name: rest, kind: pattern}
  - {id: 4, name: e, kind: loop}
body:
  - let: {symbol: 1, value: {self: ~}}
  - nodes: ~
  - selector: .h1
  - interpolated: [{string: "a "}, {ident: {name: x, target: 1}}]
  - mapping: [{key: {string: k}, value: {bool: true}}]
  - index: {target: {array: [{number: 1}]}, index: {number: 0}}
  - fn: {params: [1], body: {none: ~}}
  - if:
      branches: [{cond: {bool: true}, body: {number: 1}}]
      else: {number: 2}
  - while: {cond: {bool: false}, body: {self: ~}}
  - until: {cond: {bool: true}, body: {self: ~}}
  - foreach: {var: 4, iter: {array: []}, body: {continue: ~}}
  - try: {body: {number: 1}, catch: {number: 2}}
  - match:
      scrutinee: {array: [{number: 1}]}
      arms:
        - {pattern: {array: {elems: [{bind: 2}], rest: 3}}, body: {symbol: ok}}
        - {pattern: {mapping: [{key: {string: a}, value: {wildcard: ~}}]}, body: {break: ~}}
        - {pattern: {literal: {number: 1}, at: "3:1+1"}, body: {ident: {name: missing}}}
  - and: [{bool: true}, {or: [{bool: false}, {bool: true}]}]
`
	prog, err := Decode([]byte(doc))
	require.NoError(t, err)
	require.Len(t, prog.Body, 14)

	kinds := make([]string, len(prog.Body))
	for i, n := range prog.Body {
		kinds[i] = n.Describe()
	}
	assert.Equal(t, []string{
		"let", "nodes", "selector", "interpolated string", "mapping", "index", "fn",
		"if", "while", "until", "foreach", "try", "match", "and",
	}, kinds)

	match := prog.Body[12].(*Match)
	require.Len(t, match.Arms, 3)
	assert.Equal(t, &ArrayPattern{Elems: []Pattern{&BindPattern{Symbol: 2}}, Rest: 3}, match.Arms[0].Pattern)
	lit := match.Arms[2].Pattern.(*LitPattern)
	assert.Equal(t, Span{Line: 3, Column: 1, Length: 1}, lit.Pos())
	assert.Equal(t, Unresolved, match.Arms[2].Body.(*Ident).Target)
}

func TestDecodeErrors(t *testing.T) {
	testCases := []struct {
		name string
		doc  string
		msg  string
	}{
		{"unknown kind", "body: [{lambda: {}}]", `unknown node kind "lambda"`},
		{"two kinds", "body: [{number: 1, string: a}]", `node has both "number" and "string"`},
		{"no kind", `body: [{at: "1:1"}]`, "node has no kind"},
		{"bad span", `body: [{number: 1, at: "one"}]`, "missing ':'"},
		{"missing field", "body: [{call: {args: []}}]", `missing "callee"`},
		{"and arity", "body: [{and: [{bool: true}]}]", "and takes exactly 2 operands"},
		{"empty if", "body: [{if: {branches: []}}]", "if needs at least one branch"},
		{"unknown symbol kind", "symbols: [{id: 1, name: a, kind: global}]", `unknown kind "global"`},
		{"zero id", "symbols: [{id: 0, name: a, kind: variable}]", "id must be positive"},
		{"duplicate ids", "symbols: [{id: 1, name: a, kind: variable}, {id: 1, name: b, kind: variable}]", "duplicate symbol ids"},
		{"unknown pattern", "body: [{match: {scrutinee: {number: 1}, arms: [{pattern: {range: 1}, body: {number: 1}}]}}]", `unknown pattern kind "range"`},
		{"invalid yaml", "body: [", "invalid yaml"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestDecodeEmpty(t *testing.T) {
	prog, err := Decode(nil)
	require.NoError(t, err)
	assert.Empty(t, prog.Body)
	assert.Empty(t, prog.Symbols)
}
