package infer

import (
	"sync"
	"testing"

	"github.com/cottand/mqcheck/frontend/builtin"
	"github.com/cottand/mqcheck/frontend/hir"
	"github.com/cottand/mqcheck/frontend/ilerr"
	"github.com/cottand/mqcheck/frontend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiterals(t *testing.T) {
	testCases := []struct {
		node     hir.Node
		expected string
	}{
		{num("1"), "number"},
		{str("a"), "string"},
		{boolean(true), "bool"},
		{&hir.Literal{Kind: hir.LitSymbol, Value: "sym"}, "symbol"},
		{&hir.Literal{Kind: hir.LitNone}, "none"},
		{&hir.Array{Elems: []hir.Node{num("1"), num("2")}}, "[number]"},
		{&hir.Array{}, "['a]"},
		{&hir.Mapping{Entries: []hir.Entry{{Key: str("a"), Value: num("1")}}}, "{string: number}"},
		{&hir.Mapping{}, "{'a: 'b}"},
		{&hir.Interpolated{Parts: []hir.Node{str("n = "), num("1")}}, "string"},
		{&hir.Nodes{}, "[node]"},
	}
	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			res := runInference(t, newProg().program(tc.node), types.None)
			assert.Empty(t, res.errs)
			assert.Equal(t, tc.expected, res.outputString())
		})
	}
}

func TestPolymorphicIdentity(t *testing.T) {
	build := func(uses ...func(b *progBuilder, f hir.SymbolID) hir.Node) (*progBuilder, hir.SymbolID, *hir.Program) {
		b := newProg()
		f := b.sym("f", hir.FunctionSymbol)
		x := b.sym("x", hir.ParameterSymbol)
		body := []hir.Node{&hir.Def{Symbol: f, Params: []hir.SymbolID{x}, Body: b.ref(x)}}
		for _, use := range uses {
			body = append(body, use(b, f))
		}
		return b, f, b.program(body...)
	}
	withNumber := func(b *progBuilder, f hir.SymbolID) hir.Node { return call(b.ref(f), num("1")) }
	withString := func(b *progBuilder, f hir.SymbolID) hir.Node { return call(b.ref(f), str("a")) }

	t.Run("each call alone checks", func(t *testing.T) {
		_, f, prog := build(withNumber)
		res := runInference(t, prog, nil)
		assert.Empty(t, res.errs)
		assert.Equal(t, "number", res.outputString())
		assert.Equal(t, "forall 'a. ('a) -> 'a", res.scheme(f))

		_, _, prog = build(withString)
		res = runInference(t, prog, nil)
		assert.Empty(t, res.errs)
		assert.Equal(t, "string", res.outputString())
	})

	t.Run("two uses at different types in sequence", func(t *testing.T) {
		_, _, prog := build(withNumber, withString)
		res := runInference(t, prog, nil)
		assert.Empty(t, res.errs)
	})

	t.Run("array homogeneity still applies", func(t *testing.T) {
		_, _, prog := build(func(b *progBuilder, f hir.SymbolID) hir.Node {
			return &hir.Array{Elems: []hir.Node{
				call(b.ref(f), num("1")),
				&hir.Call{Span: at(10), Callee: b.ref(f), Args: []hir.Node{str("a")}},
			}}
		})
		res := runInference(t, prog, nil)
		require.Len(t, res.errs, 1, res.messages())
		assert.Equal(t, ilerr.TypeMismatch, res.errs[0].Code)
		assert.Equal(t, at(10), res.errs[0].Span)
		assert.Equal(t, "type mismatch: expected number, found string", res.errs[0].Error())
	})
}

func TestOccursCheck(t *testing.T) {
	b := newProg()
	g := b.sym("g", hir.FunctionSymbol)
	x := b.sym("x", hir.ParameterSymbol)
	def := &hir.Def{Symbol: g, Params: []hir.SymbolID{x}, Body: b.op("==",
		b.ref(x),
		&hir.Array{Span: at(9), Elems: []hir.Node{b.ref(x)}},
	)}

	res := runInference(t, b.program(def), nil)
	require.Len(t, res.errs, 1, res.messages())
	assert.Equal(t, ilerr.InfiniteType, res.errs[0].Code)
	assert.Equal(t, at(9), res.errs[0].Span)
	assert.Equal(t, "infinite type: 'a occurs in ['a]", res.errs[0].Error())
	assert.Equal(t, "forall 'a. ('a) -> bool", res.scheme(g))
}

func TestArity(t *testing.T) {
	setup := func() (*progBuilder, hir.Node) {
		b := newProg()
		f := b.sym("f", hir.FunctionSymbol)
		x := b.sym("x", hir.ParameterSymbol)
		y := b.sym("y", hir.ParameterSymbol)
		return b, &hir.Def{Symbol: f, Params: []hir.SymbolID{x, y}, Body: b.ref(x)}
	}

	t.Run("exactly one error at the call", func(t *testing.T) {
		b, def := setup()
		bad := &hir.Call{Span: at(5), Callee: b.ref(1), Args: []hir.Node{num("1"), num("2"), num("3")}}
		res := runInference(t, b.program(def, bad), nil)
		require.Len(t, res.errs, 1, res.messages())
		assert.Equal(t, ilerr.ArityMismatch, res.errs[0].Code)
		assert.Equal(t, at(5), res.errs[0].Span)
		assert.Equal(t, "wrong number of arguments: expected 2, found 3", res.errs[0].Error())
	})

	t.Run("siblings are still checked", func(t *testing.T) {
		b, def := setup()
		bad := &hir.Call{Span: at(5), Callee: b.ref(1), Args: []hir.Node{num("1"), num("2"), num("3")}}
		sibling := b.op("+", num("1"), &hir.Literal{Span: at(20), Kind: hir.LitString, Value: "a"})
		res := runInference(t, b.program(def, &hir.Array{Elems: []hir.Node{bad, sibling}}), nil)
		require.Len(t, res.errs, 2, res.messages())
		assert.Equal(t, ilerr.ArityMismatch, res.errs[0].Code)
		assert.Equal(t, ilerr.TypeMismatch, res.errs[1].Code)
		assert.Equal(t, at(20), res.errs[1].Span)
	})

	t.Run("builtins", func(t *testing.T) {
		b := newProg()
		bad := &hir.Call{Span: at(2), Callee: b.builtin("split"), Args: []hir.Node{str("a"), str("b"), str("c")}}
		res := runInference(t, b.program(bad), types.String)
		require.Len(t, res.errs, 1, res.messages())
		assert.Equal(t, "wrong number of arguments: expected 2, found 3", res.errs[0].Error())
	})
}

func TestMultipleIndependentErrors(t *testing.T) {
	b := newProg()
	first := b.op("+", num("1"), &hir.Literal{Span: at(5), Kind: hir.LitString, Value: "x"})
	second := call(b.builtin("upcase"), &hir.Literal{Span: at(15), Kind: hir.LitNumber, Value: "2"})

	res := runInference(t, b.program(first, second), nil)
	require.Len(t, res.errs, 2, res.messages())
	assert.Equal(t, at(5), res.errs[0].Span)
	assert.Equal(t, at(15), res.errs[1].Span)
	assert.Equal(t, "type mismatch: expected string, found number", res.errs[1].Error())
	assert.Equal(t, "string", res.outputString())
}

func TestImplicitCurrentValue(t *testing.T) {
	t.Run("builtin", func(t *testing.T) {
		b := newProg()
		res := runInference(t, b.program(str("abc"), call(b.builtin("upcase"))), nil)
		assert.Empty(t, res.errs)
		assert.Equal(t, "string", res.outputString())
	})

	t.Run("builtin with the wrong current value", func(t *testing.T) {
		b := newProg()
		res := runInference(t, b.program(num("1"), &hir.Call{Span: at(7), Callee: b.builtin("upcase")}), nil)
		require.Len(t, res.errs, 1, res.messages())
		assert.Equal(t, at(7), res.errs[0].Span)
		assert.Equal(t, "type mismatch: expected string, found number", res.errs[0].Error())
	})

	t.Run("user function", func(t *testing.T) {
		b := newProg()
		f := b.sym("f", hir.FunctionSymbol)
		x := b.sym("x", hir.ParameterSymbol)
		y := b.sym("y", hir.ParameterSymbol)
		def := &hir.Def{Symbol: f, Params: []hir.SymbolID{x, y}, Body: &hir.Array{Elems: []hir.Node{b.ref(x), b.ref(y)}}}
		res := runInference(t, b.program(def, str("a"), call(b.ref(f), str("b"))), nil)
		assert.Empty(t, res.errs, res.messages())
		assert.Equal(t, "[string]", res.outputString())
	})

	t.Run("selectors read document nodes", func(t *testing.T) {
		b := newProg()
		res := runInference(t, b.program(&hir.Selector{Path: ".h1"}, call(b.builtin("to_text"))), types.Node)
		assert.Empty(t, res.errs)
		assert.Equal(t, "string", res.outputString())
	})

	t.Run("selectors on something else", func(t *testing.T) {
		b := newProg()
		res := runInference(t, b.program(&hir.Selector{Span: at(1), Path: ".h1"}), types.Number)
		require.Len(t, res.errs, 1)
		assert.Equal(t, "type mismatch: expected node, found number", res.errs[0].Error())
	})
}

func TestOverloads(t *testing.T) {
	b := newProg()
	res := runInference(t, b.program(b.op("+", str("a"), str("b"))), nil)
	assert.Empty(t, res.errs)
	assert.Equal(t, "string", res.outputString())

	b = newProg()
	res = runInference(t, b.program(call(b.builtin("range"), num("0"), num("10"), num("2"))), nil)
	assert.Empty(t, res.errs)
	assert.Equal(t, "[number]", res.outputString())

	b = newProg()
	res = runInference(t, b.program(&hir.Array{Elems: []hir.Node{str("x")}}, call(b.builtin("len"))), nil)
	assert.Empty(t, res.errs)
	assert.Equal(t, "number", res.outputString())
}

func TestUnbound(t *testing.T) {
	t.Run("unresolved upstream", func(t *testing.T) {
		res := runInference(t, newProg().program(&hir.Array{Elems: []hir.Node{
			&hir.Ident{Span: at(2), Name: "foo"},
			num("1"),
		}}), nil)
		require.Len(t, res.errs, 1)
		assert.Equal(t, ilerr.UnboundSymbol, res.errs[0].Code)
		assert.Equal(t, "undefined symbol 'foo'", res.errs[0].Error())
		assert.Equal(t, "[number]", res.outputString())
	})

	t.Run("not bound yet", func(t *testing.T) {
		b := newProg()
		x := b.sym("x", hir.VariableSymbol)
		res := runInference(t, b.program(b.ref(x), &hir.Let{Symbol: x, Value: num("1")}), nil)
		require.Len(t, res.errs, 1)
		assert.Equal(t, "undefined symbol 'x'", res.errs[0].Error())
	})
}

func TestConditionals(t *testing.T) {
	t.Run("with else", func(t *testing.T) {
		res := runInference(t, newProg().program(&hir.If{
			Branches: []hir.Branch{{Cond: boolean(true), Body: num("1")}},
			Else:     num("2"),
		}), nil)
		assert.Empty(t, res.errs)
		assert.Equal(t, "number", res.outputString())
	})

	t.Run("elif branches must agree", func(t *testing.T) {
		res := runInference(t, newProg().program(&hir.If{
			Branches: []hir.Branch{
				{Cond: boolean(true), Body: num("1")},
				{Cond: boolean(false), Body: &hir.Literal{Span: at(12), Kind: hir.LitString, Value: "b"}},
			},
			Else: num("2"),
		}), nil)
		require.Len(t, res.errs, 1)
		assert.Equal(t, at(12), res.errs[0].Span)
		assert.Equal(t, "type mismatch: expected number, found string", res.errs[0].Error())
	})

	t.Run("without else", func(t *testing.T) {
		res := runInference(t, newProg().program(&hir.If{
			Span:     at(1),
			Branches: []hir.Branch{{Cond: boolean(true), Body: num("1")}},
		}), nil)
		require.Len(t, res.errs, 1)
		assert.Equal(t, at(1), res.errs[0].Span)
		assert.Equal(t, "type mismatch: expected number, found none", res.errs[0].Error())
	})

	t.Run("condition must be bool", func(t *testing.T) {
		res := runInference(t, newProg().program(&hir.If{
			Branches: []hir.Branch{{Cond: &hir.Literal{Span: at(4), Kind: hir.LitNumber, Value: "1"}, Body: str("a")}},
			Else:     str("b"),
		}), nil)
		require.Len(t, res.errs, 1)
		assert.Equal(t, "type mismatch: expected bool, found number", res.errs[0].Error())
		assert.Equal(t, "string", res.outputString())
	})

	t.Run("and or", func(t *testing.T) {
		res := runInference(t, newProg().program(&hir.And{
			Left:  boolean(true),
			Right: &hir.Or{Left: boolean(false), Right: &hir.Literal{Span: at(9), Kind: hir.LitNumber, Value: "0"}},
		}), nil)
		require.Len(t, res.errs, 1)
		assert.Equal(t, at(9), res.errs[0].Span)
		assert.Equal(t, "bool", res.outputString())
	})
}

func TestLoops(t *testing.T) {
	t.Run("foreach", func(t *testing.T) {
		b := newProg()
		x := b.sym("x", hir.LoopSymbol)
		res := runInference(t, b.program(&hir.Foreach{
			Var:  x,
			Iter: &hir.Array{Elems: []hir.Node{num("1"), num("2")}},
			Body: b.op("+", b.ref(x), num("1")),
		}), nil)
		assert.Empty(t, res.errs)
		assert.Equal(t, "[number]", res.outputString())
		assert.Equal(t, "number", res.scheme(x))
	})

	t.Run("foreach over a string", func(t *testing.T) {
		b := newProg()
		x := b.sym("x", hir.LoopSymbol)
		res := runInference(t, b.program(&hir.Foreach{
			Var:  x,
			Iter: &hir.Literal{Span: at(13), Kind: hir.LitString, Value: "abc"},
			Body: b.ref(x),
		}), nil)
		require.Len(t, res.errs, 1)
		assert.Equal(t, "type mismatch: expected ['a], found string", res.errs[0].Error())
	})

	t.Run("while", func(t *testing.T) {
		b := newProg()
		res := runInference(t, b.program(&hir.While{
			Cond: b.op("<", &hir.Self{}, num("10")),
			Body: b.op("+", &hir.Self{}, num("1")),
		}), nil)
		assert.Empty(t, res.errs, res.messages())
		assert.Equal(t, "number", res.outputString())
	})

	t.Run("until body must keep the type", func(t *testing.T) {
		b := newProg()
		res := runInference(t, b.program(&hir.Until{
			Cond: boolean(true),
			Body: &hir.Literal{Span: at(15), Kind: hir.LitString, Value: "s"},
		}), types.Number)
		require.Len(t, res.errs, 1)
		assert.Equal(t, at(15), res.errs[0].Span)
	})

	t.Run("break outside of a loop", func(t *testing.T) {
		res := runInference(t, newProg().program(&hir.Break{Span: at(1)}), nil)
		require.Len(t, res.errs, 1)
		assert.Equal(t, ilerr.Other, res.errs[0].Code)
		assert.Equal(t, "break outside of a loop", res.errs[0].Error())
	})

	t.Run("continue inside a loop", func(t *testing.T) {
		b := newProg()
		x := b.sym("x", hir.LoopSymbol)
		res := runInference(t, b.program(&hir.Foreach{
			Var:  x,
			Iter: &hir.Array{Elems: []hir.Node{num("1")}},
			Body: &hir.Continue{},
		}), nil)
		assert.Empty(t, res.errs)
	})
}

func TestTry(t *testing.T) {
	res := runInference(t, newProg().program(&hir.Try{
		Body:  num("1"),
		Catch: &hir.Literal{Span: at(14), Kind: hir.LitString, Value: "failed"},
	}), nil)
	require.Len(t, res.errs, 1)
	assert.Equal(t, at(14), res.errs[0].Span)
	assert.Equal(t, "number", res.outputString())
}

func TestMatch(t *testing.T) {
	t.Run("literal and binding arms", func(t *testing.T) {
		b := newProg()
		y := b.sym("y", hir.PatternSymbol)
		res := runInference(t, b.program(&hir.Match{
			Scrutinee: num("1"),
			Arms: []hir.Arm{
				{Pattern: &hir.LitPattern{Lit: hir.Literal{Kind: hir.LitNumber, Value: "1"}}, Body: str("one")},
				{Pattern: &hir.BindPattern{Symbol: y}, Body: call(b.builtin("to_string"), b.ref(y))},
				{Pattern: &hir.WildcardPattern{}, Body: str("other")},
			},
		}), nil)
		assert.Empty(t, res.errs, res.messages())
		assert.Equal(t, "string", res.outputString())
		assert.Equal(t, "number", res.scheme(y))
	})

	t.Run("pattern of the wrong type", func(t *testing.T) {
		res := runInference(t, newProg().program(&hir.Match{
			Scrutinee: num("1"),
			Arms: []hir.Arm{
				{Pattern: &hir.LitPattern{Span: at(20), Lit: hir.Literal{Kind: hir.LitString, Value: "a"}}, Body: num("1")},
			},
		}), nil)
		require.Len(t, res.errs, 1)
		assert.Equal(t, at(20), res.errs[0].Span)
		assert.Equal(t, "type mismatch: expected number, found string", res.errs[0].Error())
	})

	t.Run("arms must agree", func(t *testing.T) {
		res := runInference(t, newProg().program(&hir.Match{
			Scrutinee: num("1"),
			Arms: []hir.Arm{
				{Pattern: &hir.WildcardPattern{}, Body: num("1")},
				{Pattern: &hir.WildcardPattern{}, Body: &hir.Literal{Span: at(30), Kind: hir.LitBool, Value: "true"}},
			},
		}), nil)
		require.Len(t, res.errs, 1)
		assert.Equal(t, at(30), res.errs[0].Span)
	})

	t.Run("array pattern with rest", func(t *testing.T) {
		b := newProg()
		head := b.sym("head", hir.PatternSymbol)
		rest := b.sym("rest", hir.PatternSymbol)
		res := runInference(t, b.program(&hir.Match{
			Scrutinee: &hir.Array{Elems: []hir.Node{num("1"), num("2")}},
			Arms: []hir.Arm{
				{Pattern: &hir.ArrayPattern{Elems: []hir.Pattern{&hir.BindPattern{Symbol: head}}, Rest: rest}, Body: b.ref(rest)},
			},
		}), nil)
		assert.Empty(t, res.errs)
		assert.Equal(t, "[number]", res.outputString())
		assert.Equal(t, "number", res.scheme(head))
		assert.Equal(t, "[number]", res.scheme(rest))
	})

	t.Run("mapping pattern", func(t *testing.T) {
		b := newProg()
		v := b.sym("v", hir.PatternSymbol)
		res := runInference(t, b.program(&hir.Match{
			Scrutinee: &hir.Mapping{Entries: []hir.Entry{{Key: str("a"), Value: boolean(true)}}},
			Arms: []hir.Arm{{
				Pattern: &hir.MappingPattern{Entries: []hir.PatternEntry{{
					Key:   hir.Literal{Kind: hir.LitString, Value: "a"},
					Value: &hir.BindPattern{Symbol: v},
				}}},
				Body: b.ref(v),
			}},
		}), nil)
		assert.Empty(t, res.errs)
		assert.Equal(t, "bool", res.outputString())
	})
}

func TestIndex(t *testing.T) {
	mapping := &hir.Mapping{Entries: []hir.Entry{{Key: str("a"), Value: num("1")}}}
	res := runInference(t, newProg().program(&hir.Index{Target: mapping, Index: str("a")}), nil)
	assert.Empty(t, res.errs)
	assert.Equal(t, "number", res.outputString())

	array := &hir.Array{Elems: []hir.Node{boolean(true)}}
	res = runInference(t, newProg().program(&hir.Index{
		Target: array,
		Index:  &hir.Literal{Span: at(4), Kind: hir.LitString, Value: "x"},
	}), nil)
	require.Len(t, res.errs, 1)
	assert.Equal(t, "type mismatch: expected number, found string", res.errs[0].Error())
	assert.Equal(t, "bool", res.outputString())
}

func TestLetDoesNotGeneralizeTheCurrentValue(t *testing.T) {
	b := newProg()
	x := b.sym("x", hir.VariableSymbol)
	res := runInference(t, b.program(
		&hir.Let{Symbol: x, Value: &hir.Self{}},
		b.op("+", b.ref(x), num("1")),
		call(b.builtin("upcase"), &hir.Ident{Span: at(30), Name: "x", Target: x}),
	), nil)
	require.Len(t, res.errs, 1, res.messages())
	assert.Equal(t, at(30), res.errs[0].Span)
	assert.Equal(t, "type mismatch: expected string, found number", res.errs[0].Error())
	assert.Equal(t, "number", res.scheme(x))
}

func TestLetPolymorphism(t *testing.T) {
	b := newProg()
	id := b.sym("id", hir.VariableSymbol)
	y := b.sym("y", hir.ParameterSymbol)
	res := runInference(t, b.program(
		&hir.Let{Symbol: id, Value: &hir.Fn{Params: []hir.SymbolID{y}, Body: b.ref(y)}},
		call(b.ref(id), num("1")),
		call(b.ref(id), str("a")),
	), nil)
	assert.Empty(t, res.errs)
	assert.Equal(t, "string", res.outputString())
	assert.Equal(t, "forall 'a. ('a) -> 'a", res.scheme(id))
}

func TestRecursiveDef(t *testing.T) {
	t.Run("explicit arguments", func(t *testing.T) {
		b := newProg()
		f := b.sym("f", hir.FunctionSymbol)
		x := b.sym("x", hir.ParameterSymbol)
		def := &hir.Def{Symbol: f, Params: []hir.SymbolID{x}, Body: &hir.If{
			Branches: []hir.Branch{{Cond: b.op("==", b.ref(x), num("0")), Body: num("0")}},
			Else:     call(b.ref(f), b.op("-", b.ref(x), num("1"))),
		}}
		res := runInference(t, b.program(def), nil)
		assert.Empty(t, res.errs, res.messages())
		assert.Equal(t, "(number) -> number", res.scheme(f))
		assert.Equal(t, "number", res.scheme(x))
	})

	t.Run("current value as the argument", func(t *testing.T) {
		b := newProg()
		f := b.sym("f", hir.FunctionSymbol)
		x := b.sym("x", hir.ParameterSymbol)
		def := &hir.Def{Symbol: f, Params: []hir.SymbolID{x}, Body: &hir.If{
			Branches: []hir.Branch{{Cond: boolean(false), Body: call(b.ref(f))}},
			Else:     b.ref(x),
		}}
		res := runInference(t, b.program(def, str("a"), call(b.ref(f))), nil)
		assert.Empty(t, res.errs, res.messages())
		assert.Equal(t, "forall 'a. 'a | ('a) -> 'a", res.scheme(f))
		assert.Equal(t, "string", res.outputString())
	})

	t.Run("returning itself", func(t *testing.T) {
		b := newProg()
		f := b.sym("f", hir.FunctionSymbol)
		res := runInference(t, b.program(&hir.Def{Span: at(1), Symbol: f, Body: b.ref(f)}), nil)
		require.Len(t, res.errs, 1, res.messages())
		assert.Equal(t, ilerr.InfiniteType, res.errs[0].Code)
		assert.Equal(t, at(1), res.errs[0].Span)
	})
}

func TestFunctionsReadTheCallersCurrentValue(t *testing.T) {
	t.Run("def returning the current value", func(t *testing.T) {
		b := newProg()
		f := b.sym("f", hir.FunctionSymbol)
		res := runInference(t, b.program(
			&hir.Def{Symbol: f, Body: &hir.Self{}},
			num("1"),
			call(b.ref(f)),
			&hir.Call{Span: at(12), Callee: b.builtin("upcase")},
		), nil)
		assert.Equal(t, "forall 'a. 'a | () -> 'a", res.scheme(f))
		require.Len(t, res.errs, 1, res.messages())
		assert.Equal(t, at(12), res.errs[0].Span)
		assert.Equal(t, "type mismatch: expected string, found number", res.errs[0].Error())
	})

	t.Run("lambda returning the current value", func(t *testing.T) {
		b := newProg()
		g := b.sym("g", hir.VariableSymbol)
		res := runInference(t, b.program(
			&hir.Let{Symbol: g, Value: &hir.Fn{Body: &hir.Self{}}},
			num("1"),
			call(b.ref(g)),
			&hir.Call{Span: at(12), Callee: b.builtin("upcase")},
		), nil)
		assert.Equal(t, "forall 'a. 'a | () -> 'a", res.scheme(g))
		require.Len(t, res.errs, 1, res.messages())
		assert.Equal(t, at(12), res.errs[0].Span)
	})

	t.Run("def constraining the current value", func(t *testing.T) {
		b := newProg()
		f := b.sym("f", hir.FunctionSymbol)
		res := runInference(t, b.program(
			&hir.Def{Symbol: f, Body: call(b.builtin("upcase"))},
			num("1"),
			&hir.Call{Span: at(9), Callee: b.ref(f)},
		), nil)
		assert.Equal(t, "string | () -> string", res.scheme(f))
		require.Len(t, res.errs, 1, res.messages())
		assert.Equal(t, at(9), res.errs[0].Span)
		assert.Equal(t, "type mismatch: expected string, found number", res.errs[0].Error())
		assert.Equal(t, "string", res.outputString())
	})

	t.Run("each call gets its own current value", func(t *testing.T) {
		b := newProg()
		f := b.sym("f", hir.FunctionSymbol)
		res := runInference(t, b.program(
			&hir.Def{Symbol: f, Body: &hir.Array{Elems: []hir.Node{&hir.Self{}}}},
			&hir.Array{Elems: []hir.Node{
				&hir.Pipe{Stages: []hir.Node{num("1"), call(b.ref(f))}},
				&hir.Pipe{Stages: []hir.Node{num("2"), call(b.ref(f))}},
			}},
			&hir.Pipe{Stages: []hir.Node{str("a"), call(b.ref(f))}},
		), nil)
		assert.Empty(t, res.errs, res.messages())
		assert.Equal(t, "forall 'a. 'a | () -> ['a]", res.scheme(f))
		assert.Equal(t, "[string]", res.outputString())
	})

	t.Run("unused current value stays out of the signature", func(t *testing.T) {
		b := newProg()
		f := b.sym("f", hir.FunctionSymbol)
		res := runInference(t, b.program(
			&hir.Def{Symbol: f, Body: call(b.builtin("len"), &hir.Array{Elems: []hir.Node{&hir.Self{}}})},
			num("1"),
			call(b.ref(f)),
		), nil)
		assert.Empty(t, res.errs, res.messages())
		assert.Equal(t, "() -> number", res.scheme(f))
	})
}

func TestBuiltinAsValue(t *testing.T) {
	b := newProg()
	f := b.sym("f", hir.VariableSymbol)
	res := runInference(t, b.program(
		&hir.Let{Symbol: f, Value: b.builtin("upcase")},
		call(b.ref(f), str("a")),
	), nil)
	assert.Empty(t, res.errs)
	assert.Equal(t, "string", res.outputString())
	assert.Equal(t, "(string) -> string", res.scheme(f))
}

func TestCallingANonFunction(t *testing.T) {
	b := newProg()
	n := b.sym("n", hir.VariableSymbol)
	res := runInference(t, b.program(
		&hir.Let{Symbol: n, Value: num("1")},
		&hir.Call{Span: at(9), Callee: b.ref(n), Args: []hir.Node{num("2")}},
	), nil)
	require.Len(t, res.errs, 1, res.messages())
	assert.Equal(t, at(9), res.errs[0].Span)
	assert.Equal(t, "type mismatch: expected ('a) -> 'b, found number", res.errs[0].Error())
}

func TestBindingsPassTheirInputThrough(t *testing.T) {
	b := newProg()
	x := b.sym("x", hir.VariableSymbol)
	res := runInference(t, b.program(
		str("in"),
		&hir.Pipe{Stages: []hir.Node{&hir.Let{Symbol: x, Value: num("1")}, call(b.builtin("upcase"))}},
	), nil)
	assert.Empty(t, res.errs, res.messages())
	assert.Equal(t, "string", res.outputString())
}

func TestDeterminism(t *testing.T) {
	build := func() *hir.Program {
		b := newProg()
		f := b.sym("f", hir.FunctionSymbol)
		x := b.sym("x", hir.ParameterSymbol)
		y := b.sym("y", hir.ParameterSymbol)
		return b.program(
			&hir.Def{Symbol: f, Params: []hir.SymbolID{x, y}, Body: &hir.Array{Elems: []hir.Node{b.ref(x), b.ref(y)}}},
			&hir.Call{Span: at(3), Callee: b.ref(f), Args: []hir.Node{num("1"), str("2")}},
			&hir.Call{Span: at(9), Callee: b.builtin("upcase"), Args: []hir.Node{num("1")}},
			&hir.Ident{Span: at(20), Name: "missing"},
		)
	}
	first := runInference(t, build(), nil)
	require.Len(t, first.errs, 3)

	var wg sync.WaitGroup
	results := make([]checked, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ti := NewInferenceContext(build(), builtin.Default())
			out := ti.Program(ti.Fresh())
			ti.Errors().Resolve(ti.Subst())
			results[i] = checked{ti: ti, output: out, errs: ti.Errors().Errors()}
		}()
	}
	wg.Wait()
	for _, res := range results {
		assert.Equal(t, first.messages(), res.messages())
		assert.Equal(t, first.scheme(1), res.scheme(1))
	}
}
