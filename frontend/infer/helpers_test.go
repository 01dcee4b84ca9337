package infer

import (
	"strings"
	"testing"

	"github.com/cottand/mqcheck/frontend/builtin"
	"github.com/cottand/mqcheck/frontend/hir"
	"github.com/cottand/mqcheck/frontend/ilerr"
	"github.com/cottand/mqcheck/frontend/types"
)

// progBuilder allocates symbols for hand-built programs
type progBuilder struct {
	symbols  []hir.Symbol
	builtins map[string]hir.SymbolID
}

func newProg() *progBuilder {
	return &progBuilder{builtins: map[string]hir.SymbolID{}}
}

func (b *progBuilder) sym(name string, kind hir.SymbolKind) hir.SymbolID {
	id := hir.SymbolID(len(b.symbols) + 1)
	b.symbols = append(b.symbols, hir.Symbol{ID: id, Name: name, Kind: kind})
	return id
}

// builtin returns a use of the builtin name
func (b *progBuilder) builtin(name string) *hir.Ident {
	id, ok := b.builtins[name]
	if !ok {
		id = b.sym(name, hir.BuiltinSymbol)
		b.builtins[name] = id
	}
	return &hir.Ident{Name: name, Target: id}
}

func (b *progBuilder) ref(id hir.SymbolID) *hir.Ident {
	return &hir.Ident{Name: b.symbols[id-1].Name, Target: id}
}

func (b *progBuilder) op(name string, args ...hir.Node) *hir.Call {
	return &hir.Call{Callee: b.builtin(name), Args: args}
}

func (b *progBuilder) program(body ...hir.Node) *hir.Program {
	return hir.NewProgram(b.symbols, body...)
}

func at(col int) hir.Span { return hir.Span{Line: 1, Column: col, Length: 1} }

func num(v string) *hir.Literal { return &hir.Literal{Kind: hir.LitNumber, Value: v} }
func str(v string) *hir.Literal { return &hir.Literal{Kind: hir.LitString, Value: v} }
func boolean(v bool) *hir.Literal {
	if v {
		return &hir.Literal{Kind: hir.LitBool, Value: "true"}
	}
	return &hir.Literal{Kind: hir.LitBool, Value: "false"}
}

func call(callee hir.Node, args ...hir.Node) *hir.Call {
	return &hir.Call{Callee: callee, Args: args}
}

// checked is the outcome of inferring a whole program, resolved like the checker facade does
type checked struct {
	ti     *InferenceContext
	output types.Type
	errs   []*ilerr.TypeError
}

func runInference(t *testing.T, prog *hir.Program, input types.Type) checked {
	t.Helper()
	ti := NewInferenceContext(prog, builtin.Default())
	if input == nil {
		input = ti.Fresh()
	}
	out := ti.Program(input)
	ti.Errors().Resolve(ti.Subst())
	return checked{ti: ti, output: out, errs: ti.Errors().Errors()}
}

func (c checked) outputString() string {
	return types.NewNamer(c.ti.Subst()).Name(c.output)
}

func (c checked) scheme(id hir.SymbolID) string {
	return types.NewNamer(c.ti.Subst()).Scheme(c.ti.Symbols()[id])
}

func (c checked) messages() string {
	msgs := make([]string, len(c.errs))
	for i, err := range c.errs {
		msgs[i] = ilerr.FormatWithCode(err)
	}
	return strings.Join(msgs, "\n")
}
