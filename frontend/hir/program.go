package hir

import (
	"maps"
	"slices"
)

// SymbolID identifies a binding resolved by the HIR builder.
// IDs are stable for the lifetime of a Program; Unresolved is never a valid binding.
type SymbolID uint32

// Unresolved marks a use-site whose target could not be resolved upstream
const Unresolved SymbolID = 0

type SymbolKind uint8

const (
	_ SymbolKind = iota
	// VariableSymbol is bound by let
	VariableSymbol
	// FunctionSymbol is bound by def
	FunctionSymbol
	ParameterSymbol
	// PatternSymbol is bound inside a match arm pattern
	PatternSymbol
	// LoopSymbol is the element variable of a foreach
	LoopSymbol
	// BuiltinSymbol refers to an entry of the builtin signature table, by Name
	BuiltinSymbol
)

var symbolKindNames = map[SymbolKind]string{
	VariableSymbol:  "variable",
	FunctionSymbol:  "function",
	ParameterSymbol: "parameter",
	PatternSymbol:   "pattern",
	LoopSymbol:      "loop",
	BuiltinSymbol:   "builtin",
}

func (k SymbolKind) String() string {
	if name, ok := symbolKindNames[k]; ok {
		return name
	}
	return "invalid"
}

// ParseSymbolKind is the inverse of SymbolKind.String
func ParseSymbolKind(s string) (SymbolKind, bool) {
	for k, name := range symbolKindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// Symbol is a binding's defining site
type Symbol struct {
	ID   SymbolID
	Name string
	Kind SymbolKind
	Span
}

// IsUserDefined is true for every binding that comes from the query itself rather than the builtin table
func (s Symbol) IsUserDefined() bool {
	return s.Kind != BuiltinSymbol && s.Kind != 0
}

// Program is the symbol-resolved program graph.
//
// Body is the top-level sequence of the query: each element receives the output
// of the previous one as its current value, like the stages of a Pipe.
type Program struct {
	Symbols map[SymbolID]Symbol
	Body    []Node
}

func NewProgram(symbols []Symbol, body ...Node) *Program {
	p := &Program{
		Symbols: make(map[SymbolID]Symbol, len(symbols)),
		Body:    body,
	}
	for _, s := range symbols {
		p.Symbols[s.ID] = s
	}
	return p
}

func (p *Program) Symbol(id SymbolID) (Symbol, bool) {
	if p == nil || id == Unresolved {
		return Symbol{}, false
	}
	s, ok := p.Symbols[id]
	return s, ok
}

// SortedSymbols returns all symbols ordered by ID, which is the order the HIR builder allocated them in
func (p *Program) SortedSymbols() []Symbol {
	ids := slices.Sorted(maps.Keys(p.Symbols))
	ret := make([]Symbol, 0, len(ids))
	for _, id := range ids {
		ret = append(ret, p.Symbols[id])
	}
	return ret
}

// Span covers the whole of Body when its first and last nodes carry positions
func (p *Program) Span() Span {
	if len(p.Body) == 0 {
		return Span{}
	}
	first, last := p.Body[0].Pos(), p.Body[len(p.Body)-1].Pos()
	if first.IsZero() {
		return last
	}
	return SpanBetween(first, last)
}
