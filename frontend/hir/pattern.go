package hir

// Pattern is the left-hand side of a match Arm. Like Node, the variant set is closed.
type Pattern interface {
	Positioner
	patternNode()
}

var (
	_ Pattern = (*LitPattern)(nil)
	_ Pattern = (*BindPattern)(nil)
	_ Pattern = (*WildcardPattern)(nil)
	_ Pattern = (*ArrayPattern)(nil)
	_ Pattern = (*MappingPattern)(nil)
)

// LitPattern matches a constant
type LitPattern struct {
	Span
	Lit Literal
}

// BindPattern matches anything and binds it to Symbol
type BindPattern struct {
	Span
	Symbol SymbolID
}

// WildcardPattern is `_`
type WildcardPattern struct {
	Span
}

// ArrayPattern matches arrays element-wise. Rest binds the remaining
// elements when it is not Unresolved, as in `[first, ..rest]`
type ArrayPattern struct {
	Span
	Elems []Pattern
	Rest  SymbolID
}

type PatternEntry struct {
	Key   Literal
	Value Pattern
}

// MappingPattern matches mappings that contain every key in Entries
type MappingPattern struct {
	Span
	Entries []PatternEntry
}

func (*LitPattern) patternNode()      {}
func (*BindPattern) patternNode()     {}
func (*WildcardPattern) patternNode() {}
func (*ArrayPattern) patternNode()    {}
func (*MappingPattern) patternNode()  {}
