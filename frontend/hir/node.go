package hir

// Node is a resolved expression. The set of variants is closed: every
// implementation lives in this file and the type checker switches over all of them.
type Node interface {
	Positioner
	// Describe is a short human-readable name for the kind of node
	Describe() string
	hirNode() // Marker method to keep the variant set closed
}

var (
	_ Node = (*Literal)(nil)
	_ Node = (*Self)(nil)
	_ Node = (*Nodes)(nil)
	_ Node = (*Selector)(nil)
	_ Node = (*Ident)(nil)
	_ Node = (*Interpolated)(nil)
	_ Node = (*Array)(nil)
	_ Node = (*Mapping)(nil)
	_ Node = (*Index)(nil)
	_ Node = (*Call)(nil)
	_ Node = (*Pipe)(nil)
	_ Node = (*Let)(nil)
	_ Node = (*Def)(nil)
	_ Node = (*Fn)(nil)
	_ Node = (*If)(nil)
	_ Node = (*While)(nil)
	_ Node = (*Until)(nil)
	_ Node = (*Foreach)(nil)
	_ Node = (*Try)(nil)
	_ Node = (*Match)(nil)
	_ Node = (*And)(nil)
	_ Node = (*Or)(nil)
	_ Node = (*Break)(nil)
	_ Node = (*Continue)(nil)
)

type LitKind uint8

const (
	_ LitKind = iota
	LitNumber
	LitString
	LitBool
	LitSymbol
	LitNone
)

func (k LitKind) String() string {
	switch k {
	case LitNumber:
		return "number"
	case LitString:
		return "string"
	case LitBool:
		return "bool"
	case LitSymbol:
		return "symbol"
	case LitNone:
		return "none"
	default:
		return "invalid"
	}
}

// Literal is a constant. Value keeps the source text and is only used for display
type Literal struct {
	Span
	Kind  LitKind
	Value string
}

// Self is the current value, written `self` or `.`
type Self struct {
	Span
}

// Nodes is every document node of the input
type Nodes struct {
	Span
}

// Selector filters the current document node, like `.h1` or `.code("go")`
type Selector struct {
	Span
	Path string
}

// Ident is the use of a binding. Target is Unresolved when the HIR builder
// could not resolve Name
type Ident struct {
	Span
	Name   string
	Target SymbolID
}

// Interpolated is a string with embedded expressions, like s"hello ${name}"
type Interpolated struct {
	Span
	Parts []Node
}

type Array struct {
	Span
	Elems []Node
}

type Entry struct {
	Key   Node
	Value Node
}

type Mapping struct {
	Span
	Entries []Entry
}

// Index is `Target[Index]`, on either an array or a mapping
type Index struct {
	Span
	Target Node
	Index  Node
}

// Call applies Callee to Args. Operators are Calls whose Callee is an Ident
// resolved to a BuiltinSymbol, like `+` or `==`
type Call struct {
	Span
	Callee Node
	Args   []Node
}

// Pipe is `a | b | c`: each stage gets the output of the previous stage as its current value.
// Bindings inside a Pipe are visible to every later stage.
type Pipe struct {
	Span
	Stages []Node
}

// Let binds Value to Symbol for the remainder of the enclosing sequence
type Let struct {
	Span
	Symbol SymbolID
	Value  Node
}

// Def is a named, possibly recursive, function definition
type Def struct {
	Span
	Symbol SymbolID
	Params []SymbolID
	Body   Node
}

// Fn is an anonymous function
type Fn struct {
	Span
	Params []SymbolID
	Body   Node
}

// Branch is one arm of an If: the first Branch is the `if`, the rest are `elif`s
type Branch struct {
	Cond Node
	Body Node
}

type If struct {
	Span
	Branches []Branch
	// Else may be nil
	Else Node
}

type While struct {
	Span
	Cond Node
	Body Node
}

type Until struct {
	Span
	Cond Node
	Body Node
}

// Foreach binds Var to every element of Iter in turn
type Foreach struct {
	Span
	Var  SymbolID
	Iter Node
	Body Node
}

type Try struct {
	Span
	Body  Node
	Catch Node
}

type Arm struct {
	Pattern Pattern
	Body    Node
}

type Match struct {
	Span
	Scrutinee Node
	Arms      []Arm
}

// And is the short-circuiting `&&`
type And struct {
	Span
	Left  Node
	Right Node
}

// Or is the short-circuiting `||`
type Or struct {
	Span
	Left  Node
	Right Node
}

type Break struct {
	Span
}

type Continue struct {
	Span
}

func (*Literal) hirNode()      {}
func (*Self) hirNode()         {}
func (*Nodes) hirNode()        {}
func (*Selector) hirNode()     {}
func (*Ident) hirNode()        {}
func (*Interpolated) hirNode() {}
func (*Array) hirNode()        {}
func (*Mapping) hirNode()      {}
func (*Index) hirNode()        {}
func (*Call) hirNode()         {}
func (*Pipe) hirNode()         {}
func (*Let) hirNode()          {}
func (*Def) hirNode()          {}
func (*Fn) hirNode()           {}
func (*If) hirNode()           {}
func (*While) hirNode()        {}
func (*Until) hirNode()        {}
func (*Foreach) hirNode()      {}
func (*Try) hirNode()          {}
func (*Match) hirNode()        {}
func (*And) hirNode()          {}
func (*Or) hirNode()           {}
func (*Break) hirNode()        {}
func (*Continue) hirNode()     {}

func (e *Literal) Describe() string    { return e.Kind.String() + " literal" }
func (*Self) Describe() string         { return "self" }
func (*Nodes) Describe() string        { return "nodes" }
func (*Selector) Describe() string     { return "selector" }
func (*Ident) Describe() string        { return "identifier" }
func (*Interpolated) Describe() string { return "interpolated string" }
func (*Array) Describe() string        { return "array" }
func (*Mapping) Describe() string      { return "mapping" }
func (*Index) Describe() string        { return "index" }
func (*Call) Describe() string         { return "call" }
func (*Pipe) Describe() string         { return "pipe" }
func (*Let) Describe() string          { return "let" }
func (*Def) Describe() string          { return "def" }
func (*Fn) Describe() string           { return "fn" }
func (*If) Describe() string           { return "if" }
func (*While) Describe() string        { return "while" }
func (*Until) Describe() string        { return "until" }
func (*Foreach) Describe() string      { return "foreach" }
func (*Try) Describe() string          { return "try" }
func (*Match) Describe() string        { return "match" }
func (*And) Describe() string          { return "and" }
func (*Or) Describe() string           { return "or" }
func (*Break) Describe() string        { return "break" }
func (*Continue) Describe() string     { return "continue" }
