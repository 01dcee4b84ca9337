package hir

import (
	"fmt"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Decode reads a Program from its YAML encoding.
//
// A document has a `symbols` list and a `body` list. Each node is a mapping
// with exactly one kind key, plus an optional `at: "line:column+length"`:
//
//	symbols:
//	  - {id: 1, name: f, kind: function, at: "1:5+1"}
//	  - {id: 2, name: x, kind: parameter}
//	body:
//	  - def: {symbol: 1, params: [2], body: {ident: {name: x, target: 2}}}
//	  - call: {callee: {ident: {name: f, target: 1}}, args: [{number: 1}]}
func Decode(data []byte) (*Program, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "invalid yaml")
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return NewProgram(nil), nil
	}
	fields, err := mappingFields(doc.Content[0])
	if err != nil {
		return nil, err
	}
	var symbols []Symbol
	if n, ok := fields["symbols"]; ok {
		symbols, err = decodeSymbols(n)
		if err != nil {
			return nil, errors.Wrap(err, "decoding symbols")
		}
	}
	prog := NewProgram(symbols)
	if len(prog.Symbols) != len(symbols) {
		return nil, errors.New("duplicate symbol ids")
	}
	if n, ok := fields["body"]; ok {
		prog.Body, err = decodeNodes(n)
		if err != nil {
			return nil, errors.Wrap(err, "decoding body")
		}
	}
	return prog, nil
}

type symbolDoc struct {
	ID   SymbolID `yaml:"id"`
	Name string   `yaml:"name"`
	Kind string   `yaml:"kind"`
	At   string   `yaml:"at"`
}

func decodeSymbols(n *yaml.Node) ([]Symbol, error) {
	var docs []symbolDoc
	if err := n.Decode(&docs); err != nil {
		return nil, err
	}
	symbols := make([]Symbol, 0, len(docs))
	for _, doc := range docs {
		if doc.ID == Unresolved {
			return nil, errors.Errorf("symbol %q: id must be positive", doc.Name)
		}
		kind, ok := ParseSymbolKind(doc.Kind)
		if !ok {
			return nil, errors.Errorf("symbol %q: unknown kind %q", doc.Name, doc.Kind)
		}
		var span Span
		if doc.At != "" {
			var err error
			if span, err = ParseSpan(doc.At); err != nil {
				return nil, errors.Wrapf(err, "symbol %q", doc.Name)
			}
		}
		symbols = append(symbols, Symbol{ID: doc.ID, Name: doc.Name, Kind: kind, Span: span})
	}
	return symbols, nil
}

// yamlErrorf prefixes the yaml line of n, which is the most useful
// position we have when the encoding itself is wrong
func yamlErrorf(n *yaml.Node, format string, args ...any) error {
	return errors.Errorf("line %d: %s", n.Line, fmt.Sprintf(format, args...))
}

func mappingFields(n *yaml.Node) (map[string]*yaml.Node, error) {
	if n.Kind != yaml.MappingNode {
		return nil, yamlErrorf(n, "expected a mapping")
	}
	fields := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		fields[n.Content[i].Value] = n.Content[i+1]
	}
	return fields, nil
}

// kindOf splits a node mapping into its single kind key and its span
func kindOf(n *yaml.Node) (kind string, value *yaml.Node, span Span, err error) {
	if n.Kind != yaml.MappingNode {
		return "", nil, Span{}, yamlErrorf(n, "expected a node mapping")
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i].Value, n.Content[i+1]
		if key == "at" {
			if span, err = ParseSpan(val.Value); err != nil {
				return "", nil, Span{}, yamlErrorf(val, "%v", err)
			}
			continue
		}
		if kind != "" {
			return "", nil, Span{}, yamlErrorf(n, "node has both %q and %q", kind, key)
		}
		kind, value = key, val
	}
	if kind == "" {
		return "", nil, Span{}, yamlErrorf(n, "node has no kind")
	}
	return kind, value, span, nil
}

func decodeNodes(n *yaml.Node) ([]Node, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, yamlErrorf(n, "expected a list of nodes")
	}
	nodes := make([]Node, 0, len(n.Content))
	for _, elem := range n.Content {
		node, err := decodeNode(elem)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func decodeSymbolID(n *yaml.Node) (SymbolID, error) {
	var id SymbolID
	if err := n.Decode(&id); err != nil {
		return 0, yamlErrorf(n, "invalid symbol id %q", n.Value)
	}
	return id, nil
}

func decodeSymbolIDs(n *yaml.Node) ([]SymbolID, error) {
	var ids []SymbolID
	if err := n.Decode(&ids); err != nil {
		return nil, yamlErrorf(n, "invalid symbol id list")
	}
	return ids, nil
}

// nodeFields decodes the sub-nodes of a composite node by name.
// Names listed in optional may be absent and decode to nil
type nodeFields struct {
	fields map[string]*yaml.Node
	owner  *yaml.Node
	err    error
}

func newNodeFields(n *yaml.Node) *nodeFields {
	fields, err := mappingFields(n)
	return &nodeFields{fields: fields, owner: n, err: err}
}

func (f *nodeFields) node(name string, optional bool) Node {
	if f.err != nil {
		return nil
	}
	n, ok := f.fields[name]
	if !ok || n.Tag == "!!null" {
		if !optional {
			f.err = yamlErrorf(f.owner, "missing %q", name)
		}
		return nil
	}
	node, err := decodeNode(n)
	f.err = err
	return node
}

func (f *nodeFields) nodes(name string) []Node {
	if f.err != nil {
		return nil
	}
	n, ok := f.fields[name]
	if !ok {
		return nil
	}
	nodes, err := decodeNodes(n)
	f.err = err
	return nodes
}

func (f *nodeFields) symbol(name string, optional bool) SymbolID {
	if f.err != nil {
		return 0
	}
	n, ok := f.fields[name]
	if !ok {
		if !optional {
			f.err = yamlErrorf(f.owner, "missing %q", name)
		}
		return Unresolved
	}
	id, err := decodeSymbolID(n)
	f.err = err
	return id
}

func (f *nodeFields) symbols(name string) []SymbolID {
	if f.err != nil {
		return nil
	}
	n, ok := f.fields[name]
	if !ok {
		return nil
	}
	ids, err := decodeSymbolIDs(n)
	f.err = err
	return ids
}

var literalKinds = map[string]LitKind{
	"number": LitNumber,
	"string": LitString,
	"bool":   LitBool,
	"symbol": LitSymbol,
	"none":   LitNone,
}

func decodeNode(n *yaml.Node) (Node, error) {
	kind, value, span, err := kindOf(n)
	if err != nil {
		return nil, err
	}
	if litKind, ok := literalKinds[kind]; ok {
		return &Literal{Span: span, Kind: litKind, Value: value.Value}, nil
	}

	switch kind {
	case "self":
		return &Self{Span: span}, nil
	case "nodes":
		return &Nodes{Span: span}, nil
	case "break":
		return &Break{Span: span}, nil
	case "continue":
		return &Continue{Span: span}, nil
	case "selector":
		return &Selector{Span: span, Path: value.Value}, nil
	case "ident":
		f := newNodeFields(value)
		target := f.symbol("target", true)
		if f.err != nil {
			return nil, f.err
		}
		name := ""
		if nameNode, ok := f.fields["name"]; ok {
			name = nameNode.Value
		}
		return &Ident{Span: span, Name: name, Target: target}, nil
	case "interpolated", "array", "pipe":
		elems, err := decodeNodes(value)
		if err != nil {
			return nil, err
		}
		switch kind {
		case "interpolated":
			return &Interpolated{Span: span, Parts: elems}, nil
		case "array":
			return &Array{Span: span, Elems: elems}, nil
		default:
			return &Pipe{Span: span, Stages: elems}, nil
		}
	case "and", "or":
		operands, err := decodeNodes(value)
		if err != nil {
			return nil, err
		}
		if len(operands) != 2 {
			return nil, yamlErrorf(value, "%s takes exactly 2 operands, got %d", kind, len(operands))
		}
		if kind == "and" {
			return &And{Span: span, Left: operands[0], Right: operands[1]}, nil
		}
		return &Or{Span: span, Left: operands[0], Right: operands[1]}, nil
	case "mapping":
		if value.Kind != yaml.SequenceNode {
			return nil, yamlErrorf(value, "mapping expects a list of entries")
		}
		m := &Mapping{Span: span}
		for _, entryNode := range value.Content {
			f := newNodeFields(entryNode)
			entry := Entry{Key: f.node("key", false), Value: f.node("value", false)}
			if f.err != nil {
				return nil, f.err
			}
			m.Entries = append(m.Entries, entry)
		}
		return m, nil
	case "index":
		f := newNodeFields(value)
		node := &Index{Span: span, Target: f.node("target", false), Index: f.node("index", false)}
		return node, f.err
	case "call":
		f := newNodeFields(value)
		node := &Call{Span: span, Callee: f.node("callee", false), Args: f.nodes("args")}
		return node, f.err
	case "let":
		f := newNodeFields(value)
		node := &Let{Span: span, Symbol: f.symbol("symbol", false), Value: f.node("value", false)}
		return node, f.err
	case "def":
		f := newNodeFields(value)
		node := &Def{Span: span, Symbol: f.symbol("symbol", false), Params: f.symbols("params"), Body: f.node("body", false)}
		return node, f.err
	case "fn":
		f := newNodeFields(value)
		node := &Fn{Span: span, Params: f.symbols("params"), Body: f.node("body", false)}
		return node, f.err
	case "if":
		f := newNodeFields(value)
		node := &If{Span: span, Else: f.node("else", true)}
		if f.err != nil {
			return nil, f.err
		}
		branches, ok := f.fields["branches"]
		if !ok || branches.Kind != yaml.SequenceNode || len(branches.Content) == 0 {
			return nil, yamlErrorf(value, "if needs at least one branch")
		}
		for _, b := range branches.Content {
			bf := newNodeFields(b)
			branch := Branch{Cond: bf.node("cond", false), Body: bf.node("body", false)}
			if bf.err != nil {
				return nil, bf.err
			}
			node.Branches = append(node.Branches, branch)
		}
		return node, nil
	case "while":
		f := newNodeFields(value)
		node := &While{Span: span, Cond: f.node("cond", false), Body: f.node("body", false)}
		return node, f.err
	case "until":
		f := newNodeFields(value)
		node := &Until{Span: span, Cond: f.node("cond", false), Body: f.node("body", false)}
		return node, f.err
	case "foreach":
		f := newNodeFields(value)
		node := &Foreach{Span: span, Var: f.symbol("var", false), Iter: f.node("iter", false), Body: f.node("body", false)}
		return node, f.err
	case "try":
		f := newNodeFields(value)
		node := &Try{Span: span, Body: f.node("body", false), Catch: f.node("catch", false)}
		return node, f.err
	case "match":
		f := newNodeFields(value)
		node := &Match{Span: span, Scrutinee: f.node("scrutinee", false)}
		if f.err != nil {
			return nil, f.err
		}
		arms, ok := f.fields["arms"]
		if !ok || arms.Kind != yaml.SequenceNode {
			return nil, yamlErrorf(value, "match needs a list of arms")
		}
		for _, a := range arms.Content {
			af := newNodeFields(a)
			if af.err != nil {
				return nil, af.err
			}
			patNode, ok := af.fields["pattern"]
			if !ok {
				return nil, yamlErrorf(a, "arm is missing %q", "pattern")
			}
			pattern, err := decodePattern(patNode)
			if err != nil {
				return nil, err
			}
			arm := Arm{Pattern: pattern, Body: af.node("body", false)}
			if af.err != nil {
				return nil, af.err
			}
			node.Arms = append(node.Arms, arm)
		}
		return node, nil
	}
	return nil, yamlErrorf(n, "unknown node kind %q", kind)
}

func decodeLiteral(n *yaml.Node) (Literal, error) {
	kind, value, span, err := kindOf(n)
	if err != nil {
		return Literal{}, err
	}
	litKind, ok := literalKinds[kind]
	if !ok {
		return Literal{}, yamlErrorf(n, "expected a literal, found %q", kind)
	}
	return Literal{Span: span, Kind: litKind, Value: value.Value}, nil
}

var patternKinds = []string{"literal", "bind", "wildcard", "array", "mapping"}

func decodePattern(n *yaml.Node) (Pattern, error) {
	kind, value, span, err := kindOf(n)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "literal":
		lit, err := decodeLiteral(value)
		if err != nil {
			return nil, err
		}
		if lit.Span.IsZero() {
			lit.Span = span
		}
		return &LitPattern{Span: span, Lit: lit}, nil
	case "bind":
		id, err := decodeSymbolID(value)
		if err != nil {
			return nil, err
		}
		return &BindPattern{Span: span, Symbol: id}, nil
	case "wildcard":
		return &WildcardPattern{Span: span}, nil
	case "array":
		fields, err := mappingFields(value)
		if err != nil {
			return nil, err
		}
		p := &ArrayPattern{Span: span}
		if elems, ok := fields["elems"]; ok {
			if elems.Kind != yaml.SequenceNode {
				return nil, yamlErrorf(elems, "expected a list of patterns")
			}
			for _, elem := range elems.Content {
				sub, err := decodePattern(elem)
				if err != nil {
					return nil, err
				}
				p.Elems = append(p.Elems, sub)
			}
		}
		if rest, ok := fields["rest"]; ok {
			if p.Rest, err = decodeSymbolID(rest); err != nil {
				return nil, err
			}
		}
		return p, nil
	case "mapping":
		if value.Kind != yaml.SequenceNode {
			return nil, yamlErrorf(value, "mapping pattern expects a list of entries")
		}
		p := &MappingPattern{Span: span}
		for _, entryNode := range value.Content {
			fields, err := mappingFields(entryNode)
			if err != nil {
				return nil, err
			}
			keyNode, okKey := fields["key"]
			valueNode, okValue := fields["value"]
			if !okKey || !okValue {
				return nil, yamlErrorf(entryNode, "mapping pattern entries need a key and a value")
			}
			key, err := decodeLiteral(keyNode)
			if err != nil {
				return nil, err
			}
			sub, err := decodePattern(valueNode)
			if err != nil {
				return nil, err
			}
			p.Entries = append(p.Entries, PatternEntry{Key: key, Value: sub})
		}
		return p, nil
	}
	return nil, yamlErrorf(n, "unknown pattern kind %q, expected one of %v", kind, patternKinds)
}
