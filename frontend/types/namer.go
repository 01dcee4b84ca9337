package types

import (
	"strconv"
	"strings"
)

// Namer renders types for display. Variables left unresolved by the
// Subst are named 'a, 'b ... 'z, 'a1, 'b1 ... in order of first appearance.
//
// Names stick for the lifetime of a Namer, so rendering both sides of a
// mismatch with the same Namer makes their shared variables line up.
type Namer struct {
	sub   Subst
	names map[Var]string
}

func NewNamer(sub Subst) *Namer {
	return &Namer{sub: sub, names: map[Var]string{}}
}

// VarName is the display name of the index-th variable
func VarName(index int) string {
	letter := string(rune('a' + index%26))
	if suffix := index / 26; suffix > 0 {
		return "'" + letter + strconv.Itoa(suffix)
	}
	return "'" + letter
}

func (n *Namer) nameOf(v Var) string {
	if name, ok := n.names[v]; ok {
		return name
	}
	name := VarName(len(n.names))
	n.names[v] = name
	return name
}

// Name resolves t through the Namer's Subst and renders it
func (n *Namer) Name(t Type) string {
	sb := &strings.Builder{}
	n.write(sb, n.sub.Apply(t))
	return sb.String()
}

// Scheme renders s, prefixed with its quantifier when it is polymorphic,
// like forall 'a. ('a) -> 'a
func (n *Namer) Scheme(s Scheme) string {
	s = n.sub.Resolve(s)
	if !s.IsPoly() {
		return n.Name(s.Body)
	}
	sb := &strings.Builder{}
	sb.WriteString("forall")
	for _, v := range s.Vars {
		sb.WriteString(" " + n.nameOf(v))
	}
	sb.WriteString(". ")
	n.write(sb, s.Body)
	return sb.String()
}

func (n *Namer) write(sb *strings.Builder, t Type) {
	switch t := t.(type) {
	case Var:
		sb.WriteString(n.nameOf(t))
	case Prim:
		sb.WriteString(t.String())
	case Named:
		sb.WriteString(t.Name)
	case Array:
		sb.WriteString("[")
		n.write(sb, t.Elem)
		sb.WriteString("]")
	case Mapping:
		sb.WriteString("{")
		n.write(sb, t.Key)
		sb.WriteString(": ")
		n.write(sb, t.Value)
		sb.WriteString("}")
	case Func:
		if t.In != nil {
			n.write(sb, t.In)
			sb.WriteString(" | ")
		}
		sb.WriteString("(")
		for i, p := range t.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			n.write(sb, p)
		}
		sb.WriteString(") -> ")
		n.write(sb, t.Ret)
	case nil:
		sb.WriteString("<nil>")
	}
}
