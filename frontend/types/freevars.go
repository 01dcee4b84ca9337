package types

import (
	"cmp"

	"github.com/hashicorp/go-set/v3"
)

// NewVarSet returns an empty set of variables, iterated in ascending id order
func NewVarSet(vars ...Var) *set.TreeSet[Var] {
	return set.TreeSetFrom(vars, cmp.Compare[Var])
}

// FreeVars collects every variable in t. t is taken as-is: apply a Subst
// first to get the variables that are still unresolved
func FreeVars(t Type) *set.TreeSet[Var] {
	vars := NewVarSet()
	collectVars(t, func(v Var) { vars.Insert(v) })
	return vars
}

// VarsInOrder lists the variables of t once each, left to right in order of first appearance
func VarsInOrder(t Type) []Var {
	seen := NewVarSet()
	var ordered []Var
	collectVars(t, func(v Var) {
		if seen.Insert(v) {
			ordered = append(ordered, v)
		}
	})
	return ordered
}

func collectVars(t Type, visit func(Var)) {
	switch t := t.(type) {
	case Var:
		visit(t)
	case Array:
		collectVars(t.Elem, visit)
	case Mapping:
		collectVars(t.Key, visit)
		collectVars(t.Value, visit)
	case Func:
		if t.In != nil {
			collectVars(t.In, visit)
		}
		for _, p := range t.Params {
			collectVars(p, visit)
		}
		collectVars(t.Ret, visit)
	}
}
