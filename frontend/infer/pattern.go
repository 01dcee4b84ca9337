package infer

import (
	"fmt"

	"github.com/cottand/mqcheck/frontend/hir"
	"github.com/cottand/mqcheck/frontend/types"
)

// match requires every pattern to fit the scrutinee and every arm to produce
// the same type, which is the type of the match
func (ti *InferenceContext) match(n *hir.Match, sc scope) types.Type {
	scrutinee := ti.infer(n.Scrutinee, sc)
	var result types.Type
	for _, arm := range n.Arms {
		armScope := ti.pattern(arm.Pattern, scrutinee, sc)
		t := ti.infer(arm.Body, armScope)
		if result == nil {
			result = t
			continue
		}
		ti.unify(arm.Body, result, t)
	}
	if result == nil {
		return ti.Fresh()
	}
	return result
}

// pattern checks p against a value of type t, and returns sc extended with the
// symbols p binds. Pattern bindings are never generalized.
func (ti *InferenceContext) pattern(p hir.Pattern, t types.Type, sc scope) scope {
	switch p := p.(type) {
	case *hir.LitPattern:
		ti.unify(p, t, literalType(&p.Lit))

	case *hir.BindPattern:
		ti.record(p.Symbol, types.Mono(t))
		sc = sc.bind(p.Symbol, types.Mono(t))

	case *hir.WildcardPattern:
		// matches anything and binds nothing

	case *hir.ArrayPattern:
		elem := ti.Fresh()
		ti.unify(p, t, types.ArrayOf(elem))
		for _, sub := range p.Elems {
			sc = ti.pattern(sub, elem, sc)
		}
		if p.Rest != hir.Unresolved {
			ti.record(p.Rest, types.Mono(types.ArrayOf(elem)))
			sc = sc.bind(p.Rest, types.Mono(types.ArrayOf(elem)))
		}

	case *hir.MappingPattern:
		key, value := ti.Fresh(), ti.Fresh()
		ti.unify(p, t, types.MappingOf(key, value))
		for _, entry := range p.Entries {
			ti.unify(&entry.Key, key, literalType(&entry.Key))
			sc = ti.pattern(entry.Value, value, sc)
		}

	default:
		panic(fmt.Sprintf("unexpected pattern %T", p))
	}
	return sc
}
