package infer

import (
	"github.com/benbjohnson/immutable"
	"github.com/cottand/mqcheck/frontend/hir"
	"github.com/cottand/mqcheck/frontend/types"
	"github.com/hashicorp/go-set/v3"
)

// TypeEnv maps the symbols in scope to their schemes. It is persistent:
// Extend returns a new TypeEnv, so a nested scope never leaks into its parent.
type TypeEnv struct {
	m *immutable.Map[hir.SymbolID, types.Scheme]
}

type symbolHasher struct{}

func (symbolHasher) Hash(id hir.SymbolID) uint32 { return uint32(id) }
func (symbolHasher) Equal(a, b hir.SymbolID) bool { return a == b }

func NewTypeEnv() TypeEnv {
	return TypeEnv{m: immutable.NewMap[hir.SymbolID, types.Scheme](symbolHasher{})}
}

func (e TypeEnv) Lookup(id hir.SymbolID) (types.Scheme, bool) {
	if e.m == nil {
		return types.Scheme{}, false
	}
	return e.m.Get(id)
}

func (e TypeEnv) Extend(id hir.SymbolID, scheme types.Scheme) TypeEnv {
	m := e.m
	if m == nil {
		m = NewTypeEnv().m
	}
	return TypeEnv{m: m.Set(id, scheme)}
}

func (e TypeEnv) Len() int {
	if e.m == nil {
		return 0
	}
	return e.m.Len()
}

// FreeVars are the variables of every scheme in e that are still unresolved
// under sub. Generalizing over any of them would be unsound.
func (e TypeEnv) FreeVars(sub types.Subst) *set.TreeSet[types.Var] {
	free := types.NewVarSet()
	if e.m == nil {
		return free
	}
	for it := e.m.Iterator(); !it.Done(); {
		_, scheme, _ := it.Next()
		free.InsertSet(sub.Resolve(scheme).FreeVars())
	}
	return free
}

// scope is what an expression is inferred against: the bindings visible to
// it, and the type of the current value it receives
type scope struct {
	env  TypeEnv
	self types.Type
	// loops is the number of enclosing loops, reset by function bodies
	loops int
}

func (s scope) withSelf(self types.Type) scope {
	s.self = self
	return s
}

func (s scope) bind(id hir.SymbolID, scheme types.Scheme) scope {
	s.env = s.env.Extend(id, scheme)
	return s
}

// freeVars includes the current value: a binding that captures it must not
// be generalized over its type
func (s scope) freeVars(sub types.Subst) *set.TreeSet[types.Var] {
	free := s.env.FreeVars(sub)
	if s.self != nil {
		free.InsertSet(types.FreeVars(sub.Apply(s.self)))
	}
	return free
}
