package types

import (
	"cmp"
	"log/slog"

	"github.com/benbjohnson/immutable"
)

// Subst maps type variables to the monotypes they were resolved to.
//
// Subst is persistent: Extend returns a new Subst and leaves the receiver
// untouched, so a caller holding an older Subst keeps seeing the older
// resolutions. The zero Subst is empty and ready to use.
type Subst struct {
	m *immutable.SortedMap[Var, Type]
}

type varComparer struct{}

func (varComparer) Compare(a, b Var) int { return cmp.Compare(a, b) }

func NewSubst() Subst {
	return Subst{m: immutable.NewSortedMap[Var, Type](varComparer{})}
}

// Lookup returns the direct binding of v, without chasing it
func (s Subst) Lookup(v Var) (Type, bool) {
	if s.m == nil {
		return nil, false
	}
	return s.m.Get(v)
}

// Extend binds v to t. It does not check whether v occurs in t:
// Unify is the only caller that should extend a Subst during inference
func (s Subst) Extend(v Var, t Type) Subst {
	m := s.m
	if m == nil {
		m = NewSubst().m
	}
	return Subst{m: m.Set(v, t)}
}

func (s Subst) Len() int {
	if s.m == nil {
		return 0
	}
	return s.m.Len()
}

// Vars returns every bound variable, in ascending order
func (s Subst) Vars() []Var {
	if s.m == nil {
		return nil
	}
	vars := make([]Var, 0, s.m.Len())
	for it := s.m.Iterator(); !it.Done(); {
		v, _, _ := it.Next()
		vars = append(vars, v)
	}
	return vars
}

// Apply replaces every bound variable of t with its binding, recursively,
// until no bound variable remains. Termination is guaranteed because Unify
// never binds a variable to a type that contains it.
func (s Subst) Apply(t Type) Type {
	if s.Len() == 0 {
		return t
	}
	switch t := t.(type) {
	case Var:
		if bound, ok := s.Lookup(t); ok {
			return s.Apply(bound)
		}
		return t
	case Array:
		return Array{Elem: s.Apply(t.Elem)}
	case Mapping:
		return Mapping{Key: s.Apply(t.Key), Value: s.Apply(t.Value)}
	case Func:
		params := make([]Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = s.Apply(p)
		}
		var in Type
		if t.In != nil {
			in = s.Apply(t.In)
		}
		return Func{In: in, Params: params, Ret: s.Apply(t.Ret)}
	}
	return t
}

// Resolve is Apply over a Scheme's body. Quantified variables are never bound
// in a Subst produced by the same run, so they are left as they are.
func (s Subst) Resolve(scheme Scheme) Scheme {
	return Scheme{Vars: scheme.Vars, Body: s.Apply(scheme.Body)}
}

func (s Subst) LogValue() slog.Value {
	return slog.IntValue(s.Len())
}
