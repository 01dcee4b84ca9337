package types

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

type UnifyKind uint8

const (
	_ UnifyKind = iota
	// UnifyMismatch is two types with incompatible shapes
	UnifyMismatch
	// UnifyArity is two function types with a different number of parameters
	UnifyArity
	// UnifyOccurs is an attempt to build an infinite type, like 'a = ['a]
	UnifyOccurs
)

func (k UnifyKind) String() string {
	switch k {
	case UnifyMismatch:
		return "mismatch"
	case UnifyArity:
		return "arity"
	case UnifyOccurs:
		return "occurs"
	default:
		return "invalid"
	}
}

// UnifyError is a unification failure. Left and Right are the two types
// as resolved when the conflict was found, before any later binding.
type UnifyError struct {
	Kind  UnifyKind
	Left  Type
	Right Type
	// Var is the offending variable of an Occurs error
	Var Var
}

func (e *UnifyError) Error() string {
	n := NewNamer(Subst{})
	switch e.Kind {
	case UnifyOccurs:
		return fmt.Sprintf("occurs check: %s occurs in %s", n.Name(e.Var), n.Name(e.Right))
	case UnifyArity:
		return fmt.Sprintf("arity mismatch between %s and %s", n.Name(e.Left), n.Name(e.Right))
	default:
		return fmt.Sprintf("cannot unify %s with %s", n.Name(e.Left), n.Name(e.Right))
	}
}

// UnifyErrors flattens the error returned by Unify into its individual failures
func UnifyErrors(err error) []*UnifyError {
	var ret []*UnifyError
	for _, inner := range multierr.Errors(err) {
		var ue *UnifyError
		if errors.As(inner, &ue) {
			ret = append(ret, ue)
		}
	}
	return ret
}

// Unify finds the most general extension of sub that makes a and b equal.
//
// The returned Subst is always usable: on failure it holds every binding
// made before (and, for function parameters, after) the conflict, so that
// inference can carry on. Parameters of two function types are unified
// pairwise left to right and every failing position is reported, combined
// with multierr; an arity mismatch stops before the parameters. The In of
// two function types is unified first, unless either of them has none.
func Unify(a, b Type, sub Subst) (Subst, error) {
	a, b = sub.Apply(a), sub.Apply(b)

	if av, ok := a.(Var); ok {
		return bindVar(av, b, sub)
	}
	if bv, ok := b.(Var); ok {
		return bindVar(bv, a, sub)
	}

	mismatch := &UnifyError{Kind: UnifyMismatch, Left: a, Right: b}
	switch a := a.(type) {
	case Prim:
		if b, ok := b.(Prim); ok && a == b {
			return sub, nil
		}
		return sub, mismatch
	case Named:
		if b, ok := b.(Named); ok && a == b {
			return sub, nil
		}
		return sub, mismatch
	case Array:
		b, ok := b.(Array)
		if !ok {
			return sub, mismatch
		}
		next, err := Unify(a.Elem, b.Elem, sub)
		return next, widenMismatch(err, next, a, b)
	case Mapping:
		b, ok := b.(Mapping)
		if !ok {
			return sub, mismatch
		}
		next, err := Unify(a.Key, b.Key, sub)
		if err != nil {
			return next, widenMismatch(err, next, a, b)
		}
		next, err = Unify(a.Value, b.Value, next)
		return next, widenMismatch(err, next, a, b)
	case Func:
		b, ok := b.(Func)
		if !ok {
			return sub, mismatch
		}
		if len(a.Params) != len(b.Params) {
			return sub, &UnifyError{Kind: UnifyArity, Left: a, Right: b}
		}
		var errs error
		if a.In != nil && b.In != nil {
			var err error
			sub, err = Unify(a.In, b.In, sub)
			errs = multierr.Append(errs, err)
		}
		for i := range a.Params {
			var err error
			sub, err = Unify(a.Params[i], b.Params[i], sub)
			errs = multierr.Append(errs, err)
		}
		var err error
		sub, err = Unify(a.Ret, b.Ret, sub)
		return sub, multierr.Append(errs, err)
	}
	return sub, mismatch
}

func bindVar(v Var, t Type, sub Subst) (Subst, error) {
	if tv, ok := t.(Var); ok && tv == v {
		return sub, nil
	}
	if Occurs(v, t) {
		return sub, &UnifyError{Kind: UnifyOccurs, Left: v, Right: t, Var: v}
	}
	return sub.Extend(v, t), nil
}

// widenMismatch reports a mismatch inside an array or a mapping as a
// mismatch of the whole containers, which is what users wrote.
// Occurs and arity failures keep their precise position.
func widenMismatch(err error, sub Subst, outerA, outerB Type) error {
	ue, ok := err.(*UnifyError)
	if !ok || ue.Kind != UnifyMismatch {
		return err
	}
	return &UnifyError{Kind: UnifyMismatch, Left: sub.Apply(outerA), Right: sub.Apply(outerB)}
}
