package types

import (
	"slices"

	"github.com/hashicorp/go-set/v3"
)

// Scheme is a monotype quantified over Vars. A Scheme with no Vars is a plain monotype.
//
// Vars are listed in order of first appearance in Body, which is also the
// order they are named in when the scheme is displayed.
type Scheme struct {
	Vars []Var
	Body Type
}

// Mono wraps t in a Scheme that quantifies over nothing
func Mono(t Type) Scheme {
	return Scheme{Body: t}
}

// Poly quantifies over every variable of t
func Poly(t Type) Scheme {
	return Scheme{Vars: VarsInOrder(t), Body: t}
}

func (s Scheme) IsPoly() bool { return len(s.Vars) > 0 }

// FreeVars are the variables of Body that are not quantified
func (s Scheme) FreeVars() *set.TreeSet[Var] {
	free := FreeVars(s.Body)
	for _, v := range s.Vars {
		free.Remove(v)
	}
	return free
}

func (s Scheme) String() string {
	return NewNamer(Subst{}).Scheme(s)
}

// Generalize resolves t through sub and quantifies over every variable left
// that is not in envFree. envFree must already be resolved through sub: these
// are the variables still used by an enclosing binding, and quantifying over
// them would let two uses of the binding disagree on them.
func Generalize(t Type, sub Subst, envFree *set.TreeSet[Var]) Scheme {
	body := sub.Apply(t)
	vars := VarsInOrder(body)
	if envFree != nil {
		vars = slices.DeleteFunc(vars, envFree.Contains)
	}
	return Scheme{Vars: vars, Body: body}
}

// Instantiate replaces every quantified variable of s with a fresh one from f.
// The replacement is a single pass over Body, so ids in s never need to be
// disjoint from the ids allocated by f.
func Instantiate(s Scheme, f *Fresher) Type {
	if !s.IsPoly() {
		return s.Body
	}
	fresh := make(map[Var]Type, len(s.Vars))
	for _, v := range s.Vars {
		fresh[v] = f.Fresh()
	}
	return rename(s.Body, func(v Var) (Type, bool) {
		t, ok := fresh[v]
		return t, ok
	})
}

// Fresher allocates type variables for a single checking run.
// It is not safe for concurrent use; concurrent runs each get their own.
type Fresher struct {
	next Var
}

// NewFresher returns a Fresher whose first variable comes after floor,
// so that variables it allocates never collide with ones up to floor
func NewFresher(floor Var) *Fresher {
	return &Fresher{next: floor + 1}
}

func (f *Fresher) Fresh() Var {
	v := f.next
	f.next++
	return v
}

// Peek is the id the next call to Fresh will return
func (f *Fresher) Peek() Var { return f.next }

// MaxVar is the highest variable id in ts, or 0
func MaxVar(ts ...Type) Var {
	var highest Var
	for _, t := range ts {
		collectVars(t, func(v Var) {
			highest = max(highest, v)
		})
	}
	return highest
}
