// Package types holds the monotypes and schemes of mq queries, together with
// the persistent substitution they are resolved through and the unifier that extends it.
package types

import (
	"slices"
)

// Type is a monotype. The set of variants is closed:
// Var, Prim, Array, Mapping, Func and Named.
type Type interface {
	// String renders the type for display, naming variables 'a, 'b... in order of appearance
	String() string
	monotype()
}

var (
	_ Type = Var(0)
	_ Type = Prim(0)
	_ Type = Array{}
	_ Type = Mapping{}
	_ Type = Func{}
	_ Type = Named{}
)

// Var is a type variable. It carries no data itself and is only
// resolved through a Subst. Ids are allocated by a Fresher and never reused within a run.
type Var uint64

type Prim uint8

const (
	_ Prim = iota
	Number
	String
	Bool
	Symbol
	None
	// Node is a markdown document node
	Node
)

var primNames = map[Prim]string{
	Number: "number",
	String: "string",
	Bool:   "bool",
	Symbol: "symbol",
	None:   "none",
	Node:   "node",
}

// ParsePrim is the inverse of Prim.String
func ParsePrim(s string) (Prim, bool) {
	for p, name := range primNames {
		if name == s {
			return p, true
		}
	}
	return 0, false
}

// Array is a homogeneous array, displayed [Elem]
type Array struct {
	Elem Type
}

// Mapping is a dictionary, displayed {Key: Value}
type Mapping struct {
	Key   Type
	Value Type
}

// Func is a function type, displayed (Params...) -> Ret.
//
// In is the type of the current value the function body reads, when it
// reads one, and is displayed In | (Params...) -> Ret. Calling the function
// requires the caller's current value to be In. Builtins receive the current
// value as their first parameter instead and leave In nil.
type Func struct {
	In     Type
	Params []Type
	Ret    Type
}

// Named refers to a composite declared elsewhere. It is opaque: two Named
// types unify only when their names are equal.
type Named struct {
	Name string
}

func (Var) monotype()     {}
func (Prim) monotype()    {}
func (Array) monotype()   {}
func (Mapping) monotype() {}
func (Func) monotype()    {}
func (Named) monotype()   {}

func (p Prim) String() string {
	if name, ok := primNames[p]; ok {
		return name
	}
	return "invalid"
}

func (v Var) String() string     { return NewNamer(Subst{}).Name(v) }
func (a Array) String() string   { return NewNamer(Subst{}).Name(a) }
func (m Mapping) String() string { return NewNamer(Subst{}).Name(m) }
func (f Func) String() string    { return NewNamer(Subst{}).Name(f) }
func (n Named) String() string   { return n.Name }

func ArrayOf(elem Type) Array { return Array{Elem: elem} }

func MappingOf(key, value Type) Mapping { return Mapping{Key: key, Value: value} }

func FuncOf(ret Type, params ...Type) Func { return Func{Params: params, Ret: ret} }

// Occurs reports whether v appears anywhere in t.
// t is not resolved through any substitution: callers apply one first
func Occurs(v Var, t Type) bool {
	switch t := t.(type) {
	case Var:
		return t == v
	case Array:
		return Occurs(v, t.Elem)
	case Mapping:
		return Occurs(v, t.Key) || Occurs(v, t.Value)
	case Func:
		if t.In != nil && Occurs(v, t.In) {
			return true
		}
		return Occurs(v, t.Ret) || slices.ContainsFunc(t.Params, func(p Type) bool {
			return Occurs(v, p)
		})
	}
	return false
}

// Equal is structural equality. Variables are only equal to themselves
func Equal(a, b Type) bool {
	switch a := a.(type) {
	case Var:
		b, ok := b.(Var)
		return ok && a == b
	case Prim:
		b, ok := b.(Prim)
		return ok && a == b
	case Named:
		b, ok := b.(Named)
		return ok && a == b
	case Array:
		b, ok := b.(Array)
		return ok && Equal(a.Elem, b.Elem)
	case Mapping:
		b, ok := b.(Mapping)
		return ok && Equal(a.Key, b.Key) && Equal(a.Value, b.Value)
	case Func:
		b, ok := b.(Func)
		if !ok || (a.In == nil) != (b.In == nil) || (a.In != nil && !Equal(a.In, b.In)) {
			return false
		}
		return Equal(a.Ret, b.Ret) && slices.EqualFunc(a.Params, b.Params, Equal)
	}
	return false
}

// IsGround is true when t contains no type variables
func IsGround(t Type) bool {
	return FreeVars(t).Empty()
}

// rename replaces every variable in t for which with returns true, without
// chasing the result. Instantiation relies on this single pass.
func rename(t Type, with func(Var) (Type, bool)) Type {
	switch t := t.(type) {
	case Var:
		if r, ok := with(t); ok {
			return r
		}
		return t
	case Array:
		return Array{Elem: rename(t.Elem, with)}
	case Mapping:
		return Mapping{Key: rename(t.Key, with), Value: rename(t.Value, with)}
	case Func:
		params := make([]Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = rename(p, with)
		}
		var in Type
		if t.In != nil {
			in = rename(t.In, with)
		}
		return Func{In: in, Params: params, Ret: rename(t.Ret, with)}
	}
	return t
}
