// Package builtin holds the type signatures of the functions and operators
// that every mq query can call without defining them.
package builtin

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/cottand/mqcheck/frontend/types"
)

// Table maps a builtin name to its overloads, in the order they were added.
// Every overload is a closed Scheme over a types.Func.
//
// A Table is never modified once built and can be shared by any number of
// concurrent checking runs.
type Table struct {
	overloads map[string][]types.Scheme
	maxVar    types.Var
}

// Default is the table of every builtin of the mq language. It is built on first use.
var Default = sync.OnceValue(func() *Table {
	b := NewBuilder()
	registerArithmetic(b)
	registerComparison(b)
	registerLogical(b)
	registerMath(b)
	registerString(b)
	registerArray(b)
	registerMapping(b)
	registerConversion(b)
	registerDateTime(b)
	registerIO(b)
	registerUtility(b)
	registerMarkdown(b)
	registerVariable(b)
	registerDebug(b)
	registerFile(b)
	return b.Build()
})

// Lookup returns the overloads of name, if it is a builtin
func (t *Table) Lookup(name string) ([]types.Scheme, bool) {
	overloads, ok := t.overloads[name]
	return overloads, ok
}

// MustLookup is Lookup for names the resolver already classified as builtins.
// A missing name means the table is out of date with the evaluator, so it panics.
func (t *Table) MustLookup(name string) []types.Scheme {
	overloads, ok := t.overloads[name]
	if !ok {
		panic(fmt.Sprintf("builtin %q has no signature", name))
	}
	return overloads
}

// Names lists every builtin, sorted
func (t *Table) Names() []string {
	return slices.Sorted(maps.Keys(t.overloads))
}

func (t *Table) Len() int { return len(t.overloads) }

// MaxVar is the highest type variable id used by any signature. Checking
// runs allocate their own variables above it.
func (t *Table) MaxVar() types.Var { return t.maxVar }

func (t *Table) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("builtins", t.Len()),
		slog.Uint64("maxVar", uint64(t.maxVar)),
	)
}

// Builder assembles a Table. Variables for polymorphic signatures come
// from Var, so that no two signatures share one.
type Builder struct {
	table *Table
	fresh *types.Fresher
}

func NewBuilder() *Builder {
	return &Builder{
		table: &Table{overloads: map[string][]types.Scheme{}},
		fresh: types.NewFresher(0),
	}
}

// Var allocates a type variable to quantify a signature over
func (b *Builder) Var() types.Var {
	return b.fresh.Fresh()
}

// Add registers sig as an overload of name. Every variable of sig is quantified
func (b *Builder) Add(name string, sig types.Func) *Builder {
	b.table.overloads[name] = append(b.table.overloads[name], types.Poly(sig))
	b.table.maxVar = max(b.table.maxVar, types.MaxVar(sig))
	return b
}

// Many registers the same signature under several names
func (b *Builder) Many(names []string, sig types.Func) *Builder {
	for _, name := range names {
		b.Add(name, sig)
	}
	return b
}

func (b *Builder) Build() *Table {
	t := b.table
	b.table = &Table{overloads: map[string][]types.Scheme{}}
	return t
}
