// Package frontend type checks resolved mq programs.
//
// Check runs inference over a whole hir.Program against a builtin.Table and
// returns every diagnostic found, along with the inferred scheme of each
// user binding. Runs share nothing but the read-only table, so independent
// programs may be checked concurrently.
package frontend

import (
	"log/slog"

	"github.com/cottand/mqcheck/frontend/builtin"
	"github.com/cottand/mqcheck/frontend/hir"
	"github.com/cottand/mqcheck/frontend/ilerr"
	"github.com/cottand/mqcheck/frontend/infer"
	"github.com/cottand/mqcheck/frontend/types"
	"github.com/cottand/mqcheck/internal/log"
)

var logger = log.DefaultLogger.With("section", "check")

// Result is the outcome of checking one program.
// Every type in it is already resolved through Subst.
type Result struct {
	// Errors in the order they were found
	Errors []*ilerr.TypeError
	// Symbols maps every user binding to its inferred scheme
	Symbols map[hir.SymbolID]types.Scheme
	// Signatures are the displayed Symbols, named independently of each other
	Signatures map[hir.SymbolID]string
	// Output is the type of the value the program produces
	Output types.Type
	Subst  types.Subst
}

func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

type config struct {
	input  types.Type
	logger *slog.Logger
}

type Option func(*config)

// WithInputType seeds the current value the program starts with.
// By default it is a fresh type variable, so any input is accepted.
func WithInputType(t types.Type) Option {
	return func(c *config) { c.input = t }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// Check infers the types of prog. It never fails: problems with the
// program are reported in Result.Errors.
func Check(prog *hir.Program, table *builtin.Table, opts ...Option) *Result {
	c := &config{logger: logger}
	for _, opt := range opts {
		opt(c)
	}

	inferOpts := []infer.Option{infer.WithLogger(c.logger.With("section", "infer"))}
	if c.input != nil {
		inferOpts = append(inferOpts, infer.WithVarFloor(types.MaxVar(c.input)))
	}
	ti := infer.NewInferenceContext(prog, table, inferOpts...)
	input := c.input
	if input == nil {
		input = ti.Fresh()
	}

	output := ti.Program(input)
	sub := ti.Subst()
	ti.Errors().Resolve(sub)

	res := &Result{
		Errors:     ti.Errors().Errors(),
		Symbols:    make(map[hir.SymbolID]types.Scheme, len(ti.Symbols())),
		Signatures: make(map[hir.SymbolID]string, len(ti.Symbols())),
		Output:     sub.Apply(output),
		Subst:      sub,
	}
	for id, scheme := range ti.Symbols() {
		resolved := sub.Resolve(scheme)
		res.Symbols[id] = resolved
		res.Signatures[id] = types.NewNamer(sub).Scheme(resolved)
	}
	c.logger.Debug("checked program", "errors", len(res.Errors), "symbols", len(res.Symbols))
	return res
}

// OutputString displays the program's output type
func (r *Result) OutputString() string {
	return types.NewNamer(r.Subst).Name(r.Output)
}
