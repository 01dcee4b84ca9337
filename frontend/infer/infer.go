// Package infer generates and solves the type constraints of a resolved program.
//
// Inference walks the program once, top-down. Every constraint is solved as
// soon as it is found by extending the run's substitution, so later
// constraints see earlier resolutions. Failures are recorded in the run's
// ilerr.Errors and replaced by fresh variables so that the walk always
// completes and reports every independent mistake.
package infer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cottand/mqcheck/frontend/builtin"
	"github.com/cottand/mqcheck/frontend/hir"
	"github.com/cottand/mqcheck/frontend/ilerr"
	"github.com/cottand/mqcheck/frontend/types"
	"github.com/cottand/mqcheck/internal/log"
)

var defaultLogger = log.DefaultLogger.With("section", "infer")

// InferenceContext is a single checking run over one Program. It owns the
// run's substitution, its variable ids and its errors, and must not be
// shared between goroutines. Independent runs may proceed concurrently.
type InferenceContext struct {
	prog    *hir.Program
	table   *builtin.Table
	fresher *types.Fresher
	sub     types.Subst
	errs    *ilerr.Errors
	symbols map[hir.SymbolID]types.Scheme
	logger  *slog.Logger
}

type Option func(*InferenceContext)

func WithLogger(logger *slog.Logger) Option {
	return func(ti *InferenceContext) { ti.logger = logger }
}

// WithVarFloor makes the run allocate variables above floor, so that types
// built by the caller with variables up to floor never collide with the run's
func WithVarFloor(floor types.Var) Option {
	return func(ti *InferenceContext) {
		if floor >= ti.fresher.Peek() {
			ti.fresher = types.NewFresher(floor)
		}
	}
}

func NewInferenceContext(prog *hir.Program, table *builtin.Table, opts ...Option) *InferenceContext {
	ti := &InferenceContext{
		prog:    prog,
		table:   table,
		fresher: types.NewFresher(table.MaxVar()),
		sub:     types.NewSubst(),
		errs:    &ilerr.Errors{},
		symbols: map[hir.SymbolID]types.Scheme{},
		logger:  defaultLogger,
	}
	for _, opt := range opts {
		opt(ti)
	}
	return ti
}

// Subst is the run's substitution as of now
func (ti *InferenceContext) Subst() types.Subst { return ti.sub }

func (ti *InferenceContext) Errors() *ilerr.Errors { return ti.errs }

// Symbols holds the scheme of every binding inferred so far. Schemes are not
// resolved through Subst: callers resolve them once the run is over.
func (ti *InferenceContext) Symbols() map[hir.SymbolID]types.Scheme { return ti.symbols }

// Fresh allocates a new type variable of this run
func (ti *InferenceContext) Fresh() types.Var { return ti.fresher.Fresh() }

// Program infers the whole of the program body, which receives input as its
// current value, and returns the type of the program's output
func (ti *InferenceContext) Program(input types.Type) types.Type {
	ti.logger.Debug("inferring program", "symbols", len(ti.prog.Symbols), "stages", len(ti.prog.Body))
	out := ti.sequence(ti.prog.Body, scope{env: NewTypeEnv(), self: input})
	ti.logger.Debug("inferred program", "output", slogType(ti.sub, out), "errors", ti.errs)
	return out
}

// Infer returns the type of n in env, when n receives a current value of type self
func (ti *InferenceContext) Infer(n hir.Node, env TypeEnv, self types.Type) types.Type {
	return ti.infer(n, scope{env: env, self: self})
}

func (ti *InferenceContext) report(err *ilerr.TypeError) {
	ti.logger.Debug("type error", "err", err)
	ti.errs.With(err)
}

// unify requires found to be expected, and reports every failure at `at`.
// It reports whether unification succeeded
func (ti *InferenceContext) unify(at hir.Positioner, expected, found types.Type) bool {
	sub, err := types.Unify(expected, found, ti.sub)
	ti.sub = sub
	for _, failure := range types.UnifyErrors(err) {
		ti.report(ilerr.FromUnify(at, failure))
	}
	return err == nil
}

func (ti *InferenceContext) record(id hir.SymbolID, scheme types.Scheme) {
	ti.symbols[id] = scheme
}

func (ti *InferenceContext) instantiate(scheme types.Scheme) types.Type {
	return types.Instantiate(scheme, ti.fresher)
}

func (ti *InferenceContext) generalize(t types.Type, sc scope) types.Scheme {
	return types.Generalize(t, ti.sub, sc.freeVars(ti.sub))
}

// sequence infers stages left to right, feeding the output of each stage to the next.
// Bindings extend the scope of later stages and pass their input through.
func (ti *InferenceContext) sequence(stages []hir.Node, sc scope) types.Type {
	current := sc.self
	for _, stage := range stages {
		sc = sc.withSelf(current)
		switch stage := stage.(type) {
		case *hir.Let:
			sc = ti.bindLet(stage, sc)
		case *hir.Def:
			sc = ti.bindDef(stage, sc)
		default:
			current = ti.infer(stage, sc)
		}
	}
	return current
}

func (ti *InferenceContext) infer(n hir.Node, sc scope) types.Type {
	t := ti.inferNode(n, sc)
	if ti.logger.Enabled(context.Background(), slog.LevelDebug) {
		ti.logger.Debug("inferred", "node", hir.SlogNode(n), "type", slogType(ti.sub, t))
	}
	return t
}

func (ti *InferenceContext) inferNode(n hir.Node, sc scope) types.Type {
	switch n := n.(type) {
	case *hir.Literal:
		return literalType(n)

	case *hir.Self:
		return sc.self

	case *hir.Nodes:
		return types.ArrayOf(types.Node)

	case *hir.Selector:
		// Selectors filter the current document node
		ti.unify(n, types.Node, sc.self)
		return types.Node

	case *hir.Ident:
		return ti.ident(n, sc)

	case *hir.Interpolated:
		// Any value can be interpolated into a string
		for _, part := range n.Parts {
			ti.infer(part, sc)
		}
		return types.String

	case *hir.Array:
		var elem types.Type
		for _, e := range n.Elems {
			t := ti.infer(e, sc)
			if elem == nil {
				elem = t
				continue
			}
			ti.unify(e, elem, t)
		}
		if elem == nil {
			elem = ti.Fresh()
		}
		return types.ArrayOf(elem)

	case *hir.Mapping:
		var key, value types.Type
		for _, entry := range n.Entries {
			k, v := ti.infer(entry.Key, sc), ti.infer(entry.Value, sc)
			if key == nil {
				key, value = k, v
				continue
			}
			ti.unify(entry.Key, key, k)
			ti.unify(entry.Value, value, v)
		}
		if key == nil {
			key, value = ti.Fresh(), ti.Fresh()
		}
		return types.MappingOf(key, value)

	case *hir.Index:
		return ti.index(n, sc)

	case *hir.Call:
		return ti.call(n, sc)

	case *hir.Pipe:
		return ti.sequence(n.Stages, sc)

	case *hir.Let:
		// Outside of a sequence nothing can see the binding
		ti.bindLet(n, sc)
		return sc.self

	case *hir.Def:
		ti.bindDef(n, sc)
		return sc.self

	case *hir.Fn:
		params := make([]types.Type, len(n.Params))
		// Begin a new scope:
		self := ti.Fresh()
		body := scope{env: sc.env, self: self}
		for i, id := range n.Params {
			tv := ti.Fresh()
			params[i] = tv
			body = body.bind(id, types.Mono(tv))
			ti.record(id, types.Mono(tv))
		}
		ret := ti.infer(n.Body, body)
		return ti.function(params, ret, self, sc)

	case *hir.If:
		var result types.Type
		branch := func(at hir.Node, t types.Type) {
			if result == nil {
				result = t
				return
			}
			ti.unify(at, result, t)
		}
		for _, b := range n.Branches {
			cond := ti.infer(b.Cond, sc)
			ti.unify(b.Cond, types.Bool, cond)
			branch(b.Body, ti.infer(b.Body, sc))
		}
		if n.Else != nil {
			branch(n.Else, ti.infer(n.Else, sc))
		} else {
			// A missing else produces none
			branch(n, types.None)
		}
		return result

	case *hir.While:
		return ti.loop(n.Cond, n.Body, sc)

	case *hir.Until:
		return ti.loop(n.Cond, n.Body, sc)

	case *hir.Foreach:
		iter := ti.infer(n.Iter, sc)
		elem := ti.Fresh()
		ti.unify(n.Iter, types.ArrayOf(elem), iter)
		ti.record(n.Var, types.Mono(elem))
		body := sc.bind(n.Var, types.Mono(elem))
		body.loops++
		return types.ArrayOf(ti.infer(n.Body, body))

	case *hir.Try:
		body := ti.infer(n.Body, sc)
		caught := ti.infer(n.Catch, sc)
		ti.unify(n.Catch, body, caught)
		return body

	case *hir.Match:
		return ti.match(n, sc)

	case *hir.And:
		ti.unify(n.Left, types.Bool, ti.infer(n.Left, sc))
		ti.unify(n.Right, types.Bool, ti.infer(n.Right, sc))
		return types.Bool

	case *hir.Or:
		ti.unify(n.Left, types.Bool, ti.infer(n.Left, sc))
		ti.unify(n.Right, types.Bool, ti.infer(n.Right, sc))
		return types.Bool

	case *hir.Break:
		ti.checkInLoop(n, sc, "break")
		return ti.Fresh()

	case *hir.Continue:
		ti.checkInLoop(n, sc, "continue")
		return ti.Fresh()
	}
	panic(fmt.Sprintf("unexpected node %T", n))
}

func literalType(lit *hir.Literal) types.Type {
	switch lit.Kind {
	case hir.LitNumber:
		return types.Number
	case hir.LitString:
		return types.String
	case hir.LitBool:
		return types.Bool
	case hir.LitSymbol:
		return types.Symbol
	case hir.LitNone:
		return types.None
	}
	panic(fmt.Sprintf("unexpected literal kind %v", lit.Kind))
}

func (ti *InferenceContext) ident(n *hir.Ident, sc scope) types.Type {
	sym, ok := ti.prog.Symbol(n.Target)
	if !ok {
		// resolution already failed upstream
		ti.report(ilerr.NewUnbound(n, n.Name))
		return ti.Fresh()
	}
	if sym.Kind == hir.BuiltinSymbol {
		// Used as a value rather than called: the first overload stands for the builtin
		return ti.instantiate(ti.table.MustLookup(sym.Name)[0])
	}
	scheme, ok := sc.env.Lookup(n.Target)
	if !ok {
		ti.report(ilerr.NewUnbound(n, sym.Name))
		return ti.Fresh()
	}
	return ti.instantiate(scheme)
}

func (ti *InferenceContext) index(n *hir.Index, sc scope) types.Type {
	target := ti.infer(n.Target, sc)
	index := ti.infer(n.Index, sc)

	switch resolved := ti.sub.Apply(target).(type) {
	case types.Mapping:
		ti.unify(n.Index, resolved.Key, index)
		return resolved.Value
	case types.Prim:
		if resolved == types.String {
			ti.unify(n.Index, types.Number, index)
			return types.String
		}
	}
	elem := ti.Fresh()
	ti.unify(n.Target, types.ArrayOf(elem), target)
	ti.unify(n.Index, types.Number, index)
	return elem
}

// loop checks while and until: the condition sees the current value and the
// body must produce a value of the same type, which is also the loop's result
func (ti *InferenceContext) loop(cond, body hir.Node, sc scope) types.Type {
	ti.unify(cond, types.Bool, ti.infer(cond, sc))
	inner := sc
	inner.loops++
	out := ti.infer(body, inner)
	ti.unify(body, sc.self, out)
	return sc.self
}

func (ti *InferenceContext) checkInLoop(n hir.Node, sc scope, keyword string) {
	if sc.loops == 0 {
		ti.report(ilerr.NewOther(n, "%s outside of a loop", keyword))
	}
}

func (ti *InferenceContext) bindLet(n *hir.Let, sc scope) scope {
	t := ti.infer(n.Value, sc)
	scheme := ti.generalize(t, sc)
	ti.record(n.Symbol, scheme)
	ti.logger.Debug("generalized let", "symbol", ti.symbolName(n.Symbol), "scheme", slogScheme(ti.sub, scheme))
	return sc.bind(n.Symbol, scheme)
}

// bindDef infers a possibly recursive function. The function's own symbol
// is bound to a function of the right shape while its body is inferred,
// whose result is then required to be the body's.
func (ti *InferenceContext) bindDef(n *hir.Def, sc scope) scope {
	self := ti.Fresh()
	params := make([]types.Type, len(n.Params))
	for i := range params {
		params[i] = ti.Fresh()
	}
	rec := types.Func{In: self, Params: params, Ret: ti.Fresh()}

	body := scope{env: sc.env.Extend(n.Symbol, types.Mono(rec)), self: self}
	for i, id := range n.Params {
		body = body.bind(id, types.Mono(params[i]))
		ti.record(id, types.Mono(params[i]))
	}
	ti.unify(n, rec.Ret, ti.infer(n.Body, body))

	fn := ti.function(params, rec.Ret, self, sc)
	scheme := ti.generalize(fn, sc)
	ti.record(n.Symbol, scheme)
	ti.logger.Debug("generalized def", "symbol", ti.symbolName(n.Symbol), "scheme", slogScheme(ti.sub, scheme))
	return sc.bind(n.Symbol, scheme)
}

// function is the type of a function whose body received self as its
// current value. The function keeps self as its In, so that callers must
// supply it, unless the body left self unconstrained and unshared.
func (ti *InferenceContext) function(params []types.Type, ret, self types.Type, sc scope) types.Func {
	fn := types.Func{Params: params, Ret: ret}
	if v, ok := ti.sub.Apply(self).(types.Var); ok {
		if !types.Occurs(v, ti.sub.Apply(fn)) && !sc.freeVars(ti.sub).Contains(v) {
			return fn
		}
	}
	fn.In = self
	return fn
}

func (ti *InferenceContext) symbolName(id hir.SymbolID) string {
	if sym, ok := ti.prog.Symbol(id); ok {
		return sym.Name
	}
	return fmt.Sprintf("#%d", id)
}
