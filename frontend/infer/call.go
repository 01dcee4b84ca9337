package infer

import (
	"github.com/cottand/mqcheck/frontend/builtin"
	"github.com/cottand/mqcheck/frontend/hir"
	"github.com/cottand/mqcheck/frontend/ilerr"
	"github.com/cottand/mqcheck/frontend/types"
)

// argument is an inferred call argument, with the node errors about it are reported at
type argument struct {
	at  hir.Positioner
	typ types.Type
}

func (ti *InferenceContext) call(n *hir.Call, sc scope) types.Type {
	if id, ok := n.Callee.(*hir.Ident); ok {
		if sym, ok := ti.prog.Symbol(id.Target); ok && sym.Kind == hir.BuiltinSymbol {
			return ti.callBuiltin(n, sym.Name, sc)
		}
	}
	callee := ti.infer(n.Callee, sc)
	args := ti.arguments(n, sc)

	fn, ok := ti.sub.Apply(callee).(types.Func)
	if !ok {
		// Not known to be a function yet: require it to be one of the right size
		shape := ti.shape(len(args))
		if !ti.unify(n, shape, callee) {
			return ti.Fresh()
		}
		fn = shape
	}
	if fn.In != nil {
		// The callee reads the caller's current value
		ti.unify(n, fn.In, sc.self)
	}
	if len(fn.Params) == len(args)+1 {
		args = ti.withCurrentValue(n, args, sc)
	}
	return ti.apply(n, fn, args)
}

// callBuiltin picks the overload of name that fits the arguments best, and applies it
func (ti *InferenceContext) callBuiltin(n *hir.Call, name string, sc scope) types.Type {
	overloads := ti.table.MustLookup(name)
	args := ti.arguments(n, sc)
	if !builtin.HasArity(overloads, len(args)) && builtin.HasArity(overloads, len(args)+1) {
		args = ti.withCurrentValue(n, args, sc)
	}

	resolved := make([]types.Type, len(args))
	for i, arg := range args {
		resolved[i] = ti.sub.Apply(arg.typ)
	}
	chosen := builtin.Select(overloads, resolved)
	fn := ti.instantiate(chosen).(types.Func)
	ti.logger.Debug("selected overload", "builtin", name, "overload", slogScheme(ti.sub, chosen))
	return ti.apply(n, fn, args)
}

func (ti *InferenceContext) arguments(n *hir.Call, sc scope) []argument {
	args := make([]argument, len(n.Args))
	for i, arg := range n.Args {
		args[i] = argument{at: arg, typ: ti.infer(arg, sc)}
	}
	return args
}

// withCurrentValue passes the current value as the implicit first argument,
// as in `"a" | upcase()`
func (ti *InferenceContext) withCurrentValue(n *hir.Call, args []argument, sc scope) []argument {
	return append([]argument{{at: n, typ: sc.self}}, args...)
}

// apply checks args against the parameters of fn. A call with the wrong
// number of arguments is a single arity error, and its result is unknown.
// Otherwise every argument is unified with its parameter on its own, so each
// mistaken argument is reported at its own position.
func (ti *InferenceContext) apply(n *hir.Call, fn types.Func, args []argument) types.Type {
	if len(fn.Params) != len(args) {
		ti.report(ilerr.NewArity(n, len(fn.Params), len(n.Args)))
		return ti.Fresh()
	}
	for i, arg := range args {
		ti.unify(arg.at, fn.Params[i], arg.typ)
	}
	return fn.Ret
}

// shape is a function of arity parameters with fresh types
func (ti *InferenceContext) shape(arity int) types.Func {
	params := make([]types.Type, arity)
	for i := range params {
		params[i] = ti.Fresh()
	}
	return types.Func{Params: params, Ret: ti.Fresh()}
}
