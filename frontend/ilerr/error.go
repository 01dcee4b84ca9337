package ilerr

import (
	"fmt"
	"log/slog"

	"github.com/cottand/mqcheck/frontend/hir"
	"github.com/cottand/mqcheck/frontend/types"
)

type ErrCode int

const (
	None ErrCode = iota
	TypeMismatch
	ArityMismatch
	UnboundSymbol
	InfiniteType
	Other
)

var codeNames = map[ErrCode]string{
	TypeMismatch:  "mismatch",
	ArityMismatch: "arity",
	UnboundSymbol: "unbound",
	InfiniteType:  "occurs-check",
	Other:         "other",
}

func (c ErrCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "none"
}

// TypeError is a problem found while checking a program. It is a value in
// the run's Errors, never returned as a Go error.
//
// Expected and Found are captured when the conflict is found. Their display
// form is only fixed by Resolve, once the final substitution is known.
type TypeError struct {
	Code ErrCode
	hir.Span

	Expected types.Type
	Found    types.Type

	// Name is the unbound symbol of an UnboundSymbol error
	Name string

	ExpectedArity int
	FoundArity    int

	// Detail is the message of an Other error
	Detail string

	message string
}

func (e *TypeError) Pos() hir.Span { return e.Span }

func (e *TypeError) Error() string {
	if e.message != "" {
		return e.message
	}
	return e.render(types.NewNamer(types.Subst{}))
}

// Resolve fixes the message of e against the final substitution of the
// run. Variables still unresolved are named from 'a, starting afresh for every error.
func (e *TypeError) Resolve(sub types.Subst) {
	e.message = e.render(types.NewNamer(sub))
}

func (e *TypeError) render(n *types.Namer) string {
	switch e.Code {
	case TypeMismatch:
		return fmt.Sprintf("type mismatch: expected %s, found %s", n.Name(e.Expected), n.Name(e.Found))
	case ArityMismatch:
		return fmt.Sprintf("wrong number of arguments: expected %d, found %d", e.ExpectedArity, e.FoundArity)
	case UnboundSymbol:
		return fmt.Sprintf("undefined symbol '%s'", e.Name)
	case InfiniteType:
		return fmt.Sprintf("infinite type: %s occurs in %s", n.Name(e.Expected), n.Name(e.Found))
	default:
		return e.Detail
	}
}

func (e *TypeError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("code", e.Code.String()),
		slog.String("at", e.Span.String()),
		slog.String("msg", e.Error()),
	)
}

// FormatWithCode renders e with its error code and position, like
// `3:5+2: (E001) type mismatch: expected number, found string`
func FormatWithCode(e *TypeError) string {
	return fmt.Sprintf("%v: (E%03d) %s", e.Span, e.Code, e.Error())
}

func NewMismatch(at hir.Positioner, expected, found types.Type) *TypeError {
	return &TypeError{Code: TypeMismatch, Span: at.Pos(), Expected: expected, Found: found}
}

func NewArity(at hir.Positioner, expected, found int) *TypeError {
	return &TypeError{Code: ArityMismatch, Span: at.Pos(), ExpectedArity: expected, FoundArity: found}
}

func NewUnbound(at hir.Positioner, name string) *TypeError {
	return &TypeError{Code: UnboundSymbol, Span: at.Pos(), Name: name}
}

// NewInfinite reports that v would have to contain itself, through in
func NewInfinite(at hir.Positioner, v types.Var, in types.Type) *TypeError {
	return &TypeError{Code: InfiniteType, Span: at.Pos(), Expected: v, Found: in}
}

func NewOther(at hir.Positioner, format string, args ...any) *TypeError {
	return &TypeError{Code: Other, Span: at.Pos(), Detail: fmt.Sprintf(format, args...)}
}

// FromUnify converts a unification failure into a TypeError at the given
// position. expected is the side the program required, found the side it provided.
func FromUnify(at hir.Positioner, err *types.UnifyError) *TypeError {
	switch err.Kind {
	case types.UnifyOccurs:
		return NewInfinite(at, err.Var, err.Right)
	case types.UnifyArity:
		left, lok := err.Left.(types.Func)
		right, rok := err.Right.(types.Func)
		if lok && rok {
			return NewArity(at, len(left.Params), len(right.Params))
		}
	}
	return NewMismatch(at, err.Left, err.Right)
}
