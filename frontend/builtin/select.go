package builtin

import (
	"github.com/cottand/mqcheck/frontend/types"
)

// Select picks the overload that best fits a call with args, which must
// already be resolved through the current substitution.
//
// The overload with the highest types.MatchCall score wins, ties going to
// the one added first. When no overload matches, the first one taking
// len(args) parameters is returned so that the call reports mismatches
// against a signature of the right size; failing that, the first overload.
func Select(overloads []types.Scheme, args []types.Type) types.Scheme {
	best, bestScore := -1, -1
	for i, o := range overloads {
		f, ok := o.Body.(types.Func)
		if !ok {
			continue
		}
		if score, ok := types.MatchCall(f, args); ok && score > bestScore {
			best, bestScore = i, score
		}
	}
	if best >= 0 {
		return overloads[best]
	}
	if i, ok := withArity(overloads, len(args)); ok {
		return overloads[i]
	}
	return overloads[0]
}

// Arities lists the number of parameters of each overload, in order
func Arities(overloads []types.Scheme) []int {
	arities := make([]int, 0, len(overloads))
	for _, o := range overloads {
		if f, ok := o.Body.(types.Func); ok {
			arities = append(arities, len(f.Params))
		}
	}
	return arities
}

// HasArity reports whether some overload takes exactly n parameters
func HasArity(overloads []types.Scheme, n int) bool {
	_, ok := withArity(overloads, n)
	return ok
}

func withArity(overloads []types.Scheme, n int) (int, bool) {
	for i, o := range overloads {
		if f, ok := o.Body.(types.Func); ok && len(f.Params) == n {
			return i, true
		}
	}
	return 0, false
}
