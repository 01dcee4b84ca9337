package types

// MatchScore rates how well an argument type fits a parameter type, to pick
// between the overloads of a builtin. Higher is better; false means the
// two types can never unify.
//
// Identical primitives score 100 and a variable on either side scores 10.
// Arrays and mappings add 20 on top of their components, so that
// ([number]) -> number beats ('a) -> number for a [number] argument.
func MatchScore(param, arg Type) (int, bool) {
	if _, ok := param.(Var); ok {
		return 10, true
	}
	if _, ok := arg.(Var); ok {
		return 10, true
	}
	switch p := param.(type) {
	case Prim:
		if a, ok := arg.(Prim); ok && p == a {
			return 100, true
		}
	case Named:
		if a, ok := arg.(Named); ok && p == a {
			return 100, true
		}
	case Array:
		if a, ok := arg.(Array); ok {
			if score, ok := MatchScore(p.Elem, a.Elem); ok {
				return score + 20, true
			}
		}
	case Mapping:
		if a, ok := arg.(Mapping); ok {
			key, okKey := MatchScore(p.Key, a.Key)
			value, okValue := MatchScore(p.Value, a.Value)
			if okKey && okValue {
				return (key+value)/2 + 20, true
			}
		}
	case Func:
		a, ok := arg.(Func)
		if !ok || len(p.Params) != len(a.Params) {
			return 0, false
		}
		total := 0
		for i := range p.Params {
			score, ok := MatchScore(p.Params[i], a.Params[i])
			if !ok {
				return 0, false
			}
			total += score
		}
		ret, ok := MatchScore(p.Ret, a.Ret)
		if !ok {
			return 0, false
		}
		return total + ret, true
	}
	return 0, false
}

// MatchCall scores a whole call: the sum of the score of every argument
// against its parameter. Calls with the wrong number of arguments never match.
func MatchCall(f Func, args []Type) (int, bool) {
	if len(f.Params) != len(args) {
		return 0, false
	}
	total := 0
	for i, arg := range args {
		score, ok := MatchScore(f.Params[i], arg)
		if !ok {
			return 0, false
		}
		total += score
	}
	return total, true
}
