package registry

import (
	"strconv"

	"glimt/internal/sig"
	"glimt/internal/source"
	"glimt/internal/types"
)

// Partial application bounds for the fn primitive. The call convention
// cannot express "bind the first N of variadic M" generically, so fn is
// authored as one overload per (function arity, bound count) pair up to
// these limits. Beyond them the translator falls back to unknown.
const (
	maxFnParams = 4
)

// fn: partial application. For a function of arity m with n pre-bound
// positionals, the overload is
//
//	<A1..Am, R>(f: (A1..Am) -> R, a1: A1, .., an: An) -> (An+1..Am) -> R
//
// A zero-bound application of a type-parameterized function leaves the
// parameters unfixed; they degrade to their declared bound. That precision
// loss is the documented policy, not a defect.
func fnEntry(in *types.Interner, strs *source.Interner) *Entry {
	name := strs.Intern("fn")
	var overloads []*sig.Signature
	// Order matters for trial binding: higher bound counts first so the
	// most specific arity wins, then smaller function arities.
	for bound := maxFnParams; bound >= 0; bound-- {
		for params := bound; params <= maxFnParams; params++ {
			overloads = append(overloads, fnOverload(in, strs, name, params, bound))
		}
	}
	return &Entry{Name: name, Overloads: overloads}
}

func fnOverload(in *types.Interner, strs *source.Interner, name source.StringID, params, bound int) *sig.Signature {
	typeParams := make([]types.TypeID, 0, params+1)
	fnParams := make([]types.TypeID, params)
	for i := range fnParams {
		fnParams[i] = typeParam(in, strs, "A"+strconv.Itoa(i+1))
		typeParams = append(typeParams, fnParams[i])
	}
	result := typeParam(in, strs, "R")
	typeParams = append(typeParams, result)

	positional := make([]types.TypeID, 0, bound+1)
	positional = append(positional, in.RegisterFn(fnParams, false, result))
	positional = append(positional, fnParams[:bound]...)

	return &sig.Signature{
		Name:       name,
		Positional: positional,
		TypeParams: typeParams,
		Completion: sig.ReturnsValue,
		Result:     in.RegisterFn(fnParams[bound:], false, result),
	}
}
