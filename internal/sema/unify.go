package sema

import "glimt/internal/types"

// unify fixes type parameters owned by the signature being bound against
// the concrete type supplied for one argument position. A parameter is
// fixed at its first occurrence; later occurrences leave the substitution
// untouched (the assignability pass reports any conflict). Parameters not
// in owned belong to an enclosing signature and are left alone.
//
// Unification runs over argument positions only, strictly before block
// parameter types are consulted: block shapes may reference argument-fixed
// parameters and must observe the finished substitution. Parameters that
// occur only inside block or completion types stay free here and degrade
// later.
func (c *checker) unify(decl, actual types.TypeID, owned map[types.TypeID]bool, subst types.Subst) {
	if decl == types.NoTypeID || actual == types.NoTypeID {
		return
	}
	dt, ok := c.types.Lookup(decl)
	if !ok {
		return
	}
	switch dt.Kind {
	case types.KindTypeParam:
		if !owned[decl] {
			return
		}
		if _, fixed := subst[decl]; !fixed {
			subst[decl] = actual
		}
	case types.KindArray:
		if at, ok := c.types.Lookup(actual); ok && at.Kind == types.KindArray {
			c.unify(dt.Elem, at.Elem, owned, subst)
		}
	case types.KindMap:
		if at, ok := c.types.Lookup(actual); ok && at.Kind == types.KindMap {
			c.unify(dt.Key, at.Key, owned, subst)
			c.unify(dt.Elem, at.Elem, owned, subst)
		}
	case types.KindFn:
		dInfo, _ := c.types.FnInfo(decl)
		aInfo, aOk := c.types.FnInfo(actual)
		if !aOk {
			return
		}
		n := len(dInfo.Params)
		if len(aInfo.Params) < n {
			n = len(aInfo.Params)
		}
		for i := 0; i < n; i++ {
			c.unify(dInfo.Params[i], aInfo.Params[i], owned, subst)
		}
		c.unify(dInfo.Result, aInfo.Result, owned, subst)
	default:
		// Unions and primitives fix nothing; assignability decides later.
	}
}

// degrade completes a substitution: every owned parameter left unfixed by
// the arguments maps to its declared bound, or to unknown when
// unconstrained.
func (c *checker) degrade(owned []types.TypeID, subst types.Subst) {
	for _, p := range owned {
		if _, fixed := subst[p]; fixed {
			continue
		}
		if info, ok := c.types.TypeParamInfo(p); ok && info.Bound != types.NoTypeID {
			subst[p] = info.Bound
			continue
		}
		subst[p] = c.types.Builtins().Unknown
	}
}
