package types

// Assignable reports whether a value of type src can be supplied where dst
// is expected. Invalid types are assignable in both directions so one bad
// resolution does not cascade into follow-on diagnostics; unknown behaves
// the same way because it is the documented degradation fallback.
func (in *Interner) Assignable(dst, src TypeID) bool {
	if dst == src {
		return true
	}
	if dst == NoTypeID || src == NoTypeID {
		return true
	}
	dt := in.MustLookup(dst)
	st := in.MustLookup(src)
	if dt.Kind == KindInvalid || st.Kind == KindInvalid {
		return true
	}
	if dt.Kind == KindUnknown || st.Kind == KindUnknown {
		return true
	}

	// A union source must fit entirely; a union destination needs one home
	// per source member.
	if st.Kind == KindUnion {
		info, _ := in.UnionInfo(src)
		for _, m := range info.Members {
			if !in.Assignable(dst, m) {
				return false
			}
		}
		return true
	}
	if dt.Kind == KindUnion {
		info, _ := in.UnionInfo(dst)
		for _, m := range info.Members {
			if in.Assignable(m, src) {
				return true
			}
		}
		return false
	}

	// Unsubstituted parameters stand in for their declared bound.
	if st.Kind == KindTypeParam {
		info, _ := in.TypeParamInfo(src)
		return in.Assignable(dst, in.boundOrUnknown(info.Bound))
	}
	if dt.Kind == KindTypeParam {
		info, _ := in.TypeParamInfo(dst)
		return in.Assignable(in.boundOrUnknown(info.Bound), src)
	}

	if dt.Kind != st.Kind {
		return false
	}
	switch dt.Kind {
	case KindArray:
		return in.Assignable(dt.Elem, st.Elem)
	case KindMap:
		return in.Assignable(dt.Key, st.Key) && in.Assignable(dt.Elem, st.Elem)
	case KindFn:
		return in.fnAssignable(dst, src)
	default:
		// Primitives of the same kind are identical and were caught above.
		return false
	}
}

// fnAssignable checks function compatibility: the source may accept fewer
// parameters, each accepted parameter is checked contravariantly, and the
// result covariantly.
func (in *Interner) fnAssignable(dst, src TypeID) bool {
	dInfo, _ := in.FnInfo(dst)
	sInfo, _ := in.FnInfo(src)
	if !sInfo.Variadic && len(sInfo.Params) > len(dInfo.Params) && !dInfo.Variadic {
		return false
	}
	n := len(sInfo.Params)
	if len(dInfo.Params) < n && !dInfo.Variadic {
		n = len(dInfo.Params)
	}
	for i := 0; i < n; i++ {
		dp, ok := paramAt(dInfo, i)
		if !ok {
			break
		}
		sp, _ := paramAt(sInfo, i)
		if !in.Assignable(sp, dp) {
			return false
		}
	}
	return in.Assignable(dInfo.Result, sInfo.Result)
}

func paramAt(info *FnInfo, i int) (TypeID, bool) {
	if i < len(info.Params) {
		return info.Params[i], true
	}
	if info.Variadic && len(info.Params) > 0 {
		return info.Params[len(info.Params)-1], true
	}
	return NoTypeID, false
}

func (in *Interner) boundOrUnknown(bound TypeID) TypeID {
	if bound == NoTypeID {
		return in.builtins.Unknown
	}
	return bound
}
