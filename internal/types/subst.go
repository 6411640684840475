package types

// Subst maps type parameters to the concrete types fixed for them during
// argument binding. Applying a substitution never mutates existing types;
// it interns rebuilt descriptors as needed.
type Subst map[TypeID]TypeID

// Substitute rewrites id with the substitution applied throughout.
func (in *Interner) Substitute(id TypeID, subst Subst) TypeID {
	if id == NoTypeID || len(subst) == 0 {
		return id
	}
	tt, ok := in.Lookup(id)
	if !ok {
		return id
	}
	switch tt.Kind {
	case KindTypeParam:
		if to, ok := subst[id]; ok {
			return to
		}
		return id
	case KindArray:
		elem := in.Substitute(tt.Elem, subst)
		if elem == tt.Elem {
			return id
		}
		return in.Array(elem)
	case KindMap:
		key := in.Substitute(tt.Key, subst)
		value := in.Substitute(tt.Elem, subst)
		if key == tt.Key && value == tt.Elem {
			return id
		}
		return in.Map(key, value)
	case KindFn:
		info := in.fns[tt.Payload]
		params := make([]TypeID, len(info.Params))
		changed := false
		for i, p := range info.Params {
			params[i] = in.Substitute(p, subst)
			changed = changed || params[i] != p
		}
		result := in.Substitute(info.Result, subst)
		if !changed && result == info.Result {
			return id
		}
		return in.RegisterFn(params, info.Variadic, result)
	case KindUnion:
		info := in.unions[tt.Payload]
		members := make([]TypeID, len(info.Members))
		changed := false
		for i, m := range info.Members {
			members[i] = in.Substitute(m, subst)
			changed = changed || members[i] != m
		}
		if !changed {
			return id
		}
		return in.Union(members...)
	default:
		return id
	}
}

// FreeParams appends every type parameter reachable from id to out, without
// duplicates, and returns the extended slice.
func (in *Interner) FreeParams(id TypeID, out []TypeID) []TypeID {
	tt, ok := in.Lookup(id)
	if !ok {
		return out
	}
	switch tt.Kind {
	case KindTypeParam:
		for _, seen := range out {
			if seen == id {
				return out
			}
		}
		return append(out, id)
	case KindArray:
		return in.FreeParams(tt.Elem, out)
	case KindMap:
		out = in.FreeParams(tt.Key, out)
		return in.FreeParams(tt.Elem, out)
	case KindFn:
		info := in.fns[tt.Payload]
		for _, p := range info.Params {
			out = in.FreeParams(p, out)
		}
		return in.FreeParams(info.Result, out)
	case KindUnion:
		info := in.unions[tt.Payload]
		for _, m := range info.Members {
			out = in.FreeParams(m, out)
		}
		return out
	default:
		return out
	}
}
