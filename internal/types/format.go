package types

import (
	"strconv"
	"strings"

	"glimt/internal/source"
)

// Format renders a type for diagnostics. Type parameter names are resolved
// through the provided string interner; a nil interner falls back to the
// parameter's ordinal.
func (in *Interner) Format(id TypeID, strs *source.Interner) string {
	tt, ok := in.Lookup(id)
	if !ok {
		return "invalid"
	}
	switch tt.Kind {
	case KindArray:
		elem := in.Format(tt.Elem, strs)
		if needsParens(in, tt.Elem) {
			return "(" + elem + ")[]"
		}
		return elem + "[]"
	case KindMap:
		return "map<" + in.Format(tt.Key, strs) + ", " + in.Format(tt.Elem, strs) + ">"
	case KindFn:
		info := in.fns[tt.Payload]
		var b strings.Builder
		b.WriteByte('(')
		for i, p := range info.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			if info.Variadic && i == len(info.Params)-1 {
				b.WriteString("...")
			}
			b.WriteString(in.Format(p, strs))
		}
		b.WriteString(") -> ")
		b.WriteString(in.Format(info.Result, strs))
		return b.String()
	case KindUnion:
		info := in.unions[tt.Payload]
		parts := make([]string, len(info.Members))
		for i, m := range info.Members {
			parts[i] = in.Format(m, strs)
		}
		return strings.Join(parts, " | ")
	case KindTypeParam:
		info := in.params[tt.Payload]
		if strs != nil {
			if name, ok := strs.Lookup(info.Name); ok && name != "" {
				return name
			}
		}
		return "T" + strconv.FormatUint(uint64(tt.Payload), 10)
	default:
		return tt.Kind.String()
	}
}

func needsParens(in *Interner, id TypeID) bool {
	tt, ok := in.Lookup(id)
	return ok && (tt.Kind == KindUnion || tt.Kind == KindFn)
}
