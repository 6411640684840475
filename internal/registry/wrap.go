package registry

import (
	"glimt/internal/sig"
	"glimt/internal/source"
)

// Wrap derives the signature of a component-wrapping invocation: the base
// entity's signature with the pre-bound named-argument keys subtracted.
// The remaining named arguments become optional, since the eventual caller
// may supply them or rely on the pre-bound entity's defaults. Blocks and
// completion pass through untouched.
func Wrap(base *sig.Signature, bound []source.StringID) *sig.Signature {
	out := base.Clone()
	kept := out.Named[:0]
	for _, arg := range out.Named {
		if containsName(bound, arg.Name) {
			continue
		}
		arg.Optional = true
		kept = append(kept, arg)
	}
	out.Named = kept
	return out
}

func containsName(names []source.StringID, name source.StringID) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
