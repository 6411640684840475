package diagfmt

import (
	"strings"

	"glimt/internal/sig"
	"glimt/internal/source"
	"glimt/internal/types"
)

// Signature renders a signature in the compact syntax used by trace files
// and the registry listing:
//
//	(title: string, items: T[]) -> blocks { default(T), inverse?() }
func Signature(in *types.Interner, strs *source.Interner, s *sig.Signature) string {
	var b strings.Builder
	if len(s.TypeParams) > 0 {
		b.WriteByte('<')
		for i, p := range s.TypeParams {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(in.Format(p, strs))
		}
		b.WriteByte('>')
	}

	b.WriteByte('(')
	sep := false
	for _, na := range s.Named {
		if sep {
			b.WriteString(", ")
		}
		sep = true
		b.WriteString(lookupName(strs, na.Name))
		if na.Optional {
			b.WriteByte('?')
		}
		b.WriteString(": ")
		b.WriteString(in.Format(na.Type, strs))
	}
	if s.OpenNamed {
		if sep {
			b.WriteString(", ")
		}
		sep = true
		b.WriteString("**: unknown")
	}
	for i, p := range s.Positional {
		if sep {
			b.WriteString(", ")
		}
		sep = true
		if s.Variadic && i == len(s.Positional)-1 {
			b.WriteString("...")
		}
		b.WriteString(in.Format(p, strs))
	}
	b.WriteString(") -> ")

	switch s.Completion {
	case sig.ReturnsValue:
		if s.Result == types.NoTypeID {
			b.WriteString("unknown")
		} else {
			b.WriteString(in.Format(s.Result, strs))
		}
	case sig.CreatesModifier:
		b.WriteString("modifier")
	case sig.AcceptsBlocks:
		if s.Blocks.Empty() {
			b.WriteString("blocks {}")
			break
		}
		b.WriteString("blocks { ")
		for i, spec := range s.Blocks.Specs() {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(lookupName(strs, spec.Name))
			if spec.Optional {
				b.WriteByte('?')
			}
			b.WriteByte('(')
			for j, p := range spec.Params {
				if j > 0 {
					b.WriteString(", ")
				}
				b.WriteString(in.Format(p, strs))
			}
			b.WriteByte(')')
		}
		b.WriteString(" }")
	}
	return b.String()
}

func lookupName(strs *source.Interner, id source.StringID) string {
	name, _ := strs.Lookup(id)
	return name
}
