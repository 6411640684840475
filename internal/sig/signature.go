// Package sig defines the signature model: the typed description of how a
// template entity is called. A signature is a curried shape
// (named, ...positional) -> (blocks) -> completion: arguments are always
// bound before blocks are consulted, matching the order information becomes
// available at a call site.
package sig

import (
	"glimt/internal/source"
	"glimt/internal/types"
)

// CompletionKind discriminates what an invocation completes to. The three
// kinds are mutually exclusive: an entity returns a value, accepts blocks,
// or creates a modifier, never more than one.
type CompletionKind uint8

const (
	ReturnsValue CompletionKind = iota
	AcceptsBlocks
	CreatesModifier
)

func (k CompletionKind) String() string {
	switch k {
	case ReturnsValue:
		return "returns value"
	case AcceptsBlocks:
		return "accepts blocks"
	case CreatesModifier:
		return "creates modifier"
	default:
		return "unknown completion"
	}
}

// NamedArg declares one named argument. Declaration order is preserved
// because type parameters are fixed at their first occurrence.
type NamedArg struct {
	Name     source.StringID
	Type     types.TypeID
	Optional bool
}

// Signature describes one invokable template entity. Values are immutable;
// binding produces a new specialized signature, never an in-place change.
type Signature struct {
	// Name is used in diagnostics only.
	Name source.StringID

	Named []NamedArg
	// OpenNamed accepts arbitrary named arguments beyond the declared ones
	// (the hash primitive). Undeclared names type as unknown.
	OpenNamed  bool
	Positional []types.TypeID
	// Variadic marks the last positional type as consuming all remaining
	// positions.
	Variadic bool

	// TypeParams lists the free type parameters that may occur in argument,
	// block parameter, or completion types. Binding eliminates them.
	TypeParams []types.TypeID

	Completion CompletionKind
	// Result is the completion type for ReturnsValue.
	Result types.TypeID
	// Blocks is the block contract for AcceptsBlocks.
	Blocks BlockSet
}

// NamedArgFor returns the declared named argument, if any.
func (s *Signature) NamedArgFor(name source.StringID) (NamedArg, bool) {
	for _, a := range s.Named {
		if a.Name == name {
			return a, true
		}
	}
	return NamedArg{}, false
}

// MinPositional returns the number of mandatory positional arguments.
func (s *Signature) MinPositional() int {
	if s.Variadic && len(s.Positional) > 0 {
		return len(s.Positional) - 1
	}
	return len(s.Positional)
}

// PositionalAt returns the declared type for position i, honoring a
// variadic tail.
func (s *Signature) PositionalAt(i int) (types.TypeID, bool) {
	if i < len(s.Positional) {
		return s.Positional[i], true
	}
	if s.Variadic && len(s.Positional) > 0 {
		return s.Positional[len(s.Positional)-1], true
	}
	return types.NoTypeID, false
}

// Clone returns a deep copy sharing no slices with the receiver.
func (s *Signature) Clone() *Signature {
	out := *s
	out.Named = append([]NamedArg(nil), s.Named...)
	out.Positional = append([]types.TypeID(nil), s.Positional...)
	out.TypeParams = append([]types.TypeID(nil), s.TypeParams...)
	out.Blocks = s.Blocks.Clone()
	return &out
}

// Entity is a template-scope value. Every entity carries a host type; only
// invokable entities carry a signature. Keeping the signature an explicit
// field (rather than overloading a callable type) lets the dispatcher treat
// "invokable but not directly callable" as a type-level distinction.
type Entity struct {
	Name source.StringID
	Type types.TypeID
	Sig  *Signature
}

// Invokable reports whether the entity carries a signature.
func (e *Entity) Invokable() bool {
	return e != nil && e.Sig != nil
}
