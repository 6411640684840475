package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates the host-level types a template value can have.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindUnknown is the universal degraded type: the declared fallback for
	// type parameters left unfixed after argument binding. It is assignable
	// in both directions.
	KindUnknown
	KindVoid
	KindBool
	KindString
	KindNumber
	KindArray
	KindMap
	KindFn
	KindUnion
	KindTypeParam
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnknown:
		return "unknown"
	case KindVoid:
		return "void"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindFn:
		return "fn"
	case KindUnion:
		return "union"
	case KindTypeParam:
		return "type param"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a compact descriptor for any supported type. Arrays use Elem,
// maps use Key+Elem; functions, unions, and type parameters keep their
// metadata in payload tables indexed by Payload.
type Type struct {
	Kind    Kind
	Elem    TypeID
	Key     TypeID // for maps
	Payload uint32 // slot in the per-kind info table
}

// MakeArray describes T[].
func MakeArray(elem TypeID) Type {
	return Type{Kind: KindArray, Elem: elem}
}

// MakeMap describes a keyed collection.
func MakeMap(key, value TypeID) Type {
	return Type{Kind: KindMap, Key: key, Elem: value}
}
