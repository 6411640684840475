package diag

import "fmt"

// Code identifies one failure kind. All failures are static: they surface
// during checking, never at runtime, and the first failing check at a call
// site wins.
type Code uint16

const (
	UnknownCode Code = 0

	// Resolution failures.
	ResInfo Code = 1000
	// ResNoSignature: an identifier used as an invokable carries no
	// signature.
	ResNoSignature Code = 1001
	// ResNotFound: an identifier is neither in lexical scope nor in the
	// built-in registry.
	ResNotFound Code = 1002

	// Binder failures.
	BindInfo Code = 2000
	// BindMissingArgument: a mandatory named argument was not supplied.
	BindMissingArgument Code = 2001
	// BindUnknownArgument: a supplied named argument is not declared.
	BindUnknownArgument Code = 2002
	// BindArityMismatch: positional argument count is incompatible with the
	// declared shape.
	BindArityMismatch Code = 2003
	// BindArgumentTypeMismatch: a supplied argument type does not fit the
	// declared (or already-fixed) argument type.
	BindArgumentTypeMismatch Code = 2004
	// BindNoOverload: no overload of a built-in matches the supplied
	// positional arity.
	BindNoOverload Code = 2005

	// Dispatch failures: completion kind vs. invocation form.
	DispatchInfo Code = 3000
	// DispatchNotInvokableInline: inline invocation of a non-value entity.
	DispatchNotInvokableInline Code = 3001
	// DispatchNotAModifier: modifier attachment of a non-modifier entity.
	DispatchNotAModifier Code = 3002
	// DispatchNotBlockAccepting: block invocation of an entity that accepts
	// no blocks.
	DispatchNotBlockAccepting Code = 3003

	// Block contract failures.
	BlockInfo Code = 4000
	// BlockNameMismatch: provided block names are not exactly the mandatory
	// set plus a subset of the optional set.
	BlockNameMismatch Code = 4001
	// BlockParameterMismatch: a callback declares more parameters than its
	// block yields, or narrows a parameter type.
	BlockParameterMismatch Code = 4002
	// BlockRecursiveTemplate: template aggregation re-entered itself; the
	// contract is degraded instead of recomputed forever.
	BlockRecursiveTemplate Code = 4003
)

var codeDescription = map[Code]string{
	UnknownCode:                "unknown failure",
	ResInfo:                    "resolution note",
	ResNoSignature:             "entity has no signature",
	ResNotFound:                "unresolved identifier",
	BindInfo:                   "binder note",
	BindMissingArgument:        "missing named argument",
	BindUnknownArgument:        "unknown named argument",
	BindArityMismatch:          "positional arity mismatch",
	BindArgumentTypeMismatch:   "argument type mismatch",
	BindNoOverload:             "no matching overload",
	DispatchInfo:               "dispatch note",
	DispatchNotInvokableInline: "entity is not invokable inline",
	DispatchNotAModifier:       "entity is not a modifier",
	DispatchNotBlockAccepting:  "entity does not accept blocks",
	BlockInfo:                  "block note",
	BlockNameMismatch:          "block name mismatch",
	BlockParameterMismatch:     "block parameter mismatch",
	BlockRecursiveTemplate:     "recursive template contract",
}

// ID renders the stable diagnostic identifier, e.g. BIND2001.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("RES%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("BIND%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("DISP%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("BLK%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
