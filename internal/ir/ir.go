// Package ir models the tree a template translator hands to the checker:
// invocation sites, block callbacks, conditional branches, and yield sites.
// It is deliberately free of template-language syntax; the translator has
// already parsed and typed the leaf expressions.
package ir

import (
	"glimt/internal/source"
	"glimt/internal/types"
)

// Form is the syntactic invocation form used at a call site.
type Form uint8

const (
	// FormEmit is a bare expression with no arguments: a no-arg invocation
	// when the target is invokable, a plain value emission otherwise.
	FormEmit Form = iota
	// FormInline is a value-producing invocation.
	FormInline
	// FormBlock is a block-accepting invocation.
	FormBlock
	// FormModifier is a modifier attachment.
	FormModifier
)

func (f Form) String() string {
	switch f {
	case FormEmit:
		return "emit"
	case FormInline:
		return "inline"
	case FormBlock:
		return "block"
	case FormModifier:
		return "modifier"
	default:
		return "unknown form"
	}
}

// Value is one argument or yield operand. Either Type carries a concrete
// host type produced by the translator's expression analysis, or Ref names
// a lexically visible binding (a block callback parameter or a scope
// entity) whose type the checker resolves during the walk.
type Value struct {
	Type types.TypeID
	Ref  source.StringID
	Span source.Span
}

// NamedValue is a named argument at a call site.
type NamedValue struct {
	Name  source.StringID
	Value Value
}

// Param declares one callback parameter. Type may be NoTypeID, in which
// case the parameter inherits the block spec's declared type.
type Param struct {
	Name source.StringID
	Type types.TypeID
}

// Callback is the implementation side of one block: its name, declared
// parameters, and body. Values never leave the body directly; they leave
// only via yields.
type Callback struct {
	Block  source.StringID
	Params []Param
	Body   Body
	Span   source.Span
}

// Invocation is one call site.
type Invocation struct {
	Target     source.StringID
	Form       Form
	Named      []NamedValue
	Positional []Value
	Callbacks  []Callback
	Span       source.Span
}

// Yield hands values back out to whoever invoked the entity owning the
// enclosing body. Block names the block the containing entity exposes to
// its own caller, not the block currently executing.
type Yield struct {
	Block  source.StringID
	Values []Value
	Span   source.Span
}

// Branch contributes the union of both arms; a block yielded in only one
// arm becomes optional in the enclosing contract.
type Branch struct {
	Then Body
	Else Body
	Span source.Span
}

// Body is an ordered statement sequence.
type Body struct {
	Stmts []Stmt
}

// Stmt is one statement in a body.
type Stmt interface {
	isStmt()
}

func (*Invocation) isStmt() {}
func (*Yield) isStmt()      {}
func (*Branch) isStmt()     {}

// Template is one template body whose block contract the checker infers.
type Template struct {
	Name source.StringID
	Body Body
	Span source.Span
}
