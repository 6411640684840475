package sema

import (
	"glimt/internal/diag"
	"glimt/internal/ir"
	"glimt/internal/source"
	"glimt/internal/types"
)

// pushValues installs one callback's parameter bindings; popValues removes
// them. Bindings shadow outer callbacks and scope entities.
func (c *checker) pushValues(bindings map[source.StringID]types.TypeID) {
	c.values = append(c.values, bindings)
}

func (c *checker) popValues() {
	if len(c.values) == 0 {
		return
	}
	c.values = c.values[:len(c.values)-1]
}

// lookupValue resolves a lexically visible value: callback parameters from
// innermost outward, then scope entities.
func (c *checker) lookupValue(name source.StringID) (types.TypeID, bool) {
	for i := len(c.values) - 1; i >= 0; i-- {
		if t, ok := c.values[i][name]; ok {
			return t, true
		}
	}
	if ent, ok := c.scope[name]; ok {
		return ent.Type, true
	}
	return types.NoTypeID, false
}

// valueType resolves one operand to its host type. A missing reference is
// reported and degrades to invalid so one bad operand does not cascade.
func (c *checker) valueType(v ir.Value) types.TypeID {
	if v.Type != types.NoTypeID {
		return v.Type
	}
	if v.Ref == source.NoStringID {
		return types.NoTypeID
	}
	if found, ok := c.lookupValue(v.Ref); ok {
		return found
	}
	c.errorf(diag.ResNotFound, v.Span, "unresolved reference "+c.name(v.Ref))
	return types.NoTypeID
}
