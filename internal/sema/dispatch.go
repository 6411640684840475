package sema

import (
	"strconv"

	"glimt/internal/diag"
	"glimt/internal/ir"
	"glimt/internal/registry"
	"glimt/internal/sig"
	"glimt/internal/source"
	"glimt/internal/types"
)

// checkInvocation types one call site: resolve the target, bind the
// arguments, then validate the syntactic form against the bound
// signature's completion kind. Resolution and binding failures suppress
// the form check so one bad call site yields one diagnostic.
func (c *checker) checkInvocation(inv *ir.Invocation, acc *contribAcc) {
	var (
		r  resolved
		ok bool
	)
	if inv.Form == ir.FormEmit {
		r, ok = c.resolveOrReturn(inv.Target, inv.Span)
	} else {
		r, ok = c.resolve(inv.Target, inv.Span)
	}
	if !ok {
		return
	}
	if r.entry != nil && r.entry.Component {
		c.invokeComponent(inv)
		return
	}

	named, positional := c.resolveArgs(inv)
	var bound *sig.Signature
	if r.entry != nil {
		bound, ok = c.bindEntry(r.entry, named, positional, inv.Span)
	} else {
		bound, ok = c.bind(r.entity.Sig, named, positional, inv.Span, c.reporter)
	}
	if !ok {
		return
	}

	switch inv.Form {
	case ir.FormEmit, ir.FormInline:
		c.invokeInline(inv, bound)
	case ir.FormModifier:
		c.invokeModifier(inv, bound)
	case ir.FormBlock:
		c.invokeBlock(inv, bound, acc)
	}
}

// invokeInline accepts only value-returning completions and records the
// call site's type.
func (c *checker) invokeInline(inv *ir.Invocation, bound *sig.Signature) {
	if bound.Completion != sig.ReturnsValue {
		c.errorf(diag.DispatchNotInvokableInline, inv.Span,
			c.name(inv.Target)+" "+bound.Completion.String()+" and cannot appear in value position")
		return
	}
	result := bound.Result
	if result == types.NoTypeID {
		result = c.types.Builtins().Unknown
	}
	c.res.InvocationTypes[inv] = result
}

// invokeModifier accepts only modifier-creating completions. Modifiers
// attach to their element; the call site itself produces no value.
func (c *checker) invokeModifier(inv *ir.Invocation, bound *sig.Signature) {
	if bound.Completion != sig.CreatesModifier {
		c.errorf(diag.DispatchNotAModifier, inv.Span,
			c.name(inv.Target)+" "+bound.Completion.String()+" and cannot be attached as a modifier")
	}
}

// invokeBlock validates the supplied callbacks against the specialized
// block contract. Argument binding has already eliminated the signature's
// type parameters, so the spec's parameter types seen here are concrete.
// Like bind, the checks run in a fixed order and the first failure wins;
// one call site never emits more than one diagnostic. Yields inside
// callback bodies contribute to the enclosing template's contract as
// optional: nothing guarantees the invoked entity runs any callback at
// all.
func (c *checker) invokeBlock(inv *ir.Invocation, bound *sig.Signature, acc *contribAcc) {
	if bound.Completion != sig.AcceptsBlocks {
		c.errorf(diag.DispatchNotBlockAccepting, inv.Span,
			c.name(inv.Target)+" "+bound.Completion.String()+" and cannot be invoked with blocks")
		return
	}
	supplied := make(map[source.StringID]bool, len(inv.Callbacks))
	for _, cb := range inv.Callbacks {
		supplied[cb.Block] = true
	}
	for _, want := range bound.Blocks.Mandatory() {
		if !supplied[want] {
			c.errorf(diag.BlockNameMismatch, inv.Span,
				c.name(inv.Target)+" requires block "+c.name(want))
			return
		}
	}

	for i := range inv.Callbacks {
		cb := &inv.Callbacks[i]
		spec, ok := bound.Blocks.Find(cb.Block)
		if !ok {
			c.errorf(diag.BlockNameMismatch, cb.Span,
				c.name(inv.Target)+" does not invoke a block named "+c.name(cb.Block))
			return
		}
		bindings, ok := c.bindCallbackParams(cb, spec)
		if !ok {
			return
		}
		nested := newContribAcc()
		c.pushValues(bindings)
		c.checkBody(cb.Body, nested)
		c.popValues()
		acc.mergeOptional(c, nested)
	}
}

// bindCallbackParams checks one callback's declared parameters against the
// values the block provides. Declaring fewer parameters than the block
// provides is fine; declaring more, or declaring a type the provided value
// does not fit, is a parameter mismatch. Undeclared types inherit the
// spec's.
func (c *checker) bindCallbackParams(cb *ir.Callback, spec sig.BlockSpec) (map[source.StringID]types.TypeID, bool) {
	if len(cb.Params) > len(spec.Params) {
		c.errorf(diag.BlockParameterMismatch, cb.Span,
			"block "+c.name(cb.Block)+" provides "+strconv.Itoa(len(spec.Params))+
				" parameters, callback declares "+strconv.Itoa(len(cb.Params)))
		return nil, false
	}
	bindings := make(map[source.StringID]types.TypeID, len(cb.Params))
	for i, p := range cb.Params {
		provided := spec.Params[i]
		effective := provided
		if p.Type != types.NoTypeID {
			if !c.assignableArg(p.Type, provided) {
				c.errorf(diag.BlockParameterMismatch, cb.Span,
					"block "+c.name(cb.Block)+" parameter "+c.name(p.Name)+
						" declares "+c.fmtType(p.Type)+", but the block provides "+c.fmtType(provided))
				return nil, false
			}
			effective = p.Type
		}
		if effective == types.NoTypeID {
			effective = c.types.Builtins().Unknown
		}
		bindings[p.Name] = effective
	}
	return bindings, true
}

// invokeComponent derives a call-site signature for the wrapping
// primitive: the named entity's signature with the supplied named keys
// pre-bound and subtracted. The wrapper is an opaque value until invoked,
// so the call site types as unknown.
func (c *checker) invokeComponent(inv *ir.Invocation) {
	if inv.Form == ir.FormBlock {
		c.errorf(diag.DispatchNotBlockAccepting, inv.Span,
			"component returns a wrapper value and cannot be invoked with blocks")
		return
	}
	if inv.Form == ir.FormModifier {
		c.errorf(diag.DispatchNotAModifier, inv.Span,
			"component returns a wrapper value and cannot be attached as a modifier")
		return
	}
	if len(inv.Positional) != 1 {
		c.errorf(diag.BindArityMismatch, inv.Span,
			"component expects 1 positional argument, got "+strconv.Itoa(len(inv.Positional)))
		return
	}
	target := inv.Positional[0]
	if target.Ref == source.NoStringID {
		c.errorf(diag.ResNoSignature, target.Span,
			"component requires a named invokable, not a computed value")
		return
	}
	r, ok := c.lookupTarget(target.Ref, target.Span)
	if !ok {
		c.errorf(diag.ResNotFound, target.Span, "unresolved identifier "+c.name(target.Ref))
		return
	}
	if r.entry != nil {
		c.errorf(diag.ResNoSignature, target.Span,
			c.name(target.Ref)+" is a language primitive and cannot be wrapped")
		return
	}
	if !r.entity.Invokable() {
		c.errorf(diag.ResNoSignature, target.Span,
			c.name(target.Ref)+" has no signature and cannot be wrapped")
		return
	}
	base := r.entity.Sig

	// Pre-bound keys must exist on the base and fit its declared types.
	// Generic bases fix their parameters from whichever keys are supplied;
	// the rest degrade, same as a direct call.
	owned := make(map[types.TypeID]bool, len(base.TypeParams))
	for _, p := range base.TypeParams {
		owned[p] = true
	}
	subst := make(types.Subst, len(base.TypeParams))
	named, _ := c.resolveArgs(inv)
	var boundKeys []source.StringID
	for _, a := range named {
		decl, ok := base.NamedArgFor(a.name)
		if !ok && !base.OpenNamed {
			c.errorf(diag.BindUnknownArgument, a.span,
				c.name(target.Ref)+" does not accept named argument "+c.name(a.name))
			return
		}
		if ok {
			c.unify(decl.Type, a.t, owned, subst)
		}
		boundKeys = append(boundKeys, a.name)
	}
	c.degrade(base.TypeParams, subst)
	for _, a := range named {
		decl, ok := base.NamedArgFor(a.name)
		if !ok {
			continue
		}
		want := c.types.Substitute(decl.Type, subst)
		if !c.assignableArg(want, a.t) {
			c.errorf(diag.BindArgumentTypeMismatch, a.span,
				"named argument "+c.name(a.name)+" expects "+c.fmtType(want)+", got "+c.fmtType(a.t))
			return
		}
	}

	c.res.Wrapped[inv] = registry.Wrap(c.specialize(base, subst), boundKeys)
	c.res.InvocationTypes[inv] = c.types.Builtins().Unknown
}
