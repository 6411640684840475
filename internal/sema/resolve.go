package sema

import (
	"glimt/internal/diag"
	"glimt/internal/registry"
	"glimt/internal/sig"
	"glimt/internal/source"
)

// resolved is the outcome of identifier resolution: a scope entity, a
// registry entry, or neither.
type resolved struct {
	entity *sig.Entity
	entry  *registry.Entry
}

// lookupTarget finds what an invocation target names. Lexical scope wins;
// the built-in registry is consulted only on a lexical miss. A template
// name resolves to an entity carrying that template's inferred signature.
func (c *checker) lookupTarget(name source.StringID, span source.Span) (resolved, bool) {
	if ent, ok := c.scope[name]; ok {
		return resolved{entity: ent}, true
	}
	if _, ok := c.templates[name]; ok {
		inferred := c.ensureTemplate(name, span)
		return resolved{entity: &sig.Entity{Name: name, Sig: inferred}}, true
	}
	if c.reg != nil {
		if entry, ok := c.reg.Lookup(name); ok {
			return resolved{entry: entry}, true
		}
	}
	return resolved{}, false
}

// resolve maps a target to a signature-bearing resolution, failing with
// NoSignature when the named value exists but carries none and NotFound
// when nothing in scope or the registry matches.
func (c *checker) resolve(name source.StringID, span source.Span) (resolved, bool) {
	r, ok := c.lookupTarget(name, span)
	if !ok {
		c.errorf(diag.ResNotFound, span, "unresolved identifier "+c.name(name))
		return resolved{}, false
	}
	if r.entity != nil && !r.entity.Invokable() {
		c.errorf(diag.ResNoSignature, span, c.name(name)+" has no signature and cannot be invoked")
		return resolved{}, false
	}
	return r, true
}

// resolveOrReturn never fails on a signature-less value: a bare expression
// is a no-arg invocation when the referenced value is invokable, and a
// plain value emission otherwise. The synthesized zero-argument
// ReturnsValue signature folds both cases into one resolution path.
func (c *checker) resolveOrReturn(name source.StringID, span source.Span) (resolved, bool) {
	r, ok := c.lookupTarget(name, span)
	if !ok {
		// Bare references may also name a callback parameter.
		if t, found := c.lookupValue(name); found {
			return resolved{entity: &sig.Entity{
				Name: name,
				Type: t,
				Sig:  &sig.Signature{Name: name, Completion: sig.ReturnsValue, Result: t},
			}}, true
		}
		c.errorf(diag.ResNotFound, span, "unresolved identifier "+c.name(name))
		return resolved{}, false
	}
	if r.entity != nil && !r.entity.Invokable() {
		return resolved{entity: &sig.Entity{
			Name: r.entity.Name,
			Type: r.entity.Type,
			Sig:  &sig.Signature{Name: name, Completion: sig.ReturnsValue, Result: r.entity.Type},
		}}, true
	}
	return r, true
}
