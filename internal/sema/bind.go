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

// argVal is one call-site argument with its operand already resolved to a
// host type. Resolution happens once per invocation so overload trials do
// not re-report unresolved references.
type argVal struct {
	name source.StringID
	t    types.TypeID
	span source.Span
}

func (c *checker) resolveArgs(inv *ir.Invocation) (named []argVal, positional []argVal) {
	for _, na := range inv.Named {
		named = append(named, argVal{
			name: na.Name,
			t:    c.valueType(na.Value),
			span: na.Value.Span,
		})
	}
	for _, v := range inv.Positional {
		positional = append(positional, argVal{t: c.valueType(v), span: v.Span})
	}
	return named, positional
}

// countReporter counts diagnostics during overload trials without emitting
// them.
type countReporter struct{ n int }

func (r *countReporter) Report(diag.Diagnostic) { r.n++ }

// bind specializes a signature against resolved call-site arguments.
// Checks run in a fixed order with the first failure winning: mandatory
// named arguments, unknown named arguments, positional arity, then
// per-argument type compatibility. Type parameters are fixed by
// unification at their first occurrence (declared named order first, then
// positionals) before any argument is type checked, and parameters the
// arguments never constrain degrade to their bound or to unknown. The
// returned signature is fully specialized: no free type parameters remain,
// so the caller can read block shapes and completion types directly.
func (c *checker) bind(s *sig.Signature, named, positional []argVal, span source.Span, r diag.Reporter) (*sig.Signature, bool) {
	for _, decl := range s.Named {
		if decl.Optional {
			continue
		}
		if _, ok := findArg(named, decl.Name); !ok {
			diag.Error(r, diag.BindMissingArgument, span,
				c.name(s.Name)+" requires named argument "+c.name(decl.Name))
			return nil, false
		}
	}
	if !s.OpenNamed {
		for _, a := range named {
			if _, ok := s.NamedArgFor(a.name); !ok {
				diag.Error(r, diag.BindUnknownArgument, a.span,
					c.name(s.Name)+" does not accept named argument "+c.name(a.name))
				return nil, false
			}
		}
	}
	if n := len(positional); n < s.MinPositional() || (n > len(s.Positional) && !s.Variadic) {
		diag.Error(r, diag.BindArityMismatch, span,
			c.name(s.Name)+" expects "+arityText(s)+" positional arguments, got "+strconv.Itoa(n))
		return nil, false
	}

	owned := make(map[types.TypeID]bool, len(s.TypeParams))
	for _, p := range s.TypeParams {
		owned[p] = true
	}
	subst := make(types.Subst, len(s.TypeParams))

	// Unify everything before checking anything: a parameter fixed by a
	// later argument must already be visible when an earlier argument's
	// declared type is validated.
	for _, decl := range s.Named {
		if a, ok := findArg(named, decl.Name); ok {
			c.unify(decl.Type, a.t, owned, subst)
		}
	}
	for i, a := range positional {
		if decl, ok := s.PositionalAt(i); ok {
			c.unify(decl, a.t, owned, subst)
		}
	}
	c.degrade(s.TypeParams, subst)

	for _, decl := range s.Named {
		a, ok := findArg(named, decl.Name)
		if !ok {
			continue
		}
		want := c.types.Substitute(decl.Type, subst)
		if !c.assignableArg(want, a.t) {
			diag.Error(r, diag.BindArgumentTypeMismatch, a.span,
				"named argument "+c.name(decl.Name)+" expects "+c.fmtType(want)+", got "+c.fmtType(a.t))
			return nil, false
		}
	}
	for i, a := range positional {
		decl, ok := s.PositionalAt(i)
		if !ok {
			continue
		}
		want := c.types.Substitute(decl, subst)
		if !c.assignableArg(want, a.t) {
			diag.Error(r, diag.BindArgumentTypeMismatch, a.span,
				"argument "+strconv.Itoa(i+1)+" expects "+c.fmtType(want)+", got "+c.fmtType(a.t))
			return nil, false
		}
	}

	return c.specialize(s, subst), true
}

// bindEntry binds against a registry entry. A single overload reports its
// own failures; with several, each is tried silently in table order and
// the first that binds wins, so arity-specialized families list their
// exact-match shapes first.
func (c *checker) bindEntry(entry *registry.Entry, named, positional []argVal, span source.Span) (*sig.Signature, bool) {
	if s := entry.Single(); s != nil {
		return c.bind(s, named, positional, span, c.reporter)
	}
	for _, overload := range entry.Overloads {
		trial := &countReporter{}
		if bound, ok := c.bind(overload, named, positional, span, trial); ok && trial.n == 0 {
			return bound, true
		}
	}
	c.errorf(diag.BindNoOverload, span,
		"no overload of "+c.name(entry.Name)+" matches "+strconv.Itoa(len(positional))+" positional arguments")
	return nil, false
}

// assignableArg wraps assignability with tolerance for operands whose own
// resolution already failed: an invalid source type never produces a
// second diagnostic at the call site.
func (c *checker) assignableArg(dst, src types.TypeID) bool {
	if src == types.NoTypeID || dst == types.NoTypeID {
		return true
	}
	return c.types.Assignable(dst, src)
}

// specialize applies the finished substitution throughout a signature and
// strips its type parameters.
func (c *checker) specialize(s *sig.Signature, subst types.Subst) *sig.Signature {
	out := s.Clone()
	out.TypeParams = nil
	for i := range out.Named {
		out.Named[i].Type = c.types.Substitute(out.Named[i].Type, subst)
	}
	for i := range out.Positional {
		out.Positional[i] = c.types.Substitute(out.Positional[i], subst)
	}
	out.Result = c.types.Substitute(out.Result, subst)
	specs := out.Blocks.Specs()
	for i := range specs {
		spec := specs[i]
		params := make([]types.TypeID, len(spec.Params))
		for j, p := range spec.Params {
			params[j] = c.types.Substitute(p, subst)
		}
		spec.Params = params
		out.Blocks = out.Blocks.WithSpec(spec)
	}
	return out
}

func (c *checker) fmtType(id types.TypeID) string {
	return c.types.Format(id, c.strs)
}

func findArg(args []argVal, name source.StringID) (argVal, bool) {
	for _, a := range args {
		if a.name == name {
			return a, true
		}
	}
	return argVal{}, false
}

func arityText(s *sig.Signature) string {
	min := s.MinPositional()
	if s.Variadic {
		return "at least " + strconv.Itoa(min)
	}
	if min == len(s.Positional) {
		return strconv.Itoa(min)
	}
	return strconv.Itoa(min) + " to " + strconv.Itoa(len(s.Positional))
}
