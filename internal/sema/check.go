// Package sema is the signature resolution and invocation-typing engine.
// It resolves template-scope identifiers to signatures, binds call-site
// arguments (fixing type parameters), validates invocation forms against
// completion kinds, and folds yield sites into each template's inferred
// block contract.
package sema

import (
	"glimt/internal/diag"
	"glimt/internal/ir"
	"glimt/internal/registry"
	"glimt/internal/sig"
	"glimt/internal/source"
	"glimt/internal/types"
)

// DefaultMaxDepth bounds template-to-template resolution depth. Recursion
// is normally cut by the in-progress guard; the depth limit is a backstop
// for pathological entity graphs.
const DefaultMaxDepth = 64

// Program is one translator handoff: the lexical scope shared by the
// templates, plus the template bodies to check.
type Program struct {
	Scope     []*sig.Entity
	Templates []*ir.Template
}

// Options configure a checking pass.
type Options struct {
	Reporter diag.Reporter
	Types    *types.Interner
	Strings  *source.Interner
	Registry *registry.Table
	MaxDepth int
}

// Result stores the artefacts of a pass.
type Result struct {
	// Signatures holds each template's inferred AcceptsBlocks signature,
	// keyed by template name.
	Signatures map[source.StringID]*sig.Signature
	// InvocationTypes records the completion type of every value-producing
	// call site.
	InvocationTypes map[*ir.Invocation]types.TypeID
	// Wrapped records the derived signature of each component-wrapping
	// call site.
	Wrapped map[*ir.Invocation]*sig.Signature
}

// Check runs the engine over a program. Diagnostics go to the reporter;
// the result is always populated, degraded entries included.
func Check(program *Program, opts Options) *Result {
	res := &Result{
		Signatures:      make(map[source.StringID]*sig.Signature),
		InvocationTypes: make(map[*ir.Invocation]types.TypeID),
		Wrapped:         make(map[*ir.Invocation]*sig.Signature),
	}
	c := &checker{
		types:      opts.Types,
		strs:       opts.Strings,
		reg:        opts.Registry,
		reporter:   opts.Reporter,
		res:        res,
		scope:      make(map[source.StringID]*sig.Entity),
		templates:  make(map[source.StringID]*ir.Template),
		inProgress: make(map[source.StringID]bool),
		maxDepth:   opts.MaxDepth,
	}
	if c.types == nil {
		c.types = types.NewInterner()
	}
	if c.strs == nil {
		c.strs = source.NewInterner()
	}
	if c.maxDepth <= 0 {
		c.maxDepth = DefaultMaxDepth
	}
	if program == nil {
		return res
	}
	for _, ent := range program.Scope {
		if ent != nil && ent.Name != source.NoStringID {
			c.scope[ent.Name] = ent
		}
	}
	for _, tpl := range program.Templates {
		if tpl != nil && tpl.Name != source.NoStringID {
			c.templates[tpl.Name] = tpl
		}
	}
	for _, tpl := range program.Templates {
		if tpl == nil {
			continue
		}
		c.ensureTemplate(tpl.Name, tpl.Span)
	}
	return res
}

type checker struct {
	types    *types.Interner
	strs     *source.Interner
	reg      *registry.Table
	reporter diag.Reporter
	res      *Result

	scope     map[source.StringID]*sig.Entity
	templates map[source.StringID]*ir.Template
	// values stacks callback parameter bindings, innermost last.
	values []map[source.StringID]types.TypeID

	inProgress map[source.StringID]bool
	depth      int
	maxDepth   int
}

func (c *checker) errorf(code diag.Code, span source.Span, msg string) {
	diag.Error(c.reporter, code, span, msg)
}

func (c *checker) name(id source.StringID) string {
	s, _ := c.strs.Lookup(id)
	return s
}

// ensureTemplate returns the template's inferred signature, computing and
// memoizing it on first use. Re-entry during computation (a recursive
// template) degrades to an empty, all-optional contract instead of
// recomputing forever.
func (c *checker) ensureTemplate(name source.StringID, span source.Span) *sig.Signature {
	if s, ok := c.res.Signatures[name]; ok {
		return s
	}
	tpl, ok := c.templates[name]
	if !ok {
		return nil
	}
	if c.inProgress[name] || c.depth >= c.maxDepth {
		c.errorf(diag.BlockRecursiveTemplate, span,
			"template "+c.name(name)+" refers to itself; its block contract degrades to empty")
		return &sig.Signature{Name: name, Completion: sig.AcceptsBlocks}
	}
	c.inProgress[name] = true
	c.depth++
	inferred := c.template(tpl)
	c.depth--
	delete(c.inProgress, name)
	c.res.Signatures[name] = inferred
	return inferred
}
