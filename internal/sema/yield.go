package sema

import (
	"glimt/internal/ir"
	"glimt/internal/sig"
	"glimt/internal/source"
	"glimt/internal/types"
)

// blockAcc accumulates what a template yields to one of its blocks.
// Parameter types union elementwise across yield sites; always records
// whether every control-flow path through the body reaches a yield.
type blockAcc struct {
	params []types.TypeID
	always bool
}

// contribAcc folds a body's yield contributions into a block contract.
type contribAcc struct {
	blocks map[source.StringID]*blockAcc
}

func newContribAcc() *contribAcc {
	return &contribAcc{blocks: make(map[source.StringID]*blockAcc)}
}

// add merges one yield site's value types. A block yielded with differing
// arities keeps the longer shape; positions absent from some sites degrade
// to unknown since the block body cannot rely on them.
func (a *contribAcc) add(c *checker, block source.StringID, values []types.TypeID, always bool) {
	acc, ok := a.blocks[block]
	if !ok {
		a.blocks[block] = &blockAcc{
			params: append([]types.TypeID(nil), values...),
			always: always,
		}
		return
	}
	unknown := c.types.Builtins().Unknown
	for len(acc.params) < len(values) {
		acc.params = append(acc.params, unknown)
	}
	for i := range acc.params {
		if i < len(values) {
			acc.params[i] = c.types.Union(acc.params[i], values[i])
		} else {
			acc.params[i] = unknown
		}
	}
	acc.always = acc.always || always
}

// mergeOptional folds contributions gathered inside an invoked callback.
// The invoked entity decides whether, and how often, callbacks run, so
// nothing yielded there can be guaranteed.
func (a *contribAcc) mergeOptional(c *checker, nested *contribAcc) {
	for name, acc := range nested.blocks {
		a.add(c, name, acc.params, false)
	}
}

// mergeBranch folds the two arms of a conditional. A block is guaranteed
// only when both arms guarantee it.
func (a *contribAcc) mergeBranch(c *checker, then, els *contribAcc) {
	for name, acc := range then.blocks {
		other, both := els.blocks[name]
		a.add(c, name, acc.params, acc.always && both && other.always)
	}
	for name, acc := range els.blocks {
		a.add(c, name, acc.params, false)
	}
}

// contract renders the accumulated contributions as a block set: a block
// not yielded on every path is optional.
func (a *contribAcc) contract() sig.BlockSet {
	specs := make([]sig.BlockSpec, 0, len(a.blocks))
	for name, acc := range a.blocks {
		specs = append(specs, sig.BlockSpec{
			Name:     name,
			Params:   acc.params,
			Optional: !acc.always,
		})
	}
	return sig.NewBlockSet(specs...)
}

// checkBody walks one statement sequence, typing invocations and folding
// yields into acc. Statements at this level execute unconditionally, so
// their yields are guaranteed.
func (c *checker) checkBody(body ir.Body, acc *contribAcc) {
	for _, stmt := range body.Stmts {
		switch s := stmt.(type) {
		case *ir.Invocation:
			c.checkInvocation(s, acc)
		case *ir.Yield:
			values := make([]types.TypeID, len(s.Values))
			for i, v := range s.Values {
				values[i] = c.valueType(v)
				if values[i] == types.NoTypeID {
					values[i] = c.types.Builtins().Unknown
				}
			}
			acc.add(c, s.Block, values, true)
		case *ir.Branch:
			then := newContribAcc()
			els := newContribAcc()
			c.checkBody(s.Then, then)
			c.checkBody(s.Else, els)
			acc.mergeBranch(c, then, els)
		}
	}
}

// template infers one template's signature by folding its body. The result
// always accepts blocks; a template that never yields exposes an empty
// contract.
func (c *checker) template(tpl *ir.Template) *sig.Signature {
	acc := newContribAcc()
	c.checkBody(tpl.Body, acc)
	return &sig.Signature{
		Name:       tpl.Name,
		Completion: sig.AcceptsBlocks,
		Blocks:     acc.contract(),
	}
}
