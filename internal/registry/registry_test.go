package registry

import (
	"testing"

	"glimt/internal/sig"
	"glimt/internal/source"
	"glimt/internal/types"
)

func TestDefaultTableLookup(t *testing.T) {
	in := types.NewInterner()
	strs := source.NewInterner()
	table := Default(in, strs)

	for _, name := range []string{"each", "each-in", "let", "if", "unless", "concat", "array", "hash", "on", "log", "fn", "component"} {
		if _, ok := table.Lookup(strs.Intern(name)); !ok {
			t.Fatalf("missing builtin %q", name)
		}
	}
	if _, ok := table.Lookup(strs.Intern("nope")); ok {
		t.Fatalf("unexpected entry for unregistered name")
	}
	if len(table.Names()) != 12 {
		t.Fatalf("unexpected name count %d", len(table.Names()))
	}
}

func TestEachSignatureShape(t *testing.T) {
	in := types.NewInterner()
	strs := source.NewInterner()
	table := Default(in, strs)

	entry, _ := table.Lookup(strs.Intern("each"))
	s := entry.Single()
	if s == nil {
		t.Fatalf("each must have exactly one overload")
	}
	if s.Completion != sig.AcceptsBlocks {
		t.Fatalf("each must accept blocks, got %v", s.Completion)
	}
	def, ok := s.Blocks.Find(strs.Intern("default"))
	if !ok || len(def.Params) != 2 {
		t.Fatalf("each default block must take (item, index), got %+v", def)
	}
	inv, ok := s.Blocks.Find(strs.Intern("inverse"))
	if !ok || !inv.Optional {
		t.Fatalf("each inverse block must be optional, got %+v", inv)
	}
	if len(s.TypeParams) != 1 {
		t.Fatalf("each must have one type param")
	}
	itemsType := in.MustLookup(s.Positional[0])
	if itemsType.Kind != types.KindArray || itemsType.Elem != s.TypeParams[0] {
		t.Fatalf("each items must be T[]")
	}
}

func TestLetOverloadsPerArity(t *testing.T) {
	in := types.NewInterner()
	strs := source.NewInterner()
	table := Default(in, strs)

	entry, _ := table.Lookup(strs.Intern("let"))
	if len(entry.Overloads) != 4 {
		t.Fatalf("expected 4 let overloads, got %d", len(entry.Overloads))
	}
	for i, overload := range entry.Overloads {
		arity := i + 1
		if len(overload.Positional) != arity {
			t.Fatalf("overload %d has %d positionals", i, len(overload.Positional))
		}
		def, ok := overload.Blocks.Find(strs.Intern("default"))
		if !ok || len(def.Params) != arity {
			t.Fatalf("let default block params must mirror positionals")
		}
	}
}

func TestFnOverloadShapes(t *testing.T) {
	in := types.NewInterner()
	strs := source.NewInterner()
	table := Default(in, strs)

	entry, _ := table.Lookup(strs.Intern("fn"))
	// (params, bound) pairs with bound <= params <= 4.
	if len(entry.Overloads) != 15 {
		t.Fatalf("expected 15 fn overloads, got %d", len(entry.Overloads))
	}
	for _, overload := range entry.Overloads {
		if overload.Completion != sig.ReturnsValue {
			t.Fatalf("fn overloads return values")
		}
		fnInfo, ok := in.FnInfo(overload.Positional[0])
		if !ok {
			t.Fatalf("first positional of fn must be a function")
		}
		bound := len(overload.Positional) - 1
		resInfo, ok := in.FnInfo(overload.Result)
		if !ok {
			t.Fatalf("fn result must be a function")
		}
		if len(resInfo.Params) != len(fnInfo.Params)-bound {
			t.Fatalf("fn result arity %d, want %d", len(resInfo.Params), len(fnInfo.Params)-bound)
		}
	}
}

func TestHashIsOpenNamed(t *testing.T) {
	in := types.NewInterner()
	strs := source.NewInterner()
	table := Default(in, strs)
	entry, _ := table.Lookup(strs.Intern("hash"))
	if s := entry.Single(); s == nil || !s.OpenNamed {
		t.Fatalf("hash must accept arbitrary named arguments")
	}
}

func TestWrapSubtractsBoundKeysAndRelaxesRest(t *testing.T) {
	in := types.NewInterner()
	strs := source.NewInterner()
	b := in.Builtins()

	title := strs.Intern("title")
	body := strs.Intern("body")
	base := &sig.Signature{
		Named: []sig.NamedArg{
			{Name: title, Type: b.String},
			{Name: body, Type: b.String},
		},
		Completion: sig.AcceptsBlocks,
		Blocks:     sig.NewBlockSet(sig.BlockSpec{Name: strs.Intern("default")}),
	}

	wrapped := Wrap(base, []source.StringID{title})
	if _, ok := wrapped.NamedArgFor(title); ok {
		t.Fatalf("pre-bound key must be subtracted")
	}
	rest, ok := wrapped.NamedArgFor(body)
	if !ok || !rest.Optional {
		t.Fatalf("remaining keys must become optional, got %+v", rest)
	}
	if wrapped.Completion != sig.AcceptsBlocks || wrapped.Blocks.Len() != 1 {
		t.Fatalf("blocks and completion must pass through")
	}
	// The base signature is untouched.
	if arg, _ := base.NamedArgFor(body); arg.Optional {
		t.Fatalf("Wrap must not mutate its input")
	}
}
