package sig

import (
	"testing"

	"glimt/internal/source"
	"glimt/internal/types"
)

func TestPositionalAtHonorsVariadicTail(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	s := &Signature{
		Positional: []types.TypeID{b.String, b.Number},
		Variadic:   true,
	}
	if got, _ := s.PositionalAt(0); got != b.String {
		t.Fatalf("expected string at 0, got %d", got)
	}
	for i := 1; i < 5; i++ {
		got, ok := s.PositionalAt(i)
		if !ok || got != b.Number {
			t.Fatalf("expected number at %d, got %d ok=%v", i, got, ok)
		}
	}
	if s.MinPositional() != 1 {
		t.Fatalf("expected 1 mandatory positional, got %d", s.MinPositional())
	}
}

func TestPositionalAtFixedArity(t *testing.T) {
	in := types.NewInterner()
	s := &Signature{Positional: []types.TypeID{in.Builtins().Bool}}
	if _, ok := s.PositionalAt(1); ok {
		t.Fatalf("expected no type past fixed arity")
	}
}

func TestBlockSetFindAndMandatory(t *testing.T) {
	strs := source.NewInterner()
	in := types.NewInterner()
	b := in.Builtins()
	def := strs.Intern("default")
	inv := strs.Intern("inverse")
	bs := NewBlockSet(
		BlockSpec{Name: def, Params: []types.TypeID{b.Number}},
		BlockSpec{Name: inv, Optional: true},
	)
	if _, ok := bs.Find(def); !ok {
		t.Fatalf("default block missing")
	}
	mandatory := bs.Mandatory()
	if len(mandatory) != 1 || mandatory[0] != def {
		t.Fatalf("unexpected mandatory set %v", mandatory)
	}
}

func TestBlockSetDuplicateKeepsFirst(t *testing.T) {
	strs := source.NewInterner()
	in := types.NewInterner()
	b := in.Builtins()
	def := strs.Intern("default")
	bs := NewBlockSet(
		BlockSpec{Name: def, Params: []types.TypeID{b.Number}},
		BlockSpec{Name: def, Params: []types.TypeID{b.String}},
	)
	spec, _ := bs.Find(def)
	if bs.Len() != 1 || spec.Params[0] != b.Number {
		t.Fatalf("expected first spec to win, got %+v", spec)
	}
}

func TestWithSpecDoesNotMutateReceiver(t *testing.T) {
	strs := source.NewInterner()
	def := strs.Intern("default")
	extra := strs.Intern("extra")
	bs := NewBlockSet(BlockSpec{Name: def})
	widened := bs.WithSpec(BlockSpec{Name: extra, Optional: true})
	if bs.Len() != 1 {
		t.Fatalf("receiver mutated: %d specs", bs.Len())
	}
	if widened.Len() != 2 {
		t.Fatalf("expected widened copy with 2 specs, got %d", widened.Len())
	}
}

func TestEntityInvokable(t *testing.T) {
	in := types.NewInterner()
	plain := &Entity{Type: in.Builtins().String}
	if plain.Invokable() {
		t.Fatalf("entity without signature must not be invokable")
	}
	helper := &Entity{Type: in.Builtins().Unknown, Sig: &Signature{Completion: ReturnsValue}}
	if !helper.Invokable() {
		t.Fatalf("entity with signature must be invokable")
	}
}
