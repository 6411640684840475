package types

import (
	"testing"

	"glimt/internal/source"
)

func TestInternerBuiltins(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if b.Unknown == NoTypeID || b.Bool == NoTypeID {
		t.Fatalf("builtins not initialized")
	}
	str, _ := in.Lookup(b.String)
	if str.Kind != KindString {
		t.Fatalf("expected string kind, got %v", str.Kind)
	}
}

func TestInternerDeduplicatesDescriptors(t *testing.T) {
	in := NewInterner()
	arr1 := in.Array(in.Builtins().String)
	arr2 := in.Array(in.Builtins().String)
	if arr1 != arr2 {
		t.Fatalf("array types should be deduplicated")
	}
}

func TestRegisterFnDeduplicates(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	f1 := in.RegisterFn([]TypeID{b.Number, b.String}, false, b.Bool)
	f2 := in.RegisterFn([]TypeID{b.Number, b.String}, false, b.Bool)
	if f1 != f2 {
		t.Fatalf("identical function types must intern to one id")
	}
	f3 := in.RegisterFn([]TypeID{b.Number, b.String}, true, b.Bool)
	if f3 == f1 {
		t.Fatalf("variadic flag must affect identity")
	}
}

func TestUnionNormalization(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	u1 := in.Union(b.Number, b.String)
	u2 := in.Union(b.String, b.Number, b.Number)
	if u1 != u2 {
		t.Fatalf("unions must be order-insensitive and deduplicated")
	}
	if single := in.Union(b.Bool); single != b.Bool {
		t.Fatalf("single-member union must collapse, got %d", single)
	}
	nested := in.Union(u1, b.Bool)
	info, ok := in.UnionInfo(nested)
	if !ok || len(info.Members) != 3 {
		t.Fatalf("nested union must flatten to 3 members, got %+v", info)
	}
	if u := in.Union(b.String, b.Unknown); u != b.Unknown {
		t.Fatalf("union with unknown must collapse to unknown")
	}
}

func TestTypeParamsAreNeverShared(t *testing.T) {
	in := NewInterner()
	strs := source.NewInterner()
	name := strs.Intern("T")
	p1 := in.RegisterTypeParam(name, NoTypeID)
	p2 := in.RegisterTypeParam(name, NoTypeID)
	if p1 == p2 {
		t.Fatalf("type params with the same name must stay distinct")
	}
}

func TestSubstituteRebuildsStructurally(t *testing.T) {
	in := NewInterner()
	strs := source.NewInterner()
	b := in.Builtins()
	p := in.RegisterTypeParam(strs.Intern("T"), NoTypeID)
	arr := in.Array(p)
	fn := in.RegisterFn([]TypeID{p, b.Number}, false, arr)

	got := in.Substitute(fn, Subst{p: b.String})
	info, ok := in.FnInfo(got)
	if !ok {
		t.Fatalf("expected fn type after substitution")
	}
	if info.Params[0] != b.String {
		t.Fatalf("param not substituted: %v", info.Params)
	}
	if info.Result != in.Array(b.String) {
		t.Fatalf("result not substituted: %v", info.Result)
	}
	if in.Substitute(fn, Subst{}) != fn {
		t.Fatalf("empty substitution must be identity")
	}
}

func TestFreeParams(t *testing.T) {
	in := NewInterner()
	strs := source.NewInterner()
	p1 := in.RegisterTypeParam(strs.Intern("T"), NoTypeID)
	p2 := in.RegisterTypeParam(strs.Intern("U"), NoTypeID)
	fn := in.RegisterFn([]TypeID{p1, in.Array(p2)}, false, p1)
	free := in.FreeParams(fn, nil)
	if len(free) != 2 {
		t.Fatalf("expected 2 free params, got %v", free)
	}
}
