package sema

import (
	"testing"

	"glimt/internal/diag"
	"glimt/internal/ir"
	"glimt/internal/sig"
	"glimt/internal/types"
)

// inlineProgram wraps one inline invocation in a throwaway template.
func inlineProgram(f *fixture, scope []*sig.Entity, inv *ir.Invocation) *Program {
	return &Program{
		Scope: scope,
		Templates: []*ir.Template{{
			Name: f.id("t"),
			Body: ir.Body{Stmts: []ir.Stmt{inv}},
		}},
	}
}

func greeter(f *fixture) *sig.Entity {
	b := f.in.Builtins()
	return &sig.Entity{
		Name: f.id("greet"),
		Type: b.Unknown,
		Sig: &sig.Signature{
			Name:       f.id("greet"),
			Named:      []sig.NamedArg{{Name: f.id("name"), Type: b.String}},
			Positional: []types.TypeID{b.Number},
			Completion: sig.ReturnsValue,
			Result:     b.String,
		},
	}
}

func TestMissingNamedArgument(t *testing.T) {
	f := newFixture()
	b := f.in.Builtins()
	inv := &ir.Invocation{
		Target:     f.id("greet"),
		Form:       ir.FormInline,
		Positional: []ir.Value{typed(b.Number)},
	}
	f.check(inlineProgram(f, []*sig.Entity{greeter(f)}, inv))
	if !f.hasCode(diag.BindMissingArgument) {
		t.Fatalf("missing mandatory named argument must be reported")
	}
}

func TestUnknownNamedArgument(t *testing.T) {
	f := newFixture()
	b := f.in.Builtins()
	inv := &ir.Invocation{
		Target: f.id("greet"),
		Form:   ir.FormInline,
		Named: []ir.NamedValue{
			{Name: f.id("name"), Value: typed(b.String)},
			{Name: f.id("bogus"), Value: typed(b.String)},
		},
		Positional: []ir.Value{typed(b.Number)},
	}
	f.check(inlineProgram(f, []*sig.Entity{greeter(f)}, inv))
	if !f.hasCode(diag.BindUnknownArgument) {
		t.Fatalf("undeclared named argument must be reported")
	}
}

func TestArityMismatch(t *testing.T) {
	f := newFixture()
	b := f.in.Builtins()
	inv := &ir.Invocation{
		Target:     f.id("greet"),
		Form:       ir.FormInline,
		Named:      []ir.NamedValue{{Name: f.id("name"), Value: typed(b.String)}},
		Positional: []ir.Value{typed(b.Number), typed(b.Number)},
	}
	f.check(inlineProgram(f, []*sig.Entity{greeter(f)}, inv))
	if !f.hasCode(diag.BindArityMismatch) {
		t.Fatalf("surplus positional must be reported")
	}
}

func TestArgumentTypeMismatch(t *testing.T) {
	f := newFixture()
	b := f.in.Builtins()
	inv := &ir.Invocation{
		Target:     f.id("greet"),
		Form:       ir.FormInline,
		Named:      []ir.NamedValue{{Name: f.id("name"), Value: typed(b.String)}},
		Positional: []ir.Value{typed(b.String)},
	}
	f.check(inlineProgram(f, []*sig.Entity{greeter(f)}, inv))
	if !f.hasCode(diag.BindArgumentTypeMismatch) {
		t.Fatalf("ill-typed positional must be reported")
	}
}

func TestFirstFailureWins(t *testing.T) {
	f := newFixture()
	// Missing named argument and bad arity at once: only the first check in
	// binding order reports.
	inv := &ir.Invocation{Target: f.id("greet"), Form: ir.FormInline}
	f.check(inlineProgram(f, []*sig.Entity{greeter(f)}, inv))
	if got := f.bag.Len(); got != 1 {
		t.Fatalf("want exactly 1 diagnostic, got %d: %+v", got, f.bag.Items())
	}
	if !f.hasCode(diag.BindMissingArgument) {
		t.Fatalf("the named-argument check runs before arity")
	}
}

func TestTypeParamFixedAtFirstOccurrence(t *testing.T) {
	f := newFixture()
	b := f.in.Builtins()
	tp := f.in.RegisterTypeParam(f.id("T"), types.NoTypeID)
	pair := &sig.Entity{
		Name: f.id("pair"),
		Type: b.Unknown,
		Sig: &sig.Signature{
			Name:       f.id("pair"),
			Positional: []types.TypeID{tp, tp},
			TypeParams: []types.TypeID{tp},
			Completion: sig.ReturnsValue,
			Result:     f.in.Array(tp),
		},
	}
	inv := &ir.Invocation{
		Target:     f.id("pair"),
		Form:       ir.FormInline,
		Positional: []ir.Value{typed(b.Number), typed(b.String)},
	}
	f.check(inlineProgram(f, []*sig.Entity{pair}, inv))
	if !f.hasCode(diag.BindArgumentTypeMismatch) {
		t.Fatalf("the first occurrence fixes the parameter; a conflicting second argument must fail")
	}
}

func TestTypeParamSpecializesResult(t *testing.T) {
	f := newFixture()
	b := f.in.Builtins()
	tp := f.in.RegisterTypeParam(f.id("T"), types.NoTypeID)
	identity := &sig.Entity{
		Name: f.id("identity"),
		Type: b.Unknown,
		Sig: &sig.Signature{
			Name:       f.id("identity"),
			Positional: []types.TypeID{tp},
			TypeParams: []types.TypeID{tp},
			Completion: sig.ReturnsValue,
			Result:     tp,
		},
	}
	inv := &ir.Invocation{
		Target:     f.id("identity"),
		Form:       ir.FormInline,
		Positional: []ir.Value{typed(b.Number)},
	}
	res := f.check(inlineProgram(f, []*sig.Entity{identity}, inv))
	f.noErrors(t)
	if res.InvocationTypes[inv] != b.Number {
		t.Fatalf("result must specialize through the fixed parameter")
	}
}

func TestUnfixedParamDegradesToUnknown(t *testing.T) {
	f := newFixture()
	b := f.in.Builtins()
	tp := f.in.RegisterTypeParam(f.id("T"), types.NoTypeID)
	free := &sig.Entity{
		Name: f.id("free"),
		Type: b.Unknown,
		Sig: &sig.Signature{
			Name:       f.id("free"),
			Completion: sig.ReturnsValue,
			TypeParams: []types.TypeID{tp},
			Result:     tp,
		},
	}
	inv := &ir.Invocation{Target: f.id("free"), Form: ir.FormInline}
	res := f.check(inlineProgram(f, []*sig.Entity{free}, inv))
	f.noErrors(t)
	if res.InvocationTypes[inv] != b.Unknown {
		t.Fatalf("a parameter no argument constrains must degrade to unknown")
	}
}

func TestUnfixedParamDegradesToBound(t *testing.T) {
	f := newFixture()
	b := f.in.Builtins()
	tp := f.in.RegisterTypeParam(f.id("T"), b.String)
	free := &sig.Entity{
		Name: f.id("free"),
		Type: b.Unknown,
		Sig: &sig.Signature{
			Name:       f.id("free"),
			Completion: sig.ReturnsValue,
			TypeParams: []types.TypeID{tp},
			Result:     tp,
		},
	}
	inv := &ir.Invocation{Target: f.id("free"), Form: ir.FormInline}
	res := f.check(inlineProgram(f, []*sig.Entity{free}, inv))
	f.noErrors(t)
	if res.InvocationTypes[inv] != b.String {
		t.Fatalf("a bounded parameter must degrade to its declared bound")
	}
}

func TestHashAcceptsArbitraryNames(t *testing.T) {
	f := newFixture()
	b := f.in.Builtins()
	inv := &ir.Invocation{
		Target: f.id("hash"),
		Form:   ir.FormInline,
		Named: []ir.NamedValue{
			{Name: f.id("title"), Value: typed(b.String)},
			{Name: f.id("count"), Value: typed(b.Number)},
		},
	}
	res := f.check(inlineProgram(f, nil, inv))
	f.noErrors(t)
	if res.InvocationTypes[inv] != f.in.Map(b.String, b.Unknown) {
		t.Fatalf("hash must produce map<string, unknown>")
	}
}

func TestConditionalOverloadsPerArity(t *testing.T) {
	f := newFixture()
	b := f.in.Builtins()

	two := &ir.Invocation{
		Target:     f.id("if"),
		Form:       ir.FormInline,
		Positional: []ir.Value{typed(b.Bool), typed(b.String)},
	}
	three := &ir.Invocation{
		Target:     f.id("if"),
		Form:       ir.FormInline,
		Positional: []ir.Value{typed(b.Bool), typed(b.String), typed(b.String)},
	}
	res := f.check(&Program{Templates: []*ir.Template{{
		Name: f.id("t"),
		Body: ir.Body{Stmts: []ir.Stmt{two, three}},
	}}})
	f.noErrors(t)

	if res.InvocationTypes[two] != f.in.Union(b.String, b.Void) {
		t.Fatalf("two-arm if must admit void, got %s", f.in.Format(res.InvocationTypes[two], f.strs))
	}
	if res.InvocationTypes[three] != b.String {
		t.Fatalf("three-arm if must return the branch type")
	}
}

func TestNoOverloadBeyondMaxArity(t *testing.T) {
	f := newFixture()
	b := f.in.Builtins()
	positional := make([]ir.Value, 5)
	for i := range positional {
		positional[i] = typed(b.Number)
	}
	inv := &ir.Invocation{
		Target:     f.id("let"),
		Form:       ir.FormBlock,
		Positional: positional,
		Callbacks:  []ir.Callback{{Block: f.id("default")}},
	}
	f.check(inlineProgram(f, nil, inv))
	if !f.hasCode(diag.BindNoOverload) {
		t.Fatalf("let beyond its maximum arity must report no matching overload")
	}
}

func TestFnPartialApplication(t *testing.T) {
	f := newFixture()
	b := f.in.Builtins()
	format := &sig.Entity{
		Name: f.id("format"),
		Type: f.in.RegisterFn([]types.TypeID{b.Number, b.String}, false, b.Bool),
	}
	inv := &ir.Invocation{
		Target:     f.id("fn"),
		Form:       ir.FormInline,
		Positional: []ir.Value{f.ref("format"), typed(b.Number)},
	}
	res := f.check(inlineProgram(f, []*sig.Entity{format}, inv))
	f.noErrors(t)

	want := f.in.RegisterFn([]types.TypeID{b.String}, false, b.Bool)
	if got := res.InvocationTypes[inv]; got != want {
		t.Fatalf("partial application result %s, want %s",
			f.in.Format(got, f.strs), f.in.Format(want, f.strs))
	}
}

func TestFnZeroBoundOnGenericFunction(t *testing.T) {
	f := newFixture()
	b := f.in.Builtins()
	tp := f.in.RegisterTypeParam(f.id("T"), b.String)
	upcase := &sig.Entity{
		Name: f.id("upcase"),
		Type: f.in.RegisterFn([]types.TypeID{tp}, false, tp),
	}
	inv := &ir.Invocation{
		Target:     f.id("fn"),
		Form:       ir.FormInline,
		Positional: []ir.Value{f.ref("upcase")},
	}
	res := f.check(inlineProgram(f, []*sig.Entity{upcase}, inv))
	f.noErrors(t)

	got := res.InvocationTypes[inv]
	info, ok := f.in.FnInfo(got)
	if !ok || len(info.Params) != 1 {
		t.Fatalf("zero-bound application must return the full function, got %s",
			f.in.Format(got, f.strs))
	}
	// Nothing fixed the parameter, so it stands in for its declared bound.
	if !f.in.Assignable(info.Params[0], b.String) {
		t.Fatalf("unfixed parameter must admit its declared bound")
	}
	if f.in.Assignable(info.Params[0], b.Number) {
		t.Fatalf("unfixed parameter must not widen past its declared bound")
	}
}

func TestVariadicAcceptsAnyCount(t *testing.T) {
	f := newFixture()
	b := f.in.Builtins()
	empty := &ir.Invocation{Target: f.id("concat"), Form: ir.FormInline}
	many := &ir.Invocation{
		Target:     f.id("concat"),
		Form:       ir.FormInline,
		Positional: []ir.Value{typed(b.String), typed(b.Number), typed(b.Bool)},
	}
	res := f.check(&Program{Templates: []*ir.Template{{
		Name: f.id("t"),
		Body: ir.Body{Stmts: []ir.Stmt{empty, many}},
	}}})
	f.noErrors(t)
	if res.InvocationTypes[many] != b.String {
		t.Fatalf("concat must return string")
	}
}
