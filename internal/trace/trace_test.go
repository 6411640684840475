package trace

import (
	"testing"

	"glimt/internal/ir"
	"glimt/internal/sig"
	"glimt/internal/source"
	"glimt/internal/types"
)

func newDecoder() (*Decoder, *source.FileSet) {
	return &Decoder{
		Types: types.NewInterner(),
		Strs:  source.NewInterner(),
	}, source.NewFileSet("")
}

const listTrace = `
[[entities]]
name = "names"
type = "string[]"

[[templates]]
name = "list"

[[templates.body]]
kind = "invoke"
target = "each"
form = "block"
positional = ["@names"]
span = [10, 14]

[[templates.body.callbacks]]
block = "default"
params = ["item", "index: number"]

[[templates.body.callbacks.body]]
kind = "yield"
block = "out"
values = ["@item"]
`

func TestDecodeInvocationTree(t *testing.T) {
	d, fs := newDecoder()
	program, _, err := d.Decode(fs, "list.trace.toml", []byte(listTrace))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(program.Scope) != 1 || len(program.Templates) != 1 {
		t.Fatalf("unexpected shape: %d entities, %d templates", len(program.Scope), len(program.Templates))
	}
	ent := program.Scope[0]
	b := d.Types.Builtins()
	if ent.Type != d.Types.Array(b.String) {
		t.Fatalf("entity type must decode to string[]")
	}

	tpl := program.Templates[0]
	inv, ok := tpl.Body.Stmts[0].(*ir.Invocation)
	if !ok {
		t.Fatalf("first statement must be an invocation")
	}
	if inv.Form != ir.FormBlock || inv.Span.Start != 10 || inv.Span.End != 14 {
		t.Fatalf("unexpected invocation: %+v", inv)
	}
	if inv.Positional[0].Ref != d.Strs.Intern("names") {
		t.Fatalf("@names must decode as a reference")
	}

	cb := inv.Callbacks[0]
	if len(cb.Params) != 2 {
		t.Fatalf("callback params: %+v", cb.Params)
	}
	if cb.Params[0].Type != types.NoTypeID {
		t.Fatalf("bare parameter must carry no declared type")
	}
	if cb.Params[1].Type != b.Number {
		t.Fatalf("annotated parameter must decode its type")
	}
	if _, ok := cb.Body.Stmts[0].(*ir.Yield); !ok {
		t.Fatalf("callback body must contain the yield")
	}
}

func TestDecodeSignature(t *testing.T) {
	d, fs := newDecoder()
	data := []byte(`
[[entities]]
name = "card"
type = "unknown"

[entities.sig]
completion = "blocks"
params = ["T"]
named = [{ name = "title", type = "string" }, { name = "items", type = "T[]", optional = true }]

[[entities.sig.blocks]]
name = "default"
params = ["T"]

[[entities.sig.blocks]]
name = "footer"
optional = true
`)
	program, _, err := d.Decode(fs, "card.trace.toml", data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	s := program.Scope[0].Sig
	if s == nil || s.Completion != sig.AcceptsBlocks {
		t.Fatalf("signature must accept blocks")
	}
	if len(s.TypeParams) != 1 {
		t.Fatalf("one declared type parameter expected")
	}
	items, ok := s.NamedArgFor(d.Strs.Intern("items"))
	if !ok || !items.Optional {
		t.Fatalf("items must decode optional, got %+v", items)
	}
	itemsType := d.Types.MustLookup(items.Type)
	if itemsType.Kind != types.KindArray || itemsType.Elem != s.TypeParams[0] {
		t.Fatalf("items must be T[] over the declared parameter")
	}
	def, _ := s.Blocks.Find(d.Strs.Intern("default"))
	if def.Params[0] != s.TypeParams[0] {
		t.Fatalf("block param must reference the declared parameter")
	}
}

func TestDecodeBranch(t *testing.T) {
	d, fs := newDecoder()
	data := []byte(`
[[templates]]
name = "t"

[[templates.body]]
kind = "branch"

[[templates.body.then]]
kind = "yield"
block = "a"
values = ["number"]

[[templates.body.else]]
kind = "yield"
block = "a"
values = ["string"]
`)
	program, _, err := d.Decode(fs, "branch.trace.toml", data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	br, ok := program.Templates[0].Body.Stmts[0].(*ir.Branch)
	if !ok {
		t.Fatalf("expected a branch statement")
	}
	if len(br.Then.Stmts) != 1 || len(br.Else.Stmts) != 1 {
		t.Fatalf("both arms must decode")
	}
}

func TestIdentifiersAreNFCNormalized(t *testing.T) {
	d, fs := newDecoder()
	// U+0065 U+0301 (decomposed) vs U+00E9 (composed).
	data := []byte("[[entities]]\nname = \"café\"\ntype = \"string\"\n")
	program, _, err := d.Decode(fs, "nfc.trace.toml", data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if program.Scope[0].Name != d.Strs.Intern("café") {
		t.Fatalf("decomposed identifier must intern to its composed form")
	}
}

func TestUnknownTypeName(t *testing.T) {
	d, fs := newDecoder()
	data := []byte("[[entities]]\nname = \"x\"\ntype = \"strange\"\n")
	if _, _, err := d.Decode(fs, "bad.trace.toml", data); err == nil {
		t.Fatalf("unknown type name must fail decoding")
	}
}

func TestParseTypeExpressions(t *testing.T) {
	d, _ := newDecoder()
	b := d.Types.Builtins()

	fn, err := parseType(d.Types, "(number, string) -> bool", nil)
	if err != nil {
		t.Fatalf("fn: %v", err)
	}
	info, _ := d.Types.FnInfo(fn)
	if len(info.Params) != 2 || info.Result != b.Bool || info.Variadic {
		t.Fatalf("unexpected fn info: %+v", info)
	}

	variadic, err := parseType(d.Types, "(...unknown) -> void", nil)
	if err != nil {
		t.Fatalf("variadic: %v", err)
	}
	vinfo, _ := d.Types.FnInfo(variadic)
	if !vinfo.Variadic {
		t.Fatalf("variadic flag lost")
	}

	union, err := parseType(d.Types, "string | number", nil)
	if err != nil {
		t.Fatalf("union: %v", err)
	}
	if union != d.Types.Union(b.String, b.Number) {
		t.Fatalf("union must intern canonically")
	}

	nested, err := parseType(d.Types, "map<string, number[]>", nil)
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	if nested != d.Types.Map(b.String, d.Types.Array(b.Number)) {
		t.Fatalf("nested map mismatch")
	}

	if _, err := parseType(d.Types, "string |", nil); err == nil {
		t.Fatalf("dangling union must fail")
	}
}
