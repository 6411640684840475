// Package trace decodes declarative invocation traces: TOML files a
// template translator dumps so the checking engine can be driven and
// inspected without the template source language itself. A trace carries a
// lexical scope of typed entities and a body tree of invocations, blocks,
// branches, and yields.
package trace

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/unicode/norm"

	"glimt/internal/ir"
	"glimt/internal/sema"
	"glimt/internal/sig"
	"glimt/internal/source"
	"glimt/internal/types"
)

// Ext is the file suffix the driver scans for.
const Ext = ".trace.toml"

// Decoder turns trace files into checkable programs. Both interners are
// shared with the checker so TypeIDs and StringIDs line up.
type Decoder struct {
	Types *types.Interner
	Strs  *source.Interner
}

// DecodeFile reads one trace from disk, registers it in the file set, and
// decodes it.
func (d *Decoder) DecodeFile(fs *source.FileSet, path string) (*sema.Program, source.FileID, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the caller's scan
	if err != nil {
		return nil, 0, err
	}
	id := fs.Add(path, data, 0)
	p, err := d.decode(id, data)
	if err != nil {
		return nil, id, fmt.Errorf("%s: %w", path, err)
	}
	return p, id, nil
}

// DecodeAt decodes trace content already registered in a file set. The
// driver preloads files sequentially and decodes on worker goroutines.
func (d *Decoder) DecodeAt(file source.FileID, data []byte) (*sema.Program, error) {
	return d.decode(file, data)
}

// Decode decodes an in-memory trace under a virtual file name.
func (d *Decoder) Decode(fs *source.FileSet, name string, data []byte) (*sema.Program, source.FileID, error) {
	id := fs.AddVirtual(name, data)
	p, err := d.decode(id, data)
	if err != nil {
		return nil, id, fmt.Errorf("%s: %w", name, err)
	}
	return p, id, nil
}

type fileTOML struct {
	Entities  []entityTOML   `toml:"entities"`
	Templates []templateTOML `toml:"templates"`
}

type entityTOML struct {
	Name string   `toml:"name"`
	Type string   `toml:"type"`
	Sig  *sigTOML `toml:"sig"`
}

type sigTOML struct {
	Completion string      `toml:"completion"`
	Params     []string    `toml:"params"`
	Named      []namedTOML `toml:"named"`
	Positional []string    `toml:"positional"`
	Variadic   bool        `toml:"variadic"`
	OpenNamed  bool        `toml:"open_named"`
	Result     string      `toml:"result"`
	Blocks     []blockTOML `toml:"blocks"`
}

type namedTOML struct {
	Name     string `toml:"name"`
	Type     string `toml:"type"`
	Optional bool   `toml:"optional"`
}

type blockTOML struct {
	Name     string   `toml:"name"`
	Params   []string `toml:"params"`
	Optional bool     `toml:"optional"`
}

type templateTOML struct {
	Name string     `toml:"name"`
	Span []uint32   `toml:"span"`
	Body []stmtTOML `toml:"body"`
}

type stmtTOML struct {
	Kind string   `toml:"kind"`
	Span []uint32 `toml:"span"`

	// invoke
	Target     string            `toml:"target"`
	Form       string            `toml:"form"`
	Named      map[string]string `toml:"named"`
	Positional []string          `toml:"positional"`
	Callbacks  []callbackTOML    `toml:"callbacks"`

	// yield
	Block  string   `toml:"block"`
	Values []string `toml:"values"`

	// branch
	Then []stmtTOML `toml:"then"`
	Else []stmtTOML `toml:"else"`
}

type callbackTOML struct {
	Block  string     `toml:"block"`
	Params []string   `toml:"params"`
	Span   []uint32   `toml:"span"`
	Body   []stmtTOML `toml:"body"`
}

func (d *Decoder) decode(file source.FileID, data []byte) (*sema.Program, error) {
	var raw fileTOML
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	program := &sema.Program{}
	for i := range raw.Entities {
		ent, err := d.entity(&raw.Entities[i])
		if err != nil {
			return nil, err
		}
		program.Scope = append(program.Scope, ent)
	}
	for i := range raw.Templates {
		tpl, err := d.template(file, &raw.Templates[i])
		if err != nil {
			return nil, err
		}
		program.Templates = append(program.Templates, tpl)
	}
	return program, nil
}

// intern normalizes an identifier to NFC before interning, so traces
// written with differently composed code points name the same entity.
func (d *Decoder) intern(s string) source.StringID {
	return d.Strs.Intern(norm.NFC.String(s))
}

func (d *Decoder) entity(raw *entityTOML) (*sig.Entity, error) {
	if raw.Name == "" {
		return nil, fmt.Errorf("entity without a name")
	}
	ent := &sig.Entity{Name: d.intern(raw.Name)}
	if raw.Type != "" {
		t, err := parseType(d.Types, raw.Type, nil)
		if err != nil {
			return nil, fmt.Errorf("entity %s: %w", raw.Name, err)
		}
		ent.Type = t
	} else {
		ent.Type = d.Types.Builtins().Unknown
	}
	if raw.Sig != nil {
		s, err := d.signature(ent.Name, raw.Sig)
		if err != nil {
			return nil, fmt.Errorf("entity %s: %w", raw.Name, err)
		}
		ent.Sig = s
	}
	return ent, nil
}

func (d *Decoder) signature(name source.StringID, raw *sigTOML) (*sig.Signature, error) {
	s := &sig.Signature{
		Name:      name,
		Variadic:  raw.Variadic,
		OpenNamed: raw.OpenNamed,
	}

	// Declared type parameters, "T" or "T: bound". Each declaration owns a
	// fresh parameter even when names collide across entities.
	params := make(map[string]types.TypeID, len(raw.Params))
	for _, decl := range raw.Params {
		pname, boundExpr, _ := strings.Cut(decl, ":")
		pname = strings.TrimSpace(pname)
		bound := types.NoTypeID
		if boundExpr = strings.TrimSpace(boundExpr); boundExpr != "" {
			var err error
			bound, err = parseType(d.Types, boundExpr, params)
			if err != nil {
				return nil, err
			}
		}
		id := d.Types.RegisterTypeParam(d.intern(pname), bound)
		params[pname] = id
		s.TypeParams = append(s.TypeParams, id)
	}

	for _, na := range raw.Named {
		t, err := parseType(d.Types, na.Type, params)
		if err != nil {
			return nil, err
		}
		s.Named = append(s.Named, sig.NamedArg{
			Name:     d.intern(na.Name),
			Type:     t,
			Optional: na.Optional,
		})
	}
	for _, expr := range raw.Positional {
		t, err := parseType(d.Types, expr, params)
		if err != nil {
			return nil, err
		}
		s.Positional = append(s.Positional, t)
	}

	switch raw.Completion {
	case "", "value":
		s.Completion = sig.ReturnsValue
		if raw.Result != "" {
			t, err := parseType(d.Types, raw.Result, params)
			if err != nil {
				return nil, err
			}
			s.Result = t
		}
	case "blocks":
		s.Completion = sig.AcceptsBlocks
		specs := make([]sig.BlockSpec, 0, len(raw.Blocks))
		for _, b := range raw.Blocks {
			spec := sig.BlockSpec{Name: d.intern(b.Name), Optional: b.Optional}
			for _, expr := range b.Params {
				t, err := parseType(d.Types, expr, params)
				if err != nil {
					return nil, err
				}
				spec.Params = append(spec.Params, t)
			}
			specs = append(specs, spec)
		}
		s.Blocks = sig.NewBlockSet(specs...)
	case "modifier":
		s.Completion = sig.CreatesModifier
	default:
		return nil, fmt.Errorf("unknown completion %q", raw.Completion)
	}
	return s, nil
}

func (d *Decoder) template(file source.FileID, raw *templateTOML) (*ir.Template, error) {
	if raw.Name == "" {
		return nil, fmt.Errorf("template without a name")
	}
	body, err := d.body(file, raw.Body)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", raw.Name, err)
	}
	return &ir.Template{
		Name: d.intern(raw.Name),
		Body: body,
		Span: d.span(file, raw.Span),
	}, nil
}

func (d *Decoder) body(file source.FileID, raw []stmtTOML) (ir.Body, error) {
	var body ir.Body
	for i := range raw {
		stmt, err := d.stmt(file, &raw[i])
		if err != nil {
			return ir.Body{}, err
		}
		body.Stmts = append(body.Stmts, stmt)
	}
	return body, nil
}

func (d *Decoder) stmt(file source.FileID, raw *stmtTOML) (ir.Stmt, error) {
	switch raw.Kind {
	case "invoke":
		return d.invocation(file, raw)
	case "yield":
		values := make([]ir.Value, 0, len(raw.Values))
		for _, expr := range raw.Values {
			v, err := d.value(file, expr, raw.Span)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		return &ir.Yield{
			Block:  d.intern(raw.Block),
			Values: values,
			Span:   d.span(file, raw.Span),
		}, nil
	case "branch":
		then, err := d.body(file, raw.Then)
		if err != nil {
			return nil, err
		}
		els, err := d.body(file, raw.Else)
		if err != nil {
			return nil, err
		}
		return &ir.Branch{Then: then, Else: els, Span: d.span(file, raw.Span)}, nil
	default:
		return nil, fmt.Errorf("unknown statement kind %q", raw.Kind)
	}
}

func (d *Decoder) invocation(file source.FileID, raw *stmtTOML) (*ir.Invocation, error) {
	form, err := parseForm(raw.Form)
	if err != nil {
		return nil, err
	}
	inv := &ir.Invocation{
		Target: d.intern(raw.Target),
		Form:   form,
		Span:   d.span(file, raw.Span),
	}

	// TOML tables are unordered; sorted keys keep diagnostics deterministic.
	keys := make([]string, 0, len(raw.Named))
	for k := range raw.Named {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, err := d.value(file, raw.Named[k], raw.Span)
		if err != nil {
			return nil, err
		}
		inv.Named = append(inv.Named, ir.NamedValue{Name: d.intern(k), Value: v})
	}

	for _, expr := range raw.Positional {
		v, err := d.value(file, expr, raw.Span)
		if err != nil {
			return nil, err
		}
		inv.Positional = append(inv.Positional, v)
	}

	for i := range raw.Callbacks {
		cb, err := d.callback(file, &raw.Callbacks[i])
		if err != nil {
			return nil, err
		}
		inv.Callbacks = append(inv.Callbacks, cb)
	}
	return inv, nil
}

func (d *Decoder) callback(file source.FileID, raw *callbackTOML) (ir.Callback, error) {
	cb := ir.Callback{
		Block: d.intern(raw.Block),
		Span:  d.span(file, raw.Span),
	}
	// Parameters are "name" or "name: type".
	for _, decl := range raw.Params {
		pname, typeExpr, _ := strings.Cut(decl, ":")
		param := ir.Param{Name: d.intern(strings.TrimSpace(pname))}
		if typeExpr = strings.TrimSpace(typeExpr); typeExpr != "" {
			t, err := parseType(d.Types, typeExpr, nil)
			if err != nil {
				return ir.Callback{}, fmt.Errorf("callback %s: %w", raw.Block, err)
			}
			param.Type = t
		}
		cb.Params = append(cb.Params, param)
	}
	body, err := d.body(file, raw.Body)
	if err != nil {
		return ir.Callback{}, err
	}
	cb.Body = body
	return cb, nil
}

// value parses one operand: "@name" references a lexically visible
// binding, anything else is the operand's type in the compact syntax.
func (d *Decoder) value(file source.FileID, expr string, span []uint32) (ir.Value, error) {
	if name, ok := strings.CutPrefix(expr, "@"); ok {
		return ir.Value{Ref: d.intern(name), Span: d.span(file, span)}, nil
	}
	t, err := parseType(d.Types, expr, nil)
	if err != nil {
		return ir.Value{}, err
	}
	return ir.Value{Type: t, Span: d.span(file, span)}, nil
}

func (d *Decoder) span(file source.FileID, raw []uint32) source.Span {
	if len(raw) != 2 {
		return source.Span{File: file}
	}
	return source.Span{File: file, Start: raw[0], End: raw[1]}
}

func parseForm(s string) (ir.Form, error) {
	switch s {
	case "", "emit":
		return ir.FormEmit, nil
	case "inline":
		return ir.FormInline, nil
	case "block":
		return ir.FormBlock, nil
	case "modifier":
		return ir.FormModifier, nil
	default:
		return 0, fmt.Errorf("unknown invocation form %q", s)
	}
}
