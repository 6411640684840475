package trace

import (
	"fmt"
	"strings"

	"glimt/internal/types"
)

// parseType reads the compact type syntax used throughout trace files:
//
//	bool string number void unknown
//	T                      declared type parameter
//	string[]               array
//	map<string, number>    keyed collection
//	(number, string) -> bool
//	(...unknown) -> void   variadic function
//	string | number        union
//
// params maps declared type-parameter names to their interned IDs.
func parseType(in *types.Interner, expr string, params map[string]types.TypeID) (types.TypeID, error) {
	p := typeParser{in: in, src: expr, params: params}
	id, err := p.union()
	if err != nil {
		return types.NoTypeID, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return types.NoTypeID, fmt.Errorf("type %q: trailing input at offset %d", expr, p.pos)
	}
	return id, nil
}

type typeParser struct {
	in     *types.Interner
	src    string
	pos    int
	params map[string]types.TypeID
}

func (p *typeParser) union() (types.TypeID, error) {
	first, err := p.postfix()
	if err != nil {
		return types.NoTypeID, err
	}
	members := []types.TypeID{first}
	for {
		p.skipSpace()
		if !p.eat("|") {
			break
		}
		next, err := p.postfix()
		if err != nil {
			return types.NoTypeID, err
		}
		members = append(members, next)
	}
	if len(members) == 1 {
		return members[0], nil
	}
	return p.in.Union(members...), nil
}

func (p *typeParser) postfix() (types.TypeID, error) {
	id, err := p.primary()
	if err != nil {
		return types.NoTypeID, err
	}
	for {
		p.skipSpace()
		if !p.eat("[]") {
			return id, nil
		}
		id = p.in.Array(id)
	}
}

func (p *typeParser) primary() (types.TypeID, error) {
	p.skipSpace()
	if p.eat("(") {
		return p.fn()
	}
	name := p.ident()
	if name == "" {
		return types.NoTypeID, fmt.Errorf("type %q: expected a type at offset %d", p.src, p.pos)
	}
	b := p.in.Builtins()
	switch name {
	case "bool":
		return b.Bool, nil
	case "string":
		return b.String, nil
	case "number":
		return b.Number, nil
	case "void":
		return b.Void, nil
	case "unknown":
		return b.Unknown, nil
	case "map":
		return p.keyed()
	}
	if id, ok := p.params[name]; ok {
		return id, nil
	}
	return types.NoTypeID, fmt.Errorf("type %q: unknown type name %q", p.src, name)
}

func (p *typeParser) keyed() (types.TypeID, error) {
	p.skipSpace()
	if !p.eat("<") {
		return types.NoTypeID, fmt.Errorf("type %q: map requires <key, value>", p.src)
	}
	key, err := p.union()
	if err != nil {
		return types.NoTypeID, err
	}
	p.skipSpace()
	if !p.eat(",") {
		return types.NoTypeID, fmt.Errorf("type %q: map requires two arguments", p.src)
	}
	value, err := p.union()
	if err != nil {
		return types.NoTypeID, err
	}
	p.skipSpace()
	if !p.eat(">") {
		return types.NoTypeID, fmt.Errorf("type %q: unterminated map", p.src)
	}
	return p.in.Map(key, value), nil
}

// fn parses the parameter list after the opening paren, then the result.
func (p *typeParser) fn() (types.TypeID, error) {
	var (
		fnParams []types.TypeID
		variadic bool
	)
	p.skipSpace()
	if !p.eat(")") {
		for {
			p.skipSpace()
			if p.eat("...") {
				variadic = true
			}
			param, err := p.union()
			if err != nil {
				return types.NoTypeID, err
			}
			fnParams = append(fnParams, param)
			p.skipSpace()
			if p.eat(",") {
				if variadic {
					return types.NoTypeID, fmt.Errorf("type %q: variadic parameter must be last", p.src)
				}
				continue
			}
			if p.eat(")") {
				break
			}
			return types.NoTypeID, fmt.Errorf("type %q: unterminated parameter list", p.src)
		}
	}
	p.skipSpace()
	if !p.eat("->") {
		return types.NoTypeID, fmt.Errorf("type %q: function type requires -> result", p.src)
	}
	result, err := p.union()
	if err != nil {
		return types.NoTypeID, err
	}
	return p.in.RegisterFn(fnParams, variadic, result), nil
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *typeParser) eat(tok string) bool {
	if strings.HasPrefix(p.src[p.pos:], tok) {
		p.pos += len(tok)
		return true
	}
	return false
}

func (p *typeParser) ident() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == ' ' || c == '\t' || c == '|' || c == '[' || c == ']' ||
			c == '<' || c == '>' || c == ',' || c == '(' || c == ')' || c == '-' {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}
