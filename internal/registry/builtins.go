package registry

import (
	"glimt/internal/sig"
	"glimt/internal/source"
	"glimt/internal/types"
)

// Default constructs the primitive table. Each entry documents the shape it
// models; the signatures are the single source of truth for how the
// primitives type-check.
func Default(in *types.Interner, strs *source.Interner) *Table {
	b := in.Builtins()
	entries := []*Entry{
		eachEntry(in, strs),
		eachInEntry(in, strs),
		letEntry(in, strs),
		condEntry(in, strs, "if"),
		condEntry(in, strs, "unless"),
		concatEntry(in, strs, b),
		arrayEntry(in, strs),
		hashEntry(in, strs, b),
		onEntry(in, strs, b),
		logEntry(in, strs, b),
		fnEntry(in, strs),
		componentEntry(strs),
	}
	return newTable(strs, entries)
}

// each: <T>(items: T[]) -> blocks { default(item: T, index: number),
// inverse?() }. The inverse block runs for an empty collection.
func eachEntry(in *types.Interner, strs *source.Interner) *Entry {
	b := in.Builtins()
	t := typeParam(in, strs, "T")
	return &Entry{
		Name: strs.Intern("each"),
		Overloads: []*sig.Signature{{
			Name:       strs.Intern("each"),
			Positional: []types.TypeID{in.Array(t)},
			TypeParams: []types.TypeID{t},
			Completion: sig.AcceptsBlocks,
			Blocks: sig.NewBlockSet(
				sig.BlockSpec{Name: strs.Intern("default"), Params: []types.TypeID{t, b.Number}},
				sig.BlockSpec{Name: strs.Intern("inverse"), Optional: true},
			),
		}},
	}
}

// each-in: <K, V>(entries: map<K, V>) -> blocks { default(key: K, value: V),
// inverse?() }.
func eachInEntry(in *types.Interner, strs *source.Interner) *Entry {
	k := typeParam(in, strs, "K")
	v := typeParam(in, strs, "V")
	return &Entry{
		Name: strs.Intern("each-in"),
		Overloads: []*sig.Signature{{
			Name:       strs.Intern("each-in"),
			Positional: []types.TypeID{in.Map(k, v)},
			TypeParams: []types.TypeID{k, v},
			Completion: sig.AcceptsBlocks,
			Blocks: sig.NewBlockSet(
				sig.BlockSpec{Name: strs.Intern("default"), Params: []types.TypeID{k, v}},
				sig.BlockSpec{Name: strs.Intern("inverse"), Optional: true},
			),
		}},
	}
}

// let binds its positionals as block parameters. One overload per arity:
// each position owns a fresh type parameter, so mixed-type bindings keep
// their exact types.
func letEntry(in *types.Interner, strs *source.Interner) *Entry {
	name := strs.Intern("let")
	def := strs.Intern("default")
	var overloads []*sig.Signature
	for arity := 1; arity <= 4; arity++ {
		params := make([]types.TypeID, arity)
		for i := range params {
			params[i] = typeParam(in, strs, letParamName(i))
		}
		overloads = append(overloads, &sig.Signature{
			Name:       name,
			Positional: params,
			TypeParams: params,
			Completion: sig.AcceptsBlocks,
			Blocks: sig.NewBlockSet(
				sig.BlockSpec{Name: def, Params: params},
			),
		})
	}
	return &Entry{Name: name, Overloads: overloads}
}

func letParamName(i int) string {
	return string(rune('A' + i))
}

// if / unless as inline helpers: <T>(cond: bool, then: T) -> T | void and
// <T>(cond: bool, then: T, else: T) -> T.
func condEntry(in *types.Interner, strs *source.Interner, name string) *Entry {
	b := in.Builtins()
	id := strs.Intern(name)

	t2 := typeParam(in, strs, "T")
	two := &sig.Signature{
		Name:       id,
		Positional: []types.TypeID{b.Bool, t2},
		TypeParams: []types.TypeID{t2},
		Completion: sig.ReturnsValue,
		Result:     in.Union(t2, b.Void),
	}

	t3 := typeParam(in, strs, "T")
	three := &sig.Signature{
		Name:       id,
		Positional: []types.TypeID{b.Bool, t3, t3},
		TypeParams: []types.TypeID{t3},
		Completion: sig.ReturnsValue,
		Result:     t3,
	}
	return &Entry{Name: id, Overloads: []*sig.Signature{two, three}}
}

// concat: (...parts: unknown) -> string.
func concatEntry(in *types.Interner, strs *source.Interner, b types.Builtins) *Entry {
	return &Entry{
		Name: strs.Intern("concat"),
		Overloads: []*sig.Signature{{
			Name:       strs.Intern("concat"),
			Positional: []types.TypeID{b.Unknown},
			Variadic:   true,
			Completion: sig.ReturnsValue,
			Result:     b.String,
		}},
	}
}

// array: <T>(...items: T) -> T[].
func arrayEntry(in *types.Interner, strs *source.Interner) *Entry {
	t := typeParam(in, strs, "T")
	return &Entry{
		Name: strs.Intern("array"),
		Overloads: []*sig.Signature{{
			Name:       strs.Intern("array"),
			Positional: []types.TypeID{t},
			Variadic:   true,
			TypeParams: []types.TypeID{t},
			Completion: sig.ReturnsValue,
			Result:     in.Array(t),
		}},
	}
}

// hash passes arbitrary named arguments through as a keyed collection.
// Named shapes are open here, which the binder models as a variadic named
// tail; the result value degrades to map<string, unknown>.
func hashEntry(in *types.Interner, strs *source.Interner, b types.Builtins) *Entry {
	return &Entry{
		Name: strs.Intern("hash"),
		Overloads: []*sig.Signature{{
			Name:       strs.Intern("hash"),
			Named:      nil, // any names accepted; see Signature.OpenNamed
			OpenNamed:  true,
			Completion: sig.ReturnsValue,
			Result:     in.Map(b.String, b.Unknown),
		}},
	}
}

// on: (event: string, handler: (...args: unknown) -> void) -> modifier.
func onEntry(in *types.Interner, strs *source.Interner, b types.Builtins) *Entry {
	handler := in.RegisterFn([]types.TypeID{b.Unknown}, true, b.Void)
	return &Entry{
		Name: strs.Intern("on"),
		Overloads: []*sig.Signature{{
			Name:       strs.Intern("on"),
			Positional: []types.TypeID{b.String, handler},
			Completion: sig.CreatesModifier,
		}},
	}
}

// log: (...values: unknown) -> void.
func logEntry(in *types.Interner, strs *source.Interner, b types.Builtins) *Entry {
	return &Entry{
		Name: strs.Intern("log"),
		Overloads: []*sig.Signature{{
			Name:       strs.Intern("log"),
			Positional: []types.TypeID{b.Unknown},
			Variadic:   true,
			Completion: sig.ReturnsValue,
			Result:     b.Void,
		}},
	}
}

func componentEntry(strs *source.Interner) *Entry {
	return &Entry{Name: strs.Intern("component"), Component: true}
}
