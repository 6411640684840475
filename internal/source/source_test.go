package source

import "testing"

func TestInternerRoundTrip(t *testing.T) {
	in := NewInterner()
	id := in.Intern("default")
	if id == NoStringID {
		t.Fatalf("expected non-zero id")
	}
	if again := in.Intern("default"); again != id {
		t.Fatalf("expected stable id, got %d and %d", id, again)
	}
	if s := in.MustLookup(id); s != "default" {
		t.Fatalf("expected %q, got %q", "default", s)
	}
}

func TestInternerEmptyStringIsReserved(t *testing.T) {
	in := NewInterner()
	if id := in.Intern(""); id != NoStringID {
		t.Fatalf("empty string must map to NoStringID, got %d", id)
	}
	if in.Len() != 1 {
		t.Fatalf("expected only the reserved entry, got %d", in.Len())
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	got := a.Cover(b)
	if got.Start != 2 || got.End != 8 {
		t.Fatalf("unexpected cover %v", got)
	}
	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Fatalf("cover across files must be a no-op, got %v", got)
	}
}

func TestResolveMultiLine(t *testing.T) {
	fs := NewFileSet("")
	id := fs.AddVirtual("widget.trace.toml", []byte("first\nsecond\nthird"))

	start, end := fs.Resolve(Span{File: id, Start: 6, End: 12})
	if (start != LineCol{Line: 2, Col: 1}) {
		t.Fatalf("unexpected start %+v", start)
	}
	if (end != LineCol{Line: 2, Col: 7}) {
		t.Fatalf("unexpected end %+v", end)
	}

	f := fs.Get(id)
	if line := f.GetLine(2); line != "second" {
		t.Fatalf("expected line %q, got %q", "second", line)
	}
	if line := f.GetLine(9); line != "" {
		t.Fatalf("expected empty line out of range, got %q", line)
	}
}

func TestFileSetPathIndexTracksLatest(t *testing.T) {
	fs := NewFileSet("")
	fs.Add("t.trace.toml", []byte("one"), 0)
	id2 := fs.Add("t.trace.toml", []byte("two"), 0)
	f, ok := fs.GetByPath("t.trace.toml")
	if !ok || f.ID != id2 {
		t.Fatalf("expected latest file id %d, got %+v ok=%v", id2, f, ok)
	}
}
