package diag

import (
	"testing"

	"glimt/internal/source"
)

func TestBagHonorsLimit(t *testing.T) {
	bag := NewBag(2)
	for i := 0; i < 3; i++ {
		bag.Add(NewError(BindArityMismatch, source.Span{Start: uint32(i)}, "x"))
	}
	if bag.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", bag.Len())
	}
}

func TestBagSortIsDeterministic(t *testing.T) {
	bag := NewBag(8)
	bag.Add(New(SevWarning, BlockNameMismatch, source.Span{File: 1, Start: 5}, "b"))
	bag.Add(NewError(ResNoSignature, source.Span{File: 1, Start: 5}, "a"))
	bag.Add(NewError(BindMissingArgument, source.Span{File: 0, Start: 9}, "c"))
	bag.Sort()
	items := bag.Items()
	if items[0].Code != BindMissingArgument {
		t.Fatalf("expected file order first, got %v", items[0].Code)
	}
	if items[1].Severity != SevError {
		t.Fatalf("expected error before warning at same span, got %v", items[1].Severity)
	}
}

func TestBagDedup(t *testing.T) {
	bag := NewBag(8)
	sp := source.Span{File: 1, Start: 3, End: 7}
	bag.Add(NewError(BindUnknownArgument, sp, "dup"))
	bag.Add(NewError(BindUnknownArgument, sp, "dup"))
	bag.Add(NewError(BindUnknownArgument, source.Span{File: 1, Start: 8}, "other"))
	bag.Dedup()
	if bag.Len() != 2 {
		t.Fatalf("expected dedup to 2, got %d", bag.Len())
	}
}

func TestBagMergeGrowsLimit(t *testing.T) {
	a := NewBag(1)
	a.Add(NewError(ResNotFound, source.Span{}, "a"))
	b := NewBag(1)
	b.Add(NewError(ResNotFound, source.Span{Start: 1}, "b"))
	a.Merge(b)
	if a.Len() != 2 {
		t.Fatalf("expected merged bag of 2, got %d", a.Len())
	}
	if !a.HasErrors() {
		t.Fatalf("expected errors after merge")
	}
}

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		ResNoSignature:             "RES1001",
		BindMissingArgument:        "BIND2001",
		DispatchNotInvokableInline: "DISP3001",
		BlockParameterMismatch:     "BLK4002",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Fatalf("expected %s, got %s", want, got)
		}
	}
}
