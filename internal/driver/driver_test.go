package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"glimt/internal/diag"
)

const goodTrace = `
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

[[templates.body.callbacks]]
block = "default"
params = ["item"]

[[templates.body.callbacks.body]]
kind = "yield"
block = "out"
values = ["@item"]
`

const badTrace = `
[[templates]]
name = "broken"

[[templates.body]]
kind = "invoke"
target = "nowhere"
form = "inline"
`

func writeTraces(t *testing.T, dir string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "list.trace.toml"), []byte(goodTrace), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.trace.toml"), []byte(badTrace), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestCheckDir(t *testing.T) {
	dir := t.TempDir()
	writeTraces(t, dir)

	_, results, err := CheckDir(context.Background(), dir, Options{})
	if err != nil {
		t.Fatalf("CheckDir: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	// Sorted scan order: broken before list.
	if results[0].Bag.Len() == 0 {
		t.Fatalf("broken trace must produce diagnostics")
	}
	if results[0].Bag.Items()[0].Code != diag.ResNotFound {
		t.Fatalf("unexpected code %v", results[0].Bag.Items()[0].Code)
	}
	if results[1].Bag.HasErrors() {
		t.Fatalf("clean trace must not error: %+v", results[1].Bag.Items())
	}
	if len(results[1].Signatures) != 1 || results[1].Signatures[0].Template != "list" {
		t.Fatalf("inferred signatures missing: %+v", results[1].Signatures)
	}
}

func TestCheckDirUsesCache(t *testing.T) {
	dir := t.TempDir()
	writeTraces(t, dir)
	cache, err := OpenDiskCache(filepath.Join(dir, ".cache"))
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	opts := Options{Cache: cache}

	_, first, err := CheckDir(context.Background(), dir, opts)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	for _, r := range first {
		if r.Cached {
			t.Fatalf("first run must miss the cache")
		}
	}

	_, second, err := CheckDir(context.Background(), dir, opts)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	for i, r := range second {
		if !r.Cached {
			t.Fatalf("second run must hit the cache for %s", r.Path)
		}
		if r.Bag.Len() != first[i].Bag.Len() {
			t.Fatalf("cached diagnostics must replay: %d vs %d", r.Bag.Len(), first[i].Bag.Len())
		}
		if len(r.Signatures) != len(first[i].Signatures) {
			t.Fatalf("cached signatures must replay")
		}
	}
}

func TestCheckDirEvents(t *testing.T) {
	dir := t.TempDir()
	writeTraces(t, dir)

	events := make(chan Event, 8)
	_, _, err := CheckDir(context.Background(), dir, Options{Events: events})
	if err != nil {
		t.Fatalf("CheckDir: %v", err)
	}
	close(events)

	seen := 0
	for ev := range events {
		seen++
		if ev.Total != 2 || ev.Done < 1 || ev.Done > 2 {
			t.Fatalf("bad event: %+v", ev)
		}
	}
	if seen != 2 {
		t.Fatalf("expected 2 events, got %d", seen)
	}
}

func TestCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	key := DigestOf([]byte("trace content"))
	in := &Payload{
		Schema:     cacheSchemaVersion,
		Diags:      []CachedDiag{{Severity: 2, Code: 1002, Message: "x", Start: 3, End: 7}},
		Signatures: []CachedSignature{{Template: "list", Contract: "() -> blocks {}"}},
	}
	if err := cache.Put(key, in); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var out Payload
	hit, err := cache.Get(key, &out)
	if err != nil || !hit {
		t.Fatalf("Get: hit=%v err=%v", hit, err)
	}
	if out.Diags[0] != in.Diags[0] || out.Signatures[0] != in.Signatures[0] {
		t.Fatalf("payload mismatch: %+v", out)
	}

	if hit, _ := cache.Get(DigestOf([]byte("other")), &out); hit {
		t.Fatalf("unexpected hit for unknown key")
	}
}

func TestCacheSchemaMismatchMisses(t *testing.T) {
	cache, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	key := DigestOf([]byte("trace"))
	if err := cache.Put(key, &Payload{Schema: cacheSchemaVersion + 1}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	var out Payload
	if hit, _ := cache.Get(key, &out); hit {
		t.Fatalf("stale schema must read as a miss")
	}
}
