// Package driver checks trace files in bulk: directory scan, per-trace
// checking on a bounded worker pool, a content-addressed result cache, and
// progress events for interactive front ends.
package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"glimt/internal/diag"
	"glimt/internal/diagfmt"
	"glimt/internal/registry"
	"glimt/internal/sema"
	"glimt/internal/source"
	"glimt/internal/trace"
	"glimt/internal/types"
)

// Options configure a directory check.
type Options struct {
	// Jobs caps worker goroutines; 0 uses GOMAXPROCS.
	Jobs int
	// MaxDiagnostics bounds the bag per trace.
	MaxDiagnostics int
	// MaxDepth bounds template-to-template resolution per trace.
	MaxDepth int
	// Cache short-circuits traces whose content digest already has an
	// entry. Nil disables caching.
	Cache *DiskCache
	// Events receives one event per finished trace when non-nil. The
	// channel is not closed by the driver.
	Events chan<- Event
}

// Event reports one finished trace for progress display.
type Event struct {
	Path   string
	Done   int
	Total  int
	Cached bool
	Errors int
}

// Result is the outcome of checking one trace.
type Result struct {
	Path       string
	FileID     source.FileID
	Bag        *diag.Bag
	Signatures []CachedSignature
	Cached     bool
}

// ListTraces returns every trace file under dir, sorted for a
// deterministic processing order.
func ListTraces(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, trace.Ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// CheckDir checks every trace under dir. Files load into the shared file
// set up front; workers then check independent traces concurrently, each
// with its own interners and registry, so nothing is shared but the
// results slice (one index per worker).
func CheckDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []Result, error) {
	files, err := ListTraces(dir)
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSet(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = id
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	maxDiagnostics := opts.MaxDiagnostics
	if maxDiagnostics <= 0 {
		maxDiagnostics = 200
	}

	results := make([]Result, len(files))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			bag := diag.NewBag(maxDiagnostics)
			res := Result{Path: path, Bag: bag}
			if loadErr, failed := loadErrors[path]; failed {
				bag.Add(diag.NewError(diag.UnknownCode, source.Span{},
					"failed to load trace: "+loadErr.Error()))
			} else {
				res.FileID = fileIDs[path]
				checkTrace(fileSet, &res, opts)
			}
			results[i] = res

			if opts.Events != nil {
				ev := Event{
					Path:   path,
					Done:   int(done.Add(1)),
					Total:  len(files),
					Cached: res.Cached,
					Errors: countErrors(bag),
				}
				select {
				case opts.Events <- ev:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

// checkTrace runs one trace end to end: cache probe, decode, check, cache
// fill. All engine state is local to the call.
func checkTrace(fileSet *source.FileSet, res *Result, opts Options) {
	file := fileSet.Get(res.FileID)
	key := Digest(file.Hash)

	var cached Payload
	if hit, err := opts.Cache.Get(key, &cached); err == nil && hit {
		res.Cached = true
		res.Signatures = cached.Signatures
		for _, d := range cached.Diags {
			res.Bag.Add(diag.New(
				diag.Severity(d.Severity),
				diag.Code(d.Code),
				source.Span{File: res.FileID, Start: d.Start, End: d.End},
				d.Message,
			))
		}
		return
	}

	in := types.NewInterner()
	strs := source.NewInterner()
	decoder := &trace.Decoder{Types: in, Strs: strs}

	program, err := decoder.DecodeAt(res.FileID, file.Content)
	if err != nil {
		res.Bag.Add(diag.NewError(diag.UnknownCode,
			source.Span{File: res.FileID}, err.Error()))
		return
	}

	checked := sema.Check(program, sema.Options{
		Reporter: diag.BagReporter{Bag: res.Bag},
		Types:    in,
		Strings:  strs,
		Registry: registry.Default(in, strs),
		MaxDepth: opts.MaxDepth,
	})
	res.Bag.Sort()

	names := make([]string, 0, len(checked.Signatures))
	byName := make(map[string]CachedSignature, len(checked.Signatures))
	for id, s := range checked.Signatures {
		name, _ := strs.Lookup(id)
		names = append(names, name)
		byName[name] = CachedSignature{
			Template: name,
			Contract: diagfmt.Signature(in, strs, s),
		}
	}
	sort.Strings(names)
	for _, name := range names {
		res.Signatures = append(res.Signatures, byName[name])
	}

	fillCache(opts.Cache, key, res)
}

func fillCache(cache *DiskCache, key Digest, res *Result) {
	if cache == nil {
		return
	}
	payload := &Payload{
		Schema:     cacheSchemaVersion,
		Signatures: res.Signatures,
	}
	for _, d := range res.Bag.Items() {
		payload.Diags = append(payload.Diags, CachedDiag{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		})
	}
	// A failed write only costs the next run a re-check.
	_ = cache.Put(key, payload)
}

func countErrors(bag *diag.Bag) int {
	n := 0
	for _, d := range bag.Items() {
		if d.Severity >= diag.SevError {
			n++
		}
	}
	return n
}
