package driver

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"equate/internal/diag"
	"equate/internal/expand"
	"equate/internal/markers"
	"equate/internal/source"
	"equate/internal/synth"
)

const defaultMaxDiagnostics = 100

// Options controls how requests are expanded.
type Options struct {
	// Registry resolves marker names. nil means markers.Default().
	Registry *markers.Registry
	// MaxDiagnostics caps the bag. 0 means the default of 100.
	MaxDiagnostics int
	// Cache, when non-nil, is consulted before expanding and updated after.
	Cache *DiskCache
	// Jobs bounds ExpandDir parallelism. 0 means GOMAXPROCS.
	Jobs int
}

// Result is the outcome of expanding one request document.
type Result struct {
	Path      string
	FS        *source.FileSet
	FileID    source.FileID
	Generated []synth.Decl
	Bag       *diag.Bag
	CacheHit  bool
}

// HasErrors reports whether expansion produced error diagnostics.
func (r *Result) HasErrors() bool { return r.Bag.HasErrors() }

// Expand runs one request through the engine. The embedded source is
// registered in fs as a virtual file so diagnostics resolve to lines.
func Expand(fs *source.FileSet, req *Request, opts Options) *Result {
	fileID := fs.AddVirtual(req.Path, req.Source)
	limit := opts.MaxDiagnostics
	if limit <= 0 {
		limit = defaultMaxDiagnostics
	}
	bag := diag.NewBag(limit)

	ereq := expand.Request{
		MarkerSpan: req.MarkerSpan.toSpan(fileID),
		Registry:   opts.Registry,
		Reporter:   diag.BagReporter{Bag: bag},
	}

	var generated []synth.Decl
	switch req.Entry {
	case EntryComparison:
		generated = expand.Comparison(req.Aggregate.toDecl(fileID), ereq)
	case EntryExcludedField:
		expand.ExcludedField(req.target(fileID), ereq)
	case EntryAllowedFnField:
		expand.AllowedFunctionField(req.target(fileID), ereq)
	}

	bag.Sort()
	return &Result{
		Path:      req.Path,
		FS:        fs,
		FileID:    fileID,
		Generated: generated,
		Bag:       bag,
	}
}

func (r *Request) target(fileID source.FileID) expand.Target {
	if r.Target.Member != nil {
		agg := r.Aggregate.toDecl(fileID)
		m := &agg.Members[*r.Target.Member]
		return expand.Target{Member: m, Kind: declKind(r.Target.Kind), Span: m.Span}
	}
	return expand.Target{
		Kind: declKind(r.Target.Kind),
		Span: r.Target.Span.toSpan(fileID),
	}
}

// ExpandFile loads, expands, and caches one request document.
func ExpandFile(path string, opts Options) (*Result, error) {
	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	key := CacheKey(raw)

	if opts.Cache != nil {
		if payload, ok, cerr := opts.Cache.Load(key); cerr == nil && ok {
			req, perr := ParseRequest(path, raw)
			if perr == nil {
				return payload.restore(req), nil
			}
		}
	}

	req, err := ParseRequest(path, raw)
	if err != nil {
		return nil, err
	}
	res := Expand(source.NewFileSet(), req, opts)

	if opts.Cache != nil {
		// Cache write failures are not expansion failures.
		_ = opts.Cache.Store(key, snapshot(res))
	}
	return res, nil
}

// ExpandDir expands every .json request under dir. Results come back in
// lexical path order regardless of which worker finished first.
func ExpandDir(ctx context.Context, dir string, opts Options) ([]*Result, error) {
	paths, err := listRequests(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]*Result, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := ExpandFile(p, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// LoadRequestDir loads every .json request under dir in lexical order.
func LoadRequestDir(dir string) ([]*Request, error) {
	paths, err := listRequests(dir)
	if err != nil {
		return nil, err
	}
	requests := make([]*Request, 0, len(paths))
	for _, p := range paths {
		req, err := LoadRequest(p)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, nil
}

func listRequests(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
