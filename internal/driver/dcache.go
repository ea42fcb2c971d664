package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"equate/internal/diag"
	"equate/internal/source"
	"equate/internal/synth"
)

// cacheSchema is bumped whenever the payload layout or the engine's output
// semantics change. Entries with another schema are treated as misses.
const cacheSchema uint16 = 1

// CacheKey derives the cache key for a request document. The key covers the
// raw document bytes, so any change to the embedded source or the parsed
// declaration invalidates the entry.
func CacheKey(raw []byte) [sha256.Size]byte {
	return sha256.Sum256(raw)
}

// DiskCache memoizes expansion results on disk, keyed by request content
// hash. Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenDiskCache opens (and creates if needed) the cache directory. With an
// empty dir it resolves XDG_CACHE_HOME, falling back to the OS default.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			var err error
			base, err = os.UserCacheDir()
			if err != nil {
				return nil, fmt.Errorf("resolve cache dir: %w", err)
			}
		}
		dir = filepath.Join(base, "equate")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the directory backing the cache.
func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) entryPath(key [sha256.Size]byte) string {
	return filepath.Join(c.dir, hex.EncodeToString(key[:])+".eqc")
}

// Load returns the cached payload for key, or ok=false on miss. Corrupt or
// schema-mismatched entries are misses, not errors.
func (c *DiskCache) Load(key [sha256.Size]byte) (*cachePayload, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	raw, err := os.ReadFile(c.entryPath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var payload cachePayload
	if err := msgpack.Unmarshal(raw, &payload); err != nil {
		return nil, false, nil
	}
	if payload.Schema != cacheSchema {
		return nil, false, nil
	}
	return &payload, true, nil
}

// Store writes the payload for key. The write goes through a temp file and a
// rename so readers never observe a partial entry.
func (c *DiskCache) Store(key [sha256.Size]byte, payload *cachePayload) error {
	raw, err := msgpack.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	tmp, err := os.CreateTemp(c.dir, "tmp-*.eqc")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), c.entryPath(key))
}

type cachePayload struct {
	Schema    uint16       `msgpack:"schema"`
	Generated []cachedDecl `msgpack:"generated"`
	Diags     []cachedDiag `msgpack:"diags"`
}

type cachedDecl struct {
	Kind uint8  `msgpack:"kind"`
	Name string `msgpack:"name"`
	Text string `msgpack:"text"`
}

type cachedDiag struct {
	Severity uint8        `msgpack:"sev"`
	Code     uint16       `msgpack:"code"`
	Message  string       `msgpack:"msg"`
	Start    uint32       `msgpack:"start"`
	End      uint32       `msgpack:"end"`
	Notes    []cachedNote `msgpack:"notes,omitempty"`
	Fixes    []cachedFix  `msgpack:"fixes,omitempty"`
}

type cachedNote struct {
	Start uint32 `msgpack:"start"`
	End   uint32 `msgpack:"end"`
	Msg   string `msgpack:"msg"`
}

type cachedFix struct {
	ID            string       `msgpack:"id"`
	Title         string       `msgpack:"title"`
	Kind          uint8        `msgpack:"kind"`
	Applicability uint8        `msgpack:"appl"`
	Preferred     bool         `msgpack:"pref,omitempty"`
	Edits         []cachedEdit `msgpack:"edits"`
}

type cachedEdit struct {
	Start   uint32 `msgpack:"start"`
	End     uint32 `msgpack:"end"`
	NewText string `msgpack:"new"`
	OldText string `msgpack:"old,omitempty"`
}

func snapshot(res *Result) *cachePayload {
	payload := &cachePayload{Schema: cacheSchema}
	for _, d := range res.Generated {
		payload.Generated = append(payload.Generated, cachedDecl{
			Kind: uint8(d.Kind),
			Name: d.Name,
			Text: d.Text,
		})
	}
	for _, d := range res.Bag.Items() {
		cd := cachedDiag{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, cachedNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
		}
		for _, f := range d.Fixes {
			cf := cachedFix{
				ID:            f.ID,
				Title:         f.Title,
				Kind:          uint8(f.Kind),
				Applicability: uint8(f.Applicability),
				Preferred:     f.IsPreferred,
			}
			for _, e := range f.Edits {
				cf.Edits = append(cf.Edits, cachedEdit{
					Start:   e.Span.Start,
					End:     e.Span.End,
					NewText: e.NewText,
					OldText: e.OldText,
				})
			}
			cd.Fixes = append(cd.Fixes, cf)
		}
		payload.Diags = append(payload.Diags, cd)
	}
	return payload
}

// restore rebuilds a Result from a cached payload. Spans were stored as bare
// offsets; the request source is re-registered so they resolve again.
func (p *cachePayload) restore(req *Request) *Result {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(req.Path, req.Source)

	res := &Result{
		Path:     req.Path,
		FS:       fs,
		FileID:   fileID,
		Bag:      diag.NewBag(len(p.Diags)),
		CacheHit: true,
	}
	for _, d := range p.Generated {
		res.Generated = append(res.Generated, synth.Decl{
			Kind: synth.DeclKind(d.Kind),
			Name: d.Name,
			Text: d.Text,
		})
	}
	span := func(start, end uint32) source.Span {
		return source.Span{File: fileID, Start: start, End: end}
	}
	for _, cd := range p.Diags {
		d := diag.Diagnostic{
			Severity: diag.Severity(cd.Severity),
			Code:     diag.Code(cd.Code),
			Message:  cd.Message,
			Primary:  span(cd.Start, cd.End),
		}
		for _, n := range cd.Notes {
			d.Notes = append(d.Notes, diag.Note{Span: span(n.Start, n.End), Msg: n.Msg})
		}
		for _, cf := range cd.Fixes {
			f := diag.Fix{
				ID:            cf.ID,
				Title:         cf.Title,
				Kind:          diag.FixKind(cf.Kind),
				Applicability: diag.FixApplicability(cf.Applicability),
				IsPreferred:   cf.Preferred,
			}
			for _, e := range cf.Edits {
				f.Edits = append(f.Edits, diag.TextEdit{
					Span:    span(e.Start, e.End),
					NewText: e.NewText,
					OldText: e.OldText,
				})
			}
			d.Fixes = append(d.Fixes, f)
		}
		res.Bag.Add(d)
	}
	return res
}
