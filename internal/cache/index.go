// Package cache remembers ffprobe output between runs so that recomposing a
// layout does not re-probe clips that have not changed on disk.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gridstack/internal/probe"
)

const indexVersion = 1

// Index captures probe results persisted to .gridstack/probe-cache.json.
type Index struct {
	Version int              `json:"version"`
	Entries map[string]Entry `json:"entries"`

	mu    sync.Mutex
	dirty bool
}

// Entry is the raw ffprobe output for one file, valid while the file keeps
// the recorded size and modification time.
type Entry struct {
	Path      string          `json:"path"`
	SizeBytes int64           `json:"size_bytes"`
	ModTime   time.Time       `json:"mod_time"`
	ProbedAt  time.Time       `json:"probed_at"`
	Raw       json.RawMessage `json:"raw"`
}

// LoadFromPath reads the index at path, returning an empty index when the
// file is missing.
func LoadFromPath(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return newIndex(), nil
		}
		return nil, fmt.Errorf("read probe cache: %w", err)
	}

	idx := newIndex()
	if err := json.Unmarshal(data, idx); err != nil {
		return nil, fmt.Errorf("decode probe cache: %w", err)
	}
	if idx.Version != indexVersion {
		return newIndex(), nil
	}
	idx.normalize()
	return idx, nil
}

// SaveToPath writes the index atomically, creating the containing directory
// if needed. Unchanged indexes are not rewritten.
func SaveToPath(path string, idx *Index) error {
	if idx == nil {
		return nil
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if !idx.dirty {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure probe cache dir: %w", err)
	}
	idx.normalize()

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("encode probe cache: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp probe cache: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace probe cache: %w", err)
	}
	idx.dirty = false
	return nil
}

// Lookup returns the cached output for path if info still matches it.
func (idx *Index) Lookup(path string, info os.FileInfo) ([]byte, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	entry, ok := idx.Entries[path]
	if !ok || entry.SizeBytes != info.Size() || !entry.ModTime.Equal(info.ModTime()) {
		return nil, false
	}
	return entry.Raw, true
}

// Store records raw probe output for path.
func (idx *Index) Store(path string, info os.FileInfo, raw []byte) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.normalize()
	idx.Entries[path] = Entry{
		Path:      path,
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
		ProbedAt:  time.Now().UTC(),
		Raw:       append(json.RawMessage(nil), raw...),
	}
	idx.dirty = true
}

// Wrap returns a probe.Func that answers from the index when it can and
// records fresh output from fn otherwise. Output that does not parse is never
// cached.
func (idx *Index) Wrap(fn probe.Func) probe.Func {
	return func(ctx context.Context, path string) ([]byte, error) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fn(ctx, path)
		}
		info, err := os.Stat(abs)
		if err != nil || !info.Mode().IsRegular() {
			return fn(ctx, path)
		}
		if raw, ok := idx.Lookup(abs, info); ok {
			return raw, nil
		}

		raw, err := fn(ctx, path)
		if err != nil {
			return nil, err
		}
		if _, perr := probe.Parse(raw); perr == nil {
			idx.Store(abs, info, raw)
		}
		return raw, nil
	}
}

// Len returns the number of cached entries.
func (idx *Index) Len() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return len(idx.Entries)
}

func (idx *Index) normalize() {
	if idx.Version == 0 {
		idx.Version = indexVersion
	}
	if idx.Entries == nil {
		idx.Entries = map[string]Entry{}
	}
}

func newIndex() *Index {
	return &Index{
		Version: indexVersion,
		Entries: map[string]Entry{},
	}
}
