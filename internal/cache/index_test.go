package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gridstack/internal/probe"
)

const probeJSON = `{"streams":[{"codec_type":"video","width":640,"height":360,"duration":"4"}],"format":{}}`

type countingProbe struct {
	calls int
	out   string
	err   error
}

func (c *countingProbe) probe(context.Context, string) ([]byte, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []byte(c.out), nil
}

func writeClip(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write clip: %v", err)
	}
}

func TestLoadFromPathMissing(t *testing.T) {
	idx, err := LoadFromPath(filepath.Join(t.TempDir(), "nonexistent.json"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if idx.Len() != 0 {
		t.Fatalf("expected empty entries, got %d", idx.Len())
	}
}

func TestLoadFromPathRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	writeClip(t, path, "{not json")
	if _, err := LoadFromPath(path); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestWrapCachesUntilFileChanges(t *testing.T) {
	dir := t.TempDir()
	clip := filepath.Join(dir, "a.mov")
	writeClip(t, clip, "frames")

	idx := newIndex()
	fake := &countingProbe{out: probeJSON}
	fn := idx.Wrap(fake.probe)

	for i := 0; i < 2; i++ {
		raw, err := fn(context.Background(), clip)
		if err != nil {
			t.Fatalf("probe %d: %v", i, err)
		}
		if string(raw) != probeJSON {
			t.Fatalf("unexpected output %q", raw)
		}
	}
	if fake.calls != 1 {
		t.Fatalf("expected one underlying probe, got %d", fake.calls)
	}

	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(clip, later, later); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if _, err := fn(context.Background(), clip); err != nil {
		t.Fatalf("probe after touch: %v", err)
	}
	if fake.calls != 2 {
		t.Fatalf("expected re-probe after modification, got %d calls", fake.calls)
	}
}

func TestWrapSkipsFailuresAndMalformedOutput(t *testing.T) {
	dir := t.TempDir()
	clip := filepath.Join(dir, "a.mov")
	writeClip(t, clip, "frames")

	idx := newIndex()
	failing := &countingProbe{err: errors.New("boom")}
	if _, err := idx.Wrap(failing.probe)(context.Background(), clip); err == nil {
		t.Fatal("expected underlying error")
	}

	malformed := &countingProbe{out: `{"streams":[]}`}
	if _, err := idx.Wrap(malformed.probe)(context.Background(), clip); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.Len() != 0 {
		t.Fatalf("expected nothing cached, got %d entries", idx.Len())
	}

	missing := &countingProbe{out: probeJSON}
	if _, err := idx.Wrap(missing.probe)(context.Background(), filepath.Join(dir, "gone.mov")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.Len() != 0 {
		t.Fatal("missing files must not be cached")
	}
}

func TestSaveToPathRoundtrip(t *testing.T) {
	dir := t.TempDir()
	clip := filepath.Join(dir, "a.mov")
	writeClip(t, clip, "frames")
	indexPath := filepath.Join(dir, "sub", "probe-cache.json")

	idx := newIndex()
	if _, err := idx.Wrap((&countingProbe{out: probeJSON}).probe)(context.Background(), clip); err != nil {
		t.Fatalf("probe: %v", err)
	}
	if err := SaveToPath(indexPath, idx); err != nil {
		t.Fatalf("SaveToPath: %v", err)
	}

	loaded, err := LoadFromPath(indexPath)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	info, err := os.Stat(clip)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	raw, ok := loaded.Lookup(clip, info)
	if !ok {
		t.Fatal("expected cached entry after reload")
	}
	probed, err := probe.Parse(raw)
	if err != nil {
		t.Fatalf("cached output no longer parses: %v", err)
	}
	if probed.Width != 640 || probed.Height != 360 {
		t.Fatalf("unexpected cached dimensions %dx%d", probed.Width, probed.Height)
	}
}

func TestSaveToPathSkipsCleanIndex(t *testing.T) {
	indexPath := filepath.Join(t.TempDir(), "probe-cache.json")
	if err := SaveToPath(indexPath, newIndex()); err != nil {
		t.Fatalf("SaveToPath: %v", err)
	}
	if _, err := os.Stat(indexPath); !os.IsNotExist(err) {
		t.Fatal("expected no file for an unchanged index")
	}
}
