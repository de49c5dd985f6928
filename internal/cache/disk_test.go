package cache

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
)

func newTestDisk(t *testing.T, fs afero.Fs, capacity int64) *DiskCache {
	t.Helper()
	dc, err := NewDiskCache(fs, "/cache", capacity)
	if err != nil {
		t.Fatalf("NewDiskCache failed: %v", err)
	}
	return dc
}

func TestDiskCache_RoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	dc := newTestDisk(t, fs, 1<<20)

	key := Key("mock", "", 0.8, 0.65, "a")
	value := bytes.Repeat([]byte{0, 1, 2, 3}, 1000)
	if err := dc.Put(key, value); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok := dc.Get(key)
	if !ok {
		t.Fatal("Get: key not found")
	}
	if !bytes.Equal(got, value) {
		t.Error("value mismatch after round trip")
	}

	// repetitive PCM compresses well
	if s := dc.Stats(); s.Size >= int64(len(value)) {
		t.Errorf("stored size %d not smaller than raw %d", s.Size, len(value))
	}
}

func TestDiskCache_PersistsAcrossOpen(t *testing.T) {
	fs := afero.NewMemMapFs()
	dc := newTestDisk(t, fs, 1<<20)
	key := Key("mock", "", 1, 1, "persist")
	if err := dc.Put(key, []byte("hello")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := dc.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := newTestDisk(t, fs, 1<<20)
	got, ok := reopened.Get(key)
	if !ok || string(got) != "hello" {
		t.Errorf("Get after reopen = %q, %v", got, ok)
	}
}

func TestDiskCache_MissingFileIsMiss(t *testing.T) {
	fs := afero.NewMemMapFs()
	dc := newTestDisk(t, fs, 1<<20)
	key := Key("mock", "", 1, 1, "gone")
	_ = dc.Put(key, []byte("data"))
	_ = fs.Remove(dc.path(key))

	if _, ok := dc.Get(key); ok {
		t.Error("expected miss for deleted file")
	}
	if dc.Stats().ItemCount != 0 {
		t.Error("index should drop entries whose file vanished")
	}
}

func TestDiskCache_CorruptIndex(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = fs.MkdirAll("/cache", 0o755)
	_ = afero.WriteFile(fs, "/cache/index.gob", []byte("garbage"), 0o644)

	dc := newTestDisk(t, fs, 1<<20)
	if dc.Stats().ItemCount != 0 {
		t.Error("corrupt index should start empty")
	}
}

func TestDiskCache_Clear(t *testing.T) {
	fs := afero.NewMemMapFs()
	dc := newTestDisk(t, fs, 1<<20)
	key := Key("mock", "", 1, 1, "x")
	_ = dc.Put(key, []byte("x"))

	if err := dc.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok := dc.Get(key); ok {
		t.Error("entry survived Clear")
	}
	if exists, _ := afero.DirExists(fs, "/cache"); !exists {
		t.Error("cache directory should be recreated")
	}
}
