package cache

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
)

func newTestManager(t *testing.T, memory int64) *Manager {
	t.Helper()
	m, err := NewManager(Config{
		MemoryCapacity: memory,
		DiskDir:        "/cache",
		DiskCapacity:   1 << 20,
		Fs:             afero.NewMemMapFs(),
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

func TestNewManager_RejectsZeroMemory(t *testing.T) {
	if _, err := NewManager(Config{}); err == nil {
		t.Fatal("expected error for zero memory capacity")
	}
}

func TestManager_MemoryOnly(t *testing.T) {
	m, err := NewManager(DefaultConfig())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if err := m.Put("k", []byte("v")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if got, ok := m.Get("k"); !ok || string(got) != "v" {
		t.Errorf("Get = %q, %v", got, ok)
	}
	if _, ok := m.LevelStats()[LevelDisk]; ok {
		t.Error("disk level reported without a disk dir")
	}
	if err := m.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestManager_PromotesDiskHits(t *testing.T) {
	m := newTestManager(t, 1<<10)
	value := bytes.Repeat([]byte{1}, 100)

	if err := m.Put("k", value); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	_ = m.memory.Delete("k")

	got, ok := m.Get("k")
	if !ok || !bytes.Equal(got, value) {
		t.Fatal("expected disk hit")
	}
	if !m.memory.Contains("k") {
		t.Error("disk hit was not promoted into memory")
	}
}

func TestManager_ReopenPromotesFromDisk(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DiskDir = "/cache"
	cfg.Fs = afero.NewMemMapFs()

	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	key := Key("mock", "", 1, 1, "promote")
	if err := m.Put(key, []byte("pcm")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	_ = m.Close()

	m2, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if _, ok := m2.Get(key); !ok {
		t.Fatal("expected disk hit after reopen")
	}
	if !m2.memory.Contains(key) {
		t.Error("disk hit was not promoted to memory")
	}
	m2.Get(key)
	m2.Get("absent")

	s := m2.Stats()
	if s.Hits != 2 || s.Misses != 1 {
		t.Errorf("hits/misses = %d/%d, want 2/1", s.Hits, s.Misses)
	}
	if len(m2.LevelStats()) != 2 {
		t.Error("expected stats for both levels")
	}
}

func TestManager_TooLargeForMemoryStillOnDisk(t *testing.T) {
	m := newTestManager(t, 10)
	value := bytes.Repeat([]byte{2}, 100)

	if err := m.Put("big", value); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if m.memory.Contains("big") {
		t.Error("oversized value stored in memory")
	}
	if _, ok := m.Get("big"); !ok {
		t.Error("expected oversized value on disk")
	}
}

func TestManager_Stats(t *testing.T) {
	m := newTestManager(t, 1<<10)
	_ = m.Put("a", []byte("aaaa"))

	m.Get("a")       // memory hit
	m.Get("missing") // miss on both levels

	s := m.Stats()
	if s.Hits != 1 || s.Misses != 1 {
		t.Errorf("hits/misses = %d/%d, want 1/1", s.Hits, s.Misses)
	}
	if s.ItemCount != 2 {
		t.Errorf("item count = %d, want 2 (one per level)", s.ItemCount)
	}
}

func TestManager_DeleteAndClear(t *testing.T) {
	m := newTestManager(t, 1<<10)
	_ = m.Put("a", []byte("a"))
	_ = m.Put("b", []byte("b"))

	if err := m.Delete("a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := m.Get("a"); ok {
		t.Error("deleted key still present")
	}
	if err := m.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok := m.Get("b"); ok {
		t.Error("cleared key still present")
	}
}
