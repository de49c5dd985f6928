package cache

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// Config configures a Manager.
type Config struct {
	// MemoryCapacity is the memory level size in bytes.
	MemoryCapacity int64
	// DiskDir enables the disk level when non-empty.
	DiskDir string
	// DiskCapacity is the compressed disk level size in bytes.
	DiskCapacity int64
	// Fs is the filesystem for the disk level; defaults to the OS.
	Fs afero.Fs
}

// DefaultConfig returns a 32MB memory cache with the disk level disabled.
func DefaultConfig() Config {
	return Config{
		MemoryCapacity: 32 << 20,
		DiskCapacity:   100 << 20,
	}
}

// Manager looks up the memory level first, then disk, promoting disk hits
// into memory.
type Manager struct {
	memory *MemoryCache
	disk   *DiskCache
}

// NewManager builds a Manager from cfg.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.MemoryCapacity <= 0 {
		return nil, fmt.Errorf("memory capacity must be positive, got %d", cfg.MemoryCapacity)
	}
	m := &Manager{memory: NewMemoryCache(cfg.MemoryCapacity)}

	if cfg.DiskDir != "" {
		fs := cfg.Fs
		if fs == nil {
			fs = afero.NewOsFs()
		}
		disk, err := NewDiskCache(fs, cfg.DiskDir, cfg.DiskCapacity)
		if err != nil {
			return nil, err
		}
		m.disk = disk
	}
	return m, nil
}

// Get looks key up in memory and then on disk.
func (m *Manager) Get(key string) ([]byte, bool) {
	if data, ok := m.memory.Get(key); ok {
		return data, true
	}
	if m.disk == nil {
		return nil, false
	}
	data, ok := m.disk.Get(key)
	if !ok {
		return nil, false
	}
	if err := m.memory.Put(key, data); err != nil {
		log.Debug("cache promotion skipped", "key", key, "error", err)
	}
	return data, true
}

// Put writes key to every level. A disk failure is returned but the memory
// level still holds the value.
func (m *Manager) Put(key string, value []byte) error {
	if err := m.memory.Put(key, value); err != nil && !errors.Is(err, ErrItemTooLarge) {
		return err
	}
	if m.disk != nil {
		if err := m.disk.Put(key, value); err != nil {
			return fmt.Errorf("disk cache: %w", err)
		}
	}
	return nil
}

// Delete removes key from every level.
func (m *Manager) Delete(key string) error {
	_ = m.memory.Delete(key)
	if m.disk != nil {
		return m.disk.Delete(key)
	}
	return nil
}

// Clear empties every level.
func (m *Manager) Clear() error {
	_ = m.memory.Clear()
	if m.disk != nil {
		return m.disk.Clear()
	}
	return nil
}

// Stats returns combined statistics. Hits and misses are counted once per
// lookup: a disk hit counts as a hit, a miss on both levels as one miss.
func (m *Manager) Stats() Stats {
	mem := m.memory.Stats()
	if m.disk == nil {
		return mem
	}
	disk := m.disk.Stats()
	s := mem.Add(disk)
	s.Hits = mem.Hits + disk.Hits
	s.Misses = disk.Misses
	return s
}

// LevelStats returns statistics per level.
func (m *Manager) LevelStats() map[Level]Stats {
	out := map[Level]Stats{LevelMemory: m.memory.Stats()}
	if m.disk != nil {
		out[LevelDisk] = m.disk.Stats()
	}
	return out
}

// Close flushes the disk level.
func (m *Manager) Close() error {
	if m.disk != nil {
		return m.disk.Close()
	}
	return nil
}
