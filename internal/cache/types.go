package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Common errors for cache operations
var (
	// ErrItemTooLarge is returned when an item exceeds the cache capacity
	ErrItemTooLarge = errors.New("item too large for cache")

	// ErrCacheCorrupted is returned when cache data is corrupted
	ErrCacheCorrupted = errors.New("cache data corrupted")
)

// Level represents the cache tier.
type Level int

const (
	// LevelMemory is the in-memory LRU.
	LevelMemory Level = iota
	// LevelDisk is the persistent compressed store.
	LevelDisk
)

func (l Level) String() string {
	switch l {
	case LevelMemory:
		return "memory"
	case LevelDisk:
		return "disk"
	default:
		return "unknown"
	}
}

// Stats holds cache performance metrics.
type Stats struct {
	Capacity  int64
	Size      int64
	ItemCount int64
	Hits      int64
	Misses    int64
	Evictions int64
}

// HitRate returns hits / lookups, or 0 before the first lookup.
func (s Stats) HitRate() float64 {
	if s.Hits+s.Misses == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Hits+s.Misses)
}

// Add sums two stats, used to report both levels together.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Capacity:  s.Capacity + o.Capacity,
		Size:      s.Size + o.Size,
		ItemCount: s.ItemCount + o.ItemCount,
		Hits:      s.Hits + o.Hits,
		Misses:    s.Misses + o.Misses,
		Evictions: s.Evictions + o.Evictions,
	}
}

// Store is implemented by every cache level.
type Store interface {
	Get(key string) ([]byte, bool)
	Put(key string, value []byte) error
	Delete(key string) error
	Clear() error
	Stats() Stats
}

// Key derives a stable cache key from the parts that influence synthesis.
// Floats are formatted with fixed precision so 0.8 and 0.80000001 collide.
func Key(engine, voice string, rate, pitch float64, text string) string {
	raw := strings.Join([]string{
		engine,
		voice,
		fmt.Sprintf("%.3f", rate),
		fmt.Sprintf("%.3f", pitch),
		text,
	}, "\x00")
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

type entryMeta struct {
	Key        string
	Size       int64
	Stored     time.Time
	LastAccess time.Time
}
