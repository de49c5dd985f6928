package cache

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"
)

const indexFile = "index.gob"

// DiskCache stores zstd-compressed audio on an afero filesystem with a gob
// index so entries survive restarts.
type DiskCache struct {
	fs       afero.Fs
	basePath string
	capacity int64
	size     int64

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	index map[string]*entryMeta

	mu    sync.Mutex
	stats Stats
}

// NewDiskCache opens (or creates) a disk cache rooted at basePath.
func NewDiskCache(fs afero.Fs, basePath string, capacity int64) (*DiskCache, error) {
	if err := fs.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	dc := &DiskCache{
		fs:       fs,
		basePath: basePath,
		capacity: capacity,
		encoder:  enc,
		decoder:  dec,
		index:    make(map[string]*entryMeta),
		stats:    Stats{Capacity: capacity},
	}

	// a broken index only costs us a cold cache
	if err := dc.loadIndex(); err != nil {
		dc.index = make(map[string]*entryMeta)
	}
	for _, e := range dc.index {
		dc.size += e.Size
	}
	return dc, nil
}

// Get reads and decompresses an entry.
func (dc *DiskCache) Get(key string) ([]byte, bool) {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	entry, ok := dc.index[key]
	if !ok {
		dc.stats.Misses++
		return nil, false
	}

	compressed, err := afero.ReadFile(dc.fs, dc.path(key))
	if err != nil {
		dc.dropLocked(key)
		dc.stats.Misses++
		return nil, false
	}
	data, err := dc.decoder.DecodeAll(compressed, nil)
	if err != nil {
		dc.dropLocked(key)
		dc.stats.Misses++
		return nil, false
	}

	entry.LastAccess = time.Now()
	dc.stats.Hits++
	return data, true
}

// Put compresses and writes an entry, evicting the least recently accessed
// entries when over capacity.
func (dc *DiskCache) Put(key string, value []byte) error {
	compressed := dc.encoder.EncodeAll(value, nil)
	n := int64(len(compressed))
	if n > dc.capacity {
		return ErrItemTooLarge
	}

	dc.mu.Lock()
	defer dc.mu.Unlock()

	p := dc.path(key)
	if err := dc.fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("failed to create cache shard: %w", err)
	}
	if err := afero.WriteFile(dc.fs, p, compressed, 0o644); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}

	if old, ok := dc.index[key]; ok {
		dc.size -= old.Size
	}
	now := time.Now()
	dc.index[key] = &entryMeta{Key: key, Size: n, Stored: now, LastAccess: now}
	dc.size += n

	dc.evictLocked(key)
	return dc.saveIndex()
}

// Delete removes an entry.
func (dc *DiskCache) Delete(key string) error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	if _, ok := dc.index[key]; !ok {
		return nil
	}
	dc.dropLocked(key)
	return dc.saveIndex()
}

// Clear removes every entry and the index.
func (dc *DiskCache) Clear() error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	if err := dc.fs.RemoveAll(dc.basePath); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	if err := dc.fs.MkdirAll(dc.basePath, 0o755); err != nil {
		return fmt.Errorf("failed to recreate cache directory: %w", err)
	}
	dc.index = make(map[string]*entryMeta)
	dc.size = 0
	return nil
}

// Stats returns cache statistics. Size is the compressed size on disk.
func (dc *DiskCache) Stats() Stats {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	s := dc.stats
	s.Size = dc.size
	s.ItemCount = int64(len(dc.index))
	return s
}

// Close flushes the index and releases the codecs.
func (dc *DiskCache) Close() error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	err := dc.saveIndex()
	_ = dc.encoder.Close()
	dc.decoder.Close()
	return err
}

func (dc *DiskCache) path(key string) string {
	shard := key
	if len(shard) > 2 {
		shard = shard[:2]
	}
	return filepath.Join(dc.basePath, shard, key+".zst")
}

// must be called with lock held
func (dc *DiskCache) dropLocked(key string) {
	if e, ok := dc.index[key]; ok {
		dc.size -= e.Size
		delete(dc.index, key)
	}
	_ = dc.fs.Remove(dc.path(key))
}

// must be called with lock held; keep is never evicted
func (dc *DiskCache) evictLocked(keep string) {
	if dc.size <= dc.capacity {
		return
	}
	entries := make([]*entryMeta, 0, len(dc.index))
	for _, e := range dc.index {
		if e.Key != keep {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LastAccess.Before(entries[j].LastAccess)
	})
	for _, e := range entries {
		if dc.size <= dc.capacity {
			break
		}
		dc.dropLocked(e.Key)
		dc.stats.Evictions++
	}
}

func (dc *DiskCache) loadIndex() error {
	data, err := afero.ReadFile(dc.fs, filepath.Join(dc.basePath, indexFile))
	if err != nil {
		return err
	}
	var index map[string]*entryMeta
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&index); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheCorrupted, err)
	}
	dc.index = index
	return nil
}

// must be called with lock held
func (dc *DiskCache) saveIndex() error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(dc.index); err != nil {
		return fmt.Errorf("failed to encode cache index: %w", err)
	}
	return afero.WriteFile(dc.fs, filepath.Join(dc.basePath, indexFile), buf.Bytes(), 0o644)
}
