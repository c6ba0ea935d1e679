package gen

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// BuildCache remembers the content digest of every artifact written by a
// previous run, letting the writer skip files whose content has not changed.
// Losing the cache only costs rewrites, so load failures degrade to an empty
// cache instead of failing the run.
type BuildCache struct {
	mu      sync.Mutex
	digests map[string]string
	dirty   bool
}

// NewBuildCache returns an empty cache.
func NewBuildCache() *BuildCache {
	return &BuildCache{digests: make(map[string]string)}
}

// LoadBuildCache reads the cache file at path. A missing or unreadable file
// yields an empty cache.
func LoadBuildCache(path string) *BuildCache {
	c := NewBuildCache()
	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	var digests map[string]string
	if err := msgpack.Unmarshal(data, &digests); err != nil || digests == nil {
		return c
	}
	c.digests = digests
	return c
}

// UpToDate reports whether the named artifact was last written with exactly
// this content.
func (c *BuildCache) UpToDate(name string, content []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.digests[name] == digest(content)
}

// Record remembers the content just written for the named artifact.
func (c *BuildCache) Record(name string, content []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.digests[name] = digest(content)
	c.dirty = true
}

// Save writes the cache to path if anything changed since it was loaded.
func (c *BuildCache) Save(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}
	data, err := msgpack.Marshal(c.digests)
	if err != nil {
		return NewGenerationError(PhaseWrite, "", "encode build cache", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return NewGenerationError(PhaseWrite, "", "save build cache", err)
	}
	c.dirty = false
	return nil
}

func digest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
