package versions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

const (
	cacheFileName = "registry-cache.json"
	// DefaultCacheMaxAge is the default maximum age of a cached lookup.
	DefaultCacheMaxAge = 24 * time.Hour
)

// CacheEntry is one cached registry lookup.
type CacheEntry struct {
	Version    string    `json:"version"`
	Constraint string    `json:"constraint"`
	CheckedAt  time.Time `json:"checked_at"`
}

// RegistryCache holds cached lookups keyed by crate name.
type RegistryCache struct {
	Entries map[string]CacheEntry `json:"entries"`
}

// LoadCache reads the registry cache from dir on fsys.
// Returns nil, nil if the cache file does not exist (first run).
func LoadCache(fsys afero.Fs, dir string) (*RegistryCache, error) {
	path := filepath.Join(dir, cacheFileName)

	data, err := afero.ReadFile(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading registry cache: %w", err)
	}

	var cache RegistryCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("parsing registry cache: %w", err)
	}
	return &cache, nil
}

// SaveCache writes the registry cache to dir on fsys.
func SaveCache(fsys afero.Fs, dir string, cache *RegistryCache) error {
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling registry cache: %w", err)
	}

	path := filepath.Join(dir, cacheFileName)
	if err := afero.WriteFile(fsys, path, data, 0644); err != nil {
		return fmt.Errorf("writing registry cache: %w", err)
	}
	return nil
}

// IsEntryStale returns true if the entry is older than maxAge.
func IsEntryStale(entry CacheEntry, now time.Time, maxAge time.Duration) bool {
	return now.Sub(entry.CheckedAt) > maxAge
}

// Cached serves fresh lookups from an on-disk cache and stores successful
// lookups of Inner. Cache read and write errors are ignored.
type Cached struct {
	Inner Resolver
	// Fs defaults to the OS filesystem.
	Fs     afero.Fs
	Dir    string
	MaxAge time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// Resolve implements Resolver.
func (c Cached) Resolve(ctx context.Context, dep Dependency) (Pin, error) {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	maxAge := c.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultCacheMaxAge
	}

	fsys := c.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	constraint, err := CompatibleConstraint(dep)
	if err != nil {
		return Pin{}, err
	}

	cache, _ := LoadCache(fsys, c.Dir)
	if cache != nil {
		entry, ok := cache.Entries[dep.Name]
		if ok && entry.Constraint == constraint.String() && !IsEntryStale(entry, now(), maxAge) {
			return Pin{Name: dep.Name, Version: entry.Version, Source: SourceCache}, nil
		}
	}

	pin, err := c.Inner.Resolve(ctx, dep)
	if err != nil {
		return Pin{}, err
	}

	if cache == nil || cache.Entries == nil {
		cache = &RegistryCache{Entries: make(map[string]CacheEntry)}
	}
	cache.Entries[dep.Name] = CacheEntry{
		Version:    pin.Version,
		Constraint: constraint.String(),
		CheckedAt:  now(),
	}
	_ = SaveCache(fsys, c.Dir, cache)
	return pin, nil
}
