// Package cache implements DiskCache (SPEC_FULL.md §4.2): content
// compressed with zstd, keyed by (schema-version, crate-name,
// crate-version), written atomically via a temp file + rename. Grounded
// on the teacher's internal/docs/cache.go (zstd JSON cache) and
// internal/cas/cas.go (atomic sharded write), adapted to the
// schema-version-keyed layout original_source/docsrs_client.rs's
// load_from_cache uses rather than a content hash.
package cache

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// DiskCache stores JSON crate dumps and serialized search indices under
// Base, per SPEC_FULL.md §4.2's path scheme:
// {Base}/{schema-version}/{crate}/{version}.json and .index.
type DiskCache struct {
	Base string
}

// New returns a DiskCache rooted at base; directories under base are
// created on first write.
func New(base string) *DiskCache {
	return &DiskCache{Base: base}
}

func (c *DiskCache) jsonPath(schemaVersion int, crate, version string) string {
	return filepath.Join(c.Base, fmt.Sprint(schemaVersion), crate, version+".json")
}

func (c *DiskCache) indexPath(schemaVersion int, crate, version string) string {
	return filepath.Join(c.Base, fmt.Sprint(schemaVersion), crate, version+".index")
}

// PutJSON atomically writes zstd-compressed raw JSON bytes.
func (c *DiskCache) PutJSON(schemaVersion int, crate, version string, data []byte) error {
	return c.putCompressed(c.jsonPath(schemaVersion, crate, version), data)
}

// GetJSON reads and decompresses a cached JSON dump. A missing or
// corrupt entry is reported as ok=false, never an error — DiskCache
// reads are best-effort (SPEC_FULL.md §4.2).
func (c *DiskCache) GetJSON(schemaVersion int, crate, version string) (data []byte, ok bool) {
	return c.getCompressed(c.jsonPath(schemaVersion, crate, version))
}

// HasJSON reports whether a cache entry exists without reading it.
func (c *DiskCache) HasJSON(schemaVersion int, crate, version string) bool {
	_, err := os.Stat(c.jsonPath(schemaVersion, crate, version))
	return err == nil
}

// SourceModTime returns the cached JSON file's modification time, used
// by SearchIndex freshness checks (§4.6). ok is false if the entry
// doesn't exist.
func (c *DiskCache) SourceModTime(schemaVersion int, crate, version string) (mtime int64, ok bool) {
	info, err := os.Stat(c.jsonPath(schemaVersion, crate, version))
	if err != nil {
		return 0, false
	}
	return info.ModTime().UnixNano(), true
}

// PutIndex atomically writes a serialized search index.
func (c *DiskCache) PutIndex(schemaVersion int, crate, version string, data []byte) error {
	return c.putCompressed(c.indexPath(schemaVersion, crate, version), data)
}

// GetIndex reads a serialized search index.
func (c *DiskCache) GetIndex(schemaVersion int, crate, version string) (data []byte, ok bool) {
	return c.getCompressed(c.indexPath(schemaVersion, crate, version))
}

// InvalidateIndex removes a stale index so the next load-or-build
// rebuilds from scratch, mirroring original_source's
// SearchIndex::load_or_build deleting a stale index file rather than
// leaving it to be silently shadowed.
func (c *DiskCache) InvalidateIndex(schemaVersion int, crate, version string) {
	_ = os.Remove(c.indexPath(schemaVersion, crate, version))
}

func (c *DiskCache) putCompressed(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	w, err := zstd.NewWriter(tmp)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("creating zstd writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		tmp.Close()
		return fmt.Errorf("writing compressed cache entry: %w", err)
	}
	if err := w.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("closing zstd writer: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp cache file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming cache entry into place: %w", err)
	}
	return nil
}

func (c *DiskCache) getCompressed(path string) ([]byte, bool) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	r, err := zstd.NewReader(f)
	if err != nil {
		return nil, false
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, false // corruption is a cache-miss, not an error
	}
	return data, true
}
