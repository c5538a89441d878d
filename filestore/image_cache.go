package filestore

import (
	"path"
	"strings"
	"time"
)

// CacheDirName is the name of the per-directory cache folder that derived
// images are written into, next to their source files.
const CacheDirName = "cache"

// ImageCache manages derived images stored in per-directory cache folders on
// a storage backend. A source image at dir/name.ext gets its derivatives
// under dir/cache/.
type ImageCache struct {
	backend Backend
}

// NewImageCache creates an image cache over the given backend
func NewImageCache(backend Backend) *ImageCache {
	return &ImageCache{
		backend: backend,
	}
}

// Path returns the cache path for a derived file next to a source directory
func (ic *ImageCache) Path(sourceDir, fileName string) string {
	return path.Join(sourceDir, CacheDirName, fileName)
}

// Get loads a cached derivative. The boolean reports whether it existed.
func (ic *ImageCache) Get(sourceDir, fileName string) ([]byte, bool, error) {
	cachePath := ic.Path(sourceDir, fileName)
	exists, err := ic.backend.Exists(cachePath)
	if err != nil || !exists {
		return nil, false, err
	}
	data, err := ic.backend.Load(cachePath)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Put stores a derivative in the cache folder next to its source directory
func (ic *ImageCache) Put(sourceDir, fileName string, data []byte) error {
	return ic.backend.Save(ic.Path(sourceDir, fileName), data)
}

// Purge removes all cached derivatives of a single source image, identified
// by its base name without extension. Used when the source is replaced or
// deleted so stale renditions are not served.
func (ic *ImageCache) Purge(sourceDir, baseName string) (int, error) {
	cacheDir := path.Join(sourceDir, CacheDirName)
	files, err := ic.backend.List(cacheDir)
	if err != nil {
		return 0, nil // no cache folder yet, nothing to purge
	}

	removed := 0
	prefix := baseName + "_"
	for _, name := range files {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if err := ic.backend.Delete(path.Join(cacheDir, name)); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// Sweep walks the storage tree starting at root and deletes cached
// derivatives older than maxAge. Returns the number of files removed.
func (ic *ImageCache) Sweep(root string, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	return ic.sweepDir(root, cutoff)
}

// Clear deletes every cached derivative under root regardless of age
func (ic *ImageCache) Clear(root string) (int, error) {
	return ic.sweepDir(root, time.Time{})
}

func (ic *ImageCache) sweepDir(dir string, cutoff time.Time) (int, error) {
	removed := 0

	dirs, err := ic.backend.ListDirs(dir)
	if err != nil {
		return 0, err
	}

	for _, sub := range dirs {
		subPath := path.Join(dir, sub)
		if sub == CacheDirName {
			n, err := ic.clearCacheDir(subPath, cutoff)
			removed += n
			if err != nil {
				return removed, err
			}
			continue
		}
		n, err := ic.sweepDir(subPath, cutoff)
		removed += n
		if err != nil {
			return removed, err
		}
	}

	return removed, nil
}

func (ic *ImageCache) clearCacheDir(cacheDir string, cutoff time.Time) (int, error) {
	files, err := ic.backend.List(cacheDir)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, name := range files {
		filePath := path.Join(cacheDir, name)
		if !cutoff.IsZero() {
			modTime, err := ic.backend.ModTime(filePath)
			if err != nil {
				continue
			}
			if modTime.After(cutoff) {
				continue
			}
		}
		if err := ic.backend.Delete(filePath); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
