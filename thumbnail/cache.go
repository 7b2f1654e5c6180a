// Package thumbnail renders and caches the square previews shown for every image of a
// collection.
package thumbnail

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/alexballas/xsorter/logging"
)

// Options configure a Cache.
type Options struct {
	// Size is the edge of the square thumbnail in pixels.
	Size int
	// CacheDir enables the on-disk tier when not empty.
	CacheDir string
	// MaxCacheBytes and MaxCacheFiles bound the on-disk tier; Cleanup trims to 80% of both.
	MaxCacheBytes int64
	MaxCacheFiles int
	Logger        *logging.Logger
}

// Cache maps an absolute image path to its thumbnail. Rendering happens on the first Get for
// a path and the result is kept in memory for as long as the Cache lives, which is the life of
// the collection it was created for. It is safe for concurrent use.
type Cache struct {
	size     int
	mem      sync.Map // map[string]image.Image
	cacheDir string
	maxBytes int64
	maxFiles int
	log      *logging.Logger
}

// New creates a cache. The disk directory is created on demand.
func New(opts Options) *Cache {
	size := opts.Size
	if size <= 0 {
		size = 128
	}
	c := &Cache{
		size:     size,
		maxBytes: opts.MaxCacheBytes,
		maxFiles: opts.MaxCacheFiles,
		log:      logging.OrNop(opts.Logger),
	}
	if opts.CacheDir != "" {
		if err := os.MkdirAll(opts.CacheDir, 0o755); err != nil {
			c.log.Warn().Err(err).Str("dir", opts.CacheDir).Msg("thumbnail disk cache disabled")
		} else {
			c.cacheDir = opts.CacheDir
		}
	}
	return c
}

// Size returns the thumbnail edge in pixels.
func (c *Cache) Size() int {
	return c.size
}

// Peek returns the thumbnail for path if it is already in memory.
func (c *Cache) Peek(path string) (image.Image, bool) {
	if cached, ok := c.mem.Load(path); ok {
		return cached.(image.Image), true
	}
	return nil, false
}

// Get returns the thumbnail for path, rendering it if needed. It blocks until the image is
// available.
func (c *Cache) Get(path string) (image.Image, error) {
	if img, ok := c.Peek(path); ok {
		return img, nil
	}

	var key string
	if c.cacheDir != "" {
		if k, err := c.generateCacheKey(path); err == nil {
			key = k
			if img, err := loadImage(c.diskPath(key)); err == nil {
				c.mem.Store(path, img)
				return img, nil
			}
		}
	}

	src, err := loadImage(path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	thumb, err := Render(src, c.size)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", path, err)
	}
	c.mem.Store(path, thumb)

	if key != "" {
		if err := c.writeDisk(key, thumb); err != nil {
			c.log.Debug().Err(err).Str("file", path).Msg("thumbnail not written to disk cache")
		}
	}
	return thumb, nil
}

// Purge drops every in-memory thumbnail.
func (c *Cache) Purge() {
	c.mem.Clear()
}

func (c *Cache) diskPath(key string) string {
	return filepath.Join(c.cacheDir, key+".jpg")
}

func (c *Cache) writeDisk(key string, img image.Image) error {
	f, err := os.CreateTemp(c.cacheDir, ".thumb-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 85}); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), c.diskPath(key))
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

// generateCacheKey hashes the path, modification time, size and first 32KB of the file
// together with the thumbnail size.
func (c *Cache) generateCacheKey(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", err
	}

	h := sha256.New()
	h.Write([]byte(absPath))
	h.Write([]byte(info.ModTime().String()))
	fmt.Fprintf(h, "%d:%d", info.Size(), c.size)

	f, err := os.Open(absPath)
	if err == nil {
		defer f.Close()
		buf := make([]byte, 32*1024)
		n, _ := f.Read(buf)
		h.Write(buf[:n])
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Cleanup trims the on-disk tier, oldest first, to 80% of its limits once either limit is
// exceeded. It returns how many files were removed.
func (c *Cache) Cleanup() int {
	if c.cacheDir == "" || c.maxBytes <= 0 || c.maxFiles <= 0 {
		return 0
	}

	files, err := os.ReadDir(c.cacheDir)
	if err != nil {
		return 0
	}

	type fileInfo struct {
		name string
		size int64
		time time.Time
	}

	var cachedFiles []fileInfo
	var totalSize int64

	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".jpg" {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		cachedFiles = append(cachedFiles, fileInfo{
			name: f.Name(),
			size: info.Size(),
			time: info.ModTime(),
		})
		totalSize += info.Size()
	}

	if totalSize <= c.maxBytes && len(cachedFiles) <= c.maxFiles {
		return 0
	}

	// LRU: oldest first
	sort.Slice(cachedFiles, func(i, j int) bool {
		return cachedFiles[i].time.Before(cachedFiles[j].time)
	})

	byteGoal := int64(float64(c.maxBytes) * 0.8)
	fileGoal := int(float64(c.maxFiles) * 0.8)
	remaining := len(cachedFiles)
	removed := 0
	for _, f := range cachedFiles {
		if totalSize <= byteGoal && remaining <= fileGoal {
			break
		}
		if err := os.Remove(filepath.Join(c.cacheDir, f.name)); err != nil {
			continue
		}
		totalSize -= f.size
		remaining--
		removed++
	}

	c.log.Debug().Int("removed", removed).Str("dir", c.cacheDir).Msg("thumbnail cache trimmed")
	return removed
}
