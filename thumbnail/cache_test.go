package thumbnail

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// writePNG writes a w x h image: left third red, middle green, right third blue.
func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		var c color.RGBA
		switch {
		case x < w/3:
			c = color.RGBA{255, 0, 0, 255}
		case x < 2*w/3:
			c = color.RGBA{0, 255, 0, 255}
		default:
			c = color.RGBA{0, 0, 255, 255}
		}
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestRenderCropsToSquare(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 300, 100))
	for x := 0; x < 300; x++ {
		for y := 0; y < 100; y++ {
			if x >= 100 && x < 200 {
				src.Set(x, y, color.RGBA{0, 255, 0, 255})
			} else {
				src.Set(x, y, color.RGBA{255, 0, 0, 255})
			}
		}
	}

	thumb, err := Render(src, 64)
	if err != nil {
		t.Fatal(err)
	}
	if b := thumb.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
		t.Fatalf("Expected 64x64, got %dx%d", b.Dx(), b.Dy())
	}

	// Only the green centre survives the crop.
	for _, p := range []image.Point{{2, 2}, {32, 32}, {61, 61}} {
		r, g, _, _ := thumb.At(p.X, p.Y).RGBA()
		if r > 0x1000 || g < 0xf000 {
			t.Errorf("pixel %v: expected green, got r=%x g=%x", p, r, g)
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	if _, err := Render(image.NewRGBA(image.Rect(0, 0, 0, 10)), 32); err == nil {
		t.Error("Expected error for empty image")
	}
}

func TestGetMemoryTier(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wide.png")
	writePNG(t, path, 90, 30)

	c := New(Options{Size: 32})
	if _, ok := c.Peek(path); ok {
		t.Fatal("Expected empty cache")
	}

	first, err := c.Get(path)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if b := first.Bounds(); b.Dx() != 32 || b.Dy() != 32 {
		t.Errorf("Expected 32x32, got %dx%d", b.Dx(), b.Dy())
	}

	// Removing the source proves the second read is served from memory.
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	second, err := c.Get(path)
	if err != nil || second != first {
		t.Errorf("Expected cached thumbnail, got %v (%v)", second, err)
	}

	c.Purge()
	if _, err := c.Get(path); err == nil {
		t.Error("Expected error after purge of a deleted file")
	}
}

func TestGetDiskTier(t *testing.T) {
	src := t.TempDir()
	cacheDir := filepath.Join(t.TempDir(), "thumbs")
	path := filepath.Join(src, "a.png")
	writePNG(t, path, 40, 40)

	c := New(Options{Size: 16, CacheDir: cacheDir, MaxCacheBytes: 1 << 20, MaxCacheFiles: 10})
	if _, err := c.Get(path); err != nil {
		t.Fatal(err)
	}

	files, _ := filepath.Glob(filepath.Join(cacheDir, "*.jpg"))
	if len(files) != 1 {
		t.Fatalf("Expected 1 cached file, got %v", files)
	}

	fresh := New(Options{Size: 16, CacheDir: cacheDir, MaxCacheBytes: 1 << 20, MaxCacheFiles: 10})
	img, err := fresh.Get(path)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 16 {
		t.Errorf("Expected 16px thumbnail from disk, got %d", b.Dx())
	}

	// A different size must not reuse the 16px entry.
	other := New(Options{Size: 24, CacheDir: cacheDir, MaxCacheBytes: 1 << 20, MaxCacheFiles: 10})
	img, err = other.Get(path)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 24 {
		t.Errorf("Expected 24px thumbnail, got %d", b.Dx())
	}
}

func TestGetUndecodable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.jpg")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(Options{}).Get(path); err == nil {
		t.Error("Expected decode error")
	}
}

func TestCleanup(t *testing.T) {
	cacheDir := t.TempDir()
	c := New(Options{CacheDir: cacheDir, MaxCacheBytes: 1 << 30, MaxCacheFiles: 5})

	base := time.Now().Add(-time.Hour)
	for i := range 8 {
		p := filepath.Join(cacheDir, string(rune('a'+i))+".jpg")
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		mt := base.Add(time.Duration(i) * time.Minute)
		if err := os.Chtimes(p, mt, mt); err != nil {
			t.Fatal(err)
		}
	}

	if removed := c.Cleanup(); removed != 4 {
		t.Errorf("Expected 4 files removed, got %d", removed)
	}
	if _, err := os.Stat(filepath.Join(cacheDir, "a.jpg")); !os.IsNotExist(err) {
		t.Error("Expected oldest file to be removed")
	}
	if _, err := os.Stat(filepath.Join(cacheDir, "h.jpg")); err != nil {
		t.Error("Expected newest file to survive")
	}
}

func TestLoader(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := range 5 {
		p := filepath.Join(dir, string(rune('a'+i))+".png")
		writePNG(t, p, 20, 10)
		paths = append(paths, p)
	}

	l := NewLoader(New(Options{Size: 8}), 2)
	defer l.Close()

	var wg sync.WaitGroup
	var mu sync.Mutex
	got := map[string]bool{}
	wg.Add(len(paths))
	for _, p := range paths {
		l.Load(p, func(img image.Image) {
			mu.Lock()
			got[p] = img != nil
			mu.Unlock()
			wg.Done()
		})
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Timeout waiting for thumbnails")
	}

	for _, p := range paths {
		if !got[p] {
			t.Errorf("Expected thumbnail for %s", p)
		}
	}

	// Now in memory: delivered synchronously.
	called := false
	l.Load(paths[0], func(image.Image) { called = true })
	if !called {
		t.Error("Expected synchronous callback on memory hit")
	}
}
