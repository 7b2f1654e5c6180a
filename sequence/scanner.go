package sequence

import (
	"os"
	"path/filepath"
	"strings"
)

// Scanner lists the names of the regular files directly inside a directory.
type Scanner interface {
	ListFiles(dir string) ([]string, error)
}

// ScannerFunc adapts a function to the Scanner interface.
type ScannerFunc func(dir string) ([]string, error)

func (f ScannerFunc) ListFiles(dir string) ([]string, error) { return f(dir) }

// OSScanner lists files from the local filesystem. Symlinks count when they point at a
// regular file; subdirectories are never entered.
var OSScanner Scanner = ScannerFunc(listRegularFiles)

func listRegularFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		mode := e.Type()
		if mode.IsRegular() {
			names = append(names, e.Name())
			continue
		}
		if mode&os.ModeSymlink == 0 {
			continue
		}
		info, err := os.Stat(filepath.Join(dir, e.Name()))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// NormalizeExtensions lowercases the allow-list and strips any leading dot.
func NormalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		e = strings.TrimPrefix(e, ".")
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}

// HasAllowedExtension reports whether name ends in "."+ext for one of the normalised exts.
func HasAllowedExtension(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, e := range exts {
		if strings.HasSuffix(lower, "."+e) {
			return true
		}
	}
	return false
}
