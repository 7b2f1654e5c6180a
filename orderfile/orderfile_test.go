package orderfile

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/alexballas/xsorter/sequence"
)

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "holiday"+Extension)
	rec := Record{SourceDirectory: dir, Order: []string{"b.jpg", "a.jpg"}}

	if err := Save(path, rec); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"sourceDirectory"`) || !strings.Contains(string(data), `"order"`) {
		t.Errorf("Expected both record fields in %s", data)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.SourceDirectory != dir || !slices.Equal(got.Order, rec.Order) {
		t.Errorf("Expected %+v, got %+v", rec, got)
	}

	leftovers, _ := filepath.Glob(filepath.Join(dir, ".order-*"))
	if len(leftovers) != 0 {
		t.Errorf("Expected no temporary files, got %v", leftovers)
	}
}

func TestSaveEmptyOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.json")
	if err := Save(path, Record{SourceDirectory: dir}); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"order": []`) {
		t.Errorf("Expected an empty order list, got %s", data)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing", filepath.Join(dir, "missing.json")},
		{"not json", write("garbage.json", "\x80\x02}q")},
		{"no directory", write("nodir.json", `{"order": ["a.jpg"]}`)},
		{"relative directory", write("rel.json", `{"sourceDirectory": "photos", "order": []}`)},
		{"empty name", write("blank.json", `{"sourceDirectory": "/photos", "order": ["a.jpg", ""]}`)},
		{"wrong type", write("type.json", `{"sourceDirectory": "/photos", "order": "a.jpg"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			if !errors.Is(err, sequence.ErrPersistence) {
				t.Fatalf("Expected persistence error, got %v", err)
			}
			var pe *sequence.PersistenceError
			if !errors.As(err, &pe) || pe.Path != tt.path {
				t.Errorf("Expected error for %s, got %v", tt.path, err)
			}
		})
	}
}

func TestSaveIntoMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "order.json")
	err := Save(path, Record{SourceDirectory: "/photos"})
	if !errors.Is(err, sequence.ErrPersistence) {
		t.Errorf("Expected persistence error, got %v", err)
	}
}

func TestCapture(t *testing.T) {
	scanner := sequence.ScannerFunc(func(string) ([]string, error) {
		return []string{"a.png", "b.png", "c.png"}, nil
	})
	c, err := sequence.OpenWith(scanner, "/photos", sequence.DefaultExtensions, []string{"c.png"})
	if err != nil {
		t.Fatal(err)
	}

	rec := Capture(c)
	if rec.SourceDirectory != c.Dir() {
		t.Errorf("Expected %s, got %s", c.Dir(), rec.SourceDirectory)
	}
	if !slices.Equal(rec.Order, []string{"c.png", "a.png", "b.png"}) {
		t.Errorf("Expected [c.png a.png b.png], got %v", rec.Order)
	}
}
