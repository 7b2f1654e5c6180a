package session

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/alexballas/xsorter/orderfile"
	"github.com/alexballas/xsorter/sequence"
)

func makeDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte(n), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func sortedNames(c *sequence.Collection) []string {
	return slices.Sorted(slices.Values(c.Names()))
}

func TestSetDirectory(t *testing.T) {
	dir := makeDir(t, "a.jpg", "b.png", "readme.md")
	s := New(nil, nil, nil)

	var switched int
	s.OnCollectionChanged(func(*sequence.Collection) { switched++ })

	if err := s.SetDirectory(dir); err != nil {
		t.Fatal(err)
	}
	if s.Directory() != dir {
		t.Errorf("Expected %s, got %s", dir, s.Directory())
	}
	if got := sortedNames(s.Collection()); !slices.Equal(got, []string{"a.jpg", "b.png"}) {
		t.Errorf("Unexpected entries %v", got)
	}
	if switched != 1 || s.Dirty() {
		t.Errorf("Expected one switch and a clean session, got %d %v", switched, s.Dirty())
	}

	old := s.Collection()
	err := s.SetDirectory(filepath.Join(dir, "missing"))
	if !errors.Is(err, sequence.ErrDirectory) {
		t.Fatalf("Expected directory error, got %v", err)
	}
	if s.Collection() != old {
		t.Error("Expected collection to survive a failed directory change")
	}
}

func TestDirtyTracking(t *testing.T) {
	dir := makeDir(t, "a.jpg", "b.jpg")
	s := New(nil, nil, nil)
	if err := s.SetDirectory(dir); err != nil {
		t.Fatal(err)
	}

	if err := s.Collection().MoveRows([]int{0}, sequence.EndOfSequence); err != nil {
		t.Fatal(err)
	}
	if !s.Dirty() {
		t.Fatal("Expected dirty session after a move")
	}

	if err := s.SaveOrder(); !errors.Is(err, ErrNoOrderFile) {
		t.Errorf("Expected ErrNoOrderFile, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "order.json")
	if err := s.SaveOrderAs(path); err != nil {
		t.Fatal(err)
	}
	if s.Dirty() || s.OrderFile() != path {
		t.Errorf("Expected clean session bound to %s, got %v %s", path, s.Dirty(), s.OrderFile())
	}

	// A stale collection must not flip the new session state.
	stale := s.Collection()
	if err := s.SetDirectory(dir); err != nil {
		t.Fatal(err)
	}
	stale.Order([]string{"a.jpg"})
	if s.Dirty() {
		t.Error("Expected listener of the previous collection to be detached")
	}
	if s.OrderFile() != "" {
		t.Error("Expected order file to be forgotten on directory change")
	}
}

func TestSaveAndLoadOrder(t *testing.T) {
	dir := makeDir(t, "a.jpg", "b.jpg", "c.jpg")
	s := New(nil, nil, nil)
	if err := s.SetDirectory(dir); err != nil {
		t.Fatal(err)
	}
	s.Collection().Order([]string{"c.jpg", "a.jpg", "b.jpg"})

	path := filepath.Join(t.TempDir(), "order.json")
	if err := s.SaveOrderAs(path); err != nil {
		t.Fatal(err)
	}

	rec, err := orderfile.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if rec.SourceDirectory != dir || !slices.Equal(rec.Order, []string{"c.jpg", "a.jpg", "b.jpg"}) {
		t.Errorf("Unexpected record %+v", rec)
	}

	// Reloading in a fresh session opens the recorded directory.
	fresh := New(nil, nil, nil)
	if err := fresh.LoadOrder(path); err != nil {
		t.Fatal(err)
	}
	if fresh.Directory() != dir {
		t.Errorf("Expected %s, got %s", dir, fresh.Directory())
	}
	if got := fresh.Collection().Names(); !slices.Equal(got, []string{"c.jpg", "a.jpg", "b.jpg"}) {
		t.Errorf("Expected [c.jpg a.jpg b.jpg], got %v", got)
	}
	if fresh.Dirty() || fresh.OrderFile() != path {
		t.Errorf("Expected clean session bound to the loaded file")
	}

	// Same directory: collection is re-ordered in place.
	if err := fresh.Collection().MoveRows([]int{2}, 0); err != nil {
		t.Fatal(err)
	}
	same := fresh.Collection()
	if err := fresh.LoadOrder(path); err != nil {
		t.Fatal(err)
	}
	if fresh.Collection() != same {
		t.Error("Expected the same collection to be re-ordered")
	}
	if got := same.Names(); !slices.Equal(got, []string{"c.jpg", "a.jpg", "b.jpg"}) {
		t.Errorf("Expected saved order restored, got %v", got)
	}
}

func TestLoadOrderFailureLeavesSession(t *testing.T) {
	dir := makeDir(t, "a.jpg", "b.jpg")
	s := New(nil, nil, nil)
	if err := s.SetDirectory(dir); err != nil {
		t.Fatal(err)
	}
	if err := s.Collection().MoveRows([]int{1}, 0); err != nil {
		t.Fatal(err)
	}
	before := s.Collection().Names()

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.LoadOrder(bad); !errors.Is(err, sequence.ErrPersistence) {
		t.Fatalf("Expected persistence error, got %v", err)
	}

	gone := filepath.Join(t.TempDir(), "gone.json")
	if err := orderfile.Save(gone, orderfile.Record{SourceDirectory: filepath.Join(dir, "nope")}); err != nil {
		t.Fatal(err)
	}
	if err := s.LoadOrder(gone); !errors.Is(err, sequence.ErrDirectory) {
		t.Fatalf("Expected directory error, got %v", err)
	}

	if got := s.Collection().Names(); !slices.Equal(got, before) {
		t.Errorf("Expected %v, got %v", before, got)
	}
	if !s.Dirty() || s.OrderFile() != "" {
		t.Error("Expected session state to be untouched")
	}
}

func TestPlanCommit(t *testing.T) {
	s := New(nil, []string{"png"}, nil)
	if _, err := s.PlanCommit(); !errors.Is(err, ErrNoDirectory) {
		t.Errorf("Expected ErrNoDirectory, got %v", err)
	}

	dir := makeDir(t, "x.png", "y.jpg")
	if err := s.SetDirectory(dir); err != nil {
		t.Fatal(err)
	}
	plan, err := s.PlanCommit()
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Items) != 1 || plan.Items[0].Target != "0@x.png" {
		t.Errorf("Unexpected plan %+v", plan)
	}
}
