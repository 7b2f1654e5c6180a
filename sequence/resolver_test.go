package sequence

import (
	"errors"
	"slices"
	"testing"
)

// 3 columns x 2 rows of 100x100 cells with 10px spacing.
var testGrid = Geometry{
	CellWidth:      100,
	CellHeight:     100,
	Spacing:        10,
	ViewportWidth:  340,
	ViewportHeight: 225,
}

func TestGeometryColumnsRows(t *testing.T) {
	if c := testGrid.Columns(); c != 3 {
		t.Errorf("Expected 3 columns, got %d", c)
	}
	if r := testGrid.Rows(); r != 2 {
		t.Errorf("Expected 2 rows, got %d", r)
	}
}

func TestResolveDropRow(t *testing.T) {
	tests := []struct {
		name  string
		p     Point
		count int
		want  int
	}{
		{"left half of first cell", Point{10, 10}, 6, 0},
		{"left half of second cell", Point{120, 50}, 6, 1},
		{"right half of second cell snaps after", Point{170, 50}, 6, 2},
		{"second grid row", Point{20, 120}, 6, 3},
		{"right half of last cell appends", Point{300, 150}, 6, EndOfSequence},
		{"past last column snaps after hovered", Point{335, 10}, 6, 4},
		{"below last grid row appends", Point{10, 224}, 6, EndOfSequence},
		{"right half of empty trailing cell appends", Point{280, 150}, 4, EndOfSequence},
		{"left half of empty trailing cell goes before last", Point{130, 120}, 4, 3},
		{"far empty cell goes before last", Point{230, 120}, 4, 3},
		{"negative pointer clamps", Point{-40, -5}, 6, 0},
		{"single entry", Point{5, 5}, 1, 0},
		{"no entries", Point{5, 5}, 0, EndOfSequence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveDropRow(testGrid, tt.p, tt.count); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestResolveDropRowZeroViewport(t *testing.T) {
	for _, g := range []Geometry{
		{CellWidth: 100, CellHeight: 100, Spacing: 10},
		{CellWidth: 100, CellHeight: 100, Spacing: 10, ViewportWidth: 50, ViewportHeight: 500},
		{CellWidth: 100, CellHeight: 100, Spacing: 10, ViewportWidth: 500, ViewportHeight: 50},
	} {
		if got := ResolveDropRow(g, Point{1, 1}, 5); got != EndOfSequence {
			t.Errorf("%+v: expected end of sequence, got %d", g, got)
		}
	}
}

func TestResolveNeverOutOfRange(t *testing.T) {
	for count := 1; count <= 7; count++ {
		for x := float32(-20); x < 400; x += 13 {
			for y := float32(-20); y < 260; y += 11 {
				got := ResolveDropRow(testGrid, Point{x, y}, count)
				if got != EndOfSequence && (got < 0 || got >= count) {
					t.Fatalf("count %d at (%v,%v): row %d out of range", count, x, y, got)
				}
			}
		}
	}
}

func TestDrop(t *testing.T) {
	c := newTestCollection(t, "a", "b", "c", "d", "e", "f")
	ok, err := Drop(c, RowMimeType, EncodeRows([]int{0}), testGrid, Point{170, 50})
	if !ok || err != nil {
		t.Fatalf("Expected drop to be handled, got %v %v", ok, err)
	}
	if got := shortNames(c); !slices.Equal(got, []string{"b", "a", "c", "d", "e", "f"}) {
		t.Errorf("Expected [b a c d e f], got %v", got)
	}
}

func TestDropOnEmptyCell(t *testing.T) {
	c := newTestCollection(t, "a", "b", "c", "d")
	ok, err := Drop(c, RowMimeType, EncodeRows([]int{0}), testGrid, Point{130, 120})
	if !ok || err != nil {
		t.Fatalf("Expected drop to be handled, got %v %v", ok, err)
	}
	if got := shortNames(c); !slices.Equal(got, []string{"b", "c", "a", "d"}) {
		t.Errorf("Expected [b c a d], got %v", got)
	}
}

func TestDropRejected(t *testing.T) {
	tests := []struct {
		name    string
		mime    string
		payload string
		want    error
	}{
		{"foreign media type", "text/plain", "1", ErrPayloadFormat},
		{"garbage", RowMimeType, "1|x", ErrPayloadFormat},
		{"row out of range", RowMimeType, "1|9", ErrIndex},
		{"duplicate rows", RowMimeType, "2|2", ErrIndex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCollection(t, "a", "b", "c")
			ok, err := Drop(c, tt.mime, tt.payload, testGrid, Point{10, 10})
			if ok {
				t.Fatal("Expected drop to be rejected")
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
			if got := shortNames(c); !slices.Equal(got, []string{"a", "b", "c"}) {
				t.Errorf("Expected unchanged sequence, got %v", got)
			}
		})
	}
}
