package ui

import (
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/test"
)

func TestResizeLayout_OnlyRealSizeChanges(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	callbacks := 0
	r := &resizeLayout{
		internal: layout.NewStackLayout(),
		onResize: func() {
			callbacks++
		},
	}

	size := fyne.NewSize(700, 500)
	r.Layout(nil, size)
	fyne.DoAndWait(func() {})
	if callbacks != 1 {
		t.Fatalf("expected 1 resize callback after initial layout, got %d", callbacks)
	}

	r.lastFired = time.Now().Add(-time.Second)
	r.Layout(nil, size)
	fyne.DoAndWait(func() {})
	if callbacks != 1 {
		t.Fatalf("expected callback count to stay at 1, got %d", callbacks)
	}

	r.lastFired = time.Now().Add(-time.Second)
	r.Layout(nil, fyne.NewSize(800, 500))
	fyne.DoAndWait(func() {})
	if callbacks != 2 {
		t.Fatalf("expected callback count to be 2 after resize, got %d", callbacks)
	}
}

func TestCalculateItemSize_GrowsWithZoom(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	small := calculateItemSize(zoomLevels[0])
	normal := calculateItemSize(1)
	large := calculateItemSize(zoomLevels[len(zoomLevels)-1])

	if !(small.Width < normal.Width && normal.Width < large.Width) {
		t.Errorf("expected widths to grow with zoom, got %v %v %v", small.Width, normal.Width, large.Width)
	}
	if normal.Height <= thumbIconSize {
		t.Errorf("expected room for a caption below the thumbnail, got height %v", normal.Height)
	}
	if got := calculateItemSize(0); got != normal {
		t.Errorf("expected zero scale to fall back to 1, got %v", got)
	}
}
