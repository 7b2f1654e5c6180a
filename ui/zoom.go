package ui

import (
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

var zoomLevels = []float32{
	0.5,
	0.75,
	1.0,
	1.25,
	1.5,
	2.0,
}

const defaultZoomLevelIndex = 2 // 1.0

func clampZoomLevelIndex(i int) int {
	return max(0, min(i, len(zoomLevels)-1))
}

// zoom is the grid zoom level, remembered in the app preferences.
type zoom struct {
	prefs fyne.Preferences
	level int
}

func loadZoom(prefs fyne.Preferences) *zoom {
	return &zoom{
		prefs: prefs,
		level: clampZoomLevelIndex(prefs.IntWithFallback(zoomLevelKey, defaultZoomLevelIndex)),
	}
}

func (z *zoom) scale() float32 {
	return zoomLevels[z.level]
}

// step moves steps levels in or out and reports whether the level changed.
func (z *zoom) step(steps int) bool {
	level := clampZoomLevelIndex(z.level + steps)
	if level == z.level {
		return false
	}
	z.level = level
	z.prefs.SetInt(zoomLevelKey, level)
	return true
}

func (z *zoom) canZoomIn() bool  { return z.level < len(zoomLevels)-1 }
func (z *zoom) canZoomOut() bool { return z.level > 0 }

func isZoomModifierActive() bool {
	d, ok := fyne.CurrentApp().Driver().(desktop.Driver)
	if !ok {
		return false
	}

	mods := d.CurrentKeyModifiers()
	// Command+scroll on macOS
	return mods&fyne.KeyModifierControl != 0 || mods&fyne.KeyModifierShortcutDefault != 0
}

// zoomScrollOverlay sits above the grid and only becomes visible, and so only steals scroll
// events, while the zoom modifier is held.
type zoomScrollOverlay struct {
	widget.BaseWidget
	onStep func(steps int)
	accDY  float32
}

func newZoomScrollOverlay(onStep func(steps int)) *zoomScrollOverlay {
	z := &zoomScrollOverlay{onStep: onStep}
	z.ExtendBaseWidget(z)
	return z
}

func (z *zoomScrollOverlay) Visible() bool {
	return z.BaseWidget.Visible() && isZoomModifierActive()
}

func (z *zoomScrollOverlay) Scrolled(e *fyne.ScrollEvent) {
	if z.onStep == nil {
		return
	}
	if steps := z.accumulate(e.Scrolled.DY); steps != 0 {
		z.onStep(steps)
	}
}

// accumulate adds dy and returns the whole notches collected. A wheel notch is about 40;
// touchpads deliver smaller deltas that add up.
func (z *zoomScrollOverlay) accumulate(dy float32) int {
	const notch = float32(40)

	if math.IsNaN(float64(dy)) || math.IsInf(float64(dy), 0) {
		return 0
	}
	z.accDY += dy

	steps := int(z.accDY / notch)
	z.accDY -= float32(steps) * notch
	return steps
}

func (z *zoomScrollOverlay) CreateRenderer() fyne.WidgetRenderer {
	return &zoomScrollOverlayRenderer{}
}

var _ fyne.Scrollable = (*zoomScrollOverlay)(nil)

type zoomScrollOverlayRenderer struct{}

func (r *zoomScrollOverlayRenderer) Layout(fyne.Size)             {}
func (r *zoomScrollOverlayRenderer) MinSize() fyne.Size           { return fyne.NewSize(0, 0) }
func (r *zoomScrollOverlayRenderer) Refresh()                     {}
func (r *zoomScrollOverlayRenderer) Objects() []fyne.CanvasObject { return nil }
func (r *zoomScrollOverlayRenderer) Destroy()                     {}
