package ui

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

func lineHeight() float32 {
	s, _ := fyne.CurrentApp().Driver().RenderedTextSize("A", theme.TextSize(), fyne.TextStyle{}, nil)
	return s.Height
}

// calculateItemSize returns the cell of one thumbnail at the given zoom: the square preview
// with two lines of caption below it.
func calculateItemSize(scale float32) fyne.Size {
	if scale <= 0 {
		scale = 1
	}
	icon := thumbIconSize * scale
	width := fyne.Max(thumbCellWidth*scale, icon+theme.Padding()*2)
	return fyne.NewSize(width, icon+lineHeight()*(thumbLabelRows+0.5)+theme.Padding()*3)
}

// resizeLayout wraps a layout and reports real size changes, coalesced so a window drag does
// not rebuild the grid on every frame.
type resizeLayout struct {
	internal fyne.Layout
	onResize func()

	lastSize  fyne.Size
	lastFired time.Time
	timer     *time.Timer
}

func (r *resizeLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	r.internal.Layout(objects, size)
	if r.onResize == nil {
		return
	}
	if abs32(size.Width-r.lastSize.Width) < 0.5 && abs32(size.Height-r.lastSize.Height) < 0.5 {
		return
	}
	r.lastSize = size
	r.scheduleResize()
}

func (r *resizeLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	return r.internal.MinSize(objects)
}

func (r *resizeLayout) scheduleResize() {
	// Never call back from inside Layout; the driver may be mid-frame.
	const minInterval = 60 * time.Millisecond

	now := time.Now()
	elapsed := now.Sub(r.lastFired)
	if elapsed >= minInterval {
		r.lastFired = now
		fyne.Do(r.onResize)
		return
	}

	delay := minInterval - elapsed
	if r.timer == nil {
		r.timer = time.AfterFunc(delay, func() {
			fyne.Do(func() {
				r.timer = nil
				r.lastFired = time.Now()
				r.onResize()
			})
		})
		return
	}
	r.timer.Reset(delay)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
