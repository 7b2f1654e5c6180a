package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const markerWidth = 4

// gridOverlay wraps the thumbnail grid. Drags that start on empty space draw a rubber band
// rectangle; drags that start on a thumbnail are forwarded here by the item and show the
// insertion marker instead.
type gridOverlay struct {
	widget.BaseWidget
	content fyne.CanvasObject

	rect   *canvas.Rectangle
	marker *canvas.Rectangle

	startPos fyne.Position
	curPos   fyne.Position
	dragging bool

	onChanged func(tl, br fyne.Position)
	onEnd     func()
}

func newGridOverlay(content fyne.CanvasObject, onChanged func(tl, br fyne.Position), onEnd func()) *gridOverlay {
	s := &gridOverlay{
		content:   content,
		rect:      canvas.NewRectangle(color.Transparent),
		marker:    canvas.NewRectangle(theme.Color(theme.ColorNamePrimary)),
		onChanged: onChanged,
		onEnd:     onEnd,
	}
	s.rect.StrokeColor = theme.Color(theme.ColorNamePrimary)
	s.rect.StrokeWidth = 2
	r, g, b, _ := theme.Color(theme.ColorNameFocus).RGBA()
	s.rect.FillColor = color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 64}
	s.marker.CornerRadius = markerWidth / 2

	s.rect.Hide()
	s.marker.Hide()
	s.ExtendBaseWidget(s)
	return s
}

func (s *gridOverlay) setContent(content fyne.CanvasObject) {
	s.content = content
	content.Resize(s.Size())
	s.Refresh()
}

func (s *gridOverlay) CreateRenderer() fyne.WidgetRenderer {
	return &gridOverlayRenderer{s: s}
}

func (s *gridOverlay) Dragged(e *fyne.DragEvent) {
	if !s.dragging {
		s.dragging = true
		s.startPos = e.PointEvent.Position.Subtract(e.Dragged)
		s.rect.Show()
	}

	s.curPos = e.PointEvent.Position
	s.refreshRect()

	if s.onChanged != nil {
		s.onChanged(s.rectCoords())
	}
}

func (s *gridOverlay) DragEnd() {
	if !s.dragging {
		return
	}
	s.dragging = false
	s.rect.Hide()
	s.rect.Refresh()

	if s.onEnd != nil {
		s.onEnd()
	}
}

// setStartPos re-anchors the rubber band after the grid scrolled under it.
func (s *gridOverlay) setStartPos(pos fyne.Position) {
	s.startPos = pos
	if s.dragging {
		s.refreshRect()
	}
}

func (s *gridOverlay) rectCoords() (fyne.Position, fyne.Position) {
	tl := fyne.NewPos(min32(s.startPos.X, s.curPos.X), min32(s.startPos.Y, s.curPos.Y))
	br := fyne.NewPos(max32(s.startPos.X, s.curPos.X), max32(s.startPos.Y, s.curPos.Y))
	return tl, br
}

func (s *gridOverlay) refreshRect() {
	tl, br := s.rectCoords()
	s.rect.Move(tl)
	s.rect.Resize(fyne.NewSize(br.X-tl.X, br.Y-tl.Y))
}

// showMarker draws the insertion bar with its top centred on pos.
func (s *gridOverlay) showMarker(pos fyne.Position, height float32) {
	s.marker.Move(fyne.NewPos(pos.X-markerWidth/2, pos.Y))
	s.marker.Resize(fyne.NewSize(markerWidth, height))
	s.marker.Show()
	s.marker.Refresh()
}

func (s *gridOverlay) hideMarker() {
	if !s.marker.Visible() {
		return
	}
	s.marker.Hide()
	s.marker.Refresh()
}

var _ fyne.Draggable = (*gridOverlay)(nil)

type gridOverlayRenderer struct {
	s *gridOverlay
}

func (r *gridOverlayRenderer) Layout(size fyne.Size) {
	if r.s.content == nil {
		return
	}
	r.s.content.Resize(size)
	r.s.content.Move(fyne.NewPos(0, 0))
}

func (r *gridOverlayRenderer) MinSize() fyne.Size {
	if r.s.content == nil {
		return fyne.NewSize(0, 0)
	}
	return r.s.content.MinSize()
}

func (r *gridOverlayRenderer) Refresh() {
	if r.s.content != nil {
		r.s.content.Refresh()
	}
	r.s.rect.Refresh()
	r.s.marker.Refresh()
}

func (r *gridOverlayRenderer) Objects() []fyne.CanvasObject {
	objs := make([]fyne.CanvasObject, 0, 3)
	if r.s.content != nil {
		objs = append(objs, r.s.content)
	}
	return append(objs, r.s.marker, r.s.rect)
}

func (r *gridOverlayRenderer) Destroy() {}
