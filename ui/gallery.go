package ui

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/alexballas/xsorter/logging"
	"github.com/alexballas/xsorter/sequence"
)

// gallery shows the collection as a wrapped grid. Dragging a thumbnail moves the selected
// rows; dragging on empty space selects with a rubber band.
type gallery struct {
	sorter Sorter
	log    *logging.Logger

	content fyne.CanvasObject
	grid    *widget.GridWrap
	overlay *gridOverlay

	lastDragSelection []int
	lastDragTime      time.Time
	dragSelecting     bool
	dragStartContent  fyne.Position
	dragCurViewport   fyne.Position

	moving      bool
	movePayload string

	autoScrollTicker *time.Ticker
	autoScrollStop   chan struct{}
	autoScrollDir    int
	autoScrollStep   float32
}

func newGallery(s Sorter, log *logging.Logger) *gallery {
	g := &gallery{
		sorter: s,
		log:    logging.OrNop(log),
	}
	g.overlay = newGridOverlay(nil, g.onSelectionDrag, g.onSelectionEnd)
	g.grid = g.newGrid()
	g.overlay.setContent(g.grid)
	g.content = container.NewPadded(g.overlay)
	return g
}

func (g *gallery) newGrid() *widget.GridWrap {
	return widget.NewGridWrap(
		g.count,
		func() fyne.CanvasObject { return newThumbItem(g.sorter, g) },
		func(id widget.GridWrapItemID, o fyne.CanvasObject) {
			c := g.sorter.Collection()
			if c == nil {
				return
			}
			entry, err := c.EntryAt(int(id))
			if err != nil {
				return
			}
			item := o.(*thumbItem)
			item.setEntry(int(id), sequence.SequenceDigits(c.Count()), entry)
			item.setSelected(g.sorter.IsSelected(entry.Name))
		},
	)
}

func (g *gallery) count() int {
	c := g.sorter.Collection()
	if c == nil {
		return 0
	}
	return c.Count()
}

func (g *gallery) refresh() {
	g.grid.Refresh()
}

// reset replaces the grid, dropping every item's cached thumbnail and size. Used when the
// collection or the zoom level changes.
func (g *gallery) reset() {
	g.stopAutoScroll()
	g.moving, g.dragSelecting = false, false
	g.overlay.hideMarker()

	g.grid = g.newGrid()
	g.overlay.setContent(g.grid)
}

func (g *gallery) scrollTo(row int) {
	if row < 0 || row >= g.count() {
		return
	}
	g.grid.ScrollTo(widget.GridWrapItemID(row))
}

func (g *gallery) onResize() {
	if !g.moving {
		g.overlay.hideMarker()
	}
	g.grid.Refresh()
}

func (g *gallery) recentlyDragged() bool {
	return g.dragSelecting || g.moving || time.Since(g.lastDragTime) < 200*time.Millisecond
}

func (g *gallery) columns() int {
	return max(g.grid.ColumnCount(), 1)
}

func (g *gallery) padding() float32 {
	return g.grid.Theme().Size(theme.SizeNamePadding)
}

func (g *gallery) geometry() sequence.Geometry {
	cols := g.columns()
	rows := max((g.count()+cols-1)/cols, 1)
	return gridGeometry(g.sorter.ItemSize(), g.padding(), cols, rows)
}

// gridGeometry describes the whole scrollable content of a grid with cols columns and rows
// rows. Half a spacing is added to each extent so rounding never loses the last cell.
func gridGeometry(item fyne.Size, pad float32, cols, rows int) sequence.Geometry {
	return sequence.Geometry{
		CellWidth:      item.Width,
		CellHeight:     item.Height,
		Spacing:        pad,
		ViewportWidth:  float32(cols)*(item.Width+pad) + pad/2,
		ViewportHeight: float32(rows)*(item.Height+pad) + pad/2,
	}
}

// contentPoint converts a position on the overlay into grid content coordinates.
func (g *gallery) contentPoint(pos fyne.Position) sequence.Point {
	return sequence.Point{X: pos.X, Y: pos.Y + g.grid.GetScrollOffset()}
}

// markerPosition returns the top of the insertion bar for target, in content coordinates.
// A target that starts a row is drawn after the last cell of the row above, next to where
// the pointer is.
func markerPosition(geo sequence.Geometry, target, count int) fyne.Position {
	cols := geo.Columns()
	if cols < 1 || count <= 0 {
		return fyne.NewPos(0, 0)
	}
	pitchX := geo.CellWidth + geo.Spacing
	pitchY := geo.CellHeight + geo.Spacing

	cell, after := target, false
	switch {
	case target == sequence.EndOfSequence || target >= count:
		cell, after = count-1, true
	case target > 0 && target%cols == 0:
		cell, after = target-1, true
	}

	col, row := cell%cols, cell/cols
	x := float32(col)*pitchX - geo.Spacing/2
	if after {
		x = float32(col)*pitchX + geo.CellWidth + geo.Spacing/2
	}
	return fyne.NewPos(max(x, 0), float32(row)*pitchY)
}

func (g *gallery) overlayPosition(abs fyne.Position) fyne.Position {
	origin := fyne.CurrentApp().Driver().AbsolutePositionForObject(g.overlay)
	return abs.Subtract(origin)
}

func (g *gallery) itemDragged(item *thumbItem, e *fyne.DragEvent) {
	if g.dragSelecting {
		return
	}

	if !g.moving {
		if !g.sorter.IsSelected(item.entry.Name) {
			g.sorter.Select(item.id)
		}
		rows := g.sorter.SelectedRows()
		if len(rows) == 0 {
			return
		}
		g.moving = true
		g.movePayload = sequence.EncodeRows(rows)
	}

	g.dragCurViewport = g.overlayPosition(e.AbsolutePosition)
	g.updateMarker()
	g.updateAutoScroll()
}

func (g *gallery) itemDragEnd() {
	if !g.moving {
		return
	}
	g.stopAutoScroll()
	g.overlay.hideMarker()

	payload := g.movePayload
	g.moving = false
	g.movePayload = ""
	g.lastDragTime = time.Now()

	g.drop(sequence.RowMimeType, payload, g.dragCurViewport)
}

func (g *gallery) updateMarker() {
	if !g.moving {
		return
	}
	geo := g.geometry()
	n := g.count()
	target := sequence.ResolveDropRow(geo, g.contentPoint(g.dragCurViewport), n)
	pos := markerPosition(geo, target, n)
	g.overlay.showMarker(fyne.NewPos(pos.X, pos.Y-g.grid.GetScrollOffset()), geo.CellHeight)
}

// drop hands a payload released at pos to the collection and reports whether it was taken.
func (g *gallery) drop(mimeType, payload string, pos fyne.Position) bool {
	c := g.sorter.Collection()
	if c == nil {
		return false
	}

	ok, err := sequence.Drop(c, mimeType, payload, g.geometry(), g.contentPoint(pos))
	if err != nil {
		g.log.Warn().Err(err).Str("rows", payload).Msg("drop not handled")
		return false
	}
	g.log.Debug().Str("rows", payload).Msg("rows dropped")
	return ok
}

func (g *gallery) onSelectionDrag(start, cur fyne.Position) {
	if g.moving {
		return
	}
	// MouseUp on an item can fire before DragEnd on some platforms; items check this flag.
	dragStart := !g.dragSelecting
	g.dragSelecting = true

	if g.count() == 0 {
		return
	}

	g.dragCurViewport = cur
	if dragStart {
		g.dragStartContent = fyne.NewPos(start.X, start.Y+g.grid.GetScrollOffset())
	}

	g.updateAutoScroll()
	g.updateDragSelection()
}

func (g *gallery) updateDragSelection() {
	if !g.dragSelecting || g.count() == 0 {
		return
	}

	offset := g.grid.GetScrollOffset()
	g.overlay.setStartPos(fyne.NewPos(g.dragStartContent.X, g.dragStartContent.Y-offset))

	cur := fyne.NewPos(g.dragCurViewport.X, g.dragCurViewport.Y+offset)
	tl := fyne.NewPos(min32(g.dragStartContent.X, cur.X), min32(g.dragStartContent.Y, cur.Y))
	br := fyne.NewPos(max32(g.dragStartContent.X, cur.X), max32(g.dragStartContent.Y, cur.Y))

	ids := cellsInRect(g.sorter.ItemSize(), g.padding(), g.columns(), g.count(), tl, br)
	if sameSelection(g.lastDragSelection, ids) {
		return
	}
	g.lastDragSelection = ids
	g.sorter.SelectMultiple(ids)
}

// cellsInRect returns, in row order, the cells of a count-cell grid that intersect the
// rectangle tl-br.
func cellsInRect(item fyne.Size, pad float32, cols, count int, tl, br fyne.Position) []int {
	if cols < 1 || count == 0 {
		return nil
	}
	stepX := item.Width + pad
	stepY := item.Height + pad

	startRow := max(int(tl.Y/stepY), 0)
	endRow := min(int(br.Y/stepY), (count-1)/cols)
	startCol := max(int(tl.X/stepX), 0)
	endCol := min(int(br.X/stepX), cols-1)

	var ids []int
	for row := startRow; row <= endRow; row++ {
		for col := startCol; col <= endCol; col++ {
			i := row*cols + col
			if i >= count {
				continue
			}
			x1 := float32(col) * stepX
			y1 := float32(row) * stepY
			x2 := x1 + item.Width
			y2 := y1 + item.Height
			if x1 < br.X && x2 > tl.X && y1 < br.Y && y2 > tl.Y {
				ids = append(ids, i)
			}
		}
	}
	return ids
}

func (g *gallery) onSelectionEnd() {
	g.stopAutoScroll()
	g.lastDragSelection = nil
	g.dragSelecting = false
	g.lastDragTime = time.Now()
}

func (g *gallery) maxScrollOffset() float32 {
	n := g.count()
	if n == 0 {
		return 0
	}
	cols := g.columns()
	rows := (n + cols - 1) / cols
	total := float32(rows) * (g.sorter.ItemSize().Height + g.padding())
	return max(total-g.grid.Size().Height, 0)
}

func (g *gallery) updateAutoScroll() {
	if !g.dragSelecting && !g.moving {
		g.stopAutoScroll()
		return
	}

	size := g.overlay.Size()
	if size.Height <= 0 {
		g.stopAutoScroll()
		return
	}

	zone := min(max(theme.Padding()*4, 24), size.Height/2)

	var dir int
	var intensity float32
	if g.dragCurViewport.Y < zone {
		dir = -1
		intensity = (zone - g.dragCurViewport.Y) / zone
	} else if g.dragCurViewport.Y > size.Height-zone {
		dir = 1
		intensity = (g.dragCurViewport.Y - (size.Height - zone)) / zone
	}
	intensity = min(intensity, 1)

	if dir == 0 || intensity <= 0 {
		g.stopAutoScroll()
		return
	}

	maxStep := min(max(g.sorter.ItemSize().Height*0.5, 12), 80)
	g.autoScrollDir = dir
	g.autoScrollStep = intensity * maxStep
	g.startAutoScroll()
}

func (g *gallery) startAutoScroll() {
	if g.autoScrollTicker != nil {
		return
	}
	g.autoScrollTicker = time.NewTicker(30 * time.Millisecond)
	g.autoScrollStop = make(chan struct{})

	stop := g.autoScrollStop
	ticker := g.autoScrollTicker
	go func() {
		for {
			select {
			case <-ticker.C:
				fyne.Do(g.autoScrollTick)
			case <-stop:
				return
			}
		}
	}()
}

func (g *gallery) stopAutoScroll() {
	if g.autoScrollTicker == nil {
		return
	}
	g.autoScrollTicker.Stop()
	g.autoScrollTicker = nil
	if g.autoScrollStop != nil {
		close(g.autoScrollStop)
		g.autoScrollStop = nil
	}
	g.autoScrollDir = 0
	g.autoScrollStep = 0
}

func (g *gallery) autoScrollTick() {
	if (!g.dragSelecting && !g.moving) || g.autoScrollDir == 0 || g.autoScrollStep <= 0 {
		g.stopAutoScroll()
		return
	}

	offset := g.grid.GetScrollOffset()
	maxOffset := g.maxScrollOffset()
	if maxOffset <= 0 {
		g.stopAutoScroll()
		return
	}

	next := min(max(offset+float32(g.autoScrollDir)*g.autoScrollStep, 0), maxOffset)
	if next == offset {
		g.stopAutoScroll()
		return
	}
	g.grid.ScrollToOffset(next)

	// The pointer stays put while the content moves under it.
	g.updateDragSelection()
	g.updateMarker()
}

func sameSelection(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
