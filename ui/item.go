package ui

import (
	"image"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/lang"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/alexballas/xsorter/sequence"
)

type thumbItem struct {
	widget.BaseWidget
	sorter  Sorter
	gallery *gallery
	id      int
	entry   sequence.ImageEntry

	placeholder *widget.Icon
	thumbnail   *canvas.Image
	label       *widget.Label
	bg          *canvas.Rectangle

	currentPath    string
	currentCaption string
	lastClick      time.Time
	loadTimer      *time.Timer
}

func newThumbItem(s Sorter, g *gallery) *thumbItem {
	item := &thumbItem{
		sorter:      s,
		gallery:     g,
		placeholder: widget.NewIcon(theme.FileImageIcon()),
		thumbnail:   canvas.NewImageFromImage(nil),
		label:       widget.NewLabel(""),
		bg:          canvas.NewRectangle(theme.Color(theme.ColorNameSelection)),
	}
	item.thumbnail.FillMode = canvas.ImageFillContain
	item.thumbnail.ScaleMode = canvas.ImageScaleSmooth
	item.thumbnail.Hide()
	item.bg.Hide()
	item.label.Alignment = fyne.TextAlignCenter
	item.label.Wrapping = fyne.TextWrapBreak
	item.label.Truncation = fyne.TextTruncateClip
	item.ExtendBaseWidget(item)
	return item
}

func (i *thumbItem) CreateRenderer() fyne.WidgetRenderer {
	return &thumbItemRenderer{item: i}
}

// caption is the name the entry will get when the order is applied, shortened in the middle
// so it fits the caption rows.
func (i *thumbItem) caption(row, digits int, name string) string {
	text := sequence.SequenceName(row, digits, name)

	safeLimit := float32(thumbLabelRows-0.4) * i.sorter.ItemSize().Width
	textSize := theme.TextSize()
	textStyle := i.label.TextStyle
	measure := func(s string) float32 {
		size, _ := fyne.CurrentApp().Driver().RenderedTextSize(s, textSize, textStyle, nil)
		return size.Width
	}
	if measure(text) <= safeLimit {
		return text
	}

	ext := filepath.Ext(text)
	dots := ".."
	head := safeLimit - measure(dots) - measure(ext)
	if head <= 0 {
		return dots + ext
	}

	base := text[:len(text)-len(ext)]
	low, high, best := 0, len(base), 0
	for low <= high {
		mid := (low + high) / 2
		if measure(base[:mid]) <= head {
			best = mid
			low = mid + 1
		} else {
			high = mid - 1
		}
	}
	return base[:best] + dots + ext
}

func (i *thumbItem) setEntry(row, digits int, entry sequence.ImageEntry) {
	i.id = row
	i.entry = entry

	text := i.caption(row, digits, entry.Name)
	if text != i.currentCaption {
		i.currentCaption = text
		i.label.SetText(text)
	}

	if i.currentPath == entry.Path {
		return
	}
	i.currentPath = entry.Path

	i.placeholder.Show()
	i.thumbnail.Hide()
	i.thumbnail.Image = nil
	i.thumbnail.Refresh()

	loader := i.sorter.Thumbnails()
	if loader == nil {
		return
	}
	if i.loadTimer != nil {
		i.loadTimer.Stop()
	}

	if img, ok := loader.Cache().Peek(entry.Path); ok {
		i.showThumbnail(img)
		return
	}

	path := entry.Path
	i.loadTimer = time.AfterFunc(200*time.Millisecond, func() {
		loader.Load(path, func(img image.Image) {
			fyne.Do(func() {
				if i.currentPath != path {
					return
				}
				i.showThumbnail(img)
			})
		})
	})
}

func (i *thumbItem) showThumbnail(img image.Image) {
	i.thumbnail.Image = img
	i.thumbnail.Refresh()
	i.placeholder.Hide()
	i.thumbnail.Show()
}

func (i *thumbItem) setSelected(selected bool) {
	if selected {
		i.bg.Show()
	} else {
		i.bg.Hide()
	}
	i.Refresh()
}

func (i *thumbItem) Tapped(_ *fyne.PointEvent) {
	if fyne.CurrentDevice().IsMobile() {
		i.sorter.Select(i.id)
		return
	}
	if i.gallery.recentlyDragged() {
		return
	}

	now := time.Now()
	if now.Sub(i.lastClick) < fyne.CurrentApp().Driver().DoubleTapDelay() {
		i.sorter.Preview(i.id)
	}
	i.lastClick = now
}

var (
	_ desktop.Mouseable = (*thumbItem)(nil)
	_ fyne.Draggable    = (*thumbItem)(nil)
)

func (i *thumbItem) MouseDown(_ *desktop.MouseEvent) {
	i.sorter.DismissMenu()
}

func (i *thumbItem) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonSecondary {
		i.showContextMenu(e.Position)
		return
	}
	if e.Button != desktop.MouseButtonPrimary || i.gallery.recentlyDragged() {
		return
	}

	switch {
	case e.Modifier&fyne.KeyModifierControl != 0:
		i.sorter.ToggleSelection(i.id)
	case e.Modifier&fyne.KeyModifierShift != 0:
		i.sorter.ExtendSelection(i.id)
	default:
		i.sorter.Select(i.id)
	}
}

func (i *thumbItem) Dragged(e *fyne.DragEvent) {
	i.gallery.itemDragged(i, e)
}

func (i *thumbItem) DragEnd() {
	i.gallery.itemDragEnd()
}

func (i *thumbItem) showContextMenu(pos fyne.Position) {
	if !i.sorter.IsSelected(i.entry.Name) {
		i.sorter.Select(i.id)
	}

	moveFirst := fyne.NewMenuItem(lang.L("Move to Start"), func() {
		i.sorter.DismissMenu()
		i.sorter.MoveSelection(0)
	})
	moveLast := fyne.NewMenuItem(lang.L("Move to End"), func() {
		i.sorter.DismissMenu()
		i.sorter.MoveSelection(sequence.EndOfSequence)
	})
	preview := fyne.NewMenuItem(lang.L("Preview"), func() {
		i.sorter.DismissMenu()
		i.sorter.Preview(i.id)
	})

	i.sorter.ShowMenu(fyne.NewMenu("", moveFirst, moveLast, fyne.NewMenuItemSeparator(), preview), pos, i)
}

type thumbItemRenderer struct {
	item *thumbItem
}

func (r *thumbItemRenderer) Layout(size fyne.Size) {
	r.item.bg.Resize(size)

	iconSize := fyne.NewSquareSize(thumbIconSize * r.item.sorter.ZoomScale())
	iconPos := fyne.NewPos((size.Width-iconSize.Width)/2, theme.Padding())

	r.item.placeholder.Resize(iconSize.Subtract(fyne.NewSquareSize(iconSize.Width / 2)))
	r.item.placeholder.Move(iconPos.Add(fyne.NewPos(iconSize.Width/4, iconSize.Height/4)))
	r.item.thumbnail.Resize(iconSize)
	r.item.thumbnail.Move(iconPos)

	r.item.label.Resize(fyne.NewSize(size.Width, lineHeight()*(thumbLabelRows+1)))
	r.item.label.Move(fyne.NewPos(0, iconSize.Height+theme.Padding()*1.5))
}

func (r *thumbItemRenderer) MinSize() fyne.Size {
	return r.item.sorter.ItemSize()
}

func (r *thumbItemRenderer) Refresh() {
	r.item.bg.Refresh()
	r.item.placeholder.Refresh()
	r.item.thumbnail.Refresh()
	r.item.label.Refresh()
}

func (r *thumbItemRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.item.bg, r.item.placeholder, r.item.thumbnail, r.item.label}
}

func (r *thumbItemRenderer) Destroy() {
	if r.item.loadTimer != nil {
		r.item.loadTimer.Stop()
	}
}
