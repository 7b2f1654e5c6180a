// Package ui is the desktop window of xsorter: a wrapped grid of thumbnails that can be
// dragged into order, with a places sidebar, a breadcrumb of the open folder and toolbar
// actions to load, save and apply an order.
package ui

import (
	"fyne.io/fyne/v2"

	"github.com/alexballas/xsorter/sequence"
	"github.com/alexballas/xsorter/thumbnail"
)

const (
	appID = "io.github.alexballas.xsorter"

	thumbIconSize  = 96
	thumbCellWidth = thumbIconSize * 1.4
	thumbLabelRows = 2

	zoomLevelKey     = "xsorter:zoomLevel"
	recentDirsKey    = "xsorter:recentDirs"
	lastOrderFileKey = "xsorter:lastOrderFile"

	maxRecentDirs = 6
)

type favoriteItem struct {
	locName string
	locIcon fyne.Resource
	loc     fyne.ListableURI
}

// Sorter is what the grid, sidebar and breadcrumb need from the window that owns them.
type Sorter interface {
	SetLocation(dir fyne.ListableURI)
	Collection() *sequence.Collection
	Thumbnails() *thumbnail.Loader
	ItemSize() fyne.Size
	ZoomScale() float32

	Select(id int)
	SelectMultiple(ids []int)
	ToggleSelection(id int)
	ExtendSelection(id int)
	IsSelected(name string) bool
	SelectedRows() []int
	MoveSelection(target int)
	Preview(id int)

	ShowMenu(menu *fyne.Menu, pos fyne.Position, obj fyne.CanvasObject)
	DismissMenu()
}
