package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/FyshOS/fancyfs"
)

// breadcrumb shows one button per ancestor of the open directory.
type breadcrumb struct {
	sorter  Sorter
	content *fyne.Container
	scroll  *container.Scroll
}

func newBreadcrumb(s Sorter) *breadcrumb {
	b := &breadcrumb{
		sorter:  s,
		content: container.NewHBox(),
	}
	b.scroll = container.NewHScroll(container.NewPadded(b.content))
	return b
}

func (b *breadcrumb) update(dir fyne.ListableURI) {
	b.content.Objects = nil

	var path []fyne.CanvasObject
	for current := dir; current != nil; {
		loc := current
		btn := widget.NewButton(current.Name(), func() {
			b.sorter.SetLocation(loc)
		})
		if details, err := fancyfs.DetailsForFolder(loc); err == nil && details != nil && details.BackgroundResource != nil {
			btn.SetIcon(details.BackgroundResource)
		}
		path = append(path, btn)

		parent, err := storage.Parent(current)
		if err != nil || parent == nil || parent.String() == current.String() {
			break
		}
		current = nil
		if l, err := storage.ListerForURI(parent); err == nil {
			current = l
		}
	}

	for i := len(path) - 1; i >= 0; i-- {
		b.content.Add(path[i])
	}
	if len(path) > 0 {
		// the open folder
		path[0].(*widget.Button).Importance = widget.HighImportance
	}

	b.content.Refresh()
}
