package ui

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/lang"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/FyshOS/fancyfs"
)

// sidebar lists well-known picture folders, recently opened folders and the filesystem roots.
type sidebar struct {
	sorter Sorter
	list   *widget.List
	items  []favoriteItem

	syncing bool
}

func newSidebar(s Sorter, recent []string) *sidebar {
	sb := &sidebar{sorter: s}
	sb.load(recent)

	sb.list = widget.NewList(
		func() int { return len(sb.items) },
		func() fyne.CanvasObject {
			label := widget.NewLabel(lang.L("Template"))
			label.Truncation = fyne.TextTruncateEllipsis
			return container.NewBorder(nil, nil, widget.NewIcon(theme.FolderIcon()), nil, label)
		},
		func(id widget.ListItemID, o fyne.CanvasObject) {
			if id >= len(sb.items) {
				return
			}
			item := sb.items[id]
			box := o.(*fyne.Container)
			box.Objects[0].(*widget.Label).SetText(lang.L(item.locName))
			box.Objects[1].(*widget.Icon).SetResource(item.locIcon)
		},
	)
	sb.list.OnSelected = func(id widget.ListItemID) {
		if sb.syncing || id >= len(sb.items) {
			return
		}
		sb.sorter.SetLocation(sb.items[id].loc)
	}
	return sb
}

func (s *sidebar) load(recent []string) {
	s.items = nil

	homeDir, _ := os.UserHomeDir()
	homeURI := storage.NewFileURI(homeDir)
	if l, err := storage.ListerForURI(homeURI); err == nil {
		s.items = append(s.items, favoriteItem{
			locName: "Home",
			locIcon: folderIcon(homeURI, theme.HomeIcon()),
			loc:     l,
		})
	}

	for _, name := range []string{"Pictures", "Desktop", "Downloads", "Documents"} {
		uri, err := getFavoriteLocation(homeURI, name)
		if err != nil {
			continue
		}
		if l, err := storage.ListerForURI(uri); err == nil {
			s.items = append(s.items, favoriteItem{
				locName: name,
				locIcon: folderIcon(uri, theme.FolderIcon()),
				loc:     l,
			})
		}
	}

	for _, dir := range recent {
		if l, err := storage.ListerForURI(storage.NewFileURI(dir)); err == nil {
			s.items = append(s.items, favoriteItem{
				locName: filepath.Base(dir),
				locIcon: theme.HistoryIcon(),
				loc:     l,
			})
		}
	}

	s.items = append(s.items, s.getPlaces()...)
}

// setRecent rebuilds the list with a new set of recent folders, keeping the highlight on dir.
func (s *sidebar) setRecent(recent []string, dir fyne.URI) {
	s.load(recent)
	s.list.Refresh()
	s.SyncSelection(dir)
}

// SyncSelection highlights the entry for dir without navigating, or clears the highlight
// when dir has no entry of its own.
func (s *sidebar) SyncSelection(dir fyne.URI) {
	s.syncing = true
	defer func() { s.syncing = false }()

	if dir != nil {
		for i, item := range s.items {
			if item.loc != nil && item.loc.String() == dir.String() {
				s.list.Select(i)
				return
			}
		}
	}
	s.list.UnselectAll()
}

func folderIcon(uri fyne.URI, fallback fyne.Resource) fyne.Resource {
	if details, err := fancyfs.DetailsForFolder(uri); err == nil && details != nil && details.BackgroundResource != nil {
		return details.BackgroundResource
	}
	return fallback
}

func getFavoriteLocation(homeURI fyne.URI, name string) (fyne.URI, error) {
	if runtime.GOOS != "linux" && runtime.GOOS != "openbsd" && runtime.GOOS != "freebsd" && runtime.GOOS != "netbsd" {
		return storage.Child(homeURI, name)
	}

	const cmdName = "xdg-user-dir"
	if _, err := exec.LookPath(cmdName); err != nil {
		return storage.Child(homeURI, name)
	}

	loc, err := exec.Command(cmdName, strings.ToUpper(name)).Output()
	if err != nil {
		return storage.Child(homeURI, name)
	}

	locURI := storage.NewFileURI(filepath.Clean(strings.TrimSpace(string(loc))))
	// xdg-user-dir falls back to $HOME for unset folders.
	if locURI.String() == homeURI.String() {
		childPath := filepath.Join(homeURI.Path(), name)
		if resolved, err := filepath.EvalSymlinks(childPath); err == nil {
			return storage.NewFileURI(resolved), nil
		}
		return storage.NewFileURI(childPath), nil
	}
	return locURI, nil
}
