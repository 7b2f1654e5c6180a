//go:build !windows

package ui

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
)

// getPlaces lists the filesystem root followed by mounted volumes, which is where camera
// cards and external drives show up.
func (s *sidebar) getPlaces() []favoriteItem {
	var places []favoriteItem
	if lister, err := storage.ListerForURI(storage.NewFileURI("/")); err == nil {
		places = append(places, favoriteItem{
			locName: "Computer",
			locIcon: theme.ComputerIcon(),
			loc:     lister,
		})
	} else {
		fyne.LogError("could not create lister for /", err)
	}

	for _, dir := range volumesIn(mountRoots()...) {
		lister, err := storage.ListerForURI(storage.NewFileURI(dir))
		if err != nil {
			continue
		}
		places = append(places, favoriteItem{
			locName: filepath.Base(dir),
			locIcon: theme.StorageIcon(),
			loc:     lister,
		})
	}
	return places
}

func mountRoots() []string {
	if runtime.GOOS == "darwin" {
		return []string{"/Volumes"}
	}
	u, err := user.Current()
	if err != nil {
		return nil
	}
	return []string{filepath.Join("/media", u.Username), filepath.Join("/run/media", u.Username)}
}

// volumesIn returns the directories directly under each root, in root order. Missing roots
// are skipped; symlinks are not followed.
func volumesIn(roots ...string) []string {
	var dirs []string
	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				dirs = append(dirs, filepath.Join(root, e.Name()))
			}
		}
	}
	return dirs
}
