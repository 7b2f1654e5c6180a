package ui

import (
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
)

const orderFilterExtension = ".json"

var chooserSize = fyne.NewSize(900, 600)

// startLister returns start as a listable location, or nil when it is not an existing
// directory.
func startLister(start string) fyne.ListableURI {
	if start == "" {
		return nil
	}
	if info, err := os.Stat(start); err != nil || !info.IsDir() {
		return nil
	}
	l, err := storage.ListerForURI(storage.NewFileURI(start))
	if err != nil {
		return nil
	}
	return l
}
