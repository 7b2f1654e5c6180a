//go:build !flatpak

package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

// The choosers call back on the fyne thread with an absolute path, or "" when cancelled.

func chooseFolder(parent fyne.Window, start string, cb func(path string, err error)) {
	d := dialog.NewFolderOpen(func(dir fyne.ListableURI, err error) {
		if err != nil || dir == nil {
			cb("", err)
			return
		}
		cb(dir.Path(), nil)
	}, parent)
	if l := startLister(start); l != nil {
		d.SetLocation(l)
	}
	d.Resize(chooserSize)
	d.Show()
}

func chooseOrderFile(parent fyne.Window, start string, cb func(path string, err error)) {
	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil || r == nil {
			cb("", err)
			return
		}
		path := r.URI().Path()
		_ = r.Close()
		cb(path, nil)
	}, parent)
	d.SetFilter(storage.NewExtensionFileFilter([]string{orderFilterExtension}))
	if l := startLister(start); l != nil {
		d.SetLocation(l)
	}
	d.Resize(chooserSize)
	d.Show()
}

func chooseSaveFile(parent fyne.Window, start, name string, cb func(path string, err error)) {
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil || w == nil {
			cb("", err)
			return
		}
		// The order file is written atomically elsewhere; this handle only proves the path.
		path := w.URI().Path()
		_ = w.Close()
		cb(path, nil)
	}, parent)
	d.SetFilter(storage.NewExtensionFileFilter([]string{orderFilterExtension}))
	d.SetFileName(name)
	if l := startLister(start); l != nil {
		d.SetLocation(l)
	}
	d.Resize(chooserSize)
	d.Show()
}
