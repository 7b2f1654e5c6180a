//go:build flatpak

package ui

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver"
	"fyne.io/fyne/v2/lang"
	"fyne.io/fyne/v2/storage"

	"github.com/rymdport/portal"
	"github.com/rymdport/portal/filechooser"
)

// Inside the sandbox the host file system is only reachable through the document portal.

func chooseFolder(parent fyne.Window, start string, cb func(path string, err error)) {
	options := &filechooser.OpenFileOptions{
		AcceptLabel:   lang.L("Open"),
		Directory:     true,
		CurrentFolder: start,
	}
	handle := windowHandleForPortal(parent)
	go func() {
		uris, err := filechooser.OpenFile(handle, lang.L("Open Folder"), options)
		deliverPortalResult(uris, err, cb)
	}()
}

func chooseOrderFile(parent fyne.Window, start string, cb func(path string, err error)) {
	filter := orderFilter()
	options := &filechooser.OpenFileOptions{
		AcceptLabel:   lang.L("Open"),
		CurrentFolder: start,
		Filters:       []*filechooser.Filter{filter},
		CurrentFilter: filter,
	}
	handle := windowHandleForPortal(parent)
	go func() {
		uris, err := filechooser.OpenFile(handle, lang.L("Load Order"), options)
		deliverPortalResult(uris, err, cb)
	}()
}

func chooseSaveFile(parent fyne.Window, start, name string, cb func(path string, err error)) {
	filter := orderFilter()
	options := &filechooser.SaveFileOptions{
		AcceptLabel:   lang.L("Save"),
		CurrentFolder: start,
		CurrentName:   name,
		Filters:       []*filechooser.Filter{filter},
		CurrentFilter: filter,
	}
	handle := windowHandleForPortal(parent)
	go func() {
		uris, err := filechooser.SaveFile(handle, lang.L("Save Order"), options)
		deliverPortalResult(uris, err, cb)
	}()
}

func deliverPortalResult(uris []string, err error, cb func(string, error)) {
	path := ""
	if err == nil && len(uris) > 0 {
		var uri fyne.URI
		if uri, err = storage.ParseURI(uris[0]); err == nil {
			path = uri.Path()
		}
	}
	fyne.Do(func() {
		cb(path, err)
	})
}

func orderFilter() *filechooser.Filter {
	return &filechooser.Filter{
		Name: lang.L("Saved orders"),
		Rules: []filechooser.Rule{
			{Type: filechooser.GlobPattern, Pattern: "*" + orderFilterExtension},
			{Type: filechooser.GlobPattern, Pattern: "*" + strings.ToUpper(orderFilterExtension)},
		},
	}
}

func windowHandleForPortal(window fyne.Window) string {
	native, ok := window.(driver.NativeWindow)
	if !ok {
		return ""
	}

	windowHandle := ""
	native.RunNative(func(context any) {
		if x11, ok := context.(driver.X11WindowContext); ok {
			windowHandle = portal.FormatX11WindowHandle(x11.WindowHandle)
		}
	})
	return windowHandle
}
