//go:build windows

package ui

import (
	"os"
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
)

func driveMask() uint32 {
	dll, err := syscall.LoadLibrary("kernel32.dll")
	if err != nil {
		fyne.LogError("Error loading kernel32.dll", err)
		return 0
	}
	handle, err := syscall.GetProcAddress(dll, "GetLogicalDrives")
	if err != nil {
		fyne.LogError("Could not find GetLogicalDrives call", err)
		return 0
	}

	ret, _, err := syscall.SyscallN(uintptr(handle))
	if err != syscall.Errno(0) {
		fyne.LogError("Error calling GetLogicalDrives", err)
		return 0
	}
	return uint32(ret)
}

func (s *sidebar) getPlaces() []favoriteItem {
	var places []favoriteItem
	mask := driveMask()
	for i := range 26 {
		if mask&(1<<i) == 0 {
			continue
		}
		drive := string(rune('A'+i)) + ":"
		root, err := storage.ListerForURI(storage.NewFileURI(drive + string(os.PathSeparator)))
		if err != nil {
			continue
		}
		places = append(places, favoriteItem{
			locName: drive,
			locIcon: theme.StorageIcon(),
			loc:     root,
		})
	}
	return places
}
