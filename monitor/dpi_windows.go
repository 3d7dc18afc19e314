//go:build windows

package monitor

import (
	"image"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32              = windows.NewLazySystemDLL("user32.dll")
	shcore              = windows.NewLazySystemDLL("shcore.dll")
	procMonitorFromRect = user32.NewProc("MonitorFromRect")
	procGetDpiForMon    = shcore.NewProc("GetDpiForMonitor")
)

const (
	monitorDefaultToNearest = 2
	mdtEffectiveDPI         = 0
	baselineDPI             = 96.0
)

type winRect struct {
	Left, Top, Right, Bottom int32
}

// displayDPR asks the shell for the effective DPI of the monitor covering
// the given physical bounds. Falls back to 1.0 when shcore is unavailable
// (pre-8.1 systems) or the call fails.
func displayDPR(physBounds image.Rectangle) float64 {
	if procMonitorFromRect.Find() != nil || procGetDpiForMon.Find() != nil {
		return 1.0
	}

	r := winRect{
		Left:   int32(physBounds.Min.X),
		Top:    int32(physBounds.Min.Y),
		Right:  int32(physBounds.Max.X),
		Bottom: int32(physBounds.Max.Y),
	}
	hmon, _, _ := procMonitorFromRect.Call(uintptr(unsafe.Pointer(&r)), monitorDefaultToNearest)
	if hmon == 0 {
		return 1.0
	}

	var dpiX, dpiY uint32
	ret, _, _ := procGetDpiForMon.Call(hmon, mdtEffectiveDPI,
		uintptr(unsafe.Pointer(&dpiX)), uintptr(unsafe.Pointer(&dpiY)))
	if ret != 0 || dpiX == 0 {
		return 1.0
	}
	return float64(dpiX) / baselineDPI
}
