//go:build !windows

package monitor

import "image"

// displayDPR has no portable query outside Windows; X11 and Wayland report
// bounds already scaled, so logical equals physical here.
func displayDPR(physBounds image.Rectangle) float64 {
	return 1.0
}
