// Package monitor resolves logical desktop coordinates to physical monitors.
//
// Three coordinate spaces meet here: UI-logical units, global virtual-desktop
// coordinates, and per-monitor physical pixels (logical times the monitor's
// device pixel ratio). All conversion helpers live in this package so that
// capture backends can stay space-agnostic.
package monitor

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/kbinani/screenshot"
)

// ErrNoMonitorMatch is returned when a query point lies outside every
// known monitor's logical rectangle.
var ErrNoMonitorMatch = errors.New("no monitor contains the requested point")

// Space tags which coordinate space a rectangle is expressed in.
type Space int

const (
	Logical Space = iota
	Physical
)

func (s Space) String() string {
	if s == Physical {
		return "physical"
	}
	return "logical"
}

// Info describes one attached display. Origin and Size are logical
// (DPI-independent) units; PhysOrigin is the same origin in device pixels.
type Info struct {
	Index      int
	Origin     image.Point
	Size       image.Point
	DPR        float64
	PhysOrigin image.Point
}

// LogicalBounds returns the monitor's rectangle in logical coordinates.
func (m Info) LogicalBounds() image.Rectangle {
	return image.Rect(m.Origin.X, m.Origin.Y, m.Origin.X+m.Size.X, m.Origin.Y+m.Size.Y)
}

// Enumerate queries the windowing system for the current display set.
// The result must not be cached across capture calls: monitors hot-plug.
func Enumerate() ([]Info, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, fmt.Errorf("no active displays found")
	}

	infos := make([]Info, 0, n)
	for i := 0; i < n; i++ {
		b := screenshot.GetDisplayBounds(i)
		dpr := displayDPR(b)
		if dpr <= 0 {
			dpr = 1.0
		}
		infos = append(infos, Info{
			Index:      i,
			Origin:     image.Pt(roundDiv(b.Min.X, dpr), roundDiv(b.Min.Y, dpr)),
			Size:       image.Pt(roundDiv(b.Dx(), dpr), roundDiv(b.Dy(), dpr)),
			DPR:        dpr,
			PhysOrigin: b.Min,
		})
	}
	return infos, nil
}

// At returns the first monitor (in enumeration order) whose logical bounds
// contain pt. Boundary points belong to the first claimant; ties are not
// re-resolved.
func At(infos []Info, pt image.Point) (Info, bool) {
	for _, m := range infos {
		if pt.In(m.LogicalBounds()) {
			return m, true
		}
	}
	return Info{}, false
}

// Resolve is At with the error contract callers abort on.
func Resolve(infos []Info, pt image.Point) (Info, error) {
	m, ok := At(infos, pt)
	if !ok {
		return Info{}, fmt.Errorf("%w: point (%d,%d)", ErrNoMonitorMatch, pt.X, pt.Y)
	}
	return m, nil
}

// PhysicalRect converts a logical rectangle to device pixels on monitor m:
// round(logical * DPR) for each edge, anchored at the monitor's physical
// origin.
func PhysicalRect(logical image.Rectangle, m Info) image.Rectangle {
	relX := logical.Min.X - m.Origin.X
	relY := logical.Min.Y - m.Origin.Y
	return image.Rect(
		m.PhysOrigin.X+roundScale(relX, m.DPR),
		m.PhysOrigin.Y+roundScale(relY, m.DPR),
		m.PhysOrigin.X+roundScale(relX+logical.Dx(), m.DPR),
		m.PhysOrigin.Y+roundScale(relY+logical.Dy(), m.DPR),
	)
}

// VirtualBounds returns the union rectangle of all monitors' logical bounds.
func VirtualBounds(infos []Info) image.Rectangle {
	var union image.Rectangle
	for i, m := range infos {
		if i == 0 {
			union = m.LogicalBounds()
			continue
		}
		union = union.Union(m.LogicalBounds())
	}
	return union
}

func roundScale(v int, dpr float64) int {
	return int(math.Round(float64(v) * dpr))
}

func roundDiv(v int, dpr float64) int {
	return int(math.Round(float64(v) / dpr))
}
