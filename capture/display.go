package capture

import (
	"context"
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
	"github.com/nfnt/resize"

	"screen-ocr-translate/monitor"
)

// displayBackend grabs the whole target display and crops the physical-space
// rect (logical * DPR) itself, so callers never need a secondary crop. It is
// the slow path: binding a display is the only attempt expected to need
// device setup time.
type displayBackend struct {
	upscale        float64
	captureDisplay func(idx int) (*image.RGBA, error)
	numDisplays    func() int
}

func newDisplayBackend(upscale float64) *displayBackend {
	if upscale < 1.0 {
		upscale = 1.0
	}
	return &displayBackend{
		upscale:        upscale,
		captureDisplay: screenshot.CaptureDisplay,
		numDisplays:    screenshot.NumActiveDisplays,
	}
}

func (b *displayBackend) Name() string { return "display" }

func (b *displayBackend) Attempt(ctx context.Context, region Region, target monitor.Info) (*Result, error) {
	if target.Index < 0 || target.Index >= b.numDisplays() {
		return nil, fmt.Errorf("cannot bind display index %d", target.Index)
	}

	frame, err := b.captureDisplay(target.Index)
	if err != nil {
		return nil, fmt.Errorf("display %d grab failed: %v", target.Index, err)
	}
	if frame == nil {
		return nil, fmt.Errorf("display %d grab returned no image", target.Index)
	}

	// Physical rect relative to the display's own origin; the grabbed frame
	// starts at (0,0).
	phys := monitor.PhysicalRect(region.Bounds(), target).Sub(target.PhysOrigin)
	crop := phys.Intersect(frame.Bounds())
	if crop.Empty() {
		return nil, fmt.Errorf("physical rect %v lies outside display %d frame %v", phys, target.Index, frame.Bounds())
	}

	sub := frame.SubImage(crop)
	out := toRGBA(sub)
	if b.upscale > 1.0 {
		w := uint(float64(out.Bounds().Dx()) * b.upscale)
		h := uint(float64(out.Bounds().Dy()) * b.upscale)
		out = toRGBA(resize.Resize(w, h, out, resize.Bicubic))
	}

	return &Result{Image: out, Rect: region, Backend: b.Name()}, nil
}
