package capture

import (
	"context"
	"fmt"
	"image"
	"log"

	"github.com/kbinani/screenshot"

	"screen-ocr-translate/monitor"
)

// globalBackend issues a single grab against global virtual-desktop
// coordinates; no per-monitor translation is needed. If the grab fails it
// retries once through a per-monitor-relative rect.
type globalBackend struct {
	grab     func(image.Rectangle) (*image.RGBA, error)
	monitors func() ([]monitor.Info, error)
}

func newGlobalBackend() *globalBackend {
	return &globalBackend{
		grab:     screenshot.CaptureRect,
		monitors: monitor.Enumerate,
	}
}

func (b *globalBackend) Name() string { return "global" }

func (b *globalBackend) Attempt(ctx context.Context, region Region, target monitor.Info) (*Result, error) {
	bounds := region.Bounds()

	img, err := b.grab(bounds)
	if err == nil && img != nil {
		// A size mismatch (mixed DPR, backend quirk) is accepted as-is:
		// some image beats none. Logged so accuracy-sensitive setups can
		// spot it.
		if img.Bounds().Dx() != region.Width || img.Bounds().Dy() != region.Height {
			log.Printf("Capture: global grab size mismatch: requested %dx%d, got %dx%d",
				region.Width, region.Height, img.Bounds().Dx(), img.Bounds().Dy())
		}
		return &Result{Image: toRGBA(img), Rect: region, Backend: b.Name()}, nil
	}
	log.Printf("Capture: global grab failed (%v), retrying per-monitor", err)

	return b.retryPerMonitor(region)
}

// retryPerMonitor re-expresses the rect relative to the monitor owning its
// top-left corner (first monitor when none matches) and reissues the grab.
func (b *globalBackend) retryPerMonitor(region Region) (*Result, error) {
	infos, err := b.monitors()
	if err != nil || len(infos) == 0 {
		return nil, fmt.Errorf("per-monitor retry: no monitors: %v", err)
	}

	mon, ok := monitor.At(infos, image.Pt(region.X, region.Y))
	if !ok {
		mon = infos[0]
	}

	relX := region.X - mon.Origin.X
	relY := region.Y - mon.Origin.Y
	bounds := image.Rect(
		mon.Origin.X+relX,
		mon.Origin.Y+relY,
		mon.Origin.X+relX+region.Width,
		mon.Origin.Y+relY+region.Height,
	)

	img, err := b.grab(bounds)
	if err != nil {
		return nil, fmt.Errorf("per-monitor retry on display %d failed: %v", mon.Index, err)
	}
	if img == nil {
		return nil, fmt.Errorf("per-monitor retry on display %d returned no image", mon.Index)
	}
	return &Result{Image: toRGBA(img), Rect: region, Backend: b.Name()}, nil
}
