package capture

import (
	"context"
	"fmt"
	"image"

	"github.com/go-vgo/robotgo"

	"screen-ocr-translate/monitor"
)

// toolkitBackend is the software last resort. It works in coordinates local
// to the target monitor's logical rectangle and clamps the rect to the
// monitor before grabbing; a degenerate post-clamp rect fails the backend
// rather than grabbing a zero-area region.
type toolkitBackend struct {
	grab func(x, y, w, h int) (image.Image, error)
}

func newToolkitBackend() *toolkitBackend {
	return &toolkitBackend{
		grab: func(x, y, w, h int) (image.Image, error) {
			return robotgo.CaptureImg(x, y, w, h)
		},
	}
}

func (b *toolkitBackend) Name() string { return "toolkit" }

func (b *toolkitBackend) Attempt(ctx context.Context, region Region, target monitor.Info) (*Result, error) {
	localX := region.X - target.Origin.X
	localY := region.Y - target.Origin.Y
	w := region.Width
	h := region.Height

	if localX < 0 {
		w += localX
		localX = 0
	}
	if localY < 0 {
		h += localY
		localY = 0
	}
	if w > target.Size.X-localX {
		w = target.Size.X - localX
	}
	if h > target.Size.Y-localY {
		h = target.Size.Y - localY
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("region degenerate after clamping to monitor %d: %dx%d", target.Index, w, h)
	}

	img, err := b.grab(target.Origin.X+localX, target.Origin.Y+localY, w, h)
	if err != nil {
		return nil, fmt.Errorf("toolkit grab failed: %v", err)
	}
	if img == nil {
		return nil, fmt.Errorf("toolkit grab returned no image")
	}

	captured := Region{
		X:      target.Origin.X + localX,
		Y:      target.Origin.Y + localY,
		Width:  w,
		Height: h,
		Space:  monitor.Logical,
	}
	return &Result{Image: toRGBA(img), Rect: captured, Backend: b.Name()}, nil
}
