// Package capture grabs pixels for a selected screen region.
//
// Backends differ in fidelity and in the coordinate space they expect, so
// each one owns its own space conversion; the chain driver stays
// coordinate-space-agnostic and only sequences attempts.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log"
	"time"

	"screen-ocr-translate/monitor"
)

// ErrExhausted is returned when every backend in the chain failed.
var ErrExhausted = errors.New("all capture backends failed")

// Region is a screen rectangle in the tagged coordinate space
// (logical unless stated otherwise).
type Region struct {
	X      int
	Y      int
	Width  int
	Height int
	Space  monitor.Space
}

// Bounds returns the region as an image.Rectangle.
func (r Region) Bounds() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Result is one successful grab: the decoded image, the region actually
// captured (clamping may shrink it), and the backend that produced it.
type Result struct {
	Image   *image.RGBA
	Rect    Region
	Backend string
}

// Backend is one capture strategy. Attempt either returns a Result or an
// error describing why this strategy could not serve the request; errors
// never abort the chain.
type Backend interface {
	Name() string
	Attempt(ctx context.Context, region Region, target monitor.Info) (*Result, error)
}

// Options configures chain construction.
type Options struct {
	// EnableDisplayGrab adds the per-display backend between the global
	// and toolkit backends.
	EnableDisplayGrab bool
	// UpscaleFactor applies to the display backend only; 1.0 disables.
	UpscaleFactor float64
	// AttemptTimeout bounds each backend attempt. Zero means 5s.
	AttemptTimeout time.Duration
}

// Chain tries backends in fixed priority order and returns the first
// successful result.
type Chain struct {
	backends       []Backend
	attemptTimeout time.Duration
}

// NewChain builds the default backend order: global virtual-desktop grab,
// optional per-display grab, toolkit grab as last resort.
func NewChain(opts Options) *Chain {
	backends := []Backend{newGlobalBackend()}
	if opts.EnableDisplayGrab {
		backends = append(backends, newDisplayBackend(opts.UpscaleFactor))
	}
	backends = append(backends, newToolkitBackend())
	return newChainWith(backends, opts.AttemptTimeout)
}

func newChainWith(backends []Backend, timeout time.Duration) *Chain {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Chain{backends: backends, attemptTimeout: timeout}
}

// Capture runs the chain sequentially. Backend errors and panics are
// absorbed; only exhaustion of every backend surfaces.
func (c *Chain) Capture(ctx context.Context, region Region, target monitor.Info) (*Result, error) {
	if region.Width <= 0 || region.Height <= 0 {
		return nil, fmt.Errorf("invalid region dimensions: width=%d, height=%d", region.Width, region.Height)
	}

	var lastErr error
	for _, b := range c.backends {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, err := c.attemptOne(ctx, b, region, target)
		if err == nil && res != nil {
			log.Printf("Capture: backend %s succeeded (%dx%d)", b.Name(), res.Image.Bounds().Dx(), res.Image.Bounds().Dy())
			return res, nil
		}
		log.Printf("Capture: backend %s failed: %v", b.Name(), err)
		lastErr = err
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: last error: %v", ErrExhausted, lastErr)
	}
	return nil, ErrExhausted
}

// attemptOne runs a single backend with panic recovery and a bounded
// per-attempt timeout. A backend that overruns is abandoned; its goroutine
// is allowed to finish in the background.
func (c *Chain) attemptOne(ctx context.Context, b Backend, region Region, target monitor.Info) (res *Result, err error) {
	type outcome struct {
		res *Result
		err error
	}
	resCh := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resCh <- outcome{nil, fmt.Errorf("backend %s panicked: %v", b.Name(), r)}
			}
		}()
		r, e := b.Attempt(ctx, region, target)
		resCh <- outcome{r, e}
	}()

	select {
	case o := <-resCh:
		return o.res, o.err
	case <-time.After(c.attemptTimeout):
		return nil, fmt.Errorf("backend %s timed out after %v", b.Name(), c.attemptTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// toRGBA re-origins and converts any image to *image.RGBA.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == image.Pt(0, 0) {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
