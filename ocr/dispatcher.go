// Package ocr dispatches recognition requests to language-specific engines
// and normalizes their heterogeneous output.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"sync"
)

// ErrRecognitionUnavailable means no recognizer engine could be constructed
// for any attempted profile. Non-retryable without reconfiguration.
var ErrRecognitionUnavailable = errors.New("recognizer unavailable")

// bilingualPad is the uniform white border added before bilingual
// recognition; it reduces edge-clipping of connected scripts.
const bilingualPad = 10

// Engine recognizes text in an image and returns the engine's raw,
// version-dependent payload.
type Engine interface {
	Recognize(ctx context.Context, img image.Image) (RawResult, error)
}

// EngineFactory constructs the engine for one profile. Construction is
// expensive; the Dispatcher calls it at most once per profile.
type EngineFactory func(profile LanguageProfile) (Engine, error)

// Dispatcher owns the per-profile engine cache and the empty-result retry
// policy. Safe for concurrent use.
type Dispatcher struct {
	mu       sync.Mutex
	engines  map[LanguageProfile]Engine
	factory  EngineFactory
	fallback []LanguageProfile
}

// NewDispatcher creates a Dispatcher. A nil fallback list uses
// FallbackOrder.
func NewDispatcher(factory EngineFactory, fallback []LanguageProfile) *Dispatcher {
	if fallback == nil {
		fallback = FallbackOrder
	}
	return &Dispatcher{
		engines:  make(map[LanguageProfile]Engine),
		factory:  factory,
		fallback: fallback,
	}
}

// Recognize runs OCR with the hinted profile, retrying the fallback list on
// empty text and keeping the highest-confidence non-empty outcome. All
// attempts empty is a valid empty Outcome, not an error.
func (d *Dispatcher) Recognize(ctx context.Context, img image.Image, hint LanguageProfile) (Outcome, error) {
	if img == nil {
		return Outcome{}, fmt.Errorf("nil image")
	}

	attempted := false
	best, err := d.recognizeOne(ctx, img, hint)
	if err != nil {
		log.Printf("Dispatcher: primary profile %s failed: %v", hint, err)
	} else {
		attempted = true
		if best.Text != "" {
			return best, nil
		}
	}

	// Empty primary: try every fallback profile and keep the
	// highest-confidence non-empty outcome among all attempts.
	for _, profile := range d.fallback {
		if profile == hint {
			continue
		}
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}

		outcome, err := d.recognizeOne(ctx, img, profile)
		if err != nil {
			log.Printf("Dispatcher: fallback profile %s failed: %v", profile, err)
			continue
		}
		attempted = true
		if outcome.Text != "" && outcome.Confidence > best.Confidence {
			best = outcome
		}
	}

	if !attempted {
		return Outcome{}, ErrRecognitionUnavailable
	}
	return best, nil
}

func (d *Dispatcher) recognizeOne(ctx context.Context, img image.Image, profile LanguageProfile) (Outcome, error) {
	engine, err := d.engineFor(profile)
	if err != nil {
		return Outcome{}, err
	}

	if profile == Bilingual {
		img = padWhite(img, bilingualPad)
	}

	raw, err := engine.Recognize(ctx, img)
	if err != nil {
		return Outcome{}, err
	}
	return Parse(raw), nil
}

// engineFor returns the cached engine for profile, constructing it under
// the lock on first use. At most one engine per profile exists for the
// process lifetime.
func (d *Dispatcher) engineFor(profile LanguageProfile) (Engine, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if e, ok := d.engines[profile]; ok {
		return e, nil
	}

	log.Printf("Dispatcher: initializing engine for profile %s (model %s)", profile, profile.ModelKey())
	e, err := d.factory(profile)
	if err != nil {
		return nil, fmt.Errorf("engine init for %s: %w", profile, err)
	}
	d.engines[profile] = e
	return e, nil
}

// padWhite surrounds img with a uniform white border.
func padWhite(img image.Image, margin int) image.Image {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx()+2*margin, b.Dy()+2*margin))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(out, image.Rect(margin, margin, margin+b.Dx(), margin+b.Dy()), img, b.Min, draw.Src)
	return out
}
