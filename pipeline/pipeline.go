// Package pipeline runs one capture-and-recognize request end to end:
// resolve the owning monitor, capture pixels, recognize, normalize, clean,
// optionally translate.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"log"
	"os"
	"time"

	"screen-ocr-translate/capture"
	"screen-ocr-translate/config"
	"screen-ocr-translate/monitor"
	"screen-ocr-translate/ocr"
	"screen-ocr-translate/postprocess"
	"screen-ocr-translate/translate"
)

// MinRegionSize is the smallest selection edge accepted, in logical units.
const MinRegionSize = 10

// ErrRegionTooSmall rejects selections below MinRegionSize before any
// backend is attempted.
var ErrRegionTooSmall = fmt.Errorf("selection smaller than %dx%d logical units", MinRegionSize, MinRegionSize)

// Request is one capture-and-recognize job submitted by the caller.
type Request struct {
	Region    capture.Region
	Profile   ocr.LanguageProfile
	Mode      postprocess.ContentMode
	Translate bool
	DestLang  string
}

// Result carries the recognized outcome plus which backend produced the
// pixels and, when requested, the translation.
type Result struct {
	Outcome    ocr.Outcome
	Translated string
	Backend    string
}

// Capturer is what the pipeline needs from the capture chain.
type Capturer interface {
	Capture(ctx context.Context, region capture.Region, target monitor.Info) (*capture.Result, error)
}

// Translator is the sibling translation boundary.
type Translator interface {
	Translate(ctx context.Context, text, destLang string) (string, error)
}

// Pipeline wires the stages together. Monitors is called fresh on every
// request: display configuration hot-plugs between calls.
type Pipeline struct {
	Chain      Capturer
	Dispatcher *ocr.Dispatcher
	Translator Translator // nil disables translation
	Monitors   func() ([]monitor.Info, error)
	TempDir    string // "" uses the OS default
}

// New builds the production pipeline from config.
func New(cfg *config.Config) *Pipeline {
	var fallback []ocr.LanguageProfile
	for _, lang := range cfg.FallbackLanguages {
		fallback = append(fallback, ocr.ParseProfile(lang))
	}

	p := &Pipeline{
		Chain: capture.NewChain(capture.Options{
			EnableDisplayGrab: cfg.EnableDisplayGrab,
			UpscaleFactor:     cfg.UpscaleFactor,
			AttemptTimeout:    secondsOrDefault(cfg.CaptureTimeoutSec, 5),
		}),
		Dispatcher: ocr.NewDispatcher(ocr.PaddleFactory(cfg.OCREndpoint), fallback),
		Monitors:   monitor.Enumerate,
	}

	if cfg.TranslateEndpoint != "" {
		client, err := translate.New(translate.Config{
			Endpoint: cfg.TranslateEndpoint,
			APIKey:   cfg.TranslateAPIKey,
		})
		if err != nil {
			log.Printf("Pipeline: translation disabled: %v", err)
		} else {
			p.Translator = client
		}
	}

	return p
}

// Run executes one request. Cancellation is cooperative: the context is
// checked at each stage boundary, and an aborted run leaves no temp file
// behind.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Region.Width < MinRegionSize || req.Region.Height < MinRegionSize {
		return nil, ErrRegionTooSmall
	}

	infos, err := p.Monitors()
	if err != nil {
		return nil, fmt.Errorf("monitor enumeration failed: %v", err)
	}
	target, err := monitor.Resolve(infos, req.Region.Bounds().Min)
	if err != nil {
		return nil, err
	}

	captured, err := p.Chain.Capture(ctx, req.Region, target)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The recognizer boundary works off an image file; scope it to this
	// request and remove it on every exit path.
	tmpPath, err := p.writeTemp(captured)
	if err != nil {
		log.Printf("Pipeline: temp image write failed: %v", err)
	} else {
		defer func() {
			if rmErr := os.Remove(tmpPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				log.Printf("Pipeline: temp cleanup failed: %v", rmErr)
			}
		}()
	}

	outcome, err := p.Dispatcher.Recognize(ctx, captured.Image, req.Profile)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outcome = p.clean(outcome, req)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{Outcome: outcome, Backend: captured.Backend}
	if req.Translate && outcome.Text != "" {
		res.Translated = p.translateText(ctx, outcome.Text, req.DestLang)
	}
	return res, nil
}

func (p *Pipeline) clean(outcome ocr.Outcome, req Request) ocr.Outcome {
	text := outcome.Text
	if req.Profile != ocr.Latin {
		text = postprocess.CleanDevanagari(text)
	}
	text = postprocess.ForMode(req.Mode)(text)

	outcome.Text = text
	if text == "" {
		// Cleanup may empty the text; an empty result carries no
		// confidence.
		outcome.Confidence = 0
	}
	return outcome
}

// translateText degrades on failure: a translation hiccup must not void a
// good recognition result.
func (p *Pipeline) translateText(ctx context.Context, text, destLang string) string {
	if p.Translator == nil {
		log.Printf("Pipeline: translation requested but no translator configured")
		return ""
	}
	translated, err := p.Translator.Translate(ctx, text, destLang)
	if err != nil {
		log.Printf("Pipeline: translation failed: %v", err)
		return ""
	}
	return translated
}

func secondsOrDefault(sec, def int) time.Duration {
	if sec <= 0 {
		sec = def
	}
	return time.Duration(sec) * time.Second
}

func (p *Pipeline) writeTemp(captured *capture.Result) (string, error) {
	f, err := os.CreateTemp(p.TempDir, "ocr-region-*.png")
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := png.Encode(f, captured.Image); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
