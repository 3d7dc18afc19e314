package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("LANGUAGES")
	os.Unsetenv("OCR_ENDPOINT")
	os.Unsetenv("CAPTURE_TIMEOUT_SEC")
	os.Unsetenv("OCR_DEADLINE_SEC")
	os.Unsetenv("UPSCALE_FACTOR")
	os.Unsetenv("FALLBACK_LANGUAGES")
	os.Unsetenv("ENABLE_DISPLAY_CAPTURE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Languages != "eng+hin" {
		t.Errorf("Expected default languages eng+hin, got %q", cfg.Languages)
	}
	if cfg.OCREndpoint == "" {
		t.Error("Expected a default OCR endpoint")
	}
	if cfg.CaptureTimeoutSec != 5 {
		t.Errorf("Expected default capture timeout 5, got %d", cfg.CaptureTimeoutSec)
	}
	if cfg.OCRDeadlineSec != 20 {
		t.Errorf("Expected default OCR deadline 20, got %d", cfg.OCRDeadlineSec)
	}
	if cfg.UpscaleFactor != 1.8 {
		t.Errorf("Expected default upscale 1.8, got %v", cfg.UpscaleFactor)
	}
	if cfg.EnableDisplayGrab {
		t.Error("Display capture should be opt-in")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LANGUAGES", "hin")
	t.Setenv("OCR_DEADLINE_SEC", "45")
	t.Setenv("CAPTURE_TIMEOUT_SEC", "2")
	t.Setenv("FALLBACK_LANGUAGES", "hindi, multilingual ,en")
	t.Setenv("ENABLE_DISPLAY_CAPTURE", "TRUE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Languages != "hin" {
		t.Errorf("Expected languages hin, got %q", cfg.Languages)
	}
	if cfg.OCRDeadlineSec != 45 {
		t.Errorf("Expected deadline 45, got %d", cfg.OCRDeadlineSec)
	}
	if cfg.CaptureTimeoutSec != 2 {
		t.Errorf("Expected capture timeout 2, got %d", cfg.CaptureTimeoutSec)
	}
	if len(cfg.FallbackLanguages) != 3 || cfg.FallbackLanguages[1] != "multilingual" {
		t.Errorf("Unexpected fallback list: %v", cfg.FallbackLanguages)
	}
	if !cfg.EnableDisplayGrab {
		t.Error("Expected display capture enabled")
	}
}

func TestLoadInvalidNumbersKeepDefaults(t *testing.T) {
	t.Setenv("OCR_DEADLINE_SEC", "not-a-number")
	t.Setenv("CAPTURE_TIMEOUT_SEC", "-3")
	t.Setenv("UPSCALE_FACTOR", "0.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.OCRDeadlineSec != 20 {
		t.Errorf("Expected default deadline on bad input, got %d", cfg.OCRDeadlineSec)
	}
	if cfg.CaptureTimeoutSec != 5 {
		t.Errorf("Expected default timeout on negative input, got %d", cfg.CaptureTimeoutSec)
	}
	if cfg.UpscaleFactor != 1.8 {
		t.Errorf("Expected sub-1.0 upscale rejected, got %v", cfg.UpscaleFactor)
	}
}

func TestLoadWithOptionsOverrides(t *testing.T) {
	t.Setenv("LANGUAGES", "eng")

	cfg, err := LoadWithOptions(LoadOptions{
		LanguagesOverride:   "eng+hin",
		OCREndpointOverride: "http://localhost:9999/ocr",
	})
	if err != nil {
		t.Fatalf("LoadWithOptions failed: %v", err)
	}

	if cfg.Languages != "eng+hin" {
		t.Errorf("Option override should beat env, got %q", cfg.Languages)
	}
	if cfg.OCREndpoint != "http://localhost:9999/ocr" {
		t.Errorf("Unexpected endpoint %q", cfg.OCREndpoint)
	}
}
