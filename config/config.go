package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// EnvPathVar names an alternate config file when no .env sits next to
	// the executable.
	EnvPathVar = "SCREEN_OCR_TRANSLATE"

	defaultLanguages       = "eng+hin"
	defaultTranslateTarget = "en"
	defaultOCREndpoint     = "http://127.0.0.1:8868/predict/ocr_system"
)

type LoadOptions struct {
	LanguagesOverride   string
	OCREndpointOverride string
}

type Config struct {
	Languages         string   // language preference passed to the recognizer ("eng", "hin", "eng+hin")
	OCREndpoint       string   // PaddleOCR-style recognition service URL
	TranslateEndpoint string   // translation service URL (empty disables translation)
	TranslateAPIKey   string
	TranslateTarget   string   // default destination language code
	EnableFileLogging bool
	EnableDisplayGrab bool     // allow the per-display (hardware) capture backend
	UpscaleFactor     float64  // display-backend upscale, 1.0 disables
	CaptureTimeoutSec int      // per-backend attempt budget
	OCRDeadlineSec    int      // whole-request recognition deadline
	FallbackLanguages []string // recognizer profiles retried on empty text
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Configuration sources in priority order:
	// 1) .env in the application (executable) directory
	// 2) If not found, SCREEN_OCR_TRANSLATE env var as a path to a config file
	if envPath := resolveEnvPath(); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	captureTimeoutSec := 5
	if v := os.Getenv("CAPTURE_TIMEOUT_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			captureTimeoutSec = n
		}
	}

	ocrDeadlineSec := 20
	if v := os.Getenv("OCR_DEADLINE_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ocrDeadlineSec = n
		}
	}

	upscale := 1.8
	if v := os.Getenv("UPSCALE_FACTOR"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 1.0 {
			upscale = f
		}
	}

	// Comma-separated recognizer profiles tried when the primary returns
	// empty text. Empty keeps the built-in order.
	var fallbacks []string
	if s := os.Getenv("FALLBACK_LANGUAGES"); s != "" {
		for _, lang := range strings.Split(s, ",") {
			if trimmed := strings.TrimSpace(lang); trimmed != "" {
				fallbacks = append(fallbacks, trimmed)
			}
		}
	}

	cfg := &Config{
		Languages:         resolveLanguages(opts),
		OCREndpoint:       resolveOCREndpoint(opts),
		TranslateEndpoint: os.Getenv("TRANSLATE_ENDPOINT"),
		TranslateAPIKey:   os.Getenv("TRANSLATE_API_KEY"),
		TranslateTarget:   getEnvWithDefault("TRANSLATE_TARGET", defaultTranslateTarget),
		EnableFileLogging: strings.ToLower(os.Getenv("ENABLE_FILE_LOGGING")) == "true",
		EnableDisplayGrab: strings.ToLower(os.Getenv("ENABLE_DISPLAY_CAPTURE")) == "true",
		UpscaleFactor:     upscale,
		CaptureTimeoutSec: captureTimeoutSec,
		OCRDeadlineSec:    ocrDeadlineSec,
		FallbackLanguages: fallbacks,
	}

	return cfg, nil
}

func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}

	execDir := filepath.Dir(execPath)
	exeEnv := filepath.Join(execDir, ".env")
	if _, err := os.Stat(exeEnv); err == nil {
		return exeEnv
	}

	if alt := os.Getenv(EnvPathVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func resolveLanguages(opts LoadOptions) string {
	if override := strings.TrimSpace(opts.LanguagesOverride); override != "" {
		return override
	}
	return getEnvWithDefault("LANGUAGES", defaultLanguages)
}

func resolveOCREndpoint(opts LoadOptions) string {
	if override := strings.TrimSpace(opts.OCREndpointOverride); override != "" {
		return override
	}
	return getEnvWithDefault("OCR_ENDPOINT", defaultOCREndpoint)
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
