package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"time"
)

// PaddleConfig configures the default HTTP recognizer engine.
type PaddleConfig struct {
	Endpoint string
	// Model is the recognizer model key ("en", "hi").
	Model string
}

const (
	paddleMaxRetries   = 3
	paddleInitialDelay = 1 * time.Second
)

// paddleEngine talks to a PaddleOCR-style recognition service over HTTP.
// The response body is returned verbatim as the engine's raw payload; its
// shape is the normalizer's problem.
type paddleEngine struct {
	cfg    PaddleConfig
	client *http.Client
}

// NewPaddleEngine creates the default Engine for a model key.
func NewPaddleEngine(cfg PaddleConfig) (Engine, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("recognizer endpoint is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("recognizer model key is required")
	}
	return &paddleEngine{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// PaddleFactory adapts NewPaddleEngine to the Dispatcher's factory shape.
func PaddleFactory(endpoint string) EngineFactory {
	return func(profile LanguageProfile) (Engine, error) {
		return NewPaddleEngine(PaddleConfig{Endpoint: endpoint, Model: profile.ModelKey()})
	}
}

type paddleRequest struct {
	Images []string `json:"images"`
	Lang   string   `json:"lang"`
}

type paddleError struct {
	Message string      `json:"message"`
	Code    interface{} `json:"code"` // Can be string or number
}

func (e *paddleError) Error() string {
	return fmt.Sprintf("recognizer error (code: %v): %s", e.Code, e.Message)
}

func (p *paddleEngine) Recognize(ctx context.Context, img image.Image) (RawResult, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image as PNG: %v", err)
	}

	payload := paddleRequest{
		Images: []string{base64.StdEncoding.EncodeToString(buf.Bytes())},
		Lang:   p.cfg.Model,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %v", err)
	}

	// Retry with backoff; only transport-level failures retry, service
	// errors are final.
	var lastErr error
	for attempt := 0; attempt < paddleMaxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(float64(paddleInitialDelay) * (1.5 * float64(attempt)))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		raw, err := p.post(ctx, body)
		if err == nil {
			return raw, nil
		}
		if _, final := err.(*paddleError); final {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("recognizer request failed after %d attempts: %v", paddleMaxRetries, lastErr)
}

func (p *paddleEngine) post(ctx context.Context, body []byte) (RawResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		var svcErr paddleError
		if json.Unmarshal(data, &svcErr) == nil && svcErr.Message != "" {
			return nil, &svcErr
		}
		return nil, fmt.Errorf("recognizer returned status %d", resp.StatusCode)
	}

	return RawResult(data), nil
}
