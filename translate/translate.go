// Package translate is the sibling translation boundary: it runs only after
// recognition completes with non-empty text.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Config struct {
	Endpoint string
	APIKey   string
}

const (
	maxRetries   = 3
	initialDelay = 1 * time.Second
)

// Client calls a translation service over HTTP.
type Client struct {
	cfg  Config
	http *http.Client
}

func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("translation endpoint is required")
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type translateRequest struct {
	Text string `json:"text"`
	Dest string `json:"dest"`
}

type translateResponse struct {
	TranslatedText string    `json:"translated_text"`
	DetectedSource string    `json:"detected_source,omitempty"`
	Error          *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string      `json:"message"`
	Code    interface{} `json:"code"` // Can be string or number
}

func (e *apiError) Error() string {
	return fmt.Sprintf("translation error (code: %v): %s", e.Code, e.Message)
}

// Translate sends text to the service and returns the translation in the
// destination language.
func (c *Client) Translate(ctx context.Context, text, destLang string) (string, error) {
	if text == "" {
		return "", fmt.Errorf("nothing to translate")
	}
	if destLang == "" {
		return "", fmt.Errorf("destination language is required")
	}

	body, err := json.Marshal(translateRequest{Text: text, Dest: destLang})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %v", err)
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(float64(initialDelay) * (1.5 * float64(attempt)))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		translated, err := c.post(ctx, body)
		if err == nil {
			return translated, nil
		}
		if _, final := err.(*apiError); final {
			return "", err
		}
		lastErr = err
	}
	return "", fmt.Errorf("translation failed after %d attempts: %v", maxRetries, lastErr)
}

func (c *Client) post(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed translateResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("invalid response: %v", err)
	}
	if parsed.Error != nil {
		return "", parsed.Error
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translation service returned status %d", resp.StatusCode)
	}
	return parsed.TranslatedText, nil
}
