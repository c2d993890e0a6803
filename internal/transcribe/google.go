package transcribe

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"subshift/internal/syncerr"
)

// GoogleClient transcribes audio via the Google Speech-to-Text API.
type GoogleClient struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// NewGoogleClient builds a client using apiKey. baseURL defaults to the
// production Google Speech endpoint when empty.
func NewGoogleClient(apiKey string) *GoogleClient {
	return &GoogleClient{
		APIKey:     apiKey,
		BaseURL:    "https://speech.googleapis.com/v1/speech:recognize",
		HTTPClient: &http.Client{},
	}
}

func (c *GoogleClient) Transcribe(ctx context.Context, pcmPath string) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("%w: google: missing API key", syncerr.ErrAuth)
	}

	raw, err := os.ReadFile(pcmPath)
	if err != nil {
		return "", fmt.Errorf("%w: google: read sample: %w", syncerr.ErrRetryableAPI, err)
	}

	payload := map[string]any{
		"config": map[string]any{
			"encoding":        "LINEAR16",
			"sampleRateHertz": 16000,
			"languageCode":    "en-US",
		},
		"audio": map[string]any{
			"content": base64.StdEncoding.EncodeToString(raw),
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: google: build request: %w", syncerr.ErrRetryableAPI, err)
	}

	url := fmt.Sprintf("%s?key=%s", c.BaseURL, c.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: google: build request: %w", syncerr.ErrRetryableAPI, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: google: %w", syncerr.ErrRetryableAPI, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", fmt.Errorf("%w: google: status %d", syncerr.ErrAuth, resp.StatusCode)
	case http.StatusTooManyRequests, http.StatusPaymentRequired:
		return "", fmt.Errorf("%w: google: status %d", syncerr.ErrQuotaExceeded, resp.StatusCode)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: google: status %d", syncerr.ErrRetryableAPI, resp.StatusCode)
	}

	var parsed struct {
		Results []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: google: decode response: %w", syncerr.ErrRetryableAPI, err)
	}

	var out string
	for _, result := range parsed.Results {
		if len(result.Alternatives) > 0 {
			if out != "" {
				out += " "
			}
			out += result.Alternatives[0].Transcript
		}
	}
	return out, nil
}
