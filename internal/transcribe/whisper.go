package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"subshift/internal/syncerr"
)

// WhisperClient transcribes audio via the OpenAI Whisper API.
type WhisperClient struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// NewWhisperClient builds a client using apiKey, with BaseURL set to the
// production OpenAI endpoint.
func NewWhisperClient(apiKey string) *WhisperClient {
	return &WhisperClient{
		APIKey:     apiKey,
		BaseURL:    "https://api.openai.com/v1/audio/transcriptions",
		HTTPClient: &http.Client{},
	}
}

func (c *WhisperClient) Transcribe(ctx context.Context, pcmPath string) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("%w: whisper: missing API key", syncerr.ErrAuth)
	}

	file, err := os.Open(pcmPath)
	if err != nil {
		return "", fmt.Errorf("%w: whisper: open sample: %w", syncerr.ErrRetryableAPI, err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(pcmPath))
	if err != nil {
		return "", fmt.Errorf("%w: whisper: build request: %w", syncerr.ErrRetryableAPI, err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("%w: whisper: build request: %w", syncerr.ErrRetryableAPI, err)
	}
	if err := writer.WriteField("model", "whisper-1"); err != nil {
		return "", fmt.Errorf("%w: whisper: build request: %w", syncerr.ErrRetryableAPI, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("%w: whisper: build request: %w", syncerr.ErrRetryableAPI, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, &body)
	if err != nil {
		return "", fmt.Errorf("%w: whisper: build request: %w", syncerr.ErrRetryableAPI, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: whisper: %w", syncerr.ErrRetryableAPI, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", fmt.Errorf("%w: whisper: status %d", syncerr.ErrAuth, resp.StatusCode)
	case http.StatusTooManyRequests, http.StatusPaymentRequired:
		return "", fmt.Errorf("%w: whisper: status %d", syncerr.ErrQuotaExceeded, resp.StatusCode)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: whisper: status %d", syncerr.ErrRetryableAPI, resp.StatusCode)
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: whisper: decode response: %w", syncerr.ErrRetryableAPI, err)
	}
	return parsed.Text, nil
}
