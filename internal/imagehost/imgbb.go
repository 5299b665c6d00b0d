// Package imagehost uploads door pictures to imgbb and returns their public
// URLs. The catalog stores only the returned URLs.
package imagehost

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// DefaultUploadURL is imgbb's upload endpoint.
const DefaultUploadURL = "https://api.imgbb.com/1/upload"

var (
	// ErrNotConfigured is returned when no API key is set.
	ErrNotConfigured = errors.New("image host not configured")

	// ErrUploadFailed is returned for a non-2xx response or success=false.
	ErrUploadFailed = errors.New("image upload failed")
)

// Client posts images to imgbb.
type Client struct {
	APIKey    string
	UploadURL string
	HTTP      *http.Client
}

// New returns a client with a bounded HTTP timeout.
func New(apiKey, uploadURL string) *Client {
	if uploadURL == "" {
		uploadURL = DefaultUploadURL
	}
	return &Client{
		APIKey:    apiKey,
		UploadURL: uploadURL,
		HTTP:      &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured reports whether uploads can be attempted.
func (c *Client) Configured() bool { return c != nil && c.APIKey != "" }

type uploadResponse struct {
	Success bool `json:"success"`
	Data    struct {
		URL string `json:"url"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends data as a base64 form field and returns the hosted URL.
func (c *Client) Upload(ctx context.Context, data []byte, name string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("key", c.APIKey)
	_ = mw.WriteField("image", base64.StdEncoding.EncodeToString(data))
	if name != "" {
		_ = mw.WriteField("name", name)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("encode upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.UploadURL, &body)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrUploadFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d", ErrUploadFailed, resp.StatusCode)
	}

	var out uploadResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUploadFailed, err)
	}
	if !out.Success || out.Data.URL == "" {
		msg := out.Error.Message
		if msg == "" {
			msg = "no url returned"
		}
		return "", fmt.Errorf("%w: %s", ErrUploadFailed, msg)
	}
	return out.Data.URL, nil
}
