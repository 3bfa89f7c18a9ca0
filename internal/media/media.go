// Package media forwards contestant uploads (photos, audition videos) to the
// media host and returns the hosted URL that gets persisted on the
// registration.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// MaxUploadSize caps a single upload at 50 MiB.
const MaxUploadSize = 50 << 20

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}
}

// WithHTTPClient swaps the underlying HTTP client, mainly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId,omitempty"`
	Bytes    int64  `json:"bytes,omitempty"`
	Format   string `json:"format,omitempty"`
}

// Upload streams one file to the media host. Kind is the host-side folder
// ("photos", "videos") and filename is only a hint for the stored asset name.
func (c *Client) Upload(ctx context.Context, kind, filename string, r io.Reader) (*UploadResult, error) {
	const op = "media.Client.Upload"

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("folder", kind); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	if _, err := io.Copy(fw, io.LimitReader(r, MaxUploadSize)); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/upload", &body)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("%s: media host returned %d", op, resp.StatusCode)
	}

	var out UploadResult
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	if out.URL == "" {
		return nil, fmt.Errorf("%s: media host returned no url", op)
	}

	return &out, nil
}
