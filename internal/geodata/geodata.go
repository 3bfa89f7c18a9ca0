// Package geodata fetches Nigerian states and local government areas from
// the public geodata API. Callers are expected to cache the results; the
// upstream data changes rarely and the API rate-limits aggressively.
package geodata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

type State struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	Capital string `json:"capital,omitempty"`
}

type LGA struct {
	Name      string `json:"name"`
	StateCode string `json:"stateCode"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// WithHTTPClient swaps the underlying HTTP client, mainly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

func (c *Client) States(ctx context.Context) ([]State, error) {
	const op = "geodata.Client.States"

	var out []State
	if err := c.getJSON(ctx, c.baseURL+"/states", &out); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	return out, nil
}

func (c *Client) LGAs(ctx context.Context, stateCode string) ([]LGA, error) {
	const op = "geodata.Client.LGAs"

	u := fmt.Sprintf("%s/states/%s/lgas", c.baseURL, url.PathEscape(stateCode))
	var out []LGA
	if err := c.getJSON(ctx, u, &out); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, u string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream returned %d", resp.StatusCode)
	}

	return json.Unmarshal(body, dst)
}
