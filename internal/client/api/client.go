// Package api is the HTTP client for the ads contract.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"adsmanager/internal/store"
)

// ErrNotFound is returned when the server reports 404 for an ad id.
var ErrNotFound = errors.New("ad not found")

// AdUpsert is one element of a bulk save batch. ID is omitted for
// drafts that have never been persisted, which makes the server insert
// instead of update.
type AdUpsert struct {
	ID       int64          `json:"id,omitempty"`
	Content  string         `json:"content"`
	Position store.Position `json:"position"`
	Order    int            `json:"order"`
}

// UpdateAdRequest carries the full replacement values for one ad.
type UpdateAdRequest struct {
	Content  string         `json:"content"`
	Position store.Position `json:"position"`
	Order    int            `json:"order"`
}

type saveAdsResponse struct {
	Success bool       `json:"success"`
	Ads     []store.Ad `json:"ads"`
}

type updateAdResponse struct {
	Success bool      `json:"success"`
	Ad      *store.Ad `json:"ad"`
}

type deleteAdResponse struct {
	Success bool      `json:"success"`
	Deleted *store.Ad `json:"deleted"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a client for the API server at baseURL (including
// the /v1 prefix, e.g. "http://localhost:8080/v1").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ListAds fetches all ads, optionally scoped to one position. The site
// tag travels as a query parameter only.
func (c *Client) ListAds(ctx context.Context, site string, position string) ([]store.Ad, error) {
	q := url.Values{}
	if site != "" {
		q.Set("site", site)
	}
	if position != "" {
		q.Set("position", position)
	}

	path := "/ads"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var ads []store.Ad
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &ads); err != nil {
		return nil, fmt.Errorf("list ads request failed: %w", err)
	}
	return ads, nil
}

// SaveAds submits one section's full ordered list and returns the
// authoritative state of every position present in the batch.
func (c *Client) SaveAds(ctx context.Context, site string, batch []AdUpsert) ([]store.Ad, error) {
	path := "/ads"
	if site != "" {
		path += "?site=" + url.QueryEscape(site)
	}

	var resp saveAdsResponse
	if err := c.doRequest(ctx, http.MethodPost, path, batch, &resp); err != nil {
		return nil, fmt.Errorf("save ads request failed: %w", err)
	}
	return resp.Ads, nil
}

// UpdateAd rewrites a single persisted ad.
func (c *Client) UpdateAd(ctx context.Context, id int64, req UpdateAdRequest) (*store.Ad, error) {
	var resp updateAdResponse
	if err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/ads/%d", id), req, &resp); err != nil {
		return nil, fmt.Errorf("update ad request failed: %w", err)
	}
	return resp.Ad, nil
}

// DeleteAd permanently removes a persisted ad and returns its last
// known state.
func (c *Client) DeleteAd(ctx context.Context, id int64) (*store.Ad, error) {
	var resp deleteAdResponse
	if err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/ads/%d", id), nil, &resp); err != nil {
		return nil, fmt.Errorf("delete ad request failed: %w", err)
	}
	return resp.Deleted, nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := string(respBody)
		var errResp errorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			message = errResp.Error
		}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %s", ErrNotFound, message)
		}
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, message)
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
