package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/tillpoint-pos/tillpoint/internal/shared"
)

// defaultSearchLimit caps how many products one name search pulls from
// upstream; the terminal only ever shows the first screenful.
const defaultSearchLimit = 50

// Client wraps interactions with the upstream inventory API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a new client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Ping checks if the upstream inventory service is available.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/products/search?name=", c.baseURL), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("inventory api returned status %d", resp.StatusCode)
	}
	return nil
}

// SearchByName queries products whose names match the given text.
func (c *Client) SearchByName(ctx context.Context, name string) ([]Product, error) {
	u := fmt.Sprintf("%s/products/search?name=%s&limit=%d", c.baseURL, url.QueryEscape(name), defaultSearchLimit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: search request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("catalog: search failed with status %d", resp.StatusCode)
	}
	var products []Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("catalog: decode search response: %w", err)
	}
	return products, nil
}

// GetByBarcode looks up a single product by barcode. A non-2xx status from
// upstream maps to shared.ErrNotFound.
func (c *Client) GetByBarcode(ctx context.Context, code string) (Product, error) {
	u := fmt.Sprintf("%s/products/search/barcode/%s", c.baseURL, url.PathEscape(code))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Product{}, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Product{}, fmt.Errorf("catalog: barcode request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return Product{}, fmt.Errorf("catalog: barcode %s: %w", code, shared.ErrNotFound)
	}
	var product Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return Product{}, fmt.Errorf("catalog: decode barcode response: %w", err)
	}
	return product, nil
}
