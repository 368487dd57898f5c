package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"storefront/internal/models"
)

const (
	DefaultSourceURL     = "https://fakestoreapi.com"
	DefaultSourceTimeout = 10 * time.Second
)

// FakeStoreClient reads the demo catalog served by fakestoreapi.com.
type FakeStoreClient struct {
	baseURL string
	client  *http.Client
}

func NewFakeStoreClient(baseURL string, timeout time.Duration) *FakeStoreClient {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultSourceURL
	}
	if timeout <= 0 {
		timeout = DefaultSourceTimeout
	}
	return &FakeStoreClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *FakeStoreClient) List(ctx context.Context) ([]models.SourceProduct, error) {
	var products []models.SourceProduct
	if _, err := c.get(ctx, "products", "/products", &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = make([]models.SourceProduct, 0)
	}
	return products, nil
}

func (c *FakeStoreClient) GetByID(ctx context.Context, id int64) (models.SourceProduct, error) {
	var product models.SourceProduct
	found, err := c.get(ctx, "product", fmt.Sprintf("/products/%d", id), &product)
	if err != nil {
		return models.SourceProduct{}, err
	}
	// The API answers unknown ids with 200 and an empty body.
	if !found {
		return models.SourceProduct{}, fmt.Errorf("%w: %d", ErrProductNotFound, id)
	}
	return product, nil
}

func (c *FakeStoreClient) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if _, err := c.get(ctx, "categories", "/products/categories", &categories); err != nil {
		return nil, err
	}
	if categories == nil {
		categories = make([]string, 0)
	}
	return categories, nil
}

// get decodes the JSON body at path into out. It reports false when the body
// was empty or null.
func (c *FakeStoreClient) get(ctx context.Context, op, path string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return false, &SourceError{Kind: SourceOther, Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return false, &SourceError{Kind: classifyTransportError(err), Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, &SourceError{
			Kind:       SourceHTTP,
			StatusCode: resp.StatusCode,
			Op:         op,
			Err:        fmt.Errorf("GET %s: %s", path, resp.Status),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, &SourceError{Kind: classifyTransportError(err), Op: op, Err: err}
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return false, nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return false, &SourceError{Kind: SourceOther, Op: op, Err: fmt.Errorf("decode %s: %w", path, err)}
	}
	return true, nil
}

func classifyTransportError(err error) SourceErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return SourceTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return SourceTimeout
	}
	if errors.Is(err, context.Canceled) {
		return SourceOther
	}
	return SourceNoResponse
}
