package stock

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"sceneforge/internal/domain"
)

// Order controls result ranking on the search endpoint.
type Order string

const (
	OrderPopular Order = "popular"
	OrderLatest  Order = "latest"
)

const (
	defaultBaseURL = "https://api.stockpile.dev/v1"
	defaultTimeout = 30 * time.Second
	apiKeyHeader   = "x-stock-api-key"

	// maxInlineBytes caps how much of a preview body gets embedded inline.
	maxInlineBytes = 32 << 20
)

// Query describes one search against the resource endpoint.
type Query struct {
	Term        string
	ContentType domain.ContentType
	Limit       int
	Page        int
	Order       Order
}

// Options configures the search client.
type Options struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Client talks to the upstream resource search API. It returns raw records;
// callers run them through the normalizer.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// envelope tolerates both response shapes the upstream is known to produce:
// a list under "data" or a list under "items".
type envelope struct {
	Data  []map[string]any `json:"data"`
	Items []map[string]any `json:"items"`
}

// NewClient constructs a search client. A nil HTTP client gets a reusable
// default with a sane timeout, following the other provider clients.
func NewClient(opts Options) *Client {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  strings.TrimSpace(opts.APIKey),
		baseURL: baseURL,
		client:  client,
	}
}

// Search runs one query against /resources and returns the raw records from
// whichever envelope key the upstream used. A zero-result response is not an
// error here; callers decide whether empty is terminal.
func (c *Client) Search(ctx context.Context, q Query) ([]map[string]any, error) {
	if c.apiKey == "" {
		return nil, domain.ErrMissingAPIKey
	}

	values := url.Values{}
	values.Set("q", q.Term)
	if q.ContentType != "" {
		values.Set("content_type", string(q.ContentType))
	}
	if q.Limit > 0 {
		values.Set("per_page", strconv.Itoa(q.Limit))
	}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	order := q.Order
	if order == "" {
		order = OrderPopular
	}
	values.Set("order", string(order))

	endpoint := c.baseURL + "/resources?" + values.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("stock: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stock: search request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("stock: search returned status %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("stock: decode response: %w", err)
	}
	if env.Data != nil {
		return env.Data, nil
	}
	return env.Items, nil
}

// FetchInline downloads preview bytes and embeds them with a sniffed MIME
// type. This is the dominant latency step in the image path; retry is the
// caller's responsibility.
func (c *Client) FetchInline(ctx context.Context, previewURL string) (*domain.InlineData, error) {
	if previewURL == "" {
		return nil, domain.ErrNoResource
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, previewURL, nil)
	if err != nil {
		return nil, fmt.Errorf("stock: build fetch: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stock: fetch preview: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("stock: preview returned status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxInlineBytes))
	if err != nil {
		return nil, fmt.Errorf("stock: read preview: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("stock: preview body was empty")
	}
	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" || strings.HasPrefix(mimeType, "application/octet-stream") {
		mimeType = http.DetectContentType(data)
	}
	return &domain.InlineData{MIMEType: mimeType, Data: data}, nil
}
