// Package remote implements the catalog fetch delegate over the
// network's HTTP claim-search API. The engine itself never depends on
// this package; it only sees the domain.CatalogFetcher interface.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lumetv/lume/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Lume/1.0"
)

// Client talks to a claim-search compatible catalog endpoint and
// implements domain.CatalogFetcher.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a catalog client for the given base URL.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// FetchCollection implements domain.CatalogFetcher.
func (c *Client) FetchCollection(ctx context.Context, q domain.CollectionQuery) ([]domain.ContentItem, error) {
	params := url.Values{}
	if len(q.Tags) > 0 {
		params.Set("any_tags", strings.Join(q.Tags, ","))
	}
	if strings.TrimSpace(q.Text) != "" {
		params.Set("text", strings.TrimSpace(q.Text))
	}
	params.Set("page", strconv.Itoa(q.EffectivePage()))
	params.Set("page_size", strconv.Itoa(q.EffectiveLimit()))

	body, err := c.doRequest(ctx, "/api/v1/claim_search", params)
	if err != nil {
		return nil, err
	}

	var resp claimSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}

	items := MapClaims(resp.Items)
	c.logger.Debug("claim search", "tags", q.Tags, "page", q.EffectivePage(), "count", len(items))
	return items, nil
}

// doRequest performs a GET against the catalog, mapping transport
// failures to the domain's sentinel errors so classification downstream
// sees consistent wording.
func (c *Client) doRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return nil, fmt.Errorf("%w: %s", domain.ErrRequestTimeout, path)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogOffline, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogOffline, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("catalog request error", "status", resp.StatusCode, "path", path)
		return nil, fmt.Errorf("%w: status %d", domain.ErrInvalidResponse, resp.StatusCode)
	}

	return body, nil
}
