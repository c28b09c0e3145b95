package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// productFeedPath is the fixed sub-resource serving the product report.
const productFeedPath = "/SmartReportDataClass_mtpWebshopProducts"

const fetchTimeout = 30 * time.Second

// Client fetches the vendor product feed over authenticated HTTPS.
type Client struct {
	serviceURL string
	username   string
	password   string
	userAgent  string
	httpClient *http.Client
}

func NewClient(serviceURL, username, password, userAgent string) *Client {
	return &Client{
		serviceURL: strings.TrimRight(serviceURL, "/"),
		username:   username,
		password:   password,
		userAgent:  userAgent,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				MaxIdleConnsPerHost: 5,
			},
		},
	}
}

// FetchProductFeed performs one authenticated GET against the product
// report and returns the parsed document. Timeouts, transport errors,
// non-200 responses, and parse failures are all errors: an absent feed
// must never be mistaken for an empty one.
func (c *Client) FetchProductFeed(ctx context.Context) (*Document, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	url := c.serviceURL + productFeedPath
	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/xml")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return Parse(data)
}
