package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	pkgerrors "skillmap-backend/pkg/errors"
)

// Client discovers candidate source URLs for a topic via a web search
// provider's JSON API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a search client
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type searchResponse struct {
	Web struct {
		Results []struct {
			URL   string `json:"url"`
			Title string `json:"title"`
		} `json:"results"`
	} `json:"web"`
}

// DiscoverURLs queries the provider and returns up to limit result URLs.
// Zero results is a normal outcome, not an error.
func (c *Client) DiscoverURLs(ctx context.Context, topic string, limit int) ([]string, error) {
	endpoint := fmt.Sprintf("%s/res/v1/web/search?q=%s&count=%d",
		c.baseURL, url.QueryEscape(topic), limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to build search request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.NewExternalError("search", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.NewExternalError("search", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.NewExternalError("search",
			fmt.Errorf("status %d: %s", resp.StatusCode, truncate(body, 200)))
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, pkgerrors.NewExternalError("search", err)
	}

	urls := make([]string, 0, limit)
	for _, result := range parsed.Web.Results {
		if result.URL == "" {
			continue
		}
		urls = append(urls, result.URL)
		if len(urls) >= limit {
			break
		}
	}

	c.logger.Debug("search completed",
		zap.String("topic", topic),
		zap.Int("results", len(urls)),
	)
	return urls, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
