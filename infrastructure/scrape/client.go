package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	pkgerrors "skillmap-backend/pkg/errors"
)

// Client fetches extracted page content from a scraping backend's JSON API.
// Failures are returned verbatim; the fetch dispatcher classifies them, so
// provider error messages must survive untouched in the error chain.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a scrape client
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type scrapeRequest struct {
	URL     string   `json:"url"`
	Formats []string `json:"formats"`
}

type scrapeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Data    struct {
		Markdown string `json:"markdown"`
	} `json:"data"`
}

// FetchPage retrieves the markdown rendition of a single URL
func (c *Client) FetchPage(ctx context.Context, pageURL string) (string, error) {
	payload, err := json.Marshal(scrapeRequest{URL: pageURL, Formats: []string{"markdown"}})
	if err != nil {
		return "", pkgerrors.Wrap(err, "failed to encode scrape request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/scrape", bytes.NewReader(payload))
	if err != nil {
		return "", pkgerrors.Wrap(err, "failed to build scrape request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("scrape request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read scrape response: %w", err)
	}

	var parsed scrapeResponse
	if jsonErr := json.Unmarshal(body, &parsed); jsonErr != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("scrape backend returned status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("malformed scrape response: %w", jsonErr)
	}

	// The provider reports limit violations through the error field with a
	// non-2xx status. Surface its message verbatim for classification.
	if resp.StatusCode != http.StatusOK || !parsed.Success {
		detail := parsed.Error
		if detail == "" {
			detail = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("scrape failed for %s: %s", pageURL, detail)
	}

	c.logger.Debug("page fetched",
		zap.String("url", pageURL),
		zap.Int("length", len(parsed.Data.Markdown)),
	)
	return parsed.Data.Markdown, nil
}
