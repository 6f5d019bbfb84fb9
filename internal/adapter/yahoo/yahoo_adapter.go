package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"forex-data-service/internal/entity"
	"forex-data-service/pkg/config"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	maxRetries int
	chunkDays  int
	logger     *logrus.Logger
}

func NewClient(cfg config.Config, logger *logrus.Logger) *Client {
	timeout := time.Duration(cfg.Provider.TimeoutSeconds) * time.Second
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				ResponseHeaderTimeout: timeout,
			},
		},
		baseURL:    cfg.Provider.BaseURL,
		maxRetries: cfg.Provider.MaxRetries,
		chunkDays:  cfg.Provider.ChunkDays,
		logger:     logger,
	}
}

func symbol(pair entity.Pair) string {
	return pair.Base + pair.Quote + "=X"
}

// FetchHistory scrapes daily quotes for the pair over [from, to]. Long ranges
// are split into chunks so each history page stays within what the source
// renders; a chunk that cannot be fetched after retries fails the whole call.
func (c *Client) FetchHistory(ctx context.Context, pair entity.Pair, from, to time.Time) ([]Quote, error) {
	c.logger.Infof("Fetching history for %s from %s to %s",
		pair, from.Format("2006-01-02"), to.Format("2006-01-02"))

	var quotes []Quote
	chunk := time.Duration(c.chunkDays) * 24 * time.Hour

	start := from
	for !start.After(to) {
		end := start.Add(chunk)
		if end.After(to) {
			end = to
		}

		part, err := c.fetchChunk(ctx, pair, start, end)
		if err != nil {
			return nil, fmt.Errorf("fetch chunk %s..%s: %w",
				start.Format("2006-01-02"), end.Format("2006-01-02"), err)
		}
		quotes = append(quotes, part...)

		start = end.AddDate(0, 0, 1)
	}

	c.logger.Infof("Fetched %d raw quotes for %s", len(quotes), pair)
	return quotes, nil
}

func (c *Client) fetchChunk(ctx context.Context, pair entity.Pair, from, to time.Time) ([]Quote, error) {
	url := fmt.Sprintf("%s/quote/%s/history?period1=%d&period2=%d&interval=1d",
		c.baseURL, symbol(pair), from.Unix(), to.Unix())

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<(attempt-1)) * time.Second
			c.logger.Debugf("Retrying %s in %s (attempt %d/%d)", symbol(pair), backoff, attempt+1, c.maxRetries)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		quotes, err := c.fetchPage(ctx, url, pair)
		if err == nil {
			return quotes, nil
		}
		lastErr = err
		c.logger.Warnf("Fetch attempt %d/%d for %s failed: %v", attempt+1, c.maxRetries, symbol(pair), err)
	}

	return nil, lastErr
}

func (c *Client) fetchPage(ctx context.Context, url string, pair entity.Pair) ([]Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	// The source refuses requests that do not look like a browser
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "identity")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	quotes, err := parseHistory(resp.Body, pair)
	if err != nil {
		return nil, fmt.Errorf("parse history page: %w", err)
	}

	c.logger.Debugf("Parsed %d quotes from %s", len(quotes), url)
	return quotes, nil
}
