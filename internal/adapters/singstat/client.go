// Package singstat fetches monthly live-birth counts from the SingStat
// Table Builder API (table M810051).
package singstat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okian/nric/internal/config"
	"github.com/okian/nric/internal/domain/resolver"
	"github.com/okian/nric/pkg/logger"
	"github.com/okian/nric/pkg/metrics"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 16 << 20
	errorBodyBytes = 512
)

// Column is one cell of the table: key names the period, value holds the count.
type Column struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

type tableResponse struct {
	Data *struct {
		Row []struct {
			Columns []Column `json:"columns"`
		} `json:"row"`
	} `json:"Data"`
}

// Client implements resolver.BirthCounter over HTTP.
type Client struct {
	url       string
	referer   string
	userAgent string
	timeout   time.Duration
	http      *http.Client
	logger    logger.Logger
}

var _ resolver.BirthCounter = (*Client)(nil)

// New creates a Client for the public M810051 table.
func New(opts ...Option) *Client {
	c := &Client{
		url:       config.DefaultStatsURL,
		referer:   config.DefaultStatsReferer,
		userAgent: config.DefaultStatsUserAgent,
		timeout:   defaultTimeout,
		http:      http.DefaultClient,
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MonthlyBirths returns the counts of every column whose key contains year,
// in the order the table lists them.
func (c *Client) MonthlyBirths(ctx context.Context, year string) ([]int, error) {
	start := time.Now()
	columns, err := c.columns(ctx)
	metrics.RecordStatisticsFetchLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		c.logger.Warn(ctx, "birth statistics fetch failed", logger.String("url", c.url), logger.Error(err))
		return nil, err
	}

	var counts []int
	for _, col := range columns {
		if !strings.Contains(col.Key, year) {
			continue
		}
		n, err := parseCount(col.Value)
		if err != nil {
			metrics.RecordStatisticsFetchError("decode")
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformedResponse, col.Key, err)
		}
		counts = append(counts, n)
	}
	if len(counts) == 0 {
		metrics.RecordStatisticsFetchError("year")
		return nil, fmt.Errorf("%w: %s", ErrYearNotFound, year)
	}

	c.logger.Debug(ctx, "fetched birth statistics",
		logger.String("year", year),
		logger.Int("months", len(counts)),
	)
	return counts, nil
}

// columns fetches the table and returns the first row's columns.
func (c *Client) columns(ctx context.Context) ([]Column, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build statistics request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Referer", c.referer)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordStatisticsFetchError("transport")
		return nil, fmt.Errorf("get %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		metrics.RecordStatisticsFetchError("status")
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyBytes))
		return nil, fmt.Errorf("%w: %s: %s", ErrUnexpectedStatus, resp.Status, bytes.TrimSpace(snippet))
	}

	var body tableResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		metrics.RecordStatisticsFetchError("decode")
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if body.Data == nil || len(body.Data.Row) == 0 || body.Data.Row[0].Columns == nil {
		metrics.RecordStatisticsFetchError("decode")
		return nil, fmt.Errorf("%w: missing Data.row[0].columns", ErrMalformedResponse)
	}
	return body.Data.Row[0].Columns, nil
}

// parseCount accepts the value either as a JSON string or a bare number.
func parseCount(raw json.RawMessage) (int, error) {
	text := string(bytes.TrimSpace(raw))
	if strings.HasPrefix(text, `"`) {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, err
		}
	}
	return strconv.Atoi(strings.TrimSpace(text))
}
