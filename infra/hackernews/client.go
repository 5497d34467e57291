package hackernews

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/CrestNiraj12/hnterm/domain"
	"github.com/CrestNiraj12/hnterm/infra/metrics"
)

// DefaultBaseURL is the public Firebase endpoint of the Hacker News API.
const DefaultBaseURL = "https://hacker-news.firebaseio.com/v0"

// Client is a thin HTTP wrapper for the Hacker News API.
// It handles URL construction and maps failures onto domain errors.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  *slog.Logger
	metrics *metrics.Recorder
}

// ClientOptions tunes a Client. The zero value is usable.
type ClientOptions struct {
	HTTPClient *http.Client
	// Timeout bounds each request. Zero means no per-request limit.
	Timeout time.Duration
	Logger  *slog.Logger
	Metrics *metrics.Recorder
}

// NewClient creates an API client rooted at baseURL.
func NewClient(baseURL string, opts ClientOptions) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		timeout: opts.Timeout,
		logger:  logger,
		metrics: opts.Metrics,
	}
}

// GetJSON fetches {base}/{endpoint}.json and decodes it into out.
// It reports whether the body was JSON null, leaving out untouched.
//
// Non-2xx statuses and transport or decoding failures return *domain.APIError.
// A cancelled or expired ctx returns *domain.AbortedError.
func (c *Client) GetJSON(ctx context.Context, endpoint string, out any) (absent bool, err error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	started := time.Now()
	status := 0
	defer func() {
		c.observe(endpoint, status, absent, err, time.Since(started))
	}()

	url := c.baseURL + "/" + endpoint + ".json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, &domain.APIError{Endpoint: endpoint, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, classify(ctx, endpoint, err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return false, &domain.APIError{Endpoint: endpoint, Status: resp.StatusCode}
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return false, classify(ctx, endpoint, fmt.Errorf("decoding response: %w", err))
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return true, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, &domain.APIError{Endpoint: endpoint, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return false, nil
}

func classify(ctx context.Context, endpoint string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &domain.AbortedError{Endpoint: endpoint, Err: ctxErr}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &domain.AbortedError{Endpoint: endpoint, Err: err}
	}
	return &domain.APIError{Endpoint: endpoint, Err: err}
}

func (c *Client) observe(endpoint string, status int, absent bool, err error, d time.Duration) {
	kind := metrics.KindStoryIDs
	if strings.HasPrefix(endpoint, "item/") {
		kind = metrics.KindItem
	}

	outcome := metrics.OutcomeOK
	switch {
	case domain.IsAborted(err):
		outcome = metrics.OutcomeAborted
	case err != nil:
		outcome = metrics.OutcomeError
	case absent:
		outcome = metrics.OutcomeAbsent
	}
	c.metrics.ObserveRequest(kind, outcome, d)

	attrs := []any{
		slog.String("endpoint", endpoint),
		slog.Int("status", status),
		slog.Duration("duration", d),
	}
	switch outcome {
	case metrics.OutcomeError:
		c.logger.Warn("hacker news request failed", append(attrs, slog.String("error", err.Error()))...)
	case metrics.OutcomeAborted:
		c.logger.Debug("hacker news request aborted", attrs...)
	default:
		c.logger.Debug("hacker news request", attrs...)
	}
}

// hnItem is the subset of the item resource we care about.
type hnItem struct {
	ID          int    `json:"id"`
	Type        string `json:"type"`
	By          string `json:"by"`
	Time        int64  `json:"time"`
	Text        string `json:"text"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Score       int    `json:"score"`
	Descendants int    `json:"descendants"`
	Parent      int    `json:"parent"`
	Kids        []int  `json:"kids"`
	Deleted     bool   `json:"deleted"`
	Dead        bool   `json:"dead"`
}

// itemFetcher resolves raw items. A nil item with a nil error means absent.
type itemFetcher interface {
	fetchItem(ctx context.Context, id int) (*hnItem, error)
}

func itemEndpoint(id int) string {
	return fmt.Sprintf("item/%d", id)
}

func (c *Client) fetchItem(ctx context.Context, id int) (*hnItem, error) {
	var item hnItem
	absent, err := c.GetJSON(ctx, itemEndpoint(id), &item)
	if err != nil {
		return nil, err
	}
	if absent {
		return nil, nil
	}
	return &item, nil
}

func (c *Client) fetchIDs(ctx context.Context, endpoint string) ([]int, error) {
	var ids []int
	if _, err := c.GetJSON(ctx, endpoint, &ids); err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []int{}
	}
	return ids, nil
}

func toStory(it *hnItem) *domain.Story {
	if it == nil || it.Type != "story" {
		return nil
	}
	return &domain.Story{
		ID:          it.ID,
		By:          it.By,
		Title:       it.Title,
		URL:         it.URL,
		Score:       it.Score,
		Descendants: it.Descendants,
		Time:        it.Time,
		Domain:      domain.ExtractDomain(it.URL),
		Kids:        it.Kids,
		Text:        it.Text,
	}
}

func toComment(it *hnItem) *domain.Comment {
	if it == nil || it.Type != "comment" {
		return nil
	}
	return &domain.Comment{
		ID:      it.ID,
		By:      it.By,
		Text:    it.Text,
		Time:    it.Time,
		Parent:  it.Parent,
		Kids:    it.Kids,
		Deleted: it.Deleted,
		Dead:    it.Dead,
	}
}
