package tiktok

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kevinvandever/secureask/internal/pkg/logger"
	"github.com/kevinvandever/secureask/pkg/source"
)

const (
	defaultBaseURL = "https://api.apify.com/v2"
	actorID        = "clockworks/free-tiktok-scraper"

	maxResults = 10

	// The scraper runs as an asynchronous job: submit, then poll status
	// until it settles or the budget runs out.
	pollAttempts = 30
	pollInterval = 1 * time.Second
)

// Connector fetches short-video content via an Apify scraping actor.
type Connector struct {
	token      string
	baseURL    string
	httpClient *http.Client
	logger     logger.ILogger
}

func NewConnector(apifyToken string, log logger.ILogger) *Connector {
	return &Connector{
		token:      apifyToken,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     log,
	}
}

func (c *Connector) Kind() source.Kind {
	return source.KindTikTok
}

// Fetch submits a scraper run and polls it to completion. No token, a
// failed run, a timed-out run, or an empty dataset all degrade to the
// static fallback clips.
func (c *Connector) Fetch(ctx context.Context, term string) ([]source.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.logger.Info("tiktok_connector", "Searching TikTok", map[string]interface{}{"term": term})

	if c.token == "" {
		c.logger.Warn("tiktok_connector", "No Apify token configured, serving fallback clips", nil)
		return fallbackClips(term), nil
	}

	records, err := c.fetchLive(ctx, term)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("tiktok_connector", "Scraper run failed, serving fallback clips", map[string]interface{}{
			"term":  term,
			"error": err.Error(),
		})
		return fallbackClips(term), nil
	}
	if len(records) == 0 {
		c.logger.Warn("tiktok_connector", "Scraper returned nothing, serving fallback clips", map[string]interface{}{"term": term})
		return fallbackClips(term), nil
	}
	return records, nil
}

func (c *Connector) fetchLive(ctx context.Context, term string) ([]source.Record, error) {
	runID, err := c.submitRun(ctx, term)
	if err != nil {
		return nil, err
	}

	if err := c.awaitRun(ctx, runID); err != nil {
		return nil, err
	}

	return c.fetchResults(ctx, runID)
}

func (c *Connector) submitRun(ctx context.Context, term string) (string, error) {
	input := map[string]interface{}{
		"hashtags":             []string{"#" + strings.ReplaceAll(term, " ", ""), "#investing", "#finance"},
		"resultsPerPage":       maxResults,
		"shouldDownloadVideos": false,
		"shouldDownloadCovers": false,
	}
	body, err := json.Marshal(input)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/acts/%s/runs", c.baseURL, actorID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("failed to start scraper run: status %d", resp.StatusCode)
	}

	var payload struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode run response: %w", err)
	}
	if payload.Data.ID == "" {
		return "", fmt.Errorf("scraper run response carried no id")
	}
	return payload.Data.ID, nil
}

// awaitRun polls run status on a fixed interval up to the attempt budget.
// The loop is cancellable: if the orchestrator times out the fetch, the
// ctx branch wins and polling stops immediately.
func (c *Connector) awaitRun(ctx context.Context, runID string) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for attempt := 0; attempt < pollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		status, err := c.runStatus(ctx, runID)
		if err != nil {
			return err
		}
		switch status {
		case "SUCCEEDED":
			return nil
		case "FAILED", "ABORTED":
			return fmt.Errorf("scraper run ended with status %s", status)
		}
	}
	return fmt.Errorf("scraper run timed out after %d polls", pollAttempts)
}

func (c *Connector) runStatus(ctx context.Context, runID string) (string, error) {
	endpoint := fmt.Sprintf("%s/actor-runs/%s", c.baseURL, runID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status check returned %d", resp.StatusCode)
	}

	var payload struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	return payload.Data.Status, nil
}

type datasetItem struct {
	Text        string `json:"text"`
	WebVideoURL string `json:"webVideoUrl"`
	AuthorMeta  struct {
		Name string `json:"name"`
	} `json:"authorMeta"`
	PlayCount    int      `json:"playCount"`
	DiggCount    int      `json:"diggCount"`
	CommentCount int      `json:"commentCount"`
	CreateTime   int64    `json:"createTime"`
	Hashtags     []string `json:"hashtags"`
}

func (c *Connector) fetchResults(ctx context.Context, runID string) ([]source.Record, error) {
	endpoint := fmt.Sprintf("%s/actor-runs/%s/dataset/items", c.baseURL, runID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dataset fetch returned %d", resp.StatusCode)
	}

	var items []datasetItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}

	var records []source.Record
	for _, item := range items {
		if len(records) >= maxResults {
			break
		}
		title := clip(item.Text, 100)
		createdAt := time.Now().UTC()
		if item.CreateTime > 0 {
			createdAt = time.Unix(item.CreateTime, 0).UTC()
		}
		records = append(records, source.Record{
			Title:     title,
			Content:   item.Text,
			URL:       item.WebVideoURL,
			Author:    item.AuthorMeta.Name,
			Views:     item.PlayCount,
			Likes:     item.DiggCount,
			Comments:  item.CommentCount,
			Hashtags:  item.Hashtags,
			CreatedAt: createdAt,
		})
	}
	return records, nil
}

// clip bounds a string to n bytes without splitting a multi-byte rune.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
