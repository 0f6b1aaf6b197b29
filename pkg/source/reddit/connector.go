package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/singleflight"

	"github.com/kevinvandever/secureask/internal/pkg/logger"
	"github.com/kevinvandever/secureask/pkg/source"
)

const (
	userAgent = "SecureAsk/1.0 (research tool)"

	publicBaseURL = "https://www.reddit.com"
	oauthBaseURL  = "https://oauth.reddit.com"
	tokenURL      = "https://www.reddit.com/api/v1/access_token"

	maxResults      = 10
	maxPerSubreddit = 3
)

// Subreddits searched for financial discussion, in priority order. Only
// the first three are queried to stay under rate limits.
var subreddits = []string{"investing", "stocks", "SecurityAnalysis", "ValueInvesting", "financialindependence"}

// Connector fetches discussion posts from Reddit. With client credentials
// configured it uses the OAuth API; without them it falls back to the
// public JSON search.
type Connector struct {
	clientID     string
	clientSecret string
	httpClient   *http.Client
	logger       logger.ILogger

	// Token cache owned by this connector instance. Refreshes go through
	// the singleflight group so concurrent queries trigger one token
	// request, not one each.
	mu         sync.Mutex
	token      string
	tokenUntil time.Time
	refresh    singleflight.Group
}

func NewConnector(clientID, clientSecret string, log logger.ILogger) *Connector {
	return &Connector{
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		logger:       log,
	}
}

func (c *Connector) Kind() source.Kind {
	return source.KindReddit
}

// Fetch searches the configured subreddits, dedupes by URL, and caps the
// result list. A transport failure or an empty result set yields the
// static fallback posts.
func (c *Connector) Fetch(ctx context.Context, term string) ([]source.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.logger.Info("reddit_connector", "Searching Reddit", map[string]interface{}{"term": term})

	var results []source.Record
	for _, sub := range subreddits[:3] {
		posts, err := c.searchSubreddit(ctx, term, sub)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn("reddit_connector", "Subreddit search failed", map[string]interface{}{
				"subreddit": sub,
				"error":     err.Error(),
			})
			continue
		}
		results = append(results, posts...)
	}

	unique := dedupeByURL(results, maxResults)
	if len(unique) == 0 {
		c.logger.Warn("reddit_connector", "No live results, serving fallback posts", map[string]interface{}{"term": term})
		return fallbackPosts(term), nil
	}

	c.logger.Info("reddit_connector", "Reddit search complete", map[string]interface{}{
		"term":  term,
		"posts": len(unique),
	})
	return unique, nil
}

type listingResponse struct {
	Data struct {
		Children []struct {
			Data struct {
				Title       string  `json:"title"`
				Selftext    string  `json:"selftext"`
				Permalink   string  `json:"permalink"`
				Score       int     `json:"score"`
				NumComments int     `json:"num_comments"`
				CreatedUTC  float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func (c *Connector) searchSubreddit(ctx context.Context, term, subreddit string) ([]source.Record, error) {
	base := publicBaseURL
	token := ""
	if c.hasCredentials() {
		var err error
		token, err = c.accessToken(ctx)
		if err != nil {
			c.logger.Warn("reddit_connector", "OAuth token unavailable, using public API", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			base = oauthBaseURL
		}
	}

	params := url.Values{}
	params.Set("q", term)
	params.Set("sort", "relevance")
	params.Set("limit", "10")
	params.Set("restrict_sr", "1")

	endpoint := fmt.Sprintf("%s/r/%s/search.json?%s", base, subreddit, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit returned status %d for r/%s", resp.StatusCode, subreddit)
	}

	var listing listingResponse
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("failed to decode listing: %w", err)
	}

	var posts []source.Record
	for _, child := range listing.Data.Children {
		if len(posts) >= maxPerSubreddit {
			break
		}
		post := child.Data
		content := post.Selftext
		if content == "" {
			content = post.Title
		}
		content = clip(content, 500)
		posts = append(posts, source.Record{
			Title:       post.Title,
			Content:     content,
			URL:         "https://reddit.com" + post.Permalink,
			Subreddit:   subreddit,
			Score:       post.Score,
			NumComments: post.NumComments,
			CreatedAt:   time.Unix(int64(post.CreatedUTC), 0).UTC(),
		})
	}
	return posts, nil
}

func (c *Connector) hasCredentials() bool {
	return c.clientID != "" && c.clientSecret != ""
}

// accessToken returns a cached client-credentials token, refreshing it
// under a single-flight guard when expired.
func (c *Connector) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.token != "" && time.Now().Before(c.tokenUntil) {
		token := c.token
		c.mu.Unlock()
		return token, nil
	}
	c.mu.Unlock()

	result, err, _ := c.refresh.Do("token", func() (interface{}, error) {
		return c.requestToken(ctx)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (c *Connector) requestToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned empty token")
	}

	// Refresh a minute early so in-flight requests never carry a token
	// that expires mid-call.
	c.mu.Lock()
	c.token = payload.AccessToken
	c.tokenUntil = time.Now().Add(time.Duration(payload.ExpiresIn)*time.Second - time.Minute)
	c.mu.Unlock()

	return payload.AccessToken, nil
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

func dedupeByURL(records []source.Record, limit int) []source.Record {
	seen := make(map[string]bool)
	var unique []source.Record
	for _, rec := range records {
		if seen[rec.URL] || len(unique) >= limit {
			continue
		}
		seen[rec.URL] = true
		unique = append(unique, rec)
	}
	return unique
}
