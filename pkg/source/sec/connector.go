package sec

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kevinvandever/secureask/internal/pkg/logger"
	"github.com/kevinvandever/secureask/pkg/source"
)

const (
	baseURL   = "https://data.sec.gov"
	userAgent = "SecureAsk/1.0 (research tool)"

	maxFilings = 5
)

// Hardcoded CIKs for major companies. The regulatory fetch only runs when
// the orchestrator extracted one of these tickers from the question.
var tickerToCIK = map[string]string{
	"AAPL":  "0000320193",
	"MSFT":  "0000789019",
	"GOOGL": "0001652044",
	"AMZN":  "0001018724",
	"TSLA":  "0001318605",
	"META":  "0001326801",
	"NVDA":  "0001045810",
}

// Connector fetches regulatory filings from SEC EDGAR. The term is always
// a ticker symbol.
type Connector struct {
	httpClient *http.Client
	logger     logger.ILogger
}

func NewConnector(log logger.ILogger) *Connector {
	return &Connector{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     log,
	}
}

func (c *Connector) Kind() source.Kind {
	return source.KindSEC
}

// Fetch looks up recent filings for the ticker. Any transport failure,
// non-2xx response, or empty result set degrades to the static fallback
// set so the caller never has to distinguish "no data" from "API down".
func (c *Connector) Fetch(ctx context.Context, term string) ([]source.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ticker := strings.ToUpper(strings.TrimSpace(term))
	c.logger.Info("sec_connector", "Fetching SEC filings", map[string]interface{}{"ticker": ticker})

	records, err := c.fetchLive(ctx, ticker)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("sec_connector", "Live lookup failed, serving fallback filings", map[string]interface{}{
			"ticker": ticker,
			"error":  err.Error(),
		})
		return fallbackFilings(ticker), nil
	}
	if len(records) == 0 {
		c.logger.Warn("sec_connector", "Live lookup returned nothing, serving fallback filings", map[string]interface{}{
			"ticker": ticker,
		})
		return fallbackFilings(ticker), nil
	}
	return records, nil
}

// submissionsEnvelope is the slice of the EDGAR submissions payload we read.
type submissionsEnvelope struct {
	CIK     json.Number `json:"cik"`
	Filings struct {
		Recent struct {
			AccessionNumber       []string `json:"accessionNumber"`
			Form                  []string `json:"form"`
			FilingDate            []string `json:"filingDate"`
			PrimaryDocument       []string `json:"primaryDocument"`
			PrimaryDocDescription []string `json:"primaryDocDescription"`
		} `json:"recent"`
	} `json:"filings"`
}

func (c *Connector) fetchLive(ctx context.Context, ticker string) ([]source.Record, error) {
	cik, ok := tickerToCIK[ticker]
	if !ok {
		return nil, fmt.Errorf("no CIK mapping for ticker %s", ticker)
	}

	url := fmt.Sprintf("%s/submissions/CIK%s.json", baseURL, cik)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("EDGAR returned status %d", resp.StatusCode)
	}

	var envelope submissionsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode submissions: %w", err)
	}

	recent := envelope.Filings.Recent
	cikTrimmed := strings.TrimLeft(cik, "0")

	var records []source.Record
	for i := range recent.AccessionNumber {
		if len(records) >= maxFilings {
			break
		}
		form := recent.Form[i]
		if !relevantForm(form) {
			continue
		}

		accession := recent.AccessionNumber[i]
		doc := ""
		if i < len(recent.PrimaryDocument) {
			doc = recent.PrimaryDocument[i]
		}
		content := ""
		if i < len(recent.PrimaryDocDescription) {
			content = recent.PrimaryDocDescription[i]
		}
		if content == "" {
			content = fmt.Sprintf("%s filing %s for %s", form, accession, ticker)
		}

		filedAt, _ := time.Parse("2006-01-02", recent.FilingDate[i])

		records = append(records, source.Record{
			Title:      fmt.Sprintf("%s %s", ticker, form),
			Content:    content,
			URL:        fmt.Sprintf("https://www.sec.gov/Archives/edgar/data/%s/%s/%s", cikTrimmed, strings.ReplaceAll(accession, "-", ""), doc),
			FilingType: form,
			CIK:        cik,
			CreatedAt:  filedAt,
		})
	}

	return records, nil
}

func relevantForm(form string) bool {
	switch form {
	case "10-K", "10-Q", "8-K", "DEF 14A":
		return true
	}
	return false
}
