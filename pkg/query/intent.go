package query

import (
	"regexp"
	"strings"
)

// Intent is the structured reading of a question: an optional company
// ticker and a bag of search terms for the social sources.
type Intent struct {
	Ticker      string
	SearchTerms string
}

const maxSearchTerms = 5

// Question words carry no search signal and are stripped from terms.
var stopWords = map[string]bool{
	"what": true, "are": true, "the": true, "is": true, "how": true,
	"does": true, "do": true, "can": true, "will": true, "would": true,
	"should": true,
}

// tickerAliases maps company names and symbols to canonical tickers.
// Checked in order so the first match wins deterministically.
var tickerAliases = []struct {
	ticker  string
	aliases []string
}{
	{"AAPL", []string{"aapl", "apple"}},
	{"MSFT", []string{"msft", "microsoft"}},
	{"GOOGL", []string{"googl", "goog", "google", "alphabet"}},
	{"AMZN", []string{"amzn", "amazon"}},
	{"TSLA", []string{"tsla", "tesla"}},
	{"META", []string{"meta", "facebook"}},
	{"NVDA", []string{"nvda", "nvidia"}},
	{"NFLX", []string{"nflx", "netflix"}},
	{"CRM", []string{"crm", "salesforce"}},
	{"ORCL", []string{"orcl", "oracle"}},
}

var wordPattern = regexp.MustCompile(`\b\w+\b`)

// ExtractIntent reads the ticker and search terms out of a question.
func ExtractIntent(question string) Intent {
	return Intent{
		Ticker:      ExtractTicker(question),
		SearchTerms: ExtractSearchTerms(question),
	}
}

// ExtractTicker returns the canonical ticker for the first known company
// alias found in the question, or "" when none matches. Matching is
// case-insensitive and whole-word.
func ExtractTicker(question string) string {
	words := wordPattern.FindAllString(strings.ToLower(question), -1)
	present := make(map[string]bool, len(words))
	for _, w := range words {
		present[w] = true
	}

	for _, entry := range tickerAliases {
		for _, alias := range entry.aliases {
			if present[alias] {
				return entry.ticker
			}
		}
	}
	return ""
}

// ExtractSearchTerms strips stop words and short tokens, keeps the first
// five remaining tokens in their original order, and joins them with
// spaces.
func ExtractSearchTerms(question string) string {
	words := wordPattern.FindAllString(strings.ToLower(question), -1)

	var relevant []string
	for _, w := range words {
		if stopWords[w] || len(w) <= 2 {
			continue
		}
		relevant = append(relevant, w)
		if len(relevant) == maxSearchTerms {
			break
		}
	}
	return strings.Join(relevant, " ")
}
