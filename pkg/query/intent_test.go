package query

import (
	"testing"
)

func TestExtractTicker(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     string
	}{
		{
			name:     "company name",
			question: "What are Apple's latest climate risks?",
			want:     "AAPL",
		},
		{
			name:     "raw symbol",
			question: "How did TSLA guidance change this quarter?",
			want:     "TSLA",
		},
		{
			name:     "alias maps to canonical ticker",
			question: "Is Facebook still investing in hardware?",
			want:     "META",
		},
		{
			name:     "alphabet alias",
			question: "What does alphabet disclose about supply chain?",
			want:     "GOOGL",
		},
		{
			name:     "case insensitive",
			question: "NVIDIA earnings sentiment",
			want:     "NVDA",
		},
		{
			name:     "no ticker",
			question: "What are the biggest ESG trends this year?",
			want:     "",
		},
		{
			name:     "substring is not a match",
			question: "The pineapple industry is growing",
			want:     "",
		},
		{
			name:     "first alias in priority order wins",
			question: "Compare Apple and Microsoft cash flow",
			want:     "AAPL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractTicker(tt.question)
			if got != tt.want {
				t.Errorf("ExtractTicker(%q) = %q, want %q", tt.question, got, tt.want)
			}
		})
	}
}

func TestExtractSearchTerms(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     string
	}{
		{
			name:     "stop words and short tokens removed",
			question: "What are the climate risks in AI?",
			want:     "climate risks",
		},
		{
			name:     "caps at five terms",
			question: "climate supply governance litigation revenue margin guidance",
			want:     "climate supply governance litigation revenue",
		},
		{
			name:     "preserves original order",
			question: "How does Tesla handle battery recycling programs?",
			want:     "tesla handle battery recycling programs",
		},
		{
			name:     "all stop words",
			question: "What is the how?",
			want:     "",
		},
		{
			name:     "lowercases terms",
			question: "Apple CLIMATE Risk",
			want:     "apple climate risk",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractSearchTerms(tt.question)
			if got != tt.want {
				t.Errorf("ExtractSearchTerms(%q) = %q, want %q", tt.question, got, tt.want)
			}
		})
	}
}

func TestExtractIntent(t *testing.T) {
	intent := ExtractIntent("What are Apple's biggest climate risks?")
	if intent.Ticker != "AAPL" {
		t.Errorf("Ticker = %q, want AAPL", intent.Ticker)
	}
	if intent.SearchTerms != "apple biggest climate risks" {
		t.Errorf("SearchTerms = %q", intent.SearchTerms)
	}
}
