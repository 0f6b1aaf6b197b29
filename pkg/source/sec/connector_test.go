package sec

import (
	"context"
	"testing"

	"github.com/kevinvandever/secureask/internal/pkg/logger"
)

func TestFetchHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewConnector(logger.NewNop()).Fetch(ctx, "AAPL")
	if err == nil {
		t.Fatal("expected context error, got nil")
	}
}

func TestFallbackFilings(t *testing.T) {
	tests := []struct {
		ticker    string
		wantCount int
	}{
		{"AAPL", 5},
		{"TSLA", 1},
		{"UNKNOWN", 1},
	}

	for _, tt := range tests {
		t.Run(tt.ticker, func(t *testing.T) {
			records := fallbackFilings(tt.ticker)
			if len(records) != tt.wantCount {
				t.Fatalf("fallbackFilings(%s) returned %d records, want %d", tt.ticker, len(records), tt.wantCount)
			}
			for _, rec := range records {
				if !rec.Fallback {
					t.Errorf("record %q not flagged as fallback", rec.Title)
				}
				if rec.FilingType == "" || rec.Content == "" {
					t.Errorf("record %q missing filing type or content", rec.Title)
				}
			}
		})
	}
}

func TestRelevantForms(t *testing.T) {
	for _, form := range []string{"10-K", "10-Q", "8-K", "DEF 14A"} {
		if !relevantForm(form) {
			t.Errorf("form %s not considered relevant", form)
		}
	}
	if relevantForm("S-1") {
		t.Error("form S-1 unexpectedly relevant")
	}
}
