package synthesis

import (
	"strings"
	"testing"

	"github.com/kevinvandever/secureask/internal/pkg/logger"
	"github.com/kevinvandever/secureask/pkg/relevance"
	"github.com/kevinvandever/secureask/pkg/source"
)

func newTestSynthesizer() *Synthesizer {
	return NewSynthesizer(relevance.NewExtractor(), DefaultPolicy(), logger.NewNop())
}

func secRecords(n int) []source.Record {
	records := make([]source.Record, n)
	for i := range records {
		records[i] = source.Record{
			Title:      "10-K Filing",
			Content:    "The company faces climate risk and supply chain exposure",
			URL:        "https://www.sec.gov/filing",
			FilingType: "10-K",
			CIK:        "0000320193",
		}
	}
	return records
}

func TestSynthesizeGraphPathOrder(t *testing.T) {
	bySource := map[source.Kind][]source.Record{
		source.KindTikTok: {{URL: "https://tiktok.com/v/1", Content: "clip", Views: 60000}},
		source.KindSEC:    secRecords(1),
		source.KindReddit: {{URL: "https://reddit.com/p/1", Content: "post", Score: 150}},
	}

	out := newTestSynthesizer().Synthesize("Apple climate risk", bySource, true)

	want := []string{"query_analysis", "sec_filings", "reddit_discussions", "tiktok_content", "synthesis"}
	if len(out.GraphPath) != len(want) {
		t.Fatalf("graph path %v, want %v", out.GraphPath, want)
	}
	for i, stage := range want {
		if out.GraphPath[i] != stage {
			t.Errorf("graph path[%d] = %q, want %q", i, out.GraphPath[i], stage)
		}
	}
}

func TestSynthesizeCitationCapsAndConfidence(t *testing.T) {
	bySource := map[source.Kind][]source.Record{
		source.KindSEC: secRecords(5),
		source.KindTikTok: {
			{URL: "https://tiktok.com/v/1", Content: "clip one", Views: 1000},
			{URL: "https://tiktok.com/v/2", Content: "clip two", Views: 2000},
		},
	}

	out := newTestSynthesizer().Synthesize("climate risk", bySource, false)

	counts := map[source.Kind]int{}
	for _, c := range out.Citations {
		counts[c.Source]++
		switch c.Source {
		case source.KindSEC:
			if c.Confidence != 0.95 {
				t.Errorf("sec confidence = %v, want 0.95", c.Confidence)
			}
		case source.KindTikTok:
			if c.Confidence != 0.65 {
				t.Errorf("tiktok confidence = %v, want 0.65", c.Confidence)
			}
		}
	}
	if counts[source.KindSEC] != 2 {
		t.Errorf("sec citations = %d, want 2", counts[source.KindSEC])
	}
	if counts[source.KindTikTok] != 1 {
		t.Errorf("tiktok citations = %d, want 1", counts[source.KindTikTok])
	}
}

func TestSynthesizeNoDataDisclaimer(t *testing.T) {
	out := newTestSynthesizer().Synthesize("anything", map[source.Kind][]source.Record{}, true)

	if !strings.Contains(out.Answer, "sufficient information") {
		t.Errorf("answer %q is not the disclaimer", out.Answer)
	}
	if len(out.Citations) != 0 {
		t.Errorf("citations = %d, want 0", len(out.Citations))
	}
	if len(out.GraphPath) != 2 {
		t.Errorf("graph path %v, want analysis and synthesis only", out.GraphPath)
	}
}

func TestSynthesizeAnswerSuppressed(t *testing.T) {
	out := newTestSynthesizer().Synthesize("climate", map[source.Kind][]source.Record{
		source.KindSEC: secRecords(1),
	}, false)

	if out.Answer != "" {
		t.Errorf("answer = %q, want empty when not requested", out.Answer)
	}
	if len(out.Citations) == 0 {
		t.Error("citations missing despite records")
	}
}

func TestSynthesizeSECNodeIDUsesCIK(t *testing.T) {
	out := newTestSynthesizer().Synthesize("climate", map[source.Kind][]source.Record{
		source.KindSEC: secRecords(1),
	}, false)

	if out.Citations[0].NodeID != "sec_0000320193" {
		t.Errorf("node id = %q, want sec_0000320193", out.Citations[0].NodeID)
	}
}

func TestFilingThemesDeduplicates(t *testing.T) {
	records := []source.Record{
		{Content: "climate risk factors"},
		{Content: "more climate risk text"},
		{Content: "supply chain disruption"},
	}

	got := DefaultPolicy().FilingThemes(records)
	if strings.Count(got, "regulatory and climate risks") != 1 {
		t.Errorf("themes duplicated: %q", got)
	}
	if !strings.Contains(got, "supply chain considerations") {
		t.Errorf("missing supply chain theme: %q", got)
	}
}

func TestDiscussionSentimentBuckets(t *testing.T) {
	tests := []struct {
		name   string
		scores []int
		want   string
	}{
		{"positive", []int{150, 200}, "generally positive sentiment"},
		{"mixed", []int{10, 20}, "mixed sentiment"},
		{"moderate", []int{60, 80}, "moderate engagement"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts := make([]source.Record, len(tt.scores))
			for i, s := range tt.scores {
				posts[i] = source.Record{Score: s}
			}
			got := DefaultPolicy().DiscussionSentiment(posts)
			if !strings.HasPrefix(got, tt.want) {
				t.Errorf("got %q, want prefix %q", got, tt.want)
			}
		})
	}
}

func TestVideoEngagementBuckets(t *testing.T) {
	tests := []struct {
		name  string
		views []int
		want  string
	}{
		{"high", []int{100000}, "high engagement"},
		{"moderate", []int{20000}, "moderate engagement"},
		{"limited", []int{500}, "limited engagement"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clips := make([]source.Record, len(tt.views))
			for i, v := range tt.views {
				clips[i] = source.Record{Views: v}
			}
			got := DefaultPolicy().VideoEngagement(clips)
			if !strings.HasPrefix(got, tt.want) {
				t.Errorf("got %q, want prefix %q", got, tt.want)
			}
		})
	}
}
