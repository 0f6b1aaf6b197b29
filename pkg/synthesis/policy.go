package synthesis

import (
	"strings"

	"github.com/kevinvandever/secureask/pkg/source"
)

// Policy turns raw engagement metrics into the qualitative phrases that end
// up in the answer text. It is a named strategy so the thresholds can be
// replaced without touching the synthesizer or the orchestrator.
type Policy interface {
	FilingThemes(filings []source.Record) string
	DiscussionSentiment(posts []source.Record) string
	VideoEngagement(clips []source.Record) string
}

// ThresholdPolicy is the default heuristic scoring policy.
//
// Discussion sentiment buckets on average post score: above PositiveScore
// reads as positive, below MixedScore as mixed, anything between as moderate
// engagement. Video engagement buckets on average view count the same way.
type ThresholdPolicy struct {
	PositiveScore float64
	MixedScore    float64
	HighViews     float64
	ModerateViews float64
}

func DefaultPolicy() ThresholdPolicy {
	return ThresholdPolicy{
		PositiveScore: 100,
		MixedScore:    50,
		HighViews:     50000,
		ModerateViews: 10000,
	}
}

func (p ThresholdPolicy) FilingThemes(filings []source.Record) string {
	if len(filings) == 0 {
		return "no recent regulatory filings were available for analysis."
	}

	seen := make(map[string]bool)
	var themes []string
	add := func(theme string) {
		if !seen[theme] {
			seen[theme] = true
			themes = append(themes, theme)
		}
	}

	for _, f := range filings {
		content := strings.ToLower(f.Content)
		if strings.Contains(content, "risk") || strings.Contains(content, "climate") {
			add("regulatory and climate risks")
		}
		if strings.Contains(content, "supply") || strings.Contains(content, "chain") {
			add("supply chain considerations")
		}
		if strings.Contains(content, "esg") || strings.Contains(content, "environment") {
			add("ESG factors")
		}
	}

	if len(themes) == 0 {
		return "the company has disclosed various business factors in their regulatory filings."
	}
	return "the company has disclosed " + strings.Join(themes, ", ") + " in their regulatory filings."
}

func (p ThresholdPolicy) DiscussionSentiment(posts []source.Record) string {
	if len(posts) == 0 {
		return "limited social media discussion."
	}

	total := 0
	for _, post := range posts {
		total += post.Score
	}
	avg := float64(total) / float64(len(posts))

	var sentiment string
	switch {
	case avg > p.PositiveScore:
		sentiment = "generally positive sentiment"
	case avg < p.MixedScore:
		sentiment = "mixed sentiment"
	default:
		sentiment = "moderate engagement"
	}

	return sentiment + " among retail investors, with discussions focusing on investment strategies and market analysis."
}

func (p ThresholdPolicy) VideoEngagement(clips []source.Record) string {
	if len(clips) == 0 {
		return "limited social media content."
	}

	total := 0
	for _, clip := range clips {
		total += clip.Views
	}
	avg := float64(total) / float64(len(clips))

	var engagement string
	switch {
	case avg > p.HighViews:
		engagement = "high engagement"
	case avg > p.ModerateViews:
		engagement = "moderate engagement"
	default:
		engagement = "limited engagement"
	}

	return engagement + " with financial content creators discussing investment perspectives and market trends."
}
