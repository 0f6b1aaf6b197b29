package synthesis

import (
	"crypto/md5"
	"fmt"

	"github.com/kevinvandever/secureask/internal/pkg/logger"
	"github.com/kevinvandever/secureask/pkg/relevance"
	"github.com/kevinvandever/secureask/pkg/source"
)

// Stage labels that make up the graph path. The path is a trace of which
// processing stages contributed to the answer, not a graph-traversal result.
const (
	StageQueryAnalysis = "query_analysis"
	StageSEC           = "sec_filings"
	StageReddit        = "reddit_discussions"
	StageTikTok        = "tiktok_content"
	StageSynthesis     = "synthesis"
)

// noDataDisclaimer is returned as the answer when the caller asked for one
// but no source contributed any records.
const noDataDisclaimer = "I wasn't able to find sufficient information to provide a comprehensive answer to your question. This could be due to API limitations or the specific nature of your query."

// Citation points a claim back at a source record.
type Citation struct {
	NodeID     string      `json:"node_id"`
	Source     source.Kind `json:"source"`
	URL        string      `json:"url"`
	Snippet    string      `json:"snippet"`
	Confidence float64     `json:"confidence"`
}

// Outcome is the synthesizer's product: an optional answer, ordered
// citations, and the stage trace.
type Outcome struct {
	Answer    string     `json:"answer,omitempty"`
	Citations []Citation `json:"citations"`
	GraphPath []string   `json:"graph_path"`
}

// Per-source citation settings. Higher-trust sources get more citation
// slots, a longer snippet budget, and a higher fixed confidence prior.
type sourceProfile struct {
	stage        string
	maxCitations int
	snippetLen   int
	confidence   float64
}

var profiles = map[source.Kind]sourceProfile{
	source.KindSEC:    {stage: StageSEC, maxCitations: 2, snippetLen: 220, confidence: 0.95},
	source.KindReddit: {stage: StageReddit, maxCitations: 2, snippetLen: 200, confidence: 0.78},
	source.KindTikTok: {stage: StageTikTok, maxCitations: 1, snippetLen: 160, confidence: 0.65},
}

// Synthesizer converts per-source records into citations, an optional
// answer string, and a reasoning-path trace.
type Synthesizer struct {
	extractor *relevance.Extractor
	policy    Policy
	logger    logger.ILogger
}

func NewSynthesizer(extractor *relevance.Extractor, policy Policy, log logger.ILogger) *Synthesizer {
	return &Synthesizer{
		extractor: extractor,
		policy:    policy,
		logger:    log,
	}
}

// Synthesize builds the outcome from whatever the fan-in collected. Sources
// are always processed in fixed priority order (sec, reddit, tiktok)
// regardless of fetch completion order.
func (s *Synthesizer) Synthesize(question string, bySource map[source.Kind][]source.Record, includeAnswer bool) Outcome {
	s.logger.Info("synthesis", "Running synthesis", map[string]interface{}{
		"source_count": len(bySource),
	})

	graphPath := []string{StageQueryAnalysis}
	var citations []Citation
	var answerParts []string

	for _, kind := range source.All() {
		records := bySource[kind]
		if len(records) == 0 {
			continue
		}
		profile := profiles[kind]
		graphPath = append(graphPath, profile.stage)
		citations = append(citations, s.cite(question, kind, records, profile)...)
		answerParts = append(answerParts, s.summarize(kind, records))
	}
	graphPath = append(graphPath, StageSynthesis)

	outcome := Outcome{
		Citations: citations,
		GraphPath: graphPath,
	}
	if citations == nil {
		outcome.Citations = []Citation{}
	}

	// Answer generation stays a deliberate non-goal: callers that want real
	// prose synthesis opt out here and run their own model downstream.
	if includeAnswer {
		outcome.Answer = joinAnswer(answerParts)
	}

	return outcome
}

func (s *Synthesizer) cite(question string, kind source.Kind, records []source.Record, profile sourceProfile) []Citation {
	n := profile.maxCitations
	if len(records) < n {
		n = len(records)
	}

	citations := make([]Citation, 0, n)
	for _, rec := range records[:n] {
		citations = append(citations, Citation{
			NodeID:     NodeID(kind, rec),
			Source:     kind,
			URL:        rec.URL,
			Snippet:    s.extractor.ExtractSnippet(rec.Content, question, profile.snippetLen),
			Confidence: profile.confidence,
		})
	}
	return citations
}

func (s *Synthesizer) summarize(kind source.Kind, records []source.Record) string {
	switch kind {
	case source.KindSEC:
		return "According to recent SEC filings, " + s.policy.FilingThemes(records)
	case source.KindReddit:
		return "Social media discussions on Reddit reveal " + s.policy.DiscussionSentiment(records)
	case source.KindTikTok:
		return "TikTok content analysis shows " + s.policy.VideoEngagement(records)
	}
	return ""
}

// NodeID derives the stable graph node id for a record. The graph ingest
// worker and the citation builder must agree on these ids.
func NodeID(kind source.Kind, rec source.Record) string {
	if kind == source.KindSEC && rec.CIK != "" {
		return "sec_" + rec.CIK
	}
	return fmt.Sprintf("%s_%x", kind, md5.Sum([]byte(rec.URL)))
}

func joinAnswer(parts []string) string {
	if len(parts) == 0 {
		return noDataDisclaimer
	}
	answer := parts[0]
	for _, p := range parts[1:] {
		answer += " " + p
	}
	return answer
}
