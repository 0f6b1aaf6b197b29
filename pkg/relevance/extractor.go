package relevance

import (
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	// sentenceDelim splits content into sentence-like units and re-joins
	// the selected ones.
	sentenceDelim = ". "

	ellipsis = "..."

	// noContentPlaceholder is returned for empty input so citations never
	// carry an empty snippet.
	noContentPlaceholder = "No content available"
)

// vocabulary is the fixed set of domain keywords used to score sentences
// against the question. Topical to financial research and ESG coverage.
var vocabulary = []string{
	"esg", "climate", "risk", "carbon", "emission", "supply", "chain",
	"sustainability", "sustainable", "regulatory", "regulation", "compliance",
	"environment", "governance", "social", "renewable", "energy",
	"disclosure", "investment", "investor", "earnings", "revenue",
	"valuation", "sentiment", "labor", "mineral",
}

// Extractor trims source text down to the sentences most relevant to a
// question, bounded by a maximum snippet length.
type Extractor struct {
	vocabulary []string
}

func NewExtractor() *Extractor {
	return &Extractor{vocabulary: vocabulary}
}

type scoredUnit struct {
	text  string
	score int
}

// ExtractSnippet returns the highest-scoring sentences of content with
// respect to question, joined in score order, at most maxLength+ellipsis
// characters long. Content that matches no active keyword degrades to a
// plain prefix of the raw text.
func (e *Extractor) ExtractSnippet(content, question string, maxLength int) string {
	if strings.TrimSpace(content) == "" {
		return noContentPlaceholder
	}

	active := e.activeKeywords(question)
	units := splitUnits(content)

	scored := make([]scoredUnit, 0, len(units))
	for _, u := range units {
		scored = append(scored, scoredUnit{text: u, score: scoreUnit(u, active)})
	}

	// Stable: units with equal scores keep their original order.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if len(scored) == 0 || scored[0].score == 0 {
		return truncate(strings.TrimSpace(content), maxLength)
	}

	var picked []string
	length := 0
	for _, s := range scored {
		if s.score == 0 {
			break
		}
		next := len(s.text)
		if len(picked) > 0 {
			next += len(sentenceDelim)
		}
		if length+next > maxLength {
			break
		}
		picked = append(picked, s.text)
		length += next
	}

	if len(picked) == 0 {
		// Even the best sentence alone is too long for the budget.
		return truncate(scored[0].text, maxLength)
	}

	return truncate(strings.Join(picked, sentenceDelim), maxLength)
}

// activeKeywords returns the vocabulary terms that appear in the question.
func (e *Extractor) activeKeywords(question string) []string {
	q := strings.ToLower(question)
	var active []string
	for _, kw := range e.vocabulary {
		if strings.Contains(q, kw) {
			active = append(active, kw)
		}
	}
	return active
}

func splitUnits(content string) []string {
	parts := strings.Split(content, sentenceDelim)
	units := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			units = append(units, p)
		}
	}
	return units
}

func scoreUnit(unit string, keywords []string) int {
	u := strings.ToLower(unit)
	score := 0
	for _, kw := range keywords {
		if strings.Contains(u, kw) {
			score++
		}
	}
	return score
}

func truncate(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	// Back off to a rune boundary so the cut never splits a multi-byte
	// character.
	cut := maxLength
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + ellipsis
}
