package reddit

import (
	"fmt"
	"strings"
	"time"

	"github.com/kevinvandever/secureask/pkg/source"
)

// fallbackPosts is the deterministic payload served when every live search
// method failed or returned nothing.
func fallbackPosts(term string) []source.Record {
	slug := strings.ToLower(strings.ReplaceAll(term, " ", "-"))
	now := time.Now().UTC()

	return []source.Record{
		{
			Title: fmt.Sprintf("Discussion: %s latest developments", term),
			Content: fmt.Sprintf("Retail investors are actively discussing %s. Key points include: regulatory compliance costs, "+
				"supply chain transparency requirements, and investor expectations for ESG reporting. Some users highlight "+
				"potential competitive advantages from early adoption of sustainable practices.", term),
			URL:         fmt.Sprintf("https://reddit.com/r/investing/posts/12345-%s", slug),
			Subreddit:   "investing",
			Score:       147,
			NumComments: 42,
			CreatedAt:   now,
			Fallback:    true,
		},
		{
			Title: fmt.Sprintf("%s ESG analysis - worth the investment?", term),
			Content: fmt.Sprintf("Mixed opinions on %s ESG initiatives. Bulls argue that sustainability investments drive long-term "+
				"value and reduce regulatory risk. Bears worry about near-term costs and implementation challenges. Most agree "+
				"that transparent reporting is crucial for investor confidence.", term),
			URL:         fmt.Sprintf("https://reddit.com/r/SecurityAnalysis/posts/67890-%s-esg", slug),
			Subreddit:   "SecurityAnalysis",
			Score:       89,
			NumComments: 28,
			CreatedAt:   now,
			Fallback:    true,
		},
		{
			Title: fmt.Sprintf("Risk assessment: %s climate exposure", term),
			Content: fmt.Sprintf("Analysis of %s climate-related risks and opportunities. Physical risks include supply chain "+
				"disruption from extreme weather. Transition risks include carbon pricing and changing consumer preferences. "+
				"Opportunities include market leadership in clean technology.", term),
			URL:         fmt.Sprintf("https://reddit.com/r/stocks/posts/24680-%s-climate", slug),
			Subreddit:   "stocks",
			Score:       203,
			NumComments: 67,
			CreatedAt:   now,
			Fallback:    true,
		},
		{
			Title: fmt.Sprintf("Institutional perspective on %s sustainability", term),
			Content: fmt.Sprintf("Large institutional investors are increasingly focused on %s ESG metrics. BlackRock and Vanguard "+
				"have raised questions about long-term sustainability strategies. Proxy voting trends show growing support for "+
				"climate-related shareholder proposals.", term),
			URL:         fmt.Sprintf("https://reddit.com/r/ValueInvesting/posts/13579-%s-institutional", slug),
			Subreddit:   "ValueInvesting",
			Score:       156,
			NumComments: 38,
			CreatedAt:   now,
			Fallback:    true,
		},
		{
			Title: fmt.Sprintf("%s quarterly earnings call - ESG highlights", term),
			Content: fmt.Sprintf("Recent earnings call included significant discussion of %s ESG initiatives and climate commitments. "+
				"Management emphasized progress on renewable energy goals and supply chain sustainability. Analysts asked pointed "+
				"questions about carbon accounting and disclosure standards.", term),
			URL:         fmt.Sprintf("https://reddit.com/r/financialindependence/posts/97531-%s-earnings", slug),
			Subreddit:   "financialindependence",
			Score:       94,
			NumComments: 23,
			CreatedAt:   now,
			Fallback:    true,
		},
	}
}
