package tiktok

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kevinvandever/secureask/pkg/source"
)

// fallbackClips is the deterministic payload served when the scraper is
// unavailable, failed, or returned nothing.
func fallbackClips(term string) []source.Record {
	tag := "#" + strings.ToLower(strings.ReplaceAll(term, " ", ""))
	escaped := url.QueryEscape(term)
	now := time.Now().UTC()

	return []source.Record{
		{
			Title: fmt.Sprintf("TikTok Financial Analysis: %s", term),
			Content: fmt.Sprintf("TikTok creators are discussing %s with mixed opinions. Some highlight growth potential "+
				"while others warn about risks. Popular hashtags include #investing and #finance.", term),
			URL:       fmt.Sprintf("https://www.tiktok.com/search?q=%s", escaped),
			Author:    "FinanceInfluencer",
			Views:     125000,
			Likes:     8900,
			Comments:  234,
			Hashtags:  []string{"#finance", "#investing", tag},
			CreatedAt: now,
			Fallback:  true,
		},
		{
			Title: fmt.Sprintf("%s Investment Strategy on TikTok", term),
			Content: fmt.Sprintf("Social media sentiment around %s shows retail investors are actively discussing the stock. "+
				"Key concerns include valuation and market conditions.", term),
			URL:       fmt.Sprintf("https://www.tiktok.com/search?q=%s%%20stock", escaped),
			Author:    "StockAnalyst",
			Views:     89000,
			Likes:     5600,
			Comments:  189,
			Hashtags:  []string{"#stocks", "#analysis", tag},
			CreatedAt: now,
			Fallback:  true,
		},
	}
}
