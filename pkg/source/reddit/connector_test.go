package reddit

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/kevinvandever/secureask/pkg/source"
)

func TestDedupeByURL(t *testing.T) {
	records := []source.Record{
		{Title: "a", URL: "https://reddit.com/1"},
		{Title: "b", URL: "https://reddit.com/2"},
		{Title: "a again", URL: "https://reddit.com/1"},
		{Title: "c", URL: "https://reddit.com/3"},
	}

	got := dedupeByURL(records, 10)
	if len(got) != 3 {
		t.Fatalf("dedupe kept %d records, want 3", len(got))
	}
	if got[0].Title != "a" || got[1].Title != "b" || got[2].Title != "c" {
		t.Errorf("dedupe reordered records: %+v", got)
	}
}

func TestDedupeByURLLimit(t *testing.T) {
	var records []source.Record
	for i := 0; i < 20; i++ {
		records = append(records, source.Record{URL: fmt.Sprintf("https://reddit.com/%d", i)})
	}

	got := dedupeByURL(records, 10)
	if len(got) != 10 {
		t.Errorf("dedupe kept %d records, want limit of 10", len(got))
	}
}

func TestFallbackPosts(t *testing.T) {
	posts := fallbackPosts("climate risk")
	if len(posts) == 0 {
		t.Fatal("no fallback posts")
	}
	for _, p := range posts {
		if !p.Fallback {
			t.Errorf("post %q not flagged as fallback", p.Title)
		}
		if p.Subreddit == "" {
			t.Errorf("post %q missing subreddit", p.Title)
		}
	}
}

func TestClipKeepsRuneBoundary(t *testing.T) {
	long := strings.Repeat("é", 300)

	got := clip(long, 500)

	if !utf8.ValidString(got) {
		t.Fatalf("clipped string is not valid UTF-8: %q", got[len(got)-4:])
	}
	if len(got) > 500 {
		t.Errorf("clipped to %d bytes, want at most 500", len(got))
	}
	if short := "plain text"; clip(short, 500) != short {
		t.Errorf("short input must pass through unchanged")
	}
}
