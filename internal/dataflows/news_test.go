package dataflows

import (
	"strings"
	"testing"
	"time"
)

const newsPageFixture = `<html><body>
<article>
  <h4>Apple shares surge on record iPhone sales</h4>
  <a href="./articles/abc123">Apple shares surge on record iPhone sales</a>
  <div data-n-tid="9">Reuters</div>
  <time datetime="2024-05-10T14:30:00Z">May 10</time>
</article>
<article>
  <a href="./articles/def456">Analysts split on Apple valuation ahead of earnings</a>
  <div data-n-tid="9">Bloomberg</div>
</article>
<article>
  <div data-n-tid="9">Orphaned source with no headline</div>
</article>
</body></html>`

func TestParseNewsHTML(t *testing.T) {
	articles, err := ParseNewsHTML(strings.NewReader(newsPageFixture))
	if err != nil {
		t.Fatalf("ParseNewsHTML: %v", err)
	}

	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d: %v", len(articles), articles)
	}

	first := articles[0]
	if first.Headline != "Apple shares surge on record iPhone sales" {
		t.Fatalf("unexpected headline: %q", first.Headline)
	}
	if first.Source != "Reuters" {
		t.Fatalf("unexpected source: %q", first.Source)
	}
	if first.URL != "./articles/abc123" {
		t.Fatalf("unexpected url: %q", first.URL)
	}
	want := time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC)
	if !first.PublishedAt.Equal(want) {
		t.Fatalf("published = %v, want %v", first.PublishedAt, want)
	}

	// Falls back to the link text when no heading element is present.
	second := articles[1]
	if second.Headline != "Analysts split on Apple valuation ahead of earnings" {
		t.Fatalf("unexpected fallback headline: %q", second.Headline)
	}
	if !second.PublishedAt.IsZero() {
		t.Fatalf("expected zero publish time, got %v", second.PublishedAt)
	}
}

func TestParseNewsHTMLEmptyPage(t *testing.T) {
	articles, err := ParseNewsHTML(strings.NewReader("<html><body></body></html>"))
	if err != nil {
		t.Fatalf("ParseNewsHTML: %v", err)
	}
	if len(articles) != 0 {
		t.Fatalf("expected no articles, got %v", articles)
	}
}
