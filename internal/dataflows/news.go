package dataflows

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const googleNewsBase = "https://news.google.com/search"

// NewsScraper pulls company headlines from the Google News search page.
type NewsScraper struct {
	client *resty.Client
}

func NewNewsScraper() *NewsScraper {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", "Mozilla/5.0 (compatible; HedgeGo/1.0)")
	return &NewsScraper{client: client}
}

// News returns headlines mentioning the ticker within the date window.
func (ns *NewsScraper) News(ctx context.Context, ticker string, start, end time.Time) ([]NewsArticle, error) {
	query := url.Values{}
	query.Set("q", fmt.Sprintf("%s stock after:%s before:%s",
		ticker, start.Format("2006-01-02"), end.Format("2006-01-02")))
	query.Set("hl", "en-US")
	query.Set("gl", "US")
	query.Set("ceid", "US:en")

	resp, err := ns.client.R().
		SetContext(ctx).
		Get(googleNewsBase + "?" + query.Encode())
	if err != nil {
		return nil, fmt.Errorf("fetch news for %s: %w", ticker, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("fetch news for %s: status %d", ticker, resp.StatusCode())
	}

	return ParseNewsHTML(bytes.NewReader(resp.Body()))
}

// ParseNewsHTML extracts article headlines from a Google News results page.
func ParseNewsHTML(r io.Reader) ([]NewsArticle, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse news page: %w", err)
	}

	var articles []NewsArticle
	doc.Find("article").Each(func(_ int, sel *goquery.Selection) {
		link := sel.Find("a[href]").First()
		headline := strings.TrimSpace(sel.Find("h3, h4").First().Text())
		if headline == "" {
			headline = strings.TrimSpace(link.Text())
		}
		if headline == "" {
			return
		}

		href, _ := link.Attr("href")
		source := strings.TrimSpace(sel.Find("div[data-n-tid]").First().Text())

		published := time.Time{}
		if dt, ok := sel.Find("time").First().Attr("datetime"); ok {
			if t, err := time.Parse(time.RFC3339, dt); err == nil {
				published = t
			}
		}

		articles = append(articles, NewsArticle{
			Headline:    headline,
			Source:      source,
			URL:         href,
			PublishedAt: published,
		})
	})

	return articles, nil
}
