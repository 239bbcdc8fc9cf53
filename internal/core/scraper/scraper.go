// Package scraper turns the blog's paginated listing pages into
// fixed-shape records. The selectors are tied to the Tistory theme the
// blog uses; a theme change breaks extraction, not the rest of the
// pipeline.
package scraper

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/maker5587/chatbot/internal/models"
)

// NoImage is the sentinel stored when a post has no thumbnail.
const NoImage = "No Image"

const (
	totalPagesSelector = "#paging > li:nth-child(7) > a > span"
	postSelector       = ".post"
)

// Client fetches and parses listing pages.
type Client struct {
	http    *http.Client
	baseURL string
	perPage int
}

// NewClient builds a scraper for baseURL. perPage is the listing's page
// size and only affects the sequence numbers assigned to records.
func NewClient(baseURL string, perPage int) *Client {
	if perPage <= 0 {
		perPage = 5
	}
	return &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		perPage: perPage,
	}
}

// TotalPages reads the page count out of the listing's pagination widget.
func (c *Client) TotalPages(ctx context.Context) (int, error) {
	doc, err := c.fetch(ctx, c.baseURL+"/")
	if err != nil {
		return 0, err
	}
	text := strings.TrimSpace(doc.Find(totalPagesSelector).First().Text())
	if text == "" {
		return 0, fmt.Errorf("pagination element not found at %q", totalPagesSelector)
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("pagination count %q: %w", text, err)
	}
	return n, nil
}

// Page fetches listing page `page` and extracts its post records.
func (c *Client) Page(ctx context.Context, page int) ([]models.BlogPost, error) {
	doc, err := c.fetch(ctx, fmt.Sprintf("%s/?page=%d", c.baseURL, page))
	if err != nil {
		return nil, err
	}
	return extractPosts(doc, page, c.perPage, c.baseURL), nil
}

func (c *Client) fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, res.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}

// extractPosts pulls the fixed-shape records out of one listing page.
// Entries missing a title link are skipped with a log line rather than
// failing the page.
func extractPosts(doc *goquery.Document, page, perPage int, baseURL string) []models.BlogPost {
	var posts []models.BlogPost
	doc.Find(postSelector).Each(func(i int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Find(".title").First().Text())
		href, ok := s.Find(".title a").First().Attr("href")
		if title == "" || !ok || href == "" {
			log.Printf("scraper: skipping malformed entry %d on page %d", i+1, page)
			return
		}

		image := NoImage
		if src, ok := s.Find(".object-cover").First().Attr("data-src"); ok && src != "" {
			image = src
		}

		posts = append(posts, models.BlogPost{
			Num:         (i + 1) + (page-1)*perPage,
			Image:       image,
			Title:       title,
			Description: strings.TrimSpace(s.Find(".summary").First().Text()),
			Link:        baseURL + href,
		})
	})
	return posts
}
