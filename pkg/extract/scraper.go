package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"code-concierge-be/pkg/utils"

	"github.com/PuerkitoBio/goquery"
)

var ErrInvalidURL = errors.New("invalid URL format")

const truncatedMarker = "... (content truncated)"

// Content regions in priority order; the first selector with any match wins.
var contentSelectors = []string{
	"main",
	"article",
	`div[class*="content"]`,
	`div[class*="post"]`,
}

var boilerplateLines = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(home|about|contact|menu|navigation|nav|footer|sidebar|header)$`),
	regexp.MustCompile(`(?i)^(login|register|sign up|sign in)$`),
	regexp.MustCompile(`(?i)^(facebook|twitter|instagram|linkedin|youtube)$`),
	regexp.MustCompile(`(?i)^(privacy policy|terms of service|cookie policy)$`),
}

type ScrapedPage struct {
	URL           string
	Title         string
	Content       string
	ScrapedAt     time.Time
	ContentLength int
	WordCount     int
}

type Scraper struct {
	client    *http.Client
	userAgent string
}

func NewScraper(timeout time.Duration, userAgent string) *Scraper {
	return &Scraper{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// ValidateURL accepts absolute http(s) URLs only.
func ValidateURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return u, nil
}

func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*ScrapedPage, error) {
	u, err := ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	content := PageText(doc)
	return &ScrapedPage{
		URL:           u.String(),
		Title:         PageTitle(doc, u),
		Content:       content,
		ScrapedAt:     time.Now(),
		ContentLength: len([]rune(content)),
		WordCount:     utils.WordCount(content),
	}, nil
}

func PageTitle(doc *goquery.Document, u *url.URL) string {
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return "Content from " + u.Hostname()
}

// PageText pulls readable text out of the main content region of a page.
func PageText(doc *goquery.Document) string {
	doc.Find("script, style, noscript").Remove()

	var region *goquery.Selection
	for _, selector := range contentSelectors {
		if found := doc.Find(selector); found.Length() > 0 {
			region = found
			break
		}
	}
	if region == nil {
		region = doc.Find("body")
		if region.Length() == 0 {
			region = doc.Selection
		}
	}

	var blocks []string
	region.Each(func(_ int, sel *goquery.Selection) {
		blocks = append(blocks, sel.Text())
	})

	var kept []string
	for _, line := range strings.Split(utils.CollapseLineSpaces(strings.Join(blocks, "\n\n")), "\n") {
		if keepLine(line) {
			kept = append(kept, line)
		}
	}

	text := strings.TrimSpace(strings.Join(kept, "\n"))
	return utils.TruncateWithMarker(text, MaxContentRunes, truncatedMarker)
}

func keepLine(line string) bool {
	if len([]rune(line)) < 10 {
		return false
	}
	for _, pattern := range boilerplateLines {
		if pattern.MatchString(line) {
			return false
		}
	}
	return true
}
