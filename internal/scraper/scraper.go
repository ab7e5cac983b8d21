package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrInvalidURL    = errors.New("invalid URL, provide an address starting with http:// or https://")
	ErrFetchFailed   = errors.New("could not fetch the page")
	ErrTooLittleText = errors.New("could not extract enough content from this URL, paste the job description manually")
)

const (
	defaultUserAgent   = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"
	defaultTimeout     = 15 * time.Second
	maxBodyBytes       = 5 << 20
	maxTextRunes       = 15000
	minContentRunes    = 100
	MinUsefulTextRunes = 50
	truncatedMarker    = "\n\n[Text truncated...]"
)

var removedTags = []string{
	"script", "style", "nav", "header", "footer", "noscript", "svg", "iframe",
	"form", "button", "input", "select", "textarea", "img", "video", "audio",
}

// Ordered from site-specific to generic; the first one with enough text wins.
var contentSelectors = []string{
	".description__text", ".show-more-less-html__markup", ".jobs-description__content",
	"#jobDescriptionText", ".jobsearch-jobDescriptionText",
	".jobDescriptionContent", "[class*='JobDescription']", "[class*='jobDescription']",
	"[data-testid='job-description']", ".job-posting-description",
	"#JobDescription", ".job-description", "[class*='job-description']", "[class*='job_description']",
	"[class*='job-detail']", "[class*='vacancy-description']", "[id*='job-description']",
	"[id*='jobDescription']", "article", "[role='main']", "main", "#content", ".content",
}

var titleSelectors = []string{
	"h1.job-title", "h1.jobTitle", ".top-card-layout__title", ".jobsearch-JobInfoHeader-title",
	"h1[class*='title']", "h1",
}

var companySelectors = []string{
	".company-name", ".companyName", ".top-card-layout__company", "[class*='employer']", "[class*='company']",
}

var locationSelectors = []string{
	".job-location", ".jobLocation", ".top-card-layout__bullet", "[class*='location']",
}

type Page struct {
	URL               string `json:"url"`
	Domain            string `json:"domain"`
	PageTitle         string `json:"page_title"`
	Text              string `json:"-"`
	ExtractedTitle    string `json:"extracted_title"`
	ExtractedCompany  string `json:"extracted_company"`
	ExtractedLocation string `json:"extracted_location"`
}

type Collector struct {
	userAgent string
	timeout   time.Duration
}

func NewCollector() *Collector {
	return &Collector{userAgent: defaultUserAgent, timeout: defaultTimeout}
}

// Scrape fetches a job posting page and extracts its readable text plus a
// best-effort title, company and location.
func (collector *Collector) Scrape(ctx context.Context, rawURL string) (Page, error) {
	target, err := ValidateURL(rawURL)
	if err != nil {
		return Page{}, err
	}
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}

	page := Page{URL: target.String(), Domain: strings.TrimPrefix(strings.ToLower(target.Hostname()), "www.")}

	c := colly.NewCollector(
		colly.UserAgent(collector.userAgent),
		colly.MaxBodySize(maxBodyBytes),
	)
	c.SetRequestTimeout(collector.timeout)

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9,it;q=0.8")
	})

	var fetchErr error
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = describeFetchError(r.StatusCode, err)
	})

	c.OnResponse(func(r *colly.Response) {
		page.URL = r.Request.URL.String()
	})

	c.OnHTML("html", func(e *colly.HTMLElement) {
		page.PageTitle = cleanText(e.DOM.Find("title").First().Text())
		page.ExtractedTitle = firstShortText(e, titleSelectors)
		page.ExtractedCompany = firstShortText(e, companySelectors)
		page.ExtractedLocation = firstShortText(e, locationSelectors)

		e.DOM.Find(strings.Join(removedTags, ", ")).Remove()
		for _, selector := range contentSelectors {
			text := cleanText(e.DOM.Find(selector).First().Text())
			if len([]rune(text)) >= minContentRunes {
				page.Text = text
				break
			}
		}
		if page.Text == "" {
			page.Text = cleanText(e.DOM.Find("body").Text())
		}
	})

	if err := c.Visit(target.String()); err != nil && fetchErr == nil {
		fetchErr = describeFetchError(0, err)
	}
	if fetchErr != nil {
		return Page{}, fetchErr
	}
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}

	page.Text = truncateRunes(page.Text, maxTextRunes)
	if len([]rune(strings.TrimSpace(page.Text))) < MinUsefulTextRunes {
		return page, ErrTooLittleText
	}
	return page, nil
}

func ValidateURL(rawURL string) (*url.URL, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, ErrInvalidURL
	}
	return parsed, nil
}

func describeFetchError(status int, err error) error {
	switch status {
	case http.StatusForbidden:
		return fmt.Errorf("%w: access denied (403), the site blocks automated access; paste the job description manually", ErrFetchFailed)
	case http.StatusNotFound:
		return fmt.Errorf("%w: page not found (404), the posting may have been removed", ErrFetchFailed)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: too many requests (429), try again shortly", ErrFetchFailed)
	case 0:
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	default:
		return fmt.Errorf("%w: HTTP %d", ErrFetchFailed, status)
	}
}

func firstShortText(e *colly.HTMLElement, selectors []string) string {
	for _, selector := range selectors {
		text := cleanText(e.DOM.Find(selector).First().Text())
		if length := len([]rune(text)); length > 1 && length < 200 {
			return text
		}
	}
	return ""
}

// cleanText applies NFKC (folding non-breaking spaces and ligatures), collapses
// runs of whitespace inside lines and drops blank lines.
func cleanText(raw string) string {
	normalized := norm.NFKC.String(raw)
	lines := strings.Split(normalized, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if collapsed := strings.Join(strings.Fields(line), " "); collapsed != "" {
			kept = append(kept, collapsed)
		}
	}
	return strings.Join(kept, "\n")
}

func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + truncatedMarker
}
