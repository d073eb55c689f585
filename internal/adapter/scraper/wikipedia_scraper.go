package scraper

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
	"unicode/utf8"

	"wikiquiz/internal/config"
	"wikiquiz/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

const (
	// TruncationMarker is appended to a body cut at the maximum length.
	TruncationMarker = "..."
	UnknownTitle     = "Unknown Title"

	maxPageBytes = 10 << 20
)

var (
	noiseClass = regexp.MustCompile(`reference|navbox|infobox|thumb|toc|hatnote|mw-editsection`)
	noiseLink  = regexp.MustCompile(`citation|external|mw-editsection`)

	horizontalSpace = regexp.MustCompile(`[\t\f\r\v\p{Zs}]+`)
	lineEdgeSpace   = regexp.MustCompile(` ?\n ?`)
	blankLines      = regexp.MustCompile(`\n\s*\n`)
)

// Elements whose content ends a line of prose.
var blockElements = map[string]bool{
	"p": true, "li": true, "dd": true, "dt": true, "blockquote": true, "pre": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "dl": true,
}

// WikipediaScraper fetches a Wikipedia article and reduces it to prose.
type WikipediaScraper struct {
	client        *http.Client
	userAgent     string
	maxChars      int
	minLineLength int
	logger        *zap.Logger
}

// NewWikipediaScraper creates a scraper whose single fetch is bounded by cfg.Timeout.
func NewWikipediaScraper(cfg config.ScraperConfig, logger *zap.Logger) *WikipediaScraper {
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = config.DefaultUserAgent
	}
	return &WikipediaScraper{
		client:        &http.Client{Timeout: cfg.Timeout},
		userAgent:     userAgent,
		maxChars:      cfg.MaxChars,
		minLineLength: cfg.MinLineLength,
		logger:        logger,
	}
}

// Extract implements domain.ContentExtractor
func (s *WikipediaScraper) Extract(ctx context.Context, rawURL string) (*domain.ArticleText, error) {
	pageURL, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, domain.NewFetchError(rawURL, err)
	}
	if pageURL.Scheme != "http" && pageURL.Scheme != "https" || pageURL.Host == "" {
		return nil, domain.NewFetchError(rawURL, errors.New("URL must be an absolute http(s) URL"))
	}

	start := time.Now()
	doc, err := s.fetch(ctx, pageURL.String())
	if err != nil {
		s.logger.Warn("Failed to fetch article", zap.String("url", rawURL), zap.Error(err))
		return nil, domain.NewFetchError(rawURL, err)
	}

	article, err := s.ParseDocument(doc)
	if err != nil {
		s.logger.Warn("Failed to parse article", zap.String("url", rawURL), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Article extracted",
		zap.String("url", rawURL),
		zap.String("title", article.Title),
		zap.Int("body_chars", utf8.RuneCountInString(article.Body)),
		zap.Duration("duration", time.Since(start)),
	)
	return article, nil
}

func (s *WikipediaScraper) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return doc, nil
}

// ParseDocument locates the title and main content of a Wikipedia page and
// returns its cleaned, bounded prose.
func (s *WikipediaScraper) ParseDocument(doc *goquery.Document) (*domain.ArticleText, error) {
	heading := doc.Find("h1#firstHeading").First()
	if heading.Length() == 0 {
		heading = doc.Find("h1.firstHeading").First()
	}
	title := strings.Join(strings.Fields(heading.Text()), " ")
	if title == "" {
		title = UnknownTitle
	}

	content := doc.Find("div#mw-content-text").First()
	if content.Length() == 0 {
		content = doc.Find("div.mw-content-ltr").First()
	}
	if content.Length() == 0 {
		return nil, domain.NewParseError("Could not find main content area", nil)
	}

	stripNoise(content)

	var b strings.Builder
	for _, n := range content.Nodes {
		collectText(n, &b)
	}

	body := joinProseLines(normalizeWhitespace(b.String()), s.minLineLength)
	if body == "" {
		return nil, domain.NewParseError("Main content area contains no article prose", nil)
	}

	return &domain.ArticleText{
		Title: title,
		Body:  Truncate(body, s.maxChars),
	}, nil
}

// stripNoise removes citations, navigation, info boxes, images, the table of
// contents, edit links and script blocks from the content region.
func stripNoise(content *goquery.Selection) {
	content.Find("sup, table, div, span, figure").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		class, _ := sel.Attr("class")
		return noiseClass.MatchString(class)
	}).Remove()

	content.Find("script, style, noscript, figure, figcaption, img").Remove()

	content.Find("a").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		class, _ := sel.Attr("class")
		return noiseLink.MatchString(class)
	}).Remove()
}

// collectText writes the stripped text nodes under n, separated by single
// spaces, and ends a line after every block element.
func collectText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		if text := strings.TrimSpace(n.Data); text != "" {
			b.WriteString(text)
			b.WriteByte(' ')
		}
		return
	case html.ElementNode:
		if n.Data == "br" {
			b.WriteByte('\n')
			return
		}
	case html.CommentNode:
		return
	}

	block := n.Type == html.ElementNode && blockElements[n.Data]
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, b)
	}
	if block {
		b.WriteByte('\n')
	}
}

// normalizeWhitespace collapses runs of spaces to one space and runs of blank
// lines to a single blank line.
func normalizeWhitespace(text string) string {
	text = horizontalSpace.ReplaceAllString(text, " ")
	text = lineEdgeSpace.ReplaceAllString(text, "\n")
	text = blankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// joinProseLines drops lines of at most minLength characters and joins the
// rest with single spaces.
func joinProseLines(text string, minLength int) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) > minLength {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, " ")
}

// Truncate hard-cuts text to maxChars characters and appends TruncationMarker
// when anything was cut.
func Truncate(text string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxChars]) + TruncationMarker
}

// Static assertion to ensure WikipediaScraper implements ContentExtractor
var _ domain.ContentExtractor = (*WikipediaScraper)(nil)
