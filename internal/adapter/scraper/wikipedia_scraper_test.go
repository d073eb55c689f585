package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"wikiquiz/internal/config"
	"wikiquiz/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const examplePage = `<!DOCTYPE html>
<html><head><title>Example City - Wikipedia</title><script>var tracking = "should never appear";</script></head>
<body>
<h1 id="firstHeading" class="firstHeading"><span class="mw-page-title-main">Example City</span></h1>
<div id="mw-content-text" class="mw-body-content">
  <div class="mw-content-ltr mw-parser-output">
    <div class="hatnote">For the fictional town, see Example Town (disambiguation page).</div>
    <table class="infobox vcard"><tr><td>Population of the infobox row is 1,234,567</td></tr></table>
    <p>Example City is the largest settlement on the Example River.<sup class="reference">[1]</sup></p>
    <div id="toc" class="toc"><ul><li>1 History of the table of contents entry</li></ul></div>
    <h2>History<span class="mw-editsection">[edit this section please]</span></h2>
    <p>The city was founded   in 1850 by settlers
       arriving from the northern coast.</p>
    <p>Short line.</p>
    <figure><img src="x.png"><figcaption>A caption that is long enough to be kept</figcaption></figure>
    <p>It is known for its <a href="/wiki/Harbor">harbor</a> and its <b>annual</b> lantern festival.<a class="external text" href="https://example.org">external link text here</a></p>
    <div class="navbox"><p>Navigation box content that should never reach the body.</p></div>
    <script>var inline = "script content that should be removed";</script>
  </div>
</div>
</body></html>`

func newTestScraper(cfg config.ScraperConfig) *WikipediaScraper {
	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Second
	}
	if cfg.MaxChars == 0 {
		cfg.MaxChars = 8000
	}
	if cfg.MinLineLength == 0 {
		cfg.MinLineLength = 20
	}
	return NewWikipediaScraper(cfg, zap.NewNop())
}

func parseHTML(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

func TestWikipediaScraper_Extract(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(examplePage))
	}))
	defer server.Close()

	s := newTestScraper(config.ScraperConfig{UserAgent: "wikiquiz-test/1.0"})
	article, err := s.Extract(context.Background(), server.URL+"/wiki/Example_City")
	require.NoError(t, err)

	assert.Equal(t, "wikiquiz-test/1.0", gotUserAgent)
	assert.Equal(t, "Example City", article.Title)
	assert.Equal(t,
		"Example City is the largest settlement on the Example River. "+
			"The city was founded in 1850 by settlers arriving from the northern coast. "+
			"It is known for its harbor and its annual lantern festival.",
		article.Body)

	for _, noise := range []string{"[1]", "infobox", "table of contents", "edit this section", "Short line",
		"caption", "external link", "Navigation box", "script content", "tracking", "disambiguation"} {
		assert.NotContains(t, article.Body, noise)
	}
}

func TestWikipediaScraper_ExtractDefaultUserAgent(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(examplePage))
	}))
	defer server.Close()

	_, err := newTestScraper(config.ScraperConfig{}).Extract(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultUserAgent, gotUserAgent)
}

func TestWikipediaScraper_ExtractFetchFailures(t *testing.T) {
	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such article", http.StatusNotFound)
	}))
	defer notFound.Close()

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
		_, _ = w.Write([]byte(examplePage))
	}))
	defer slow.Close()

	tests := []struct {
		name    string
		url     string
		timeout time.Duration
	}{
		{name: "404 status", url: notFound.URL + "/wiki/Missing", timeout: time.Second},
		{name: "timeout", url: slow.URL, timeout: 50 * time.Millisecond},
		{name: "not a URL", url: "::not a url", timeout: time.Second},
		{name: "unsupported scheme", url: "ftp://en.wikipedia.org/wiki/Example", timeout: time.Second},
		{name: "relative URL", url: "/wiki/Example", timeout: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScraper(config.ScraperConfig{Timeout: tt.timeout})
			article, err := s.Extract(context.Background(), tt.url)
			require.Error(t, err)
			assert.Nil(t, article)
			assert.True(t, domain.HasCode(err, domain.CodeFetchFailed), "got %v", err)
		})
	}
}

func TestWikipediaScraper_ParseDocument(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		wantTitle string
		wantBody  string
		wantCode  domain.ErrorCode
	}{
		{
			name:      "title by class and legacy content container",
			page:      `<h1 class="firstHeading">Sample  Town</h1><div class="mw-content-ltr"><p>Sample Town lies at the mouth of the river.</p></div>`,
			wantTitle: "Sample Town",
			wantBody:  "Sample Town lies at the mouth of the river.",
		},
		{
			name:      "missing heading",
			page:      `<div id="mw-content-text"><p>An article without any heading element at all.</p></div>`,
			wantTitle: UnknownTitle,
			wantBody:  "An article without any heading element at all.",
		},
		{
			name:      "exactly twenty characters is dropped",
			page:      `<h1 id="firstHeading">T</h1><div id="mw-content-text"><p>twenty characters ab</p><p>twenty-one characters</p></div>`,
			wantTitle: "T",
			wantBody:  "twenty-one characters",
		},
		{
			name:      "line breaks split lines",
			page:      `<h1 id="firstHeading">T</h1><div id="mw-content-text"><p>short<br>this line is long enough to keep</p></div>`,
			wantTitle: "T",
			wantBody:  "this line is long enough to keep",
		},
		{
			name:     "no content area",
			page:     `<h1 id="firstHeading">Example City</h1><div id="content"><p>Text outside of the marked area.</p></div>`,
			wantCode: domain.CodeParseFailed,
		},
		{
			name:     "only short lines",
			page:     `<h1 id="firstHeading">Example City</h1><div id="mw-content-text"><p>Too short.</p><p>Also short.</p></div>`,
			wantCode: domain.CodeParseFailed,
		},
	}

	s := newTestScraper(config.ScraperConfig{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			article, err := s.ParseDocument(parseHTML(t, tt.page))
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, domain.HasCode(err, tt.wantCode), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, article.Title)
			assert.Equal(t, tt.wantBody, article.Body)
		})
	}
}

func TestWikipediaScraper_ParseDocumentTruncates(t *testing.T) {
	paragraph := strings.Repeat("é", 120)
	page := `<h1 id="firstHeading">Long</h1><div id="mw-content-text"><p>` + paragraph + `</p></div>`

	s := newTestScraper(config.ScraperConfig{MaxChars: 50})
	article, err := s.ParseDocument(parseHTML(t, page))
	require.NoError(t, err)

	assert.Equal(t, 50+len(TruncationMarker), utf8.RuneCountInString(article.Body))
	assert.True(t, strings.HasSuffix(article.Body, TruncationMarker))
	assert.Equal(t, strings.Repeat("é", 50), strings.TrimSuffix(article.Body, TruncationMarker))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exactly10!", Truncate("exactly10!", 10))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
	assert.Equal(t, "abcdef", Truncate("abcdef", 0))
}

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "a b\n\nc", normalizeWhitespace("  a \t  b \n \n\n  \nc  "))
	assert.Equal(t, "x y", normalizeWhitespace("x\u00a0\u00a0y"))
}
