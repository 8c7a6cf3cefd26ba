package lyrics

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/moderato-fm/songscreen/internal/model"
)

// searchEndpoint is the query template of the web search used to locate
// lyrics pages. The query is scoped to the known lyrics sites by the
// hint terms appended to it.
const searchEndpoint = "https://search.yahoo.com/search?p=%s"

// searchHints steers results towards the supported lyrics sites
const searchHints = "lyrics tekstowo groove teksciory azlyrics"

// SearchEngineSource locates lyrics pages through a web search and runs
// the site scrapers on the first few hits.
type SearchEngineSource struct {
	fetcher  *Fetcher
	maxLinks int
	logger   *zap.Logger
}

// NewSearchEngineSource creates the search-engine adapter
func NewSearchEngineSource(fetcher *Fetcher, maxLinks int, logger *zap.Logger) *SearchEngineSource {
	return &SearchEngineSource{fetcher: fetcher, maxLinks: maxLinks, logger: logger}
}

// Name identifies this adapter in lyrics results
func (s *SearchEngineSource) Name() model.SourceKind {
	return model.SourceSearchEngine
}

// SearchLyrics queries the search engine for "artist title" and scrapes
// the first matching lyrics pages until one yields text.
func (s *SearchEngineSource) SearchLyrics(ctx context.Context, title, artist string) (string, error) {
	query := url.QueryEscape(strings.TrimSpace(artist + " " + CleanTitle(title) + " " + searchHints))
	page, err := s.fetcher.Get(ctx, fmt.Sprintf(searchEndpoint, query), nil)
	if err != nil {
		return "", err
	}

	links := extractSearchLinks(page.Body, s.maxLinks)
	if len(links) == 0 {
		return "", fmt.Errorf("%w: no lyrics-site results for %q", model.ErrNotFound, title)
	}

	for _, link := range links {
		lyricsPage, err := s.fetcher.Get(ctx, link, nil)
		if err != nil {
			s.logger.Debug("result page fetch failed", zap.String("url", link), zap.Error(err))
			continue
		}
		text, err := ExtractLyrics(link, lyricsPage.Body)
		if err != nil {
			s.logger.Debug("result page scrape failed", zap.String("url", link), zap.Error(err))
			continue
		}
		return text, nil
	}

	return "", fmt.Errorf("%w: no scrapeable result for %q", model.ErrNotFound, title)
}

// extractSearchLinks walks the result page anchors, decodes the search
// engine's redirect wrappers, and keeps links into known lyrics sites.
func extractSearchLinks(body string, max int) []string {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil
	}

	var links []string
	seen := make(map[string]bool)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(links) >= max {
			return
		}
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				if link, ok := decodeResultLink(attr.Val); ok && !seen[link] {
					seen[link] = true
					links = append(links, link)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links
}

// decodeResultLink unwraps the engine's "/RU=<escaped-url>/" redirect
// segments and accepts plain links that already point at a known site.
func decodeResultLink(href string) (string, bool) {
	for _, part := range strings.Split(href, "/") {
		if !strings.HasPrefix(part, "RU=") {
			continue
		}
		decoded, err := url.QueryUnescape(strings.TrimPrefix(part, "RU="))
		if err != nil {
			continue
		}
		if _, ok := KnownSite(decoded); ok {
			return decoded, true
		}
	}

	if strings.HasPrefix(href, "http") {
		if _, ok := KnownSite(href); ok {
			return href, true
		}
	}
	return "", false
}
