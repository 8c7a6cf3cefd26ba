package lyrics

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/moderato-fm/songscreen/internal/model"
)

// siteExtractor pulls the lyrics block out of one site's page layout
type siteExtractor func(doc *goquery.Document) string

// siteExtractors maps a lyrics site domain to its page extractor
var siteExtractors = map[string]siteExtractor{
	"tekstowo.pl":          extractTekstowo,
	"azlyrics.com":         extractAZLyrics,
	"teksciory.interia.pl": extractTeksciory,
	"groove.pl":            extractGroove,
}

// KnownSite reports whether link points at a supported lyrics site and
// returns the matching domain.
func KnownSite(link string) (string, bool) {
	for domain := range siteExtractors {
		if strings.Contains(link, domain) {
			return domain, true
		}
	}
	return "", false
}

// ExtractLyrics parses the page at pageURL and returns its lyrics text.
// ErrParse when the page layout is unrecognized or the lyrics block is
// missing.
func ExtractLyrics(pageURL, html string) (string, error) {
	domain, ok := KnownSite(pageURL)
	if !ok {
		return "", fmt.Errorf("%w: no extractor for %s", model.ErrParse, pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("%w: parse html: %v", model.ErrParse, err)
	}

	text := normalizeWhitespace(siteExtractors[domain](doc))
	if text == "" {
		return "", fmt.Errorf("%w: empty lyrics block at %s", model.ErrParse, pageURL)
	}
	return text, nil
}

func extractTekstowo(doc *goquery.Document) string {
	return doc.Find("div.inner-text").First().Text()
}

func extractAZLyrics(doc *goquery.Document) string {
	container := doc.Find("div.col-xs-12.col-lg-8.text-center").First()
	if container.Length() == 0 {
		return ""
	}

	// The lyrics live in the only unmarked div inside the container.
	var text string
	container.Find("div").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		_, hasClass := s.Attr("class")
		_, hasID := s.Attr("id")
		if !hasClass && !hasID {
			text = s.Text()
			return false
		}
		return true
	})

	if idx := strings.Index(text, "Submit Corrections"); idx >= 0 {
		text = text[:idx]
	}
	return text
}

func extractTeksciory(doc *goquery.Document) string {
	return doc.Find("div.lyrics--text").First().Text()
}

func extractGroove(doc *goquery.Document) string {
	return doc.Find("div.mid-content-content.song-description").First().Text()
}

// normalizeWhitespace collapses runs of whitespace and trims the result
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
