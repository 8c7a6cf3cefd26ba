package lyrics

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/moderato-fm/songscreen/internal/model"
	"github.com/moderato-fm/songscreen/internal/session"
)

// directSiteBase is the lyrics site queried directly, with its on-site
// search URL template (artist, then title).
const (
	directSiteBase   = "https://www.tekstowo.pl"
	directSiteSearch = directSiteBase + "/szukaj,wykonawca,%s,tytul,%s.html"
)

// consentMarkers identify the consent interstitial served to clients
// whose cookies the site no longer accepts.
var consentMarkers = []string{
	`id="onetrust-banner-sdk"`,
	`class="fc-consent-root"`,
	"consent.google",
}

// DirectSiteSource queries a known lyrics site's own search directly,
// carrying a persistent cookie session. A rejected session triggers one
// refresh-and-retry before the adapter gives up.
type DirectSiteSource struct {
	fetcher *Fetcher
	session *session.Session
	logger  *zap.Logger
}

// NewDirectSiteSource creates the direct-site adapter
func NewDirectSiteSource(fetcher *Fetcher, sess *session.Session, logger *zap.Logger) *DirectSiteSource {
	return &DirectSiteSource{fetcher: fetcher, session: sess, logger: logger}
}

// Name identifies this adapter in lyrics results
func (s *DirectSiteSource) Name() model.SourceKind {
	return model.SourceDirectSite
}

// SearchLyrics runs the site search and scrapes the top hit. When the
// session is rejected mid-flight it is refreshed and the search retried
// exactly once.
func (s *DirectSiteSource) SearchLyrics(ctx context.Context, title, artist string) (string, error) {
	text, err := s.attempt(ctx, title, artist)
	if errors.Is(err, model.ErrInvalidSession) {
		s.logger.Info("session rejected, refreshing",
			zap.String("artist", artist), zap.String("title", title))
		s.session.Invalidate()
		return s.attempt(ctx, title, artist)
	}
	return text, err
}

func (s *DirectSiteSource) attempt(ctx context.Context, title, artist string) (string, error) {
	cookies, err := s.session.Cookies(ctx)
	if err != nil {
		return "", err
	}

	searchURL := fmt.Sprintf(directSiteSearch,
		searchTerm(artist), searchTerm(CleanTitle(title)))

	page, err := s.fetcher.Get(ctx, searchURL, cookies)
	if err != nil {
		return "", err
	}
	if isConsentPage(page) {
		return "", fmt.Errorf("%w: consent interstitial at %s", model.ErrInvalidSession, page.FinalURL)
	}

	songURL, err := firstResultLink(page.Body)
	if err != nil {
		return "", err
	}

	songPage, err := s.fetcher.Get(ctx, songURL, cookies)
	if err != nil {
		return "", err
	}
	if isConsentPage(songPage) {
		return "", fmt.Errorf("%w: consent interstitial at %s", model.ErrInvalidSession, songPage.FinalURL)
	}

	return ExtractLyrics(songURL, songPage.Body)
}

// firstResultLink pulls the top song link out of the site search results
func firstResultLink(body string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: parse search results: %v", model.ErrParse, err)
	}

	href, ok := doc.Find("a.title").First().Attr("href")
	if !ok || href == "" {
		return "", fmt.Errorf("%w: no search results", model.ErrNotFound)
	}

	if strings.HasPrefix(href, "http") {
		return href, nil
	}
	return directSiteBase + "/" + strings.TrimPrefix(href, "/"), nil
}

func isConsentPage(page *Page) bool {
	for _, marker := range consentMarkers {
		if strings.Contains(page.Body, marker) || strings.Contains(page.FinalURL, marker) {
			return true
		}
	}
	return false
}

func searchTerm(s string) string {
	return url.PathEscape(strings.Join(strings.Fields(s), "+"))
}
