package lyrics

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/moderato-fm/songscreen/internal/model"
)

const (
	videoSearchURL = "https://www.youtube.com/results?search_query=%s"
	timedTextURL   = "https://video.google.com/timedtext?lang=%s&v=%s"
)

// videoIDRe matches the first video identifier embedded in the search
// results' initial data blob.
var videoIDRe = regexp.MustCompile(`"videoId"\s*:\s*"([a-zA-Z0-9_-]{11})"`)

// VideoCaptionSource finds a video matching the song and extracts its
// transcript. Last in the fallback chain: captions are noisier than
// dedicated lyrics pages.
type VideoCaptionSource struct {
	fetcher   *Fetcher
	languages []string
	logger    *zap.Logger
}

// NewVideoCaptionSource creates the caption adapter; languages is the
// transcript language preference order.
func NewVideoCaptionSource(fetcher *Fetcher, languages []string, logger *zap.Logger) *VideoCaptionSource {
	return &VideoCaptionSource{fetcher: fetcher, languages: languages, logger: logger}
}

// Name identifies this adapter in lyrics results
func (s *VideoCaptionSource) Name() model.SourceKind {
	return model.SourceVideoCaption
}

// SearchLyrics resolves a video id for "artist title" and returns the
// first available transcript in the preferred languages.
func (s *VideoCaptionSource) SearchLyrics(ctx context.Context, title, artist string) (string, error) {
	videoID, err := s.findVideo(ctx, title, artist)
	if err != nil {
		return "", err
	}

	for _, lang := range s.languages {
		text, err := s.transcript(ctx, videoID, lang)
		if err != nil {
			s.logger.Debug("transcript unavailable",
				zap.String("video_id", videoID), zap.String("lang", lang), zap.Error(err))
			continue
		}
		return text, nil
	}

	return "", fmt.Errorf("%w: no transcript for video %s", model.ErrNotFound, videoID)
}

// findVideo searches the platform and returns the top result's video id
func (s *VideoCaptionSource) findVideo(ctx context.Context, title, artist string) (string, error) {
	query := url.QueryEscape(strings.TrimSpace(artist + " " + CleanTitle(title)))
	page, err := s.fetcher.Get(ctx, fmt.Sprintf(videoSearchURL, query), nil)
	if err != nil {
		return "", err
	}

	m := videoIDRe.FindStringSubmatch(page.Body)
	if m == nil {
		return "", fmt.Errorf("%w: no video for %q", model.ErrNotFound, title)
	}
	return m[1], nil
}

type timedText struct {
	Texts []struct {
		Value string `xml:",chardata"`
	} `xml:"text"`
}

// transcript fetches and joins the timed-text track for one language
func (s *VideoCaptionSource) transcript(ctx context.Context, videoID, lang string) (string, error) {
	page, err := s.fetcher.Get(ctx, fmt.Sprintf(timedTextURL, lang, videoID), nil)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(page.Body) == "" {
		return "", fmt.Errorf("%w: empty transcript track", model.ErrNotFound)
	}

	var tt timedText
	if err := xml.Unmarshal([]byte(page.Body), &tt); err != nil {
		return "", fmt.Errorf("%w: decode transcript: %v", model.ErrParse, err)
	}
	if len(tt.Texts) == 0 {
		return "", fmt.Errorf("%w: transcript has no text blocks", model.ErrNotFound)
	}

	parts := make([]string, 0, len(tt.Texts))
	for _, t := range tt.Texts {
		if v := strings.TrimSpace(html.UnescapeString(t.Value)); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " "), nil
}
