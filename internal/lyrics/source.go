// Package lyrics implements the multi-source lyrics retrieval layer:
// a shared rate-limited fetcher, the source adapters, and the
// ordered-fallback orchestrator.
package lyrics

import (
	"context"
	"regexp"
	"strings"

	"github.com/moderato-fm/songscreen/internal/model"
)

// Source is one strategy for retrieving lyrics from a class of external
// source. Implementations return the raw lyrics text or an error from
// the model taxonomy (ErrNotFound, ErrNetwork, ErrParse, ErrInvalidSession).
type Source interface {
	Name() model.SourceKind
	SearchLyrics(ctx context.Context, title, artist string) (string, error)
}

var (
	bracketRe = regexp.MustCompile(`\s*[\(\[].*?[\)\]]\s*`)
	suffixRe  = regexp.MustCompile(
		`(?i)\s*-\s*(remaster|live|demo|remix|deluxe|bonus|edit|version|` +
			`mix|single|acoustic|instrumental|radio|extended|original|lyric).*`)
)

// CleanTitle strips bracketed segments and release-variant suffixes that
// spoil search queries ("Song (Official Video)", "Song - 2011 Remaster").
func CleanTitle(title string) string {
	title = bracketRe.ReplaceAllString(title, " ")
	title = suffixRe.ReplaceAllString(title, "")
	return strings.Join(strings.Fields(title), " ")
}
