package lyrics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/moderato-fm/songscreen/internal/cache"
	"github.com/moderato-fm/songscreen/internal/model"
	"github.com/moderato-fm/songscreen/internal/session"
)

// Orchestrator tries the source adapters in fixed priority order with a
// bounded per-attempt timeout, stopping at the first success. Failures
// are logged and converted into "try the next adapter"; no adapter is
// retried within one Fetch call.
type Orchestrator struct {
	sources        []Source
	attemptTimeout time.Duration
	minLength      int
	store          cache.Cache // nil disables caching
	cacheTTL       time.Duration
	logger         *zap.Logger
}

// NewOrchestrator creates an orchestrator over the given adapters.
// store may be nil to disable lyrics caching.
func NewOrchestrator(sources []Source, cfg model.SourcesConfig, store cache.Cache, cacheTTL time.Duration, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		sources:        sources,
		attemptTimeout: cfg.AttemptTimeout,
		minLength:      cfg.MinLyricsLength,
		store:          store,
		cacheTTL:       cacheTTL,
		logger:         logger,
	}
}

// Fetch retrieves lyrics for the song, walking the fallback chain.
// All-adapters-failed is not an error: the result reports found=false.
func (o *Orchestrator) Fetch(ctx context.Context, req model.SongRequest) model.LyricsResult {
	if cached, ok := o.fromCache(req); ok {
		o.logger.Debug("lyrics cache hit",
			zap.String("artist", req.Artist), zap.String("title", req.Title))
		return cached
	}

	for _, src := range o.sources {
		text, err := o.attempt(ctx, src, req)
		if err != nil {
			o.logger.Warn("lyrics source failed",
				zap.String("source", string(src.Name())),
				zap.String("artist", req.Artist),
				zap.String("title", req.Title),
				zap.Error(err))
			continue
		}

		if utf8.RuneCountInString(text) < o.minLength {
			o.logger.Warn("lyrics source returned fragment",
				zap.String("source", string(src.Name())),
				zap.Int("length", utf8.RuneCountInString(text)))
			continue
		}

		result := model.LyricsResult{Text: text, Source: src.Name(), Found: true}
		o.toCache(req, result)
		o.logger.Info("lyrics found",
			zap.String("source", string(src.Name())),
			zap.String("artist", req.Artist),
			zap.String("title", req.Title))
		return result
	}

	return model.LyricsResult{Source: model.SourceNone, Found: false}
}

// attempt runs one adapter under the per-attempt timeout
func (o *Orchestrator) attempt(ctx context.Context, src Source, req model.SongRequest) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, o.attemptTimeout)
	defer cancel()

	text, err := src.SearchLyrics(attemptCtx, req.Title, req.Artist)
	if err != nil {
		return "", model.NewSourceError(src.Name(), err)
	}
	if text == "" {
		return "", model.NewSourceError(src.Name(), model.ErrNotFound)
	}
	return text, nil
}

func (o *Orchestrator) fromCache(req model.SongRequest) (model.LyricsResult, bool) {
	if o.store == nil {
		return model.LyricsResult{}, false
	}
	data, ok := o.store.Get(cache.SongKey(req.Artist, req.Title))
	if !ok {
		return model.LyricsResult{}, false
	}
	var result model.LyricsResult
	if err := json.Unmarshal(data, &result); err != nil {
		return model.LyricsResult{}, false
	}
	return result, true
}

func (o *Orchestrator) toCache(req model.SongRequest, result model.LyricsResult) {
	if o.store == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := o.store.Set(cache.SongKey(req.Artist, req.Title), data, o.cacheTTL); err != nil {
		o.logger.Debug("lyrics cache write failed", zap.Error(err))
	}
}

// BuildSources instantiates the adapters named in the configured
// priority order. Unknown names are an error so typos never silently
// shorten the fallback chain.
func BuildSources(cfg model.SourcesConfig, fetcher *Fetcher, sess *session.Session, logger *zap.Logger) ([]Source, error) {
	sources := make([]Source, 0, len(cfg.Order))
	for _, name := range cfg.Order {
		switch model.SourceKind(name) {
		case model.SourceSearchEngine:
			sources = append(sources, NewSearchEngineSource(fetcher, cfg.MaxSearchLinks, logger))
		case model.SourceDirectSite:
			sources = append(sources, NewDirectSiteSource(fetcher, sess, logger))
		case model.SourceVideoCaption:
			sources = append(sources, NewVideoCaptionSource(fetcher, cfg.CaptionLanguages, logger))
		default:
			return nil, fmt.Errorf("%w: unknown lyrics source %q", model.ErrInternal, name)
		}
	}
	return sources, nil
}
