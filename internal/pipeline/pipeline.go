// Package pipeline coordinates one song's journey through lyrics
// retrieval, text analysis, and sentiment assessment.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/moderato-fm/songscreen/internal/analysis"
	"github.com/moderato-fm/songscreen/internal/assess"
	"github.com/moderato-fm/songscreen/internal/lyrics"
	"github.com/moderato-fm/songscreen/internal/model"
)

// Pipeline is the top-level per-song coordinator. Each Process call is
// internally sequential; independent songs run concurrently through the
// worker pool, sharing the immutable analyzer and the assessor.
type Pipeline struct {
	orchestrator *lyrics.Orchestrator
	analyzer     *analysis.Analyzer
	assessor     *assess.Assessor
	maxProfanity int
	logger       *zap.Logger
}

// New creates a pipeline from already-constructed stages
func New(orchestrator *lyrics.Orchestrator, analyzer *analysis.Analyzer, assessor *assess.Assessor, cfg model.AnalysisConfig, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		orchestrator: orchestrator,
		analyzer:     analyzer,
		assessor:     assessor,
		maxProfanity: cfg.MaxProfanity,
		logger:       logger,
	}
}

// Process produces one SongAssessment. Missing lyrics short-circuit to
// StatusLyricsNotFound; analyzer failures (programming-error class) are
// the only errors that propagate.
func (p *Pipeline) Process(ctx context.Context, req model.SongRequest) (*model.SongAssessment, error) {
	result := &model.SongAssessment{
		Request:     req,
		ProcessedAt: time.Now().UTC(),
	}

	result.Lyrics = p.orchestrator.Fetch(ctx, req)
	if !result.Lyrics.Found {
		result.Status = model.StatusLyricsNotFound
		p.logger.Info("lyrics not found",
			zap.String("artist", req.Artist), zap.String("title", req.Title))
		return result, nil
	}

	analyzed, err := p.analyzer.Analyze(result.Lyrics.Text, req.Artist)
	if err != nil {
		result.Status = model.StatusAnalysisFailed
		return result, fmt.Errorf("analyze %q by %q: %w", req.Title, req.Artist, err)
	}
	result.Analysis = analyzed

	if analyzed.TotalOccurrences > p.maxProfanity {
		// Over the local threshold the verdict needs no remote service.
		result.Sentiment = &model.SentimentAssessment{
			Category:    model.CategoryReject,
			Confidence:  1.0,
			Explanation: fmt.Sprintf("%d profanity occurrences exceed the station limit of %d", analyzed.TotalOccurrences, p.maxProfanity),
			Flags:       []string{model.FlagExcessiveProfanity},
		}
		result.Status = model.StatusComplete
		p.logger.Info("rejected locally for profanity",
			zap.String("artist", req.Artist),
			zap.String("title", req.Title),
			zap.Int("occurrences", analyzed.TotalOccurrences))
		return result, nil
	}

	result.Sentiment = p.assessor.Assess(ctx, analyzed.CleanedText, req)
	result.Status = model.StatusComplete

	p.logger.Info("song assessed",
		zap.String("artist", req.Artist),
		zap.String("title", req.Title),
		zap.String("category", string(result.Sentiment.Category)),
		zap.Float64("confidence", result.Sentiment.Confidence))

	return result, nil
}
