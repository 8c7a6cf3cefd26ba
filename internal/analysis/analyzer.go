// Package analysis implements the text analysis engine: emoji stripping,
// language detection, and multi-pattern profanity matching.
package analysis

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/moderato-fm/songscreen/internal/model"
)

// Analyzer composes the codepoint filter, the language classifier, and
// the per-language pattern automatons into a single analyze call. Built
// once at startup; all state is immutable afterwards, so one Analyzer is
// shared across concurrent pipeline runs.
type Analyzer struct {
	filter     *CodepointFilter
	classifier *LanguageClassifier
	automatons map[model.Language]*PatternAutomaton
	logger     *zap.Logger
}

// NewAnalyzer builds the analyzer from the analysis configuration
func NewAnalyzer(cfg model.AnalysisConfig, logger *zap.Logger) (*Analyzer, error) {
	automatons := make(map[model.Language]*PatternAutomaton, 2)
	for _, lang := range []model.Language{model.LangEnglish, model.LangPolish} {
		words, err := wordListFor(cfg, lang)
		if err != nil {
			return nil, fmt.Errorf("word list for %s: %w", lang, err)
		}
		automatons[lang] = NewPatternAutomaton(lang, words)
	}

	return &Analyzer{
		filter:     NewCodepointFilter(),
		classifier: NewLanguageClassifier(cfg),
		automatons: automatons,
		logger:     logger,
	}, nil
}

// Analyze strips emoji from text, detects its language, and counts
// occurrences of listed terms. ignoreArtist excludes terms that appear
// as whole words in the artist name, so band names never count against
// their own lyrics. Empty input yields a zero result, not an error.
func (a *Analyzer) Analyze(text, ignoreArtist string) (*model.AnalysisResult, error) {
	cleaned := a.filter.Strip(text)

	result := &model.AnalysisResult{
		CleanedText:      cleaned,
		DetectedLanguage: model.LangUnknown,
		ProfanityMatches: map[string]int{},
	}

	if strings.TrimSpace(cleaned) == "" {
		return result, nil
	}

	lang := a.classifier.Classify(cleaned)
	result.DetectedLanguage = lang
	if lang == model.LangUnknown {
		a.logger.Debug("language unknown, matching skipped",
			zap.Int("text_len", len(cleaned)))
		return result, nil
	}

	automaton, ok := a.automatons[lang]
	if !ok {
		return nil, fmt.Errorf("%w: no automaton for language %s", model.ErrInternal, lang)
	}

	counts := automaton.Count(cleaned)
	if ignoreArtist != "" {
		for term := range counts {
			if containsWholeWord(ignoreArtist, term) {
				delete(counts, term)
			}
		}
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	result.ProfanityMatches = counts
	result.TotalOccurrences = total

	a.logger.Debug("text analyzed",
		zap.String("language", string(lang)),
		zap.Int("total_occurrences", total))

	return result, nil
}

// containsWholeWord reports whether term occurs in s as a whole,
// case-insensitive word.
func containsWholeWord(s, term string) bool {
	term = strings.ToLower(term)
	for _, field := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !isWordChar(r)
	}) {
		if field == term {
			return true
		}
	}
	return false
}
