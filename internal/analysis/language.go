package analysis

import (
	"strings"

	"github.com/abadojack/whatlanggo"

	"github.com/moderato-fm/songscreen/internal/model"
)

// LanguageClassifier detects the dominant natural language of a text
// sample, reporting unknown for short or low-confidence samples so the
// matcher never runs against the wrong word list.
type LanguageClassifier struct {
	minTokens     int
	minConfidence float64
}

// NewLanguageClassifier creates a classifier with the configured thresholds
func NewLanguageClassifier(cfg model.AnalysisConfig) *LanguageClassifier {
	return &LanguageClassifier{
		minTokens:     cfg.MinTokens,
		minConfidence: cfg.MinConfidence,
	}
}

// Classify returns the most probable supported language of text.
// Texts with fewer than the minimum token count, or detected below the
// confidence threshold, are reported as unknown.
func (c *LanguageClassifier) Classify(text string) model.Language {
	if len(strings.Fields(text)) < c.minTokens {
		return model.LangUnknown
	}

	info := whatlanggo.Detect(text)
	if info.Confidence < c.minConfidence {
		return model.LangUnknown
	}

	switch info.Lang {
	case whatlanggo.Eng:
		return model.LangEnglish
	case whatlanggo.Pol:
		return model.LangPolish
	default:
		return model.LangUnknown
	}
}
