package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/moderato-fm/songscreen/internal/analysis"
	"github.com/moderato-fm/songscreen/internal/assess"
	"github.com/moderato-fm/songscreen/internal/lyrics"
	"github.com/moderato-fm/songscreen/internal/model"
)

type fakeSource struct {
	text string
	err  error
}

func (f *fakeSource) Name() model.SourceKind { return model.SourceSearchEngine }

func (f *fakeSource) SearchLyrics(ctx context.Context, title, artist string) (string, error) {
	return f.text, f.err
}

type fakeLLM struct {
	response string
	calls    int
}

func (f *fakeLLM) Complete(ctx context.Context, system, user string) (string, error) {
	f.calls++
	return f.response, nil
}

func newTestPipeline(t *testing.T, source lyrics.Source, llm assess.Client) *Pipeline {
	t.Helper()
	logger := zap.NewNop()

	cfg := model.SourcesConfig{AttemptTimeout: time.Second, MinLyricsLength: 10}
	orchestrator := lyrics.NewOrchestrator([]lyrics.Source{source}, cfg, nil, 0, logger)

	analysisCfg := model.AnalysisConfig{MinTokens: 8, MinConfidence: 0.60, MaxProfanity: 5}
	analyzer, err := analysis.NewAnalyzer(analysisCfg, logger)
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}

	assessor := assess.NewAssessor(llm, model.LLMConfig{Timeout: time.Second, MaxRetries: 0}, logger)

	return New(orchestrator, analyzer, assessor, analysisCfg, logger)
}

var cleanLyrics = "I walked along the river in the morning light and thought " +
	"about everything we said the night before and all the roads ahead"

func TestProcessComplete(t *testing.T) {
	llm := &fakeLLM{response: `{"category": "appropriate", "confidence": 0.9, "explanation": "Reflective and harmless."}`}
	p := newTestPipeline(t, &fakeSource{text: cleanLyrics}, llm)

	got, err := p.Process(context.Background(), model.SongRequest{Artist: "Somebody", Title: "River"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if got.Status != model.StatusComplete {
		t.Errorf("status = %s, want %s", got.Status, model.StatusComplete)
	}
	if !got.Lyrics.Found {
		t.Error("lyrics not marked found")
	}
	if got.Analysis == nil {
		t.Fatal("missing analysis")
	}
	if got.Analysis.DetectedLanguage != model.LangEnglish {
		t.Errorf("language = %s", got.Analysis.DetectedLanguage)
	}
	if got.Sentiment == nil || got.Sentiment.Category != model.CategoryAppropriate {
		t.Errorf("sentiment = %+v", got.Sentiment)
	}
	if llm.calls != 1 {
		t.Errorf("llm calls = %d, want 1", llm.calls)
	}
	if got.ProcessedAt.IsZero() {
		t.Error("ProcessedAt not set")
	}
}

func TestProcessLyricsNotFound(t *testing.T) {
	llm := &fakeLLM{response: "{}"}
	p := newTestPipeline(t, &fakeSource{err: model.ErrNotFound}, llm)

	got, err := p.Process(context.Background(), model.SongRequest{Artist: "Nobody", Title: "Ghost"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if got.Status != model.StatusLyricsNotFound {
		t.Errorf("status = %s, want %s", got.Status, model.StatusLyricsNotFound)
	}
	if got.Analysis != nil {
		t.Error("analysis must be skipped when lyrics are missing")
	}
	if got.Sentiment != nil {
		t.Error("sentiment must be skipped when lyrics are missing")
	}
	if llm.calls != 0 {
		t.Errorf("llm calls = %d, want 0", llm.calls)
	}
}

func TestProcessExcessiveProfanityRejectsLocally(t *testing.T) {
	profane := strings.Repeat("damn this and damn that in the cold morning rain, ", 4)
	llm := &fakeLLM{response: `{"category": "appropriate", "confidence": 0.9, "explanation": "x"}`}
	p := newTestPipeline(t, &fakeSource{text: profane}, llm)

	got, err := p.Process(context.Background(), model.SongRequest{Artist: "Somebody", Title: "Storm"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if got.Status != model.StatusComplete {
		t.Errorf("status = %s, want %s", got.Status, model.StatusComplete)
	}
	if got.Sentiment == nil {
		t.Fatal("missing sentiment")
	}
	if got.Sentiment.Category != model.CategoryReject {
		t.Errorf("category = %s, want %s", got.Sentiment.Category, model.CategoryReject)
	}
	if got.Sentiment.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", got.Sentiment.Confidence)
	}
	if len(got.Sentiment.Flags) != 1 || got.Sentiment.Flags[0] != model.FlagExcessiveProfanity {
		t.Errorf("flags = %v", got.Sentiment.Flags)
	}
	if llm.calls != 0 {
		t.Errorf("llm calls = %d, want 0 (local rejection must skip the service)", llm.calls)
	}
}
