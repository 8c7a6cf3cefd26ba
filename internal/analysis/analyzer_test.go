package analysis

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/moderato-fm/songscreen/internal/model"
)

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	analyzer, err := NewAnalyzer(testAnalysisConfig(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}
	return analyzer
}

func TestAnalyzeEmptyInput(t *testing.T) {
	analyzer := newTestAnalyzer(t)

	for _, input := range []string{"", "   \n\t  ", "\U0001F480\U0001F525\U0001F389"} {
		result, err := analyzer.Analyze(input, "")
		if err != nil {
			t.Fatalf("Analyze(%q): %v", input, err)
		}
		if result.DetectedLanguage != model.LangUnknown {
			t.Errorf("language for %q = %s, want unknown", input, result.DetectedLanguage)
		}
		if result.TotalOccurrences != 0 {
			t.Errorf("occurrences for %q = %d, want 0", input, result.TotalOccurrences)
		}
	}
}

func TestAnalyzeEnglishLyrics(t *testing.T) {
	analyzer := newTestAnalyzer(t)

	lyrics := "Damn the rain and damn the cold morning \U0001F327 " +
		"I keep walking through this town alone, damn it all again"

	result, err := analyzer.Analyze(lyrics, "")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if result.DetectedLanguage != model.LangEnglish {
		t.Errorf("language = %s, want %s", result.DetectedLanguage, model.LangEnglish)
	}
	if result.ProfanityMatches["damn"] != 3 {
		t.Errorf("damn count = %d, want 3", result.ProfanityMatches["damn"])
	}
	if result.TotalOccurrences != 3 {
		t.Errorf("total = %d, want 3", result.TotalOccurrences)
	}
}

func TestAnalyzeEmojiStripped(t *testing.T) {
	analyzer := newTestAnalyzer(t)

	result, err := analyzer.Analyze("hello \U0001F600 world", "")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if want := "hello  world"; result.CleanedText != want {
		t.Errorf("CleanedText = %q, want %q", result.CleanedText, want)
	}
}

func TestAnalyzeIgnoresArtistName(t *testing.T) {
	analyzer := newTestAnalyzer(t)

	lyrics := "Damn the rain and damn the cold morning, " +
		"I keep walking through this town alone and what the hell"

	result, err := analyzer.Analyze(lyrics, "Damn Yankees")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if _, ok := result.ProfanityMatches["damn"]; ok {
		t.Errorf("artist-name term counted: %v", result.ProfanityMatches)
	}
	if result.ProfanityMatches["hell"] != 1 {
		t.Errorf("hell count = %d, want 1", result.ProfanityMatches["hell"])
	}
	if result.TotalOccurrences != 1 {
		t.Errorf("total = %d, want 1", result.TotalOccurrences)
	}
}

func TestAnalyzerCustomWordList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "en.txt")
	content := "# custom list\nzing\n\nzang\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write word list: %v", err)
	}

	cfg := testAnalysisConfig()
	cfg.WordLists = map[string]string{"en": path}

	analyzer, err := NewAnalyzer(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}

	lyrics := "zing went the strings of my heart and zing they went again today"
	result, err := analyzer.Analyze(lyrics, "")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.ProfanityMatches["zing"] != 2 {
		t.Errorf("zing count = %d, want 2: %v", result.ProfanityMatches["zing"], result.ProfanityMatches)
	}
}

func TestLoadWordListMissing(t *testing.T) {
	if _, err := LoadWordList("/nonexistent/words.txt"); err == nil {
		t.Error("expected error for missing file")
	}
}
