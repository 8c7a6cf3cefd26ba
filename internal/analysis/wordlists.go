package analysis

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/moderato-fm/songscreen/internal/model"
)

// Built-in word lists used when the configuration does not point at
// external files. Deployments extend these via analysis.word_lists.
var defaultWordLists = map[model.Language][]string{
	model.LangEnglish: {
		"damn", "hell", "shit", "fuck", "fucking", "bitch", "ass",
		"asshole", "bastard", "crap", "dick", "piss", "slut", "whore",
	},
	model.LangPolish: {
		"kurwa", "chuj", "chuja", "jebac", "jebany", "pierdolic",
		"spierdalaj", "skurwysyn", "gowno", "dupa", "cholera", "debil",
		"idiota", "suka",
	},
}

// LoadWordList reads a newline-delimited word list file. Blank lines and
// lines starting with '#' are skipped.
func LoadWordList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer func() { _ = f.Close() }()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan word list: %w", err)
	}
	return words, nil
}

// wordListFor resolves the word list for lang: configured file if set,
// built-in list otherwise.
func wordListFor(cfg model.AnalysisConfig, lang model.Language) ([]string, error) {
	if path, ok := cfg.WordLists[string(lang)]; ok && path != "" {
		return LoadWordList(path)
	}
	return defaultWordLists[lang], nil
}
