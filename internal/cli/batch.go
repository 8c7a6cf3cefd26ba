package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/moderato-fm/songscreen/internal/model"
	"github.com/moderato-fm/songscreen/internal/worker"
)

var (
	batchConcurrency int
	batchOutputDir   string
	batchTimeout     time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Assess every song listed in a file",
	Long: `Read a playlist file with one "Artist - Title" entry per line
(blank lines and # comments are skipped) and assess every song
concurrently.

Each assessment is printed as a JSON line on stdout, or written to
<output-dir>/<artist>-<title>.json when --output-dir is set.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "worker count (default from config)")
	batchCmd.Flags().StringVarP(&batchOutputDir, "output-dir", "o", "", "write one JSON file per song instead of stdout")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "overall deadline for the batch")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.LLM.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY not set (or llm.api_key in config)")
	}

	concurrency := cfg.Concurrency.Workers
	if batchConcurrency > 0 {
		concurrency = batchConcurrency
	}

	p, logger, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if batchOutputDir != "" {
		if err := os.MkdirAll(batchOutputDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	processor := worker.NewBatchProcessor(p, concurrency)
	results, err := processor.ProcessFile(ctx, args[0])
	if err != nil {
		return err
	}

	var failed int
	enc := json.NewEncoder(os.Stdout)
	for _, result := range results {
		if result.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "FAILED %s - %s: %v\n", result.Request.Artist, result.Request.Title, result.Err)
			continue
		}

		if batchOutputDir != "" {
			if err := writeAssessmentFile(batchOutputDir, result.Assessment); err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "FAILED %s - %s: %v\n", result.Request.Artist, result.Request.Title, err)
			}
			continue
		}

		if err := enc.Encode(result.Assessment); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	}

	fmt.Fprintf(os.Stderr, "Processed %d song(s), %d failed\n", len(results), failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d songs failed", failed, len(results))
	}
	return nil
}

func writeAssessmentFile(dir string, a *model.SongAssessment) error {
	name := slugify(a.Request.Artist) + "-" + slugify(a.Request.Title) + ".json"

	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal assessment: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, name), data, 0o644)
}

// slugify reduces a name to a safe filename fragment
func slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "song"
	}
	return out
}
