package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/moderato-fm/songscreen/internal/model"
)

var (
	assessJSON    bool
	assessTimeout time.Duration
	assessNoCache bool
	assessModel   string
)

// assessCmd represents the assess command
var assessCmd = &cobra.Command{
	Use:   "assess <artist> <title>",
	Short: "Assess a single song",
	Long: `Retrieve lyrics for one song, analyze them, and print the
moderation assessment.

Example:
  songscreen assess "Rage Against the Machine" "Killing in the Name"`,
	Args: cobra.ExactArgs(2),
	RunE: runAssess,
}

func init() {
	assessCmd.Flags().BoolVar(&assessJSON, "json", false, "print the full assessment as JSON")
	assessCmd.Flags().DurationVar(&assessTimeout, "timeout", 3*time.Minute, "overall deadline for the song")
	assessCmd.Flags().BoolVar(&assessNoCache, "no-cache", false, "bypass the lyrics cache")
	assessCmd.Flags().StringVar(&assessModel, "llm-model", "", "override the assessment model")

	rootCmd.AddCommand(assessCmd)
}

func runAssess(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.LLM.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY not set (or llm.api_key in config)")
	}
	if assessNoCache {
		cfg.Cache.Enabled = false
	}
	if assessModel != "" {
		cfg.LLM.Model = assessModel
	}

	p, logger, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), assessTimeout)
	defer cancel()

	req := model.SongRequest{Artist: args[0], Title: args[1]}
	assessment, err := p.Process(ctx, req)
	if err != nil {
		return fmt.Errorf("assess %q by %q: %w", req.Title, req.Artist, err)
	}

	if assessJSON {
		return printJSON(os.Stdout, assessment)
	}
	printAssessment(assessment)
	return nil
}

func printJSON(w *os.File, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printAssessment writes the human-readable report
func printAssessment(a *model.SongAssessment) {
	fmt.Printf("Song:    %s - %s\n", a.Request.Artist, a.Request.Title)
	fmt.Printf("Status:  %s\n", a.Status)

	if a.Lyrics.Found {
		fmt.Printf("Source:  %s\n", a.Lyrics.Source)
	}

	if a.Analysis != nil {
		fmt.Printf("Language: %s\n", a.Analysis.DetectedLanguage)
		if a.Analysis.TotalOccurrences > 0 {
			fmt.Printf("Profanity: %d occurrence(s)\n", a.Analysis.TotalOccurrences)
			for word, count := range a.Analysis.ProfanityMatches {
				fmt.Printf("  %s: %d\n", word, count)
			}
		} else {
			fmt.Println("Profanity: none")
		}
	}

	if a.Sentiment != nil {
		fmt.Println()
		fmt.Printf("Verdict:     %s (confidence %.2f)\n", a.Sentiment.Category, a.Sentiment.Confidence)
		fmt.Printf("Explanation: %s\n", a.Sentiment.Explanation)
		for _, flag := range a.Sentiment.Flags {
			fmt.Printf("Flag:        %s\n", flag)
		}
	}
}
