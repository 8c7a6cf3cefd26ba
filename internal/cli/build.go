package cli

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/moderato-fm/songscreen/internal/analysis"
	"github.com/moderato-fm/songscreen/internal/assess"
	"github.com/moderato-fm/songscreen/internal/cache"
	"github.com/moderato-fm/songscreen/internal/logging"
	"github.com/moderato-fm/songscreen/internal/lyrics"
	"github.com/moderato-fm/songscreen/internal/model"
	"github.com/moderato-fm/songscreen/internal/pipeline"
	"github.com/moderato-fm/songscreen/internal/session"
)

// loadConfig builds the effective configuration: defaults overridden by
// the config file and SONGSCREEN_* environment variables. Flags are
// applied by the individual commands afterwards.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Logging.Level == "info" && verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// buildPipeline wires the full song pipeline from configuration
func buildPipeline(cfg *model.Config) (*pipeline.Pipeline, *zap.Logger, error) {
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}

	fetcher := lyrics.NewFetcher(cfg.HTTP, logger)

	sess := session.New(
		session.NewFileStore(cfg.Session.CookiePath),
		session.NewBrowserAuthenticator(cfg.Session.ConsentURL, cfg.Session.Timeout, logger),
		session.NewHTTPValidator(cfg.Session.ProbeURL, cfg.HTTP.UserAgent, cfg.HTTP.Timeout),
		logger,
	)

	sources, err := lyrics.BuildSources(cfg.Sources, fetcher, sess, logger)
	if err != nil {
		return nil, nil, err
	}

	var store cache.Cache
	if cfg.Cache.Enabled {
		store = cache.NewLayeredCache(cfg.Cache.MemoryTTL, session.ExpandHome(cfg.Cache.Dir), cfg.Cache.DiskTTL)
	}

	orchestrator := lyrics.NewOrchestrator(sources, cfg.Sources, store, cfg.Cache.DiskTTL, logger)

	analyzer, err := analysis.NewAnalyzer(cfg.Analysis, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("build analyzer: %w", err)
	}

	client, err := assess.NewOpenAIClient(cfg.LLM)
	if err != nil {
		return nil, nil, fmt.Errorf("build assessment client: %w", err)
	}
	assessor := assess.NewAssessor(client, cfg.LLM, logger)

	return pipeline.New(orchestrator, analyzer, assessor, cfg.Analysis, logger), logger, nil
}
