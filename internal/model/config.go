package model

import "time"

// Config is the full process configuration. Loaded once at startup
// (defaults -> config file -> env -> flags) and read-only afterwards.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Sources     SourcesConfig     `yaml:"sources" mapstructure:"sources"`
	Session     SessionConfig     `yaml:"session" mapstructure:"session"`
	Analysis    AnalysisConfig    `yaml:"analysis" mapstructure:"analysis"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
}

// HTTPConfig controls the shared page fetcher
type HTTPConfig struct {
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"` // per-domain
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	RespectRobots     bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// SourcesConfig controls the lyrics orchestrator and its adapters
type SourcesConfig struct {
	// Order is the fixed adapter priority; entries are SourceKind values.
	Order          []string      `yaml:"order" mapstructure:"order"`
	AttemptTimeout time.Duration `yaml:"attempt_timeout" mapstructure:"attempt_timeout"`
	// MinLyricsLength treats shorter adapter output as not found (captions
	// and search snippets produce fragments that are useless to assess).
	MinLyricsLength int `yaml:"min_lyrics_length" mapstructure:"min_lyrics_length"`
	// MaxSearchLinks caps how many search-result links are scraped per attempt.
	MaxSearchLinks int `yaml:"max_search_links" mapstructure:"max_search_links"`
	// CaptionLanguages is the transcript language preference order.
	CaptionLanguages []string `yaml:"caption_languages" mapstructure:"caption_languages"`
}

// SessionConfig controls the direct-site cookie session
type SessionConfig struct {
	CookiePath string        `yaml:"cookie_path" mapstructure:"cookie_path"` // persisted cookie jar location
	ProbeURL   string        `yaml:"probe_url" mapstructure:"probe_url"`     // lightweight validity probe
	ConsentURL string        `yaml:"consent_url" mapstructure:"consent_url"` // page driven during refresh
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`         // refresh flow budget
}

// AnalysisConfig controls the text analysis engine
type AnalysisConfig struct {
	// WordLists maps a language code ("en", "pl") to a newline-delimited
	// word list file. Empty map keeps the built-in lists.
	WordLists map[string]string `yaml:"word_lists" mapstructure:"word_lists"`
	// MinTokens and MinConfidence gate language detection: below either
	// threshold the language is reported as unknown and matching is skipped.
	MinTokens     int     `yaml:"min_tokens" mapstructure:"min_tokens"`
	MinConfidence float64 `yaml:"min_confidence" mapstructure:"min_confidence"`
	// MaxProfanity is the occurrence count above which a song is rejected
	// locally without consulting the generative service.
	MaxProfanity int `yaml:"max_profanity" mapstructure:"max_profanity"`
}

// LLMConfig controls the sentiment assessor's remote service
type LLMConfig struct {
	Model      string        `yaml:"model" mapstructure:"model"`
	APIKey     string        `yaml:"-" mapstructure:"api_key"` // never serialized
	BaseURL    string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxTokens  int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	MaxRetries int           `yaml:"max_retries" mapstructure:"max_retries"`
}

// CacheConfig controls the layered lyrics cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// LoggingConfig controls the structured logger
type LoggingConfig struct {
	Level       string `yaml:"level" mapstructure:"level"`
	Environment string `yaml:"environment" mapstructure:"environment"`
}

// DefaultConfig returns sensible defaults for every knob
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:           15 * time.Second,
			UserAgent:         "songscreen/0.3 (+https://github.com/moderato-fm/songscreen)",
			MaxBodyBytes:      2_000_000,
			RequestsPerSecond: 1.0,
			Burst:             3,
			RespectRobots:     true,
		},
		Sources: SourcesConfig{
			Order: []string{
				string(SourceSearchEngine),
				string(SourceDirectSite),
				string(SourceVideoCaption),
			},
			AttemptTimeout:   20 * time.Second,
			MinLyricsLength:  100,
			MaxSearchLinks:   5,
			CaptionLanguages: []string{"en", "pl"},
		},
		Session: SessionConfig{
			CookiePath: "~/.songscreen/cookies.json",
			ProbeURL:   "https://www.tekstowo.pl/",
			ConsentURL: "https://www.tekstowo.pl/",
			Timeout:    30 * time.Second,
		},
		Analysis: AnalysisConfig{
			WordLists:     map[string]string{},
			MinTokens:     8,
			MinConfidence: 0.60,
			MaxProfanity:  5,
		},
		LLM: LLMConfig{
			Model:      "gpt-4o-mini",
			Timeout:    30 * time.Second,
			MaxTokens:  500,
			MaxRetries: 3,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "~/.songscreen/cache",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Logging: LoggingConfig{
			Level:       "info",
			Environment: "production",
		},
	}
}
