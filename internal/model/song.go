package model

import "time"

// SongRequest identifies one song to assess. Immutable per pipeline run.
type SongRequest struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// SourceKind identifies which adapter produced a lyrics result
type SourceKind string

const (
	SourceSearchEngine SourceKind = "search_engine" // web-search scoped to known lyrics sites
	SourceDirectSite   SourceKind = "direct_site"   // direct request against a lyrics site
	SourceVideoCaption SourceKind = "video_caption" // video transcript fallback
	SourceNone         SourceKind = "none"          // no adapter succeeded
)

// LyricsResult is the outcome of one orchestrator fetch
type LyricsResult struct {
	Text   string     `json:"text,omitempty"`
	Source SourceKind `json:"source"`
	Found  bool       `json:"found"`
}

// Status summarizes how far the pipeline got for a song
type Status string

const (
	StatusComplete       Status = "complete"
	StatusLyricsNotFound Status = "lyrics_not_found"
	StatusAnalysisFailed Status = "analysis_failed"
)

// SongAssessment is the final per-song record handed to the consumer.
// Constructed once per pipeline run and never mutated afterwards.
type SongAssessment struct {
	Request     SongRequest          `json:"request"`
	Lyrics      LyricsResult         `json:"lyrics"`
	Analysis    *AnalysisResult      `json:"analysis,omitempty"`
	Sentiment   *SentimentAssessment `json:"sentiment,omitempty"`
	Status      Status               `json:"status"`
	ProcessedAt time.Time            `json:"processed_at"`
}
