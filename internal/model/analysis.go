package model

// Language is a supported natural language for profanity matching
type Language string

const (
	LangEnglish Language = "en"
	LangPolish  Language = "pl"
	LangUnknown Language = "unknown"
)

// AnalysisResult is the output of the text analysis stage.
// TotalOccurrences always equals the sum of ProfanityMatches values,
// and CleanedText contains no codepoints from the stripped emoji ranges.
type AnalysisResult struct {
	CleanedText      string         `json:"cleaned_text"`
	DetectedLanguage Language       `json:"detected_language"`
	ProfanityMatches map[string]int `json:"profanity_matches,omitempty"` // matched term -> occurrence count
	TotalOccurrences int            `json:"total_occurrences"`
}
