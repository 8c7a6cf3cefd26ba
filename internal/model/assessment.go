package model

// Category is the moderation outcome for a song
type Category string

const (
	CategoryAppropriate Category = "appropriate" // can be played
	CategoryCaution     Category = "caution"     // requires manual review
	CategoryReject      Category = "reject"      // automatically rejected
)

// ValidCategory reports whether c is one of the known moderation categories
func ValidCategory(c Category) bool {
	switch c {
	case CategoryAppropriate, CategoryCaution, CategoryReject:
		return true
	}
	return false
}

// Well-known concern flags attached to assessments
const (
	FlagNeedsManualReview  = "needs_manual_review"
	FlagExcessiveProfanity = "excessive_profanity"
)

// SentimentAssessment is the structured verdict from the generative-language
// service, or the conservative fallback when the service is unavailable.
type SentimentAssessment struct {
	Category    Category `json:"category"`
	Confidence  float64  `json:"confidence"` // always in [0,1], present even on fallback
	Explanation string   `json:"explanation"`
	Flags       []string `json:"flags,omitempty"`
	Fallback    bool     `json:"fallback,omitempty"` // true when the remote service could not be used
}

// FallbackAssessment is returned when the remote service stays unusable
// after all retries. A moderator must still get a decidable record.
func FallbackAssessment() *SentimentAssessment {
	return &SentimentAssessment{
		Category:    CategoryCaution,
		Confidence:  0.0,
		Explanation: "assessment unavailable",
		Flags:       []string{FlagNeedsManualReview},
		Fallback:    true,
	}
}
