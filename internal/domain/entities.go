package domain

// Document is a single knowledge-base article. The ID doubles as the vector
// store key and equals the source filename.
type Document struct {
	ID      string
	Content string
	Source  string
}

// RetrievedPassage is one ranked retrieval hit for a query. Snippet is a
// display-only preview; Content carries the full text for grounding.
type RetrievedPassage struct {
	Rank      int     `json:"rank"`
	Source    string  `json:"source"`
	Snippet   string  `json:"snippet"`
	Content   string  `json:"-"`
	Relevance float64 `json:"relevance_score"`
	Distance  float64 `json:"distance"`
}

// Emotion labels recognised by the sentiment analyzer.
const (
	EmotionFrustrated = "frustrated"
	EmotionConfused   = "confused"
	EmotionNeutral    = "neutral"
	EmotionPositive   = "positive"
)

// Urgency labels recognised by the sentiment analyzer.
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

// Intent labels produced by the intent classifier.
const (
	IntentFAQ             = "faq"
	IntentComplaint       = "complaint"
	IntentTroubleshooting = "troubleshooting"
	IntentUnknown         = "unknown"
)

// Sentiment describes the emotional state of a support query.
// Satisfaction is clamped to [1, 10].
type Sentiment struct {
	Emotion      string `json:"emotion"`
	Urgency      string `json:"urgency"`
	Satisfaction int    `json:"satisfaction"`
}

// DefaultSentiment is the per-field fallback used whenever the upstream
// classifier output cannot be parsed.
func DefaultSentiment() Sentiment {
	return Sentiment{
		Emotion:      EmotionNeutral,
		Urgency:      UrgencyMedium,
		Satisfaction: 5,
	}
}

// Query result statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// QueryResult is the full outcome of handling one support query.
type QueryResult struct {
	Intent    string             `json:"intent"`
	Sentiment Sentiment          `json:"sentiment"`
	Context   []RetrievedPassage `json:"context,omitempty"`
	Response  string             `json:"response"`
	Status    string             `json:"status"`
}

// IntentSample is one labelled example from the intent-training dataset.
type IntentSample struct {
	Text   string
	Intent string
}
