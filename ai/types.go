package ai

// Sentiment is the outcome of a sentiment classification.
type Sentiment struct {
	// Label is the raw model label, one of SentimentLabels.
	Label string

	// Confidence is the model's confidence in the label, in [0, 1].
	Confidence float64
}

// SentimentLabels defines the valid raw labels a classifier may return.
var SentimentLabels = []string{
	"positive",
	"negative",
	"neutral",
}
