package models

const (
	LabelPositive = "positive"
	LabelNeutral  = "neutral"
	LabelNegative = "negative"
)

// SentimentPoint is one scored, timestamped datum per canonical post,
// ordered by Timestamp for charting.
type SentimentPoint struct {
	Timestamp int64   `json:"timestamp"`
	Score     float64 `json:"score"`
	Magnitude float64 `json:"magnitude"`
	Label     string  `json:"label"`
	Title     string  `json:"title"`
}
