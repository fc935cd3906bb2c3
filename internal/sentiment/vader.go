package sentiment

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"

	"redditpulse/internal/models"
)

var (
	markdownLinkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	bareURLPattern      = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

// Analyzer wraps the VADER lexicon analyzer. It is stateless after
// construction and safe to share; build one and inject it.
type Analyzer struct {
	vader *govader.SentimentIntensityAnalyzer
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{vader: govader.NewSentimentIntensityAnalyzer()}
}

// RemoveLinks strips markdown links (keeping the anchor text) and bare
// URLs, which otherwise pollute token matching.
func RemoveLinks(input string) string {
	input = markdownLinkPattern.ReplaceAllString(input, "$1")
	return bareURLPattern.ReplaceAllString(input, "")
}

func ConvertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plainText := strings.Join(strings.Fields(string(output)), " ")

	return RemoveLinks(plainText)
}

func classify(score float64) string {
	switch {
	case score > 0:
		return models.LabelPositive
	case score < 0:
		return models.LabelNegative
	default:
		return models.LabelNeutral
	}
}

// Series scores each post's combined text and returns one point per post,
// ordered ascending by timestamp for charting. Posts without a creation
// time cluster at the scoring moment.
func (a *Analyzer) Series(posts []models.CanonicalPost) []models.SentimentPoint {
	points := make([]models.SentimentPoint, 0, len(posts))

	for _, post := range posts {
		parts := append([]string{post.Title, post.Post}, post.Comments...)
		text := ConvertMarkdownToText(strings.Join(parts, "\n\n"))

		scores := a.vader.PolarityScores(text)

		timestamp := post.CreatedAt
		if timestamp <= 0 {
			timestamp = time.Now().UnixMilli()
		}

		points = append(points, models.SentimentPoint{
			Timestamp: timestamp,
			Score:     scores.Compound,
			// VADER exposes no per-token valence breakdown; the polar mass
			// it does expose is zero exactly when no lexicon token matched.
			Magnitude: scores.Positive + scores.Negative,
			Label:     classify(scores.Compound),
			Title:     post.Title,
		})
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Timestamp < points[j].Timestamp
	})
	return points
}
