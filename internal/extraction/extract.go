package extraction

import (
	"math"
	"sort"
	"strings"

	"redditpulse/internal/models"
)

const MAX_COMMENTS = 5

// ExtractPostCore reduces a thread's raw listings to the canonical
// {title, post, comments} record. It is a pure transform with no failure
// path: malformed input degrades to empty fields.
func ExtractPostCore(listings []models.RedditListing) models.CanonicalPost {
	post := models.CanonicalPost{Comments: []string{}}
	if len(listings) == 0 {
		return post
	}

	primary := primaryNode(listings[0])
	post.Title = primary.Title
	post.Post = primary.Selftext
	if primary.CreatedUTC > 0 {
		post.CreatedAt = int64(primary.CreatedUTC * 1000)
	}

	if len(listings) > 1 {
		post.Comments = topComments(listings[1])
	}

	return post
}

// primaryNode picks the first t3 child, falling back to the first child of
// any kind when the post node is untagged.
func primaryNode(listing models.RedditListing) models.RedditNode {
	children := listing.Data.Children
	for _, child := range children {
		if child.Kind == "t3" {
			return child.Data
		}
	}
	if len(children) > 0 {
		return children[0].Data
	}
	return models.RedditNode{}
}

type rankedComment struct {
	body  string
	score float64
}

// topComments cleans the t1 children and keeps the five highest-scored
// bodies. Deleted, removed, and blank comments are dropped regardless of
// score.
func topComments(listing models.RedditListing) []string {
	var survivors []rankedComment
	for _, child := range listing.Data.Children {
		if child.Kind != "t1" {
			continue
		}

		body := strings.TrimSpace(child.Data.Body)
		if body == "" {
			continue
		}
		if lower := strings.ToLower(body); lower == "[deleted]" || lower == "[removed]" {
			continue
		}

		score := child.Data.Score
		if math.IsNaN(score) || math.IsInf(score, 0) {
			score = 0
		}
		survivors = append(survivors, rankedComment{body: body, score: score})
	}

	sort.SliceStable(survivors, func(i, j int) bool {
		return survivors[i].score > survivors[j].score
	})
	if len(survivors) > MAX_COMMENTS {
		survivors = survivors[:MAX_COMMENTS]
	}

	bodies := make([]string, 0, len(survivors))
	for _, c := range survivors {
		bodies = append(bodies, c.body)
	}
	return bodies
}
