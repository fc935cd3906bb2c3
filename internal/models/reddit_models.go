package models

// RedditListing is one listing from a post's .json endpoint. The endpoint
// returns an array of two: the post listing and the comments listing.
type RedditListing struct {
	Kind string            `json:"kind"`
	Data RedditListingData `json:"data"`
}

type RedditListingData struct {
	After    string        `json:"after"`
	Before   string        `json:"before"`
	Children []RedditChild `json:"children"`
}

// RedditChild wraps a typed content node; Kind is "t3" for the post itself
// and "t1" for top-level comments.
type RedditChild struct {
	Kind string     `json:"kind"`
	Data RedditNode `json:"data"`
}

type RedditNode struct {
	ID         string  `json:"id"`
	Subreddit  string  `json:"subreddit"`
	Author     string  `json:"author"`
	Title      string  `json:"title"`
	Selftext   string  `json:"selftext"`
	Body       string  `json:"body"`
	Score      float64 `json:"score"`
	CreatedUTC float64 `json:"created_utc"`
}
