package models

// CandidateLink is a search hit that may point at a Reddit thread.
type CandidateLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// CanonicalPost is the normalized unit passed to the language model and
// the sentiment stage: title, body, and at most five top comments ranked
// by score. CreatedAt is epoch milliseconds, 0 when the source carried no
// usable timestamp.
type CanonicalPost struct {
	Title     string   `json:"title"`
	Post      string   `json:"post"`
	Comments  []string `json:"comments"`
	CreatedAt int64    `json:"createdAt,omitempty"`
}
