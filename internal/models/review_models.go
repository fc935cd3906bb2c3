package models

// ProductReview is the strict-JSON object the review prompt demands from
// the model.
type ProductReview struct {
	Rating      int      `json:"rating"`
	Pros        []string `json:"pros"`
	Cons        []string `json:"cons"`
	Description string   `json:"description"`
}
