package models

type GoogleSearchResponse struct {
	Items []GoogleSearchItem `json:"items"`
}

type GoogleSearchItem struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}
