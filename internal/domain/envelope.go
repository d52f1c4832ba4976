package domain

// Envelope is the paginated list response wrapper the backend returns for
// every list and search endpoint. Count is the total across all pages, not
// len(Results); Next and Previous are opaque cursors (or null at the edges).
type Envelope[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}
