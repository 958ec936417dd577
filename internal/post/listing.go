package post

import "time"

// ListingEntry is one row of the index page.
type ListingEntry struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	Description string    `json:"description,omitempty"`
	Categories  []string  `json:"categories,omitempty"`
	ReadingTime int       `json:"estimatedReadingTime"`
	Published   bool      `json:"published"`
}

// Listing returns the index rows for nodes, in the given order.
func Listing(nodes []*Node) []ListingEntry {
	out := make([]ListingEntry, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, ListingEntry{
			Slug:        n.Slug,
			Title:       n.Title,
			Date:        n.Date,
			Description: n.Description,
			Categories:  n.Categories,
			ReadingTime: n.ReadingTime,
			Published:   n.Published,
		})
	}
	return out
}
