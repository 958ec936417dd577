package post

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// PostDateLayout renders dates as "January 02, 2006".
const PostDateLayout = "January 02, 2006"

// FormatPostDate renders a post date for pages and listings. Undated posts render empty.
func FormatPostDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(PostDateLayout)
}

// FormatReadingTime renders minutes as cups of coffee, or bento boxes for long reads,
// followed by "{m} min read". Zero minutes is shown as the default estimate.
func FormatReadingTime(minutes int) string {
	if minutes <= 0 {
		minutes = DefaultReadingTime
	}
	cups := int(math.Round(float64(minutes) / 5))
	if cups > 5 {
		boxes := int(math.Round(float64(cups) / math.E))
		return fmt.Sprintf("%s %d min read", strings.Repeat("🍱", boxes), minutes)
	}
	if cups < 1 {
		cups = 1
	}
	return fmt.Sprintf("%s %d min read", strings.Repeat("☕️", cups), minutes)
}

// ReadingTimeLabel is the plain "{m} min read" label used in metadata.
func ReadingTimeLabel(minutes int) string {
	if minutes <= 0 {
		minutes = DefaultReadingTime
	}
	return fmt.Sprintf("%d min read", minutes)
}
