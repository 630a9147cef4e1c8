package ports

import (
	"kalpha/domain/reliability"
)

// RatingData is a rating matrix loaded from an external source, with optional labels
type RatingData struct {
	Source      string             // File path or other origin
	Matrix      reliability.Matrix // Rows = items, columns = raters
	ItemLabels  []string           // Per-row labels when the source carried them
	RaterLabels []string           // Per-column labels from a header row
}

// RatingReader loads a rating matrix. Implementations must fail loudly on
// unreadable input rather than return silently wrong data.
type RatingReader interface {
	ReadRatings() (*RatingData, error)
}

// ResultWriter persists a computed result bundle in a specific format
type ResultWriter interface {
	Format() string
	Write(path string) error
}
