package disclosure

import (
	"context"
	"time"
)

// Source fetches the document list for a single calendar date.
// A failed fetch is an error; an empty slice means no disclosures that day.
type Source interface {
	Documents(ctx context.Context, date time.Time) ([]Record, error)
}
