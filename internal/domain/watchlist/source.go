package watchlist

import "context"

// Source yields the raw watchlist, already cleaned of non-code values.
type Source interface {
	Codes(ctx context.Context) ([]string, error)
}
