package provider

import (
	"context"
	"errors"
	"time"

	"TickerVault/internal/model"
)

// ErrNoData reports that the provider had no bars for the requested range.
// It is a definitive answer, not a transient fault, and is never retried.
var ErrNoData = errors.New("no data in range")

// Provider fetches historical daily price bars for one symbol.
type Provider interface {
	FetchHistory(ctx context.Context, symbol string, start, end time.Time) ([]model.Bar, error)
	Name() string
}
