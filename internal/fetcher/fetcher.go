// Package fetcher downloads historical price data for a symbol list through a
// bounded worker pool and persists one raw record per symbol.
package fetcher

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"TickerVault/internal/model"
	"TickerVault/internal/provider"
	"TickerVault/internal/store"
)

// State tracks a symbol through the download lifecycle.
type State int

const (
	StatePending State = iota
	StateAttempting
	StateRetrying
	StateDone
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateAttempting:
		return "attempting"
	case StateRetrying:
		return "retrying"
	case StateDone:
		return "done"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Options control a download run.
type Options struct {
	Start      time.Time
	End        time.Time
	Threads    int
	Delay      time.Duration // pause after each request, to stay under provider rate limits
	Retries    int           // total attempts per symbol
	RetryDelay time.Duration
	Force      bool // re-download symbols already in the store
}

// Result is the terminal record for one symbol.
type Result struct {
	Symbol   string
	State    State
	Attempts int
	Cached   bool
	Err      error
}

// Summary aggregates a whole run. The number of output records never exceeds
// the number of requested symbols; failed symbols simply contribute none.
type Summary struct {
	Requested int
	Fetched   int
	Cached    int
	Failed    int
	Failures  []Result
	Started   time.Time
	Finished  time.Time
}

// Fetcher downloads symbols from a provider into a store.
type Fetcher struct {
	provider provider.Provider
	store    *store.Store
	log      *zap.Logger
	opts     Options
}

// New creates a Fetcher. Thread and retry counts are clamped to at least one.
func New(p provider.Provider, st *store.Store, log *zap.Logger, opts Options) *Fetcher {
	if opts.Threads <= 0 {
		opts.Threads = 1
	}
	if opts.Retries <= 0 {
		opts.Retries = 1
	}
	return &Fetcher{provider: p, store: st, log: log, opts: opts}
}

// FetchAll distributes the symbols across the worker pool. Individual
// failures are retried, then logged and skipped; the run itself always
// completes and never returns an error.
func (f *Fetcher) FetchAll(ctx context.Context, syms []string) *Summary {
	sum := &Summary{Requested: len(syms), Started: time.Now()}

	jobs := make(chan string)
	results := make(chan Result)

	var wg sync.WaitGroup
	for i := 0; i < f.opts.Threads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sym := range jobs {
				results <- f.fetchOne(ctx, sym)
				select {
				case <-ctx.Done():
				case <-time.After(f.opts.Delay):
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, sym := range syms {
			select {
			case jobs <- sym:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		switch {
		case res.State == StateDone && res.Cached:
			sum.Cached++
		case res.State == StateDone:
			sum.Fetched++
		default:
			sum.Failed++
			sum.Failures = append(sum.Failures, res)
		}
	}
	sum.Finished = time.Now()
	return sum
}

// fetchOne walks a single symbol through the retry state machine:
// Pending -> Attempting -> (Done | Retrying -> Attempting | Exhausted).
func (f *Fetcher) fetchOne(ctx context.Context, symbol string) Result {
	res := Result{Symbol: symbol, State: StatePending}

	if !f.opts.Force && f.store.Exists(symbol) {
		f.log.Debug("record already present, skipping", zap.String("symbol", symbol))
		res.State = StateDone
		res.Cached = true
		return res
	}

	for res.Attempts < f.opts.Retries {
		res.State = StateAttempting
		res.Attempts++

		bars, err := f.provider.FetchHistory(ctx, symbol, f.opts.Start, f.opts.End)
		if err == nil {
			series := &model.RawSeries{
				Meta: model.Meta{
					Symbol:    symbol,
					Source:    f.provider.Name(),
					Start:     f.opts.Start.Format("2006-01-02"),
					End:       f.opts.End.Format("2006-01-02"),
					FetchedAt: time.Now().UTC(),
				},
				Bars: bars,
			}
			if err := f.store.Save(series); err != nil {
				res.State = StateExhausted
				res.Err = err
				f.log.Error("saving record failed",
					zap.String("symbol", symbol), zap.Error(err))
				return res
			}
			res.State = StateDone
			res.Err = nil
			return res
		}
		res.Err = err

		if errors.Is(err, provider.ErrNoData) {
			f.log.Warn("no data for symbol in range",
				zap.String("symbol", symbol),
				zap.String("start", f.opts.Start.Format("2006-01-02")),
				zap.String("end", f.opts.End.Format("2006-01-02")))
			res.State = StateExhausted
			return res
		}

		f.log.Error("download failed",
			zap.String("symbol", symbol),
			zap.Int("attempt", res.Attempts),
			zap.Int("max_attempts", f.opts.Retries),
			zap.Error(err))

		if res.Attempts < f.opts.Retries {
			res.State = StateRetrying
			select {
			case <-ctx.Done():
				res.State = StateExhausted
				return res
			case <-time.After(f.opts.RetryDelay):
			}
		}
	}

	res.State = StateExhausted
	f.log.Error("giving up on symbol",
		zap.String("symbol", symbol),
		zap.Int("attempts", res.Attempts),
		zap.Error(res.Err))
	return res
}
