// Package assembler builds the combined dataset from raw per-symbol records:
// load, compute the global date bound, filter, normalize, annotate with moving
// averages, and concatenate.
package assembler

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"TickerVault/internal/calculator"
	"TickerVault/internal/model"
	"TickerVault/internal/store"
)

// FillPolicy names how gaps inside a reindexed series are filled.
type FillPolicy string

const (
	// FillForward carries the most recent earlier observation into a gap:
	// a missing trading day means the last known price still stands. This
	// is the default.
	FillForward FillPolicy = "ffill"
	// FillBackward fills a gap from the next later observation.
	FillBackward FillPolicy = "bfill"
)

// Options control an assembly run.
type Options struct {
	Windows []int      // moving-average windows, in bars
	Drop    []string   // columns excluded from the combined table
	Fill    FillPolicy // gap fill policy, FillForward when empty
}

// Row is one (symbol, date) observation in the combined table.
type Row struct {
	Symbol string
	Date   time.Time
	Values map[string]float64 // column -> value; NaN marks an undefined cell
}

// Table is the combined dataset: every surviving symbol's normalized series,
// concatenated and sorted by (symbol, date).
type Table struct {
	Columns []string
	Rows    []Row
}

// Bound is the intersection of date coverage across all loaded series: the
// latest series start and the earliest series end.
type Bound struct {
	Min time.Time
	Max time.Time
}

// Stats counts what happened during an assembly run.
type Stats struct {
	Loaded  int // records read successfully
	Skipped int // malformed or unreadable records
	Dropped int // series that failed the coverage filter
	Symbols int // series in the combined table
}

// Assembler builds combined tables from a raw record store.
type Assembler struct {
	store *store.Store
	log   *zap.Logger
	opts  Options
}

// New creates an Assembler. Windows are sorted ascending and deduplicated.
func New(st *store.Store, log *zap.Logger, opts Options) (*Assembler, error) {
	if opts.Fill == "" {
		opts.Fill = FillForward
	}
	if opts.Fill != FillForward && opts.Fill != FillBackward {
		return nil, fmt.Errorf("unsupported fill policy %q", opts.Fill)
	}
	seen := make(map[int]bool)
	var windows []int
	for _, w := range opts.Windows {
		if w <= 0 {
			return nil, fmt.Errorf("moving-average window must be positive, got %d", w)
		}
		if !seen[w] {
			seen[w] = true
			windows = append(windows, w)
		}
	}
	sort.Ints(windows)
	opts.Windows = windows
	return &Assembler{store: st, log: log, opts: opts}, nil
}

// Assemble runs the full pipeline and returns the combined table. An empty
// input directory or an empty coverage intersection yields an empty table
// with a logged warning, not an error.
func (a *Assembler) Assemble() (*Table, Stats, error) {
	var stats Stats
	table := &Table{Columns: a.columns()}

	series := a.load(&stats)
	if len(series) == 0 {
		a.log.Warn("no readable records in input directory, combined table will be empty",
			zap.String("dir", a.store.Dir))
		return table, stats, nil
	}

	bound := ComputeBound(series)
	if bound.Min.After(bound.Max) {
		a.log.Warn("date coverage across symbols has empty intersection, combined table will be empty",
			zap.String("latest_start", bound.Min.Format("2006-01-02")),
			zap.String("earliest_end", bound.Max.Format("2006-01-02")))
		stats.Dropped = len(series)
		return table, stats, nil
	}
	a.log.Info("global date bound",
		zap.String("min", bound.Min.Format("2006-01-02")),
		zap.String("max", bound.Max.Format("2006-01-02")))

	survivors := a.filter(series, bound, &stats)
	if len(survivors) == 0 {
		a.log.Warn("no series covers the global date range, combined table will be empty")
		return table, stats, nil
	}

	for _, s := range survivors {
		rows := a.normalize(s, bound)
		table.Rows = append(table.Rows, rows...)
		stats.Symbols++
	}
	// Survivors come out symbol-sorted with dates ascending, so the table is
	// already ordered by (symbol, date).
	return table, stats, nil
}

func (a *Assembler) load(stats *Stats) map[string]*model.RawSeries {
	files, err := a.store.List()
	if err != nil {
		a.log.Warn("listing input directory failed", zap.Error(err))
		return nil
	}
	out := make(map[string]*model.RawSeries)
	for _, path := range files {
		s, err := a.store.Load(path)
		if err != nil {
			stats.Skipped++
			a.log.Warn("skipping unreadable record", zap.String("file", path), zap.Error(err))
			continue
		}
		out[s.Meta.Symbol] = s
		stats.Loaded++
	}
	return out
}

// ComputeBound returns the intersection of coverage across all series:
// the maximum of the per-series minimum dates and the minimum of the
// per-series maximum dates.
func ComputeBound(series map[string]*model.RawSeries) Bound {
	var b Bound
	first := true
	for _, s := range series {
		min, max := s.MinDate(), s.MaxDate()
		if first {
			b = Bound{Min: min, Max: max}
			first = false
			continue
		}
		if min.After(b.Min) {
			b.Min = min
		}
		if max.Before(b.Max) {
			b.Max = max
		}
	}
	return b
}

// filter drops series whose own coverage does not contain the global bound.
// A partial series would otherwise punch misaligned gaps into the combined
// table; uniform coverage is worth losing symbols over.
func (a *Assembler) filter(series map[string]*model.RawSeries, b Bound, stats *Stats) []*model.RawSeries {
	syms := make([]string, 0, len(series))
	for sym := range series {
		syms = append(syms, sym)
	}
	sort.Strings(syms)

	var out []*model.RawSeries
	for _, sym := range syms {
		s := series[sym]
		if s.MinDate().After(b.Min) || s.MaxDate().Before(b.Max) {
			stats.Dropped++
			a.log.Warn("dropping symbol, does not cover the global date range",
				zap.String("symbol", sym),
				zap.String("min", s.MinDate().Format("2006-01-02")),
				zap.String("max", s.MaxDate().Format("2006-01-02")))
			continue
		}
		out = append(out, s)
	}
	return out
}

// normalize reindexes one series onto the business-day calendar spanning the
// global bound, fills gaps per the configured policy, and appends the
// moving-average columns. Every surviving symbol therefore covers the exact
// same dates in the combined table.
func (a *Assembler) normalize(s *model.RawSeries, b Bound) []Row {
	dates := BusinessDays(b.Min, b.Max)
	filled := a.fill(s, dates)

	closes := make([]float64, len(filled))
	for i, bar := range filled {
		closes[i] = bar.Close
	}
	mas := make(map[string][]float64, len(a.opts.Windows))
	for _, w := range a.opts.Windows {
		ma, err := calculator.RollingMean(closes, w)
		if err != nil {
			// windows are validated in New
			a.log.Warn("moving average failed", zap.String("symbol", s.Meta.Symbol), zap.Error(err))
			continue
		}
		mas[fmt.Sprintf("MA_%d", w)] = ma
	}

	rows := make([]Row, len(dates))
	for i, d := range dates {
		values := make(map[string]float64, len(a.columns()))
		base := map[string]float64{
			"Open":   filled[i].Open,
			"High":   filled[i].High,
			"Low":    filled[i].Low,
			"Close":  filled[i].Close,
			"Volume": filled[i].Volume,
		}
		for _, col := range a.columns() {
			if v, ok := base[col]; ok {
				values[col] = v
			} else if ma, ok := mas[col]; ok {
				values[col] = ma[i]
			}
		}
		rows[i] = Row{Symbol: s.Meta.Symbol, Date: d, Values: values}
	}
	return rows
}

// fill maps the series onto the given dates. Gap values come from the nearest
// earlier bar (forward fill) or the nearest later bar (backward fill); bars
// outside the date range still seed the fill, so a series that passed the
// coverage filter never produces an empty cell.
func (a *Assembler) fill(s *model.RawSeries, dates []time.Time) []model.Bar {
	filled := make([]model.Bar, len(dates))
	switch a.opts.Fill {
	case FillBackward:
		i := len(s.Bars) - 1
		var cur model.Bar
		for di := len(dates) - 1; di >= 0; di-- {
			for i >= 0 && !model.Day(s.Bars[i].Date).Before(dates[di]) {
				cur = s.Bars[i]
				i--
			}
			filled[di] = cur
		}
	default: // FillForward
		i := 0
		var cur model.Bar
		for di, d := range dates {
			for i < len(s.Bars) && !model.Day(s.Bars[i].Date).After(d) {
				cur = s.Bars[i]
				i++
			}
			filled[di] = cur
		}
	}
	return filled
}

// columns returns the value columns of the combined table, in order, with the
// exclusion list applied.
func (a *Assembler) columns() []string {
	base := []string{"Open", "High", "Low", "Close", "Volume"}
	for _, w := range a.opts.Windows {
		base = append(base, fmt.Sprintf("MA_%d", w))
	}
	dropped := make(map[string]bool, len(a.opts.Drop))
	for _, c := range a.opts.Drop {
		dropped[c] = true
	}
	out := make([]string, 0, len(base))
	for _, c := range base {
		if !dropped[c] {
			out = append(out, c)
		}
	}
	return out
}

// BusinessDays returns every Monday-Friday calendar date in [start, end].
func BusinessDays(start, end time.Time) []time.Time {
	var out []time.Time
	for d := model.Day(start); !d.After(model.Day(end)); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		out = append(out, d)
	}
	return out
}
