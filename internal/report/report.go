// Package report ranks symbols by momentum against a moving-average column of
// the combined dataset.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"TickerVault/internal/assembler"
)

// Horizons are the look-back windows, in calendar days, for the delta columns.
var Horizons = []int{10, 20, 30, 60, 90, 180}

// Entry is one symbol's momentum summary. A delta is the percentage move of
// the column value since the given horizon.
type Entry struct {
	Symbol     string
	Latest     float64
	LatestDate time.Time
	Min        float64
	Max        float64
	Deltas     map[int]float64 // horizon days -> percent delta, NaN when unavailable
}

// Build computes momentum entries from a combined table using the given value
// column.
func Build(t *assembler.Table, column string) ([]Entry, error) {
	found := false
	for _, c := range t.Columns {
		if c == column {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("column %q not in table (have %s)", column, strings.Join(t.Columns, ", "))
	}

	// Rows are sorted by (symbol, date), so symbols come out in contiguous runs.
	bySymbol := make(map[string][]assembler.Row)
	var order []string
	for _, row := range t.Rows {
		if _, ok := bySymbol[row.Symbol]; !ok {
			order = append(order, row.Symbol)
		}
		bySymbol[row.Symbol] = append(bySymbol[row.Symbol], row)
	}

	entries := make([]Entry, 0, len(order))
	for _, sym := range order {
		rows := bySymbol[sym]

		e := Entry{
			Symbol: sym,
			Latest: math.NaN(),
			Min:    math.NaN(),
			Max:    math.NaN(),
			Deltas: make(map[int]float64, len(Horizons)),
		}
		for _, row := range rows {
			v, ok := row.Values[column]
			if !ok || math.IsNaN(v) {
				continue
			}
			e.Latest = v
			e.LatestDate = row.Date
			if math.IsNaN(e.Min) || v < e.Min {
				e.Min = v
			}
			if math.IsNaN(e.Max) || v > e.Max {
				e.Max = v
			}
		}

		for _, h := range Horizons {
			e.Deltas[h] = delta(rows, column, e.Latest, e.LatestDate.AddDate(0, 0, -h))
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// delta returns the percent move of latest against the last defined column
// value at or before cutoff.
func delta(rows []assembler.Row, column string, latest float64, cutoff time.Time) float64 {
	if math.IsNaN(latest) || latest == 0 {
		return math.NaN()
	}
	past := math.NaN()
	for _, row := range rows {
		if row.Date.After(cutoff) {
			break
		}
		if v, ok := row.Values[column]; ok && !math.IsNaN(v) {
			past = v
		}
	}
	if math.IsNaN(past) {
		return math.NaN()
	}
	return (latest - past) / latest * 100.0
}

// TopN sorts entries by the given horizon's delta, descending, and returns
// the first n. Entries without a defined delta sort last.
func TopN(entries []Entry, horizon, n int) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].Deltas[horizon], out[j].Deltas[horizon]
		if math.IsNaN(dj) {
			return !math.IsNaN(di)
		}
		if math.IsNaN(di) {
			return false
		}
		return di > dj
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}

// Format renders entries as an aligned text table.
func Format(entries []Entry, column string) string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "symbol\tlatest %s\tdate\tmin\tmax", column)
	for _, h := range Horizons {
		fmt.Fprintf(w, "\t%dd%%", h)
	}
	fmt.Fprintln(w)

	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s",
			e.Symbol, cell(e.Latest), e.LatestDate.Format("2006-01-02"), cell(e.Min), cell(e.Max))
		for _, h := range Horizons {
			fmt.Fprintf(w, "\t%s", cell(e.Deltas[h]))
		}
		fmt.Fprintln(w)
	}
	w.Flush()
	return sb.String()
}

func cell(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}
