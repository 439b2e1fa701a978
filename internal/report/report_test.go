package report

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TickerVault/internal/assembler"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// tableFor builds a single-column table with one row per entry, dates spaced
// one calendar day apart ending at end.
func tableFor(column string, end time.Time, symbols map[string][]float64) *assembler.Table {
	t := &assembler.Table{Columns: []string{column}}
	for sym, vals := range symbols {
		start := end.AddDate(0, 0, -(len(vals) - 1))
		for i, v := range vals {
			t.Rows = append(t.Rows, assembler.Row{
				Symbol: sym,
				Date:   start.AddDate(0, 0, i),
				Values: map[string]float64{column: v},
			})
		}
	}
	return t
}

func TestBuild_UnknownColumn(t *testing.T) {
	table := tableFor("MA_10", day(2024, 6, 1), map[string][]float64{"AAA": {1, 2}})
	_, err := Build(table, "MA_99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MA_99")
}

func TestBuild_LatestMinMax(t *testing.T) {
	vals := []float64{math.NaN(), 5, 2, 9, 4}
	table := tableFor("Close", day(2024, 6, 1), map[string][]float64{"AAA": vals})

	entries, err := Build(table, "Close")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "AAA", e.Symbol)
	assert.Equal(t, 4.0, e.Latest)
	assert.Equal(t, day(2024, 6, 1), e.LatestDate)
	assert.Equal(t, 2.0, e.Min)
	assert.Equal(t, 9.0, e.Max)
}

func TestBuild_DeltaMath(t *testing.T) {
	// 31 values ending 2024-06-01: value on day i is 100+i, so the value
	// 10 calendar days before the latest (130) is 120.
	vals := make([]float64, 31)
	for i := range vals {
		vals[i] = 100 + float64(i)
	}
	table := tableFor("MA_10", day(2024, 6, 1), map[string][]float64{"AAA": vals})

	entries, err := Build(table, "MA_10")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.InDelta(t, (130.0-120.0)/130.0*100, e.Deltas[10], 1e-9)
	assert.InDelta(t, (130.0-110.0)/130.0*100, e.Deltas[20], 1e-9)
	assert.InDelta(t, (130.0-100.0)/130.0*100, e.Deltas[30], 1e-9)
	// Series is shorter than these horizons.
	assert.True(t, math.IsNaN(e.Deltas[60]))
	assert.True(t, math.IsNaN(e.Deltas[180]))
}

func TestBuild_AllNaNSeries(t *testing.T) {
	table := tableFor("MA_10", day(2024, 6, 1),
		map[string][]float64{"AAA": {math.NaN(), math.NaN()}})

	entries, err := Build(table, "MA_10")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, math.IsNaN(entries[0].Latest))
	for _, h := range Horizons {
		assert.True(t, math.IsNaN(entries[0].Deltas[h]))
	}
}

func TestTopN(t *testing.T) {
	entries := []Entry{
		{Symbol: "FLAT", Deltas: map[int]float64{30: 0}},
		{Symbol: "UP", Deltas: map[int]float64{30: 12.5}},
		{Symbol: "NAN", Deltas: map[int]float64{30: math.NaN()}},
		{Symbol: "DOWN", Deltas: map[int]float64{30: -3}},
	}

	top := TopN(entries, 30, 3)
	require.Len(t, top, 3)
	assert.Equal(t, "UP", top[0].Symbol)
	assert.Equal(t, "FLAT", top[1].Symbol)
	assert.Equal(t, "DOWN", top[2].Symbol)

	all := TopN(entries, 30, 10)
	require.Len(t, all, 4)
	assert.Equal(t, "NAN", all[3].Symbol, "undefined deltas sort last")
}

func TestFormat(t *testing.T) {
	entries := []Entry{{
		Symbol:     "AAA",
		Latest:     12.345,
		LatestDate: day(2024, 6, 1),
		Min:        10,
		Max:        15,
		Deltas:     map[int]float64{10: 1.5, 20: math.NaN()},
	}}

	out := Format(entries, "MA_10")
	assert.Contains(t, out, "AAA")
	assert.Contains(t, out, "12.35")
	assert.Contains(t, out, "2024-06-01")
	assert.Contains(t, out, "-") // NaN cell
}
