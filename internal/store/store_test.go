package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TickerVault/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st, err := New(t.TempDir())
	require.NoError(t, err)

	series := &model.RawSeries{
		Meta: model.Meta{Symbol: "AAPL", Source: "mock", Start: "2020-01-01", End: "2020-01-31"},
		Bars: []model.Bar{
			{Date: day(2020, 1, 3), Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 1000},
			{Date: day(2020, 1, 2), Open: 9, High: 10, Low: 8, Close: 9.5, Volume: 900},
		},
	}
	require.NoError(t, st.Save(series))
	assert.True(t, st.Exists("AAPL"))

	got, err := st.Load(st.Path("AAPL"))
	require.NoError(t, err)
	assert.Equal(t, "AAPL", got.Meta.Symbol)
	require.Len(t, got.Bars, 2)
	// Load sorts chronologically regardless of stored order.
	assert.Equal(t, day(2020, 1, 2), got.Bars[0].Date)
	assert.Equal(t, day(2020, 1, 3), got.Bars[1].Date)
}

func TestLoad_SymbolFallsBackToFileName(t *testing.T) {
	st, err := New(t.TempDir())
	require.NoError(t, err)

	data := `{"meta":{},"bars":[{"date":"2020-01-02T00:00:00Z","close":5}]}`
	require.NoError(t, os.WriteFile(st.Path("MSFT"), []byte(data), 0644))

	got, err := st.Load(st.Path("MSFT"))
	require.NoError(t, err)
	assert.Equal(t, "MSFT", got.Meta.Symbol)
}

func TestLoad_Malformed(t *testing.T) {
	st, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(st.Path("BAD"), []byte("not json"), 0644))
	_, err = st.Load(st.Path("BAD"))
	assert.Error(t, err)
}

func TestLoad_NoBars(t *testing.T) {
	st, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(st.Path("EMPTY"), []byte(`{"meta":{"symbol":"EMPTY"},"bars":[]}`), 0644))
	_, err = st.Load(st.Path("EMPTY"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no bars")
}

func TestList_Sorted(t *testing.T) {
	dir := t.TempDir()
	st, err := New(dir)
	require.NoError(t, err)

	for _, sym := range []string{"ZZZ", "AAA", "MMM"} {
		require.NoError(t, st.Save(&model.RawSeries{
			Meta: model.Meta{Symbol: sym},
			Bars: []model.Bar{{Date: day(2020, 1, 2), Close: 1}},
		}))
	}
	// Non-record files are not listed.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	files, err := st.List()
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, st.Path("AAA"), files[0])
	assert.Equal(t, st.Path("MMM"), files[1])
	assert.Equal(t, st.Path("ZZZ"), files[2])
}
