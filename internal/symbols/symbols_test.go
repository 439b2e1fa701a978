package symbols

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "symbols.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeCSV(t, "Symbol,Security Name\nAAPL,Apple Inc.\nMSFT,Microsoft\nAAPL,Apple again\n,blank\n")

	syms, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, syms)
}

func TestLoad_NoSymbolColumn(t *testing.T) {
	path := writeCSV(t, "Ticker,Name\nAAPL,Apple\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no Symbol column")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestSubsample_Deterministic(t *testing.T) {
	syms := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}

	a, err := Subsample(syms, 0.5, 42)
	require.NoError(t, err)
	b, err := Subsample(syms, 0.5, 42)
	require.NoError(t, err)

	assert.Len(t, a, 5)
	assert.Equal(t, a, b)

	c, err := Subsample(syms, 0.5, 7)
	require.NoError(t, err)
	assert.Len(t, c, 5)
}

func TestSubsample_NoReplacement(t *testing.T) {
	syms := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	out, err := Subsample(syms, 1.0, 1)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, s := range out {
		assert.False(t, seen[s], "symbol %s drawn twice", s)
		seen[s] = true
	}
	assert.Len(t, out, len(syms))
}

func TestSubsample_TooSmallFraction(t *testing.T) {
	_, err := Subsample([]string{"A", "B"}, 0.1, 42)
	assert.Error(t, err)

	_, err = Subsample([]string{"A", "B"}, 0, 42)
	assert.Error(t, err)

	_, err = Subsample([]string{"A", "B"}, 1.5, 42)
	assert.Error(t, err)
}

const sampleListing = `Symbol|Security Name|Market Category|Test Issue|Financial Status|Round Lot Size|ETF|NextShares
AACB|Artius II Acquisition Inc. - Class A Ordinary Shares|G|N|N|100|N|N
AAPL|Apple Inc. - Common Stock|Q|N|N|100|N|N
QQQ|Invesco QQQ Trust, Series 1|G|N|N|100|Y|N
ZXZZT|NASDAQ TEST STOCK|G|Y|N|100|N|N
File Creation Time: 0822202517:30|||||||
`

func TestParseListing(t *testing.T) {
	listings, err := ParseListing(strings.NewReader(sampleListing))
	require.NoError(t, err)
	require.Len(t, listings, 4)

	assert.Equal(t, "AACB", listings[0].Symbol)
	assert.Equal(t, "Apple Inc. - Common Stock", listings[1].SecurityName)
	assert.True(t, listings[2].ETF)
	assert.True(t, listings[3].TestIssue)
}

func TestParseListing_BadHeader(t *testing.T) {
	_, err := ParseListing(strings.NewReader("Ticker|Name\nAAPL|Apple\n"))
	assert.Error(t, err)
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	listings, err := ParseListing(strings.NewReader(sampleListing))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.csv")
	n, err := WriteCSV(path, listings, false)
	require.NoError(t, err)
	assert.Equal(t, 3, n) // test issue excluded

	syms, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"AACB", "AAPL", "QQQ"}, syms)
}
