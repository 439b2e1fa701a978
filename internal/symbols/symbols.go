// Package symbols loads and produces ticker symbol lists.
package symbols

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strings"
)

// Load reads ticker symbols from a CSV file with a "Symbol" column.
// Duplicates and blank entries are dropped; input order is preserved.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open symbol list: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse symbol list %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("symbol list %s is empty", path)
	}

	col := -1
	for i, name := range records[0] {
		if strings.TrimSpace(name) == "Symbol" {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("no Symbol column in %s", path)
	}

	seen := make(map[string]bool)
	var syms []string
	for _, rec := range records[1:] {
		if col >= len(rec) {
			continue
		}
		sym := strings.TrimSpace(rec[col])
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true
		syms = append(syms, sym)
	}
	return syms, nil
}

// Subsample draws a deterministic random fraction of the symbols, without
// replacement. The draw order replaces the input order.
func Subsample(syms []string, fraction float64, seed int64) ([]string, error) {
	if fraction <= 0 || fraction > 1 {
		return nil, fmt.Errorf("subsample fraction must be in (0, 1], got %g", fraction)
	}
	n := int(float64(len(syms)) * fraction)
	if n == 0 {
		return nil, fmt.Errorf("no symbols left after subsample fraction %g, pick a larger fraction", fraction)
	}
	out := make([]string, len(syms))
	copy(out, syms)
	r := rand.New(rand.NewSource(seed))
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out[:n], nil
}
