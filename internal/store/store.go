// Package store persists raw per-symbol series as JSON files, one per symbol.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"TickerVault/internal/model"
)

// Store reads and writes raw series records under a single directory.
type Store struct {
	Dir string
}

// New creates the store directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &Store{Dir: dir}, nil
}

// Path returns the record file for a symbol.
func (s *Store) Path(symbol string) string {
	return filepath.Join(s.Dir, symbol+".json")
}

// Exists reports whether a record for the symbol is already present.
func (s *Store) Exists(symbol string) bool {
	_, err := os.Stat(s.Path(symbol))
	return err == nil
}

// Save writes a series record. Records are immutable once written; saving
// again replaces the file whole.
func (s *Store) Save(series *model.RawSeries) error {
	data, err := json.MarshalIndent(series, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", series.Meta.Symbol, err)
	}
	if err := os.WriteFile(s.Path(series.Meta.Symbol), data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", series.Meta.Symbol, err)
	}
	return nil
}

// Load reads one record file. The symbol falls back to the file name when the
// record does not carry one.
func (s *Store) Load(path string) (*model.RawSeries, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var series model.RawSeries
	if err := json.Unmarshal(data, &series); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if series.Meta.Symbol == "" {
		series.Meta.Symbol = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if len(series.Bars) == 0 {
		return nil, fmt.Errorf("%s: record has no bars", path)
	}
	series.SortBars()
	return &series, nil
}

// List returns the record files in the store directory, sorted by name.
func (s *Store) List() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(s.Dir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
