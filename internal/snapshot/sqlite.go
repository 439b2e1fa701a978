// Package snapshot serializes the combined table as a SQLite database file,
// the binary tabular format downstream analysis reads.
package snapshot

import (
	"database/sql"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"TickerVault/internal/assembler"
	"TickerVault/internal/model"
)

const tableName = "bars"

// Write replaces path with a snapshot of t. The snapshot is rebuilt from
// scratch on every run, so identical inputs produce an identical file.
// NaN cells are stored as NULL.
func Write(path string, t *assembler.Table) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove old snapshot: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open snapshot: %w", err)
	}
	defer db.Close()

	cols := []string{"symbol TEXT NOT NULL", "date TEXT NOT NULL"}
	for _, c := range t.Columns {
		cols = append(cols, fmt.Sprintf("%q REAL", c))
	}
	ddl := fmt.Sprintf("CREATE TABLE %s (%s, PRIMARY KEY (symbol, date))",
		tableName, strings.Join(cols, ", "))
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create snapshot table: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(t.Columns)+2), ",")
	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s VALUES (%s)", tableName, placeholders))
	if err != nil {
		return fmt.Errorf("prepare snapshot insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range t.Rows {
		args := make([]interface{}, 0, len(t.Columns)+2)
		args = append(args, row.Symbol, row.Date.Format("2006-01-02"))
		for _, c := range t.Columns {
			v, ok := row.Values[c]
			if !ok || math.IsNaN(v) {
				args = append(args, nil)
			} else {
				args = append(args, v)
			}
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("insert snapshot row: %w", err)
		}
	}
	return tx.Commit()
}

// Read loads a snapshot back into memory, NULL cells becoming NaN.
func Read(path string) (*assembler.Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(fmt.Sprintf("SELECT * FROM %s ORDER BY symbol, date", tableName))
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	if len(cols) < 2 {
		return nil, fmt.Errorf("snapshot table %s has unexpected shape", tableName)
	}
	t := &assembler.Table{Columns: cols[2:]}

	for rows.Next() {
		var symbol, date string
		values := make([]sql.NullFloat64, len(t.Columns))
		dest := make([]interface{}, 0, len(cols))
		dest = append(dest, &symbol, &date)
		for i := range values {
			dest = append(dest, &values[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		d, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, fmt.Errorf("parse snapshot date %q: %w", date, err)
		}
		row := assembler.Row{Symbol: symbol, Date: model.Day(d), Values: make(map[string]float64, len(t.Columns))}
		for i, c := range t.Columns {
			if values[i].Valid {
				row.Values[c] = values[i].Float64
			} else {
				row.Values[c] = math.NaN()
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, rows.Err()
}
