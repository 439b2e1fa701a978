package model

import (
	"sort"
	"time"
)

// Bar is a single daily candlestick.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Meta describes where and when a raw series was downloaded.
type Meta struct {
	Symbol    string    `json:"symbol"`
	Source    string    `json:"source"`
	Start     string    `json:"start"`
	End       string    `json:"end"`
	FetchedAt time.Time `json:"fetched_at"`
}

// RawSeries is one symbol's downloaded price history, persisted one file per
// symbol. Written once by the fetcher; the assembler only reads it.
type RawSeries struct {
	Meta Meta  `json:"meta"`
	Bars []Bar `json:"bars"`
}

// SortBars orders the bars chronologically.
func (s *RawSeries) SortBars() {
	sort.Slice(s.Bars, func(i, j int) bool { return s.Bars[i].Date.Before(s.Bars[j].Date) })
}

// MinDate returns the earliest bar date, or the zero time for an empty series.
func (s *RawSeries) MinDate() time.Time {
	var min time.Time
	for _, b := range s.Bars {
		if min.IsZero() || b.Date.Before(min) {
			min = b.Date
		}
	}
	return Day(min)
}

// MaxDate returns the latest bar date, or the zero time for an empty series.
func (s *RawSeries) MaxDate() time.Time {
	var max time.Time
	for _, b := range s.Bars {
		if b.Date.After(max) {
			max = b.Date
		}
	}
	return Day(max)
}

// Day truncates t to its UTC calendar date.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
