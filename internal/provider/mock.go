package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"TickerVault/internal/model"
)

// Mock returns controllable fixed data for development and testing.
type Mock struct {
	mu    sync.Mutex
	Bars  map[string][]model.Bar
	Fail  map[string]int // failures to simulate per symbol before succeeding
	Calls map[string]int
}

func (m *Mock) Name() string { return "mock" }

func (m *Mock) FetchHistory(_ context.Context, symbol string, start, end time.Time) ([]model.Bar, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Calls == nil {
		m.Calls = make(map[string]int)
	}
	m.Calls[symbol]++

	if n := m.Fail[symbol]; n > 0 {
		m.Fail[symbol] = n - 1
		return nil, fmt.Errorf("mock: simulated failure for %s", symbol)
	}

	var bars []model.Bar
	for _, b := range m.Bars[symbol] {
		if b.Date.Before(model.Day(start)) || b.Date.After(model.Day(end)) {
			continue
		}
		bars = append(bars, b)
	}
	if len(bars) == 0 {
		return nil, ErrNoData
	}
	return bars, nil
}

// GenerateBars produces count consecutive business-day bars starting at start,
// with prices drifting around basePrice.
func GenerateBars(basePrice float64, start time.Time, count int) []model.Bar {
	bars := make([]model.Bar, 0, count)
	d := model.Day(start)
	for len(bars) < count {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			i := len(bars)
			p := basePrice * (1 + float64(i-count/2)*0.001)
			bars = append(bars, model.Bar{
				Date:   d,
				Open:   p * 0.999,
				High:   p * 1.005,
				Low:    p * 0.995,
				Close:  p,
				Volume: 1000000,
			})
		}
		d = d.AddDate(0, 0, 1)
	}
	return bars
}
