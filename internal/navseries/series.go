// Package navseries holds per-fund NAV histories and resolves the value that
// applies on a given calendar date.
package navseries

import (
	"sort"
	"time"

	"github.com/bobmcallan/planlens/internal/models"
)

// Mode selects how a date without its own sample resolves.
type Mode int

const (
	// Purchase uses the first NAV on or after the date (settlement at the next
	// published price). Past the newest sample it falls back to the newest value.
	Purchase Mode = iota
	// Valuation uses the latest NAV on or before the date (mark to market).
	Valuation
)

func (m Mode) String() string {
	if m == Purchase {
		return "purchase"
	}
	return "valuation"
}

// Series is an immutable, ascending-by-date NAV history with unique dates.
// The zero value and nil are both empty series.
type Series struct {
	dates  []time.Time
	values []float64
}

// New builds a Series from samples in any order. Dates are truncated to the
// calendar day; when a date repeats, the later sample in the input wins.
func New(samples []models.NAVSample) *Series {
	byDay := make(map[time.Time]int, len(samples))
	s := &Series{
		dates:  make([]time.Time, 0, len(samples)),
		values: make([]float64, 0, len(samples)),
	}
	for _, smp := range samples {
		day := models.Day(smp.Date)
		if i, ok := byDay[day]; ok {
			s.values[i] = smp.Value
			continue
		}
		byDay[day] = len(s.dates)
		s.dates = append(s.dates, day)
		s.values = append(s.values, smp.Value)
	}
	sort.Sort(chronological{s})
	return s
}

// FromFund builds a Series from a provider NAV history; nil yields an empty series.
func FromFund(f *models.FundNAV) *Series {
	if f == nil {
		return &Series{}
	}
	return New(f.Samples)
}

type chronological struct{ *Series }

func (c chronological) Len() int           { return len(c.dates) }
func (c chronological) Less(i, j int) bool { return c.dates[i].Before(c.dates[j]) }
func (c chronological) Swap(i, j int) {
	c.dates[i], c.dates[j] = c.dates[j], c.dates[i]
	c.values[i], c.values[j] = c.values[j], c.values[i]
}

// Len returns the number of samples.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.dates)
}

// Empty reports whether the series has no samples.
func (s *Series) Empty() bool { return s.Len() == 0 }

// Oldest returns the earliest sample.
func (s *Series) Oldest() (models.NAVSample, bool) {
	if s.Empty() {
		return models.NAVSample{}, false
	}
	return models.NAVSample{Date: s.dates[0], Value: s.values[0]}, true
}

// Newest returns the latest sample.
func (s *Series) Newest() (models.NAVSample, bool) {
	if s.Empty() {
		return models.NAVSample{}, false
	}
	last := len(s.dates) - 1
	return models.NAVSample{Date: s.dates[last], Value: s.values[last]}, true
}

// At returns the value recorded exactly on day.
func (s *Series) At(day time.Time) (float64, bool) {
	if s.Empty() {
		return 0, false
	}
	day = models.Day(day)
	i := sort.Search(len(s.dates), func(i int) bool { return !s.dates[i].Before(day) })
	if i < len(s.dates) && s.dates[i].Equal(day) {
		return s.values[i], true
	}
	return 0, false
}

// Since returns the samples dated on or after from, ascending.
func (s *Series) Since(from time.Time) []models.NAVSample {
	if s.Empty() {
		return nil
	}
	from = models.Day(from)
	i := sort.Search(len(s.dates), func(i int) bool { return !s.dates[i].Before(from) })
	out := make([]models.NAVSample, 0, len(s.dates)-i)
	for ; i < len(s.dates); i++ {
		out = append(out, models.NAVSample{Date: s.dates[i], Value: s.values[i]})
	}
	return out
}
