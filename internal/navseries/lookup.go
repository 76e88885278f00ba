package navseries

import (
	"sort"
	"time"

	"github.com/bobmcallan/planlens/internal/models"
)

// Lookup resolves the NAV that applies on target under the given mode.
// The bool is false when no value applies (see Purchase and Valuation).
func (s *Series) Lookup(target time.Time, mode Mode) (float64, bool) {
	if s.Empty() {
		return 0, false
	}
	target = models.Day(target)

	// First index with date >= target.
	i := sort.Search(len(s.dates), func(i int) bool { return !s.dates[i].Before(target) })

	switch mode {
	case Purchase:
		if i == len(s.dates) {
			return s.values[len(s.values)-1], true
		}
		return s.values[i], true
	default:
		if i < len(s.dates) && s.dates[i].Equal(target) {
			return s.values[i], true
		}
		if i == 0 {
			return 0, false
		}
		return s.values[i-1], true
	}
}

// PurchaseValue is Lookup in Purchase mode.
func (s *Series) PurchaseValue(target time.Time) (float64, bool) {
	return s.Lookup(target, Purchase)
}

// ValuationValue is Lookup in Valuation mode.
func (s *Series) ValuationValue(target time.Time) (float64, bool) {
	return s.Lookup(target, Valuation)
}
