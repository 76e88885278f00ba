package portfolio

import (
	"math"
	"time"

	"github.com/bobmcallan/planlens/internal/models"
)

// CalculatePlanImpact returns what holding the actual plans gained (or lost)
// against holding their counterparts, in total and per year since start.
// Elapsed time is floored at models.MinImpactYears.
func CalculatePlanImpact(actualValue, counterpartValue float64, start, now time.Time) (net, annualised float64) {
	net = actualValue - counterpartValue
	years := math.Max(models.YearsBetween(start, now), models.MinImpactYears)
	return net, net / years
}

// absoluteReturn is the simple gain on invested capital, in percent.
func absoluteReturn(value, invested float64) float64 {
	if invested <= 0 {
		return 0
	}
	return (value - invested) / invested * 100
}
