package portfolio

import (
	"math"
	"sort"
	"time"

	"github.com/bobmcallan/planlens/internal/models"
)

// xirrMinRate keeps 1+r positive so fractional powers stay real.
const xirrMinRate = -0.99

// CalculateXIRR computes the money-weighted annualised return of a set of
// contributions (negative amounts) valued at terminalValue on terminalDate,
// using Newton-Raphson.
//
// Returns the rate as a percentage, or 0 when it cannot be computed: fewer than
// two flows, a flat or non-finite step, or no convergence within
// cfg.XIRRMaxIterations. Convergence is an absolute NPV tolerance in currency units.
func CalculateXIRR(flows []models.CashFlow, terminalValue float64, terminalDate time.Time, cfg models.MetricsConfig) float64 {
	all := make([]models.CashFlow, 0, len(flows)+1)
	all = append(all, flows...)
	all = append(all, models.CashFlow{Date: terminalDate, Amount: terminalValue})
	if len(all) < 2 {
		return 0
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Date.Before(all[j].Date)
	})

	rate, ok := solveXIRR(all, cfg)
	if !ok {
		return 0
	}
	return rate * 100
}

// solveXIRR finds r with sum(amount_i / (1+r)^years_i) = 0, where years_i is
// days since the first flow over 365. Flows must be sorted by date.
func solveXIRR(flows []models.CashFlow, cfg models.MetricsConfig) (float64, bool) {
	base := flows[0].Date
	years := make([]float64, len(flows))
	for i, f := range flows {
		years[i] = models.YearsBetween(base, f.Date)
	}

	rate := cfg.XIRRInitialGuess
	for iter := 0; iter < cfg.XIRRMaxIterations; iter++ {
		if rate < xirrMinRate {
			rate = xirrMinRate
		}

		npv, dnpv := 0.0, 0.0
		for i, f := range flows {
			discount := math.Pow(1+rate, years[i])
			npv += f.Amount / discount
			dnpv -= years[i] * f.Amount / (discount * (1 + rate))
		}

		if math.Abs(npv) < cfg.XIRRTolerance {
			return rate, true
		}
		if dnpv == 0 || math.IsNaN(dnpv) {
			return 0, false
		}

		next := rate - npv/dnpv
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return 0, false
		}
		rate = next
	}

	return 0, false
}
