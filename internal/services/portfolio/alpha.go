package portfolio

import (
	"math"
	"time"

	"github.com/bobmcallan/planlens/internal/models"
	"github.com/bobmcallan/planlens/internal/navseries"
)

// CalculatePortfolioAlphaBeta derives Jensen's alpha and beta from monthly
// snapshots against their benchmark values.
//
// Each period return is netted against that month's new contributions,
// (end - start - net) / (start + net), so cash-flow timing does not read as
// performance. Period returns are linked geometrically and annualised. Alpha is
// returned as a percentage. Both results are absent when any snapshot lacks a
// benchmark value or there are fewer than cfg.MinAlphaPeriods usable periods.
func CalculatePortfolioAlphaBeta(snapshots []models.MonthlySnapshot, cfg models.MetricsConfig) (alpha, beta models.OptionalFloat) {
	if len(snapshots) < 2 {
		return models.None(), models.None()
	}
	for _, s := range snapshots {
		if !s.BenchmarkValue.Valid {
			return models.None(), models.None()
		}
	}

	var portReturns, benchReturns []float64
	for i := 1; i < len(snapshots); i++ {
		prev, cur := snapshots[i-1], snapshots[i]
		net := cur.Invested - prev.Invested

		pr, ok := nettedReturn(prev.ActualValue, cur.ActualValue, net)
		if !ok {
			continue
		}
		br, ok := nettedReturn(prev.BenchmarkValue.Value, cur.BenchmarkValue.Value, net)
		if !ok {
			continue
		}
		portReturns = append(portReturns, pr)
		benchReturns = append(benchReturns, br)
	}
	if len(portReturns) < cfg.MinAlphaPeriods || len(portReturns) < 2 {
		return models.None(), models.None()
	}

	b := betaOf(portReturns, benchReturns)
	rp := annualiseMonthly(portReturns)
	rb := annualiseMonthly(benchReturns)
	a := jensenAlpha(rp, rb, b, cfg.RiskFreeRate)
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return models.None(), models.Some(b)
	}
	return models.Some(a), models.Some(b)
}

// CalculateFundAlpha derives Jensen's alpha for a single holding from its own
// XIRR (a percentage) and the benchmark CAGR over the same span.
//
// The benchmark starts at its purchase-mode NAV on start and ends at its
// valuation-mode NAV on end. Absent without a benchmark, when the span is not
// positive, or when the benchmark has fewer than cfg.MinAlphaPeriods samples in it.
func CalculateFundAlpha(fundXIRR float64, benchmark *navseries.Series, start, end time.Time, beta float64, cfg models.MetricsConfig) models.OptionalFloat {
	if benchmark.Empty() {
		return models.None()
	}
	years := models.YearsBetween(start, end)
	if years <= 0 {
		return models.None()
	}
	if len(benchmark.Since(start)) < cfg.MinAlphaPeriods {
		return models.None()
	}

	startNAV, ok := benchmark.PurchaseValue(start)
	if !ok || startNAV <= 0 {
		return models.None()
	}
	endNAV, ok := benchmark.ValuationValue(end)
	if !ok {
		return models.None()
	}

	cagr := math.Pow(endNAV/startNAV, 1/years) - 1
	a := jensenAlpha(fundXIRR/100, cagr, beta, cfg.RiskFreeRate)
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return models.None()
	}
	return models.Some(a)
}

// jensenAlpha returns (rp - (rf + beta*(rb - rf))) * 100 for annual decimal rates.
func jensenAlpha(rp, rb, beta, rf float64) float64 {
	return (rp - (rf + beta*(rb-rf))) * 100
}

func nettedReturn(start, end, net float64) (float64, bool) {
	base := start + net
	if base <= 0 {
		return 0, false
	}
	return (end - start - net) / base, true
}

// annualiseMonthly links monthly returns and scales them to a year.
func annualiseMonthly(returns []float64) float64 {
	growth := 1.0
	for _, r := range returns {
		growth *= 1 + r
	}
	if growth <= 0 {
		return -1
	}
	return math.Pow(growth, 12/float64(len(returns))) - 1
}
