package portfolio

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/bobmcallan/planlens/internal/models"
	"github.com/bobmcallan/planlens/internal/navseries"
)

// CalculateVolatility returns the annualised standard deviation of
// period-over-period NAV returns since the given date, as a percentage.
//
// Annualisation multiplies by sqrt(cfg.TradingDaysPerYear), which is only
// meaningful for a daily series. Returns 0 below cfg.MinVolatilitySamples samples.
func CalculateVolatility(series *navseries.Series, since time.Time, cfg models.MetricsConfig) float64 {
	samples := series.Since(since)
	if len(samples) < cfg.MinVolatilitySamples {
		return 0
	}

	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.Value
	}
	returns := periodReturns(values)
	if len(returns) < 2 {
		return 0
	}

	return stat.StdDev(returns, nil) * math.Sqrt(float64(cfg.TradingDaysPerYear)) * 100
}

// CalculateMaxDrawdown returns the largest peak-to-trough decline of a value
// sequence as a percentage of the peak. Empty input returns 0.
func CalculateMaxDrawdown(values []float64) float64 {
	peak, maxDD := 0.0, 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak <= 0 {
			continue
		}
		if dd := (peak - v) / peak; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD * 100
}

// CalculateBeta returns cov(asset, benchmark) / var(benchmark) over returns of
// the dates present in both series on or after since.
//
// Fewer than cfg.MinBetaPoints aligned dates, or a flat benchmark, yields the
// neutral beta of 1.
func CalculateBeta(asset, benchmark *navseries.Series, since time.Time, cfg models.MetricsConfig) float64 {
	var assetValues, benchValues []float64
	for _, s := range asset.Since(since) {
		b, ok := benchmark.At(s.Date)
		if !ok {
			continue
		}
		assetValues = append(assetValues, s.Value)
		benchValues = append(benchValues, b)
	}
	if len(assetValues) < cfg.MinBetaPoints || len(assetValues) < 3 {
		return 1
	}

	return betaOf(periodReturns(assetValues), periodReturns(benchValues))
}

func betaOf(asset, bench []float64) float64 {
	variance := stat.Variance(bench, nil)
	if variance == 0 || math.IsNaN(variance) {
		return 1
	}
	return stat.Covariance(asset, bench, nil) / variance
}

// periodReturns converts a value sequence into simple returns. A non-positive
// start value yields a zero return for that period.
func periodReturns(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] > 0 {
			out[i-1] = values[i]/values[i-1] - 1
		}
	}
	return out
}

// CalculateRoMaD returns return over maximum drawdown. Without a drawdown it is
// 100 for a positive return and 0 otherwise.
func CalculateRoMaD(xirr, maxDrawdownPct float64) float64 {
	if maxDrawdownPct > 0 {
		return xirr / maxDrawdownPct
	}
	if xirr > 0 {
		return 100
	}
	return 0
}
