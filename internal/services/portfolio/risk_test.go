package portfolio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bobmcallan/planlens/internal/models"
)

func TestCalculateMaxDrawdown(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"monotonic increase", []float64{100, 101, 105, 120}, 0},
		{"recovering dip", []float64{100, 50, 100}, 50},
		{"deepest of two", []float64{100, 90, 120, 60, 130}, 50},
		{"leading zeros", []float64{0, 0, 100, 75}, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CalculateMaxDrawdown(tt.values), 1e-9)
		})
	}
}

func TestCalculateVolatility(t *testing.T) {
	cfg := models.DefaultMetricsConfig()
	start := date(2024, 1, 1)

	flat := dailySeries(start, 60, func(int) float64 { return 10 })
	assert.Equal(t, 0.0, CalculateVolatility(flat, start, cfg))

	// Alternating +1% / -1% moves.
	zigzag := dailySeries(start, 60, func(i int) float64 {
		if i%2 == 0 {
			return 100
		}
		return 101
	})
	vol := CalculateVolatility(zigzag, start, cfg)
	assert.Greater(t, vol, 10.0)
	assert.Less(t, vol, 20.0)
}

func TestCalculateVolatility_TooFewSamples(t *testing.T) {
	cfg := models.DefaultMetricsConfig()
	start := date(2024, 1, 1)
	s := dailySeries(start, 60, func(i int) float64 { return 100 + float64(i%3) })

	// Only 29 samples on or after the cut-off.
	assert.Equal(t, 0.0, CalculateVolatility(s, start.AddDate(0, 0, 31), cfg))
	assert.Greater(t, CalculateVolatility(s, start, cfg), 0.0)
}

func TestCalculateVolatility_TradingDaysConfigurable(t *testing.T) {
	start := date(2024, 1, 1)
	s := dailySeries(start, 40, func(i int) float64 { return 100 + float64(i%2) })

	daily := models.DefaultMetricsConfig()
	weekly := daily
	weekly.TradingDaysPerYear = 52

	ratio := CalculateVolatility(s, start, daily) / CalculateVolatility(s, start, weekly)
	assert.InDelta(t, math.Sqrt(252.0/52.0), ratio, 1e-9)
}

func TestCalculateBeta_NeutralBelowMinimum(t *testing.T) {
	cfg := models.DefaultMetricsConfig()
	start := date(2024, 1, 1)
	asset := dailySeries(start, 29, func(i int) float64 { return 100 + float64(i*i%7) })
	bench := dailySeries(start, 29, func(i int) float64 { return 50 + float64(i%5) })

	assert.Equal(t, 1.0, CalculateBeta(asset, bench, start, cfg))
}

func TestCalculateBeta(t *testing.T) {
	cfg := models.DefaultMetricsConfig()
	start := date(2024, 1, 1)
	bench := dailySeries(start, 60, func(i int) float64 { return 100 * math.Pow(1.01, float64(i%4)) })

	// Asset returns exactly twice the benchmark returns.
	benchSamples := bench.Since(start)
	asset := dailySeries(start, 60, func(i int) float64 {
		v := 100.0
		for j := 1; j <= i; j++ {
			r := benchSamples[j].Value/benchSamples[j-1].Value - 1
			v *= 1 + 2*r
		}
		return v
	})

	assert.InDelta(t, 2.0, CalculateBeta(asset, bench, start, cfg), 1e-9)
}

func TestCalculateBeta_FlatBenchmark(t *testing.T) {
	cfg := models.DefaultMetricsConfig()
	start := date(2024, 1, 1)
	asset := dailySeries(start, 40, func(i int) float64 { return 100 + float64(i%3) })
	bench := dailySeries(start, 40, func(int) float64 { return 100 })

	assert.Equal(t, 1.0, CalculateBeta(asset, bench, start, cfg))
}

func TestCalculateBeta_ExactDateAlignment(t *testing.T) {
	cfg := models.DefaultMetricsConfig()
	start := date(2024, 1, 1)
	asset := dailySeries(start, 40, func(i int) float64 { return 100 + float64(i%3) })
	// Benchmark shifted by half a month shares only 25 dates with the asset.
	bench := dailySeries(start.AddDate(0, 0, 15), 40, func(i int) float64 { return 100 + float64(i%4) })

	assert.Equal(t, 1.0, CalculateBeta(asset, bench, start, cfg))
}

func TestCalculateRoMaD(t *testing.T) {
	assert.Equal(t, 2.0, CalculateRoMaD(20, 10))
	assert.Equal(t, 100.0, CalculateRoMaD(5, 0))
	assert.Equal(t, 0.0, CalculateRoMaD(-5, 0))
	assert.Equal(t, 0.0, CalculateRoMaD(0, 0))
}

func TestCalculatePlanImpact(t *testing.T) {
	net, annual := CalculatePlanImpact(120000, 110000, date(2022, 1, 1), date(2024, 1, 1))
	assert.Equal(t, 10000.0, net)
	assert.InDelta(t, 10000.0/(730.0/365.0), annual, 1e-9)

	// Young portfolios floor elapsed time at 0.1 years.
	net, annual = CalculatePlanImpact(1010, 1000, date(2024, 1, 1), date(2024, 1, 2))
	assert.Equal(t, 10.0, net)
	assert.InDelta(t, 100.0, annual, 1e-9)
}
