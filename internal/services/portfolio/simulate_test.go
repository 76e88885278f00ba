package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/planlens/internal/models"
	"github.com/bobmcallan/planlens/internal/navseries"
)

func TestSimulate_SIPConcreteScenario(t *testing.T) {
	series := monthlySeries(date(2023, 1, 1), 15, 10, 11, 12, 13, 14)
	now := date(2023, 3, 20)

	res := Simulate(sip(5000, date(2023, 1, 15)), series, now)

	assert.Equal(t, 15000.0, res.TotalContributed)
	assert.InDelta(t, 5000.0/10+5000.0/11+5000.0/12, res.UnitsHeld, 1e-9)
	require.Len(t, res.CashFlows, 3)
	for _, cf := range res.CashFlows {
		assert.Equal(t, -5000.0, cf.Amount)
	}
	assert.Equal(t, date(2023, 2, 15), res.CashFlows[1].Date)
	// Valued at the newest sample, not at now.
	assert.InDelta(t, res.UnitsHeld*14, res.CurrentValue, 1e-9)
}

func TestSimulate_LumpsumIdempotent(t *testing.T) {
	series := monthlySeries(date(2023, 1, 1), 1, 10, 12, 15)
	s := lumpsum(100000, date(2023, 1, 10))
	now := date(2023, 6, 1)

	first := Simulate(s, series, now)
	second := Simulate(s, series, now)

	assert.Equal(t, first, second)
	require.Len(t, first.CashFlows, 1)
	// Purchase on the first NAV on or after Jan 10, which is Feb 1.
	assert.InDelta(t, 100000.0/12, first.UnitsHeld, 1e-9)
	assert.Equal(t, date(2023, 1, 10), first.CashFlows[0].Date)
}

func TestSimulate_DayClampInFebruary(t *testing.T) {
	series := dailySeries(date(2023, 1, 1), 500, func(i int) float64 { return 10 + float64(i)*0.01 })

	tests := []struct {
		name  string
		start models.ContributionSchedule
		want  int
	}{
		{"non-leap year", sip(1000, date(2023, 1, 31)), 28},
		{"leap year", sip(1000, date(2024, 1, 31)), 29},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := tt.start.StartDate.AddDate(0, 2, 0)
			res := Simulate(tt.start, series, now)
			require.GreaterOrEqual(t, len(res.CashFlows), 2)
			feb := res.CashFlows[1].Date
			assert.Equal(t, 2, int(feb.Month()))
			assert.Equal(t, tt.want, feb.Day())
		})
	}
}

func TestSimulate_RespectsEndDateAndToday(t *testing.T) {
	series := monthlySeries(date(2023, 1, 1), 5, 10, 10, 10, 10, 10, 10, 10, 10)

	s := sip(1000, date(2023, 1, 5))
	s.EndDate = date(2023, 3, 31)
	res := Simulate(s, series, date(2023, 8, 1))
	assert.Equal(t, 3000.0, res.TotalContributed, "stops after end date")

	open := Simulate(sip(1000, date(2023, 1, 5)), series, date(2023, 4, 4))
	assert.Equal(t, 3000.0, open.TotalContributed, "April 5 is after today")
}

func TestSimulate_EmptySeries(t *testing.T) {
	res := Simulate(sip(1000, date(2023, 1, 5)), navseries.New(nil), date(2023, 6, 1))
	assert.Equal(t, models.SimulationResult{CashFlows: []models.CashFlow{}}, res)
}

func TestSimulate_PurchaseBeyondNewestUsesNewest(t *testing.T) {
	series := monthlySeries(date(2023, 1, 1), 1, 10, 20)
	res := Simulate(sip(1000, date(2023, 1, 1)), series, date(2023, 4, 1))

	// Mar 1 and Apr 1 fall after the newest sample and buy at 20.
	assert.Equal(t, 4000.0, res.TotalContributed)
	assert.InDelta(t, 1000.0/10+3*1000.0/20, res.UnitsHeld, 1e-9)
}
