package portfolio

import (
	"time"

	"github.com/bobmcallan/planlens/internal/models"
	"github.com/bobmcallan/planlens/internal/navseries"
)

// PeriodLayout formats MonthlySnapshot.Period.
const PeriodLayout = "Jan 2006"

// ResolvedInvestment is an investment with its parsed schedule and the NAV
// series it will be replayed against. Counterpart may be nil when the sibling
// plan is unknown or could not be fetched.
type ResolvedInvestment struct {
	Investment  models.Investment
	Schedule    models.ContributionSchedule
	Primary     *navseries.Series
	Counterpart *navseries.Series
}

// seriesFor returns the series of the given plan.
func (r ResolvedInvestment) seriesFor(plan models.PlanType) *navseries.Series {
	if plan == r.Investment.Plan {
		return r.Primary
	}
	return r.Counterpart
}

// hasData reports whether the held plan has NAV history. An investment without
// it is left out of snapshots and portfolio totals alike.
func (r ResolvedInvestment) hasData() bool {
	return !r.Primary.Empty()
}

// scenarioUnits holds one investment's running balances across the fixed set of
// scenarios: all-direct units, all-regular units, benchmark units and cash invested.
type scenarioUnits struct {
	direct    float64
	regular   float64
	benchmark float64
	invested  float64
}

// AggregateMonthly replays every investment month by month from the earliest
// start date through the month containing now and returns one snapshot per
// month once anything has been invested.
//
// Units are tracked for the direct and the regular plan of every investment
// regardless of which one is held, so actual and counterpart totals always come
// from the same contributions. An investment without a counterpart series values
// its counterpart at the actual value; one without a series for its own plan is
// skipped.
func AggregateMonthly(investments []ResolvedInvestment, benchmark *navseries.Series, now time.Time) []models.MonthlySnapshot {
	var active []ResolvedInvestment
	for _, inv := range investments {
		if inv.hasData() {
			active = append(active, inv)
		}
	}
	if len(active) == 0 {
		return []models.MonthlySnapshot{}
	}

	today := models.Day(now)
	earliest := active[0].Schedule.StartDate
	for _, inv := range active[1:] {
		if inv.Schedule.StartDate.Before(earliest) {
			earliest = inv.Schedule.StartDate
		}
	}

	units := make([]scenarioUnits, len(active))
	var snapshots []models.MonthlySnapshot
	prevInvested := 0.0

	eachMonth(earliest, today, func(month time.Time) {
		valueDate := models.MonthEnd(month)
		if valueDate.After(today) {
			valueDate = today
		}

		snap := models.MonthlySnapshot{
			Period: month.Format(PeriodLayout),
			Date:   valueDate,
		}
		invested := 0.0
		benchValue := 0.0

		for i, inv := range active {
			u := &units[i]
			s := inv.Schedule

			if date, ok := postingDate(s, month.Year(), month.Month(), today); ok && s.Amount > 0 {
				u.invested += s.Amount
				u.direct += unitsBought(inv.seriesFor(models.PlanDirect), date, s.Amount)
				u.regular += unitsBought(inv.seriesFor(models.PlanRegular), date, s.Amount)
				u.benchmark += unitsBought(benchmark, date, s.Amount)
			}
			invested += u.invested

			direct := valueAt(inv.seriesFor(models.PlanDirect), valueDate, u.direct)
			regular := valueAt(inv.seriesFor(models.PlanRegular), valueDate, u.regular)
			snap.DirectValue += direct
			snap.RegularValue += regular

			actual, counterpart := direct, regular
			if inv.Investment.Plan == models.PlanRegular {
				actual, counterpart = regular, direct
			}
			if inv.Counterpart.Empty() {
				counterpart = actual
			}
			snap.ActualValue += actual
			snap.CounterpartValue += counterpart

			benchValue += valueAt(benchmark, valueDate, u.benchmark)
		}

		if invested <= 0 {
			return
		}
		snap.Invested = invested
		snap.NetContribution = invested - prevInvested
		prevInvested = invested
		if !benchmark.Empty() {
			snap.BenchmarkValue = models.Some(benchValue)
		}
		snapshots = append(snapshots, snap)
	})

	if snapshots == nil {
		return []models.MonthlySnapshot{}
	}
	return snapshots
}

func unitsBought(series *navseries.Series, date time.Time, amount float64) float64 {
	nav, ok := series.PurchaseValue(date)
	if !ok || nav <= 0 {
		return 0
	}
	return amount / nav
}

func valueAt(series *navseries.Series, date time.Time, units float64) float64 {
	if units == 0 {
		return 0
	}
	nav, ok := series.ValuationValue(date)
	if !ok {
		return 0
	}
	return units * nav
}
