package portfolio

import (
	"time"

	"github.com/bobmcallan/planlens/internal/models"
	"github.com/bobmcallan/planlens/internal/navseries"
)

// Simulate replays a contribution schedule against one NAV series.
//
// Each contribution buys at the purchase-mode NAV for its date. A contribution
// whose NAV cannot be resolved is skipped, not back-filled. The series alone
// decides which plan is being simulated; the same call serves the held fund and
// its counterpart.
func Simulate(s models.ContributionSchedule, series *navseries.Series, now time.Time) models.SimulationResult {
	result := models.SimulationResult{CashFlows: []models.CashFlow{}}
	if series.Empty() || s.Amount <= 0 {
		return result
	}

	buy := func(date time.Time) {
		nav, ok := series.PurchaseValue(date)
		if !ok || nav <= 0 {
			return
		}
		result.UnitsHeld += s.Amount / nav
		result.TotalContributed += s.Amount
		result.CashFlows = append(result.CashFlows, models.CashFlow{Date: date, Amount: -s.Amount})
	}

	if s.Type == models.ContributionLumpsum {
		buy(models.Day(s.StartDate))
	} else {
		eachMonth(s.StartDate, now, func(month time.Time) {
			if date, ok := postingDate(s, month.Year(), month.Month(), now); ok {
				buy(date)
			}
		})
	}

	if newest, ok := series.Newest(); ok {
		result.CurrentValue = result.UnitsHeld * newest.Value
	}
	return result
}
