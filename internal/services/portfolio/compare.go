package portfolio

import (
	"fmt"
	"time"

	"github.com/bobmcallan/planlens/internal/models"
	"github.com/bobmcallan/planlens/internal/navseries"
)

// ComputeComparison runs the full Direct vs Regular comparison for a set of
// resolved investments. It performs no I/O; benchmark may be nil.
//
// Fund and portfolio totals come from Simulate against each investment's own
// series. Drawdown, RoMaD and portfolio alpha/beta come from the monthly
// snapshots. Missing data degrades to zero or absent values and a warning.
func ComputeComparison(investments []ResolvedInvestment, benchmark *navseries.Series, now time.Time, cfg models.MetricsConfig) models.Comparison {
	now = models.Day(now)
	hasBenchmark := !benchmark.Empty()

	result := models.Comparison{
		Funds:      make([]models.FundMetrics, 0, len(investments)),
		ComputedAt: now,
	}

	var (
		allFlows []models.CashFlow
		earliest time.Time
		m        models.PortfolioMetrics
	)

	for _, inv := range investments {
		fund := computeFund(inv, benchmark, now, cfg)
		result.Funds = append(result.Funds, fund)

		if inv.Primary.Empty() {
			result.Warnings = append(result.Warnings, fmt.Sprintf("no NAV history for %s", fund.Name))
			continue
		}
		if inv.Counterpart.Empty() {
			result.Warnings = append(result.Warnings, fmt.Sprintf("no %s plan counterpart for %s; impact assumed zero", inv.Investment.Plan.Counterpart(), fund.Name))
		}

		allFlows = append(allFlows, Simulate(inv.Schedule, inv.Primary, now).CashFlows...)
		m.TotalInvested += fund.Invested
		m.ActualValue += fund.CurrentValue
		m.CounterpartValue += fund.CounterpartValue
		if earliest.IsZero() || inv.Schedule.StartDate.Before(earliest) {
			earliest = inv.Schedule.StartDate
		}
	}

	result.Snapshots = AggregateMonthly(investments, benchmark, now)

	if !earliest.IsZero() {
		m.NetImpact, m.AnnualizedImpact = CalculatePlanImpact(m.ActualValue, m.CounterpartValue, earliest, now)
	}
	if len(allFlows) > 0 {
		m.XIRR = CalculateXIRR(allFlows, m.ActualValue, now, cfg)
	}
	m.AbsoluteReturn = absoluteReturn(m.ActualValue, m.TotalInvested)

	values := make([]float64, len(result.Snapshots))
	for i, s := range result.Snapshots {
		values[i] = s.ActualValue
	}
	m.MaxDrawdownPct = CalculateMaxDrawdown(values)
	m.RoMaD = CalculateRoMaD(m.XIRR, m.MaxDrawdownPct)

	if hasBenchmark {
		m.Alpha, m.Beta = CalculatePortfolioAlphaBeta(result.Snapshots, cfg)
		if !m.Alpha.Valid {
			result.Warnings = append(result.Warnings, fmt.Sprintf("fewer than %d monthly periods; portfolio alpha unavailable", cfg.MinAlphaPeriods))
		}
	}

	result.Metrics = m
	return result
}

func computeFund(inv ResolvedInvestment, benchmark *navseries.Series, now time.Time, cfg models.MetricsConfig) models.FundMetrics {
	name := inv.Investment.SchemeName
	if name == "" {
		name = inv.Investment.SchemeCode
	}
	fund := models.FundMetrics{
		InvestmentID: inv.Investment.ID,
		SchemeCode:   inv.Investment.SchemeCode,
		Name:         name,
		Plan:         inv.Investment.Plan,
	}

	actual := Simulate(inv.Schedule, inv.Primary, now)
	fund.Invested = actual.TotalContributed
	fund.CurrentValue = actual.CurrentValue
	fund.CounterpartValue = actual.CurrentValue
	if !inv.Counterpart.Empty() {
		fund.CounterpartValue = Simulate(inv.Schedule, inv.Counterpart, now).CurrentValue
	}
	fund.Impact = fund.CurrentValue - fund.CounterpartValue

	if inv.Primary.Empty() {
		return fund
	}

	fund.XIRR = CalculateXIRR(actual.CashFlows, actual.CurrentValue, now, cfg)
	fund.Volatility = CalculateVolatility(inv.Primary, inv.Schedule.StartDate, cfg)

	if !benchmark.Empty() {
		beta := CalculateBeta(inv.Primary, benchmark, inv.Schedule.StartDate, cfg)
		fund.Beta = models.Some(beta)
		fund.Alpha = CalculateFundAlpha(fund.XIRR, benchmark, inv.Schedule.StartDate, now, beta, cfg)
	}
	return fund
}
