package models

import "time"

// CashFlow is a dated, signed amount from the investor's perspective.
// Negative values are contributions; positive values are inflows (terminal value).
type CashFlow struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

// SimulationResult is the outcome of replaying one schedule against one NAV series.
type SimulationResult struct {
	UnitsHeld        float64    `json:"units_held"`
	TotalContributed float64    `json:"total_contributed"`
	CashFlows        []CashFlow `json:"cash_flows"`
	CurrentValue     float64    `json:"current_value"`
}

// MonthlySnapshot is the portfolio state at one month end (or today for the current month).
type MonthlySnapshot struct {
	Period           string        `json:"period"`
	Date             time.Time     `json:"date"`
	ActualValue      float64       `json:"actual_value"`
	CounterpartValue float64       `json:"counterpart_value"`
	DirectValue      float64       `json:"direct_value"`
	RegularValue     float64       `json:"regular_value"`
	Invested         float64       `json:"invested"`
	NetContribution  float64       `json:"net_contribution"`
	BenchmarkValue   OptionalFloat `json:"benchmark_value"`
}

// PortfolioMetrics are the portfolio-level comparison results.
type PortfolioMetrics struct {
	TotalInvested    float64       `json:"total_invested"`
	ActualValue      float64       `json:"actual_value"`
	CounterpartValue float64       `json:"counterpart_value"`
	NetImpact        float64       `json:"net_impact"`
	AnnualizedImpact float64       `json:"annualized_impact"`
	XIRR             float64       `json:"xirr"`
	AbsoluteReturn   float64       `json:"absolute_return"`
	MaxDrawdownPct   float64       `json:"max_drawdown_pct"`
	RoMaD            float64       `json:"romad"`
	Alpha            OptionalFloat `json:"alpha"`
	Beta             OptionalFloat `json:"beta"`
}

// FundMetrics are the per-investment results.
type FundMetrics struct {
	InvestmentID     string        `json:"investment_id"`
	SchemeCode       string        `json:"scheme_code"`
	Name             string        `json:"name"`
	Plan             PlanType      `json:"plan"`
	Invested         float64       `json:"invested"`
	CurrentValue     float64       `json:"current_value"`
	CounterpartValue float64       `json:"counterpart_value"`
	Impact           float64       `json:"impact"`
	XIRR             float64       `json:"xirr"`
	Volatility       float64       `json:"volatility"`
	Beta             OptionalFloat `json:"beta"`
	Alpha            OptionalFloat `json:"alpha"`
}

// Comparison is the full answer for one portfolio.
type Comparison struct {
	PortfolioName string            `json:"portfolio_name"`
	BenchmarkCode string            `json:"benchmark_code,omitempty"`
	Metrics       PortfolioMetrics  `json:"metrics"`
	Funds         []FundMetrics     `json:"funds"`
	Snapshots     []MonthlySnapshot `json:"snapshots"`
	Warnings      []string          `json:"warnings,omitempty"`
	ComputedAt    time.Time         `json:"computed_at"`
}

// CounterpartMatch pairs a fund with its sibling plan listing.
type CounterpartMatch struct {
	Primary     FundSearchResult `json:"primary"`
	PrimaryPlan PlanType         `json:"primary_plan"`
	Counterpart FundSearchResult `json:"counterpart"`
}
