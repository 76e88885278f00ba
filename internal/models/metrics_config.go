package models

// Engine defaults.
const (
	// DefaultRiskFreeRate is the annual risk-free return used in alpha (6%).
	DefaultRiskFreeRate = 0.06
	// DefaultTradingDaysPerYear annualises daily volatility. Only correct for daily series.
	DefaultTradingDaysPerYear = 252
	DefaultXIRRMaxIterations  = 50
	// DefaultXIRRTolerance is an absolute NPV tolerance in currency units.
	DefaultXIRRTolerance        = 1.0
	DefaultXIRRInitialGuess     = 0.10
	DefaultMinVolatilitySamples = 30
	DefaultMinBetaPoints        = 30
	DefaultMinAlphaPeriods      = 6
	// MinImpactYears floors the elapsed time used to annualise plan impact.
	MinImpactYears = 0.1
)

// MetricsConfig carries the numeric assumptions of the comparison engine.
// It is passed explicitly so callers and tests can vary it.
type MetricsConfig struct {
	RiskFreeRate         float64
	TradingDaysPerYear   int
	XIRRMaxIterations    int
	XIRRTolerance        float64
	XIRRInitialGuess     float64
	MinVolatilitySamples int
	MinBetaPoints        int
	MinAlphaPeriods      int
}

// DefaultMetricsConfig returns the engine defaults.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		RiskFreeRate:         DefaultRiskFreeRate,
		TradingDaysPerYear:   DefaultTradingDaysPerYear,
		XIRRMaxIterations:    DefaultXIRRMaxIterations,
		XIRRTolerance:        DefaultXIRRTolerance,
		XIRRInitialGuess:     DefaultXIRRInitialGuess,
		MinVolatilitySamples: DefaultMinVolatilitySamples,
		MinBetaPoints:        DefaultMinBetaPoints,
		MinAlphaPeriods:      DefaultMinAlphaPeriods,
	}
}
