// Package interfaces defines service contracts for planlens
package interfaces

import (
	"context"

	"github.com/bobmcallan/planlens/internal/models"
)

// PortfolioService manages portfolios and runs plan comparisons
type PortfolioService interface {
	GetPortfolio(ctx context.Context, name string) (*models.Portfolio, error)
	ListPortfolios(ctx context.Context) ([]string, error)
	SavePortfolio(ctx context.Context, portfolio *models.Portfolio) (*models.Portfolio, error)
	DeletePortfolio(ctx context.Context, name string) error

	// AddInvestment validates inv, assigns it an ID and appends it to the portfolio
	AddInvestment(ctx context.Context, name string, inv models.Investment) (*models.Portfolio, error)

	// RemoveInvestment removes the investment with the given ID
	RemoveInvestment(ctx context.Context, name, investmentID string) (*models.Portfolio, error)

	// Compare replays the portfolio against actual and counterpart NAV histories
	Compare(ctx context.Context, name string, options CompareOptions) (*models.Comparison, error)
}

// CompareOptions configures a comparison
type CompareOptions struct {
	// BenchmarkCode overrides the portfolio's saved benchmark when set
	BenchmarkCode string
}

// MarketService serves NAV data with caching and resolves plan counterparts
type MarketService interface {
	// GetFund returns a fund's NAV history, from cache when fresh
	GetFund(ctx context.Context, schemeCode string) (*models.FundNAV, error)

	// SearchFunds finds schemes by name
	SearchFunds(ctx context.Context, query string) ([]models.FundSearchResult, error)

	// ResolveCounterpart finds the sibling Direct/Regular listing of a scheme
	ResolveCounterpart(ctx context.Context, schemeCode string) (*models.CounterpartMatch, error)
}
