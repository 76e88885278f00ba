// Package interfaces defines service contracts for planlens
package interfaces

import (
	"context"

	"github.com/bobmcallan/planlens/internal/models"
)

// StorageManager coordinates all storage backends
type StorageManager interface {
	PortfolioStore() PortfolioStore
	NAVStore() NAVStore

	// Lifecycle
	Close() error
}

// PortfolioStore persists user portfolios keyed by name.
type PortfolioStore interface {
	// GetPortfolio returns models.ErrPortfolioNotFound (wrapped) when absent.
	GetPortfolio(ctx context.Context, name string) (*models.Portfolio, error)
	SavePortfolio(ctx context.Context, portfolio *models.Portfolio) error
	// ListPortfolios returns portfolio names, sorted.
	ListPortfolios(ctx context.Context) ([]string, error)
	DeletePortfolio(ctx context.Context, name string) error
}

// NAVStore caches provider NAV histories keyed by scheme code.
type NAVStore interface {
	// GetNAV returns (nil, nil) when nothing is cached.
	GetNAV(ctx context.Context, schemeCode string) (*models.FundNAV, error)
	SaveNAV(ctx context.Context, nav *models.FundNAV) error
}
