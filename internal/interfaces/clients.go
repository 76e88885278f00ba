// Package interfaces defines service contracts for planlens
package interfaces

import (
	"context"

	"github.com/bobmcallan/planlens/internal/models"
)

// NAVProvider is the upstream mutual fund data source (mfapi.in)
type NAVProvider interface {
	// GetNAVHistory retrieves a fund's metadata and full NAV history
	GetNAVHistory(ctx context.Context, schemeCode string) (*models.FundNAV, error)

	// SearchFunds finds schemes whose name matches query
	SearchFunds(ctx context.Context, query string) ([]models.FundSearchResult, error)
}
